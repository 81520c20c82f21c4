package web

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/erazemk/nayzak/internal/api"
	"github.com/erazemk/nayzak/internal/model"
)

// recentCount is the number of recent cars shown on the dashboard.
const recentCount = 5

var timeNow = time.Now

// carFormData is the data of the create and edit car forms.
type carFormData struct {
	PageData
	Car          *model.Listing
	Input        model.ListingInput
	FieldErrors  map[string]string
	Makes        []model.Option
	FuelTypes    []model.Option
	Transmission []model.Option
	BodyTypes    []model.Option
	Conditions   []model.Option
	Statuses     []model.Option
	Colors       []model.Option
	Cities       []model.Option
	Years        []int
}

func (s *Server) carForm(r *http.Request, car *model.Listing, in model.ListingInput) *carFormData {
	title := "إضافة سيارة جديدة"
	if car != nil {
		title = "تعديل السيارة"
	}
	return &carFormData{
		PageData:     PageData{Title: title, User: GetWebClaims(r.Context())},
		Car:          car,
		Input:        in,
		FieldErrors:  map[string]string{},
		Makes:        model.Makes,
		FuelTypes:    model.FuelTypes,
		Transmission: model.Transmissions,
		BodyTypes:    model.BodyTypes,
		Conditions:   model.Conditions,
		Statuses:     model.Statuses,
		Colors:       model.Colors,
		Cities:       model.Cities,
		Years:        yearOptions(),
	}
}

// Dashboard handles GET /admin.
func (s *Server) Dashboard(w http.ResponseWriter, r *http.Request) {
	id := webIdentity(r)

	stats, err := s.Service.Stats(r.Context(), id)
	if err != nil {
		slog.Error("failed to get stats for dashboard", "error", err)
		stats = &model.Stats{}
	}
	recent, err := s.Service.Recent(r.Context(), recentCount, id)
	if err != nil {
		slog.Error("failed to list recent cars for dashboard", "error", err)
	}

	s.Templates.Render(w, "admin_dashboard.html", &struct {
		PageData
		Stats  *model.Stats
		Recent []model.Listing
	}{
		PageData: PageData{Title: "لوحة التحكم", User: GetWebClaims(r.Context())},
		Stats:    stats,
		Recent:   recent,
	})
}

// CarsAdminPage handles GET /admin/cars. Admins see cars of every status
// unless they filter by one.
func (s *Server) CarsAdminPage(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page, err := s.Service.List(r.Context(), api.ParseCriteria(q), webIdentity(r))
	if err != nil {
		slog.Error("failed to list cars", "error", err)
		s.errorPage(w, r, http.StatusInternalServerError, "تعذر تحميل السيارات.")
		return
	}

	s.Templates.Render(w, "admin_cars.html", &struct {
		PageData
		Page     *model.Page
		Filters  url.Values
		Pager    pager
		Statuses []model.Option
		Cities   []model.Option
		Makes    []model.Option
	}{
		PageData: PageData{Title: "إدارة السيارات", User: GetWebClaims(r.Context()), Success: successMessage(q.Get("done"))},
		Page:     page,
		Filters:  q,
		Pager:    newPager("/admin/cars", q, page.Page, page.TotalPages),
		Statuses: model.Statuses,
		Cities:   model.Cities,
		Makes:    model.Makes,
	})
}

// CarNewPage handles GET /admin/cars/new.
func (s *Server) CarNewPage(w http.ResponseWriter, r *http.Request) {
	in := model.ListingInput{
		Year:      timeNow().Year(),
		Condition: model.ConditionUsed,
		Status:    model.StatusDraft,
	}
	s.Templates.Render(w, "admin_car_form.html", s.carForm(r, nil, in))
}

// CarCreateSubmit handles POST /admin/cars/new.
func (s *Server) CarCreateSubmit(w http.ResponseWriter, r *http.Request) {
	if err := parseCarForm(w, r); err != nil {
		s.errorPage(w, r, http.StatusBadRequest, "حجم البيانات المرسلة كبير جدًا.")
		return
	}

	in, fieldErrors := listingInputFromForm(r)
	form := s.carForm(r, nil, in)
	if len(fieldErrors) > 0 {
		s.renderFormErrors(w, form, fieldErrors)
		return
	}

	newURLs, err := s.storeUploads(r.Context(), r)
	if err != nil {
		form.Error = err.Error()
		s.Templates.RenderStatus(w, http.StatusBadRequest, "admin_car_form.html", form)
		return
	}

	if _, err := s.Service.Create(r.Context(), in, imageInputs(r, newURLs), webIdentity(r)); err != nil {
		s.deleteImages(context.WithoutCancel(r.Context()), newURLs)
		s.mutationError(w, r, form, err)
		return
	}

	http.Redirect(w, r, "/admin/cars?done=created", http.StatusSeeOther)
}

// CarEditPage handles GET /admin/cars/{id}/edit.
func (s *Server) CarEditPage(w http.ResponseWriter, r *http.Request) {
	car, ok := s.loadCar(w, r)
	if !ok {
		return
	}
	s.Templates.Render(w, "admin_car_form.html", s.carForm(r, car, model.InputFromListing(car)))
}

// CarUpdateSubmit handles POST /admin/cars/{id}/edit. Images the admin
// unticked are removed from storage once the update is committed.
func (s *Server) CarUpdateSubmit(w http.ResponseWriter, r *http.Request) {
	car, ok := s.loadCar(w, r)
	if !ok {
		return
	}
	if err := parseCarForm(w, r); err != nil {
		s.errorPage(w, r, http.StatusBadRequest, "حجم البيانات المرسلة كبير جدًا.")
		return
	}

	in, fieldErrors := listingInputFromForm(r)
	form := s.carForm(r, car, in)
	if len(fieldErrors) > 0 {
		s.renderFormErrors(w, form, fieldErrors)
		return
	}

	newURLs, err := s.storeUploads(r.Context(), r)
	if err != nil {
		form.Error = err.Error()
		s.Templates.RenderStatus(w, http.StatusBadRequest, "admin_car_form.html", form)
		return
	}

	images := imageInputs(r, newURLs)
	if _, err := s.Service.Update(r.Context(), car.ID, in, images, webIdentity(r)); err != nil {
		s.deleteImages(context.WithoutCancel(r.Context()), newURLs)
		s.mutationError(w, r, form, err)
		return
	}

	s.deleteImages(context.WithoutCancel(r.Context()), removedImages(car.Images, images))
	http.Redirect(w, r, "/admin/cars?done=updated", http.StatusSeeOther)
}

// CarDeleteSubmit handles POST /admin/cars/{id}/delete.
func (s *Server) CarDeleteSubmit(w http.ResponseWriter, r *http.Request) {
	car, ok := s.loadCar(w, r)
	if !ok {
		return
	}

	if err := s.Service.Delete(r.Context(), car.ID, webIdentity(r)); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			s.errorPage(w, r, http.StatusNotFound, "السيارة غير موجودة.")
			return
		}
		slog.Error("failed to delete car", "car", car.ID, "error", err)
		s.errorPage(w, r, http.StatusInternalServerError, "حدث خطأ أثناء حذف السيارة.")
		return
	}

	urls := make([]string, len(car.Images))
	for i, img := range car.Images {
		urls[i] = img.URL
	}
	s.deleteImages(context.WithoutCancel(r.Context()), urls)
	http.Redirect(w, r, "/admin/cars?done=deleted", http.StatusSeeOther)
}

// loadCar fetches the car named in the path, rendering an error page and
// returning false if it cannot.
func (s *Server) loadCar(w http.ResponseWriter, r *http.Request) (*model.Listing, bool) {
	car, err := s.Service.Get(r.Context(), r.PathValue("id"), webIdentity(r))
	if errors.Is(err, model.ErrNotFound) {
		s.errorPage(w, r, http.StatusNotFound, "السيارة غير موجودة.")
		return nil, false
	}
	if err != nil {
		slog.Error("failed to get car", "car", r.PathValue("id"), "error", err)
		s.errorPage(w, r, http.StatusInternalServerError, "تعذر تحميل السيارة.")
		return nil, false
	}
	return car, true
}

func (s *Server) renderFormErrors(w http.ResponseWriter, form *carFormData, fieldErrors map[string]string) {
	form.FieldErrors = fieldErrors
	form.Error = "يرجى تصحيح الحقول المحددة."
	s.Templates.RenderStatus(w, http.StatusBadRequest, "admin_car_form.html", form)
}

// mutationError renders the outcome of a failed create or update.
func (s *Server) mutationError(w http.ResponseWriter, r *http.Request, form *carFormData, err error) {
	var verr *model.ValidationError
	switch {
	case errors.As(err, &verr):
		s.renderFormErrors(w, form, validationMessages(verr))
	case errors.Is(err, model.ErrNotFound):
		s.errorPage(w, r, http.StatusNotFound, "السيارة غير موجودة.")
	case errors.Is(err, model.ErrUnauthenticated), errors.Is(err, model.ErrForbidden):
		s.errorPage(w, r, http.StatusForbidden, "ليس لديك صلاحية الوصول إلى هذه الصفحة.")
	default:
		slog.Error("failed to save car", "error", err)
		form.Error = "حدث خطأ أثناء حفظ السيارة."
		s.Templates.RenderStatus(w, http.StatusInternalServerError, "admin_car_form.html", form)
	}
}

func successMessage(done string) string {
	switch done {
	case "created":
		return "تمت إضافة السيارة بنجاح."
	case "updated":
		return "تم تحديث السيارة بنجاح."
	case "deleted":
		return "تم حذف السيارة."
	default:
		return ""
	}
}
