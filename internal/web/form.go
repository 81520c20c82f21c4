package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/erazemk/nayzak/internal/imaging"
	"github.com/erazemk/nayzak/internal/model"
	"github.com/erazemk/nayzak/internal/storage"
)

// maxFormImages is the number of new images accepted in one form submit.
const maxFormImages = 10

// maxFormBody bounds a car form submit including all new images.
const maxFormBody = maxFormImages*imaging.MaxSize + 1<<20

// primaryNewPrefix marks a primary choice that refers to a newly uploaded
// file by its position, as in "new:0".
const primaryNewPrefix = "new:"

// parseCarForm parses a urlencoded or multipart car form.
func parseCarForm(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBody)
	err := r.ParseMultipartForm(32 << 20)
	if errors.Is(err, http.ErrNotMultipart) {
		return r.ParseForm()
	}
	return err
}

// listingInputFromForm reads the listing fields of a submitted car form.
// Numbers that do not parse are reported in the returned field errors.
func listingInputFromForm(r *http.Request) (model.ListingInput, map[string]string) {
	fieldErrors := map[string]string{}

	in := model.ListingInput{
		Title:           r.FormValue("title"),
		Make:            r.FormValue("make"),
		Model:           r.FormValue("model"),
		PriceNegotiable: r.FormValue("priceNegotiable") != "",
		FuelType:        r.FormValue("fuelType"),
		Transmission:    r.FormValue("transmission"),
		BodyType:        r.FormValue("bodyType"),
		Condition:       r.FormValue("condition"),
		Color:           r.FormValue("color"),
		City:            r.FormValue("city"),
		Description:     r.FormValue("description"),
		ContactPhone:    r.FormValue("contactPhone"),
		ContactWhatsApp: r.FormValue("contactWhatsApp"),
		Featured:        r.FormValue("featured") != "",
		Status:          r.FormValue("status"),
	}

	if v := strings.TrimSpace(r.FormValue("year")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			fieldErrors["year"] = fieldMessage("year")
		}
		in.Year = n
	}
	if v := strings.TrimSpace(r.FormValue("price")); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			fieldErrors["price"] = fieldMessage("price")
		}
		in.Price = n
	}
	if v := strings.TrimSpace(r.FormValue("mileage")); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			fieldErrors["mileage"] = fieldMessage("mileage")
		} else {
			in.Mileage = &n
		}
	}

	return in, fieldErrors
}

// fieldMessage returns the Arabic message shown next to an invalid field.
func fieldMessage(field string) string {
	switch {
	case field == "title":
		return fmt.Sprintf("العنوان يجب أن يكون %d أحرف على الأقل", model.MinTitleLength)
	case field == "year":
		return fmt.Sprintf("سنة الصنع يجب أن تكون بين %d و %d", model.MinYear, model.MaxYear(timeNow()))
	case field == "price":
		return "السعر يجب أن يكون رقمًا أكبر من صفر"
	case field == "mileage":
		return "عدد الكيلومترات يجب أن يكون رقمًا موجبًا"
	case strings.HasPrefix(field, "images"):
		return "إحدى الصور غير صالحة"
	default:
		return "هذا الحقل مطلوب"
	}
}

// validationMessages translates a validation error into per-field messages.
func validationMessages(verr *model.ValidationError) map[string]string {
	msgs := make(map[string]string, len(verr.Fields))
	for _, f := range verr.Fields {
		field := f.Field
		if strings.HasPrefix(field, "images") {
			field = "images"
		}
		msgs[field] = fieldMessage(f.Field)
	}
	return msgs
}

// storeUploads inspects and stores every file of the "images" form field,
// returning their URLs in upload order. On failure the files stored so far
// are removed again.
func (s *Server) storeUploads(ctx context.Context, r *http.Request) ([]string, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}

	var files []*multipart.FileHeader
	for _, fh := range r.MultipartForm.File["images"] {
		if fh.Size > 0 {
			files = append(files, fh)
		}
	}
	if len(files) > maxFormImages {
		return nil, fmt.Errorf("يمكن رفع %d صور كحد أقصى في كل مرة", maxFormImages)
	}

	urls := make([]string, 0, len(files))
	for _, fh := range files {
		url, err := s.storeUpload(ctx, fh)
		if err != nil {
			s.deleteImages(ctx, urls)
			return nil, err
		}
		urls = append(urls, url)
	}
	return urls, nil
}

func (s *Server) storeUpload(ctx context.Context, fh *multipart.FileHeader) (string, error) {
	file, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("تعذر قراءة الملف %s", fh.Filename)
	}
	defer file.Close()

	img, err := imaging.Inspect(file)
	if errors.Is(err, imaging.ErrTooLarge) {
		return "", fmt.Errorf("حجم الملف %s يجب أن يكون أقل من 5 ميجابايت", fh.Filename)
	}
	if err != nil {
		slog.Warn("rejected upload", "file", fh.Filename, "error", err)
		return "", fmt.Errorf("نوع الملف %s غير مدعوم", fh.Filename)
	}

	key := storage.NewKey(img.Ext)
	url, err := s.Storage.Put(ctx, key, img.MIME, img.Data)
	if err != nil {
		slog.Error("failed to store upload", "key", key, "error", err)
		return "", errors.New("فشل رفع الصورة")
	}
	return url, nil
}

// imageInputs builds the gallery of a submitted form: the kept existing
// images first, in their submitted order, then the new uploads. The
// "primary" field names either an existing URL or a new upload as "new:N".
func imageInputs(r *http.Request, newURLs []string) []model.ImageInput {
	primary := r.FormValue("primary")
	var images []model.ImageInput

	add := func(url string, isPrimary bool) {
		in := model.ImageInput{URL: url}
		if isPrimary {
			t := true
			in.IsPrimary = &t
		}
		images = append(images, in)
	}

	for _, url := range r.Form["keep"] {
		if url != "" {
			add(url, url == primary)
		}
	}
	for i, url := range newURLs {
		add(url, primary == primaryNewPrefix+strconv.Itoa(i))
	}
	return images
}

// removedImages returns the URLs of old that are not part of kept.
func removedImages(old []model.Image, kept []model.ImageInput) []string {
	keep := make(map[string]bool, len(kept))
	for _, in := range kept {
		keep[in.URL] = true
	}
	var removed []string
	for _, img := range old {
		if !keep[img.URL] {
			removed = append(removed, img.URL)
		}
	}
	return removed
}

// deleteImages removes the stored objects behind urls. URLs that do not
// point into our storage are skipped and failures are only logged.
func (s *Server) deleteImages(ctx context.Context, urls []string) {
	for _, url := range urls {
		key, ok := s.Storage.Key(url)
		if !ok {
			continue
		}
		if err := s.Storage.Delete(ctx, key); err != nil {
			slog.Warn("failed to delete image", "key", key, "error", err)
		}
	}
}
