package web

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/erazemk/nayzak/internal/api"
	"github.com/erazemk/nayzak/internal/model"
)

// homeSectionSize is the number of cars in each home page section.
const homeSectionSize = 8

// Home handles GET /.
func (s *Server) Home(w http.ResponseWriter, r *http.Request) {
	featured := true
	featuredPage, err := s.Service.List(r.Context(), model.Criteria{Featured: &featured}, nil)
	if err != nil {
		slog.Error("failed to list featured cars", "error", err)
		s.errorPage(w, r, http.StatusInternalServerError, "تعذر تحميل السيارات.")
		return
	}
	latestPage, err := s.Service.List(r.Context(), model.Criteria{}, nil)
	if err != nil {
		slog.Error("failed to list latest cars", "error", err)
		s.errorPage(w, r, http.StatusInternalServerError, "تعذر تحميل السيارات.")
		return
	}

	s.Templates.Render(w, "home.html", &struct {
		PageData
		Featured []model.Listing
		Latest   []model.Listing
		Cities   []model.Option
		Makes    []model.Option
	}{
		PageData: PageData{Title: "نيزك - سوق السيارات في ليبيا", User: GetWebClaims(r.Context())},
		Featured: firstN(featuredPage.Listings, homeSectionSize),
		Latest:   firstN(latestPage.Listings, homeSectionSize),
		Cities:   model.Cities,
		Makes:    model.Makes,
	})
}

// CarsPage handles GET /cars. It always shows the public catalogue, even to
// signed-in admins.
func (s *Server) CarsPage(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	c := filterCriteria(q)

	page, err := s.Service.List(r.Context(), c, nil)
	if err != nil {
		slog.Error("failed to list cars", "error", err)
		s.errorPage(w, r, http.StatusInternalServerError, "تعذر تحميل السيارات.")
		return
	}

	s.Templates.Render(w, "cars.html", &struct {
		PageData
		Page        *model.Page
		Filters     url.Values
		Pager       pager
		Cities      []model.Option
		Makes       []model.Option
		PriceRanges []model.PriceRange
		Years       []int
	}{
		PageData:    PageData{Title: "تصفح السيارات", User: GetWebClaims(r.Context())},
		Page:        page,
		Filters:     q,
		Pager:       newPager("/cars", q, page.Page, page.TotalPages),
		Cities:      model.Cities,
		Makes:       model.Makes,
		PriceRanges: model.PriceRanges,
		Years:       yearOptions(),
	})
}

// CarDetailPage handles GET /cars/{id}. Anonymous visitors only see
// published cars and each of their visits counts one view.
func (s *Server) CarDetailPage(w http.ResponseWriter, r *http.Request) {
	car, err := s.Service.Get(r.Context(), r.PathValue("id"), webIdentity(r))
	if errors.Is(err, model.ErrNotFound) {
		s.errorPage(w, r, http.StatusNotFound, "السيارة غير موجودة.")
		return
	}
	if err != nil {
		slog.Error("failed to get car", "car", r.PathValue("id"), "error", err)
		s.errorPage(w, r, http.StatusInternalServerError, "تعذر تحميل السيارة.")
		return
	}

	s.Templates.Render(w, "car_detail.html", &struct {
		PageData
		Car     *model.Listing
		Primary *model.Image
	}{
		PageData: PageData{Title: car.Title, User: GetWebClaims(r.Context())},
		Car:      car,
		Primary:  car.PrimaryImage(),
	})
}

// filterCriteria reads the browse filters. A priceRange preset sets both
// price bounds unless explicit bounds are given.
func filterCriteria(q url.Values) model.Criteria {
	c := api.ParseCriteria(q)
	c.Status = ""
	c.Featured = nil
	if q.Get("featured") == "true" {
		featured := true
		c.Featured = &featured
	}

	for _, pr := range model.PriceRanges {
		if pr.Value != q.Get("priceRange") {
			continue
		}
		if c.MinPrice == nil && pr.Min > 0 {
			minPrice := pr.Min
			c.MinPrice = &minPrice
		}
		if c.MaxPrice == nil && pr.Max > 0 {
			maxPrice := pr.Max
			c.MaxPrice = &maxPrice
		}
	}
	return c
}

// yearOptions lists model years from next year down to the oldest accepted.
func yearOptions() []int {
	maxYear := model.MaxYear(timeNow())
	years := make([]int, 0, maxYear-model.MinYear+1)
	for y := maxYear; y >= model.MinYear; y-- {
		years = append(years, y)
	}
	return years
}

type pageLink struct {
	Number  int
	URL     string
	Current bool
}

// pager holds the links of a paginated list.
type pager struct {
	Links   []pageLink
	PrevURL string
	NextURL string
}

// pagerWindow is the number of page links shown at once.
const pagerWindow = 5

// newPager builds links for up to five pages around current, keeping the
// other query parameters.
func newPager(path string, q url.Values, current, totalPages int) pager {
	var p pager
	if totalPages <= 1 {
		return p
	}

	link := func(n int) string {
		v := url.Values{}
		for key, vals := range q {
			if key != "page" && len(vals) > 0 && vals[0] != "" {
				v.Set(key, vals[0])
			}
		}
		v.Set("page", strconv.Itoa(n))
		return path + "?" + v.Encode()
	}

	first := current - pagerWindow/2
	if first > totalPages-pagerWindow+1 {
		first = totalPages - pagerWindow + 1
	}
	if first < 1 {
		first = 1
	}
	for n := first; n <= totalPages && n < first+pagerWindow; n++ {
		p.Links = append(p.Links, pageLink{Number: n, URL: link(n), Current: n == current})
	}
	if current > 1 {
		p.PrevURL = link(min(current-1, totalPages))
	}
	if current < totalPages {
		p.NextURL = link(current + 1)
	}
	return p
}

func firstN(listings []model.Listing, n int) []model.Listing {
	if len(listings) > n {
		return listings[:n]
	}
	return listings
}
