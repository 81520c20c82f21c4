package api

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/erazemk/nayzak/internal/listing"
	"github.com/erazemk/nayzak/internal/model"
)

// CarsHandler handles listing endpoints. Access rules are enforced by the
// listing service from the caller's identity.
type CarsHandler struct {
	Service *listing.Service
}

type carRequest struct {
	model.ListingInput
	Images []model.ImageInput `json:"images"`
}

type pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

type listResponse struct {
	Cars       []model.Listing `json:"cars"`
	Pagination pagination      `json:"pagination"`
}

// List handles GET /api/cars.
func (h *CarsHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := h.Service.List(r.Context(), ParseCriteria(r.URL.Query()), identity(r))
	if err != nil {
		serviceError(w, r, err)
		return
	}

	jsonResponse(w, http.StatusOK, listResponse{
		Cars: page.Listings,
		Pagination: pagination{
			Page:       page.Page,
			Limit:      page.PageSize,
			Total:      page.Total,
			TotalPages: page.TotalPages,
		},
	})
}

// Get handles GET /api/cars/{id}.
func (h *CarsHandler) Get(w http.ResponseWriter, r *http.Request) {
	l, err := h.Service.Get(r.Context(), r.PathValue("id"), identity(r))
	if err != nil {
		serviceError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, l)
}

// Create handles POST /api/cars.
func (h *CarsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req carRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	l, err := h.Service.Create(r.Context(), req.ListingInput, req.Images, identity(r))
	if err != nil {
		serviceError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusCreated, l)
}

// Update handles PUT /api/cars/{id}.
func (h *CarsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req carRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	l, err := h.Service.Update(r.Context(), r.PathValue("id"), req.ListingInput, req.Images, identity(r))
	if err != nil {
		serviceError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, l)
}

// Delete handles DELETE /api/cars/{id}.
func (h *CarsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(r.Context(), r.PathValue("id"), identity(r)); err != nil {
		serviceError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]bool{"success": true})
}

// Stats handles GET /api/stats.
func (h *CarsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Service.Stats(r.Context(), identity(r))
	if err != nil {
		serviceError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, stats)
}

// ParseCriteria reads listing filters from query parameters. Empty and
// malformed values are ignored.
func ParseCriteria(q url.Values) model.Criteria {
	c := model.Criteria{
		City:   q.Get("city"),
		Make:   q.Get("make"),
		Search: q.Get("search"),
	}
	if s := q.Get("status"); model.ValidStatus(s) {
		c.Status = s
	}
	if n, err := strconv.Atoi(q.Get("page")); err == nil {
		c.Page = n
	}
	if n, err := strconv.ParseInt(q.Get("minPrice"), 10, 64); err == nil {
		c.MinPrice = &n
	}
	if n, err := strconv.ParseInt(q.Get("maxPrice"), 10, 64); err == nil {
		c.MaxPrice = &n
	}
	if n, err := strconv.Atoi(q.Get("minYear")); err == nil {
		c.MinYear = &n
	}
	if n, err := strconv.Atoi(q.Get("maxYear")); err == nil {
		c.MaxYear = &n
	}
	if b, err := strconv.ParseBool(q.Get("featured")); err == nil {
		c.Featured = &b
	}
	return c
}
