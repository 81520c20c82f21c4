package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/erazemk/nayzak/internal/model"
)

// errorResponse is the body of every failed API call.
type errorResponse struct {
	Error   string             `json:"error"`
	Kind    string             `json:"kind,omitempty"`
	Details []model.FieldError `json:"details,omitempty"`
}

// jsonResponse writes a JSON response with the given status code.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Warn("error encoding response", "error", err)
		}
	}
}

// jsonError writes a JSON error response.
func jsonError(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, errorResponse{Error: message})
}

// serviceError maps an error from the listing core to a status code and an
// error body carrying its kind. Storage failures are logged and reported
// without their cause.
func serviceError(w http.ResponseWriter, r *http.Request, err error) {
	kind := model.ErrorKind(err)
	resp := errorResponse{Kind: kind}
	status := http.StatusInternalServerError

	var verr *model.ValidationError
	switch {
	case errors.As(err, &verr):
		status = http.StatusBadRequest
		resp.Error = "بيانات غير صالحة"
		resp.Details = verr.Fields
	case errors.Is(err, model.ErrUnauthenticated):
		status = http.StatusUnauthorized
		resp.Error = "غير مصرح"
	case errors.Is(err, model.ErrForbidden):
		status = http.StatusForbidden
		resp.Error = "ليس لديك صلاحية لهذا الإجراء"
	case errors.Is(err, model.ErrNotFound):
		status = http.StatusNotFound
		resp.Error = "السيارة غير موجودة"
	default:
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		resp.Error = "حدث خطأ في الخادم"
	}

	jsonResponse(w, status, resp)
}

// decodeJSON decodes a JSON request body into the given target.
func decodeJSON(r *http.Request, target any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(target)
}
