package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/erazemk/nayzak/internal/imaging"
	"github.com/erazemk/nayzak/internal/storage"
)

// UploadHandler stores car images for later use in listings.
type UploadHandler struct {
	Storage storage.Storage
}

type uploadResponse struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
}

// maxUploadBody leaves room for multipart overhead around a MaxSize image.
const maxUploadBody = imaging.MaxSize + 1<<20

// Upload handles POST /api/upload.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBody)

	if err := r.ParseMultipartForm(maxUploadBody); err != nil {
		jsonError(w, http.StatusBadRequest, "حجم الملف يجب أن يكون أقل من 5 ميجابايت")
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "الملف مطلوب")
		return
	}
	defer file.Close()

	img, err := imaging.Inspect(file)
	if errors.Is(err, imaging.ErrTooLarge) {
		jsonError(w, http.StatusBadRequest, "حجم الملف يجب أن يكون أقل من 5 ميجابايت")
		return
	}
	if err != nil {
		slog.Warn("rejected upload", "error", err)
		jsonError(w, http.StatusBadRequest, "نوع الملف غير مدعوم")
		return
	}

	key := storage.NewKey(img.Ext)
	url, err := h.Storage.Put(r.Context(), key, img.MIME, img.Data)
	if err != nil {
		slog.Error("failed to store upload", "key", key, "error", err)
		jsonError(w, http.StatusInternalServerError, "فشل رفع الصورة")
		return
	}

	claims := GetClaims(r.Context())
	slog.Info("image uploaded", "user", claims.Email, "key", key, "size", len(img.Data))
	jsonResponse(w, http.StatusOK, uploadResponse{URL: url, Filename: key[len(storage.KeyPrefix):]})
}
