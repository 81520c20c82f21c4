package web

import (
	"log/slog"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/erazemk/nayzak/internal/model"
	"github.com/erazemk/nayzak/internal/store"
)

// SettingsPage handles GET /admin/settings.
func (s *Server) SettingsPage(w http.ResponseWriter, r *http.Request) {
	s.Templates.Render(w, "settings.html", &PageData{
		Title: "الإعدادات",
		User:  GetWebClaims(r.Context()),
	})
}

// SettingsSubmit handles POST /admin/settings (change own password).
func (s *Server) SettingsSubmit(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())
	fail := func(status int, msg string) {
		s.Templates.RenderStatus(w, status, "settings.html", &PageData{
			Title: "الإعدادات",
			User:  claims,
			Error: msg,
		})
	}

	currentPassword := r.FormValue("current_password")
	newPassword := r.FormValue("new_password")

	if currentPassword == "" || newPassword == "" {
		fail(http.StatusBadRequest, "أدخل كلمة المرور الحالية والجديدة.")
		return
	}
	if newPassword != r.FormValue("confirm_password") {
		fail(http.StatusBadRequest, "كلمتا المرور غير متطابقتين.")
		return
	}
	if err := model.ValidatePassword(newPassword); err != nil {
		fail(http.StatusBadRequest, "كلمة المرور الجديدة قصيرة جدًا.")
		return
	}

	user, err := store.GetUser(r.Context(), s.DB, claims.UserID)
	if err != nil || user == nil {
		fail(http.StatusInternalServerError, "تعذر تحميل المستخدم.")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)); err != nil {
		fail(http.StatusBadRequest, "كلمة المرور الحالية غير صحيحة.")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		fail(http.StatusInternalServerError, "حدث خطأ أثناء حفظ كلمة المرور.")
		return
	}

	if err := store.UpdateUserPassword(r.Context(), s.DB, claims.UserID, string(hash)); err != nil {
		slog.Error("failed to update password", "error", err)
		fail(http.StatusInternalServerError, "حدث خطأ أثناء حفظ كلمة المرور.")
		return
	}

	slog.Info("password changed", "user", claims.Email)
	s.Templates.Render(w, "settings.html", &PageData{
		Title:   "الإعدادات",
		User:    claims,
		Success: "تم تغيير كلمة المرور بنجاح.",
	})
}
