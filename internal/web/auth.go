package web

import (
	"log/slog"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/erazemk/nayzak/internal/auth"
	"github.com/erazemk/nayzak/internal/store"
)

// LoginPage handles GET /login.
func (s *Server) LoginPage(w http.ResponseWriter, r *http.Request) {
	s.Templates.Render(w, "login.html", &PageData{Title: "تسجيل الدخول"})
}

// LoginSubmit handles POST /login.
func (s *Server) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	email := strings.ToLower(strings.TrimSpace(r.FormValue("email")))
	password := r.FormValue("password")

	if email == "" || password == "" {
		s.Templates.RenderStatus(w, http.StatusBadRequest, "login.html", &PageData{
			Title: "تسجيل الدخول",
			Error: "أدخل البريد الإلكتروني وكلمة المرور.",
		})
		return
	}

	user, err := store.GetUserByEmail(r.Context(), s.DB, email)
	if err != nil || user == nil {
		s.Templates.RenderStatus(w, http.StatusUnauthorized, "login.html", &PageData{
			Title: "تسجيل الدخول",
			Error: "البريد الإلكتروني أو كلمة المرور غير صحيحة.",
		})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		slog.Warn("login failed", "email", email, "remote", r.RemoteAddr)
		s.Templates.RenderStatus(w, http.StatusUnauthorized, "login.html", &PageData{
			Title: "تسجيل الدخول",
			Error: "البريد الإلكتروني أو كلمة المرور غير صحيحة.",
		})
		return
	}

	token, err := auth.GenerateToken(s.JWTSecret, user)
	if err != nil {
		s.Templates.RenderStatus(w, http.StatusInternalServerError, "login.html", &PageData{
			Title: "تسجيل الدخول",
			Error: "حدث خطأ أثناء تسجيل الدخول.",
		})
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   int(auth.TokenExpiry.Seconds()),
	})

	slog.Info("user logged in", "user", user.Email, "role", user.Role)
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

// Logout handles POST /logout. A valid session token is revoked so that a
// copied cookie stops working too.
func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	if claims := cookieClaims(r, s.JWTSecret, s.DB); claims != nil && claims.ExpiresAt != nil {
		if err := store.RevokeToken(r.Context(), s.DB, claims.ID, claims.ExpiresAt.Time); err != nil {
			slog.Error("failed to revoke token", "error", err)
		} else {
			slog.Info("user logged out", "user", claims.Email)
		}
	}
	clearAuthCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
