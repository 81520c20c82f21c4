package web

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/jmoiron/sqlx"

	"github.com/erazemk/nayzak/internal/auth"
	"github.com/erazemk/nayzak/internal/model"
	"github.com/erazemk/nayzak/internal/store"
)

type webContextKey string

const webClaimsKey webContextKey = "webclaims"

const cookieName = "token"

// cookieClaims validates the JWT in the request cookie and checks that it
// has not been revoked. It returns nil if there is no usable token.
func cookieClaims(r *http.Request, secret string, db *sqlx.DB) *auth.Claims {
	cookie, err := r.Cookie(cookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}

	claims, err := auth.ValidateToken(secret, cookie.Value)
	if err != nil {
		return nil
	}

	revoked, err := store.IsTokenRevoked(r.Context(), db, claims.ID)
	if err != nil {
		slog.Error("failed to check token revocation", "error", err)
		return nil
	}
	if revoked {
		return nil
	}
	return claims
}

// CookieAuthMiddleware validates JWT from cookie, checks token revocation,
// and adds claims to context. Visitors without a valid session are sent to
// the login page.
func CookieAuthMiddleware(secret string, db *sqlx.DB) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := cookieClaims(r, secret, db)
			if claims == nil {
				clearAuthCookie(w)
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}

			ctx := context.WithValue(r.Context(), webClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalCookieAuth adds the claims of a valid session to the context and
// treats everyone else as an anonymous visitor.
func OptionalCookieAuth(secret string, db *sqlx.DB) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if claims := cookieClaims(r, secret, db); claims != nil {
				r = r.WithContext(context.WithValue(r.Context(), webClaimsKey, claims))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// requireAdmin rejects signed-in users without the admin role. It must run
// after CookieAuthMiddleware.
func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := GetWebClaims(r.Context())
		if claims == nil || !model.RoleAtLeast(claims.Role, model.RoleAdmin) {
			s.errorPage(w, r, http.StatusForbidden, "ليس لديك صلاحية الوصول إلى هذه الصفحة.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clearAuthCookie clears the authentication cookie with consistent attributes.
func clearAuthCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

// GetWebClaims retrieves the JWT claims from web context.
func GetWebClaims(ctx context.Context) *auth.Claims {
	claims, _ := ctx.Value(webClaimsKey).(*auth.Claims)
	return claims
}

// webIdentity returns the caller's identity, or nil for anonymous visitors.
func webIdentity(r *http.Request) *model.Identity {
	if claims := GetWebClaims(r.Context()); claims != nil {
		return claims.Identity()
	}
	return nil
}
