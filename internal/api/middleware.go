package api

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/erazemk/nayzak/internal/auth"
	"github.com/erazemk/nayzak/internal/metrics"
	"github.com/erazemk/nayzak/internal/model"
	"github.com/erazemk/nayzak/internal/store"
)

type contextKey string

const claimsKey contextKey = "claims"

// bearerClaims validates the bearer token of r. On failure it returns a
// message for the client; a request without a token yields neither claims
// nor a message.
func bearerClaims(r *http.Request, secret string, db *sqlx.DB) (*auth.Claims, string) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return nil, ""
	}
	tokenStr, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return nil, "missing or invalid authorization header"
	}

	claims, err := auth.ValidateToken(secret, tokenStr)
	if err != nil {
		return nil, "invalid token"
	}

	revoked, err := store.IsTokenRevoked(r.Context(), db, claims.ID)
	if err != nil {
		slog.Error("failed to check token revocation", "error", err)
		return nil, "invalid token"
	}
	if revoked {
		return nil, "token revoked"
	}
	return claims, ""
}

// AuthMiddleware validates the JWT from the Authorization header, rejects
// revoked tokens and adds the claims to the context.
func AuthMiddleware(secret string, db *sqlx.DB) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, problem := bearerClaims(r, secret, db)
			if claims == nil {
				if problem == "" {
					problem = "missing or invalid authorization header"
				}
				jsonError(w, http.StatusUnauthorized, problem)
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth adds the claims of a valid bearer token to the context and
// lets requests without a token through as anonymous. A token that is
// present but invalid is rejected.
func OptionalAuth(secret string, db *sqlx.DB) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, problem := bearerClaims(r, secret, db)
			if problem != "" {
				jsonError(w, http.StatusUnauthorized, problem)
				return
			}
			if claims != nil {
				r = r.WithContext(context.WithValue(r.Context(), claimsKey, claims))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireRole returns middleware that checks if the user has at least the given role.
func RequireRole(minimum string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := GetClaims(r.Context())
			if claims == nil {
				jsonError(w, http.StatusUnauthorized, "not authenticated")
				return
			}
			if !model.RoleAtLeast(claims.Role, minimum) {
				jsonError(w, http.StatusForbidden, "insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetClaims retrieves the JWT claims from the context.
func GetClaims(ctx context.Context) *auth.Claims {
	claims, _ := ctx.Value(claimsKey).(*auth.Claims)
	return claims
}

// identity returns the caller of r, or nil for anonymous requests.
func identity(r *http.Request) *model.Identity {
	claims := GetClaims(r.Context())
	if claims == nil {
		return nil
	}
	return claims.Identity()
}

// statusRecorder wraps http.ResponseWriter to capture the status code.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// LoggingMiddleware logs HTTP requests with method, path, status, and
// duration, and records their latency in m.
func LoggingMiddleware(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			elapsed := time.Since(start)
			m.ObserveRequest(r.Method, rec.status, elapsed)
			slog.Info("request",
				"method", r.Method,
				"path", r.URL.RequestURI(),
				"status", rec.status,
				"duration", elapsed.Round(time.Millisecond),
			)
		})
	}
}
