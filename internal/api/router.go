package api

import (
	"net/http"

	"github.com/jmoiron/sqlx"

	"github.com/erazemk/nayzak/internal/listing"
	"github.com/erazemk/nayzak/internal/model"
	"github.com/erazemk/nayzak/internal/storage"
)

// NewRouter creates the API router with all endpoints registered.
func NewRouter(db *sqlx.DB, jwtSecret string, svc *listing.Service, files storage.Storage) http.Handler {
	mux := http.NewServeMux()

	authHandler := &AuthHandler{DB: db, JWTSecret: jwtSecret}
	usersHandler := &UsersHandler{DB: db}
	carsHandler := &CarsHandler{Service: svc}
	uploadHandler := &UploadHandler{Storage: files}

	authMW := AuthMiddleware(jwtSecret, db)
	optionalMW := OptionalAuth(jwtSecret, db)
	requireAdmin := RequireRole(model.RoleAdmin)

	// Public: login.
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)

	// Authenticated routes.
	mux.Handle("PUT /api/auth/password", authMW(http.HandlerFunc(authHandler.ChangePassword)))
	mux.Handle("POST /api/auth/logout", authMW(http.HandlerFunc(authHandler.Logout)))

	// Cars: anyone may read; the listing service decides what they see and
	// who may change it.
	mux.Handle("GET /api/cars", optionalMW(http.HandlerFunc(carsHandler.List)))
	mux.Handle("POST /api/cars", optionalMW(http.HandlerFunc(carsHandler.Create)))
	mux.Handle("GET /api/cars/{id}", optionalMW(http.HandlerFunc(carsHandler.Get)))
	mux.Handle("PUT /api/cars/{id}", optionalMW(http.HandlerFunc(carsHandler.Update)))
	mux.Handle("DELETE /api/cars/{id}", optionalMW(http.HandlerFunc(carsHandler.Delete)))

	// Uploads and dashboard (admin only).
	mux.Handle("POST /api/upload", authMW(requireAdmin(http.HandlerFunc(uploadHandler.Upload))))
	mux.Handle("GET /api/stats", authMW(requireAdmin(http.HandlerFunc(carsHandler.Stats))))

	// Users (admin only).
	mux.Handle("GET /api/users", authMW(requireAdmin(http.HandlerFunc(usersHandler.List))))
	mux.Handle("POST /api/users", authMW(requireAdmin(http.HandlerFunc(usersHandler.Create))))
	mux.Handle("GET /api/users/{id}", authMW(requireAdmin(http.HandlerFunc(usersHandler.Get))))
	mux.Handle("PUT /api/users/{id}/password", authMW(requireAdmin(http.HandlerFunc(usersHandler.ResetPassword))))
	mux.Handle("DELETE /api/users/{id}", authMW(requireAdmin(http.HandlerFunc(usersHandler.Delete))))

	return mux
}
