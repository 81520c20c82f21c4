package web

import (
	"log/slog"
	"net/http"

	"github.com/jmoiron/sqlx"

	"github.com/erazemk/nayzak/internal/listing"
	"github.com/erazemk/nayzak/internal/storage"
	webembed "github.com/erazemk/nayzak/web"
)

// NewRouter creates the web page router with all page routes registered.
func NewRouter(db *sqlx.DB, jwtSecret string, svc *listing.Service, files storage.Storage) (http.Handler, error) {
	templates, err := LoadTemplates()
	if err != nil {
		return nil, err
	}

	s := &Server{
		DB:        db,
		Templates: templates,
		JWTSecret: jwtSecret,
		Service:   svc,
		Storage:   files,
	}

	mux := http.NewServeMux()
	cookieAuth := CookieAuthMiddleware(jwtSecret, db)
	optionalAuth := OptionalCookieAuth(jwtSecret, db)
	admin := func(h http.HandlerFunc) http.Handler {
		return cookieAuth(s.requireAdmin(h))
	}

	// Static assets.
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(webembed.StaticFS()))))

	// Images kept in the database are served by the app itself.
	if dbFiles, ok := files.(*storage.DB); ok {
		mux.HandleFunc("GET "+storage.DBPathPrefix+"{key...}", uploadHandler(dbFiles))
	}

	// Public routes.
	mux.Handle("GET /{$}", optionalAuth(http.HandlerFunc(s.Home)))
	mux.Handle("GET /cars", optionalAuth(http.HandlerFunc(s.CarsPage)))
	mux.Handle("GET /cars/{id}", optionalAuth(http.HandlerFunc(s.CarDetailPage)))

	mux.HandleFunc("GET /login", s.LoginPage)
	mux.HandleFunc("POST /login", s.LoginSubmit)
	mux.HandleFunc("POST /logout", s.Logout)

	// Admin routes.
	mux.Handle("GET /admin", admin(s.Dashboard))
	mux.Handle("GET /admin/cars", admin(s.CarsAdminPage))
	mux.Handle("GET /admin/cars/new", admin(s.CarNewPage))
	mux.Handle("POST /admin/cars/new", admin(s.CarCreateSubmit))
	mux.Handle("GET /admin/cars/{id}/edit", admin(s.CarEditPage))
	mux.Handle("POST /admin/cars/{id}/edit", admin(s.CarUpdateSubmit))
	mux.Handle("POST /admin/cars/{id}/delete", admin(s.CarDeleteSubmit))
	mux.Handle("GET /admin/settings", admin(s.SettingsPage))
	mux.Handle("POST /admin/settings", admin(s.SettingsSubmit))

	return mux, nil
}

// uploadHandler serves GET /uploads/{key...} from database storage.
func uploadHandler(files *storage.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, mime, err := files.Open(r.Context(), r.PathValue("key"))
		if err != nil {
			slog.Error("failed to get image", "key", r.PathValue("key"), "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		if data == nil {
			http.NotFound(w, r)
			return
		}

		w.Header().Set("Content-Type", mime)
		w.Header().Set("Content-Disposition", "inline")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		if _, err := w.Write(data); err != nil {
			slog.Error("failed to write image response", "error", err)
		}
	}
}
