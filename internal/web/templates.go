package web

import (
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/erazemk/nayzak/internal/auth"
	"github.com/erazemk/nayzak/internal/listing"
	"github.com/erazemk/nayzak/internal/model"
	"github.com/erazemk/nayzak/internal/storage"
	webembed "github.com/erazemk/nayzak/web"
)

// Templates holds parsed HTML templates.
type Templates struct {
	templates map[string]*template.Template
}

var arabicMonths = [...]string{
	"يناير", "فبراير", "مارس", "أبريل", "مايو", "يونيو",
	"يوليو", "أغسطس", "سبتمبر", "أكتوبر", "نوفمبر", "ديسمبر",
}

// FuncMap returns the template function map.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"roleAtLeast": model.RoleAtLeast,
		"makeName":    func(v string) string { return model.Label(model.Makes, v) },
		"fuelName":    func(v string) string { return model.Label(model.FuelTypes, v) },
		"gearName":    func(v string) string { return model.Label(model.Transmissions, v) },
		"bodyName":    func(v string) string { return model.Label(model.BodyTypes, v) },
		"condName":    func(v string) string { return model.Label(model.Conditions, v) },
		"statusName":  func(v string) string { return model.Label(model.Statuses, v) },
		"cityName":    func(v string) string { return model.Label(model.Cities, v) },
		"colorName": func(v *string) string {
			if v == nil {
				return ""
			}
			return model.Label(model.Colors, *v)
		},
		"price": formatPrice,
		"number": func(n any) string {
			switch n := n.(type) {
			case int:
				return formatNumber(int64(n))
			case int64:
				return formatNumber(n)
			default:
				return fmt.Sprint(n)
			}
		},
		"mileage":  func(km int64) string { return formatNumber(km) + " كم" },
		"date":     formatDate,
		"whatsapp": whatsAppLink,
		"tel":      func(phone string) template.URL { return template.URL("tel:" + phoneDigits(phone)) },
		"intval": func(n *int64) string {
			if n == nil {
				return ""
			}
			return strconv.FormatInt(*n, 10)
		},
		"cover": func(l model.Listing) string {
			if img := l.PrimaryImage(); img != nil {
				return img.URL
			}
			return ""
		},
		"deref": func(s *string) string {
			if s == nil {
				return ""
			}
			return *s
		},
	}
}

// formatNumber groups digits in threes: 45000 becomes "45,000".
func formatNumber(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	var b strings.Builder
	for i, c := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

func formatPrice(n int64) string {
	return formatNumber(n) + " د.ل"
}

// formatDate renders a time.Time or *time.Time as "16 أكتوبر 2026".
func formatDate(v any) string {
	var t time.Time
	switch v := v.(type) {
	case time.Time:
		t = v
	case *time.Time:
		if v == nil {
			return ""
		}
		t = *v
	default:
		return ""
	}
	return fmt.Sprintf("%d %s %d", t.Day(), arabicMonths[t.Month()-1], t.Year())
}

func phoneDigits(phone string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phone)
}

// whatsAppLink returns a wa.me chat link for phone, keeping only its digits.
func whatsAppLink(phone string) template.URL {
	return template.URL("https://wa.me/" + phoneDigits(phone))
}

// LoadTemplates parses all page templates with the layout.
func LoadTemplates() (*Templates, error) {
	tfs := webembed.TemplatesFS()

	layoutBytes, err := fs.ReadFile(tfs, "layout.html")
	if err != nil {
		return nil, fmt.Errorf("reading layout template: %w", err)
	}

	pages := []string{
		"home.html",
		"cars.html",
		"car_detail.html",
		"login.html",
		"admin_dashboard.html",
		"admin_cars.html",
		"admin_car_form.html",
		"settings.html",
		"error.html",
	}

	ts := &Templates{templates: make(map[string]*template.Template)}

	for _, page := range pages {
		pageBytes, err := fs.ReadFile(tfs, page)
		if err != nil {
			return nil, fmt.Errorf("reading template %s: %w", page, err)
		}

		tmpl := template.New(page).Funcs(FuncMap())
		tmpl, err = tmpl.Parse(string(layoutBytes))
		if err != nil {
			return nil, fmt.Errorf("parsing layout for %s: %w", page, err)
		}
		tmpl, err = tmpl.Parse(string(pageBytes))
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", page, err)
		}

		ts.templates[page] = tmpl
	}

	return ts, nil
}

// Render renders a template with the given data.
func (ts *Templates) Render(w http.ResponseWriter, name string, data any) {
	ts.RenderStatus(w, http.StatusOK, name, data)
}

// RenderStatus renders a template with the given data and status code.
func (ts *Templates) RenderStatus(w http.ResponseWriter, status int, name string, data any) {
	tmpl, ok := ts.templates[name]
	if !ok {
		http.Error(w, "template not found", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := tmpl.ExecuteTemplate(w, "layout", data); err != nil {
		slog.Error("failed to render template", "template", name, "error", err)
	}
}

// PageData is the base data passed to all templates.
type PageData struct {
	Title   string
	User    *auth.Claims
	Error   string
	Success string
}

// Server holds all dependencies for page handlers.
type Server struct {
	DB        *sqlx.DB
	Templates *Templates
	JWTSecret string
	Service   *listing.Service
	Storage   storage.Storage
}

// errorPage renders the generic error page with status.
func (s *Server) errorPage(w http.ResponseWriter, r *http.Request, status int, message string) {
	s.Templates.RenderStatus(w, status, "error.html", &PageData{
		Title: "خطأ",
		User:  GetWebClaims(r.Context()),
		Error: message,
	})
}
