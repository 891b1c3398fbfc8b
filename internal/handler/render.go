package handler

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"course-portal/internal/middleware"
	"course-portal/internal/model"
	"course-portal/internal/service"
	"course-portal/internal/session"
)

//go:embed templates/*.html
var templateFS embed.FS

const layoutFile = "templates/layout.html"

// Page is the data every template receives.
type Page struct {
	Title     string
	User      *model.Identity
	IsAdmin   bool
	Flash     string
	FlashKind string
	Errors    map[string]string
	Form      map[string]string
	RequestID string
	Data      any
}

func (p Page) FieldError(name string) string {
	return p.Errors[name]
}

func (p Page) Value(name string) string {
	return p.Form[name]
}

type Renderer struct {
	pages map[string]*template.Template
}

var templateFuncs = template.FuncMap{
	"scoreClass": service.ScoreClass,
	"percent": func(score float64) string {
		return strconv.FormatFloat(score, 'f', 1, 64) + "%"
	},
	"price": formatPrice,
	"deref": func(value *string) string {
		if value == nil {
			return ""
		}
		return *value
	},
	"add": func(a int, b int) int { return a + b },
	"selected": func(current string, option string) bool {
		return strings.EqualFold(current, option)
	},
}

func formatPrice(value float64) string {
	if value == 0 {
		return "Free"
	}
	return "$" + strconv.FormatFloat(value, 'f', 2, 64)
}

// NewRenderer parses every page together with the shared layout.
func NewRenderer() (*Renderer, error) {
	return newRenderer(templateFS)
}

func newRenderer(files fs.FS) (*Renderer, error) {
	names, err := fs.Glob(files, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}

	pages := map[string]*template.Template{}
	for _, name := range names {
		if name == layoutFile || strings.HasPrefix(name, "templates/_") {
			continue
		}

		tmpl, err := template.New("layout.html").Funcs(templateFuncs).ParseFS(files, layoutFile, "templates/_*.html", name)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}

		key := strings.TrimSuffix(strings.TrimPrefix(name, "templates/"), ".html")
		pages[key] = tmpl
	}

	return &Renderer{pages: pages}, nil
}

// Render writes nothing but a 500 when the template fails.
func (v *Renderer) Render(w http.ResponseWriter, r *http.Request, status int, name string, page Page) {
	tmpl, ok := v.pages[name]
	if !ok {
		slog.Error("template not found", "template", name)
		http.Error(w, "Unexpected server error", http.StatusInternalServerError)
		return
	}

	if store, ok := session.FromContext(r.Context()); ok {
		page.User = store.CurrentUser()
		page.IsAdmin = store.IsAdmin()
	}
	if page.Flash == "" {
		page.Flash, page.FlashKind = takeFlash(w, r)
	}
	page.RequestID = middleware.RequestID(r.Context())

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, page); err != nil {
		slog.Error("template render failed", "template", name, "error", err)
		http.Error(w, "Unexpected server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
