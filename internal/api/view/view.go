// Package view renders the server-side HTML pages.
//
// Every page is parsed together with layout.html and the partials into its own template set,
// so page-level "content" blocks never collide. Handlers pass a Page value;
// nothing request-scoped is kept in shared state.
package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/workerhub/jobboard/internal/core/domain"
)

//go:embed templates
var files embed.FS

const (
	layoutFile   = "templates/layout.html"
	partialsGlob = "templates/partials/*.html"
)

// Page is the per-request view model handed to every template.
type Page struct {
	Title   string
	User    *domain.User
	Error   string
	Success string
	Data    any
}

// Renderer implements echo.Renderer over the embedded templates.
type Renderer struct {
	pages map[string]*template.Template
}

// New parses every page under templates/ against the shared layout. Page
// names are paths without the extension, e.g. "listings/show".
func New() (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template)}

	err := fs.WalkDir(files, "templates", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || path == layoutFile || !strings.HasSuffix(path, ".html") {
			return err
		}
		if strings.HasPrefix(path, "templates/partials/") {
			return nil
		}
		t, err := template.New("layout.html").Funcs(funcs).ParseFS(files, layoutFile, partialsGlob, path)
		if err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
		name := strings.TrimSuffix(strings.TrimPrefix(path, "templates/"), ".html")
		r.pages[name] = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

// Render satisfies echo.Renderer.
func (r *Renderer) Render(w io.Writer, name string, data any, _ echo.Context) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("view: unknown page %q", name)
	}
	return t.ExecuteTemplate(w, "layout.html", data)
}

var funcs = template.FuncMap{
	"date": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format("2006-01-02")
	},
	"workTypes":     func() []domain.WorkType { return domain.WorkTypes },
	"buildingTypes": func() []domain.BuildingType { return domain.BuildingTypes },
	"skillLevels":   func() []domain.SkillLevel { return domain.SkillLevels },
	"paymentTypes":  func() []domain.PaymentType { return domain.PaymentTypes },
	"str":           func(v any) string { return fmt.Sprint(v) },
}
