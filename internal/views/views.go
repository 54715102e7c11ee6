// Package views renders the HTML pages of the site. Each page template is
// parsed together with the shared layout and exposed through echo.Renderer.
package views

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/aslectra/backend/internal/models"
)

//go:embed templates/*.html
var templatesFS embed.FS

const layoutFile = "layout.html"

// Page holds everything passed to a page template.
type Page struct {
	Title     string
	Section   string
	User      *models.User
	CSRFToken string
	Flashes   map[string][]string
	Errors    map[string]string
	Form      map[string]string
	Data      map[string]any
}

// Renderer implements echo.Renderer over the embedded templates.
type Renderer struct {
	templates map[string]*template.Template
}

var funcMap = template.FuncMap{
	"date": func(t time.Time) string {
		return t.Local().Format("02/01/2006 à 15:04")
	},
	"imageURL": func(ref string) string {
		return "/images/" + ref
	},
	"liked": func(item models.FeedItem, user *models.User) bool {
		return user != nil && item.LikedBy(user.ID)
	},
	"eqID": func(a *uint, b uint) bool {
		return a != nil && *a == b
	},
	"initial": func(s string) string {
		if s == "" {
			return "?"
		}
		r := []rune(s)
		return strings.ToUpper(string(r[0]))
	},
}

// New parses every page template paired with the layout.
func New() (*Renderer, error) {
	entries, err := fs.ReadDir(templatesFS, "templates")
	if err != nil {
		return nil, fmt.Errorf("read templates: %w", err)
	}

	r := &Renderer{templates: make(map[string]*template.Template)}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || name == layoutFile || !strings.HasSuffix(name, ".html") {
			continue
		}
		tmpl, err := template.New(layoutFile).Funcs(funcMap).ParseFS(templatesFS, "templates/"+layoutFile, "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		r.templates[strings.TrimSuffix(name, ".html")] = tmpl
	}
	return r, nil
}

// Render executes the named page inside the layout.
func (r *Renderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	tmpl, ok := r.templates[name]
	if !ok {
		return fmt.Errorf("template %q not found", name)
	}
	return tmpl.ExecuteTemplate(w, layoutFile, data)
}

// Has reports whether a page template exists.
func (r *Renderer) Has(name string) bool {
	_, ok := r.templates[name]
	return ok
}
