// Package view renders the server-side HTML pages.
package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"learnjournal/internal/auth"
	"learnjournal/internal/form"
	"learnjournal/internal/model"
)

//go:embed templates/*.html
var templateFS embed.FS

// Page names.
const (
	PageIndex    = "index"
	PageDetail   = "detail"
	PageNew      = "new"
	PageEdit     = "edit"
	PageRegister = "register"
	PageLogin    = "login"
	PageError    = "error"
)

var pages = []string{PageIndex, PageDetail, PageNew, PageEdit, PageRegister, PageLogin, PageError}

// Page is the data every template receives. The renderer fills Identity,
// Flashes and CSRFToken from the request.
type Page struct {
	Title     string
	Identity  *auth.Identity
	Flashes   []Flash
	CSRFToken string

	Entries   []model.Entry
	Entry     *model.Entry
	CanManage bool
	Tag       string

	Form   interface{}
	Errors form.Errors
	Next   string

	Status  int
	Message string
}

// Renderer implements echo.Renderer over the embedded templates.
type Renderer struct {
	templates map[string]*template.Template
}

var funcs = template.FuncMap{
	"formatDate": func(t time.Time) string {
		return t.Format("January 02, 2006")
	},
	"tags":       model.SplitTags,
	"pathEscape": url.PathEscape,
	"paragraphs": func(s string) []string {
		var out []string
		for _, p := range strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n") {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out
	},
}

// NewRenderer parses the layout together with every page template.
func NewRenderer() (*Renderer, error) {
	r := &Renderer{templates: make(map[string]*template.Template, len(pages))}
	for _, name := range pages {
		t, err := template.New(name).Funcs(funcs).ParseFS(templateFS,
			"templates/layout.html",
			"templates/"+name+".html",
		)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		r.templates[name] = t
	}
	return r, nil
}

// Render implements echo.Renderer.
func (r *Renderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	t, ok := r.templates[name]
	if !ok {
		return fmt.Errorf("unknown template %q", name)
	}

	if p, ok := data.(*Page); ok {
		if id, ok := auth.IdentityFrom(c); ok {
			p.Identity = id
		}
		p.Flashes = PopFlashes(c)
		if token, ok := c.Get(middleware.DefaultCSRFConfig.ContextKey).(string); ok {
			p.CSRFToken = token
		}
	}
	return t.ExecuteTemplate(w, "layout", data)
}
