package controller

import (
	"html/template"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"harrow/internal/auth"
	"harrow/internal/models"
	"harrow/internal/page"
	"harrow/internal/user"
	"harrow/internal/web/renderer"
	"harrow/internal/web/viewmodels"
)

// Common bundles what every controller needs to render a view: the
// template sets, the repositories behind the sidebar and author-name
// resolution, and the error-page configuration.
type Common struct {
	Templates map[string]*template.Template
	Auth      *auth.Service
	Pages     *page.Repository
	Users     *user.Repository
	Log       *slog.Logger

	TopPage     string
	ErrorPages  string
	LatestCount int
}

func (c *Common) render(w http.ResponseWriter, view string, data any) {
	tmpl, ok := c.Templates[view]
	if !ok {
		c.Log.Error("missing template", "view", view)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if err := tmpl.ExecuteTemplate(w, "layout.html", data); err != nil {
		c.Log.Error("render failed", "view", view, "error", err)
	}
}

// base fills the layout data shared by every view, including the
// recently-updated sidebar.
func (c *Common) base(r *http.Request, title string) viewmodels.BaseData {
	data := viewmodels.BaseData{Title: title}

	latest, err := c.Pages.Latest(r.Context(), c.LatestCount)
	if err != nil {
		c.Log.Error("loading latest pages failed", "error", err)
		return data
	}
	loc := c.Auth.Location(r)
	for _, p := range latest {
		data.Latest = append(data.Latest, viewmodels.NewPageView(p, loc, c.toName(r)))
	}
	return data
}

func (c *Common) toName(r *http.Request) func(string) string {
	return func(uid string) string {
		return c.Users.ToName(r.Context(), uid)
	}
}

func (c *Common) pageView(r *http.Request, p models.Page) viewmodels.PageView {
	return viewmodels.NewPageView(p, c.Auth.Location(r), c.toName(r))
}

// errorPage renders the markup file configured for the given status
// code, falling back to a bare status page when the file is missing.
func (c *Common) errorPage(w http.ResponseWriter, r *http.Request, code int) {
	path := filepath.Join(c.ErrorPages, strconv.Itoa(code)+".org")
	raw, err := os.ReadFile(path)
	if err != nil {
		http.Error(w, http.StatusText(code), code)
		return
	}
	body, err := renderer.ToHTML(string(raw))
	if err != nil {
		http.Error(w, http.StatusText(code), code)
		return
	}

	info, _ := os.Stat(path)
	view := viewmodels.PageView{
		Title:     "Error",
		Content:   template.HTML(body),
		UpdatedBy: "System",
		NoEdit:    true,
	}
	if info != nil {
		view.UpdatedAt = c.localize(r, info.ModTime())
	}

	w.WriteHeader(code)
	c.render(w, "content.html", viewmodels.ContentData{
		BaseData: c.base(r, "Error "+strconv.Itoa(code)),
		Page:     view,
	})
}

// NotFound renders the configured 404 page.
func (c *Common) NotFound(w http.ResponseWriter, r *http.Request) {
	c.errorPage(w, r, http.StatusNotFound)
}

const stampFormat = "2006/01/02 15:04:05.000000"

func (c *Common) localize(r *http.Request, t time.Time) string {
	return t.In(c.Auth.Location(r)).Format(stampFormat)
}
