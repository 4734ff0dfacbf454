package controller

import (
	"html/template"
	"net/http"
	"os"

	"harrow/internal/web/renderer"
	"harrow/internal/web/viewmodels"
)

// Auth provides the top page and the login/logout handlers.
type Auth struct {
	Common
}

// Register registers the auth routes
func (a *Auth) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", a.top)
	mux.HandleFunc("POST /login", a.login)
	mux.HandleFunc("GET /logout", a.logout)
}

// top renders the configured top-page file for an authenticated
// session and the sign-in form for everyone else.
func (a *Auth) top(w http.ResponseWriter, r *http.Request) {
	if !a.Auth.Check(w, r) {
		a.render(w, "login.html", viewmodels.ContentData{
			BaseData: viewmodels.BaseData{Title: "Sign in"},
		})
		return
	}

	raw, err := os.ReadFile(a.TopPage)
	if err != nil {
		a.Log.Error("reading top page failed", "path", a.TopPage, "error", err)
		a.NotFound(w, r)
		return
	}
	body, err := renderer.ToHTML(string(raw))
	if err != nil {
		a.Log.Error("rendering top page failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	view := viewmodels.PageView{
		Title:     "Top Page",
		Content:   template.HTML(body),
		UpdatedBy: "System",
		NoEdit:    true,
	}
	if info, err := os.Stat(a.TopPage); err == nil {
		view.UpdatedAt = a.localize(r, info.ModTime())
	}

	a.render(w, "content.html", viewmodels.ContentData{
		BaseData: a.base(r, "Top"),
		Page:     view,
	})
}

func (a *Auth) login(w http.ResponseWriter, r *http.Request) {
	email := r.FormValue("email")
	password := r.FormValue("password")
	tz := r.FormValue("tz")

	if a.Users.Check(r.Context(), email, password) {
		if err := a.Auth.Login(w, r, email, tz); err != nil {
			a.Log.Error("login failed", "error", err)
		}
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

func (a *Auth) logout(w http.ResponseWriter, r *http.Request) {
	a.Auth.Logout(w, r)
	http.Redirect(w, r, "/", http.StatusFound)
}
