package web

import (
	"embed"
	"html/template"
	"net/url"
)

//go:embed templates
var templateFiles embed.FS

var funcs = template.FuncMap{
	"pathescape": url.PathEscape,
}

// Templates builds one isolated template set per view, each paired
// with the shared layout and sidebar.
func Templates() map[string]*template.Template {
	views := []string{
		"login.html",
		"content.html",
		"edit.html",
		"index.html",
		"search.html",
		"edit_user.html",
		"archive_list.html",
		"archive.html",
	}

	templates := make(map[string]*template.Template)
	for _, view := range views {
		templates[view] = template.Must(template.New(view).Funcs(funcs).ParseFS(templateFiles,
			"templates/layout.html",
			"templates/sidebar.html",
			"templates/"+view,
		))
	}
	return templates
}
