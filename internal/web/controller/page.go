package controller

import (
	"errors"
	"html/template"
	"net/http"
	"net/url"

	"github.com/sergi/go-diff/diffmatchpatch"

	"harrow/internal/archive"
	"harrow/internal/auth"
	"harrow/internal/page"
	"harrow/internal/web/pdf"
	"harrow/internal/web/renderer"
	"harrow/internal/web/viewmodels"
)

// Page provides page handlers
type Page struct {
	Common
	Archive *archive.Repository
	PDF     *pdf.Generator
}

// Register registers the page routes
func (p *Page) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /contents/{pid}", p.view)
	mux.HandleFunc("GET /contents/{pid}/edit", p.edit)
	mux.HandleFunc("POST /contents/{pid}/edit", p.save)
	mux.HandleFunc("GET /contents/{pid}/pdf", p.exportPDF)
	mux.HandleFunc("GET /contents/{pid}/archive", p.archiveList)
	mux.HandleFunc("GET /archive/{aid}", p.archiveView)
	mux.HandleFunc("GET /index", p.index)
	mux.HandleFunc("GET /pages/new", p.new)
	mux.HandleFunc("POST /pages/new", p.create)
}

func (p *Page) view(w http.ResponseWriter, r *http.Request) {
	pid := r.PathValue("pid")

	doc, err := p.Pages.Get(r.Context(), pid)
	if errors.Is(err, page.ErrNotFound) {
		p.NotFound(w, r)
		return
	}
	if err != nil {
		p.Log.Error("loading page failed", "pid", pid, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	body, err := renderer.ToHTML(doc.Content)
	if err != nil {
		p.Log.Error("rendering page failed", "pid", pid, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	view := p.pageView(r, *doc)
	view.Content = template.HTML(body)
	p.render(w, "content.html", viewmodels.ContentData{
		BaseData: p.base(r, doc.Title),
		Page:     view,
	})
}

func (p *Page) edit(w http.ResponseWriter, r *http.Request) {
	pid := r.PathValue("pid")

	doc, err := p.Pages.Get(r.Context(), pid)
	if errors.Is(err, page.ErrNotFound) {
		p.NotFound(w, r)
		return
	}
	if err != nil {
		p.Log.Error("loading page failed", "pid", pid, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	p.render(w, "edit.html", viewmodels.EditData{
		BaseData:    p.base(r, "edit "+doc.Title),
		PostTo:      "/contents/" + url.PathEscape(pid) + "/edit",
		PageTitle:   doc.Title,
		PageContent: doc.Content,
	})
}

func (p *Page) save(w http.ResponseWriter, r *http.Request) {
	pid := r.PathValue("pid")
	title := r.FormValue("title")
	content := r.FormValue("content")
	uid, _ := auth.UserID(r.Context())

	newPID, err := p.Pages.Update(r.Context(), pid, uid, page.Patch{Title: &title, Content: &content})
	if err == nil {
		http.Redirect(w, r, "/contents/"+url.PathEscape(newPID), http.StatusFound)
		return
	}
	if !errors.Is(err, page.ErrNotFound) {
		p.Log.Error("updating page failed", "pid", pid, "error", err)
	}

	data := viewmodels.EditData{
		BaseData:    p.base(r, "edit "+title),
		PostTo:      "/contents/" + url.PathEscape(pid) + "/edit",
		PageTitle:   title,
		PageContent: content,
	}
	data.Message = "Could not save the page."
	p.render(w, "edit.html", data)
}

func (p *Page) exportPDF(w http.ResponseWriter, r *http.Request) {
	pid := r.PathValue("pid")

	doc, err := p.Pages.Get(r.Context(), pid)
	if errors.Is(err, page.ErrNotFound) {
		p.NotFound(w, r)
		return
	}
	if err != nil {
		p.Log.Error("loading page failed", "pid", pid, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	document, err := renderer.ToDocument(doc.Title, doc.Content)
	if err != nil {
		p.Log.Error("rendering page failed", "pid", pid, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	data, err := p.PDF.FromHTML(document)
	if err != nil {
		p.Log.Error("pdf export failed", "pid", pid, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename*=UTF-8''"+url.PathEscape(doc.Title+".pdf"))
	w.Write(data)
}

func (p *Page) archiveList(w http.ResponseWriter, r *http.Request) {
	pid := r.PathValue("pid")

	doc, err := p.Pages.Get(r.Context(), pid)
	if errors.Is(err, page.ErrNotFound) {
		p.NotFound(w, r)
		return
	}
	if err != nil {
		p.Log.Error("loading page failed", "pid", pid, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	entries, err := p.Archive.ByPage(r.Context(), pid)
	if err != nil {
		p.Log.Error("loading archive failed", "pid", pid, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	data := viewmodels.ArchiveListData{
		BaseData: p.base(r, "archive of "+doc.Title),
		PageID:   pid,
	}
	for _, e := range entries {
		data.Entries = append(data.Entries, viewmodels.ArchiveEntryView{
			ID:   e.ID,
			Date: p.localize(r, e.Date),
		})
	}
	p.render(w, "archive_list.html", data)
}

// archiveView shows one snapshot along with a diff against the page as
// it is now.
func (p *Page) archiveView(w http.ResponseWriter, r *http.Request) {
	aid := r.PathValue("aid")

	entry, err := p.Archive.Get(r.Context(), aid)
	if errors.Is(err, archive.ErrNotFound) {
		p.NotFound(w, r)
		return
	}
	if err != nil {
		p.Log.Error("loading archive entry failed", "aid", aid, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	body, err := renderer.ToHTML(entry.Page.Content)
	if err != nil {
		p.Log.Error("rendering snapshot failed", "aid", aid, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	view := p.pageView(r, entry.Page)
	view.Content = template.HTML(body)
	view.NoEdit = true

	data := viewmodels.ArchiveData{
		BaseData: p.base(r, "archived "+entry.Page.Title),
		PageID:   entry.PageID,
		Archived: p.localize(r, entry.Date),
		Page:     view,
	}

	// The originating page may have been renamed or removed since the
	// snapshot was taken; the diff is only shown when it still exists.
	if current, err := p.Pages.Get(r.Context(), entry.PageID); err == nil {
		dmp := diffmatchpatch.New()
		diffs := dmp.DiffMain(entry.Page.Content, current.Content, false)
		data.Diff = template.HTML(dmp.DiffPrettyHtml(diffs))
	}

	p.render(w, "archive.html", data)
}

func (p *Page) index(w http.ResponseWriter, r *http.Request) {
	groups, err := p.Pages.Index(r.Context())
	if err != nil {
		p.Log.Error("loading index failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	data := viewmodels.IndexData{BaseData: p.base(r, "Index")}
	for _, g := range groups {
		view := viewmodels.IndexGroupView{Key: g.Key}
		for _, doc := range g.Pages {
			view.Pages = append(view.Pages, p.pageView(r, doc))
		}
		data.Groups = append(data.Groups, view)
	}
	p.render(w, "index.html", data)
}

func (p *Page) new(w http.ResponseWriter, r *http.Request) {
	p.render(w, "edit.html", viewmodels.EditData{
		BaseData: p.base(r, "new page"),
		PostTo:   "/pages/new",
	})
}

func (p *Page) create(w http.ResponseWriter, r *http.Request) {
	title := r.FormValue("title")
	content := r.FormValue("content")
	uid, _ := auth.UserID(r.Context())

	pid, err := p.Pages.Add(r.Context(), title, content, uid)
	if err == nil {
		http.Redirect(w, r, "/contents/"+url.PathEscape(pid), http.StatusFound)
		return
	}
	if !errors.Is(err, page.ErrExists) {
		p.Log.Error("creating page failed", "title", title, "error", err)
	}

	data := viewmodels.EditData{
		BaseData:    p.base(r, "new page"),
		PostTo:      "/pages/new",
		PageTitle:   title,
		PageContent: content,
	}
	data.Message = "Already exist"
	p.render(w, "edit.html", data)
}
