package controller

import (
	"net/http"
	"time"

	"harrow/internal/search"
	"harrow/internal/web/viewmodels"
)

// Search provides the search handler.
type Search struct {
	Common
	Engine *search.Engine
}

// Register registers the search routes
func (s *Search) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /search", s.search)
}

func (s *Search) search(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("q")
	started := time.Now()

	pages, err := s.Pages.All(r.Context())
	if err != nil {
		s.Log.Error("loading pages failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	results := s.Engine.Search(pages, search.ParseQuery(raw))
	elapsed := time.Since(started)

	data := viewmodels.SearchData{
		BaseData: s.base(r, "Search"),
		Query:    raw,
		Count:    len(results),
		Seconds:  elapsed.Seconds(),
	}
	for _, res := range results {
		data.Results = append(data.Results, viewmodels.SearchResultView{
			Page:   s.pageView(r, res.Page),
			Points: res.Points,
		})
	}
	s.render(w, "search.html", data)
}
