package web

import (
	"net/http"

	"harrow/internal/web/controller"
	"harrow/internal/web/middleware"
)

func (s *Server) routes() http.Handler {
	common := controller.Common{
		Templates:   s.templates,
		Auth:        s.authService,
		Pages:       s.pageRepo,
		Users:       s.userRepo,
		Log:         s.log,
		TopPage:     s.cfg.TopPage,
		ErrorPages:  s.cfg.ErrorPages,
		LatestCount: s.cfg.LatestCount,
	}

	mux := http.NewServeMux()
	mux.Handle("/static/", http.StripPrefix("/static/", StaticFileServer()))

	authController := controller.Auth{Common: common}
	authController.Register(mux)

	authenticatedMux := http.NewServeMux()

	pageController := controller.Page{Common: common, Archive: s.archiveRepo, PDF: s.pdfGen}
	pageController.Register(authenticatedMux)

	userController := controller.User{Common: common}
	userController.Register(authenticatedMux)

	searchController := controller.Search{Common: common, Engine: s.engine}
	searchController.Register(authenticatedMux)

	// Anything not matched above renders the configured 404 page.
	authenticatedMux.HandleFunc("/", common.NotFound)

	mux.Handle("/", middleware.WithUser(s.authService)(middleware.Auth(s.authService)(authenticatedMux)))

	return mux
}
