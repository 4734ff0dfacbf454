package web

import (
	"database/sql"
	"html/template"
	"log/slog"
	"net/http"

	"harrow/internal/archive"
	"harrow/internal/auth"
	"harrow/internal/config"
	"harrow/internal/page"
	"harrow/internal/search"
	"harrow/internal/user"
	"harrow/internal/web/pdf"
)

// Server holds the dependencies for the web server.
type Server struct {
	cfg       *config.Config
	log       *slog.Logger
	templates map[string]*template.Template

	authService *auth.Service
	userRepo    *user.Repository
	pageRepo    *page.Repository
	archiveRepo *archive.Repository
	engine      *search.Engine
	pdfGen      *pdf.Generator
}

// NewServer wires the repositories, auth service, and search engine
// over the given database.
func NewServer(db *sql.DB, cfg *config.Config, log *slog.Logger) (*Server, error) {
	userRepo, err := user.NewRepository(db)
	if err != nil {
		return nil, err
	}
	archiveRepo, err := archive.NewRepository(db)
	if err != nil {
		return nil, err
	}

	var archiver page.Archiver
	if cfg.Archive {
		archiver = archiveRepo
	}
	pageRepo, err := page.NewRepository(db, archiver, cfg.TitleAsID)
	if err != nil {
		return nil, err
	}

	order := search.LowestFirst
	if cfg.SearchOrder == "highest" {
		order = search.HighestFirst
	}

	return &Server{
		cfg:         cfg,
		log:         log,
		templates:   Templates(),
		authService: auth.NewService(auth.NewRegistry()),
		userRepo:    userRepo,
		pageRepo:    pageRepo,
		archiveRepo: archiveRepo,
		engine:      &search.Engine{Workers: cfg.SearchWorkers, Order: order},
		pdfGen:      &pdf.Generator{CSS: cfg.PDFCSS},
	}, nil
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.routes().ServeHTTP(w, r)
}
