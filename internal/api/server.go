package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/atlaspath/siteserve/internal/articles"
	"github.com/atlaspath/siteserve/internal/config"
	"github.com/atlaspath/siteserve/internal/content"
	"github.com/atlaspath/siteserve/internal/related"
)

// Server composes pages from the content pipeline and serves them as JSON
// payloads the UI renders.
type Server struct {
	router   chi.Router
	catalog  *content.Catalog
	ranker   *related.Ranker
	articles *articles.Service
	log      *slog.Logger
	cfg      config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(catalog *content.Catalog, ranker *related.Ranker, blog *articles.Service, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		catalog:  catalog,
		ranker:   ranker,
		articles: blog,
		log:      log,
		cfg:      cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	r.Get("/health", s.handleHealth)

	r.Get("/residency", s.handleResidencyIndex)
	r.Get("/residency/{country}", s.handleCountryPage)
	r.Get("/residency/{country}/{program}", s.handleProgramPage)

	r.Get("/articles", s.handleArticlesIndex)
	r.Get("/articles/{slug}", s.handleArticlePage)

	r.Get("/search", s.handleSearch)
	r.Get("/sitemap.xml", s.handleSitemap)

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
