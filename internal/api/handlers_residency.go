package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/atlaspath/siteserve/internal/compiler"
	"github.com/atlaspath/siteserve/internal/content"
	"github.com/atlaspath/siteserve/internal/frontmatter"
	"github.com/atlaspath/siteserve/internal/store"
)

// handleResidencyIndex serves the residency landing payload: every country
// and every program.
func (s *Server) handleResidencyIndex(w http.ResponseWriter, r *http.Request) {
	countries, err := s.catalog.ListCountries()
	if err != nil {
		s.renderContentError(w, r, err)
		return
	}
	programs, err := s.catalog.ListPrograms("")
	if err != nil {
		s.renderContentError(w, r, err)
		return
	}

	writeJSON(w, map[string]any{
		"countries": countries,
		"programs":  programs,
	})
}

// handleCountryPage serves one country's compiled page plus its program list.
func (s *Server) handleCountryPage(w http.ResponseWriter, r *http.Request) {
	countrySlug := chi.URLParam(r, "country")

	page, err := s.catalog.LoadCountryPage(countrySlug)
	if err != nil {
		s.renderContentError(w, r, err)
		return
	}
	if page.Meta.Draft {
		s.notFound(w)
		return
	}

	programs, err := s.catalog.ListPrograms(countrySlug)
	if err != nil {
		s.renderContentError(w, r, err)
		return
	}

	writeJSON(w, map[string]any{
		"meta":     page.Meta,
		"body":     page.Body,
		"programs": programs,
	})
}

// handleProgramPage serves one program's metadata, its body compiled section
// by section, sibling programs in the same country, and the ranked related
// list.
func (s *Server) handleProgramPage(w http.ResponseWriter, r *http.Request) {
	countrySlug := chi.URLParam(r, "country")
	programSlug := chi.URLParam(r, "program")

	page, err := s.catalog.LoadProgramSections(countrySlug, programSlug)
	if err != nil {
		s.renderContentError(w, r, err)
		return
	}
	if page.Meta.Draft {
		s.notFound(w)
		return
	}

	siblings, err := s.catalog.ListPrograms(countrySlug)
	if err != nil {
		s.renderContentError(w, r, err)
		return
	}
	others := make([]content.ProgramMeta, 0, len(siblings))
	for _, p := range siblings {
		if p.ProgramSlug != programSlug {
			others = append(others, p)
		}
	}

	relatedPrograms := s.ranker.Related(r.Context(), page.Meta)

	writeJSON(w, map[string]any{
		"meta":          page.Meta,
		"sections":      page.Sections,
		"sectionOrder":  page.Order,
		"otherPrograms": others,
		"related":       relatedPrograms,
	})
}

// renderContentError degrades content failures to a not-found response. A
// half-rendered page is worse than a clean failure signal, so parse and
// compile failures 404 like missing files do; only unexpected errors 500.
func (s *Server) renderContentError(w http.ResponseWriter, r *http.Request, err error) {
	var perr *frontmatter.ParseError
	var cerr *compiler.CompileError

	switch {
	case errors.Is(err, store.ErrNotFound):
		s.notFound(w)
	case errors.As(err, &perr):
		s.log.Warn("unreadable front matter", "path", r.URL.Path, "error", err)
		s.notFound(w)
	case errors.As(err, &cerr):
		s.log.Error("content failed to compile", "path", r.URL.Path, "error", err)
		s.notFound(w)
	default:
		s.log.Error("content resolution failed", "path", r.URL.Path, "error", err)
		jsonError(w, "internal error", http.StatusInternalServerError)
	}
}

func (s *Server) notFound(w http.ResponseWriter) {
	jsonError(w, "not found", http.StatusNotFound)
}

func writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
