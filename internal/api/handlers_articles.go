package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleArticlesIndex(w http.ResponseWriter, r *http.Request) {
	metas, err := s.articles.ListMeta()
	if err != nil {
		s.renderContentError(w, r, err)
		return
	}
	writeJSON(w, map[string]any{"articles": metas})
}

func (s *Server) handleArticlePage(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	article, err := s.articles.Get(slug)
	if err != nil {
		s.renderContentError(w, r, err)
		return
	}

	writeJSON(w, map[string]any{
		"meta": article.Meta,
		"body": article.Body,
		"toc":  article.TOC,
	})
}
