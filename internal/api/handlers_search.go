package api

import (
	"encoding/xml"
	"net/http"
	"strings"

	"github.com/atlaspath/siteserve/internal/search"
)

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	index, err := search.Build(s.catalog, s.articles)
	if err != nil {
		s.renderContentError(w, r, err)
		return
	}

	results := index.Search(query)
	if results == nil {
		results = []search.Item{}
	}
	writeJSON(w, map[string]any{
		"query":   query,
		"results": results,
	})
}

type sitemapURL struct {
	Loc string `xml:"loc"`
}

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

func (s *Server) handleSitemap(w http.ResponseWriter, r *http.Request) {
	base := strings.TrimSuffix(s.cfg.SiteBaseURL, "/")

	urlset := sitemapURLSet{Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9"}
	for _, u := range s.catalog.URLs() {
		urlset.URLs = append(urlset.URLs, sitemapURL{Loc: base + u})
	}
	metas, err := s.articles.ListMeta()
	if err == nil {
		urlset.URLs = append(urlset.URLs, sitemapURL{Loc: base + "/articles"})
		for _, m := range metas {
			urlset.URLs = append(urlset.URLs, sitemapURL{Loc: base + "/articles/" + m.Slug})
		}
	}

	w.Header().Set("Content-Type", "application/xml")
	w.Write([]byte(xml.Header))
	_ = xml.NewEncoder(w).Encode(urlset)
}
