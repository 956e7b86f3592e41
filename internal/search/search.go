// Package search builds a flat index over countries, programs and articles
// and answers substring queries against it. The index is assembled per
// request from the same catalog reads the pages use; nothing is precomputed.
package search

import (
	"strings"

	"github.com/atlaspath/siteserve/internal/articles"
	"github.com/atlaspath/siteserve/internal/content"
)

// Item is one searchable entry.
type Item struct {
	Type        string `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url"`
}

// Index is a static snapshot of searchable content.
type Index struct {
	items []Item
}

// Build assembles the index from the residency catalog and the article tree.
// Countries whose metadata lacks a summary get a plain-text description
// extracted from their compiled body.
func Build(catalog *content.Catalog, blog *articles.Service) (*Index, error) {
	var items []Item

	countries, err := catalog.ListCountries()
	if err != nil {
		return nil, err
	}
	for _, c := range countries {
		desc := c.Summary
		if desc == "" {
			desc = c.Tagline
		}
		if desc == "" {
			if page, err := catalog.LoadCountryPage(c.CountrySlug); err == nil {
				desc = Excerpt(string(page.Body), 160)
			}
		}
		items = append(items, Item{
			Type:        "residency",
			Title:       c.Title,
			Description: desc,
			URL:         "/residency/" + c.CountrySlug,
		})
	}

	programs, err := catalog.ListPrograms("")
	if err != nil {
		return nil, err
	}
	for _, p := range programs {
		items = append(items, Item{
			Type:        "residency",
			Title:       p.Title,
			Description: p.Tagline,
			URL:         "/residency/" + p.CountrySlug + "/" + p.ProgramSlug,
		})
	}

	metas, err := blog.ListMeta()
	if err != nil {
		return nil, err
	}
	for _, m := range metas {
		items = append(items, Item{
			Type:        "article",
			Title:       m.Title,
			Description: m.Description,
			URL:         "/articles/" + m.Slug,
		})
	}

	return &Index{items: items}, nil
}

// Items returns the full index.
func (ix *Index) Items() []Item {
	return ix.items
}

// Search filters the index by case-insensitive substring match over title and
// description. An empty query matches nothing.
func (ix *Index) Search(query string) []Item {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}

	var out []Item
	for _, item := range ix.items {
		if strings.Contains(strings.ToLower(item.Title), query) ||
			strings.Contains(strings.ToLower(item.Description), query) {
			out = append(out, item)
		}
	}
	return out
}
