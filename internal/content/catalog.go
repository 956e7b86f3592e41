// Package content aggregates country and program metadata across the content
// store and loads compiled pages. Everything is a read-through over the store;
// nothing is cached between calls.
package content

import (
	"errors"
	"html/template"
	"sort"

	"github.com/atlaspath/siteserve/internal/compiler"
	"github.com/atlaspath/siteserve/internal/frontmatter"
	"github.com/atlaspath/siteserve/internal/sections"
	"github.com/atlaspath/siteserve/internal/store"
)

// Catalog resolves content through the store, front-matter parser, section
// splitter and compiler.
type Catalog struct {
	store *store.Store
	comp  *compiler.Compiler
}

// NewCatalog wires a catalog over a content store and a compiler.
func NewCatalog(st *store.Store, comp *compiler.Compiler) *Catalog {
	return &Catalog{store: st, comp: comp}
}

// Store exposes the underlying content store.
func (c *Catalog) Store() *store.Store {
	return c.store
}

// ListCountries returns all non-draft countries, sorted by display name.
// Countries without a summary file are skipped, not errors.
func (c *Catalog) ListCountries() ([]CountryMeta, error) {
	var out []CountryMeta

	for _, slug := range c.store.ListCountrySlugs() {
		meta, err := c.CountryFrontmatter(slug)
		if err != nil {
			if isNotFound(err) {
				continue
			}
			return nil, err
		}
		if meta.Draft {
			continue
		}
		out = append(out, meta)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Country < out[j].Country
	})
	return out, nil
}

// ListPrograms returns all non-draft programs, sorted by countrySlug+title.
// With a non-empty countrySlug only that country's programs are listed.
func (c *Catalog) ListPrograms(countrySlug string) ([]ProgramMeta, error) {
	countries := []string{countrySlug}
	if countrySlug == "" {
		countries = c.store.ListCountrySlugs()
	}

	var out []ProgramMeta
	for _, country := range countries {
		for _, program := range c.store.ListProgramSlugs(country) {
			meta, err := c.ProgramFrontmatter(country, program)
			if err != nil {
				return nil, err
			}
			if meta.Draft {
				continue
			}
			out = append(out, meta)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CountrySlug+out[i].Title < out[j].CountrySlug+out[j].Title
	})
	return out, nil
}

// CountryFrontmatter reads and decodes a country's metadata, body discarded.
func (c *Catalog) CountryFrontmatter(countrySlug string) (CountryMeta, error) {
	raw, err := c.store.ReadCountryRaw(countrySlug)
	if err != nil {
		return CountryMeta{}, err
	}
	doc, err := frontmatter.Parse(raw)
	if err != nil {
		return CountryMeta{}, err
	}
	meta, err := decodeCountryMeta(doc)
	if err != nil {
		return CountryMeta{}, err
	}
	fillCountryDefaults(&meta, countrySlug)
	return meta, nil
}

// ProgramFrontmatter reads and decodes a program's metadata, body discarded.
func (c *Catalog) ProgramFrontmatter(countrySlug, programSlug string) (ProgramMeta, error) {
	raw, err := c.store.ReadProgramRaw(countrySlug, programSlug)
	if err != nil {
		return ProgramMeta{}, err
	}
	doc, err := frontmatter.Parse(raw)
	if err != nil {
		return ProgramMeta{}, err
	}
	meta, err := decodeProgramMeta(doc)
	if err != nil {
		return ProgramMeta{}, err
	}
	fillProgramDefaults(&meta, countrySlug, programSlug)
	return meta, nil
}

// CountryPage is a country's metadata plus its whole body compiled as one
// tree.
type CountryPage struct {
	Meta CountryMeta
	Body template.HTML
}

// LoadCountryPage compiles a country's full body.
func (c *Catalog) LoadCountryPage(countrySlug string) (CountryPage, error) {
	raw, err := c.store.ReadCountryRaw(countrySlug)
	if err != nil {
		return CountryPage{}, err
	}
	doc, err := frontmatter.Parse(raw)
	if err != nil {
		return CountryPage{}, err
	}
	meta, err := decodeCountryMeta(doc)
	if err != nil {
		return CountryPage{}, err
	}
	fillCountryDefaults(&meta, countrySlug)

	body, err := c.comp.Compile(doc.Body)
	if err != nil {
		return CountryPage{}, err
	}
	return CountryPage{Meta: meta, Body: body}, nil
}

// ProgramPage is a program's metadata plus its whole body compiled as one
// tree. Used where section splitting is not wanted.
type ProgramPage struct {
	Meta ProgramMeta
	Body template.HTML
}

// LoadProgramPage compiles a program's full body.
func (c *Catalog) LoadProgramPage(countrySlug, programSlug string) (ProgramPage, error) {
	raw, err := c.store.ReadProgramRaw(countrySlug, programSlug)
	if err != nil {
		return ProgramPage{}, err
	}
	doc, err := frontmatter.Parse(raw)
	if err != nil {
		return ProgramPage{}, err
	}
	meta, err := decodeProgramMeta(doc)
	if err != nil {
		return ProgramPage{}, err
	}
	fillProgramDefaults(&meta, countrySlug, programSlug)

	body, err := c.comp.Compile(doc.Body)
	if err != nil {
		return ProgramPage{}, err
	}
	return ProgramPage{Meta: meta, Body: body}, nil
}

// ProgramSectionsPage is a program's metadata plus each body section compiled
// independently, keyed by the slug of its introducing heading.
type ProgramSectionsPage struct {
	Meta     ProgramMeta
	Sections map[string]template.HTML
	// Order lists section slugs in first-seen heading order.
	Order []string
}

// LoadProgramSections splits a program body on "###" headings and compiles
// each chunk. A body without such headings comes back as a single "overview"
// section.
func (c *Catalog) LoadProgramSections(countrySlug, programSlug string) (ProgramSectionsPage, error) {
	raw, err := c.store.ReadProgramRaw(countrySlug, programSlug)
	if err != nil {
		return ProgramSectionsPage{}, err
	}
	doc, err := frontmatter.Parse(raw)
	if err != nil {
		return ProgramSectionsPage{}, err
	}
	meta, err := decodeProgramMeta(doc)
	if err != nil {
		return ProgramSectionsPage{}, err
	}
	fillProgramDefaults(&meta, countrySlug, programSlug)

	chunks := sections.SplitByHeading(doc.Body, sections.DefaultLevel)
	page := ProgramSectionsPage{
		Meta:     meta,
		Sections: make(map[string]template.HTML, len(chunks)),
		Order:    chunks.Slugs(),
	}
	for _, chunk := range chunks {
		html, err := c.comp.Compile(chunk.Text)
		if err != nil {
			return ProgramSectionsPage{}, err
		}
		page.Sections[chunk.Slug] = html
	}
	return page, nil
}

// URLs lists every residency route for sitemap generation.
func (c *Catalog) URLs() []string {
	urls := []string{"/residency"}
	for _, country := range c.store.ListCountrySlugs() {
		urls = append(urls, "/residency/"+country)
		for _, program := range c.store.ListProgramSlugs(country) {
			urls = append(urls, "/residency/"+country+"/"+program)
		}
	}
	return urls
}

func isNotFound(err error) bool {
	return errors.Is(err, store.ErrNotFound)
}
