// Package articles reads the blog content tree. Structurally the residency
// pipeline minus section splitting: front matter plus a whole-body compile.
package articles

import (
	"fmt"
	"html/template"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/atlaspath/siteserve/internal/compiler"
	"github.com/atlaspath/siteserve/internal/frontmatter"
	"github.com/atlaspath/siteserve/internal/sections"
	"github.com/atlaspath/siteserve/internal/store"
)

// FAQ is an article-level question/answer pair.
type FAQ struct {
	Question string `yaml:"question" json:"question"`
	Answer   string `yaml:"answer" json:"answer"`
}

// Meta is the listing-level view of an article.
type Meta struct {
	Slug        string   `yaml:"-" json:"slug"`
	Title       string   `yaml:"title" json:"title"`
	Description string   `yaml:"description,omitempty" json:"description,omitempty"`
	Date        string   `yaml:"date,omitempty" json:"date,omitempty"`
	Updated     string   `yaml:"updated,omitempty" json:"updated,omitempty"`
	Author      string   `yaml:"author,omitempty" json:"author,omitempty"`
	AuthorImg   string   `yaml:"authorImg,omitempty" json:"authorImg,omitempty"`
	Image       string   `yaml:"coverImage,omitempty" json:"image,omitempty"`
	Alt         string   `yaml:"alt,omitempty" json:"alt,omitempty"`
	ReadTime    string   `yaml:"-" json:"readTime"`
	WordCount   int      `yaml:"-" json:"wordCount"`
	Tags        []string `yaml:"tags,omitempty" json:"tags,omitempty"`
	FAQs        []FAQ    `yaml:"faqs,omitempty" json:"faqs,omitempty"`
	Draft       bool     `yaml:"draft,omitempty" json:"-"`
}

// TOCEntry is one heading in an article's table of contents.
type TOCEntry struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Depth int    `json:"depth"`
}

// Article is a fully loaded article: metadata, compiled body, table of
// contents.
type Article struct {
	Meta Meta
	Body template.HTML
	TOC  []TOCEntry
}

// Service reads articles from a flat directory of .mdx/.md files.
type Service struct {
	root string
	comp *compiler.Compiler
}

// New creates an article service rooted at the given directory.
func New(root string, comp *compiler.Compiler) *Service {
	return &Service{root: root, comp: comp}
}

// ListMeta returns metadata for all non-draft articles, newest first by date.
// Articles without a parseable date sort last.
func (s *Service) ListMeta() ([]Meta, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		// Missing article tree is an empty blog, not an error.
		return nil, nil
	}

	var out []Meta
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !isArticleFile(name) {
			continue
		}
		meta, _, err := s.load(filepath.Join(s.root, name))
		if err != nil {
			return nil, err
		}
		if meta.Draft {
			continue
		}
		out = append(out, meta)
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, aok := parseDate(out[i].Date)
		b, bok := parseDate(out[j].Date)
		switch {
		case aok && bok:
			return a.After(b)
		case aok:
			return true
		default:
			return false
		}
	})
	return out, nil
}

// Get loads one article by slug, trying .mdx then .md.
func (s *Service) Get(slug string) (Article, error) {
	path := filepath.Join(s.root, slug+".mdx")
	if _, err := os.Stat(path); err != nil {
		path = filepath.Join(s.root, slug+".md")
		if _, err := os.Stat(path); err != nil {
			return Article{}, fmt.Errorf("article %s: %w", slug, store.ErrNotFound)
		}
	}

	meta, body, err := s.load(path)
	if err != nil {
		return Article{}, err
	}

	html, err := s.comp.Compile(body)
	if err != nil {
		return Article{}, err
	}

	return Article{Meta: meta, Body: html, TOC: tableOfContents(body)}, nil
}

func (s *Service) load(path string) (Meta, string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Meta{}, "", fmt.Errorf("%s: %w", path, store.ErrNotFound)
		}
		return Meta{}, "", fmt.Errorf("read %s: %w", path, err)
	}

	doc, err := frontmatter.Parse(string(raw))
	if err != nil {
		return Meta{}, "", err
	}

	var meta Meta
	if doc.RawMetadata != "" {
		if err := yaml.Unmarshal([]byte(doc.RawMetadata), &meta); err != nil {
			return Meta{}, "", &frontmatter.ParseError{Err: err}
		}
	}

	meta.Slug = articleSlug(filepath.Base(path))
	if meta.Title == "" {
		meta.Title = "Untitled"
	}
	if meta.Author == "" {
		meta.Author = "Admin"
	}
	if meta.Image == "" {
		meta.Image = "/images/default.jpg"
	}
	meta.WordCount = len(strings.Fields(doc.Body))
	meta.ReadTime = readTime(meta.WordCount)

	return meta, doc.Body, nil
}

// readTime estimates reading time at 200 words per minute, minimum 1 minute.
func readTime(words int) string {
	minutes := int(math.Ceil(float64(words) / 200))
	if minutes < 1 {
		minutes = 1
	}
	return fmt.Sprintf("%d min read", minutes)
}

var tocHeading = regexp.MustCompile(`(?m)^(#{2,3})\s+(.+?)\s*$`)

// tableOfContents collects "##" and "###" headings with the same ids the
// compiler assigns.
func tableOfContents(body string) []TOCEntry {
	var toc []TOCEntry
	for _, m := range tocHeading.FindAllStringSubmatch(body, -1) {
		toc = append(toc, TOCEntry{
			ID:    sections.Slugify(m[2]),
			Title: m[2],
			Depth: len(m[1]),
		})
	}
	return toc
}

func isArticleFile(name string) bool {
	return strings.HasSuffix(name, ".mdx") || strings.HasSuffix(name, ".md")
}

func articleSlug(filename string) string {
	filename = strings.TrimSuffix(filename, ".mdx")
	return strings.TrimSuffix(filename, ".md")
}

func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
