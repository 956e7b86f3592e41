package articles

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/atlaspath/siteserve/internal/compiler"
	"github.com/atlaspath/siteserve/internal/store"
)

func newService(t *testing.T) (*Service, string) {
	t.Helper()
	root := t.TempDir()
	return New(root, compiler.New(compiler.DefaultOptions())), root
}

func write(t *testing.T, root, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(root, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestListMeta_MissingRoot(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "nope"), compiler.New(compiler.DefaultOptions()))
	metas, err := s.ListMeta()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(metas) != 0 {
		t.Fatalf("expected empty list, got %v", metas)
	}
}

func TestListMeta_NewestFirstWithDefaults(t *testing.T) {
	s, root := newService(t)
	write(t, root, "old-news.mdx", "---\ntitle: Old News\ndate: \"2024-01-10\"\n---\n"+strings.Repeat("word ", 450))
	write(t, root, "fresh.mdx", "---\ntitle: Fresh\ndate: \"2025-06-01\"\n---\nshort body")
	write(t, root, "bare.md", "no front matter at all")
	write(t, root, "hidden.mdx", "---\ntitle: Hidden\ndraft: true\n---\nx")
	write(t, root, "notes.txt", "ignored")

	metas, err := s.ListMeta()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(metas) != 3 {
		t.Fatalf("expected 3 articles, got %d", len(metas))
	}
	if metas[0].Title != "Fresh" || metas[1].Title != "Old News" {
		t.Errorf("expected newest first, got %q then %q", metas[0].Title, metas[1].Title)
	}

	var old Meta
	for _, m := range metas {
		if m.Slug == "old-news" {
			old = m
		}
	}
	if old.WordCount != 450 {
		t.Errorf("word count: expected 450, got %d", old.WordCount)
	}
	if old.ReadTime != "3 min read" {
		t.Errorf("read time: expected %q, got %q", "3 min read", old.ReadTime)
	}

	var bare Meta
	for _, m := range metas {
		if m.Slug == "bare" {
			bare = m
		}
	}
	if bare.Title != "Untitled" || bare.Author != "Admin" || bare.Image != "/images/default.jpg" {
		t.Errorf("defaults not applied: %+v", bare)
	}
}

func TestGet_CompilesBodyAndTOC(t *testing.T) {
	s, root := newService(t)
	write(t, root, "guide.mdx", strings.Join([]string{
		"---",
		"title: Guide",
		"date: \"2025-01-01\"",
		"---",
		"Intro.",
		"",
		"## Getting Started",
		"text",
		"",
		"### Why Choose Us?",
		"more",
	}, "\n"))

	article, err := s.Get("guide")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if article.Meta.Title != "Guide" {
		t.Errorf("title: got %q", article.Meta.Title)
	}
	if !strings.Contains(string(article.Body), `id="getting-started"`) {
		t.Errorf("body missing heading id: %q", article.Body)
	}

	if len(article.TOC) != 2 {
		t.Fatalf("expected 2 TOC entries, got %v", article.TOC)
	}
	if article.TOC[0].ID != "getting-started" || article.TOC[0].Depth != 2 {
		t.Errorf("toc[0]: got %+v", article.TOC[0])
	}
	if article.TOC[1].ID != "why-choose-us" || article.TOC[1].Depth != 3 {
		t.Errorf("toc[1]: got %+v", article.TOC[1])
	}
}

func TestGet_MdFallback(t *testing.T) {
	s, root := newService(t)
	write(t, root, "plain.md", "---\ntitle: Plain\n---\nbody")

	article, err := s.Get("plain")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if article.Meta.Slug != "plain" {
		t.Errorf("slug: got %q", article.Meta.Slug)
	}
}

func TestGet_NotFound(t *testing.T) {
	s, _ := newService(t)
	_, err := s.Get("missing")
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
