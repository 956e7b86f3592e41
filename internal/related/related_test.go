package related

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/atlaspath/siteserve/internal/compiler"
	"github.com/atlaspath/siteserve/internal/content"
	"github.com/atlaspath/siteserve/internal/store"
)

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func program(country, slug, title string, tags []string, months *int, investment *float64) content.ProgramMeta {
	return content.ProgramMeta{
		Title:          title,
		Country:        country,
		CountrySlug:    country,
		ProgramSlug:    slug,
		Tags:           tags,
		TimelineMonths: months,
		MinInvestment:  investment,
	}
}

func TestScore_TagOverlapAndKeywords(t *testing.T) {
	base := program("pt", "golden-visa", "Golden Visa Portugal", []string{"golden", "visa"}, nil, nil)
	cand := program("gr", "golden-visa", "Greece Golden Visa", []string{"Golden", "property"}, nil, nil)

	// One shared tag (case-insensitive) = 3, plus "golden" and "visa" in both
	// titles = 2.
	if got := Score(base, cand); got != 5 {
		t.Fatalf("expected score 5, got %d", got)
	}
}

func TestScore_ZeroWhenNothingShared(t *testing.T) {
	base := program("pt", "a", "Golden Visa", []string{"golden", "visa"}, nil, nil)
	cand := program("ca", "b", "Farm Work Permit", []string{"agriculture"}, nil, nil)

	if got := Score(base, cand); got != 0 {
		t.Fatalf("expected score 0, got %d", got)
	}
}

func TestScore_TitleKeywordOnly(t *testing.T) {
	// No exact tag overlap, but "entrepreneur" appears in both titles.
	base := program("canada", "pnp", "PNP (Entrepreneur Stream)", []string{"startup", "investor"}, intPtr(8), floatPtr(200000))
	cand := program("canada", "self-employed", "Self Employed Visa", []string{"entrepreneur"}, intPtr(14), nil)

	if got := Score(base, cand); got != 0 {
		// "entrepreneur" is in the base title but not the candidate title;
		// "visa" is in the candidate title but not the base title.
		t.Fatalf("expected score 0 for disjoint titles, got %d", got)
	}

	cand.Title = "Self Employed Entrepreneur Visa"
	if got := Score(base, cand); got != 1 {
		t.Fatalf("expected score 1 via shared title keyword, got %d", got)
	}
}

func TestRank_ExcludesZeroScores(t *testing.T) {
	base := program("pt", "golden-visa", "Golden Visa", []string{"golden", "visa"}, nil, nil)
	cand := program("ca", "farm", "Farm Work Permit", []string{"agriculture"}, nil, nil)

	ranked := Rank(base, []content.ProgramMeta{cand}, DefaultLimit)
	if len(ranked) != 0 {
		t.Fatalf("expected zero-score candidate excluded, got %v", ranked)
	}
}

func TestRank_ExcludesBaseItself(t *testing.T) {
	base := program("pt", "golden-visa", "Golden Visa", []string{"golden"}, nil, nil)

	ranked := Rank(base, []content.ProgramMeta{base}, DefaultLimit)
	if len(ranked) != 0 {
		t.Fatalf("the base program must not relate to itself, got %v", ranked)
	}
}

func TestRank_TimelineTieBreak(t *testing.T) {
	base := program("pt", "base", "Golden Visa", []string{"golden"}, nil, nil)
	slow := program("a", "slow", "Golden Route", []string{"golden"}, intPtr(12), nil)
	fast := program("b", "fast", "Golden Track", []string{"golden"}, intPtr(6), nil)

	ranked := Rank(base, []content.ProgramMeta{slow, fast}, DefaultLimit)
	if len(ranked) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(ranked))
	}
	if ranked[0].URL != "/residency/b/fast" {
		t.Errorf("expected 6-month candidate first, got %v", ranked[0].URL)
	}
}

func TestRank_MissingTimelineSortsLast(t *testing.T) {
	base := program("pt", "base", "Golden Visa", []string{"golden"}, nil, nil)
	unknown := program("a", "unknown", "Golden Route", []string{"golden"}, nil, nil)
	withTimeline := program("b", "known", "Golden Track", []string{"golden"}, intPtr(24), nil)

	ranked := Rank(base, []content.ProgramMeta{unknown, withTimeline}, DefaultLimit)
	if len(ranked) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(ranked))
	}
	if ranked[0].URL != "/residency/b/known" {
		t.Errorf("candidate with a timeline should beat one without, got %v", ranked[0].URL)
	}
}

func TestRank_InvestmentTieBreak(t *testing.T) {
	base := program("pt", "base", "Golden Visa", []string{"golden"}, nil, nil)
	pricey := program("a", "pricey", "Golden Route", []string{"golden"}, intPtr(6), floatPtr(800000))
	cheap := program("b", "cheap", "Golden Track", []string{"golden"}, intPtr(6), floatPtr(250000))

	ranked := Rank(base, []content.ProgramMeta{pricey, cheap}, DefaultLimit)
	if ranked[0].URL != "/residency/b/cheap" {
		t.Errorf("expected cheaper candidate first, got %v", ranked[0].URL)
	}
}

func TestRank_Cap(t *testing.T) {
	base := program("pt", "base", "Golden Visa", []string{"golden"}, nil, nil)

	var candidates []content.ProgramMeta
	for i := 0; i < 20; i++ {
		months := i + 1
		candidates = append(candidates, program("c", fmt.Sprintf("p%02d", i),
			"Golden Option", []string{"golden"}, &months, nil))
	}

	ranked := Rank(base, candidates, 6)
	if len(ranked) != 6 {
		t.Fatalf("expected exactly 6 results, got %d", len(ranked))
	}
	// Top 6 by the sort order: equal scores, so shortest timelines win.
	for i, c := range ranked {
		if c.TimelineMonths == nil || *c.TimelineMonths != i+1 {
			t.Errorf("rank %d: expected timeline %d, got %v", i, i+1, c.TimelineMonths)
		}
	}
}

func TestRanker_Related_EndToEnd(t *testing.T) {
	root := t.TempDir()
	write := func(rel, content string) {
		t.Helper()
		path := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	write("canada/_country.mdx", "---\ntitle: Canada\n---\nx\n")
	write("canada/pnp.mdx",
		"---\ntitle: PNP (Entrepreneur Stream)\ntags: [startup, investor]\ntimelineMonths: 8\nminInvestment: 200000\n---\nx\n")
	write("canada/self-employed.mdx",
		"---\ntitle: Self Employed Entrepreneur Visa\ntags: [entrepreneur]\ntimelineMonths: 14\n---\nx\n")
	write("portugal/_country.mdx", "---\ntitle: Portugal\n---\nx\n")
	write("portugal/startup-visa.mdx",
		"---\ntitle: Startup Visa\ntags: [startup]\ntimelineMonths: 4\n---\nx\n")
	// A malformed candidate is silently dropped, not an error.
	write("portugal/broken.mdx", "---\ntitle: [oops\n---\nx\n")
	// Draft candidates never rank.
	write("portugal/secret.mdx", "---\ntitle: Secret Startup Visa\ntags: [startup]\ndraft: true\n---\nx\n")

	catalog := content.NewCatalog(store.New(root), compiler.New(compiler.DefaultOptions()))
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	ranker := NewRanker(catalog, 6, 4, log)

	base, err := catalog.ProgramFrontmatter("canada", "pnp")
	if err != nil {
		t.Fatalf("load base: %v", err)
	}

	ranked := ranker.Related(context.Background(), base)

	// startup-visa: shared tag "startup" = 3 (no title keyword overlap, the
	// base title has no "startup"). self-employed: no shared tags, shared
	// title keyword "entrepreneur" = 1.
	if len(ranked) != 2 {
		t.Fatalf("expected 2 candidates, got %d: %v", len(ranked), ranked)
	}
	if ranked[0].URL != "/residency/portugal/startup-visa" || ranked[0].Score != 3 {
		t.Errorf("rank 0: got %+v", ranked[0])
	}
	if ranked[1].URL != "/residency/canada/self-employed" || ranked[1].Score != 1 {
		t.Errorf("rank 1: got %+v", ranked[1])
	}
}
