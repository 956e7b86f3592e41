package related

import (
	"context"
	"log/slog"
	"sync"

	"github.com/sourcegraph/conc/pool"

	"github.com/atlaspath/siteserve/internal/content"
)

// Ranker assembles the candidate pool for a base program and ranks it.
// Candidate metadata loads fan out across a bounded goroutine pool; a
// candidate whose content fails to load is silently dropped. Best effort: the
// related list is not worth failing a page over.
type Ranker struct {
	catalog     *content.Catalog
	limit       int
	concurrency int
	log         *slog.Logger
}

// NewRanker wires a ranker over the catalog.
func NewRanker(catalog *content.Catalog, limit, concurrency int, log *slog.Logger) *Ranker {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if concurrency <= 0 {
		concurrency = 8
	}
	return &Ranker{catalog: catalog, limit: limit, concurrency: concurrency, log: log}
}

// Related ranks every other program in the store against the base. Candidate
// evaluation is recomputed from the content tree on every call; at catalog
// sizes beyond a few hundred programs this is the first place to add a
// precomputed snapshot.
func (r *Ranker) Related(ctx context.Context, base content.ProgramMeta) []Candidate {
	type ref struct {
		country string
		program string
	}

	var refs []ref
	for _, country := range r.catalog.Store().ListCountrySlugs() {
		for _, program := range r.catalog.Store().ListProgramSlugs(country) {
			if country == base.CountrySlug && program == base.ProgramSlug {
				continue
			}
			refs = append(refs, ref{country: country, program: program})
		}
	}

	p := pool.New().WithMaxGoroutines(r.concurrency)
	candidates := make([]*content.ProgramMeta, len(refs))
	var mu sync.Mutex

	for idx, rf := range refs {
		idx, rf := idx, rf
		p.Go(func() {
			if ctx.Err() != nil {
				return
			}
			meta, err := r.catalog.ProgramFrontmatter(rf.country, rf.program)
			if err != nil {
				r.log.Debug("dropping related candidate",
					"country", rf.country, "program", rf.program, "error", err)
				return
			}
			if meta.Draft {
				return
			}
			mu.Lock()
			candidates[idx] = &meta
			mu.Unlock()
		})
	}
	p.Wait()

	loaded := make([]content.ProgramMeta, 0, len(candidates))
	for _, c := range candidates {
		if c != nil {
			loaded = append(loaded, *c)
		}
	}
	return Rank(base, loaded, r.limit)
}
