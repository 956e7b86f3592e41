// Package related builds the "related programs" list for a program page: a
// multi-factor similarity score over program metadata, sorted and capped.
package related

import (
	"math"
	"sort"
	"strings"

	"github.com/atlaspath/siteserve/internal/content"
)

// DefaultLimit caps the related list.
const DefaultLimit = 6

// titleKeywords is the fixed vocabulary scored when a keyword appears in both
// titles.
var titleKeywords = []string{
	"startup", "investor", "entrepreneur", "golden", "visa", "residency",
}

// Candidate is one ranked related-program entry.
type Candidate struct {
	URL            string   `json:"url"`
	Title          string   `json:"title"`
	Country        string   `json:"country"`
	MinInvestment  *float64 `json:"minInvestment,omitempty"`
	Currency       string   `json:"currency,omitempty"`
	TimelineMonths *int     `json:"timelineMonths,omitempty"`
	Tags           []string `json:"tags,omitempty"`
	HeroImage      string   `json:"heroImage,omitempty"`
	Score          int      `json:"score"`
}

// Score computes the similarity between a base program and a candidate:
// 3 points per shared tag (case-insensitive exact match), plus 1 point per
// fixed keyword appearing in both titles. Order-independent per candidate.
func Score(base, cand content.ProgramMeta) int {
	baseTags := make(map[string]bool, len(base.Tags))
	for _, t := range base.Tags {
		baseTags[strings.ToLower(t)] = true
	}

	score := 0
	seen := make(map[string]bool, len(cand.Tags))
	for _, t := range cand.Tags {
		lt := strings.ToLower(t)
		if seen[lt] {
			continue
		}
		seen[lt] = true
		if baseTags[lt] {
			score += 3
		}
	}

	baseTitle := strings.ToLower(base.Title)
	candTitle := strings.ToLower(cand.Title)
	for _, k := range titleKeywords {
		if strings.Contains(baseTitle, k) && strings.Contains(candTitle, k) {
			score++
		}
	}
	return score
}

// Rank scores each candidate against the base, drops zero scores, sorts by
// descending score with ties broken by ascending timeline then ascending
// investment (absent values sort last), and caps the result at limit.
func Rank(base content.ProgramMeta, candidates []content.ProgramMeta, limit int) []Candidate {
	if limit <= 0 {
		limit = DefaultLimit
	}

	var ranked []Candidate
	for _, cand := range candidates {
		if cand.CountrySlug == base.CountrySlug && cand.ProgramSlug == base.ProgramSlug {
			continue
		}
		score := Score(base, cand)
		if score <= 0 {
			continue
		}
		ranked = append(ranked, toCandidate(cand, score))
	}

	sortCandidates(ranked)
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

func toCandidate(meta content.ProgramMeta, score int) Candidate {
	heroImage, _ := meta.Extra["heroImage"].(string)
	return Candidate{
		URL:            "/residency/" + meta.CountrySlug + "/" + meta.ProgramSlug,
		Title:          meta.Title,
		Country:        meta.Country,
		MinInvestment:  meta.MinInvestment,
		Currency:       meta.Currency,
		TimelineMonths: meta.TimelineMonths,
		Tags:           meta.Tags,
		HeroImage:      heroImage,
		Score:          score,
	}
}

func sortCandidates(ranked []Candidate) {
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		ta, tb := monthsOrInf(a.TimelineMonths), monthsOrInf(b.TimelineMonths)
		if ta != tb {
			return ta < tb
		}
		return investmentOrInf(a.MinInvestment) < investmentOrInf(b.MinInvestment)
	})
}

func monthsOrInf(v *int) float64 {
	if v == nil {
		return math.Inf(1)
	}
	return float64(*v)
}

func investmentOrInf(v *float64) float64 {
	if v == nil {
		return math.Inf(1)
	}
	return *v
}
