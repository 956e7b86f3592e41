// Package sections partitions a markdown body into named chunks keyed by the
// slugs of its sub-headings at a fixed depth.
package sections

import (
	"fmt"
	"regexp"
	"strings"
)

// OverviewSlug names the implicit chunk collecting lines that precede the
// first sub-heading.
const OverviewSlug = "overview"

// DefaultLevel is the heading depth used for program pages ("###").
const DefaultLevel = 3

var (
	nonWord    = regexp.MustCompile(`[^\w\s-]`)
	whitespace = regexp.MustCompile(`\s+`)
	hyphenRun  = regexp.MustCompile(`-+`)
)

// Slugify derives a URL-safe section key from a heading: lowercase, "&"
// becomes "and", punctuation is stripped, whitespace becomes hyphens, runs
// collapse. "Why Choose Us?" -> "why-choose-us".
func Slugify(heading string) string {
	s := strings.ToLower(heading)
	s = strings.ReplaceAll(s, "&", "and")
	s = nonWord.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)
	s = whitespace.ReplaceAllString(s, "-")
	return hyphenRun.ReplaceAllString(s, "-")
}

// Chunk is one named fragment of a body, retaining its introducing heading
// line.
type Chunk struct {
	Slug string
	Text string
}

// Chunks holds split results in first-seen heading order. Consumers access by
// key; the ordering only matters for diagnostics.
type Chunks []Chunk

// Get returns the chunk text for a slug.
func (c Chunks) Get(slug string) (string, bool) {
	for _, chunk := range c {
		if chunk.Slug == slug {
			return chunk.Text, true
		}
	}
	return "", false
}

// Slugs lists chunk keys in order.
func (c Chunks) Slugs() []string {
	out := make([]string, len(c))
	for i, chunk := range c {
		out[i] = chunk.Slug
	}
	return out
}

// SplitByHeading partitions body text on headings at exactly the given depth.
// Lines before the first heading form an "overview" chunk with a synthetic
// heading line prepended so downstream rendering still sees a heading. A body
// with no headings at the target depth yields a single "overview" chunk.
// Duplicate heading text: the later chunk overwrites the earlier one under
// the same slug.
//
// Implemented as a single fold over lines; the empty current slug is the
// "no heading yet" sentinel.
func SplitByHeading(body string, level int) Chunks {
	marker := regexp.MustCompile(fmt.Sprintf(`^#{%d}\s+(.+?)\s*$`, level))

	var (
		chunks  Chunks
		seen    = map[string]int{}
		current string
		buf     []string
	)

	flush := func() {
		if current == "" {
			return
		}
		text := strings.TrimSpace(strings.Join(buf, "\n"))
		if i, ok := seen[current]; ok {
			chunks[i].Text = text
		} else {
			seen[current] = len(chunks)
			chunks = append(chunks, Chunk{Slug: current, Text: text})
		}
		buf = buf[:0:0]
	}

	for _, line := range splitLines(body) {
		if m := marker.FindStringSubmatch(line); m != nil {
			flush()
			current = Slugify(m[1])
			buf = append(buf, line)
			continue
		}
		if current == "" {
			current = OverviewSlug
			buf = append(buf, strings.Repeat("#", level)+" Overview")
		}
		buf = append(buf, line)
	}
	flush()

	return chunks
}

func splitLines(s string) []string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
