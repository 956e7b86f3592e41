// Package frontmatter splits a content file into a YAML metadata block and a
// free-text body. The metadata block is fenced by "---" lines at the top of
// the document; a document without a fence is all body.
package frontmatter

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// ParseError reports a present but malformed metadata block.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed front matter: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Document is the result of splitting a raw content file.
type Document struct {
	// Metadata is the decoded front-matter mapping. Empty (non-nil) when the
	// document has no front-matter block.
	Metadata map[string]any
	// RawMetadata is the YAML source of the block, without fences. Callers
	// that want a typed view decode this directly.
	RawMetadata string
	// Body is everything after the closing fence.
	Body string
}

const fence = "---"

// Parse splits raw content into metadata and body. Deterministic, no side
// effects. A missing front-matter block yields an empty mapping and the whole
// input as body; a block that is not valid YAML fails with *ParseError.
func Parse(raw string) (Document, error) {
	doc := Document{Metadata: map[string]any{}, Body: raw}

	rest, ok := strings.CutPrefix(raw, fence)
	if !ok {
		return doc, nil
	}
	// The opening fence must be alone on its line.
	nl := strings.IndexByte(rest, '\n')
	if nl < 0 || strings.TrimSpace(rest[:nl]) != "" {
		return doc, nil
	}
	rest = rest[nl+1:]

	block, body, found := cutClosingFence(rest)
	if !found {
		return doc, nil
	}

	meta := map[string]any{}
	if err := yaml.Unmarshal([]byte(block), &meta); err != nil {
		return Document{}, &ParseError{Err: err}
	}
	if meta == nil {
		meta = map[string]any{}
	}

	return Document{Metadata: meta, RawMetadata: block, Body: body}, nil
}

// cutClosingFence finds the first line consisting of the fence marker and
// splits the input around it.
func cutClosingFence(s string) (block, body string, found bool) {
	offset := 0
	for {
		line := s[offset:]
		end := strings.IndexByte(line, '\n')
		if end < 0 {
			if strings.TrimSpace(line) == fence {
				return s[:offset], "", true
			}
			return "", "", false
		}
		if strings.TrimSpace(line[:end]) == fence {
			return s[:offset], s[offset+end+1:], true
		}
		offset += end + 1
	}
}
