// Package compiler turns markdown content into renderable HTML using
// goldmark. Headings get stable ids derived from their slugified text and are
// wrapped in self-link anchors so in-page navigation and deep links work.
package compiler

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/atlaspath/siteserve/internal/sections"
)

// CompileError reports markup that cannot be compiled, such as broken
// embedded-component syntax. Callers degrade to a not-found response rather
// than render partially.
type CompileError struct {
	Reason string
	Err    error
}

func (e *CompileError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("compile: %s: %v", e.Reason, e.Err)
	}
	return "compile: " + e.Reason
}

func (e *CompileError) Unwrap() error {
	return e.Err
}

// Options control compilation. All three are on for this system.
type Options struct {
	GFMTables        bool
	SlugifyHeadings  bool
	AutolinkHeadings bool
	// Components lists embedded component tags the view layer can render.
	// An unknown or unbalanced component tag fails compilation.
	Components []string
}

// DefaultOptions enables GFM tables, heading ids and heading self-links, with
// the component set the site's views support.
func DefaultOptions() Options {
	return Options{
		GFMTables:        true,
		SlugifyHeadings:  true,
		AutolinkHeadings: true,
		Components:       DefaultComponents(),
	}
}

// DefaultComponents lists embedded components the presentation layer renders.
func DefaultComponents() []string {
	return []string{
		"ContactForm",
		"EligibilityQuickCheck",
		"FAQAccordion",
		"Prices",
		"ProcessTimeline",
		"QuickFacts",
		"SocialProof",
	}
}

// Compiler compiles markdown bodies or single section chunks. Safe for
// concurrent use; per-call state lives in the parser context.
type Compiler struct {
	md         goldmark.Markdown
	components map[string]bool
	slugIDs    bool
}

// New builds a compiler for the given options.
func New(opts Options) *Compiler {
	var exts []goldmark.Extender
	if opts.GFMTables {
		exts = append(exts, extension.GFM)
	}

	var parserOpts []parser.Option
	if opts.SlugifyHeadings {
		parserOpts = append(parserOpts, parser.WithAutoHeadingID())
	}
	if opts.AutolinkHeadings {
		parserOpts = append(parserOpts, parser.WithASTTransformers(
			util.Prioritized(anchorTransformer{}, 500),
		))
	}

	components := map[string]bool{}
	for _, name := range opts.Components {
		components[name] = true
	}

	return &Compiler{
		md: goldmark.New(
			goldmark.WithExtensions(exts...),
			goldmark.WithParserOptions(parserOpts...),
			// Bodies embed raw component tags; pass them through.
			goldmark.WithRendererOptions(html.WithUnsafe()),
		),
		components: components,
		slugIDs:    opts.SlugifyHeadings,
	}
}

// Compile renders one markup fragment, either a single section chunk or a
// whole document body.
func (c *Compiler) Compile(markup string) (template.HTML, error) {
	if err := c.validateComponents(markup); err != nil {
		return "", err
	}

	var parseOpts []parser.ParseOption
	if c.slugIDs {
		ctx := parser.NewContext(parser.WithIDs(newSlugIDs()))
		parseOpts = append(parseOpts, parser.WithContext(ctx))
	}

	var buf bytes.Buffer
	if err := c.md.Convert([]byte(markup), &buf, parseOpts...); err != nil {
		return "", &CompileError{Reason: "markdown conversion failed", Err: err}
	}
	return template.HTML(buf.String()), nil
}

// slugIDs assigns heading ids from slugified heading text, deduplicating
// repeats with a numeric suffix.
type slugIDs struct {
	used map[string]bool
}

func newSlugIDs() *slugIDs {
	return &slugIDs{used: map[string]bool{}}
}

func (s *slugIDs) Generate(value []byte, kind ast.NodeKind) []byte {
	slug := sections.Slugify(string(value))
	if slug == "" {
		slug = "heading"
	}
	id := slug
	for n := 1; s.used[id]; n++ {
		id = fmt.Sprintf("%s-%d", slug, n)
	}
	s.used[id] = true
	return []byte(id)
}

func (s *slugIDs) Put(value []byte) {
	s.used[string(value)] = true
}

// anchorTransformer wraps each heading's children in a link to its own id.
type anchorTransformer struct{}

func (anchorTransformer) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) {
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		heading, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		id := headingID(heading)
		if id == "" {
			return ast.WalkContinue, nil
		}

		link := ast.NewLink()
		link.Destination = []byte("#" + id)

		var children []ast.Node
		for child := heading.FirstChild(); child != nil; child = child.NextSibling() {
			children = append(children, child)
		}
		for _, child := range children {
			heading.RemoveChild(heading, child)
			link.AppendChild(link, child)
		}
		heading.AppendChild(heading, link)
		return ast.WalkSkipChildren, nil
	})
}

func headingID(h *ast.Heading) string {
	attr, ok := h.AttributeString("id")
	if !ok {
		return ""
	}
	switch v := attr.(type) {
	case []byte:
		return string(v)
	case string:
		return v
	}
	return ""
}
