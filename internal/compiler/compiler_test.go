package compiler

import (
	"errors"
	"strings"
	"testing"
)

func TestCompile_HeadingIDAndAnchor(t *testing.T) {
	c := New(DefaultOptions())

	out, err := c.Compile("### Why Choose Us?\n\nSome text.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := string(out)

	if !strings.Contains(s, `id="why-choose-us"`) {
		t.Errorf("expected slugified heading id, got %q", s)
	}
	if !strings.Contains(s, `href="#why-choose-us"`) {
		t.Errorf("expected self-link anchor on heading, got %q", s)
	}
}

func TestCompile_DuplicateHeadingIDsDeduplicated(t *testing.T) {
	c := New(DefaultOptions())

	out, err := c.Compile("### Fees\n\n### Fees\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := string(out)

	if !strings.Contains(s, `id="fees"`) || !strings.Contains(s, `id="fees-1"`) {
		t.Errorf("expected deduplicated ids fees and fees-1, got %q", s)
	}
}

func TestCompile_GFMTable(t *testing.T) {
	c := New(DefaultOptions())

	out, err := c.Compile("| Fee | Amount |\n|---|---|\n| Base | 100 |\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(string(out), "<table>") {
		t.Errorf("expected GFM table rendering, got %q", out)
	}
}

func TestCompile_KnownComponentPassesThrough(t *testing.T) {
	c := New(DefaultOptions())

	out, err := c.Compile("### Overview\n\n<ContactForm />\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(string(out), "<ContactForm />") {
		t.Errorf("expected component tag passthrough, got %q", out)
	}
}

func TestCompile_UnknownComponentFails(t *testing.T) {
	c := New(DefaultOptions())

	_, err := c.Compile("<Bogus />\n")
	var cerr *CompileError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected *CompileError, got %v", err)
	}
}

func TestCompile_UnclosedComponentFails(t *testing.T) {
	c := New(DefaultOptions())

	_, err := c.Compile("<FAQAccordion>\nitems\n")
	var cerr *CompileError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected *CompileError, got %v", err)
	}
}

func TestCompile_MismatchedClosingFails(t *testing.T) {
	c := New(DefaultOptions())

	_, err := c.Compile("<QuickFacts></Prices>\n")
	var cerr *CompileError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected *CompileError, got %v", err)
	}
}

func TestCompile_PlainHTMLTagIsNotAComponent(t *testing.T) {
	c := New(DefaultOptions())

	out, err := c.Compile("text with <br> and <em>emphasis</em>\n")
	if err != nil {
		t.Fatalf("lowercase HTML tags should not be component-checked: %v", err)
	}
	if !strings.Contains(string(out), "emphasis") {
		t.Errorf("unexpected output %q", out)
	}
}
