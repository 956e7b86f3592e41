package compiler

import (
	"fmt"
	"regexp"
)

// Embedded components look like JSX: a capitalized tag name, optionally
// self-closing. The compiler does not render them (the view layer does); it
// only checks that every component tag is known and balanced so broken markup
// fails cleanly instead of leaking half-rendered pages.
var componentTag = regexp.MustCompile(`<(/?)([A-Z][A-Za-z0-9]*)((?:[^>"']|"[^"]*"|'[^']*')*?)(/?)>`)

func (c *Compiler) validateComponents(markup string) error {
	var open []string

	for _, m := range componentTag.FindAllStringSubmatch(markup, -1) {
		closing := m[1] == "/"
		name := m[2]
		selfClosing := m[4] == "/"

		if !c.components[name] {
			return &CompileError{Reason: fmt.Sprintf("unknown component <%s>", name)}
		}

		switch {
		case closing:
			if len(open) == 0 || open[len(open)-1] != name {
				return &CompileError{Reason: fmt.Sprintf("unexpected closing tag </%s>", name)}
			}
			open = open[:len(open)-1]
		case selfClosing:
			// Balanced by itself.
		default:
			open = append(open, name)
		}
	}

	if len(open) > 0 {
		return &CompileError{Reason: fmt.Sprintf("unclosed component <%s>", open[len(open)-1])}
	}
	return nil
}
