// Package transpose shifts the chord roots and basses of rendered tab markup.
package transpose

import (
	"strings"

	"github.com/himanishpuri/freetar/pkg/freetar/markup"
	"github.com/himanishpuri/freetar/pkg/freetar/notes"
)

// Effective combines a manual transpose with a simulated capo. A capo raises
// pitch, so the displayed chords move down by its fret.
func Effective(transpose, capo int) int {
	return transpose - capo
}

// Nodes rewrites every chord-root and chord-bass span under nodes in place.
// Quality spans are left alone and unknown notes pass through.
func Nodes(nodes []markup.Node, offset int, sp notes.Spelling) int {
	if offset == 0 {
		return 0
	}
	changed := 0
	markup.Walk(nodes, func(n markup.Node) bool {
		e, ok := n.(*markup.Element)
		if !ok {
			return false
		}
		if !e.HasClass(markup.ClassRoot) && !e.HasClass(markup.ClassBass) {
			return true
		}
		note := strings.TrimSpace(markup.TextContent(e))
		if moved := notes.TransposeWith(note, offset, sp); moved != note {
			e.SetText(moved)
			changed++
		}
		return false
	})
	return changed
}

// HTML parses s, transposes it and renders it back. A zero offset returns s
// untouched.
func HTML(s string, offset int, sp notes.Spelling) (string, error) {
	if offset == 0 {
		return s, nil
	}
	nodes, err := markup.Parse(s)
	if err != nil {
		return "", err
	}
	Nodes(nodes, offset, sp)
	return markup.Render(nodes), nil
}
