// Package chord models a single chord name split into root, quality and bass.
package chord

import (
	"regexp"
	"strings"

	"github.com/himanishpuri/freetar/pkg/freetar/notes"
)

// Pattern fragments shared with the markup normalizer so the inline [ch] tag
// and a bare chord name are recognised by the same grammar.
const (
	RootPattern    = `[A-Ha-h](?:#|b)?`
	QualityPattern = `[^\[/]+`
)

var namePattern = regexp.MustCompile(`^(` + RootPattern + `)(` + QualityPattern + `)?(?:/(` + RootPattern + `))?$`)

// Token is a chord name such as "C#m7/G#". Quality and Bass may be empty.
type Token struct {
	Root    string
	Quality string
	Bass    string
}

// Parse splits name into its parts. ok is false when name does not start
// with a note letter or carries a malformed bass.
func Parse(name string) (Token, bool) {
	m := namePattern.FindStringSubmatch(strings.TrimSpace(name))
	if m == nil {
		return Token{}, false
	}
	return Token{Root: m[1], Quality: m[2], Bass: m[3]}, true
}

// String reassembles the chord name.
func (t Token) String() string {
	var b strings.Builder
	b.WriteString(t.Root)
	b.WriteString(t.Quality)
	if t.Bass != "" {
		b.WriteByte('/')
		b.WriteString(t.Bass)
	}
	return b.String()
}

// Transpose shifts root and bass by n semitones. Quality is never touched.
func (t Token) Transpose(n int, sp notes.Spelling) Token {
	if n == 0 {
		return t
	}
	t.Root = notes.TransposeWith(t.Root, n, sp)
	if t.Bass != "" {
		t.Bass = notes.TransposeWith(t.Bass, n, sp)
	}
	return t
}

// TransposeName parses name, shifts it and returns the new name. Names that
// do not parse are returned as given.
func TransposeName(name string, n int, sp notes.Spelling) string {
	tok, ok := Parse(name)
	if !ok {
		return name
	}
	return tok.Transpose(n, sp).String()
}
