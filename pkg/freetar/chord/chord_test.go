package chord

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/himanishpuri/freetar/pkg/freetar/notes"
)

func TestParse(t *testing.T) {
	cases := []struct {
		in   string
		want Token
	}{
		{"C", Token{Root: "C"}},
		{"Asus2/E", Token{Root: "A", Quality: "sus2", Bass: "E"}},
		{"Bbm7", Token{Root: "Bb", Quality: "m7"}},
		{"F#m(maj7)", Token{Root: "F#", Quality: "m(maj7)"}},
		{"D/F#", Token{Root: "D", Bass: "F#"}},
		{" G ", Token{Root: "G"}},
	}
	for _, tc := range cases {
		got, ok := Parse(tc.in)
		require.True(t, ok, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

func TestParseRejects(t *testing.T) {
	for _, in := range []string{"", "N.C.", "Xm", "Cm7/", "C/X"} {
		_, ok := Parse(in)
		assert.False(t, ok, in)
	}
}

func TestTransposeName(t *testing.T) {
	assert.Equal(t, "C#m7/G#", TransposeName("Cm7/G", 1, notes.Sharps))
	assert.Equal(t, "Dbm7/Ab", TransposeName("Cm7/G", 1, notes.Flats))
	assert.Equal(t, "Asus2/E", TransposeName("Asus2/E", 0, notes.Sharps))
	assert.Equal(t, "N.C.", TransposeName("N.C.", 2, notes.Sharps))
}

func TestStringRoundTrip(t *testing.T) {
	for _, name := range []string{"C", "Am", "G/B", "Ebmaj7/Bb"} {
		tok, ok := Parse(name)
		require.True(t, ok)
		assert.Equal(t, name, tok.String())
	}
}
