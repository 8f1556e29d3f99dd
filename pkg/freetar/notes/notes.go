// Package notes holds the twelve-tone note table shared by every transposition
// path (rendered HTML, ChordPro export, stage view).
package notes

import "strings"

// Spelling selects which accepted name is produced for a transposed pitch class.
type Spelling int

const (
	// Sharps always yields the first spelling of a pitch class.
	Sharps Spelling = iota
	// Flats yields the flat name for the five black keys (Bb, Db, Eb, Gb, Ab).
	Flats
)

// Table lists the 12 pitch classes starting at A. The first spelling of each
// row is canonical.
var Table = [12][]string{
	{"A"},
	{"A#", "Bb"},
	{"B", "Cb"},
	{"C", "B#"},
	{"C#", "Db"},
	{"D"},
	{"D#", "Eb"},
	{"E", "Fb"},
	{"F", "E#"},
	{"F#", "Gb"},
	{"G"},
	{"G#", "Ab"},
}

// Index returns the pitch class of note, or -1 when the note is unknown.
// Matching is exact and case-sensitive after trimming whitespace.
func Index(note string) int {
	note = strings.TrimSpace(note)
	for i, spellings := range Table {
		for _, s := range spellings {
			if s == note {
				return i
			}
		}
	}
	return -1
}

// Transpose shifts note by n semitones and returns the canonical spelling of
// the result. Unknown notes are returned unchanged.
func Transpose(note string, n int) string {
	return TransposeWith(note, n, Sharps)
}

// TransposeWith is Transpose with an explicit spelling preference.
func TransposeWith(note string, n int, sp Spelling) string {
	idx := Index(note)
	if idx < 0 {
		return note
	}
	return Name((idx+n)%12, sp)
}

// Name returns the spelling of pitch class idx. idx is normalised into [0,11].
func Name(idx int, sp Spelling) string {
	idx %= 12
	if idx < 0 {
		idx += 12
	}
	row := Table[idx]
	if sp == Flats && len(row) > 1 && strings.HasSuffix(row[0], "#") {
		return row[1]
	}
	return row[0]
}
