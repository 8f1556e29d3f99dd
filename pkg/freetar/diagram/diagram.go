// Package diagram derives fretboard diagrams from per-string fret/finger data.
package diagram

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/himanishpuri/freetar/pkg/models"
)

// Rows is the number of fret rows every diagram is padded to.
const Rows = 6

// Muted is the finger label of a string that is not pressed anywhere.
const Muted = "x"

// Variant is one raw fingering: fret per string (0 open, -1 muted) and the
// finger label per string ("0" for none), both in source string order.
type Variant struct {
	Frets   []int    `json:"frets"`
	Fingers []string `json:"fingers"`
}

// Build converts one variant into a diagram and its finger labels. ok is
// false when no string is pressed above the nut; such variants are dropped.
//
// Rows and labels are stored in reverse source string order.
func Build(v Variant) (models.ChordVariant, []string, bool) {
	if len(v.Frets) != models.StringCount {
		return nil, nil, false
	}
	minFret, maxFret := slices.Min(v.Frets), slices.Max(v.Frets)

	var rows models.ChordVariant
	found := false
	for fret := minFret; fret <= maxFret; fret++ {
		if fret <= 0 {
			continue
		}
		row := models.FretRow{Fret: fret}
		pressed := false
		for i, f := range v.Frets {
			if f == fret {
				row.Pressed[models.StringCount-1-i] = 1
				pressed = true
			}
		}
		if !found && !pressed {
			continue
		}
		found = true
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil, nil, false
	}

	var struck [models.StringCount]bool
	for _, row := range rows {
		for i, p := range row.Pressed {
			if p == 1 {
				struck[i] = true
			}
		}
	}

	// Shapes spanning more than six frets are cut to the diagram height.
	// Strings pressed below the cut keep their finger label.
	if len(rows) > Rows {
		rows = rows[:Rows]
	}
	for len(rows) < Rows {
		rows = append(rows, models.FretRow{Fret: rows[len(rows)-1].Fret + 1})
	}

	fingers := make([]string, models.StringCount)
	for i := range fingers {
		src := models.StringCount - 1 - i
		label := "0"
		if src < len(v.Fingers) {
			label = v.Fingers[src]
		}
		if !struck[i] {
			label = Muted
		}
		fingers[i] = label
	}
	return rows, fingers, true
}

// BuildAll runs Build over every variant of every chord. Invalid variants
// are skipped and chords left without variants are omitted.
func BuildAll(applicature map[string][]Variant) (map[string][]models.ChordVariant, map[string][][]string) {
	chords := make(map[string][]models.ChordVariant)
	fingerings := make(map[string][][]string)
	for name, variants := range applicature {
		for _, v := range variants {
			rows, fingers, ok := Build(v)
			if !ok {
				continue
			}
			chords[name] = append(chords[name], rows)
			fingerings[name] = append(fingerings[name], fingers)
		}
	}
	return chords, fingerings
}

// Render draws a diagram as text: a header of finger labels followed by one
// line per fret row, "o" for a pressed string and "|" otherwise.
func Render(name string, v models.ChordVariant, fingers []string) string {
	var b strings.Builder
	b.WriteString(name)
	b.WriteByte('\n')
	b.WriteString("   ")
	for _, f := range fingers {
		if f == "0" {
			f = " "
		}
		fmt.Fprintf(&b, " %s", f)
	}
	b.WriteByte('\n')
	for _, row := range v {
		fmt.Fprintf(&b, "%2d ", row.Fret)
		for _, p := range row.Pressed {
			if p == 1 {
				b.WriteString(" o")
			} else {
				b.WriteString(" |")
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Names returns the chord names of a diagram set in sorted order.
func Names(chords map[string][]models.ChordVariant) []string {
	names := make([]string, 0, len(chords))
	for name := range chords {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
