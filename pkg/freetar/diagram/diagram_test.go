package diagram

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/himanishpuri/freetar/pkg/models"
)

func TestBuildOpenChord(t *testing.T) {
	rows, fingers, ok := Build(Variant{
		Frets:   []int{0, 1, 0, 2, 3, -1},
		Fingers: []string{"0", "1", "0", "2", "3", "0"},
	})
	require.True(t, ok)

	want := models.ChordVariant{
		{Fret: 1, Pressed: [6]int{0, 0, 0, 0, 1, 0}},
		{Fret: 2, Pressed: [6]int{0, 0, 1, 0, 0, 0}},
		{Fret: 3, Pressed: [6]int{0, 1, 0, 0, 0, 0}},
		{Fret: 4},
		{Fret: 5},
		{Fret: 6},
	}
	assert.Equal(t, want, rows)
	assert.Equal(t, []string{"x", "3", "2", "x", "1", "x"}, fingers)
}

func TestBuildDropsLeadingEmptyRows(t *testing.T) {
	rows, fingers, ok := Build(Variant{
		Frets:   []int{5, 7, 7, 0, 0, 0},
		Fingers: []string{"1", "3", "4", "0", "0", "0"},
	})
	require.True(t, ok)
	require.Len(t, rows, Rows)

	assert.Equal(t, 5, rows[0].Fret)
	assert.Equal(t, [6]int{0, 0, 0, 0, 0, 1}, rows[0].Pressed)
	assert.Equal(t, 6, rows[1].Fret)
	assert.Equal(t, [6]int{}, rows[1].Pressed)
	assert.Equal(t, [6]int{0, 0, 0, 1, 1, 0}, rows[2].Pressed)
	assert.Equal(t, 10, rows[5].Fret)
	assert.Equal(t, []string{"x", "x", "x", "4", "3", "1"}, fingers)
}

func TestBuildBarreChord(t *testing.T) {
	rows, fingers, ok := Build(Variant{
		Frets:   []int{1, 1, 2, 3, 3, 1},
		Fingers: []string{"1", "1", "2", "4", "3", "1"},
	})
	require.True(t, ok)
	assert.Equal(t, [6]int{1, 0, 0, 0, 1, 1}, rows[0].Pressed)
	assert.Equal(t, [6]int{0, 0, 0, 1, 0, 0}, rows[1].Pressed)
	assert.Equal(t, [6]int{0, 1, 1, 0, 0, 0}, rows[2].Pressed)
	assert.Equal(t, []string{"1", "3", "4", "2", "1", "1"}, fingers)
}

func TestBuildCutsWideShapes(t *testing.T) {
	rows, fingers, ok := Build(Variant{
		Frets:   []int{1, 0, 0, 0, 0, 8},
		Fingers: []string{"1", "0", "0", "0", "0", "4"},
	})
	require.True(t, ok)
	require.Len(t, rows, Rows)
	assert.Equal(t, 1, rows[0].Fret)
	assert.Equal(t, 6, rows[5].Fret)
	assert.Equal(t, [6]int{0, 0, 0, 0, 0, 1}, rows[0].Pressed)
	assert.Equal(t, []string{"4", "x", "x", "x", "x", "1"}, fingers)
}

func TestBuildRejectsUnpressed(t *testing.T) {
	for _, frets := range [][]int{
		{0, 0, 0, 0, 0, 0},
		{-1, -1, -1, -1, -1, -1},
		{0, -1, 0, -1, 0, 0},
	} {
		_, _, ok := Build(Variant{Frets: frets, Fingers: []string{"0", "0", "0", "0", "0", "0"}})
		assert.False(t, ok, "%v", frets)
	}
}

func TestBuildRejectsWrongStringCount(t *testing.T) {
	_, _, ok := Build(Variant{Frets: []int{2, 2, 2, 2}})
	assert.False(t, ok)
}

func TestBuildShapeInvariants(t *testing.T) {
	digit := regexp.MustCompile(`^[0-9]+$`)
	variants := []Variant{
		{Frets: []int{3, 2, 0, 0, 0, 3}, Fingers: []string{"2", "1", "0", "0", "0", "3"}},
		{Frets: []int{1, 0, 0, 0, 0, 12}, Fingers: []string{"1", "0", "0", "0", "0", "4"}},
		{Frets: []int{8, 10, 10, 9, 8, 8}},
		{Frets: []int{-1, 0, 2, 2, 2, 0}, Fingers: []string{"0", "0", "1", "2", "3"}},
	}
	for _, v := range variants {
		rows, fingers, ok := Build(v)
		require.True(t, ok, "%v", v.Frets)
		require.Len(t, rows, Rows)
		require.Len(t, fingers, models.StringCount)
		for i := 1; i < len(rows); i++ {
			assert.Equal(t, rows[i-1].Fret+1, rows[i].Fret)
		}
		assert.Contains(t, rows[0].Pressed, 1)
		for _, f := range fingers {
			assert.True(t, f == Muted || digit.MatchString(f), "label %q", f)
		}
	}
}

func TestBuildAllOmitsEmptyChords(t *testing.T) {
	chords, fingerings := BuildAll(map[string][]Variant{
		"Am": {
			{Frets: []int{0, 1, 2, 2, 0, -1}, Fingers: []string{"0", "1", "3", "2", "0", "0"}},
			{Frets: []int{0, 0, 0, 0, 0, 0}, Fingers: []string{"0", "0", "0", "0", "0", "0"}},
		},
		"N.C.": {
			{Frets: []int{-1, -1, -1, -1, -1, -1}},
		},
	})
	require.Len(t, chords, 1)
	require.Len(t, chords["Am"], 1)
	require.Len(t, fingerings["Am"], 1)
	_, present := chords["N.C."]
	assert.False(t, present)
	assert.Equal(t, []string{"Am"}, Names(chords))
}

func TestRender(t *testing.T) {
	rows, fingers, ok := Build(Variant{
		Frets:   []int{0, 1, 0, 2, 3, -1},
		Fingers: []string{"0", "1", "0", "2", "3", "0"},
	})
	require.True(t, ok)
	out := Render("C", rows, fingers)
	want := "C\n" +
		"    x 3 2 x 1 x\n" +
		" 1  | | | | o |\n" +
		" 2  | | o | | |\n" +
		" 3  | o | | | |\n" +
		" 4  | | | | | |\n" +
		" 5  | | | | | |\n" +
		" 6  | | | | | |\n"
	assert.Equal(t, want, out)
}
