// Package chordpro converts tabs to and from the ChordPro text format.
package chordpro

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/himanishpuri/freetar/pkg/freetar/chord"
	"github.com/himanishpuri/freetar/pkg/freetar/markup"
	"github.com/himanishpuri/freetar/pkg/freetar/notes"
	"github.com/himanishpuri/freetar/pkg/models"
)

const nbsp = "\u00a0"

// sectionLabel matches a line such as "[Chorus]" or "[Verse 2]".
var sectionLabel = regexp.MustCompile(`(?i)^\s*\[(Verse|Chorus|Bridge|Intro|Outro|Pre-Chorus|Interlude|Solo|End)(\s+\d+)?\]\s*$`)

// Encode renders detail as a ChordPro document with every chord shifted by
// offset semitones.
func Encode(detail *models.SongDetail, offset int, sp notes.Spelling) (string, error) {
	if detail == nil {
		return "", models.NewError(models.KindInvalidArgument, "no song to encode")
	}
	body, err := Body(detail.Tab, offset, sp)
	if err != nil {
		return "", models.WrapError(models.KindInvalidPayload, err, "converting tab %q", detail.String())
	}
	lines := append(Header(detail, offset), "", body)
	return strings.Join(lines, "\n"), nil
}

// Header returns the metadata directives that open an exported document.
func Header(detail *models.SongDetail, offset int) []string {
	lines := []string{
		directive("title", detail.SongName),
		directive("artist", detail.ArtistName),
	}
	if capo := detail.CapoValue(); capo > 0 {
		lines = append(lines, directive("capo", strconv.Itoa(capo)))
	}
	if detail.Key != "" {
		lines = append(lines, directive("key", detail.Key))
	}
	if detail.Tuning != nil && *detail.Tuning != "" {
		lines = append(lines, meta("tuning", *detail.Tuning))
	}
	lines = append(lines,
		meta("difficulty", detail.Difficulty),
		meta("version", strconv.Itoa(detail.Version)),
		meta("rating", strconv.FormatFloat(detail.Rating, 'f', -1, 64)+"/5"),
	)
	if offset != 0 {
		lines = append(lines, meta("transposed", fmt.Sprintf("%+d semitones", offset)))
	}
	return lines
}

func directive(name, value string) string {
	return "{" + name + ": " + value + "}"
}

func meta(key, value string) string {
	return directive("meta", key+" "+value)
}

// Body converts tab markup into ChordPro lines with inline [Chord] tokens
// and folds labelled sections into directive blocks.
func Body(tab string, offset int, sp notes.Spelling) (string, error) {
	nodes, err := markup.Parse(tab)
	if err != nil {
		return "", err
	}
	return strings.Join(foldSections(Lines(nodes, offset, sp)), "\n"), nil
}

// Lines flattens a markup tree into text lines, one per <br/>. Spaces are
// restored and each line is trimmed. Blank lines are kept except a trailing
// one.
func Lines(nodes []markup.Node, offset int, sp notes.Spelling) []string {
	var (
		out []string
		cur strings.Builder
	)
	flush := func() {
		line := strings.ReplaceAll(cur.String(), nbsp, " ")
		out = append(out, strings.TrimSpace(line))
		cur.Reset()
	}

	var visit func(n markup.Node)
	visit = func(n markup.Node) {
		switch n := n.(type) {
		case *markup.Text:
			cur.WriteString(n.Content)
		case *markup.Element:
			switch {
			case n.HasClass(markup.ClassChord):
				cur.WriteString("[" + spanChord(n, offset, sp) + "]")
			case n.Tag == "br":
				flush()
			default:
				for _, c := range n.Children {
					visit(c)
				}
			}
		}
	}
	for _, n := range nodes {
		visit(n)
	}
	if strings.TrimSpace(strings.ReplaceAll(cur.String(), nbsp, " ")) != "" {
		flush()
	}
	return out
}

// spanChord rebuilds the chord name held by a chord span.
func spanChord(e *markup.Element, offset int, sp notes.Spelling) string {
	root := markup.FindClass(e, markup.ClassRoot)
	quality := markup.FindClass(e, markup.ClassQuality)
	bass := markup.FindClass(e, markup.ClassBass)
	if root == nil && quality == nil && bass == nil {
		return chord.TransposeName(strings.TrimSpace(markup.TextContent(e)), offset, sp)
	}

	shift := func(note string) string {
		if offset == 0 {
			return note
		}
		return notes.TransposeWith(note, offset, sp)
	}

	var b strings.Builder
	if root != nil {
		b.WriteString(shift(strings.TrimSpace(markup.TextContent(root))))
	}
	if quality != nil {
		b.WriteString(strings.TrimRight(strings.TrimSpace(markup.TextContent(quality)), "/"))
	}
	if bass != nil {
		if note := strings.TrimSpace(markup.TextContent(bass)); note != "" {
			b.WriteString("/" + shift(note))
		}
	}
	return b.String()
}

type section struct {
	name  string
	lines []string
}

// foldSections wraps the lines following a section label in the matching
// start/end directives. A blank line or the next label closes a section.
func foldSections(lines []string) []string {
	var (
		out  []string
		open *section
	)
	closeSection := func() {
		if open == nil {
			return
		}
		out = append(out, closeBlock(open)...)
		open = nil
	}

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if m := sectionLabel.FindStringSubmatch(trimmed); m != nil {
			closeSection()
			name := m[1]
			if num := strings.TrimSpace(m[2]); num != "" {
				name += " " + num
			}
			open = &section{name: name}
			continue
		}
		if trimmed == "" {
			closeSection()
			out = append(out, "")
			continue
		}
		if open != nil {
			open.lines = append(open.lines, line)
		} else {
			out = append(out, line)
		}
	}
	closeSection()
	return out
}

func closeBlock(s *section) []string {
	kind := SectionDirective(s.name)
	if len(s.lines) == 0 || kind == "" {
		return append([]string{directive("comment", s.name)}, s.lines...)
	}
	block := make([]string, 0, len(s.lines)+2)
	block = append(block, "{start_of_"+kind+"}")
	block = append(block, s.lines...)
	return append(block, "{end_of_"+kind+"}")
}

// SectionDirective maps a section name onto a ChordPro block type. Intro
// and Outro share the verse block. Names with no block type yield "".
func SectionDirective(name string) string {
	lower := strings.ToLower(name)
	switch {
	case strings.HasPrefix(lower, "verse"), strings.HasPrefix(lower, "intro"), strings.HasPrefix(lower, "outro"):
		return "verse"
	case strings.HasPrefix(lower, "chorus"):
		return "chorus"
	case strings.HasPrefix(lower, "bridge"):
		return "bridge"
	default:
		return ""
	}
}
