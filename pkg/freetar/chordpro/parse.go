package chordpro

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"

	"github.com/himanishpuri/freetar/pkg/freetar/chord"
	"github.com/himanishpuri/freetar/pkg/freetar/notes"
)

// Extension used for exported files.
const Extension = ".cho"

var metaDirective = regexp.MustCompile(`^\{(\w+):\s*(.+?)\}$`)

// Document is ChordPro text split into its directives, content lines and
// the distinct chord tokens the content uses.
type Document struct {
	Metadata map[string]string `json:"metadata"`
	Content  string            `json:"content"`
	Chords   []string          `json:"chords"`
}

// Parse splits text into key/value directives and content. Chords are
// listed once each in order of first use and are not validated.
func Parse(text string) *Document {
	doc := &Document{Metadata: make(map[string]string), Chords: []string{}}
	seen := make(map[string]bool)
	var content []string
	for _, line := range splitLines(text) {
		if m := metaDirective.FindStringSubmatch(line); m != nil {
			doc.Metadata[m[1]] = m[2]
			continue
		}
		for _, m := range chordToken.FindAllStringSubmatch(line, -1) {
			if !seen[m[1]] {
				seen[m[1]] = true
				doc.Chords = append(doc.Chords, m[1])
			}
		}
		content = append(content, line)
	}
	doc.Content = strings.Join(content, "\n")
	return doc
}

// Transpose shifts every parsable [Chord] token in ChordPro text by n
// semitones. Directive lines and section labels are left as they are.
func Transpose(text string, n int, sp notes.Spelling) string {
	if n == 0 {
		return text
	}
	lines := splitLines(text)
	for i, line := range lines {
		if directiveLine.MatchString(line) || sectionLabel.MatchString(line) {
			continue
		}
		lines[i] = chordToken.ReplaceAllStringFunc(line, func(tok string) string {
			return "[" + chord.TransposeName(tok[1:len(tok)-1], n, sp) + "]"
		})
	}
	return strings.Join(lines, "\n")
}

var unsafeFilenameRunes = runes.Map(func(r rune) rune {
	if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r) || strings.ContainsRune(" -_.", r)) {
		return r
	}
	return '_'
})

// Filename returns the export file name "<artist> - <song>.cho" with every
// character outside [A-Za-z0-9 -_.] replaced by "_".
func Filename(artist, song string) string {
	name, _, err := transform.String(unsafeFilenameRunes, artist+" - "+song+Extension)
	if err != nil {
		return "tab" + Extension
	}
	return name
}
