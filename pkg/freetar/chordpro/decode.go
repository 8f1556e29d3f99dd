package chordpro

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/himanishpuri/freetar/pkg/freetar/markup"
)

var (
	directiveLine = regexp.MustCompile(`^\s*\{\s*([A-Za-z_]+)\s*(?::\s*(.*?))?\s*\}\s*$`)
	chordToken    = regexp.MustCompile(`\[([^\]]+)\]`)

	titleCase = cases.Title(language.Und)
)

// sectionStarts maps the short block-opening directives to their block type.
var sectionStarts = map[string]string{
	"soc": "chorus",
	"sov": "verse",
	"sob": "bridge",
}

// ToHTML converts ChordPro text into display markup. Directives are
// dropped except block starts and comments naming a section, which become
// a "[Label]" line. Every inline [Token] becomes an undifferentiated chord
// span.
func ToHTML(text string) string {
	var lines []string
	for _, raw := range splitLines(text) {
		if m := directiveLine.FindStringSubmatch(raw); m != nil {
			name := strings.ToLower(m[1])
			if label, ok := startLabel(name, m[2]); ok {
				lines = append(lines, encodeSpaces(markup.EscapeText("["+label+"]")))
			} else if label, ok := commentLabel(name, m[2]); ok {
				lines = append(lines, encodeSpaces(markup.EscapeText(label)))
			}
			continue
		}
		if len(lines) == 0 && strings.TrimSpace(raw) == "" {
			continue
		}
		if sectionLabel.MatchString(raw) {
			lines = append(lines, encodeSpaces(markup.EscapeText(strings.TrimSpace(raw))))
			continue
		}
		lines = append(lines, htmlLine(raw))
	}
	return strings.Join(lines, markup.LineBreak)
}

func startLabel(name, arg string) (string, bool) {
	kind, ok := sectionStarts[name]
	if !ok {
		if !strings.HasPrefix(name, "start_of_") {
			return "", false
		}
		kind = strings.TrimPrefix(name, "start_of_")
	}
	if arg = strings.TrimSpace(arg); arg != "" {
		return arg, true
	}
	return titleCase.String(strings.ReplaceAll(kind, "_", " ")), true
}

// commentLabel returns "[Name]" for a comment directive whose text is a
// section name, as written by Encode for sections without a block type.
func commentLabel(name, arg string) (string, bool) {
	if name != "comment" && name != "c" {
		return "", false
	}
	label := "[" + strings.TrimSpace(arg) + "]"
	if !sectionLabel.MatchString(label) {
		return "", false
	}
	return label, true
}

func htmlLine(line string) string {
	escaped := encodeSpaces(markup.EscapeText(line))
	return chordToken.ReplaceAllString(escaped, `<span class="`+markup.ChordSpanClass+`">$1</span>`)
}

func encodeSpaces(s string) string {
	return strings.ReplaceAll(s, " ", markup.Space)
}

func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.Split(text, "\n")
}
