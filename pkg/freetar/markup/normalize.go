// Package markup turns raw tab text into the span/br markup used for display
// and provides a small node tree over that markup for transposition and export.
package markup

import (
	"regexp"
	"strings"

	"github.com/himanishpuri/freetar/pkg/freetar/chord"
)

// Class names carried by the chord spans. Only root and bass spans hold pitches.
const (
	ClassChord   = "chord"
	ClassRoot    = "chord-root"
	ClassQuality = "chord-quality"
	ClassBass    = "chord-bass"

	// ChordSpanClass is the full class attribute of the outer chord span.
	ChordSpanClass = ClassChord + " fw-bold"

	LineBreak = "<br/>"
	Space     = "&nbsp;"
)

var (
	chordTag = regexp.MustCompile(`\[ch\](?P<root>` + chord.RootPattern + `)(?P<quality>` + chord.QualityPattern + `)?(?P<bass>/` + chord.RootPattern + `)?\[/ch\]`)
	anyChord = regexp.MustCompile(`\[ch\]([^\[]*)\[/ch\]`)

	rawEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	lineBreaks = strings.NewReplacer("\r\n", LineBreak, "\n", LineBreak)
	tabWrapper = strings.NewReplacer("[tab]", "", "[/tab]", "")
)

// FixTab converts raw tab text into display markup: newlines become <br/>,
// spaces become &nbsp;, [tab] wrappers are dropped and every well-formed
// [ch]...[/ch] tag becomes a chord span. Malformed chord tags stay as text.
func FixTab(raw string) string {
	tab := rawEscaper.Replace(raw)
	tab = lineBreaks.Replace(tab)
	tab = strings.ReplaceAll(tab, " ", Space)
	tab = tabWrapper.Replace(tab)

	idxRoot := chordTag.SubexpIndex("root")
	idxQuality := chordTag.SubexpIndex("quality")
	idxBass := chordTag.SubexpIndex("bass")

	return chordTag.ReplaceAllStringFunc(tab, func(match string) string {
		m := chordTag.FindStringSubmatch(match)
		return ChordSpan(chord.Token{
			Root:    m[idxRoot],
			Quality: m[idxQuality],
			Bass:    strings.TrimPrefix(m[idxBass], "/"),
		})
	})
}

// ChordSpan renders a chord token as the nested span markup.
func ChordSpan(t chord.Token) string {
	var b strings.Builder
	b.WriteString(`<span class="` + ChordSpanClass + `">`)
	b.WriteString(`<span class="` + ClassRoot + `">` + t.Root + `</span>`)
	if t.Quality != "" {
		b.WriteString(`<span class="` + ClassQuality + `">` + t.Quality + `</span>`)
	}
	if t.Bass != "" {
		b.WriteString(`/<span class="` + ClassBass + `">` + t.Bass + `</span>`)
	}
	b.WriteString(`</span>`)
	return b.String()
}

// PlainText strips tab wrappers and unwraps chord tags, leaving the text as
// it would be typed.
func PlainText(raw string) string {
	tab := strings.ReplaceAll(raw, "\r\n", "\n")
	tab = tabWrapper.Replace(tab)
	return anyChord.ReplaceAllString(tab, "$1")
}
