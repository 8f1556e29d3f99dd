package chordpro

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/himanishpuri/freetar/pkg/freetar/markup"
	"github.com/himanishpuri/freetar/pkg/freetar/notes"
	"github.com/himanishpuri/freetar/pkg/models"
)

func song(raw string) *models.SongDetail {
	capo := 2
	tuning := "E A D G B E (Standard)"
	return &models.SongDetail{
		Tab:        markup.FixTab(raw),
		ArtistName: "Rise Against",
		SongName:   "Swing Life Away",
		Version:    2,
		Type:       "Chords",
		Rating:     4.8,
		Difficulty: "novice",
		Key:        "Em",
		Capo:       &capo,
		Tuning:     &tuning,
	}
}

func TestEncodeHeader(t *testing.T) {
	out, err := Encode(song("[ch]G[/ch]"), -1, notes.Sharps)
	require.NoError(t, err)

	want := strings.Join([]string{
		"{title: Swing Life Away}",
		"{artist: Rise Against}",
		"{capo: 2}",
		"{key: Em}",
		"{meta: tuning E A D G B E (Standard)}",
		"{meta: difficulty novice}",
		"{meta: version 2}",
		"{meta: rating 4.8/5}",
		"{meta: transposed -1 semitones}",
		"",
		"[F#]",
	}, "\n")
	assert.Equal(t, want, out)
}

func TestEncodeHeaderOptionalFields(t *testing.T) {
	detail := &models.SongDetail{SongName: "s", ArtistName: "a", Version: 1, Rating: 5, Tab: "x"}
	out, err := Encode(detail, 3, notes.Sharps)
	require.NoError(t, err)
	assert.Equal(t, "{title: s}\n{artist: a}\n{meta: difficulty }\n{meta: version 1}\n{meta: rating 5/5}\n{meta: transposed +3 semitones}\n\nx", out)
}

func TestEncodeChorusBlock(t *testing.T) {
	body, err := Body(markup.FixTab("[Chorus]\nline1\nline2\n\n"), 0, notes.Sharps)
	require.NoError(t, err)
	assert.Contains(t, body, "{start_of_chorus}\nline1\nline2\n{end_of_chorus}")
	assert.NotContains(t, body, "[Chorus]")
}

func TestEncodeTransposesChords(t *testing.T) {
	body, err := Body(markup.FixTab("[ch]Asus2/E[/ch] hey [ch]C#m7[/ch]"), -1, notes.Sharps)
	require.NoError(t, err)
	assert.Equal(t, "[G#sus2/D#] hey [Cm7]", body)

	body, err = Body(markup.FixTab("[ch]Asus2/E[/ch]"), 0, notes.Sharps)
	require.NoError(t, err)
	assert.Equal(t, "[Asus2/E]", body)
}

func TestEncodeStripsTrailingSlashFromQuality(t *testing.T) {
	tab := `<span class="chord fw-bold"><span class="chord-root">C</span><span class="chord-quality">maj7/</span></span>`
	body, err := Body(tab, 0, notes.Sharps)
	require.NoError(t, err)
	assert.Equal(t, "[Cmaj7]", body)
}

func TestEncodeIntroAndOutroUseVerseBlock(t *testing.T) {
	body, err := Body(markup.FixTab("[Intro]\n[ch]G[/ch] [ch]C[/ch]\n\n[Outro]\n[ch]D[/ch]"), 0, notes.Sharps)
	require.NoError(t, err)
	assert.Equal(t, "{start_of_verse}\n[G] [C]\n{end_of_verse}\n\n{start_of_verse}\n[D]\n{end_of_verse}", body)
}

func TestEncodeCommentFallback(t *testing.T) {
	body, err := Body(markup.FixTab("[Solo 2]\nriff\n[pre-chorus]\nup\n"), 0, notes.Sharps)
	require.NoError(t, err)
	assert.Equal(t, "{comment: Solo 2}\nriff\n{comment: pre-chorus}\nup", body)
}

func TestEncodeEmptySectionAndLooseLines(t *testing.T) {
	body, err := Body(markup.FixTab("intro riff\n[Verse]\n[Chorus 1]\nla"), 0, notes.Sharps)
	require.NoError(t, err)
	assert.Equal(t, "intro riff\n{comment: Verse}\n{start_of_chorus}\nla\n{end_of_chorus}", body)
}

func TestSectionDirective(t *testing.T) {
	cases := map[string]string{
		"Verse 2":    "verse",
		"CHORUS":     "chorus",
		"Bridge":     "bridge",
		"Intro":      "verse",
		"outro":      "verse",
		"Pre-Chorus": "",
		"Solo":       "",
		"End":        "",
	}
	for name, want := range cases {
		assert.Equal(t, want, SectionDirective(name), name)
	}
}

func TestToHTML(t *testing.T) {
	text := strings.Join([]string{
		"{title: X}",
		"{artist: Y}",
		"{meta: rating 5/5}",
		"",
		"{start_of_chorus}",
		"[G]Hello <world> & co",
		"{end_of_chorus}",
		"{comment: Solo}",
		"[Verse 2]",
		"{start_of_verse: Verse 3}",
		"{soc}",
	}, "\r\n")

	want := strings.Join([]string{
		"[Chorus]",
		`<span class="chord fw-bold">G</span>Hello&nbsp;&lt;world&gt;&nbsp;&amp;&nbsp;co`,
		"[Solo]",
		"[Verse&nbsp;2]",
		"[Verse&nbsp;3]",
		"[Chorus]",
	}, "<br/>")
	assert.Equal(t, want, ToHTML(text))
}

func TestRoundTripKeepsChordsAndLines(t *testing.T) {
	detail := song("[ch]G[/ch] hello\n[ch]C[/ch] world [ch]D/F#[/ch]\n\nplain [ch]Em7[/ch]")

	text, err := Encode(detail, 0, notes.Sharps)
	require.NoError(t, err)
	decoded := ToHTML(text)

	assert.Equal(t, strings.Count(detail.Tab, `class="chord fw-bold"`), strings.Count(decoded, `class="chord fw-bold"`))
	assert.Equal(t, strings.Count(detail.Tab, "<br/>"), strings.Count(decoded, "<br/>"))

	again, err := Body(decoded, 0, notes.Sharps)
	require.NoError(t, err)
	body, err := Body(detail.Tab, 0, notes.Sharps)
	require.NoError(t, err)
	assert.Equal(t, body, again)
}

func TestRoundTripKeepsSectionLabels(t *testing.T) {
	for _, raw := range []string{
		"[Solo]\n[ch]Am[/ch] riff\n\n[Chorus]\n[ch]C[/ch] la",
		"[Intro]\n\n[ch]G[/ch] x",
		"[Pre-Chorus]\n[ch]D[/ch] up\n[Verse 2]\n[ch]G[/ch] hello",
		"[Interlude]\n\n[End]\n[ch]E[/ch]",
	} {
		detail := song(raw)
		text, err := Encode(detail, 0, notes.Sharps)
		require.NoError(t, err, raw)
		decoded := ToHTML(text)

		assert.Equal(t, strings.Count(detail.Tab, `class="chord fw-bold"`), strings.Count(decoded, `class="chord fw-bold"`), raw)
		assert.Equal(t, strings.Count(detail.Tab, "<br/>"), strings.Count(decoded, "<br/>"), raw)

		again, err := Body(decoded, 0, notes.Sharps)
		require.NoError(t, err)
		body, err := Body(detail.Tab, 0, notes.Sharps)
		require.NoError(t, err)
		assert.Equal(t, body, again, raw)
	}
	assert.Equal(t, "[Solo]", ToHTML("{comment: Solo}"))
	assert.Equal(t, "", ToHTML("{comment: play softly}"))
}

func TestEncodeDecodedSpansTransposes(t *testing.T) {
	body, err := Body(ToHTML("[Am] la [N.C.]"), 2, notes.Sharps)
	require.NoError(t, err)
	assert.Equal(t, "[Bm] la [N.C.]", body)
}

func TestParse(t *testing.T) {
	doc := Parse("{title: Song}\n{artist: Band}\n[G]One [C]two\n[G]three [D/F#]four\n{soc}")
	assert.Equal(t, map[string]string{"title": "Song", "artist": "Band"}, doc.Metadata)
	assert.Equal(t, []string{"G", "C", "D/F#"}, doc.Chords)
	assert.Equal(t, "[G]One [C]two\n[G]three [D/F#]four\n{soc}", doc.Content)
}

func TestParseEmpty(t *testing.T) {
	doc := Parse("")
	assert.Empty(t, doc.Metadata)
	assert.Empty(t, doc.Chords)
	assert.Equal(t, "", doc.Content)
}

func TestTranspose(t *testing.T) {
	in := "{title: [A] song}\n[Bridge]\n[Am]la [G/B]di\n[N.C.]"
	assert.Equal(t, "{title: [A] song}\n[Bridge]\n[Bm]la [A/C#]di\n[N.C.]", Transpose(in, 2, notes.Sharps))
	assert.Equal(t, "[Db]", Transpose("[C]", 1, notes.Flats))
	assert.Equal(t, in, Transpose(in, 0, notes.Sharps))
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "AC_DC - Back In Black_.cho", Filename("AC/DC", "Back In Black?"))
	assert.Equal(t, "Sigur R_s - Hopp_polla.cho", Filename("Sigur Rós", "Hoppípolla"))
	assert.Equal(t, "Rise Against - Swing Life Away.cho", Filename("Rise Against", "Swing Life Away"))
}
