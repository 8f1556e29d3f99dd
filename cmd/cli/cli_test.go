//go:build !js && !wasm
// +build !js,!wasm

package main

import (
	"bytes"
	"context"
	"flag"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/himanishpuri/freetar/pkg/freetar"
	"github.com/himanishpuri/freetar/pkg/logger"
	"github.com/himanishpuri/freetar/pkg/models"
)

const payload = `{
	"song_name": "Swing Life Away",
	"artist_name": "Rise Against",
	"version": 1,
	"type": "Chords",
	"rating": 4.8,
	"votes": 12345,
	"tab_url": "https://tabs.ultimate-guitar.com/tab/rise-against/swing-life-away-chords-181420",
	"tab_body": "[Chorus]\n[ch]Am[/ch] Let's [ch]G[/ch]drink\n",
	"capo": 3,
	"chord_fingerings": {"G": [{"frets": [3, 0, 0, 0, 2, 3], "fingers": ["3", "0", "0", "0", "1", "2"]}]}
}`

var idPattern = regexp.MustCompile(`ID:\s+([0-9a-f-]{36})`)

func setupCLI(t *testing.T) (*cli, *bytes.Buffer) {
	t.Helper()
	svc, err := freetar.NewService(freetar.WithDBPath(filepath.Join(t.TempDir(), "cli.sqlite3")))
	require.NoError(t, err)
	t.Cleanup(func() { svc.Close() })

	var out bytes.Buffer
	return &cli{
		svc: svc,
		out: &out,
		in:  strings.NewReader(payload),
		log: logger.New(logger.Config{Output: io.Discard}),
	}, &out
}

func runCLI(t *testing.T, c *cli, out *bytes.Buffer, args ...string) string {
	t.Helper()
	out.Reset()
	require.NoError(t, c.run(context.Background(), args))
	return out.String()
}

func importFromStdin(t *testing.T, c *cli, out *bytes.Buffer) string {
	t.Helper()
	text := runCLI(t, c, out, "import", "-")
	m := idPattern.FindStringSubmatch(text)
	require.NotNil(t, m, text)
	return m[1]
}

func TestParseArgsInterleaved(t *testing.T) {
	fs := flag.NewFlagSet("x", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	n := fs.Int("transpose", 0, "")
	out := fs.String("out", "", "")

	pos, err := parseArgs(fs, []string{"abc", "--transpose", "-2", "def", "--out=dir"})
	require.NoError(t, err)
	assert.Equal(t, []string{"abc", "def"}, pos)
	assert.Equal(t, -2, *n)
	assert.Equal(t, "dir", *out)

	_, err = parseArgs(fs, []string{"--nope"})
	assert.ErrorIs(t, err, errUsage)
}

func TestImportListShow(t *testing.T) {
	c, out := setupCLI(t)

	id := importFromStdin(t, c, out)

	text := runCLI(t, c, out, "list")
	assert.Contains(t, text, "Rise Against - Swing Life Away")
	assert.Contains(t, text, id)

	text = runCLI(t, c, out, "show", id, "--transpose", "2", "--diagrams")
	assert.Contains(t, text, "transposed +2 semitones")
	assert.Contains(t, text, "[Bm] Let's [A]drink")
	assert.Contains(t, text, "G\n")

	c.in = strings.NewReader(payload)
	text = runCLI(t, c, out, "import", "-")
	assert.Contains(t, text, "already imported")
	assert.Contains(t, text, "12,345 votes")
	assert.Contains(t, text, "3rd fret")
}

func TestExportAndParse(t *testing.T) {
	c, out := setupCLI(t)
	id := importFromStdin(t, c, out)
	dir := t.TempDir()

	text := runCLI(t, c, out, "export", id, "--out", dir, "--capo", "3")
	assert.Contains(t, text, "Rise Against - Swing Life Away.cho")

	path := filepath.Join(dir, "Rise Against - Swing Life Away.cho")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "{start_of_chorus}\n[F#m] Let's [E]drink\n{end_of_chorus}")

	text = runCLI(t, c, out, "parse", path)
	assert.Contains(t, text, "title:  Swing Life Away")
	assert.Contains(t, text, "chords: F#m E")
}

func TestFavoritesCommands(t *testing.T) {
	c, out := setupCLI(t)
	id := importFromStdin(t, c, out)
	dir := t.TempDir()

	assert.Contains(t, runCLI(t, c, out, "fav", "add", id), "Added Rise Against - Swing Life Away")
	assert.Contains(t, runCLI(t, c, out, "fav", "list"), "/tab/rise-against/swing-life-away-chords-181420")
	runCLI(t, c, out, "fav", "export", "--out", dir)
	runCLI(t, c, out, "fav", "rm", "/tab/rise-against/swing-life-away-chords-181420")
	assert.Contains(t, runCLI(t, c, out, "fav", "list"), "No favorites")

	text := runCLI(t, c, out, "fav", "import", filepath.Join(dir, freetar.FavoritesFile))
	assert.Contains(t, text, "Imported 1 favorite(s)")
}

func TestSetlistCommands(t *testing.T) {
	c, out := setupCLI(t)
	tabID := importFromStdin(t, c, out)

	text := runCLI(t, c, out, "setlist", "create", "Friday", "--desc", "pub gig")
	m := idPattern.FindStringSubmatch(text)
	require.NotNil(t, m, text)
	setlistID := m[1]

	text = runCLI(t, c, out, "setlist", "add", setlistID, tabID, "--notes", "slow intro")
	assert.Contains(t, text, "as 1st song")

	sl, err := c.svc.GetSetlist(context.Background(), setlistID)
	require.NoError(t, err)
	require.Len(t, sl.Items, 1)
	itemID := sl.Items[0].ID

	runCLI(t, c, out, "setlist", "set", setlistID, itemID, "--transpose", "-1")
	text = runCLI(t, c, out, "setlist", "show", setlistID)
	assert.Contains(t, text, "pub gig")
	assert.Contains(t, text, "transpose -1, capo 0")
	assert.Contains(t, text, "slow intro")

	text = runCLI(t, c, out, "setlist", "stage", setlistID)
	assert.Contains(t, text, "transposed -1 semitones")

	assert.Contains(t, runCLI(t, c, out, "setlist", "share", setlistID), "Share token:")
	assert.Contains(t, runCLI(t, c, out, "setlist", "list"), "[shared]")
	runCLI(t, c, out, "setlist", "unshare", setlistID)
	runCLI(t, c, out, "setlist", "rm", setlistID, itemID)
	runCLI(t, c, out, "setlist", "delete", setlistID)
	assert.Contains(t, runCLI(t, c, out, "setlist", "list"), "No setlists")
}

func TestCLIErrors(t *testing.T) {
	c, _ := setupCLI(t)
	ctx := context.Background()

	assert.ErrorIs(t, c.run(ctx, nil), errUsage)
	assert.ErrorIs(t, c.run(ctx, []string{"show"}), errUsage)
	assert.ErrorIs(t, c.run(ctx, []string{"delete", "missing"}), models.ErrNotFound)
	assert.ErrorIs(t, c.run(ctx, []string{"show", "missing", "--capo", "99"}), models.ErrInvalidArgument)
	assert.Error(t, c.run(ctx, []string{"import", "/no/such/file.json"}))
	assert.Error(t, c.run(ctx, []string{"bogus"}))
}
