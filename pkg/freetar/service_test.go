package freetar

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/himanishpuri/freetar/pkg/logger"
	"github.com/himanishpuri/freetar/pkg/models"
)

const tabURL = "https://tabs.ultimate-guitar.com/tab/rise-against/swing-life-away-chords-181420"

func payload(t *testing.T, song string, capo int) []byte {
	t.Helper()
	data, err := json.Marshal(map[string]any{
		"song_name":   song,
		"artist_name": "Rise Against",
		"version":     1,
		"type":        "Chords",
		"rating":      4.87,
		"votes":       "120",
		"difficulty":  "novice",
		"tab_url":     strings.Replace(tabURL, "swing-life-away", strings.ToLower(strings.ReplaceAll(song, " ", "-")), 1),
		"tab_body":    "[Chorus]\n[ch]D[/ch] [ch]G[/ch]\nla la\n",
		"capo":        capo,
		"chord_fingerings": map[string]any{
			"D": []any{map[string]any{"frets": []int{2, 3, 2, 0, -1, -1}, "fingers": []string{"2", "3", "1", "0", "0", "0"}}},
		},
	})
	require.NoError(t, err)
	return data
}

// setupTestService creates a service over a temporary SQLite database.
func setupTestService(t *testing.T) (Service, *bytes.Buffer) {
	t.Helper()

	var logs bytes.Buffer
	log := logger.New(logger.Config{Level: logger.DEBUG, Output: &logs})

	svc, err := NewService(
		WithDBPath(filepath.Join(t.TempDir(), "test_freetar.sqlite3")),
		WithLogger(log),
	)
	require.NoError(t, err)
	t.Cleanup(func() { svc.Close() })
	return svc, &logs
}

func TestImportTabIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc, logs := setupTestService(t)

	rec, created, err := svc.ImportTab(ctx, payload(t, "Swing Life Away", 2))
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "/tab/rise-against/swing-life-away-chords-181420", rec.Detail.TabURL)
	assert.Equal(t, 4.9, rec.Detail.Rating)
	assert.Equal(t, 2, rec.Detail.CapoValue())
	assert.Contains(t, logs.String(), "Importing Rise Against - Swing Life Away")

	again, created, err := svc.ImportTab(ctx, payload(t, "Swing Life Away", 2))
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, rec.ID, again.ID)

	byURL, err := svc.GetTabByURL(ctx, tabURL)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, byURL.ID)

	tabs, err := svc.ListTabs(ctx)
	require.NoError(t, err)
	assert.Len(t, tabs, 1)
}

func TestImportTabRejectsBadPayload(t *testing.T) {
	svc, _ := setupTestService(t)

	_, _, err := svc.ImportTab(context.Background(), []byte(`{"song_name": "x", "artist_name": "y"}`))
	assert.ErrorIs(t, err, models.ErrDataNotFound)

	_, _, err = svc.ImportTab(context.Background(), []byte(`not json`))
	assert.ErrorIs(t, err, models.ErrInvalidPayload)
}

func TestRenderTabAppliesCapoAndTranspose(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupTestService(t)

	rec, _, err := svc.ImportTab(ctx, payload(t, "Swing Life Away", 0))
	require.NoError(t, err)

	out, err := svc.RenderTab(ctx, rec.ID, RenderOptions{Transpose: 2, Capo: 3})
	require.NoError(t, err)
	assert.Equal(t, -1, out.Offset)
	assert.Contains(t, out.Detail.Tab, `<span class="chord-root">C#</span>`)
	assert.Contains(t, out.Detail.Tab, `<span class="chord-root">F#</span>`)
	require.Len(t, out.Diagrams, 1)
	assert.True(t, strings.HasPrefix(out.Diagrams[0], "D\n"))

	stored, err := svc.GetTab(ctx, rec.ID)
	require.NoError(t, err)
	assert.Contains(t, stored.Detail.Tab, `<span class="chord-root">D</span>`, "rendering leaves the stored tab untouched")

	_, err = svc.RenderTab(ctx, rec.ID, RenderOptions{Transpose: 13})
	assert.ErrorIs(t, err, models.ErrInvalidArgument)
	_, err = svc.RenderTab(ctx, rec.ID, RenderOptions{Capo: -1})
	assert.ErrorIs(t, err, models.ErrInvalidArgument)
	_, err = svc.RenderTab(ctx, "missing", RenderOptions{})
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestExportChordPro(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupTestService(t)

	rec, _, err := svc.ImportTab(ctx, payload(t, "Swing Life Away", 2))
	require.NoError(t, err)

	out, err := svc.ExportChordPro(ctx, rec.ID, RenderOptions{})
	require.NoError(t, err)
	assert.Equal(t, "Rise Against - Swing Life Away.cho", out.Filename)
	assert.Contains(t, out.Content, "{capo: 2}")
	assert.Contains(t, out.Content, "{start_of_chorus}\n[D] [G]\nla la\n{end_of_chorus}")
	assert.NotContains(t, out.Content, "transposed")

	out, err = svc.ExportChordPro(ctx, rec.ID, RenderOptions{Capo: 2})
	require.NoError(t, err)
	assert.Contains(t, out.Content, "[C] [F]")
	assert.Contains(t, out.Content, "{meta: transposed -2 semitones}")
}

func TestImportChordPro(t *testing.T) {
	svc, _ := setupTestService(t)

	doc, err := svc.ImportChordPro("{title: Song}\n{artist: Band}\n[C]la [G/B]di", RenderOptions{Transpose: 2})
	require.NoError(t, err)
	assert.Equal(t, "Song", doc.Metadata["title"])
	assert.Equal(t, []string{"D", "A/C#"}, doc.Chords)
	assert.Contains(t, doc.HTML, `<span class="chord fw-bold">D</span>la`)

	_, err = svc.ImportChordPro("  \n", RenderOptions{})
	assert.ErrorIs(t, err, models.ErrInvalidPayload)
}

func TestFavoritesExportImport(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupTestService(t)

	rec, _, err := svc.ImportTab(ctx, payload(t, "Swing Life Away", 0))
	require.NoError(t, err)

	fav, err := svc.FavoriteTab(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "Swing Life Away", fav.Song)

	require.NoError(t, svc.AddFavorite(ctx, models.FavoriteTab{
		ArtistName: "Nirvana", Song: "Polly", Type: "Tabs", Rating: 4.1,
		TabURL: "https://tabs.ultimate-guitar.com/tab/nirvana/polly-tabs-1",
	}))

	data, err := svc.ExportFavorites(ctx)
	require.NoError(t, err)

	var exported models.Favorites
	require.NoError(t, json.Unmarshal(data, &exported))
	assert.Contains(t, exported, "/tab/nirvana/polly-tabs-1")

	require.NoError(t, svc.RemoveFavorite(ctx, "/tab/nirvana/polly-tabs-1"))
	require.NoError(t, svc.RemoveFavorite(ctx, tabURL))
	favs, err := svc.ListFavorites(ctx)
	require.NoError(t, err)
	assert.Empty(t, favs)

	n, err := svc.ImportFavorites(ctx, data)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = svc.ImportFavorites(ctx, []byte("[1,2]"))
	assert.ErrorIs(t, err, models.ErrInvalidPayload)
}

func TestSetlistStageView(t *testing.T) {
	ctx := context.Background()
	svc, logs := setupTestService(t)

	rec, _, err := svc.ImportTab(ctx, payload(t, "Swing Life Away", 0))
	require.NoError(t, err)

	_, err = svc.CreateSetlist(ctx, "   ", nil)
	assert.ErrorIs(t, err, models.ErrInvalidArgument)

	sl, err := svc.CreateSetlist(ctx, " Gig ", nil)
	require.NoError(t, err)
	assert.Equal(t, "Gig", sl.Name)

	first, err := svc.AddTabToSetlist(ctx, sl.ID, rec.ID, nil)
	require.NoError(t, err)
	second, err := svc.AddToSetlist(ctx, sl.ID, models.SetlistItem{
		ArtistName: "Nirvana", SongName: "Polly", Type: "Tabs",
		TabURL: "https://tabs.ultimate-guitar.com/tab/nirvana/polly-tabs-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "/tab/nirvana/polly-tabs-1", second.TabURL)

	_, err = svc.AddToSetlist(ctx, sl.ID, models.SetlistItem{SongName: "x"})
	assert.ErrorIs(t, err, models.ErrInvalidArgument)

	transpose := 2
	_, err = svc.UpdateSetlistItem(ctx, sl.ID, first.ID, models.SetlistItemUpdate{Transpose: &transpose})
	require.NoError(t, err)
	bad := 20
	_, err = svc.UpdateSetlistItem(ctx, sl.ID, first.ID, models.SetlistItemUpdate{Capo: &bad})
	assert.ErrorIs(t, err, models.ErrInvalidArgument)

	assert.ErrorIs(t, svc.ReorderSetlist(ctx, sl.ID, []string{first.ID, first.ID}), models.ErrInvalidArgument)
	require.NoError(t, svc.ReorderSetlist(ctx, sl.ID, []string{second.ID, first.ID}))

	stage, err := svc.StageView(ctx, sl.ID)
	require.NoError(t, err)
	require.Len(t, stage.Songs, 2)
	assert.Equal(t, "Polly", stage.Songs[0].Item.SongName)
	assert.Nil(t, stage.Songs[0].Tab)
	require.NotNil(t, stage.Songs[1].Tab)
	assert.Equal(t, 2, stage.Songs[1].Tab.Offset)
	assert.Contains(t, stage.Songs[1].Tab.Detail.Tab, `<span class="chord-root">E</span>`)
	assert.Contains(t, logs.String(), "is not imported")

	require.NoError(t, svc.RemoveFromSetlist(ctx, sl.ID, second.ID))
	got, err := svc.GetSetlist(ctx, sl.ID)
	require.NoError(t, err)
	assert.Len(t, got.Items, 1)
}

func TestShareSetlist(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupTestService(t)

	sl, err := svc.CreateSetlist(ctx, "Shared", nil)
	require.NoError(t, err)

	token, err := svc.ShareSetlist(ctx, sl.ID)
	require.NoError(t, err)
	assert.Len(t, token, 32)

	shared, err := svc.GetSharedSetlist(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, sl.ID, shared.ID)

	stage, err := svc.SharedStageView(ctx, token)
	require.NoError(t, err)
	assert.Empty(t, stage.Songs)

	require.NoError(t, svc.UnshareSetlist(ctx, sl.ID))
	_, err = svc.GetSharedSetlist(ctx, token)
	assert.ErrorIs(t, err, models.ErrNotFound)

	name := "Renamed"
	updated, err := svc.UpdateSetlist(ctx, sl.ID, &name, nil)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)

	require.NoError(t, svc.DeleteSetlist(ctx, sl.ID))
	lists, err := svc.ListSetlists(ctx)
	require.NoError(t, err)
	assert.Empty(t, lists)
}

func TestDeleteTab(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupTestService(t)

	rec, _, err := svc.ImportTab(ctx, payload(t, "Swing Life Away", 0))
	require.NoError(t, err)
	require.NoError(t, svc.DeleteTab(ctx, rec.ID))
	assert.ErrorIs(t, svc.DeleteTab(ctx, rec.ID), models.ErrNotFound)
}
