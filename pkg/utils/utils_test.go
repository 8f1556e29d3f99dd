package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestURLPath(t *testing.T) {
	cases := map[string]string{
		"https://tabs.ultimate-guitar.com/tab/rise-against/swing-life-away-chords-181420": "/tab/rise-against/swing-life-away-chords-181420",
		"/tab/rise-against/swing-life-away-chords-181420":                                  "/tab/rise-against/swing-life-away-chords-181420",
		"https://example.com":                                                              "/",
		"":                                                                                 "",
	}
	for in, want := range cases {
		assert.Equal(t, want, URLPath(in), in)
	}
}

func TestDownloadPath(t *testing.T) {
	assert.Equal(t, "/download/rise-against/swing-life-away-chords-181420",
		DownloadPath("https://tabs.ultimate-guitar.com/tab/rise-against/swing-life-away-chords-181420"))
	assert.Equal(t, "", DownloadPath("/tab"))
}

func TestIsAbsoluteURL(t *testing.T) {
	assert.True(t, IsAbsoluteURL("https://tabs.ultimate-guitar.com/tab/x"))
	assert.False(t, IsAbsoluteURL("/tab/x"))
}

func TestNewIDAndShareToken(t *testing.T) {
	id := NewID()
	assert.True(t, IsID(id))
	assert.NotEqual(t, id, NewID())

	token := NewShareToken()
	assert.Len(t, token, 32)
	assert.NotContains(t, token, "-")
}

func TestWriteFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")
	path, err := WriteFile(dir, "song.cho", []byte("{title: x}\n"))
	require.NoError(t, err)
	assert.True(t, FileExists(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{title: x}\n", string(data))
}
