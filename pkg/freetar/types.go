package freetar

import (
	"github.com/himanishpuri/freetar/pkg/freetar/chordpro"
	"github.com/himanishpuri/freetar/pkg/freetar/transpose"
	"github.com/himanishpuri/freetar/pkg/models"
)

// FavoritesFile is the file name used for favorites export and import.
const FavoritesFile = "freetar-favorites.json"

// Limits on the display offsets accepted from callers.
const (
	MaxTranspose = 12
	MaxCapo      = 12
)

// RenderOptions are the display settings applied to a tab: a manual
// transpose in semitones and a simulated capo fret.
type RenderOptions struct {
	Transpose int `json:"transpose"`
	Capo      int `json:"capo"`
}

// Offset is the semitone shift the options produce.
func (o RenderOptions) Offset() int {
	return transpose.Effective(o.Transpose, o.Capo)
}

// RenderedTab is a stored tab with its markup transposed for display.
type RenderedTab struct {
	ID        string             `json:"id"`
	Detail    *models.SongDetail `json:"tab"`
	Transpose int                `json:"transpose"`
	Capo      int                `json:"capo"`
	Offset    int                `json:"offset"`
	Diagrams  []string           `json:"diagrams,omitempty"`
}

// ChordProExport is an exported ChordPro document and its file name.
type ChordProExport struct {
	Filename string `json:"filename"`
	Content  string `json:"content"`
}

// ChordProImport is ChordPro text parsed and converted to display markup.
type ChordProImport struct {
	*chordpro.Document
	HTML string `json:"html"`
}

// StageSong is one setlist entry resolved for performance. Tab is nil when
// the entry's tab has not been imported.
type StageSong struct {
	Item models.SetlistItem `json:"item"`
	Tab  *RenderedTab       `json:"tab"`
}

// StageSetlist is a read-only setlist with every song rendered using its
// saved transpose and capo.
type StageSetlist struct {
	models.Setlist
	Songs []StageSong `json:"songs"`
}
