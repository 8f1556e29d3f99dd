//go:build !js && !wasm
// +build !js,!wasm

package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/himanishpuri/freetar/pkg/models"
)

// Tab stores one assembled song: indexed scalar columns plus the full
// SongDetail as a JSON document.
type Tab struct {
	ID         string  `gorm:"primaryKey;type:varchar(36)"`
	TabURL     string  `gorm:"uniqueIndex:idx_tab_url;not null" json:"tab_url"`
	ArtistName string  `gorm:"index:idx_tab_meta,priority:1" json:"artist_name"`
	SongName   string  `gorm:"index:idx_tab_meta,priority:2" json:"song_name"`
	Type       string  `json:"type"`
	Version    int     `json:"version"`
	Rating     float64 `json:"rating"`
	Detail     string  `gorm:"type:text;not null" json:"-"`
	CreatedAt  time.Time
}

type Favorite struct {
	TabURL     string `gorm:"primaryKey"`
	ArtistName string
	Song       string
	Type       string
	Rating     float64
	CreatedAt  time.Time
}

type Setlist struct {
	ID          string `gorm:"primaryKey;type:varchar(36)"`
	Name        string `gorm:"not null"`
	Description *string
	ShareToken  *string `gorm:"uniqueIndex:idx_share_token"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type SetlistItem struct {
	ID         string `gorm:"primaryKey;type:varchar(36)"`
	SetlistID  string `gorm:"type:varchar(36);index:idx_item_setlist;not null"`
	ArtistName string
	SongName   string
	Type       string
	Rating     float64
	TabURL     string
	Position   int `gorm:"not null"`
	Notes      *string
	Transpose  int
	Capo       int
	CreatedAt  time.Time
}

func newTabRow(id string, detail *models.SongDetail) (*Tab, error) {
	doc, err := json.Marshal(detail)
	if err != nil {
		return nil, fmt.Errorf("encoding tab detail: %w", err)
	}
	return &Tab{
		ID:         id,
		TabURL:     detail.TabURL,
		ArtistName: detail.ArtistName,
		SongName:   detail.SongName,
		Type:       detail.Type,
		Version:    detail.Version,
		Rating:     detail.Rating,
		Detail:     string(doc),
	}, nil
}

func (t *Tab) record() (*models.TabRecord, error) {
	var detail models.SongDetail
	if err := json.Unmarshal([]byte(t.Detail), &detail); err != nil {
		return nil, fmt.Errorf("decoding tab %s: %w", t.ID, err)
	}
	return &models.TabRecord{ID: t.ID, Detail: &detail, CreatedAt: t.CreatedAt}, nil
}

func (f *Favorite) model() models.FavoriteTab {
	return models.FavoriteTab{
		ArtistName: f.ArtistName,
		Song:       f.Song,
		Type:       f.Type,
		Rating:     f.Rating,
		TabURL:     f.TabURL,
	}
}

func (s *Setlist) model() models.Setlist {
	return models.Setlist{
		ID:          s.ID,
		Name:        s.Name,
		Description: s.Description,
		ShareToken:  s.ShareToken,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

func (i *SetlistItem) model() models.SetlistItem {
	return models.SetlistItem{
		ID:         i.ID,
		SetlistID:  i.SetlistID,
		ArtistName: i.ArtistName,
		SongName:   i.SongName,
		Type:       i.Type,
		Rating:     i.Rating,
		TabURL:     i.TabURL,
		Position:   i.Position,
		Notes:      i.Notes,
		Transpose:  i.Transpose,
		Capo:       i.Capo,
		CreatedAt:  i.CreatedAt,
	}
}
