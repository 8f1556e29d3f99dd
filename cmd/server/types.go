//go:build !js && !wasm
// +build !js,!wasm

package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/himanishpuri/freetar/pkg/models"
)

// MaxBodyBytes caps request bodies (tab payloads, ChordPro text, favorites).
const MaxBodyBytes = 8 << 20

// ImportTabResponse is the response for POST /api/tabs
type ImportTabResponse struct {
	Message string            `json:"message"`
	Created bool              `json:"created"`
	Tab     *models.TabRecord `json:"tab"`
}

// TabDTO is a tab listing without its markup
type TabDTO struct {
	ID         string    `json:"id"`
	ArtistName string    `json:"artist_name"`
	SongName   string    `json:"song_name"`
	Type       string    `json:"type"`
	Version    int       `json:"version"`
	Rating     float64   `json:"rating"`
	TabURL     string    `json:"tab_url"`
	CreatedAt  time.Time `json:"created_at"`
}

func newTabDTO(rec models.TabRecord) TabDTO {
	return TabDTO{
		ID:         rec.ID,
		ArtistName: rec.Detail.ArtistName,
		SongName:   rec.Detail.SongName,
		Type:       rec.Detail.Type,
		Version:    rec.Detail.Version,
		Rating:     rec.Detail.Rating,
		TabURL:     rec.Detail.TabURL,
		CreatedAt:  rec.CreatedAt,
	}
}

// ListTabsResponse is the response for GET /api/tabs
type ListTabsResponse struct {
	Tabs  []TabDTO `json:"tabs"`
	Count int      `json:"count"`
}

// DeleteResponse is returned by every DELETE endpoint
type DeleteResponse struct {
	Message string `json:"message"`
	ID      string `json:"id,omitempty"`
}

// ImportFavoritesResponse is the response for POST /api/favorites/import
type ImportFavoritesResponse struct {
	Imported int `json:"imported"`
}

// CreateSetlistRequest is the request body for POST /api/setlists
type CreateSetlistRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

func (r *CreateSetlistRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("name is required")
	}
	return nil
}

// UpdateSetlistRequest is the request body for PUT /api/setlists/{id}.
// Absent fields are left unchanged; an empty description clears it.
type UpdateSetlistRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

// AddItemRequest is the request body for POST /api/setlists/{id}/items.
// Either TabID names an imported tab or the listing fields are given.
type AddItemRequest struct {
	TabID      string  `json:"tab_id,omitempty"`
	ArtistName string  `json:"artist_name,omitempty"`
	SongName   string  `json:"song_name,omitempty"`
	Type       string  `json:"type,omitempty"`
	Rating     float64 `json:"rating,omitempty"`
	TabURL     string  `json:"tab_url,omitempty"`
	Notes      *string `json:"notes,omitempty"`
	Transpose  int     `json:"transpose,omitempty"`
	Capo       int     `json:"capo,omitempty"`
}

func (r *AddItemRequest) Validate() error {
	if r.TabID == "" && r.TabURL == "" {
		return fmt.Errorf("tab_id or tab_url is required")
	}
	return nil
}

func (r *AddItemRequest) item() models.SetlistItem {
	return models.SetlistItem{
		ArtistName: r.ArtistName,
		SongName:   r.SongName,
		Type:       r.Type,
		Rating:     r.Rating,
		TabURL:     r.TabURL,
		Notes:      r.Notes,
		Transpose:  r.Transpose,
		Capo:       r.Capo,
	}
}

// ReorderRequest is the request body for PUT /api/setlists/{id}/items/order
type ReorderRequest struct {
	ItemIDs []string `json:"item_ids"`
}

func (r *ReorderRequest) Validate() error {
	if len(r.ItemIDs) == 0 {
		return fmt.Errorf("item_ids cannot be empty")
	}
	return nil
}

// ShareResponse is the response for POST /api/setlists/{id}/share
type ShareResponse struct {
	ShareToken string `json:"share_token"`
	Path       string `json:"path"`
}

// MetricsResponse provides server health and library counts
type MetricsResponse struct {
	Status        string `json:"status"`
	Database      string `json:"database"`
	TabCount      int    `json:"tab_count"`
	FavoriteCount int    `json:"favorite_count"`
	SetlistCount  int    `json:"setlist_count"`
}

// ErrorResponse is the standard error response format
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code,omitempty"`
}
