package models

import "time"

// FavoriteTab is the favorites entry for one tab, keyed by tab path.
type FavoriteTab struct {
	ArtistName string  `json:"artist_name"`
	Song       string  `json:"song"`
	Type       string  `json:"type"`
	Rating     float64 `json:"rating"`
	TabURL     string  `json:"tab_url"`
}

// Favorites maps tab path to its favorite entry. This is also the layout of
// an exported freetar-favorites.json file.
type Favorites map[string]FavoriteTab

// Setlist is a named, ordered collection of tabs.
type Setlist struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	ShareToken  *string   `json:"share_token"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// SetlistItem is one tab in a setlist along with its saved performance
// settings.
type SetlistItem struct {
	ID         string    `json:"id"`
	SetlistID  string    `json:"setlist_id"`
	ArtistName string    `json:"artist_name"`
	SongName   string    `json:"song_name"`
	Type       string    `json:"type"`
	Rating     float64   `json:"rating"`
	TabURL     string    `json:"tab_url"`
	Position   int       `json:"position"`
	Notes      *string   `json:"notes"`
	Transpose  int       `json:"transpose"`
	Capo       int       `json:"capo"`
	CreatedAt  time.Time `json:"created_at"`
}

// SetlistWithItems is a setlist with its items in position order.
type SetlistWithItems struct {
	Setlist
	Items []SetlistItem `json:"items"`
}

// SetlistItemUpdate carries the optional fields of an item update.
type SetlistItemUpdate struct {
	Notes     *string `json:"notes,omitempty"`
	Transpose *int    `json:"transpose,omitempty"`
	Capo      *int    `json:"capo,omitempty"`
}
