package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"time"
)

// SearchResult is one tab listing from a search or from a song's alternatives.
type SearchResult struct {
	ArtistName string  `json:"artist_name"`
	SongName   string  `json:"song_name"`
	TabURL     string  `json:"tab_url"` // path only
	ArtistURL  string  `json:"artist_url"`
	Type       string  `json:"type"`
	Version    int     `json:"version"`
	Votes      int     `json:"votes"`
	Rating     float64 `json:"rating"` // 0-5, one decimal
}

func (r SearchResult) String() string {
	return fmt.Sprintf("%s - %s (ver %d) (%s %.1f/5 - %d votes)",
		r.ArtistName, r.SongName, r.Version, r.Type, r.Rating, r.Votes)
}

// StringCount is the number of strings every diagram row covers.
const StringCount = 6

// FretRow marks which strings are pressed at one fret.
type FretRow struct {
	Fret    int
	Pressed [StringCount]int
}

// ChordVariant is one fingering of a chord: exactly six fret rows in
// ascending fret order. It marshals as a JSON object keyed by fret number.
type ChordVariant []FretRow

func (v ChordVariant) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, row := range v {
		if i > 0 {
			buf.WriteByte(',')
		}
		pressed, err := json.Marshal(row.Pressed)
		if err != nil {
			return nil, err
		}
		fmt.Fprintf(&buf, "%q:%s", strconv.Itoa(row.Fret), pressed)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (v *ChordVariant) UnmarshalJSON(data []byte) error {
	var raw map[string][StringCount]int
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	rows := make(ChordVariant, 0, len(raw))
	for key, pressed := range raw {
		fret, err := strconv.Atoi(key)
		if err != nil {
			return fmt.Errorf("chord variant: fret key %q: %w", key, err)
		}
		rows = append(rows, FretRow{Fret: fret, Pressed: pressed})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Fret < rows[j].Fret })
	*v = rows
	return nil
}

// SongDetail is a fully assembled tab, ready for rendering, transposition
// and export.
type SongDetail struct {
	Tab               string                    `json:"tab"`
	ArtistName        string                    `json:"artist_name"`
	SongName          string                    `json:"song_name"`
	Version           int                       `json:"version"`
	Type              string                    `json:"type"`
	Rating            float64                   `json:"rating"`
	Votes             int                       `json:"votes"`
	Difficulty        string                    `json:"difficulty"`
	Key               string                    `json:"key,omitempty"`
	Capo              *int                      `json:"capo"`
	Tuning            *string                   `json:"tuning"`
	TabURL            string                    `json:"tab_url"`
	Alternatives      []SearchResult            `json:"alternatives"`
	Chords            map[string][]ChordVariant `json:"chords"`
	FingersForStrings map[string][][]string     `json:"fingers_for_strings"`
}

func (s *SongDetail) String() string {
	return s.ArtistName + " - " + s.SongName
}

// CapoValue returns the capo fret, 0 when none.
func (s *SongDetail) CapoValue() int {
	if s.Capo == nil {
		return 0
	}
	return *s.Capo
}

// TabRecord is a stored tab together with its storage id.
type TabRecord struct {
	ID        string      `json:"id"`
	Detail    *SongDetail `json:"tab"`
	CreatedAt time.Time   `json:"created_at"`
}
