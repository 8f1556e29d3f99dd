// Package tab assembles scraped song payloads into models.SongDetail.
package tab

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/himanishpuri/freetar/pkg/freetar/diagram"
	"github.com/himanishpuri/freetar/pkg/freetar/markup"
	"github.com/himanishpuri/freetar/pkg/models"
	"github.com/himanishpuri/freetar/pkg/utils"
)

// Types never listed as search results or alternatives.
const (
	TypeOfficial = "Official"
	TypePro      = "Pro"
)

// Assemble validates p and builds the canonical SongDetail from it.
func Assemble(p *Payload) (*models.SongDetail, error) {
	if p == nil || p.TabBody == nil {
		return nil, models.NewError(models.KindDataNotFound, "no tab body in payload")
	}
	if strings.TrimSpace(p.SongName) == "" {
		return nil, models.NewError(models.KindInvalidPayload, "payload is missing song_name")
	}
	if strings.TrimSpace(p.ArtistName) == "" {
		return nil, models.NewError(models.KindInvalidPayload, "payload is missing artist_name")
	}

	detail := &models.SongDetail{
		Tab:          markup.FixTab(*p.TabBody),
		ArtistName:   p.ArtistName,
		SongName:     p.SongName,
		Version:      int(p.Version),
		Type:         p.Type,
		Rating:       RoundRating(float64(p.Rating)),
		Votes:        int(p.Votes),
		Difficulty:   p.Difficulty,
		Key:          strings.TrimSpace(p.Key),
		TabURL:       utils.URLPath(p.TabURL),
		Alternatives: Alternatives(p.Alternatives),
	}
	if p.Capo != nil && *p.Capo > 0 {
		capo := int(*p.Capo)
		detail.Capo = &capo
	}
	if p.Tuning != nil && (p.Tuning.Value != "" || p.Tuning.Name != "") {
		tuning := p.Tuning.String()
		detail.Tuning = &tuning
	}
	detail.Chords, detail.FingersForStrings = diagram.BuildAll(p.ChordFingerings)
	return detail, nil
}

// AssembleJSON decodes a flat payload document and assembles it.
func AssembleJSON(data []byte) (*models.SongDetail, error) {
	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, models.WrapError(models.KindInvalidPayload, err, "decoding tab payload")
	}
	return Assemble(&p)
}

// Alternatives converts raw alternative listings, dropping Official ones
// and entries without a type.
func Alternatives(raw []Alternative) []models.SearchResult {
	out := make([]models.SearchResult, 0, len(raw))
	for _, a := range raw {
		if a.Type == "" || a.Type == TypeOfficial {
			continue
		}
		out = append(out, a.SearchResult())
	}
	return out
}

// SearchResult converts a single raw listing.
func (a Alternative) SearchResult() models.SearchResult {
	return models.SearchResult{
		ArtistName: a.ArtistName,
		SongName:   a.SongName,
		TabURL:     utils.URLPath(a.TabURL),
		ArtistURL:  a.ArtistURL,
		Type:       a.Type,
		Version:    int(a.Version),
		Votes:      int(a.Votes),
		Rating:     RoundRating(float64(a.Rating)),
	}
}

// RoundRating rounds a rating to one decimal place.
func RoundRating(r float64) float64 {
	return math.Round(r*10) / 10
}
