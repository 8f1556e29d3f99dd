package tab

import (
	"bytes"
	"encoding/json"

	"github.com/himanishpuri/freetar/pkg/freetar/diagram"
	"github.com/himanishpuri/freetar/pkg/models"
)

// storeDoc mirrors the js-store document embedded in tab and search pages.
type storeDoc struct {
	Store struct {
		Page struct {
			Data storeData `json:"data"`
		} `json:"page"`
	} `json:"store"`
}

type storeData struct {
	Tab *struct {
		ArtistName   string    `json:"artist_name"`
		SongName     string    `json:"song_name"`
		Version      FlexInt   `json:"version"`
		Type         string    `json:"type"`
		Rating       FlexFloat `json:"rating"`
		Votes        FlexInt   `json:"votes"`
		TabURL       string    `json:"tab_url"`
		TonalityName string    `json:"tonality_name"`
	} `json:"tab"`
	TabView *struct {
		WikiTab *struct {
			Content *string `json:"content"`
		} `json:"wiki_tab"`
		Difficulty  string          `json:"ug_difficulty"`
		Applicature json.RawMessage `json:"applicature"`
		Meta        json.RawMessage `json:"meta"`
		Versions    []Alternative   `json:"versions"`
	} `json:"tab_view"`
	Results    []Alternative `json:"results"`
	Pagination *struct {
		Total   int `json:"total"`
		Current int `json:"current"`
	} `json:"pagination"`
}

type storeMeta struct {
	Capo   *FlexInt `json:"capo"`
	Tuning *Tuning  `json:"tuning"`
}

// SearchPage is one page of parsed search results.
type SearchPage struct {
	Results     []models.SearchResult `json:"results"`
	TotalPages  int                   `json:"total_pages"`
	CurrentPage int                   `json:"current_page"`
}

func decodeStore(data []byte) (*storeData, error) {
	var doc storeDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, models.WrapError(models.KindInvalidPayload, err, "decoding store document")
	}
	return &doc.Store.Page.Data, nil
}

// ParseStore maps a tab page store document onto a flat Payload.
func ParseStore(data []byte) (*Payload, error) {
	sd, err := decodeStore(data)
	if err != nil {
		return nil, err
	}
	if sd.Tab == nil || sd.TabView == nil {
		return nil, models.NewError(models.KindInvalidPayload, "store document has no tab data")
	}

	p := &Payload{
		SongName:     sd.Tab.SongName,
		ArtistName:   sd.Tab.ArtistName,
		Version:      sd.Tab.Version,
		Type:         sd.Tab.Type,
		Rating:       sd.Tab.Rating,
		Votes:        sd.Tab.Votes,
		Difficulty:   sd.TabView.Difficulty,
		Key:          sd.Tab.TonalityName,
		TabURL:       sd.Tab.TabURL,
		Alternatives: sd.TabView.Versions,
	}
	if sd.TabView.WikiTab != nil {
		p.TabBody = sd.TabView.WikiTab.Content
	}

	// meta and applicature arrive as [] when empty.
	if isObject(sd.TabView.Meta) {
		var meta storeMeta
		if err := json.Unmarshal(sd.TabView.Meta, &meta); err != nil {
			return nil, models.WrapError(models.KindInvalidPayload, err, "decoding tab meta")
		}
		p.Capo = meta.Capo
		p.Tuning = meta.Tuning
	}
	if isObject(sd.TabView.Applicature) {
		var fingerings map[string][]diagram.Variant
		if err := json.Unmarshal(sd.TabView.Applicature, &fingerings); err != nil {
			return nil, models.WrapError(models.KindInvalidPayload, err, "decoding applicature")
		}
		p.ChordFingerings = fingerings
	}
	return p, nil
}

// ParseSearchResults parses a search page store document. Pro and Official
// listings are dropped.
func ParseSearchResults(data []byte) (*SearchPage, error) {
	sd, err := decodeStore(data)
	if err != nil {
		return nil, err
	}
	if sd.Results == nil {
		return nil, models.NewError(models.KindDataNotFound, "store document has no search results")
	}
	page := &SearchPage{Results: make([]models.SearchResult, 0, len(sd.Results))}
	for _, r := range sd.Results {
		if r.Type == "" || r.Type == TypePro || r.Type == TypeOfficial {
			continue
		}
		page.Results = append(page.Results, r.SearchResult())
	}
	if sd.Pagination != nil {
		page.TotalPages = sd.Pagination.Total
		page.CurrentPage = sd.Pagination.Current
	}
	return page, nil
}

// Decode assembles either a store document or a flat payload, whichever
// data holds.
func Decode(data []byte) (*models.SongDetail, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, models.WrapError(models.KindInvalidPayload, err, "decoding tab payload")
	}
	if _, ok := top["store"]; ok {
		p, err := ParseStore(data)
		if err != nil {
			return nil, err
		}
		return Assemble(p)
	}
	return AssembleJSON(data)
}

func isObject(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '{'
}
