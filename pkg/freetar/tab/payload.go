package tab

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/himanishpuri/freetar/pkg/freetar/diagram"
)

// Payload is the scraped song document the assembler consumes.
type Payload struct {
	SongName        string                       `json:"song_name"`
	ArtistName      string                       `json:"artist_name"`
	Version         FlexInt                      `json:"version"`
	Type            string                       `json:"type"`
	Rating          FlexFloat                    `json:"rating"`
	Votes           FlexInt                      `json:"votes"`
	Difficulty      string                       `json:"difficulty"`
	Key             string                       `json:"key,omitempty"`
	TabURL          string                       `json:"tab_url"`
	TabBody         *string                      `json:"tab_body"`
	Capo            *FlexInt                     `json:"capo,omitempty"`
	Tuning          *Tuning                      `json:"tuning,omitempty"`
	Alternatives    []Alternative                `json:"alternatives,omitempty"`
	ChordFingerings map[string][]diagram.Variant `json:"chord_fingerings,omitempty"`
}

// Tuning is the raw tuning object, e.g. {"value":"E A D G B E","name":"Standard"}.
type Tuning struct {
	Value string `json:"value"`
	Name  string `json:"name"`
}

func (t *Tuning) String() string {
	return fmt.Sprintf("%s (%s)", t.Value, t.Name)
}

// Alternative is a raw listing of another version of the same song.
type Alternative struct {
	ArtistName string    `json:"artist_name"`
	SongName   string    `json:"song_name"`
	TabURL     string    `json:"tab_url"`
	ArtistURL  string    `json:"artist_url"`
	Type       string    `json:"type"`
	Version    FlexInt   `json:"version"`
	Votes      FlexInt   `json:"votes"`
	Rating     FlexFloat `json:"rating"`
}

// FlexInt accepts a JSON number, a numeric string or null.
type FlexInt int

func (n *FlexInt) UnmarshalJSON(data []byte) error {
	v, err := parseFlexNumber(data)
	if err != nil {
		return fmt.Errorf("integer field: %w", err)
	}
	*n = FlexInt(math.Trunc(v))
	return nil
}

// FlexFloat accepts a JSON number, a numeric string or null.
type FlexFloat float64

func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	v, err := parseFlexNumber(data)
	if err != nil {
		return fmt.Errorf("number field: %w", err)
	}
	*f = FlexFloat(v)
	return nil
}

func parseFlexNumber(data []byte) (float64, error) {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return 0, nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return 0, err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return 0, nil
		}
		return strconv.ParseFloat(s, 64)
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return 0, err
	}
	return v, nil
}
