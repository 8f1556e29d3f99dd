package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChordVariantJSONKeepsFretOrder(t *testing.T) {
	v := ChordVariant{
		{Fret: 9, Pressed: [6]int{0, 0, 0, 1, 0, 0}},
		{Fret: 10, Pressed: [6]int{1, 0, 0, 0, 0, 0}},
	}
	data, err := json.Marshal(v)
	require.NoError(t, err)
	assert.JSONEq(t, `{"9":[0,0,0,1,0,0],"10":[1,0,0,0,0,0]}`, string(data))
	assert.Equal(t, `{"9":[0,0,0,1,0,0],"10":[1,0,0,0,0,0]}`, string(data))

	var back ChordVariant
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, v, back)
}

func TestChordVariantRejectsBadKey(t *testing.T) {
	var v ChordVariant
	err := json.Unmarshal([]byte(`{"x":[0,0,0,0,0,0]}`), &v)
	assert.Error(t, err)
}

func TestErrorIs(t *testing.T) {
	err := fmt.Errorf("import: %w", NewError(KindDataNotFound, "no tab body in payload"))
	assert.True(t, errors.Is(err, ErrDataNotFound))
	assert.False(t, errors.Is(err, ErrInvalidPayload))
	assert.Equal(t, "import: no tab body in payload", err.Error())

	cause := errors.New("boom")
	wrapped := WrapError(KindInvalidPayload, cause, "decoding payload")
	assert.ErrorIs(t, wrapped, cause)
	assert.Equal(t, "decoding payload: boom", wrapped.Error())
}

func TestSearchResultString(t *testing.T) {
	r := SearchResult{ArtistName: "Rise Against", SongName: "Swing Life Away", Type: "Chords", Version: 1, Votes: 120, Rating: 4.8}
	assert.Equal(t, "Rise Against - Swing Life Away (ver 1) (Chords 4.8/5 - 120 votes)", r.String())
}
