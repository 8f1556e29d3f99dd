//go:build js && wasm
// +build js,wasm

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"syscall/js"

	"github.com/himanishpuri/freetar/pkg/freetar/chordpro"
	"github.com/himanishpuri/freetar/pkg/freetar/diagram"
	"github.com/himanishpuri/freetar/pkg/freetar/markup"
	"github.com/himanishpuri/freetar/pkg/freetar/notes"
	"github.com/himanishpuri/freetar/pkg/freetar/tab"
	"github.com/himanishpuri/freetar/pkg/freetar/transpose"
	"github.com/himanishpuri/freetar/pkg/models"
)

// Error codes returned to JavaScript
const (
	ErrorNone = iota
	ErrorInvalidArgs
	ErrorInvalidPayload
	ErrorProcessing
)

// fixTab converts raw tab text into display markup.
// Args: rawText. Returns: {error: number, data: string}
func fixTab(this js.Value, args []js.Value) any {
	if len(args) < 1 || args[0].Type() != js.TypeString {
		return makeErrorResponse(ErrorInvalidArgs, "Expected 1 argument: rawText")
	}
	return makeResponse(markup.FixTab(args[0].String()))
}

// transposeTab shifts the chord spans of display markup.
// Args: html, transpose, capo, useFlats. Returns: {error, data: string}
func transposeTab(this js.Value, args []js.Value) any {
	if len(args) < 3 || args[0].Type() != js.TypeString {
		return makeErrorResponse(ErrorInvalidArgs, "Expected arguments: html, transpose, capo[, useFlats]")
	}
	offset, err := offsetArgs(args[1], args[2])
	if err != nil {
		return makeErrorResponse(ErrorInvalidArgs, err.Error())
	}

	out, err := transpose.HTML(args[0].String(), offset, spellingArg(args, 3))
	if err != nil {
		return makeErrorResponse(ErrorProcessing, fmt.Sprintf("Failed to transpose: %v", err))
	}
	return makeResponse(out)
}

// assembleTab builds a song detail from a scraped payload or store document.
// Args: payloadJSON. Returns: {error, data: songDetailJSON}
func assembleTab(this js.Value, args []js.Value) any {
	if len(args) < 1 || args[0].Type() != js.TypeString {
		return makeErrorResponse(ErrorInvalidArgs, "Expected 1 argument: payloadJSON")
	}
	detail, err := tab.Decode([]byte(args[0].String()))
	if err != nil {
		return makeServiceError(err)
	}
	return makeJSONResponse(detail)
}

// toChordPro exports a song detail as ChordPro text.
// Args: songDetailJSON, transpose, capo, useFlats. Returns: {error, data: string}
func toChordPro(this js.Value, args []js.Value) any {
	if len(args) < 3 || args[0].Type() != js.TypeString {
		return makeErrorResponse(ErrorInvalidArgs, "Expected arguments: songDetailJSON, transpose, capo[, useFlats]")
	}
	var detail models.SongDetail
	if err := json.Unmarshal([]byte(args[0].String()), &detail); err != nil {
		return makeErrorResponse(ErrorInvalidPayload, fmt.Sprintf("Invalid song detail: %v", err))
	}
	offset, err := offsetArgs(args[1], args[2])
	if err != nil {
		return makeErrorResponse(ErrorInvalidArgs, err.Error())
	}

	text, err := chordpro.Encode(&detail, offset, spellingArg(args, 3))
	if err != nil {
		return makeServiceError(err)
	}
	result := js.Global().Get("Object").New()
	result.Set("error", ErrorNone)
	result.Set("data", text)
	result.Set("filename", chordpro.Filename(detail.ArtistName, detail.SongName))
	return result
}

// fromChordPro converts ChordPro text into display markup plus its parsed
// metadata and chords.
// Args: text. Returns: {error, data: {metadata, content, chords, html}}
func fromChordPro(this js.Value, args []js.Value) any {
	if len(args) < 1 || args[0].Type() != js.TypeString {
		return makeErrorResponse(ErrorInvalidArgs, "Expected 1 argument: text")
	}
	text := args[0].String()
	return makeJSONResponse(struct {
		*chordpro.Document
		HTML string `json:"html"`
	}{chordpro.Parse(text), chordpro.ToHTML(text)})
}

// chordDiagrams builds diagrams from raw fingerings.
// Args: applicatureJSON ({name: [{frets, fingers}]}). Returns: {error, data: {chords, fingers, text}}
func chordDiagrams(this js.Value, args []js.Value) any {
	if len(args) < 1 || args[0].Type() != js.TypeString {
		return makeErrorResponse(ErrorInvalidArgs, "Expected 1 argument: applicatureJSON")
	}
	var applicature map[string][]diagram.Variant
	if err := json.Unmarshal([]byte(args[0].String()), &applicature); err != nil {
		return makeErrorResponse(ErrorInvalidPayload, fmt.Sprintf("Invalid fingerings: %v", err))
	}

	chords, fingers := diagram.BuildAll(applicature)
	var text []string
	for _, name := range diagram.Names(chords) {
		for i, v := range chords[name] {
			text = append(text, diagram.Render(name, v, fingers[name][i]))
		}
	}
	return makeJSONResponse(map[string]any{
		"chords":  chords,
		"fingers": fingers,
		"text":    text,
	})
}

func offsetArgs(t, c js.Value) (int, error) {
	if t.Type() != js.TypeNumber || c.Type() != js.TypeNumber {
		return 0, errors.New("transpose and capo must be numbers")
	}
	return transpose.Effective(t.Int(), c.Int()), nil
}

func spellingArg(args []js.Value, i int) notes.Spelling {
	if len(args) > i && args[i].Type() == js.TypeBoolean && args[i].Bool() {
		return notes.Flats
	}
	return notes.Sharps
}

func makeResponse(data string) js.Value {
	result := js.Global().Get("Object").New()
	result.Set("error", ErrorNone)
	result.Set("data", data)
	return result
}

// makeJSONResponse returns v encoded as a JSON string; callers JSON.parse it.
func makeJSONResponse(v any) js.Value {
	data, err := json.Marshal(v)
	if err != nil {
		return makeErrorResponse(ErrorProcessing, fmt.Sprintf("Failed to encode result: %v", err))
	}
	return makeResponse(string(data))
}

func makeServiceError(err error) js.Value {
	if errors.Is(err, models.ErrInvalidPayload) || errors.Is(err, models.ErrDataNotFound) {
		return makeErrorResponse(ErrorInvalidPayload, err.Error())
	}
	return makeErrorResponse(ErrorProcessing, err.Error())
}

func makeErrorResponse(errorCode int, message string) js.Value {
	result := js.Global().Get("Object").New()
	result.Set("error", errorCode)
	result.Set("data", message)
	return result
}

func main() {
	console := js.Global().Get("console")
	if !console.IsUndefined() {
		console.Call("log", "🔧 freetar WASM module initializing...")
	}

	done := make(chan struct{})

	exports := map[string]func(js.Value, []js.Value) any{
		"freetarFixTab":        fixTab,
		"freetarTranspose":     transposeTab,
		"freetarAssemble":      assembleTab,
		"freetarToChordPro":    toChordPro,
		"freetarFromChordPro":  fromChordPro,
		"freetarChordDiagrams": chordDiagrams,
	}
	for name, fn := range exports {
		js.Global().Set(name, js.FuncOf(fn))
	}

	window := js.Global().Get("window")
	if !window.IsUndefined() {
		eventInit := js.Global().Get("Object").New()
		event := js.Global().Get("CustomEvent").New("wasmReady", eventInit)
		window.Call("dispatchEvent", event)
	} else if !console.IsUndefined() {
		console.Call("error", "❌ window object is undefined!")
	}

	if !console.IsUndefined() {
		console.Call("log", fmt.Sprintf("✅ freetar WASM module ready (%d functions)", len(exports)))
	}

	<-done
}
