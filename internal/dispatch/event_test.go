package dispatch_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bodul/xwplay/internal/dispatch"
	"github.com/bodul/xwplay/internal/puzzle"
)

func TestDecodeEvent(t *testing.T) {
	cases := map[string]dispatch.Event{
		`{"type":"cell-activated","row":1,"col":2}`:                                   dispatch.CellActivated{Row: 1, Col: 2},
		`{"type":"clue-activated","number":3,"orientation":"down","row":0,"col":4}`:   dispatch.ClueActivated{Number: 3, Orientation: puzzle.Down, Col: 4},
		`{"type":"character-typed","char":"q"}`:                                       dispatch.CharTyped{Char: "q"},
		`{"type":"delete-pressed"}`:                                                   dispatch.DeletePressed{},
		`{"type":"arrow-pressed","direction":"left"}`:                                 dispatch.ArrowPressed{Direction: dispatch.Left},
		`{"type":"orientation-toggle-pressed"}`:                                       dispatch.TogglePressed{},
		`{"type":"generate-requested","size":12}`:                                     dispatch.GenerateRequested{Size: 12},
		`{"type":"check-requested"}`:                                                  dispatch.CheckRequested{},
		`{"type":"reveal-requested"}`:                                                 dispatch.RevealRequested{},
		`{"type":"clear-requested"}`:                                                  dispatch.ClearRequested{},
		`{"type":"confirm-answered","token":"abc","accept":true}`:                     dispatch.ConfirmAnswered{Token: "abc", Accept: true},
	}
	for in, want := range cases {
		got, err := dispatch.DecodeEvent([]byte(in))
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestDecodeEventRejectsUnknown(t *testing.T) {
	for _, in := range []string{`{"type":"marks-expired"}`, `{"type":"generation-finished"}`, `{}`, `{"type":"dance"}`} {
		_, err := dispatch.DecodeEvent([]byte(in))
		assert.ErrorIs(t, err, dispatch.ErrUnknownEvent, in)
	}

	_, err := dispatch.DecodeEvent([]byte(`not json`))
	require.Error(t, err)
	assert.NotErrorIs(t, err, dispatch.ErrUnknownEvent)
}

func TestMarshalDirective(t *testing.T) {
	b, err := dispatch.MarshalDirective(dispatch.SetCellContent{Row: 1, Col: 2, Text: "A"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"set-cell-content","data":{"row":1,"col":2,"text":"A"}}`, string(b))

	b, err = dispatch.MarshalDirective(dispatch.ClearMarks{})
	require.NoError(t, err)

	var env struct {
		Type string          `json:"type"`
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(b, &env))
	assert.Equal(t, "clear-cell-marks", env.Type)
}
