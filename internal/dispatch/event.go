package dispatch

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/bodul/xwplay/internal/puzzle"
)

// ErrUnknownEvent is returned by DecodeEvent for a missing or unsupported type.
var ErrUnknownEvent = errors.New("unknown event type")

// Event is an input to the Dispatcher.
type Event interface {
	Name() string
}

// CellActivated is a click or tap on a cell.
type CellActivated struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// ClueActivated is a click on a clue list entry.
type ClueActivated struct {
	Number      int                `json:"number"`
	Orientation puzzle.Orientation `json:"orientation"`
	Row         int                `json:"row"`
	Col         int                `json:"col"`
}

// CharTyped is a printable key. Only single letters are acted on.
type CharTyped struct {
	Char string `json:"char"`
}

type DeletePressed struct{}

// Direction names an arrow key.
type Direction string

const (
	Up    Direction = "up"
	Down  Direction = "down"
	Left  Direction = "left"
	Right Direction = "right"
)

// Delta returns the unit move for d, or ok=false for an unknown direction.
func (d Direction) Delta() (dRow, dCol int, ok bool) {
	switch d {
	case Up:
		return -1, 0, true
	case Down:
		return 1, 0, true
	case Left:
		return 0, -1, true
	case Right:
		return 0, 1, true
	}
	return 0, 0, false
}

type ArrowPressed struct {
	Direction Direction `json:"direction"`
}

type TogglePressed struct{}

// GenerateRequested asks for a new puzzle. Size 0 means the default size.
type GenerateRequested struct {
	Size int `json:"size"`
}

type CheckRequested struct{}

type RevealRequested struct{}

type ClearRequested struct{}

// ConfirmAnswered is the boundary's answer to a ConfirmGate directive.
type ConfirmAnswered struct {
	Token  string `json:"token"`
	Accept bool   `json:"accept"`
}

// GenerationFinished carries the outcome of the generation started with Seq.
type GenerationFinished struct {
	Seq    uint64
	Puzzle *puzzle.Puzzle
	Err    error
}

// MarksExpired is posted by the timer scheduled after a check.
type MarksExpired struct{}

func (CellActivated) Name() string      { return "cell-activated" }
func (ClueActivated) Name() string      { return "clue-activated" }
func (CharTyped) Name() string          { return "character-typed" }
func (DeletePressed) Name() string      { return "delete-pressed" }
func (ArrowPressed) Name() string       { return "arrow-pressed" }
func (TogglePressed) Name() string      { return "orientation-toggle-pressed" }
func (GenerateRequested) Name() string  { return "generate-requested" }
func (CheckRequested) Name() string     { return "check-requested" }
func (RevealRequested) Name() string    { return "reveal-requested" }
func (ClearRequested) Name() string     { return "clear-requested" }
func (ConfirmAnswered) Name() string    { return "confirm-answered" }
func (GenerationFinished) Name() string { return "generation-finished" }
func (MarksExpired) Name() string       { return "marks-expired" }

// decoders lists the events a client may send. GenerationFinished and
// MarksExpired are produced internally only.
var decoders = map[string]func() Event{
	"cell-activated":             func() Event { return &CellActivated{} },
	"clue-activated":             func() Event { return &ClueActivated{} },
	"character-typed":            func() Event { return &CharTyped{} },
	"delete-pressed":             func() Event { return &DeletePressed{} },
	"arrow-pressed":              func() Event { return &ArrowPressed{} },
	"orientation-toggle-pressed": func() Event { return &TogglePressed{} },
	"generate-requested":         func() Event { return &GenerateRequested{} },
	"check-requested":            func() Event { return &CheckRequested{} },
	"reveal-requested":           func() Event { return &RevealRequested{} },
	"clear-requested":            func() Event { return &ClearRequested{} },
	"confirm-answered":           func() Event { return &ConfirmAnswered{} },
}

// DecodeEvent parses a flat JSON event such as {"type":"cell-activated","row":1,"col":2}.
func DecodeEvent(data []byte) (Event, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("decode event: %w", err)
	}
	mk, ok := decoders[head.Type]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEvent, head.Type)
	}
	ev := mk()
	if err := json.Unmarshal(data, ev); err != nil {
		return nil, fmt.Errorf("decode %s: %w", head.Type, err)
	}
	return deref(ev), nil
}

func deref(ev Event) Event {
	switch e := ev.(type) {
	case *CellActivated:
		return *e
	case *ClueActivated:
		return *e
	case *CharTyped:
		return *e
	case *DeletePressed:
		return *e
	case *ArrowPressed:
		return *e
	case *TogglePressed:
		return *e
	case *GenerateRequested:
		return *e
	case *CheckRequested:
		return *e
	case *RevealRequested:
		return *e
	case *ClearRequested:
		return *e
	case *ConfirmAnswered:
		return *e
	}
	return ev
}
