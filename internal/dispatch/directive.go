package dispatch

import (
	"encoding/json"

	"github.com/bodul/xwplay/internal/puzzle"
	"github.com/bodul/xwplay/internal/verify"
)

// Directive is an instruction to a render surface.
type Directive interface {
	Type() string
}

type DrawGrid struct {
	Size     int                   `json:"size"`
	Blocked  []puzzle.Coord        `json:"blocked"`
	Numbered []puzzle.NumberedCell `json:"numbered"`
}

type DrawClues struct {
	Across []puzzle.Clue `json:"across"`
	Down   []puzzle.Clue `json:"down"`
}

// SetHighlight replaces the selected cell and highlighted cells. Selected is
// nil when nothing is selected.
type SetHighlight struct {
	Selected *puzzle.Coord  `json:"selected"`
	Cells    []puzzle.Coord `json:"cells"`
}

// SetClueActive marks one clue as active. Number 0 means none.
type SetClueActive struct {
	Number      int                `json:"number"`
	Orientation puzzle.Orientation `json:"orientation"`
}

type CellMark struct {
	Row  int         `json:"row"`
	Col  int         `json:"col"`
	Mark verify.Mark `json:"mark"`
}

// SetMarks shows check results. ClearAfterMS tells the surface when the
// marks will be withdrawn.
type SetMarks struct {
	Marks        []CellMark `json:"marks"`
	ClearAfterMS int64      `json:"clear_after_ms"`
}

type ClearMarks struct{}

type SetCellContent struct {
	Row  int    `json:"row"`
	Col  int    `json:"col"`
	Text string `json:"text"`
}

type ShowMessage struct {
	Text string `json:"text"`
}

// ConfirmGate asks the boundary a yes/no question. The answer comes back as
// ConfirmAnswered with the same Token.
type ConfirmGate struct {
	Token  string `json:"token"`
	Prompt string `json:"prompt"`
}

func (DrawGrid) Type() string       { return "draw-grid" }
func (DrawClues) Type() string      { return "draw-clue-list" }
func (SetHighlight) Type() string   { return "set-cell-highlight" }
func (SetClueActive) Type() string  { return "set-clue-active" }
func (SetMarks) Type() string       { return "set-cell-marks" }
func (ClearMarks) Type() string     { return "clear-cell-marks" }
func (SetCellContent) Type() string { return "set-cell-content" }
func (ShowMessage) Type() string    { return "show-message" }
func (ConfirmGate) Type() string    { return "confirm-gate" }

// MarshalDirective encodes d as {"type": ..., "data": ...}.
func MarshalDirective(d Directive) ([]byte, error) {
	return json.Marshal(struct {
		Type string    `json:"type"`
		Data Directive `json:"data"`
	}{d.Type(), d})
}
