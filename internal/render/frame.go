// Package render accumulates render directives into the state a surface
// would be showing.
package render

import (
	"sort"

	"github.com/bodul/xwplay/internal/dispatch"
	"github.com/bodul/xwplay/internal/puzzle"
	"github.com/bodul/xwplay/internal/verify"
)

// Frame is what a surface holds after applying every directive so far.
// It is not safe for concurrent use.
type Frame struct {
	size     int
	blocked  map[puzzle.Coord]bool
	numbered []puzzle.NumberedCell
	clues    dispatch.DrawClues
	contents puzzle.Contents

	selected    *puzzle.Coord
	highlighted map[puzzle.Coord]bool
	highlight   dispatch.SetHighlight
	active      dispatch.SetClueActive

	marks        map[puzzle.Coord]verify.Mark
	marksPayload dispatch.SetMarks
	message      string
	gate         *dispatch.ConfirmGate
}

// NewFrame returns an empty frame.
func NewFrame() *Frame {
	return &Frame{
		blocked:     map[puzzle.Coord]bool{},
		highlighted: map[puzzle.Coord]bool{},
		marks:       map[puzzle.Coord]verify.Mark{},
	}
}

// Apply updates the frame with one directive.
func (f *Frame) Apply(d dispatch.Directive) {
	switch d := d.(type) {
	case dispatch.DrawGrid:
		f.size = d.Size
		f.blocked = make(map[puzzle.Coord]bool, len(d.Blocked))
		for _, c := range d.Blocked {
			f.blocked[c] = true
		}
		f.numbered = append([]puzzle.NumberedCell(nil), d.Numbered...)
		f.contents = puzzle.NewContents(d.Size)
		f.clues = dispatch.DrawClues{}
		f.selected = nil
		f.highlighted = map[puzzle.Coord]bool{}
		f.highlight = dispatch.SetHighlight{}
		f.active = dispatch.SetClueActive{}
		f.clearMarks()
		f.gate = nil
	case dispatch.DrawClues:
		f.clues = d
	case dispatch.SetHighlight:
		f.highlight = d
		f.selected = d.Selected
		f.highlighted = make(map[puzzle.Coord]bool, len(d.Cells))
		for _, c := range d.Cells {
			f.highlighted[c] = true
		}
	case dispatch.SetClueActive:
		f.active = d
	case dispatch.SetMarks:
		f.marksPayload = d
		f.marks = make(map[puzzle.Coord]verify.Mark, len(d.Marks))
		for _, m := range d.Marks {
			f.marks[puzzle.Coord{Row: m.Row, Col: m.Col}] = m.Mark
		}
	case dispatch.ClearMarks:
		f.clearMarks()
	case dispatch.SetCellContent:
		f.contents.Set(d.Row, d.Col, d.Text)
	case dispatch.ShowMessage:
		f.message = d.Text
	case dispatch.ConfirmGate:
		g := d
		f.gate = &g
	}
}

func (f *Frame) clearMarks() {
	f.marks = map[puzzle.Coord]verify.Mark{}
	f.marksPayload = dispatch.SetMarks{}
}

// ResolveGate forgets the shown confirm prompt once it has been answered.
func (f *Frame) ResolveGate(token string) {
	if f.gate != nil && f.gate.Token == token {
		f.gate = nil
	}
}

// Size returns the grid dimension, 0 before a grid is drawn.
func (f *Frame) Size() int { return f.size }

// Blocked reports whether a cell is drawn as blocked.
func (f *Frame) Blocked(row, col int) bool { return f.blocked[puzzle.Coord{Row: row, Col: col}] }

// Content returns the letter shown in a cell.
func (f *Frame) Content(row, col int) string { return f.contents.Get(row, col) }

// Selected reports whether (row, col) is the cursor.
func (f *Frame) Selected(row, col int) bool {
	return f.selected != nil && *f.selected == puzzle.Coord{Row: row, Col: col}
}

// Highlighted reports whether (row, col) is part of the active word.
func (f *Frame) Highlighted(row, col int) bool { return f.highlighted[puzzle.Coord{Row: row, Col: col}] }

// Mark returns the check mark of a cell, "" when unmarked.
func (f *Frame) Mark(row, col int) verify.Mark { return f.marks[puzzle.Coord{Row: row, Col: col}] }

// Number returns the number drawn in a cell, 0 when none.
func (f *Frame) Number(row, col int) int {
	for _, n := range f.numbered {
		if n.Row == row && n.Col == col {
			return n.Number
		}
	}
	return 0
}

// Clues returns the clue list of one orientation.
func (f *Frame) Clues(o puzzle.Orientation) []puzzle.Clue {
	if o == puzzle.Down {
		return f.clues.Down
	}
	return f.clues.Across
}

// ActiveClue returns the active clue, ok=false when none.
func (f *Frame) ActiveClue() (number int, o puzzle.Orientation, ok bool) {
	return f.active.Number, f.active.Orientation, f.active.Number > 0
}

// Message returns the last message.
func (f *Frame) Message() string { return f.message }

// Gate returns the confirm prompt awaiting an answer.
func (f *Frame) Gate() (dispatch.ConfirmGate, bool) {
	if f.gate == nil {
		return dispatch.ConfirmGate{}, false
	}
	return *f.gate, true
}

// State is a JSON snapshot of a frame.
type State struct {
	Size        int                     `json:"size"`
	Blocked     []puzzle.Coord          `json:"blocked"`
	Numbered    []puzzle.NumberedCell   `json:"numbered"`
	Clues       dispatch.DrawClues      `json:"clues"`
	Contents    [][]string              `json:"contents"`
	Selected    *puzzle.Coord           `json:"selected"`
	Highlighted []puzzle.Coord          `json:"highlighted"`
	ActiveClue  *dispatch.SetClueActive `json:"active_clue"`
	Marks       []dispatch.CellMark     `json:"marks"`
	Message     string                  `json:"message"`
	Confirm     *dispatch.ConfirmGate   `json:"confirm"`
}

// Snapshot copies the frame into a State.
func (f *Frame) Snapshot() State {
	s := State{
		Size:        f.size,
		Blocked:     f.sortedBlocked(),
		Numbered:    append([]puzzle.NumberedCell(nil), f.numbered...),
		Clues:       f.clues,
		Contents:    f.contents.Rows(),
		Highlighted: append([]puzzle.Coord(nil), f.highlight.Cells...),
		Marks:       append([]dispatch.CellMark(nil), f.marksPayload.Marks...),
		Message:     f.message,
	}
	if f.selected != nil {
		c := *f.selected
		s.Selected = &c
	}
	if f.active.Number > 0 {
		a := f.active
		s.ActiveClue = &a
	}
	if f.gate != nil {
		g := *f.gate
		s.Confirm = &g
	}
	return s
}

func (f *Frame) sortedBlocked() []puzzle.Coord {
	out := make([]puzzle.Coord, 0, len(f.blocked))
	for c := range f.blocked {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Row != out[j].Row {
			return out[i].Row < out[j].Row
		}
		return out[i].Col < out[j].Col
	})
	return out
}

// Replay returns directives that rebuild this frame on a fresh surface.
func (f *Frame) Replay() []dispatch.Directive {
	if f.size == 0 {
		if f.message == "" {
			return nil
		}
		return []dispatch.Directive{dispatch.ShowMessage{Text: f.message}}
	}
	out := []dispatch.Directive{
		dispatch.DrawGrid{Size: f.size, Blocked: f.sortedBlocked(), Numbered: append([]puzzle.NumberedCell(nil), f.numbered...)},
		f.clues,
	}
	for r := range f.size {
		for c := range f.size {
			if v := f.contents.Get(r, c); v != "" {
				out = append(out, dispatch.SetCellContent{Row: r, Col: c, Text: v})
			}
		}
	}
	out = append(out, f.highlight, f.active)
	if len(f.marks) > 0 {
		out = append(out, f.marksPayload)
	}
	if f.message != "" {
		out = append(out, dispatch.ShowMessage{Text: f.message})
	}
	if f.gate != nil {
		out = append(out, *f.gate)
	}
	return out
}
