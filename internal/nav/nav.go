// Package nav holds the selection state of a puzzle session and the pure
// transitions that move it. Every function takes the prior state and returns
// the next one; none of them mutates its arguments.
package nav

import "github.com/bodul/xwplay/internal/puzzle"

// State is the selection: a cursor, the orientation preference and the word
// derived from both.
type State struct {
	Cursor      puzzle.Coord
	HasCursor   bool
	Orientation puzzle.Orientation
	Word        puzzle.Word
	HasWord     bool
}

// Empty is the state before any selection.
func Empty() State {
	return State{Orientation: puzzle.Across}
}

// Highlighted returns the cells of the active word, or only the cursor when
// no word is active. Nil when there is no cursor.
func (s State) Highlighted() []puzzle.Coord {
	if !s.HasCursor {
		return nil
	}
	if !s.HasWord {
		return []puzzle.Coord{s.Cursor}
	}
	return s.Word.Cells()
}

// SelectCell moves the cursor to (row, col). Blocked and out-of-bounds cells
// leave s unchanged. The preferred orientation is kept when it has a word at
// the cell, otherwise the other orientation is used if it has one.
func SelectCell(ix *puzzle.Index, s State, row, col int, preferred puzzle.Orientation) State {
	if !ix.IsOpen(row, col) {
		return s
	}
	if !preferred.Valid() {
		preferred = puzzle.Across
	}
	next := State{
		Cursor:      puzzle.Coord{Row: row, Col: col},
		HasCursor:   true,
		Orientation: preferred,
	}
	if w, ok := ix.WordAt(row, col, preferred); ok {
		next.Word, next.HasWord = w, true
		return next
	}
	if w, ok := ix.WordAt(row, col, preferred.Other()); ok {
		next.Orientation = preferred.Other()
		next.Word, next.HasWord = w, true
	}
	return next
}

// MoveInDirection steps the cursor by (dRow, dCol) without wrapping.
func MoveInDirection(ix *puzzle.Index, s State, dRow, dCol int) State {
	if !s.HasCursor {
		return s
	}
	return SelectCell(ix, s, s.Cursor.Row+dRow, s.Cursor.Col+dCol, s.Orientation)
}

// ToggleOrientation flips the preference at the cursor. When only one
// orientation has a word there it stays selected.
func ToggleOrientation(ix *puzzle.Index, s State) State {
	if !s.HasCursor {
		return s
	}
	return SelectCell(ix, s, s.Cursor.Row, s.Cursor.Col, s.Orientation.Other())
}

// AdvanceAfterInput moves one cell forward along the current orientation.
func AdvanceAfterInput(ix *puzzle.Index, s State) State {
	dr, dc := s.Orientation.Step()
	return MoveInDirection(ix, s, dr, dc)
}

// RetreatAfterDelete moves one cell backward along the current orientation.
func RetreatAfterDelete(ix *puzzle.Index, s State) State {
	dr, dc := s.Orientation.Step()
	return MoveInDirection(ix, s, -dr, -dc)
}

// SelectWordByLocator selects the start cell of a clue's word with its
// orientation preferred.
func SelectWordByLocator(ix *puzzle.Index, s State, row, col int, o puzzle.Orientation) State {
	return SelectCell(ix, s, row, col, o)
}

// SelectFirstWord selects the start of the lowest numbered word, across
// first. A puzzle without words yields Empty.
func SelectFirstWord(ix *puzzle.Index) State {
	words := ix.Puzzle().Words()
	if len(words) == 0 {
		return Empty()
	}
	w := words[0]
	return SelectCell(ix, Empty(), w.Row, w.Col, w.Orientation)
}
