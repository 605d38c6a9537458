package puzzle

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrMalformed is wrapped by every validation failure in New.
var ErrMalformed = errors.New("malformed puzzle")

// Orientation is the direction a word runs.
type Orientation string

const (
	Across Orientation = "across"
	Down   Orientation = "down"
)

// Valid reports whether o is across or down.
func (o Orientation) Valid() bool {
	return o == Across || o == Down
}

// Other returns the opposite orientation.
func (o Orientation) Other() Orientation {
	if o == Down {
		return Across
	}
	return Down
}

// Step returns the unit delta for moving forward along o.
func (o Orientation) Step() (dRow, dCol int) {
	if o == Down {
		return 1, 0
	}
	return 0, 1
}

// CellKind tells blocked cells from open ones.
type CellKind int

const (
	Blocked CellKind = iota
	Open
)

// Coord identifies a cell.
type Coord struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Word is a placed answer.
type Word struct {
	Number      int         `json:"number"`
	Row         int         `json:"row"`
	Col         int         `json:"col"`
	Orientation Orientation `json:"orientation"`
	Text        string      `json:"word"`
}

// Len returns the number of letters.
func (w Word) Len() int {
	return len([]rune(w.Text))
}

// Solution returns the uppercase answer.
func (w Word) Solution() string {
	return strings.ToUpper(w.Text)
}

// Cells returns the coordinates covered by the word, first letter first.
func (w Word) Cells() []Coord {
	dr, dc := w.Orientation.Step()
	n := w.Len()
	cells := make([]Coord, n)
	for i := range n {
		cells[i] = Coord{Row: w.Row + i*dr, Col: w.Col + i*dc}
	}
	return cells
}

// Clue is one entry of a clue list.
type Clue struct {
	Number      int         `json:"number"`
	Orientation Orientation `json:"orientation"`
	Row         int         `json:"row"`
	Col         int         `json:"col"`
	Text        string      `json:"text"`
}

// Clues maps an orientation and a word number to clue text.
type Clues map[Orientation]map[int]string

// Puzzle is one generated crossword. It is never modified after New.
type Puzzle struct {
	size    int
	grid    [][]CellKind
	words   []Word
	clues   Clues
	numbers map[Coord]int
}

// New validates the parts of a puzzle and assembles it.
func New(grid [][]CellKind, words []Word, clues Clues) (*Puzzle, error) {
	n := len(grid)
	if n == 0 {
		return nil, fmt.Errorf("%w: empty grid", ErrMalformed)
	}
	g := make([][]CellKind, n)
	for r, row := range grid {
		if len(row) != n {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrMalformed, r, len(row), n)
		}
		g[r] = append([]CellKind(nil), row...)
	}

	ws := make([]Word, len(words))
	for i, w := range words {
		if err := checkWord(g, w); err != nil {
			return nil, err
		}
		ws[i] = w
	}
	sort.SliceStable(ws, func(i, j int) bool {
		if ws[i].Number != ws[j].Number {
			return ws[i].Number < ws[j].Number
		}
		return ws[i].Orientation == Across && ws[j].Orientation == Down
	})

	cl := Clues{Across: {}, Down: {}}
	for o, m := range clues {
		if !o.Valid() {
			continue
		}
		for num, text := range m {
			cl[o][num] = text
		}
	}

	p := &Puzzle{size: n, grid: g, words: ws, clues: cl, numbers: make(map[Coord]int)}
	for _, w := range ws {
		start := Coord{Row: w.Row, Col: w.Col}
		if cur, ok := p.numbers[start]; !ok || w.Number < cur {
			p.numbers[start] = w.Number
		}
	}
	return p, nil
}

func checkWord(grid [][]CellKind, w Word) error {
	if w.Number <= 0 {
		return fmt.Errorf("%w: word %q has number %d", ErrMalformed, w.Text, w.Number)
	}
	if !w.Orientation.Valid() {
		return fmt.Errorf("%w: word %q has orientation %q", ErrMalformed, w.Text, w.Orientation)
	}
	if w.Text == "" {
		return fmt.Errorf("%w: word %d %s is empty", ErrMalformed, w.Number, w.Orientation)
	}
	for _, r := range w.Text {
		if !isLetter(r) {
			return fmt.Errorf("%w: word %q contains %q", ErrMalformed, w.Text, r)
		}
	}
	n := len(grid)
	for _, c := range w.Cells() {
		if c.Row < 0 || c.Row >= n || c.Col < 0 || c.Col >= n {
			return fmt.Errorf("%w: word %q leaves the grid at (%d,%d)", ErrMalformed, w.Text, c.Row, c.Col)
		}
		if grid[c.Row][c.Col] != Open {
			return fmt.Errorf("%w: word %q covers blocked cell (%d,%d)", ErrMalformed, w.Text, c.Row, c.Col)
		}
	}
	return nil
}

func isLetter(r rune) bool {
	return r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z'
}

// Size returns N for an N×N grid.
func (p *Puzzle) Size() int { return p.size }

// InBounds reports whether (row, col) lies inside the grid.
func (p *Puzzle) InBounds(row, col int) bool {
	return row >= 0 && row < p.size && col >= 0 && col < p.size
}

// Kind returns the kind of a cell; out-of-bounds cells read as blocked.
func (p *Puzzle) Kind(row, col int) CellKind {
	if !p.InBounds(row, col) {
		return Blocked
	}
	return p.grid[row][col]
}

// Words returns the placed words ordered by number, across before down.
func (p *Puzzle) Words() []Word {
	return append([]Word(nil), p.words...)
}

// Number returns the number displayed at a cell, or 0.
func (p *Puzzle) Number(row, col int) int {
	return p.numbers[Coord{Row: row, Col: col}]
}

// ClueText returns the clue for a word number, or "".
func (p *Puzzle) ClueText(o Orientation, number int) string {
	return p.clues[o][number]
}

// Clues returns the clue list of one orientation ordered by number.
func (p *Puzzle) Clues(o Orientation) []Clue {
	var out []Clue
	for _, w := range p.words {
		if w.Orientation != o {
			continue
		}
		out = append(out, Clue{
			Number:      w.Number,
			Orientation: o,
			Row:         w.Row,
			Col:         w.Col,
			Text:        p.clues[o][w.Number],
		})
	}
	return out
}

// Blocked returns every blocked cell in row-major order.
func (p *Puzzle) Blocked() []Coord {
	var out []Coord
	for r := range p.size {
		for c := range p.size {
			if p.grid[r][c] == Blocked {
				out = append(out, Coord{Row: r, Col: c})
			}
		}
	}
	return out
}

// NumberedCell is a cell carrying a displayed number.
type NumberedCell struct {
	Coord
	Number int `json:"number"`
}

// Numbered returns the numbered cells in row-major order.
func (p *Puzzle) Numbered() []NumberedCell {
	out := make([]NumberedCell, 0, len(p.numbers))
	for c, n := range p.numbers {
		out = append(out, NumberedCell{Coord: c, Number: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Row != out[j].Row {
			return out[i].Row < out[j].Row
		}
		return out[i].Col < out[j].Col
	})
	return out
}
