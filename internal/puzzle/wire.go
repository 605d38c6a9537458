package puzzle

import "fmt"

// Grid sizes accepted by generation.
const (
	MinSize     = 3
	MaxSize     = 25
	DefaultSize = 10
)

// Request is the body of a generation request.
type Request struct {
	Size int `json:"size"`
}

// PlacedWord is a word as the generation service sends it.
type PlacedWord struct {
	Number      int    `json:"number"`
	Row         int    `json:"row"`
	Col         int    `json:"col"`
	Orientation string `json:"orientation"`
	Word        string `json:"word"`
}

// WireClues groups clue text by orientation, keyed by word number.
type WireClues struct {
	Across map[int]string `json:"across"`
	Down   map[int]string `json:"down"`
}

// Response is the body returned by the generation service.
// A grid value of 0 is a blocked cell; any other value is open.
type Response struct {
	Grid        [][]int      `json:"grid"`
	PlacedWords []PlacedWord `json:"placed_words"`
	Clues       WireClues    `json:"clues"`
}

// FromResponse validates a generation response and builds the puzzle.
func FromResponse(resp Response) (*Puzzle, error) {
	grid := make([][]CellKind, len(resp.Grid))
	for r, row := range resp.Grid {
		grid[r] = make([]CellKind, len(row))
		for c, v := range row {
			if v != 0 {
				grid[r][c] = Open
			}
		}
	}

	words := make([]Word, len(resp.PlacedWords))
	for i, pw := range resp.PlacedWords {
		o := Orientation(pw.Orientation)
		if !o.Valid() {
			return nil, fmt.Errorf("%w: placed word %d has orientation %q", ErrMalformed, i, pw.Orientation)
		}
		words[i] = Word{
			Number:      pw.Number,
			Row:         pw.Row,
			Col:         pw.Col,
			Orientation: o,
			Text:        pw.Word,
		}
	}

	return New(grid, words, Clues{Across: resp.Clues.Across, Down: resp.Clues.Down})
}

// ToResponse encodes a puzzle in the generation service format.
func ToResponse(p *Puzzle) Response {
	resp := Response{
		Grid:        make([][]int, p.size),
		PlacedWords: make([]PlacedWord, 0, len(p.words)),
		Clues:       WireClues{Across: map[int]string{}, Down: map[int]string{}},
	}
	for r := range p.size {
		resp.Grid[r] = make([]int, p.size)
		for c := range p.size {
			if p.grid[r][c] == Open {
				resp.Grid[r][c] = 1
			}
		}
	}
	for _, w := range p.words {
		resp.PlacedWords = append(resp.PlacedWords, PlacedWord{
			Number:      w.Number,
			Row:         w.Row,
			Col:         w.Col,
			Orientation: string(w.Orientation),
			Word:        w.Text,
		})
	}
	for num, text := range p.clues[Across] {
		resp.Clues.Across[num] = text
	}
	for num, text := range p.clues[Down] {
		resp.Clues.Down[num] = text
	}
	return resp
}
