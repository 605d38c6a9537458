package generate

import "github.com/bodul/xwplay/internal/puzzle"

// board holds placed letters; 0 is an empty cell.
type board struct {
	n     int
	cells [][]byte
}

func newBoard(n int) *board {
	cells := make([][]byte, n)
	for i := range cells {
		cells[i] = make([]byte, n)
	}
	return &board{n: n, cells: cells}
}

func (b *board) at(r, c int) byte {
	if r < 0 || r >= b.n || c < 0 || c >= b.n {
		return 0
	}
	return b.cells[r][c]
}

// fits reports whether word can start at (row, col). word is uppercase
// and already known to fit inside the board.
func (b *board) fits(word string, row, col int, o puzzle.Orientation, first bool) bool {
	dr, dc := o.Step()
	crossings := 0
	for i := 0; i < len(word); i++ {
		r, c := row+i*dr, col+i*dc
		cur := b.cells[r][c]
		if cur != 0 && cur != word[i] {
			return false
		}
		if cur == word[i] {
			crossings++
		}
	}
	if b.at(row-dr, col-dc) != 0 {
		return false
	}
	last := len(word) - 1
	if b.at(row+(last+1)*dr, col+(last+1)*dc) != 0 {
		return false
	}
	return first || crossings > 0
}

func (b *board) write(word string, row, col int, o puzzle.Orientation) {
	dr, dc := o.Step()
	for i := 0; i < len(word); i++ {
		b.cells[row+i*dr][col+i*dc] = word[i]
	}
}

// wire renders the board as 1 for letters and 0 for empty cells.
func (b *board) wire() [][]int {
	out := make([][]int, b.n)
	for r := range out {
		out[r] = make([]int, b.n)
		for c := range out[r] {
			if b.cells[r][c] != 0 {
				out[r][c] = 1
			}
		}
	}
	return out
}
