package puzzle

// Index answers which words pass through a cell. It is built once per
// puzzle and is read-only afterwards.
type Index struct {
	p *Puzzle
	// across and down hold a position in p.words, or -1.
	across [][]int
	down   [][]int
}

// BuildIndex records, for every open cell, the across and down word covering it.
// When two words of one orientation share a cell the earlier word keeps it.
func BuildIndex(p *Puzzle) *Index {
	ix := &Index{
		p:      p,
		across: emptyLayer(p.size),
		down:   emptyLayer(p.size),
	}
	for i, w := range p.words {
		layer := ix.layer(w.Orientation)
		for _, c := range w.Cells() {
			if !p.InBounds(c.Row, c.Col) {
				continue
			}
			if layer[c.Row][c.Col] < 0 {
				layer[c.Row][c.Col] = i
			}
		}
	}
	return ix
}

func emptyLayer(n int) [][]int {
	layer := make([][]int, n)
	for r := range layer {
		layer[r] = make([]int, n)
		for c := range layer[r] {
			layer[r][c] = -1
		}
	}
	return layer
}

func (ix *Index) layer(o Orientation) [][]int {
	if o == Down {
		return ix.down
	}
	return ix.across
}

// Puzzle returns the indexed puzzle.
func (ix *Index) Puzzle() *Puzzle { return ix.p }

// Size returns the grid dimension.
func (ix *Index) Size() int { return ix.p.size }

// InBounds reports whether (row, col) lies inside the grid.
func (ix *Index) InBounds(row, col int) bool { return ix.p.InBounds(row, col) }

// IsOpen reports whether (row, col) is an open cell inside the grid.
func (ix *Index) IsOpen(row, col int) bool { return ix.p.Kind(row, col) == Open }

// WordAt returns the word of orientation o covering (row, col).
func (ix *Index) WordAt(row, col int, o Orientation) (Word, bool) {
	if !ix.p.InBounds(row, col) || !o.Valid() {
		return Word{}, false
	}
	i := ix.layer(o)[row][col]
	if i < 0 {
		return Word{}, false
	}
	return ix.p.words[i], true
}
