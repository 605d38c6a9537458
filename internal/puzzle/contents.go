package puzzle

// Contents holds the letters the player has entered, one string per cell.
// Unlike Puzzle it is mutable and owned by a single dispatcher.
type Contents struct {
	cells [][]string
}

// NewContents returns an empty n×n contents grid.
func NewContents(n int) Contents {
	cells := make([][]string, n)
	for i := range cells {
		cells[i] = make([]string, n)
	}
	return Contents{cells: cells}
}

// Get returns the content of a cell, "" when empty or out of bounds.
func (c Contents) Get(row, col int) string {
	if !c.inBounds(row, col) {
		return ""
	}
	return c.cells[row][col]
}

// Set writes a cell. Returns false if out of bounds.
func (c Contents) Set(row, col int, value string) bool {
	if !c.inBounds(row, col) {
		return false
	}
	c.cells[row][col] = value
	return true
}

// Clone returns an independent copy.
func (c Contents) Clone() Contents {
	cp := make([][]string, len(c.cells))
	for i, row := range c.cells {
		cp[i] = make([]string, len(row))
		copy(cp[i], row)
	}
	return Contents{cells: cp}
}

// Rows returns a copy of the grid as nested slices.
func (c Contents) Rows() [][]string {
	return c.Clone().cells
}

// Size returns the grid dimension.
func (c Contents) Size() int { return len(c.cells) }

func (c Contents) inBounds(row, col int) bool {
	return row >= 0 && row < len(c.cells) && col >= 0 && col < len(c.cells[row])
}
