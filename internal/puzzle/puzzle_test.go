package puzzle_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bodul/xwplay/internal/puzzle"
	"github.com/bodul/xwplay/internal/puzzle/puzzletest"
)

func TestNewOrdersWordsByNumberAcrossFirst(t *testing.T) {
	p, err := puzzle.New(
		puzzletest.Layout("...", "...", "..."),
		[]puzzle.Word{
			{Number: 2, Row: 1, Col: 0, Orientation: puzzle.Across, Text: "ABC"},
			{Number: 1, Row: 0, Col: 0, Orientation: puzzle.Down, Text: "XYZ"},
			{Number: 1, Row: 0, Col: 0, Orientation: puzzle.Across, Text: "XOX"},
		},
		nil,
	)
	require.NoError(t, err)

	words := p.Words()
	require.Len(t, words, 3)
	assert.Equal(t, "XOX", words[0].Text)
	assert.Equal(t, "XYZ", words[1].Text)
	assert.Equal(t, "ABC", words[2].Text)
}

func TestNewRejectsMalformed(t *testing.T) {
	grid := puzzletest.Layout("..#", "...", "...")
	cases := map[string][]puzzle.Word{
		"out of bounds":   {{Number: 1, Row: 1, Col: 1, Orientation: puzzle.Across, Text: "ABC"}},
		"blocked cell":    {{Number: 1, Row: 0, Col: 0, Orientation: puzzle.Across, Text: "ABC"}},
		"empty text":      {{Number: 1, Row: 0, Col: 0, Orientation: puzzle.Across, Text: ""}},
		"non letter":      {{Number: 1, Row: 1, Col: 0, Orientation: puzzle.Across, Text: "A1C"}},
		"zero number":     {{Number: 0, Row: 1, Col: 0, Orientation: puzzle.Across, Text: "ABC"}},
		"bad orientation": {{Number: 1, Row: 1, Col: 0, Orientation: "diagonal", Text: "ABC"}},
		"negative start":  {{Number: 1, Row: -1, Col: 0, Orientation: puzzle.Down, Text: "AB"}},
	}
	for name, words := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := puzzle.New(grid, words, nil)
			require.ErrorIs(t, err, puzzle.ErrMalformed)
		})
	}

	_, err := puzzle.New(nil, nil, nil)
	require.ErrorIs(t, err, puzzle.ErrMalformed)

	_, err = puzzle.New(puzzletest.Layout("...", ".."), nil, nil)
	require.ErrorIs(t, err, puzzle.ErrMalformed, "grid must be square")
}

func TestNewCopiesGrid(t *testing.T) {
	grid := puzzletest.Layout("..", "..")
	p, err := puzzle.New(grid, nil, nil)
	require.NoError(t, err)

	grid[0][0] = puzzle.Blocked
	assert.Equal(t, puzzle.Open, p.Kind(0, 0))
}

func TestNumbersAndClues(t *testing.T) {
	p := puzzletest.Cross(t)

	assert.Equal(t, 1, p.Number(0, 0))
	assert.Equal(t, 2, p.Number(0, 2))
	assert.Equal(t, 3, p.Number(2, 1))
	assert.Equal(t, 0, p.Number(0, 1))

	across := p.Clues(puzzle.Across)
	require.Len(t, across, 2)
	assert.Equal(t, puzzle.Clue{Number: 1, Orientation: puzzle.Across, Row: 0, Col: 0, Text: "A domestic feline"}, across[0])
	assert.Equal(t, 3, across[1].Number)

	down := p.Clues(puzzle.Down)
	require.Len(t, down, 1)
	assert.Equal(t, "Foot digit", down[0].Text)

	numbered := p.Numbered()
	require.Len(t, numbered, 3)
	assert.Equal(t, puzzle.Coord{Row: 0, Col: 0}, numbered[0].Coord)
	assert.Equal(t, puzzle.Coord{Row: 2, Col: 1}, numbered[2].Coord)
}

func TestSharedStartCarriesOneNumber(t *testing.T) {
	p := puzzletest.TwoByTwo(t)
	require.Len(t, p.Numbered(), 1)
	assert.Equal(t, 1, p.Number(0, 0))
}

func TestKindOutOfBoundsIsBlocked(t *testing.T) {
	p := puzzletest.TwoByTwo(t)
	assert.Equal(t, puzzle.Blocked, p.Kind(-1, 0))
	assert.Equal(t, puzzle.Blocked, p.Kind(0, 2))
	assert.Equal(t, puzzle.Blocked, p.Kind(1, 1))
	assert.Equal(t, puzzle.Open, p.Kind(1, 0))
	assert.Len(t, p.Blocked(), 1)
}

func TestWordCells(t *testing.T) {
	w := puzzle.Word{Number: 1, Row: 2, Col: 1, Orientation: puzzle.Down, Text: "dog"}
	assert.Equal(t, []puzzle.Coord{{Row: 2, Col: 1}, {Row: 3, Col: 1}, {Row: 4, Col: 1}}, w.Cells())
	assert.Equal(t, "DOG", w.Solution())
	assert.Equal(t, 3, w.Len())
}

func TestOrientation(t *testing.T) {
	assert.Equal(t, puzzle.Down, puzzle.Across.Other())
	assert.Equal(t, puzzle.Across, puzzle.Down.Other())

	dr, dc := puzzle.Across.Step()
	assert.Equal(t, [2]int{0, 1}, [2]int{dr, dc})
	dr, dc = puzzle.Down.Step()
	assert.Equal(t, [2]int{1, 0}, [2]int{dr, dc})
}

func TestContents(t *testing.T) {
	c := puzzle.NewContents(3)

	assert.True(t, c.Set(0, 0, "A"))
	assert.False(t, c.Set(-1, 0, "X"))
	assert.False(t, c.Set(0, 3, "X"))
	assert.Equal(t, "A", c.Get(0, 0))
	assert.Equal(t, "", c.Get(5, 5))

	cp := c.Clone()
	cp.Set(0, 0, "Z")
	assert.Equal(t, "A", c.Get(0, 0), "Clone should not share cells")

	rows := c.Rows()
	rows[0][0] = "Q"
	assert.Equal(t, "A", c.Get(0, 0), "Rows should return a copy")
}
