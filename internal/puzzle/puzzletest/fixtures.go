// Package puzzletest builds small puzzles for tests.
package puzzletest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bodul/xwplay/internal/puzzle"
)

// Layout builds a grid from rows where '#' is blocked and anything else open.
func Layout(rows ...string) [][]puzzle.CellKind {
	grid := make([][]puzzle.CellKind, len(rows))
	for r, row := range rows {
		grid[r] = make([]puzzle.CellKind, len(row))
		for c, ch := range row {
			if ch != '#' {
				grid[r][c] = puzzle.Open
			}
		}
	}
	return grid
}

// TwoByTwo is the 2×2 puzzle with AT across and AX down, both numbered 1.
//
//	A T
//	X #
func TwoByTwo(t testing.TB) *puzzle.Puzzle {
	t.Helper()
	p, err := puzzle.New(
		Layout("..", ".#"),
		[]puzzle.Word{
			{Number: 1, Row: 0, Col: 0, Orientation: puzzle.Across, Text: "at"},
			{Number: 1, Row: 0, Col: 0, Orientation: puzzle.Down, Text: "ax"},
		},
		puzzle.Clues{
			puzzle.Across: {1: "Preposition of place"},
			puzzle.Down:   {1: "Chopping tool"},
		},
	)
	require.NoError(t, err)
	return p
}

// Cross is a 5×5 puzzle with cells in one, two and zero words.
//
//	C A T # #
//	# # O # #
//	# B E E #
//	# # # # #
//	# # # # .
//
// 1 across CAT, 2 down TOE, 3 across BEE; (4,4) is open but in no word.
func Cross(t testing.TB) *puzzle.Puzzle {
	t.Helper()
	p, err := puzzle.New(
		Layout(
			"...##",
			"##.##",
			"#...#",
			"#####",
			"####.",
		),
		[]puzzle.Word{
			{Number: 3, Row: 2, Col: 1, Orientation: puzzle.Across, Text: "BEE"},
			{Number: 1, Row: 0, Col: 0, Orientation: puzzle.Across, Text: "cat"},
			{Number: 2, Row: 0, Col: 2, Orientation: puzzle.Down, Text: "toe"},
		},
		puzzle.Clues{
			puzzle.Across: {1: "A domestic feline", 3: "Honey maker"},
			puzzle.Down:   {2: "Foot digit"},
		},
	)
	require.NoError(t, err)
	return p
}

// Open is an n×n puzzle with no blocked cells and one across word per row,
// so every cell belongs to exactly one word.
func Open(t testing.TB, n int) *puzzle.Puzzle {
	t.Helper()
	rows := make([]string, n)
	words := make([]puzzle.Word, n)
	across := make(map[int]string, n)
	text := strings.Repeat("abcdefghijklmnopqrstuvwxyz", 2)[:n]
	for r := range n {
		rows[r] = strings.Repeat(".", n)
		words[r] = puzzle.Word{Number: r + 1, Row: r, Col: 0, Orientation: puzzle.Across, Text: text}
		across[r+1] = "Alphabet start"
	}
	p, err := puzzle.New(Layout(rows...), words, puzzle.Clues{puzzle.Across: across})
	require.NoError(t, err)
	return p
}
