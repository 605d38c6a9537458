package nav_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bodul/xwplay/internal/nav"
	"github.com/bodul/xwplay/internal/puzzle"
	"github.com/bodul/xwplay/internal/puzzle/puzzletest"
)

func at(r, c int) puzzle.Coord { return puzzle.Coord{Row: r, Col: c} }

func TestSelectCellStickyOrientation(t *testing.T) {
	ix := puzzle.BuildIndex(puzzletest.Cross(t))

	s := nav.SelectCell(ix, nav.Empty(), 0, 2, puzzle.Down)
	require.True(t, s.HasWord)
	assert.Equal(t, puzzle.Down, s.Orientation)
	assert.Equal(t, "toe", s.Word.Text)

	// (0,1) only belongs to CAT, so down falls back to across.
	s = nav.SelectCell(ix, s, 0, 1, puzzle.Down)
	require.True(t, s.HasWord)
	assert.Equal(t, puzzle.Across, s.Orientation)
	assert.Equal(t, "cat", s.Word.Text)
}

func TestSelectCellWithoutWord(t *testing.T) {
	ix := puzzle.BuildIndex(puzzletest.Cross(t))

	s := nav.SelectCell(ix, nav.Empty(), 4, 4, puzzle.Down)
	require.True(t, s.HasCursor)
	assert.False(t, s.HasWord)
	assert.Equal(t, puzzle.Down, s.Orientation)
	assert.Equal(t, []puzzle.Coord{at(4, 4)}, s.Highlighted())
}

func TestSelectCellRejectsBlockedAndOutside(t *testing.T) {
	ix := puzzle.BuildIndex(puzzletest.Cross(t))
	start := nav.SelectCell(ix, nav.Empty(), 0, 0, puzzle.Across)

	assert.Equal(t, start, nav.SelectCell(ix, start, 0, 3, puzzle.Across))
	assert.Equal(t, start, nav.SelectCell(ix, start, -1, 0, puzzle.Across))
	assert.Equal(t, start, nav.SelectCell(ix, start, 0, 5, puzzle.Across))
	assert.Equal(t, nav.Empty(), nav.SelectCell(ix, nav.Empty(), 3, 3, puzzle.Across))
}

func TestHighlightIsContiguousRunContainingCursor(t *testing.T) {
	p := puzzletest.Cross(t)
	ix := puzzle.BuildIndex(p)

	for r := range p.Size() {
		for c := range p.Size() {
			if !ix.IsOpen(r, c) {
				continue
			}
			for _, o := range []puzzle.Orientation{puzzle.Across, puzzle.Down} {
				s := nav.SelectCell(ix, nav.Empty(), r, c, o)
				require.True(t, s.HasCursor)
				assert.Equal(t, at(r, c), s.Cursor)

				cells := s.Highlighted()
				assert.Contains(t, cells, s.Cursor)
				dr, dc := s.Orientation.Step()
				for i := 1; i < len(cells); i++ {
					assert.Equal(t, at(cells[i-1].Row+dr, cells[i-1].Col+dc), cells[i])
				}
			}
		}
	}
}

func TestMoveInDirection(t *testing.T) {
	ix := puzzle.BuildIndex(puzzletest.Cross(t))
	s := nav.SelectCell(ix, nav.Empty(), 0, 1, puzzle.Across)

	right := nav.MoveInDirection(ix, s, 0, 1)
	assert.Equal(t, at(0, 2), right.Cursor)
	assert.Equal(t, puzzle.Across, right.Orientation, "across is kept where it is available")

	back := nav.MoveInDirection(ix, right, 0, -1)
	assert.Equal(t, s, back)

	// (1,1) is blocked.
	assert.Equal(t, s, nav.MoveInDirection(ix, s, 1, 0))
	// Nothing moves without a cursor.
	assert.Equal(t, nav.Empty(), nav.MoveInDirection(ix, nav.Empty(), 0, 1))
}

func TestArrowLeftAtColumnZeroIsNoop(t *testing.T) {
	ix := puzzle.BuildIndex(puzzletest.Cross(t))
	s := nav.SelectCell(ix, nav.Empty(), 0, 0, puzzle.Across)

	moved := nav.MoveInDirection(ix, s, 0, -1)
	assert.Equal(t, s, moved)
	assert.Equal(t, 0, moved.Cursor.Col)
}

func TestMoveNeverLeavesOpenCells(t *testing.T) {
	p := puzzletest.Cross(t)
	ix := puzzle.BuildIndex(p)
	deltas := [][2]int{{0, 1}, {0, -1}, {1, 0}, {-1, 0}}

	for r := range p.Size() {
		for c := range p.Size() {
			s := nav.SelectCell(ix, nav.Empty(), r, c, puzzle.Across)
			if !s.HasCursor {
				continue
			}
			for _, d := range deltas {
				next := nav.MoveInDirection(ix, s, d[0], d[1])
				assert.True(t, ix.IsOpen(next.Cursor.Row, next.Cursor.Col))
			}
		}
	}
}

func TestToggleOrientation(t *testing.T) {
	ix := puzzle.BuildIndex(puzzletest.Cross(t))

	both := nav.SelectCell(ix, nav.Empty(), 0, 2, puzzle.Across)
	flipped := nav.ToggleOrientation(ix, both)
	assert.Equal(t, puzzle.Down, flipped.Orientation)
	assert.Equal(t, "toe", flipped.Word.Text)
	assert.Equal(t, both, nav.ToggleOrientation(ix, flipped))

	only := nav.SelectCell(ix, nav.Empty(), 1, 2, puzzle.Down)
	assert.Equal(t, only, nav.ToggleOrientation(ix, only))

	assert.Equal(t, nav.Empty(), nav.ToggleOrientation(ix, nav.Empty()))
}

func TestToggleWithoutWordsFlipsPreference(t *testing.T) {
	ix := puzzle.BuildIndex(puzzletest.Cross(t))
	s := nav.SelectCell(ix, nav.Empty(), 4, 4, puzzle.Across)

	s = nav.ToggleOrientation(ix, s)
	assert.Equal(t, puzzle.Down, s.Orientation)
	assert.False(t, s.HasWord)
}

func TestAdvanceAndRetreat(t *testing.T) {
	ix := puzzle.BuildIndex(puzzletest.TwoByTwo(t))

	across := nav.SelectCell(ix, nav.Empty(), 0, 0, puzzle.Across)
	assert.Equal(t, at(0, 1), nav.AdvanceAfterInput(ix, across).Cursor)

	down := nav.SelectCell(ix, nav.Empty(), 0, 0, puzzle.Down)
	assert.Equal(t, at(1, 0), nav.AdvanceAfterInput(ix, down).Cursor)

	end := nav.SelectCell(ix, nav.Empty(), 0, 1, puzzle.Across)
	assert.Equal(t, at(0, 1), nav.AdvanceAfterInput(ix, end).Cursor, "end of row stays put")
	assert.Equal(t, at(0, 0), nav.RetreatAfterDelete(ix, end).Cursor)
	assert.Equal(t, at(0, 0), nav.RetreatAfterDelete(ix, across).Cursor)
}

func TestSelectWordByLocator(t *testing.T) {
	ix := puzzle.BuildIndex(puzzletest.TwoByTwo(t))
	s := nav.SelectCell(ix, nav.Empty(), 0, 1, puzzle.Across)

	s = nav.SelectWordByLocator(ix, s, 0, 0, puzzle.Down)
	assert.Equal(t, at(0, 0), s.Cursor)
	assert.Equal(t, puzzle.Down, s.Orientation)
	assert.Equal(t, "ax", s.Word.Text)
}

func TestSelectFirstWord(t *testing.T) {
	s := nav.SelectFirstWord(puzzle.BuildIndex(puzzletest.Cross(t)))
	assert.Equal(t, at(0, 0), s.Cursor)
	assert.Equal(t, puzzle.Across, s.Orientation)
	assert.Equal(t, []puzzle.Coord{at(0, 0), at(0, 1), at(0, 2)}, s.Highlighted())

	p, err := puzzle.New(puzzletest.Layout("..", ".."), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, nav.Empty(), nav.SelectFirstWord(puzzle.BuildIndex(p)))
}
