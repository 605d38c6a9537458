package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"github.com/bodul/xwplay/internal/puzzle"
)

// printPuzzle writes the grid followed by both clue lists. Open cells show
// their number, or the answer letter when solution is set.
func printPuzzle(w io.Writer, p *puzzle.Puzzle, solution bool) {
	blocked := color.New(color.Faint)
	number := color.New(color.FgHiYellow)
	letter := color.New(color.Bold)

	letters := make(map[puzzle.Coord]rune)
	for _, wd := range p.Words() {
		sol := []rune(wd.Solution())
		for i, c := range wd.Cells() {
			letters[c] = sol[i]
		}
	}

	n := p.Size()
	for r := range n {
		var line strings.Builder
		for c := range n {
			switch {
			case p.Kind(r, c) == puzzle.Blocked:
				line.WriteString(blocked.Sprint(" ## "))
			case solution && letters[puzzle.Coord{Row: r, Col: c}] != 0:
				line.WriteString(letter.Sprintf("  %c ", letters[puzzle.Coord{Row: r, Col: c}]))
			case p.Number(r, c) > 0:
				line.WriteString(number.Sprintf(" %2d ", p.Number(r, c)))
			default:
				line.WriteString("  . ")
			}
		}
		_, _ = fmt.Fprintln(w, line.String())
	}
	_, _ = fmt.Fprintln(w, "")

	printClues(w, "Across", p.Clues(puzzle.Across), p)
	_, _ = fmt.Fprintln(w, "")
	printClues(w, "Down", p.Clues(puzzle.Down), p)
}

func printClues(w io.Writer, title string, list []puzzle.Clue, p *puzzle.Puzzle) {
	bold := color.New(color.Bold, color.Underline)
	faint := color.New(color.Faint)

	_, _ = bold.Fprintln(w, title)
	if len(list) == 0 {
		_, _ = faint.Fprintln(w, " none")
		return
	}

	type key struct {
		number int
		o      puzzle.Orientation
	}
	lengths := make(map[key]int)
	for _, wd := range p.Words() {
		lengths[key{wd.Number, wd.Orientation}] = wd.Len()
	}

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 60
	tbl.Wrap = true
	for _, c := range list {
		tbl.AddRow(fmt.Sprintf("%d.", c.Number), c.Text, faint.Sprintf("(%d)", lengths[key{c.Number, c.Orientation}]))
	}
	tbl.RightAlign(0)
	_, _ = fmt.Fprintln(w, tbl)
}
