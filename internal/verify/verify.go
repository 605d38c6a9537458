// Package verify compares player contents with the solution.
package verify

import (
	"strings"

	"github.com/bodul/xwplay/internal/puzzle"
)

// Mark is the outcome of checking one cell.
type Mark string

const (
	Correct   Mark = "correct"
	Incorrect Mark = "incorrect"
)

// Result is the outcome of Check.
type Result struct {
	AllCorrect bool
	Marks      map[puzzle.Coord]Mark
}

// Check compares every letter of every word with the contents, ignoring
// case. A cell shared by two words is incorrect if either comparison fails.
func Check(p *puzzle.Puzzle, contents puzzle.Contents) Result {
	res := Result{AllCorrect: true, Marks: make(map[puzzle.Coord]Mark)}
	for _, w := range p.Words() {
		solution := []rune(w.Solution())
		for i, c := range w.Cells() {
			got := strings.ToUpper(contents.Get(c.Row, c.Col))
			if got == string(solution[i]) {
				if _, seen := res.Marks[c]; !seen {
					res.Marks[c] = Correct
				}
				continue
			}
			res.Marks[c] = Incorrect
			res.AllCorrect = false
		}
	}
	return res
}

// Reveal returns a copy of contents with every word cell set to its
// solution letter.
func Reveal(p *puzzle.Puzzle, contents puzzle.Contents) puzzle.Contents {
	out := contents.Clone()
	for _, w := range p.Words() {
		solution := []rune(w.Solution())
		for i, c := range w.Cells() {
			out.Set(c.Row, c.Col, string(solution[i]))
		}
	}
	return out
}

// Clear returns empty contents for the puzzle. Cells outside every word are
// cleared too.
func Clear(p *puzzle.Puzzle) puzzle.Contents {
	return puzzle.NewContents(p.Size())
}

// CheckWord reports whether a single answer matches, ignoring case and
// surrounding space.
func CheckWord(input, word string) bool {
	return strings.EqualFold(strings.TrimSpace(input), strings.TrimSpace(word))
}
