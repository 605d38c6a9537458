// Package generate builds random crossword puzzles.
//
// Words are drawn at random and placed at a shuffled position in a random
// orientation. A placement must agree with letters already on the board,
// must not run into another letter at either end, and, after the first word,
// must cross at least one placed letter. Placed words are numbered row-major
// by start cell.
package generate

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/bodul/xwplay/internal/clues"
	"github.com/bodul/xwplay/internal/puzzle"
)

// ErrSize is returned for a size outside [puzzle.MinSize, puzzle.MaxSize].
var ErrSize = errors.New("invalid grid size")

const (
	DefaultMaxAttempts = 100
	DefaultTargetWords = 25
	minWordLength      = 3
)

// Generator produces puzzles in the generation wire format. It is safe for
// concurrent use.
type Generator struct {
	MaxAttempts int
	TargetWords int

	words []string
	clues clues.Writer

	mu   sync.Mutex
	rand *rand.Rand
}

// New returns a Generator drawing from words. A nil writer means
// clues.Dictionary.
func New(words []string, w clues.Writer, src rand.Source) *Generator {
	if w == nil {
		w = clues.Dictionary{}
	}
	return &Generator{
		MaxAttempts: DefaultMaxAttempts,
		TargetWords: DefaultTargetWords,
		words:       words,
		clues:       w,
		rand:        rand.New(src),
	}
}

type placement struct {
	word        string // uppercase
	row, col    int
	orientation puzzle.Orientation
}

// Generate builds one puzzle of the given size.
func (g *Generator) Generate(ctx context.Context, size int) (puzzle.Response, error) {
	if size < puzzle.MinSize || size > puzzle.MaxSize {
		return puzzle.Response{}, fmt.Errorf("%w: %d not in [%d, %d]", ErrSize, size, puzzle.MinSize, puzzle.MaxSize)
	}
	candidates := g.candidates(size)
	if len(candidates) == 0 {
		return puzzle.Response{}, fmt.Errorf("no word of length %d to %d in list", minWordLength, size)
	}

	b, placed, err := g.place(ctx, size, candidates)
	if err != nil {
		return puzzle.Response{}, err
	}
	numbered := number(placed)

	lower := make([]string, len(numbered))
	for i, pw := range numbered {
		lower[i] = pw.Word
	}
	written := g.writeClues(ctx, lower)

	resp := puzzle.Response{
		Grid:        b.wire(),
		PlacedWords: numbered,
		Clues:       puzzle.WireClues{Across: map[int]string{}, Down: map[int]string{}},
	}
	for _, pw := range numbered {
		text := written[pw.Word]
		if pw.Orientation == string(puzzle.Across) {
			resp.Clues.Across[pw.Number] = text
		} else {
			resp.Clues.Down[pw.Number] = text
		}
	}
	return resp, nil
}

func (g *Generator) candidates(size int) []string {
	var out []string
	for _, w := range g.words {
		if len(w) >= minWordLength && len(w) <= size && isAlpha(w) {
			out = append(out, w)
		}
	}
	return out
}

func (g *Generator) place(ctx context.Context, size int, candidates []string) (*board, []placement, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	b := newBoard(size)
	var placed []placement
	used := make(map[string]bool)

	for attempt := 0; attempt < g.MaxAttempts && len(placed) < g.TargetWords; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		word := strings.ToUpper(candidates[g.rand.IntN(len(candidates))])
		if used[word] {
			continue
		}
		o := puzzle.Across
		if g.rand.IntN(2) == 1 {
			o = puzzle.Down
		}
		row, col, ok := g.tryPlace(b, word, o, len(placed) == 0)
		if !ok {
			continue
		}
		b.write(word, row, col, o)
		used[word] = true
		placed = append(placed, placement{word: word, row: row, col: col, orientation: o})
	}
	return b, placed, nil
}

// tryPlace checks every start position in shuffled order.
func (g *Generator) tryPlace(b *board, word string, o puzzle.Orientation, first bool) (int, int, bool) {
	maxRow, maxCol := b.n, b.n
	if o == puzzle.Across {
		maxCol = b.n - len(word) + 1
	} else {
		maxRow = b.n - len(word) + 1
	}
	if maxRow <= 0 || maxCol <= 0 {
		return 0, 0, false
	}
	positions := make([]puzzle.Coord, 0, maxRow*maxCol)
	for r := range maxRow {
		for c := range maxCol {
			positions = append(positions, puzzle.Coord{Row: r, Col: c})
		}
	}
	g.rand.Shuffle(len(positions), func(i, j int) {
		positions[i], positions[j] = positions[j], positions[i]
	})
	for _, p := range positions {
		if b.fits(word, p.Row, p.Col, o, first) {
			return p.Row, p.Col, true
		}
	}
	return 0, 0, false
}

func (g *Generator) writeClues(ctx context.Context, words []string) map[string]string {
	var dict clues.Dictionary
	got, err := g.clues.Clues(ctx, words)
	if err != nil {
		log.Warn().Err(err).Int("words", len(words)).Msg("clue writer failed, using dictionary")
		got, _ = dict.Clues(ctx, words)
	}
	if got == nil {
		got = make(map[string]string, len(words))
	}
	for _, w := range words {
		if got[w] == "" {
			got[w] = dict.Clue(w)
		}
	}
	return got
}

// number assigns clue numbers row-major by start cell. Words sharing a
// start cell share its number.
func number(placed []placement) []puzzle.PlacedWord {
	starts := make([]puzzle.Coord, 0, len(placed))
	seen := make(map[puzzle.Coord]bool)
	for _, p := range placed {
		c := puzzle.Coord{Row: p.row, Col: p.col}
		if !seen[c] {
			seen[c] = true
			starts = append(starts, c)
		}
	}
	sort.Slice(starts, func(i, j int) bool {
		if starts[i].Row != starts[j].Row {
			return starts[i].Row < starts[j].Row
		}
		return starts[i].Col < starts[j].Col
	})
	numbers := make(map[puzzle.Coord]int, len(starts))
	for i, c := range starts {
		numbers[c] = i + 1
	}

	out := make([]puzzle.PlacedWord, len(placed))
	for i, p := range placed {
		out[i] = puzzle.PlacedWord{
			Number:      numbers[puzzle.Coord{Row: p.row, Col: p.col}],
			Row:         p.row,
			Col:         p.col,
			Orientation: string(p.orientation),
			Word:        strings.ToLower(p.word),
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Number != out[j].Number {
			return out[i].Number < out[j].Number
		}
		return out[i].Orientation == string(puzzle.Across) && out[j].Orientation == string(puzzle.Down)
	})
	return out
}

func isAlpha(s string) bool {
	for _, r := range s {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z') {
			return false
		}
	}
	return true
}
