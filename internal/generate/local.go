package generate

import (
	"context"

	"github.com/bodul/xwplay/internal/puzzle"
)

// Local serves puzzles from an in-process Generator.
type Local struct {
	Gen *Generator
}

// Generate builds a puzzle and validates it like a remote response.
func (l Local) Generate(ctx context.Context, size int) (*puzzle.Puzzle, error) {
	resp, err := l.Gen.Generate(ctx, size)
	if err != nil {
		return nil, err
	}
	return puzzle.FromResponse(resp)
}
