// Package clues writes clue text for generated words.
package clues

import (
	"context"
	"strings"
)

// Writer returns a clue for each of the given lowercase words. A Writer may
// leave words out of the result; callers fill the gaps with Dictionary.
type Writer interface {
	Clues(ctx context.Context, words []string) (map[string]string, error)
}

var simple = map[string]string{
	"cat":      "A domestic feline",
	"dog":      "Man's best friend",
	"house":    "A place to live",
	"car":      "A four-wheeled vehicle",
	"book":     "Written or printed work",
	"tree":     "Woody perennial plant",
	"water":    "H2O",
	"computer": "Electronic device for processing data",
	"phone":    "Communication device",
	"coffee":   "Popular caffeinated beverage",
}

// Dictionary answers from a small fixed table and falls back to
// "Definition of <word>".
type Dictionary struct{}

// Clue returns the clue for one word.
func (Dictionary) Clue(word string) string {
	w := strings.ToLower(word)
	if c, ok := simple[w]; ok {
		return c
	}
	return "Definition of " + w
}

func (d Dictionary) Clues(_ context.Context, words []string) (map[string]string, error) {
	out := make(map[string]string, len(words))
	for _, w := range words {
		out[strings.ToLower(w)] = d.Clue(w)
	}
	return out, nil
}
