package clues

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const (
	defaultRegion = "europe-west1"
	defaultModel  = "gemini-2.5-flash"
)

const cluePrompt = `Write one short crossword clue for each of the following words.

Words:
%s

Rules:
- A clue must not contain the word itself or an obvious derivative of it.
- Keep each clue under twelve words.
- Answer ONLY with a JSON object mapping each word, in lowercase, to its clue. No comment, no markdown.`

// Gemini writes clues with a Gemini model on Vertex AI.
type Gemini struct {
	client    *genai.Client
	modelName string
}

// NewGemini creates a client using Application Default Credentials.
// Set GOOGLE_APPLICATION_CREDENTIALS to the service account key file path.
func NewGemini(ctx context.Context, projectID, region string) (*Gemini, error) {
	if region == "" {
		region = defaultRegion
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Project:  projectID,
		Location: region,
		Backend:  genai.BackendVertexAI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &Gemini{
		client:    client,
		modelName: defaultModel,
	}, nil
}

// Close releases resources held by the client.
func (g *Gemini) Close() error {
	return nil
}

// Clues asks the model for all clues in one request. Words the model skips
// or answers with the word itself get a Dictionary clue.
func (g *Gemini) Clues(ctx context.Context, words []string) (map[string]string, error) {
	if len(words) == 0 {
		return map[string]string{}, nil
	}
	resp, err := g.client.Models.GenerateContent(ctx, g.modelName,
		[]*genai.Content{{
			Role:  "user",
			Parts: []*genai.Part{{Text: buildPrompt(words)}},
		}},
		&genai.GenerateContentConfig{
			Temperature:      genai.Ptr(float32(0.7)),
			TopP:             genai.Ptr(float32(1)),
			ResponseMIMEType: "application/json",
		},
	)
	if err != nil {
		return nil, fmt.Errorf("gemini generate: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return nil, fmt.Errorf("empty gemini response")
	}
	return parseClues(text, words)
}

func buildPrompt(words []string) string {
	lower := make([]string, len(words))
	for i, w := range words {
		lower[i] = "- " + strings.ToLower(w)
	}
	return fmt.Sprintf(cluePrompt, strings.Join(lower, "\n"))
}

func parseClues(text string, words []string) (map[string]string, error) {
	var raw map[string]string
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, fmt.Errorf("parse clues JSON: %w\nraw response: %s", err, text)
	}
	got := make(map[string]string, len(raw))
	for w, c := range raw {
		got[strings.ToLower(strings.TrimSpace(w))] = strings.TrimSpace(c)
	}

	var dict Dictionary
	out := make(map[string]string, len(words))
	for _, w := range words {
		w = strings.ToLower(w)
		c := got[w]
		if c == "" || strings.Contains(strings.ToLower(c), w) {
			c = dict.Clue(w)
		}
		out[w] = c
	}
	return out, nil
}
