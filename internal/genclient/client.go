// Package genclient requests puzzles from a remote generation endpoint.
package genclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bodul/xwplay/internal/puzzle"
)

const maxResponseSize = 1 << 20

// Client posts {"size": n} to URL and validates the returned puzzle.
type Client struct {
	URL  string
	HTTP *http.Client
}

// New returns a Client with the given request timeout.
func New(url string, timeout time.Duration) *Client {
	return &Client{URL: url, HTTP: &http.Client{Timeout: timeout}}
}

// Generate requests one puzzle. Failures are returned as they happen; the
// request is never retried.
func (c *Client) Generate(ctx context.Context, size int) (*puzzle.Puzzle, error) {
	body, err := json.Marshal(puzzle.Request{Size: size})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("generate request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("generate request: status %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
	}

	var out puzzle.Response
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode generate response: %w", err)
	}
	return puzzle.FromResponse(out)
}
