// Package words supplies the vocabulary the generator draws from.
//
// The default list is embedded. A file given through configuration
// (XW_WORDS_FILE) replaces it. Lists hold one word per line; blank lines and
// lines starting with '#' are skipped, words are lowercased, and entries
// with anything but ASCII letters are dropped.
package words

import (
	"bufio"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// ErrEmpty is returned when a list holds no usable word.
var ErrEmpty = errors.New("words: list is empty")

//go:embed default.txt
var embedded string

var (
	defaultOnce sync.Once
	defaultList []string
)

// Default returns the embedded list.
func Default() []string {
	defaultOnce.Do(func() {
		defaultList, _ = Parse(strings.NewReader(embedded))
	})
	return append([]string(nil), defaultList...)
}

// Load reads a list from path, or returns Default when path is empty.
func Load(path string) ([]string, error) {
	if path == "" {
		return Default(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open word list: %w", err)
	}
	defer f.Close()

	list, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return list, nil
}

// Parse reads one word per line, keeping the first occurrence of each.
func Parse(r io.Reader) ([]string, error) {
	var out []string
	seen := make(map[string]struct{})
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		w := strings.ToLower(line)
		if !isAlpha(w) {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, ErrEmpty
	}
	return out, nil
}

func isAlpha(s string) bool {
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return s != ""
}
