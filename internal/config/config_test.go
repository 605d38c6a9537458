package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XW_CONFIG_PATH", dir)
	for _, k := range []string{"PORT", "GCP_PROJECT_ID", "XW_PORT", "XW_GENERATE_URL", "XW_LOG_LEVEL", "XW_MARK_TIMEOUT", "XW_DEFAULT_SIZE"} {
		t.Setenv(k, "")
	}
	t.Chdir(dir)
}

func TestDefaults(t *testing.T) {
	isolate(t)

	c, err := Load(New())
	require.NoError(t, err)
	assert.Equal(t, "8080", c.Port)
	assert.Equal(t, zerolog.InfoLevel, c.LogLevel)
	assert.Equal(t, 2*time.Second, c.MarkTimeout)
	assert.Equal(t, 10, c.DefaultSize)
	assert.Equal(t, "", c.GenerateURL)
}

func TestEnvironment(t *testing.T) {
	isolate(t)
	t.Setenv("XW_GENERATE_URL", "http://gen.local/generate")
	t.Setenv("XW_MARK_TIMEOUT", "500ms")
	t.Setenv("XW_LOG_LEVEL", "debug")
	t.Setenv("PORT", "9000")
	t.Setenv("GCP_PROJECT_ID", "puzzles")

	c, err := Load(New())
	require.NoError(t, err)
	assert.Equal(t, "http://gen.local/generate", c.GenerateURL)
	assert.Equal(t, 500*time.Millisecond, c.MarkTimeout)
	assert.Equal(t, zerolog.DebugLevel, c.LogLevel)
	assert.Equal(t, "9000", c.Port)
	assert.Equal(t, "puzzles", c.ProjectID)
}

func TestConfigFile(t *testing.T) {
	isolate(t)
	dir, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".xwplay.yaml"), []byte("default_size: 15\nwords_file: /tmp/words.txt\n"), 0o644))

	c, err := Load(New())
	require.NoError(t, err)
	assert.Equal(t, 15, c.DefaultSize)
	assert.Equal(t, "/tmp/words.txt", c.WordsFile)
}

func TestInvalid(t *testing.T) {
	cases := map[string][2]string{
		"level":   {"XW_LOG_LEVEL", "loud"},
		"size":    {"XW_DEFAULT_SIZE", "40"},
		"timeout": {"XW_MARK_TIMEOUT", "-1s"},
	}
	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			isolate(t)
			t.Setenv(kv[0], kv[1])
			_, err := Load(New())
			assert.Error(t, err)
		})
	}
}
