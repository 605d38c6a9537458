// Package config loads settings from .env, an optional .xwplay.yaml file,
// XW_* environment variables and command-line flags.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/bodul/xwplay/internal/dispatch"
	"github.com/bodul/xwplay/internal/puzzle"
)

// Keys.
const (
	KeyPort         = "port"
	KeyGenerateURL  = "generate_url"
	KeyProjectID    = "gcp_project_id"
	KeyRegion       = "gcp_region"
	KeyLogLevel     = "log_level"
	KeyMarkTimeout  = "mark_timeout"
	KeyDefaultSize  = "default_size"
	KeyWordsFile    = "words_file"
	KeyLogFile      = "log_file"
	KeyGenerateWait = "generate_timeout"
)

// Config is the resolved configuration.
type Config struct {
	Port            string
	GenerateURL     string
	ProjectID       string
	Region          string
	LogLevel        zerolog.Level
	MarkTimeout     time.Duration
	DefaultSize     int
	WordsFile       string
	LogFile         string
	GenerateTimeout time.Duration
}

// New returns a viper instance with defaults and sources registered.
// Flags may be bound to it before Load.
func New() *viper.Viper {
	// .env is optional; variables already set win.
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault(KeyPort, "8080")
	v.SetDefault(KeyGenerateURL, "")
	v.SetDefault(KeyRegion, "europe-west1")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyMarkTimeout, dispatch.DefaultMarkTimeout)
	v.SetDefault(KeyDefaultSize, puzzle.DefaultSize)
	v.SetDefault(KeyGenerateWait, 30*time.Second)

	v.SetConfigName(".xwplay") // .yaml is implicit
	v.SetEnvPrefix("XW")
	v.AutomaticEnv()

	// Unprefixed names used by the hosting environment.
	_ = v.BindEnv(KeyPort, "PORT")
	_ = v.BindEnv(KeyProjectID, "GCP_PROJECT_ID")

	if override := os.Getenv("XW_CONFIG_PATH"); override != "" {
		v.AddConfigPath(override)
	}
	v.AddConfigPath("./")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(home)
	}
	return v
}

// Load reads the config file, if any, and resolves every key.
func Load(v *viper.Viper) (Config, error) {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	level, err := zerolog.ParseLevel(v.GetString(KeyLogLevel))
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", KeyLogLevel, err)
	}

	c := Config{
		Port:            v.GetString(KeyPort),
		GenerateURL:     v.GetString(KeyGenerateURL),
		ProjectID:       v.GetString(KeyProjectID),
		Region:          v.GetString(KeyRegion),
		LogLevel:        level,
		MarkTimeout:     v.GetDuration(KeyMarkTimeout),
		DefaultSize:     v.GetInt(KeyDefaultSize),
		WordsFile:       v.GetString(KeyWordsFile),
		LogFile:         v.GetString(KeyLogFile),
		GenerateTimeout: v.GetDuration(KeyGenerateWait),
	}
	if c.MarkTimeout <= 0 {
		return Config{}, fmt.Errorf("%s must be positive, got %s", KeyMarkTimeout, c.MarkTimeout)
	}
	if c.GenerateTimeout <= 0 {
		return Config{}, fmt.Errorf("%s must be positive, got %s", KeyGenerateWait, c.GenerateTimeout)
	}
	if c.DefaultSize < puzzle.MinSize || c.DefaultSize > puzzle.MaxSize {
		return Config{}, fmt.Errorf("%s must be in [%d, %d], got %d", KeyDefaultSize, puzzle.MinSize, puzzle.MaxSize, c.DefaultSize)
	}
	return c, nil
}
