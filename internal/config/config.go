// Package config loads soundcue configuration from an optional YAML
// file with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Input   InputConfig   `yaml:"input"`
	Output  OutputConfig  `yaml:"output"`
	Catalog CatalogConfig `yaml:"catalog"`
	Search  SearchConfig  `yaml:"search"`
	Logging LoggingConfig `yaml:"logging"`
}

// InputConfig locates the cue sheet document.
type InputConfig struct {
	Document string `yaml:"document"`
}

// OutputConfig holds download and report destination settings.
type OutputConfig struct {
	Dir string `yaml:"dir"`
}

// CatalogConfig holds the SQLite catalog location.
type CatalogConfig struct {
	Path string `yaml:"path"`
}

// SearchConfig holds search and selection settings. The API key is
// taken from the environment only, never from the YAML file.
type SearchConfig struct {
	APIKey             string `yaml:"-"`
	MusicTopN          int    `yaml:"music_top_n"`
	EffectTopN         int    `yaml:"effect_top_n"`
	MusicPageSize      int    `yaml:"music_page_size"`
	EffectPageSize     int    `yaml:"effect_page_size"`
	EffectsPerCategory int    `yaml:"effects_per_category"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Input: InputConfig{
			Document: "input/source_music.md",
		},
		Output: OutputConfig{
			Dir: "output",
		},
		Catalog: CatalogConfig{
			Path: "output/soundcue.db",
		},
		Search: SearchConfig{
			MusicTopN:          3,
			EffectTopN:         2,
			MusicPageSize:      20,
			EffectPageSize:     10,
			EffectsPerCategory: 5,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads config from a YAML file (if it exists) and overrides
// with environment variables. Environment variables take precedence.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.loadFromFile(path); err != nil {
			return nil, fmt.Errorf("loading config file: %w", err)
		}
	}

	cfg.loadFromEnv()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func (c *Config) loadFromFile(path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path comes from the operator
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return yaml.Unmarshal(data, c)
}

func (c *Config) loadFromEnv() {
	if v := os.Getenv("SC_DOCUMENT"); v != "" {
		c.Input.Document = v
	}
	if v := os.Getenv("SC_OUTPUT_DIR"); v != "" {
		c.Output.Dir = v
	}
	if v := os.Getenv("SC_CATALOG_PATH"); v != "" {
		c.Catalog.Path = v
	}
	if v := os.Getenv("SC_MUSIC_TOP_N"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Search.MusicTopN = n
		}
	}
	if v := os.Getenv("SC_EFFECT_TOP_N"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Search.EffectTopN = n
		}
	}
	if v := os.Getenv("SC_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("SC_LOG_FORMAT"); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv("SC_LOG_FILE"); v != "" {
		c.Logging.File = v
	}
	if v := os.Getenv("FREESOUND_API_KEY"); v != "" {
		c.Search.APIKey = v
	}
}

func (c *Config) validate() error {
	if c.Input.Document == "" {
		return fmt.Errorf("input document path is required")
	}
	if c.Output.Dir == "" {
		return fmt.Errorf("output directory is required")
	}
	if c.Catalog.Path == "" {
		return fmt.Errorf("catalog path is required")
	}
	if c.Search.MusicTopN < 1 {
		return fmt.Errorf("music_top_n must be at least 1")
	}
	if c.Search.EffectTopN < 1 {
		return fmt.Errorf("effect_top_n must be at least 1")
	}
	return nil
}
