/*
Package config manages the TOML configuration for Nomenclator.
*/
package config

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/CTAG07/Nomenclator/pkg/corpus"
	"github.com/natefinch/atomic"
)

// Config is the top-level configuration struct that aggregates all other configs.
type Config struct {
	Generator GeneratorConfig `toml:"generator"`
	Corpus    CorpusConfig    `toml:"corpus"`
	Server    ServerConfig    `toml:"server"`
}

// GeneratorConfig holds the chain and generation settings.
type GeneratorConfig struct {
	Order       int     `toml:"order"`
	Count       int     `toml:"count"`
	Length      int     `toml:"length"`
	Temperature float64 `toml:"temperature"`
	TopK        int     `toml:"top_k"`
	NovelOnly   bool    `toml:"novel_only"`
	MaxAttempts int     `toml:"max_attempts"`
}

// CorpusConfig holds where training entries come from and where they are cached.
type CorpusConfig struct {
	URL            string `toml:"url"`
	Selector       string `toml:"selector"`
	File           string `toml:"file"`
	TimeoutSec     int    `toml:"timeout_sec"`
	FoldDiacritics bool   `toml:"fold_diacritics"`
	DatabasePath   string `toml:"database_path"`
	Refresh        bool   `toml:"refresh"`
}

// ServerConfig holds the settings for the HTTP API and logging. MaxCount and
// MaxLength cap what a single generation request may ask for.
type ServerConfig struct {
	Addr      string `toml:"addr"`
	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"`
	MaxCount  int    `toml:"max_count"`
	MaxLength int    `toml:"max_length"`
}

// Log formats accepted in ServerConfig.LogFormat.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Generator: GeneratorConfig{
			Order:       3,
			Count:       15,
			Length:      7,
			Temperature: 1.0,
			TopK:        0,
			NovelOnly:   false,
			MaxAttempts: 20,
		},
		Corpus: CorpusConfig{
			URL:            corpus.DefaultURL,
			Selector:       corpus.DefaultSelector,
			File:           "",
			TimeoutSec:     int(corpus.DefaultTimeout.Seconds()),
			FoldDiacritics: false,
			DatabasePath:   "./data/nomenclator.db",
			Refresh:        false,
		},
		Server: ServerConfig{
			Addr:      ":7280",
			LogLevel:  "info",
			LogFormat: LogFormatText,
			MaxCount:  1000,
			MaxLength: 256,
		},
	}
}

// Load reads the configuration from a TOML file at the given path. Keys absent
// from the file keep their default values. If the file doesn't exist, it is
// created with the defaults.
func Load(path string) (*Config, error) {
	config := DefaultConfig()

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if err = Save(config, path); err != nil {
				return nil, fmt.Errorf("failed to write default config file: %w", err)
			}
			return config, nil
		}
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}

	if _, err := toml.DecodeFile(path, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return config, nil
}

// Save writes config to path atomically, creating the parent directory if needed.
func Save(config *Config, path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(config); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := atomic.WriteFile(path, &buf); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate reports every setting that the generator cannot work with.
func (c *Config) Validate() error {
	var errs []error
	if c.Generator.Order <= 0 {
		errs = append(errs, fmt.Errorf("generator.order must be positive, got %d", c.Generator.Order))
	}
	if c.Generator.Count < 0 {
		errs = append(errs, fmt.Errorf("generator.count must not be negative, got %d", c.Generator.Count))
	}
	if c.Generator.Length < 0 {
		errs = append(errs, fmt.Errorf("generator.length must not be negative, got %d", c.Generator.Length))
	}
	if c.Generator.TopK < 0 {
		errs = append(errs, fmt.Errorf("generator.top_k must not be negative, got %d", c.Generator.TopK))
	}
	if c.Generator.MaxAttempts <= 0 {
		errs = append(errs, fmt.Errorf("generator.max_attempts must be positive, got %d", c.Generator.MaxAttempts))
	}
	if math.IsNaN(c.Generator.Temperature) || math.IsInf(c.Generator.Temperature, 0) {
		errs = append(errs, fmt.Errorf("generator.temperature must be finite, got %v", c.Generator.Temperature))
	}
	if c.Server.MaxCount <= 0 {
		errs = append(errs, fmt.Errorf("server.max_count must be positive, got %d", c.Server.MaxCount))
	} else if c.Generator.Count > c.Server.MaxCount {
		errs = append(errs, fmt.Errorf("generator.count must not exceed server.max_count (%d), got %d", c.Server.MaxCount, c.Generator.Count))
	}
	if c.Server.MaxLength <= 0 {
		errs = append(errs, fmt.Errorf("server.max_length must be positive, got %d", c.Server.MaxLength))
	} else if c.Generator.Length > c.Server.MaxLength {
		errs = append(errs, fmt.Errorf("generator.length must not exceed server.max_length (%d), got %d", c.Server.MaxLength, c.Generator.Length))
	}
	if f := c.Server.LogFormat; f != LogFormatText && f != LogFormatJSON {
		errs = append(errs, fmt.Errorf("server.log_format must be %q or %q, got %q", LogFormatText, LogFormatJSON, f))
	}
	if c.Corpus.TimeoutSec < 0 {
		errs = append(errs, fmt.Errorf("corpus.timeout_sec must not be negative, got %d", c.Corpus.TimeoutSec))
	}
	return errors.Join(errs...)
}
