// Package config handles layered YAML configuration with environment overrides.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/smileynet/roster/internal/session"
)

// Config holds all roster configuration.
type Config struct {
	Session    Session    `yaml:"session"`
	Store      Store      `yaml:"store"`
	Validation Validation `yaml:"validation"`
	Log        Log        `yaml:"log"`
}

// Session selects where the user snapshot lives.
type Session struct {
	Dir string `yaml:"dir"` // Base directory; "" means session.DefaultDir().
	ID  string `yaml:"id"`  // Session name under Dir.
}

// Store holds store behavior switches.
type Store struct {
	RejectDuplicates bool `yaml:"reject_duplicates"` // Refuse AddUser for an existing email
}

// Validation holds form validation switches.
type Validation struct {
	StrictEdit bool `yaml:"strict_edit"` // Apply create-form rules in the edit dialog
}

// Log holds logging settings.
type Log struct {
	File  string `yaml:"file"`  // "" means <session dir>/roster.log
	Level string `yaml:"level"` // debug | info | warn | error
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Session: Session{
			ID: session.DefaultID,
		},
		Log: Log{
			Level: "info",
		},
	}
}

// SessionDir returns the configured session base directory or the default.
func (c *Config) SessionDir() string {
	if c.Session.Dir != "" {
		return c.Session.Dir
	}
	return session.DefaultDir()
}

// LogFile returns the configured log file or one inside the session dir.
func (c *Config) LogFile() string {
	if c.Log.File != "" {
		return c.Log.File
	}
	return filepath.Join(c.SessionDir(), "roster.log")
}

// Load reads a single YAML config file at path and returns a Config.
// For merging multiple config sources, use LoadLayered instead.
// If the file does not exist, defaults are returned without error.
// If the file contains invalid YAML or unknown fields, an error is returned.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	if len(data) == 0 {
		return &cfg, nil
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		// Comment-only YAML files produce EOF with no decoded content.
		if errors.Is(err, io.EOF) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	return &cfg, nil
}

// LoadLayered loads config from multiple paths with increasing priority.
// Later paths override earlier ones. Missing files are skipped.
func LoadLayered(paths ...string) (*Config, error) {
	cfg := DefaultConfig()

	for _, path := range paths {
		layer, err := loadLayer(path)
		if err != nil {
			return nil, err
		}
		if layer == nil {
			continue
		}
		cfg.merge(layer)
	}

	return &cfg, nil
}

// Validate checks that config values are usable.
func (c *Config) Validate() error {
	if err := session.ValidateID(c.Session.ID); err != nil {
		return fmt.Errorf("config: session.id: %w", err)
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("config: log.level must be debug, info, warn or error, got %q", c.Log.Level)
	}
	return nil
}

// ApplyEnv applies environment variable overrides to the config.
// Supported variables: ROSTER_SESSION, ROSTER_SESSION_DIR, ROSTER_LOG_LEVEL,
// ROSTER_LOG_FILE.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("ROSTER_SESSION"); v != "" {
		c.Session.ID = v
	}
	if v := os.Getenv("ROSTER_SESSION_DIR"); v != "" {
		c.Session.Dir = v
	}
	if v := os.Getenv("ROSTER_LOG_LEVEL"); v != "" {
		if _, err := zapcore.ParseLevel(v); err != nil {
			return fmt.Errorf("config: invalid ROSTER_LOG_LEVEL %q: %w", v, err)
		}
		c.Log.Level = v
	}
	if v := os.Getenv("ROSTER_LOG_FILE"); v != "" {
		c.Log.File = v
	}
	return nil
}

// rawConfig mirrors Config but uses pointers to distinguish set vs unset fields.
type rawConfig struct {
	Session    *rawSession    `yaml:"session"`
	Store      *rawStore      `yaml:"store"`
	Validation *rawValidation `yaml:"validation"`
	Log        *rawLog        `yaml:"log"`
}

type rawSession struct {
	Dir *string `yaml:"dir"`
	ID  *string `yaml:"id"`
}

type rawStore struct {
	RejectDuplicates *bool `yaml:"reject_duplicates"`
}

type rawValidation struct {
	StrictEdit *bool `yaml:"strict_edit"`
}

type rawLog struct {
	File  *string `yaml:"file"`
	Level *string `yaml:"level"`
}

// loadLayer reads a single config file into a rawConfig for selective merging.
// Returns nil if the file does not exist. Rejects unknown fields.
func loadLayer(path string) (*rawConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	if len(data) == 0 {
		return nil, nil
	}

	var raw rawConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	return &raw, nil
}

// merge applies non-nil fields from a rawConfig layer onto this Config.
func (c *Config) merge(layer *rawConfig) {
	if layer.Session != nil {
		if layer.Session.Dir != nil {
			c.Session.Dir = *layer.Session.Dir
		}
		if layer.Session.ID != nil {
			c.Session.ID = *layer.Session.ID
		}
	}
	if layer.Store != nil {
		if layer.Store.RejectDuplicates != nil {
			c.Store.RejectDuplicates = *layer.Store.RejectDuplicates
		}
	}
	if layer.Validation != nil {
		if layer.Validation.StrictEdit != nil {
			c.Validation.StrictEdit = *layer.Validation.StrictEdit
		}
	}
	if layer.Log != nil {
		if layer.Log.File != nil {
			c.Log.File = *layer.Log.File
		}
		if layer.Log.Level != nil {
			c.Log.Level = *layer.Log.Level
		}
	}
}
