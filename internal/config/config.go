// Package config handles cilsym.toml project configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"
)

// FileName is the configuration file looked up by FindAndLoad.
const FileName = "cilsym.toml"

// Config represents a cilsym.toml file.
type Config struct {
	Output Output `toml:"output"`
	Store  Store  `toml:"store"`
	Log    Log    `toml:"log"`

	// Dir is the directory containing the cilsym.toml file (set at load time).
	Dir string `toml:"-"`
}

// Output configures CLI output.
type Output struct {
	Format string `toml:"format"` // "text" or "json"
	Color  string `toml:"color"`  // "auto", "always" or "never"
}

// Store configures the compilation log.
type Store struct {
	Path string `toml:"path"`
}

// Log configures diagnostic logging on stderr.
type Log struct {
	Level string `toml:"level"`
}

// Default returns the configuration used when no file is found.
func Default() *Config {
	return &Config{
		Output: Output{Format: "text", Color: "auto"},
		Store:  Store{Path: ".cilsym/compilations.db"},
		Log:    Log{Level: "warn"},
	}
}

// Load parses the cilsym.toml file in dir. Keys the file leaves out keep
// their Default values; unknown keys are an error.
func Load(dir string) (*Config, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	c := Default()
	md, err := toml.Decode(string(data), c)
	if err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}

	c.Dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", dir, err)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// FindAndLoad walks up from startDir to find a cilsym.toml file, then
// loads it. Returns nil if no file is found.
func FindAndLoad(startDir string) (*Config, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, FileName)); err == nil {
			return Load(dir)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, nil
		}
		dir = parent
	}
}

// Validate checks enumerated values.
func (c *Config) Validate() error {
	switch c.Output.Format {
	case "text", "json":
	default:
		return fmt.Errorf("output.format: must be text or json, got %q", c.Output.Format)
	}
	switch c.Output.Color {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("output.color: must be auto, always or never, got %q", c.Output.Color)
	}
	if _, err := c.LogLevel(); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	return nil
}

// StorePath returns the store path, resolved against Dir when relative.
func (c *Config) StorePath() string {
	if filepath.IsAbs(c.Store.Path) || c.Dir == "" {
		return c.Store.Path
	}
	return filepath.Join(c.Dir, c.Store.Path)
}

// LogLevel parses Log.Level.
func (c *Config) LogLevel() (zerolog.Level, error) {
	return zerolog.ParseLevel(strings.ToLower(c.Log.Level))
}
