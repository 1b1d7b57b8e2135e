// Package config loads the user settings of the rill command.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/takoeight0821/rill/eval"
	"gopkg.in/yaml.v3"
)

// File is looked up relative to the XDG config directories.
const File = "rill/config.yaml"

type Config struct {
	// Prompt is printed before each REPL line.
	Prompt string `yaml:"prompt"`
	// History is the REPL history file.
	History string `yaml:"history"`
	// MaxCallDepth bounds nested function calls, 0 disables the limit.
	MaxCallDepth int `yaml:"max_call_depth"`
}

func Default() Config {
	return Config{
		Prompt:       "> ",
		History:      filepath.Join(xdg.DataHome, "rill", ".rill_history"),
		MaxCallDepth: eval.DefaultMaxCallDepth,
	}
}

// Parse decodes a YAML document over the defaults. Unknown keys are rejected.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, err
	}
	if cfg.History == "" {
		cfg.History = Default().History
	}
	if cfg.MaxCallDepth < 0 {
		return Config{}, fmt.Errorf("max_call_depth must not be negative, got %d", cfg.MaxCallDepth)
	}
	return cfg, nil
}

// Load reads path, or searches the XDG config directories for File when path is empty.
// A missing file yields the defaults.
func Load(path string) (Config, error) {
	if path == "" {
		found, err := xdg.SearchConfigFile(File)
		if err != nil {
			return Default(), nil
		}
		path = found
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}
