// Package config loads the drawio-architect YAML configuration.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultPath is where the CLI looks for configuration when --config is
// not given.
const DefaultPath = "drawio-architect.yaml"

type Config struct {
	// LibraryPath is the style library file.
	LibraryPath string `yaml:"library_path"`

	// OutputDir is where generated diagrams are written.
	OutputDir string `yaml:"output_dir"`

	// Model is the Gemini model for ask/watch.
	Model string `yaml:"model"`

	// APIKey for the Gemini API. Usually left empty here and supplied
	// via GEMINI_API_KEY or GOOGLE_API_KEY instead.
	APIKey string `yaml:"api_key"`

	// MaxToolTurns bounds the function-calling rounds per ask.
	MaxToolTurns int `yaml:"max_tool_turns"`

	// WatchDirs are the directories the watch command scans for sample
	// diagrams.
	WatchDirs []string `yaml:"watch_dirs"`
}

func Default() *Config {
	return &Config{
		LibraryPath:  "library.json",
		OutputDir:    "generated",
		Model:        "gemini-2.5-flash",
		MaxToolTurns: 8,
		WatchDirs:    []string{"samples"},
	}
}

// Load reads path over the defaults. An absent file is not an error:
// the defaults are returned. Environment variables override the file
// for the API key.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		c.APIKey = key
	} else if key := os.Getenv("GOOGLE_API_KEY"); key != "" {
		c.APIKey = key
	}
}

func (c *Config) Validate() error {
	if c.LibraryPath == "" {
		return errors.New("library_path must not be empty")
	}
	if c.OutputDir == "" {
		return errors.New("output_dir must not be empty")
	}
	if c.MaxToolTurns <= 0 {
		return errors.New("max_tool_turns must be positive")
	}
	return nil
}
