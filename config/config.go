// Package config loads extraction-session settings from a YAML file with
// environment-variable overrides for credentials.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// EngineKind selects the recognition provider.
type EngineKind string

const (
	EngineTesseract EngineKind = "tesseract"
	EngineVision    EngineKind = "vision"
	EngineGemini    EngineKind = "gemini"
	EngineNone      EngineKind = "none"
)

// Config is the top-level session configuration.
type Config struct {
	Engine    EngineKind `yaml:"engine"`
	Languages []string   `yaml:"languages"`
	DPI       int        `yaml:"dpi"`
	// DelayMS is the pause between successive region extractions,
	// rate-limiting calls to external recognition services.
	DelayMS int          `yaml:"delay_ms"`
	Gemini  GeminiConfig `yaml:"gemini"`
	Log     LogConfig    `yaml:"log"`
}

// GeminiConfig configures the Gemini provider. The API key is only read
// from the environment, never from the file.
type GeminiConfig struct {
	Model  string `yaml:"model"`
	APIKey string `yaml:"-"`
}

// LogConfig configures CLI logging.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // console or json
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Engine:    EngineTesseract,
		Languages: []string{"eng"},
		DPI:       300,
		DelayMS:   500,
		Log:       LogConfig{Level: "info", Format: "console"},
	}
}

// Load reads a YAML config file, fills unset fields from Default, and
// applies environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	}
	cfg.applyEnv()
	return cfg.validate()
}

func (c *Config) applyEnv() {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		c.Gemini.APIKey = key
	}
}

func (c Config) validate() (Config, error) {
	switch c.Engine {
	case EngineTesseract, EngineVision, EngineGemini, EngineNone:
	case "":
		c.Engine = EngineTesseract
	default:
		return Config{}, fmt.Errorf("unknown engine %q", c.Engine)
	}
	if c.DPI < 0 {
		return Config{}, fmt.Errorf("dpi must not be negative, got %d", c.DPI)
	}
	if c.DelayMS < 0 {
		return Config{}, fmt.Errorf("delay_ms must not be negative, got %d", c.DelayMS)
	}
	return c, nil
}

// Delay returns the inter-extraction pause as a duration.
func (c Config) Delay() time.Duration { return time.Duration(c.DelayMS) * time.Millisecond }
