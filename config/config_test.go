package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Engine != EngineTesseract {
		t.Fatalf("engine = %q, want tesseract", cfg.Engine)
	}
	if cfg.Delay() != 500*time.Millisecond {
		t.Fatalf("delay = %v, want 500ms", cfg.Delay())
	}
	if len(cfg.Languages) != 1 || cfg.Languages[0] != "eng" {
		t.Fatalf("languages = %v", cfg.Languages)
	}
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
engine: gemini
languages: [eng, deu]
dpi: 150
delay_ms: 1000
gemini:
  model: gemini-1.5-pro
log:
  level: debug
  format: json
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Engine != EngineGemini || cfg.Gemini.Model != "gemini-1.5-pro" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.DPI != 150 || cfg.DelayMS != 1000 {
		t.Fatalf("unexpected numbers: %+v", cfg)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Fatalf("unexpected log config: %+v", cfg.Log)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "sk-test")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Gemini.APIKey != "sk-test" {
		t.Fatalf("api key = %q, want env value", cfg.Gemini.APIKey)
	}
}

func TestLoadRejectsUnknownEngine(t *testing.T) {
	path := writeConfig(t, "engine: abbyy\n")
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for unknown engine")
	}
}

func TestLoadRejectsNegativeDelay(t *testing.T) {
	path := writeConfig(t, "delay_ms: -5\n")
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for negative delay")
	}
}
