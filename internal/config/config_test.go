package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestParseDefaultConfig(t *testing.T) {
	cfg, err := parse(DefaultConfigYAML)
	if err != nil {
		t.Fatalf("failed to parse default config: %v", err)
	}

	if cfg.Grouping.Threshold != 0.5 {
		t.Errorf("expected threshold 0.5, got %v", cfg.Grouping.Threshold)
	}
	if cfg.Grouping.MaxKeywords != 300 {
		t.Errorf("expected max_keywords 300, got %d", cfg.Grouping.MaxKeywords)
	}
	if cfg.LLM.Provider != "gemini" {
		t.Errorf("expected provider 'gemini', got %q", cfg.LLM.Provider)
	}
	if cfg.Suggest.Region != "jp" {
		t.Errorf("expected region 'jp', got %q", cfg.Suggest.Region)
	}
	if cfg.Server.Port != 8000 {
		t.Errorf("expected port 8000, got %d", cfg.Server.Port)
	}
}

func TestParseMinimalConfig(t *testing.T) {
	data := []byte(`
grouping:
  threshold: 0.3
llm:
  provider: ollama
server:
  port: 9000
`)
	cfg, err := parse(data)
	if err != nil {
		t.Fatalf("failed to parse minimal config: %v", err)
	}

	if cfg.Grouping.Threshold != 0.3 {
		t.Errorf("expected threshold 0.3, got %v", cfg.Grouping.Threshold)
	}
	if cfg.LLM.Provider != "ollama" {
		t.Errorf("expected provider 'ollama', got %q", cfg.LLM.Provider)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Server.Port)
	}
	// Defaults should still be set for unspecified fields
	if cfg.Grouping.MaxKeywords != 300 {
		t.Errorf("expected default max_keywords, got %d", cfg.Grouping.MaxKeywords)
	}
	if cfg.LLM.OllamaURL != "http://localhost:11434" {
		t.Errorf("expected default ollama_url, got %q", cfg.LLM.OllamaURL)
	}
}

func TestParseRejectsBadThreshold(t *testing.T) {
	for _, v := range []string{"1.5", "-0.1", ".nan"} {
		_, err := parse([]byte("grouping:\n  threshold: " + v + "\n"))
		if err == nil || !strings.Contains(err.Error(), "threshold") {
			t.Errorf("%s: expected threshold error, got %v", v, err)
		}
	}
}

func TestParseAcceptsZeroThreshold(t *testing.T) {
	cfg, err := parse([]byte("grouping:\n  threshold: 0\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Grouping.Threshold != 0 {
		t.Errorf("expected threshold 0, got %v", cfg.Grouping.Threshold)
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, DefaultConfigYAML, 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Suggest.TrendsGeo != "JP" {
		t.Errorf("expected trends geo from file, got %q", cfg.Suggest.TrendsGeo)
	}
}

func TestResolveConfigPathExplicitMissing(t *testing.T) {
	_, err := ResolveConfigPath(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Error("expected error for missing explicit config")
	}
}

func TestGetDataDir(t *testing.T) {
	cfg := &Config{}
	defaultDir := cfg.GetDataDir()
	if defaultDir == "" {
		t.Error("expected non-empty default data dir")
	}

	cfg.Output.DataDir = "/custom/path"
	if cfg.GetDataDir() != "/custom/path" {
		t.Errorf("expected '/custom/path', got %q", cfg.GetDataDir())
	}
}

func TestDurations(t *testing.T) {
	cfg := &Config{}
	if cfg.SuggestTimeout() != 5*time.Second {
		t.Errorf("expected 5s fallback, got %v", cfg.SuggestTimeout())
	}
	if cfg.LLMTimeout() != 30*time.Second {
		t.Errorf("expected 30s fallback, got %v", cfg.LLMTimeout())
	}

	cfg = Default()
	if cfg.CacheTTL() != 30*time.Minute {
		t.Errorf("expected 30m cache ttl, got %v", cfg.CacheTTL())
	}
}
