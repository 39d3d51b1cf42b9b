package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var DefaultConfigYAML []byte

type Config struct {
	Suggest  Suggest  `yaml:"suggest"`
	Grouping Grouping `yaml:"grouping"`
	LLM      LLM      `yaml:"llm"`
	Output   Output   `yaml:"output"`
	Server   Server   `yaml:"server"`
	Logging  Logging  `yaml:"logging"`
}

type Suggest struct {
	Region          string `yaml:"region"`
	TimeoutSeconds  int    `yaml:"timeout_seconds"`
	CacheSize       int    `yaml:"cache_size"`
	CacheTTLMinutes int    `yaml:"cache_ttl_minutes"`
	YahooEnabled    bool   `yaml:"yahoo_enabled"`
	TrendsGeo       string `yaml:"trends_geo"`
}

type Grouping struct {
	Threshold   float64 `yaml:"threshold"`
	MaxKeywords int     `yaml:"max_keywords"`
}

type LLM struct {
	Provider        string `yaml:"provider"`
	Model           string `yaml:"model"`
	APIKeyEnv       string `yaml:"api_key_env"`
	OllamaURL       string `yaml:"ollama_url"`
	OllamaModel     string `yaml:"ollama_model"`
	OpenAIModel     string `yaml:"openai_model"`
	OpenAIAPIKeyEnv string `yaml:"openai_api_key_env"`
	MaxTokens       int    `yaml:"max_tokens"`
	TimeoutSeconds  int    `yaml:"timeout_seconds"`
}

type Output struct {
	DataDir string `yaml:"data_dir"`
}

type Server struct {
	Port int `yaml:"port"`
}

type Logging struct {
	Level string `yaml:"level"`
}

// ConfigDir returns the XDG config directory for kwscout.
func ConfigDir() string {
	return filepath.Join(homeDir(), ".config", "kwscout")
}

// DataDir returns the XDG data directory for kwscout.
func DataDir() string {
	return filepath.Join(homeDir(), ".local", "share", "kwscout")
}

// ResolveConfigPath finds the config file following priority:
// explicit path > ~/.config/kwscout/config.yaml > ./config.yaml
func ResolveConfigPath(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}

	xdgConfig := filepath.Join(ConfigDir(), "config.yaml")
	if _, err := os.Stat(xdgConfig); err == nil {
		return xdgConfig, nil
	}

	cwdConfig := "config.yaml"
	if _, err := os.Stat(cwdConfig); err == nil {
		return cwdConfig, nil
	}

	return "", fmt.Errorf(
		"no config file found; searched:\n  %s\n  ./config.yaml\n\nRun 'kwscout init' to create a default config",
		xdgConfig,
	)
}

// Load reads and parses a config YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return parse(data)
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg, err := parse(DefaultConfigYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded default config is invalid: %v", err))
	}
	return cfg
}

// parse parses YAML bytes into a Config, applying defaults.
func parse(data []byte) (*Config, error) {
	cfg := &Config{
		Suggest: Suggest{
			Region:          "jp",
			TimeoutSeconds:  5,
			CacheSize:       256,
			CacheTTLMinutes: 30,
			YahooEnabled:    true,
			TrendsGeo:       "JP",
		},
		Grouping: Grouping{
			Threshold:   0.5,
			MaxKeywords: 300,
		},
		LLM: LLM{
			Provider:        "gemini",
			Model:           "gemini-1.5-flash",
			APIKeyEnv:       "GEMINI_API_KEY",
			OllamaURL:       "http://localhost:11434",
			OllamaModel:     "qwen2.5:7b",
			OpenAIModel:     "gpt-4o-mini",
			OpenAIAPIKeyEnv: "OPENAI_API_KEY",
			MaxTokens:       1024,
			TimeoutSeconds:  30,
		},
		Server:  Server{Port: 8000},
		Logging: Logging{Level: "INFO"},
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if !(cfg.Grouping.Threshold >= 0 && cfg.Grouping.Threshold <= 1) {
		return nil, fmt.Errorf("grouping.threshold must be within [0, 1], got %v", cfg.Grouping.Threshold)
	}
	if cfg.Grouping.MaxKeywords < 0 {
		return nil, fmt.Errorf("grouping.max_keywords must not be negative, got %d", cfg.Grouping.MaxKeywords)
	}

	return cfg, nil
}

// GetDataDir returns the effective data directory from config or XDG default.
func (c *Config) GetDataDir() string {
	if c.Output.DataDir != "" {
		return c.Output.DataDir
	}
	return DataDir()
}

// SuggestTimeout returns the per-request timeout for suggestion endpoints.
func (c *Config) SuggestTimeout() time.Duration {
	if c.Suggest.TimeoutSeconds <= 0 {
		return 5 * time.Second
	}
	return time.Duration(c.Suggest.TimeoutSeconds) * time.Second
}

// CacheTTL returns how long suggestion lookups stay cached.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Suggest.CacheTTLMinutes) * time.Minute
}

// LLMTimeout returns the deadline applied to a single LLM call.
func (c *Config) LLMTimeout() time.Duration {
	if c.LLM.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.LLM.TimeoutSeconds) * time.Second
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
