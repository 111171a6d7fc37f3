package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/caarlos0/env/v11"
)

// FlexibleStringSlice is a []string that also accepts JSON numbers,
// so allow_from can contain both "123" and 123.
type FlexibleStringSlice []string

func (f *FlexibleStringSlice) UnmarshalJSON(data []byte) error {
	// Try []string first
	var ss []string
	if err := json.Unmarshal(data, &ss); err == nil {
		*f = ss
		return nil
	}

	// Try []interface{} to handle mixed types
	var raw []interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	result := make([]string, 0, len(raw))
	for _, v := range raw {
		switch val := v.(type) {
		case string:
			result = append(result, val)
		case float64:
			result = append(result, fmt.Sprintf("%.0f", val))
		default:
			result = append(result, fmt.Sprintf("%v", val))
		}
	}
	*f = result
	return nil
}

type Config struct {
	Assistant AssistantConfig `json:"assistant"`
	Channels  ChannelsConfig  `json:"channels"`
	Providers ProvidersConfig `json:"providers"`
	Speech    SpeechConfig    `json:"speech"`
	Memory    MemoryConfig    `json:"memory"`
	Heartbeat HeartbeatConfig `json:"heartbeat"`
	mu        sync.RWMutex
}

type AssistantConfig struct {
	Workspace         string `json:"workspace" env:"DROIDMIND_ASSISTANT_WORKSPACE"`
	Provider          string `json:"provider" env:"DROIDMIND_ASSISTANT_PROVIDER"`
	Model             string `json:"model" env:"DROIDMIND_ASSISTANT_MODEL"`
	LLMTimeoutSeconds int    `json:"llm_timeout_seconds" env:"DROIDMIND_ASSISTANT_LLM_TIMEOUT_SECONDS"`
}

type ChannelsConfig struct {
	Discord DiscordConfig `json:"discord"`
}

type DiscordConfig struct {
	Token     string              `json:"token" env:"DROIDMIND_CHANNELS_DISCORD_TOKEN"`
	AllowFrom FlexibleStringSlice `json:"allow_from" env:"DROIDMIND_CHANNELS_DISCORD_ALLOW_FROM"`
}

type ProvidersConfig struct {
	Gemini     ProviderConfig `json:"gemini"`
	OpenRouter ProviderConfig `json:"openrouter"`
}

type ProviderConfig struct {
	APIKey  string `json:"api_key"`
	APIBase string `json:"api_base"`
	Proxy   string `json:"proxy,omitempty"`
}

type SpeechConfig struct {
	Enabled bool   `json:"enabled" env:"DROIDMIND_SPEECH_ENABLED"`
	Model   string `json:"model" env:"DROIDMIND_SPEECH_MODEL"`
	Voice   string `json:"voice" env:"DROIDMIND_SPEECH_VOICE"`
}

type MemoryConfig struct {
	MaxActionHistory    int `json:"max_action_history" env:"DROIDMIND_MEMORY_MAX_ACTION_HISTORY"`
	MaxOrderHistory     int `json:"max_order_history" env:"DROIDMIND_MEMORY_MAX_ORDER_HISTORY"`
	MaxFavoriteCuisines int `json:"max_favorite_cuisines" env:"DROIDMIND_MEMORY_MAX_FAVORITE_CUISINES"`
	CrawlDelayMS        int `json:"crawl_delay_ms" env:"DROIDMIND_MEMORY_CRAWL_DELAY_MS"`
}

type HeartbeatConfig struct {
	Enabled   bool   `json:"enabled" env:"DROIDMIND_HEARTBEAT_ENABLED"`
	Cron      string `json:"cron" env:"DROIDMIND_HEARTBEAT_CRON"`
	CrawlSync bool   `json:"crawl_sync" env:"DROIDMIND_HEARTBEAT_CRAWL_SYNC"`
}

func DefaultConfig() *Config {
	return &Config{
		Assistant: AssistantConfig{
			Workspace:         "~/.droidmind/workspace",
			Provider:          "gemini",
			Model:             "gemini-3-flash-preview",
			LLMTimeoutSeconds: 30,
		},
		Channels: ChannelsConfig{
			Discord: DiscordConfig{
				Token:     "",
				AllowFrom: FlexibleStringSlice{},
			},
		},
		Providers: ProvidersConfig{
			Gemini:     ProviderConfig{},
			OpenRouter: ProviderConfig{},
		},
		Speech: SpeechConfig{
			Enabled: false,
			Model:   "gemini-2.5-flash-preview-tts",
			Voice:   "Kore",
		},
		Memory: MemoryConfig{
			MaxActionHistory:    100,
			MaxOrderHistory:     50,
			MaxFavoriteCuisines: 5,
			CrawlDelayMS:        2000,
		},
		Heartbeat: HeartbeatConfig{
			Enabled:   false,
			Cron:      "*/30 * * * *",
			CrawlSync: false,
		},
	}
}

func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func SaveConfig(path string, cfg *Config) error {
	cfg.mu.RLock()
	defer cfg.mu.RUnlock()

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}

func (c *Config) WorkspacePath() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return expandHome(c.Assistant.Workspace)
}

// ProviderFor returns the credentials block for a provider name.
func (c *Config) ProviderFor(name string) ProviderConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "openrouter":
		return c.Providers.OpenRouter
	default:
		return c.Providers.Gemini
	}
}

func expandHome(path string) string {
	if path == "" {
		return path
	}
	if path[0] == '~' {
		home, _ := os.UserHomeDir()
		if len(path) > 1 && path[1] == '/' {
			return home + path[1:]
		}
		return home
	}
	return path
}
