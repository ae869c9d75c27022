package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/tadabbur/tadabbur/internal/hydrate"
	"github.com/tadabbur/tadabbur/internal/prefetch"
	"github.com/tadabbur/tadabbur/internal/visibility"
)

// Config is the persistent application configuration
type Config struct {
	// AI providers for teaser and essay generation
	Providers ProviderConfig `json:"providers"`

	// Feed behavior
	Feed FeedConfig `json:"feed"`

	// UI Preferences
	UI UIConfig `json:"ui"`
}

// ProviderConfig holds per-provider generation settings
type ProviderConfig struct {
	Anthropic ProviderSettings `json:"anthropic"`
	OpenAI    ProviderSettings `json:"openai"`
	Ollama    ProviderSettings `json:"ollama"`
}

// ProviderSettings for a single AI provider
type ProviderSettings struct {
	Enabled  bool   `json:"enabled"`
	APIKey   string `json:"api_key,omitempty"`
	Endpoint string `json:"endpoint,omitempty"` // For Ollama or OpenAI-compatible endpoints
	Model    string `json:"model,omitempty"`    // Specific model to use
	Priority int    `json:"priority"`           // Lower = higher priority for fallback
}

// FeedConfig holds the prefetch and read-tracking policy
type FeedConfig struct {
	EntryBatch   int `json:"entry_batch"`   // items fetched at session start
	TabBatch     int `json:"tab_batch"`     // items fetched on first feed visit
	SteadyBatch  int `json:"steady_batch"`  // items fetched per scroll trigger
	Trailing     int `json:"trailing"`      // items from the end that trigger a fetch
	DwellSeconds int `json:"dwell_seconds"` // seconds open before an item counts as read
}

// UIConfig holds UI preferences
type UIConfig struct {
	Theme       string `json:"theme"`
	ShowOrigin  bool   `json:"show_origin"`  // label items curated vs generated
	DensityMode string `json:"density_mode"` // "comfortable" or "compact"
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Providers: ProviderConfig{
			Anthropic: ProviderSettings{
				Enabled:  false,
				Priority: 1,
				Model:    "claude-sonnet-4-5-20250929",
			},
			OpenAI: ProviderSettings{
				Enabled:  false,
				Priority: 2,
				Model:    "gpt-5.2",
			},
			Ollama: ProviderSettings{
				Enabled:  true,
				Priority: 3,
				Endpoint: "http://localhost:11434",
				// Model auto-detected from Ollama if not specified
			},
		},
		Feed: FeedConfig{
			EntryBatch:   prefetch.DefaultEntryBatch,
			TabBatch:     prefetch.DefaultTabBatch,
			SteadyBatch:  prefetch.DefaultSteadyBatch,
			Trailing:     visibility.DefaultTrailing,
			DwellSeconds: int(hydrate.DefaultDwell.Seconds()),
		},
		UI: UIConfig{
			Theme:       "dark",
			ShowOrigin:  false,
			DensityMode: "comfortable",
		},
	}
}

// Dir returns the application data directory
func Dir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".tadabbur")
}

// ConfigPath returns the path to the config file
func ConfigPath() string {
	return filepath.Join(Dir(), "config.json")
}

// Load reads config from disk, or returns defaults
func Load() (*Config, error) {
	path := ConfigPath()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Return defaults and try to auto-populate from environment
			cfg := DefaultConfig()
			cfg.AutoPopulateFromEnv()
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), nil
	}
	cfg.applyFloors()

	return &cfg, nil
}

// Save writes config to disk
func (c *Config) Save() error {
	path := ConfigPath()

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600) // Restrictive permissions for API keys
}

// AutoPopulateFromEnv fills in API keys from environment variables
func (c *Config) AutoPopulateFromEnv() {
	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		c.Providers.Anthropic.APIKey = key
		c.Providers.Anthropic.Enabled = true
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		c.Providers.OpenAI.APIKey = key
		c.Providers.OpenAI.Enabled = true
	}
	if host := os.Getenv("OLLAMA_HOST"); host != "" {
		c.Providers.Ollama.Endpoint = host
		c.Providers.Ollama.Enabled = true
	}
}

// applyFloors fills zero feed-policy values left by hand-edited or older
// config files with the defaults.
func (c *Config) applyFloors() {
	def := DefaultConfig().Feed
	if c.Feed.EntryBatch < 1 {
		c.Feed.EntryBatch = def.EntryBatch
	}
	if c.Feed.TabBatch < 1 {
		c.Feed.TabBatch = def.TabBatch
	}
	if c.Feed.SteadyBatch < 1 {
		c.Feed.SteadyBatch = def.SteadyBatch
	}
	if c.Feed.Trailing < 1 {
		c.Feed.Trailing = def.Trailing
	}
	if c.Feed.DwellSeconds < 1 {
		c.Feed.DwellSeconds = def.DwellSeconds
	}
}

// EnabledProviders returns providers that are enabled and usable, in
// priority order (lower priority value first).
func (c *Config) EnabledProviders() []string {
	type cand struct {
		name     string
		priority int
	}
	var cands []cand
	if c.Providers.Anthropic.Enabled && c.Providers.Anthropic.APIKey != "" {
		cands = append(cands, cand{"anthropic", c.Providers.Anthropic.Priority})
	}
	if c.Providers.OpenAI.Enabled && c.Providers.OpenAI.APIKey != "" {
		cands = append(cands, cand{"openai", c.Providers.OpenAI.Priority})
	}
	if c.Providers.Ollama.Enabled {
		cands = append(cands, cand{"ollama", c.Providers.Ollama.Priority})
	}
	// Insertion sort; the list never exceeds three entries
	for i := 1; i < len(cands); i++ {
		for j := i; j > 0 && cands[j].priority < cands[j-1].priority; j-- {
			cands[j], cands[j-1] = cands[j-1], cands[j]
		}
	}
	names := make([]string, len(cands))
	for i, cd := range cands {
		names[i] = cd.name
	}
	return names
}

// LoadKeysFromFile loads keys from a shell script (like keys.sh)
func (c *Config) LoadKeysFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	// Simple parser for export KEY=value lines
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimPrefix(line, "export ")
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		value = strings.Trim(value, `"'`)

		switch key {
		case "ANTHROPIC_API_KEY":
			c.Providers.Anthropic.APIKey = value
			c.Providers.Anthropic.Enabled = true
		case "OPENAI_API_KEY":
			c.Providers.OpenAI.APIKey = value
			c.Providers.OpenAI.Enabled = true
		case "OLLAMA_HOST":
			c.Providers.Ollama.Endpoint = value
		}
	}

	return nil
}
