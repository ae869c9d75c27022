package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultFeedPolicy(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Feed.EntryBatch < 1 || cfg.Feed.TabBatch < cfg.Feed.EntryBatch {
		t.Errorf("entry/tab batches out of order: %d, %d", cfg.Feed.EntryBatch, cfg.Feed.TabBatch)
	}
	if cfg.Feed.Trailing < 1 {
		t.Errorf("trailing = %d", cfg.Feed.Trailing)
	}
	if cfg.Feed.DwellSeconds != 30 {
		t.Errorf("dwell = %ds, want 30", cfg.Feed.DwellSeconds)
	}
}

func TestAutoPopulateFromEnv(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "sk-test-a")
	t.Setenv("OPENAI_API_KEY", "sk-test-o")
	t.Setenv("OLLAMA_HOST", "http://box:11434")

	cfg := DefaultConfig()
	cfg.AutoPopulateFromEnv()

	if !cfg.Providers.Anthropic.Enabled || cfg.Providers.Anthropic.APIKey != "sk-test-a" {
		t.Error("anthropic not populated from env")
	}
	if !cfg.Providers.OpenAI.Enabled || cfg.Providers.OpenAI.APIKey != "sk-test-o" {
		t.Error("openai not populated from env")
	}
	if cfg.Providers.Ollama.Endpoint != "http://box:11434" {
		t.Error("ollama endpoint not populated from env")
	}
}

func TestEnabledProvidersPriorityOrder(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Providers.Anthropic.Enabled = true
	cfg.Providers.Anthropic.APIKey = "k"
	cfg.Providers.OpenAI.Enabled = true
	cfg.Providers.OpenAI.APIKey = "k"
	cfg.Providers.OpenAI.Priority = 0 // promote above anthropic

	got := cfg.EnabledProviders()
	want := []string{"openai", "anthropic", "ollama"}
	if len(got) != len(want) {
		t.Fatalf("providers = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("providers = %v, want %v", got, want)
		}
	}
}

func TestEnabledProvidersSkipsKeyless(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Providers.Anthropic.Enabled = true // enabled but no key
	cfg.Providers.Ollama.Enabled = false

	if got := cfg.EnabledProviders(); len(got) != 0 {
		t.Errorf("providers = %v, want none", got)
	}
}

func TestApplyFloors(t *testing.T) {
	cfg := &Config{}
	cfg.applyFloors()
	def := DefaultConfig().Feed
	if cfg.Feed != def {
		t.Errorf("floored feed = %+v, want %+v", cfg.Feed, def)
	}
}

func TestLoadKeysFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keys.sh")
	content := "export ANTHROPIC_API_KEY=\"sk-file-a\"\nOPENAI_API_KEY=sk-file-o\n# comment\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg := DefaultConfig()
	if err := cfg.LoadKeysFromFile(path); err != nil {
		t.Fatalf("LoadKeysFromFile: %v", err)
	}
	if cfg.Providers.Anthropic.APIKey != "sk-file-a" {
		t.Errorf("anthropic key = %q", cfg.Providers.Anthropic.APIKey)
	}
	if cfg.Providers.OpenAI.APIKey != "sk-file-o" {
		t.Errorf("openai key = %q", cfg.Providers.OpenAI.APIKey)
	}
}
