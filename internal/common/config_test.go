package common

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig_DefaultPort(t *testing.T) {
	cfg := NewDefaultConfig()
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port default = %d, want %d", cfg.Server.Port, 8080)
	}
}

func TestConfig_PortEnvOverride(t *testing.T) {
	t.Setenv("FUNDAGENT_PORT", "9090")

	cfg := NewDefaultConfig()
	applyEnvOverrides(cfg)

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d after env override, want %d", cfg.Server.Port, 9090)
	}
}

func TestConfig_GeminiKeyEnvOverride(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "gem-from-env")

	cfg := NewDefaultConfig()
	applyEnvOverrides(cfg)

	if cfg.Clients.Gemini.APIKey != "gem-from-env" {
		t.Errorf("Gemini.APIKey = %q, want %q", cfg.Clients.Gemini.APIKey, "gem-from-env")
	}
}

func TestConfig_GeminiKeyPrefixedEnvWins(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "generic")
	t.Setenv("FUNDAGENT_GEMINI_API_KEY", "prefixed")

	cfg := NewDefaultConfig()
	applyEnvOverrides(cfg)

	if cfg.Clients.Gemini.APIKey != "prefixed" {
		t.Errorf("Gemini.APIKey = %q, want %q", cfg.Clients.Gemini.APIKey, "prefixed")
	}
}

func TestCacheConfig_GetTTL_Default(t *testing.T) {
	cfg := NewDefaultConfig()
	if got := cfg.Cache.GetTTL(); got != 24*time.Hour {
		t.Errorf("Cache.GetTTL() = %v, want 24h", got)
	}
}

func TestCacheConfig_GetTTL_InvalidFallsBack(t *testing.T) {
	cfg := &CacheConfig{TTL: "not-a-duration"}
	if got := cfg.GetTTL(); got != 24*time.Hour {
		t.Errorf("GetTTL() = %v, want 24h (fallback for invalid)", got)
	}
}

func TestGeminiConfig_GetTimeout_Configured(t *testing.T) {
	cfg := &GeminiConfig{Timeout: "15s"}
	if got := cfg.GetTimeout(); got != 15*time.Second {
		t.Errorf("GetTimeout() = %v, want 15s", got)
	}
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig("does-not-exist.toml")
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Clients.Yahoo.BaseURL != "https://query2.finance.yahoo.com" {
		t.Errorf("Yahoo.BaseURL = %q, want default", cfg.Clients.Yahoo.BaseURL)
	}
}

func TestLoadConfig_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fundagent.toml")
	data := "[server]\nport = 9999\n\n[cache]\nttl = \"1h\"\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Server.Port != 9999 {
		t.Errorf("Server.Port = %d, want 9999", cfg.Server.Port)
	}
	if cfg.Cache.GetTTL() != time.Hour {
		t.Errorf("Cache.GetTTL() = %v, want 1h", cfg.Cache.GetTTL())
	}
	// untouched sections keep their defaults
	if cfg.Clients.Yahoo.RateLimit != 5 {
		t.Errorf("Yahoo.RateLimit = %d, want 5", cfg.Clients.Yahoo.RateLimit)
	}
}

func TestConfig_IsProduction(t *testing.T) {
	for env, want := range map[string]bool{
		"production":  true,
		"PROD":        true,
		"development": false,
		"":            false,
	} {
		cfg := &Config{Environment: env}
		if got := cfg.IsProduction(); got != want {
			t.Errorf("IsProduction() with %q = %v, want %v", env, got, want)
		}
	}
}
