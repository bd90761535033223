package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// LoadEnvFiles reads KEY=VALUE pairs and populates the process environment.
func TestLoadEnvFiles_LoadsKeyValues(t *testing.T) {
	t.Setenv("TOGETHER_API_KEY", "")
	t.Setenv("SERPER_API_KEY", "")

	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env.test")
	content := "\n# sample dotenv file\nTOGETHER_API_KEY=alpha\nSERPER_API_KEY=\"beta\"\n"
	if err := os.WriteFile(envPath, []byte(content), 0o600); err != nil {
		t.Fatalf("write dotenv: %v", err)
	}

	if err := LoadEnvFiles(envPath, filepath.Join(dir, "missing.env")); err != nil {
		t.Fatalf("LoadEnvFiles error: %v", err)
	}

	if got := os.Getenv("TOGETHER_API_KEY"); got != "alpha" {
		t.Fatalf("TOGETHER_API_KEY=%q, want alpha", got)
	}
	if got := os.Getenv("SERPER_API_KEY"); got != "beta" {
		t.Fatalf("SERPER_API_KEY=%q, want beta", got)
	}
}

// Later files override earlier ones when loading multiple dotenv files.
func TestLoadEnvFiles_OverrideOrder(t *testing.T) {
	t.Setenv("K", "")
	dir := t.TempDir()
	a := filepath.Join(dir, ".env.a")
	b := filepath.Join(dir, ".env.b")
	if err := os.WriteFile(a, []byte("K=first\n"), 0o600); err != nil {
		t.Fatalf("write a: %v", err)
	}
	if err := os.WriteFile(b, []byte("K=second\n"), 0o600); err != nil {
		t.Fatalf("write b: %v", err)
	}

	if err := LoadEnvFiles(a, b); err != nil {
		t.Fatalf("LoadEnvFiles error: %v", err)
	}
	if got := os.Getenv("K"); got != "second" {
		t.Fatalf("override order failed: got %q, want second", got)
	}
}

func TestApplyEnvToConfig_FromEnv(t *testing.T) {
	t.Setenv("TOGETHER_API_KEY", "")
	t.Setenv("LLM_API_KEY", "llm-alias")
	t.Setenv("SERPER_API_KEY", "serper")
	t.Setenv("SEARCH_COUNTRY", "sv")
	t.Setenv("PRICE_KEYWORDS", "usd, precio ,")
	t.Setenv("HTTP_TIMEOUT", "12s")
	t.Setenv("VERBOSE", "yes")

	var cfg Config
	ApplyEnvToConfig(&cfg)
	if cfg.LLMAPIKey != "llm-alias" {
		t.Fatalf("LLMAPIKey=%q, want alias fallback", cfg.LLMAPIKey)
	}
	if cfg.SearchAPIKey != "serper" || cfg.Country != "sv" {
		t.Fatalf("unexpected search config %+v", cfg)
	}
	if len(cfg.PriceKeywords) != 2 || cfg.PriceKeywords[1] != "precio" {
		t.Fatalf("unexpected keywords %v", cfg.PriceKeywords)
	}
	if cfg.HTTPTimeout != 12*time.Second || !cfg.Verbose {
		t.Fatalf("unexpected timeout/verbose %s %v", cfg.HTTPTimeout, cfg.Verbose)
	}
}

func TestApplyEnvToConfig_ExplicitWins(t *testing.T) {
	t.Setenv("SERPER_API_KEY", "from-env")
	cfg := Config{SearchAPIKey: "explicit"}
	ApplyEnvToConfig(&cfg)
	if cfg.SearchAPIKey != "explicit" {
		t.Fatalf("explicit value overwritten: %q", cfg.SearchAPIKey)
	}
}
