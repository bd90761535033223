package app

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadConfigFile_YAMLAndApply(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "goprice.yaml")
	content := `llm:
  api: openai
  base: http://llm.local/v1
  maxTokens: 64
search:
  country: sv
  language: es
price:
  marker: "$"
  keywords: ["$", "precio"]
httpTimeout: 15s
`
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	fc, err := LoadConfigFile(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	cfg := DefaultConfig()
	cfg.LLMModel = "explicit-model"
	ApplyFileConfig(&cfg, fc)

	if cfg.LLMAPI != LLMAPIOpenAI || cfg.LLMBaseURL != "http://llm.local/v1" || cfg.LLMMaxTokens != 64 {
		t.Fatalf("llm section not applied: %+v", cfg)
	}
	if cfg.LLMModel != "explicit-model" {
		t.Fatalf("explicit value overwritten: %q", cfg.LLMModel)
	}
	if cfg.Country != "sv" || cfg.PriceMarker != "$" || len(cfg.PriceKeywords) != 2 {
		t.Fatalf("search/price sections not applied: %+v", cfg)
	}
	if cfg.HTTPTimeout != 15*time.Second {
		t.Fatalf("httpTimeout=%s", cfg.HTTPTimeout)
	}
}

func TestLoadConfigFile_JSON(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "goprice.json")
	if err := os.WriteFile(p, []byte(`{"search":{"file":"results.json"},"verbose":true}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	fc, err := LoadConfigFile(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	var cfg Config
	ApplyFileConfig(&cfg, fc)
	if cfg.SearchFile != "results.json" || !cfg.Verbose {
		t.Fatalf("unexpected cfg %+v", cfg)
	}
}

func TestValidateConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SearchAPIKey = "k"
	if err := ValidateConfig(cfg); err != nil {
		t.Fatalf("defaults with key should validate: %v", err)
	}

	bad := DefaultConfig()
	bad.LLMAPI = "grpc"
	bad.Country = "xx1"
	bad.HTTPTimeout = 5 * time.Minute
	bad.PriceMarker = ""
	err := ValidateConfig(bad)
	if err == nil {
		t.Fatalf("expected validation error")
	}
	msg := err.Error()
	for _, want := range []string{"llm.api", "search key", "search.country", "httpTimeout", "price.marker"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("expected %q in %q", want, msg)
		}
	}
}

func TestValidateConfig_FileSearchNeedsNoKey(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SearchFile = "results.json"
	if err := ValidateConfig(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestApplyDefaults_FillsOnlyZeroFields(t *testing.T) {
	cfg := Config{LLMModel: "custom", HTTPTimeout: 5 * time.Second, PriceKeywords: []string{"gtq"}}
	ApplyDefaults(&cfg)
	d := DefaultConfig()
	if cfg.LLMModel != "custom" || cfg.HTTPTimeout != 5*time.Second || len(cfg.PriceKeywords) != 1 {
		t.Fatalf("explicit values overwritten: %+v", cfg)
	}
	if cfg.Country != d.Country || cfg.LLMMaxTokens != d.LLMMaxTokens || cfg.SearchURL != d.SearchURL || cfg.PriceMarker != d.PriceMarker {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
	if cfg.LLMAPIKey != "" || cfg.SearchAPIKey != "" {
		t.Fatalf("secrets must have no default")
	}
}

func TestApplyFileConfig_ZeroTemperatureSurvivesDefaults(t *testing.T) {
	p := filepath.Join(t.TempDir(), "goprice.yaml")
	if err := os.WriteFile(p, []byte("llm:\n  temperature: 0\n  topK: 0\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	fc, err := LoadConfigFile(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	var cfg Config
	ApplyFileConfig(&cfg, fc)
	ApplyDefaults(&cfg)
	if cfg.LLMTemperature == nil || *cfg.LLMTemperature != 0 {
		t.Fatalf("temperature 0 lost: %v", cfg.LLMTemperature)
	}
	if cfg.LLMTopK == nil || *cfg.LLMTopK != 0 {
		t.Fatalf("topK 0 lost: %v", cfg.LLMTopK)
	}
	if cfg.LLMTopP == nil || *cfg.LLMTopP != *DefaultConfig().LLMTopP {
		t.Fatalf("unset topP should take the default: %v", cfg.LLMTopP)
	}
}

func TestApplyEnvToConfig_ZeroTemperature(t *testing.T) {
	t.Setenv("LLM_TEMPERATURE", "0")
	var cfg Config
	ApplyEnvToConfig(&cfg)
	ApplyDefaults(&cfg)
	if cfg.LLMTemperature == nil || *cfg.LLMTemperature != 0 {
		t.Fatalf("temperature 0 lost: %v", cfg.LLMTemperature)
	}
}

func TestValidateConfig_SamplingRanges(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SearchAPIKey = "k"
	cfg.LLMTemperature = ptr(-1.0)
	cfg.LLMTopP = ptr(1.5)
	err := ValidateConfig(cfg)
	if err == nil || !strings.Contains(err.Error(), "llm.temperature") || !strings.Contains(err.Error(), "llm.topP") {
		t.Fatalf("expected sampling errors, got %v", err)
	}
	cfg.LLMTemperature = ptr(0.0)
	cfg.LLMTopP = ptr(0.7)
	if err := ValidateConfig(cfg); err != nil {
		t.Fatalf("zero temperature should be valid: %v", err)
	}
}
