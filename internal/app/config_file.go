package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/text/language"
	yaml "gopkg.in/yaml.v3"
)

// FileConfig represents the single-file configuration schema.
type FileConfig struct {
	LLM struct {
		API               string  `yaml:"api" json:"api"`
		BaseURL           string  `yaml:"base" json:"base"`
		Model             string  `yaml:"model" json:"model"`
		APIKey            string  `yaml:"key" json:"key"`
		MaxTokens         int      `yaml:"maxTokens" json:"maxTokens"`
		Temperature       *float64 `yaml:"temperature" json:"temperature"`
		TopP              *float64 `yaml:"topP" json:"topP"`
		TopK              *int     `yaml:"topK" json:"topK"`
		RepetitionPenalty *float64 `yaml:"repetitionPenalty" json:"repetitionPenalty"`
	} `yaml:"llm" json:"llm"`

	Search struct {
		URL      string `yaml:"url" json:"url"`
		Key      string `yaml:"key" json:"key"`
		Country  string `yaml:"country" json:"country"`
		Language string `yaml:"language" json:"language"`
		File     string `yaml:"file" json:"file"`
		UA       string `yaml:"ua" json:"ua"`
	} `yaml:"search" json:"search"`

	Query struct {
		FallbackTemplate string `yaml:"fallbackTemplate" json:"fallbackTemplate"`
	} `yaml:"query" json:"query"`

	Price struct {
		Marker   string   `yaml:"marker" json:"marker"`
		Keywords []string `yaml:"keywords" json:"keywords"`
	} `yaml:"price" json:"price"`

	HTTPTimeout time.Duration `yaml:"httpTimeout" json:"httpTimeout"`
	Verbose     bool          `yaml:"verbose" json:"verbose"`
	OutputPDF   string        `yaml:"outputPDF" json:"outputPDF"`
	ReportsDir  string        `yaml:"reportsDir" json:"reportsDir"`
}

// LoadConfigFile reads YAML or JSON into FileConfig.
func LoadConfigFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	switch ext := filepath.Ext(path); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse json: %w", err)
		}
	default:
		// Try YAML then JSON
		if err := yaml.Unmarshal(b, &fc); err != nil {
			if jerr := json.Unmarshal(b, &fc); jerr != nil {
				return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
			}
		}
	}
	return fc, nil
}

// ApplyFileConfig overlays values from FileConfig into cfg for any fields that
// are unset or still at their default. Flags and env have already been
// applied, so explicit values survive.
func ApplyFileConfig(cfg *Config, fc FileConfig) {
	if cfg == nil {
		return
	}
	d := DefaultConfig()

	str := func(dst *string, def, v string) {
		if (*dst == "" || *dst == def) && v != "" {
			*dst = v
		}
	}
	str(&cfg.LLMAPI, d.LLMAPI, fc.LLM.API)
	str(&cfg.LLMBaseURL, d.LLMBaseURL, fc.LLM.BaseURL)
	str(&cfg.LLMModel, d.LLMModel, fc.LLM.Model)
	str(&cfg.LLMAPIKey, "", fc.LLM.APIKey)
	str(&cfg.SearchURL, d.SearchURL, fc.Search.URL)
	str(&cfg.SearchAPIKey, "", fc.Search.Key)
	str(&cfg.Country, d.Country, fc.Search.Country)
	str(&cfg.Language, d.Language, fc.Search.Language)
	str(&cfg.SearchFile, "", fc.Search.File)
	str(&cfg.UserAgent, d.UserAgent, fc.Search.UA)
	str(&cfg.FallbackTemplate, d.FallbackTemplate, fc.Query.FallbackTemplate)
	str(&cfg.PriceMarker, d.PriceMarker, fc.Price.Marker)
	str(&cfg.PDFPath, "", fc.OutputPDF)
	str(&cfg.ReportsDir, "", fc.ReportsDir)

	if (cfg.LLMMaxTokens == 0 || cfg.LLMMaxTokens == d.LLMMaxTokens) && fc.LLM.MaxTokens > 0 {
		cfg.LLMMaxTokens = fc.LLM.MaxTokens
	}
	overlayFloat(&cfg.LLMTemperature, d.LLMTemperature, fc.LLM.Temperature)
	overlayFloat(&cfg.LLMTopP, d.LLMTopP, fc.LLM.TopP)
	overlayFloat(&cfg.LLMRepetitionPenalty, d.LLMRepetitionPenalty, fc.LLM.RepetitionPenalty)
	if fc.LLM.TopK != nil && (cfg.LLMTopK == nil || *cfg.LLMTopK == *d.LLMTopK) {
		cfg.LLMTopK = ptr(*fc.LLM.TopK)
	}
	if (len(cfg.PriceKeywords) == 0 || slices.Equal(cfg.PriceKeywords, d.PriceKeywords)) && len(fc.Price.Keywords) > 0 {
		cfg.PriceKeywords = append([]string{}, fc.Price.Keywords...)
	}
	if (cfg.HTTPTimeout == 0 || cfg.HTTPTimeout == d.HTTPTimeout) && fc.HTTPTimeout > 0 {
		cfg.HTTPTimeout = fc.HTTPTimeout
	}
	if !cfg.Verbose && fc.Verbose {
		cfg.Verbose = true
	}
}

// overlayFloat sets *dst from v when v is present and *dst is unset or still
// at its default.
func overlayFloat(dst **float64, def, v *float64) {
	if v == nil {
		return
	}
	if *dst == nil || **dst == *def {
		*dst = ptr(*v)
	}
}

// ValidateConfig reports every problem at once. A missing text-generation key
// is not an error: the fallback query keeps the pipeline usable.
func ValidateConfig(cfg Config) error {
	var result *multierror.Error
	add := func(msg string) { result = multierror.Append(result, errors.New(msg)) }

	switch cfg.LLMAPI {
	case LLMAPIInference, LLMAPIOpenAI:
	default:
		add(fmt.Sprintf("config: llm.api must be %q or %q, got %q", LLMAPIInference, LLMAPIOpenAI, cfg.LLMAPI))
	}
	if strings.TrimSpace(cfg.LLMModel) == "" {
		add("config: llm.model is required (or set LLM_MODEL)")
	}
	if cfg.LLMMaxTokens <= 0 {
		add("config: llm.maxTokens must be positive")
	}
	if t := deref(cfg.LLMTemperature, 0); t < 0 || t > 2 {
		add(fmt.Sprintf("config: llm.temperature must be between 0 and 2, got %g", t))
	}
	if p := deref(cfg.LLMTopP, 1); p < 0 || p > 1 {
		add(fmt.Sprintf("config: llm.topP must be between 0 and 1, got %g", p))
	}
	if k := deref(cfg.LLMTopK, 0); k < 0 {
		add(fmt.Sprintf("config: llm.topK must not be negative, got %d", k))
	}
	if strings.TrimSpace(cfg.SearchFile) == "" && strings.TrimSpace(cfg.SearchAPIKey) == "" {
		add("config: search key is required (set SERPER_API_KEY) unless search.file is used")
	}
	if _, err := language.ParseRegion(cfg.Country); err != nil {
		add(fmt.Sprintf("config: search.country %q is not a region code", cfg.Country))
	}
	if _, err := language.ParseBase(cfg.Language); err != nil {
		add(fmt.Sprintf("config: search.language %q is not a language code", cfg.Language))
	}
	if cfg.HTTPTimeout < time.Second || cfg.HTTPTimeout > time.Minute {
		add(fmt.Sprintf("config: httpTimeout must be between 1s and 1m, got %s", cfg.HTTPTimeout))
	}
	if strings.TrimSpace(cfg.PriceMarker) == "" {
		add("config: price.marker is required")
	}
	if len(cfg.PriceKeywords) == 0 {
		add("config: price.keywords must not be empty")
	}
	return result.ErrorOrNil()
}
