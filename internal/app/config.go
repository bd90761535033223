package app

import (
	"time"

	"github.com/hyperifyio/goprice/internal/query"
	"github.com/hyperifyio/goprice/internal/search"
)

// Backend selectors for text generation.
const (
	LLMAPIInference = "inference"
	LLMAPIOpenAI    = "openai"
)

// Config holds runtime configuration for the application. Secrets are kept
// here so components receive them explicitly rather than reading the
// environment themselves.
type Config struct {
	// Text generation
	LLMAPI               string
	LLMBaseURL           string
	LLMModel             string
	LLMAPIKey            string
	LLMMaxTokens int
	// Sampling parameters; nil means unset, so an explicit zero survives.
	LLMTemperature       *float64
	LLMTopP              *float64
	LLMTopK              *int
	LLMRepetitionPenalty *float64

	// Search
	SearchURL    string
	SearchAPIKey string
	Country      string
	Language     string
	SearchFile   string
	UserAgent    string

	// Query and price heuristic
	FallbackTemplate string
	PriceMarker      string
	PriceKeywords    []string

	// Behavior
	HTTPTimeout time.Duration
	Verbose     bool
	PDFPath     string
	ReportsDir  string
}

// Defaults mirror the flag defaults of the CLI.
const (
	defaultLLMBaseURL  = "https://api.together.xyz"
	defaultLLMModel    = "togethercomputer/llama-2-70b-chat"
	defaultCountry     = "gt"
	defaultLanguage    = "es"
	defaultUserAgent   = "goprice/1.0 (+https://github.com/hyperifyio/goprice)"
	defaultHTTPTimeout = 20 * time.Second
	defaultMarker      = "q"
)

var defaultKeywords = []string{"q", "quetzal", "precio"}

// DefaultConfig returns a Config with every non-secret field set to its default.
func DefaultConfig() Config {
	p := query.DefaultParams()
	return Config{
		LLMAPI:               LLMAPIInference,
		LLMBaseURL:           defaultLLMBaseURL,
		LLMModel:             defaultLLMModel,
		LLMMaxTokens:         p.MaxTokens,
		LLMTemperature:       ptr(float64(p.Temperature)),
		LLMTopP:              ptr(float64(p.TopP)),
		LLMTopK:              ptr(p.TopK),
		LLMRepetitionPenalty: ptr(float64(p.RepetitionPenalty)),
		SearchURL:            search.DefaultSerperURL,
		Country:              defaultCountry,
		Language:             defaultLanguage,
		UserAgent:            defaultUserAgent,
		FallbackTemplate:     query.DefaultFallbackTemplate,
		PriceMarker:          defaultMarker,
		PriceKeywords:        append([]string{}, defaultKeywords...),
		HTTPTimeout:          defaultHTTPTimeout,
	}
}

// ApplyDefaults fills every field still at its zero value. It runs last, after
// flags, environment and the config file have been applied.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}
	d := DefaultConfig()
	str := func(dst *string, def string) {
		if *dst == "" {
			*dst = def
		}
	}
	str(&cfg.LLMAPI, d.LLMAPI)
	str(&cfg.LLMBaseURL, d.LLMBaseURL)
	str(&cfg.LLMModel, d.LLMModel)
	str(&cfg.SearchURL, d.SearchURL)
	str(&cfg.Country, d.Country)
	str(&cfg.Language, d.Language)
	str(&cfg.UserAgent, d.UserAgent)
	str(&cfg.FallbackTemplate, d.FallbackTemplate)
	str(&cfg.PriceMarker, d.PriceMarker)
	if cfg.LLMMaxTokens == 0 {
		cfg.LLMMaxTokens = d.LLMMaxTokens
	}
	if cfg.LLMTemperature == nil {
		cfg.LLMTemperature = d.LLMTemperature
	}
	if cfg.LLMTopP == nil {
		cfg.LLMTopP = d.LLMTopP
	}
	if cfg.LLMTopK == nil {
		cfg.LLMTopK = d.LLMTopK
	}
	if cfg.LLMRepetitionPenalty == nil {
		cfg.LLMRepetitionPenalty = d.LLMRepetitionPenalty
	}
	if len(cfg.PriceKeywords) == 0 {
		cfg.PriceKeywords = d.PriceKeywords
	}
	if cfg.HTTPTimeout == 0 {
		cfg.HTTPTimeout = d.HTTPTimeout
	}
}

func ptr[T any](v T) *T { return &v }

// deref returns *p, or def when p is nil.
func deref[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}
