package app

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// ApplyEnvToConfig populates unset fields of cfg from environment variables.
// Explicit cfg values take precedence over env. The two secrets are read only
// here: TOGETHER_API_KEY (or LLM_API_KEY) and SERPER_API_KEY (or SEARCH_API_KEY).
func ApplyEnvToConfig(cfg *Config) {
	if cfg == nil {
		return
	}

	setString := func(dst *string, keys ...string) {
		if *dst != "" {
			return
		}
		for _, k := range keys {
			if v := strings.TrimSpace(os.Getenv(k)); v != "" {
				*dst = v
				return
			}
		}
	}
	setString(&cfg.LLMAPIKey, "TOGETHER_API_KEY", "LLM_API_KEY")
	setString(&cfg.SearchAPIKey, "SERPER_API_KEY", "SEARCH_API_KEY")

	setString(&cfg.LLMAPI, "LLM_API")
	setString(&cfg.LLMBaseURL, "LLM_BASE_URL")
	setString(&cfg.LLMModel, "LLM_MODEL")
	setString(&cfg.SearchURL, "SEARCH_URL")
	setString(&cfg.Country, "SEARCH_COUNTRY")
	setString(&cfg.Language, "SEARCH_LANGUAGE")
	setString(&cfg.SearchFile, "SEARCH_FILE")
	setString(&cfg.FallbackTemplate, "FALLBACK_TEMPLATE")
	setString(&cfg.PriceMarker, "PRICE_MARKER")
	setString(&cfg.PDFPath, "OUTPUT_PDF")
	setString(&cfg.ReportsDir, "REPORTS_DIR")
	setString(&cfg.UserAgent, "SEARCH_UA")

	if len(cfg.PriceKeywords) == 0 {
		if v := strings.TrimSpace(os.Getenv("PRICE_KEYWORDS")); v != "" {
			cfg.PriceKeywords = SplitList(v)
		}
	}

	if cfg.LLMMaxTokens == 0 {
		if n, err := strconv.Atoi(strings.TrimSpace(os.Getenv("LLM_MAX_TOKENS"))); err == nil && n > 0 {
			cfg.LLMMaxTokens = n
		}
	}

	setFloat := func(dst **float64, key string) {
		if *dst != nil {
			return
		}
		if v, err := strconv.ParseFloat(strings.TrimSpace(os.Getenv(key)), 64); err == nil {
			*dst = &v
		}
	}
	setFloat(&cfg.LLMTemperature, "LLM_TEMPERATURE")
	setFloat(&cfg.LLMTopP, "LLM_TOP_P")
	setFloat(&cfg.LLMRepetitionPenalty, "LLM_REPETITION_PENALTY")
	if cfg.LLMTopK == nil {
		if n, err := strconv.Atoi(strings.TrimSpace(os.Getenv("LLM_TOP_K"))); err == nil {
			cfg.LLMTopK = &n
		}
	}

	if cfg.HTTPTimeout == 0 {
		if s := os.Getenv("HTTP_TIMEOUT"); s != "" {
			if d, err := time.ParseDuration(s); err == nil {
				cfg.HTTPTimeout = d
			}
		}
	}

	if !cfg.Verbose {
		if s := strings.ToLower(strings.TrimSpace(os.Getenv("VERBOSE"))); s != "" {
			if s == "1" || s == "true" || s == "yes" || s == "on" {
				cfg.Verbose = true
			}
		}
	}
}

// SplitList splits a comma-separated list, dropping blanks.
func SplitList(s string) []string {
	parts := strings.Split(s, ",")
	list := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			list = append(list, v)
		}
	}
	return list
}
