package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/xid"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"github.com/hyperifyio/goprice/internal/llm"
	"github.com/hyperifyio/goprice/internal/price"
	"github.com/hyperifyio/goprice/internal/query"
	"github.com/hyperifyio/goprice/internal/search"
)

// ErrEmptyProduct is recorded on the outcome when the product name is blank.
// No network call is made in that case.
var ErrEmptyProduct = errors.New("product name is empty")

// App wires the query generator, the search provider and the price
// heuristic. It holds no per-run state and is safe for concurrent use.
type App struct {
	cfg       Config
	query     *query.Generator
	provider  search.Provider
	heuristic price.Heuristic
}

// New builds an App from an already validated Config.
func New(cfg Config) (*App, error) {
	region, err := language.ParseRegion(cfg.Country)
	if err != nil {
		return nil, fmt.Errorf("parse country: %w", err)
	}
	base, err := language.ParseBase(cfg.Language)
	if err != nil {
		return nil, fmt.Errorf("parse language: %w", err)
	}
	locale, err := language.Compose(base, region)
	if err != nil {
		locale = language.Make(cfg.Language)
	}
	regionName := display.English.Regions().Name(region)
	langName := display.English.Languages().Name(base)

	hc := newHTTPClient(cfg.HTTPTimeout)
	dp := query.DefaultParams()

	var client llm.Client
	switch cfg.LLMAPI {
	case LLMAPIOpenAI:
		client = llm.NewOpenAIProvider(cfg.LLMBaseURL, cfg.LLMAPIKey, hc)
	default:
		client = &llm.Inference{BaseURL: cfg.LLMBaseURL, APIKey: cfg.LLMAPIKey, HTTPClient: hc, UserAgent: cfg.UserAgent}
	}
	if strings.TrimSpace(cfg.LLMAPIKey) == "" {
		log.Warn().Msg("no text-generation key configured; queries will likely use the fallback template")
	}

	a := &App{
		cfg: cfg,
		query: &query.Generator{
			LLM: &query.LLMGenerator{
				Client:   client,
				Model:    cfg.LLMModel,
				Region:   regionName,
				Language: langName,
				Params: query.Params{
					MaxTokens:         cfg.LLMMaxTokens,
					Temperature:       float32(deref(cfg.LLMTemperature, float64(dp.Temperature))),
					TopP:              float32(deref(cfg.LLMTopP, float64(dp.TopP))),
					TopK:              deref(cfg.LLMTopK, dp.TopK),
					RepetitionPenalty: float32(deref(cfg.LLMRepetitionPenalty, float64(dp.RepetitionPenalty))),
					Stop:              []string{"\n"},
				},
			},
			Fallback: &query.FallbackGenerator{Template: cfg.FallbackTemplate, Region: regionName},
		},
		heuristic: price.Heuristic{
			Marker:   strings.ToLower(cfg.PriceMarker),
			Keywords: lowerAll(cfg.PriceKeywords),
			Locale:   locale,
		},
	}
	if strings.TrimSpace(cfg.SearchFile) != "" {
		a.provider = &search.FileProvider{Path: cfg.SearchFile}
	} else {
		a.provider = &search.Serper{
			BaseURL:    cfg.SearchURL,
			APIKey:     cfg.SearchAPIKey,
			Country:    strings.ToLower(region.String()),
			Language:   base.String(),
			HTTPClient: hc,
			UserAgent:  cfg.UserAgent,
		}
	}
	return a, nil
}

// Close releases idle connections.
func (a *App) Close() {
	if s, ok := a.provider.(*search.Serper); ok && s.HTTPClient != nil {
		s.HTTPClient.CloseIdleConnections()
	}
}

// Config returns the configuration the App was built with.
func (a *App) Config() Config { return a.cfg }

// FindLowestPrice runs query generation, search and price extraction in
// sequence. It always returns a terminal outcome.
func (a *App) FindLowestPrice(ctx context.Context, product string) Outcome {
	runID := xid.New().String()
	// Only the empty string is rejected; whitespace is trimmed when something
	// else remains.
	if t := strings.TrimSpace(product); t != "" {
		product = t
	}
	out := Outcome{RunID: runID, Product: product}
	if product == "" {
		out.Status = StatusInvalidInput
		out.InputErr = ErrEmptyProduct
		return out
	}

	logger := log.With().Str("run_id", runID).Logger()
	ctx = logger.WithContext(ctx)

	// 1) Search query (LLM first with fallback)
	q := a.query.Generate(ctx, product)
	out.Query, out.QueryFallback, out.GenerationErr = q.Query, q.Fallback, q.Err
	logger.Info().Str("query", q.Query).Bool("fallback", q.Fallback).Msg("search query ready")

	// 2) Search
	res := search.Lookup(ctx, a.provider, q.Query)
	out.SearchErr = res.Err

	// 3) Lowest price
	out.Candidates = a.heuristic.Scan(res.Set)
	best, ok := price.Min(out.Candidates)
	if !ok || best.Link == "" {
		out.Status = StatusNotFound
		logger.Info().Int("candidates", len(out.Candidates)).Bool("search_unavailable", res.Unavailable()).Msg("no price found")
		return out
	}
	out.Status = StatusFound
	out.Link = best.Link
	out.Title = best.Title
	out.Price = best.Price
	out.Store = storeDomain(best.Link)
	logger.Info().Str("link", best.Link).Float64("price", best.Price).Str("store", out.Store).Msg("lowest price found")
	for i, c := range out.Candidates {
		logger.Debug().Int("index", i).Float64("price", c.Price).Str("title", c.Title).Msg("candidate")
	}
	return out
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}
