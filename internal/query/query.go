// Package query turns a product description into a web search query, asking a
// text-generation backend first and falling back to a fixed template.
package query

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/hyperifyio/goprice/internal/llm"
)

// DefaultFallbackTemplate is used when no template is configured. {product}
// and {region} are replaced verbatim.
const DefaultFallbackTemplate = "lowest price of {product} in {region}"

// Params holds the sampling settings sent with every generation request.
type Params struct {
	MaxTokens         int
	Temperature       float32
	TopP              float32
	TopK              int
	RepetitionPenalty float32
	Stop              []string
}

// DefaultParams returns the settings the tool ships with: one short line of
// moderately creative text.
func DefaultParams() Params {
	return Params{
		MaxTokens:         100,
		Temperature:       0.7,
		TopP:              0.7,
		TopK:              50,
		RepetitionPenalty: 1,
		Stop:              []string{"\n"},
	}
}

// LLMGenerator asks a text-generation backend for a single search query.
type LLMGenerator struct {
	Client   llm.Client
	Model    string
	Region   string // display name of the target country, e.g. "Guatemala"
	Language string // display name of the query language, e.g. "Spanish"
	Params   Params
}

// Generate returns the trimmed first line produced by the backend. Any
// transport, status or shape problem is returned as an error so the caller can
// fall back.
func (g *LLMGenerator) Generate(ctx context.Context, product string) (string, error) {
	if g == nil || g.Client == nil || strings.TrimSpace(g.Model) == "" {
		return "", errors.New("query generator not configured")
	}
	prompt := BuildPrompt(product, g.Region, g.Language)
	zerolog.Ctx(ctx).Debug().Str("stage", "query").Str("model", g.Model).Int("prompt_len", len(prompt)).Msg("query prompt")
	text, err := g.Client.Complete(ctx, llm.Request{
		Model:             g.Model,
		Prompt:            prompt,
		MaxTokens:         g.Params.MaxTokens,
		Temperature:       g.Params.Temperature,
		TopP:              g.Params.TopP,
		TopK:              g.Params.TopK,
		RepetitionPenalty: g.Params.RepetitionPenalty,
		Stop:              g.Params.Stop,
	})
	if err != nil {
		return "", fmt.Errorf("query generation call: %w", err)
	}
	q := strings.TrimSpace(text)
	if q == "" {
		return "", errors.New("query generation returned empty text")
	}
	return q, nil
}

// BuildPrompt renders the instruction sent to the backend. The model is told
// to answer with the query alone so the first line can be used as-is.
func BuildPrompt(product, region, lang string) string {
	var sb strings.Builder
	sb.WriteString("Generate a search query to find the lowest price of '")
	sb.WriteString(product)
	sb.WriteString("'")
	if region != "" {
		sb.WriteString(" in ")
		sb.WriteString(region)
	}
	sb.WriteString(". The query must be effective on Google and surface results from online stores")
	if region != "" {
		sb.WriteString(" in ")
		sb.WriteString(region)
	}
	sb.WriteString(".")
	if lang != "" {
		sb.WriteString(" Write the query in ")
		sb.WriteString(lang)
		sb.WriteString(".")
	}
	sb.WriteString(" Respond only with the query, without additional explanations.")
	return sb.String()
}

// FallbackGenerator builds a deterministic query from a template.
type FallbackGenerator struct {
	Template string
	Region   string
}

func (f *FallbackGenerator) Generate(product string) string {
	tpl := DefaultFallbackTemplate
	if f != nil && strings.TrimSpace(f.Template) != "" {
		tpl = f.Template
	}
	region := ""
	if f != nil {
		region = f.Region
	}
	return strings.NewReplacer("{product}", product, "{region}", region).Replace(tpl)
}

// Outcome is the result of a generation attempt. Err is set when the query
// came from the fallback because the backend failed.
type Outcome struct {
	Query    string
	Fallback bool
	Err      error
}

// Generator picks the LLM generator and falls back deterministically.
type Generator struct {
	LLM      *LLMGenerator
	Fallback *FallbackGenerator
}

// Generate never returns an empty query.
func (g *Generator) Generate(ctx context.Context, product string) Outcome {
	var fb *FallbackGenerator
	var gen *LLMGenerator
	if g != nil {
		fb, gen = g.Fallback, g.LLM
	}
	if gen == nil {
		err := errors.New("query generator not configured")
		zerolog.Ctx(ctx).Warn().Err(err).Msg("query generation unavailable, using fallback")
		return Outcome{Query: fb.Generate(product), Fallback: true, Err: err}
	}
	q, err := gen.Generate(ctx, product)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("query generation failed, using fallback")
		return Outcome{Query: fb.Generate(product), Fallback: true, Err: err}
	}
	return Outcome{Query: q}
}
