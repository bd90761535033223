package llm

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// Request carries the sampling parameters for a single-prompt text completion.
type Request struct {
	Model             string
	Prompt            string
	MaxTokens         int
	Temperature       float32
	TopP              float32
	TopK              int
	RepetitionPenalty float32
	Stop              []string
}

// Client is the minimal interface the query generator needs from a text
// generation backend. Implementations return the raw text of the first choice.
type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// ErrNoChoices is returned when a backend answers without any generated choice.
var ErrNoChoices = errors.New("no choices")

// OpenAIProvider adapts *openai.Client to Client using the legacy completions
// endpoint, which OpenAI-compatible hosts expose as /v1/completions.
// TopK and RepetitionPenalty have no field in that API and are not sent.
type OpenAIProvider struct {
	Inner *openai.Client
}

// NewOpenAIProvider builds a provider against baseURL (for example
// "https://api.together.xyz/v1"). A bare host gets the "/v1" prefix; an empty
// baseURL keeps the library default.
func NewOpenAIProvider(baseURL, apiKey string, hc *http.Client) *OpenAIProvider {
	cfg := openai.DefaultConfig(apiKey)
	if strings.TrimSpace(baseURL) != "" {
		cfg.BaseURL = openAIBase(baseURL)
	}
	if hc != nil {
		cfg.HTTPClient = hc
	}
	return &OpenAIProvider{Inner: openai.NewClientWithConfig(cfg)}
}

func (p *OpenAIProvider) Complete(ctx context.Context, req Request) (string, error) {
	if p == nil || p.Inner == nil {
		return "", errors.New("openai provider not configured")
	}
	resp, err := p.Inner.CreateCompletion(ctx, openai.CompletionRequest{
		Model:       req.Model,
		Prompt:      req.Prompt,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
		TopP:        req.TopP,
		Stop:        req.Stop,
		N:           1,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", ErrNoChoices
	}
	return resp.Choices[0].Text, nil
}

func openAIBase(baseURL string) string {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	u, err := url.Parse(base)
	if err != nil || u.Path != "" {
		return base
	}
	return base + "/v1"
}
