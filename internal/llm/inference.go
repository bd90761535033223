package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Inference implements Client against a native /inference endpoint that takes
// the full sampling parameter set and answers with
// {"output": {"choices": [{"text": "..."}]}}.
type Inference struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
	UserAgent  string // optional
}

type inferenceRequest struct {
	Model             string   `json:"model"`
	Prompt            string   `json:"prompt"`
	MaxTokens         int      `json:"max_tokens"`
	Temperature       float32  `json:"temperature"`
	TopP              float32  `json:"top_p"`
	TopK              int      `json:"top_k"`
	RepetitionPenalty float32  `json:"repetition_penalty"`
	Stop              []string `json:"stop"`
}

type inferenceResponse struct {
	Output *struct {
		Choices []struct {
			Text *string `json:"text"`
		} `json:"choices"`
	} `json:"output"`
}

func (c *Inference) Complete(ctx context.Context, req Request) (string, error) {
	if c == nil || strings.TrimSpace(c.BaseURL) == "" {
		return "", errors.New("missing inference base url")
	}
	stop := req.Stop
	if stop == nil {
		stop = []string{}
	}
	payload, err := json.Marshal(inferenceRequest{
		Model:             req.Model,
		Prompt:            req.Prompt,
		MaxTokens:         req.MaxTokens,
		Temperature:       req.Temperature,
		TopP:              req.TopP,
		TopK:              req.TopK,
		RepetitionPenalty: req.RepetitionPenalty,
		Stop:              stop,
	})
	if err != nil {
		return "", err
	}
	u := strings.TrimRight(c.BaseURL, "/")
	if !strings.HasSuffix(u, "/inference") {
		u += "/inference"
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.APIKey)
	}
	if c.UserAgent != "" {
		httpReq.Header.Set("User-Agent", c.UserAgent)
	}
	hc := c.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 20 * time.Second}
	}
	resp, err := hc.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("inference status: %d", resp.StatusCode)
	}
	var ir inferenceResponse
	if err := json.NewDecoder(resp.Body).Decode(&ir); err != nil {
		return "", fmt.Errorf("decode inference response: %w", err)
	}
	if ir.Output == nil {
		return "", errors.New("inference response missing output")
	}
	if len(ir.Output.Choices) == 0 {
		return "", ErrNoChoices
	}
	if ir.Output.Choices[0].Text == nil {
		return "", errors.New("inference choice missing text")
	}
	return *ir.Output.Choices[0].Text, nil
}
