package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// DefaultSerperURL is the public endpoint of the Serper Google Search API.
const DefaultSerperURL = "https://google.serper.dev"

// Serper implements Provider against a Serper-compatible /search endpoint.
// Every request is scoped to one country (gl) and one interface language (hl).
type Serper struct {
	BaseURL    string
	APIKey     string
	Country    string // e.g. "gt"
	Language   string // e.g. "es"
	HTTPClient *http.Client
	UserAgent  string // optional custom UA
}

func (s *Serper) Name() string { return "serper" }

type serperRequest struct {
	Q  string `json:"q"`
	GL string `json:"gl"`
	HL string `json:"hl"`
}

type serperResponse struct {
	Organic []struct {
		Title    string `json:"title"`
		Link     string `json:"link"`
		Snippet  string `json:"snippet"`
		Position int    `json:"position"`
	} `json:"organic"`
}

func (s *Serper) Search(ctx context.Context, query string) (ResultSet, error) {
	base := strings.TrimSpace(s.BaseURL)
	if base == "" {
		base = DefaultSerperURL
	}
	u := strings.TrimRight(base, "/")
	if !strings.HasSuffix(u, "/search") {
		u += "/search"
	}
	payload, err := json.Marshal(serperRequest{Q: query, GL: s.Country, HL: s.Language})
	if err != nil {
		return ResultSet{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(payload))
	if err != nil {
		return ResultSet{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-KEY", s.APIKey)
	if s.UserAgent != "" {
		req.Header.Set("User-Agent", s.UserAgent)
	}
	hc := s.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 20 * time.Second}
	}
	resp, err := hc.Do(req)
	if err != nil {
		return ResultSet{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return ResultSet{}, fmt.Errorf("serper status: %d", resp.StatusCode)
	}
	var sr serperResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return ResultSet{}, fmt.Errorf("decode serper response: %w", err)
	}
	if sr.Organic == nil {
		return ResultSet{}, nil
	}
	out := make([]Result, 0, len(sr.Organic))
	for _, r := range sr.Organic {
		out = append(out, Result{
			Title:    strings.TrimSpace(r.Title),
			Link:     strings.TrimSpace(r.Link),
			Snippet:  strings.TrimSpace(r.Snippet),
			Position: r.Position,
		})
	}
	return ResultSet{Organic: out}, nil
}
