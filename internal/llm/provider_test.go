package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOpenAIProvider_Complete_UsesCompletionsEndpoint(t *testing.T) {
	var got map[string]any
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "cmpl-1",
			"object":  "text_completion",
			"model":   "m",
			"choices": []map[string]any{{"text": " zapatos nike precio guatemala", "index": 0}},
		})
	}))
	defer srv.Close()

	p := NewOpenAIProvider(srv.URL+"/v1", "k", srv.Client())
	text, err := p.Complete(context.Background(), Request{Model: "meta-llama/Llama-2-70b-chat-hf", Prompt: "p", MaxTokens: 100, Stop: []string{"\n"}})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if text != " zapatos nike precio guatemala" {
		t.Fatalf("unexpected text %q", text)
	}
	if path != "/v1/completions" {
		t.Fatalf("unexpected path %q", path)
	}
	if got["prompt"] != "p" || got["max_tokens"].(float64) != 100 {
		t.Fatalf("unexpected request body: %v", got)
	}
}

func TestOpenAIProvider_Complete_NoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"x","object":"text_completion","choices":[]}`))
	}))
	defer srv.Close()

	p := NewOpenAIProvider(srv.URL, "k", srv.Client())
	if _, err := p.Complete(context.Background(), Request{Model: "m", Prompt: "p"}); err != ErrNoChoices {
		t.Fatalf("expected ErrNoChoices, got %v", err)
	}
}

func TestOpenAIProvider_BareHostGetsV1(t *testing.T) {
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"x","object":"text_completion","choices":[{"text":"q","index":0}]}`))
	}))
	defer srv.Close()

	for _, base := range []string{srv.URL, srv.URL + "/"} {
		path = ""
		p := NewOpenAIProvider(base, "k", srv.Client())
		if _, err := p.Complete(context.Background(), Request{Model: "m", Prompt: "p"}); err != nil {
			t.Fatalf("complete(%q): %v", base, err)
		}
		if path != "/v1/completions" {
			t.Fatalf("base %q hit %q", base, path)
		}
	}
	if got := openAIBase("https://proxy.example/openai/v1/"); got != "https://proxy.example/openai/v1" {
		t.Fatalf("explicit path must be kept, got %q", got)
	}
}
