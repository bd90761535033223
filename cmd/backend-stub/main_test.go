package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hyperifyio/goprice/internal/llm"
	"github.com/hyperifyio/goprice/internal/price"
	"github.com/hyperifyio/goprice/internal/query"
	"github.com/hyperifyio/goprice/internal/search"
)

func TestStub_ServesBothBackends(t *testing.T) {
	srv := httptest.NewServer(newMux("test-model", defaultOrganic))
	defer srv.Close()
	hc := &http.Client{Timeout: 5 * time.Second}
	ctx := context.Background()

	gen := &query.LLMGenerator{
		Client: &llm.Inference{BaseURL: srv.URL, APIKey: "k", HTTPClient: hc},
		Model:  "test-model",
		Region: "Guatemala",
		Params: query.DefaultParams(),
	}
	q, err := gen.Generate(ctx, "licuadora")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if q != "licuadora precio más bajo" {
		t.Fatalf("unexpected query %q", q)
	}

	set, err := (&search.Serper{BaseURL: srv.URL, APIKey: "k", Country: "gt", Language: "es", HTTPClient: hc}).Search(ctx, q)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	best, ok := price.Quetzal().Lowest(&set)
	if !ok || best.Link != "https://tiendados.com/especial" || best.Price != 899 {
		t.Fatalf("unexpected best %+v ok=%v", best, ok)
	}
}

func TestStub_OpenAICompletions(t *testing.T) {
	srv := httptest.NewServer(newMux("test-model", defaultOrganic))
	defer srv.Close()
	p := llm.NewOpenAIProvider(srv.URL+"/v1", "k", &http.Client{Timeout: 5 * time.Second})
	got, err := p.Complete(context.Background(), llm.Request{Model: "test-model", Prompt: query.BuildPrompt("tv", "", ""), MaxTokens: 10})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if got != "tv precio más bajo" {
		t.Fatalf("unexpected completion %q", got)
	}
}

func TestStub_SearchRequiresKey(t *testing.T) {
	srv := httptest.NewServer(newMux("m", defaultOrganic))
	defer srv.Close()
	_, err := (&search.Serper{BaseURL: srv.URL, HTTPClient: &http.Client{Timeout: 5 * time.Second}}).Search(context.Background(), "x")
	if err == nil {
		t.Fatalf("expected error without key")
	}
}
