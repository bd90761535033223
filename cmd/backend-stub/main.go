package main

import (
	"encoding/json"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type inferenceRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type searchRequest struct {
	Q  string `json:"q"`
	GL string `json:"gl"`
	HL string `json:"hl"`
}

var defaultOrganic = []map[string]any{
	{"title": "Producto en oferta 1,299 Q - Tienda Uno", "link": "https://www.tiendauno.com.gt/oferta", "position": 1},
	{"title": "Precio especial 899 Q | Tienda Dos", "link": "https://tiendados.com/especial", "position": 2},
	{"title": "Opiniones y reseñas", "link": "https://blog.example.com/resenas", "position": 3},
}

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	model := os.Getenv("MODEL_ID")
	if strings.TrimSpace(model) == "" {
		model = "test-model"
	}
	addr := os.Getenv("ADDR")
	if strings.TrimSpace(addr) == "" {
		addr = ":8081"
	}
	organic := defaultOrganic
	if p := strings.TrimSpace(os.Getenv("SEARCH_FIXTURE")); p != "" {
		loaded, err := loadFixture(p)
		if err != nil {
			log.Fatal().Err(err).Str("path", p).Msg("load search fixture")
		}
		organic = loaded
	}

	srv := &http.Server{Addr: addr, Handler: newMux(model, organic), ReadHeaderTimeout: 5 * time.Second}
	log.Info().Str("addr", addr).Str("model", model).Int("results", len(organic)).Msg("backend-stub listening")
	if err := srv.ListenAndServe(); err != nil {
		log.Fatal().Err(err).Msg("serve")
	}
}

func loadFixture(path string) ([]map[string]any, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc struct {
		Organic []map[string]any `json:"organic"`
	}
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, err
	}
	return doc.Organic, nil
}

// newMux fakes both backends. The generated query is derived from the
// product named in the prompt so runs are reproducible.
func newMux(model string, organic []map[string]any) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/inference", func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		var req inferenceRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Prompt) == "" {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		log.Debug().Str("model", req.Model).Msg("inference")
		writeJSON(w, map[string]any{
			"output": map[string]any{"choices": []map[string]any{{"text": queryFor(req.Prompt)}}},
		})
	})
	mux.HandleFunc("/v1/models", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"data": []map[string]any{{"id": model, "object": "model"}}})
	})
	mux.HandleFunc("/v1/completions", func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		var req inferenceRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		writeJSON(w, map[string]any{
			"id":      "cmpl-stub",
			"object":  "text_completion",
			"model":   model,
			"choices": []map[string]any{{"index": 0, "text": queryFor(req.Prompt), "finish_reason": "stop"}},
		})
	})
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		if strings.TrimSpace(r.Header.Get("X-API-KEY")) == "" {
			http.Error(w, "missing api key", http.StatusUnauthorized)
			return
		}
		var req searchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		log.Debug().Str("q", req.Q).Str("gl", req.GL).Str("hl", req.HL).Msg("search")
		writeJSON(w, map[string]any{
			"searchParameters": map[string]any{"q": req.Q, "gl": req.GL, "hl": req.HL},
			"organic":          organic,
		})
	})
	return mux
}

// queryFor extracts the quoted product from the prompt.
func queryFor(prompt string) string {
	product := "producto"
	if i := strings.Index(prompt, "'"); i >= 0 {
		if j := strings.Index(prompt[i+1:], "'"); j > 0 {
			product = prompt[i+1 : i+1+j]
		}
	}
	return product + " precio más bajo"
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
