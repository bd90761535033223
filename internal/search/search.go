package search

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
)

var errNoProvider = errors.New("no search provider configured")

// Result is a single organic search hit.
type Result struct {
	Title    string `json:"title"`
	Link     string `json:"link"`
	Snippet  string `json:"snippet,omitempty"`
	Position int    `json:"position,omitempty"`
}

// ResultSet is the parsed response of one search request. A nil Organic
// means the backend response carried no organic field at all.
type ResultSet struct {
	Organic []Result `json:"organic"`
}

// Provider is a minimal interface for search providers.
type Provider interface {
	Search(ctx context.Context, query string) (ResultSet, error)
	Name() string
}

// Outcome is the explicit result of a lookup. Set is nil when the provider
// was unavailable; Err then holds the reason.
type Outcome struct {
	Set *ResultSet
	Err error
}

// Unavailable reports whether the lookup produced no result set.
func (o Outcome) Unavailable() bool { return o.Set == nil }

// Lookup runs one search and converts failures into an unavailable outcome
// after logging them.
func Lookup(ctx context.Context, p Provider, query string) Outcome {
	if p == nil {
		err := errNoProvider
		zerolog.Ctx(ctx).Warn().Err(err).Str("query", query).Msg("search unavailable")
		return Outcome{Err: err}
	}
	set, err := p.Search(ctx, query)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("provider", p.Name()).Str("query", query).Msg("search error")
		return Outcome{Err: err}
	}
	zerolog.Ctx(ctx).Debug().Str("provider", p.Name()).Int("organic", len(set.Organic)).Msg("search results")
	return Outcome{Set: &set}
}
