package app

import (
	"net/url"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/net/publicsuffix"

	"github.com/hyperifyio/goprice/internal/price"
)

// Status is the terminal state of one lookup.
type Status int

const (
	StatusNotFound Status = iota
	StatusFound
	StatusInvalidInput
)

func (s Status) String() string {
	switch s {
	case StatusFound:
		return "found"
	case StatusInvalidInput:
		return "invalid_input"
	default:
		return "not_found"
	}
}

// Outcome is everything a caller needs to render the result of
// FindLowestPrice. Stage failures are recorded, never returned.
type Outcome struct {
	RunID   string
	Product string
	Status  Status

	Query         string
	QueryFallback bool

	Link  string
	Title string
	Price float64
	Store string

	// Candidates lists every title that produced a price, in result order.
	Candidates []price.Candidate

	InputErr      error
	GenerationErr error
	SearchErr     error
}

// Found reports whether a link is available.
func (o Outcome) Found() bool { return o.Status == StatusFound && o.Link != "" }

// storeDomain returns the registrable domain of link, e.g. "pacifiko.com"
// for "https://www.pacifiko.com/p/1". Empty when link is not a URL.
func storeDomain(link string) string {
	u, err := url.Parse(strings.TrimSpace(link))
	if err != nil || u.Hostname() == "" {
		return ""
	}
	host := strings.ToLower(u.Hostname())
	d, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return host
	}
	return d
}

var _ zerolog.LogObjectMarshaler = Outcome{}

// MarshalZerologObject lets callers log an outcome as one structured field.
func (o Outcome) MarshalZerologObject(e *zerolog.Event) {
	e.Str("run_id", o.RunID).Str("status", o.Status.String()).Str("query", o.Query).Bool("query_fallback", o.QueryFallback)
	if o.Link != "" {
		e.Str("link", o.Link).Float64("price", o.Price)
	}
	if o.SearchErr != nil {
		e.AnErr("search_err", o.SearchErr)
	}
	if o.GenerationErr != nil {
		e.AnErr("generation_err", o.GenerationErr)
	}
}
