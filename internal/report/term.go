package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/hyperifyio/goprice/internal/app"
)

var (
	colorSuccess = lipgloss.AdaptiveColor{Light: "#2e7d32", Dark: "#66bb6a"}
	colorError   = lipgloss.AdaptiveColor{Light: "#c62828", Dark: "#ef5350"}
	colorWarning = lipgloss.AdaptiveColor{Light: "#e65100", Dark: "#ffa726"}
	colorLink    = lipgloss.AdaptiveColor{Light: "#0277bd", Dark: "#4fc3f7"}
	colorMuted   = lipgloss.AdaptiveColor{Light: "#757575", Dark: "#9e9e9e"}
)

type styles struct {
	success, fail, warn, link, muted, label lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		success: r.NewStyle().Foreground(colorSuccess).Bold(true),
		fail:    r.NewStyle().Foreground(colorError).Bold(true),
		warn:    r.NewStyle().Foreground(colorWarning).Bold(true),
		link:    r.NewStyle().Foreground(colorLink).Underline(true),
		muted:   r.NewStyle().Foreground(colorMuted),
		label:   r.NewStyle().Bold(true).Width(16),
	}
}

// Options controls terminal rendering.
type Options struct {
	// Candidates lists every priced title below the result.
	Candidates bool
	// ASCII swaps the status glyphs for plain markers.
	ASCII bool
}

// Terminal writes the outcome as styled text. Colors degrade automatically
// when w is not a terminal or NO_COLOR is set.
func Terminal(w io.Writer, o app.Outcome, opts Options) error {
	st := newStyles(w)
	var b strings.Builder

	ok, warn, fail := "✓", "⚠", "✗"
	if opts.ASCII {
		ok, warn, fail = "[OK]", "[!]", "[ERR]"
	}
	switch Classify(o) {
	case KindSuccess:
		b.WriteString(st.success.Render(ok + " " + Headline(o)))
	case KindError:
		b.WriteString(st.fail.Render(fail + " " + Headline(o)))
	default:
		b.WriteString(st.warn.Render(warn + " " + Headline(o)))
	}
	b.WriteString("\n")

	if o.Found() {
		b.WriteString(st.label.Render("Best price:"))
		b.WriteString(st.link.Render(o.Link))
		b.WriteString("\n")
		if o.Store != "" {
			b.WriteString(st.label.Render("Store:"))
			b.WriteString(o.Store)
			b.WriteString("\n")
		}
		b.WriteString(st.label.Render("Detected price:"))
		b.WriteString(FormatPrice(o.Price))
		b.WriteString("\n")
	}
	if o.Status != app.StatusInvalidInput && o.Query != "" {
		q := o.Query
		if o.QueryFallback {
			q += " (fallback)"
		}
		b.WriteString(st.muted.Render("Search query: " + q))
		b.WriteString("\n")
	}
	if opts.Candidates && len(o.Candidates) > 0 {
		b.WriteString("\n")
		for i, c := range o.Candidates {
			b.WriteString(st.muted.Render(fmt.Sprintf("%2d.", i+1)))
			b.WriteString(fmt.Sprintf(" %12s  %s\n", FormatPrice(c.Price), c.Title))
		}
	}
	b.WriteString(st.muted.Render(Disclaimer))
	b.WriteString("\n")

	_, err := io.WriteString(w, b.String())
	return err
}
