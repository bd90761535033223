package report

import (
	"strconv"
	"strings"

	"github.com/hyperifyio/goprice/internal/app"
)

// AppendRunFooter appends a deterministic footer recording how the result was
// obtained: run id, model, search locale, whether the fallback query was
// used and how many titles produced a price.
func AppendRunFooter(markdown string, o app.Outcome, cfg app.Config) string {
	var b strings.Builder
	b.WriteString(markdown)
	b.WriteString("\n---\n")
	b.WriteString("Run: ")
	b.WriteString("id=")
	b.WriteString(o.RunID)
	b.WriteString("; status=")
	b.WriteString(o.Status.String())
	b.WriteString("; model=")
	b.WriteString(strings.TrimSpace(cfg.LLMModel))
	b.WriteString("; locale=")
	b.WriteString(strings.ToLower(cfg.Language) + "-" + strings.ToLower(cfg.Country))
	b.WriteString("; query_fallback=")
	b.WriteString(strconv.FormatBool(o.QueryFallback))
	b.WriteString("; candidates=")
	b.WriteString(strconv.Itoa(len(o.Candidates)))
	b.WriteString("\n")
	return b.String()
}
