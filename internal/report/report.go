// Package report renders a lookup outcome for people: styled terminal text,
// Markdown, and an optional PDF receipt.
package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hyperifyio/goprice/internal/app"
)

// Kind is the user-facing class of an outcome.
type Kind int

const (
	KindSuccess Kind = iota
	KindWarning
	KindError
)

// Classify maps an outcome to one of the three notices a user can see.
// A failed search is an error; an empty scan is only a warning.
func Classify(o app.Outcome) Kind {
	switch {
	case o.Found():
		return KindSuccess
	case o.Status == app.StatusInvalidInput:
		return KindWarning
	case o.SearchErr != nil:
		return KindError
	default:
		return KindWarning
	}
}

// Headline is the one-line message shown for an outcome.
func Headline(o app.Outcome) string {
	switch {
	case o.Found():
		return fmt.Sprintf("We found the lowest price for '%s'!", o.Product)
	case o.Status == app.StatusInvalidInput:
		return "Please enter the name of a product to search for."
	case o.SearchErr != nil:
		return fmt.Sprintf("The search service is unavailable right now, so no price could be found for '%s'. Please try again later.", o.Product)
	default:
		return fmt.Sprintf("We could not find a price for '%s'. Try another product or a more specific description.", o.Product)
	}
}

// Disclaimer is appended to every rendering.
const Disclaimer = "Note: prices and availability may vary. Always check the information at the store before making a purchase."

// Markdown renders the outcome as a short Markdown document.
func Markdown(o app.Outcome) string {
	var b strings.Builder
	b.WriteString("# Lowest price search\n\n")
	b.WriteString(Headline(o))
	b.WriteString("\n\n")
	if o.Found() {
		b.WriteString("[Click here to see the best price](")
		b.WriteString(o.Link)
		b.WriteString(")\n\n")
		if o.Title != "" {
			b.WriteString("Listing: ")
			b.WriteString(o.Title)
			b.WriteString("\n")
		}
		if o.Store != "" {
			b.WriteString("Store: ")
			b.WriteString(o.Store)
			b.WriteString("\n")
		}
		b.WriteString(fmt.Sprintf("Detected price: %s\n", FormatPrice(o.Price)))
	}
	if o.Status != app.StatusInvalidInput {
		b.WriteString("\nSearch query: ")
		b.WriteString(o.Query)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(Disclaimer)
	b.WriteString("\n")
	return b.String()
}

// FormatPrice prints the shortest exact decimal form, so whole prices have
// no fractional part.
func FormatPrice(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}
