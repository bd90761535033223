// Package price finds the cheapest organic search result by scanning result
// titles for a currency marker and reading the digits in front of it.
//
// The rule is deliberately literal: only the text before the first marker
// occurrence is considered, every non-digit in it is dropped, and whatever
// digits remain are read as one number. Titles such as "Camisa Q150" therefore
// yield nothing, and unrelated numbers in front of the marker are accepted.
//
// Decimal digits of any script count ("٤٥٠" reads as 450). Digit-like
// symbols that are not decimal digits, such as superscripts and circled
// numbers, make the title unreadable and it is skipped.
package price

import (
	"math"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/hyperifyio/goprice/internal/search"
)

// Candidate is a result whose title produced a price.
type Candidate struct {
	Price float64
	Link  string
	Title string
}

// Heuristic configures the marker scan.
type Heuristic struct {
	// Marker is the currency abbreviation the title is split at, lowercase.
	Marker string
	// Keywords gate which titles are considered at all.
	Keywords []string
	// Locale drives title lowercasing.
	Locale language.Tag
}

// Quetzal returns the heuristic for Guatemalan listings: marker "q", gated on
// "q", "quetzal" or "precio".
func Quetzal() Heuristic {
	return Heuristic{
		Marker:   "q",
		Keywords: []string{"q", "quetzal", "precio"},
		Locale:   language.LatinAmericanSpanish,
	}
}

// Scan returns every accepted candidate in result order. A nil set or a set
// without organic results yields nil.
func (h Heuristic) Scan(set *search.ResultSet) []Candidate {
	if set == nil || set.Organic == nil {
		return nil
	}
	lower := cases.Lower(h.Locale)
	var out []Candidate
	for _, r := range set.Organic {
		title := lower.String(r.Title)
		if !h.considered(title) {
			continue
		}
		p, ok := h.parse(title)
		if !ok {
			continue
		}
		out = append(out, Candidate{Price: p, Link: r.Link, Title: r.Title})
	}
	return out
}

// Lowest returns the candidate with the strictly lowest price; on ties the
// earlier result wins.
func (h Heuristic) Lowest(set *search.ResultSet) (Candidate, bool) {
	return Min(h.Scan(set))
}

// Min returns the candidate with the strictly lowest price, keeping the
// earliest one on ties.
func Min(candidates []Candidate) (Candidate, bool) {
	best := Candidate{Price: math.Inf(1)}
	found := false
	for _, c := range candidates {
		if c.Price < best.Price {
			best = c
			found = true
		}
	}
	return best, found
}

// ParseTitle applies the heuristic to a single title.
func (h Heuristic) ParseTitle(title string) (float64, bool) {
	t := cases.Lower(h.Locale).String(title)
	if !h.considered(t) {
		return 0, false
	}
	return h.parse(t)
}

func (h Heuristic) considered(lowered string) bool {
	for _, k := range h.Keywords {
		if k != "" && strings.Contains(lowered, k) {
			return true
		}
	}
	return false
}

func (h Heuristic) parse(lowered string) (float64, bool) {
	before, _, _ := strings.Cut(lowered, h.Marker)
	digits, ok := onlyDigits(before)
	if !ok || digits == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(digits, 64)
	if err != nil || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// onlyDigits keeps the decimal digits of s as ASCII. It fails when s holds a
// digit-like symbol that cannot be read as a number.
func onlyDigits(s string) (string, bool) {
	var sb strings.Builder
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			sb.WriteRune(r)
		case unicode.IsDigit(r):
			sb.WriteByte('0' + decimalValue(r))
		case unicode.Is(digitSymbols, r):
			return "", false
		}
	}
	return sb.String(), true
}

// decimalValue returns the value of a decimal digit rune. Decimal digits are
// encoded in contiguous runs starting at zero, so the value is the distance
// to the start of the run modulo ten.
func decimalValue(r rune) byte {
	n := 0
	for unicode.IsDigit(r - rune(n) - 1) {
		n++
	}
	return byte(n % 10)
}

// digitSymbols are runes that count as digits but are not decimal digits:
// superscripts, subscripts, circled and parenthesized numbers.
var digitSymbols = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x00b2, Hi: 0x00b3, Stride: 1},
		{Lo: 0x00b9, Hi: 0x00b9, Stride: 1},
		{Lo: 0x1369, Hi: 0x1371, Stride: 1},
		{Lo: 0x19da, Hi: 0x19da, Stride: 1},
		{Lo: 0x2070, Hi: 0x2070, Stride: 1},
		{Lo: 0x2074, Hi: 0x2079, Stride: 1},
		{Lo: 0x2080, Hi: 0x2089, Stride: 1},
		{Lo: 0x2460, Hi: 0x2468, Stride: 1},
		{Lo: 0x2474, Hi: 0x247c, Stride: 1},
		{Lo: 0x2488, Hi: 0x2490, Stride: 1},
		{Lo: 0x24ea, Hi: 0x24ea, Stride: 1},
		{Lo: 0x24f5, Hi: 0x24fd, Stride: 1},
		{Lo: 0x24ff, Hi: 0x24ff, Stride: 1},
		{Lo: 0x2776, Hi: 0x277e, Stride: 1},
		{Lo: 0x2780, Hi: 0x2788, Stride: 1},
		{Lo: 0x278a, Hi: 0x2792, Stride: 1},
	},
	R32: []unicode.Range32{
		{Lo: 0x10a40, Hi: 0x10a43, Stride: 1},
		{Lo: 0x10e60, Hi: 0x10e68, Stride: 1},
		{Lo: 0x11052, Hi: 0x1105a, Stride: 1},
		{Lo: 0x1f100, Hi: 0x1f10a, Stride: 1},
	},
	LatinOffset: 2,
}
