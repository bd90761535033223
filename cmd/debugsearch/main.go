package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/hyperifyio/goprice/internal/app"
	"github.com/hyperifyio/goprice/internal/price"
	"github.com/hyperifyio/goprice/internal/report"
	"github.com/hyperifyio/goprice/internal/search"
)

// debugsearch sends one raw query to the search API and prints every organic
// result with the price the heuristic reads from its title.
func main() {
	_ = app.LoadEnvFiles(".env")
	base := os.Getenv("SEARCH_URL")
	if base == "" {
		base = search.DefaultSerperURL
	}
	q := "licuadora precio guatemala"
	if len(os.Args) > 1 {
		q = strings.Join(os.Args[1:], " ")
	}
	client := &http.Client{Timeout: 20 * time.Second}
	prov := &search.Serper{BaseURL: base, APIKey: os.Getenv("SERPER_API_KEY"), Country: "gt", Language: "es", HTTPClient: client, UserAgent: "debugsearch/1.0"}
	ctx, cancel := context.WithTimeout(context.Background(), 25*time.Second)
	defer cancel()
	res, err := prov.Search(ctx, q)
	fmt.Println("err:", err)
	h := price.Quetzal()
	for i, r := range res.Organic {
		p := "-"
		if c, ok := h.ParseTitle(r.Title); ok {
			p = report.FormatPrice(c)
		}
		fmt.Printf("%d. [%s] %s | %s\n", i+1, p, r.Title, r.Link)
	}
	if best, ok := h.Lowest(&res); ok {
		fmt.Printf("lowest: %s %s\n", report.FormatPrice(best.Price), best.Link)
	}
}
