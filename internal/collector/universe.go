package collector

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// SP500URL lists the S&P 500 constituents in its first wikitable.
const SP500URL = "https://en.wikipedia.org/wiki/List_of_S%26P_500_companies"

// NormalizeSymbol upper-cases a ticker and rewrites class separators for Yahoo,
// e.g. "BRK.B" becomes "BRK-B".
func NormalizeSymbol(symbol string) string {
	return strings.ReplaceAll(strings.ToUpper(strings.TrimSpace(symbol)), ".", "-")
}

func normalizeAll(symbols []string) []string {
	seen := make(map[string]bool, len(symbols))
	out := make([]string, 0, len(symbols))
	for _, s := range symbols {
		n := NormalizeSymbol(s)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

// StaticUniverse is a fixed symbol list, typically from configuration.
type StaticUniverse struct {
	Symbols []string
}

func NewStaticUniverse(symbols []string) *StaticUniverse {
	return &StaticUniverse{Symbols: normalizeAll(symbols)}
}

func (u *StaticUniverse) ListSymbols(_ context.Context) ([]string, error) {
	out := make([]string, len(u.Symbols))
	copy(out, u.Symbols)
	return out, nil
}

// WikipediaUniverse scrapes index constituents from a Wikipedia table.
type WikipediaUniverse struct {
	URL    string
	Client *http.Client
}

func NewWikipediaUniverse(pageURL, proxyURL string) *WikipediaUniverse {
	if pageURL == "" {
		pageURL = SP500URL
	}
	return &WikipediaUniverse{URL: pageURL, Client: newHTTPClient(proxyURL)}
}

// ListSymbols returns the first column of the first wikitable, normalized.
func (u *WikipediaUniverse) ListSymbols(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.URL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "CrossoverSentinel/1.0")

	resp, err := u.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch universe: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch universe: status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse universe page: %w", err)
	}

	table := doc.Find("table.wikitable").First()
	if table.Length() == 0 {
		return nil, fmt.Errorf("parse universe page: no wikitable found")
	}

	var symbols []string
	table.Find("tr").Each(func(_ int, row *goquery.Selection) {
		cell := row.Find("td").First()
		if cell.Length() == 0 {
			return // header row
		}
		symbols = append(symbols, cell.Text())
	})

	symbols = normalizeAll(symbols)
	if len(symbols) == 0 {
		return nil, fmt.Errorf("parse universe page: no symbols found")
	}
	return symbols, nil
}
