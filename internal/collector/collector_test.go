package collector

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestCollector_FetchHistory(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	mock := &MockFetcher{
		Closes: map[string][]float64{"AAA": {1, 2, 3}, "EMPTY": {}},
		Errors: map[string]error{"BAD": errors.New("connection reset")},
	}
	c := NewCollector(mock, mock, time.Second, zap.New(core))

	series, ok := c.FetchHistory(context.Background(), "AAA", PeriodSixMonths)
	if !ok || series.Len() != 3 {
		t.Fatalf("expected 3 points, got ok=%v len=%d", ok, series.Len())
	}

	if _, ok := c.FetchHistory(context.Background(), "EMPTY", PeriodSixMonths); ok {
		t.Error("expected empty history to be reported as no data")
	}

	if _, ok := c.FetchHistory(context.Background(), "BAD", PeriodSixMonths); ok {
		t.Error("expected failing fetch to be reported as no data")
	}
	if logs.FilterMessage("fetch failed").Len() != 1 {
		t.Errorf("expected one warning for the failed fetch, got %d", logs.Len())
	}
}

func TestCollector_FetchFinancials(t *testing.T) {
	mock := &MockFetcher{Errors: map[string]error{"BAD": errors.New("boom")}}
	c := NewCollector(mock, mock, 0, nil)

	if _, ok := c.FetchFinancials(context.Background(), "NONE"); ok {
		t.Error("expected missing snapshot to be reported as no data")
	}
	if _, ok := c.FetchFinancials(context.Background(), "BAD"); ok {
		t.Error("expected failing fetch to be reported as no data")
	}

	c.Financials = nil
	if _, ok := c.FetchFinancials(context.Background(), "AAA"); ok {
		t.Error("expected no data without a financials source")
	}
}

func TestMockFetcher_GeneratedHistory(t *testing.T) {
	mock := &MockFetcher{Price: 50}
	a, err := mock.FetchDailyBars(context.Background(), "AAPL", PeriodSixMonths)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, _ := mock.FetchDailyBars(context.Background(), "AAPL", PeriodSixMonths)
	if a.Len() < 100 {
		t.Errorf("expected roughly six months of bars, got %d", a.Len())
	}
	for i := range a.Points {
		if !a.Points[i].Close.Equal(b.Points[i].Close) {
			t.Fatalf("generated history not deterministic at %d", i)
		}
		if wd := a.Points[i].Date.Weekday(); wd == time.Saturday || wd == time.Sunday {
			t.Errorf("bar %d falls on a weekend", i)
		}
	}
}

func TestNormalizeSymbol(t *testing.T) {
	tests := map[string]string{
		"brk.b":  "BRK-B",
		" AAPL ": "AAPL",
		"BF.B\n": "BF-B",
		"":       "",
	}
	for in, want := range tests {
		if got := NormalizeSymbol(in); got != want {
			t.Errorf("NormalizeSymbol(%q): expected %q, got %q", in, want, got)
		}
	}
}

func TestStaticUniverse(t *testing.T) {
	u := NewStaticUniverse([]string{"aapl", "MSFT", "AAPL", " ", "brk.b"})
	got, _ := u.ListSymbols(context.Background())
	want := []string{"AAPL", "MSFT", "BRK-B"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("symbol %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

const wikiHTML = `<html><body>
<table class="wikitable sortable" id="constituents">
<tr><th>Symbol</th><th>Security</th></tr>
<tr><td><a href="#">MMM</a></td><td>3M</td></tr>
<tr><td>BRK.B
</td><td>Berkshire Hathaway</td></tr>
<tr><td>AOS</td><td>A. O. Smith</td></tr>
</table>
<table class="wikitable"><tr><th>Date</th></tr><tr><td>2024-01-01</td></tr></table>
</body></html>`

func TestWikipediaUniverse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") == "" {
			t.Error("expected a User-Agent header")
		}
		w.Write([]byte(wikiHTML))
	}))
	defer srv.Close()

	u := &WikipediaUniverse{URL: srv.URL, Client: srv.Client()}
	got, err := u.ListSymbols(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"MMM", "BRK-B", "AOS"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("symbol %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestWikipediaUniverse_NoTable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><p>nothing here</p></body></html>`))
	}))
	defer srv.Close()

	u := &WikipediaUniverse{URL: srv.URL, Client: srv.Client()}
	if _, err := u.ListSymbols(context.Background()); err == nil {
		t.Error("expected error when no table is present")
	}
}
