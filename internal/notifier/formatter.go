package notifier

import (
	"fmt"
	"html"
	"strings"

	"CrossoverSentinel/internal/model"
	"CrossoverSentinel/internal/recorder"

	"github.com/guregu/null/v6"
)

// NoCrossoversText is shown when a scan found nothing for the selected directions.
const NoCrossoversText = "No recent crossovers found"

func directionIcon(d model.Crossover) string {
	switch d {
	case model.CrossoverGolden:
		return "🟢"
	case model.CrossoverDeath:
		return "🔴"
	}
	return "⚪"
}

// FormatScanReport formats a scan result into a Telegram message listing at most limit events.
func FormatScanReport(res *model.ScanResult, limit int) string {
	var b strings.Builder

	day := res.Stats.FinishedAt
	b.WriteString(fmt.Sprintf("📈 <b>Crossover Screener</b> | %s\n", day.Format("2006-01-02")))
	b.WriteString(fmt.Sprintf("EMA %d / SMA %d | last %d days | %s\n\n",
		res.Params.EMAPeriod, res.Params.SMAPeriod, res.Params.LookbackDays, res.Filter))

	if res.Partial {
		b.WriteString(fmt.Sprintf("⚠️ Scan aborted after %d of %d symbols, results are partial\n\n",
			res.Stats.Processed, res.Stats.Total))
	}
	if res.Stats.Processed > 0 && res.NoDataAvailable() {
		b.WriteString("⚠️ No price data was available for any symbol\n")
		return b.String()
	}

	if res.Filter.Has(model.CrossoverGolden) {
		b.WriteString(fmt.Sprintf("🟢 Golden crosses: %d\n", res.GoldenCount))
	}
	if res.Filter.Has(model.CrossoverDeath) {
		b.WriteString(fmt.Sprintf("🔴 Death crosses: %d\n", res.DeathCount))
	}
	b.WriteString("\n")

	if len(res.Events) == 0 {
		b.WriteString(NoCrossoversText + "\n")
		return b.String()
	}

	for i, e := range res.Events {
		if limit > 0 && i == limit {
			b.WriteString(fmt.Sprintf("… and %d more\n", len(res.Events)-limit))
			break
		}
		b.WriteString(FormatEvent(e) + "\n")
	}

	if res.Stats.NoData > 0 {
		b.WriteString(fmt.Sprintf("\n%d of %d symbols had no data\n", res.Stats.NoData, res.Stats.Total))
	}
	return b.String()
}

// FormatEvent renders one crossover as a single line.
func FormatEvent(e model.CrossoverEvent) string {
	return fmt.Sprintf("%s %s <b>%s</b> %.2f (EMA %.2f / SMA %.2f)",
		directionIcon(e.Direction), e.Date.Format("01-02"), e.Symbol, e.ClosePrice, e.EMAValue, e.SMAValue)
}

// FormatValue renders an optional metric: N/A when absent, millions with a
// dollar sign above 1,000,000, two decimals otherwise.
func FormatValue(v null.Float) string {
	if !v.Valid {
		return "N/A"
	}
	if v.Float64 > 1_000_000 {
		return fmt.Sprintf("$%.2fM", v.Float64/1_000_000)
	}
	return fmt.Sprintf("%.2f", v.Float64)
}

// FormatDetail formats the fundamentals and one-year performance of a symbol.
func FormatDetail(d *model.SymbolDetail) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("🔎 <b>%s</b>\n", html.EscapeString(d.Symbol)))

	if d.Performance != nil && len(d.Performance.Points) > 0 {
		p := d.Performance
		last := p.Points[len(p.Points)-1]
		b.WriteString("\n<b>Performance (1Y)</b>\n")
		b.WriteString(fmt.Sprintf("Return: %+.2f%%\n", (last.CumulativeReturn-1)*100))
		b.WriteString(fmt.Sprintf("52W range: %.2f ~ %.2f (position %.0f%%)\n", p.Low, p.High, p.Position*100))
		b.WriteString(fmt.Sprintf("RSI(14): %s\n", FormatValue(p.RSI)))
	}

	if d.Snapshot == nil {
		b.WriteString("\nFinancial data: N/A\n")
		return b.String()
	}

	for _, g := range d.Snapshot.Groups() {
		b.WriteString(fmt.Sprintf("\n<b>%s</b>\n", g.Name))
		for _, m := range g.Metrics {
			b.WriteString(fmt.Sprintf("%s: %s\n", m.Label, FormatValue(m.Value)))
		}
	}

	if len(d.Snapshot.Holders) > 0 {
		b.WriteString("\n<b>Top Institutional Holders</b>\n")
		for i, h := range d.Snapshot.Holders {
			b.WriteString(fmt.Sprintf("%d. %s: %s shares", i+1, html.EscapeString(h.Name), formatShares(h.Shares)))
			if h.PctHeld.Valid {
				b.WriteString(fmt.Sprintf(" (%.2f%%)", h.PctHeld.Float64))
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}

func formatShares(n int64) string {
	switch {
	case n >= 1_000_000_000:
		return fmt.Sprintf("%.2fB", float64(n)/1e9)
	case n >= 1_000_000:
		return fmt.Sprintf("%.2fM", float64(n)/1e6)
	case n >= 1_000:
		return fmt.Sprintf("%.1fK", float64(n)/1e3)
	}
	return fmt.Sprintf("%d", n)
}

// FormatRuns lists recorded scan runs, newest first.
func FormatRuns(runs []recorder.ScanRun) string {
	if len(runs) == 0 {
		return "No scans recorded yet"
	}
	var b strings.Builder
	b.WriteString("🗂 <b>Recent scans</b>\n")
	for _, r := range runs {
		status := "✅"
		if r.Partial || r.Error != "" {
			status = "⚠️"
		}
		b.WriteString(fmt.Sprintf("%s %s | EMA %d / SMA %d | 🟢 %d 🔴 %d | %d/%d symbols\n",
			status, r.StartedAt.Format("2006-01-02 15:04"), r.EMAPeriod, r.SMAPeriod,
			r.GoldenCount, r.DeathCount, r.Processed, r.Total))
	}
	return b.String()
}

// FormatHelp lists the bot commands.
func FormatHelp() string {
	return strings.Join([]string{
		"Available commands:",
		"• /scan - latest crossovers, both directions",
		"• /golden - latest golden crosses",
		"• /death - latest death crosses",
		"• /detail SYMBOL - financials and 1Y performance",
		"• /runs - recent scan runs",
	}, "\n")
}
