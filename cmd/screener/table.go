package main

import (
	"fmt"
	"strings"
	"time"

	"CrossoverSentinel/internal/aggregator"
	"CrossoverSentinel/internal/model"
	"CrossoverSentinel/internal/notifier"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	goldenStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	deathStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

// renderTable prints the most recent crossover of every symbol in res.
func renderTable(res *model.ScanResult) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Crossover Screener  EMA %d / SMA %d  last %d days",
		res.Params.EMAPeriod, res.Params.SMAPeriod, res.Params.LookbackDays)))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(fmt.Sprintf("run %s  %d symbols, %d without data, %s",
		res.RunID, res.Stats.Total, res.Stats.NoData, res.Duration().Round(time.Millisecond))))
	b.WriteString("\n")
	if res.Partial {
		b.WriteString(deathStyle.Render(fmt.Sprintf("aborted after %d of %d symbols, results are partial",
			res.Stats.Processed, res.Stats.Total)))
		b.WriteString("\n")
	}

	var counts []string
	if res.Filter.Has(model.CrossoverGolden) {
		counts = append(counts, goldenStyle.Render(fmt.Sprintf("golden %d", res.GoldenCount)))
	}
	if res.Filter.Has(model.CrossoverDeath) {
		counts = append(counts, deathStyle.Render(fmt.Sprintf("death %d", res.DeathCount)))
	}
	b.WriteString(strings.Join(counts, "  "))
	b.WriteString("\n")

	latest := aggregator.Latest(res)
	if len(latest) == 0 {
		b.WriteString(notifier.NoCrossoversText)
		return b.String()
	}

	rows := make([][]string, len(latest))
	for i, e := range latest {
		rows[i] = []string{
			e.Date.Format("2006-01-02"),
			e.Symbol,
			string(e.Direction),
			fmt.Sprintf("%.2f", e.ClosePrice),
			fmt.Sprintf("%.2f", e.EMAValue),
			fmt.Sprintf("%.2f", e.SMAValue),
		}
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(mutedStyle).
		Headers("DATE", "SYMBOL", "SIGNAL", "CLOSE", "EMA", "SMA").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == 2 {
				if latest[row].Direction == model.CrossoverGolden {
					return cellStyle.Inherit(goldenStyle)
				}
				return cellStyle.Inherit(deathStyle)
			}
			return cellStyle
		})
	b.WriteString(t.String())
	return b.String()
}
