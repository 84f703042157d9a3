package model

import (
	"time"

	"github.com/guregu/null/v6"
)

// FinancialSnapshot holds point-in-time valuation and fundamentals for a symbol.
// Every metric is optional; a missing metric is an invalid null.Float, never zero.
type FinancialSnapshot struct {
	Symbol       string
	General      GeneralMetrics
	Trading      TradingMetrics
	Fundamentals FundamentalMetrics
	Growth       GrowthMetrics
	Holders      []Holder
	FetchedAt    time.Time
}

type GeneralMetrics struct {
	MarketCap        null.Float
	EnterpriseValue  null.Float
	ForwardPE        null.Float
	PEGRatio         null.Float
	DividendYieldPct null.Float
}

type TradingMetrics struct {
	Beta      null.Float
	High52w   null.Float
	Low52w    null.Float
	AvgVolume null.Float
}

type FundamentalMetrics struct {
	ReturnOnEquityPct  null.Float
	ProfitMarginPct    null.Float
	OperatingMarginPct null.Float
	CurrentRatio       null.Float
}

type GrowthMetrics struct {
	RevenueGrowthPct  null.Float
	EarningsGrowthPct null.Float
}

// Holder is one institutional holder record.
type Holder struct {
	Name         string
	Shares       int64
	Value        null.Float
	PctHeld      null.Float
	DateReported time.Time
}

// Metric is a labelled optional value used for rendering.
type Metric struct {
	Label string
	Value null.Float
}

// MetricGroup is a named category of metrics in display order.
type MetricGroup struct {
	Name    string
	Metrics []Metric
}

// Groups flattens the snapshot into display categories.
func (f *FinancialSnapshot) Groups() []MetricGroup {
	return []MetricGroup{
		{Name: "General", Metrics: []Metric{
			{"Market Cap", f.General.MarketCap},
			{"Enterprise Value", f.General.EnterpriseValue},
			{"P/E Ratio", f.General.ForwardPE},
			{"PEG Ratio", f.General.PEGRatio},
			{"Dividend Yield", f.General.DividendYieldPct},
		}},
		{Name: "Trading", Metrics: []Metric{
			{"Beta", f.Trading.Beta},
			{"52W High", f.Trading.High52w},
			{"52W Low", f.Trading.Low52w},
			{"Avg Volume", f.Trading.AvgVolume},
		}},
		{Name: "Fundamentals", Metrics: []Metric{
			{"ROE", f.Fundamentals.ReturnOnEquityPct},
			{"Profit Margin", f.Fundamentals.ProfitMarginPct},
			{"Operating Margin", f.Fundamentals.OperatingMarginPct},
			{"Current Ratio", f.Fundamentals.CurrentRatio},
		}},
		{Name: "Growth", Metrics: []Metric{
			{"Revenue Growth", f.Growth.RevenueGrowthPct},
			{"Earnings Growth", f.Growth.EarningsGrowthPct},
		}},
	}
}

// PerformancePoint is one day of the detail chart.
type PerformancePoint struct {
	Date             time.Time
	Volume           float64
	CumulativeReturn float64
}

// Performance summarises one year of trading for the detail view.
type Performance struct {
	Points   []PerformancePoint
	High     float64
	Low      float64
	Position float64 // 0.0 ~ 1.0 within [Low, High]
	RSI      null.Float
}

// SymbolDetail is everything the detail page shows for one symbol.
// Either part may be nil when its source had no data.
type SymbolDetail struct {
	Symbol      string
	Snapshot    *FinancialSnapshot
	Performance *Performance
}
