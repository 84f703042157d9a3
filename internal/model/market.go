package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PricePoint is one trading day of OHLCV data.
type PricePoint struct {
	Date   time.Time
	Open   decimal.Decimal
	High   decimal.Decimal
	Low    decimal.Decimal
	Close  decimal.Decimal
	Volume decimal.Decimal
}

// PriceSeries holds the daily history of one symbol, oldest first.
// Dates are strictly increasing. An empty series is valid.
type PriceSeries struct {
	Symbol    string
	Points    []PricePoint
	FetchedAt time.Time
}

func (s *PriceSeries) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Points)
}

// IsEmpty reports whether the series carries no data points.
func (s *PriceSeries) IsEmpty() bool { return s.Len() == 0 }

// Closes extracts the close prices as float64 for indicator math.
func (s *PriceSeries) Closes() []float64 {
	closes := make([]float64, s.Len())
	for i, p := range s.Points {
		closes[i] = p.Close.InexactFloat64()
	}
	return closes
}

// Tail returns a series sharing the last n points.
func (s *PriceSeries) Tail(n int) *PriceSeries {
	if n >= s.Len() {
		return s
	}
	if n < 0 {
		n = 0
	}
	return &PriceSeries{
		Symbol:    s.Symbol,
		Points:    s.Points[s.Len()-n:],
		FetchedAt: s.FetchedAt,
	}
}
