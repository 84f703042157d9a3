package calculator

import "CrossoverSentinel/internal/model"

// CumulativeReturns compounds the daily close-to-close returns of series.
// The first point has a cumulative return of 1.0; a step starting from a
// zero close is skipped.
func CumulativeReturns(series *model.PriceSeries) []model.PerformancePoint {
	if series.IsEmpty() {
		return nil
	}
	closes := series.Closes()
	points := make([]model.PerformancePoint, len(closes))
	cum := 1.0
	for i, p := range series.Points {
		if i > 0 && closes[i-1] != 0 {
			cum *= 1 + (closes[i]-closes[i-1])/closes[i-1]
		}
		points[i] = model.PerformancePoint{
			Date:             p.Date,
			Volume:           p.Volume.InexactFloat64(),
			CumulativeReturn: cum,
		}
	}
	return points
}
