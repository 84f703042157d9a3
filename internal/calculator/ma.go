package calculator

import (
	"github.com/guregu/null/v6"
)

// EMASeries computes the recursive (adjust=false) exponential moving average,
// seeded with the first close: EMA[0] = close[0],
// EMA[t] = α·close[t] + (1−α)·EMA[t−1] with α = 2/(period+1).
func EMASeries(closes []float64, period int) []float64 {
	if len(closes) == 0 || period <= 0 {
		return nil
	}
	alpha := 2.0 / float64(period+1)
	ema := make([]float64, len(closes))
	ema[0] = closes[0]
	for t := 1; t < len(closes); t++ {
		// same recurrence, rearranged so a flat input stays exactly flat
		ema[t] = ema[t-1] + alpha*(closes[t]-ema[t-1])
	}
	return ema
}

// SMASeries computes the trailing simple moving average.
// Indices before period-1 are left invalid.
//
// Every window is summed afresh as offsets from its newest close, so a window
// of equal closes averages to exactly that close.
func SMASeries(closes []float64, period int) []null.Float {
	if period <= 0 {
		return nil
	}
	out := make([]null.Float, len(closes))
	for i := period - 1; i < len(closes); i++ {
		out[i] = null.FloatFrom(windowMean(closes[i+1-period:i+1]))
	}
	return out
}

func windowMean(window []float64) float64 {
	ref := window[len(window)-1]
	var offset float64
	for _, c := range window {
		offset += c - ref
	}
	return ref + offset/float64(len(window))
}
