package calculator

import (
	"errors"

	"CrossoverSentinel/internal/model"

	"github.com/markcheno/go-talib"
)

// TradingDaysPerYear is the window used for 52-week statistics.
const TradingDaysPerYear = 252

// CalculateRange scans the most recent n points and returns the highest high and lowest low.
func CalculateRange(series *model.PriceSeries, n int) (high, low float64, err error) {
	if series.IsEmpty() {
		return 0, 0, errors.New("no price points provided")
	}
	if n <= 0 {
		return 0, 0, errors.New("window must be positive")
	}
	tail := series.Tail(n).Points
	highs := make([]float64, len(tail))
	lows := make([]float64, len(tail))
	for i, p := range tail {
		highs[i] = p.High.InexactFloat64()
		lows[i] = p.Low.InexactFloat64()
	}
	if len(tail) == 1 {
		return highs[0], lows[0], nil
	}
	last := len(tail) - 1
	return talib.Max(highs, len(tail))[last], talib.Min(lows, len(tail))[last], nil
}

// Calculate52WeekRange returns the high and low of the last 252 trading days.
func Calculate52WeekRange(series *model.PriceSeries) (high, low float64, err error) {
	return CalculateRange(series, TradingDaysPerYear)
}

// CalculatePosition returns where current sits within [low, high] (0.0~1.0).
func CalculatePosition(current, high, low float64) (float64, error) {
	if high == low {
		return 0.5, nil
	}
	if high < low {
		return 0, errors.New("high must be >= low")
	}
	pos := (current - low) / (high - low)
	if pos < 0 {
		pos = 0
	}
	if pos > 1 {
		pos = 1
	}
	return pos, nil
}
