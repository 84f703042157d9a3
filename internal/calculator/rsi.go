package calculator

import (
	"errors"

	"github.com/guregu/null/v6"
)

// RSIPeriod is the window of the momentum figure shown on the detail view.
const RSIPeriod = 14

// RSI computes the Wilder-smoothed relative strength index at the last close.
// It is undefined (invalid) with fewer than period+1 closes.
func RSI(closes []float64, period int) (null.Float, error) {
	if period <= 0 {
		return null.Float{}, errors.New("period must be positive")
	}
	if len(closes) < period+1 {
		return null.Float{}, nil
	}

	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		gain, loss := change(closes[i-1], closes[i])
		avgGain += gain
		avgLoss += loss
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)

	for i := period + 1; i < len(closes); i++ {
		gain, loss := change(closes[i-1], closes[i])
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
	}

	if avgLoss == 0 {
		if avgGain == 0 {
			return null.FloatFrom(50), nil
		}
		return null.FloatFrom(100), nil
	}
	rs := avgGain / avgLoss
	return null.FloatFrom(100 - 100/(1+rs)), nil
}

func change(prev, cur float64) (gain, loss float64) {
	d := cur - prev
	if d > 0 {
		return d, 0
	}
	return 0, -d
}
