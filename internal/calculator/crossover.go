package calculator

import (
	"CrossoverSentinel/internal/model"

	"github.com/guregu/null/v6"
)

// Compute derives the EMA/SMA indicator series of one symbol and classifies
// every point. It returns false when there is nothing to compute: an empty
// series or a non-positive period.
func Compute(series *model.PriceSeries, emaPeriod, smaPeriod int) (*model.IndicatorSeries, bool) {
	if series.IsEmpty() || emaPeriod < 1 || smaPeriod < 1 {
		return nil, false
	}

	closes := series.Closes()
	ema := EMASeries(closes, emaPeriod)
	sma := SMASeries(closes, smaPeriod)

	points := make([]model.IndicatorPoint, len(closes))
	for t := range closes {
		points[t] = model.IndicatorPoint{
			Date:  series.Points[t].Date,
			Close: closes[t],
			EMA:   ema[t],
			SMA:   sma[t],
			State: model.CrossoverNone,
		}
		if t > 0 {
			points[t].State = classify(ema[t-1], sma[t-1], ema[t], sma[t])
		}
	}

	return &model.IndicatorSeries{
		Symbol:    series.Symbol,
		EMAPeriod: emaPeriod,
		SMAPeriod: smaPeriod,
		Points:    points,
	}, true
}

// classify compares the EMA/SMA relation at t-1 and t. Both SMA values must be defined.
// Tangency from one side followed by a strict move to the other counts as a cross.
func classify(prevEMA float64, prevSMA null.Float, curEMA float64, curSMA null.Float) model.Crossover {
	if !prevSMA.Valid || !curSMA.Valid {
		return model.CrossoverNone
	}
	switch {
	case curEMA > curSMA.Float64 && prevEMA <= prevSMA.Float64:
		return model.CrossoverGolden
	case curEMA < curSMA.Float64 && prevEMA >= prevSMA.Float64:
		return model.CrossoverDeath
	}
	return model.CrossoverNone
}

// Crossovers returns the events found in the trailing lookback rows of ind.
// Lookback counts data points, not calendar days.
func Crossovers(ind *model.IndicatorSeries, lookback int) []model.CrossoverEvent {
	if ind == nil || lookback <= 0 {
		return nil
	}
	start := len(ind.Points) - lookback
	if start < 0 {
		start = 0
	}
	var events []model.CrossoverEvent
	for _, p := range ind.Points[start:] {
		if p.State == model.CrossoverNone {
			continue
		}
		events = append(events, model.CrossoverEvent{
			Symbol:     ind.Symbol,
			Date:       p.Date,
			ClosePrice: p.Close,
			EMAValue:   p.EMA,
			SMAValue:   p.SMA.Float64,
			Direction:  p.State,
		})
	}
	return events
}
