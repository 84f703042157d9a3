package scanner

import (
	"fmt"
	"time"

	"CrossoverSentinel/internal/collector"
	"CrossoverSentinel/internal/model"
)

// Parameter bounds accepted by Validate.
const (
	MinPeriod   = 1
	MaxPeriod   = 200
	MinLookback = 1
	MaxLookback = 30
)

// Request carries everything one scan depends on. It is passed by value and
// never changed by the scanner.
type Request struct {
	EMAPeriod     int
	SMAPeriod     int
	LookbackDays  int
	HistoryPeriod time.Duration
	Filter        model.DirectionFilter
}

// DefaultRequest is EMA 14 / SMA 50 over the last 7 trading days, both directions.
func DefaultRequest() Request {
	return Request{
		EMAPeriod:     14,
		SMAPeriod:     50,
		LookbackDays:  7,
		HistoryPeriod: collector.PeriodSixMonths,
		Filter:        model.FilterAll,
	}
}

// Validate rejects out-of-range parameters with ErrInvalidParameter.
func (r Request) Validate() error {
	if r.EMAPeriod < MinPeriod || r.EMAPeriod > MaxPeriod {
		return fmt.Errorf("%w: ema period %d not in [%d, %d]", model.ErrInvalidParameter, r.EMAPeriod, MinPeriod, MaxPeriod)
	}
	if r.SMAPeriod < MinPeriod || r.SMAPeriod > MaxPeriod {
		return fmt.Errorf("%w: sma period %d not in [%d, %d]", model.ErrInvalidParameter, r.SMAPeriod, MinPeriod, MaxPeriod)
	}
	if r.LookbackDays < MinLookback || r.LookbackDays > MaxLookback {
		return fmt.Errorf("%w: lookback %d not in [%d, %d]", model.ErrInvalidParameter, r.LookbackDays, MinLookback, MaxLookback)
	}
	if r.HistoryPeriod < 0 {
		return fmt.Errorf("%w: negative history period", model.ErrInvalidParameter)
	}
	if r.Filter&^model.FilterAll != 0 {
		return fmt.Errorf("%w: unknown direction bits %d", model.ErrInvalidParameter, r.Filter)
	}
	return nil
}

// Params returns the indicator parameters recorded on a result.
func (r Request) Params() model.ScanParams {
	return model.ScanParams{
		EMAPeriod:    r.EMAPeriod,
		SMAPeriod:    r.SMAPeriod,
		LookbackDays: r.LookbackDays,
	}
}

func (r Request) historyPeriod() time.Duration {
	if r.HistoryPeriod == 0 {
		return collector.PeriodSixMonths
	}
	return r.HistoryPeriod
}
