package model

import (
	"time"

	"github.com/guregu/null/v6"
)

// Crossover classifies the EMA/SMA relation change at one point.
type Crossover string

const (
	CrossoverNone   Crossover = "NONE"
	CrossoverGolden Crossover = "GOLDEN"
	CrossoverDeath  Crossover = "DEATH"
)

// IndicatorPoint holds the smoothed values for one trading day.
// SMA is invalid until enough closes exist to fill the window.
type IndicatorPoint struct {
	Date  time.Time
	Close float64
	EMA   float64
	SMA   null.Float
	State Crossover
}

// IndicatorSeries is derived from a PriceSeries and two window parameters.
// It is recomputed on every use and never stored.
type IndicatorSeries struct {
	Symbol    string
	EMAPeriod int
	SMAPeriod int
	Points    []IndicatorPoint
}

// Counts returns the number of golden and death crossovers in the series.
func (s *IndicatorSeries) Counts() (golden, death int) {
	for _, p := range s.Points {
		switch p.State {
		case CrossoverGolden:
			golden++
		case CrossoverDeath:
			death++
		}
	}
	return golden, death
}
