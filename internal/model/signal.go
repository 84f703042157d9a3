package model

import (
	"fmt"
	"strings"
	"time"
)

// CrossoverEvent is one detected EMA/SMA transition.
type CrossoverEvent struct {
	Symbol     string
	Date       time.Time
	ClosePrice float64
	EMAValue   float64
	SMAValue   float64
	Direction  Crossover
}

// DirectionFilter is a set over {GOLDEN, DEATH}.
type DirectionFilter uint8

const (
	FilterGolden DirectionFilter = 1 << iota
	FilterDeath

	FilterNone DirectionFilter = 0
	FilterAll                  = FilterGolden | FilterDeath
)

// Has reports whether events of direction c pass the filter.
func (f DirectionFilter) Has(c Crossover) bool {
	switch c {
	case CrossoverGolden:
		return f&FilterGolden != 0
	case CrossoverDeath:
		return f&FilterDeath != 0
	}
	return false
}

// Directions lists the members of the set in display order.
func (f DirectionFilter) Directions() []Crossover {
	var out []Crossover
	if f&FilterGolden != 0 {
		out = append(out, CrossoverGolden)
	}
	if f&FilterDeath != 0 {
		out = append(out, CrossoverDeath)
	}
	return out
}

func (f DirectionFilter) String() string {
	dirs := f.Directions()
	if len(dirs) == 0 {
		return "NONE"
	}
	names := make([]string, len(dirs))
	for i, d := range dirs {
		names[i] = string(d)
	}
	return strings.Join(names, ",")
}

// ParseDirectionFilter builds a filter from direction names such as "GOLDEN" or "death".
// Blank names are ignored, so an empty list yields FilterNone.
func ParseDirectionFilter(names []string) (DirectionFilter, error) {
	var f DirectionFilter
	for _, n := range names {
		switch Crossover(strings.ToUpper(strings.TrimSpace(n))) {
		case "":
		case CrossoverGolden:
			f |= FilterGolden
		case CrossoverDeath:
			f |= FilterDeath
		default:
			return FilterNone, fmt.Errorf("%w: unknown direction %q", ErrInvalidParameter, n)
		}
	}
	return f, nil
}

// ScanParams are the indicator parameters a scan ran with.
type ScanParams struct {
	EMAPeriod    int
	SMAPeriod    int
	LookbackDays int
}

// ScanStats describes how the universe was processed.
type ScanStats struct {
	Total      int
	Processed  int
	NoData     int
	StartedAt  time.Time
	FinishedAt time.Time
}

// ScanResult is the ranked, filtered view of one scan.
// Events and the counts always reflect Filter; Candidates keeps the
// unfiltered set so the view can be rebuilt for a different filter.
type ScanResult struct {
	RunID       string
	Params      ScanParams
	Filter      DirectionFilter
	Events      []CrossoverEvent
	GoldenCount int
	DeathCount  int
	Partial     bool
	Stats       ScanStats
	Candidates  []CrossoverEvent
}

// NoDataAvailable reports that no processed symbol returned any history.
func (r *ScanResult) NoDataAvailable() bool {
	return r.Stats.NoData == r.Stats.Processed
}

func (r *ScanResult) Duration() time.Duration {
	if r.Stats.FinishedAt.IsZero() {
		return 0
	}
	return r.Stats.FinishedAt.Sub(r.Stats.StartedAt)
}
