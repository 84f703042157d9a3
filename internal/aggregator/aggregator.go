// Package aggregator ranks and filters the crossover events of a scan.
package aggregator

import (
	"sort"

	"CrossoverSentinel/internal/model"
)

// Aggregate builds the ranked view of events for the given direction set.
// Events are ordered newest first, then by symbol. The input slice is not modified.
func Aggregate(events []model.CrossoverEvent, filter model.DirectionFilter) *model.ScanResult {
	candidates := make([]model.CrossoverEvent, len(events))
	copy(candidates, events)
	sortEvents(candidates)

	res := &model.ScanResult{Candidates: candidates}
	apply(res, filter)
	return res
}

// Refilter returns a copy of res whose events reflect filter.
// Run metadata is kept; the unfiltered candidates are shared.
func Refilter(res *model.ScanResult, filter model.DirectionFilter) *model.ScanResult {
	out := *res
	apply(&out, filter)
	return &out
}

func apply(res *model.ScanResult, filter model.DirectionFilter) {
	res.Filter = filter
	res.Events = make([]model.CrossoverEvent, 0, len(res.Candidates))
	res.GoldenCount, res.DeathCount = 0, 0
	for _, e := range res.Candidates {
		if !filter.Has(e.Direction) {
			continue
		}
		res.Events = append(res.Events, e)
		switch e.Direction {
		case model.CrossoverGolden:
			res.GoldenCount++
		case model.CrossoverDeath:
			res.DeathCount++
		}
	}
}

func sortEvents(events []model.CrossoverEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		if !events[i].Date.Equal(events[j].Date) {
			return events[i].Date.After(events[j].Date)
		}
		return events[i].Symbol < events[j].Symbol
	})
}

// Latest returns the most recent event per symbol, in ranked order.
func Latest(res *model.ScanResult) []model.CrossoverEvent {
	seen := make(map[string]bool)
	var out []model.CrossoverEvent
	for _, e := range res.Events {
		if seen[e.Symbol] {
			continue
		}
		seen[e.Symbol] = true
		out = append(out, e)
	}
	return out
}
