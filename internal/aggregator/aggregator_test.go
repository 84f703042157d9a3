package aggregator

import (
	"testing"
	"time"

	"CrossoverSentinel/internal/model"
)

func day(d int) time.Time { return time.Date(2024, 6, d, 0, 0, 0, 0, time.UTC) }

func ev(symbol string, d int, dir model.Crossover) model.CrossoverEvent {
	return model.CrossoverEvent{Symbol: symbol, Date: day(d), Direction: dir, ClosePrice: 10, EMAValue: 10, SMAValue: 10}
}

func sample() []model.CrossoverEvent {
	return []model.CrossoverEvent{
		ev("MSFT", 3, model.CrossoverGolden),
		ev("AAPL", 5, model.CrossoverDeath),
		ev("NVDA", 5, model.CrossoverGolden),
		ev("AMZN", 5, model.CrossoverGolden),
		ev("AAPL", 1, model.CrossoverGolden),
	}
}

func TestAggregate_OrdersByDateThenSymbol(t *testing.T) {
	res := Aggregate(sample(), model.FilterAll)
	want := []string{"AAPL", "AMZN", "NVDA", "MSFT", "AAPL"}
	if len(res.Events) != len(want) {
		t.Fatalf("expected %d events, got %d", len(want), len(res.Events))
	}
	for i, s := range want {
		if res.Events[i].Symbol != s {
			t.Errorf("position %d: expected %s, got %s", i, s, res.Events[i].Symbol)
		}
	}
	for i := 1; i < len(res.Events); i++ {
		if res.Events[i].Date.After(res.Events[i-1].Date) {
			t.Errorf("events not in descending date order at %d", i)
		}
	}
	if res.GoldenCount != 4 || res.DeathCount != 1 {
		t.Errorf("expected 4 golden and 1 death, got %d and %d", res.GoldenCount, res.DeathCount)
	}
}

func TestAggregate_Filter(t *testing.T) {
	tests := []struct {
		name   string
		filter model.DirectionFilter
		want   int
		golden int
		death  int
	}{
		{"all", model.FilterAll, 5, 4, 1},
		{"golden", model.FilterGolden, 4, 4, 0},
		{"death", model.FilterDeath, 1, 0, 1},
		{"none", model.FilterNone, 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Aggregate(sample(), tt.filter)
			if len(res.Events) != tt.want {
				t.Errorf("expected %d events, got %d", tt.want, len(res.Events))
			}
			if res.GoldenCount != tt.golden || res.DeathCount != tt.death {
				t.Errorf("expected counts %d/%d, got %d/%d", tt.golden, tt.death, res.GoldenCount, res.DeathCount)
			}
			for _, e := range res.Events {
				if !tt.filter.Has(e.Direction) {
					t.Errorf("event %s %s should have been filtered", e.Symbol, e.Direction)
				}
			}
		})
	}
}

func TestAggregate_FilteredIsSubsetOfAll(t *testing.T) {
	all := Aggregate(sample(), model.FilterAll)
	inAll := make(map[model.CrossoverEvent]bool)
	for _, e := range all.Events {
		inAll[e] = true
	}
	for _, f := range []model.DirectionFilter{model.FilterGolden, model.FilterDeath, model.FilterNone} {
		for _, e := range Aggregate(sample(), f).Events {
			if !inAll[e] {
				t.Errorf("filter %s produced %+v missing from the unfiltered view", f, e)
			}
		}
	}
}

func TestAggregate_DoesNotMutateInput(t *testing.T) {
	in := sample()
	before := make([]model.CrossoverEvent, len(in))
	copy(before, in)
	Aggregate(in, model.FilterGolden)
	for i := range in {
		if in[i] != before[i] {
			t.Fatalf("input modified at %d", i)
		}
	}
}

func TestAggregate_Empty(t *testing.T) {
	res := Aggregate(nil, model.FilterAll)
	if len(res.Events) != 0 || res.GoldenCount != 0 || res.DeathCount != 0 {
		t.Errorf("expected empty result, got %+v", res)
	}
}

func TestRefilter(t *testing.T) {
	res := Aggregate(sample(), model.FilterAll)
	res.RunID = "run-1"

	golden := Refilter(res, model.FilterGolden)
	if golden.RunID != "run-1" {
		t.Errorf("expected run metadata to be kept, got %q", golden.RunID)
	}
	if len(golden.Events) != 4 || golden.DeathCount != 0 {
		t.Errorf("expected 4 golden events, got %d (death %d)", len(golden.Events), golden.DeathCount)
	}
	if len(res.Events) != 5 || res.Filter != model.FilterAll {
		t.Error("refilter modified the original result")
	}

	back := Refilter(golden, model.FilterAll)
	if len(back.Events) != 5 {
		t.Errorf("expected widening the filter to restore 5 events, got %d", len(back.Events))
	}
}

func TestLatest(t *testing.T) {
	latest := Latest(Aggregate(sample(), model.FilterAll))
	if len(latest) != 4 {
		t.Fatalf("expected 4 symbols, got %d", len(latest))
	}
	if latest[0].Symbol != "AAPL" || latest[0].Direction != model.CrossoverDeath {
		t.Errorf("expected most recent AAPL event first, got %+v", latest[0])
	}
}
