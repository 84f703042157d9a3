package calculator

import (
	"math"
	"testing"
)

func TestEMASeries_SeededWithFirstClose(t *testing.T) {
	got := EMASeries([]float64{10, 11, 12}, 3)
	want := []float64{10, 10.5, 11.25}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Errorf("EMA[%d]: expected %v, got %v", i, want[i], got[i])
		}
	}
}

func TestEMASeries_Empty(t *testing.T) {
	if got := EMASeries(nil, 12); got != nil {
		t.Errorf("expected nil, got %v", got)
	}
	if got := EMASeries([]float64{1, 2}, 0); got != nil {
		t.Errorf("expected nil for zero period, got %v", got)
	}
}

func TestSMASeries(t *testing.T) {
	got := SMASeries([]float64{1, 2, 3, 4, 5}, 3)
	if len(got) != 5 {
		t.Fatalf("expected 5 values, got %d", len(got))
	}
	if got[0].Valid || got[1].Valid {
		t.Error("expected the first two values to be undefined")
	}
	want := []float64{2, 3, 4}
	for i, w := range want {
		v := got[i+2]
		if !v.Valid || math.Abs(v.Float64-w) > 1e-12 {
			t.Errorf("SMA[%d]: expected %v, got %+v", i+2, w, v)
		}
	}
}

func TestSMASeries_ShorterThanPeriod(t *testing.T) {
	got := SMASeries([]float64{1, 2}, 3)
	if len(got) != 2 {
		t.Fatalf("expected 2 values, got %d", len(got))
	}
	for i, v := range got {
		if v.Valid {
			t.Errorf("SMA[%d]: expected undefined, got %v", i, v.Float64)
		}
	}
}

func TestSMASeries_PeriodOneIsClose(t *testing.T) {
	closes := []float64{3, 1, 4, 1, 5}
	for i, v := range SMASeries(closes, 1) {
		if !v.Valid || v.Float64 != closes[i] {
			t.Errorf("SMA[%d]: expected %v, got %+v", i, closes[i], v)
		}
	}
}

func TestSMASeries_FlatWindowIsExact(t *testing.T) {
	for _, v := range []float64{0.1, 12.37, 33.33, 100.1} {
		closes := append(flat(20, v*1.2), flat(160, v)...)
		got := SMASeries(closes, 26)
		for i := 45; i < len(closes); i++ {
			if got[i].Float64 != v {
				t.Fatalf("%v: SMA[%d] = %v, expected exactly %v", v, i, got[i].Float64, v)
			}
		}
	}
}
