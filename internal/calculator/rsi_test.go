package calculator

import (
	"math"
	"testing"
)

func TestRSI(t *testing.T) {
	up := make([]float64, 20)
	down := make([]float64, 20)
	flat := make([]float64, 20)
	for i := range up {
		up[i] = 100 + float64(i)
		down[i] = 100 - float64(i)
		flat[i] = 100
	}

	tests := []struct {
		name   string
		closes []float64
		want   float64
	}{
		{"only gains", up, 100},
		{"only losses", down, 0},
		{"no movement", flat, 50},
		{"alternating equal moves", []float64{10, 11, 10, 11, 10}, 50},
	}
	for _, tt := range tests {
		period := RSIPeriod
		if len(tt.closes) <= period {
			period = len(tt.closes) - 1
		}
		got, err := RSI(tt.closes, period)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tt.name, err)
		}
		if !got.Valid || math.Abs(got.Float64-tt.want) > 1e-9 {
			t.Errorf("%s: expected %.2f, got %+v", tt.name, tt.want, got)
		}
	}
}

func TestRSI_Insufficient(t *testing.T) {
	got, err := RSI([]float64{1, 2, 3}, RSIPeriod)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Valid {
		t.Errorf("expected undefined RSI, got %v", got.Float64)
	}
	if _, err := RSI([]float64{1, 2, 3}, 0); err == nil {
		t.Error("expected error for zero period")
	}
}

func TestRSI_Range(t *testing.T) {
	closes := make([]float64, 120)
	for i := range closes {
		closes[i] = 100 + 10*math.Sin(float64(i)/5)
	}
	got, err := RSI(closes, RSIPeriod)
	if err != nil || !got.Valid {
		t.Fatalf("expected a value, got %+v (%v)", got, err)
	}
	if got.Float64 <= 0 || got.Float64 >= 100 {
		t.Errorf("expected RSI strictly inside (0, 100), got %.2f", got.Float64)
	}
}
