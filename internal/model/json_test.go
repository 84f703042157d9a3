package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/guregu/null/v6"
)

func TestScanResultJSON(t *testing.T) {
	res := &ScanResult{
		RunID:       "abc",
		Params:      ScanParams{EMAPeriod: 14, SMAPeriod: 50, LookbackDays: 7},
		Filter:      FilterGolden,
		GoldenCount: 1,
		Stats:       ScanStats{Total: 2, Processed: 2},
		Events: []CrossoverEvent{{
			Symbol: "BRK-B", Date: time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC),
			ClosePrice: 410.5, EMAValue: 409.1, SMAValue: 408.7, Direction: CrossoverGolden,
		}},
	}

	data, err := json.Marshal(res)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out struct {
		RunID   string   `json:"run_id"`
		Signals []string `json:"signals"`
		Golden  int      `json:"golden_count"`
		Events  []struct {
			Symbol    string  `json:"symbol"`
			Date      string  `json:"date"`
			Close     float64 `json:"close"`
			Direction string  `json:"direction"`
		} `json:"events"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, data)
	}
	if out.RunID != "abc" || out.Golden != 1 || len(out.Signals) != 1 || out.Signals[0] != "GOLDEN" {
		t.Errorf("unexpected header %+v", out)
	}
	if len(out.Events) != 1 || out.Events[0].Date != "2024-06-03" || out.Events[0].Close != 410.5 {
		t.Errorf("unexpected events %+v", out.Events)
	}
}

func TestIndicatorSeriesJSON_UndefinedSMA(t *testing.T) {
	s := &IndicatorSeries{Symbol: "X", EMAPeriod: 3, SMAPeriod: 2, Points: []IndicatorPoint{
		{Date: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), Close: 10, EMA: 10, State: CrossoverNone},
		{Date: time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), Close: 12, EMA: 11, SMA: null.FloatFrom(11), State: CrossoverNone},
	}}
	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out struct {
		Points []struct {
			SMA *float64 `json:"sma"`
		} `json:"points"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, data)
	}
	if out.Points[0].SMA != nil {
		t.Errorf("expected null SMA for the first point, got %v", *out.Points[0].SMA)
	}
	if out.Points[1].SMA == nil || *out.Points[1].SMA != 11 {
		t.Errorf("expected SMA 11, got %v", out.Points[1].SMA)
	}
}

func TestSymbolDetailJSON(t *testing.T) {
	snap := &FinancialSnapshot{Symbol: "AAPL"}
	snap.General.MarketCap = null.FloatFrom(3e12)
	snap.Holders = []Holder{{Name: `Smith & "Co"`, Shares: 10}}
	d := &SymbolDetail{Symbol: "AAPL", Snapshot: snap}

	data, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out map[string]interface{}
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, data)
	}
	if out["performance"] != nil {
		t.Errorf("expected null performance, got %v", out["performance"])
	}
	general := out["financials"].(map[string]interface{})["General"].(map[string]interface{})
	if general["Market Cap"] != 3e12 || general["PEG Ratio"] != nil {
		t.Errorf("unexpected general metrics %v", general)
	}
	holders := out["holders"].([]interface{})
	if holders[0].(map[string]interface{})["name"] != `Smith & "Co"` {
		t.Errorf("holder name not escaped correctly: %v", holders[0])
	}
}
