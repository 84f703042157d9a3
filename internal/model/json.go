package model

import (
	"github.com/guregu/null/v6"
	"github.com/mailru/easyjson"
	"github.com/mailru/easyjson/jwriter"
)

const dateLayout = "2006-01-02"

func writeNullFloat(w *jwriter.Writer, f null.Float) {
	if !f.Valid {
		w.RawString("null")
		return
	}
	w.Float64(f.Float64)
}

// MarshalEasyJSON supports easyjson.Marshaler interface
func (e CrossoverEvent) MarshalEasyJSON(w *jwriter.Writer) {
	w.RawString(`{"symbol":`)
	w.String(e.Symbol)
	w.RawString(`,"date":`)
	w.String(e.Date.Format(dateLayout))
	w.RawString(`,"close":`)
	w.Float64(e.ClosePrice)
	w.RawString(`,"ema":`)
	w.Float64(e.EMAValue)
	w.RawString(`,"sma":`)
	w.Float64(e.SMAValue)
	w.RawString(`,"direction":`)
	w.String(string(e.Direction))
	w.RawByte('}')
}

// MarshalJSON supports json.Marshaler interface
func (e CrossoverEvent) MarshalJSON() ([]byte, error) { return easyjson.Marshal(e) }

// MarshalEasyJSON supports easyjson.Marshaler interface
func (r *ScanResult) MarshalEasyJSON(w *jwriter.Writer) {
	w.RawString(`{"run_id":`)
	w.String(r.RunID)
	w.RawString(`,"params":{"ema_period":`)
	w.Int(r.Params.EMAPeriod)
	w.RawString(`,"sma_period":`)
	w.Int(r.Params.SMAPeriod)
	w.RawString(`,"lookback_days":`)
	w.Int(r.Params.LookbackDays)
	w.RawString(`},"signals":[`)
	for i, d := range r.Filter.Directions() {
		if i > 0 {
			w.RawByte(',')
		}
		w.String(string(d))
	}
	w.RawString(`],"golden_count":`)
	w.Int(r.GoldenCount)
	w.RawString(`,"death_count":`)
	w.Int(r.DeathCount)
	w.RawString(`,"partial":`)
	w.Bool(r.Partial)
	w.RawString(`,"no_data":`)
	w.Bool(r.NoDataAvailable())
	w.RawString(`,"stats":{"total":`)
	w.Int(r.Stats.Total)
	w.RawString(`,"processed":`)
	w.Int(r.Stats.Processed)
	w.RawString(`,"without_data":`)
	w.Int(r.Stats.NoData)
	w.RawString(`,"started_at":`)
	w.Raw(r.Stats.StartedAt.MarshalJSON())
	w.RawString(`,"duration_ms":`)
	w.Int64(r.Duration().Milliseconds())
	w.RawString(`},"events":[`)
	for i, e := range r.Events {
		if i > 0 {
			w.RawByte(',')
		}
		e.MarshalEasyJSON(w)
	}
	w.RawString(`]}`)
}

// MarshalJSON supports json.Marshaler interface
func (r *ScanResult) MarshalJSON() ([]byte, error) { return easyjson.Marshal(r) }

// MarshalEasyJSON supports easyjson.Marshaler interface
func (s *IndicatorSeries) MarshalEasyJSON(w *jwriter.Writer) {
	w.RawString(`{"symbol":`)
	w.String(s.Symbol)
	w.RawString(`,"ema_period":`)
	w.Int(s.EMAPeriod)
	w.RawString(`,"sma_period":`)
	w.Int(s.SMAPeriod)
	w.RawString(`,"points":[`)
	for i, p := range s.Points {
		if i > 0 {
			w.RawByte(',')
		}
		w.RawString(`{"date":`)
		w.String(p.Date.Format(dateLayout))
		w.RawString(`,"close":`)
		w.Float64(p.Close)
		w.RawString(`,"ema":`)
		w.Float64(p.EMA)
		w.RawString(`,"sma":`)
		writeNullFloat(w, p.SMA)
		w.RawString(`,"state":`)
		w.String(string(p.State))
		w.RawByte('}')
	}
	w.RawString(`]}`)
}

// MarshalJSON supports json.Marshaler interface
func (s *IndicatorSeries) MarshalJSON() ([]byte, error) { return easyjson.Marshal(s) }

// MarshalEasyJSON supports easyjson.Marshaler interface
func (d *SymbolDetail) MarshalEasyJSON(w *jwriter.Writer) {
	w.RawString(`{"symbol":`)
	w.String(d.Symbol)

	w.RawString(`,"financials":`)
	if d.Snapshot == nil {
		w.RawString("null")
	} else {
		w.RawByte('{')
		for i, g := range d.Snapshot.Groups() {
			if i > 0 {
				w.RawByte(',')
			}
			w.String(g.Name)
			w.RawString(`:{`)
			for j, m := range g.Metrics {
				if j > 0 {
					w.RawByte(',')
				}
				w.String(m.Label)
				w.RawByte(':')
				writeNullFloat(w, m.Value)
			}
			w.RawByte('}')
		}
		w.RawByte('}')
	}

	w.RawString(`,"holders":[`)
	if d.Snapshot != nil {
		for i, h := range d.Snapshot.Holders {
			if i > 0 {
				w.RawByte(',')
			}
			w.RawString(`{"name":`)
			w.String(h.Name)
			w.RawString(`,"shares":`)
			w.Int64(h.Shares)
			w.RawString(`,"value":`)
			writeNullFloat(w, h.Value)
			w.RawString(`,"pct_held":`)
			writeNullFloat(w, h.PctHeld)
			w.RawString(`,"date_reported":`)
			if h.DateReported.IsZero() {
				w.RawString("null")
			} else {
				w.String(h.DateReported.Format(dateLayout))
			}
			w.RawByte('}')
		}
	}

	w.RawString(`],"performance":`)
	if p := d.Performance; p == nil {
		w.RawString("null")
	} else {
		w.RawString(`{"high":`)
		w.Float64(p.High)
		w.RawString(`,"low":`)
		w.Float64(p.Low)
		w.RawString(`,"position":`)
		w.Float64(p.Position)
		w.RawString(`,"rsi":`)
		writeNullFloat(w, p.RSI)
		w.RawString(`,"points":[`)
		for i, pt := range p.Points {
			if i > 0 {
				w.RawByte(',')
			}
			w.RawString(`{"date":`)
			w.String(pt.Date.Format(dateLayout))
			w.RawString(`,"volume":`)
			w.Float64(pt.Volume)
			w.RawString(`,"cumulative_return":`)
			w.Float64(pt.CumulativeReturn)
			w.RawByte('}')
		}
		w.RawString(`]}`)
	}
	w.RawByte('}')
}

// MarshalJSON supports json.Marshaler interface
func (d *SymbolDetail) MarshalJSON() ([]byte, error) { return easyjson.Marshal(d) }
