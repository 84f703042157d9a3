package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"CrossoverSentinel/internal/model"
	"CrossoverSentinel/internal/recorder"
	"CrossoverSentinel/internal/scanner"

	"github.com/mailru/easyjson"
	"github.com/mailru/easyjson/jwriter"
	"github.com/valyala/fasthttp"
)

const timeLayout = "2006-01-02T15:04:05Z07:00"

// encodeResponse writes v as the JSON body of r.
func encodeResponse(r *fasthttp.Response, status int, v easyjson.Marshaler) error {
	r.Header.SetContentType("application/json")
	r.SetStatusCode(status)
	if _, err := easyjson.MarshalToWriter(v, r.BodyWriter()); err != nil {
		return fmt.Errorf("failed to encode JSON response: %w", err)
	}
	return nil
}

// statusOf maps domain errors to HTTP status codes.
func statusOf(err error) int {
	switch {
	case errors.Is(err, model.ErrInvalidParameter):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrDataUnavailable):
		return http.StatusNotFound
	case errors.Is(err, model.ErrScanAborted), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

type errorBody struct {
	Code    int
	Message string
}

// MarshalEasyJSON supports easyjson.Marshaler interface
func (e errorBody) MarshalEasyJSON(w *jwriter.Writer) {
	w.RawString(`{"code":`)
	w.Int(e.Code)
	w.RawString(`,"error":`)
	w.String(e.Message)
	w.RawByte('}')
}

type symbolList []string

// MarshalEasyJSON supports easyjson.Marshaler interface
func (l symbolList) MarshalEasyJSON(w *jwriter.Writer) {
	w.RawString(`{"count":`)
	w.Int(len(l))
	w.RawString(`,"symbols":[`)
	for i, s := range l {
		if i > 0 {
			w.RawByte(',')
		}
		w.String(s)
	}
	w.RawString(`]}`)
}

type runList []recorder.ScanRun

// MarshalEasyJSON supports easyjson.Marshaler interface
func (l runList) MarshalEasyJSON(w *jwriter.Writer) {
	w.RawString(`{"runs":[`)
	for i, r := range l {
		if i > 0 {
			w.RawByte(',')
		}
		w.RawString(`{"run_id":`)
		w.String(r.RunID)
		w.RawString(`,"started_at":`)
		w.String(r.StartedAt.UTC().Format(timeLayout))
		w.RawString(`,"finished_at":`)
		w.String(r.FinishedAt.UTC().Format(timeLayout))
		w.RawString(`,"ema_period":`)
		w.Int(r.EMAPeriod)
		w.RawString(`,"sma_period":`)
		w.Int(r.SMAPeriod)
		w.RawString(`,"lookback_days":`)
		w.Int(r.LookbackDays)
		w.RawString(`,"signals":`)
		w.String(r.Filter)
		w.RawString(`,"total":`)
		w.Int(r.Total)
		w.RawString(`,"processed":`)
		w.Int(r.Processed)
		w.RawString(`,"no_data":`)
		w.Int(r.NoData)
		w.RawString(`,"golden_count":`)
		w.Int(r.GoldenCount)
		w.RawString(`,"death_count":`)
		w.Int(r.DeathCount)
		w.RawString(`,"partial":`)
		w.Bool(r.Partial)
		if r.Error != "" {
			w.RawString(`,"error":`)
			w.String(r.Error)
		}
		w.RawByte('}')
	}
	w.RawString(`]}`)
}

// intArg reads a non-negative integer query argument, def when absent.
func intArg(args *fasthttp.Args, key string, def int) (int, error) {
	if !args.Has(key) {
		return def, nil
	}
	v, err := args.GetUint(key)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be a non-negative integer", model.ErrInvalidParameter, key)
	}
	return v, nil
}

// filterArg reads "signal" as a comma separated direction list; "all" selects both.
func filterArg(args *fasthttp.Args, def model.DirectionFilter) (model.DirectionFilter, error) {
	if !args.Has("signal") {
		return def, nil
	}
	raw := string(args.Peek("signal"))
	if strings.EqualFold(raw, "all") {
		return model.FilterAll, nil
	}
	return model.ParseDirectionFilter(strings.Split(raw, ","))
}

// decodeScanRequest overrides def with the query arguments ema, sma, lookback and signal.
func decodeScanRequest(args *fasthttp.Args, def scanner.Request) (scanner.Request, error) {
	req := def
	var err error
	if req.EMAPeriod, err = intArg(args, "ema", def.EMAPeriod); err != nil {
		return req, err
	}
	if req.SMAPeriod, err = intArg(args, "sma", def.SMAPeriod); err != nil {
		return req, err
	}
	if req.LookbackDays, err = intArg(args, "lookback", def.LookbackDays); err != nil {
		return req, err
	}
	if req.Filter, err = filterArg(args, def.Filter); err != nil {
		return req, err
	}
	return req, req.Validate()
}
