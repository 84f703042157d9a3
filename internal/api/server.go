// Package api exposes scan results, symbol overlays and details as JSON over fasthttp.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"CrossoverSentinel/internal/aggregator"
	"CrossoverSentinel/internal/collector"
	"CrossoverSentinel/internal/model"
	"CrossoverSentinel/internal/recorder"
	"CrossoverSentinel/internal/scanner"

	"github.com/buaazp/fasthttprouter"
	"github.com/mailru/easyjson"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

// defaultRunsLimit is how many runs GET /api/v1/scans returns without ?limit.
const defaultRunsLimit = 20

// Board holds the result of the scheduled scan.
type Board interface {
	Latest() *model.ScanResult
}

// Details builds the per-symbol views.
type Details interface {
	Overlay(ctx context.Context, symbol string, emaPeriod, smaPeriod int) (*model.IndicatorSeries, error)
	Report(ctx context.Context, symbol string) (*model.SymbolDetail, error)
}

// Server serves the screener's HTTP API.
type Server struct {
	Board    Board
	Scans    scanner.Service
	Defaults scanner.Request
	Universe collector.UniverseProvider
	Details  Details
	Recorder recorder.Recorder
	Logger   *zap.Logger

	// Ctx is the parent of every request context; cancelling it aborts running scans.
	Ctx           context.Context
	ScanTimeout   time.Duration
	LookupTimeout time.Duration
}

// NewServer creates a Server. rec may be nil when no run history is kept.
func NewServer(ctx context.Context, board Board, scans scanner.Service, defaults scanner.Request,
	universe collector.UniverseProvider, details Details, rec recorder.Recorder, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Server{
		Board:         board,
		Scans:         scans,
		Defaults:      defaults,
		Universe:      universe,
		Details:       details,
		Recorder:      rec,
		Logger:        logger,
		Ctx:           ctx,
		ScanTimeout:   10 * time.Minute,
		LookupTimeout: 30 * time.Second,
	}
}

// Router registers every endpoint on a new router.
func (s *Server) Router() *fasthttprouter.Router {
	router := fasthttprouter.New()
	router.GET("/api/v1/scans", s.listRuns)
	router.POST("/api/v1/scans", s.runScan)
	router.GET("/api/v1/scans/latest", s.latestScan)
	router.GET("/api/v1/symbols", s.listSymbols)
	router.GET("/api/v1/symbols/:symbol/indicators", s.indicators)
	router.GET("/api/v1/symbols/:symbol/detail", s.detail)
	return router
}

func (s *Server) respond(ctx *fasthttp.RequestCtx, v easyjson.Marshaler) {
	ctx.Response.ResetBody()
	if err := encodeResponse(&ctx.Response, http.StatusOK, v); err != nil {
		s.fail(ctx, err)
	}
}

// fail writes err as a JSON error body. Server side errors are logged.
func (s *Server) fail(ctx *fasthttp.RequestCtx, err error) {
	code := statusOf(err)
	if code >= http.StatusInternalServerError {
		s.Logger.Error("request failed",
			zap.ByteString("method", ctx.Method()),
			zap.ByteString("path", ctx.Path()),
			zap.Error(err),
		)
	}
	ctx.Response.ResetBody()
	if encErr := encodeResponse(&ctx.Response, code, errorBody{Code: code, Message: err.Error()}); encErr != nil {
		ctx.Error(http.StatusText(code), code)
	}
}

func symbolParam(ctx *fasthttp.RequestCtx) string {
	v, _ := ctx.UserValue("symbol").(string)
	return collector.NormalizeSymbol(v)
}

func (s *Server) listRuns(ctx *fasthttp.RequestCtx) {
	limit, err := intArg(ctx.QueryArgs(), "limit", defaultRunsLimit)
	if err != nil {
		s.fail(ctx, err)
		return
	}
	runs, err := s.Recorder.RecentScans(limit)
	if err != nil {
		s.fail(ctx, fmt.Errorf("list scan runs: %w", err))
		return
	}
	s.respond(ctx, runList(runs))
}

// runScan scans the universe with the query's parameters. The scheduled
// result on the board is left untouched.
func (s *Server) runScan(ctx *fasthttp.RequestCtx) {
	req, err := decodeScanRequest(ctx.QueryArgs(), s.Defaults)
	if err != nil {
		s.fail(ctx, err)
		return
	}

	scanCtx, cancel := context.WithTimeout(s.Ctx, s.ScanTimeout)
	defer cancel()

	res, err := s.Scans.Scan(scanCtx, req)
	if res == nil {
		s.fail(ctx, err)
		return
	}
	if err != nil {
		s.Logger.Warn("scan returned partial result", zap.String("run_id", res.RunID), zap.Error(err))
	}
	s.respond(ctx, res)
}

func (s *Server) latestScan(ctx *fasthttp.RequestCtx) {
	res := s.Board.Latest()
	if res == nil {
		s.fail(ctx, fmt.Errorf("%w: no scan has completed yet", model.ErrDataUnavailable))
		return
	}
	filter, err := filterArg(ctx.QueryArgs(), res.Filter)
	if err != nil {
		s.fail(ctx, err)
		return
	}
	s.respond(ctx, aggregator.Refilter(res, filter))
}

func (s *Server) listSymbols(ctx *fasthttp.RequestCtx) {
	lookupCtx, cancel := context.WithTimeout(s.Ctx, s.LookupTimeout)
	defer cancel()

	symbols, err := s.Universe.ListSymbols(lookupCtx)
	if err != nil {
		s.fail(ctx, fmt.Errorf("list symbols: %w", err))
		return
	}
	s.respond(ctx, symbolList(symbols))
}

func (s *Server) indicators(ctx *fasthttp.RequestCtx) {
	args := ctx.QueryArgs()
	ema, err := intArg(args, "ema", s.Defaults.EMAPeriod)
	if err != nil {
		s.fail(ctx, err)
		return
	}
	sma, err := intArg(args, "sma", s.Defaults.SMAPeriod)
	if err != nil {
		s.fail(ctx, err)
		return
	}

	lookupCtx, cancel := context.WithTimeout(s.Ctx, s.LookupTimeout)
	defer cancel()

	series, err := s.Details.Overlay(lookupCtx, symbolParam(ctx), ema, sma)
	if err != nil {
		s.fail(ctx, err)
		return
	}
	s.respond(ctx, series)
}

func (s *Server) detail(ctx *fasthttp.RequestCtx) {
	lookupCtx, cancel := context.WithTimeout(s.Ctx, s.LookupTimeout)
	defer cancel()

	d, err := s.Details.Report(lookupCtx, symbolParam(ctx))
	if err != nil {
		s.fail(ctx, err)
		return
	}
	s.respond(ctx, d)
}
