package main

import (
	"context"
	"flag"
	"fmt"
	"net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"CrossoverSentinel/internal/api"
	"CrossoverSentinel/internal/collector"
	"CrossoverSentinel/internal/config"
	"CrossoverSentinel/internal/detail"
	"CrossoverSentinel/internal/notifier"
	"CrossoverSentinel/internal/recorder"
	"CrossoverSentinel/internal/scanner"
	"CrossoverSentinel/internal/scheduler"

	"github.com/flf2ko/fasthttp-prometheus"
	kitprometheus "github.com/go-kit/kit/metrics/prometheus"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
	"go.uber.org/zap"
)

var methodError = []string{"method", "error"}

func main() {
	once := flag.Bool("once", false, "run one scan, print the result table and exit")
	cfgPath := flag.String("config", "configs/config.yaml", "path to the YAML config file")
	flag.Parse()

	if v := os.Getenv("CONFIG_PATH"); v != "" {
		*cfgPath = v
	}
	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := newLogger(cfg.Log.Development)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := cfg.Validate(); err != nil {
		logger.Fatal("config validation", zap.Error(err))
	}
	req, err := cfg.ScanRequest()
	if err != nil {
		logger.Fatal("scan parameters", zap.Error(err))
	}
	logger.Info("CrossoverSentinel starting",
		zap.String("provider", cfg.DataSource.Provider),
		zap.String("universe", cfg.DataSource.Universe),
		zap.Int("ema", req.EMAPeriod),
		zap.Int("sma", req.SMAPeriod),
		zap.Int("lookback", req.LookbackDays),
		zap.Stringer("signals", req.Filter),
	)

	// Data sources
	fetcher, financials := newFetchers(cfg)
	col := collector.NewCollector(fetcher, financials, cfg.DataSource.FetchTimeout, logger.Named("collector"))
	universe := newUniverse(cfg)

	// Recorder
	var rec recorder.Recorder
	if *once {
		rec = recorder.NewNoopRecorder()
	} else {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath, logger.Named("recorder"))
		if err != nil {
			logger.Warn("init sqlite recorder failed, using noop", zap.Error(err))
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	}

	// Scan service and middlewares
	svc := scanner.NewService(universe, scanner.New(col, cfg.Scan.Workers, logger.Named("scanner")), logger.Named("scanner"))
	svc = scanner.NewLoggingMiddleware(logger.Named("scan"), svc)
	svc = scanner.NewRecordingMiddleware(rec, logger.Named("recorder"), svc)
	svc = scanner.NewInstrumentingMiddleware(
		kitprometheus.NewCounterFrom(prometheus.CounterOpts{
			Namespace: "crossover",
			Subsystem: cfg.HTTP.MetricsSubsystem,
			Name:      "scan_count",
			Help:      "Number of scans run",
		}, methodError),
		kitprometheus.NewSummaryFrom(prometheus.SummaryOpts{
			Namespace: "crossover",
			Subsystem: cfg.HTTP.MetricsSubsystem,
			Name:      "scan_duration_seconds",
			Help:      "Scan duration in seconds",
		}, methodError),
		kitprometheus.NewCounterFrom(prometheus.CounterOpts{
			Namespace: "crossover",
			Subsystem: cfg.HTTP.MetricsSubsystem,
			Name:      "crossovers_total",
			Help:      "Crossovers reported by scans",
		}, []string{"direction"}),
		svc,
	)

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if *once {
		runOnce(ctx, cancel, svc, req)
		return
	}

	det := detail.NewService(col, col, cfg.Detail.TopHolders, logger.Named("detail"))
	det.ReportPeriod = time.Duration(cfg.Detail.HistoryDays) * 24 * time.Hour

	// Telegram notifier
	var tn *notifier.TelegramNotifier
	var n scheduler.Notifier
	if cfg.Telegram.BotToken != "" {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy, logger.Named("telegram"))
		n = tn
	} else {
		logger.Warn("telegram is not configured, reports are only logged")
	}

	// Scheduler
	sched := scheduler.NewScheduler(ctx, svc, req, det, n, rec, logger.Named("scheduler"))
	if len(cfg.Kafka.Brokers) > 0 {
		pub := notifier.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer pub.Close()
		sched.Publisher = pub
		logger.Info("kafka publishing enabled", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))
	}
	if err := sched.Register(cfg.Schedule.ScanCron); err != nil {
		logger.Fatal("register cron tasks", zap.Error(err))
	}
	sched.Start()
	defer sched.Stop()

	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleCommand)
		logger.Info("telegram polling started")
	}

	if cfg.Schedule.RunOnStart {
		logger.Info("RUN_ON_START enabled, executing scan now")
		go sched.RunScanNow()
	}

	// HTTP API
	var httpServer *fasthttp.Server
	if cfg.HTTP.Addr != "" {
		server := api.NewServer(ctx, sched, svc, req, universe, det, rec, logger.Named("api"))
		router := server.Router()
		router.Handle("GET", "/debug/pprof/", fasthttpadaptor.NewFastHTTPHandlerFunc(pprof.Index))
		router.Handle("GET", "/debug/pprof/profile", fasthttpadaptor.NewFastHTTPHandlerFunc(pprof.Profile))

		p := fasthttpprometheus.NewPrometheus(cfg.HTTP.MetricsSubsystem)
		httpServer = &fasthttp.Server{
			Handler:     p.WrapHandler(router),
			ReadTimeout: 5 * time.Second,
		}
		go func() {
			logger.Info("starting http server", zap.String("addr", cfg.HTTP.Addr))
			if err := httpServer.ListenAndServe(cfg.HTTP.Addr); err != nil {
				logger.Error("server run failure", zap.Error(err))
				cancel()
			}
		}()
	}

	logger.Info("CrossoverSentinel is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		logger.Info("shutdown signal received, stopping", zap.Stringer("signal", sig))
	case <-ctx.Done():
	}
	cancel()

	if httpServer != nil {
		if err := httpServer.Shutdown(); err != nil {
			logger.Error("server shutdown failure", zap.Error(err))
		}
	}
	logger.Info("CrossoverSentinel stopped")
}

func newLogger(development bool) (*zap.Logger, error) {
	if development {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// newFetchers picks the history source. Fundamentals always come from Yahoo
// unless the mock provider is selected.
func newFetchers(cfg *config.Config) (collector.Fetcher, collector.FinancialsFetcher) {
	switch cfg.DataSource.Provider {
	case "mock":
		m := &collector.MockFetcher{}
		return m, m
	case "alpaca":
		return collector.NewAlpacaFetcher(cfg.DataSource.AlpacaKey, cfg.DataSource.AlpacaSecret), collector.NewYahooFetcher(cfg.Proxy)
	default:
		y := collector.NewYahooFetcher(cfg.Proxy)
		return y, y
	}
}

func newUniverse(cfg *config.Config) collector.UniverseProvider {
	if cfg.DataSource.Universe == "static" {
		return collector.NewStaticUniverse(cfg.DataSource.Symbols)
	}
	return collector.NewWikipediaUniverse(cfg.DataSource.UniverseURL, cfg.Proxy)
}

// runOnce scans once and prints the table. SIGINT aborts the scan and prints the partial result.
func runOnce(ctx context.Context, cancel context.CancelFunc, svc scanner.Service, req scanner.Request) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			cancel()
		case <-ctx.Done():
		}
	}()

	res, err := svc.Scan(ctx, req)
	if res == nil {
		fmt.Fprintf(os.Stderr, "scan failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(renderTable(res))
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
	}
}
