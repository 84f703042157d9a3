package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"CrossoverSentinel/internal/model"
	"CrossoverSentinel/internal/scanner"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	DataSource struct {
		Provider     string        `yaml:"provider"` // yahoo | alpaca | mock
		AlpacaKey    string        `yaml:"alpaca_key"`
		AlpacaSecret string        `yaml:"alpaca_secret"`
		Universe     string        `yaml:"universe"` // wikipedia | static
		UniverseURL  string        `yaml:"universe_url"`
		Symbols      []string      `yaml:"symbols"`
		FetchTimeout time.Duration `yaml:"fetch_timeout"`
	} `yaml:"data_source"`
	Scan struct {
		EMAPeriod    int      `yaml:"ema_period"`
		SMAPeriod    int      `yaml:"sma_period"`
		LookbackDays int      `yaml:"lookback_days"`
		HistoryDays  int      `yaml:"history_days"`
		Signals      []string `yaml:"signals"`
		Workers      int      `yaml:"workers"`
	} `yaml:"scan"`
	Detail struct {
		HistoryDays int `yaml:"history_days"`
		TopHolders  int `yaml:"top_holders"`
	} `yaml:"detail"`
	Schedule struct {
		ScanCron   string `yaml:"scan_cron"`
		RunOnStart bool   `yaml:"run_on_start"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	HTTP struct {
		Addr             string `yaml:"addr"`
		MetricsSubsystem string `yaml:"metrics_subsystem"`
	} `yaml:"http"`
	Kafka struct {
		Brokers []string `yaml:"brokers"`
		Topic   string   `yaml:"topic"`
	} `yaml:"kafka"`
	Log struct {
		Development bool `yaml:"development"`
	} `yaml:"log"`
	Proxy string `yaml:"proxy"`
}

// environment lists the variables that override the file. Unset variables
// keep the file's value. Numeric overrides are pointers so that an explicit 0
// reaches Validate instead of reading as unset.
type environment struct {
	BotToken     string        `envconfig:"TELEGRAM_BOT_TOKEN"`
	ChatID       string        `envconfig:"TELEGRAM_CHAT_ID"`
	Provider     string        `envconfig:"DATA_PROVIDER"`
	AlpacaKey    string        `envconfig:"APCA_API_KEY_ID"`
	AlpacaSecret string        `envconfig:"APCA_API_SECRET_KEY"`
	Universe     string        `envconfig:"UNIVERSE"`
	Symbols      []string      `envconfig:"SYMBOLS"`
	FetchTimeout time.Duration `envconfig:"FETCH_TIMEOUT"`
	EMAPeriod    *int          `envconfig:"EMA_PERIOD"`
	SMAPeriod    *int          `envconfig:"SMA_PERIOD"`
	LookbackDays *int          `envconfig:"LOOKBACK_DAYS"`
	Signals      []string      `envconfig:"SIGNALS"`
	Workers      *int          `envconfig:"SCAN_WORKERS"`
	ScanCron     string        `envconfig:"CRON_SCAN"`
	RunOnStart   *bool         `envconfig:"RUN_ON_START"`
	SQLitePath   string        `envconfig:"SQLITE_PATH"`
	HTTPAddr     string        `envconfig:"HTTP_ADDR"`
	KafkaBrokers []string      `envconfig:"KAFKA_BROKERS"`
	KafkaTopic   string        `envconfig:"KAFKA_TOPIC"`
	Development  *bool         `envconfig:"LOG_DEVELOPMENT"`
	Proxy        string        `envconfig:"HTTPS_PROXY"`
}

// Load reads .env and the YAML file at path, then applies environment overrides and defaults.
// A missing file of either kind is not an error.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := newConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	var env environment
	if err := envconfig.Process("", &env); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}
	cfg.applyEnv(&env)
	cfg.applyDefaults()

	return cfg, nil
}

func (c *Config) applyEnv(env *environment) {
	setString(&c.Telegram.BotToken, env.BotToken)
	setString(&c.Telegram.ChatID, env.ChatID)
	setString(&c.DataSource.Provider, env.Provider)
	setString(&c.DataSource.AlpacaKey, env.AlpacaKey)
	setString(&c.DataSource.AlpacaSecret, env.AlpacaSecret)
	setString(&c.DataSource.Universe, env.Universe)
	setString(&c.Schedule.ScanCron, env.ScanCron)
	setString(&c.Database.SQLitePath, env.SQLitePath)
	setString(&c.HTTP.Addr, env.HTTPAddr)
	setString(&c.Kafka.Topic, env.KafkaTopic)
	setString(&c.Proxy, env.Proxy)

	if len(env.Symbols) > 0 {
		c.DataSource.Symbols = env.Symbols
	}
	if len(env.Signals) > 0 {
		c.Scan.Signals = env.Signals
	}
	if len(env.KafkaBrokers) > 0 {
		c.Kafka.Brokers = env.KafkaBrokers
	}
	if env.FetchTimeout > 0 {
		c.DataSource.FetchTimeout = env.FetchTimeout
	}
	setInt(&c.Scan.EMAPeriod, env.EMAPeriod)
	setInt(&c.Scan.SMAPeriod, env.SMAPeriod)
	setInt(&c.Scan.LookbackDays, env.LookbackDays)
	setInt(&c.Scan.Workers, env.Workers)
	if env.RunOnStart != nil {
		c.Schedule.RunOnStart = *env.RunOnStart
	}
	if env.Development != nil {
		c.Log.Development = *env.Development
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

// newConfig returns a Config holding the numeric defaults. They are set before
// the file is parsed so that a key written as 0 stays 0 and fails validation.
func newConfig() *Config {
	c := &Config{}
	c.Scan.EMAPeriod = 14
	c.Scan.SMAPeriod = 50
	c.Scan.LookbackDays = 7
	c.Scan.HistoryDays = 183
	c.Scan.Workers = 4
	c.Detail.HistoryDays = 365
	c.Detail.TopHolders = 10
	return c
}

func (c *Config) applyDefaults() {
	if c.DataSource.Provider == "" {
		c.DataSource.Provider = "yahoo"
	}
	if c.DataSource.Universe == "" {
		c.DataSource.Universe = "wikipedia"
	}
	if c.DataSource.FetchTimeout == 0 {
		c.DataSource.FetchTimeout = 30 * time.Second
	}
	if c.Scan.Signals == nil {
		c.Scan.Signals = []string{string(model.CrossoverGolden), string(model.CrossoverDeath)}
	}
	if c.Schedule.ScanCron == "" {
		// 22:30 UTC, after the US close
		c.Schedule.ScanCron = "0 30 22 * * 1-5"
	}
	if c.Database.SQLitePath == "" {
		c.Database.SQLitePath = "data/crossover_sentinel.db"
	}
	if c.HTTP.MetricsSubsystem == "" {
		c.HTTP.MetricsSubsystem = "screener"
	}
	if c.Kafka.Topic == "" {
		c.Kafka.Topic = "crossover-events"
	}
}

// ScanRequest returns the scan parameters as a scanner request.
func (c *Config) ScanRequest() (scanner.Request, error) {
	filter, err := model.ParseDirectionFilter(c.Scan.Signals)
	if err != nil {
		return scanner.Request{}, err
	}
	return scanner.Request{
		EMAPeriod:     c.Scan.EMAPeriod,
		SMAPeriod:     c.Scan.SMAPeriod,
		LookbackDays:  c.Scan.LookbackDays,
		HistoryPeriod: time.Duration(c.Scan.HistoryDays) * 24 * time.Hour,
		Filter:        filter,
	}, nil
}

// TradingDays estimates how many daily bars a span of calendar days yields,
// counting five sessions per week and ignoring holidays.
func TradingDays(calendarDays int) int {
	return calendarDays * 5 / 7
}

// CronParser accepts the six-field (with seconds) expressions used by the scheduler.
var CronParser = cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// Validate checks that all required fields are set and consistent.
func (c *Config) Validate() error {
	if c.Telegram.BotToken != "" && c.Telegram.ChatID == "" {
		return fmt.Errorf("telegram.chat_id is required with telegram.bot_token")
	}
	switch c.DataSource.Provider {
	case "yahoo", "mock":
	case "alpaca":
		if c.DataSource.AlpacaKey == "" || c.DataSource.AlpacaSecret == "" {
			return fmt.Errorf("data_source.alpaca_key and alpaca_secret are required for alpaca")
		}
	default:
		return fmt.Errorf("data_source.provider %q is not one of yahoo, alpaca, mock", c.DataSource.Provider)
	}
	switch c.DataSource.Universe {
	case "wikipedia":
	case "static":
		if len(c.DataSource.Symbols) == 0 {
			return fmt.Errorf("data_source.symbols is required for a static universe")
		}
	default:
		return fmt.Errorf("data_source.universe %q is not one of wikipedia, static", c.DataSource.Universe)
	}

	req, err := c.ScanRequest()
	if err != nil {
		return fmt.Errorf("scan.signals: %w", err)
	}
	if err := req.Validate(); err != nil {
		return fmt.Errorf("scan: %w", err)
	}
	if rows := TradingDays(c.Scan.HistoryDays); rows <= c.Scan.SMAPeriod {
		return fmt.Errorf("%w: scan.history_days %d covers about %d trading days, need more than sma_period %d",
			model.ErrInvalidParameter, c.Scan.HistoryDays, rows, c.Scan.SMAPeriod)
	}
	if c.Scan.Workers < 1 {
		return fmt.Errorf("%w: scan.workers must be positive", model.ErrInvalidParameter)
	}
	if c.Detail.HistoryDays < 1 {
		return fmt.Errorf("%w: detail.history_days must be positive", model.ErrInvalidParameter)
	}
	if c.Detail.TopHolders < 1 {
		return fmt.Errorf("detail.top_holders must be positive")
	}
	if _, err := CronParser.Parse(c.Schedule.ScanCron); err != nil {
		return fmt.Errorf("schedule.scan_cron: %w", err)
	}
	return nil
}
