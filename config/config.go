// Package config loads pipeline settings from a yaml file or, when no
// file is given, from command-line flags. Credentials never live here;
// they come from the environment.
package config

import (
	"flag"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds everything the pipeline needs besides credentials.
type Config struct {
	Exchange         string        `yaml:"exchange"`
	Symbol           string        `yaml:"symbol"`
	Interval         string        `yaml:"interval"`
	LookbackPeriods  int           `yaml:"lookback_periods"`
	AnalyzeInterval  time.Duration `yaml:"analyze_interval"`
	IndicatorBackend string        `yaml:"indicator_backend"`
	GeminiModel      string        `yaml:"gemini_model"`
	JournalDir       string        `yaml:"journal_dir"`
	WebListenAddr    string        `yaml:"web_listen_addr"`
}

// Defaults returns a config with every field at its default.
func Defaults() Config {
	return Config{
		Exchange:         "binance",
		Symbol:           "PAXGUSDT",
		Interval:         "1h",
		LookbackPeriods:  250,
		AnalyzeInterval:  5 * time.Minute,
		IndicatorBackend: "cinar",
		GeminiModel:      "gemini-2.0-flash",
		JournalDir:       "./wal/decisions",
		WebListenAddr:    ":8080",
	}
}

// Get resolves the config from the -config yaml path when provided,
// otherwise from individual flags.
func Get() (Config, error) {
	d := Defaults()

	configPath := flag.String("config", "", "path to yaml config")
	exchange := flag.String("exchange", d.Exchange, "kline source: binance or bybit")
	symbol := flag.String("symbol", d.Symbol, "exchange symbol used as the gold proxy")
	interval := flag.String("interval", d.Interval, "kline interval, example: 1h")
	lookback := flag.Int("lookback", d.LookbackPeriods, "number of candles fetched per analysis")
	analyzeInterval := flag.Duration("analyzeinterval", d.AnalyzeInterval, "pause between analysis runs")
	backend := flag.String("indicatorbackend", d.IndicatorBackend, "indicator backend: cinar or manual")
	model := flag.String("model", d.GeminiModel, "Gemini model name")
	journalDir := flag.String("journaldir", d.JournalDir, "decision journal directory")
	listen := flag.String("listen", d.WebListenAddr, "dashboard listen address")
	flag.Parse()

	if *configPath != "" {
		return getYaml(*configPath)
	}

	cfg := Config{
		Exchange:         *exchange,
		Symbol:           *symbol,
		Interval:         *interval,
		LookbackPeriods:  *lookback,
		AnalyzeInterval:  *analyzeInterval,
		IndicatorBackend: *backend,
		GeminiModel:      *model,
		JournalDir:       *journalDir,
		WebListenAddr:    *listen,
	}
	return cfg, cfg.validate()
}

func getYaml(path string) (Config, error) {
	f, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Defaults()
	if err := yaml.Unmarshal(f, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse yaml config: %w", err)
	}

	return cfg, cfg.validate()
}

func (c Config) validate() error {
	switch c.Exchange {
	case "binance", "bybit":
	default:
		return fmt.Errorf("incorrect 'exchange' param: %q (must be binance or bybit)", c.Exchange)
	}

	if c.Symbol == "" {
		return fmt.Errorf("'symbol' param must not be empty")
	}
	if c.LookbackPeriods < 50 {
		return fmt.Errorf("incorrect 'lookback_periods' param: %d (need at least 50 for indicators)", c.LookbackPeriods)
	}
	if c.AnalyzeInterval <= 0 {
		return fmt.Errorf("incorrect 'analyze_interval' param: %s", c.AnalyzeInterval)
	}

	switch c.IndicatorBackend {
	case "cinar", "manual":
	default:
		return fmt.Errorf("incorrect 'indicator_backend' param: %q (must be cinar or manual)", c.IndicatorBackend)
	}

	return nil
}
