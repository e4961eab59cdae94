// Command signalbot runs the gold signal analysis pipeline: it collects
// candles from an exchange, computes technical indicators, asks Gemini
// for a confidence-gated trading decision and persists the outcome.
//
// Usage:
//
//	signalbot --config config.yaml
//	signalbot setup            (interactive config wizard)
//	signalbot (uses CLI arguments)
//
// Environment variables:
//
//	GEMINI_API_KEY           reasoning model key (omit for demo mode)
//	FIREBASE_DATABASE_URL    Realtime Database URL (omit for local mode)
//	FIREBASE_API_KEY         database auth key (optional)
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/adshao/go-binance/v2"
	bybit "github.com/hirokisan/bybit/v2"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/VietCodeBug/TelegramBotForex/config"
	"github.com/VietCodeBug/TelegramBotForex/internal/clients"
	"github.com/VietCodeBug/TelegramBotForex/internal/domain"
	"github.com/VietCodeBug/TelegramBotForex/internal/services/analyzer"
	"github.com/VietCodeBug/TelegramBotForex/internal/services/market/collector"
	"github.com/VietCodeBug/TelegramBotForex/internal/services/market/indicators"
	"github.com/VietCodeBug/TelegramBotForex/internal/setup"
	"github.com/VietCodeBug/TelegramBotForex/internal/storage/firebase"
	"github.com/VietCodeBug/TelegramBotForex/internal/storage/journal"
	"github.com/VietCodeBug/TelegramBotForex/internal/web"
	"github.com/VietCodeBug/TelegramBotForex/pkg/retrier"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "setup" {
		if err := setup.RunTUI(); err != nil {
			log.Fatal(err)
		}
		return
	}

	_ = godotenv.Load()

	cfg, err := config.Get()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	var model clients.ModelClient
	if apiKey := os.Getenv("GEMINI_API_KEY"); apiKey != "" {
		model = clients.NewGeminiClient(apiKey, cfg.GeminiModel)
	} else {
		logger.Warn("GEMINI_API_KEY not set, running in demo mode")
	}

	store := firebase.New(
		os.Getenv("FIREBASE_DATABASE_URL"),
		os.Getenv("FIREBASE_API_KEY"),
		logger,
	)

	jnl, err := journal.New(cfg.JournalDir)
	if err != nil {
		logger.Warn("decision journal unavailable", zap.Error(err))
		jnl = nil
	} else {
		defer jnl.Close()
	}

	provider, err := klineProvider(cfg.Exchange)
	if err != nil {
		logger.Fatal("kline provider init failed", zap.Error(err))
	}

	engine := indicators.NewEngine(
		indicators.ResolveBackend(cfg.IndicatorBackend),
		indicators.DefaultParams(),
		logger,
	)
	coll := collector.New(provider, engine, cfg.Symbol, logger)
	anl := analyzer.New(model, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var journalReader web.JournalReader
	if jnl != nil {
		journalReader = jnl
	}
	go func() {
		server := web.NewServer(cfg.WebListenAddr, store, journalReader, logger)
		if err := server.Start(ctx); err != nil {
			logger.Error("dashboard stopped", zap.Error(err))
		}
	}()

	store.LogEvent(ctx, "STARTUP", fmt.Sprintf("pipeline online: %s %s via %s", cfg.Symbol, cfg.Interval, cfg.Exchange))
	logger.Info("pipeline started",
		zap.String("exchange", cfg.Exchange),
		zap.String("symbol", cfg.Symbol),
		zap.String("interval", cfg.Interval),
		zap.String("store_mode", string(store.Mode())))

	run(ctx, cfg, coll, anl, store, jnl, logger)

	store.LogEvent(context.Background(), "SHUTDOWN", "pipeline stopped")
	logger.Info("pipeline stopped")
}

func klineProvider(exchange string) (collector.KlineProvider, error) {
	switch exchange {
	case "binance":
		client := binance.NewClient(os.Getenv("BINANCE_API_KEY"), os.Getenv("BINANCE_API_SECRET"))
		return collector.NewBinanceKlineProvider(client), nil
	case "bybit":
		return collector.NewBybitKlineProvider(bybit.NewClient()), nil
	default:
		return nil, fmt.Errorf("unsupported exchange %q", exchange)
	}
}

func run(
	ctx context.Context,
	cfg config.Config,
	coll *collector.Collector,
	anl *analyzer.Analyzer,
	store *firebase.Store,
	jnl *journal.Journal,
	logger *zap.Logger,
) {
	fetchRetrier := retrier.New(retrier.WithAttempts(3), retrier.WithInitialDelay(2*time.Second))

	ticker := time.NewTicker(cfg.AnalyzeInterval)
	defer ticker.Stop()

	for {
		analyzeOnce(ctx, cfg, coll, anl, store, jnl, fetchRetrier, logger)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func analyzeOnce(
	ctx context.Context,
	cfg config.Config,
	coll *collector.Collector,
	anl *analyzer.Analyzer,
	store *firebase.Store,
	jnl *journal.Journal,
	fetchRetrier *retrier.Retrier,
	logger *zap.Logger,
) {
	series, err := retrier.DoWithData(ctx, fetchRetrier, func(ctx context.Context) (indicators.Series, error) {
		return coll.Snapshot(ctx, cfg.Interval, cfg.LookbackPeriods)
	})
	if err != nil {
		logger.Error("market snapshot failed", zap.Error(err))
		store.LogEvent(ctx, "ERROR", "market snapshot failed: "+err.Error())
		return
	}

	last := series.Candles[len(series.Candles)-1]
	marketText := fmt.Sprintf(
		"Symbol: %s\nTimeframe: %s\nCandles analyzed: %d\nLatest close: %s (at %s)",
		cfg.Symbol,
		cfg.Interval,
		len(series.Candles),
		last.Close.String(),
		last.CloseTime.Format(time.RFC3339),
	)

	decision := anl.Analyze(ctx, marketText, indicators.Summary(series), nil, nil, "")

	if jnl != nil {
		event := domain.DecisionEvent{
			Timestamp: time.Now(),
			Symbol:    cfg.Symbol,
			Model:     cfg.GeminiModel,
			Decision:  decision,
		}
		if err := jnl.Append(event); err != nil {
			logger.Warn("journal append failed", zap.Error(err))
		}
	}

	id := store.SaveSignal(ctx, decision, false)
	logger.Info("decision persisted",
		zap.String("id", id),
		zap.String("action", decision.Action),
		zap.Int("confidence", decision.Confidence))

	if decision.Actionable() {
		store.LogEvent(ctx, "SIGNAL", decision.SignalLine(cfg.Symbol))
	}
}
