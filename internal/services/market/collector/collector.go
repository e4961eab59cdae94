// Package collector fetches candlestick series from exchanges and turns
// them into indicator-ready market snapshots. Gold itself does not trade
// on crypto exchanges, so callers typically point it at a tokenized
// proxy such as PAXGUSDT.
package collector

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/VietCodeBug/TelegramBotForex/internal/domain"
	"github.com/VietCodeBug/TelegramBotForex/internal/services/market/indicators"
)

// minCandlesForIndicators is the smallest series the slow EMA can be
// meaningfully seeded from.
const minCandlesForIndicators = 50

// fetchTimeout bounds one provider round trip.
const fetchTimeout = 30 * time.Second

// KlineProvider fetches historical kline (candlestick) data.
type KlineProvider interface {
	// GetKlines fetches up to limit klines for symbol at the given
	// interval (e.g. "1m", "5m", "1h", "4h"), oldest first.
	GetKlines(ctx context.Context, symbol, interval string, limit int) ([]domain.MarketCandle, error)
}

// Collector pairs a kline provider with an indicator engine.
type Collector struct {
	provider KlineProvider
	engine   *indicators.Engine
	symbol   string
	logger   *zap.Logger
}

// New creates a collector for one symbol.
func New(provider KlineProvider, engine *indicators.Engine, symbol string, logger *zap.Logger) *Collector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Collector{
		provider: provider,
		engine:   engine,
		symbol:   symbol,
		logger:   logger,
	}
}

// Snapshot fetches a candle series and computes its indicator columns.
func (c *Collector) Snapshot(ctx context.Context, interval string, limit int) (indicators.Series, error) {
	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	candles, err := c.provider.GetKlines(ctx, c.symbol, interval, limit)
	if err != nil {
		return indicators.Series{}, errors.Wrapf(err, "failed to fetch klines for %s %s", c.symbol, interval)
	}

	if len(candles) == 0 {
		return indicators.Series{}, errors.Errorf("no kline data returned for %s %s", c.symbol, interval)
	}

	if len(candles) < minCandlesForIndicators {
		return indicators.Series{}, errors.Errorf(
			"insufficient kline data for %s %s (got %d, need at least %d)",
			c.symbol, interval, len(candles), minCandlesForIndicators,
		)
	}

	c.logger.Debug("collected klines",
		zap.String("symbol", c.symbol),
		zap.String("interval", interval),
		zap.Int("count", len(candles)))

	return c.engine.Calculate(candles), nil
}
