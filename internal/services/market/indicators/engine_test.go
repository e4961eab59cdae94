package indicators

import (
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/VietCodeBug/TelegramBotForex/internal/domain"
)

// syntheticCandles builds a deterministic price walk around a base price.
func syntheticCandles(n int, base float64) []domain.MarketCandle {
	candles := make([]domain.MarketCandle, n)
	price := base
	for i := 0; i < n; i++ {
		// deterministic oscillation, no randomness so tests are stable
		delta := 3 * math.Sin(float64(i)/4)
		price += delta
		open := decimal.NewFromFloat(price - delta/2)
		closeP := decimal.NewFromFloat(price)
		candles[i] = domain.MarketCandle{
			OpenTime:  time.Unix(int64(i)*900, 0),
			Open:      open,
			High:      decimal.NewFromFloat(price + 2),
			Low:       decimal.NewFromFloat(price - 2),
			Close:     closeP,
			Volume:    decimal.NewFromInt(int64(100 + i)),
			CloseTime: time.Unix(int64(i+1)*900, 0),
		}
	}
	return candles
}

func TestResolveBackend(t *testing.T) {
	assert.Equal(t, BackendManual, ResolveBackend("manual"))
	assert.Equal(t, BackendManual, ResolveBackend(" Manual "))
	assert.Equal(t, BackendCinar, ResolveBackend(""))
	assert.Equal(t, BackendCinar, ResolveBackend("cinar"))
	assert.Equal(t, BackendCinar, ResolveBackend("anything"))
}

func TestEngine_Calculate_Idempotent(t *testing.T) {
	engine := NewEngine(BackendManual, DefaultParams(), zap.NewNop())
	candles := syntheticCandles(250, 2620)

	first := engine.Calculate(candles)
	second := engine.Calculate(candles)

	assert.Equal(t, Summary(first), Summary(second))
	assert.Equal(t, first.RSI, second.RSI)
	assert.Equal(t, first.EMAFast, second.EMAFast)
	assert.Equal(t, first.ATR, second.ATR)
}

func TestEngine_Calculate_ManualBackend(t *testing.T) {
	engine := NewEngine(BackendManual, DefaultParams(), zap.NewNop())
	candles := syntheticCandles(250, 2620)

	s := engine.Calculate(candles)
	require.Len(t, s.RSI, len(candles))

	rsi := Last(s.RSI)
	require.NotNil(t, rsi)
	assert.True(t, rsi.GreaterThanOrEqual(decimal.Zero))
	assert.True(t, rsi.LessThanOrEqual(decimal.NewFromInt(100)))

	require.NotNil(t, Last(s.EMAFast))
	require.NotNil(t, Last(s.EMASlow))
	require.NotNil(t, Last(s.ATR))

	// manual backend provides no MACD or Bollinger columns
	assert.Nil(t, Last(s.MACD))
	assert.Nil(t, Last(s.BBUpper))
	assert.Equal(t, domain.MACDUnknown, MACDSignal(s))
}

func TestEngine_Calculate_ShortHistory(t *testing.T) {
	engine := NewEngine(BackendManual, DefaultParams(), zap.NewNop())
	s := engine.Calculate(syntheticCandles(5, 2620))

	// not enough history for any indicator, but nothing fails
	assert.Nil(t, Last(s.RSI))
	assert.Nil(t, Last(s.ATR))
	assert.Equal(t, domain.RSIUnknown, RSISignal(s))

	// EMA is defined from the first bar
	assert.NotNil(t, Last(s.EMAFast))
}

func TestEngine_Calculate_Empty(t *testing.T) {
	engine := NewEngine(BackendManual, DefaultParams(), zap.NewNop())
	s := engine.Calculate(nil)
	assert.Empty(t, s.Candles)
	assert.Equal(t, domain.TrendUnknown, Trend(s))
}

func TestManualEMA_ConstantSeries(t *testing.T) {
	closes := make([]float64, 60)
	for i := range closes {
		closes[i] = 2600
	}

	ema := manualEMA(closes, 50)
	require.Len(t, ema, 60)
	assert.InDelta(t, 2600, ema[59], 1e-9)
}

func TestManualRSI_AllGains(t *testing.T) {
	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = 2600 + float64(i)
	}

	rsi := manualRSI(closes, 14)
	require.NotEmpty(t, rsi)
	assert.InDelta(t, 100, rsi[len(rsi)-1], 1e-9)
}

func TestSummary_FieldIsolation(t *testing.T) {
	engine := NewEngine(BackendManual, DefaultParams(), zap.NewNop())
	candles := syntheticCandles(250, 2620)
	summary := Summary(engine.Calculate(candles))

	require.Contains(t, summary, "Current_Price")
	require.Contains(t, summary, "RSI")
	require.Contains(t, summary, "Trend")
	require.Contains(t, summary, "ATR")
	require.Contains(t, summary, "Suggested_SL_Distance")
	assert.NotContains(t, summary, "error")

	// short history: RSI absent must not blank the rest
	short := Summary(engine.Calculate(syntheticCandles(5, 2620)))
	assert.NotContains(t, short, "RSI")
	assert.Contains(t, short, "Current_Price")
	assert.Contains(t, short, "Trend")

	atr, ok := summary["ATR"].(float64)
	require.True(t, ok)
	sl, ok := summary["Suggested_SL_Distance"].(float64)
	require.True(t, ok)
	assert.InDelta(t, atr*1.5, sl, 0.02)
}

func TestSnapshot(t *testing.T) {
	engine := NewEngine(BackendManual, DefaultParams(), zap.NewNop())
	candles := syntheticCandles(250, 2620)

	snap := Snapshot(engine.Calculate(candles))
	require.NotNil(t, snap.Price)
	require.NotNil(t, snap.RSI)
	require.NotNil(t, snap.EMA50)
	assert.Nil(t, snap.MACD)
	assert.NotEmpty(t, snap.Trend)
	assert.Equal(t, domain.MACDUnknown, snap.MACDLabel)
}
