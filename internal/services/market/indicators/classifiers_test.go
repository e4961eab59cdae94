package indicators

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/VietCodeBug/TelegramBotForex/internal/domain"
)

func dp(v float64) *decimal.Decimal {
	d := decimal.NewFromFloat(v)
	return &d
}

func candleWithClose(v float64) domain.MarketCandle {
	c := decimal.NewFromFloat(v)
	return domain.MarketCandle{
		OpenTime: time.Unix(0, 0),
		Open:     c,
		High:     c,
		Low:      c,
		Close:    c,
	}
}

func TestTrend(t *testing.T) {
	tests := []struct {
		name     string
		price    float64
		emaFast  *decimal.Decimal
		emaSlow  *decimal.Decimal
		expected string
	}{
		{
			name:     "price above both with fast above slow",
			price:    2650,
			emaFast:  dp(2630),
			emaSlow:  dp(2600),
			expected: domain.TrendStrongUptrend,
		},
		{
			name:     "price above both with fast below slow",
			price:    2650,
			emaFast:  dp(2600),
			emaSlow:  dp(2630),
			expected: domain.TrendUptrend,
		},
		{
			name:     "price below both with fast below slow",
			price:    2550,
			emaFast:  dp(2600),
			emaSlow:  dp(2630),
			expected: domain.TrendStrongDowntrend,
		},
		{
			name:     "price below both with fast above slow",
			price:    2550,
			emaFast:  dp(2630),
			emaSlow:  dp(2600),
			expected: domain.TrendDowntrend,
		},
		{
			name:     "price between EMAs",
			price:    2615,
			emaFast:  dp(2630),
			emaSlow:  dp(2600),
			expected: domain.TrendSideways,
		},
		{
			name:     "missing fast EMA",
			price:    2615,
			emaFast:  nil,
			emaSlow:  dp(2600),
			expected: domain.TrendUnknown,
		},
		{
			name:     "missing slow EMA falls back to fast",
			price:    2650,
			emaFast:  dp(2630),
			emaSlow:  nil,
			expected: domain.TrendUptrend,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Series{
				Candles: []domain.MarketCandle{candleWithClose(tt.price)},
				EMAFast: []*decimal.Decimal{tt.emaFast},
				EMASlow: []*decimal.Decimal{tt.emaSlow},
			}
			assert.Equal(t, tt.expected, Trend(s))
		})
	}
}

func TestTrend_NoCandles(t *testing.T) {
	assert.Equal(t, domain.TrendUnknown, Trend(Series{}))
}

func TestRSISignal(t *testing.T) {
	tests := []struct {
		name     string
		prev     *decimal.Decimal
		last     *decimal.Decimal
		expected string
	}{
		{
			name:     "overbought wins over rising momentum",
			prev:     dp(72),
			last:     dp(75),
			expected: domain.RSIOverbought,
		},
		{
			name:     "oversold wins over falling momentum",
			prev:     dp(28),
			last:     dp(25),
			expected: domain.RSIOversold,
		},
		{
			name:     "above midline and rising",
			prev:     dp(55),
			last:     dp(60),
			expected: domain.RSIBullishMomentum,
		},
		{
			name:     "below midline and falling",
			prev:     dp(45),
			last:     dp(40),
			expected: domain.RSIBearishMomentum,
		},
		{
			name:     "above midline but falling",
			prev:     dp(65),
			last:     dp(60),
			expected: domain.RSINeutral,
		},
		{
			name:     "below midline but rising",
			prev:     dp(35),
			last:     dp(40),
			expected: domain.RSINeutral,
		},
		{
			name:     "missing RSI",
			prev:     nil,
			last:     nil,
			expected: domain.RSIUnknown,
		},
		{
			name:     "single value defaults prev to current",
			prev:     nil,
			last:     dp(60),
			expected: domain.RSINeutral,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Series{RSI: []*decimal.Decimal{tt.prev, tt.last}}
			assert.Equal(t, tt.expected, RSISignal(s))
		})
	}
}

func TestMACDSignal(t *testing.T) {
	tests := []struct {
		name       string
		macdPrev   *decimal.Decimal
		macd       *decimal.Decimal
		signalPrev *decimal.Decimal
		signal     *decimal.Decimal
		expected   string
	}{
		{
			name:       "bullish cross",
			macdPrev:   dp(-0.5),
			macd:       dp(0.4),
			signalPrev: dp(0.1),
			signal:     dp(0.2),
			expected:   domain.MACDBullishCross,
		},
		{
			name:       "bearish cross",
			macdPrev:   dp(0.5),
			macd:       dp(0.1),
			signalPrev: dp(0.2),
			signal:     dp(0.3),
			expected:   domain.MACDBearishCross,
		},
		{
			name:       "bullish without cross",
			macdPrev:   dp(0.5),
			macd:       dp(0.6),
			signalPrev: dp(0.2),
			signal:     dp(0.3),
			expected:   domain.MACDBullish,
		},
		{
			name:       "bearish without cross",
			macdPrev:   dp(-0.5),
			macd:       dp(-0.6),
			signalPrev: dp(-0.2),
			signal:     dp(-0.3),
			expected:   domain.MACDBearish,
		},
		{
			name:     "missing MACD",
			expected: domain.MACDUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Series{
				MACD:       []*decimal.Decimal{tt.macdPrev, tt.macd},
				MACDSignal: []*decimal.Decimal{tt.signalPrev, tt.signal},
			}
			assert.Equal(t, tt.expected, MACDSignal(s))
		})
	}
}
