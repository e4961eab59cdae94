package indicators

import (
	"github.com/shopspring/decimal"

	"github.com/VietCodeBug/TelegramBotForex/internal/domain"
)

// RSI thresholds for overbought/oversold classification.
var (
	rsiOverbought = decimal.NewFromInt(70)
	rsiOversold   = decimal.NewFromInt(30)
	rsiMidline    = decimal.NewFromInt(50)
)

// Trend classifies the latest close against the fast and slow EMA.
// Price above both EMAs with the fast above the slow is a strong uptrend;
// above both otherwise a plain uptrend, symmetric for downtrends, and
// anything mixed is sideways. Missing inputs yield UNKNOWN.
func Trend(s Series) string {
	if len(s.Candles) == 0 {
		return domain.TrendUnknown
	}

	price := s.Candles[len(s.Candles)-1].Close
	emaFast := Last(s.EMAFast)
	if emaFast == nil {
		return domain.TrendUnknown
	}
	emaSlow := Last(s.EMASlow)
	if emaSlow == nil {
		// slow EMA still warming up: judge against the fast one alone
		emaSlow = emaFast
	}

	switch {
	case price.GreaterThan(*emaFast) && price.GreaterThan(*emaSlow):
		if emaFast.GreaterThan(*emaSlow) {
			return domain.TrendStrongUptrend
		}
		return domain.TrendUptrend
	case price.LessThan(*emaFast) && price.LessThan(*emaSlow):
		if emaFast.LessThan(*emaSlow) {
			return domain.TrendStrongDowntrend
		}
		return domain.TrendDowntrend
	default:
		return domain.TrendSideways
	}
}

// RSISignal classifies the latest RSI reading. Threshold checks win over
// momentum checks: RSI 75 is OVERBOUGHT even while rising.
func RSISignal(s Series) string {
	rsi := Last(s.RSI)
	if rsi == nil {
		return domain.RSIUnknown
	}

	prev := Prev(s.RSI)
	if prev == nil {
		prev = rsi
	}

	switch {
	case rsi.GreaterThan(rsiOverbought):
		return domain.RSIOverbought
	case rsi.LessThan(rsiOversold):
		return domain.RSIOversold
	case rsi.GreaterThan(rsiMidline) && rsi.GreaterThan(*prev):
		return domain.RSIBullishMomentum
	case rsi.LessThan(rsiMidline) && rsi.LessThan(*prev):
		return domain.RSIBearishMomentum
	default:
		return domain.RSINeutral
	}
}

// MACDSignal classifies the MACD line against its signal line, reporting
// a cross when the sign of (MACD - signal) flipped on the latest bar.
func MACDSignal(s Series) string {
	macd := Last(s.MACD)
	signal := Last(s.MACDSignal)
	if macd == nil || signal == nil {
		return domain.MACDUnknown
	}

	macdPrev := Prev(s.MACD)
	if macdPrev == nil {
		macdPrev = macd
	}
	signalPrev := Prev(s.MACDSignal)
	if signalPrev == nil {
		signalPrev = signal
	}

	switch {
	case macd.GreaterThan(*signal) && macdPrev.LessThanOrEqual(*signalPrev):
		return domain.MACDBullishCross
	case macd.LessThan(*signal) && macdPrev.GreaterThanOrEqual(*signalPrev):
		return domain.MACDBearishCross
	case macd.GreaterThan(*signal):
		return domain.MACDBullish
	default:
		return domain.MACDBearish
	}
}
