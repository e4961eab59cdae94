package domain

import "github.com/shopspring/decimal"

// Trend classification labels derived from EMA structure.
const (
	TrendStrongUptrend   = "STRONG_UPTREND"
	TrendUptrend         = "UPTREND"
	TrendStrongDowntrend = "STRONG_DOWNTREND"
	TrendDowntrend       = "DOWNTREND"
	TrendSideways        = "SIDEWAYS"
	TrendUnknown         = "UNKNOWN"
)

// RSI classification labels.
const (
	RSIOverbought      = "OVERBOUGHT"
	RSIOversold        = "OVERSOLD"
	RSIBullishMomentum = "BULLISH_MOMENTUM"
	RSIBearishMomentum = "BEARISH_MOMENTUM"
	RSINeutral         = "NEUTRAL"
	RSIUnknown         = "UNKNOWN"
)

// MACD classification labels.
const (
	MACDBullishCross = "BULLISH_CROSS"
	MACDBearishCross = "BEARISH_CROSS"
	MACDBullish      = "BULLISH"
	MACDBearish      = "BEARISH"
	MACDUnknown      = "UNKNOWN"
)

// Snapshot holds the latest indicator readouts for one instrument.
// Every scalar field is independently nullable: insufficient history for
// one indicator must not invalidate the rest.
type Snapshot struct {
	Price      *decimal.Decimal
	Change     *decimal.Decimal
	RSI        *decimal.Decimal
	EMA50      *decimal.Decimal
	EMA200     *decimal.Decimal
	ATR        *decimal.Decimal
	MACD       *decimal.Decimal
	MACDSignal *decimal.Decimal
	MACDHist   *decimal.Decimal
	BBUpper    *decimal.Decimal
	BBMiddle   *decimal.Decimal
	BBLower    *decimal.Decimal

	Trend     string
	RSILabel  string
	MACDLabel string
}
