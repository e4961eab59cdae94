package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MarketCandle OHLCV candlestick with timestamps.
type MarketCandle struct {
	OpenTime  time.Time
	Open      decimal.Decimal
	High      decimal.Decimal
	Low       decimal.Decimal
	Close     decimal.Decimal
	Volume    decimal.Decimal
	CloseTime time.Time
}

// Closes extracts the close price series from candles.
func Closes(candles []MarketCandle) []decimal.Decimal {
	closes := make([]decimal.Decimal, len(candles))
	for i, c := range candles {
		closes[i] = c.Close
	}
	return closes
}
