package indicators

import (
	"github.com/shopspring/decimal"

	"github.com/VietCodeBug/TelegramBotForex/internal/domain"
)

// slDistanceFactor scales ATR into a suggested stop-loss distance.
var slDistanceFactor = decimal.NewFromFloat(1.5)

// Summary flattens the latest indicator readings into the map handed to
// the reasoning model. Fields are built one by one: a failure computing a
// single field leaves the rest intact and sets the top-level "error"
// marker instead of propagating to the caller.
func Summary(s Series) map[string]any {
	summary := make(map[string]any)
	failed := false

	setField(summary, &failed, "Current_Price", func() (any, bool) {
		if len(s.Candles) == 0 {
			return nil, false
		}
		return roundValue(s.Candles[len(s.Candles)-1].Close), true
	})

	setField(summary, &failed, "Change", func() (any, bool) {
		if len(s.Candles) < 2 {
			return nil, false
		}
		last := s.Candles[len(s.Candles)-1].Close
		prev := s.Candles[len(s.Candles)-2].Close
		return roundValue(last.Sub(prev)), true
	})

	setField(summary, &failed, "RSI", func() (any, bool) {
		rsi := Last(s.RSI)
		if rsi == nil {
			return nil, false
		}
		return roundValue(*rsi), true
	})

	setField(summary, &failed, "RSI_Signal", func() (any, bool) {
		if Last(s.RSI) == nil {
			return nil, false
		}
		return RSISignal(s), true
	})

	setField(summary, &failed, "Trend", func() (any, bool) {
		return Trend(s), true
	})

	setField(summary, &failed, "EMA_50", func() (any, bool) {
		ema := Last(s.EMAFast)
		if ema == nil {
			return nil, false
		}
		return roundValue(*ema), true
	})

	setField(summary, &failed, "EMA_200", func() (any, bool) {
		ema := Last(s.EMASlow)
		if ema == nil {
			return nil, false
		}
		return roundValue(*ema), true
	})

	setField(summary, &failed, "MACD_Signal", func() (any, bool) {
		return MACDSignal(s), true
	})

	setField(summary, &failed, "ATR", func() (any, bool) {
		atr := Last(s.ATR)
		if atr == nil {
			return nil, false
		}
		return roundValue(*atr), true
	})

	setField(summary, &failed, "Suggested_SL_Distance", func() (any, bool) {
		atr := Last(s.ATR)
		if atr == nil {
			return nil, false
		}
		return roundValue(atr.Mul(slDistanceFactor)), true
	})

	if failed {
		summary["error"] = "one or more indicator fields failed to compute"
	}

	return summary
}

// Snapshot assembles the typed indicator snapshot with derived labels.
func Snapshot(s Series) domain.Snapshot {
	snap := domain.Snapshot{
		RSI:        Last(s.RSI),
		EMA50:      Last(s.EMAFast),
		EMA200:     Last(s.EMASlow),
		ATR:        Last(s.ATR),
		MACD:       Last(s.MACD),
		MACDSignal: Last(s.MACDSignal),
		MACDHist:   Last(s.MACDHist),
		BBUpper:    Last(s.BBUpper),
		BBMiddle:   Last(s.BBMiddle),
		BBLower:    Last(s.BBLower),
		Trend:      Trend(s),
		RSILabel:   RSISignal(s),
		MACDLabel:  MACDSignal(s),
	}

	if len(s.Candles) > 0 {
		price := s.Candles[len(s.Candles)-1].Close
		snap.Price = &price
	}
	if len(s.Candles) > 1 {
		change := s.Candles[len(s.Candles)-1].Close.Sub(s.Candles[len(s.Candles)-2].Close)
		snap.Change = &change
	}

	return snap
}

// setField computes one summary field in isolation, recovering from
// panics so a bad indicator never blanks the whole summary.
func setField(summary map[string]any, failed *bool, name string, fn func() (any, bool)) {
	defer func() {
		if r := recover(); r != nil {
			*failed = true
		}
	}()
	if v, ok := fn(); ok {
		summary[name] = v
	}
}

func roundValue(d decimal.Decimal) float64 {
	f, _ := d.Round(2).Float64()
	return f
}
