package indicators

import (
	"github.com/cinar/indicator/v2/helper"
	"github.com/cinar/indicator/v2/momentum"
	"github.com/cinar/indicator/v2/trend"
	"github.com/cinar/indicator/v2/volatility"
	"go.uber.org/zap"
)

// calculateCinar fills the series using the cinar/indicator pipeline.
// Each indicator is computed independently so that one failing (for
// example Bollinger on a short series) is simply omitted.
func (e *Engine) calculateCinar(s *Series) {
	closes := make([]float64, len(s.Candles))
	highs := make([]float64, len(s.Candles))
	lows := make([]float64, len(s.Candles))
	for i, c := range s.Candles {
		closes[i], _ = c.Close.Float64()
		highs[i], _ = c.High.Float64()
		lows[i], _ = c.Low.Float64()
	}

	e.compute("rsi", func() {
		rsi := momentum.NewRsiWithPeriod[float64](e.params.RSIPeriod)
		fillTail(s.RSI, helper.ChanToSlice(rsi.Compute(helper.SliceToChan(closes))))
	})

	e.compute("ema_fast", func() {
		ema := trend.NewEmaWithPeriod[float64](e.params.EMAFast)
		fillTail(s.EMAFast, helper.ChanToSlice(ema.Compute(helper.SliceToChan(closes))))
	})

	e.compute("ema_slow", func() {
		ema := trend.NewEmaWithPeriod[float64](e.params.EMASlow)
		fillTail(s.EMASlow, helper.ChanToSlice(ema.Compute(helper.SliceToChan(closes))))
	})

	e.compute("atr", func() {
		atr := volatility.NewAtrWithPeriod[float64](e.params.ATRPeriod)
		out := atr.Compute(
			helper.SliceToChan(highs),
			helper.SliceToChan(lows),
			helper.SliceToChan(closes),
		)
		fillTail(s.ATR, helper.ChanToSlice(out))
	})

	e.compute("macd", func() {
		macd := trend.NewMacd[float64]()
		macdChan, signalChan := macd.Compute(helper.SliceToChan(closes))

		// both channels are produced in lockstep, so the signal side must
		// be drained concurrently to avoid blocking the producer
		var signalVals []float64
		done := make(chan struct{})
		go func() {
			signalVals = helper.ChanToSlice(signalChan)
			close(done)
		}()
		macdVals := helper.ChanToSlice(macdChan)
		<-done

		fillTail(s.MACD, macdVals)
		fillTail(s.MACDSignal, signalVals)

		// histogram over the overlap of the two lines
		n := len(macdVals)
		if len(signalVals) < n {
			n = len(signalVals)
		}
		hist := make([]float64, n)
		for i := 0; i < n; i++ {
			hist[i] = macdVals[len(macdVals)-n+i] - signalVals[len(signalVals)-n+i]
		}
		fillTail(s.MACDHist, hist)
	})

	// Bollinger is optional: a failure here omits only these columns
	e.compute("bollinger", func() {
		bb := volatility.NewBollingerBandsWithPeriod[float64](e.params.BBPeriod)
		upperChan, middleChan, lowerChan := bb.Compute(helper.SliceToChan(closes))

		var upperVals, lowerVals []float64
		done := make(chan struct{}, 2)
		go func() {
			upperVals = helper.ChanToSlice(upperChan)
			done <- struct{}{}
		}()
		go func() {
			lowerVals = helper.ChanToSlice(lowerChan)
			done <- struct{}{}
		}()
		middleVals := helper.ChanToSlice(middleChan)
		<-done
		<-done

		fillTail(s.BBUpper, upperVals)
		fillTail(s.BBMiddle, middleVals)
		fillTail(s.BBLower, lowerVals)
	})
}

// compute runs one indicator computation, recovering from panics so a
// single misbehaving indicator never aborts the rest of the table.
func (e *Engine) compute(name string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Warn("indicator computation failed, omitting column",
				zap.String("indicator", name),
				zap.Any("panic", r))
		}
	}()
	fn()
}
