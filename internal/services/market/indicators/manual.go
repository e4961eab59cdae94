package indicators

import "math"

// calculateManual fills the series with plain arithmetic implementations
// of RSI, EMA and ATR. MACD and Bollinger columns are not provided on
// this backend and their classifiers report UNKNOWN.
func (e *Engine) calculateManual(s *Series) {
	closes := make([]float64, len(s.Candles))
	highs := make([]float64, len(s.Candles))
	lows := make([]float64, len(s.Candles))
	for i, c := range s.Candles {
		closes[i], _ = c.Close.Float64()
		highs[i], _ = c.High.Float64()
		lows[i], _ = c.Low.Float64()
	}

	fillTail(s.RSI, manualRSI(closes, e.params.RSIPeriod))
	fillTail(s.EMAFast, manualEMA(closes, e.params.EMAFast))
	fillTail(s.EMASlow, manualEMA(closes, e.params.EMASlow))
	fillTail(s.ATR, manualATR(highs, lows, closes, e.params.ATRPeriod))
}

// manualRSI computes RSI from rolling mean gain/loss over the period.
func manualRSI(closes []float64, period int) []float64 {
	if len(closes) <= period {
		return nil
	}

	gains := make([]float64, len(closes)-1)
	losses := make([]float64, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		delta := closes[i] - closes[i-1]
		if delta > 0 {
			gains[i-1] = delta
		} else {
			losses[i-1] = -delta
		}
	}

	out := make([]float64, 0, len(gains)-period+1)
	for i := period - 1; i < len(gains); i++ {
		var gainSum, lossSum float64
		for j := i - period + 1; j <= i; j++ {
			gainSum += gains[j]
			lossSum += losses[j]
		}
		avgGain := gainSum / float64(period)
		avgLoss := lossSum / float64(period)

		if avgLoss == 0 {
			out = append(out, 100)
			continue
		}
		rs := avgGain / avgLoss
		out = append(out, 100-100/(1+rs))
	}

	return out
}

// manualEMA computes the exponential moving average seeded with the first
// close, alpha = 2/(period+1).
func manualEMA(closes []float64, period int) []float64 {
	if len(closes) == 0 {
		return nil
	}

	alpha := 2.0 / float64(period+1)
	out := make([]float64, len(closes))
	out[0] = closes[0]
	for i := 1; i < len(closes); i++ {
		out[i] = alpha*closes[i] + (1-alpha)*out[i-1]
	}

	return out
}

// manualATR computes the rolling mean of the true range.
func manualATR(highs, lows, closes []float64, period int) []float64 {
	if len(closes) <= period {
		return nil
	}

	tr := make([]float64, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		hl := highs[i] - lows[i]
		hc := math.Abs(highs[i] - closes[i-1])
		lc := math.Abs(lows[i] - closes[i-1])
		tr[i-1] = math.Max(hl, math.Max(hc, lc))
	}

	out := make([]float64, 0, len(tr)-period+1)
	for i := period - 1; i < len(tr); i++ {
		var sum float64
		for j := i - period + 1; j <= i; j++ {
			sum += tr[j]
		}
		out = append(out, sum/float64(period))
	}

	return out
}
