package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseSignalVerdict(t *testing.T) {
	v := ParseSignalVerdict(`Looks reasonable. {"recommendation": "follow",
		"confidence": 76, "risk_reward": "1:2.5", "reason": "clean entry"}`)
	assert.Equal(t, RecommendationFollow, v.Recommendation)
	assert.Equal(t, 76, v.Confidence)
	assert.Equal(t, "1:2.5", v.RiskReward)
	assert.Equal(t, "clean entry", v.Reason)
}

func TestParseSignalVerdict_Failures(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"no JSON", "nothing structured here"},
		{"malformed", `{"recommendation": `},
		{"unknown recommendation", `{"recommendation": "YOLO", "confidence": 90}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := ParseSignalVerdict(tt.raw)
			assert.Equal(t, RecommendationSkip, v.Recommendation)
			assert.NotEmpty(t, v.Reason)
		})
	}
}

func TestParseChartAnalysis(t *testing.T) {
	a := ParseChartAnalysis(`{"trend": "uptrend", "structure": "bullish",
		"support_levels": [2650, 2645, 2640, 2635],
		"resistance_levels": [2670, 2680],
		"pattern": "ascending triangle", "recommendation": "FOLLOW",
		"confidence": 71, "reason": "structure intact"}`)

	assert.Equal(t, "UPTREND", a.Trend)
	assert.Equal(t, "BULLISH", a.Structure)
	// levels are capped at three per side
	assert.Equal(t, []float64{2650, 2645, 2640}, a.SupportLevels)
	assert.Equal(t, []float64{2670, 2680}, a.ResistanceLevels)
	assert.Equal(t, "ascending triangle", a.Pattern)
	assert.Equal(t, RecommendationFollow, a.Recommendation)
	assert.Equal(t, 71, a.Confidence)
}

func TestParseChartAnalysis_Unparseable(t *testing.T) {
	a := ParseChartAnalysis("the chart is unclear")
	assert.Equal(t, TrendUnknown, a.Trend)
	assert.Equal(t, RecommendationCaution, a.Recommendation)
	assert.Equal(t, 0, a.Confidence)
	assert.NotEmpty(t, a.Reason)
}

func TestExternalSignal_Normalization(t *testing.T) {
	long := make([]byte, 400)
	for i := range long {
		long[i] = 'x'
	}

	sig := NewExternalSignal("", "", "BUY", 2620, 2610, 2640, string(long), time.Now())
	assert.Equal(t, "unknown", sig.Source)
	assert.Equal(t, "XAUUSD", sig.Symbol)
	assert.Equal(t, SignalStatusPending, sig.Status)
	assert.Len(t, sig.RawText, 200)
	assert.False(t, sig.Decided())

	sig.Status = SignalStatusWin
	assert.True(t, sig.Decided())
}

func TestWinRate(t *testing.T) {
	assert.Equal(t, 75.0, WinRate(3, 1))
	assert.Equal(t, 0.0, WinRate(0, 0))
	assert.Equal(t, 100.0, WinRate(5, 0))
	assert.Equal(t, 0.0, WinRate(0, 4))
}
