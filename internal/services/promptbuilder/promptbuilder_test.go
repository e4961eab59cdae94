package promptbuilder

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/VietCodeBug/TelegramBotForex/internal/domain"
)

func TestBuildAnalysisPrompt_AllSections(t *testing.T) {
	pb := NewPromptBuilder(zap.NewNop())

	prompt := pb.BuildAnalysisPrompt(AnalysisRequest{
		MarketData: "10:00 | 2618.50\n10:15 | 2615.20",
		Indicators: map[string]any{"RSI": 42.0, "Trend": "SIDEWAYS"},
		Wyckoff: &WyckoffContext{
			Phase:     "ACCUMULATION",
			Events:    []string{"SPRING"},
			VSASignal: "ABSORPTION_SUPPORT",
		},
		SMC: &SMCContext{
			StructureTrend:    "BULLISH",
			ActiveFVGs:        2,
			ActiveOrderBlocks: 1,
			Sweep:             "SELLSIDE",
		},
		News: "FOMC minutes tonight",
	})

	assert.Contains(t, prompt, "CURRENT MARKET DATA")
	assert.Contains(t, prompt, "2618.50")
	assert.Contains(t, prompt, "- RSI: 42")
	assert.Contains(t, prompt, "- Trend: SIDEWAYS")
	assert.Contains(t, prompt, "WYCKOFF ANALYSIS")
	assert.Contains(t, prompt, "Phase: ACCUMULATION")
	assert.Contains(t, prompt, "Events: SPRING")
	assert.Contains(t, prompt, "SMC ANALYSIS")
	assert.Contains(t, prompt, "FVGs: 2 active")
	assert.Contains(t, prompt, "NEWS CONTEXT")
	assert.Contains(t, prompt, "FOMC minutes tonight")
	assert.Contains(t, prompt, `confidence below 70`)
}

func TestBuildAnalysisPrompt_OmitsAbsentSections(t *testing.T) {
	pb := NewPromptBuilder(zap.NewNop())

	prompt := pb.BuildAnalysisPrompt(AnalysisRequest{
		MarketData: "data",
		Indicators: map[string]any{"RSI": 50.0},
	})

	assert.NotContains(t, prompt, "WYCKOFF ANALYSIS")
	assert.NotContains(t, prompt, "SMC ANALYSIS")
	assert.NotContains(t, prompt, "NEWS CONTEXT")
}

func TestBuildAnalysisPrompt_Deterministic(t *testing.T) {
	pb := NewPromptBuilder(zap.NewNop())
	req := AnalysisRequest{
		MarketData: "data",
		Indicators: map[string]any{"RSI": 50.0, "ATR": 3.2, "Trend": "UPTREND", "EMA_50": 2610.0},
	}

	// map iteration must not leak into the prompt
	first := pb.BuildAnalysisPrompt(req)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, pb.BuildAnalysisPrompt(req))
	}

	// indicator keys appear sorted
	atr := strings.Index(first, "- ATR:")
	rsi := strings.Index(first, "- RSI:")
	assert.True(t, atr < rsi)
}

func TestBuildSignalReviewPrompt(t *testing.T) {
	pb := NewPromptBuilder(zap.NewNop())
	sig := domain.NewExternalSignal("goldsignals", "XAUUSD", "BUY", 2620, 2610, 2645, "BUY GOLD NOW", time.Now())

	price := 2622.5
	prompt := pb.BuildSignalReviewPrompt(sig, &price)
	assert.Contains(t, prompt, "Source: @goldsignals")
	assert.Contains(t, prompt, "Entry: 2620.00")
	assert.Contains(t, prompt, "Current Price: 2622.50")
	assert.Contains(t, prompt, `"recommendation"`)

	// without a current price the line is omitted
	prompt = pb.BuildSignalReviewPrompt(sig, nil)
	assert.NotContains(t, prompt, "Current Price")
}

func TestBuildChartPrompt(t *testing.T) {
	pb := NewPromptBuilder(zap.NewNop())

	prompt := pb.BuildChartPrompt(nil)
	assert.Contains(t, prompt, "Chart Analysis")
	assert.NotContains(t, prompt, "Signal Under Review")

	sig := domain.NewExternalSignal("src", "XAUUSD", "SELL", 2650, 2660, 2630, "", time.Now())
	prompt = pb.BuildChartPrompt(&sig)
	assert.Contains(t, prompt, "Signal Under Review")
	assert.Contains(t, prompt, "Action: SELL")
}
