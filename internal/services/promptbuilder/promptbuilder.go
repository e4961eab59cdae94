// Package promptbuilder formats market data, indicator summaries and
// pre-computed phase/structure context into prompts for the reasoning
// model. Absent context sections are omitted entirely to keep prompts
// token-efficient.
package promptbuilder

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/VietCodeBug/TelegramBotForex/internal/domain"
)

// WyckoffContext is the pre-computed Wyckoff read supplied by the caller.
type WyckoffContext struct {
	Phase     string
	Events    []string
	VSASignal string
}

// SMCContext is the pre-computed Smart Money Concepts read.
type SMCContext struct {
	StructureTrend    string
	ActiveFVGs        int
	ActiveOrderBlocks int
	Sweep             string
}

// AnalysisRequest bundles everything the decision prompt embeds.
type AnalysisRequest struct {
	MarketData string
	Indicators map[string]any
	Wyckoff    *WyckoffContext
	SMC        *SMCContext
	News       string
}

// PromptBuilder constructs prompts for the reasoning model.
type PromptBuilder struct {
	logger *zap.Logger
}

// NewPromptBuilder creates a new PromptBuilder instance.
func NewPromptBuilder(logger *zap.Logger) *PromptBuilder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PromptBuilder{logger: logger}
}

// BuildAnalysisPrompt assembles the full decision prompt. Sections for
// Wyckoff, SMC and news appear only when the caller supplied them.
func (pb *PromptBuilder) BuildAnalysisPrompt(req AnalysisRequest) string {
	var sb strings.Builder

	sb.WriteString(SystemPrompt)
	sb.WriteString("\n\n## CURRENT MARKET DATA\n\n")
	sb.WriteString(req.MarketData)
	sb.WriteString("\n")

	sb.WriteString("\n## TECHNICAL INDICATORS\n\n")
	for _, key := range sortedKeys(req.Indicators) {
		sb.WriteString(fmt.Sprintf("- %s: %v\n", key, req.Indicators[key]))
	}

	if req.Wyckoff != nil {
		sb.WriteString("\n## WYCKOFF ANALYSIS (pre-computed)\n\n")
		sb.WriteString(fmt.Sprintf("- Phase: %s\n", valueOrNA(req.Wyckoff.Phase)))
		sb.WriteString(fmt.Sprintf("- Events: %s\n", joinOrNone(req.Wyckoff.Events)))
		sb.WriteString(fmt.Sprintf("- VSA Signal: %s\n", valueOrNA(req.Wyckoff.VSASignal)))
	}

	if req.SMC != nil {
		sb.WriteString("\n## SMC ANALYSIS (pre-computed)\n\n")
		sb.WriteString(fmt.Sprintf("- Structure: %s\n", valueOrNA(req.SMC.StructureTrend)))
		sb.WriteString(fmt.Sprintf("- FVGs: %d active\n", req.SMC.ActiveFVGs))
		sb.WriteString(fmt.Sprintf("- Order Blocks: %d active\n", req.SMC.ActiveOrderBlocks))
		sb.WriteString(fmt.Sprintf("- Sweep: %s\n", valueOrNone(req.SMC.Sweep)))
	}

	if req.News != "" {
		sb.WriteString("\n## NEWS CONTEXT\n\n")
		sb.WriteString(req.News)
		sb.WriteString("\n")
	}

	sb.WriteString("\n## TASK\n\n")
	sb.WriteString("Based on all the data above, produce your trading decision in the JSON format defined earlier.\n")
	sb.WriteString("Remember: confidence below 70 means action MUST be \"WAIT\".\n")

	return sb.String()
}

// BuildSignalReviewPrompt assembles the prompt validating a third-party
// signal against the current market.
func (pb *PromptBuilder) BuildSignalReviewPrompt(sig domain.ExternalSignal, currentPrice *float64) string {
	var sb strings.Builder

	sb.WriteString("# Third-Party Trading Signal Review\n\n")
	sb.WriteString("## Signal\n\n")
	sb.WriteString(fmt.Sprintf("- Source: @%s\n", sig.Source))
	sb.WriteString(fmt.Sprintf("- Action: %s\n", valueOrNA(sig.Action)))
	sb.WriteString(fmt.Sprintf("- Symbol: %s\n", sig.Symbol))
	sb.WriteString(fmt.Sprintf("- Entry: %s\n", formatPrice(sig.Entry)))
	sb.WriteString(fmt.Sprintf("- Stop Loss: %s\n", formatPrice(sig.StopLoss)))
	sb.WriteString(fmt.Sprintf("- Take Profit: %s\n", formatPrice(sig.TakeProfit)))
	if currentPrice != nil {
		sb.WriteString(fmt.Sprintf("- Current Price: %.2f\n", *currentPrice))
	}

	sb.WriteString("\n## Task\n\n")
	sb.WriteString("1. Is this signal reasonable?\n")
	sb.WriteString("2. Is the risk/reward ratio acceptable?\n")
	sb.WriteString("3. Is the entry point sensible?\n")
	sb.WriteString("4. Should it be FOLLOWED or SKIPPED?\n\n")
	sb.WriteString("Respond with exactly one JSON object:\n\n")
	sb.WriteString(`{
    "recommendation": "FOLLOW" | "SKIP" | "CAUTION",
    "confidence": <0-100>,
    "risk_reward": "<X:X>",
    "reason": "<short explanation>"
}` + "\n")

	return sb.String()
}

// BuildChartPrompt assembles the chart image analysis prompt, embedding
// the originating signal when one exists for cross-checking.
func (pb *PromptBuilder) BuildChartPrompt(sig *domain.ExternalSignal) string {
	var sb strings.Builder

	sb.WriteString("# Gold (XAU/USD) Chart Analysis\n\n")
	sb.WriteString("You are a technical analysis expert. Analyze the attached chart.\n\n")

	if sig != nil {
		sb.WriteString("## Signal Under Review\n\n")
		sb.WriteString(fmt.Sprintf("- Action: %s\n", valueOrNA(sig.Action)))
		sb.WriteString(fmt.Sprintf("- Entry: %s\n", formatPrice(sig.Entry)))
		sb.WriteString(fmt.Sprintf("- Stop Loss: %s\n", formatPrice(sig.StopLoss)))
		sb.WriteString(fmt.Sprintf("- Take Profit: %s\n", formatPrice(sig.TakeProfit)))
		sb.WriteString("\n")
	}

	sb.WriteString("## Required Analysis\n\n")
	sb.WriteString("1. TREND: uptrend / downtrend / sideways / consolidation\n")
	sb.WriteString("2. STRUCTURE: higher highs/lows or lower highs/lows?\n")
	sb.WriteString("3. SUPPORT/RESISTANCE: key levels, at most 3 per side; empty arrays when unclear\n")
	sb.WriteString("4. PATTERN: triangle, head and shoulders, double top/bottom, flag, wedge...\n")
	sb.WriteString("5. MOMENTUM: does price action agree with the signal?\n")
	sb.WriteString("6. RECOMMENDATION: follow or skip the signal?\n\n")
	sb.WriteString("Respond with exactly one JSON object:\n\n")
	sb.WriteString(`{
    "trend": "UPTREND" | "DOWNTREND" | "SIDEWAYS" | "CONSOLIDATION",
    "structure": "BULLISH" | "BEARISH" | "NEUTRAL",
    "support_levels": [2650, 2645, 2640],
    "resistance_levels": [2670, 2680, 2690],
    "pattern": "<pattern name, empty when none>",
    "recommendation": "FOLLOW" | "CAUTION" | "SKIP",
    "confidence": <0-100>,
    "reason": "<short explanation, at most 100 words>"
}` + "\n")

	return sb.String()
}

// BuildTranslatePrompt asks the model for a natural translation.
func (pb *PromptBuilder) BuildTranslatePrompt(text string) string {
	return "Translate the following text to natural Vietnamese, answer with the translation only:\n" + text
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func valueOrNA(v string) string {
	if v == "" {
		return "N/A"
	}
	return v
}

func valueOrNone(v string) string {
	if v == "" {
		return "None"
	}
	return v
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "None"
	}
	return strings.Join(items, ", ")
}

func formatPrice(v float64) string {
	if v == 0 {
		return "N/A"
	}
	return fmt.Sprintf("%.2f", v)
}
