package analyzer

import (
	"fmt"

	"github.com/VietCodeBug/TelegramBotForex/internal/domain"
)

// demoBasePrice anchors synthetic entries near a plausible gold quote.
const demoBasePrice = 2620.0

// demoDecision fabricates a decision when no model is configured.
// Sixty percent of draws are WAIT; the rest are actionable with
// confidence already above the gate, so demo output exercises the same
// downstream paths as live output.
func (a *Analyzer) demoDecision() domain.Decision {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.rng.Float64() < 0.6 {
		return domain.WaitDecision("demo mode: no clear setup detected")
	}

	entry := demoBasePrice + a.rng.Float64()*10 - 5
	confidence := 72 + a.rng.Intn(17)

	if a.rng.Float64() < 0.5 {
		sl := entry - 8
		tp := entry + 15
		return domain.Decision{
			Action:     domain.ActionBuy,
			Phase:      "ACCUMULATION",
			Event:      "SPRING",
			Trigger:    "LIQUIDITY_SWEEP",
			Entry:      &entry,
			StopLoss:   &sl,
			TakeProfit: &tp,
			Confidence: confidence,
			Reason:     fmt.Sprintf("demo mode: spring with liquidity sweep near %.2f", entry),
		}
	}

	sl := entry + 8
	tp := entry - 15
	return domain.Decision{
		Action:     domain.ActionSell,
		Phase:      "DISTRIBUTION",
		Event:      "UPTHRUST",
		Trigger:    "ORDER_BLOCK",
		Entry:      &entry,
		StopLoss:   &sl,
		TakeProfit: &tp,
		Confidence: confidence,
		Reason:     fmt.Sprintf("demo mode: upthrust into order block near %.2f", entry),
	}
}
