package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// Trading actions.
const (
	ActionBuy  = "BUY"
	ActionSell = "SELL"
	ActionWait = "WAIT"
)

// MinActionableConfidence is the confidence gate: any decision reported
// below this level is forced to WAIT regardless of the model's action.
const MinActionableConfidence = 70

// Decision is a validated, confidence-gated trading decision.
type Decision struct {
	Action     string   `json:"action"`
	Phase      string   `json:"wyckoff_phase"`
	Event      string   `json:"event_detected"`
	Trigger    string   `json:"smc_trigger"`
	Entry      *float64 `json:"entry"`
	StopLoss   *float64 `json:"stoploss"`
	TakeProfit *float64 `json:"takeprofit"`
	Confidence int      `json:"confidence"`
	Reason     string   `json:"reason"`
}

// Actionable reports whether the decision passed the confidence gate.
func (d Decision) Actionable() bool {
	return d.Action == ActionBuy || d.Action == ActionSell
}

// SignalLine renders a one-line summary of the decision for event logs.
// An actionable decision may carry no prices at all (the model named an
// action but not a complete entry/stop/target set), so the price part is
// included only when present.
func (d Decision) SignalLine(symbol string) string {
	if d.Entry == nil {
		return fmt.Sprintf("%s %s (confidence %d)", d.Action, symbol, d.Confidence)
	}
	return fmt.Sprintf("%s %s at %.2f (confidence %d)", d.Action, symbol, *d.Entry, d.Confidence)
}

// WaitDecision returns the canonical WAIT decision carrying a diagnostic reason.
func WaitDecision(reason string) Decision {
	return Decision{
		Action:     ActionWait,
		Phase:      TrendUnknown,
		Event:      "NONE",
		Trigger:    "NONE",
		Confidence: 0,
		Reason:     reason,
	}
}

// decisionPayload mirrors the model's JSON schema with every field optional.
type decisionPayload struct {
	Action     string   `json:"action"`
	Phase      string   `json:"wyckoff_phase"`
	Event      string   `json:"event_detected"`
	Trigger    string   `json:"smc_trigger"`
	Entry      *float64 `json:"entry"`
	StopLoss   *float64 `json:"stoploss"`
	TakeProfit *float64 `json:"takeprofit"`
	Confidence *float64 `json:"confidence"`
	Reason     string   `json:"reason"`
}

// ParseDecision extracts and validates a trading decision from a raw model
// response. The response is untrusted free text: the first balanced
// brace-delimited object is decoded, missing fields are defaulted and the
// confidence gate is enforced unconditionally. Parse failures yield the
// canonical WAIT decision, never an error.
func ParseDecision(raw string) Decision {
	payload, ok := ExtractJSONObject(raw)
	if !ok {
		return WaitDecision("no JSON object found in model response")
	}

	var p decisionPayload
	if err := json.Unmarshal([]byte(payload), &p); err != nil {
		return WaitDecision("malformed JSON in model response: " + Truncate(err.Error(), 80))
	}

	d := Decision{
		Action:     strings.ToUpper(strings.TrimSpace(p.Action)),
		Phase:      defaultString(p.Phase, TrendUnknown),
		Event:      defaultString(p.Event, "NONE"),
		Trigger:    defaultString(p.Trigger, "NONE"),
		Entry:      p.Entry,
		StopLoss:   p.StopLoss,
		TakeProfit: p.TakeProfit,
		Reason:     defaultString(p.Reason, "no reasoning provided"),
	}

	if p.Confidence != nil {
		d.Confidence = clampConfidence(*p.Confidence)
	}

	switch d.Action {
	case ActionBuy, ActionSell, ActionWait:
	default:
		d.Action = ActionWait
	}

	// low confidence always means WAIT, whether or not the model
	// complied with its own instructions
	if d.Confidence < MinActionableConfidence {
		d.Action = ActionWait
	}

	// entry/stoploss/takeprofit travel together: a WAIT carries none,
	// and a partial price set is normalized away
	if d.Action == ActionWait || d.Entry == nil || d.StopLoss == nil || d.TakeProfit == nil {
		d.Entry, d.StopLoss, d.TakeProfit = nil, nil, nil
	}

	return d
}

// ExtractJSONObject locates the first balanced brace-delimited object in
// free text, skipping braces inside JSON string literals.
func ExtractJSONObject(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}

	return "", false
}

func clampConfidence(v float64) int {
	c := int(math.Round(v))
	if c < 0 {
		return 0
	}
	if c > 100 {
		return 100
	}
	return c
}

func defaultString(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}

// Truncate caps a string at n bytes, used to keep diagnostics short.
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
