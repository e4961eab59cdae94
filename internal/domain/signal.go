package domain

import "time"

// External signal statuses. PENDING moves to WIN or LOSS exactly once.
const (
	SignalStatusPending = "PENDING"
	SignalStatusWin     = "WIN"
	SignalStatusLoss    = "LOSS"
)

// maxRawTextLen bounds the stored excerpt of the crawled source message.
const maxRawTextLen = 200

// ExternalSignal is a trading signal extracted from a third-party channel,
// optionally annotated with the model's verdict.
type ExternalSignal struct {
	ID               string   `json:"-"`
	Timestamp        string   `json:"timestamp"`
	Source           string   `json:"source"`
	Symbol           string   `json:"symbol"`
	Action           string   `json:"action"`
	Entry            float64  `json:"entry"`
	StopLoss         float64  `json:"stoploss"`
	TakeProfit       float64  `json:"takeprofit"`
	RawText          string   `json:"raw_text"`
	Status           string   `json:"status"`
	AIRecommendation string   `json:"ai_recommendation,omitempty"`
	AIConfidence     int      `json:"ai_confidence,omitempty"`
	AIReason         string   `json:"ai_reason,omitempty"`
	PipsResult       float64  `json:"pips_result,omitempty"`
	ClosedAt         string   `json:"closed_at,omitempty"`
	ImageURL         string   `json:"-"`
}

// NewExternalSignal normalizes a crawled signal for persistence.
func NewExternalSignal(source, symbol, action string, entry, stoploss, takeprofit float64, rawText string, now time.Time) ExternalSignal {
	if source == "" {
		source = "unknown"
	}
	if symbol == "" {
		symbol = "XAUUSD"
	}

	return ExternalSignal{
		Timestamp:  now.Format(time.RFC3339),
		Source:     source,
		Symbol:     symbol,
		Action:     action,
		Entry:      entry,
		StopLoss:   stoploss,
		TakeProfit: takeprofit,
		RawText:    Truncate(rawText, maxRawTextLen),
		Status:     SignalStatusPending,
	}
}

// Annotate attaches the model's verdict to the signal.
func (s *ExternalSignal) Annotate(v SignalVerdict) {
	s.AIRecommendation = v.Recommendation
	s.AIConfidence = v.Confidence
	s.AIReason = v.Reason
}

// Decided reports whether the signal outcome is already recorded.
func (s ExternalSignal) Decided() bool {
	return s.Status == SignalStatusWin || s.Status == SignalStatusLoss
}
