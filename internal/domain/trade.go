package domain

import "time"

// Trade record statuses.
const (
	TradeStatusSignalOnly = "SIGNAL_ONLY"
	TradeStatusOpen       = "OPEN"
	TradeStatusClosed     = "CLOSED"
)

// TradeRecord is the durable form of a Decision. It is created once on
// save and transitions at most once to CLOSED with a realized pnl.
type TradeRecord struct {
	ID         string   `json:"-"`
	Timestamp  string   `json:"timestamp"`
	Action     string   `json:"action"`
	Entry      *float64 `json:"entry"`
	StopLoss   *float64 `json:"stoploss"`
	TakeProfit *float64 `json:"takeprofit"`
	Confidence int      `json:"confidence"`
	Phase      string   `json:"wyckoff_phase"`
	Event      string   `json:"event_detected"`
	Reason     string   `json:"reason"`
	Executed   bool     `json:"executed"`
	Status     string   `json:"status"`
	PnL        float64  `json:"pnl,omitempty"`
	ClosedAt   string   `json:"closed_at,omitempty"`
}

// NewTradeRecord normalizes a decision into its persisted form.
func NewTradeRecord(d Decision, executed bool, now time.Time) TradeRecord {
	status := TradeStatusSignalOnly
	if executed {
		status = TradeStatusOpen
	}

	return TradeRecord{
		Timestamp:  now.Format(time.RFC3339),
		Action:     d.Action,
		Entry:      d.Entry,
		StopLoss:   d.StopLoss,
		TakeProfit: d.TakeProfit,
		Confidence: d.Confidence,
		Phase:      d.Phase,
		Event:      d.Event,
		Reason:     d.Reason,
		Executed:   executed,
		Status:     status,
	}
}
