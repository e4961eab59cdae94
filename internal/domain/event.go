package domain

import "time"

// DecisionEvent is the journaled form of an analysis outcome, written
// locally regardless of whether the remote store accepted the record.
type DecisionEvent struct {
	Timestamp time.Time `json:"ts"`
	Symbol    string    `json:"symbol"`
	Model     string    `json:"model,omitempty"`
	Decision  Decision  `json:"decision"`
}

// DecisionEventRecord pairs a journaled event with its log index so
// consumers can resume from where they left off.
type DecisionEventRecord struct {
	Index uint64
	Event DecisionEvent
}
