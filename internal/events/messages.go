package events

import (
	"encoding/json"
	"time"
)

// Event actions.
const (
	ActionAppended    = "appended"
	ActionDeactivated = "deactivated"
)

// Record types.
const (
	RecordTransaction = "transaction"
	RecordFixedCost   = "fixed_cost"
)

// RecordEvent is a lightweight notification about one ledger mutation.
// It carries no session token and no note text; consumers get what they
// need for audit counters and nothing personal beyond the category label.
type RecordEvent struct {
	Action      string    `json:"action"`
	RecordType  string    `json:"record_type"`
	RecordID    int64     `json:"record_id"`
	Kind        string    `json:"kind,omitempty"`
	Category    string    `json:"category,omitempty"`
	AmountCents int64     `json:"amount_cents,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// NewAppendEvent builds an event for a freshly appended record.
func NewAppendEvent(recordType string, id int64, kind, category string, amountCents int64) *RecordEvent {
	return &RecordEvent{
		Action:      ActionAppended,
		RecordType:  recordType,
		RecordID:    id,
		Kind:        kind,
		Category:    category,
		AmountCents: amountCents,
		Timestamp:   time.Now(),
	}
}

// NewDeactivateEvent builds an event for a deactivated fixed cost.
func NewDeactivateEvent(id int64) *RecordEvent {
	return &RecordEvent{
		Action:     ActionDeactivated,
		RecordType: RecordFixedCost,
		RecordID:   id,
		Timestamp:  time.Now(),
	}
}

// ToJSON converts the event to JSON bytes.
func (e *RecordEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// RecordEventFromJSON parses an event from JSON bytes.
func RecordEventFromJSON(data []byte) (*RecordEvent, error) {
	var ev RecordEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, err
	}
	return &ev, nil
}
