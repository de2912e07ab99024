package amqp

import (
	"encoding/json"
	"time"
)

const (
	OpUpsert = "upsert"
	OpRemove = "remove"
)

// ChangeMessage announces one ledger mutation. It carries only the
// coordinates of the change; consumers read the current document from
// storage themselves, so a stale or duplicated message is harmless.
type ChangeMessage struct {
	Op        string    `json:"op"`
	Date      string    `json:"date"`
	EntryID   string    `json:"entryId"`
	Timestamp time.Time `json:"timestamp"`
}

func NewChangeMessage(op, date, entryID string) *ChangeMessage {
	return &ChangeMessage{
		Op:        op,
		Date:      date,
		EntryID:   entryID,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes.
func (m *ChangeMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ChangeMessageFromJSON creates a message from JSON bytes.
func ChangeMessageFromJSON(data []byte) (*ChangeMessage, error) {
	var msg ChangeMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
