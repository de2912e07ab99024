package amqp

import "testing"

func TestChangeMessage_RoundTrip(t *testing.T) {
	msg := NewChangeMessage(OpUpsert, "2025-06-10", "20250610-abc12345")
	if msg.Timestamp.IsZero() {
		t.Error("NewChangeMessage() must stamp the message")
	}

	data, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}

	got, err := ChangeMessageFromJSON(data)
	if err != nil {
		t.Fatalf("ChangeMessageFromJSON() error = %v", err)
	}
	if got.Op != OpUpsert || got.Date != "2025-06-10" || got.EntryID != "20250610-abc12345" {
		t.Errorf("round trip changed the message: %+v", got)
	}
}

func TestChangeMessageFromJSON_Invalid(t *testing.T) {
	if _, err := ChangeMessageFromJSON([]byte("not json")); err == nil {
		t.Error("invalid payload must return an error")
	}
}
