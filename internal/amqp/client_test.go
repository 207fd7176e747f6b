package amqp

import (
	"testing"
	"time"
)

func TestNewPaymentEventMessage(t *testing.T) {
	msg := NewPaymentEventMessage("42", OpUpsert)

	if msg.PaymentID != "42" {
		t.Errorf("NewPaymentEventMessage() PaymentID = %v, want 42", msg.PaymentID)
	}
	if msg.Op != OpUpsert {
		t.Errorf("NewPaymentEventMessage() Op = %v, want %v", msg.Op, OpUpsert)
	}
	if msg.Timestamp.IsZero() {
		t.Error("NewPaymentEventMessage() Timestamp should not be zero")
	}
	if time.Since(msg.Timestamp) > time.Second {
		t.Error("NewPaymentEventMessage() Timestamp should be recent")
	}
}

func TestPaymentEventMessage_JSON(t *testing.T) {
	timestamp := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	msg := &PaymentEventMessage{
		PaymentID: "abc123",
		Op:        OpDelete,
		Timestamp: timestamp,
	}

	jsonBytes, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}

	parsedMsg, err := PaymentEventMessageFromJSON(jsonBytes)
	if err != nil {
		t.Fatalf("PaymentEventMessageFromJSON() error = %v", err)
	}

	if parsedMsg.PaymentID != msg.PaymentID {
		t.Errorf("Parsed PaymentID = %v, want %v", parsedMsg.PaymentID, msg.PaymentID)
	}
	if parsedMsg.Op != msg.Op {
		t.Errorf("Parsed Op = %v, want %v", parsedMsg.Op, msg.Op)
	}
	if !parsedMsg.Timestamp.Equal(msg.Timestamp) {
		t.Errorf("Parsed Timestamp = %v, want %v", parsedMsg.Timestamp, msg.Timestamp)
	}
}

func TestPaymentEventMessage_InvalidJSON(t *testing.T) {
	invalidJSON := []byte(`{"paymentId": 42, "op": ["upsert"]}`)

	_, err := PaymentEventMessageFromJSON(invalidJSON)
	if err == nil {
		t.Error("PaymentEventMessageFromJSON() should fail with invalid JSON")
	}
}
