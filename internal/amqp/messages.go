package amqp

import (
	"encoding/json"
	"time"
)

// Payment event operations mirrored to the ledger sheet.
const (
	OpUpsert = "upsert"
	OpDelete = "delete"
)

// PaymentEventMessage is a lightweight message for mirroring a payment to the
// ledger sheet. It carries only the payment ID and operation; the worker
// fetches the full payment from the repository.
type PaymentEventMessage struct {
	PaymentID string    `json:"paymentId"`
	Op        string    `json:"op"`
	Timestamp time.Time `json:"timestamp"`
}

// NewPaymentEventMessage creates a new payment event message
func NewPaymentEventMessage(paymentID, op string) *PaymentEventMessage {
	return &PaymentEventMessage{
		PaymentID: paymentID,
		Op:        op,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *PaymentEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// PaymentEventMessageFromJSON creates a message from JSON bytes
func PaymentEventMessageFromJSON(data []byte) (*PaymentEventMessage, error) {
	var msg PaymentEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
