package amqp

import (
	"encoding/json"
	"time"
)

// ExpenseAddedMessage notifies workers that the expense list changed.
// It carries only the expense id; the worker reloads the full snapshot.
type ExpenseAddedMessage struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

// NewExpenseAddedMessage creates a message for the given expense id.
func NewExpenseAddedMessage(id string) *ExpenseAddedMessage {
	return &ExpenseAddedMessage{
		ID:        id,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes.
func (m *ExpenseAddedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ExpenseAddedMessageFromJSON creates a message from JSON bytes.
func ExpenseAddedMessageFromJSON(data []byte) (*ExpenseAddedMessage, error) {
	var msg ExpenseAddedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
