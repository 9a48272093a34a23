package amqp

import (
	"encoding/json"
	"time"
)

// ExpenseAddedMessage is a lightweight event for a newly recorded expense.
// It carries only the ID; the worker fetches the full record from the
// database before exporting it.
type ExpenseAddedMessage struct {
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

// NewExpenseAddedMessage creates an event for the given expense id.
func NewExpenseAddedMessage(id int64) *ExpenseAddedMessage {
	return &ExpenseAddedMessage{
		ID:        id,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *ExpenseAddedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ExpenseAddedMessageFromJSON creates a message from JSON bytes
func ExpenseAddedMessageFromJSON(data []byte) (*ExpenseAddedMessage, error) {
	var msg ExpenseAddedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
