package amqp

import (
	"encoding/json"
	"time"
)

// Message types carried on the events queue. Consumers dispatch on the
// envelope type and ignore what they do not handle.
const (
	TypeEntryRecorded    = "entry_recorded"
	TypeStatementSettled = "statement_settled"
)

type envelope struct {
	Type string `json:"type"`
}

// EntryRecordedMessage announces that a new ledger entry was persisted.
type EntryRecordedMessage struct {
	Type        string    `json:"type"`
	EntryID     string    `json:"entryId"`
	Kind        string    `json:"kind"`
	AmountCents int64     `json:"amountCents"`
	Timestamp   time.Time `json:"timestamp"`
}

func NewEntryRecordedMessage(entryID, kind string, amountCents int64) *EntryRecordedMessage {
	return &EntryRecordedMessage{
		Type:        TypeEntryRecorded,
		EntryID:     entryID,
		Kind:        kind,
		AmountCents: amountCents,
		Timestamp:   time.Now(),
	}
}

func (m *EntryRecordedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func EntryRecordedMessageFromJSON(data []byte) (*EntryRecordedMessage, error) {
	var msg EntryRecordedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// StatementSettledMessage announces that a card statement was liquidated.
// It carries the settled totals so the export worker can append a row
// without reloading the whole ledger.
type StatementSettledMessage struct {
	Type       string    `json:"type"`
	CardID     string    `json:"cardId"`
	Month      int       `json:"month"`
	Year       int       `json:"year"`
	TotalCents int64     `json:"totalCents"`
	PaymentID  string    `json:"paymentId"`
	Timestamp  time.Time `json:"timestamp"`
}

func NewStatementSettledMessage(cardID string, month, year int, totalCents int64, paymentID string) *StatementSettledMessage {
	return &StatementSettledMessage{
		Type:       TypeStatementSettled,
		CardID:     cardID,
		Month:      month,
		Year:       year,
		TotalCents: totalCents,
		PaymentID:  paymentID,
		Timestamp:  time.Now(),
	}
}

func (m *StatementSettledMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func StatementSettledMessageFromJSON(data []byte) (*StatementSettledMessage, error) {
	var msg StatementSettledMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
