package amqp

import (
	"encoding/json"
	"fmt"
	"time"
)

// Kind names the record type a change refers to.
type Kind string

// Op names what happened to the record.
type Op string

const (
	KindEvent Kind = "event"
	KindNote  Kind = "note"

	OpCreated Op = "created"
	OpUpdated Op = "updated"
	OpDeleted Op = "deleted"
)

// ChangeMessage announces that a booking or calendar note changed.
// Consumers re-read the store rather than trusting a payload, so only the
// identity of the record travels.
type ChangeMessage struct {
	Kind      Kind      `json:"kind"`
	Op        Op        `json:"op"`
	ID        string    `json:"id"`
	Source    string    `json:"source,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func NewChangeMessage(kind Kind, op Op, id string) *ChangeMessage {
	return &ChangeMessage{
		Kind:      kind,
		Op:        op,
		ID:        id,
		Timestamp: time.Now(),
	}
}

func (m *ChangeMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ChangeMessageFromJSON decodes and validates a change message.
func ChangeMessageFromJSON(data []byte) (*ChangeMessage, error) {
	var msg ChangeMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	switch msg.Kind {
	case KindEvent, KindNote:
	default:
		return nil, fmt.Errorf("unknown change kind %q", msg.Kind)
	}
	switch msg.Op {
	case OpCreated, OpUpdated, OpDeleted:
	default:
		return nil, fmt.Errorf("unknown change op %q", msg.Op)
	}
	return &msg, nil
}
