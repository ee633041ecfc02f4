package outbox

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Event is one outbox row. Rows are written in the same transaction as the
// state change they describe and relayed to the broker by the worker.
type Event struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	DraftID   uuid.UUID       `json:"draft_id" db:"draft_id"`
	EventType string          `json:"event_type" db:"event_type"`
	Payload   json.RawMessage `json:"payload" db:"payload"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
	SentAt    *time.Time      `json:"sent_at,omitempty" db:"sent_at"`
}

// NewEvent builds an outbox row from a payload struct.
func NewEvent(draftID uuid.UUID, eventType string, payload any, at time.Time) (Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("marshal %s payload: %w", eventType, err)
	}
	return Event{
		ID:        uuid.New(),
		DraftID:   draftID,
		EventType: eventType,
		Payload:   data,
		CreatedAt: at,
	}, nil
}

// EventPublisher delivers a relayed outbox event to its destination.
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}
