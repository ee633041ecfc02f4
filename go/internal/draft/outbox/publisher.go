package outbox

import (
	"context"

	"github.com/rs/zerolog/log"
)

// LogPublisher writes events to the log instead of a broker. Used for
// local development runs without NATS.
type LogPublisher struct{}

// NewLogPublisher creates a LogPublisher.
func NewLogPublisher() *LogPublisher {
	return &LogPublisher{}
}

func (p *LogPublisher) Publish(ctx context.Context, event Event) error {
	log.Info().
		Str("event_id", event.ID.String()).
		Str("event_type", event.EventType).
		Str("draft_id", event.DraftID.String()).
		RawJSON("payload", event.Payload).
		Msg("publishing event")
	return nil
}
