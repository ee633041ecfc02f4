package outbox

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jgreenfield/alfred/go/internal/sqlutil"
)

// InsertTx writes an outbox row inside the caller's transaction. Domain
// repositories call this so the row commits or rolls back with the state
// change it describes.
func InsertTx(ctx context.Context, tx *sqlx.Tx, ev Event) error {
	const q = `
		INSERT INTO draft_outbox (id, draft_id, event_type, payload, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	if _, err := tx.ExecContext(ctx, q, ev.ID, ev.DraftID, ev.EventType, ev.Payload, ev.CreatedAt); err != nil {
		return fmt.Errorf("insert outbox event %s: %w", ev.EventType, err)
	}
	return nil
}

// Repository reads and marks outbox rows for the relay worker.
type Repository struct {
	db *sqlx.DB
}

// NewRepository creates an outbox Repository.
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// RelayBatch locks up to limit unsent rows, hands each to publish, and
// stamps sent_at on the ones that succeeded, all in one transaction.
// Events whose publish returned false stay unsent and are picked up again
// on a later batch. Returns the batch size and the number marked sent.
func (r *Repository) RelayBatch(ctx context.Context, limit int, at time.Time, publish func(Event) bool) (total, sent int, err error) {
	err = sqlutil.Run(ctx, r.db, func(tx *sqlx.Tx) error {
		events, err := r.fetchUnsentTx(ctx, tx, limit)
		if err != nil {
			return err
		}
		total = len(events)

		var sentIDs []uuid.UUID
		for _, ev := range events {
			if publish(ev) {
				sentIDs = append(sentIDs, ev.ID)
			}
		}
		sent = len(sentIDs)

		if len(sentIDs) > 0 {
			return r.markSentTx(ctx, tx, sentIDs, at)
		}
		return nil
	})
	if err != nil {
		return 0, 0, err
	}
	return total, sent, nil
}

// fetchUnsentTx locks and returns up to limit unsent rows, oldest first.
// SKIP LOCKED lets multiple relay workers run without stepping on each other.
func (r *Repository) fetchUnsentTx(ctx context.Context, tx *sqlx.Tx, limit int) ([]Event, error) {
	const q = `
		SELECT id, draft_id, event_type, payload, created_at, sent_at
		FROM draft_outbox
		WHERE sent_at IS NULL
		ORDER BY created_at
		LIMIT $1
		FOR UPDATE SKIP LOCKED`
	var events []Event
	if err := tx.SelectContext(ctx, &events, q, limit); err != nil {
		return nil, fmt.Errorf("fetch unsent outbox events: %w", err)
	}
	return events, nil
}

// markSentTx stamps sent_at on the given rows.
func (r *Repository) markSentTx(ctx context.Context, tx *sqlx.Tx, ids []uuid.UUID, at time.Time) error {
	q, args, err := sqlx.In(`UPDATE draft_outbox SET sent_at = ? WHERE id IN (?)`, at, ids)
	if err != nil {
		return fmt.Errorf("build mark-sent query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, tx.Rebind(q), args...); err != nil {
		return fmt.Errorf("mark outbox events sent: %w", err)
	}
	return nil
}
