package rankings

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jgreenfield/alfred/go/internal/draft/outbox"
	"github.com/jgreenfield/alfred/go/internal/models"
	"github.com/jgreenfield/alfred/go/internal/sqlutil"
)

// Repository persists ranking snapshots and answers the undrafted query.
type Repository struct {
	db *sqlx.DB
}

// NewRepository creates a rankings Repository.
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// LoadPool returns every active player with their consensus values, ordered
// by player id so engine runs see a stable input order.
func (r *Repository) LoadPool(ctx context.Context) ([]PoolPlayer, error) {
	const playersQ = `
		SELECT id, name, position, team, active, created_at
		FROM players
		WHERE active
		ORDER BY id`
	const sourcesQ = `
		SELECT cr.player_id, cr.source, cr.adp, cr.ranked_on
		FROM consensus_rankings cr
		JOIN players p ON p.id = cr.player_id
		WHERE p.active
		ORDER BY cr.player_id, cr.source`

	var players []models.Player
	if err := r.db.SelectContext(ctx, &players, playersQ); err != nil {
		return nil, fmt.Errorf("load player pool: %w", err)
	}
	var sources []models.ConsensusRanking
	if err := r.db.SelectContext(ctx, &sources, sourcesQ); err != nil {
		return nil, fmt.Errorf("load consensus rankings: %w", err)
	}

	bySource := make(map[uuid.UUID][]models.ConsensusRanking, len(players))
	for _, s := range sources {
		bySource[s.PlayerID] = append(bySource[s.PlayerID], s)
	}

	pool := make([]PoolPlayer, len(players))
	for i, p := range players {
		pool[i] = PoolPlayer{Player: p, Sources: bySource[p.ID]}
	}
	return pool, nil
}

// ReplaceSnapshot swaps a session's entire adjusted ranking set and writes
// the accompanying events, all in one transaction. Readers never observe a
// partial snapshot.
func (r *Repository) ReplaceSnapshot(ctx context.Context, sessionID string, rows []models.AdjustedRanking, events []outbox.Event) error {
	const del = `DELETE FROM adjusted_rankings WHERE session_id = $1`
	const ins = `
		INSERT INTO adjusted_rankings (
			session_id, player_id, original_adp, original_rank,
			team_multiplier, player_multiplier, strategy_multiplier,
			adjusted_adp, adjusted_rank, bias_impact, computed_at
		) VALUES (
			:session_id, :player_id, :original_adp, :original_rank,
			:team_multiplier, :player_multiplier, :strategy_multiplier,
			:adjusted_adp, :adjusted_rank, :bias_impact, :computed_at
		)`

	return sqlutil.Run(ctx, r.db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, del, sessionID); err != nil {
			return fmt.Errorf("delete snapshot for session %s: %w", sessionID, err)
		}
		if len(rows) > 0 {
			if _, err := tx.NamedExecContext(ctx, ins, rows); err != nil {
				return fmt.Errorf("insert snapshot for session %s: %w", sessionID, err)
			}
		}
		for _, ev := range events {
			if err := outbox.InsertTx(ctx, tx, ev); err != nil {
				return err
			}
		}
		return nil
	})
}

// HasSnapshot reports whether a session has a materialized snapshot.
func (r *Repository) HasSnapshot(ctx context.Context, sessionID string) (bool, error) {
	var exists bool
	const q = `SELECT EXISTS (SELECT 1 FROM adjusted_rankings WHERE session_id = $1)`
	if err := r.db.GetContext(ctx, &exists, q, sessionID); err != nil {
		return false, fmt.Errorf("check snapshot for session %s: %w", sessionID, err)
	}
	return exists, nil
}

// GetSnapshot returns a session's snapshot in adjusted rank order.
func (r *Repository) GetSnapshot(ctx context.Context, sessionID string) ([]models.AdjustedRanking, error) {
	const q = `
		SELECT session_id, player_id, original_adp, original_rank,
		       team_multiplier, player_multiplier, strategy_multiplier,
		       adjusted_adp, adjusted_rank, bias_impact, computed_at
		FROM adjusted_rankings
		WHERE session_id = $1
		ORDER BY adjusted_rank`
	var rows []models.AdjustedRanking
	if err := r.db.SelectContext(ctx, &rows, q, sessionID); err != nil {
		return nil, fmt.Errorf("get snapshot for session %s: %w", sessionID, err)
	}
	return rows, nil
}

// UndraftedBySnapshot lists undrafted players in a session's adjusted order.
func (r *Repository) UndraftedBySnapshot(ctx context.Context, draftID uuid.UUID, sessionID string) ([]models.PlayerRanked, error) {
	const q = `
		SELECT p.id AS player_id, p.name, p.position, p.team, ar.adjusted_adp AS adp
		FROM players p
		JOIN adjusted_rankings ar ON ar.player_id = p.id AND ar.session_id = $2
		WHERE p.active
		  AND p.id NOT IN (
			SELECT player_id FROM draft_picks
			WHERE draft_id = $1 AND player_id IS NOT NULL
		  )
		ORDER BY ar.adjusted_rank, p.id`
	var players []models.PlayerRanked
	if err := r.db.SelectContext(ctx, &players, q, draftID, sessionID); err != nil {
		return nil, fmt.Errorf("undrafted by snapshot: %w", err)
	}
	return players, nil
}

// UndraftedByConsensus lists undrafted players by mean consensus ADP.
// Players without consensus data come last, ordered by name then id.
func (r *Repository) UndraftedByConsensus(ctx context.Context, draftID uuid.UUID) ([]models.PlayerRanked, error) {
	const q = `
		SELECT p.id AS player_id, p.name, p.position, p.team,
		       COALESCE(AVG(cr.adp), $2) AS adp
		FROM players p
		LEFT JOIN consensus_rankings cr ON cr.player_id = p.id
		WHERE p.active
		  AND p.id NOT IN (
			SELECT player_id FROM draft_picks
			WHERE draft_id = $1 AND player_id IS NOT NULL
		  )
		GROUP BY p.id, p.name, p.position, p.team
		ORDER BY CASE WHEN COUNT(cr.adp) = 0 THEN 1 ELSE 0 END,
		         adp, p.name, p.id`
	var players []models.PlayerRanked
	if err := r.db.SelectContext(ctx, &players, q, draftID, models.ADPSentinel); err != nil {
		return nil, fmt.Errorf("undrafted by consensus: %w", err)
	}
	return players, nil
}
