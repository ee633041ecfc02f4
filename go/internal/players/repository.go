package players

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jgreenfield/alfred/go/internal/models"
)

// Repository persists the player pool and per-source consensus values.
type Repository struct {
	db *sqlx.DB
}

// NewRepository creates a players Repository.
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// GetPlayer fetches a player by id.
func (r *Repository) GetPlayer(ctx context.Context, id uuid.UUID) (*models.Player, error) {
	const q = `SELECT id, name, position, team, active, created_at FROM players WHERE id = $1`
	var player models.Player
	if err := r.db.GetContext(ctx, &player, q, id); err != nil {
		return nil, fmt.Errorf("get player %s: %w", id, err)
	}
	return &player, nil
}

// SearchByName returns active players whose name contains the query,
// case-insensitive, ordered by name then id.
func (r *Repository) SearchByName(ctx context.Context, query string, limit int) ([]models.Player, error) {
	const q = `
		SELECT id, name, position, team, active, created_at
		FROM players
		WHERE active AND name ILIKE '%' || $1 || '%'
		ORDER BY name, id
		LIMIT $2`
	var players []models.Player
	if err := r.db.SelectContext(ctx, &players, q, query, limit); err != nil {
		return nil, fmt.Errorf("search players %q: %w", query, err)
	}
	return players, nil
}

// UpsertPlayer inserts a player or refreshes its mutable fields. Players
// are keyed by (name, position): the pool has no stable external ids.
func (r *Repository) UpsertPlayer(ctx context.Context, p models.Player) (*models.Player, error) {
	const q = `
		INSERT INTO players (id, name, position, team, active)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (name, position) DO UPDATE SET
			team = EXCLUDED.team,
			active = EXCLUDED.active
		RETURNING id, name, position, team, active, created_at`
	var out models.Player
	if err := r.db.GetContext(ctx, &out, q, uuid.New(), p.Name, p.Position, p.Team, p.Active); err != nil {
		return nil, fmt.Errorf("upsert player %s: %w", p.Name, err)
	}
	return &out, nil
}

// UpsertConsensus stores one source's ADP value for a player.
func (r *Repository) UpsertConsensus(ctx context.Context, c models.ConsensusRanking, at time.Time) error {
	const q = `
		INSERT INTO consensus_rankings (player_id, source, adp, ranked_on)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (player_id, source) DO UPDATE SET
			adp = EXCLUDED.adp,
			ranked_on = EXCLUDED.ranked_on`
	if _, err := r.db.ExecContext(ctx, q, c.PlayerID, c.Source, c.ADP, at); err != nil {
		return fmt.Errorf("upsert consensus %s/%s: %w", c.PlayerID, c.Source, err)
	}
	return nil
}

// ListConsensus returns a player's per-source consensus values.
func (r *Repository) ListConsensus(ctx context.Context, playerID uuid.UUID) ([]models.ConsensusRanking, error) {
	const q = `
		SELECT player_id, source, adp, ranked_on
		FROM consensus_rankings
		WHERE player_id = $1
		ORDER BY source`
	var rows []models.ConsensusRanking
	if err := r.db.SelectContext(ctx, &rows, q, playerID); err != nil {
		return nil, fmt.Errorf("list consensus for %s: %w", playerID, err)
	}
	return rows, nil
}
