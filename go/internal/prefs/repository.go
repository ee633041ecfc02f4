package prefs

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jgreenfield/alfred/go/internal/models"
)

// Repository persists per-session preferences and player adjustments.
type Repository struct {
	db *sqlx.DB
}

// NewRepository creates a prefs Repository.
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// preferenceRow carries the jsonb team lists in raw form.
type preferenceRow struct {
	SessionID          string    `db:"session_id"`
	FavoriteTeams      []byte    `db:"favorite_teams"`
	HatedTeams         []byte    `db:"hated_teams"`
	FavoriteMultiplier float64   `db:"favorite_multiplier"`
	HatedMultiplier    float64   `db:"hated_multiplier"`
	Strategy           string    `db:"strategy"`
	CVWeight           float64   `db:"cv_weight"`
	UpdatedAt          time.Time `db:"updated_at"`
}

func (row preferenceRow) toModel() (*models.UserPreference, error) {
	pref := &models.UserPreference{
		SessionID:          row.SessionID,
		FavoriteMultiplier: row.FavoriteMultiplier,
		HatedMultiplier:    row.HatedMultiplier,
		Strategy:           models.Strategy(row.Strategy),
		CVWeight:           row.CVWeight,
		UpdatedAt:          row.UpdatedAt,
	}
	if err := json.Unmarshal(row.FavoriteTeams, &pref.FavoriteTeams); err != nil {
		return nil, fmt.Errorf("decode favorite teams: %w", err)
	}
	if err := json.Unmarshal(row.HatedTeams, &pref.HatedTeams); err != nil {
		return nil, fmt.Errorf("decode hated teams: %w", err)
	}
	return pref, nil
}

// GetPreferences returns a session's preferences, or nil when none stored.
func (r *Repository) GetPreferences(ctx context.Context, sessionID string) (*models.UserPreference, error) {
	const q = `
		SELECT session_id, favorite_teams, hated_teams, favorite_multiplier,
		       hated_multiplier, strategy, cv_weight, updated_at
		FROM user_preferences
		WHERE session_id = $1`
	var row preferenceRow
	err := r.db.GetContext(ctx, &row, q, sessionID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get preferences for session %s: %w", sessionID, err)
	}
	return row.toModel()
}

// PutPreferences upserts a session's preferences.
func (r *Repository) PutPreferences(ctx context.Context, pref models.UserPreference, at time.Time) (*models.UserPreference, error) {
	favorites, err := json.Marshal(orEmpty(pref.FavoriteTeams))
	if err != nil {
		return nil, fmt.Errorf("encode favorite teams: %w", err)
	}
	hated, err := json.Marshal(orEmpty(pref.HatedTeams))
	if err != nil {
		return nil, fmt.Errorf("encode hated teams: %w", err)
	}

	const q = `
		INSERT INTO user_preferences (
			session_id, favorite_teams, hated_teams, favorite_multiplier,
			hated_multiplier, strategy, cv_weight, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (session_id) DO UPDATE SET
			favorite_teams = EXCLUDED.favorite_teams,
			hated_teams = EXCLUDED.hated_teams,
			favorite_multiplier = EXCLUDED.favorite_multiplier,
			hated_multiplier = EXCLUDED.hated_multiplier,
			strategy = EXCLUDED.strategy,
			cv_weight = EXCLUDED.cv_weight,
			updated_at = EXCLUDED.updated_at
		RETURNING session_id, favorite_teams, hated_teams, favorite_multiplier,
		          hated_multiplier, strategy, cv_weight, updated_at`

	var row preferenceRow
	err = r.db.GetContext(ctx, &row, q,
		pref.SessionID, favorites, hated, pref.FavoriteMultiplier,
		pref.HatedMultiplier, pref.Strategy, pref.CVWeight, at,
	)
	if err != nil {
		return nil, fmt.Errorf("put preferences for session %s: %w", pref.SessionID, err)
	}
	return row.toModel()
}

// GetAdjustment returns one player adjustment, or nil when none stored.
func (r *Repository) GetAdjustment(ctx context.Context, sessionID string, playerID uuid.UUID) (*models.PlayerAdjustment, error) {
	const q = `
		SELECT session_id, player_id, bias_multiplier, reason, must_draft,
		       avoid_player, news_impact_score, updated_at
		FROM player_adjustments
		WHERE session_id = $1 AND player_id = $2`
	var adj models.PlayerAdjustment
	err := r.db.GetContext(ctx, &adj, q, sessionID, playerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get adjustment: %w", err)
	}
	return &adj, nil
}

// PutAdjustment upserts one player adjustment.
func (r *Repository) PutAdjustment(ctx context.Context, adj models.PlayerAdjustment, at time.Time) (*models.PlayerAdjustment, error) {
	const q = `
		INSERT INTO player_adjustments (
			session_id, player_id, bias_multiplier, reason, must_draft,
			avoid_player, news_impact_score, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (session_id, player_id) DO UPDATE SET
			bias_multiplier = EXCLUDED.bias_multiplier,
			reason = EXCLUDED.reason,
			must_draft = EXCLUDED.must_draft,
			avoid_player = EXCLUDED.avoid_player,
			news_impact_score = EXCLUDED.news_impact_score,
			updated_at = EXCLUDED.updated_at
		RETURNING session_id, player_id, bias_multiplier, reason, must_draft,
		          avoid_player, news_impact_score, updated_at`
	var out models.PlayerAdjustment
	err := r.db.GetContext(ctx, &out, q,
		adj.SessionID, adj.PlayerID, adj.BiasMultiplier, adj.Reason,
		adj.MustDraft, adj.AvoidPlayer, adj.NewsImpactScore, at,
	)
	if err != nil {
		return nil, fmt.Errorf("put adjustment: %w", err)
	}
	return &out, nil
}

// DeleteAdjustment removes one player adjustment. Deleting a missing row is
// not an error.
func (r *Repository) DeleteAdjustment(ctx context.Context, sessionID string, playerID uuid.UUID) error {
	const q = `DELETE FROM player_adjustments WHERE session_id = $1 AND player_id = $2`
	if _, err := r.db.ExecContext(ctx, q, sessionID, playerID); err != nil {
		return fmt.Errorf("delete adjustment: %w", err)
	}
	return nil
}

// ListAdjustments returns a session's adjustments ordered by player id.
func (r *Repository) ListAdjustments(ctx context.Context, sessionID string) ([]models.PlayerAdjustment, error) {
	const q = `
		SELECT session_id, player_id, bias_multiplier, reason, must_draft,
		       avoid_player, news_impact_score, updated_at
		FROM player_adjustments
		WHERE session_id = $1
		ORDER BY player_id`
	var adjs []models.PlayerAdjustment
	if err := r.db.SelectContext(ctx, &adjs, q, sessionID); err != nil {
		return nil, fmt.Errorf("list adjustments for session %s: %w", sessionID, err)
	}
	return adjs, nil
}

func orEmpty(teams []string) []string {
	if teams == nil {
		return []string{}
	}
	return teams
}
