package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jgreenfield/alfred/go/internal/draft/outbox"
	"github.com/jgreenfield/alfred/go/internal/models"
	"github.com/jgreenfield/alfred/go/internal/sqlutil"
)

// Repository persists drafts, teams, and picks in Postgres.
type Repository struct {
	db *sqlx.DB
}

// NewRepository creates a draft Repository.
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// CreateDraft inserts a draft in NOT_STARTED status.
func (r *Repository) CreateDraft(ctx context.Context, req CreateDraftRequest) (*models.Draft, error) {
	const q = `
		INSERT INTO drafts (id, name, team_count, rounds, snake, time_per_pick_sec, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, name, team_count, rounds, snake, time_per_pick_sec, status,
		          started_at, completed_at, created_at, updated_at`
	var draft models.Draft
	err := r.db.GetContext(ctx, &draft, q,
		uuid.New(), req.Name, req.TeamCount, req.Rounds, req.Snake, req.TimePerPickSec,
		models.DraftStatusNotStarted,
	)
	if err != nil {
		return nil, fmt.Errorf("insert draft: %w", err)
	}
	return &draft, nil
}

// GetDraft fetches a draft by id.
func (r *Repository) GetDraft(ctx context.Context, id uuid.UUID) (*models.Draft, error) {
	const q = `
		SELECT id, name, team_count, rounds, snake, time_per_pick_sec, status,
		       started_at, completed_at, created_at, updated_at
		FROM drafts WHERE id = $1`
	var draft models.Draft
	if err := r.db.GetContext(ctx, &draft, q, id); err != nil {
		return nil, fmt.Errorf("get draft %s: %w", id, err)
	}
	return &draft, nil
}

// UpdateDraftStatus transitions a draft and writes the accompanying events
// in one transaction. StartedAt/CompletedAt stamps follow the new status.
func (r *Repository) UpdateDraftStatus(ctx context.Context, id uuid.UUID, req UpdateDraftStatusRequest, at time.Time) (*models.Draft, error) {
	const q = `
		UPDATE drafts
		SET status = $2,
		    started_at = CASE WHEN $2 = 'IN_PROGRESS' THEN $3 ELSE started_at END,
		    completed_at = CASE WHEN $2 IN ('COMPLETED', 'CANCELLED') THEN $3 ELSE completed_at END,
		    updated_at = $3
		WHERE id = $1
		RETURNING id, name, team_count, rounds, snake, time_per_pick_sec, status,
		          started_at, completed_at, created_at, updated_at`

	var draft models.Draft
	err := sqlutil.Run(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := tx.GetContext(ctx, &draft, q, id, req.Status, at); err != nil {
			return fmt.Errorf("update draft status: %w", err)
		}
		for _, ev := range req.Events {
			if err := outbox.InsertTx(ctx, tx, ev); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &draft, nil
}

// CreateTeam registers a team in a draft.
func (r *Repository) CreateTeam(ctx context.Context, req RegisterTeamRequest) (*models.DraftTeam, error) {
	const q = `
		INSERT INTO draft_teams (id, draft_id, team_number, draft_position, name, owner_identity)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, draft_id, team_number, draft_position, name, owner_identity, created_at`
	var team models.DraftTeam
	err := r.db.GetContext(ctx, &team, q,
		uuid.New(), req.DraftID, req.TeamNumber, req.DraftPosition, req.Name,
		sqlutil.ToSqlString(req.OwnerIdentity),
	)
	if err != nil {
		return nil, fmt.Errorf("insert draft team: %w", err)
	}
	return &team, nil
}

// ListTeams returns a draft's teams in seat order.
func (r *Repository) ListTeams(ctx context.Context, draftID uuid.UUID) ([]models.DraftTeam, error) {
	const q = `
		SELECT id, draft_id, team_number, draft_position, name, owner_identity, created_at
		FROM draft_teams
		WHERE draft_id = $1
		ORDER BY draft_position`
	var teams []models.DraftTeam
	if err := r.db.SelectContext(ctx, &teams, q, draftID); err != nil {
		return nil, fmt.Errorf("list draft teams: %w", err)
	}
	return teams, nil
}

// BindOwner attaches a participant identity to a team.
func (r *Repository) BindOwner(ctx context.Context, teamID uuid.UUID, identity string) error {
	const q = `UPDATE draft_teams SET owner_identity = $2 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, teamID, identity)
	if err != nil {
		return fmt.Errorf("bind owner: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("bind owner: team %s not found", teamID)
	}
	return nil
}

// CountPicks returns the number of picks recorded for a draft.
func (r *Repository) CountPicks(ctx context.Context, draftID uuid.UUID) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM draft_picks WHERE draft_id = $1`, draftID); err != nil {
		return 0, fmt.Errorf("count picks: %w", err)
	}
	return count, nil
}

// ListPicks returns a draft's picks in pick order.
func (r *Repository) ListPicks(ctx context.Context, draftID uuid.UUID) ([]models.DraftPick, error) {
	const q = `
		SELECT id, draft_id, pick_number, round, draft_slot, team_id, player_id, picked_at
		FROM draft_picks
		WHERE draft_id = $1
		ORDER BY pick_number`
	var picks []models.DraftPick
	if err := r.db.SelectContext(ctx, &picks, q, draftID); err != nil {
		return nil, fmt.Errorf("list picks: %w", err)
	}
	return picks, nil
}

// RecordPick inserts a pick, its events, and the optional completion
// transition in one transaction. A unique violation on
// (draft_id, pick_number) surfaces so the caller can detect the lost race.
func (r *Repository) RecordPick(ctx context.Context, req RecordPickRequest, at time.Time) error {
	const insertPick = `
		INSERT INTO draft_picks (id, draft_id, pick_number, round, draft_slot, team_id, player_id, picked_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	const completeDraft = `
		UPDATE drafts SET status = $2, completed_at = $3, updated_at = $3 WHERE id = $1`

	return sqlutil.Run(ctx, r.db, func(tx *sqlx.Tx) error {
		p := req.Pick
		if _, err := tx.ExecContext(ctx, insertPick,
			p.ID, p.DraftID, p.PickNumber, p.Round, p.DraftSlot, p.TeamID,
			sqlutil.ToNullUUID(p.PlayerID), p.PickedAt,
		); err != nil {
			return fmt.Errorf("insert pick %d: %w", p.PickNumber, err)
		}
		if req.CompleteDraft {
			if _, err := tx.ExecContext(ctx, completeDraft, p.DraftID, models.DraftStatusCompleted, at); err != nil {
				return fmt.Errorf("complete draft: %w", err)
			}
		}
		for _, ev := range req.Events {
			if err := outbox.InsertTx(ctx, tx, ev); err != nil {
				return err
			}
		}
		return nil
	})
}
