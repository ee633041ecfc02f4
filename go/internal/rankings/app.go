package rankings

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/jgreenfield/alfred/go/internal/draft/events"
	"github.com/jgreenfield/alfred/go/internal/draft/outbox"
	"github.com/jgreenfield/alfred/go/internal/models"
)

// SnapshotRepository defines what the app layer needs from the rankings store
type SnapshotRepository interface {
	LoadPool(ctx context.Context) ([]PoolPlayer, error)
	ReplaceSnapshot(ctx context.Context, sessionID string, rows []models.AdjustedRanking, events []outbox.Event) error
	HasSnapshot(ctx context.Context, sessionID string) (bool, error)
	GetSnapshot(ctx context.Context, sessionID string) ([]models.AdjustedRanking, error)
	UndraftedBySnapshot(ctx context.Context, draftID uuid.UUID, sessionID string) ([]models.PlayerRanked, error)
	UndraftedByConsensus(ctx context.Context, draftID uuid.UUID) ([]models.PlayerRanked, error)
}

// PreferenceStore defines what the app layer needs from the prefs store
type PreferenceStore interface {
	GetPreferences(ctx context.Context, sessionID string) (*models.UserPreference, error)
	ListAdjustments(ctx context.Context, sessionID string) ([]models.PlayerAdjustment, error)
}

// App handles ranking recomputation and the undrafted query.
type App struct {
	repo  SnapshotRepository
	prefs PreferenceStore
	clock clockwork.Clock
}

// NewApp creates a new rankings App
func NewApp(repo SnapshotRepository, prefs PreferenceStore, clock clockwork.Clock) *App {
	return &App{
		repo:  repo,
		prefs: prefs,
		clock: clock,
	}
}

// Recompute rebuilds a session's adjusted ranking snapshot from scratch and
// returns the number of players ranked. Missing preferences degrade to
// neutral defaults; the snapshot swap is atomic.
func (a *App) Recompute(ctx context.Context, sessionID string) (int, error) {
	if sessionID == "" {
		return 0, ErrSessionRequired
	}

	pool, err := a.repo.LoadPool(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load player pool: %w", err)
	}

	prefs, err := a.prefs.GetPreferences(ctx, sessionID)
	if err != nil {
		return 0, fmt.Errorf("failed to load preferences: %w", err)
	}
	if prefs == nil {
		p := models.DefaultPreference(sessionID)
		prefs = &p
	}
	prefs.SessionID = sessionID

	adjustments, err := a.prefs.ListAdjustments(ctx, sessionID)
	if err != nil {
		return 0, fmt.Errorf("failed to load player adjustments: %w", err)
	}
	overrides := make(map[uuid.UUID]models.PlayerAdjustment, len(adjustments))
	for _, adj := range adjustments {
		overrides[adj.PlayerID] = adj
	}

	now := a.clock.Now().UTC()
	rows, err := Recompute(pool, *prefs, overrides, now)
	if err != nil {
		return 0, err
	}

	ev, err := outbox.NewEvent(uuid.Nil, events.TypeRankingsRecomputed, events.RankingsRecomputedPayload{
		SessionID:  sessionID,
		RowCount:   len(rows),
		ComputedAt: now,
	}, now)
	if err != nil {
		return 0, err
	}

	if err := a.repo.ReplaceSnapshot(ctx, sessionID, rows, []outbox.Event{ev}); err != nil {
		return 0, fmt.Errorf("failed to replace snapshot: %w", err)
	}

	log.Info().
		Str("session_id", sessionID).
		Int("players_ranked", len(rows)).
		Msg("recomputed adjusted rankings")
	return len(rows), nil
}

// Undrafted lists the players still available in a draft, best pick first.
// Uses the session's snapshot when one exists, otherwise falls back to
// consensus order. Ranks are renumbered over the remaining players.
func (a *App) Undrafted(ctx context.Context, draftID uuid.UUID, sessionID string) ([]models.PlayerRanked, error) {
	var (
		players []models.PlayerRanked
		err     error
	)

	useSnapshot := false
	if sessionID != "" {
		useSnapshot, err = a.repo.HasSnapshot(ctx, sessionID)
		if err != nil {
			return nil, err
		}
	}

	if useSnapshot {
		players, err = a.repo.UndraftedBySnapshot(ctx, draftID, sessionID)
	} else {
		players, err = a.repo.UndraftedByConsensus(ctx, draftID)
	}
	if err != nil {
		return nil, err
	}

	for i := range players {
		players[i].Rank = i + 1
	}
	return players, nil
}

// Snapshot returns a session's current snapshot in adjusted rank order.
func (a *App) Snapshot(ctx context.Context, sessionID string) ([]models.AdjustedRanking, error) {
	rows, err := a.repo.GetSnapshot(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}
	return rows, nil
}
