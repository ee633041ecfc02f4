package prefs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/jgreenfield/alfred/go/internal/models"
	"github.com/jgreenfield/alfred/go/internal/rankings"
)

// ErrInvalidPreference indicates preference or adjustment input that fails
// validation.
var ErrInvalidPreference = errors.New("invalid preference")

// PrefsRepository defines what the app layer needs from the repository
type PrefsRepository interface {
	GetPreferences(ctx context.Context, sessionID string) (*models.UserPreference, error)
	PutPreferences(ctx context.Context, pref models.UserPreference, at time.Time) (*models.UserPreference, error)
	GetAdjustment(ctx context.Context, sessionID string, playerID uuid.UUID) (*models.PlayerAdjustment, error)
	PutAdjustment(ctx context.Context, adj models.PlayerAdjustment, at time.Time) (*models.PlayerAdjustment, error)
	DeleteAdjustment(ctx context.Context, sessionID string, playerID uuid.UUID) error
	ListAdjustments(ctx context.Context, sessionID string) ([]models.PlayerAdjustment, error)
}

// App handles bias preference business logic
type App struct {
	repo  PrefsRepository
	clock clockwork.Clock
}

// NewApp creates a new prefs App
func NewApp(repo PrefsRepository, clock clockwork.Clock) *App {
	return &App{
		repo:  repo,
		clock: clock,
	}
}

// GetPreferences returns a session's preferences, falling back to the
// neutral defaults when nothing is stored.
func (a *App) GetPreferences(ctx context.Context, sessionID string) (*models.UserPreference, error) {
	pref, err := a.repo.GetPreferences(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get preferences: %w", err)
	}
	if pref == nil {
		p := models.DefaultPreference(sessionID)
		return &p, nil
	}
	return pref, nil
}

// PutPreferences validates and stores a session's preferences.
func (a *App) PutPreferences(ctx context.Context, pref models.UserPreference) (*models.UserPreference, error) {
	if err := a.validatePreference(pref); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	stored, err := a.repo.PutPreferences(ctx, pref, a.clock.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to put preferences: %w", err)
	}

	log.Info().
		Str("session_id", pref.SessionID).
		Str("strategy", string(pref.Strategy)).
		Int("favorite_teams", len(pref.FavoriteTeams)).
		Int("hated_teams", len(pref.HatedTeams)).
		Msg("stored preferences")
	return stored, nil
}

// GetAdjustment returns one player adjustment, or nil when none stored.
func (a *App) GetAdjustment(ctx context.Context, sessionID string, playerID uuid.UUID) (*models.PlayerAdjustment, error) {
	adj, err := a.repo.GetAdjustment(ctx, sessionID, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get adjustment: %w", err)
	}
	return adj, nil
}

// PutAdjustment validates and stores one player adjustment.
func (a *App) PutAdjustment(ctx context.Context, adj models.PlayerAdjustment) (*models.PlayerAdjustment, error) {
	if err := a.validateAdjustment(adj); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	stored, err := a.repo.PutAdjustment(ctx, adj, a.clock.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to put adjustment: %w", err)
	}

	log.Info().
		Str("session_id", adj.SessionID).
		Str("player_id", adj.PlayerID.String()).
		Float64("bias_multiplier", adj.BiasMultiplier).
		Bool("must_draft", adj.MustDraft).
		Bool("avoid_player", adj.AvoidPlayer).
		Msg("stored player adjustment")
	return stored, nil
}

// DeleteAdjustment removes one player adjustment.
func (a *App) DeleteAdjustment(ctx context.Context, sessionID string, playerID uuid.UUID) error {
	if err := a.repo.DeleteAdjustment(ctx, sessionID, playerID); err != nil {
		return fmt.Errorf("failed to delete adjustment: %w", err)
	}
	return nil
}

// ListAdjustments returns a session's adjustments.
func (a *App) ListAdjustments(ctx context.Context, sessionID string) ([]models.PlayerAdjustment, error) {
	adjs, err := a.repo.ListAdjustments(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list adjustments: %w", err)
	}
	return adjs, nil
}

func (a *App) validatePreference(pref models.UserPreference) error {
	if pref.SessionID == "" {
		return fmt.Errorf("%w: session id required", ErrInvalidPreference)
	}
	if pref.FavoriteMultiplier <= 0 {
		return fmt.Errorf("%w: favorite multiplier %f must be positive", ErrInvalidPreference, pref.FavoriteMultiplier)
	}
	if pref.HatedMultiplier <= 0 {
		return fmt.Errorf("%w: hated multiplier %f must be positive", ErrInvalidPreference, pref.HatedMultiplier)
	}
	if !models.ValidStrategy(pref.Strategy) {
		return fmt.Errorf("%w: unknown strategy %q", ErrInvalidPreference, pref.Strategy)
	}
	if pref.CVWeight < 0 {
		return fmt.Errorf("%w: cv weight %f must be non-negative", ErrInvalidPreference, pref.CVWeight)
	}
	for _, team := range append(append([]string{}, pref.FavoriteTeams...), pref.HatedTeams...) {
		if !models.ValidTeamCode(team) {
			return fmt.Errorf("%w: unknown team code %q", ErrInvalidPreference, team)
		}
	}
	return nil
}

func (a *App) validateAdjustment(adj models.PlayerAdjustment) error {
	if adj.SessionID == "" {
		return fmt.Errorf("%w: session id required", ErrInvalidPreference)
	}
	if adj.PlayerID == uuid.Nil {
		return fmt.Errorf("%w: player id required", ErrInvalidPreference)
	}
	if adj.BiasMultiplier <= 0 {
		return fmt.Errorf("%w: bias multiplier %f must be positive", ErrInvalidPreference, adj.BiasMultiplier)
	}
	if adj.MustDraft && adj.AvoidPlayer {
		return fmt.Errorf("player %s: %w", adj.PlayerID, rankings.ErrConflictingOverride)
	}
	if adj.NewsImpactScore < -1 || adj.NewsImpactScore > 1 {
		return fmt.Errorf("%w: news impact score %f outside [-1, 1]", ErrInvalidPreference, adj.NewsImpactScore)
	}
	return nil
}
