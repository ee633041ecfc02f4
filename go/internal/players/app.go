package players

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/jgreenfield/alfred/go/internal/models"
)

// ErrInvalidPlayer indicates player input that fails validation.
var ErrInvalidPlayer = errors.New("invalid player")

const defaultSearchLimit = 25

// PlayersRepository defines what the app layer needs from the repository
type PlayersRepository interface {
	GetPlayer(ctx context.Context, id uuid.UUID) (*models.Player, error)
	SearchByName(ctx context.Context, query string, limit int) ([]models.Player, error)
	UpsertPlayer(ctx context.Context, p models.Player) (*models.Player, error)
	UpsertConsensus(ctx context.Context, c models.ConsensusRanking, at time.Time) error
	ListConsensus(ctx context.Context, playerID uuid.UUID) ([]models.ConsensusRanking, error)
}

// App handles player pool business logic
type App struct {
	repo  PlayersRepository
	clock clockwork.Clock
}

// NewApp creates a new players App
func NewApp(repo PlayersRepository, clock clockwork.Clock) *App {
	return &App{
		repo:  repo,
		clock: clock,
	}
}

// GetPlayer retrieves a player by ID.
func (a *App) GetPlayer(ctx context.Context, id uuid.UUID) (*models.Player, error) {
	player, err := a.repo.GetPlayer(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}
	return player, nil
}

// SearchByName finds active players matching a name fragment.
func (a *App) SearchByName(ctx context.Context, query string) ([]models.Player, error) {
	if query == "" {
		return nil, fmt.Errorf("%w: empty search query", ErrInvalidPlayer)
	}
	players, err := a.repo.SearchByName(ctx, query, defaultSearchLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to search players: %w", err)
	}
	return players, nil
}

// SeedPlayer validates and upserts one player into the pool.
func (a *App) SeedPlayer(ctx context.Context, p models.Player) (*models.Player, error) {
	if p.Name == "" {
		return nil, fmt.Errorf("%w: name required", ErrInvalidPlayer)
	}
	if !models.ValidPosition(p.Position) {
		return nil, fmt.Errorf("%w: unknown position %q", ErrInvalidPlayer, p.Position)
	}
	if p.Team == "" {
		p.Team = models.TeamFreeAgent
	}
	if !models.ValidTeamCode(p.Team) {
		return nil, fmt.Errorf("%w: unknown team code %q", ErrInvalidPlayer, p.Team)
	}

	stored, err := a.repo.UpsertPlayer(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("failed to seed player: %w", err)
	}
	return stored, nil
}

// SeedConsensus validates and upserts one source's ADP value.
func (a *App) SeedConsensus(ctx context.Context, c models.ConsensusRanking) error {
	if c.PlayerID == uuid.Nil {
		return fmt.Errorf("%w: player id required", ErrInvalidPlayer)
	}
	if c.Source == "" {
		return fmt.Errorf("%w: source required", ErrInvalidPlayer)
	}
	if c.ADP <= 0 {
		return fmt.Errorf("%w: adp %f must be positive", ErrInvalidPlayer, c.ADP)
	}

	if err := a.repo.UpsertConsensus(ctx, c, a.clock.Now().UTC()); err != nil {
		return fmt.Errorf("failed to seed consensus: %w", err)
	}

	log.Debug().
		Str("player_id", c.PlayerID.String()).
		Str("source", c.Source).
		Float64("adp", c.ADP).
		Msg("seeded consensus value")
	return nil
}

// ListConsensus returns a player's per-source consensus values.
func (a *App) ListConsensus(ctx context.Context, playerID uuid.UUID) ([]models.ConsensusRanking, error) {
	rows, err := a.repo.ListConsensus(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list consensus: %w", err)
	}
	return rows, nil
}
