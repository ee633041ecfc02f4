package draft

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/jgreenfield/alfred/go/internal/draft/events"
	"github.com/jgreenfield/alfred/go/internal/draft/outbox"
	"github.com/jgreenfield/alfred/go/internal/draft/repository"
	"github.com/jgreenfield/alfred/go/internal/models"
	"github.com/jgreenfield/alfred/go/internal/sqlutil"
)

// DraftRepository defines what the app layer needs from the repository
type DraftRepository interface {
	CreateDraft(ctx context.Context, req repository.CreateDraftRequest) (*models.Draft, error)
	GetDraft(ctx context.Context, id uuid.UUID) (*models.Draft, error)
	UpdateDraftStatus(ctx context.Context, id uuid.UUID, req repository.UpdateDraftStatusRequest, at time.Time) (*models.Draft, error)
	CreateTeam(ctx context.Context, req repository.RegisterTeamRequest) (*models.DraftTeam, error)
	ListTeams(ctx context.Context, draftID uuid.UUID) ([]models.DraftTeam, error)
	BindOwner(ctx context.Context, teamID uuid.UUID, identity string) error
	CountPicks(ctx context.Context, draftID uuid.UUID) (int, error)
	ListPicks(ctx context.Context, draftID uuid.UUID) ([]models.DraftPick, error)
	RecordPick(ctx context.Context, req repository.RecordPickRequest, at time.Time) error
}

// App handles draft business logic
type App struct {
	repo  DraftRepository
	clock clockwork.Clock
}

// NewApp creates a new draft App
func NewApp(repo DraftRepository, clock clockwork.Clock) *App {
	return &App{
		repo:  repo,
		clock: clock,
	}
}

// OnClock is the current turn with its team resolved through the seat map.
type OnClock struct {
	Turn
	TeamID uuid.UUID
}

// CreateDraft creates a new draft with validation.
func (a *App) CreateDraft(ctx context.Context, req repository.CreateDraftRequest) (*models.Draft, error) {
	if err := a.validateCreateDraftRequest(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	draft, err := a.repo.CreateDraft(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create draft: %w", err)
	}

	log.Info().
		Str("draft_id", draft.ID.String()).
		Int("team_count", draft.TeamCount).
		Int("rounds", draft.Rounds).
		Msg("created draft")
	return draft, nil
}

// GetDraft retrieves a draft by ID.
func (a *App) GetDraft(ctx context.Context, id uuid.UUID) (*models.Draft, error) {
	draft, err := a.repo.GetDraft(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrDraftNotFound, id)
		}
		return nil, fmt.Errorf("failed to get draft: %w", err)
	}
	return draft, nil
}

// RegisterTeam adds a team to a draft before it starts.
func (a *App) RegisterTeam(ctx context.Context, req repository.RegisterTeamRequest) (*models.DraftTeam, error) {
	draft, err := a.GetDraft(ctx, req.DraftID)
	if err != nil {
		return nil, err
	}
	if draft.Status != models.DraftStatusNotStarted {
		return nil, fmt.Errorf("%w: cannot register teams in status %s", ErrInvalidTransition, draft.Status)
	}
	if req.Name == "" {
		return nil, fmt.Errorf("%w: team name required", ErrInvalidConfig)
	}
	if req.TeamNumber < 1 || req.TeamNumber > draft.TeamCount {
		return nil, fmt.Errorf("%w: team number %d out of range [1, %d]", ErrInvalidConfig, req.TeamNumber, draft.TeamCount)
	}
	if req.DraftPosition < 1 || req.DraftPosition > draft.TeamCount {
		return nil, fmt.Errorf("%w: draft position %d out of range [1, %d]", ErrInvalidConfig, req.DraftPosition, draft.TeamCount)
	}

	team, err := a.repo.CreateTeam(ctx, req)
	if err != nil {
		if sqlutil.IsUniqueViolation(err) {
			return nil, fmt.Errorf("%w: team number or draft position already taken", ErrInvalidConfig)
		}
		return nil, fmt.Errorf("failed to register team: %w", err)
	}

	log.Info().
		Str("draft_id", req.DraftID.String()).
		Int("team_number", req.TeamNumber).
		Int("draft_position", req.DraftPosition).
		Msg("registered draft team")
	return team, nil
}

// StartDraft moves a draft to IN_PROGRESS. Requires every seat filled.
func (a *App) StartDraft(ctx context.Context, draftID uuid.UUID) (*models.Draft, error) {
	draft, err := a.GetDraft(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if err := a.validateStatusTransition(draft.Status, models.DraftStatusInProgress); err != nil {
		return nil, err
	}

	teams, err := a.repo.ListTeams(ctx, draftID)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	if _, err := NewSeatMap(draft.TeamCount, teams); err != nil {
		return nil, err
	}

	now := a.clock.Now().UTC()
	ev, err := outbox.NewEvent(draftID, events.TypeDraftStarted, events.DraftStartedPayload{
		DraftID:    draftID.String(),
		Name:       draft.Name,
		TeamCount:  draft.TeamCount,
		Rounds:     draft.Rounds,
		TotalPicks: draft.TotalPicks(),
		StartedAt:  now,
	}, now)
	if err != nil {
		return nil, err
	}

	updated, err := a.repo.UpdateDraftStatus(ctx, draftID, repository.UpdateDraftStatusRequest{
		Status: models.DraftStatusInProgress,
		Events: []outbox.Event{ev},
	}, now)
	if err != nil {
		return nil, fmt.Errorf("failed to start draft: %w", err)
	}

	log.Info().Str("draft_id", draftID.String()).Msg("started draft")
	return updated, nil
}

// CancelDraft abandons a draft that has not completed.
func (a *App) CancelDraft(ctx context.Context, draftID uuid.UUID) (*models.Draft, error) {
	draft, err := a.GetDraft(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if err := a.validateStatusTransition(draft.Status, models.DraftStatusCancelled); err != nil {
		return nil, err
	}

	updated, err := a.repo.UpdateDraftStatus(ctx, draftID, repository.UpdateDraftStatusRequest{
		Status: models.DraftStatusCancelled,
	}, a.clock.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to cancel draft: %w", err)
	}

	log.Info().Str("draft_id", draftID.String()).Msg("cancelled draft")
	return updated, nil
}

// CurrentTurn reports whose pick is on the clock.
func (a *App) CurrentTurn(ctx context.Context, draftID uuid.UUID) (OnClock, error) {
	draft, err := a.GetDraft(ctx, draftID)
	if err != nil {
		return OnClock{}, err
	}
	if draft.Status == models.DraftStatusCompleted {
		return OnClock{}, ErrDraftComplete
	}
	if draft.Status != models.DraftStatusInProgress {
		return OnClock{}, fmt.Errorf("%w: draft is %s", ErrInvalidTransition, draft.Status)
	}

	teams, err := a.repo.ListTeams(ctx, draftID)
	if err != nil {
		return OnClock{}, fmt.Errorf("failed to list teams: %w", err)
	}
	seats, err := NewSeatMap(draft.TeamCount, teams)
	if err != nil {
		return OnClock{}, err
	}

	pickCount, err := a.repo.CountPicks(ctx, draftID)
	if err != nil {
		return OnClock{}, fmt.Errorf("failed to count picks: %w", err)
	}

	turn, err := ComputeTurn(ConfigFromDraft(draft), pickCount)
	if err != nil {
		return OnClock{}, err
	}
	teamID, err := seats.Team(turn.Seat)
	if err != nil {
		return OnClock{}, err
	}
	return OnClock{Turn: turn, TeamID: teamID}, nil
}

// MakePick records an observed pick. The pick number is assigned from the
// current count; losing the race to another writer returns ErrPickConflict,
// which the caller may retry after the count catches up.
func (a *App) MakePick(ctx context.Context, draftID uuid.UUID, raw RawPick) (*models.DraftPick, error) {
	draft, err := a.GetDraft(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if draft.Status == models.DraftStatusCompleted {
		return nil, ErrDraftComplete
	}
	if draft.Status != models.DraftStatusInProgress {
		return nil, fmt.Errorf("%w: draft is %s", ErrInvalidTransition, draft.Status)
	}
	if raw.PlayerID == uuid.Nil {
		return nil, fmt.Errorf("%w: player id required", ErrMalformedPick)
	}

	teams, err := a.repo.ListTeams(ctx, draftID)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	seats, err := NewSeatMap(draft.TeamCount, teams)
	if err != nil {
		return nil, err
	}

	teamID, err := ResolvePickTeam(seats, raw)
	if err != nil {
		return nil, err
	}

	pickCount, err := a.repo.CountPicks(ctx, draftID)
	if err != nil {
		return nil, fmt.Errorf("failed to count picks: %w", err)
	}

	turn, err := ComputeTurn(ConfigFromDraft(draft), pickCount)
	if err != nil {
		return nil, err
	}
	// An observation from any seat but the on-clock one means the room feed
	// is out of sync; recording it would break the snake order in the log.
	if Seat(raw.Slot) != turn.Seat {
		return nil, fmt.Errorf("%w: slot %d reported while seat %d is on the clock", ErrMalformedPick, raw.Slot, turn.Seat)
	}

	now := a.clock.Now().UTC()
	playerID := raw.PlayerID
	pick := models.DraftPick{
		ID:         uuid.New(),
		DraftID:    draftID,
		PickNumber: turn.PickNumber,
		Round:      turn.Round,
		DraftSlot:  raw.Slot,
		TeamID:     teamID,
		PlayerID:   &playerID,
		PickedAt:   now,
	}

	complete := turn.PickNumber == draft.TotalPicks()
	evs, err := a.pickEvents(draft, pick, complete, now)
	if err != nil {
		return nil, err
	}

	err = a.repo.RecordPick(ctx, repository.RecordPickRequest{
		Pick:          pick,
		CompleteDraft: complete,
		Events:        evs,
	}, now)
	if err != nil {
		if sqlutil.IsUniqueViolation(err) {
			return nil, fmt.Errorf("%w: pick %d", ErrPickConflict, turn.PickNumber)
		}
		return nil, fmt.Errorf("failed to record pick: %w", err)
	}

	log.Info().
		Str("draft_id", draftID.String()).
		Int("pick_number", pick.PickNumber).
		Int("round", pick.Round).
		Str("team_id", teamID.String()).
		Str("player_id", playerID.String()).
		Msg("recorded pick")
	return &pick, nil
}

func (a *App) pickEvents(draft *models.Draft, pick models.DraftPick, complete bool, now time.Time) ([]outbox.Event, error) {
	made, err := outbox.NewEvent(draft.ID, events.TypePickMade, events.PickMadePayload{
		PickID:     pick.ID.String(),
		DraftID:    draft.ID.String(),
		TeamID:     pick.TeamID.String(),
		PlayerID:   pick.PlayerID.String(),
		PickNumber: pick.PickNumber,
		Round:      pick.Round,
		DraftSlot:  pick.DraftSlot,
		MadeAt:     now,
	}, now)
	if err != nil {
		return nil, err
	}
	evs := []outbox.Event{made}

	if complete {
		done, err := outbox.NewEvent(draft.ID, events.TypeDraftCompleted, events.DraftCompletedPayload{
			DraftID:     draft.ID.String(),
			TotalPicks:  draft.TotalPicks(),
			CompletedAt: now,
		}, now)
		if err != nil {
			return nil, err
		}
		evs = append(evs, done)
	}
	return evs, nil
}

// BindParticipant resolves a participant identity to a team. An exact
// owner match wins; with no match, a lone unbound team auto-binds.
func (a *App) BindParticipant(ctx context.Context, draftID uuid.UUID, identity string) (*models.DraftTeam, error) {
	if identity == "" {
		return nil, fmt.Errorf("%w: empty identity", ErrAmbiguousIdentity)
	}

	teams, err := a.repo.ListTeams(ctx, draftID)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}

	var unbound []models.DraftTeam
	for _, t := range teams {
		if t.OwnerIdentity != nil {
			if *t.OwnerIdentity == identity {
				return &t, nil
			}
			continue
		}
		unbound = append(unbound, t)
	}

	if len(unbound) != 1 {
		return nil, fmt.Errorf("%w: %q matches no team and %d teams are unbound", ErrAmbiguousIdentity, identity, len(unbound))
	}

	team := unbound[0]
	if err := a.repo.BindOwner(ctx, team.ID, identity); err != nil {
		return nil, fmt.Errorf("failed to bind owner: %w", err)
	}
	team.OwnerIdentity = &identity

	log.Info().
		Str("draft_id", draftID.String()).
		Int("team_number", team.TeamNumber).
		Str("identity", identity).
		Msg("bound participant to team")
	return &team, nil
}

// ListPicks returns a draft's pick log in order.
func (a *App) ListPicks(ctx context.Context, draftID uuid.UUID) ([]models.DraftPick, error) {
	picks, err := a.repo.ListPicks(ctx, draftID)
	if err != nil {
		return nil, fmt.Errorf("failed to list picks: %w", err)
	}
	return picks, nil
}

func (a *App) validateCreateDraftRequest(req repository.CreateDraftRequest) error {
	if req.Name == "" {
		return fmt.Errorf("%w: name required", ErrInvalidConfig)
	}
	if req.TeamCount < 2 {
		return fmt.Errorf("%w: team count %d", ErrInvalidConfig, req.TeamCount)
	}
	if req.Rounds < 1 {
		return fmt.Errorf("%w: rounds %d", ErrInvalidConfig, req.Rounds)
	}
	if req.TimePerPickSec < 0 {
		return fmt.Errorf("%w: time per pick %d", ErrInvalidConfig, req.TimePerPickSec)
	}
	return nil
}

// validateStatusTransition enforces the draft lifecycle.
func (a *App) validateStatusTransition(from, to models.DraftStatus) error {
	validTransitions := map[models.DraftStatus][]models.DraftStatus{
		models.DraftStatusNotStarted: {models.DraftStatusInProgress, models.DraftStatusCancelled},
		models.DraftStatusInProgress: {models.DraftStatusCompleted, models.DraftStatusCancelled},
		models.DraftStatusCompleted:  {},
		models.DraftStatusCancelled:  {},
	}

	for _, allowed := range validTransitions[from] {
		if allowed == to {
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
}
