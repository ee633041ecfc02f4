package draft

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jgreenfield/alfred/go/internal/draft/events"
	"github.com/jgreenfield/alfred/go/internal/draft/outbox"
	"github.com/jgreenfield/alfred/go/internal/draft/repository"
	"github.com/jgreenfield/alfred/go/internal/models"
)

// fakeDraftRepo is an in-memory DraftRepository.
type fakeDraftRepo struct {
	drafts map[uuid.UUID]*models.Draft
	teams  map[uuid.UUID][]models.DraftTeam
	picks  map[uuid.UUID][]models.DraftPick
	events []outbox.Event

	recordPickErr error
}

func newFakeDraftRepo() *fakeDraftRepo {
	return &fakeDraftRepo{
		drafts: make(map[uuid.UUID]*models.Draft),
		teams:  make(map[uuid.UUID][]models.DraftTeam),
		picks:  make(map[uuid.UUID][]models.DraftPick),
	}
}

func (f *fakeDraftRepo) CreateDraft(ctx context.Context, req repository.CreateDraftRequest) (*models.Draft, error) {
	d := &models.Draft{
		ID:             uuid.New(),
		Name:           req.Name,
		TeamCount:      req.TeamCount,
		Rounds:         req.Rounds,
		Snake:          req.Snake,
		TimePerPickSec: req.TimePerPickSec,
		Status:         models.DraftStatusNotStarted,
	}
	f.drafts[d.ID] = d
	return d, nil
}

func (f *fakeDraftRepo) GetDraft(ctx context.Context, id uuid.UUID) (*models.Draft, error) {
	d, ok := f.drafts[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	out := *d
	return &out, nil
}

func (f *fakeDraftRepo) UpdateDraftStatus(ctx context.Context, id uuid.UUID, req repository.UpdateDraftStatusRequest, at time.Time) (*models.Draft, error) {
	d, ok := f.drafts[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	d.Status = req.Status
	switch req.Status {
	case models.DraftStatusInProgress:
		d.StartedAt = &at
	case models.DraftStatusCompleted, models.DraftStatusCancelled:
		d.CompletedAt = &at
	}
	f.events = append(f.events, req.Events...)
	out := *d
	return &out, nil
}

func (f *fakeDraftRepo) CreateTeam(ctx context.Context, req repository.RegisterTeamRequest) (*models.DraftTeam, error) {
	for _, t := range f.teams[req.DraftID] {
		if t.TeamNumber == req.TeamNumber || t.DraftPosition == req.DraftPosition {
			return nil, &pgconn.PgError{Code: "23505"}
		}
	}
	team := models.DraftTeam{
		ID:            uuid.New(),
		DraftID:       req.DraftID,
		TeamNumber:    req.TeamNumber,
		DraftPosition: req.DraftPosition,
		Name:          req.Name,
		OwnerIdentity: req.OwnerIdentity,
	}
	f.teams[req.DraftID] = append(f.teams[req.DraftID], team)
	return &team, nil
}

func (f *fakeDraftRepo) ListTeams(ctx context.Context, draftID uuid.UUID) ([]models.DraftTeam, error) {
	return f.teams[draftID], nil
}

func (f *fakeDraftRepo) BindOwner(ctx context.Context, teamID uuid.UUID, identity string) error {
	for draftID, teams := range f.teams {
		for i, t := range teams {
			if t.ID == teamID {
				f.teams[draftID][i].OwnerIdentity = &identity
				return nil
			}
		}
	}
	return fmt.Errorf("team %s not found", teamID)
}

func (f *fakeDraftRepo) CountPicks(ctx context.Context, draftID uuid.UUID) (int, error) {
	return len(f.picks[draftID]), nil
}

func (f *fakeDraftRepo) ListPicks(ctx context.Context, draftID uuid.UUID) ([]models.DraftPick, error) {
	return f.picks[draftID], nil
}

func (f *fakeDraftRepo) RecordPick(ctx context.Context, req repository.RecordPickRequest, at time.Time) error {
	if f.recordPickErr != nil {
		return f.recordPickErr
	}
	f.picks[req.Pick.DraftID] = append(f.picks[req.Pick.DraftID], req.Pick)
	if req.CompleteDraft {
		f.drafts[req.Pick.DraftID].Status = models.DraftStatusCompleted
	}
	f.events = append(f.events, req.Events...)
	return nil
}

func (f *fakeDraftRepo) eventTypes() []string {
	var types []string
	for _, ev := range f.events {
		types = append(types, ev.EventType)
	}
	return types
}

// startedDraft builds an IN_PROGRESS draft with a full seat permutation.
func startedDraft(t *testing.T, app *App, repo *fakeDraftRepo, teamCount, rounds int) *models.Draft {
	t.Helper()

	ctx := context.Background()
	d, err := app.CreateDraft(ctx, repository.CreateDraftRequest{
		Name:      "test draft",
		TeamCount: teamCount,
		Rounds:    rounds,
		Snake:     true,
	})
	require.NoError(t, err)

	for i := 1; i <= teamCount; i++ {
		_, err := app.RegisterTeam(ctx, repository.RegisterTeamRequest{
			DraftID:       d.ID,
			TeamNumber:    i,
			DraftPosition: i,
			Name:          fmt.Sprintf("Team %d", i),
		})
		require.NoError(t, err)
	}

	started, err := app.StartDraft(ctx, d.ID)
	require.NoError(t, err)
	return started
}

func TestCreateDraftValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		req     repository.CreateDraftRequest
		wantErr error
	}{
		{
			name: "valid",
			req:  repository.CreateDraftRequest{Name: "ok", TeamCount: 10, Rounds: 16, Snake: true},
		},
		{
			name:    "missing name",
			req:     repository.CreateDraftRequest{TeamCount: 10, Rounds: 16},
			wantErr: ErrInvalidConfig,
		},
		{
			name:    "one team",
			req:     repository.CreateDraftRequest{Name: "x", TeamCount: 1, Rounds: 16},
			wantErr: ErrInvalidConfig,
		},
		{
			name:    "zero rounds",
			req:     repository.CreateDraftRequest{Name: "x", TeamCount: 10, Rounds: 0},
			wantErr: ErrInvalidConfig,
		},
		{
			name:    "negative pick clock",
			req:     repository.CreateDraftRequest{Name: "x", TeamCount: 10, Rounds: 16, TimePerPickSec: -1},
			wantErr: ErrInvalidConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			app := NewApp(newFakeDraftRepo(), clockwork.NewFakeClock())
			d, err := app.CreateDraft(context.Background(), tt.req)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, models.DraftStatusNotStarted, d.Status)
		})
	}
}

func TestStartDraftRequiresFullSeatPermutation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := newFakeDraftRepo()
	app := NewApp(repo, clockwork.NewFakeClock())

	d, err := app.CreateDraft(ctx, repository.CreateDraftRequest{Name: "x", TeamCount: 4, Rounds: 2, Snake: true})
	require.NoError(t, err)

	// Only two of four seats filled.
	for i := 1; i <= 2; i++ {
		_, err := app.RegisterTeam(ctx, repository.RegisterTeamRequest{
			DraftID: d.ID, TeamNumber: i, DraftPosition: i, Name: fmt.Sprintf("Team %d", i),
		})
		require.NoError(t, err)
	}

	_, err = app.StartDraft(ctx, d.ID)
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestStartDraftEmitsEventAndTransitions(t *testing.T) {
	t.Parallel()

	repo := newFakeDraftRepo()
	app := NewApp(repo, clockwork.NewFakeClock())

	d := startedDraft(t, app, repo, 4, 2)

	assert.Equal(t, models.DraftStatusInProgress, d.Status)
	require.NotNil(t, d.StartedAt)
	assert.Equal(t, []string{events.TypeDraftStarted}, repo.eventTypes())

	// Starting twice is an invalid transition.
	_, err := app.StartDraft(context.Background(), d.ID)
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestRegisterTeamAfterStartRejected(t *testing.T) {
	t.Parallel()

	repo := newFakeDraftRepo()
	app := NewApp(repo, clockwork.NewFakeClock())
	d := startedDraft(t, app, repo, 2, 1)

	_, err := app.RegisterTeam(context.Background(), repository.RegisterTeamRequest{
		DraftID: d.ID, TeamNumber: 1, DraftPosition: 1, Name: "late",
	})
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestMakePick(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := newFakeDraftRepo()
	app := NewApp(repo, clockwork.NewFakeClock())
	d := startedDraft(t, app, repo, 2, 2)

	teams := repo.teams[d.ID]

	pick, err := app.MakePick(ctx, d.ID, RawPick{Slot: 1, PlayerID: uuid.New()})
	require.NoError(t, err)
	assert.Equal(t, 1, pick.PickNumber)
	assert.Equal(t, 1, pick.Round)
	assert.Equal(t, teams[0].ID, pick.TeamID)

	turn, err := app.CurrentTurn(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, turn.PickNumber)
	assert.Equal(t, Seat(2), turn.Seat)
	assert.Equal(t, teams[1].ID, turn.TeamID)
}

func TestMakePickCompletesDraft(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := newFakeDraftRepo()
	app := NewApp(repo, clockwork.NewFakeClock())
	d := startedDraft(t, app, repo, 2, 1)

	_, err := app.MakePick(ctx, d.ID, RawPick{Slot: 1, PlayerID: uuid.New()})
	require.NoError(t, err)
	_, err = app.MakePick(ctx, d.ID, RawPick{Slot: 2, PlayerID: uuid.New()})
	require.NoError(t, err)

	got, err := app.GetDraft(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DraftStatusCompleted, got.Status)
	assert.Equal(t, []string{
		events.TypeDraftStarted,
		events.TypePickMade,
		events.TypePickMade,
		events.TypeDraftCompleted,
	}, repo.eventTypes())

	// The draft is done; further picks and turns are terminal.
	_, err = app.MakePick(ctx, d.ID, RawPick{Slot: 1, PlayerID: uuid.New()})
	require.ErrorIs(t, err, ErrDraftComplete)
	_, err = app.CurrentTurn(ctx, d.ID)
	require.ErrorIs(t, err, ErrDraftComplete)
}

func TestMakePickValidation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := newFakeDraftRepo()
	app := NewApp(repo, clockwork.NewFakeClock())
	d := startedDraft(t, app, repo, 2, 2)

	t.Run("missing player id", func(t *testing.T) {
		_, err := app.MakePick(ctx, d.ID, RawPick{Slot: 1})
		require.ErrorIs(t, err, ErrMalformedPick)
	})

	t.Run("slot out of range", func(t *testing.T) {
		_, err := app.MakePick(ctx, d.ID, RawPick{Slot: 3, PlayerID: uuid.New()})
		require.ErrorIs(t, err, ErrMalformedPick)
	})

	t.Run("unknown draft", func(t *testing.T) {
		_, err := app.MakePick(ctx, uuid.New(), RawPick{Slot: 1, PlayerID: uuid.New()})
		require.ErrorIs(t, err, ErrDraftNotFound)
	})
}

func TestMakePickOffTurnSeatRejected(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := newFakeDraftRepo()
	app := NewApp(repo, clockwork.NewFakeClock())
	d := startedDraft(t, app, repo, 2, 2)

	// Seat 1 is on the clock; an observation from seat 2 is out of sync
	// and must not be recorded against the on-clock pick number.
	_, err := app.MakePick(ctx, d.ID, RawPick{Slot: 2, PlayerID: uuid.New()})
	require.ErrorIs(t, err, ErrMalformedPick)
	assert.Empty(t, repo.picks[d.ID])

	_, err = app.MakePick(ctx, d.ID, RawPick{Slot: 1, PlayerID: uuid.New()})
	require.NoError(t, err)

	// The clock has moved to seat 2; seat 1 is now the off-turn one.
	_, err = app.MakePick(ctx, d.ID, RawPick{Slot: 1, PlayerID: uuid.New()})
	require.ErrorIs(t, err, ErrMalformedPick)

	_, err = app.MakePick(ctx, d.ID, RawPick{Slot: 2, PlayerID: uuid.New()})
	require.NoError(t, err)

	// Round two snakes, so seat 2 picks back to back.
	turn, err := app.CurrentTurn(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, Seat(2), turn.Seat)
}

func TestMakePickBeforeStartRejected(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := newFakeDraftRepo()
	app := NewApp(repo, clockwork.NewFakeClock())

	d, err := app.CreateDraft(ctx, repository.CreateDraftRequest{Name: "x", TeamCount: 2, Rounds: 1, Snake: true})
	require.NoError(t, err)

	_, err = app.MakePick(ctx, d.ID, RawPick{Slot: 1, PlayerID: uuid.New()})
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestMakePickLostRaceSurfacesConflict(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := newFakeDraftRepo()
	app := NewApp(repo, clockwork.NewFakeClock())
	d := startedDraft(t, app, repo, 2, 2)

	repo.recordPickErr = &pgconn.PgError{Code: "23505"}

	_, err := app.MakePick(ctx, d.ID, RawPick{Slot: 1, PlayerID: uuid.New()})
	require.ErrorIs(t, err, ErrPickConflict)
}

func TestBindParticipant(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	setup := func(t *testing.T, owners []*string) (*App, *fakeDraftRepo, uuid.UUID) {
		t.Helper()
		repo := newFakeDraftRepo()
		app := NewApp(repo, clockwork.NewFakeClock())
		d, err := app.CreateDraft(ctx, repository.CreateDraftRequest{Name: "x", TeamCount: len(owners), Rounds: 1, Snake: true})
		require.NoError(t, err)
		for i, owner := range owners {
			_, err := app.RegisterTeam(ctx, repository.RegisterTeamRequest{
				DraftID: d.ID, TeamNumber: i + 1, DraftPosition: i + 1,
				Name: fmt.Sprintf("Team %d", i+1), OwnerIdentity: owner,
			})
			require.NoError(t, err)
		}
		return app, repo, d.ID
	}

	owner := func(s string) *string { return &s }

	t.Run("exact match wins", func(t *testing.T) {
		t.Parallel()

		app, _, draftID := setup(t, []*string{owner("alice"), owner("bob")})
		team, err := app.BindParticipant(ctx, draftID, "bob")
		require.NoError(t, err)
		assert.Equal(t, 2, team.TeamNumber)
	})

	t.Run("single unbound team auto-binds", func(t *testing.T) {
		t.Parallel()

		app, repo, draftID := setup(t, []*string{owner("alice"), nil})
		team, err := app.BindParticipant(ctx, draftID, "carol")
		require.NoError(t, err)
		assert.Equal(t, 2, team.TeamNumber)
		require.NotNil(t, repo.teams[draftID][1].OwnerIdentity)
		assert.Equal(t, "carol", *repo.teams[draftID][1].OwnerIdentity)
	})

	t.Run("multiple unbound teams is ambiguous", func(t *testing.T) {
		t.Parallel()

		app, _, draftID := setup(t, []*string{nil, nil})
		_, err := app.BindParticipant(ctx, draftID, "carol")
		require.ErrorIs(t, err, ErrAmbiguousIdentity)
	})

	t.Run("no unbound teams is ambiguous", func(t *testing.T) {
		t.Parallel()

		app, _, draftID := setup(t, []*string{owner("alice"), owner("bob")})
		_, err := app.BindParticipant(ctx, draftID, "carol")
		require.ErrorIs(t, err, ErrAmbiguousIdentity)
	})

	t.Run("empty identity rejected", func(t *testing.T) {
		t.Parallel()

		app, _, draftID := setup(t, []*string{owner("alice"), nil})
		_, err := app.BindParticipant(ctx, draftID, "")
		require.ErrorIs(t, err, ErrAmbiguousIdentity)
	})
}

func TestCancelDraft(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := newFakeDraftRepo()
	app := NewApp(repo, clockwork.NewFakeClock())
	d := startedDraft(t, app, repo, 2, 1)

	cancelled, err := app.CancelDraft(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DraftStatusCancelled, cancelled.Status)

	// Terminal states accept no further transitions.
	_, err = app.StartDraft(ctx, d.ID)
	require.ErrorIs(t, err, ErrInvalidTransition)
}
