package rankings

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jgreenfield/alfred/go/internal/draft/events"
	"github.com/jgreenfield/alfred/go/internal/draft/outbox"
	"github.com/jgreenfield/alfred/go/internal/models"
)

// fakeSnapshotRepo is an in-memory SnapshotRepository.
type fakeSnapshotRepo struct {
	pool      []PoolPlayer
	snapshots map[string][]models.AdjustedRanking
	events    []outbox.Event

	undraftedSnapshot  []models.PlayerRanked
	undraftedConsensus []models.PlayerRanked
	snapshotQueries    int
	consensusQueries   int
}

func newFakeSnapshotRepo(pool []PoolPlayer) *fakeSnapshotRepo {
	return &fakeSnapshotRepo{
		pool:      pool,
		snapshots: make(map[string][]models.AdjustedRanking),
	}
}

func (f *fakeSnapshotRepo) LoadPool(ctx context.Context) ([]PoolPlayer, error) {
	return f.pool, nil
}

func (f *fakeSnapshotRepo) ReplaceSnapshot(ctx context.Context, sessionID string, rows []models.AdjustedRanking, events []outbox.Event) error {
	f.snapshots[sessionID] = rows
	f.events = append(f.events, events...)
	return nil
}

func (f *fakeSnapshotRepo) HasSnapshot(ctx context.Context, sessionID string) (bool, error) {
	return len(f.snapshots[sessionID]) > 0, nil
}

func (f *fakeSnapshotRepo) GetSnapshot(ctx context.Context, sessionID string) ([]models.AdjustedRanking, error) {
	return f.snapshots[sessionID], nil
}

func (f *fakeSnapshotRepo) UndraftedBySnapshot(ctx context.Context, draftID uuid.UUID, sessionID string) ([]models.PlayerRanked, error) {
	f.snapshotQueries++
	return f.undraftedSnapshot, nil
}

func (f *fakeSnapshotRepo) UndraftedByConsensus(ctx context.Context, draftID uuid.UUID) ([]models.PlayerRanked, error) {
	f.consensusQueries++
	return f.undraftedConsensus, nil
}

// fakePrefStore is an in-memory PreferenceStore.
type fakePrefStore struct {
	prefs       map[string]*models.UserPreference
	adjustments map[string][]models.PlayerAdjustment
}

func newFakePrefStore() *fakePrefStore {
	return &fakePrefStore{
		prefs:       make(map[string]*models.UserPreference),
		adjustments: make(map[string][]models.PlayerAdjustment),
	}
}

func (f *fakePrefStore) GetPreferences(ctx context.Context, sessionID string) (*models.UserPreference, error) {
	return f.prefs[sessionID], nil
}

func (f *fakePrefStore) ListAdjustments(ctx context.Context, sessionID string) ([]models.PlayerAdjustment, error) {
	return f.adjustments[sessionID], nil
}

func TestAppRecompute(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	pool := []PoolPlayer{
		poolPlayer("One Back", "KC", 10),
		poolPlayer("Two Back", "DAL", 20),
	}
	repo := newFakeSnapshotRepo(pool)
	prefStore := newFakePrefStore()
	prefStore.prefs["s1"] = &models.UserPreference{
		SessionID:          "s1",
		FavoriteTeams:      []string{"KC"},
		FavoriteMultiplier: 1.2,
		HatedMultiplier:    0.8,
		Strategy:           models.StrategyBalanced,
		CVWeight:           1.0,
	}

	app := NewApp(repo, prefStore, clockwork.NewFakeClock())

	count, err := app.Recompute(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	rows := repo.snapshots["s1"]
	require.Len(t, rows, 2)
	assert.InDelta(t, 12.0, rowFor(t, rows, pool[0].Player.ID).AdjustedADP, 1e-9)

	require.Len(t, repo.events, 1)
	assert.Equal(t, events.TypeRankingsRecomputed, repo.events[0].EventType)
}

func TestAppRecomputeMissingSessionUsesDefaults(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	pool := []PoolPlayer{poolPlayer("One Back", "KC", 10)}
	repo := newFakeSnapshotRepo(pool)

	app := NewApp(repo, newFakePrefStore(), clockwork.NewFakeClock())

	count, err := app.Recompute(ctx, "fresh-session")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	rows := repo.snapshots["fresh-session"]
	require.Len(t, rows, 1)
	// No stored preferences: every stage neutral.
	assert.InDelta(t, 10.0, rows[0].AdjustedADP, 1e-9)
	assert.Equal(t, "fresh-session", rows[0].SessionID)
}

func TestAppRecomputeRequiresSession(t *testing.T) {
	t.Parallel()

	app := NewApp(newFakeSnapshotRepo(nil), newFakePrefStore(), clockwork.NewFakeClock())
	_, err := app.Recompute(context.Background(), "")
	require.ErrorIs(t, err, ErrSessionRequired)
}

func TestAppUndrafted(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	draftID := uuid.New()

	t.Run("uses snapshot when one exists", func(t *testing.T) {
		t.Parallel()

		repo := newFakeSnapshotRepo(nil)
		repo.snapshots["s1"] = []models.AdjustedRanking{{SessionID: "s1"}}
		repo.undraftedSnapshot = []models.PlayerRanked{
			{PlayerID: uuid.New(), Name: "A"},
			{PlayerID: uuid.New(), Name: "B"},
		}
		app := NewApp(repo, newFakePrefStore(), clockwork.NewFakeClock())

		players, err := app.Undrafted(ctx, draftID, "s1")
		require.NoError(t, err)
		assert.Equal(t, 1, repo.snapshotQueries)
		assert.Equal(t, 0, repo.consensusQueries)

		// Ranks renumber over the remaining players.
		require.Len(t, players, 2)
		assert.Equal(t, 1, players[0].Rank)
		assert.Equal(t, 2, players[1].Rank)
	})

	t.Run("falls back to consensus without a snapshot", func(t *testing.T) {
		t.Parallel()

		repo := newFakeSnapshotRepo(nil)
		repo.undraftedConsensus = []models.PlayerRanked{{PlayerID: uuid.New(), Name: "C"}}
		app := NewApp(repo, newFakePrefStore(), clockwork.NewFakeClock())

		players, err := app.Undrafted(ctx, draftID, "s1")
		require.NoError(t, err)
		assert.Equal(t, 0, repo.snapshotQueries)
		assert.Equal(t, 1, repo.consensusQueries)
		require.Len(t, players, 1)
		assert.Equal(t, 1, players[0].Rank)
	})

	t.Run("empty session goes straight to consensus", func(t *testing.T) {
		t.Parallel()

		repo := newFakeSnapshotRepo(nil)
		app := NewApp(repo, newFakePrefStore(), clockwork.NewFakeClock())

		_, err := app.Undrafted(ctx, draftID, "")
		require.NoError(t, err)
		assert.Equal(t, 1, repo.consensusQueries)
	})
}
