package prefs

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jgreenfield/alfred/go/internal/models"
	"github.com/jgreenfield/alfred/go/internal/rankings"
)

type adjustmentKey struct {
	sessionID string
	playerID  uuid.UUID
}

// fakePrefsRepo is an in-memory PrefsRepository.
type fakePrefsRepo struct {
	prefs       map[string]models.UserPreference
	adjustments map[adjustmentKey]models.PlayerAdjustment
}

func newFakePrefsRepo() *fakePrefsRepo {
	return &fakePrefsRepo{
		prefs:       make(map[string]models.UserPreference),
		adjustments: make(map[adjustmentKey]models.PlayerAdjustment),
	}
}

func (f *fakePrefsRepo) GetPreferences(ctx context.Context, sessionID string) (*models.UserPreference, error) {
	pref, ok := f.prefs[sessionID]
	if !ok {
		return nil, nil
	}
	return &pref, nil
}

func (f *fakePrefsRepo) PutPreferences(ctx context.Context, pref models.UserPreference, at time.Time) (*models.UserPreference, error) {
	pref.UpdatedAt = at
	f.prefs[pref.SessionID] = pref
	return &pref, nil
}

func (f *fakePrefsRepo) GetAdjustment(ctx context.Context, sessionID string, playerID uuid.UUID) (*models.PlayerAdjustment, error) {
	adj, ok := f.adjustments[adjustmentKey{sessionID, playerID}]
	if !ok {
		return nil, nil
	}
	return &adj, nil
}

func (f *fakePrefsRepo) PutAdjustment(ctx context.Context, adj models.PlayerAdjustment, at time.Time) (*models.PlayerAdjustment, error) {
	adj.UpdatedAt = at
	f.adjustments[adjustmentKey{adj.SessionID, adj.PlayerID}] = adj
	return &adj, nil
}

func (f *fakePrefsRepo) DeleteAdjustment(ctx context.Context, sessionID string, playerID uuid.UUID) error {
	delete(f.adjustments, adjustmentKey{sessionID, playerID})
	return nil
}

func (f *fakePrefsRepo) ListAdjustments(ctx context.Context, sessionID string) ([]models.PlayerAdjustment, error) {
	var out []models.PlayerAdjustment
	for key, adj := range f.adjustments {
		if key.sessionID == sessionID {
			out = append(out, adj)
		}
	}
	return out, nil
}

func validPreference() models.UserPreference {
	return models.UserPreference{
		SessionID:          "s1",
		FavoriteTeams:      []string{"KC"},
		HatedTeams:         []string{"DAL"},
		FavoriteMultiplier: 1.2,
		HatedMultiplier:    0.8,
		Strategy:           models.StrategyConservative,
		CVWeight:           1.5,
	}
}

func TestPutPreferencesValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*models.UserPreference)
		ok     bool
	}{
		{name: "valid", mutate: func(p *models.UserPreference) {}, ok: true},
		{name: "missing session", mutate: func(p *models.UserPreference) { p.SessionID = "" }},
		{name: "zero favorite multiplier", mutate: func(p *models.UserPreference) { p.FavoriteMultiplier = 0 }},
		{name: "negative hated multiplier", mutate: func(p *models.UserPreference) { p.HatedMultiplier = -0.5 }},
		{name: "unknown strategy", mutate: func(p *models.UserPreference) { p.Strategy = "reckless" }},
		{name: "negative cv weight", mutate: func(p *models.UserPreference) { p.CVWeight = -1 }},
		{name: "bogus favorite team", mutate: func(p *models.UserPreference) { p.FavoriteTeams = []string{"XYZ"} }},
		{name: "bogus hated team", mutate: func(p *models.UserPreference) { p.HatedTeams = []string{"KANSAS"} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			app := NewApp(newFakePrefsRepo(), clockwork.NewFakeClock())
			pref := validPreference()
			tt.mutate(&pref)

			stored, err := app.PutPreferences(context.Background(), pref)
			if !tt.ok {
				require.ErrorIs(t, err, ErrInvalidPreference)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, pref.SessionID, stored.SessionID)
			assert.Equal(t, pref.Strategy, stored.Strategy)
		})
	}
}

func TestGetPreferencesFallsBackToDefaults(t *testing.T) {
	t.Parallel()

	app := NewApp(newFakePrefsRepo(), clockwork.NewFakeClock())

	pref, err := app.GetPreferences(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Equal(t, "nobody", pref.SessionID)
	assert.Equal(t, models.StrategyBalanced, pref.Strategy)
	assert.InDelta(t, models.DefaultFavoriteMultiplier, pref.FavoriteMultiplier, 1e-9)
	assert.InDelta(t, models.DefaultHatedMultiplier, pref.HatedMultiplier, 1e-9)
	assert.Empty(t, pref.FavoriteTeams)
}

func TestPutAdjustmentValidation(t *testing.T) {
	t.Parallel()

	playerID := uuid.New()

	valid := models.PlayerAdjustment{
		SessionID:      "s1",
		PlayerID:       playerID,
		BiasMultiplier: 1.5,
	}

	tests := []struct {
		name    string
		mutate  func(*models.PlayerAdjustment)
		wantErr error
	}{
		{name: "valid", mutate: func(a *models.PlayerAdjustment) {}},
		{
			name:    "missing session",
			mutate:  func(a *models.PlayerAdjustment) { a.SessionID = "" },
			wantErr: ErrInvalidPreference,
		},
		{
			name:    "missing player",
			mutate:  func(a *models.PlayerAdjustment) { a.PlayerID = uuid.Nil },
			wantErr: ErrInvalidPreference,
		},
		{
			name:    "zero multiplier",
			mutate:  func(a *models.PlayerAdjustment) { a.BiasMultiplier = 0 },
			wantErr: ErrInvalidPreference,
		},
		{
			name:    "news impact out of range",
			mutate:  func(a *models.PlayerAdjustment) { a.NewsImpactScore = 1.5 },
			wantErr: ErrInvalidPreference,
		},
		{
			name: "conflicting flags",
			mutate: func(a *models.PlayerAdjustment) {
				a.MustDraft = true
				a.AvoidPlayer = true
			},
			wantErr: rankings.ErrConflictingOverride,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			app := NewApp(newFakePrefsRepo(), clockwork.NewFakeClock())
			adj := valid
			tt.mutate(&adj)

			_, err := app.PutAdjustment(context.Background(), adj)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestAdjustmentRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	app := NewApp(newFakePrefsRepo(), clockwork.NewFakeClock())
	playerID := uuid.New()

	adj := models.PlayerAdjustment{
		SessionID:      "s1",
		PlayerID:       playerID,
		BiasMultiplier: 0.9,
		MustDraft:      true,
	}
	_, err := app.PutAdjustment(ctx, adj)
	require.NoError(t, err)

	got, err := app.GetAdjustment(ctx, "s1", playerID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.MustDraft)

	require.NoError(t, app.DeleteAdjustment(ctx, "s1", playerID))

	got, err = app.GetAdjustment(ctx, "s1", playerID)
	require.NoError(t, err)
	assert.Nil(t, got)
}
