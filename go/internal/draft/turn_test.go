package draft

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeTurn(t *testing.T) {
	t.Parallel()

	snake := Config{TeamCount: 10, Rounds: 16, Snake: true}

	tests := []struct {
		name      string
		cfg       Config
		pickCount int
		wantRound int
		wantSeat  Seat
		wantErr   error
	}{
		{
			name:      "first pick of the draft",
			cfg:       snake,
			pickCount: 0,
			wantRound: 1,
			wantSeat:  1,
		},
		{
			name:      "last pick of round one",
			cfg:       snake,
			pickCount: 9,
			wantRound: 1,
			wantSeat:  10,
		},
		{
			name:      "first pick of round two reverses",
			cfg:       snake,
			pickCount: 10,
			wantRound: 2,
			wantSeat:  10,
		},
		{
			name:      "middle of an even round",
			cfg:       snake,
			pickCount: 13,
			wantRound: 2,
			wantSeat:  7,
		},
		{
			name:      "round three goes forward again",
			cfg:       snake,
			pickCount: 20,
			wantRound: 3,
			wantSeat:  1,
		},
		{
			name:      "linear draft never reverses",
			cfg:       Config{TeamCount: 10, Rounds: 16, Snake: false},
			pickCount: 10,
			wantRound: 2,
			wantSeat:  1,
		},
		{
			name:      "draft complete",
			cfg:       snake,
			pickCount: 160,
			wantErr:   ErrDraftComplete,
		},
		{
			name:      "pick count past the end",
			cfg:       snake,
			pickCount: 500,
			wantErr:   ErrDraftComplete,
		},
		{
			name:      "team count too small",
			cfg:       Config{TeamCount: 1, Rounds: 16, Snake: true},
			pickCount: 0,
			wantErr:   ErrInvalidConfig,
		},
		{
			name:      "no rounds",
			cfg:       Config{TeamCount: 10, Rounds: 0, Snake: true},
			pickCount: 0,
			wantErr:   ErrInvalidConfig,
		},
		{
			name:      "negative pick count",
			cfg:       snake,
			pickCount: -1,
			wantErr:   ErrInvalidConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			turn, err := ComputeTurn(tt.cfg, tt.pickCount)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.pickCount+1, turn.PickNumber)
			assert.Equal(t, tt.wantRound, turn.Round)
			assert.Equal(t, tt.wantSeat, turn.Seat)
		})
	}
}

func TestComputeTurnBackToBackAtTheTurn(t *testing.T) {
	t.Parallel()

	// Seat 10 owns the last pick of round one and the first of round two.
	cfg := Config{TeamCount: 10, Rounds: 16, Snake: true}

	before, err := ComputeTurn(cfg, 9)
	require.NoError(t, err)
	after, err := ComputeTurn(cfg, 10)
	require.NoError(t, err)

	assert.Equal(t, Seat(10), before.Seat)
	assert.Equal(t, Seat(10), after.Seat)
	assert.Equal(t, 1, before.Round)
	assert.Equal(t, 2, after.Round)
}

func TestComputeTurnFullDraftBounds(t *testing.T) {
	t.Parallel()

	cfg := Config{TeamCount: 10, Rounds: 16, Snake: true}

	seen := make(map[Seat]int)
	for pickCount := 0; pickCount < cfg.TeamCount*cfg.Rounds; pickCount++ {
		turn, err := ComputeTurn(cfg, pickCount)
		require.NoError(t, err, "pickCount %d", pickCount)
		require.GreaterOrEqual(t, int(turn.Seat), 1)
		require.LessOrEqual(t, int(turn.Seat), cfg.TeamCount)
		require.GreaterOrEqual(t, turn.Round, 1)
		require.LessOrEqual(t, turn.Round, cfg.Rounds)
		seen[turn.Seat]++
	}

	// Every seat picks exactly once per round.
	for seat, count := range seen {
		assert.Equal(t, cfg.Rounds, count, "seat %d", seat)
	}
}

func TestComputeTurnSnakeInvariant(t *testing.T) {
	t.Parallel()

	cfg := Config{TeamCount: 12, Rounds: 4, Snake: true}

	var prev Turn
	for pickCount := 0; pickCount < cfg.TeamCount*cfg.Rounds; pickCount++ {
		turn, err := ComputeTurn(cfg, pickCount)
		require.NoError(t, err)

		if pickCount > 0 && turn.Round == prev.Round {
			if turn.Round%2 == 0 {
				assert.Less(t, turn.Seat, prev.Seat, "even rounds descend")
			} else {
				assert.Greater(t, turn.Seat, prev.Seat, "odd rounds ascend")
			}
		}
		prev = turn
	}
}
