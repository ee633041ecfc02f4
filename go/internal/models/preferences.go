package models

import (
	"time"

	"github.com/google/uuid"
)

// Strategy is the risk posture applied to ranking volatility.
type Strategy string

const (
	StrategyConservative Strategy = "conservative"
	StrategyBalanced     Strategy = "balanced"
	StrategyAggressive   Strategy = "aggressive"
)

// ValidStrategy reports whether s is a known strategy.
func ValidStrategy(s Strategy) bool {
	switch s {
	case StrategyConservative, StrategyBalanced, StrategyAggressive:
		return true
	}
	return false
}

// Default multiplier values applied when a session has no stored preferences.
const (
	DefaultFavoriteMultiplier = 1.2
	DefaultHatedMultiplier    = 0.8
	DefaultCVWeight           = 1.0
)

// UserPreference holds a session's team affinities and strategy posture.
// Sessions are opaque identifiers, not user accounts; a single shared
// session id is a valid deployment.
type UserPreference struct {
	SessionID          string    `json:"session_id" db:"session_id"`
	FavoriteTeams      []string  `json:"favorite_teams"`
	HatedTeams         []string  `json:"hated_teams"`
	FavoriteMultiplier float64   `json:"favorite_multiplier" db:"favorite_multiplier"`
	HatedMultiplier    float64   `json:"hated_multiplier" db:"hated_multiplier"`
	Strategy           Strategy  `json:"strategy" db:"strategy"`
	CVWeight           float64   `json:"cv_weight" db:"cv_weight"`
	UpdatedAt          time.Time `json:"updated_at" db:"updated_at"`
}

// DefaultPreference returns the preference set used when a session has
// nothing stored. With no teams configured the multipliers never apply,
// so the result is neutral.
func DefaultPreference(sessionID string) UserPreference {
	return UserPreference{
		SessionID:          sessionID,
		FavoriteMultiplier: DefaultFavoriteMultiplier,
		HatedMultiplier:    DefaultHatedMultiplier,
		Strategy:           StrategyBalanced,
		CVWeight:           DefaultCVWeight,
	}
}

// PlayerAdjustment is a session's explicit override for one player.
// NewsImpactScore is stored but not yet folded into the bias math.
type PlayerAdjustment struct {
	SessionID       string    `json:"session_id" db:"session_id"`
	PlayerID        uuid.UUID `json:"player_id" db:"player_id"`
	BiasMultiplier  float64   `json:"bias_multiplier" db:"bias_multiplier"`
	Reason          *string   `json:"reason,omitempty" db:"reason"`
	MustDraft       bool      `json:"must_draft" db:"must_draft"`
	AvoidPlayer     bool      `json:"avoid_player" db:"avoid_player"`
	NewsImpactScore float64   `json:"news_impact_score" db:"news_impact_score"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}
