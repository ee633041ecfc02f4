package models

import (
	"time"

	"github.com/google/uuid"
)

// ADPSentinel is the ADP assigned to players with no consensus data.
// It sorts after every ranked player.
const ADPSentinel = 999.0

// AdjustedRanking is one row of a session's materialized ranking snapshot.
// The full set for a session is deleted and rebuilt on every recompute.
type AdjustedRanking struct {
	SessionID          string    `json:"session_id" db:"session_id"`
	PlayerID           uuid.UUID `json:"player_id" db:"player_id"`
	OriginalADP        float64   `json:"original_adp" db:"original_adp"`
	OriginalRank       int       `json:"original_rank" db:"original_rank"`
	TeamMultiplier     float64   `json:"team_multiplier" db:"team_multiplier"`
	PlayerMultiplier   float64   `json:"player_multiplier" db:"player_multiplier"`
	StrategyMultiplier float64   `json:"strategy_multiplier" db:"strategy_multiplier"`
	AdjustedADP        float64   `json:"adjusted_adp" db:"adjusted_adp"`
	AdjustedRank       int       `json:"adjusted_rank" db:"adjusted_rank"`
	BiasImpact         float64   `json:"bias_impact" db:"bias_impact"`
	ComputedAt         time.Time `json:"computed_at" db:"computed_at"`
}

// PlayerRanked is an entry in the undrafted recommendation list.
type PlayerRanked struct {
	PlayerID uuid.UUID `json:"player_id" db:"player_id"`
	Name     string    `json:"name" db:"name"`
	Position Position  `json:"position" db:"position"`
	Team     string    `json:"team" db:"team"`
	ADP      float64   `json:"adp" db:"adp"`
	Rank     int       `json:"rank" db:"rank"`
}
