package models

import (
	"time"

	"github.com/google/uuid"
)

// Position is a fantasy-relevant roster position.
type Position string

const (
	PositionQB  Position = "QB"
	PositionRB  Position = "RB"
	PositionWR  Position = "WR"
	PositionTE  Position = "TE"
	PositionK   Position = "K"
	PositionDST Position = "DST"
)

// Positions lists every valid position.
var Positions = []Position{PositionQB, PositionRB, PositionWR, PositionTE, PositionK, PositionDST}

// ValidPosition reports whether p is one of the fixed position codes.
func ValidPosition(p Position) bool {
	switch p {
	case PositionQB, PositionRB, PositionWR, PositionTE, PositionK, PositionDST:
		return true
	}
	return false
}

// TeamFreeAgent marks a player not attached to any NFL team.
const TeamFreeAgent = "FA"

// NFLTeamCodes holds the 32 franchise abbreviations.
var NFLTeamCodes = []string{
	"ARI", "ATL", "BAL", "BUF", "CAR", "CHI", "CIN", "CLE",
	"DAL", "DEN", "DET", "GB", "HOU", "IND", "JAX", "KC",
	"LAC", "LAR", "LV", "MIA", "MIN", "NE", "NO", "NYG",
	"NYJ", "PHI", "PIT", "SEA", "SF", "TB", "TEN", "WAS",
}

// ValidTeamCode reports whether code is a franchise abbreviation or FA.
func ValidTeamCode(code string) bool {
	if code == TeamFreeAgent {
		return true
	}
	for _, c := range NFLTeamCodes {
		if c == code {
			return true
		}
	}
	return false
}

// Player represents a draftable player.
type Player struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Position  Position  `json:"position" db:"position"`
	Team      string    `json:"team" db:"team"`
	Active    bool      `json:"active" db:"active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// ConsensusRanking is one source's ADP/rank value for a player.
// A player usually carries several of these, one per source.
type ConsensusRanking struct {
	PlayerID uuid.UUID `json:"player_id" db:"player_id"`
	Source   string    `json:"source" db:"source"`
	ADP      float64   `json:"adp" db:"adp"`
	RankedOn time.Time `json:"ranked_on" db:"ranked_on"`
}
