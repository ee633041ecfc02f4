package events

import (
	"time"
)

// Event type names carried on outbox rows and publish subjects.
const (
	TypeDraftStarted       = "DraftStarted"
	TypeDraftCompleted     = "DraftCompleted"
	TypePickMade           = "PickMade"
	TypeRankingsRecomputed = "RankingsRecomputed"
)

// DraftStartedPayload is the payload for a DraftStarted event
type DraftStartedPayload struct {
	DraftID    string    `json:"draft_id"`
	Name       string    `json:"name"`
	TeamCount  int       `json:"team_count"`
	Rounds     int       `json:"rounds"`
	TotalPicks int       `json:"total_picks"`
	StartedAt  time.Time `json:"started_at"`
}

// DraftCompletedPayload is the payload for a DraftCompleted event
type DraftCompletedPayload struct {
	DraftID     string    `json:"draft_id"`
	TotalPicks  int       `json:"total_picks"`
	CompletedAt time.Time `json:"completed_at"`
}

// PickMadePayload is the payload for a PickMade event
type PickMadePayload struct {
	PickID     string    `json:"pick_id"`
	DraftID    string    `json:"draft_id"`
	TeamID     string    `json:"team_id"`
	PlayerID   string    `json:"player_id"`
	PickNumber int       `json:"pick_number"`
	Round      int       `json:"round"`
	DraftSlot  int       `json:"draft_slot"`
	MadeAt     time.Time `json:"made_at"`
}

// RankingsRecomputedPayload is the payload for a RankingsRecomputed event
type RankingsRecomputedPayload struct {
	SessionID  string    `json:"session_id"`
	RowCount   int       `json:"row_count"`
	ComputedAt time.Time `json:"computed_at"`
}
