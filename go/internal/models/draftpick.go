package models

import (
	"time"

	"github.com/google/uuid"
)

// DraftPick represents a single pick in a draft.
type DraftPick struct {
	ID         uuid.UUID  `json:"id" db:"id"`
	DraftID    uuid.UUID  `json:"draft_id" db:"draft_id"`
	PickNumber int        `json:"pick_number" db:"pick_number"` // 1-based overall pick
	Round      int        `json:"round" db:"round"`
	DraftSlot  int        `json:"draft_slot" db:"draft_slot"` // seat the pick was made from
	TeamID     uuid.UUID  `json:"team_id" db:"team_id"`
	PlayerID   *uuid.UUID `json:"player_id,omitempty" db:"player_id"` // nil until assigned
	PickedAt   time.Time  `json:"picked_at" db:"picked_at"`
}
