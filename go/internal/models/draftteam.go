package models

import (
	"time"

	"github.com/google/uuid"
)

// DraftTeam is a roster identity inside a draft. TeamNumber is the stable
// team id within the draft; DraftPosition is the seat the team occupies in
// the round-one order. The two are distinct on purpose: seats move through
// the snake, team identity does not.
type DraftTeam struct {
	ID            uuid.UUID `json:"id" db:"id"`
	DraftID       uuid.UUID `json:"draft_id" db:"draft_id"`
	TeamNumber    int       `json:"team_number" db:"team_number"`
	DraftPosition int       `json:"draft_position" db:"draft_position"`
	Name          string    `json:"name" db:"name"`
	OwnerIdentity *string   `json:"owner_identity,omitempty" db:"owner_identity"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}
