package models

import (
	"time"

	"github.com/google/uuid"
)

// DraftStatus defines the status of a draft.
type DraftStatus string

const (
	DraftStatusNotStarted DraftStatus = "NOT_STARTED"
	DraftStatusInProgress DraftStatus = "IN_PROGRESS"
	DraftStatusCompleted  DraftStatus = "COMPLETED"
	DraftStatusCancelled  DraftStatus = "CANCELLED"
)

// Draft represents a draft instance and its fixed configuration.
// TeamCount and Rounds are frozen once the draft leaves NOT_STARTED.
type Draft struct {
	ID             uuid.UUID   `json:"id" db:"id"`
	Name           string      `json:"name" db:"name"`
	TeamCount      int         `json:"team_count" db:"team_count"`
	Rounds         int         `json:"rounds" db:"rounds"`
	Snake          bool        `json:"snake" db:"snake"`
	TimePerPickSec int         `json:"time_per_pick_sec" db:"time_per_pick_sec"`
	Status         DraftStatus `json:"status" db:"status"`
	StartedAt      *time.Time  `json:"started_at,omitempty" db:"started_at"`
	CompletedAt    *time.Time  `json:"completed_at,omitempty" db:"completed_at"`
	CreatedAt      time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at" db:"updated_at"`
}

// TotalPicks returns the number of pick slots the draft will consume.
func (d *Draft) TotalPicks() int {
	return d.TeamCount * d.Rounds
}
