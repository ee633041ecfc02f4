package repository

import (
	"github.com/google/uuid"
	"github.com/jgreenfield/alfred/go/internal/draft/outbox"
	"github.com/jgreenfield/alfred/go/internal/models"
)

// CreateDraftRequest holds the fields for creating a draft.
type CreateDraftRequest struct {
	Name           string `json:"name"`
	TeamCount      int    `json:"team_count"`
	Rounds         int    `json:"rounds"`
	Snake          bool   `json:"snake"`
	TimePerPickSec int    `json:"time_per_pick_sec"`
}

// RegisterTeamRequest holds the fields for adding a team to a draft.
type RegisterTeamRequest struct {
	DraftID       uuid.UUID `json:"draft_id"`
	TeamNumber    int       `json:"team_number"`
	DraftPosition int       `json:"draft_position"`
	Name          string    `json:"name"`
	OwnerIdentity *string   `json:"owner_identity,omitempty"`
}

// UpdateDraftStatusRequest carries a status transition and the events that
// must commit with it.
type UpdateDraftStatusRequest struct {
	Status models.DraftStatus
	Events []outbox.Event
}

// RecordPickRequest carries a fully resolved pick, the events that must
// commit with it, and whether this pick completes the draft.
type RecordPickRequest struct {
	Pick          models.DraftPick
	CompleteDraft bool
	Events        []outbox.Event
}
