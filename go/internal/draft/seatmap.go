package draft

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/jgreenfield/alfred/go/internal/models"
)

// SeatMap is the total seat-to-team mapping for one draft. A valid map
// assigns every seat in [1, teamCount] to exactly one distinct team.
type SeatMap struct {
	teamCount int
	bySeat    map[Seat]uuid.UUID
}

// NewSeatMap builds and validates the seat mapping from a draft's teams.
// Returns ErrInvalidConfig unless the seats form a permutation of
// [1, teamCount] over distinct teams.
func NewSeatMap(teamCount int, teams []models.DraftTeam) (SeatMap, error) {
	if len(teams) != teamCount {
		return SeatMap{}, fmt.Errorf("%w: %d teams for %d seats", ErrInvalidConfig, len(teams), teamCount)
	}

	bySeat := make(map[Seat]uuid.UUID, teamCount)
	seen := make(map[uuid.UUID]bool, teamCount)
	for _, t := range teams {
		seat := Seat(t.DraftPosition)
		if seat < 1 || int(seat) > teamCount {
			return SeatMap{}, fmt.Errorf("%w: seat %d out of range [1, %d]", ErrInvalidConfig, seat, teamCount)
		}
		if _, dup := bySeat[seat]; dup {
			return SeatMap{}, fmt.Errorf("%w: seat %d assigned twice", ErrInvalidConfig, seat)
		}
		if seen[t.ID] {
			return SeatMap{}, fmt.Errorf("%w: team %s holds two seats", ErrInvalidConfig, t.ID)
		}
		bySeat[seat] = t.ID
		seen[t.ID] = true
	}

	return SeatMap{teamCount: teamCount, bySeat: bySeat}, nil
}

// Count returns the number of seats.
func (m SeatMap) Count() int {
	return m.teamCount
}

// Team resolves a seat to its team id.
func (m SeatMap) Team(seat Seat) (uuid.UUID, error) {
	id, ok := m.bySeat[seat]
	if !ok {
		return uuid.Nil, fmt.Errorf("%w: no team at seat %d", ErrMalformedPick, seat)
	}
	return id, nil
}

// RawPick is a pick observation as reported by an external draft room.
// PickedBy is whatever display text the room attached; it is advisory
// only and never drives team resolution.
type RawPick struct {
	Slot     int
	PlayerID uuid.UUID
	PickedBy string
}

// ResolvePickTeam maps a raw pick to the owning team by seat alone.
func ResolvePickTeam(seats SeatMap, raw RawPick) (uuid.UUID, error) {
	if raw.Slot < 1 || raw.Slot > seats.Count() {
		return uuid.Nil, fmt.Errorf("%w: slot %d out of range [1, %d]", ErrMalformedPick, raw.Slot, seats.Count())
	}
	return seats.Team(Seat(raw.Slot))
}
