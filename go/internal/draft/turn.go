package draft

import (
	"fmt"

	"github.com/jgreenfield/alfred/go/internal/models"
)

// Seat is a position in the round-one pick order, 1-based. Seats are not
// team ids: in even snake rounds the seat order reverses while team
// identity stays put, so the two must never be conflated.
type Seat int

// Config is the slice of draft state the turn calculator needs.
type Config struct {
	TeamCount int
	Rounds    int
	Snake     bool
}

// ConfigFromDraft extracts the turn-relevant fields of a draft.
func ConfigFromDraft(d *models.Draft) Config {
	return Config{TeamCount: d.TeamCount, Rounds: d.Rounds, Snake: d.Snake}
}

// Turn identifies whose pick is on the clock.
type Turn struct {
	PickNumber int // 1-based overall pick about to be made
	Round      int
	Seat       Seat
}

// ComputeTurn derives the turn from the count of picks already made.
// Even rounds reverse the seat order when the draft snakes.
func ComputeTurn(cfg Config, pickCount int) (Turn, error) {
	if cfg.TeamCount < 2 {
		return Turn{}, fmt.Errorf("%w: team count %d", ErrInvalidConfig, cfg.TeamCount)
	}
	if cfg.Rounds < 1 {
		return Turn{}, fmt.Errorf("%w: rounds %d", ErrInvalidConfig, cfg.Rounds)
	}
	if pickCount < 0 {
		return Turn{}, fmt.Errorf("%w: negative pick count %d", ErrInvalidConfig, pickCount)
	}
	if pickCount >= cfg.TeamCount*cfg.Rounds {
		return Turn{}, ErrDraftComplete
	}

	round := pickCount/cfg.TeamCount + 1
	pos := pickCount % cfg.TeamCount

	seat := Seat(pos + 1)
	if cfg.Snake && round%2 == 0 {
		seat = Seat(cfg.TeamCount - pos)
	}

	return Turn{
		PickNumber: pickCount + 1,
		Round:      round,
		Seat:       seat,
	}, nil
}
