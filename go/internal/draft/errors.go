package draft

import "errors"

var (
	// ErrDraftNotFound indicates the draft id does not exist.
	ErrDraftNotFound = errors.New("draft not found")

	// ErrInvalidConfig indicates a draft configuration that cannot produce a
	// valid turn order: bad team count or rounds, or a seat assignment that
	// is not a permutation of the seats.
	ErrInvalidConfig = errors.New("invalid draft configuration")

	// ErrDraftComplete indicates every pick slot has been consumed.
	ErrDraftComplete = errors.New("draft complete")

	// ErrMalformedPick indicates a pick observation that cannot be resolved
	// to a team, usually a seat outside the draft's range.
	ErrMalformedPick = errors.New("malformed pick")

	// ErrAmbiguousIdentity indicates a participant identity that matches no
	// bound team while more than one team remains unbound.
	ErrAmbiguousIdentity = errors.New("ambiguous participant identity")

	// ErrPickConflict indicates another writer claimed the same pick number
	// first. Callers may recount and retry.
	ErrPickConflict = errors.New("pick number conflict")

	// ErrInvalidTransition indicates a draft status change that is not in
	// the transition table.
	ErrInvalidTransition = errors.New("invalid status transition")
)
