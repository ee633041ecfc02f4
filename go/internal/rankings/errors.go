package rankings

import "errors"

var (
	// ErrConflictingOverride indicates a player flagged both must_draft and
	// avoid_player. The engine surfaces the contradiction instead of picking
	// a winner.
	ErrConflictingOverride = errors.New("conflicting must-draft and avoid-player overrides")

	// ErrSessionRequired indicates an empty session id on a write path.
	ErrSessionRequired = errors.New("session id required")
)
