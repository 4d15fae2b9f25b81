package opt

import "errors"

// Sentinel errors returned by the planner. Callers match them with errors.Is;
// every returned error wraps exactly one of these with context.
var (
	// ErrInvalidInput reports a malformed catalog or candidate.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidConfiguration reports a Config value outside its allowed range.
	ErrInvalidConfiguration = errors.New("invalid configuration")
	// ErrArithmeticDegenerate reports coordinates that would produce non-finite costs.
	ErrArithmeticDegenerate = errors.New("arithmetic degenerate")
)
