package dashboard

import "errors"

// Sentinel errors returned by event dispatch. Validation failures are not
// listed here: they are reported as *ValidationError.
var (
	ErrUnknownEvent     = errors.New("unknown dashboard event")
	ErrInvalidArgument  = errors.New("invalid event argument")
	ErrUnknownField     = errors.New("unknown form field")
	ErrDuplicateEvent   = errors.New("event already registered")
	ErrSessionIDMissing = errors.New("session id is required")
)
