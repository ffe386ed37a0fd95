package alarm

import "errors"

// The error kinds surfaced by engine operations. Callers match them with errors.Is;
// wrapped errors carry the specific reason.
var (
	// ErrInvalidArgument reports a malformed id or patient id.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNotFound reports a missing patient, medication or alarm.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized reports an entity owned by a different patient.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrConflict reports a second alarm for the same patient and medication.
	ErrConflict = errors.New("conflict")
)
