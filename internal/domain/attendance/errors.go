package attendance

import "errors"

var (
	// ErrInvalidTransition rejects a transition the current status does not
	// allow. The caller should re-fetch the session and pick a valid one.
	ErrInvalidTransition = errors.New("invalid session transition")

	// ErrTransitionConflict means a concurrent transition won the conditional
	// update. Recoverable: re-fetch and retry the correct transition.
	ErrTransitionConflict = errors.New("session transition conflict")

	ErrSessionNotFound = errors.New("work session not found")

	ErrInvalidDate = errors.New("date must be in YYYY-MM-DD format")
)
