package errors

import "errors"

// Sentinel errors for handlers to map to HTTP status.
var (
	// ErrNotFound: the entity id does not resolve to a row.
	ErrNotFound = errors.New("entity not found")
	// ErrForbidden: the caller resolved but holds no capability covering this
	// row. Used for single-entity reads only; list endpoints return empty
	// pages instead so an unauthorized caller cannot probe for existence.
	ErrForbidden = errors.New("caller may not access this entity")
	// ErrAlreadyOwned: an active sourcer already protects this candidate.
	// Recoverable; callers should treat it as "not mine", not as a failure.
	ErrAlreadyOwned = errors.New("candidate already has an active sourcer")
	// ErrSplitOverflow: the collaborator split would push the placement past
	// 100%. Recoverable by adjusting the requested percentage.
	ErrSplitOverflow = errors.New("collaborator splits exceed 100 percent")
	// ErrInvalidTransition: stage transition not allowed from the current
	// stage (terminal stage, or a jump the workflow does not permit).
	ErrInvalidTransition = errors.New("invalid application stage transition")
)
