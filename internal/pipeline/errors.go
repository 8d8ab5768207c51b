package pipeline

import "errors"

// Sentinel errors for the validation failures callers are expected to
// branch on. All are local-input errors: returned immediately, never
// retried internally, and no partial mutation survives them.
var (
	// ErrNotFound indicates the referenced deal ID does not exist.
	ErrNotFound = errors.New("deal not found")
	// ErrUnknownStage indicates a stage name outside the seven known stages.
	ErrUnknownStage = errors.New("unknown stage")
	// ErrInvalidTransition indicates the target stage is unreachable from
	// the current stage under the ordering invariant.
	ErrInvalidTransition = errors.New("invalid stage transition")
	// ErrAlreadyClosed indicates a mutation on a terminal-stage deal.
	ErrAlreadyClosed = errors.New("deal already closed")
	// ErrInvalidValue indicates a negative deal value.
	ErrInvalidValue = errors.New("invalid deal value")
	// ErrUnknownCriterion indicates a BANT criterion outside the four flags.
	ErrUnknownCriterion = errors.New("unknown qualification criterion")
	// ErrDuplicateActiveDeal indicates the single-active-deal policy found
	// an existing open deal for the customer.
	ErrDuplicateActiveDeal = errors.New("customer already has an active deal")
	// ErrDuplicateID indicates a registry insert collided with an existing ID.
	ErrDuplicateID = errors.New("deal id already exists")
)
