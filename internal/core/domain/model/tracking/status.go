package tracking

import (
	"errors"
	"fmt"
	"strings"

	"atelier/internal/pkg/errs"
)

// Status is the state of one department tracking row.
//
//	PENDING_ASSIGNMENT ──assign──> NOT_STARTED ──start──> IN_PROGRESS ──complete──> COMPLETED
//	                                                       │      ^
//	                                                     hold   resume
//	                                                       v      │
//	                                                       ON_HOLD
//
// COMPLETED is terminal: every transition out of it is rejected.
type Status int

const (
	Unknown Status = iota
	PendingAssignment
	NotStarted
	InProgress
	OnHold
	Completed
)

var (
	ErrRowCompleted     = errors.New("department is already completed")
	ErrAlreadyAssigned  = errors.New("department already has a worker")
	ErrNotAssigned      = errors.New("department has no worker assigned")
	ErrAlreadyStarted   = errors.New("department already started")
	ErrNotStarted       = errors.New("department not started")
	ErrNotInProgress    = errors.New("department is not in progress")
	ErrNotOnHold        = errors.New("department is not on hold")
	ErrWorkDataIsClosed = errors.New("work data can no longer be edited")
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:           "UNKNOWN",
		PendingAssignment: "PENDING_ASSIGNMENT",
		NotStarted:        "NOT_STARTED",
		InProgress:        "IN_PROGRESS",
		OnHold:            "ON_HOLD",
		Completed:         "COMPLETED",
	}
}

func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[Status]string{
		PendingAssignment: "PENDING_ASSIGNMENT",
		NotStarted:        "NOT_STARTED",
		InProgress:        "IN_PROGRESS",
		OnHold:            "ON_HOLD",
		Completed:         "COMPLETED",
	}
}

// ParseStatus accepts the wire name of a status, ignoring case and
// surrounding whitespace.
//
// Returns:
//   - the matching Status
//   - ValueIsInvalid for UNKNOWN or any unrecognised name
func ParseStatus(s string) (Status, error) {
	want := strings.ToUpper(strings.TrimSpace(s))
	for st, name := range getValidStatusStrings() {
		if name == want {
			return st, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%q is not a valid status", s))
}

// Validate rejects Unknown and values outside the declared statuses. Rows
// restored from the database go through it before use.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// IsActive reports whether the row counts towards a worker's workload.
func (s Status) IsActive() bool {
	return s == NotStarted || s == InProgress
}

// Assign moves a row out of PENDING_ASSIGNMENT once a worker is set.
//
// Valid transitions:
//   - PENDING_ASSIGNMENT -> NOT_STARTED
//
// Returns:
//   - (NotStarted, nil) on a valid transition
//   - InvalidTransition with ErrRowCompleted for a completed row
//   - InvalidTransition with ErrAlreadyAssigned for any other status
func (s Status) Assign() (Status, error) {
	switch s {
	case PendingAssignment:
		return NotStarted, nil
	case Completed:
		return 0, s.reject("assign", ErrRowCompleted)
	default:
		return 0, s.reject("assign", ErrAlreadyAssigned)
	}
}

// Start begins work on an assigned row.
//
// Valid transitions:
//   - NOT_STARTED -> IN_PROGRESS
//
// Every rejection matches ErrAlreadyStarted. A completed or unassigned row
// also matches the narrower ErrRowCompleted or ErrNotAssigned, and the
// message names the narrower cause.
//
// Returns:
//   - (InProgress, nil) on a valid transition
//   - (0, InvalidTransition) from any other status
//
// Example:
//
//	next, err := row.Status().Start()
//	if errors.Is(err, tracking.ErrAlreadyStarted) {
//	    // 409 for the caller
//	}
func (s Status) Start() (Status, error) {
	switch s {
	case NotStarted:
		return InProgress, nil
	case Completed:
		return 0, s.reject("start", narrowed(ErrAlreadyStarted, ErrRowCompleted))
	case PendingAssignment:
		return 0, s.reject("start", narrowed(ErrAlreadyStarted, ErrNotAssigned))
	default:
		return 0, s.reject("start", ErrAlreadyStarted)
	}
}

// Hold pauses a row that is being worked on. The reason lives on the row,
// not on the status.
//
// Returns:
//   - (OnHold, nil) from IN_PROGRESS
//   - InvalidTransition with ErrRowCompleted or ErrNotInProgress otherwise
func (s Status) Hold() (Status, error) {
	switch s {
	case InProgress:
		return OnHold, nil
	case Completed:
		return 0, s.reject("hold", ErrRowCompleted)
	default:
		return 0, s.reject("hold", ErrNotInProgress)
	}
}

// Resume returns a held row to IN_PROGRESS.
func (s Status) Resume() (Status, error) {
	switch s {
	case OnHold:
		return InProgress, nil
	case Completed:
		return 0, s.reject("resume", ErrRowCompleted)
	default:
		return 0, s.reject("resume", ErrNotOnHold)
	}
}

// Complete finishes a row. COMPLETED is terminal.
//
// Valid transitions:
//   - IN_PROGRESS -> COMPLETED
//
// Held rows must be resumed first. Every rejection matches ErrNotStarted;
// a row that is already completed also matches ErrRowCompleted.
//
// Returns:
//   - (Completed, nil) on a valid transition
//   - (0, InvalidTransition) from any other status
func (s Status) Complete() (Status, error) {
	switch s {
	case InProgress:
		return Completed, nil
	case Completed:
		return 0, s.reject("complete", narrowed(ErrNotStarted, ErrRowCompleted))
	default:
		return 0, s.reject("complete", ErrNotStarted)
	}
}

// ValidateWorkDataEditable allows work data edits on assigned, unfinished rows.
func (s Status) ValidateWorkDataEditable() error {
	switch s {
	case NotStarted, InProgress, OnHold:
		return nil
	case Completed:
		return s.reject("edit work data of", ErrRowCompleted)
	default:
		return s.reject("edit work data of", ErrWorkDataIsClosed)
	}
}

func (s Status) reject(action string, cause error) error {
	return errs.NewInvalidTransitionErrorWithCause("department", s.String(), action, cause)
}

// narrowedError matches both its kind and its detail but prints only the
// detail.
type narrowedError struct {
	kind   error
	detail error
}

func narrowed(kind, detail error) error {
	return narrowedError{kind: kind, detail: detail}
}

func (e narrowedError) Error() string {
	return e.detail.Error()
}

func (e narrowedError) Unwrap() []error {
	return []error{e.kind, e.detail}
}
