package order

import (
	"fmt"
	"strings"

	"atelier/internal/pkg/errs"
)

// Status is the lifecycle state of an order.
//
//	Draft ──release──> InFactory ──complete──> Completed
//	  ^                    │  ^                    │
//	  └──────revert────────┘  └──────reopen────────┘
//
// Reopen is only used when a rejected final submission is withdrawn.
type Status int

const (
	// Unknown is the zero value and never valid; it catches uninitialised
	// statuses.
	Unknown Status = iota

	// Draft orders are being prepared. Details and stones may change and
	// workers may already be assigned, but no department work is recorded.
	Draft

	// InFactory orders are on the department board.
	InFactory

	// Completed orders have an accepted final submission. Nothing about the
	// order changes while it is completed.
	Completed
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:   "UNKNOWN",
		Draft:     "DRAFT",
		InFactory: "IN_FACTORY",
		Completed: "COMPLETED",
	}
}

func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[Status]string{
		Draft:     "DRAFT",
		InFactory: "IN_FACTORY",
		Completed: "COMPLETED",
	}
}

// ParseStatus accepts DRAFT, IN_FACTORY or COMPLETED in any case.
//
// Returns:
//   - the matching Status
//   - ValueIsInvalid for anything else, including UNKNOWN
func ParseStatus(s string) (Status, error) {
	want := strings.ToUpper(strings.TrimSpace(s))
	for st, name := range getValidStatusStrings() {
		if name == want {
			return st, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%q is not a valid status", s))
}

// Validate checks that s is one of the declared statuses.
//
// Returns:
//   - nil for Draft, InFactory and Completed
//   - ValueIsInvalid for Unknown and out of range values
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the wire name of the status, "UNKNOWN" for invalid values.
//
// Example:
//
//	fmt.Println(order.InFactory) // Output: IN_FACTORY
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// ValidateMutable rejects any field change once the order is completed.
func (s Status) ValidateMutable() error {
	if s == Completed {
		return errs.NewInvalidTransitionError("order", s.String(), "modify")
	}
	return s.Validate()
}

// Release sends a draft to the factory.
//
// Valid transitions:
//   - Draft -> InFactory
//
// Returns:
//   - (InFactory, nil) on a valid transition
//   - (0, InvalidTransition) from any other status
func (s Status) Release() (Status, error) {
	if s != Draft {
		return 0, errs.NewInvalidTransitionError("order", s.String(), "release")
	}
	return InFactory, nil
}

// Revert pulls an order back to DRAFT. Department rows are left as they
// are.
func (s Status) Revert() (Status, error) {
	if s != InFactory {
		return 0, errs.NewInvalidTransitionError("order", s.String(), "revert")
	}
	return Draft, nil
}

// Complete marks the order finished once its final submission is stored.
//
// Valid transitions:
//   - InFactory -> Completed
//
// Invalid transitions:
//   - Draft -> Completed (the order never reached the factory)
//   - Completed -> Completed (a submission already exists)
func (s Status) Complete() (Status, error) {
	if s != InFactory {
		return 0, errs.NewInvalidTransitionError("order", s.String(), "complete")
	}
	return Completed, nil
}

// Reopen returns a completed order to the factory.
//
// Valid transitions:
//   - Completed -> InFactory
//
// Used only when a rejected final submission is withdrawn.
func (s Status) Reopen() (Status, error) {
	if s != Completed {
		return 0, errs.NewInvalidTransitionError("order", s.String(), "reopen")
	}
	return InFactory, nil
}
