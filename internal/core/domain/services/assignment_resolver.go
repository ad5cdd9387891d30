package services

import (
	"fmt"
	"time"

	"atelier/internal/core/domain/model/department"
	"atelier/internal/core/domain/model/kernel"
	"atelier/internal/core/domain/model/order"
	"atelier/internal/core/domain/model/tracking"
	"atelier/internal/core/domain/model/worker"
	"atelier/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// AssignmentResolver puts a worker on a department tracking row.
//
// Both entry points share the same invariants:
//   - the order accepts assignments (DRAFT or IN_FACTORY)
//   - the worker is a DEPARTMENT_WORKER configured for the row's department
//   - the row is PENDING_ASSIGNMENT; it moves to NOT_STARTED on success
//
// Example usage:
//
//	resolver := NewAssignmentResolver()
//	if err := resolver.SelfAssign(o, row, w, kernel.Some(department.Casting), now); err != nil {
//	    // errs.ErrForbidden when the worker belongs to another department
//	}
type AssignmentResolver struct{}

// NewAssignmentResolver creates a stateless AssignmentResolver.
//
// Returns:
//   - AssignmentResolver: ready for Assign and SelfAssign
func NewAssignmentResolver() AssignmentResolver {
	return AssignmentResolver{}
}

// Assign is the admin directed assignment. Eligibility failures are
// validation errors: the caller picked the wrong worker.
//
// Parameters:
//   - o: the order owning the row, DRAFT or IN_FACTORY
//   - row: the PENDING_ASSIGNMENT row to fill
//   - w: the worker to put on the row
//   - estimatedHours: optional planning estimate stored on the row
//
// Returns:
//   - nil once the row is NOT_STARTED with w assigned
//   - ValueIsInvalid when w is not a DEPARTMENT_WORKER of the row's department
//   - InvalidTransition when the order or the row does not accept assignments
func (r AssignmentResolver) Assign(
	o *order.Order,
	row *tracking.Tracking,
	w *worker.Worker,
	estimatedHours kernel.Option[decimal.Decimal],
	now time.Time,
) error {
	if err := r.validate(o, row); err != nil {
		return err
	}

	if err := w.ValidateAssignableTo(row.Department()); err != nil {
		return err
	}

	return row.Assign(w.ID(), estimatedHours, now)
}

// SelfAssign lets a worker claim an unassigned row of their own department.
// claimedDepartment is the department the caller acts for (for example from
// a token claim); when absent the worker's configured departments decide.
//
// Unlike Assign, a mismatch here is the caller acting outside their own
// department and is reported as Forbidden.
//
// Returns:
//   - nil once the row is NOT_STARTED with w assigned
//   - Forbidden for managers, admins and workers of another department
//   - InvalidTransition (tracking.ErrAlreadyAssigned) when the row is taken
func (r AssignmentResolver) SelfAssign(
	o *order.Order,
	row *tracking.Tracking,
	w *worker.Worker,
	claimedDepartment kernel.Option[department.Department],
	now time.Time,
) error {
	if err := r.validate(o, row); err != nil {
		return err
	}

	if err := w.Validate(); err != nil {
		return err
	}

	if w.Role() != worker.DepartmentWorker {
		return errs.NewForbiddenError(fmt.Sprintf("role %s cannot self-assign", w.Role()))
	}

	if claimed, ok := claimedDepartment.Get(); ok && claimed != row.Department() {
		return errs.NewForbiddenError(
			fmt.Sprintf("worker department %s does not match %s", claimed, row.Department()))
	}

	if !w.WorksIn(row.Department()) {
		return errs.NewForbiddenError(
			fmt.Sprintf("worker is not configured for %s", row.Department()))
	}

	return row.Assign(w.ID(), kernel.None[decimal.Decimal](), now)
}

func (r AssignmentResolver) validate(o *order.Order, row *tracking.Tracking) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if err := row.Validate(); err != nil {
		return err
	}
	if !row.OrderID().IsEqual(o.ID()) {
		return errs.NewValueIsInvalidErrorWithCause("tracking row is invalid",
			fmt.Errorf("row %s belongs to another order", row.ID()))
	}
	return o.ValidateAssignable()
}
