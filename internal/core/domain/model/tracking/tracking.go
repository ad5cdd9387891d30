package tracking

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"atelier/internal/core/domain/model/department"
	"atelier/internal/core/domain/model/kernel"
	"atelier/internal/pkg/errs"
	"atelier/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var (
	ErrTrackingIsNotConstructed = errors.New("Tracking must be created via NewTracking constructor")
	ErrHoldReasonIsRequired     = errs.NewValueIsRequiredError("hold reason")
)

// Tracking is the per (order, department) row of the production workflow and
// the unit of state machine execution. Rows of the same order are independent
// of each other; concurrent writes on one row are resolved by storage through
// a compare-and-swap on ExpectedStatus and ExpectedVersion.
type Tracking struct {
	id             kernel.UUID
	orderID        kernel.UUID
	department     department.Department
	sequenceIndex  int
	status         Status
	assignedTo     kernel.Option[kernel.UUID]
	goldWeightIn   kernel.Option[kernel.Weight]
	goldWeightOut  kernel.Option[kernel.Weight]
	estimatedHours kernel.Option[decimal.Decimal]
	startedAt      kernel.Option[time.Time]
	completedAt    kernel.Option[time.Time]
	notes          string
	holdReason     string
	workData       WorkData
	updatedAt      time.Time

	version         int
	expectedVersion int
	expectedStatus  Status

	guard guard.ConstructorGuard
}

// NewTracking creates a PENDING_ASSIGNMENT row for d.
func NewTracking(id, orderID kernel.UUID, d department.Department, now time.Time) (*Tracking, error) {
	if err := errors.Join(id.Validate(), orderID.Validate(), d.Validate()); err != nil {
		return nil, err
	}

	return &Tracking{
		id:             id,
		orderID:        orderID,
		department:     d,
		sequenceIndex:  d.Index(),
		status:         PendingAssignment,
		workData:       EmptyWorkData(),
		updatedAt:      now.UTC(),
		version:        1,
		expectedStatus: PendingAssignment,
		guard:          guard.NewConstructorGuard(),
	}, nil
}

// NewSequence seeds one row per department in production order.
func NewSequence(orderID kernel.UUID, now time.Time) ([]*Tracking, error) {
	rows := make([]*Tracking, 0, department.Count)
	for _, d := range department.Sequence() {
		row, err := NewTracking(kernel.NewUUID(), orderID, d, now)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Snapshot carries the persisted state of a row.
type Snapshot struct {
	ID             kernel.UUID
	OrderID        kernel.UUID
	Department     department.Department
	SequenceIndex  int
	Status         Status
	AssignedTo     kernel.Option[kernel.UUID]
	GoldWeightIn   kernel.Option[kernel.Weight]
	GoldWeightOut  kernel.Option[kernel.Weight]
	EstimatedHours kernel.Option[decimal.Decimal]
	StartedAt      kernel.Option[time.Time]
	CompletedAt    kernel.Option[time.Time]
	Notes          string
	HoldReason     string
	WorkData       WorkData
	UpdatedAt      time.Time
	Version        int
}

// RestoreTracking rebuilds a row from storage and checks that the persisted
// sequence index still matches the department's fixed position.
func RestoreTracking(s Snapshot) (*Tracking, error) {
	var indexErr error
	if s.SequenceIndex != s.Department.Index() {
		indexErr = errs.NewValueIsInvalidErrorWithCause("sequence index is invalid",
			fmt.Errorf("%d does not match position %d of %s", s.SequenceIndex, s.Department.Index(), s.Department))
	}

	var assignErr error
	if s.Status != PendingAssignment && s.Status != Unknown && s.AssignedTo.IsNone() {
		assignErr = errs.NewValueIsRequiredErrorWithCause("assigned worker",
			fmt.Errorf("%s rows must have a worker", s.Status))
	}

	if err := errors.Join(
		s.ID.Validate(),
		s.OrderID.Validate(),
		s.Department.Validate(),
		s.Status.Validate(),
		indexErr,
		assignErr,
	); err != nil {
		return nil, err
	}

	workData := s.WorkData.Clone()

	return &Tracking{
		id:              s.ID,
		orderID:         s.OrderID,
		department:      s.Department,
		sequenceIndex:   s.SequenceIndex,
		status:          s.Status,
		assignedTo:      s.AssignedTo,
		goldWeightIn:    s.GoldWeightIn,
		goldWeightOut:   s.GoldWeightOut,
		estimatedHours:  s.EstimatedHours,
		startedAt:       s.StartedAt,
		completedAt:     s.CompletedAt,
		notes:           s.Notes,
		holdReason:      s.HoldReason,
		workData:        workData,
		updatedAt:       s.UpdatedAt.UTC(),
		version:         s.Version,
		expectedVersion: s.Version,
		expectedStatus:  s.Status,
		guard:           guard.NewConstructorGuard(),
	}, nil
}

// Validate reports ErrTrackingIsNotConstructed for a nil row or one built
// outside the constructors.
func (t *Tracking) Validate() error {
	if t == nil {
		return ErrTrackingIsNotConstructed
	}
	return t.guard.Validate(ErrTrackingIsNotConstructed)
}

func (t *Tracking) ID() kernel.UUID                                { return t.id }
func (t *Tracking) OrderID() kernel.UUID                           { return t.orderID }
func (t *Tracking) Department() department.Department              { return t.department }
func (t *Tracking) SequenceIndex() int                             { return t.sequenceIndex }
func (t *Tracking) Status() Status                                 { return t.status }
func (t *Tracking) AssignedTo() kernel.Option[kernel.UUID]         { return t.assignedTo }
func (t *Tracking) GoldWeightIn() kernel.Option[kernel.Weight]     { return t.goldWeightIn }
func (t *Tracking) GoldWeightOut() kernel.Option[kernel.Weight]    { return t.goldWeightOut }
func (t *Tracking) EstimatedHours() kernel.Option[decimal.Decimal] { return t.estimatedHours }
func (t *Tracking) StartedAt() kernel.Option[time.Time]            { return t.startedAt }
func (t *Tracking) CompletedAt() kernel.Option[time.Time]          { return t.completedAt }
func (t *Tracking) Notes() string                                  { return t.notes }
func (t *Tracking) HoldReason() string                             { return t.holdReason }
func (t *Tracking) WorkData() WorkData                             { return t.workData.Clone() }
func (t *Tracking) UpdatedAt() time.Time                           { return t.updatedAt }

// Version is the version the row will have once saved.
func (t *Tracking) Version() int { return t.version }

// ExpectedVersion is the version the row had when it was loaded.
func (t *Tracking) ExpectedVersion() int { return t.expectedVersion }

// ExpectedStatus is the status the row had when it was loaded.
func (t *Tracking) ExpectedStatus() Status { return t.expectedStatus }

// IsNew reports whether the row has never been persisted.
func (t *Tracking) IsNew() bool { return t.expectedVersion == 0 }

// Assign gives the row to a worker. Worker eligibility is checked by the caller.
//
// Returns:
//   - nil once the row is NOT_STARTED with workerID set
//   - InvalidTransition (ErrAlreadyAssigned) for a row past PENDING_ASSIGNMENT
//   - InvalidTransition (ErrRowCompleted) for a completed row
func (t *Tracking) Assign(workerID kernel.UUID, estimatedHours kernel.Option[decimal.Decimal], now time.Time) error {
	if err := workerID.Validate(); err != nil {
		return err
	}
	if h, ok := estimatedHours.Get(); ok && h.IsNegative() {
		return errs.NewValueIsInvalidErrorWithCause("estimated hours is invalid",
			fmt.Errorf("%s is negative", h.String()))
	}

	next, err := t.status.Assign()
	if err != nil {
		return err
	}

	t.status = next
	t.assignedTo = kernel.Some(workerID)
	if estimatedHours.IsSome() {
		t.estimatedHours = estimatedHours
	}
	t.touch(now)
	return nil
}

// Start records the incoming gold weight and begins work.
//
// The weight is validated before the transition, so a bad weight leaves the
// row untouched. See Status.Start for the rejected statuses.
//
// Example:
//
//	if err := row.Start(kernel.MustWeight("25.5"), "crucible 3", now); err != nil {
//	    return err
//	}
//	// row.Status() == tracking.InProgress
func (t *Tracking) Start(goldWeightIn kernel.Weight, notes string, now time.Time) error {
	if err := goldWeightIn.Validate(); err != nil {
		return err
	}

	next, err := t.status.Start()
	if err != nil {
		return err
	}

	t.status = next
	t.goldWeightIn = kernel.Some(goldWeightIn)
	t.startedAt = kernel.Some(now.UTC())
	t.appendNotes(notes)
	t.touch(now)
	return nil
}

// Hold pauses work. startedAt is preserved and the reason is kept until the
// row is resumed.
//
// Returns:
//   - nil once the row is ON_HOLD
//   - ErrHoldReasonIsRequired for a blank reason
//   - InvalidTransition (ErrNotInProgress) unless the row is IN_PROGRESS
func (t *Tracking) Hold(reason string, now time.Time) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return ErrHoldReasonIsRequired
	}

	next, err := t.status.Hold()
	if err != nil {
		return err
	}

	t.status = next
	t.holdReason = reason
	t.touch(now)
	return nil
}

// Resume continues held work without touching startedAt.
func (t *Tracking) Resume(now time.Time) error {
	next, err := t.status.Resume()
	if err != nil {
		return err
	}

	t.status = next
	t.holdReason = ""
	t.touch(now)
	return nil
}

// Complete records the outgoing gold weight and closes the row for good.
// Gold loss is derived from the two weights; a gain is allowed and flagged
// by HasGoldGain.
//
// Returns:
//   - nil once the row is COMPLETED with completedAt set
//   - InvalidTransition (ErrNotStarted) unless the row is IN_PROGRESS
func (t *Tracking) Complete(goldWeightOut kernel.Weight, notes string, now time.Time) error {
	if err := goldWeightOut.Validate(); err != nil {
		return err
	}

	next, err := t.status.Complete()
	if err != nil {
		return err
	}

	t.status = next
	t.goldWeightOut = kernel.Some(goldWeightOut)
	t.completedAt = kernel.Some(now.UTC())
	t.appendNotes(notes)
	t.touch(now)
	return nil
}

// UpdateWorkData merges form fields and file references into the row.
// Work data stays editable while the row is NOT_STARTED, IN_PROGRESS or
// ON_HOLD.
func (t *Tracking) UpdateWorkData(fields map[string]any, files []FileRef, now time.Time) error {
	if err := t.status.ValidateWorkDataEditable(); err != nil {
		return err
	}

	merged, err := t.workData.Merge(fields, files)
	if err != nil {
		return err
	}

	t.workData = merged
	t.touch(now)
	return nil
}

// GoldLoss is goldWeightIn - goldWeightOut once both are known. A negative
// value means material was added during the department.
func (t *Tracking) GoldLoss() kernel.Option[decimal.Decimal] {
	in, okIn := t.goldWeightIn.Get()
	out, okOut := t.goldWeightOut.Get()
	if !okIn || !okOut {
		return kernel.None[decimal.Decimal]()
	}
	return kernel.Some(in.Sub(out))
}

// HasGoldGain flags rows whose output outweighs their input.
func (t *Tracking) HasGoldGain() bool {
	loss, ok := t.GoldLoss().Get()
	return ok && loss.IsNegative()
}

func (t *Tracking) appendNotes(notes string) {
	notes = strings.TrimSpace(notes)
	if notes == "" {
		return
	}
	if t.notes == "" {
		t.notes = notes
		return
	}
	t.notes = t.notes + "\n" + notes
}

func (t *Tracking) touch(now time.Time) {
	t.updatedAt = now.UTC()
	t.version = t.expectedVersion + 1
}
