// Package activity records who did what to an order and when.
package activity

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"atelier/internal/core/domain/model/department"
	"atelier/internal/core/domain/model/kernel"
	"atelier/internal/pkg/errs"
)

// Action names what happened in an activity entry.
type Action string

const (
	OrderCreated        Action = "ORDER_CREATED"
	OrderUpdated        Action = "ORDER_UPDATED"
	OrderStatusChanged  Action = "ORDER_STATUS_CHANGED"
	WorkerAssigned      Action = "WORKER_ASSIGNED"
	WorkerSelfAssigned  Action = "WORKER_SELF_ASSIGNED"
	DepartmentStarted   Action = "DEPARTMENT_STARTED"
	DepartmentHeld      Action = "DEPARTMENT_HELD"
	DepartmentResumed   Action = "DEPARTMENT_RESUMED"
	DepartmentCompleted Action = "DEPARTMENT_COMPLETED"
	WorkDataUpdated     Action = "WORK_DATA_UPDATED"
	FinalSubmitted      Action = "FINAL_SUBMITTED"
	ApprovalRecorded    Action = "APPROVAL_RECORDED"
	SubmissionWithdrawn Action = "SUBMISSION_WITHDRAWN"
)

var validActions = map[Action]struct{}{
	OrderCreated: {}, OrderUpdated: {}, OrderStatusChanged: {},
	WorkerAssigned: {}, WorkerSelfAssigned: {},
	DepartmentStarted: {}, DepartmentHeld: {}, DepartmentResumed: {}, DepartmentCompleted: {},
	WorkDataUpdated: {}, FinalSubmitted: {}, ApprovalRecorded: {}, SubmissionWithdrawn: {},
}

func (a Action) Validate() error {
	if _, ok := validActions[a]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("action is invalid", fmt.Errorf("%q is not a known action", string(a)))
	}
	return nil
}

// Entry is one line of an order's activity log. Entries are append only.
type Entry struct {
	id         kernel.UUID
	orderID    kernel.UUID
	department kernel.Option[department.Department]
	action     Action
	actorID    kernel.Option[kernel.UUID]
	message    string
	createdAt  time.Time
}

// NewEntry creates an entry with a fresh id.
func NewEntry(
	orderID kernel.UUID,
	dept kernel.Option[department.Department],
	action Action,
	actorID kernel.Option[kernel.UUID],
	message string,
	now time.Time,
) (*Entry, error) {
	return RestoreEntry(kernel.NewUUID(), orderID, dept, action, actorID, message, now)
}

func RestoreEntry(
	id, orderID kernel.UUID,
	dept kernel.Option[department.Department],
	action Action,
	actorID kernel.Option[kernel.UUID],
	message string,
	createdAt time.Time,
) (*Entry, error) {
	var deptErr error
	if d, ok := dept.Get(); ok {
		deptErr = d.Validate()
	}

	if err := errors.Join(id.Validate(), orderID.Validate(), deptErr, action.Validate()); err != nil {
		return nil, err
	}

	return &Entry{
		id:         id,
		orderID:    orderID,
		department: dept,
		action:     action,
		actorID:    actorID,
		message:    strings.TrimSpace(message),
		createdAt:  createdAt.UTC(),
	}, nil
}

func (e *Entry) ID() kernel.UUID                                  { return e.id }
func (e *Entry) OrderID() kernel.UUID                             { return e.orderID }
func (e *Entry) Department() kernel.Option[department.Department] { return e.department }
func (e *Entry) Action() Action                                   { return e.action }
func (e *Entry) ActorID() kernel.Option[kernel.UUID]              { return e.actorID }
func (e *Entry) Message() string                                  { return e.message }
func (e *Entry) CreatedAt() time.Time                             { return e.createdAt }
