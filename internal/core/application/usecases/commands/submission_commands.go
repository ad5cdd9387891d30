package commands

import (
	"errors"
	"strings"

	"atelier/internal/core/domain/model/kernel"
	"atelier/internal/core/domain/model/submission"
	"atelier/internal/core/domain/model/worker"
	"atelier/internal/pkg/guard"
)

var (
	ErrSubmitFinalCommandIsNotConstructed = errors.New(
		"SubmitFinalCommand must be created via NewSubmitFinalCommand constructor",
	)
	ErrSetApprovalCommandIsNotConstructed = errors.New(
		"SetApprovalCommand must be created via NewSetApprovalCommand constructor",
	)
	ErrWithdrawSubmissionCommandIsNotConstructed = errors.New(
		"WithdrawSubmissionCommand must be created via NewWithdrawSubmissionCommand constructor",
	)
)

// SubmitFinalCommand closes production of an order with the final weights,
// quality data and photos.
type SubmitFinalCommand struct {
	orderID kernel.UUID
	actor   worker.Actor
	payload submission.Payload

	guard guard.ConstructorGuard
}

// NewSubmitFinalCommand checks the ids and that a final gold weight is
// present. The rest of the payload is validated when the submission is
// built, after the order and its departments have been checked.
func NewSubmitFinalCommand(orderID kernel.UUID, actor worker.Actor, payload submission.Payload) (SubmitFinalCommand, error) {
	if err := errors.Join(orderID.Validate(), actor.Validate(), payload.FinalGoldWeight.Validate()); err != nil {
		return SubmitFinalCommand{}, err
	}
	return SubmitFinalCommand{
		orderID: orderID,
		actor:   actor,
		payload: payload,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrSubmitFinalCommandIsNotConstructed if validation fails.
func (c SubmitFinalCommand) Validate() error {
	return c.guard.Validate(ErrSubmitFinalCommandIsNotConstructed)
}

func (c SubmitFinalCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c SubmitFinalCommand) Actor() worker.Actor {
	return c.actor
}

// Payload returns the submitted weights, quality data and photos.
func (c SubmitFinalCommand) Payload() submission.Payload {
	return c.payload
}

// SetApprovalCommand records the customer decision on a submission.
type SetApprovalCommand struct {
	submissionID kernel.UUID
	actor        worker.Actor
	approved     bool
	notes        string

	guard guard.ConstructorGuard
}

// NewSetApprovalCommand records approved or rejected with optional notes.
func NewSetApprovalCommand(
	submissionID kernel.UUID,
	actor worker.Actor,
	approved bool,
	notes string,
) (SetApprovalCommand, error) {
	if err := errors.Join(submissionID.Validate(), actor.Validate()); err != nil {
		return SetApprovalCommand{}, err
	}
	return SetApprovalCommand{
		submissionID: submissionID,
		actor:        actor,
		approved:     approved,
		notes:        strings.TrimSpace(notes),
		guard:        guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c SetApprovalCommand) Validate() error {
	return c.guard.Validate(ErrSetApprovalCommandIsNotConstructed)
}

func (c SetApprovalCommand) SubmissionID() kernel.UUID {
	return c.submissionID
}

func (c SetApprovalCommand) Actor() worker.Actor {
	return c.actor
}

func (c SetApprovalCommand) Approved() bool {
	return c.approved
}

func (c SetApprovalCommand) Notes() string {
	return c.notes
}

// WithdrawSubmissionCommand deletes a rejected submission so that the order
// can be submitted again.
type WithdrawSubmissionCommand struct {
	submissionID kernel.UUID
	actor        worker.Actor

	guard guard.ConstructorGuard
}

// NewWithdrawSubmissionCommand names the submission to withdraw.
func NewWithdrawSubmissionCommand(submissionID kernel.UUID, actor worker.Actor) (WithdrawSubmissionCommand, error) {
	if err := errors.Join(submissionID.Validate(), actor.Validate()); err != nil {
		return WithdrawSubmissionCommand{}, err
	}
	return WithdrawSubmissionCommand{submissionID: submissionID, actor: actor, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the command was created through the constructor.
func (c WithdrawSubmissionCommand) Validate() error {
	return c.guard.Validate(ErrWithdrawSubmissionCommandIsNotConstructed)
}

func (c WithdrawSubmissionCommand) SubmissionID() kernel.UUID {
	return c.submissionID
}

func (c WithdrawSubmissionCommand) Actor() worker.Actor {
	return c.actor
}
