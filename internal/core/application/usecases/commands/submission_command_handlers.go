package commands

import (
	"context"
	"fmt"

	"atelier/internal/core/domain/model/activity"
	"atelier/internal/core/domain/model/department"
	"atelier/internal/core/domain/model/kernel"
	"atelier/internal/core/domain/model/submission"
	"atelier/internal/core/domain/services"
	"atelier/internal/core/ports"
)

// SubmitFinalCommandHandler validates and stores the final submission and
// completes the order in the same transaction.
//
// Example:
//
//	sub, err := handler.Handle(ctx, cmd)
//	var high *submission.HighVarianceError
//	if errors.As(err, &high) {
//	    fmt.Printf("variance %s%% needs acknowledgeVariance\n", high.Variance)
//	}
type SubmitFinalCommandHandler struct {
	uowFactory UoWFactory
	validator  services.SubmissionValidator
	notifier   ports.Notifier
	clock      ports.Clock
}

// NewSubmitFinalCommandHandler creates the handler.
//
// Parameters:
//   - policy: variance threshold from configuration
//   - notifier: told about the submission after commit, may be nil
func NewSubmitFinalCommandHandler(
	uowFactory UoWFactory,
	policy submission.VariancePolicy,
	notifier ports.Notifier,
	clock ports.Clock,
) SubmitFinalCommandHandler {
	return SubmitFinalCommandHandler{
		uowFactory: uowFactory,
		validator:  services.NewSubmissionValidator(policy),
		notifier:   notifier,
		clock:      clock,
	}
}

// Handle stores the final submission and moves the order to COMPLETED.
//
// The checks run in this order: an existing submission, the order status,
// unfinished departments, then the variance policy.
//
// Returns:
//   - the stored submission with its variance
//   - AlreadyExists when the order already has a submission, including a
//     repeated submit after a successful one
//   - InvalidTransition when the order is not IN_FACTORY or a department
//     is not COMPLETED
//   - HighVarianceUnacknowledged (*submission.HighVarianceError) above the
//     threshold without acknowledgement
func (h SubmitFinalCommandHandler) Handle(ctx context.Context, cmd SubmitFinalCommand) (*submission.FinalSubmission, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	now := h.clock.Now()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	submissionRepo := uow.SubmissionRepository()

	o, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	rows, err := uow.TrackingRepository().ListByOrder(ctx, o.ID())
	if err != nil {
		return nil, err
	}

	existing, err := submissionRepo.GetByOrder(ctx, o.ID())
	if err != nil {
		return nil, err
	}

	variance, err := h.validator.Validate(o, rows, existing, cmd.Payload())
	if err != nil {
		return nil, err
	}

	sub, err := submission.NewFinalSubmission(kernel.NewUUID(), o.ID(), cmd.Payload(), variance, cmd.Actor().ID(), now)
	if err != nil {
		return nil, err
	}

	if err = o.Complete(now); err != nil {
		return nil, err
	}

	if err = submissionRepo.Add(ctx, sub); err != nil {
		return nil, err
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		return nil, err
	}

	message := fmt.Sprintf("final gold %s g, variance %s%%", sub.FinalGoldWeight(), variance.Rounded().StringFixed(2))
	if variance.IsGain() {
		message += " (weight gain, review)"
	}
	if err = recordActivity(ctx, uow.ActivityLog(), o.ID(), kernel.None[department.Department](),
		activity.FinalSubmitted, cmd.Actor(), message, now); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	notify(ctx, h.notifier, ports.Notification{
		Kind:        ports.NotifyFinalSubmitted,
		OrderID:     o.ID(),
		OrderNumber: o.Number().String(),
		Message:     fmt.Sprintf("order %s submitted: %s", o.Number(), message),
	})

	return sub, nil
}

// SetApprovalCommandHandler overwrites the approval decision. The order
// stays COMPLETED whatever the decision.
type SetApprovalCommandHandler struct {
	uowFactory UoWFactory
	notifier   ports.Notifier
	clock      ports.Clock
}

// NewSetApprovalCommandHandler creates the handler. notifier may be nil.
func NewSetApprovalCommandHandler(uowFactory UoWFactory, notifier ports.Notifier, clock ports.Clock) SetApprovalCommandHandler {
	return SetApprovalCommandHandler{uowFactory: uowFactory, notifier: notifier, clock: clock}
}

// Handle overwrites the approval on the submission with a compare-and-swap
// on its version and notifies after commit.
//
// Returns:
//   - the submission carrying the new decision
//   - ObjectNotFound for an unknown submission
//   - Conflict when another decision was stored first
func (h SetApprovalCommandHandler) Handle(ctx context.Context, cmd SetApprovalCommand) (*submission.FinalSubmission, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	now := h.clock.Now()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	submissionRepo := uow.SubmissionRepository()

	sub, err := submissionRepo.Get(ctx, cmd.SubmissionID())
	if err != nil {
		return nil, err
	}

	sub.SetApproval(cmd.Approved(), cmd.Notes(), now)

	if err = submissionRepo.Update(ctx, sub); err != nil {
		return nil, err
	}

	decision := "rejected"
	if cmd.Approved() {
		decision = "approved"
	}
	message := decision
	if cmd.Notes() != "" {
		message += ": " + cmd.Notes()
	}
	if err = recordActivity(ctx, uow.ActivityLog(), sub.OrderID(), kernel.None[department.Department](),
		activity.ApprovalRecorded, cmd.Actor(), message, now); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	notify(ctx, h.notifier, ports.Notification{
		Kind:    ports.NotifyApprovalRecorded,
		OrderID: sub.OrderID(),
		Message: "final submission " + message,
	})

	return sub, nil
}

// WithdrawSubmissionCommandHandler deletes a rejected submission and reopens
// the order to IN_FACTORY for a resubmission.
type WithdrawSubmissionCommandHandler struct {
	uowFactory UoWFactory
	clock      ports.Clock
}

// NewWithdrawSubmissionCommandHandler creates the handler.
func NewWithdrawSubmissionCommandHandler(uowFactory UoWFactory, clock ports.Clock) WithdrawSubmissionCommandHandler {
	return WithdrawSubmissionCommandHandler{uowFactory: uowFactory, clock: clock}
}

// Handle deletes the rejected submission and reopens its order in one
// transaction.
//
// Returns:
//   - nil once the order is back IN_FACTORY
//   - InvalidTransition (submission.ErrNotRejected) for a pending or
//     approved submission
//
// Example:
//
//	cmd, _ := NewWithdrawSubmissionCommand(subID, manager)
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return err
//	}
//	// the order accepts a new SubmitFinalCommand
func (h WithdrawSubmissionCommandHandler) Handle(ctx context.Context, cmd WithdrawSubmissionCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	now := h.clock.Now()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	submissionRepo := uow.SubmissionRepository()
	orderRepo := uow.OrderRepository()

	sub, err := submissionRepo.Get(ctx, cmd.SubmissionID())
	if err != nil {
		return err
	}

	if err = sub.ValidateWithdrawable(); err != nil {
		return err
	}

	o, err := orderRepo.Get(ctx, sub.OrderID())
	if err != nil {
		return err
	}

	if err = o.Reopen(now); err != nil {
		return err
	}

	if err = submissionRepo.Delete(ctx, sub.ID()); err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		return err
	}

	if err = recordActivity(ctx, uow.ActivityLog(), o.ID(), kernel.None[department.Department](),
		activity.SubmissionWithdrawn, cmd.Actor(), "rejected submission withdrawn, order reopened", now); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
