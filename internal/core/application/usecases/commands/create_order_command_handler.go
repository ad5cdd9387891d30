package commands

import (
	"context"
	"errors"
	"fmt"

	"atelier/internal/core/domain/model/activity"
	"atelier/internal/core/domain/model/department"
	"atelier/internal/core/domain/model/kernel"
	"atelier/internal/core/domain/model/order"
	"atelier/internal/core/domain/model/tracking"
	"atelier/internal/core/domain/services"
	"atelier/internal/core/ports"
	"atelier/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// MaxOrderNumberAttempts bounds retries after an order number collision.
const MaxOrderNumberAttempts = 3

// CreateOrderCommandHandler creates the order, its details, stones and the
// nine department rows in one transaction.
//
// Example:
//
//	handler := NewCreateOrderCommandHandler(uowFactory, services.NewOrderNumberGenerator(), notifier, ports.SystemClock)
//	created, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    return fmt.Errorf("order creation failed: %w", err)
//	}
//	fmt.Println(created.Number())
type CreateOrderCommandHandler struct {
	uowFactory UoWFactory
	numbers    *services.OrderNumberGenerator
	resolver   services.AssignmentResolver
	notifier   ports.Notifier
	clock      ports.Clock
}

// NewCreateOrderCommandHandler creates the handler. numbers must be shared
// across handlers of one process so issued sequences never repeat.
func NewCreateOrderCommandHandler(
	uowFactory UoWFactory,
	numbers *services.OrderNumberGenerator,
	notifier ports.Notifier,
	clock ports.Clock,
) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		numbers:    numbers,
		resolver:   services.NewAssignmentResolver(),
		notifier:   notifier,
		clock:      clock,
	}
}

// Handle retries with a fresh number when storage reports the order number
// as taken; every attempt runs in its own transaction.
func (h CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	var lastErr error
	for range MaxOrderNumberAttempts {
		created, err := h.create(ctx, cmd)
		if err == nil {
			h.notifyAssignees(ctx, created, cmd)
			return created, nil
		}
		if !isNumberCollision(err) {
			return nil, err
		}
		lastErr = err
	}

	return nil, fmt.Errorf("could not allocate an order number after %d attempts: %w", MaxOrderNumberAttempts, lastErr)
}

func (h CreateOrderCommandHandler) create(ctx context.Context, cmd CreateOrderCommand) (*order.Order, error) {
	now := h.clock.Now()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()

	number, err := h.numbers.Next(ctx, orderRepo, now)
	if err != nil {
		return nil, err
	}

	created, err := order.NewOrder(cmd.OrderID(), number, cmd.CustomerRef(), cmd.Priority(), cmd.Details(), cmd.Stones(), now)
	if err != nil {
		return nil, err
	}

	rows, err := tracking.NewSequence(created.ID(), now)
	if err != nil {
		return nil, err
	}

	if err = h.assignInitial(ctx, uow.WorkerRepository(), created, rows, cmd.Assignments()); err != nil {
		return nil, err
	}

	if err = orderRepo.Add(ctx, created); err != nil {
		return nil, err
	}

	if err = uow.TrackingRepository().AddAll(ctx, rows); err != nil {
		return nil, err
	}

	if err = recordActivity(ctx, uow.ActivityLog(), created.ID(), kernel.None[department.Department](),
		activity.OrderCreated, cmd.Actor(), "order "+number.String()+" created", now); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return created, nil
}

func (h CreateOrderCommandHandler) assignInitial(
	ctx context.Context,
	workers ports.WorkerRepository,
	o *order.Order,
	rows []*tracking.Tracking,
	assignments []InitialAssignment,
) error {
	for _, a := range assignments {
		w, err := workers.Get(ctx, a.WorkerID)
		if err != nil {
			return err
		}
		if err = h.resolver.Assign(o, rows[a.Department.Index()], w, kernel.None[decimal.Decimal](), h.clock.Now()); err != nil {
			return err
		}
	}
	return nil
}

func (h CreateOrderCommandHandler) notifyAssignees(ctx context.Context, o *order.Order, cmd CreateOrderCommand) {
	for _, a := range cmd.Assignments() {
		notify(ctx, h.notifier, ports.Notification{
			Kind:        ports.NotifyWorkerAssigned,
			Recipient:   kernel.Some(a.WorkerID),
			OrderID:     o.ID(),
			OrderNumber: o.Number().String(),
			Department:  kernel.Some(a.Department),
			Message:     fmt.Sprintf("you were assigned to %s of order %s", a.Department, o.Number()),
		})
	}
}

func isNumberCollision(err error) bool {
	var exists *errs.AlreadyExistsError
	return errors.As(err, &exists) && exists.ParamName == ports.DuplicateOrderNumber
}
