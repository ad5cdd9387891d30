package commands_test

import (
	"errors"
	"testing"
	"time"

	"atelier/internal/core/application/usecases/commands"
	"atelier/internal/core/domain/model/activity"
	"atelier/internal/core/domain/model/department"
	"atelier/internal/core/domain/model/kernel"
	"atelier/internal/core/domain/model/order"
	"atelier/internal/core/domain/model/tracking"
	"atelier/internal/core/domain/services"
	"atelier/internal/core/ports"
	"atelier/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newCreateOrderCommand(
	t *testing.T,
	assignments map[department.Department]kernel.UUID,
) commands.CreateOrderCommand {
	t.Helper()
	details, err := order.NewDetails(kernel.MustWeight("25.5"), kernel.Karat(22), now.Add(240*time.Hour), nil)
	require.NoError(t, err)
	stone, err := order.NewStone(kernel.NewUUID(), order.StoneAttributes{Type: "ruby", Shape: "oval"},
		kernel.MustWeight("0.35"), 3)
	require.NoError(t, err)
	cmd, err := commands.NewCreateOrderCommand(kernel.NewUUID(), managerActor(t), "CUST-0042", 7, details,
		[]*order.Stone{stone}, assignments)
	require.NoError(t, err)
	return cmd
}

func TestCreateOrderCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	cad := newDepartmentWorker(t, department.CAD)
	cmd := newCreateOrderCommand(t, map[department.Department]kernel.UUID{department.CAD: cad.ID()})

	uow := newMockUoW()
	uow.expectTx(ctx, nil)
	uow.orders.On("LatestSequence", ctx, 2026).Return(41, nil).Once()
	uow.workers.On("Get", ctx, cad.ID()).Return(cad, nil).Once()
	uow.orders.On("Add", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Once()
	uow.rows.On("AddAll", ctx, mock.MatchedBy(func(rows []*tracking.Tracking) bool {
		if len(rows) != department.Count {
			return false
		}
		for i, row := range rows {
			if row.SequenceIndex() != i {
				return false
			}
		}
		return rows[0].Status() == tracking.NotStarted && rows[1].Status() == tracking.PendingAssignment
	})).Return(nil).Once()
	uow.activity.On("Record", ctx, mock.MatchedBy(func(e *activity.Entry) bool {
		return e.Action() == activity.OrderCreated
	})).Return(nil).Once()

	notifier := new(MockNotifier)
	notifier.On("Notify", ctx, mock.MatchedBy(func(n ports.Notification) bool {
		recipient, _ := n.Recipient.Get()
		return n.Kind == ports.NotifyWorkerAssigned && recipient.IsEqual(cad.ID())
	})).Return(nil).Once()

	factory := factoryFor(uow)
	h := commands.NewCreateOrderCommandHandler(factory, services.NewOrderNumberGenerator(), notifier, clock)

	created, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, order.Draft, created.Status())
	assert.Equal(t, 42, created.Number().Sequence())
	assert.Equal(t, 2026, created.Number().Year())
	assert.Len(t, created.Stones(), 1)
	uow.assertExpectations(t)
	notifier.AssertExpectations(t)
	factory.AssertExpectations(t)
}

func TestCreateOrderCommandHandler_Handle_RetriesOnNumberCollision(t *testing.T) {
	ctx := t.Context()
	cmd := newCreateOrderCommand(t, nil)

	first := newMockUoW()
	first.On("Begin", ctx).Return(nil).Once()
	first.On("Rollback", ctx).Return(nil).Once()
	first.orders.On("LatestSequence", ctx, 2026).Return(7, nil).Once()
	first.orders.On("Add", ctx, mock.AnythingOfType("*order.Order")).
		Return(errs.NewAlreadyExistsError(ports.DuplicateOrderNumber, "ORD-2026-00008-AAA")).Once()

	second := newMockUoW()
	second.expectTx(ctx, nil)
	second.orders.On("LatestSequence", ctx, 2026).Return(8, nil).Once()
	second.orders.On("Add", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Once()
	second.rows.On("AddAll", ctx, mock.Anything).Return(nil).Once()
	second.activity.On("Record", ctx, mock.Anything).Return(nil).Once()

	factory := factoryFor(first, second)
	h := commands.NewCreateOrderCommandHandler(factory, services.NewOrderNumberGenerator(), nil, clock)

	created, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, 9, created.Number().Sequence())
	first.assertExpectations(t)
	second.assertExpectations(t)
	factory.AssertExpectations(t)
}

func TestCreateOrderCommandHandler_Handle_GivesUpAfterMaxAttempts(t *testing.T) {
	ctx := t.Context()
	cmd := newCreateOrderCommand(t, nil)

	uows := make([]*MockUoW, commands.MaxOrderNumberAttempts)
	for i := range uows {
		u := newMockUoW()
		u.On("Begin", ctx).Return(nil).Once()
		u.On("Rollback", ctx).Return(nil).Once()
		u.orders.On("LatestSequence", ctx, 2026).Return(0, nil).Once()
		u.orders.On("Add", ctx, mock.Anything).
			Return(errs.NewAlreadyExistsError(ports.DuplicateOrderNumber, "x")).Once()
		uows[i] = u
	}

	h := commands.NewCreateOrderCommandHandler(factoryFor(uows...), services.NewOrderNumberGenerator(), nil, clock)

	_, err := h.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrAlreadyExists)
	for _, u := range uows {
		u.assertExpectations(t)
	}
}

func TestCreateOrderCommandHandler_Handle_RejectsIneligibleInitialAssignment(t *testing.T) {
	ctx := t.Context()
	polisher := newDepartmentWorker(t, department.Polish1)
	cmd := newCreateOrderCommand(t, map[department.Department]kernel.UUID{department.CAD: polisher.ID()})

	uow := newMockUoW()
	uow.expectReadOnlyTx(ctx)
	uow.orders.On("LatestSequence", ctx, 2026).Return(0, nil).Once()
	uow.workers.On("Get", ctx, polisher.ID()).Return(polisher, nil).Once()

	h := commands.NewCreateOrderCommandHandler(factoryFor(uow), services.NewOrderNumberGenerator(), nil, clock)

	_, err := h.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	uow.assertExpectations(t)
}

func TestCreateOrderCommandHandler_Handle_ValidationError(t *testing.T) {
	h := commands.NewCreateOrderCommandHandler(new(MockUoWFactory), services.NewOrderNumberGenerator(), nil, clock)

	_, err := h.Handle(t.Context(), commands.CreateOrderCommand{})

	require.ErrorIs(t, err, commands.ErrCreateOrderCommandIsNotConstructed)
}

func TestCreateOrderCommandHandler_Handle_BeginError(t *testing.T) {
	ctx := t.Context()
	cmd := newCreateOrderCommand(t, nil)

	uow := newMockUoW()
	uow.On("Begin", ctx).Return(errors.New("begin error")).Once()

	h := commands.NewCreateOrderCommandHandler(factoryFor(uow), services.NewOrderNumberGenerator(), nil, clock)

	_, err := h.Handle(ctx, cmd)

	require.EqualError(t, err, "begin error")
	uow.assertExpectations(t)
}

func TestCreateOrderCommandHandler_Handle_CommitError(t *testing.T) {
	ctx := t.Context()
	cmd := newCreateOrderCommand(t, nil)

	uow := newMockUoW()
	uow.expectTx(ctx, errors.New("commit error"))
	uow.orders.On("LatestSequence", ctx, 2026).Return(0, nil).Once()
	uow.orders.On("Add", ctx, mock.Anything).Return(nil).Once()
	uow.rows.On("AddAll", ctx, mock.Anything).Return(nil).Once()
	uow.activity.On("Record", ctx, mock.Anything).Return(nil).Once()

	h := commands.NewCreateOrderCommandHandler(factoryFor(uow), services.NewOrderNumberGenerator(), nil, clock)

	_, err := h.Handle(ctx, cmd)

	require.EqualError(t, err, "commit error")
	uow.assertExpectations(t)
}

func TestNewCreateOrderCommand_Validation(t *testing.T) {
	details, err := order.NewDetails(kernel.MustWeight("1"), kernel.Karat(18), now, nil)
	require.NoError(t, err)

	_, err = commands.NewCreateOrderCommand(kernel.NewUUID(), managerActor(t), " ", 11, details, nil,
		map[department.Department]kernel.UUID{"FORGE": kernel.NewUUID()})

	require.ErrorIs(t, err, order.ErrCustomerIsRequired)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	assert.Contains(t, err.Error(), "priority")
	assert.Contains(t, err.Error(), "FORGE")
}
