package commands_test

import (
	"errors"
	"testing"
	"time"

	"atelier/internal/core/application/usecases/commands"
	"atelier/internal/core/domain/model/activity"
	"atelier/internal/core/domain/model/kernel"
	"atelier/internal/core/domain/model/order"
	"atelier/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestUpdateOrderCommandHandler_Handle(t *testing.T) {
	t.Run("should apply changes and log them", func(t *testing.T) {
		ctx := t.Context()
		o := newFactoryOrder(t, "25.5")
		due := now.Add(72 * time.Hour)

		uow := newMockUoW()
		uow.expectTx(ctx, nil)
		uow.orders.On("Get", ctx, o.ID()).Return(o, nil).Once()
		uow.orders.On("Update", ctx, o).Return(nil).Once()
		uow.activity.On("Record", ctx, activityWith(activity.OrderUpdated, "order details updated")).Return(nil).Once()

		cmd, err := commands.NewUpdateOrderCommand(o.ID(), managerActor(t), order.Changes{
			Priority: kernel.Some(9),
			DueDate:  kernel.Some(due),
		})
		require.NoError(t, err)

		got, err := commands.NewUpdateOrderCommandHandler(factoryFor(uow), clock).Handle(ctx, cmd)

		require.NoError(t, err)
		assert.Equal(t, 9, got.Priority())
		assert.Equal(t, due, got.Details().DueDate())
		assert.Equal(t, map[string]string{"design": "R-104"}, got.Details().ProductMetadata())
		uow.assertExpectations(t)
	})

	t.Run("should reject changes to a completed order", func(t *testing.T) {
		ctx := t.Context()
		o := newFactoryOrder(t, "25.5")
		require.NoError(t, o.Complete(now))

		uow := newMockUoW()
		uow.expectReadOnlyTx(ctx)
		uow.orders.On("Get", ctx, o.ID()).Return(o, nil).Once()

		cmd, err := commands.NewUpdateOrderCommand(o.ID(), managerActor(t), order.Changes{Priority: kernel.Some(1)})
		require.NoError(t, err)

		_, err = commands.NewUpdateOrderCommandHandler(factoryFor(uow), clock).Handle(ctx, cmd)

		require.ErrorIs(t, err, errs.ErrInvalidTransition)
		uow.assertExpectations(t)
	})

	t.Run("should surface a stale version as conflict", func(t *testing.T) {
		ctx := t.Context()
		o := newDraftOrder(t, "25.5")

		uow := newMockUoW()
		uow.expectReadOnlyTx(ctx)
		uow.orders.On("Get", ctx, o.ID()).Return(o, nil).Once()
		uow.orders.On("Update", ctx, o).Return(errs.NewConflictError("order", o.ID())).Once()

		cmd, err := commands.NewUpdateOrderCommand(o.ID(), managerActor(t), order.Changes{Priority: kernel.Some(1)})
		require.NoError(t, err)

		_, err = commands.NewUpdateOrderCommandHandler(factoryFor(uow), clock).Handle(ctx, cmd)

		require.ErrorIs(t, err, errs.ErrConflict)
		uow.assertExpectations(t)
	})
}

func TestChangeOrderStatusCommandHandler_Handle(t *testing.T) {
	tests := []struct {
		name       string
		order      func(t *testing.T) *order.Order
		transition commands.OrderTransition
		want       order.Status
		message    string
	}{
		{
			name:       "should release a draft",
			order:      func(t *testing.T) *order.Order { return newDraftOrder(t, "25.5") },
			transition: commands.ReleaseOrder,
			want:       order.InFactory,
			message:    "DRAFT -> IN_FACTORY",
		},
		{
			name:       "should revert to draft",
			order:      func(t *testing.T) *order.Order { return newFactoryOrder(t, "25.5") },
			transition: commands.RevertOrder,
			want:       order.Draft,
			message:    "IN_FACTORY -> DRAFT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := t.Context()
			o := tt.order(t)

			uow := newMockUoW()
			uow.expectTx(ctx, nil)
			uow.orders.On("Get", ctx, o.ID()).Return(o, nil).Once()
			uow.orders.On("Update", ctx, o).Return(nil).Once()
			uow.activity.On("Record", ctx, activityWith(activity.OrderStatusChanged, tt.message)).Return(nil).Once()

			cmd, err := commands.NewChangeOrderStatusCommand(o.ID(), managerActor(t), tt.transition)
			require.NoError(t, err)

			got, err := commands.NewChangeOrderStatusCommandHandler(factoryFor(uow), clock).Handle(ctx, cmd)

			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Status())
			uow.assertExpectations(t)
		})
	}

	t.Run("should reject releasing twice", func(t *testing.T) {
		ctx := t.Context()
		o := newFactoryOrder(t, "25.5")

		uow := newMockUoW()
		uow.expectReadOnlyTx(ctx)
		uow.orders.On("Get", ctx, o.ID()).Return(o, nil).Once()

		cmd, err := commands.NewChangeOrderStatusCommand(o.ID(), managerActor(t), commands.ReleaseOrder)
		require.NoError(t, err)

		_, err = commands.NewChangeOrderStatusCommandHandler(factoryFor(uow), clock).Handle(ctx, cmd)

		require.ErrorIs(t, err, errs.ErrInvalidTransition)
		uow.assertExpectations(t)
	})

	t.Run("should reject an unknown transition", func(t *testing.T) {
		_, err := commands.NewChangeOrderStatusCommand(kernel.NewUUID(), managerActor(t), "complete")

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestDeleteOrderCommandHandler_Handle(t *testing.T) {
	t.Run("should delete owned records before the order", func(t *testing.T) {
		ctx := t.Context()
		o := newFactoryOrder(t, "25.5")

		uow := newMockUoW()
		uow.expectTx(ctx, nil)
		mock.InOrder(
			uow.orders.On("Get", ctx, o.ID()).Return(o, nil).Once(),
			uow.submissions.On("DeleteByOrder", ctx, o.ID()).Return(nil).Once(),
			uow.rows.On("DeleteByOrder", ctx, o.ID()).Return(nil).Once(),
			uow.activity.On("DeleteByOrder", ctx, o.ID()).Return(nil).Once(),
			uow.orders.On("Delete", ctx, o.ID()).Return(nil).Once(),
		)

		cmd, err := commands.NewDeleteOrderCommand(o.ID(), managerActor(t))
		require.NoError(t, err)

		err = commands.NewDeleteOrderCommandHandler(factoryFor(uow)).Handle(ctx, cmd)

		require.NoError(t, err)
		uow.assertExpectations(t)
	})

	t.Run("should not commit when a step fails", func(t *testing.T) {
		ctx := t.Context()
		o := newFactoryOrder(t, "25.5")

		uow := newMockUoW()
		uow.expectReadOnlyTx(ctx)
		uow.orders.On("Get", ctx, o.ID()).Return(o, nil).Once()
		uow.submissions.On("DeleteByOrder", ctx, o.ID()).Return(nil).Once()
		uow.rows.On("DeleteByOrder", ctx, o.ID()).Return(errors.New("connection reset")).Once()

		cmd, err := commands.NewDeleteOrderCommand(o.ID(), managerActor(t))
		require.NoError(t, err)

		err = commands.NewDeleteOrderCommandHandler(factoryFor(uow)).Handle(ctx, cmd)

		require.EqualError(t, err, "connection reset")
		uow.assertExpectations(t)
	})

	t.Run("should report a missing order", func(t *testing.T) {
		ctx := t.Context()
		id := kernel.NewUUID()

		uow := newMockUoW()
		uow.expectReadOnlyTx(ctx)
		uow.orders.On("Get", ctx, id).Return(nil, errs.NewObjectNotFoundError("order", id)).Once()

		cmd, err := commands.NewDeleteOrderCommand(id, managerActor(t))
		require.NoError(t, err)

		err = commands.NewDeleteOrderCommandHandler(factoryFor(uow)).Handle(ctx, cmd)

		require.ErrorIs(t, err, errs.ErrObjectNotFound)
		uow.assertExpectations(t)
	})
}
