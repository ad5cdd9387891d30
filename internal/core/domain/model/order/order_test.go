package order_test

import (
	"testing"
	"time"

	"atelier/internal/core/domain/model/kernel"
	"atelier/internal/core/domain/model/order"
	"atelier/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

func newDetails(t *testing.T) order.Details {
	t.Helper()
	d, err := order.NewDetails(kernel.MustWeight("25.5"), 22, now.AddDate(0, 0, 21),
		map[string]string{"design": "PEACOCK-07", "size": "16"})
	require.NoError(t, err)
	return d
}

func newNumber(t *testing.T) order.Number {
	t.Helper()
	n, err := order.NewNumber(2026, 42, "K7Q")
	require.NoError(t, err)
	return n
}

func newOrder(t *testing.T) *order.Order {
	t.Helper()
	ruby, err := order.NewStone(kernel.NewUUID(), order.StoneAttributes{Type: "Ruby", Shape: "Oval"},
		kernel.MustWeight("0.12"), 6)
	require.NoError(t, err)

	o, err := order.NewOrder(kernel.NewUUID(), newNumber(t), "customer-118", 5, newDetails(t),
		[]*order.Stone{ruby}, now)
	require.NoError(t, err)
	return o
}

func TestNewOrder(t *testing.T) {
	t.Run("should create draft order", func(t *testing.T) {
		o := newOrder(t)

		require.NoError(t, o.Validate())
		assert.Equal(t, order.Draft, o.Status())
		assert.Equal(t, "ORD-2026-00042-K7Q", o.Number().String())
		assert.Equal(t, "customer-118", o.CustomerRef())
		assert.Equal(t, 5, o.Priority())
		assert.Len(t, o.Stones(), 1)
		assert.Equal(t, 1, o.Version())
		assert.Equal(t, now, o.CreatedAt())
	})

	t.Run("should reject priority outside 0..10", func(t *testing.T) {
		_, err := order.NewOrder(kernel.NewUUID(), newNumber(t), "c", 11, newDetails(t), nil, now)

		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})

	t.Run("should join all validation errors", func(t *testing.T) {
		_, err := order.NewOrder(kernel.UUID{}, order.Number{}, " ", -1, order.Details{}, nil, now)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "UUID must be created")
		assert.Contains(t, err.Error(), "order number must be created")
		assert.Contains(t, err.Error(), "customer reference")
		assert.Contains(t, err.Error(), "priority")
		assert.Contains(t, err.Error(), "order details must be created")
	})
}

func TestOrder_Lifecycle(t *testing.T) {
	t.Run("should release, revert and release again", func(t *testing.T) {
		o := newOrder(t)

		require.NoError(t, o.Release(now))
		assert.Equal(t, order.InFactory, o.Status())
		require.NoError(t, o.Revert(now))
		assert.Equal(t, order.Draft, o.Status())
		require.NoError(t, o.Release(now))
		assert.Equal(t, 1, o.Version(), "unsaved orders stay at version 1")
	})

	t.Run("should bump a stored order once per save", func(t *testing.T) {
		o := newOrder(t)
		restored, err := order.RestoreOrder(o.ID(), o.Number(), o.CustomerRef(), o.Priority(), order.Draft,
			o.Details(), nil, o.CreatedAt(), o.UpdatedAt(), 6)
		require.NoError(t, err)

		require.NoError(t, restored.Release(now))
		require.NoError(t, restored.Update(order.Changes{Priority: kernel.Some(2)}, now))

		assert.Equal(t, 7, restored.Version())
		assert.Equal(t, 6, restored.ExpectedVersion())
	})

	t.Run("should not complete a draft", func(t *testing.T) {
		o := newOrder(t)

		err := o.Complete(now)

		require.ErrorIs(t, err, errs.ErrInvalidTransition)
		assert.Equal(t, order.Draft, o.Status())
	})

	t.Run("should not revert a completed order", func(t *testing.T) {
		o := newOrder(t)
		require.NoError(t, o.Release(now))
		require.NoError(t, o.Complete(now))

		require.ErrorIs(t, o.Revert(now), errs.ErrInvalidTransition)
		require.NoError(t, o.Reopen(now))
		assert.Equal(t, order.InFactory, o.Status())
	})

	t.Run("workable only in factory", func(t *testing.T) {
		o := newOrder(t)
		require.ErrorIs(t, o.ValidateWorkable(), errs.ErrInvalidTransition)
		require.NoError(t, o.ValidateAssignable())

		require.NoError(t, o.Release(now))
		require.NoError(t, o.ValidateWorkable())

		require.NoError(t, o.Complete(now))
		require.ErrorIs(t, o.ValidateAssignable(), errs.ErrInvalidTransition)
	})
}

func TestOrder_Update(t *testing.T) {
	t.Run("should apply only present changes", func(t *testing.T) {
		o := newOrder(t)
		due := now.AddDate(0, 1, 0)

		err := o.Update(order.Changes{Priority: kernel.Some(9), DueDate: kernel.Some(due)}, now.Add(time.Hour))

		require.NoError(t, err)
		assert.Equal(t, 9, o.Priority())
		assert.Equal(t, due, o.Details().DueDate())
		assert.Equal(t, "PEACOCK-07", o.Details().ProductMetadata()["design"])
		assert.Equal(t, now.Add(time.Hour), o.UpdatedAt())
	})

	t.Run("should reject changes after completion", func(t *testing.T) {
		o := newOrder(t)
		require.NoError(t, o.Release(now))
		require.NoError(t, o.Complete(now))

		err := o.Update(order.Changes{Priority: kernel.Some(1)}, now)

		require.ErrorIs(t, err, errs.ErrInvalidTransition)
		assert.Equal(t, 5, o.Priority())
	})

	t.Run("should reject out of range priority", func(t *testing.T) {
		o := newOrder(t)

		require.ErrorIs(t, o.Update(order.Changes{Priority: kernel.Some(-1)}, now), errs.ErrValueIsOutOfRange)
	})
}

func TestNewDetails(t *testing.T) {
	t.Run("should reject zero gold weight, bad purity and missing due date", func(t *testing.T) {
		_, err := order.NewDetails(kernel.MustWeight("0"), 25, time.Time{}, nil)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "initial gold weight")
		assert.Contains(t, err.Error(), "purity")
		assert.Contains(t, err.Error(), "due date")
	})

	t.Run("metadata is copied", func(t *testing.T) {
		meta := map[string]string{"finish": "matte"}
		d, err := order.NewDetails(kernel.MustWeight("3"), 18, now, meta)
		require.NoError(t, err)

		meta["finish"] = "gloss"

		assert.Equal(t, "matte", d.ProductMetadata()["finish"])
		assert.True(t, d.IsOverdue(now.Add(time.Minute)))
	})
}

func TestNewStone(t *testing.T) {
	_, err := order.NewStone(kernel.NewUUID(), order.StoneAttributes{}, kernel.MustWeight("0.1"), 0)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "stone type")
	assert.Contains(t, err.Error(), "quantity is invalid")
}
