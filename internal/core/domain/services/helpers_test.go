package services_test

import (
	"testing"
	"time"

	"atelier/internal/core/domain/model/department"
	"atelier/internal/core/domain/model/kernel"
	"atelier/internal/core/domain/model/order"
	"atelier/internal/core/domain/model/tracking"
	"atelier/internal/core/domain/model/worker"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 4, 10, 10, 0, 0, 0, time.UTC)

func newOrder(t *testing.T, initialWeight string) *order.Order {
	t.Helper()
	number, err := order.NewNumber(2026, 1, "AB1")
	require.NoError(t, err)
	details, err := order.NewDetails(kernel.MustWeight(initialWeight), kernel.Karat(22), now.Add(72*time.Hour), nil)
	require.NoError(t, err)
	o, err := order.NewOrder(kernel.NewUUID(), number, "CUST-1", 5, details, nil, now)
	require.NoError(t, err)
	return o
}

func releasedOrder(t *testing.T, initialWeight string) *order.Order {
	t.Helper()
	o := newOrder(t, initialWeight)
	require.NoError(t, o.Release(now))
	return o
}

func rowsFor(t *testing.T, o *order.Order) []*tracking.Tracking {
	t.Helper()
	rows, err := tracking.NewSequence(o.ID(), now)
	require.NoError(t, err)
	return rows
}

func completeRow(t *testing.T, row *tracking.Tracking) {
	t.Helper()
	require.NoError(t, row.Assign(kernel.NewUUID(), kernel.None[decimal.Decimal](), now))
	require.NoError(t, row.Start(kernel.MustWeight("10"), "", now))
	require.NoError(t, row.Complete(kernel.MustWeight("9.9"), "", now))
}

func newWorker(t *testing.T, name string, role worker.Role, departments ...department.Department) *worker.Worker {
	t.Helper()
	w, err := worker.NewWorker(kernel.NewUUID(), name, role, departments)
	require.NoError(t, err)
	return w
}
