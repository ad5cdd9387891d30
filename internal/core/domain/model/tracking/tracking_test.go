package tracking_test

import (
	"testing"
	"time"

	"atelier/internal/core/domain/model/department"
	"atelier/internal/core/domain/model/kernel"
	"atelier/internal/core/domain/model/tracking"
	"atelier/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 5, 2, 8, 30, 0, 0, time.UTC)

func newRow(t *testing.T, d department.Department) *tracking.Tracking {
	t.Helper()
	row, err := tracking.NewTracking(kernel.NewUUID(), kernel.NewUUID(), d, now)
	require.NoError(t, err)
	return row
}

func inProgressRow(t *testing.T) *tracking.Tracking {
	t.Helper()
	row := newRow(t, department.Casting)
	require.NoError(t, row.Assign(kernel.NewUUID(), kernel.None[decimal.Decimal](), now))
	require.NoError(t, row.Start(kernel.MustWeight("25.5"), "", now))
	return row
}

func TestNewSequence(t *testing.T) {
	orderID := kernel.NewUUID()

	rows, err := tracking.NewSequence(orderID, now)

	require.NoError(t, err)
	require.Len(t, rows, department.Count)
	for i, row := range rows {
		assert.Equal(t, i, row.SequenceIndex())
		assert.Equal(t, department.Sequence()[i], row.Department())
		assert.Equal(t, tracking.PendingAssignment, row.Status())
		assert.True(t, row.OrderID().IsEqual(orderID))
		assert.True(t, row.IsNew())
		assert.True(t, row.AssignedTo().IsNone())
	}
}

func TestTracking_Assign(t *testing.T) {
	t.Run("should move to not started", func(t *testing.T) {
		row := newRow(t, department.CAD)
		workerID := kernel.NewUUID()

		err := row.Assign(workerID, kernel.Some(decimal.NewFromInt(6)), now)

		require.NoError(t, err)
		assert.Equal(t, tracking.NotStarted, row.Status())
		assigned, ok := row.AssignedTo().Get()
		require.True(t, ok)
		assert.True(t, assigned.IsEqual(workerID))
		assert.Equal(t, "6", row.EstimatedHours().OrElse(decimal.Zero).String())
	})

	t.Run("should reject second assignment", func(t *testing.T) {
		row := newRow(t, department.CAD)
		require.NoError(t, row.Assign(kernel.NewUUID(), kernel.None[decimal.Decimal](), now))

		err := row.Assign(kernel.NewUUID(), kernel.None[decimal.Decimal](), now)

		require.ErrorIs(t, err, errs.ErrInvalidTransition)
		require.ErrorIs(t, err, tracking.ErrAlreadyAssigned)
	})

	t.Run("should reject negative estimate", func(t *testing.T) {
		row := newRow(t, department.CAD)

		err := row.Assign(kernel.NewUUID(), kernel.Some(decimal.NewFromInt(-1)), now)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Equal(t, tracking.PendingAssignment, row.Status())
	})
}

func TestTracking_Start(t *testing.T) {
	t.Run("should record weight in and start time", func(t *testing.T) {
		row := newRow(t, department.Casting)
		require.NoError(t, row.Assign(kernel.NewUUID(), kernel.None[decimal.Decimal](), now))

		err := row.Start(kernel.MustWeight("25.5"), "crucible 3", now.Add(time.Hour))

		require.NoError(t, err)
		assert.Equal(t, tracking.InProgress, row.Status())
		assert.Equal(t, "25.500", row.GoldWeightIn().OrElse(kernel.Weight{}).String())
		assert.Equal(t, now.Add(time.Hour), row.StartedAt().OrElse(time.Time{}))
		assert.Equal(t, "crucible 3", row.Notes())
	})

	t.Run("should fail with already started", func(t *testing.T) {
		row := inProgressRow(t)

		err := row.Start(kernel.MustWeight("1"), "", now)

		require.ErrorIs(t, err, errs.ErrInvalidTransition)
		require.ErrorIs(t, err, tracking.ErrAlreadyStarted)
	})

	t.Run("should fail when nobody is assigned", func(t *testing.T) {
		row := newRow(t, department.Casting)

		err := row.Start(kernel.MustWeight("1"), "", now)

		require.ErrorIs(t, err, tracking.ErrNotAssigned)
		require.ErrorIs(t, err, tracking.ErrAlreadyStarted)
		assert.Equal(t, tracking.PendingAssignment, row.Status())
	})

	t.Run("should require a constructed weight", func(t *testing.T) {
		row := newRow(t, department.Casting)
		require.NoError(t, row.Assign(kernel.NewUUID(), kernel.None[decimal.Decimal](), now))

		err := row.Start(kernel.Weight{}, "", now)

		require.ErrorIs(t, err, kernel.ErrWeightIsNotConstructed)
		assert.Equal(t, tracking.NotStarted, row.Status())
	})
}

func TestTracking_HoldResume(t *testing.T) {
	t.Run("should hold with reason and resume keeping startedAt", func(t *testing.T) {
		row := inProgressRow(t)
		started := row.StartedAt()

		require.NoError(t, row.Hold("waiting for stones", now.Add(time.Hour)))
		assert.Equal(t, tracking.OnHold, row.Status())
		assert.Equal(t, "waiting for stones", row.HoldReason())

		require.NoError(t, row.Resume(now.Add(2*time.Hour)))
		assert.Equal(t, tracking.InProgress, row.Status())
		assert.Equal(t, started, row.StartedAt())
		assert.Empty(t, row.HoldReason())
	})

	t.Run("should require a reason", func(t *testing.T) {
		row := inProgressRow(t)

		require.ErrorIs(t, row.Hold("   ", now), tracking.ErrHoldReasonIsRequired)
		assert.Equal(t, tracking.InProgress, row.Status())
	})

	t.Run("should not hold a row that has not started", func(t *testing.T) {
		row := newRow(t, department.Meena)

		require.ErrorIs(t, row.Hold("x", now), tracking.ErrNotInProgress)
	})

	t.Run("should not resume a running row", func(t *testing.T) {
		row := inProgressRow(t)

		require.ErrorIs(t, row.Resume(now), tracking.ErrNotOnHold)
	})
}

func TestTracking_Complete(t *testing.T) {
	t.Run("should derive gold loss", func(t *testing.T) {
		row := inProgressRow(t)

		require.NoError(t, row.Complete(kernel.MustWeight("24.9"), "", now.Add(3*time.Hour)))

		assert.Equal(t, tracking.Completed, row.Status())
		loss, ok := row.GoldLoss().Get()
		require.True(t, ok)
		assert.True(t, loss.Equal(decimal.RequireFromString("0.6")))
		assert.False(t, row.HasGoldGain())
		assert.Equal(t, now.Add(3*time.Hour), row.CompletedAt().OrElse(time.Time{}))
	})

	t.Run("should flag gain without failing", func(t *testing.T) {
		row := inProgressRow(t)

		require.NoError(t, row.Complete(kernel.MustWeight("26"), "", now))

		assert.True(t, row.HasGoldGain())
	})

	t.Run("should fail with not started unless in progress", func(t *testing.T) {
		row := newRow(t, department.Setting)
		require.NoError(t, row.Assign(kernel.NewUUID(), kernel.None[decimal.Decimal](), now))

		err := row.Complete(kernel.MustWeight("1"), "", now)

		require.ErrorIs(t, err, errs.ErrInvalidTransition)
		require.ErrorIs(t, err, tracking.ErrNotStarted)
	})

	t.Run("should not complete a held row", func(t *testing.T) {
		row := inProgressRow(t)
		require.NoError(t, row.Hold("loupe broke", now))

		require.ErrorIs(t, row.Complete(kernel.MustWeight("1"), "", now), tracking.ErrNotStarted)
	})
}

func TestTracking_CompletedIsTerminal(t *testing.T) {
	row := inProgressRow(t)
	require.NoError(t, row.Complete(kernel.MustWeight("25"), "", now))

	attempts := map[string]error{
		"assign":    row.Assign(kernel.NewUUID(), kernel.None[decimal.Decimal](), now),
		"start":     row.Start(kernel.MustWeight("1"), "", now),
		"hold":      row.Hold("reason", now),
		"resume":    row.Resume(now),
		"complete":  row.Complete(kernel.MustWeight("1"), "", now),
		"work data": row.UpdateWorkData(map[string]any{"a": 1}, nil, now),
	}

	for name, err := range attempts {
		t.Run(name, func(t *testing.T) {
			require.ErrorIs(t, err, errs.ErrInvalidTransition)
			require.ErrorIs(t, err, tracking.ErrRowCompleted)
		})
	}
	assert.Equal(t, tracking.Completed, row.Status())
}

func TestTracking_CompleteOnlyAfterInProgress(t *testing.T) {
	type step func(*tracking.Tracking) error
	steps := map[string]step{
		"assign": func(r *tracking.Tracking) error {
			return r.Assign(kernel.NewUUID(), kernel.None[decimal.Decimal](), now)
		},
		"start":    func(r *tracking.Tracking) error { return r.Start(kernel.MustWeight("5"), "", now) },
		"hold":     func(r *tracking.Tracking) error { return r.Hold("pause", now) },
		"resume":   func(r *tracking.Tracking) error { return r.Resume(now) },
		"complete": func(r *tracking.Tracking) error { return r.Complete(kernel.MustWeight("4"), "", now) },
	}
	names := []string{"assign", "start", "hold", "resume", "complete"}

	// Every sequence of three steps: whenever complete succeeds the row was IN_PROGRESS right before.
	for _, a := range names {
		for _, b := range names {
			for _, c := range names {
				row := newRow(t, department.Polish1)
				for _, name := range []string{a, b, c} {
					before := row.Status()
					err := steps[name](row)
					if name == "complete" && err == nil {
						assert.Equal(t, tracking.InProgress, before, "%s,%s,%s", a, b, c)
					}
					if row.Status() == tracking.Completed {
						assert.Equal(t, "complete", name)
					}
				}
			}
		}
	}
}

func TestTracking_Versioning(t *testing.T) {
	row, err := tracking.RestoreTracking(tracking.Snapshot{
		ID:            kernel.NewUUID(),
		OrderID:       kernel.NewUUID(),
		Department:    department.Filling,
		SequenceIndex: 3,
		Status:        tracking.NotStarted,
		AssignedTo:    kernel.Some(kernel.NewUUID()),
		UpdatedAt:     now,
		Version:       7,
	})
	require.NoError(t, err)

	require.NoError(t, row.Start(kernel.MustWeight("10"), "", now))
	require.NoError(t, row.Hold("lunch", now))

	assert.Equal(t, 7, row.ExpectedVersion())
	assert.Equal(t, 8, row.Version())
	assert.Equal(t, tracking.NotStarted, row.ExpectedStatus())
	assert.False(t, row.IsNew())
}

func TestRestoreTracking_Invariants(t *testing.T) {
	t.Run("should reject a sequence index that does not match the department", func(t *testing.T) {
		_, err := tracking.RestoreTracking(tracking.Snapshot{
			ID: kernel.NewUUID(), OrderID: kernel.NewUUID(),
			Department: department.Meena, SequenceIndex: 2, Status: tracking.PendingAssignment, Version: 1,
		})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "sequence index is invalid")
	})

	t.Run("should reject an unassigned in progress row", func(t *testing.T) {
		_, err := tracking.RestoreTracking(tracking.Snapshot{
			ID: kernel.NewUUID(), OrderID: kernel.NewUUID(),
			Department: department.Meena, SequenceIndex: 4, Status: tracking.InProgress, Version: 1,
		})

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})
}

func TestTracking_UpdateWorkData(t *testing.T) {
	row := newRow(t, department.CAD)
	require.ErrorIs(t, row.UpdateWorkData(map[string]any{"a": 1}, nil, now), tracking.ErrWorkDataIsClosed)

	require.NoError(t, row.Assign(kernel.NewUUID(), kernel.None[decimal.Decimal](), now))
	require.NoError(t, row.UpdateWorkData(
		map[string]any{"designFile": "ring.3dm", "revision": 2},
		[]tracking.FileRef{{Name: "front.jpg", URL: "https://files/front.jpg", Kind: "renderPhoto"}},
		now,
	))
	require.NoError(t, row.UpdateWorkData(map[string]any{"revision": nil}, nil, now))

	wd := row.WorkData()
	assert.Equal(t, "ring.3dm", wd.Fields["designFile"])
	assert.NotContains(t, wd.Fields, "revision")
	assert.Len(t, wd.Files, 1)
	assert.True(t, wd.HasValue("renderPhoto"))
	assert.False(t, wd.HasValue("revision"))
}
