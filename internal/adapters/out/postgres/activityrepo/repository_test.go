package activityrepo_test

import (
	"testing"
	"time"

	"atelier/internal/adapters/out/postgres/activityrepo"
	"atelier/internal/adapters/out/postgres/dbtest"
	"atelier/internal/core/domain/model/activity"
	"atelier/internal/core/domain/model/department"
	"atelier/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormActivityLog(t *testing.T) {
	db, err := dbtest.OpenSQLite(&activityrepo.EntryDTO{})
	require.NoError(t, err)
	log := activityrepo.NewGormActivityLog(db)

	ctx := t.Context()
	orderID := kernel.NewUUID()
	actorID := kernel.NewUUID()
	now := time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)

	record := func(orderID kernel.UUID, dept kernel.Option[department.Department], action activity.Action, msg string, at time.Time) {
		entry, entryErr := activity.NewEntry(orderID, dept, action, kernel.Some(actorID), msg, at)
		require.NoError(t, entryErr)
		require.NoError(t, log.Record(ctx, entry))
	}

	record(orderID, kernel.Some(department.CAD), activity.DepartmentStarted, "started with 25.500 g", now.Add(time.Hour))
	record(orderID, kernel.None[department.Department](), activity.OrderCreated, "order created", now)
	record(kernel.NewUUID(), kernel.None[department.Department](), activity.OrderCreated, "other order", now)

	t.Run("should list entries of one order oldest first", func(t *testing.T) {
		entries, err := log.ListByOrder(ctx, orderID)
		require.NoError(t, err)

		require.Len(t, entries, 2)
		assert.Equal(t, activity.OrderCreated, entries[0].Action())
		assert.True(t, entries[0].Department().IsNone())
		assert.Equal(t, activity.DepartmentStarted, entries[1].Action())
		assert.Equal(t, kernel.Some(department.CAD), entries[1].Department())
		assert.Equal(t, kernel.Some(actorID), entries[1].ActorID())
		assert.Equal(t, "started with 25.500 g", entries[1].Message())
		assert.True(t, now.Add(time.Hour).Equal(entries[1].CreatedAt()))
	})

	t.Run("should delete entries of one order only", func(t *testing.T) {
		require.NoError(t, log.DeleteByOrder(ctx, orderID))

		entries, err := log.ListByOrder(ctx, orderID)
		require.NoError(t, err)
		assert.Empty(t, entries)

		var count int64
		require.NoError(t, db.Model(&activityrepo.EntryDTO{}).Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})
}
