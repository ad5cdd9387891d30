package activity_test

import (
	"testing"
	"time"

	"atelier/internal/core/domain/model/activity"
	"atelier/internal/core/domain/model/department"
	"atelier/internal/core/domain/model/kernel"
	"atelier/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEntry(t *testing.T) {
	orderID := kernel.NewUUID()
	actor := kernel.NewUUID()
	now := time.Date(2026, 3, 3, 9, 0, 0, 0, time.FixedZone("IST", 19800))

	e, err := activity.NewEntry(orderID, kernel.Some(department.Casting), activity.DepartmentStarted,
		kernel.Some(actor), " started with 25.5g ", now)

	require.NoError(t, err)
	assert.True(t, e.OrderID().IsEqual(orderID))
	assert.Equal(t, department.Casting, e.Department().OrElse(""))
	assert.Equal(t, activity.DepartmentStarted, e.Action())
	assert.Equal(t, "started with 25.5g", e.Message())
	assert.Equal(t, time.UTC, e.CreatedAt().Location())
}

func TestNewEntry_Invalid(t *testing.T) {
	_, err := activity.NewEntry(kernel.NewUUID(), kernel.Some(department.Department("FORGE")), activity.Action("DANCED"),
		kernel.None[kernel.UUID](), "", time.Now())

	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	assert.Contains(t, err.Error(), "DANCED")
}
