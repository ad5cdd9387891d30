package worker_test

import (
	"testing"

	"atelier/internal/core/domain/model/department"
	"atelier/internal/core/domain/model/kernel"
	"atelier/internal/core/domain/model/worker"
	"atelier/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewActor(t *testing.T) {
	a, err := worker.NewActor(kernel.NewUUID(), worker.OfficeStaff, kernel.None[department.Department]())

	require.NoError(t, err)
	assert.True(t, a.Can(worker.ViewCustomer))
	assert.False(t, a.Can(worker.AssignWorkers))

	_, err = worker.NewActor(kernel.NewUUID(), worker.DepartmentWorker, kernel.Some(department.Department("FORGE")))
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)

	require.ErrorIs(t, worker.Actor{}.Validate(), worker.ErrActorIsNotConstructed)
}

func TestActorOf(t *testing.T) {
	single, err := worker.NewWorker(kernel.NewUUID(), "Ravi", worker.DepartmentWorker,
		[]department.Department{department.Casting})
	require.NoError(t, err)
	multi, err := worker.NewWorker(kernel.NewUUID(), "Anil", worker.DepartmentWorker,
		[]department.Department{department.Casting, department.Filling})
	require.NoError(t, err)

	assert.Equal(t, department.Casting, worker.ActorOf(single).Department().OrElse(""))
	assert.True(t, worker.ActorOf(multi).Department().IsNone())
	require.NoError(t, worker.ActorOf(multi).Validate())
}
