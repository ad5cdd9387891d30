package queries_test

import (
	"testing"

	"atelier/internal/core/application/usecases/queries"
	"atelier/internal/core/domain/model/department"
	"atelier/internal/core/domain/model/kernel"
	"atelier/internal/core/domain/model/worker"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueries_NotConstructedViaConstructor(t *testing.T) {
	tests := []struct {
		name     string
		validate func() error
		want     error
	}{
		{"get order", queries.GetOrderQuery{}.Validate, queries.ErrGetOrderQueryIsNotConstructed},
		{"list departments", queries.ListDepartmentsQuery{}.Validate, queries.ErrListDepartmentsQueryIsNotConstructed},
		{"worker workload", queries.WorkerWorkloadQuery{}.Validate, queries.ErrWorkerWorkloadQueryIsNotConstructed},
		{"get submission", queries.GetSubmissionQuery{}.Validate, queries.ErrGetSubmissionQueryIsNotConstructed},
		{"list activity", queries.ListActivityQuery{}.Validate, queries.ErrListActivityQueryIsNotConstructed},
		{"get worker", queries.GetWorkerQuery{}.Validate, queries.ErrGetWorkerQueryIsNotConstructed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestQueries_RejectZeroIdentifiers(t *testing.T) {
	actor, err := worker.NewActor(kernel.NewUUID(), worker.Admin, kernel.None[department.Department]())
	require.NoError(t, err)

	_, err = queries.NewGetOrderQuery(kernel.UUID{}, actor)
	assert.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)

	_, err = queries.NewGetOrderQuery(kernel.NewUUID(), worker.Actor{})
	assert.Error(t, err)

	_, err = queries.NewListDepartmentsQuery(kernel.UUID{})
	assert.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)

	_, err = queries.NewGetSubmissionQuery(kernel.UUID{})
	assert.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)

	_, err = queries.NewListActivityQuery(kernel.UUID{})
	assert.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)

	_, err = queries.NewGetWorkerQuery(kernel.UUID{})
	assert.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)

	_, err = queries.NewWorkerWorkloadQuery(department.Department("ENGRAVING"))
	assert.Error(t, err)
}

func TestQueries_ValidWhenConstructed(t *testing.T) {
	actor, err := worker.NewActor(kernel.NewUUID(), worker.OfficeStaff, kernel.None[department.Department]())
	require.NoError(t, err)
	orderID := kernel.NewUUID()

	getOrder, err := queries.NewGetOrderQuery(orderID, actor)
	require.NoError(t, err)
	assert.NoError(t, getOrder.Validate())
	assert.Equal(t, orderID, getOrder.OrderID())
	assert.Equal(t, actor, getOrder.Actor())

	workload, err := queries.NewWorkerWorkloadQuery(department.Setting)
	require.NoError(t, err)
	assert.NoError(t, workload.Validate())
	assert.Equal(t, department.Setting, workload.Department())
}
