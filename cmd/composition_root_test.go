package cmd

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"atelier/internal/adapters/out/postgres"
	"atelier/internal/adapters/out/postgres/dbtest"
	"atelier/internal/core/application/usecases/commands"
	"atelier/internal/core/application/usecases/queries"
	"atelier/internal/core/domain/model/department"
	"atelier/internal/core/domain/model/kernel"
	"atelier/internal/core/domain/model/worker"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRoot(t *testing.T) *CompositionRoot {
	t.Helper()

	db, err := dbtest.OpenSQLite(postgres.Models()...)
	require.NoError(t, err)

	cfg := Config{
		AppEnv:                   "test",
		DBDriver:                 DriverSQLite,
		VarianceThresholdPercent: decimal.NewFromInt(5),
	}
	root, err := NewCompositionRoot(context.Background(), cfg, db, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return root
}

func TestCompositionRoot_WiresEveryHandler(t *testing.T) {
	root := newTestRoot(t)

	c := root.Commands()
	assert.NotNil(t, c.CreateOrder)
	assert.NotNil(t, c.UpdateOrder)
	assert.NotNil(t, c.ChangeOrderStatus)
	assert.NotNil(t, c.DeleteOrder)
	assert.NotNil(t, c.AssignWorker)
	assert.NotNil(t, c.SelfAssign)
	assert.NotNil(t, c.StartDepartment)
	assert.NotNil(t, c.CompleteDepartment)
	assert.NotNil(t, c.HoldDepartment)
	assert.NotNil(t, c.ResumeDepartment)
	assert.NotNil(t, c.UpdateWorkData)
	assert.NotNil(t, c.RequestUploadURL)
	assert.NotNil(t, c.SubmitFinal)
	assert.NotNil(t, c.SetApproval)
	assert.NotNil(t, c.WithdrawSubmission)
	assert.NotNil(t, c.RegisterWorker)

	q := root.Queries()
	assert.NotNil(t, q.GetOrder)
	assert.NotNil(t, q.ListDepartments)
	assert.NotNil(t, q.WorkerWorkload)
	assert.NotNil(t, q.GetSubmission)
	assert.NotNil(t, q.ListActivity)
	assert.NotNil(t, q.GetWorker)

	assert.NotNil(t, root.JobManager())
	require.NoError(t, root.Close())
}

func TestCompositionRoot_RegisterAndReadWorker(t *testing.T) {
	root := newTestRoot(t)
	ctx := context.Background()

	cmd, err := commands.NewRegisterWorkerCommand(kernel.NewUUID(), "Meera", worker.DepartmentWorker,
		[]department.Department{department.Setting})
	require.NoError(t, err)

	registered, err := root.CreateRegisterWorkerCommandHandler().Handle(ctx, cmd)
	require.NoError(t, err)

	query, err := queries.NewGetWorkerQuery(registered.ID())
	require.NoError(t, err)
	found, err := root.CreateGetWorkerQueryHandler().Handle(ctx, query)
	require.NoError(t, err)

	assert.Equal(t, "Meera", found.Name)
	assert.Equal(t, worker.DepartmentWorker, found.Role)
	assert.Equal(t, []department.Department{department.Setting}, found.Departments)
}

func TestCompositionRoot_UploadsDisabledWithoutBucket(t *testing.T) {
	root := newTestRoot(t)

	_, err := root.storage.PresignUpload(context.Background(), "orders/x/photo.jpg", "image/jpeg")
	assert.ErrorIs(t, err, errUploadsDisabled)
}

func TestNewCompositionRoot_RejectsBadThreshold(t *testing.T) {
	db, err := dbtest.OpenSQLite(postgres.Models()...)
	require.NoError(t, err)

	cfg := Config{VarianceThresholdPercent: decimal.NewFromInt(150)}
	_, err = NewCompositionRoot(context.Background(), cfg, db, slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.Error(t, err)
}
