package commands_test

import (
	"context"
	"testing"
	"time"

	"atelier/internal/core/application/usecases/commands"
	"atelier/internal/core/domain/model/activity"
	"atelier/internal/core/domain/model/department"
	"atelier/internal/core/domain/model/kernel"
	"atelier/internal/core/domain/model/order"
	"atelier/internal/core/domain/model/submission"
	"atelier/internal/core/domain/model/tracking"
	"atelier/internal/core/domain/model/worker"
	"atelier/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 2, 14, 9, 30, 0, 0, time.UTC)

var clock = ports.ClockFunc(func() time.Time { return now })

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*order.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderRepository) Delete(ctx context.Context, id kernel.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockOrderRepository) LatestSequence(ctx context.Context, year int) (int, error) {
	args := m.Called(ctx, year)
	return args.Int(0), args.Error(1)
}

func (m *MockOrderRepository) ListOverdue(ctx context.Context, at time.Time) ([]*order.Order, error) {
	args := m.Called(ctx, at)
	if v := args.Get(0); v != nil {
		return v.([]*order.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockTrackingRepository struct{ mock.Mock }

func (m *MockTrackingRepository) AddAll(ctx context.Context, rows []*tracking.Tracking) error {
	return m.Called(ctx, rows).Error(0)
}

func (m *MockTrackingRepository) Get(
	ctx context.Context,
	orderID kernel.UUID,
	d department.Department,
) (*tracking.Tracking, error) {
	args := m.Called(ctx, orderID, d)
	if v := args.Get(0); v != nil {
		return v.(*tracking.Tracking), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTrackingRepository) ListByOrder(ctx context.Context, orderID kernel.UUID) ([]*tracking.Tracking, error) {
	args := m.Called(ctx, orderID)
	if v := args.Get(0); v != nil {
		return v.([]*tracking.Tracking), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTrackingRepository) Update(ctx context.Context, row *tracking.Tracking) error {
	return m.Called(ctx, row).Error(0)
}

func (m *MockTrackingRepository) ListOnHoldSince(ctx context.Context, before time.Time) ([]*tracking.Tracking, error) {
	args := m.Called(ctx, before)
	if v := args.Get(0); v != nil {
		return v.([]*tracking.Tracking), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTrackingRepository) DeleteByOrder(ctx context.Context, orderID kernel.UUID) error {
	return m.Called(ctx, orderID).Error(0)
}

type MockSubmissionRepository struct{ mock.Mock }

func (m *MockSubmissionRepository) Add(ctx context.Context, s *submission.FinalSubmission) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockSubmissionRepository) Update(ctx context.Context, s *submission.FinalSubmission) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockSubmissionRepository) Get(ctx context.Context, id kernel.UUID) (*submission.FinalSubmission, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*submission.FinalSubmission), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSubmissionRepository) GetByOrder(
	ctx context.Context,
	orderID kernel.UUID,
) (kernel.Option[*submission.FinalSubmission], error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).(kernel.Option[*submission.FinalSubmission]), args.Error(1)
}

func (m *MockSubmissionRepository) Delete(ctx context.Context, id kernel.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockSubmissionRepository) DeleteByOrder(ctx context.Context, orderID kernel.UUID) error {
	return m.Called(ctx, orderID).Error(0)
}

type MockWorkerRepository struct{ mock.Mock }

func (m *MockWorkerRepository) Add(ctx context.Context, w *worker.Worker) error {
	return m.Called(ctx, w).Error(0)
}

func (m *MockWorkerRepository) Get(ctx context.Context, id kernel.UUID) (*worker.Worker, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*worker.Worker), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockWorkerRepository) ListByDepartment(ctx context.Context, d department.Department) ([]*worker.Worker, error) {
	args := m.Called(ctx, d)
	if v := args.Get(0); v != nil {
		return v.([]*worker.Worker), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockActivityLog struct{ mock.Mock }

func (m *MockActivityLog) Record(ctx context.Context, e *activity.Entry) error {
	return m.Called(ctx, e).Error(0)
}

func (m *MockActivityLog) DeleteByOrder(ctx context.Context, orderID kernel.UUID) error {
	return m.Called(ctx, orderID).Error(0)
}

type MockNotifier struct{ mock.Mock }

func (m *MockNotifier) Notify(ctx context.Context, n ports.Notification) error {
	return m.Called(ctx, n).Error(0)
}

type MockFileStorage struct{ mock.Mock }

func (m *MockFileStorage) PresignUpload(ctx context.Context, key, contentType string) (ports.PresignedUpload, error) {
	args := m.Called(ctx, key, contentType)
	return args.Get(0).(ports.PresignedUpload), args.Error(1)
}

type MockUoW struct {
	mock.Mock

	orders      *MockOrderRepository
	rows        *MockTrackingRepository
	submissions *MockSubmissionRepository
	workers     *MockWorkerRepository
	activity    *MockActivityLog
}

func newMockUoW() *MockUoW {
	return &MockUoW{
		orders:      new(MockOrderRepository),
		rows:        new(MockTrackingRepository),
		submissions: new(MockSubmissionRepository),
		workers:     new(MockWorkerRepository),
		activity:    new(MockActivityLog),
	}
}

func (m *MockUoW) Begin(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockUoW) OrderRepository() ports.OrderRepository           { return m.orders }
func (m *MockUoW) TrackingRepository() ports.TrackingRepository     { return m.rows }
func (m *MockUoW) SubmissionRepository() ports.SubmissionRepository { return m.submissions }
func (m *MockUoW) WorkerRepository() ports.WorkerRepository         { return m.workers }
func (m *MockUoW) ActivityLog() ports.ActivityLog                   { return m.activity }

func (m *MockUoW) assertExpectations(t *testing.T) {
	t.Helper()
	m.AssertExpectations(t)
	m.orders.AssertExpectations(t)
	m.rows.AssertExpectations(t)
	m.submissions.AssertExpectations(t)
	m.workers.AssertExpectations(t)
	m.activity.AssertExpectations(t)
}

// expectTx expects a transaction that commits with commitErr.
func (m *MockUoW) expectTx(ctx context.Context, commitErr error) {
	m.On("Begin", ctx).Return(nil).Once()
	m.On("Commit", ctx).Return(commitErr).Once()
	m.On("Rollback", ctx).Return(nil).Once()
}

// expectReadOnlyTx expects a transaction that is only rolled back.
func (m *MockUoW) expectReadOnlyTx(ctx context.Context) {
	m.On("Begin", ctx).Return(nil).Once()
	m.On("Rollback", ctx).Return(nil).Once()
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	return m.Called().Get(0).(commands.UoW)
}

func factoryFor(uows ...*MockUoW) *MockUoWFactory {
	f := new(MockUoWFactory)
	for _, u := range uows {
		f.On("Create").Return(u).Once()
	}
	return f
}

type MockWorkerUoW struct {
	mock.Mock
	workers *MockWorkerRepository
}

func (m *MockWorkerUoW) Begin(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockWorkerUoW) Commit(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockWorkerUoW) Rollback(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockWorkerUoW) WorkerRepository() ports.WorkerRepository {
	m.Called()
	return m.workers
}

type MockWorkerUoWFactory struct{ mock.Mock }

func (m *MockWorkerUoWFactory) Create() commands.WorkerUoW {
	return m.Called().Get(0).(commands.WorkerUoW)
}

// fixtures

func managerActor(t *testing.T) worker.Actor {
	t.Helper()
	a, err := worker.NewActor(kernel.NewUUID(), worker.FactoryManager, kernel.None[department.Department]())
	require.NoError(t, err)
	return a
}

func newDepartmentWorker(t *testing.T, departments ...department.Department) *worker.Worker {
	t.Helper()
	w, err := worker.NewWorker(kernel.NewUUID(), "Ravi", worker.DepartmentWorker, departments)
	require.NoError(t, err)
	return w
}

func newDraftOrder(t *testing.T, initialWeight string) *order.Order {
	t.Helper()
	number, err := order.NewNumber(2026, 12, "K9Z")
	require.NoError(t, err)
	details, err := order.NewDetails(kernel.MustWeight(initialWeight), kernel.Karat(22), now.Add(96*time.Hour),
		map[string]string{"design": "R-104"})
	require.NoError(t, err)
	o, err := order.NewOrder(kernel.NewUUID(), number, "CUST-0042", 4, details, nil, now.Add(-time.Hour))
	require.NoError(t, err)
	return o
}

func newFactoryOrder(t *testing.T, initialWeight string) *order.Order {
	t.Helper()
	o := newDraftOrder(t, initialWeight)
	require.NoError(t, o.Release(now.Add(-time.Hour)))
	return o
}

func storedRow(
	t *testing.T,
	orderID kernel.UUID,
	d department.Department,
	status tracking.Status,
	assignee kernel.Option[kernel.UUID],
) *tracking.Tracking {
	t.Helper()
	s := tracking.Snapshot{
		ID:            kernel.NewUUID(),
		OrderID:       orderID,
		Department:    d,
		SequenceIndex: d.Index(),
		Status:        status,
		AssignedTo:    assignee,
		UpdatedAt:     now.Add(-time.Hour),
		Version:       3,
	}
	if status == tracking.InProgress || status == tracking.OnHold || status == tracking.Completed {
		s.GoldWeightIn = kernel.Some(kernel.MustWeight("25.5"))
		s.StartedAt = kernel.Some(now.Add(-2 * time.Hour))
	}
	if status == tracking.OnHold {
		s.HoldReason = "waiting for stones"
	}
	if status == tracking.Completed {
		s.GoldWeightOut = kernel.Some(kernel.MustWeight("25.4"))
		s.CompletedAt = kernel.Some(now.Add(-time.Hour))
	}
	row, err := tracking.RestoreTracking(s)
	require.NoError(t, err)
	return row
}

func completedBoard(t *testing.T, orderID kernel.UUID) []*tracking.Tracking {
	t.Helper()
	rows := make([]*tracking.Tracking, 0, department.Count)
	for _, d := range department.Sequence() {
		rows = append(rows, storedRow(t, orderID, d, tracking.Completed, kernel.Some(kernel.NewUUID())))
	}
	return rows
}
