package commands_test

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"atelier/internal/core/application/usecases/commands"
	"atelier/internal/core/domain/model/activity"
	"atelier/internal/core/domain/model/department"
	"atelier/internal/core/domain/model/kernel"
	"atelier/internal/core/domain/model/order"
	"atelier/internal/core/domain/model/tracking"
	"atelier/internal/core/domain/model/worker"
	"atelier/internal/core/ports"
	"atelier/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestUpdateWorkDataCommandHandler_Handle(t *testing.T) {
	t.Run("should merge fields and stamp new files", func(t *testing.T) {
		ctx := t.Context()
		o := newFactoryOrder(t, "25.5")
		row := storedRow(t, o.ID(), department.CAD, tracking.InProgress, kernel.Some(kernel.NewUUID()))

		uow := newMockUoW()
		uow.expectTx(ctx, nil)
		uow.orders.On("Get", ctx, o.ID()).Return(o, nil).Once()
		uow.rows.On("Get", ctx, o.ID(), department.CAD).Return(row, nil).Once()
		uow.rows.On("Update", ctx, row).Return(nil).Once()
		uow.activity.On("Record", ctx, activityWith(activity.WorkDataUpdated, "work data updated: 2 fields, 1 files")).
			Return(nil).Once()

		cmd, err := commands.NewUpdateWorkDataCommand(o.ID(), department.CAD, managerActor(t),
			map[string]any{"designFile": "R-104.3dm", "revision": 2},
			[]tracking.FileRef{{Name: "render.png", URL: "https://files.example/render.png", Kind: "render"}})
		require.NoError(t, err)

		got, err := commands.NewUpdateWorkDataCommandHandler(factoryFor(uow), clock).Handle(ctx, cmd)

		require.NoError(t, err)
		wd := got.WorkData()
		assert.Equal(t, "R-104.3dm", wd.Fields["designFile"])
		require.Len(t, wd.Files, 1)
		assert.Equal(t, now, wd.Files[0].UploadedAt)
		assert.True(t, wd.HasValue("render"))
		uow.assertExpectations(t)
	})

	t.Run("should refuse edits on a completed row", func(t *testing.T) {
		ctx := t.Context()
		o := newFactoryOrder(t, "25.5")
		row := storedRow(t, o.ID(), department.CAD, tracking.Completed, kernel.Some(kernel.NewUUID()))

		uow := newMockUoW()
		uow.expectReadOnlyTx(ctx)
		uow.orders.On("Get", ctx, o.ID()).Return(o, nil).Once()
		uow.rows.On("Get", ctx, o.ID(), department.CAD).Return(row, nil).Once()

		cmd, err := commands.NewUpdateWorkDataCommand(o.ID(), department.CAD, managerActor(t),
			map[string]any{"designFile": "R-105.3dm"}, nil)
		require.NoError(t, err)

		_, err = commands.NewUpdateWorkDataCommandHandler(factoryFor(uow), clock).Handle(ctx, cmd)

		require.ErrorIs(t, err, tracking.ErrRowCompleted)
		uow.assertExpectations(t)
	})
}

func TestNotifyOverdueOrdersCommandHandler_Handle(t *testing.T) {
	t.Run("should notify once per overdue order", func(t *testing.T) {
		ctx := t.Context()
		first, second := newFactoryOrder(t, "25.5"), newFactoryOrder(t, "12")

		uow := newMockUoW()
		uow.expectReadOnlyTx(ctx)
		uow.orders.On("ListOverdue", ctx, now).Return([]*order.Order{first, second}, nil).Once()

		notifier := new(MockNotifier)
		notifier.On("Notify", ctx, mock.MatchedBy(func(n ports.Notification) bool {
			return n.Kind == ports.NotifyOrderOverdue
		})).Return(nil).Twice()

		sent, err := commands.NewNotifyOverdueOrdersCommandHandler(factoryFor(uow), notifier, clock).
			Handle(ctx, commands.NewNotifyOverdueOrdersCommand())

		require.NoError(t, err)
		assert.Equal(t, 2, sent)
		uow.assertExpectations(t)
		notifier.AssertExpectations(t)
	})

	t.Run("should report when nothing is overdue", func(t *testing.T) {
		ctx := t.Context()

		uow := newMockUoW()
		uow.expectReadOnlyTx(ctx)
		uow.orders.On("ListOverdue", ctx, now).Return([]*order.Order{}, nil).Once()

		_, err := commands.NewNotifyOverdueOrdersCommandHandler(factoryFor(uow), nil, clock).
			Handle(ctx, commands.NewNotifyOverdueOrdersCommand())

		require.ErrorIs(t, err, commands.ErrNoOverdueOrders)
		uow.assertExpectations(t)
	})
}

func TestNotifyOverdueOrdersCommandHandler_LogsFailedNotification(t *testing.T) {
	var logs bytes.Buffer
	previous := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&logs, nil)))
	t.Cleanup(func() { slog.SetDefault(previous) })

	ctx := t.Context()
	o := newFactoryOrder(t, "25.5")

	uow := newMockUoW()
	uow.expectReadOnlyTx(ctx)
	uow.orders.On("ListOverdue", ctx, now).Return([]*order.Order{o}, nil).Once()

	notifier := new(MockNotifier)
	notifier.On("Notify", ctx, mock.Anything).Return(errors.New("webhook returned 502")).Once()

	sent, err := commands.NewNotifyOverdueOrdersCommandHandler(factoryFor(uow), notifier, clock).
		Handle(ctx, commands.NewNotifyOverdueOrdersCommand())

	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	assert.Contains(t, logs.String(), `"msg":"notification failed"`)
	assert.Contains(t, logs.String(), `"kind":"ORDER_OVERDUE"`)
	assert.Contains(t, logs.String(), "webhook returned 502")
	assert.Contains(t, logs.String(), o.Number().String())
	uow.assertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestNotifyStaleHoldsCommandHandler_Handle(t *testing.T) {
	t.Run("should remind assignees and load each order once", func(t *testing.T) {
		ctx := t.Context()
		o := newFactoryOrder(t, "25.5")
		casterID, setterID := kernel.NewUUID(), kernel.NewUUID()
		rows := []*tracking.Tracking{
			storedRow(t, o.ID(), department.Casting, tracking.OnHold, kernel.Some(casterID)),
			storedRow(t, o.ID(), department.Setting, tracking.OnHold, kernel.Some(setterID)),
		}

		uow := newMockUoW()
		uow.expectReadOnlyTx(ctx)
		uow.rows.On("ListOnHoldSince", ctx, now.Add(-48*time.Hour)).Return(rows, nil).Once()
		uow.orders.On("Get", ctx, o.ID()).Return(o, nil).Once()

		var recipients []kernel.UUID
		notifier := new(MockNotifier)
		notifier.On("Notify", ctx, mock.MatchedBy(func(n ports.Notification) bool {
			return n.Kind == ports.NotifyStaleHold && strings.Contains(n.Message, "waiting for stones")
		})).Run(func(args mock.Arguments) {
			r, _ := args.Get(1).(ports.Notification).Recipient.Get()
			recipients = append(recipients, r)
		}).Return(nil).Twice()

		cmd, err := commands.NewNotifyStaleHoldsCommand(48 * time.Hour)
		require.NoError(t, err)

		sent, err := commands.NewNotifyStaleHoldsCommandHandler(factoryFor(uow), notifier, clock).Handle(ctx, cmd)

		require.NoError(t, err)
		assert.Equal(t, 2, sent)
		assert.Equal(t, []kernel.UUID{casterID, setterID}, recipients)
		uow.assertExpectations(t)
		notifier.AssertExpectations(t)
	})

	t.Run("should reject a non-positive threshold", func(t *testing.T) {
		_, err := commands.NewNotifyStaleHoldsCommand(0)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestRequestUploadURLCommandHandler_Handle(t *testing.T) {
	ctx := t.Context()
	o := newFactoryOrder(t, "25.5")

	uow := newMockUoW()
	uow.expectReadOnlyTx(ctx)
	uow.orders.On("Get", ctx, o.ID()).Return(o, nil).Once()

	upload := ports.PresignedUpload{
		UploadURL: "https://bucket.example/put",
		FileURL:   "https://bucket.example/get",
		ExpiresAt: now.Add(15 * time.Minute),
	}
	storage := new(MockFileStorage)
	storage.On("PresignUpload", ctx, mock.MatchedBy(func(key string) bool {
		return strings.HasPrefix(key, "orders/"+o.ID().String()+"/polish_1/") &&
			strings.HasSuffix(key, "-front_view.jpg")
	}), "image/jpeg").Return(upload, nil).Once()

	cmd, err := commands.NewRequestUploadURLCommand(o.ID(), kernel.Some(department.Polish1),
		"../photos/front view.jpg", "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "front_view.jpg", cmd.FileName())

	got, err := commands.NewRequestUploadURLCommandHandler(factoryFor(uow), storage).Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, upload, got)
	uow.assertExpectations(t)
	storage.AssertExpectations(t)
}

func TestNewRequestUploadURLCommand_Validation(t *testing.T) {
	_, err := commands.NewRequestUploadURLCommand(kernel.NewUUID(), kernel.None[department.Department](),
		"", "text/html")

	require.ErrorIs(t, err, commands.ErrFileNameIsRequired)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestRegisterWorkerCommandHandler_Handle(t *testing.T) {
	t.Run("should persist the worker", func(t *testing.T) {
		ctx := t.Context()
		id := kernel.NewUUID()

		workers := new(MockWorkerRepository)
		workers.On("Add", ctx, mock.MatchedBy(func(w *worker.Worker) bool {
			return w.ID().IsEqual(id) && w.WorksIn(department.Polish2)
		})).Return(nil).Once()

		uow := &MockWorkerUoW{workers: workers}
		uow.On("Begin", ctx).Return(nil).Once()
		uow.On("WorkerRepository").Return().Once()
		uow.On("Commit", ctx).Return(nil).Once()
		uow.On("Rollback", ctx).Return(nil).Once()

		factory := new(MockWorkerUoWFactory)
		factory.On("Create").Return(uow).Once()

		cmd, err := commands.NewRegisterWorkerCommand(id, " Anita ", worker.DepartmentWorker,
			[]department.Department{department.Polish1, department.Polish2})
		require.NoError(t, err)

		got, err := commands.NewRegisterWorkerCommandHandler(factory).Handle(ctx, cmd)

		require.NoError(t, err)
		assert.Equal(t, "Anita", got.Name())
		uow.AssertExpectations(t)
		workers.AssertExpectations(t)
		factory.AssertExpectations(t)
	})

	t.Run("should reject a department worker without departments", func(t *testing.T) {
		cmd, err := commands.NewRegisterWorkerCommand(kernel.NewUUID(), "Anita", worker.DepartmentWorker, nil)
		require.NoError(t, err)

		factory := new(MockWorkerUoWFactory)
		_, err = commands.NewRegisterWorkerCommandHandler(factory).Handle(t.Context(), cmd)

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
		factory.AssertNotCalled(t, "Create")
	})

	t.Run("should pass through a duplicate id", func(t *testing.T) {
		ctx := t.Context()
		id := kernel.NewUUID()

		workers := new(MockWorkerRepository)
		workers.On("Add", ctx, mock.Anything).Return(errs.NewAlreadyExistsError("worker", id)).Once()

		uow := &MockWorkerUoW{workers: workers}
		uow.On("Begin", ctx).Return(nil).Once()
		uow.On("WorkerRepository").Return().Once()
		uow.On("Rollback", ctx).Return(nil).Once()

		factory := new(MockWorkerUoWFactory)
		factory.On("Create").Return(uow).Once()

		cmd, err := commands.NewRegisterWorkerCommand(id, "Anita", worker.OfficeStaff, nil)
		require.NoError(t, err)

		_, err = commands.NewRegisterWorkerCommandHandler(factory).Handle(ctx, cmd)

		require.True(t, errors.Is(err, errs.ErrAlreadyExists))
		uow.AssertExpectations(t)
	})
}
