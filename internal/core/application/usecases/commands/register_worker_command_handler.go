package commands

import (
	"context"

	"atelier/internal/core/domain/model/worker"
)

// RegisterWorkerCommandHandler persists a new worker.
type RegisterWorkerCommandHandler struct {
	uowFactory WorkerUoWFactory
}

// NewRegisterWorkerCommandHandler creates the handler on the worker
// directory unit of work.
func NewRegisterWorkerCommandHandler(uowFactory WorkerUoWFactory) RegisterWorkerCommandHandler {
	return RegisterWorkerCommandHandler{uowFactory: uowFactory}
}

// Handle adds the worker to the directory.
//
// Returns:
//   - the stored worker
//   - ValueIsRequired for a department worker without departments
//   - AlreadyExists when the id is taken
func (h RegisterWorkerCommandHandler) Handle(ctx context.Context, cmd RegisterWorkerCommand) (*worker.Worker, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	w, err := worker.NewWorker(cmd.WorkerID(), cmd.Name(), cmd.Role(), cmd.Departments())
	if err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.WorkerRepository().Add(ctx, w); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return w, nil
}
