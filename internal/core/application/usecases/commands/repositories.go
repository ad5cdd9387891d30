// Package commands contains the workflow operations that modify state.
// All commands follow a consistent pattern: validation, transaction
// management, persistence and, after commit, best effort notification.
package commands

import (
	"context"

	"atelier/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	TrackingRepoFactory interface {
		TrackingRepository() ports.TrackingRepository
	}

	SubmissionRepoFactory interface {
		SubmissionRepository() ports.SubmissionRepository
	}

	WorkerRepoFactory interface {
		WorkerRepository() ports.WorkerRepository
	}

	ActivityLogFactory interface {
		ActivityLog() ports.ActivityLog
	}

	// WorkerUoW manages transactions for user directory operations.
	WorkerUoW interface {
		TxManager
		WorkerRepoFactory
	}

	// WorkerUoWFactory creates new worker unit of work instances.
	WorkerUoWFactory interface {
		Create() WorkerUoW
	}

	// UoW manages transactions across orders, tracking rows, submissions,
	// workers and the activity log.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   row, err := uow.TrackingRepository().Get(ctx, orderID, department.Casting)
	//   // ... transition the row
	//   err = uow.TrackingRepository().Update(ctx, row)
	//
	//   err = uow.Commit(ctx)
	UoW interface {
		TxManager
		OrderRepoFactory
		TrackingRepoFactory
		SubmissionRepoFactory
		WorkerRepoFactory
		ActivityLogFactory
	}

	// UoWFactory creates new unit of work instances.
	UoWFactory interface {
		Create() UoW
	}
)
