package commands

import (
	"context"
	"fmt"
	"time"

	"atelier/internal/core/domain/model/activity"
	"atelier/internal/core/domain/model/tracking"
	"atelier/internal/core/ports"
)

// UpdateWorkDataCommandHandler records department form data on a row. The
// same ownership rules as the department transitions apply.
type UpdateWorkDataCommandHandler struct {
	uowFactory UoWFactory
	clock      ports.Clock
}

// NewUpdateWorkDataCommandHandler creates the handler.
func NewUpdateWorkDataCommandHandler(uowFactory UoWFactory, clock ports.Clock) UpdateWorkDataCommandHandler {
	return UpdateWorkDataCommandHandler{uowFactory: uowFactory, clock: clock}
}

// Handle merges the fields and files into the row's work data.
//
// Returns:
//   - the row with the merged work data
//   - InvalidTransition (tracking.ErrRowCompleted) once the row is completed
//   - InvalidTransition (tracking.ErrWorkDataIsClosed) while unassigned
func (h UpdateWorkDataCommandHandler) Handle(ctx context.Context, cmd UpdateWorkDataCommand) (*tracking.Tracking, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return runDepartmentStep(ctx, h.uowFactory, h.clock, departmentStep{
		target: cmd.departmentTarget,
		action: activity.WorkDataUpdated,
		apply: func(row *tracking.Tracking, now time.Time) error {
			files := cmd.Files()
			for i := range files {
				if files[i].UploadedAt.IsZero() {
					files[i].UploadedAt = now
				}
			}
			return row.UpdateWorkData(cmd.Fields(), files, now)
		},
		message: func(*tracking.Tracking) string {
			return fmt.Sprintf("work data updated: %d fields, %d files", len(cmd.fields), len(cmd.files))
		},
	})
}
