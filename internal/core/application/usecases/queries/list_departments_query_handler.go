package queries

import (
	"context"
	"database/sql"
	"errors"

	"atelier/internal/core/domain/model/department"
	"atelier/internal/core/domain/model/kernel"
	"atelier/internal/core/domain/model/order"
	"atelier/internal/core/domain/model/tracking"
	"atelier/internal/core/domain/services"
	"atelier/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ListDepartmentsQueryHandler builds the department board from raw rows.
// Progress is derived with the same aggregator the command side uses, so
// aggregates are never loaded for a read.
//
// Example:
//
//	handler := NewListDepartmentsQueryHandler(db, formschema.MustDefault())
//	query, _ := NewListDepartmentsQuery(orderID)
//	board, err := handler.Handle(ctx, query)
//	for _, d := range board.Departments {
//	    fmt.Printf("%-10s %-18s %3d%%\n", d.Department, d.Status, d.Progress)
//	}
type ListDepartmentsQueryHandler struct {
	db         *gorm.DB
	aggregator services.ProgressAggregator
}

// NewListDepartmentsQueryHandler creates the handler. schema decides the
// per department progress.
func NewListDepartmentsQueryHandler(db *gorm.DB, schema services.FormSchema) ListDepartmentsQueryHandler {
	return ListDepartmentsQueryHandler{
		db:         db,
		aggregator: services.NewProgressAggregator(schema),
	}
}

// Handle returns the board with the order level progress.
//
// Returns:
//   - the board with nine rows for a seeded order
//   - ObjectNotFound for an unknown order
func (h ListDepartmentsQueryHandler) Handle(
	ctx context.Context,
	query ListDepartmentsQuery,
) (ListDepartmentsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return ListDepartmentsQueryResponse{}, err
	}

	resp := ListDepartmentsQueryResponse{OrderID: query.OrderID()}

	var status int
	err := h.db.WithContext(ctx).
		Raw(`SELECT number, status FROM orders WHERE id = ?`, query.OrderID().Bytes()).
		Row().
		Scan(&resp.OrderNumber, &status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ListDepartmentsQueryResponse{}, errs.NewObjectNotFoundError("order", query.OrderID().String())
		}
		return ListDepartmentsQueryResponse{}, err
	}
	resp.OrderStatus = order.Status(status)

	if resp.Departments, err = h.departments(ctx, query.OrderID()); err != nil {
		return ListDepartmentsQueryResponse{}, err
	}

	stages := make([]services.Stage, 0, len(resp.Departments))
	for _, d := range resp.Departments {
		stages = append(stages, services.Stage{Department: d.Department, Status: d.Status})
	}
	progress := h.aggregator.Summarize(stages)
	resp.CurrentDepartment = progress.CurrentDepartment
	resp.CompletionPercentage = progress.CompletionPercentage

	return resp, nil
}

func (h ListDepartmentsQueryHandler) departments(ctx context.Context, orderID kernel.UUID) ([]DepartmentView, error) {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			t.id, t.department, t.sequence_index, t.status,
			t.assigned_to, w.name,
			t.gold_weight_in, t.gold_weight_out, t.estimated_hours,
			t.started_at, t.completed_at,
			t.notes, t.hold_reason, t.work_data,
			t.updated_at, t.version
		FROM department_tracking t
		LEFT JOIN workers w ON w.id = t.assigned_to
		WHERE t.order_id = ?
		ORDER BY t.sequence_index
	`, orderID.Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	views := make([]DepartmentView, 0, department.Count)
	for rows.Next() {
		var (
			view                           DepartmentView
			id                             uuid.UUID
			dept                           string
			status                         int
			assignedTo                     uuid.NullUUID
			workerName                     sql.NullString
			weightIn, weightOut, estimated decimal.NullDecimal
			startedAt, completedAt         sql.NullTime
			workData                       datatypes.JSONType[tracking.WorkData]
		)

		if err = rows.Scan(
			&id, &dept, &view.SequenceIndex, &status,
			&assignedTo, &workerName,
			&weightIn, &weightOut, &estimated,
			&startedAt, &completedAt,
			&view.Notes, &view.HoldReason, &workData,
			&view.UpdatedAt, &view.Version,
		); err != nil {
			return nil, err
		}

		if view.ID, err = idFrom(id); err != nil {
			return nil, err
		}
		if view.Department, err = department.Parse(dept); err != nil {
			return nil, err
		}
		if view.AssignedTo, err = optionalID(assignedTo); err != nil {
			return nil, err
		}

		view.Status = tracking.Status(status)
		view.AssignedToName = workerName.String
		view.GoldWeightIn = optionalDecimal(weightIn)
		view.GoldWeightOut = optionalDecimal(weightOut)
		view.EstimatedHours = optionalDecimal(estimated)
		if weightIn.Valid && weightOut.Valid {
			loss := weightIn.Decimal.Sub(weightOut.Decimal)
			view.GoldLoss = kernel.Some(loss)
			view.GoldGain = loss.IsNegative()
		}
		view.StartedAt = optionalTime(startedAt)
		view.CompletedAt = optionalTime(completedAt)
		view.WorkData = workData.Data().Clone()
		view.Progress = h.aggregator.DepartmentProgress(view.Department, view.Status, view.WorkData)
		view.UpdatedAt = view.UpdatedAt.UTC()

		views = append(views, view)
	}

	return views, rows.Err()
}
