package queries

import (
	"context"
	"database/sql"

	"atelier/internal/core/domain/model/activity"
	"atelier/internal/core/domain/model/department"
	"atelier/internal/core/domain/model/kernel"
	"atelier/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ListActivityQueryHandler reads the activity log.
type ListActivityQueryHandler struct {
	db *gorm.DB
}

// NewListActivityQueryHandler creates the handler.
func NewListActivityQueryHandler(db *gorm.DB) ListActivityQueryHandler {
	return ListActivityQueryHandler{db: db}
}

// Handle returns the entries of an order oldest first.
//
// Returns:
//   - the entries, empty for an order without activity
//   - ObjectNotFound for an unknown order
func (h ListActivityQueryHandler) Handle(ctx context.Context, query ListActivityQuery) ([]ListActivityQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	var orders int64
	if err := h.db.WithContext(ctx).Raw(`SELECT COUNT(*) FROM orders WHERE id = ?`, query.OrderID().Bytes()).
		Scan(&orders).Error; err != nil {
		return nil, err
	}
	if orders == 0 {
		return nil, errs.NewObjectNotFoundError("order", query.OrderID().String())
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT a.id, a.department, a.action, a.actor_id, w.name, a.message, a.created_at
		FROM activity_log a
		LEFT JOIN workers w ON w.id = a.actor_id
		WHERE a.order_id = ?
		ORDER BY a.created_at, a.id
	`, query.OrderID().Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]ListActivityQueryResponse, 0)
	for rows.Next() {
		var (
			entry     ListActivityQueryResponse
			id        uuid.UUID
			dept      sql.NullString
			action    string
			actorID   uuid.NullUUID
			actorName sql.NullString
		)

		if err = rows.Scan(&id, &dept, &action, &actorID, &actorName, &entry.Message, &entry.CreatedAt); err != nil {
			return nil, err
		}

		if entry.ID, err = idFrom(id); err != nil {
			return nil, err
		}
		if entry.ActorID, err = optionalID(actorID); err != nil {
			return nil, err
		}
		entry.Department = kernel.None[department.Department]()
		if dept.Valid {
			d, parseErr := department.Parse(dept.String)
			if parseErr != nil {
				return nil, parseErr
			}
			entry.Department = kernel.Some(d)
		}
		entry.Action = activity.Action(action)
		entry.ActorName = actorName.String
		entry.CreatedAt = entry.CreatedAt.UTC()

		entries = append(entries, entry)
	}

	return entries, rows.Err()
}
