package queries

import (
	"context"
	"database/sql"
	"errors"

	"atelier/internal/core/domain/model/kernel"
	"atelier/internal/core/domain/model/order"
	"atelier/internal/core/domain/model/worker"
	"atelier/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// GetOrderQueryHandler reads an order with raw SQL, bypassing the aggregate.
//
// Example:
//
//	handler := NewGetOrderQueryHandler(db)
//	query, _ := NewGetOrderQuery(orderID, actor)
//	view, err := handler.Handle(ctx, query)
//	if errors.Is(err, errs.ErrObjectNotFound) {
//	    // 404
//	}
type GetOrderQueryHandler struct {
	db *gorm.DB
}

// NewGetOrderQueryHandler creates the handler on a GORM connection.
func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

// Handle returns the order and its stones.
//
// Returns:
//   - the read model, customer reference masked per actor
//   - ObjectNotFound for an unknown order
func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (GetOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderQueryResponse{}, err
	}

	var (
		resp     GetOrderQueryResponse
		id       uuid.UUID
		customer string
		status   int
		weight   decimal.Decimal
		metadata datatypes.JSONType[map[string]string]
	)

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			id, number, customer_ref, priority, status,
			initial_gold_weight, purity, due_date, product_metadata,
			created_at, updated_at, version
		FROM orders
		WHERE id = ?
	`, query.OrderID().Bytes()).Row()

	err := row.Scan(
		&id, &resp.Number, &customer, &resp.Priority, &status,
		&weight, &resp.Purity, &resp.DueDate, &metadata,
		&resp.CreatedAt, &resp.UpdatedAt, &resp.Version,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return GetOrderQueryResponse{}, errs.NewObjectNotFoundError("order", query.OrderID().String())
		}
		return GetOrderQueryResponse{}, err
	}

	if resp.ID, err = idFrom(id); err != nil {
		return GetOrderQueryResponse{}, err
	}
	resp.Status = order.Status(status)
	resp.InitialGoldWeight = weight
	resp.ProductMetadata = metadata.Data()
	if resp.ProductMetadata == nil {
		resp.ProductMetadata = map[string]string{}
	}
	resp.DueDate = resp.DueDate.UTC()
	resp.CreatedAt = resp.CreatedAt.UTC()
	resp.UpdatedAt = resp.UpdatedAt.UTC()
	if query.Actor().Can(worker.ViewCustomer) {
		resp.CustomerRef = kernel.Some(customer)
	}

	if resp.Stones, err = h.stones(ctx, id); err != nil {
		return GetOrderQueryResponse{}, err
	}

	return resp, nil
}

func (h GetOrderQueryHandler) stones(ctx context.Context, orderID uuid.UUID) ([]StoneView, error) {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT id, type, shape, color, clarity, setting, notes, weight, quantity
		FROM order_stones
		WHERE order_id = ?
		ORDER BY id
	`, orderID).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stones := make([]StoneView, 0)
	for rows.Next() {
		var stone StoneView
		var id uuid.UUID
		if err = rows.Scan(&id, &stone.Type, &stone.Shape, &stone.Color, &stone.Clarity,
			&stone.Setting, &stone.Notes, &stone.Weight, &stone.Quantity); err != nil {
			return nil, err
		}
		if stone.ID, err = idFrom(id); err != nil {
			return nil, err
		}
		stones = append(stones, stone)
	}

	return stones, rows.Err()
}
