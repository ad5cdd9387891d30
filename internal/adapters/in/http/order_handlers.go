package http

import (
	"errors"
	"fmt"
	"net/http"

	"atelier/internal/core/application/usecases/commands"
	"atelier/internal/core/application/usecases/queries"
	"atelier/internal/core/domain/model/department"
	"atelier/internal/core/domain/model/kernel"
	"atelier/internal/core/domain/model/order"
	"atelier/internal/core/domain/model/worker"

	"github.com/labstack/echo/v4"
)

// CreateOrder handles POST /api/v1/orders.
func (s *Server) CreateOrder(c echo.Context) error {
	actor, err := authorize(c, worker.ManageOrders)
	if err != nil {
		return err
	}

	var req CreateOrderRequest
	if err = bindBody(c, &req); err != nil {
		return err
	}

	cmd, err := createOrderCommand(actor, req)
	if err != nil {
		return err
	}

	created, err := s.commands.CreateOrder.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, orderFromDomain(created, actor))
}

func createOrderCommand(actor worker.Actor, req CreateOrderRequest) (commands.CreateOrderCommand, error) {
	initial, weightErr := kernel.NewWeight(req.InitialGoldWeight)
	purity, purityErr := kernel.NewKarat(req.Purity)
	if err := errors.Join(weightErr, purityErr); err != nil {
		return commands.CreateOrderCommand{}, err
	}

	details, err := order.NewDetails(initial, purity, req.DueDate, req.ProductMetadata)
	if err != nil {
		return commands.CreateOrderCommand{}, err
	}

	stones := make([]*order.Stone, 0, len(req.Stones))
	for i, st := range req.Stones {
		weight, weightErr := kernel.NewWeight(st.Weight)
		if weightErr != nil {
			return commands.CreateOrderCommand{}, fmt.Errorf("stone %d: %w", i, weightErr)
		}
		stone, stoneErr := order.NewStone(kernel.NewUUID(), order.StoneAttributes{
			Type:    st.Type,
			Shape:   st.Shape,
			Color:   st.Color,
			Clarity: st.Clarity,
			Setting: st.Setting,
			Notes:   st.Notes,
		}, weight, st.Quantity)
		if stoneErr != nil {
			return commands.CreateOrderCommand{}, fmt.Errorf("stone %d: %w", i, stoneErr)
		}
		stones = append(stones, stone)
	}

	assignments := make(map[department.Department]kernel.UUID, len(req.Assignments))
	for name, id := range req.Assignments {
		d, parseErr := department.Parse(name)
		if parseErr != nil {
			return commands.CreateOrderCommand{}, parseErr
		}
		workerID, idErr := kernelID(id)
		if idErr != nil {
			return commands.CreateOrderCommand{}, fmt.Errorf("assignment %s: %w", d, idErr)
		}
		assignments[d] = workerID
	}

	priority := order.MinPriority
	if req.Priority != nil {
		priority = *req.Priority
	}

	return commands.NewCreateOrderCommand(kernel.NewUUID(), actor, req.CustomerRef, priority, details, stones, assignments)
}

// GetOrder handles GET /api/v1/orders/{orderId}. The customer reference is
// only returned to roles allowed to see customers.
func (s *Server) GetOrder(c echo.Context) error {
	actor, err := actorOf(c)
	if err != nil {
		return err
	}
	orderID, err := uuidParam(c, "orderId")
	if err != nil {
		return err
	}

	query, err := queries.NewGetOrderQuery(orderID, actor)
	if err != nil {
		return err
	}
	found, err := s.queries.GetOrder.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, orderFromView(found))
}

// UpdateOrder handles PATCH /api/v1/orders/{orderId}.
func (s *Server) UpdateOrder(c echo.Context) error {
	actor, err := authorize(c, worker.ManageOrders)
	if err != nil {
		return err
	}
	orderID, err := uuidParam(c, "orderId")
	if err != nil {
		return err
	}

	var req UpdateOrderRequest
	if err = bindBody(c, &req); err != nil {
		return err
	}

	cmd, err := commands.NewUpdateOrderCommand(orderID, actor, order.Changes{
		Priority:        kernel.FromPtr(req.Priority),
		DueDate:         kernel.FromPtr(req.DueDate),
		ProductMetadata: kernel.FromPtr(req.ProductMetadata),
	})
	if err != nil {
		return err
	}

	updated, err := s.commands.UpdateOrder.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, orderFromDomain(updated, actor))
}

// DeleteOrder handles DELETE /api/v1/orders/{orderId}.
func (s *Server) DeleteOrder(c echo.Context) error {
	actor, err := authorize(c, worker.ManageOrders)
	if err != nil {
		return err
	}
	orderID, err := uuidParam(c, "orderId")
	if err != nil {
		return err
	}

	cmd, err := commands.NewDeleteOrderCommand(orderID, actor)
	if err != nil {
		return err
	}
	if err = s.commands.DeleteOrder.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ReleaseOrder handles POST /api/v1/orders/{orderId}/release.
func (s *Server) ReleaseOrder(c echo.Context) error {
	return s.changeOrderStatus(c, commands.ReleaseOrder)
}

// RevertOrder handles POST /api/v1/orders/{orderId}/revert.
func (s *Server) RevertOrder(c echo.Context) error {
	return s.changeOrderStatus(c, commands.RevertOrder)
}

func (s *Server) changeOrderStatus(c echo.Context, transition commands.OrderTransition) error {
	actor, err := authorize(c, worker.ManageOrders)
	if err != nil {
		return err
	}
	orderID, err := uuidParam(c, "orderId")
	if err != nil {
		return err
	}

	cmd, err := commands.NewChangeOrderStatusCommand(orderID, actor, transition)
	if err != nil {
		return err
	}
	changed, err := s.commands.ChangeOrderStatus.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, orderFromDomain(changed, actor))
}

// RequestUploadURL handles POST /api/v1/orders/{orderId}/uploads.
func (s *Server) RequestUploadURL(c echo.Context) error {
	if _, err := authorize(c, worker.ManageOrders, worker.WorkDepartments, worker.SubmitFinal); err != nil {
		return err
	}
	orderID, err := uuidParam(c, "orderId")
	if err != nil {
		return err
	}

	var req UploadRequest
	if err = bindBody(c, &req); err != nil {
		return err
	}

	dept := kernel.None[department.Department]()
	if req.Department != nil {
		d, parseErr := department.Parse(*req.Department)
		if parseErr != nil {
			return parseErr
		}
		dept = kernel.Some(d)
	}

	cmd, err := commands.NewRequestUploadURLCommand(orderID, dept, req.FileName, req.ContentType)
	if err != nil {
		return err
	}
	upload, err := s.commands.RequestUploadURL.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, UploadResponse{
		UploadURL: upload.UploadURL,
		FileURL:   upload.FileURL,
		ExpiresAt: upload.ExpiresAt,
	})
}

// ListActivity handles GET /api/v1/orders/{orderId}/activity.
func (s *Server) ListActivity(c echo.Context) error {
	if _, err := actorOf(c); err != nil {
		return err
	}
	orderID, err := uuidParam(c, "orderId")
	if err != nil {
		return err
	}

	query, err := queries.NewListActivityQuery(orderID)
	if err != nil {
		return err
	}
	entries, err := s.queries.ListActivity.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, activityFromView(entries))
}
