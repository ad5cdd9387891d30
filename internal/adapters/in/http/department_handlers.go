package http

import (
	"net/http"

	"atelier/internal/core/application/usecases/commands"
	"atelier/internal/core/application/usecases/queries"
	"atelier/internal/core/domain/model/kernel"
	"atelier/internal/core/domain/model/tracking"
	"atelier/internal/core/domain/model/worker"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// ListDepartments handles GET /api/v1/orders/{orderId}/departments.
func (s *Server) ListDepartments(c echo.Context) error {
	if _, err := actorOf(c); err != nil {
		return err
	}
	orderID, err := uuidParam(c, "orderId")
	if err != nil {
		return err
	}

	query, err := queries.NewListDepartmentsQuery(orderID)
	if err != nil {
		return err
	}
	board, err := s.queries.ListDepartments.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, boardFromView(board))
}

// AssignWorker handles POST .../departments/{department}/assign.
func (s *Server) AssignWorker(c echo.Context) error {
	actor, err := authorize(c, worker.AssignWorkers)
	if err != nil {
		return err
	}
	orderID, d, err := departmentRoute(c)
	if err != nil {
		return err
	}

	var req AssignRequest
	if err = bindBody(c, &req); err != nil {
		return err
	}
	workerID, err := kernelID(req.WorkerID)
	if err != nil {
		return err
	}

	cmd, err := commands.NewAssignWorkerCommand(orderID, d, workerID, actor, kernel.FromPtr(req.EstimatedHours))
	if err != nil {
		return err
	}
	row, err := s.commands.AssignWorker.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rowFromDomain(row))
}

// SelfAssign handles POST .../departments/{department}/self-assign.
func (s *Server) SelfAssign(c echo.Context) error {
	actor, err := authorizeRole(c, worker.DepartmentWorker)
	if err != nil {
		return err
	}
	orderID, d, err := departmentRoute(c)
	if err != nil {
		return err
	}

	cmd, err := commands.NewSelfAssignCommand(orderID, d, actor)
	if err != nil {
		return err
	}
	row, err := s.commands.SelfAssign.HandleSelfAssign(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rowFromDomain(row))
}

// StartDepartment handles POST .../departments/{department}/start.
func (s *Server) StartDepartment(c echo.Context) error {
	actor, err := authorize(c, worker.WorkDepartments, worker.ManageOrders)
	if err != nil {
		return err
	}
	orderID, d, err := departmentRoute(c)
	if err != nil {
		return err
	}

	var req StartRequest
	if err = bindBody(c, &req); err != nil {
		return err
	}
	weightIn, err := kernel.NewWeight(req.GoldWeightIn)
	if err != nil {
		return err
	}

	cmd, err := commands.NewStartDepartmentCommand(orderID, d, actor, weightIn, req.Notes)
	if err != nil {
		return err
	}
	row, err := s.commands.StartDepartment.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rowFromDomain(row))
}

// CompleteDepartment handles POST .../departments/{department}/complete.
// A weight gain is accepted and logged.
func (s *Server) CompleteDepartment(c echo.Context) error {
	actor, err := authorize(c, worker.WorkDepartments, worker.ManageOrders)
	if err != nil {
		return err
	}
	orderID, d, err := departmentRoute(c)
	if err != nil {
		return err
	}

	var req CompleteRequest
	if err = bindBody(c, &req); err != nil {
		return err
	}
	weightOut, err := kernel.NewWeight(req.GoldWeightOut)
	if err != nil {
		return err
	}

	cmd, err := commands.NewCompleteDepartmentCommand(orderID, d, actor, weightOut, req.Notes)
	if err != nil {
		return err
	}
	row, err := s.commands.CompleteDepartment.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}

	if row.HasGoldGain() {
		s.logger.WarnContext(c.Request().Context(), "gold gain recorded",
			"order_id", orderID.String(),
			"department", d.String(),
			"gold_loss", row.GoldLoss().OrElse(decimal.Zero).String(),
			"actor_id", actor.ID().String())
	}

	return c.JSON(http.StatusOK, rowFromDomain(row))
}

// HoldDepartment handles POST .../departments/{department}/hold.
func (s *Server) HoldDepartment(c echo.Context) error {
	actor, err := authorize(c, worker.WorkDepartments, worker.ManageOrders)
	if err != nil {
		return err
	}
	orderID, d, err := departmentRoute(c)
	if err != nil {
		return err
	}

	var req HoldRequest
	if err = bindBody(c, &req); err != nil {
		return err
	}

	cmd, err := commands.NewHoldDepartmentCommand(orderID, d, actor, req.Reason)
	if err != nil {
		return err
	}
	row, err := s.commands.HoldDepartment.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rowFromDomain(row))
}

// ResumeDepartment handles POST .../departments/{department}/resume.
func (s *Server) ResumeDepartment(c echo.Context) error {
	actor, err := authorize(c, worker.WorkDepartments, worker.ManageOrders)
	if err != nil {
		return err
	}
	orderID, d, err := departmentRoute(c)
	if err != nil {
		return err
	}

	cmd, err := commands.NewResumeDepartmentCommand(orderID, d, actor)
	if err != nil {
		return err
	}
	row, err := s.commands.ResumeDepartment.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rowFromDomain(row))
}

// UpdateWorkData handles PUT .../departments/{department}/work-data.
func (s *Server) UpdateWorkData(c echo.Context) error {
	actor, err := authorize(c, worker.WorkDepartments, worker.ManageOrders)
	if err != nil {
		return err
	}
	orderID, d, err := departmentRoute(c)
	if err != nil {
		return err
	}

	var req WorkDataRequest
	if err = bindBody(c, &req); err != nil {
		return err
	}
	files := make([]tracking.FileRef, 0, len(req.Files))
	for _, f := range req.Files {
		files = append(files, tracking.FileRef{Name: f.Name, URL: f.URL, Kind: f.Kind})
	}

	cmd, err := commands.NewUpdateWorkDataCommand(orderID, d, actor, req.Fields, files)
	if err != nil {
		return err
	}
	row, err := s.commands.UpdateWorkData.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rowFromDomain(row))
}
