package http

import (
	"net/http"

	"atelier/internal/core/application/usecases/commands"
	"atelier/internal/core/application/usecases/queries"
	"atelier/internal/core/domain/model/department"
	"atelier/internal/core/domain/model/kernel"
	"atelier/internal/core/domain/model/worker"

	"github.com/labstack/echo/v4"
)

// RegisterWorker handles POST /api/v1/workers. Only administrators manage
// the worker directory.
func (s *Server) RegisterWorker(c echo.Context) error {
	if _, err := authorizeRole(c, worker.Admin); err != nil {
		return err
	}

	var req RegisterWorkerRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	role, err := worker.ParseRole(req.Role)
	if err != nil {
		return err
	}
	departments := make([]department.Department, 0, len(req.Departments))
	for _, name := range req.Departments {
		d, parseErr := department.Parse(name)
		if parseErr != nil {
			return parseErr
		}
		departments = append(departments, d)
	}

	cmd, err := commands.NewRegisterWorkerCommand(kernel.NewUUID(), req.Name, role, departments)
	if err != nil {
		return err
	}
	registered, err := s.commands.RegisterWorker.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, workerResponse(
		registered.ID(), registered.Name(), registered.Role(), registered.Departments()))
}

// GetWorker handles GET /api/v1/workers/{workerId}.
func (s *Server) GetWorker(c echo.Context) error {
	if _, err := actorOf(c); err != nil {
		return err
	}
	workerID, err := uuidParam(c, "workerId")
	if err != nil {
		return err
	}

	query, err := queries.NewGetWorkerQuery(workerID)
	if err != nil {
		return err
	}
	found, err := s.queries.GetWorker.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, workerResponse(found.ID, found.Name, found.Role, found.Departments))
}

// WorkerWorkload handles GET /api/v1/departments/{department}/workload.
func (s *Server) WorkerWorkload(c echo.Context) error {
	if _, err := authorize(c, worker.AssignWorkers, worker.ManageOrders); err != nil {
		return err
	}
	d, err := departmentParam(c)
	if err != nil {
		return err
	}

	query, err := queries.NewWorkerWorkloadQuery(d)
	if err != nil {
		return err
	}
	rows, err := s.queries.WorkerWorkload.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, workloadFromView(rows))
}
