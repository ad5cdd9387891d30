package http

import (
	"context"
	"log/slog"
	"net/http"

	"atelier/api"
	"atelier/internal/core/application/usecases/commands"
	"atelier/internal/core/application/usecases/queries"
	"atelier/internal/core/domain/model/order"
	"atelier/internal/core/domain/model/submission"
	"atelier/internal/core/domain/model/tracking"
	"atelier/internal/core/domain/model/worker"
	"atelier/internal/core/ports"

	"github.com/getkin/kin-openapi/routers"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"
)

// Handler is satisfied by every command and query handler that returns a result.
type Handler[Req, Resp any] interface {
	Handle(ctx context.Context, req Req) (Resp, error)
}

// Executor is satisfied by command handlers without a result.
type Executor[Req any] interface {
	Handle(ctx context.Context, req Req) error
}

type SelfAssigner interface {
	HandleSelfAssign(ctx context.Context, cmd commands.SelfAssignCommand) (*tracking.Tracking, error)
}

// Commands groups the write side use cases exposed over HTTP.
type Commands struct {
	CreateOrder        Handler[commands.CreateOrderCommand, *order.Order]
	UpdateOrder        Handler[commands.UpdateOrderCommand, *order.Order]
	ChangeOrderStatus  Handler[commands.ChangeOrderStatusCommand, *order.Order]
	DeleteOrder        Executor[commands.DeleteOrderCommand]
	AssignWorker       Handler[commands.AssignWorkerCommand, *tracking.Tracking]
	SelfAssign         SelfAssigner
	StartDepartment    Handler[commands.StartDepartmentCommand, *tracking.Tracking]
	CompleteDepartment Handler[commands.CompleteDepartmentCommand, *tracking.Tracking]
	HoldDepartment     Handler[commands.HoldDepartmentCommand, *tracking.Tracking]
	ResumeDepartment   Handler[commands.ResumeDepartmentCommand, *tracking.Tracking]
	UpdateWorkData     Handler[commands.UpdateWorkDataCommand, *tracking.Tracking]
	RequestUploadURL   Handler[commands.RequestUploadURLCommand, ports.PresignedUpload]
	SubmitFinal        Handler[commands.SubmitFinalCommand, *submission.FinalSubmission]
	SetApproval        Handler[commands.SetApprovalCommand, *submission.FinalSubmission]
	WithdrawSubmission Executor[commands.WithdrawSubmissionCommand]
	RegisterWorker     Handler[commands.RegisterWorkerCommand, *worker.Worker]
}

// Queries groups the read side use cases exposed over HTTP.
type Queries struct {
	GetOrder        Handler[queries.GetOrderQuery, queries.GetOrderQueryResponse]
	ListDepartments Handler[queries.ListDepartmentsQuery, queries.ListDepartmentsQueryResponse]
	WorkerWorkload  Handler[queries.WorkerWorkloadQuery, []queries.WorkerWorkloadQueryResponse]
	GetSubmission   Handler[queries.GetSubmissionQuery, queries.GetSubmissionQueryResponse]
	ListActivity    Handler[queries.ListActivityQuery, []queries.ListActivityQueryResponse]
	GetWorker       Handler[queries.GetWorkerQuery, queries.GetWorkerQueryResponse]
}

// Server maps the /api/v1 routes onto application use cases.
type Server struct {
	commands Commands
	queries  Queries
	logger   *slog.Logger
}

func NewServer(commands Commands, queries Queries, logger *slog.Logger) *Server {
	return &Server{
		commands: commands,
		queries:  queries,
		logger:   logger.With("component", "http"),
	}
}

// Options configures the echo instance built by NewEcho.
type Options struct {
	// Actor authenticates /api/v1 requests, see TokenActor and HeaderActor.
	Actor echo.MiddlewareFunc
	// Validator is the OpenAPI router used to validate requests; nil disables validation.
	Validator routers.Router
	// RequestLog receives one entry per request; nil disables request logging.
	RequestLog *zap.Logger
}

// NewEcho wires middleware, documentation and API routes.
func NewEcho(s *Server, opts Options) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = ErrorHandler(s.logger)

	e.Use(middleware.Recover())
	if opts.RequestLog != nil {
		e.Use(RequestLogger(opts.RequestLog))
	}
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowHeaders: []string{
			echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept,
			echo.HeaderAuthorization, HeaderActorID, HeaderActorDepartment,
		},
	}))

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	e.GET("/api/openapi.yaml", func(c echo.Context) error {
		return c.Blob(http.StatusOK, "application/yaml", api.OpenAPI)
	})
	e.GET("/swagger/*", echoSwagger.EchoWrapHandler(echoSwagger.URL("/api/openapi.yaml")))

	group := e.Group("/api/v1")
	if opts.Actor != nil {
		group.Use(opts.Actor)
	}
	if opts.Validator != nil {
		group.Use(RequestValidator(opts.Validator))
	}
	s.Routes(group)

	return e
}

// Routes registers every /api/v1 operation on g.
func (s *Server) Routes(g *echo.Group) {
	g.POST("/orders", s.CreateOrder)
	g.GET("/orders/:orderId", s.GetOrder)
	g.PATCH("/orders/:orderId", s.UpdateOrder)
	g.DELETE("/orders/:orderId", s.DeleteOrder)
	g.POST("/orders/:orderId/release", s.ReleaseOrder)
	g.POST("/orders/:orderId/revert", s.RevertOrder)
	g.POST("/orders/:orderId/uploads", s.RequestUploadURL)
	g.GET("/orders/:orderId/activity", s.ListActivity)

	g.GET("/orders/:orderId/departments", s.ListDepartments)
	g.POST("/orders/:orderId/departments/:department/assign", s.AssignWorker)
	g.POST("/orders/:orderId/departments/:department/self-assign", s.SelfAssign)
	g.POST("/orders/:orderId/departments/:department/start", s.StartDepartment)
	g.POST("/orders/:orderId/departments/:department/complete", s.CompleteDepartment)
	g.POST("/orders/:orderId/departments/:department/hold", s.HoldDepartment)
	g.POST("/orders/:orderId/departments/:department/resume", s.ResumeDepartment)
	g.PUT("/orders/:orderId/departments/:department/work-data", s.UpdateWorkData)

	g.POST("/orders/:orderId/submission", s.SubmitFinal)
	g.GET("/orders/:orderId/submission", s.GetSubmission)
	g.PUT("/submissions/:submissionId/approval", s.SetApproval)
	g.DELETE("/submissions/:submissionId", s.WithdrawSubmission)

	g.GET("/departments/:department/workload", s.WorkerWorkload)
	g.POST("/workers", s.RegisterWorker)
	g.GET("/workers/:workerId", s.GetWorker)
}
