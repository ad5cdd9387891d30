package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	httpadapter "atelier/internal/adapters/in/http"
	"atelier/internal/adapters/out/formschema"
	"atelier/internal/adapters/out/notify"
	"atelier/internal/adapters/out/postgres"
	"atelier/internal/adapters/out/s3storage"
	"atelier/internal/core/application/usecases/commands"
	"atelier/internal/core/application/usecases/queries"
	"atelier/internal/core/domain/model/submission"
	"atelier/internal/core/domain/services"
	"atelier/internal/core/ports"
	"atelier/internal/jobs"

	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type CompositionRoot struct {
	cfg        Config
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	notifier   *notify.AsyncNotifier
	storage    ports.FileStorage
	policy     submission.VariancePolicy
	clock      ports.Clock
	logger     *slog.Logger
}

func NewCompositionRoot(ctx context.Context, cfg Config, gormDB *gorm.DB, logger *slog.Logger) (*CompositionRoot, error) {
	policy, err := submission.NewVariancePolicy(cfg.VarianceThresholdPercent)
	if err != nil {
		return nil, err
	}

	var delegate ports.Notifier = notify.NewLogNotifier(logger)
	if cfg.NotifyWebhookURL != "" {
		delegate = notify.NewWebhookNotifier(cfg.NotifyWebhookURL, &http.Client{Timeout: notify.DefaultTimeout})
	}

	var storage ports.FileStorage = unconfiguredStorage{}
	if cfg.AWSS3Bucket != "" {
		s3, s3Err := s3storage.New(ctx, cfg.S3())
		if s3Err != nil {
			return nil, fmt.Errorf("s3 storage: %w", s3Err)
		}
		storage = s3
	} else {
		logger.Warn("AWS_S3_BUCKET is not set, upload URLs are disabled")
	}

	return &CompositionRoot{
		cfg:        cfg,
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB),
		notifier:   notify.NewAsyncNotifier(delegate, notify.DefaultTimeout, logger),
		storage:    storage,
		policy:     policy,
		clock:      ports.SystemClock,
		logger:     logger,
	}, nil
}

// OpenDatabase connects with the configured driver and migrates the schema.
func OpenDatabase(cfg Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case DriverSQLite:
		dialector = sqlite.Open(cfg.SQLitePath)
	default:
		dialector = postgresdriver.Open(cfg.PostgresDSN())
	}

	logMode := gormlogger.Warn
	if cfg.IsProduction() {
		logMode = gormlogger.Error
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(logMode),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.DBDriver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if cfg.DBDriver == DriverSQLite {
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}

	if err = postgres.Migrate(db); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// Close waits for in-flight notifications and releases the database.
func (c *CompositionRoot) Close() error {
	c.notifier.Wait()
	sqlDB, err := c.gormDB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (c *CompositionRoot) unitOfWork() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.CreateGorm()
	})
}

func (c *CompositionRoot) workerUnitOfWork() commands.WorkerUoWFactory {
	return FuncWorkerUoWFactory(func() commands.WorkerUoW {
		return c.uowFactory.CreateGorm()
	})
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(c.unitOfWork(), services.NewOrderNumberGenerator(), c.notifier, c.clock)
}

func (c *CompositionRoot) CreateAssignWorkerCommandHandler() commands.AssignWorkerCommandHandler {
	return commands.NewAssignWorkerCommandHandler(c.unitOfWork(), c.notifier, c.clock)
}

func (c *CompositionRoot) CreateSubmitFinalCommandHandler() commands.SubmitFinalCommandHandler {
	return commands.NewSubmitFinalCommandHandler(c.unitOfWork(), c.policy, c.notifier, c.clock)
}

func (c *CompositionRoot) CreateRegisterWorkerCommandHandler() commands.RegisterWorkerCommandHandler {
	return commands.NewRegisterWorkerCommandHandler(c.workerUnitOfWork())
}

func (c *CompositionRoot) CreateNotifyOverdueOrdersCommandHandler() commands.NotifyOverdueOrdersCommandHandler {
	return commands.NewNotifyOverdueOrdersCommandHandler(c.unitOfWork(), c.notifier, c.clock)
}

func (c *CompositionRoot) CreateNotifyStaleHoldsCommandHandler() commands.NotifyStaleHoldsCommandHandler {
	return commands.NewNotifyStaleHoldsCommandHandler(c.unitOfWork(), c.notifier, c.clock)
}

func (c *CompositionRoot) CreateGetWorkerQueryHandler() queries.GetWorkerQueryHandler {
	return queries.NewGetWorkerQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateListDepartmentsQueryHandler() queries.ListDepartmentsQueryHandler {
	return queries.NewListDepartmentsQueryHandler(c.gormDB, formschema.MustDefault())
}

func (c *CompositionRoot) Commands() httpadapter.Commands {
	uow := c.unitOfWork()
	assign := c.CreateAssignWorkerCommandHandler()

	return httpadapter.Commands{
		CreateOrder:        c.CreateCreateOrderCommandHandler(),
		UpdateOrder:        commands.NewUpdateOrderCommandHandler(uow, c.clock),
		ChangeOrderStatus:  commands.NewChangeOrderStatusCommandHandler(uow, c.clock),
		DeleteOrder:        commands.NewDeleteOrderCommandHandler(uow),
		AssignWorker:       assign,
		SelfAssign:         assign,
		StartDepartment:    commands.NewStartDepartmentCommandHandler(uow, c.clock),
		CompleteDepartment: commands.NewCompleteDepartmentCommandHandler(uow, c.clock),
		HoldDepartment:     commands.NewHoldDepartmentCommandHandler(uow, c.clock),
		ResumeDepartment:   commands.NewResumeDepartmentCommandHandler(uow, c.clock),
		UpdateWorkData:     commands.NewUpdateWorkDataCommandHandler(uow, c.clock),
		RequestUploadURL:   commands.NewRequestUploadURLCommandHandler(uow, c.storage),
		SubmitFinal:        c.CreateSubmitFinalCommandHandler(),
		SetApproval:        commands.NewSetApprovalCommandHandler(uow, c.notifier, c.clock),
		WithdrawSubmission: commands.NewWithdrawSubmissionCommandHandler(uow, c.clock),
		RegisterWorker:     c.CreateRegisterWorkerCommandHandler(),
	}
}

func (c *CompositionRoot) Queries() httpadapter.Queries {
	return httpadapter.Queries{
		GetOrder:        queries.NewGetOrderQueryHandler(c.gormDB),
		ListDepartments: c.CreateListDepartmentsQueryHandler(),
		WorkerWorkload:  queries.NewWorkerWorkloadQueryHandler(c.gormDB),
		GetSubmission:   queries.NewGetSubmissionQueryHandler(c.gormDB),
		ListActivity:    queries.NewListActivityQueryHandler(c.gormDB),
		GetWorker:       c.CreateGetWorkerQueryHandler(),
	}
}

func (c *CompositionRoot) JobManager() *jobs.JobManager {
	overdue := jobs.NewOverdueOrdersJob(
		c.CreateNotifyOverdueOrdersCommandHandler(), c.cfg.OverdueOrdersSchedule, c.logger)
	stale := jobs.NewStaleHoldsJob(
		c.CreateNotifyStaleHoldsCommandHandler(), c.cfg.StaleHoldsSchedule, c.cfg.StaleHoldAfter, c.logger)
	return jobs.NewJobManager(overdue, stale)
}

var errUploadsDisabled = errors.New("file uploads are not configured")

type unconfiguredStorage struct{}

func (unconfiguredStorage) PresignUpload(context.Context, string, string) (ports.PresignedUpload, error) {
	return ports.PresignedUpload{}, errUploadsDisabled
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}

type FuncWorkerUoWFactory func() commands.WorkerUoW

func (f FuncWorkerUoWFactory) Create() commands.WorkerUoW {
	return f()
}
