package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"atelier/api"
	"atelier/cmd"
	httpadapter "atelier/internal/adapters/in/http"
	"atelier/internal/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configs, err := cmd.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	zapLogger, err := logger.NewLogger(configs.AppEnv)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = zapLogger.Sync() }()

	if err = run(configs, zapLogger); err != nil {
		zapLogger.Fatal("application stopped", zap.Error(err))
	}
}

func run(configs cmd.Config, zapLogger *zap.Logger) error {
	ctx := context.Background()
	slogger := logger.Slog(zapLogger)
	slog.SetDefault(slogger)

	db, err := cmd.OpenDatabase(configs)
	if err != nil {
		return err
	}

	app, err := cmd.NewCompositionRoot(ctx, configs, db, slogger)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := app.Close(); closeErr != nil {
			zapLogger.Error("close composition root", zap.Error(closeErr))
		}
	}()

	_, validator, err := httpadapter.LoadOpenAPI(ctx, api.OpenAPI)
	if err != nil {
		return fmt.Errorf("load openapi: %w", err)
	}

	actor, err := actorMiddleware(configs, app)
	if err != nil {
		return err
	}
	if configs.Auth0Domain == "" {
		zapLogger.Warn("AUTH0_DOMAIN is not set, trusting the X-Actor-ID header")
	}

	server := httpadapter.NewServer(app.Commands(), app.Queries(), slogger)
	e := httpadapter.NewEcho(server, httpadapter.Options{
		Actor:      actor,
		Validator:  validator,
		RequestLog: zapLogger,
	})
	e.Logger.SetLevel(log.OFF)

	jobManager := app.JobManager()
	if err = jobManager.StartAll(); err != nil {
		return fmt.Errorf("start jobs: %w", err)
	}
	defer jobManager.StopAll()

	serverErr := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf("0.0.0.0:%s", configs.HTTPPort)
		zapLogger.Info("starting server", zap.String("addr", addr), zap.String("env", configs.AppEnv))
		if startErr := e.Start(addr); startErr != nil && !errors.Is(startErr, http.ErrServerClosed) {
			serverErr <- startErr
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err = <-serverErr:
		return fmt.Errorf("server: %w", err)
	case sig := <-quit:
		zapLogger.Info("shutting down server", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	if err = e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	zapLogger.Info("server exited")
	return nil
}

func actorMiddleware(configs cmd.Config, app *cmd.CompositionRoot) (echo.MiddlewareFunc, error) {
	if configs.Auth0Domain == "" {
		return httpadapter.HeaderActor(app.CreateGetWorkerQueryHandler()), nil
	}
	validate, err := httpadapter.NewAuth0TokenValidator(configs.Auth0Domain, configs.Auth0Audience)
	if err != nil {
		return nil, fmt.Errorf("auth0 validator: %w", err)
	}
	return httpadapter.TokenActor(validate), nil
}
