// Command boardctl prints the department board of an order and manages the
// worker directory from the shell. It talks to the database directly and
// uses the same configuration as the API server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"atelier/cmd"
	"atelier/internal/core/application/usecases/commands"
	"atelier/internal/core/application/usecases/queries"
	"atelier/internal/core/domain/model/department"
	"atelier/internal/core/domain/model/kernel"
	"atelier/internal/core/domain/model/worker"
	"atelier/internal/pkg/logger"
)

const usage = `usage:
  boardctl board -order <order id>
  boardctl register-worker -name <name> -role <role> [-departments CASTING,SETTING]`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := cmd.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx := context.Background()
	switch os.Args[1] {
	case "board":
		err = board(ctx, cfg, os.Args[2:])
	case "register-worker":
		err = registerWorker(ctx, cfg, os.Args[2:])
	default:
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		log.Fatal(err)
	}
}

func compositionRoot(ctx context.Context, cfg cmd.Config) (*cmd.CompositionRoot, error) {
	zapLogger, err := logger.NewLogger(cfg.AppEnv)
	if err != nil {
		return nil, err
	}
	db, err := cmd.OpenDatabase(cfg)
	if err != nil {
		return nil, err
	}
	return cmd.NewCompositionRoot(ctx, cfg, db, logger.Slog(zapLogger))
}

func board(ctx context.Context, cfg cmd.Config, args []string) error {
	fs := flag.NewFlagSet("board", flag.ExitOnError)
	orderFlag := fs.String("order", "", "order id")
	if err := fs.Parse(args); err != nil {
		return err
	}

	orderID, err := kernel.UUIDFromString(*orderFlag)
	if err != nil {
		return fmt.Errorf("-order: %w", err)
	}
	query, err := queries.NewListDepartmentsQuery(orderID)
	if err != nil {
		return err
	}

	app, err := compositionRoot(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()

	resp, err := app.CreateListDepartmentsQueryHandler().Handle(ctx, query)
	if err != nil {
		return err
	}
	return renderBoard(os.Stdout, resp)
}

func registerWorker(ctx context.Context, cfg cmd.Config, args []string) error {
	fs := flag.NewFlagSet("register-worker", flag.ExitOnError)
	name := fs.String("name", "", "display name")
	roleFlag := fs.String("role", "", "ADMIN, OFFICE_STAFF, FACTORY_MANAGER or DEPARTMENT_WORKER")
	departmentsFlag := fs.String("departments", "", "comma separated departments")
	if err := fs.Parse(args); err != nil {
		return err
	}

	role, roleErr := worker.ParseRole(*roleFlag)
	departments, deptErr := parseDepartments(*departmentsFlag)
	if err := errors.Join(roleErr, deptErr); err != nil {
		return err
	}

	command, err := commands.NewRegisterWorkerCommand(kernel.NewUUID(), *name, role, departments)
	if err != nil {
		return err
	}

	app, err := compositionRoot(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()

	registered, err := app.CreateRegisterWorkerCommandHandler().Handle(ctx, command)
	if err != nil {
		return err
	}
	fmt.Printf("registered %s %s (%s)\n", registered.Role(), registered.Name(), registered.ID())
	return nil
}

func parseDepartments(s string) ([]department.Department, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var departments []department.Department
	for _, name := range strings.Split(s, ",") {
		d, err := department.Parse(strings.ToUpper(strings.TrimSpace(name)))
		if err != nil {
			return nil, err
		}
		departments = append(departments, d)
	}
	return departments, nil
}
