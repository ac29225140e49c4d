package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mattn/go-isatty"

	"github.com/wilfredeveloper/barka-sub001/internal/cli"
	"github.com/wilfredeveloper/barka-sub001/internal/config"
	"github.com/wilfredeveloper/barka-sub001/internal/db"
	"github.com/wilfredeveloper/barka-sub001/internal/repository"
	"github.com/wilfredeveloper/barka-sub001/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()

	dbPath := cfg.DBPath
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("finding home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".barka", "barka.db")
	}

	database, err := db.OpenDB(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	taskRepo := repository.NewSQLiteTaskRepo(database)
	projectRepo := repository.NewSQLiteProjectRepo(database)
	memberRepo := repository.NewSQLiteTeamMemberRepo(database)
	trashRepo := repository.NewSQLiteTrashRepo(database)

	uow := db.NewSQLiteUnitOfWork(database)
	retention := time.Duration(cfg.TrashRetentionDays) * 24 * time.Hour

	var observers []service.OperationObserver
	if cfg.LogOps {
		observers = append(observers, service.NewLogObserver(os.Stderr))
	}

	app := &cli.App{
		Tasks:    service.NewTaskService(taskRepo, projectRepo, memberRepo, uow, retention, observers...),
		Graph:    service.NewGraphService(taskRepo, uow),
		Projects: service.NewProjectService(projectRepo, taskRepo, memberRepo, uow, retention, observers...),
		Team:     service.NewTeamService(memberRepo, taskRepo),
		Recovery: service.NewRecoveryService(trashRepo, uow, observers...),
		Imports:  service.NewImportService(uow, observers...),

		DefaultOrg:   cfg.DefaultOrg,
		DefaultActor: cfg.DefaultActor,
		DefaultRole:  cfg.DefaultRole,
	}

	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	return cli.NewRootCmd(app).Execute()
}
