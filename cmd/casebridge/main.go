package main

import (
	"fmt"
	"os"

	"github.com/casebridge/casebridge/internal/api"
	"github.com/casebridge/casebridge/internal/cli"
	"github.com/casebridge/casebridge/internal/config"
	"github.com/casebridge/casebridge/internal/db"
	"github.com/casebridge/casebridge/internal/logging"
	"github.com/casebridge/casebridge/internal/service"
	"github.com/casebridge/casebridge/internal/session"
	"github.com/casebridge/casebridge/internal/store"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, cli.ErrorLine(err))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	logger := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)

	// Open the offline cache
	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening cache database: %w", err)
	}
	defer database.Close()
	uow := db.NewSQLiteUnitOfWork(database)

	sess := session.New(session.NewFileStore(cfg.CredentialFile))

	client := api.NewClient(api.Options{
		BaseURL:        cfg.APIURL,
		Timeout:        cfg.RequestTimeout,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
		Observer:       api.NewLogObserver(logger),
	})

	st := store.New(
		service.NewAuthorizedFetcher(sess, client, logger),
		store.WithCache(database, uow),
		store.WithLogger(logger),
	)

	app := &cli.App{
		Appointments: service.NewAppointmentService(sess, client, st,
			service.WithPolicyGuard(true),
			service.WithObserver(service.NewLogUseCaseObserver(logger)),
			service.WithLogger(logger),
		),
		Store:   st,
		Session: sess,
		Config:  cfg,
		Logger:  logger,
	}

	// Detect interactive terminal for the form and browse views.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	return cli.NewRootCmd(app).Execute()
}
