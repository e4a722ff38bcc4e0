package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/JonMunkholm/advisor/internal/advisor"
	"github.com/JonMunkholm/advisor/internal/config"
	"github.com/JonMunkholm/advisor/internal/console"
	"github.com/JonMunkholm/advisor/internal/logging"
	"github.com/JonMunkholm/advisor/internal/source"
	"github.com/JonMunkholm/advisor/internal/web"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
)

var errValidationFailed = errors.New("prerequisite validation failed")

// app carries state shared by every subcommand once the root pre-run has
// loaded configuration.
type app struct {
	cfg      *config.Config
	dataFile string // --file flag
}

// newRootCmd builds the command tree. Running without a subcommand starts
// the interactive menu.
func newRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "advisor",
		Short: "Course advising assistant",
		Long: `advisor loads a course catalog (CSV, YAML or PostgreSQL), checks that
every prerequisite refers to a known course, and answers listing and
lookup queries.

Running without a subcommand starts the interactive menu.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runMenu(cmd)
		},
	}
	cmd.PersistentFlags().StringVarP(&a.dataFile, "file", "f", "", "catalog file to load (overrides CATALOG_DATA_FILE)")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "menu",
			Short: "Start the interactive menu",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.runMenu(cmd)
			},
		},
		&cobra.Command{
			Use:   "serve",
			Short: "Serve the catalog over HTTP",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.runServe(cmd)
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "Print every course sorted by id",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.runList(cmd)
			},
		},
		&cobra.Command{
			Use:   "show <course-id>",
			Short: "Print one course and its prerequisites",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.runShow(cmd, args[0])
			},
		},
		&cobra.Command{
			Use:   "validate",
			Short: "Check every prerequisite reference; exits non-zero on issues",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.runValidate(cmd)
			},
		},
	)

	return cmd
}

// setup loads configuration and configures logging.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if a.dataFile != "" {
		cfg.Catalog.DataFile = a.dataFile
	}
	a.cfg = cfg

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Debug("configuration loaded", "config", cfg.String())
	return nil
}

func (a *app) newService(out io.Writer) *advisor.Service {
	return advisor.NewService(advisor.Options{
		Capacity:      a.cfg.Catalog.Capacity,
		ClearOnReload: a.cfg.Catalog.ClearOnReload,
		Output:        out,
	})
}

// openSource returns the configured catalog source and a release func.
// For the file source an empty path surfaces as source.ErrSourceRequired on
// the first load.
func (a *app) openSource(ctx context.Context) (source.Source, func(), error) {
	if a.cfg.Catalog.Source != config.SourcePostgres {
		return source.ForPath(a.cfg.Catalog.DataFile), func() {}, nil
	}

	pool, err := newPool(ctx, a.cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	return &source.Postgres{DB: pool, Query: a.cfg.Catalog.Query}, pool.Close, nil
}

// loadOnce opens the configured source and loads it into svc.
func (a *app) loadOnce(ctx context.Context, svc *advisor.Service) (*advisor.LoadReport, error) {
	src, release, err := a.openSource(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	ctx, cancel := context.WithTimeout(ctx, a.cfg.Catalog.LoadTimeout)
	defer cancel()
	return svc.Load(ctx, src)
}

func (a *app) runMenu(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()
	c := console.New(a.newService(out), cmd.InOrStdin(), out, console.Options{
		LoadTimeout: a.cfg.Catalog.LoadTimeout,
	})
	return c.Run(cmd.Context())
}

func (a *app) runList(cmd *cobra.Command) error {
	svc := a.newService(cmd.ErrOrStderr())
	if _, err := a.loadOnce(cmd.Context(), svc); err != nil {
		return err
	}

	courses, err := svc.List()
	if err != nil {
		return err
	}
	advisor.WriteCourseList(cmd.OutOrStdout(), courses)
	return nil
}

func (a *app) runShow(cmd *cobra.Command, id string) error {
	svc := a.newService(cmd.ErrOrStderr())
	if _, err := a.loadOnce(cmd.Context(), svc); err != nil {
		return err
	}

	course, err := svc.Lookup(id)
	if err != nil {
		return err
	}
	advisor.WriteCourse(cmd.OutOrStdout(), course)
	return nil
}

func (a *app) runValidate(cmd *cobra.Command) error {
	svc := a.newService(io.Discard)
	report, err := a.loadOnce(cmd.Context(), svc)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, skipped := range report.Skipped {
		fmt.Fprintf(out, "Warning: malformed line %d (%s). Skipped.\n", skipped.Line, skipped.Reason)
	}

	ok, err := svc.Validate(out)
	if err != nil {
		return err
	}
	if !ok {
		return errValidationFailed
	}
	fmt.Fprintln(out, "Prerequisite validation: OK")
	return nil
}

func (a *app) runServe(cmd *cobra.Command) error {
	ctx := cmd.Context()

	src, release, err := a.openSource(ctx)
	if err != nil {
		return err
	}
	defer release()

	svc := advisor.NewService(advisor.Options{
		Capacity:      a.cfg.Catalog.Capacity,
		ClearOnReload: a.cfg.Catalog.ClearOnReload,
		Output:        cmd.OutOrStdout(),
		Limiter:       advisor.NewLoadLimiter(a.cfg.Catalog.MaxConcurrentLoads, a.cfg.Catalog.LoadWait),
	})

	// Preload when a source is configured; the HTTP load endpoint can retry.
	if a.cfg.Catalog.Source == config.SourcePostgres || a.cfg.Catalog.DataFile != "" {
		loadCtx, cancel := context.WithTimeout(ctx, a.cfg.Catalog.LoadTimeout)
		if _, err := svc.Load(loadCtx, src); err != nil {
			slog.Warn("initial load failed", "source", src.Name(), "error", err)
		}
		cancel()
	}

	server := web.NewServer(svc, a.cfg, web.Options{DefaultSource: src})

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := svc.WaitForLoads(shutdownCtx); err != nil {
		slog.Warn("loads did not complete in time", "error", err)
	}
	return nil
}

// newPool opens a pgx pool sized by the database config and verifies it.
func newPool(ctx context.Context, db config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(db.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}
	poolConfig.MaxConns = int32(db.MaxConns)
	poolConfig.MinConns = int32(db.MinConns)
	poolConfig.MaxConnLifetime = db.MaxConnLifetime
	poolConfig.MaxConnIdleTime = db.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: ping database: %w", source.ErrSourceUnavailable, err)
	}
	return pool, nil
}
