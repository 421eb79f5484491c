// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskForge Contributors

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

	"github.com/spf13/cobra"

	"github.com/taskforge/taskforge/internal/auth"
	authpg "github.com/taskforge/taskforge/internal/auth/postgres"
	"github.com/taskforge/taskforge/internal/config"
	"github.com/taskforge/taskforge/internal/httpapi"
	"github.com/taskforge/taskforge/internal/logging"
	"github.com/taskforge/taskforge/internal/observability"
	"github.com/taskforge/taskforge/internal/store"
	"github.com/taskforge/taskforge/internal/task"
	taskpg "github.com/taskforge/taskforge/internal/task/postgres"
)

const shutdownTimeout = 10 * time.Second

// newServeCmd creates the serve subcommand.
func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the TaskForge API server",
		Long: `Start the HTTP API server. Configuration comes from flags,
the config file, and environment variables, in that order of precedence.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configFile, cmd.Flags())
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg)
		},
	}

	cmd.Flags().String("listen_addr", config.DefaultListenAddr, "API listen address")
	cmd.Flags().String("metrics_addr", config.DefaultMetricsAddr, "metrics/health HTTP address (empty = disabled)")
	cmd.Flags().String("database_url", "", "PostgreSQL connection URL")
	cmd.Flags().String("token_secret", "", "HMAC secret for session tokens (min 32 bytes)")
	cmd.Flags().Duration("token_ttl", config.DefaultTokenTTL, "session token lifetime")
	cmd.Flags().String("log_format", config.DefaultLogFormat, "log format (json or text)")
	cmd.Flags().Bool("auto_migrate", false, "run pending migrations before serving")

	return cmd
}

func runServe(ctx context.Context, cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := logging.Setup("taskforge", version, cfg.LogFormat, os.Stderr)
	slog.SetDefault(logger)

	logger.Info("starting server",
		"listen_addr", cfg.ListenAddr,
		"log_format", cfg.LogFormat,
	)

	if cfg.AutoMigrate {
		if err := runAutoMigrate(cfg.DatabaseURL, logger); err != nil {
			return err
		}
	}

	pool, err := store.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	logger.Info("connected to database")

	codec, err := auth.NewTokenCodec(cfg.TokenSecret, cfg.TokenTTL)
	if err != nil {
		return fmt.Errorf("failed to create token codec: %w", err)
	}

	userRepo := authpg.NewUserRepository(pool)
	projectRepo := taskpg.NewProjectRepository(pool)
	taskRepo := taskpg.NewTaskRepository(pool)

	authService, err := auth.NewService(userRepo, auth.NewArgon2idHasher(), codec)
	if err != nil {
		return fmt.Errorf("failed to create auth service: %w", err)
	}

	gate, err := task.NewGate(projectRepo, taskRepo)
	if err != nil {
		return fmt.Errorf("failed to create ownership gate: %w", err)
	}
	aggregator, err := task.NewAggregator(taskRepo, gate)
	if err != nil {
		return fmt.Errorf("failed to create progress aggregator: %w", err)
	}
	projectService, err := task.NewProjectService(projectRepo, gate)
	if err != nil {
		return fmt.Errorf("failed to create project service: %w", err)
	}
	taskService, err := task.NewTaskService(taskRepo, gate, aggregator)
	if err != nil {
		return fmt.Errorf("failed to create task service: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Start observability server if configured.
	var metrics *observability.Metrics
	var obsServer *observability.Server
	if cfg.MetricsAddr != "" {
		obsServer = observability.NewServer(cfg.MetricsAddr, func() bool {
			pingCtx, pingCancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer pingCancel()
			return pool.Ping(pingCtx) == nil
		})
		metrics = obsServer.Metrics()

		obsErrChan, err := obsServer.Start()
		if err != nil {
			return fmt.Errorf("failed to start observability server: %w", err)
		}
		go monitorServerErrors(ctx, cancel, obsErrChan, "observability")
		logger.Info("observability server started", "addr", obsServer.Addr())
	}

	router, err := httpapi.NewRouter(httpapi.Deps{
		Auth:     authService,
		Tokens:   codec,
		Projects: projectService,
		Tasks:    taskService,
		Logger:   logger,
		Metrics:  metrics,
	})
	if err != nil {
		return fmt.Errorf("failed to assemble router: %w", err)
	}

	server := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		logger.Info("API server listening", "addr", cfg.ListenAddr)
		if serveErr := server.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			errChan <- serveErr
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case sig := <-sigChan:
		logger.Info("received signal, shutting down", "signal", sig.String())
	case err := <-errChan:
		logger.Error("server failed", "error", err)
		return err
	case <-ctx.Done():
		logger.Info("context cancelled, shutting down")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("API server shutdown incomplete", "error", err)
	}
	if obsServer != nil {
		if err := obsServer.Stop(shutdownCtx); err != nil {
			logger.Warn("observability server shutdown incomplete", "error", err)
		}
	}

	logger.Info("server stopped")
	return nil
}

// runAutoMigrate applies pending migrations before the server starts.
func runAutoMigrate(databaseURL string, logger *slog.Logger) error {
	migrator, err := store.NewMigrator(databaseURL)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}
	defer func() {
		if closeErr := migrator.Close(); closeErr != nil {
			logger.Warn("failed to close migrator", "error", closeErr)
		}
	}()

	if err := migrator.Up(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info("migrations applied")
	return nil
}

// monitorServerErrors cancels the run context when a background server
// reports a fatal error.
func monitorServerErrors(ctx context.Context, cancel context.CancelFunc, errChan <-chan error, name string) {
	select {
	case err, ok := <-errChan:
		if ok && err != nil {
			slog.Error("background server failed", "server", name, "error", err)
			cancel()
		}
	case <-ctx.Done():
	}
}
