// @title			agentdesk API
// @version		1.0
// @description	Versioned configuration store for AI agents.
// @BasePath		/api/v1

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/mtlprog/agentdesk/internal/config"
	"github.com/mtlprog/agentdesk/internal/database"
	"github.com/mtlprog/agentdesk/internal/handler"
	"github.com/mtlprog/agentdesk/internal/logger"
)

func main() {
	databaseFlag := &cli.StringFlag{
		Name:     "database-url",
		Aliases:  []string{"d"},
		Value:    config.DefaultDatabaseURL,
		Usage:    "PostgreSQL database URL",
		EnvVars:  []string{"DATABASE_URL"},
		Required: true,
	}

	app := &cli.App{
		Name:  "agentdesk",
		Usage: "Versioned configuration for AI agents",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Value:   "info",
				Usage:   "Log level (debug, info, warn, error, silent)",
				EnvVars: []string{"LOG_LEVEL"},
			},
		},
		Before: func(c *cli.Context) error {
			logger.Setup(logger.ParseLevel(c.String("log-level")))
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "Start the agent API server",
				Flags: []cli.Flag{
					databaseFlag,
					&cli.StringFlag{
						Name:    "port",
						Aliases: []string{"p"},
						Value:   config.DefaultPort,
						Usage:   "HTTP server port",
						EnvVars: []string{"PORT"},
					},
				},
				Action: runServe,
			},
			{
				Name:   "migrate",
				Usage:  "Apply pending database migrations and exit",
				Flags: []cli.Flag{
					databaseFlag,
					&cli.BoolFlag{
						Name:    "seed-dev",
						Usage:   "Also insert a development account (token \"" + database.DevToken + "\") and a default agent",
						EnvVars: []string{"SEED_DEV"},
					},
				},
				Action: runMigrate,
			},
			agentCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Error().Err(err).Msg("application error")
		os.Exit(1)
	}
}

func openDatabase(ctx context.Context, databaseURL string) (*database.DB, error) {
	db, err := database.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if _, err := database.RunMigrations(ctx, db.Pool()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return db, nil
}

func runMigrate(c *cli.Context) error {
	db, err := openDatabase(c.Context, c.String("database-url"))
	if err != nil {
		return err
	}
	defer db.Close()

	if c.Bool("seed-dev") {
		if err := database.SeedDev(c.Context, db.Pool()); err != nil {
			return fmt.Errorf("failed to seed development data: %w", err)
		}
	}
	return nil
}

func runServe(c *cli.Context) error {
	ctx := c.Context
	serverLog := logger.Get("server")

	port := c.String("port")
	if port == "" {
		port = config.DefaultPort
	}

	db, err := openDatabase(ctx, c.String("database-url"))
	if err != nil {
		return err
	}
	defer db.Close()

	h := handler.New(db.Pool())

	server := &http.Server{
		Addr:              ":" + port,
		Handler:           h.Routes(),
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serverErr := make(chan error, 1)
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		serverLog.Info().Str("server_addr", "http://localhost:"+port).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case <-done:
		serverLog.Info().Msg("shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	serverLog.Info().Msg("server stopped")
	return nil
}
