package database

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mtlprog/agentdesk/internal/logger"
)

// DevToken is the bearer token of the account created by SeedDev.
const DevToken = "dev-token"

//go:embed seed/dev.sql
var devSeed string

// SeedDev inserts a local development account (token DevToken) owning a
// protected default agent with its first version. Existing rows are kept.
func SeedDev(ctx context.Context, pool *pgxpool.Pool) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin seed transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, devSeed); err != nil {
		return fmt.Errorf("apply dev seed: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit dev seed: %w", err)
	}

	log := logger.Get("database")
	log.Info().Msg("development data seeded")
	return nil
}
