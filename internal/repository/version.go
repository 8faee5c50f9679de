package repository

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mtlprog/agentdesk/internal/domain"
)

// versionColumns is the shared list of columns for version queries.
var versionColumns = []string{
	"id", "agent_id", "version_number", "version_name", "system_prompt",
	"agentpress_tools", "configured_mcps", "custom_mcps", "change_description", "created_at",
}

// VersionRepository handles database operations for agent versions.
type VersionRepository struct {
	pool *pgxpool.Pool
}

// NewVersionRepository creates a new VersionRepository.
func NewVersionRepository(pool *pgxpool.Pool) *VersionRepository {
	return &VersionRepository{pool: pool}
}

// scanVersion scans a single row into an AgentVersion struct.
func scanVersion(row pgx.Row) (*domain.AgentVersion, error) {
	var (
		version domain.AgentVersion
		raw     rawConfig
	)
	err := row.Scan(
		&version.ID,
		&version.AgentID,
		&version.Number,
		&version.Name,
		&version.Config.SystemPrompt,
		&raw.tools,
		&raw.configured,
		&raw.custom,
		&version.ChangeDescription,
		&version.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrVersionNotFound
		}
		return nil, fmt.Errorf("scan version: %w", err)
	}

	if err := raw.decode(&version.Config); err != nil {
		return nil, fmt.Errorf("version %s: %w", version.ID, err)
	}

	return &version, nil
}

// scanVersions scans multiple rows into a slice of AgentVersion structs.
func scanVersions(rows pgx.Rows) ([]*domain.AgentVersion, error) {
	defer rows.Close()

	var versions []*domain.AgentVersion
	for rows.Next() {
		version, err := scanVersion(rows)
		if err != nil {
			return nil, err
		}
		versions = append(versions, version)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return versions, nil
}

// GetByID retrieves a version by ID.
func (r *VersionRepository) GetByID(ctx context.Context, versionID string) (*domain.AgentVersion, error) {
	query, args, err := psql.
		Select(versionColumns...).
		From("agent_versions").
		Where(sq.Eq{"id": versionID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetByID query for version: %w", err)
	}

	return scanVersion(r.pool.QueryRow(ctx, query, args...))
}

// GetByIDs retrieves versions by ID. Missing IDs are skipped.
func (r *VersionRepository) GetByIDs(ctx context.Context, versionIDs []string) ([]*domain.AgentVersion, error) {
	if len(versionIDs) == 0 {
		return []*domain.AgentVersion{}, nil
	}

	query, args, err := psql.
		Select(versionColumns...).
		From("agent_versions").
		Where(sq.Eq{"id": versionIDs}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetByIDs query for versions: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query versions: %w", err)
	}

	return scanVersions(rows)
}

// ListByAgent retrieves all versions of an agent, newest first.
func (r *VersionRepository) ListByAgent(ctx context.Context, agentID string) ([]*domain.AgentVersion, error) {
	query, args, err := psql.
		Select(versionColumns...).
		From("agent_versions").
		Where(sq.Eq{"agent_id": agentID}).
		OrderBy("version_number DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build ListByAgent query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query versions: %w", err)
	}

	return scanVersions(rows)
}

// nextNumber returns the next version number for the agent.
// The caller must hold the agent row lock so numbers are not handed out twice.
func (r *VersionRepository) nextNumber(ctx context.Context, tx pgx.Tx, agentID string) (int, error) {
	query, args, err := psql.
		Select("COALESCE(MAX(version_number), 0) + 1").
		From("agent_versions").
		Where(sq.Eq{"agent_id": agentID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build nextNumber query: %w", err)
	}

	var next int
	if err := tx.QueryRow(ctx, query, args...).Scan(&next); err != nil {
		return 0, fmt.Errorf("query next version number: %w", err)
	}
	return next, nil
}

// Create appends a new version within a transaction.
// Returns the version with ID, Number, Name, and CreatedAt populated.
func (r *VersionRepository) Create(ctx context.Context, tx pgx.Tx, version *domain.AgentVersion) (*domain.AgentVersion, error) {
	number, err := r.nextNumber(ctx, tx, version.AgentID)
	if err != nil {
		return nil, err
	}
	version.Number = number
	version.Name = domain.VersionName(number)

	tools, configured, custom, err := encodeConfig(version.Config)
	if err != nil {
		return nil, err
	}

	query, args, err := psql.
		Insert("agent_versions").
		Columns(
			"agent_id", "version_number", "version_name", "system_prompt",
			"agentpress_tools", "configured_mcps", "custom_mcps", "change_description",
		).
		Values(
			version.AgentID,
			version.Number,
			version.Name,
			version.Config.SystemPrompt,
			tools,
			configured,
			custom,
			version.ChangeDescription,
		).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build Create query for version: %w", err)
	}

	err = tx.QueryRow(ctx, query, args...).Scan(&version.ID, &version.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create version: %w", err)
	}

	return version, nil
}
