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

// agentColumns is the shared list of columns for agent queries.
var agentColumns = []string{
	"id", "account_id", "name", "description", "is_default", "avatar", "avatar_color",
	"system_prompt", "agentpress_tools", "configured_mcps", "custom_mcps",
	"is_protected", "restrictions", "current_version_id", "created_at", "updated_at",
}

// AgentRepository handles database operations for agents.
type AgentRepository struct {
	pool *pgxpool.Pool
}

// NewAgentRepository creates a new AgentRepository.
func NewAgentRepository(pool *pgxpool.Pool) *AgentRepository {
	return &AgentRepository{pool: pool}
}

// scanAgent scans a single row into an Agent struct.
func scanAgent(row pgx.Row) (*domain.Agent, error) {
	var (
		agent        domain.Agent
		raw          rawConfig
		restrictions []byte
	)
	err := row.Scan(
		&agent.ID,
		&agent.AccountID,
		&agent.Name,
		&agent.Description,
		&agent.IsDefault,
		&agent.Avatar,
		&agent.AvatarColor,
		&agent.SystemPrompt,
		&raw.tools,
		&raw.configured,
		&raw.custom,
		&agent.Protected,
		&restrictions,
		&agent.CurrentVersionID,
		&agent.CreatedAt,
		&agent.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAgentNotFound
		}
		return nil, fmt.Errorf("scan agent: %w", err)
	}

	if err := raw.decode(&agent.Config); err != nil {
		return nil, fmt.Errorf("agent %s: %w", agent.ID, err)
	}

	agent.Restrictions = domain.DefaultRestrictions()
	if err := decodeJSON(restrictions, &agent.Restrictions); err != nil {
		return nil, fmt.Errorf("agent %s restrictions: %w", agent.ID, err)
	}

	return &agent, nil
}

// GetByID retrieves an agent by ID.
func (r *AgentRepository) GetByID(ctx context.Context, agentID string) (*domain.Agent, error) {
	query, args, err := psql.
		Select(agentColumns...).
		From("agents").
		Where(sq.Eq{"id": agentID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetByID query for agent: %w", err)
	}

	return scanAgent(r.pool.QueryRow(ctx, query, args...))
}

// GetByIDForUpdate retrieves an agent by ID with FOR UPDATE lock (within transaction).
func (r *AgentRepository) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, agentID string) (*domain.Agent, error) {
	query, args, err := psql.
		Select(agentColumns...).
		From("agents").
		Where(sq.Eq{"id": agentID}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetByIDForUpdate query for agent %s: %w", agentID, err)
	}

	return scanAgent(tx.QueryRow(ctx, query, args...))
}

// ListByAccount retrieves all agents of an account, default agents first.
func (r *AgentRepository) ListByAccount(ctx context.Context, accountID string) ([]*domain.Agent, error) {
	query, args, err := psql.
		Select(agentColumns...).
		From("agents").
		Where(sq.Eq{"account_id": accountID}).
		OrderBy("is_default DESC", "created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build ListByAccount query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query agents: %w", err)
	}
	defer rows.Close()

	var agents []*domain.Agent
	for rows.Next() {
		agent, err := scanAgent(rows)
		if err != nil {
			return nil, err
		}
		agents = append(agents, agent)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return agents, nil
}

// Create inserts a new agent within a transaction.
// Returns the agent with ID, CreatedAt, and UpdatedAt populated.
func (r *AgentRepository) Create(ctx context.Context, tx pgx.Tx, agent *domain.Agent) (*domain.Agent, error) {
	tools, configured, custom, err := encodeConfig(agent.Config)
	if err != nil {
		return nil, err
	}
	restrictions, err := encodeJSON(agent.Restrictions)
	if err != nil {
		return nil, err
	}

	query, args, err := psql.
		Insert("agents").
		Columns(
			"account_id", "name", "description", "is_default", "avatar", "avatar_color",
			"system_prompt", "agentpress_tools", "configured_mcps", "custom_mcps",
			"is_protected", "restrictions",
		).
		Values(
			agent.AccountID,
			agent.Name,
			agent.Description,
			agent.IsDefault,
			agent.Avatar,
			agent.AvatarColor,
			agent.SystemPrompt,
			tools,
			configured,
			custom,
			agent.Protected,
			restrictions,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build Create query for agent: %w", err)
	}

	err = tx.QueryRow(ctx, query, args...).Scan(&agent.ID, &agent.CreatedAt, &agent.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("create agent: %w", err)
	}

	return agent, nil
}

// UpdateIdentity updates the non-versioned agent fields.
func (r *AgentRepository) UpdateIdentity(ctx context.Context, tx pgx.Tx, agentID string, identity domain.Identity) error {
	query, args, err := psql.
		Update("agents").
		Set("name", identity.Name).
		Set("description", identity.Description).
		Set("is_default", identity.IsDefault).
		Set("avatar", identity.Avatar).
		Set("avatar_color", identity.AvatarColor).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": agentID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build UpdateIdentity query for agent %s: %w", agentID, err)
	}

	tag, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update agent identity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAgentNotFound
	}

	return nil
}

// SetCurrentVersion moves the agent's version pointer with optimistic locking.
// The top-level config columns are refreshed from cfg so they stay a valid fallback.
// Returns ErrVersionConflict if the pointer no longer equals expected.
func (r *AgentRepository) SetCurrentVersion(
	ctx context.Context,
	tx pgx.Tx,
	agentID string,
	expected *string,
	versionID string,
	cfg domain.Config,
) error {
	tools, configured, custom, err := encodeConfig(cfg)
	if err != nil {
		return err
	}

	where := sq.And{sq.Eq{"id": agentID}}
	if expected == nil {
		where = append(where, sq.Eq{"current_version_id": nil})
	} else {
		where = append(where, sq.Eq{"current_version_id": *expected})
	}

	query, args, err := psql.
		Update("agents").
		Set("current_version_id", versionID).
		Set("system_prompt", cfg.SystemPrompt).
		Set("agentpress_tools", tools).
		Set("configured_mcps", configured).
		Set("custom_mcps", custom).
		Set("updated_at", sq.Expr("NOW()")).
		Where(where).
		ToSql()
	if err != nil {
		return fmt.Errorf("build SetCurrentVersion query for agent %s: %w", agentID, err)
	}

	tag, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("set current version: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrVersionConflict
	}

	return nil
}
