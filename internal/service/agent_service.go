package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mtlprog/agentdesk/internal/domain"
	"github.com/mtlprog/agentdesk/internal/logger"
	"github.com/mtlprog/agentdesk/internal/repository"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

// InitialChangeDescription labels the version created together with an agent.
const InitialChangeDescription = "Initial version"

// AgentService coordinates agent and version operations.
type AgentService struct {
	pool        *pgxpool.Pool
	agentRepo   *repository.AgentRepository
	versionRepo *repository.VersionRepository
	validator   *Validator
	log         zerolog.Logger
}

// NewAgentService creates a new AgentService.
func NewAgentService(
	pool *pgxpool.Pool,
	agentRepo *repository.AgentRepository,
	versionRepo *repository.VersionRepository,
) *AgentService {
	return &AgentService{
		pool:        pool,
		agentRepo:   agentRepo,
		versionRepo: versionRepo,
		validator:   NewValidator(),
		log:         logger.Get("service"),
	}
}

// CreateAgentParams holds the input for CreateAgent.
type CreateAgentParams struct {
	Identity     domain.Identity
	Config       domain.Config
	Protected    bool
	Restrictions *domain.Restrictions
}

// begin starts a transaction and returns a rollback func that is safe to defer.
func (s *AgentService) begin(ctx context.Context) (pgx.Tx, func(), error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("begin transaction: %w", err)
	}
	rollback := func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			s.log.Error().Err(err).Msg("failed to rollback transaction")
		}
	}
	return tx, rollback, nil
}

// getOwnedAgent fetches an agent and verifies the account owns it.
func (s *AgentService) getOwnedAgent(ctx context.Context, account *domain.Account, agentID string) (*domain.Agent, error) {
	agent, err := s.agentRepo.GetByID(ctx, agentID)
	if err != nil {
		return nil, err
	}
	if err := s.validator.CanAccess(agent, account); err != nil {
		return nil, err
	}
	return agent, nil
}

// lockOwnedAgent is getOwnedAgent with a row lock inside tx.
func (s *AgentService) lockOwnedAgent(ctx context.Context, tx pgx.Tx, account *domain.Account, agentID string) (*domain.Agent, error) {
	agent, err := s.agentRepo.GetByIDForUpdate(ctx, tx, agentID)
	if err != nil {
		return nil, err
	}
	if err := s.validator.CanAccess(agent, account); err != nil {
		return nil, err
	}
	return agent, nil
}

// attachCurrentVersion loads the version the agent points at.
// A dangling pointer is logged and left unattached.
func (s *AgentService) attachCurrentVersion(ctx context.Context, agent *domain.Agent) error {
	if agent.CurrentVersionID == nil {
		return nil
	}
	version, err := s.versionRepo.GetByID(ctx, *agent.CurrentVersionID)
	if err != nil {
		if errors.Is(err, domain.ErrVersionNotFound) {
			s.log.Warn().
				Str("agent_id", agent.ID).
				Str("version_id", *agent.CurrentVersionID).
				Msg("current version not found")
			return nil
		}
		return fmt.Errorf("get current version: %w", err)
	}
	agent.CurrentVersion = version
	return nil
}

// effectiveConfig returns the configuration the agent currently runs with.
func effectiveConfig(agent *domain.Agent) domain.Config {
	if agent.CurrentVersion != nil {
		return agent.CurrentVersion.Config
	}
	return agent.Config
}

// GetAgent returns an agent with its current version embedded.
func (s *AgentService) GetAgent(ctx context.Context, account *domain.Account, agentID string) (*domain.Agent, error) {
	agent, err := s.getOwnedAgent(ctx, account, agentID)
	if err != nil {
		return nil, err
	}
	if err := s.attachCurrentVersion(ctx, agent); err != nil {
		return nil, err
	}
	return agent, nil
}

// ListAgents returns the account's agents with their current versions embedded.
func (s *AgentService) ListAgents(ctx context.Context, account *domain.Account) ([]*domain.Agent, error) {
	agents, err := s.agentRepo.ListByAccount(ctx, account.ID)
	if err != nil {
		return nil, err
	}

	ids := lo.FilterMap(agents, func(a *domain.Agent, _ int) (string, bool) {
		if a.CurrentVersionID == nil {
			return "", false
		}
		return *a.CurrentVersionID, true
	})

	versions, err := s.versionRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("get current versions: %w", err)
	}
	byID := lo.KeyBy(versions, func(v *domain.AgentVersion) string { return v.ID })

	for _, agent := range agents {
		if agent.CurrentVersionID != nil {
			agent.CurrentVersion = byID[*agent.CurrentVersionID]
		}
	}

	return agents, nil
}

// CreateAgent creates an agent together with its first version.
func (s *AgentService) CreateAgent(ctx context.Context, account *domain.Account, params CreateAgentParams) (*domain.Agent, error) {
	if err := s.validator.ValidateIdentity(params.Identity); err != nil {
		return nil, err
	}
	if err := s.validator.ValidateConfig(params.Config); err != nil {
		return nil, err
	}

	tx, rollback, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer rollback()

	agent := &domain.Agent{
		AccountID:    account.ID,
		Identity:     params.Identity,
		Config:       params.Config,
		Protected:    params.Protected,
		Restrictions: domain.DefaultRestrictions(),
	}
	if params.Restrictions != nil {
		agent.Restrictions = *params.Restrictions
	}

	if _, err := s.agentRepo.Create(ctx, tx, agent); err != nil {
		return nil, err
	}

	version, err := s.versionRepo.Create(ctx, tx, &domain.AgentVersion{
		AgentID:           agent.ID,
		Config:            params.Config,
		ChangeDescription: InitialChangeDescription,
	})
	if err != nil {
		return nil, err
	}

	if err := s.agentRepo.SetCurrentVersion(ctx, tx, agent.ID, nil, version.ID, version.Config); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	agent.CurrentVersionID = &version.ID
	agent.CurrentVersion = version

	s.log.Info().
		Str("agent_id", agent.ID).
		Str("account_id", account.ID).
		Str("version_id", version.ID).
		Msg("agent created")

	return agent, nil
}

// UpdateAgent applies a partial identity update to the locked agent row.
func (s *AgentService) UpdateAgent(
	ctx context.Context,
	account *domain.Account,
	agentID string,
	patch domain.IdentityPatch,
) (*domain.Agent, error) {
	tx, rollback, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer rollback()

	agent, err := s.lockOwnedAgent(ctx, tx, account, agentID)
	if err != nil {
		return nil, err
	}

	identity := patch.Apply(agent.Identity)
	if err := s.validator.ValidateIdentity(identity); err != nil {
		return nil, err
	}
	if err := s.validator.CheckIdentityChange(agent, identity); err != nil {
		return nil, err
	}

	if err := s.agentRepo.UpdateIdentity(ctx, tx, agentID, identity); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	s.log.Info().Str("agent_id", agentID).Msg("agent identity updated")

	return s.GetAgent(ctx, account, agentID)
}

// ListVersions returns the agent's versions, newest first.
func (s *AgentService) ListVersions(ctx context.Context, account *domain.Account, agentID string) ([]*domain.AgentVersion, error) {
	if _, err := s.getOwnedAgent(ctx, account, agentID); err != nil {
		return nil, err
	}
	return s.versionRepo.ListByAgent(ctx, agentID)
}

// GetVersion returns one version of the agent.
func (s *AgentService) GetVersion(
	ctx context.Context,
	account *domain.Account,
	agentID string,
	versionID string,
) (*domain.AgentVersion, error) {
	agent, err := s.getOwnedAgent(ctx, account, agentID)
	if err != nil {
		return nil, err
	}
	version, err := s.versionRepo.GetByID(ctx, versionID)
	if err != nil {
		return nil, err
	}
	if err := s.validator.CheckVersionBelongs(agent, version); err != nil {
		return nil, err
	}
	return version, nil
}

// appendVersion creates a version for a locked agent and points the agent at it.
func (s *AgentService) appendVersion(
	ctx context.Context,
	tx pgx.Tx,
	agent *domain.Agent,
	in domain.VersionInput,
) (*domain.AgentVersion, error) {
	if in.ChangeDescription == "" {
		return nil, domain.ErrEmptyChangeNote
	}
	if err := s.validator.ValidateConfig(in.Config); err != nil {
		return nil, err
	}

	if in.BaseVersionID != nil && !agent.IsCurrentVersion(*in.BaseVersionID) {
		return nil, fmt.Errorf("%w: agent %s is no longer at version %s", domain.ErrVersionConflict, agent.ID, *in.BaseVersionID)
	}

	if err := s.attachCurrentVersion(ctx, agent); err != nil {
		return nil, err
	}
	if err := s.validator.CheckConfigChange(agent, effectiveConfig(agent), in.Config); err != nil {
		return nil, err
	}

	version, err := s.versionRepo.Create(ctx, tx, &domain.AgentVersion{
		AgentID:           agent.ID,
		Config:            in.Config,
		ChangeDescription: in.ChangeDescription,
	})
	if err != nil {
		return nil, err
	}

	if err := s.agentRepo.SetCurrentVersion(ctx, tx, agent.ID, agent.CurrentVersionID, version.ID, version.Config); err != nil {
		return nil, err
	}

	return version, nil
}

// CreateVersion appends a version and makes it current.
func (s *AgentService) CreateVersion(
	ctx context.Context,
	account *domain.Account,
	agentID string,
	in domain.VersionInput,
) (*domain.AgentVersion, error) {
	tx, rollback, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer rollback()

	agent, err := s.lockOwnedAgent(ctx, tx, account, agentID)
	if err != nil {
		return nil, err
	}

	version, err := s.appendVersion(ctx, tx, agent, in)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	s.log.Info().
		Str("agent_id", agentID).
		Str("version_id", version.ID).
		Str("version_name", version.Name).
		Str("change", version.ChangeDescription).
		Msg("version created")

	return version, nil
}

// SaveAgent updates identity and appends a version in one transaction.
func (s *AgentService) SaveAgent(
	ctx context.Context,
	account *domain.Account,
	agentID string,
	in domain.SaveInput,
) (*domain.Agent, *domain.AgentVersion, error) {
	if err := s.validator.ValidateIdentity(in.Identity); err != nil {
		return nil, nil, err
	}

	tx, rollback, err := s.begin(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer rollback()

	agent, err := s.lockOwnedAgent(ctx, tx, account, agentID)
	if err != nil {
		return nil, nil, err
	}

	if err := s.validator.CheckIdentityChange(agent, in.Identity); err != nil {
		return nil, nil, err
	}

	if err := s.agentRepo.UpdateIdentity(ctx, tx, agentID, in.Identity); err != nil {
		return nil, nil, err
	}

	version, err := s.appendVersion(ctx, tx, agent, in.Version)
	if err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, fmt.Errorf("commit transaction: %w", err)
	}

	s.log.Info().
		Str("agent_id", agentID).
		Str("version_id", version.ID).
		Str("version_name", version.Name).
		Msg("agent saved")

	saved, err := s.GetAgent(ctx, account, agentID)
	if err != nil {
		return nil, nil, err
	}
	return saved, version, nil
}

// ActivateVersion makes an existing version the agent's current version.
func (s *AgentService) ActivateVersion(
	ctx context.Context,
	account *domain.Account,
	agentID string,
	versionID string,
) (*domain.Agent, error) {
	tx, rollback, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer rollback()

	agent, err := s.lockOwnedAgent(ctx, tx, account, agentID)
	if err != nil {
		return nil, err
	}

	version, err := s.versionRepo.GetByID(ctx, versionID)
	if err != nil {
		return nil, err
	}
	if err := s.validator.CheckVersionBelongs(agent, version); err != nil {
		return nil, err
	}

	if agent.IsCurrentVersion(versionID) {
		if err := tx.Commit(ctx); err != nil {
			return nil, fmt.Errorf("commit transaction: %w", err)
		}
		agent.CurrentVersion = version
		return agent, nil
	}

	if err := s.agentRepo.SetCurrentVersion(ctx, tx, agentID, agent.CurrentVersionID, versionID, version.Config); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	s.log.Info().
		Str("agent_id", agentID).
		Str("version_id", versionID).
		Str("version_name", version.Name).
		Msg("version activated")

	return s.GetAgent(ctx, account, agentID)
}
