package service_test

import (
	"context"
	"os"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/suite"

	"github.com/mtlprog/agentdesk/internal/database"
	"github.com/mtlprog/agentdesk/internal/domain"
	"github.com/mtlprog/agentdesk/internal/repository"
	"github.com/mtlprog/agentdesk/internal/service"
)

// AgentServiceTestSuite runs the service against a real PostgreSQL.
type AgentServiceTestSuite struct {
	suite.Suite
	pool         *pgxpool.Pool
	agentService *service.AgentService

	// Test fixtures
	owner    *domain.Account
	stranger *domain.Account
}

func (s *AgentServiceTestSuite) SetupSuite() {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		s.T().Skip("DATABASE_URL not set")
	}

	ctx := context.Background()

	db, err := database.New(ctx, databaseURL)
	s.Require().NoError(err, "failed to connect to database")
	s.pool = db.Pool()

	_, err = database.RunMigrations(ctx, s.pool)
	s.Require().NoError(err, "failed to run migrations")

	s.agentService = service.NewAgentService(
		s.pool,
		repository.NewAgentRepository(s.pool),
		repository.NewVersionRepository(s.pool),
	)
}

func (s *AgentServiceTestSuite) SetupTest() {
	ctx := context.Background()

	_, err := s.pool.Exec(ctx, "TRUNCATE accounts, agents, agent_versions CASCADE")
	s.Require().NoError(err, "failed to truncate tables")

	_, err = s.pool.Exec(ctx, `
		INSERT INTO accounts (id, name, token, is_active)
		VALUES
			('00000000-0000-0000-0000-000000000021', 'owner', 'owner-token', true),
			('00000000-0000-0000-0000-000000000022', 'stranger', 'stranger-token', true)
	`)
	s.Require().NoError(err, "failed to create accounts")

	s.owner = &domain.Account{ID: "00000000-0000-0000-0000-000000000021", IsActive: true}
	s.stranger = &domain.Account{ID: "00000000-0000-0000-0000-000000000022", IsActive: true}
}

func (s *AgentServiceTestSuite) TearDownSuite() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func TestAgentServiceSuite(t *testing.T) {
	suite.Run(t, new(AgentServiceTestSuite))
}

func (s *AgentServiceTestSuite) create(params service.CreateAgentParams) *domain.Agent {
	agent, err := s.agentService.CreateAgent(context.Background(), s.owner, params)
	s.Require().NoError(err)
	return agent
}

func (s *AgentServiceTestSuite) basic() *domain.Agent {
	return s.create(service.CreateAgentParams{
		Identity: domain.Identity{Name: "Helper"},
		Config:   domain.Config{SystemPrompt: "You are helpful", Tools: domain.ToolMap{"files": {Enabled: true}}},
	})
}

func (s *AgentServiceTestSuite) TestCreateAgent_InitialVersion() {
	agent := s.basic()

	s.Require().NotNil(agent.CurrentVersion)
	s.Equal(1, agent.CurrentVersion.Number)
	s.Equal("v1", agent.CurrentVersion.Name)
	s.Equal(service.InitialChangeDescription, agent.CurrentVersion.ChangeDescription)
	s.Equal(domain.DefaultRestrictions(), agent.Restrictions)

	got, err := s.agentService.GetAgent(context.Background(), s.owner, agent.ID)
	s.Require().NoError(err)
	s.Require().NotNil(got.CurrentVersion)
	s.True(got.CurrentVersion.Config.Tools.Enabled("files"))
}

func (s *AgentServiceTestSuite) TestCreateAgent_Validation() {
	_, err := s.agentService.CreateAgent(context.Background(), s.owner, service.CreateAgentParams{
		Identity: domain.Identity{Name: "  "},
	})
	s.ErrorIs(err, domain.ErrEmptyName)
}

func (s *AgentServiceTestSuite) TestGetAgent_OtherAccount() {
	agent := s.basic()
	_, err := s.agentService.GetAgent(context.Background(), s.stranger, agent.ID)
	s.ErrorIs(err, domain.ErrPermissionDenied)
}

func (s *AgentServiceTestSuite) TestCreateVersion_NumbersAreMonotonic() {
	ctx := context.Background()
	agent := s.basic()

	for i := 2; i <= 4; i++ {
		v, err := s.agentService.CreateVersion(ctx, s.owner, agent.ID, domain.VersionInput{
			Config:            domain.Config{SystemPrompt: "prompt"},
			ChangeDescription: "Updated system prompt",
		})
		s.Require().NoError(err)
		s.Equal(i, v.Number)
	}

	versions, err := s.agentService.ListVersions(ctx, s.owner, agent.ID)
	s.Require().NoError(err)
	s.Require().Len(versions, 4)
	s.Equal(4, versions[0].Number)
	s.Equal(1, versions[3].Number)

	got, err := s.agentService.GetAgent(ctx, s.owner, agent.ID)
	s.Require().NoError(err)
	s.True(got.IsCurrentVersion(versions[0].ID))
}

func (s *AgentServiceTestSuite) TestCreateVersion_RequiresChangeDescription() {
	agent := s.basic()
	_, err := s.agentService.CreateVersion(context.Background(), s.owner, agent.ID, domain.VersionInput{})
	s.ErrorIs(err, domain.ErrEmptyChangeNote)
}

func (s *AgentServiceTestSuite) TestCreateVersion_StaleBase() {
	ctx := context.Background()
	agent := s.basic()
	base := *agent.CurrentVersionID

	_, err := s.agentService.CreateVersion(ctx, s.owner, agent.ID, domain.VersionInput{
		Config:            domain.Config{SystemPrompt: "first"},
		ChangeDescription: "Updated system prompt",
		BaseVersionID:     &base,
	})
	s.Require().NoError(err)

	_, err = s.agentService.CreateVersion(ctx, s.owner, agent.ID, domain.VersionInput{
		Config:            domain.Config{SystemPrompt: "second"},
		ChangeDescription: "Updated system prompt",
		BaseVersionID:     &base,
	})
	s.ErrorIs(err, domain.ErrVersionConflict)
}

func (s *AgentServiceTestSuite) TestCreateVersion_ConcurrentSameBase() {
	ctx := context.Background()
	agent := s.basic()
	base := *agent.CurrentVersionID

	var wg sync.WaitGroup
	errs := make([]error, 5)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.agentService.CreateVersion(ctx, s.owner, agent.ID, domain.VersionInput{
				Config:            domain.Config{SystemPrompt: "racer"},
				ChangeDescription: "Updated system prompt",
				BaseVersionID:     &base,
			})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		s.ErrorIs(err, domain.ErrVersionConflict)
	}
	s.Equal(1, succeeded)
}

func (s *AgentServiceTestSuite) TestRestrictions() {
	ctx := context.Background()
	agent := s.create(service.CreateAgentParams{
		Identity:     domain.Identity{Name: "Guarded"},
		Config:       domain.Config{SystemPrompt: "Be careful", Tools: domain.ToolMap{"files": {Enabled: true}}},
		Protected:    true,
		Restrictions: &domain.Restrictions{NameEditable: false, SystemPromptEditable: false, ToolsEditable: true},
	})

	renamed := "Renamed"
	_, err := s.agentService.UpdateAgent(ctx, s.owner, agent.ID, domain.IdentityPatch{Name: &renamed})
	s.ErrorIs(err, domain.ErrFieldRestricted)

	_, err = s.agentService.CreateVersion(ctx, s.owner, agent.ID, domain.VersionInput{
		Config:            domain.Config{SystemPrompt: "Be reckless", Tools: domain.ToolMap{"files": {Enabled: true}}},
		ChangeDescription: "Updated system prompt",
	})
	s.ErrorIs(err, domain.ErrFieldRestricted)

	// Unlocked fields still go through.
	_, err = s.agentService.CreateVersion(ctx, s.owner, agent.ID, domain.VersionInput{
		Config:            domain.Config{SystemPrompt: "Be careful"},
		ChangeDescription: "Updated tools",
	})
	s.Require().NoError(err)

	description := "new"
	updated, err := s.agentService.UpdateAgent(ctx, s.owner, agent.ID, domain.IdentityPatch{Description: &description})
	s.Require().NoError(err)
	s.Equal("new", updated.Description)
}

func (s *AgentServiceTestSuite) TestSaveAgent_Atomic() {
	ctx := context.Background()
	agent := s.basic()

	// Invalid version input rolls the identity change back.
	_, _, err := s.agentService.SaveAgent(ctx, s.owner, agent.ID, domain.SaveInput{
		Identity: domain.Identity{Name: "Renamed"},
		Version:  domain.VersionInput{Config: domain.Config{SystemPrompt: "x"}},
	})
	s.ErrorIs(err, domain.ErrEmptyChangeNote)

	got, err := s.agentService.GetAgent(ctx, s.owner, agent.ID)
	s.Require().NoError(err)
	s.Equal("Helper", got.Name)

	saved, version, err := s.agentService.SaveAgent(ctx, s.owner, agent.ID, domain.SaveInput{
		Identity: domain.Identity{Name: "Renamed"},
		Version: domain.VersionInput{
			Config:            domain.Config{SystemPrompt: "You are a pirate"},
			ChangeDescription: "Manual save",
			BaseVersionID:     agent.CurrentVersionID,
		},
	})
	s.Require().NoError(err)
	s.Equal("Renamed", saved.Name)
	s.Equal(2, version.Number)
	s.True(saved.IsCurrentVersion(version.ID))
	s.Require().NotNil(saved.CurrentVersion)
	s.Equal("You are a pirate", saved.CurrentVersion.Config.SystemPrompt)
}

func (s *AgentServiceTestSuite) TestActivateVersion() {
	ctx := context.Background()
	agent := s.basic()
	first := *agent.CurrentVersionID

	_, err := s.agentService.CreateVersion(ctx, s.owner, agent.ID, domain.VersionInput{
		Config:            domain.Config{SystemPrompt: "second"},
		ChangeDescription: "Updated system prompt",
	})
	s.Require().NoError(err)

	activated, err := s.agentService.ActivateVersion(ctx, s.owner, agent.ID, first)
	s.Require().NoError(err)
	s.True(activated.IsCurrentVersion(first))
	s.Require().NotNil(activated.CurrentVersion)
	s.Equal("You are helpful", activated.CurrentVersion.Config.SystemPrompt)

	// Activating keeps history intact.
	versions, err := s.agentService.ListVersions(ctx, s.owner, agent.ID)
	s.Require().NoError(err)
	s.Len(versions, 2)

	// Idempotent for the current version.
	again, err := s.agentService.ActivateVersion(ctx, s.owner, agent.ID, first)
	s.Require().NoError(err)
	s.True(again.IsCurrentVersion(first))
}

func (s *AgentServiceTestSuite) TestActivateVersion_ForeignVersion() {
	ctx := context.Background()
	mine := s.basic()
	other := s.basic()

	_, err := s.agentService.ActivateVersion(ctx, s.owner, mine.ID, *other.CurrentVersionID)
	s.ErrorIs(err, domain.ErrVersionNotFound)

	_, err = s.agentService.GetVersion(ctx, s.owner, mine.ID, *other.CurrentVersionID)
	s.ErrorIs(err, domain.ErrVersionNotFound)
}

func (s *AgentServiceTestSuite) TestListAgents_EmbedsCurrentVersion() {
	s.basic()
	s.basic()

	agents, err := s.agentService.ListAgents(context.Background(), s.owner)
	s.Require().NoError(err)
	s.Len(agents, 2)
	for _, a := range agents {
		s.NotNil(a.CurrentVersion)
	}

	agents, err = s.agentService.ListAgents(context.Background(), s.stranger)
	s.Require().NoError(err)
	s.Empty(agents)
}

func (s *AgentServiceTestSuite) TestUpdateAgent_ConcurrentPartialUpdatesKeepBothFields() {
	ctx := context.Background()
	agent := s.basic()

	description := "Sails the seas"
	avatar := "parrot"
	patches := []domain.IdentityPatch{{Description: &description}, {Avatar: &avatar}}

	var wg sync.WaitGroup
	for _, p := range patches {
		wg.Add(1)
		go func(p domain.IdentityPatch) {
			defer wg.Done()
			_, err := s.agentService.UpdateAgent(ctx, s.owner, agent.ID, p)
			s.NoError(err)
		}(p)
	}
	wg.Wait()

	got, err := s.agentService.GetAgent(ctx, s.owner, agent.ID)
	s.Require().NoError(err)
	s.Equal("Helper", got.Name)
	s.Equal("Sails the seas", got.Description)
	s.Equal("parrot", got.Avatar)
}
