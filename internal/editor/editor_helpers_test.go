package editor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mtlprog/agentdesk/internal/domain"
)

const testAgentID = "agent-1"

func baseConfig() domain.Config {
	return domain.Config{
		SystemPrompt:   "You are helpful",
		Tools:          domain.ToolMap{},
		ConfiguredMCPs: []domain.ConfiguredMCP{},
		CustomMCPs:     []domain.CustomMCP{},
	}
}

func newAgent() *domain.Agent {
	return &domain.Agent{
		ID:           testAgentID,
		AccountID:    "acc-1",
		Identity:     domain.Identity{Name: "Helper", Description: "Helps", Avatar: "robot", AvatarColor: "#112233"},
		Restrictions: domain.DefaultRestrictions(),
	}
}

type fixture struct {
	session  *Session
	api      *fakeAPI
	notices  *Recorder
	ctx      context.Context
	initialV string
}

func newFixture(t *testing.T, configure func(a *domain.Agent)) *fixture {
	t.Helper()
	agent := newAgent()
	if configure != nil {
		configure(agent)
	}
	api := newFakeAPI(agent, baseConfig())
	rec := &Recorder{}
	s := NewSession(api, WithNotifier(rec))

	ctx := context.Background()
	require.NoError(t, s.Load(ctx, testAgentID, ""))
	rec.Reset()

	return &fixture{session: s, api: api, notices: rec, ctx: ctx, initialV: "version-1"}
}

func protect(r domain.Restrictions) func(*domain.Agent) {
	return func(a *domain.Agent) {
		a.Protected = true
		a.Restrictions = r
	}
}
