package handler_test

import (
	"context"
	"net/http/httptest"

	"github.com/mtlprog/agentdesk/internal/client"
	"github.com/mtlprog/agentdesk/internal/domain"
	"github.com/mtlprog/agentdesk/internal/editor"
	"github.com/mtlprog/agentdesk/internal/handler/dto"
)

func (s *HandlerTestSuite) newSession(token string) (*editor.Session, *editor.Recorder) {
	srv := httptest.NewServer(s.router)
	s.T().Cleanup(srv.Close)

	api, err := client.New(client.Config{BaseURL: srv.URL, Token: token})
	s.Require().NoError(err)

	rec := &editor.Recorder{}
	return editor.NewSession(api, editor.WithNotifier(rec)), rec
}

func (s *HandlerTestSuite) TestEditorFlow_PirateScenario() {
	ctx := context.Background()
	agent := s.createAgent(dto.CreateAgentRequest{
		Name:         "Helper",
		SystemPrompt: "You are helpful",
		Tools:        domain.ToolMap{"files": {Enabled: true}},
		CustomMCPs:   []domain.CustomMCP{{Type: "http", Config: map[string]any{"url": "http://mcp"}}},
	})

	session, rec := s.newSession(s.account1Token)
	s.Require().NoError(session.Load(ctx, agent.AgentID, ""))
	s.False(session.IsDirty())
	s.Equal("You are helpful", session.Draft().SystemPrompt)

	s.Require().NoError(session.SetSystemPrompt("You are a pirate"))
	s.True(session.IsDirty())

	s.Require().NoError(session.Save(ctx))
	s.False(session.IsDirty())
	s.Equal("Agent saved successfully", rec.Last().Message)

	s.Require().NoError(session.Reload(ctx))
	s.Equal("You are a pirate", session.Draft().SystemPrompt)
	s.Require().NotNil(session.Agent().CurrentVersion)
	s.Equal("v2", session.Agent().CurrentVersion.Name)
	s.Equal(editor.ChangeManualSave, session.Agent().CurrentVersion.ChangeDescription)
}

func (s *HandlerTestSuite) TestEditorFlow_AutosaveAndActivate() {
	ctx := context.Background()
	agent := s.createAgent(dto.CreateAgentRequest{Name: "Helper", SystemPrompt: "You are helpful"})

	session, rec := s.newSession(s.account1Token)
	s.Require().NoError(session.Load(ctx, agent.AgentID, ""))

	s.Require().NoError(session.ToggleToolAndSave(ctx, "web_search"))
	s.Require().NoError(session.SaveSystemPrompt(ctx, "You are terse"))

	history, err := session.History(ctx)
	s.Require().NoError(err)
	s.Require().Len(history, 3)
	s.Equal(editor.ChangeSystemPrompt, history[0].ChangeDescription)
	s.True(history[0].Config.Tools.Enabled("web_search"))
	s.Equal(editor.ChangeTools, history[1].ChangeDescription)

	first := history[2]
	s.Require().NoError(session.SelectVersion(ctx, first.ID))
	s.False(session.Editable())
	s.Equal("You are helpful", session.Display().SystemPrompt)

	s.Require().NoError(session.Activate(ctx, first.ID))
	s.Equal("Version activated", rec.Last().Message)
	s.True(session.Editable())

	s.Require().NoError(session.Reload(ctx))
	s.Equal("You are helpful", session.Draft().SystemPrompt)
	s.False(session.Draft().Tools.Enabled("web_search"))
}

func (s *HandlerTestSuite) TestEditorFlow_ServerRejectsRestrictedChange() {
	ctx := context.Background()
	agent := s.protectedAgent()

	session, rec := s.newSession(s.account1Token)
	s.Require().NoError(session.Load(ctx, agent.AgentID, ""))

	err := session.SaveTools(ctx, domain.ToolMap{})
	s.ErrorIs(err, domain.ErrFieldRestricted)
	s.Contains(rec.Last().Message, "cannot be modified")

	// The prompt is unlocked on this agent.
	s.Require().NoError(session.SaveSystemPrompt(ctx, "Be very careful."))
}

func (s *HandlerTestSuite) TestEditorFlow_ForeignAgent() {
	agent := s.createAgent(dto.CreateAgentRequest{Name: "Mine"})

	session, rec := s.newSession(s.account2Token)
	err := session.Load(context.Background(), agent.AgentID, "")
	s.ErrorIs(err, domain.ErrPermissionDenied)
	s.Contains(rec.Last().Message, "Failed to load agent")
}
