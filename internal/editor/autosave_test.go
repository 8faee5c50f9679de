package editor

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtlprog/agentdesk/internal/domain"
)

func TestSaveSystemPrompt(t *testing.T) {
	f := newFixture(t, nil)
	s := f.session

	require.NoError(t, s.SaveSystemPrompt(f.ctx, "You are a pirate"))

	v := f.api.latest()
	assert.Equal(t, "Updated system prompt", v.ChangeDescription)
	assert.Equal(t, "You are a pirate", v.Config.SystemPrompt)
	assert.Equal(t, "You are a pirate", s.Original().SystemPrompt)
	assert.False(t, s.IsDirty())
	assert.Equal(t, Notice{Level: LevelSuccess, Message: "System prompt saved"}, f.notices.Last())
}

func TestAutosave_BuildsOnOriginalNotDraft(t *testing.T) {
	f := newFixture(t, nil)
	s := f.session

	require.NoError(t, s.SetSystemPrompt("unsaved prompt"))
	require.NoError(t, s.SetName("Unsaved name"))

	require.NoError(t, s.SaveTools(f.ctx, domain.ToolMap{"web_search": {Enabled: true}}))

	v := f.api.latest()
	assert.Equal(t, "Updated tools", v.ChangeDescription)
	assert.True(t, v.Config.Tools.Enabled("web_search"))
	assert.Equal(t, "You are helpful", v.Config.SystemPrompt)

	// Only the saved field moved into the original.
	assert.True(t, s.Original().Tools.Enabled("web_search"))
	assert.Equal(t, "You are helpful", s.Original().SystemPrompt)
	assert.ElementsMatch(t, Changes{domain.FieldName, domain.FieldSystemPrompt}, s.Changes())
	assert.Equal(t, "Helper", f.api.agent.Name)
}

func TestSaveIntegrations(t *testing.T) {
	f := newFixture(t, nil)
	s := f.session

	configured := []domain.ConfiguredMCP{{Name: "Exa", QualifiedName: "exa", EnabledTools: []string{"search"}}}
	custom := []domain.CustomMCP{{Name: "", Config: nil}}

	require.NoError(t, s.SaveIntegrations(f.ctx, configured, custom))

	v := f.api.latest()
	assert.Equal(t, "Updated integrations", v.ChangeDescription)
	assert.Equal(t, configured, v.Config.ConfiguredMCPs)
	require.Len(t, v.Config.CustomMCPs, 1)
	assert.Equal(t, "Unnamed MCP", v.Config.CustomMCPs[0].Name)
	assert.Equal(t, "sse", v.Config.CustomMCPs[0].Type)
	assert.False(t, s.IsDirty())
	assert.Equal(t, "Integrations updated", f.notices.Last().Message)
}

func TestToggleToolAndSave(t *testing.T) {
	f := newFixture(t, nil)
	require.NoError(t, f.session.ToggleToolAndSave(f.ctx, "files"))
	assert.True(t, f.api.latest().Config.Tools.Enabled("files"))
	assert.Equal(t, "Tools updated", f.notices.Last().Message)
}

func TestAutosave_Restricted(t *testing.T) {
	f := newFixture(t, protect(domain.Restrictions{NameEditable: true, SystemPromptEditable: false, ToolsEditable: false}))
	s := f.session

	err := s.SaveTools(f.ctx, domain.ToolMap{"web_search": {Enabled: true}})
	assert.ErrorIs(t, err, domain.ErrFieldRestricted)
	assert.Equal(t, "Tools cannot be modified for this agent", f.notices.Last().Message)
	assert.Empty(t, s.Draft().Tools)

	err = s.SaveSystemPrompt(f.ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrFieldRestricted)
	assert.Equal(t, "You are helpful", s.Draft().SystemPrompt)

	// Integrations are never locked.
	require.NoError(t, s.SaveIntegrations(f.ctx, []domain.ConfiguredMCP{{Name: "Exa"}}, nil))
	assert.Equal(t, 1, f.api.count("CreateVersion"))
}

func TestAutosave_UnchangedValueSkipsNetwork(t *testing.T) {
	f := newFixture(t, nil)
	require.NoError(t, f.session.SaveSystemPrompt(f.ctx, "You are helpful"))
	assert.Zero(t, f.api.writes())
}

func TestAutosave_HistoricalBlocked(t *testing.T) {
	f := newFixture(t, nil)
	s := f.session
	require.NoError(t, s.SaveSystemPrompt(f.ctx, "second"))
	require.NoError(t, s.SelectVersion(f.ctx, f.initialV))

	err := s.SaveTools(f.ctx, domain.ToolMap{"x": {Enabled: true}})
	assert.ErrorIs(t, err, domain.ErrHistoricalVersion)
	assert.Equal(t, 1, f.api.count("CreateVersion"))
}

func TestAutosave_FailureKeepsValueInDraft(t *testing.T) {
	f := newFixture(t, nil)
	s := f.session
	f.api.createErr = errors.New("timeout")

	err := s.SaveSystemPrompt(f.ctx, "You are a pirate")
	require.Error(t, err)
	assert.Equal(t, "Failed to save system prompt: timeout", f.notices.Last().Message)
	assert.Equal(t, "You are a pirate", s.Draft().SystemPrompt)
	assert.Equal(t, "You are helpful", s.Original().SystemPrompt)
	assert.True(t, s.IsDirty())
}

func TestAutosave_OverlappingSavesSerialize(t *testing.T) {
	f := newFixture(t, nil)
	s := f.session

	entered := make(chan struct{}, 2)
	release := make(chan struct{})
	f.api.onCreate = func() {
		entered <- struct{}{}
		<-release
	}

	var wg sync.WaitGroup
	errs := make(chan error, 2)
	wg.Add(2)
	go func() {
		defer wg.Done()
		errs <- s.SaveTools(f.ctx, domain.ToolMap{"web_search": {Enabled: true}})
	}()
	<-entered
	go func() {
		defer wg.Done()
		errs <- s.SaveSystemPrompt(f.ctx, "You are a pirate")
	}()

	close(release)
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	// The second save was built on the version the first produced, so no
	// change was lost and no conflict was raised.
	v := f.api.latest()
	assert.Equal(t, 3, v.Number)
	assert.True(t, v.Config.Tools.Enabled("web_search"))
	assert.Equal(t, "You are a pirate", v.Config.SystemPrompt)
	assert.False(t, s.IsDirty())
}

func TestAutosave_ThenManualSave(t *testing.T) {
	f := newFixture(t, nil)
	s := f.session

	require.NoError(t, s.SetName("Captain"))
	require.NoError(t, s.SaveSystemPrompt(f.ctx, "You are a pirate"))
	require.NoError(t, s.Save(f.ctx))

	v := f.api.latest()
	assert.Equal(t, 3, v.Number)
	assert.Equal(t, "You are a pirate", v.Config.SystemPrompt)
	assert.Equal(t, "Captain", f.api.agent.Name)
	assert.False(t, s.IsDirty())
}
