package editor

import (
	"context"
	"fmt"

	"github.com/mtlprog/agentdesk/internal/domain"
)

// fieldSave describes one immediate-save path.
type fieldSave struct {
	fields      []domain.Field
	change      string
	success     string
	failureNoun string
	apply       func(*domain.Config)
}

// SaveSystemPrompt sets the system prompt and persists it as a new version.
func (s *Session) SaveSystemPrompt(ctx context.Context, prompt string) error {
	return s.saveField(ctx, fieldSave{
		fields:      []domain.Field{domain.FieldSystemPrompt},
		change:      ChangeSystemPrompt,
		success:     "System prompt saved",
		failureNoun: "system prompt",
		apply:       func(c *domain.Config) { c.SystemPrompt = prompt },
	})
}

// SaveTools sets the tool map and persists it as a new version.
func (s *Session) SaveTools(ctx context.Context, tools domain.ToolMap) error {
	tools = tools.Clone()
	return s.saveField(ctx, fieldSave{
		fields:      []domain.Field{domain.FieldTools},
		change:      ChangeTools,
		success:     "Tools updated",
		failureNoun: "tools",
		apply:       func(c *domain.Config) { c.Tools = tools.Clone() },
	})
}

// ToggleToolAndSave flips one tool and persists the resulting tool map.
func (s *Session) ToggleToolAndSave(ctx context.Context, name string) error {
	return s.SaveTools(ctx, toggled(s.Draft().Tools, name))
}

// SaveIntegrations sets both integration lists and persists them as a new version.
func (s *Session) SaveIntegrations(ctx context.Context, configured []domain.ConfiguredMCP, custom []domain.CustomMCP) error {
	lists := domain.Config{ConfiguredMCPs: configured, CustomMCPs: custom}.Clone()
	return s.saveField(ctx, fieldSave{
		fields:      []domain.Field{domain.FieldConfiguredMCPs, domain.FieldCustomMCPs},
		change:      ChangeIntegrations,
		success:     "Integrations updated",
		failureNoun: "integrations",
		apply: func(c *domain.Config) {
			cloned := lists.Clone()
			c.ConfiguredMCPs = cloned.ConfiguredMCPs
			c.CustomMCPs = cloned.CustomMCPs
		},
	})
}

// saveField applies fs to the draft and creates a version whose other
// behavior fields come from the original, not from the draft. Writes are
// serialized with every other save of the session, so each one builds on the
// version the previous one produced.
func (s *Session) saveField(ctx context.Context, fs fieldSave) error {
	s.mu.Lock()
	if b := s.savableLocked(); b != nil {
		s.mu.Unlock()
		return s.reject(b)
	}

	candidate := s.draft.Clone()
	fs.apply(&candidate.Config)
	changes := s.cmp.Diff(candidate, s.original).Only(fs.fields...)
	if b := s.restrictedLocked(changes); b != nil {
		s.mu.Unlock()
		return s.reject(b)
	}

	fs.apply(&s.draft.Config)
	s.store.SetUnsavedChanges(s.cmp.IsDirty(s.draft, s.original))
	generation := s.generation
	agentID := s.agent.ID
	s.mu.Unlock()

	if len(changes) == 0 {
		return nil
	}

	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.mu.Lock()
	if s.generation != generation || s.agent == nil {
		s.mu.Unlock()
		s.notify(LevelWarning, "Agent was reloaded before the "+fs.failureNoun+" could be saved")
		return domain.ErrVersionConflict
	}
	cfg := s.original.Config.Clone()
	fs.apply(&cfg)
	var base *string
	if s.agent.CurrentVersionID != nil {
		id := *s.agent.CurrentVersionID
		base = &id
	}
	s.mu.Unlock()

	version, err := s.api.CreateVersion(ctx, agentID, domain.VersionInput{
		Config:            normalizeConfig(cfg),
		ChangeDescription: fs.change,
		BaseVersionID:     base,
	})
	if err != nil {
		s.notify(LevelError, "Failed to save "+fs.failureNoun+": "+userMessage(err))
		return fmt.Errorf("save %s of agent %s: %w", fs.failureNoun, agentID, err)
	}

	s.mu.Lock()
	if s.generation == generation && s.agent != nil {
		agent := *s.agent
		agent.CurrentVersionID = &version.ID
		agent.CurrentVersion = version
		agent.Config = version.Config
		s.agent = &agent

		fs.apply(&s.original.Config)
		s.store.SetUnsavedChanges(s.cmp.IsDirty(s.draft, s.original))
	}
	s.mu.Unlock()

	s.log.Info().
		Str("agent_id", agentID).
		Str("version_id", version.ID).
		Str("change", fs.change).
		Msg("field saved")
	s.notify(LevelSuccess, fs.success)
	return nil
}
