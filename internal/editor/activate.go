package editor

import (
	"context"
	"fmt"

	"github.com/mtlprog/agentdesk/internal/domain"
)

// Activate makes versionID the agent's current version.
//
// The draft is left alone. The historical selection is dropped so the next
// Reload seeds from the newly active version.
func (s *Session) Activate(ctx context.Context, versionID string) error {
	agent := s.Agent()
	if agent == nil {
		s.notify(LevelError, "Agent not loaded")
		return domain.ErrAgentNotLoaded
	}

	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	updated, err := s.api.ActivateVersion(ctx, agent.ID, versionID)
	if err != nil {
		s.notify(LevelError, "Failed to activate version: "+userMessage(err))
		return fmt.Errorf("activate version %s: %w", versionID, err)
	}

	s.mu.Lock()
	if s.agent != nil && s.agent.ID == agent.ID {
		if updated.CurrentVersion == nil && s.agent.CurrentVersion != nil && updated.IsCurrentVersion(s.agent.CurrentVersion.ID) {
			updated.CurrentVersion = s.agent.CurrentVersion
		}
		s.agent = updated
	}
	s.store.ClearViewedVersion()
	s.mu.Unlock()

	s.log.Info().Str("agent_id", agent.ID).Str("version_id", versionID).Msg("version activated")
	s.notify(LevelSuccess, "Version activated")
	return nil
}

// Reload fetches the agent again, keeping the historical selection if any,
// and reseeds the draft.
func (s *Session) Reload(ctx context.Context) error {
	agent := s.Agent()
	if agent == nil {
		s.notify(LevelError, "Agent not loaded")
		return domain.ErrAgentNotLoaded
	}

	var versionID string
	if viewed := s.store.ViewedVersion(); viewed != nil {
		versionID = viewed.ID
	}
	return s.Load(ctx, agent.ID, versionID)
}

// History lists the agent's versions, newest first.
func (s *Session) History(ctx context.Context) ([]*domain.AgentVersion, error) {
	agent := s.Agent()
	if agent == nil {
		return nil, domain.ErrAgentNotLoaded
	}
	versions, err := s.api.ListVersions(ctx, agent.ID)
	if err != nil {
		return nil, fmt.Errorf("list versions of %s: %w", agent.ID, err)
	}
	return versions, nil
}
