package editor

import (
	"context"
	"fmt"

	"github.com/mtlprog/agentdesk/internal/domain"
)

// Change descriptions recorded on versions created by the editor.
const (
	ChangeManualSave   = "Manual save"
	ChangeSystemPrompt = "Updated system prompt"
	ChangeTools        = "Updated tools"
	ChangeIntegrations = "Updated integrations"
)

const historicalNotice = "Cannot save while viewing a previous version. Activate it or return to the current version first."

// Save persists the whole draft: identity fields and a new version in one
// backend transaction.
//
// Nothing is sent when no agent is loaded, when a historical version is being
// viewed, or when a changed field is locked on a protected agent. In each of
// those cases a notice is emitted and an error returned.
//
// On success the original becomes the draft as it was when Save was called,
// so edits made while the request was in flight remain dirty.
func (s *Session) Save(ctx context.Context) error {
	s.mu.Lock()
	if b := s.savableLocked(); b != nil {
		s.mu.Unlock()
		return s.reject(b)
	}

	changes := s.cmp.Diff(s.draft, s.original)
	if b := s.restrictedLocked(changes); b != nil {
		s.mu.Unlock()
		return s.reject(b)
	}
	if len(changes) == 0 {
		s.mu.Unlock()
		s.notify(LevelInfo, "No changes to save")
		return nil
	}
	if s.saving {
		s.mu.Unlock()
		s.notify(LevelWarning, "A save is already in progress")
		return domain.ErrSaveInProgress
	}

	s.saving = true
	snapshot := s.draft.Clone()
	generation := s.generation
	agentID := s.agent.ID
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.saving = false
		s.mu.Unlock()
	}()

	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	base, ok := s.baseVersion(generation)
	if !ok {
		s.notify(LevelWarning, "Agent was reloaded before the save started; nothing was saved")
		return domain.ErrVersionConflict
	}

	agent, version, err := s.api.SaveAgent(ctx, agentID, domain.SaveInput{
		Identity: snapshot.Identity,
		Version: domain.VersionInput{
			Config:            normalizeConfig(snapshot.Config),
			ChangeDescription: ChangeManualSave,
			BaseVersionID:     base,
		},
	})
	if err != nil {
		s.notify(LevelError, "Failed to save agent: "+userMessage(err))
		return fmt.Errorf("save agent %s: %w", agentID, err)
	}

	s.mu.Lock()
	if s.generation == generation {
		if agent.CurrentVersion == nil {
			agent.CurrentVersion = version
		}
		s.agent = agent
		s.original = snapshot
		s.store.SetUnsavedChanges(s.cmp.IsDirty(s.draft, s.original))
	}
	s.mu.Unlock()

	s.log.Info().
		Str("agent_id", agentID).
		Str("version_id", version.ID).
		Str("version_name", version.Name).
		Msg("agent saved")
	s.notify(LevelSuccess, "Agent saved successfully")
	return nil
}

// blocked describes a save refused before any network call.
type blocked struct {
	level   Level
	message string
	err     error
}

// reject emits the notice for b and returns its error. Call without s.mu held.
func (s *Session) reject(b *blocked) error {
	s.notify(b.level, b.message)
	return b.err
}

// savableLocked enforces the loaded and not-historical preconditions.
func (s *Session) savableLocked() *blocked {
	if s.agent == nil {
		return &blocked{LevelError, "Agent not loaded", domain.ErrAgentNotLoaded}
	}
	if s.historicalLocked() != nil {
		return &blocked{LevelWarning, historicalNotice, domain.ErrHistoricalVersion}
	}
	return nil
}

// restrictedLocked blocks changes to fields a protected agent locks.
func (s *Session) restrictedLocked(changes Changes) *blocked {
	err := s.agent.CheckRestrictions(changes...)
	if err == nil {
		return nil
	}
	for _, f := range changes {
		if !s.agent.Restrictions.Allows(f) {
			return &blocked{LevelError, f.Label() + " cannot be modified for this agent", err}
		}
	}
	return &blocked{LevelError, "This agent cannot be modified", err}
}

// baseVersion returns the version the persisted original corresponds to.
// ok is false if the session was reseeded since generation.
func (s *Session) baseVersion(generation uint64) (*string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != generation || s.agent == nil {
		return nil, false
	}
	if s.agent.CurrentVersionID == nil {
		return nil, true
	}
	id := *s.agent.CurrentVersionID
	return &id, true
}
