package editor

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"

	"dario.cat/mergo"
	"github.com/rs/zerolog"

	"github.com/mtlprog/agentdesk/internal/domain"
	"github.com/mtlprog/agentdesk/internal/logger"
)

// Session is one agent editing session: the draft, the last persisted
// snapshot it is compared against, and the version being viewed.
//
// All methods are safe for concurrent use. Writes to the backend are
// serialized per session.
type Session struct {
	api      AgentAPI
	notifier Notifier
	store    *VersionStore
	cmp      Comparator
	log      zerolog.Logger

	// saveMu is held for the whole duration of a backend write.
	saveMu sync.Mutex

	mu         sync.Mutex
	agent      *domain.Agent
	draft      FormData
	original   FormData
	generation uint64
	saving     bool
}

// Option configures a Session.
type Option func(*Session)

// WithNotifier routes user notices to n.
func WithNotifier(n Notifier) Option {
	return func(s *Session) { s.notifier = n }
}

// WithStore uses an existing VersionStore.
func WithStore(store *VersionStore) Option {
	return func(s *Session) { s.store = store }
}

// WithComparator overrides how drafts are compared.
func WithComparator(c Comparator) Option {
	return func(s *Session) { s.cmp = c }
}

// WithLogger overrides the session logger.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Session) { s.log = log }
}

// NewSession creates a session with no agent loaded.
func NewSession(api AgentAPI, opts ...Option) *Session {
	s := &Session{
		api: api,
		log: logger.Get("editor"),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.store == nil {
		s.store = NewVersionStore()
	}
	if s.notifier == nil {
		s.notifier = NewLogNotifier(s.log)
	}
	return s
}

// Store returns the session's version store.
func (s *Session) Store() *VersionStore {
	return s.store
}

// Load fetches the agent and, when versionID names a non-current version,
// that version, then reseeds the draft from them.
func (s *Session) Load(ctx context.Context, agentID, versionID string) error {
	agent, err := s.api.GetAgent(ctx, agentID)
	if err != nil {
		s.notify(LevelError, "Failed to load agent: "+userMessage(err))
		return fmt.Errorf("load agent %s: %w", agentID, err)
	}

	var historical *domain.AgentVersion
	if versionID != "" && !agent.IsCurrentVersion(versionID) {
		historical, err = s.api.GetVersion(ctx, agentID, versionID)
		if err != nil {
			s.notify(LevelError, "Failed to load version: "+userMessage(err))
			return fmt.Errorf("load version %s: %w", versionID, err)
		}
	}

	s.Seed(agent, historical)
	return nil
}

// Seed resets both the draft and the original to the given source and
// clears the dirty flag. A nil historical version means the agent's current
// configuration is shown and editable.
func (s *Session) Seed(agent *domain.Agent, historical *domain.AgentVersion) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seedLocked(agent, historical)
}

func (s *Session) seedLocked(agent *domain.Agent, historical *domain.AgentVersion) {
	if s.agent == nil || agent == nil || s.agent.ID != agent.ID {
		s.store.Reset()
	}
	s.agent = agent
	s.generation++

	if historical != nil && agent != nil && agent.IsCurrentVersion(historical.ID) {
		historical = nil
	}
	s.store.SetViewedVersion(historical)

	if agent == nil {
		s.draft, s.original = FormData{}, FormData{}
		s.store.SetUnsavedChanges(false)
		return
	}

	src := s.sourceForm(agent, historical)
	s.original = src
	s.draft = src.Clone()
	s.store.SetUnsavedChanges(false)

	s.log.Debug().
		Str("agent_id", agent.ID).
		Bool("historical", historical != nil).
		Msg("draft seeded")
}

// sourceForm builds the form for agent, preferring historical, then the
// agent's current version. Fields the chosen version leaves empty fall back to
// the agent's top-level values.
func (s *Session) sourceForm(agent *domain.Agent, historical *domain.AgentVersion) FormData {
	var version *domain.AgentVersion
	switch {
	case historical != nil:
		version = historical
	case agent.CurrentVersion != nil:
		version = agent.CurrentVersion
	}

	if version == nil {
		return FormData{Identity: agent.Identity, Config: agent.Config.Clone()}
	}

	cfg := version.Config.Clone()
	if err := mergo.Merge(&cfg, agent.Config.Clone(), mergo.WithTransformers(presentValues{})); err != nil {
		s.log.Warn().Err(err).Str("agent_id", agent.ID).Msg("fallback merge failed")
	}
	return FormData{Identity: agent.Identity, Config: cfg}
}

// presentValues keeps lists and maps that a version carries, even when they
// are empty, so only absent (nil) ones are filled from the fallback.
type presentValues struct{}

var (
	toolMapType    = reflect.TypeOf(domain.ToolMap{})
	configuredType = reflect.TypeOf([]domain.ConfiguredMCP{})
	customType     = reflect.TypeOf([]domain.CustomMCP{})
)

func (presentValues) Transformer(t reflect.Type) func(dst, src reflect.Value) error {
	switch t {
	case toolMapType, configuredType, customType:
		return func(dst, src reflect.Value) error {
			if dst.IsNil() && dst.CanSet() {
				dst.Set(src)
			}
			return nil
		}
	}
	return nil
}

// SelectVersion views a specific version. Selecting the agent's current
// version is the same as ClearVersion.
func (s *Session) SelectVersion(ctx context.Context, versionID string) error {
	agent := s.Agent()
	if agent == nil {
		s.notify(LevelError, "Agent not loaded")
		return domain.ErrAgentNotLoaded
	}
	if versionID == "" || agent.IsCurrentVersion(versionID) {
		s.ClearVersion()
		return nil
	}

	version, err := s.api.GetVersion(ctx, agent.ID, versionID)
	if err != nil {
		s.notify(LevelError, "Failed to load version: "+userMessage(err))
		return fmt.Errorf("load version %s: %w", versionID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.agent == nil || s.agent.ID != agent.ID {
		return domain.ErrAgentNotLoaded
	}
	s.seedLocked(s.agent, version)
	return nil
}

// ClearVersion returns to the agent's current configuration.
func (s *Session) ClearVersion() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seedLocked(s.agent, nil)
}

// Compare loads another version for side-by-side comparison and returns the
// fields in which it differs from what is displayed.
func (s *Session) Compare(ctx context.Context, versionID string) (Changes, error) {
	agent := s.Agent()
	if agent == nil {
		return nil, domain.ErrAgentNotLoaded
	}

	version, err := s.api.GetVersion(ctx, agent.ID, versionID)
	if err != nil {
		s.notify(LevelError, "Failed to load version: "+userMessage(err))
		return nil, fmt.Errorf("load version %s: %w", versionID, err)
	}
	s.store.SetCompareVersion(version)

	other := s.sourceForm(agent, version)
	return s.cmp.Diff(s.Display(), other), nil
}

// ClearCompare drops the comparison version.
func (s *Session) ClearCompare() {
	s.store.ClearCompareVersion()
}

// Agent returns the loaded agent, or nil. Treat it as read-only.
func (s *Session) Agent() *domain.Agent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.agent
}

// Draft returns a copy of the current draft.
func (s *Session) Draft() FormData {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft.Clone()
}

// Original returns a copy of the last persisted snapshot.
func (s *Session) Original() FormData {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.original.Clone()
}

// Display returns what should be shown: the viewed historical version with
// the agent's identity, or the live draft.
func (s *Session) Display() FormData {
	s.mu.Lock()
	defer s.mu.Unlock()
	if viewed := s.historicalLocked(); viewed != nil {
		return s.sourceForm(s.agent, viewed)
	}
	return s.draft.Clone()
}

// Editable reports whether the draft may be changed.
func (s *Session) Editable() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.agent != nil && s.historicalLocked() == nil
}

// ViewingHistory reports whether a non-current version is selected.
func (s *Session) ViewingHistory() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.historicalLocked() != nil
}

// historicalLocked returns the viewed version if it is not the agent's
// current one.
func (s *Session) historicalLocked() *domain.AgentVersion {
	viewed := s.store.ViewedVersion()
	if viewed == nil || s.agent == nil || s.agent.IsCurrentVersion(viewed.ID) {
		return nil
	}
	return viewed
}

// IsDirty reports whether the draft differs from the original.
func (s *Session) IsDirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cmp.IsDirty(s.draft, s.original)
}

// Changes returns the fields in which the draft differs from the original.
func (s *Session) Changes() Changes {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cmp.Diff(s.draft, s.original)
}

func (s *Session) SetName(name string) error {
	return s.mutate(domain.FieldName, func(f *FormData) { f.Name = name })
}

func (s *Session) SetDescription(description string) error {
	return s.mutate(domain.FieldDescription, func(f *FormData) { f.Description = description })
}

func (s *Session) SetSystemPrompt(prompt string) error {
	return s.mutate(domain.FieldSystemPrompt, func(f *FormData) { f.SystemPrompt = prompt })
}

func (s *Session) SetTools(tools domain.ToolMap) error {
	tools = tools.Clone()
	return s.mutate(domain.FieldTools, func(f *FormData) { f.Tools = tools })
}

// ToggleTool flips the enabled state of one tool.
func (s *Session) ToggleTool(name string) error {
	return s.mutate(domain.FieldTools, func(f *FormData) {
		f.Tools = toggled(f.Tools, name)
	})
}

func (s *Session) SetConfiguredMCPs(mcps []domain.ConfiguredMCP) error {
	mcps = domain.Config{ConfiguredMCPs: mcps}.Clone().ConfiguredMCPs
	return s.mutate(domain.FieldConfiguredMCPs, func(f *FormData) { f.ConfiguredMCPs = mcps })
}

func (s *Session) SetCustomMCPs(mcps []domain.CustomMCP) error {
	mcps = domain.Config{CustomMCPs: mcps}.Clone().CustomMCPs
	return s.mutate(domain.FieldCustomMCPs, func(f *FormData) { f.CustomMCPs = mcps })
}

func (s *Session) SetDefault(isDefault bool) error {
	return s.mutate(domain.FieldIsDefault, func(f *FormData) { f.IsDefault = isDefault })
}

// SetAvatar sets the avatar and its color together.
func (s *Session) SetAvatar(avatar, color string) error {
	return s.mutate(domain.FieldAvatar, func(f *FormData) {
		f.Avatar = avatar
		f.AvatarColor = color
	})
}

func (s *Session) mutate(field domain.Field, fn func(*FormData)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkEditableLocked(); err != nil {
		return fmt.Errorf("set %s: %w", field, err)
	}

	fn(&s.draft)
	s.store.SetUnsavedChanges(s.cmp.IsDirty(s.draft, s.original))
	return nil
}

func (s *Session) checkEditableLocked() error {
	if s.agent == nil {
		return domain.ErrAgentNotLoaded
	}
	if s.historicalLocked() != nil {
		return domain.ErrHistoricalVersion
	}
	return nil
}

// toggled returns a copy of tools with name's enabled state flipped.
func toggled(tools domain.ToolMap, name string) domain.ToolMap {
	out := tools.Clone()
	if out == nil {
		out = domain.ToolMap{}
	}
	cfg := out[name]
	cfg.Enabled = !cfg.Enabled
	out[name] = cfg
	return out
}

func (s *Session) notify(level Level, message string) {
	s.notifier.Notify(Notice{Level: level, Message: message})
}

// userMessage extracts the server's message from API errors when available.
func userMessage(err error) string {
	var um interface{ UserMessage() string }
	if errors.As(err, &um) {
		return um.UserMessage()
	}
	return err.Error()
}
