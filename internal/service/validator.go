package service

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/mtlprog/agentdesk/internal/domain"
)

// MaxNameLength bounds agent names, in bytes.
const MaxNameLength = 200

var avatarColorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// Validator handles permission and input validation for agent operations.
type Validator struct{}

// NewValidator creates a new Validator.
func NewValidator() *Validator {
	return &Validator{}
}

// CanAccess validates that the account owns the agent.
func (v *Validator) CanAccess(agent *domain.Agent, account *domain.Account) error {
	if agent.AccountID != account.ID {
		return fmt.Errorf("%w: agent %s does not belong to account %s", domain.ErrPermissionDenied, agent.ID, account.ID)
	}
	return nil
}

// ValidateIdentity checks identity fields for a create or update.
func (v *Validator) ValidateIdentity(identity domain.Identity) error {
	if strings.TrimSpace(identity.Name) == "" {
		return domain.ErrEmptyName
	}
	if len(identity.Name) > MaxNameLength {
		return fmt.Errorf("%w: at most %d characters", domain.ErrNameTooLong, MaxNameLength)
	}
	if identity.AvatarColor != "" && !avatarColorPattern.MatchString(identity.AvatarColor) {
		return fmt.Errorf("%w: %q is not a #RRGGBB color", domain.ErrInvalidAvatar, identity.AvatarColor)
	}
	return nil
}

// ValidateConfig checks that integrations are well-formed.
func (v *Validator) ValidateConfig(cfg domain.Config) error {
	for i, m := range cfg.ConfiguredMCPs {
		if m.QualifiedName == "" && m.Name == "" {
			return fmt.Errorf("%w: configured integration %d has no name", domain.ErrInvalidMCP, i)
		}
	}
	for i, m := range cfg.CustomMCPs {
		if m.Type == "" {
			return fmt.Errorf("%w: custom integration %d has no transport type", domain.ErrInvalidMCP, i)
		}
	}
	return nil
}

// CheckIdentityChange rejects a rename of a protected agent whose name is locked.
func (v *Validator) CheckIdentityChange(agent *domain.Agent, identity domain.Identity) error {
	if identity.Name != agent.Name {
		return agent.CheckRestrictions(domain.FieldName)
	}
	return nil
}

// CheckConfigChange rejects changes to locked behavior fields of a protected agent.
// The new config is compared against the agent's effective configuration.
func (v *Validator) CheckConfigChange(agent *domain.Agent, current, next domain.Config) error {
	var changed []domain.Field
	if next.SystemPrompt != current.SystemPrompt {
		changed = append(changed, domain.FieldSystemPrompt)
	}
	if !next.Tools.Equal(current.Tools) {
		changed = append(changed, domain.FieldTools)
	}
	return agent.CheckRestrictions(changed...)
}

// CheckVersionBelongs validates that a version belongs to the agent.
func (v *Validator) CheckVersionBelongs(agent *domain.Agent, version *domain.AgentVersion) error {
	if version.AgentID != agent.ID {
		return fmt.Errorf("%w: version %s does not belong to agent %s", domain.ErrVersionNotFound, version.ID, agent.ID)
	}
	return nil
}
