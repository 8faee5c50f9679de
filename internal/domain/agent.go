package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// Identity holds the agent-level fields that are not versioned.
type Identity struct {
	Name        string
	Description string
	IsDefault   bool
	Avatar      string
	AvatarColor string
}

// IdentityPatch is a partial identity update. Nil fields keep their value.
type IdentityPatch struct {
	Name        *string
	Description *string
	IsDefault   *bool
	Avatar      *string
	AvatarColor *string
}

// Apply overlays the patch onto identity.
func (p IdentityPatch) Apply(identity Identity) Identity {
	if p.Name != nil {
		identity.Name = *p.Name
	}
	if p.Description != nil {
		identity.Description = *p.Description
	}
	if p.IsDefault != nil {
		identity.IsDefault = *p.IsDefault
	}
	if p.Avatar != nil {
		identity.Avatar = *p.Avatar
	}
	if p.AvatarColor != nil {
		identity.AvatarColor = *p.AvatarColor
	}
	return identity
}

// Agent represents a configurable AI assistant owned by an account.
//
// The embedded Config holds the agent's own top-level behavior fields. They are
// only a fallback: the authoritative configuration lives in CurrentVersion.
type Agent struct {
	ID        string
	AccountID string
	Identity
	Config

	Protected        bool
	Restrictions     Restrictions
	CurrentVersionID *string
	CurrentVersion   *AgentVersion

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsCurrentVersion reports whether versionID is the agent's active version.
func (a *Agent) IsCurrentVersion(versionID string) bool {
	return a.CurrentVersionID != nil && *a.CurrentVersionID == versionID
}

// CheckRestrictions returns ErrFieldRestricted for the first changed field
// that a protected agent does not allow to be edited.
func (a *Agent) CheckRestrictions(changed ...Field) error {
	if !a.Protected {
		return nil
	}
	for _, f := range changed {
		if !a.Restrictions.Allows(f) {
			return fmt.Errorf("%w: %s cannot be modified for agent %s", ErrFieldRestricted, f.Label(), a.ID)
		}
	}
	return nil
}

// Restrictions are field-level edit flags for protected agents.
// Absent flags default to editable.
type Restrictions struct {
	NameEditable         bool `json:"name_editable"`
	SystemPromptEditable bool `json:"system_prompt_editable"`
	ToolsEditable        bool `json:"tools_editable"`
}

// DefaultRestrictions allows every field to be edited.
func DefaultRestrictions() Restrictions {
	return Restrictions{
		NameEditable:         true,
		SystemPromptEditable: true,
		ToolsEditable:        true,
	}
}

// UnmarshalJSON starts from DefaultRestrictions so flags missing from the
// object stay editable.
func (r *Restrictions) UnmarshalJSON(data []byte) error {
	type plain Restrictions
	p := plain(DefaultRestrictions())
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("restrictions: %w", err)
	}
	*r = Restrictions(p)
	return nil
}

// Allows reports whether the field may be modified.
func (r Restrictions) Allows(f Field) bool {
	switch f {
	case FieldName:
		return r.NameEditable
	case FieldSystemPrompt:
		return r.SystemPromptEditable
	case FieldTools:
		return r.ToolsEditable
	default:
		return true
	}
}
