package dto

import "github.com/mtlprog/agentdesk/internal/domain"

// CreateAgentRequest represents the request body for POST /agents.
type CreateAgentRequest struct {
	Name           string                 `json:"name"`
	Description    string                 `json:"description"`
	IsDefault      bool                   `json:"is_default"`
	Avatar         string                 `json:"avatar"`
	AvatarColor    string                 `json:"avatar_color"`
	SystemPrompt   string                 `json:"system_prompt"`
	Tools          domain.ToolMap         `json:"agentpress_tools"`
	ConfiguredMCPs []domain.ConfiguredMCP `json:"configured_mcps"`
	CustomMCPs     []domain.CustomMCP     `json:"custom_mcps"`
	IsProtected    bool                   `json:"is_protected"`
	Restrictions   *domain.Restrictions   `json:"restrictions,omitempty"`
}

// UpdateAgentRequest represents the request body for PUT /agents/{id}.
// Omitted fields keep their current value.
type UpdateAgentRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	IsDefault   *bool   `json:"is_default,omitempty"`
	Avatar      *string `json:"avatar,omitempty"`
	AvatarColor *string `json:"avatar_color,omitempty"`
}

// ToPatch converts the request to a domain.IdentityPatch.
func (r UpdateAgentRequest) ToPatch() domain.IdentityPatch {
	return domain.IdentityPatch{
		Name:        r.Name,
		Description: r.Description,
		IsDefault:   r.IsDefault,
		Avatar:      r.Avatar,
		AvatarColor: r.AvatarColor,
	}
}

// NewUpdateAgentRequest builds a full identity update.
func NewUpdateAgentRequest(identity domain.Identity) UpdateAgentRequest {
	return UpdateAgentRequest{
		Name:        &identity.Name,
		Description: &identity.Description,
		IsDefault:   &identity.IsDefault,
		Avatar:      &identity.Avatar,
		AvatarColor: &identity.AvatarColor,
	}
}

// CreateVersionRequest represents the request body for POST /agents/{id}/versions.
type CreateVersionRequest struct {
	SystemPrompt   string                 `json:"system_prompt"`
	ConfiguredMCPs []domain.ConfiguredMCP `json:"configured_mcps"`
	CustomMCPs     []domain.CustomMCP     `json:"custom_mcps"`
	Tools          domain.ToolMap         `json:"agentpress_tools"`
	Description    string                 `json:"description"`
	BaseVersionID  *string                `json:"base_version_id,omitempty"`
}

// ToInput converts the request to a domain.VersionInput.
func (r CreateVersionRequest) ToInput() domain.VersionInput {
	return domain.VersionInput{
		Config: domain.Config{
			SystemPrompt:   r.SystemPrompt,
			Tools:          r.Tools,
			ConfiguredMCPs: r.ConfiguredMCPs,
			CustomMCPs:     r.CustomMCPs,
		},
		ChangeDescription: r.Description,
		BaseVersionID:     r.BaseVersionID,
	}
}

// NewCreateVersionRequest builds the wire form of a domain.VersionInput.
func NewCreateVersionRequest(in domain.VersionInput) CreateVersionRequest {
	return CreateVersionRequest{
		SystemPrompt:   in.Config.SystemPrompt,
		ConfiguredMCPs: in.Config.ConfiguredMCPs,
		CustomMCPs:     in.Config.CustomMCPs,
		Tools:          in.Config.Tools,
		Description:    in.ChangeDescription,
		BaseVersionID:  in.BaseVersionID,
	}
}

// SaveAgentRequest represents the request body for POST /agents/{id}/save.
// Description is the agent's description; the new version's note goes in
// ChangeDescription.
type SaveAgentRequest struct {
	Name              string                 `json:"name"`
	Description       string                 `json:"description"`
	IsDefault         bool                   `json:"is_default"`
	Avatar            string                 `json:"avatar"`
	AvatarColor       string                 `json:"avatar_color"`
	SystemPrompt      string                 `json:"system_prompt"`
	Tools             domain.ToolMap         `json:"agentpress_tools"`
	ConfiguredMCPs    []domain.ConfiguredMCP `json:"configured_mcps"`
	CustomMCPs        []domain.CustomMCP     `json:"custom_mcps"`
	ChangeDescription string                 `json:"change_description"`
	BaseVersionID     *string                `json:"base_version_id,omitempty"`
}

// ToInput converts the request to a domain.SaveInput.
func (r SaveAgentRequest) ToInput() domain.SaveInput {
	return domain.SaveInput{
		Identity: domain.Identity{
			Name:        r.Name,
			Description: r.Description,
			IsDefault:   r.IsDefault,
			Avatar:      r.Avatar,
			AvatarColor: r.AvatarColor,
		},
		Version: domain.VersionInput{
			Config: domain.Config{
				SystemPrompt:   r.SystemPrompt,
				Tools:          r.Tools,
				ConfiguredMCPs: r.ConfiguredMCPs,
				CustomMCPs:     r.CustomMCPs,
			},
			ChangeDescription: r.ChangeDescription,
			BaseVersionID:     r.BaseVersionID,
		},
	}
}

// NewSaveAgentRequest builds the wire form of a domain.SaveInput.
func NewSaveAgentRequest(in domain.SaveInput) SaveAgentRequest {
	return SaveAgentRequest{
		Name:              in.Identity.Name,
		Description:       in.Identity.Description,
		IsDefault:         in.Identity.IsDefault,
		Avatar:            in.Identity.Avatar,
		AvatarColor:       in.Identity.AvatarColor,
		SystemPrompt:      in.Version.Config.SystemPrompt,
		Tools:             in.Version.Config.Tools,
		ConfiguredMCPs:    in.Version.Config.ConfiguredMCPs,
		CustomMCPs:        in.Version.Config.CustomMCPs,
		ChangeDescription: in.Version.ChangeDescription,
		BaseVersionID:     in.Version.BaseVersionID,
	}
}
