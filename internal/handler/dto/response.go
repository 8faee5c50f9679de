package dto

import (
	"time"

	"github.com/mtlprog/agentdesk/internal/domain"
	"github.com/samber/lo"
)

// VersionResponse represents an agent version.
type VersionResponse struct {
	VersionID         string                 `json:"version_id"`
	AgentID           string                 `json:"agent_id"`
	VersionNumber     int                    `json:"version_number"`
	VersionName       string                 `json:"version_name"`
	SystemPrompt      string                 `json:"system_prompt"`
	Tools             domain.ToolMap         `json:"agentpress_tools"`
	ConfiguredMCPs    []domain.ConfiguredMCP `json:"configured_mcps"`
	CustomMCPs        []domain.CustomMCP     `json:"custom_mcps"`
	ChangeDescription string                 `json:"change_description"`
	CreatedAt         time.Time              `json:"created_at"`
}

// AgentResponse represents an agent, embedding its current version when known.
type AgentResponse struct {
	AgentID          string                 `json:"agent_id"`
	AccountID        string                 `json:"account_id"`
	Name             string                 `json:"name"`
	Description      string                 `json:"description"`
	IsDefault        bool                   `json:"is_default"`
	Avatar           string                 `json:"avatar"`
	AvatarColor      string                 `json:"avatar_color"`
	SystemPrompt     string                 `json:"system_prompt"`
	Tools            domain.ToolMap         `json:"agentpress_tools"`
	ConfiguredMCPs   []domain.ConfiguredMCP `json:"configured_mcps"`
	CustomMCPs       []domain.CustomMCP     `json:"custom_mcps"`
	IsProtected      bool                   `json:"is_protected"`
	Restrictions     *domain.Restrictions   `json:"restrictions,omitempty"`
	CurrentVersionID *string                `json:"current_version_id"`
	CurrentVersion   *VersionResponse       `json:"current_version,omitempty"`
	CreatedAt        time.Time              `json:"created_at"`
	UpdatedAt        time.Time              `json:"updated_at"`
}

// AgentsListResponse represents the response for GET /agents.
type AgentsListResponse struct {
	Agents []AgentResponse `json:"agents"`
	Total  int             `json:"total"`
}

// VersionsListResponse represents the response for GET /agents/{id}/versions.
type VersionsListResponse struct {
	Versions []VersionResponse `json:"versions"`
	Total    int               `json:"total"`
}

// SaveAgentResponse represents the response for POST /agents/{id}/save.
type SaveAgentResponse struct {
	Agent   AgentResponse   `json:"agent"`
	Version VersionResponse `json:"version"`
}

// ToVersionResponse converts domain.AgentVersion to VersionResponse.
func ToVersionResponse(version *domain.AgentVersion) VersionResponse {
	return VersionResponse{
		VersionID:         version.ID,
		AgentID:           version.AgentID,
		VersionNumber:     version.Number,
		VersionName:       version.Name,
		SystemPrompt:      version.Config.SystemPrompt,
		Tools:             version.Config.Tools,
		ConfiguredMCPs:    version.Config.ConfiguredMCPs,
		CustomMCPs:        version.Config.CustomMCPs,
		ChangeDescription: version.ChangeDescription,
		CreatedAt:         version.CreatedAt,
	}
}

// ToVersionsListResponse converts a slice of versions.
func ToVersionsListResponse(versions []*domain.AgentVersion) VersionsListResponse {
	return VersionsListResponse{
		Versions: lo.Map(versions, func(v *domain.AgentVersion, _ int) VersionResponse {
			return ToVersionResponse(v)
		}),
		Total: len(versions),
	}
}

// ToAgentResponse converts domain.Agent to AgentResponse.
func ToAgentResponse(agent *domain.Agent) AgentResponse {
	resp := AgentResponse{
		AgentID:          agent.ID,
		AccountID:        agent.AccountID,
		Name:             agent.Name,
		Description:      agent.Description,
		IsDefault:        agent.IsDefault,
		Avatar:           agent.Avatar,
		AvatarColor:      agent.AvatarColor,
		SystemPrompt:     agent.SystemPrompt,
		Tools:            agent.Tools,
		ConfiguredMCPs:   agent.ConfiguredMCPs,
		CustomMCPs:       agent.CustomMCPs,
		IsProtected:      agent.Protected,
		CurrentVersionID: agent.CurrentVersionID,
		CreatedAt:        agent.CreatedAt,
		UpdatedAt:        agent.UpdatedAt,
	}
	if agent.Protected {
		restrictions := agent.Restrictions
		resp.Restrictions = &restrictions
	}
	if agent.CurrentVersion != nil {
		v := ToVersionResponse(agent.CurrentVersion)
		resp.CurrentVersion = &v
	}
	return resp
}

// ToAgentsListResponse converts a slice of agents.
func ToAgentsListResponse(agents []*domain.Agent) AgentsListResponse {
	return AgentsListResponse{
		Agents: lo.Map(agents, func(a *domain.Agent, _ int) AgentResponse {
			return ToAgentResponse(a)
		}),
		Total: len(agents),
	}
}

// ToDomain converts the wire form back to domain.AgentVersion.
func (r VersionResponse) ToDomain() *domain.AgentVersion {
	return &domain.AgentVersion{
		ID:      r.VersionID,
		AgentID: r.AgentID,
		Number:  r.VersionNumber,
		Name:    r.VersionName,
		Config: domain.Config{
			SystemPrompt:   r.SystemPrompt,
			Tools:          r.Tools,
			ConfiguredMCPs: r.ConfiguredMCPs,
			CustomMCPs:     r.CustomMCPs,
		},
		ChangeDescription: r.ChangeDescription,
		CreatedAt:         r.CreatedAt,
	}
}

// ToDomain converts the wire form back to domain.Agent.
// Missing restrictions mean every field is editable.
func (r AgentResponse) ToDomain() *domain.Agent {
	agent := &domain.Agent{
		ID:        r.AgentID,
		AccountID: r.AccountID,
		Identity: domain.Identity{
			Name:        r.Name,
			Description: r.Description,
			IsDefault:   r.IsDefault,
			Avatar:      r.Avatar,
			AvatarColor: r.AvatarColor,
		},
		Config: domain.Config{
			SystemPrompt:   r.SystemPrompt,
			Tools:          r.Tools,
			ConfiguredMCPs: r.ConfiguredMCPs,
			CustomMCPs:     r.CustomMCPs,
		},
		Protected:        r.IsProtected,
		Restrictions:     domain.DefaultRestrictions(),
		CurrentVersionID: r.CurrentVersionID,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
	if r.Restrictions != nil {
		agent.Restrictions = *r.Restrictions
	}
	if r.CurrentVersion != nil {
		agent.CurrentVersion = r.CurrentVersion.ToDomain()
	}
	return agent
}
