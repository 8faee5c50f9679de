package editor

import (
	"github.com/samber/lo"

	"github.com/mtlprog/agentdesk/internal/domain"
)

// DefaultMCPName is used for custom integrations saved without a name.
const DefaultMCPName = "Unnamed MCP"

// NormalizeCustomMCPs fills in defaults for custom integrations before they
// are persisted. The input is not modified.
func NormalizeCustomMCPs(mcps []domain.CustomMCP) []domain.CustomMCP {
	return lo.Map(mcps, func(m domain.CustomMCP, _ int) domain.CustomMCP {
		return normalizeCustomMCP(m)
	})
}

func normalizeCustomMCP(m domain.CustomMCP) domain.CustomMCP {
	if m.Name == "" {
		m.Name = DefaultMCPName
	}
	if m.Type == "" {
		m.Type = lo.Ternary(m.CustomType != "", m.CustomType, domain.MCPTypeSSE)
	}
	if m.Config == nil {
		m.Config = map[string]any{}
	}
	if m.EnabledTools == nil {
		m.EnabledTools = []string{}
	}
	return m
}

// normalizeConfig returns a copy of cfg ready to be sent as a version.
func normalizeConfig(cfg domain.Config) domain.Config {
	out := cfg.Clone()
	out.CustomMCPs = NormalizeCustomMCPs(out.CustomMCPs)
	if out.Tools == nil {
		out.Tools = domain.ToolMap{}
	}
	if out.ConfiguredMCPs == nil {
		out.ConfiguredMCPs = []domain.ConfiguredMCP{}
	}
	return out
}
