package domain

import (
	"encoding/json"
	"fmt"
	"slices"
)

// MCP transport types.
const (
	MCPTypeSSE   = "sse"
	MCPTypeHTTP  = "http"
	MCPTypeStdio = "stdio"
)

// ConfiguredMCP is an integration installed from the tool-provider registry.
type ConfiguredMCP struct {
	Name          string         `json:"name"`
	QualifiedName string         `json:"qualifiedName,omitempty"`
	Config        map[string]any `json:"config"`
	EnabledTools  []string       `json:"enabledTools"`
}

// Equal compares two integrations field by field.
func (m ConfiguredMCP) Equal(o ConfiguredMCP) bool {
	return m.Name == o.Name &&
		m.QualifiedName == o.QualifiedName &&
		sameConfig(m.Config, o.Config) &&
		sameStrings(m.EnabledTools, o.EnabledTools)
}

// CustomMCP is a user-defined integration endpoint.
type CustomMCP struct {
	Name         string         `json:"name"`
	Type         string         `json:"type"`
	CustomType   string         `json:"customType,omitempty"`
	Config       map[string]any `json:"config"`
	EnabledTools []string       `json:"enabledTools"`
}

// UnmarshalJSON tolerates a non-array enabledTools value by dropping it.
func (m *CustomMCP) UnmarshalJSON(data []byte) error {
	var raw struct {
		Name         string          `json:"name"`
		Type         string          `json:"type"`
		CustomType   string          `json:"customType"`
		Config       map[string]any  `json:"config"`
		EnabledTools json.RawMessage `json:"enabledTools"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("custom mcp: %w", err)
	}

	*m = CustomMCP{
		Name:       raw.Name,
		Type:       raw.Type,
		CustomType: raw.CustomType,
		Config:     raw.Config,
	}
	if len(raw.EnabledTools) > 0 {
		var tools []string
		if err := json.Unmarshal(raw.EnabledTools, &tools); err == nil {
			m.EnabledTools = tools
		}
	}
	return nil
}

// Equal compares two custom integrations field by field.
func (m CustomMCP) Equal(o CustomMCP) bool {
	return m.Name == o.Name &&
		m.Type == o.Type &&
		m.CustomType == o.CustomType &&
		sameConfig(m.Config, o.Config) &&
		sameStrings(m.EnabledTools, o.EnabledTools)
}

// ConfiguredMCPsEqual compares two integration lists. Order matters.
func ConfiguredMCPsEqual(a, b []ConfiguredMCP) bool {
	return slices.EqualFunc(a, b, ConfiguredMCP.Equal)
}

// CustomMCPsEqual compares two custom integration lists. Order matters.
func CustomMCPsEqual(a, b []CustomMCP) bool {
	return slices.EqualFunc(a, b, CustomMCP.Equal)
}

func sameStrings(a, b []string) bool {
	return slices.Equal(a, b)
}

// sameConfig compares free-form config maps by their JSON encoding, which
// sorts keys. Nil and empty maps are equal.
func sameConfig(a, b map[string]any) bool {
	if len(a) == 0 || len(b) == 0 {
		return len(a) == len(b)
	}
	ea, errA := json.Marshal(a)
	eb, errB := json.Marshal(b)
	if errA != nil || errB != nil {
		return false
	}
	return string(ea) == string(eb)
}
