package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ToolConfig is the enablement state of a built-in tool.
type ToolConfig struct {
	Enabled     bool   `json:"enabled"`
	Description string `json:"description,omitempty"`
}

// UnmarshalJSON accepts both the object form and a bare boolean.
func (t *ToolConfig) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*t = ToolConfig{}
		return nil
	}
	if len(data) > 0 && data[0] != '{' {
		var enabled bool
		if err := json.Unmarshal(data, &enabled); err != nil {
			return fmt.Errorf("tool config: %w", err)
		}
		*t = ToolConfig{Enabled: enabled}
		return nil
	}

	type plain ToolConfig
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("tool config: %w", err)
	}
	*t = ToolConfig(p)
	return nil
}

// ToolMap maps built-in tool names to their configuration.
type ToolMap map[string]ToolConfig

// Equal compares two tool maps by content. Nil and empty maps are equal.
func (m ToolMap) Equal(other ToolMap) bool {
	if len(m) != len(other) {
		return false
	}
	for name, cfg := range m {
		o, ok := other[name]
		if !ok || o != cfg {
			return false
		}
	}
	return true
}

// Clone returns a copy that shares no storage with m.
func (m ToolMap) Clone() ToolMap {
	if m == nil {
		return nil
	}
	out := make(ToolMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Enabled returns true if the named tool is present and enabled.
func (m ToolMap) Enabled(name string) bool {
	return m[name].Enabled
}
