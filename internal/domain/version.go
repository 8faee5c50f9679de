package domain

import (
	"fmt"
	"maps"
	"slices"
	"time"
)

// Config is the behavior-affecting part of an agent that versions snapshot.
type Config struct {
	SystemPrompt   string
	Tools          ToolMap
	ConfiguredMCPs []ConfiguredMCP
	CustomMCPs     []CustomMCP
}

// AgentVersion is an immutable snapshot of an agent's Config.
type AgentVersion struct {
	ID                string
	AgentID           string
	Number            int
	Name              string
	Config            Config
	ChangeDescription string
	CreatedAt         time.Time
}

// VersionName returns the display name for a version number.
func VersionName(number int) string {
	return fmt.Sprintf("v%d", number)
}

// VersionInput describes a version to be created.
// BaseVersionID, when set, must match the agent's current version at commit time.
type VersionInput struct {
	Config            Config
	ChangeDescription string
	BaseVersionID     *string
}

// SaveInput combines an identity update and a new version in one save.
type SaveInput struct {
	Identity Identity
	Version  VersionInput
}

// Clone returns a deep copy of the configuration.
func (c Config) Clone() Config {
	out := Config{
		SystemPrompt: c.SystemPrompt,
		Tools:        c.Tools.Clone(),
	}
	if c.ConfiguredMCPs != nil {
		out.ConfiguredMCPs = make([]ConfiguredMCP, len(c.ConfiguredMCPs))
		for i, m := range c.ConfiguredMCPs {
			m.Config = cloneMap(m.Config)
			m.EnabledTools = slices.Clone(m.EnabledTools)
			out.ConfiguredMCPs[i] = m
		}
	}
	if c.CustomMCPs != nil {
		out.CustomMCPs = make([]CustomMCP, len(c.CustomMCPs))
		for i, m := range c.CustomMCPs {
			m.Config = cloneMap(m.Config)
			m.EnabledTools = slices.Clone(m.EnabledTools)
			out.CustomMCPs[i] = m
		}
	}
	return out
}

func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	return maps.Clone(m)
}
