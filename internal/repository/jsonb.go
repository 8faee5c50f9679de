package repository

import (
	"encoding/json"
	"fmt"

	"github.com/mtlprog/agentdesk/internal/domain"
)

// encodeJSON marshals v for a JSONB column. Nil maps and slices become JSON null.
func encodeJSON(v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode jsonb: %w", err)
	}
	return b, nil
}

// decodeJSON unmarshals a JSONB column into dst. SQL NULL leaves dst untouched.
func decodeJSON(raw []byte, dst any) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("decode jsonb: %w", err)
	}
	return nil
}

// rawConfig is the JSONB form of domain.Config as read from a row.
type rawConfig struct {
	tools      []byte
	configured []byte
	custom     []byte
}

func (rc rawConfig) decode(cfg *domain.Config) error {
	if err := decodeJSON(rc.tools, &cfg.Tools); err != nil {
		return fmt.Errorf("agentpress_tools: %w", err)
	}
	if err := decodeJSON(rc.configured, &cfg.ConfiguredMCPs); err != nil {
		return fmt.Errorf("configured_mcps: %w", err)
	}
	if err := decodeJSON(rc.custom, &cfg.CustomMCPs); err != nil {
		return fmt.Errorf("custom_mcps: %w", err)
	}
	return nil
}

func encodeConfig(cfg domain.Config) (tools, configured, custom []byte, err error) {
	if tools, err = encodeJSON(cfg.Tools); err != nil {
		return nil, nil, nil, err
	}
	if configured, err = encodeJSON(cfg.ConfiguredMCPs); err != nil {
		return nil, nil, nil, err
	}
	if custom, err = encodeJSON(cfg.CustomMCPs); err != nil {
		return nil, nil, nil, err
	}
	return tools, configured, custom, nil
}
