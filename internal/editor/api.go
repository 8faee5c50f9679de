// Package editor keeps a locally edited agent draft consistent with the
// persisted agent, its current version and an optionally viewed historical
// version, and decides when saves are required, permitted or blocked.
package editor

import (
	"context"

	"github.com/mtlprog/agentdesk/internal/domain"
)

// AgentAPI is the backend the editor persists through.
// *client.Client implements it.
type AgentAPI interface {
	GetAgent(ctx context.Context, agentID string) (*domain.Agent, error)
	GetVersion(ctx context.Context, agentID, versionID string) (*domain.AgentVersion, error)
	ListVersions(ctx context.Context, agentID string) ([]*domain.AgentVersion, error)
	CreateVersion(ctx context.Context, agentID string, in domain.VersionInput) (*domain.AgentVersion, error)
	UpdateAgent(ctx context.Context, agentID string, identity domain.Identity) (*domain.Agent, error)
	ActivateVersion(ctx context.Context, agentID, versionID string) (*domain.Agent, error)
	SaveAgent(ctx context.Context, agentID string, in domain.SaveInput) (*domain.Agent, *domain.AgentVersion, error)
}
