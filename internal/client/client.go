// Package client is a typed HTTP client for the agentdesk API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mtlprog/agentdesk/internal/domain"
	"github.com/mtlprog/agentdesk/internal/handler/dto"
	"github.com/mtlprog/agentdesk/internal/logger"
)

const maxResponseBytes = 8 << 20

// Config holds configuration for creating a Client.
type Config struct {
	// BaseURL is the server root, e.g. "http://localhost:8080".
	BaseURL string
	// Token is sent as a bearer token on every request.
	Token string
	// HTTPClient is used for all requests. If nil, a client with Timeout is created.
	HTTPClient *http.Client
	// Timeout applies when HTTPClient is nil.
	Timeout time.Duration
}

// Client talks to the /api/v1 endpoints.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	log        zerolog.Logger
}

// New creates a new Client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("client: BaseURL is required")
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("client: invalid BaseURL %q: %w", cfg.BaseURL, err)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/") + "/api/v1",
		token:      cfg.Token,
		httpClient: httpClient,
		log:        logger.Get("client"),
	}, nil
}

// ListAgents returns the account's agents.
func (c *Client) ListAgents(ctx context.Context) ([]*domain.Agent, error) {
	var resp dto.AgentsListResponse
	if err := c.do(ctx, http.MethodGet, "/agents", nil, &resp); err != nil {
		return nil, fmt.Errorf("list agents: %w", err)
	}
	agents := make([]*domain.Agent, 0, len(resp.Agents))
	for _, a := range resp.Agents {
		agents = append(agents, a.ToDomain())
	}
	return agents, nil
}

// CreateAgent creates an agent with its initial version.
func (c *Client) CreateAgent(ctx context.Context, req dto.CreateAgentRequest) (*domain.Agent, error) {
	var resp dto.AgentResponse
	if err := c.do(ctx, http.MethodPost, "/agents", req, &resp); err != nil {
		return nil, fmt.Errorf("create agent: %w", err)
	}
	return resp.ToDomain(), nil
}

// GetAgent fetches an agent with its current version embedded.
func (c *Client) GetAgent(ctx context.Context, agentID string) (*domain.Agent, error) {
	var resp dto.AgentResponse
	if err := c.do(ctx, http.MethodGet, agentPath(agentID), nil, &resp); err != nil {
		return nil, fmt.Errorf("get agent %s: %w", agentID, err)
	}
	return resp.ToDomain(), nil
}

// UpdateAgent replaces the agent's identity fields.
func (c *Client) UpdateAgent(ctx context.Context, agentID string, identity domain.Identity) (*domain.Agent, error) {
	var resp dto.AgentResponse
	if err := c.do(ctx, http.MethodPut, agentPath(agentID), dto.NewUpdateAgentRequest(identity), &resp); err != nil {
		return nil, fmt.Errorf("update agent %s: %w", agentID, err)
	}
	return resp.ToDomain(), nil
}

// SaveAgent updates identity and appends a version in one server-side transaction.
func (c *Client) SaveAgent(ctx context.Context, agentID string, in domain.SaveInput) (*domain.Agent, *domain.AgentVersion, error) {
	var resp dto.SaveAgentResponse
	if err := c.do(ctx, http.MethodPost, agentPath(agentID)+"/save", dto.NewSaveAgentRequest(in), &resp); err != nil {
		return nil, nil, fmt.Errorf("save agent %s: %w", agentID, err)
	}
	return resp.Agent.ToDomain(), resp.Version.ToDomain(), nil
}

// ListVersions returns the agent's versions, newest first.
func (c *Client) ListVersions(ctx context.Context, agentID string) ([]*domain.AgentVersion, error) {
	var resp dto.VersionsListResponse
	if err := c.do(ctx, http.MethodGet, agentPath(agentID)+"/versions", nil, &resp); err != nil {
		return nil, fmt.Errorf("list versions of %s: %w", agentID, err)
	}
	versions := make([]*domain.AgentVersion, 0, len(resp.Versions))
	for _, v := range resp.Versions {
		versions = append(versions, v.ToDomain())
	}
	return versions, nil
}

// GetVersion fetches one version.
func (c *Client) GetVersion(ctx context.Context, agentID, versionID string) (*domain.AgentVersion, error) {
	var resp dto.VersionResponse
	if err := c.do(ctx, http.MethodGet, versionPath(agentID, versionID), nil, &resp); err != nil {
		return nil, fmt.Errorf("get version %s: %w", versionID, err)
	}
	return resp.ToDomain(), nil
}

// CreateVersion appends a version and makes it current.
func (c *Client) CreateVersion(ctx context.Context, agentID string, in domain.VersionInput) (*domain.AgentVersion, error) {
	var resp dto.VersionResponse
	if err := c.do(ctx, http.MethodPost, agentPath(agentID)+"/versions", dto.NewCreateVersionRequest(in), &resp); err != nil {
		return nil, fmt.Errorf("create version of %s: %w", agentID, err)
	}
	return resp.ToDomain(), nil
}

// ActivateVersion makes an existing version current.
func (c *Client) ActivateVersion(ctx context.Context, agentID, versionID string) (*domain.Agent, error) {
	var resp dto.AgentResponse
	if err := c.do(ctx, http.MethodPost, versionPath(agentID, versionID)+"/activate", nil, &resp); err != nil {
		return nil, fmt.Errorf("activate version %s: %w", versionID, err)
	}
	return resp.ToDomain(), nil
}

func agentPath(agentID string) string {
	return "/agents/" + url.PathEscape(agentID)
}

func versionPath(agentID, versionID string) string {
	return agentPath(agentID) + "/versions/" + url.PathEscape(versionID)
}

// do performs a request and decodes a 2xx body into out.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var bodyReader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		bodyReader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	reqID := uuid.New().String()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", reqID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s %s failed: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	c.log.Debug().
		Str("request_id", reqID).
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("api call")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var envelope dto.ErrorResponse
		if jsonErr := json.Unmarshal(respBody, &envelope); jsonErr != nil || envelope.Error.Code == "" {
			return &APIError{
				StatusCode: resp.StatusCode,
				Code:       dto.CodeInternal,
				Message:    strings.TrimSpace(string(respBody)),
			}
		}
		return &APIError{
			StatusCode: resp.StatusCode,
			Code:       envelope.Error.Code,
			Message:    envelope.Error.Message,
		}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
