package handler

import (
	"net/http"

	"github.com/mtlprog/agentdesk/internal/domain"
	"github.com/mtlprog/agentdesk/internal/handler/dto"
	"github.com/mtlprog/agentdesk/internal/service"
)

// handleListAgents lists the account's agents.
// @Summary List agents
// @Description Lists agents owned by the authenticated account, default agent first
// @Tags agents
// @Produce json
// @Success 200 {object} dto.AgentsListResponse
// @Security BearerAuth
// @Router /agents [get]
func (h *Handler) handleListAgents(w http.ResponseWriter, r *http.Request) {
	account, ok := h.account(w, r)
	if !ok {
		return
	}

	agents, err := h.agentService.ListAgents(r.Context(), account)
	if err != nil {
		h.respondDomainError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, dto.ToAgentsListResponse(agents))
}

// handleCreateAgent creates an agent with its initial version.
// @Summary Create an agent
// @Description Creates an agent and its first version (v1) in one transaction
// @Tags agents
// @Accept json
// @Produce json
// @Param request body dto.CreateAgentRequest true "Agent creation request"
// @Success 201 {object} dto.AgentResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /agents [post]
func (h *Handler) handleCreateAgent(w http.ResponseWriter, r *http.Request) {
	account, ok := h.account(w, r)
	if !ok {
		return
	}

	var req dto.CreateAgentRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	agent, err := h.agentService.CreateAgent(r.Context(), account, service.CreateAgentParams{
		Identity: domain.Identity{
			Name:        req.Name,
			Description: req.Description,
			IsDefault:   req.IsDefault,
			Avatar:      req.Avatar,
			AvatarColor: req.AvatarColor,
		},
		Config: domain.Config{
			SystemPrompt:   req.SystemPrompt,
			Tools:          req.Tools,
			ConfiguredMCPs: req.ConfiguredMCPs,
			CustomMCPs:     req.CustomMCPs,
		},
		Protected:    req.IsProtected,
		Restrictions: req.Restrictions,
	})
	if err != nil {
		h.respondDomainError(w, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, dto.ToAgentResponse(agent))
}

// handleGetAgent returns the agent with its current version embedded.
// @Summary Get agent
// @Tags agents
// @Produce json
// @Param id path string true "Agent ID"
// @Success 200 {object} dto.AgentResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /agents/{id} [get]
func (h *Handler) handleGetAgent(w http.ResponseWriter, r *http.Request) {
	account, ok := h.account(w, r)
	if !ok {
		return
	}
	agentID, ok := h.pathUUID(w, r, "id", "agent_id")
	if !ok {
		return
	}

	agent, err := h.agentService.GetAgent(r.Context(), account, agentID)
	if err != nil {
		h.respondDomainError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, dto.ToAgentResponse(agent))
}

// handleUpdateAgent updates identity fields.
// @Summary Update agent identity
// @Description Updates name, description, default flag and avatar. Omitted fields are unchanged.
// @Tags agents
// @Accept json
// @Produce json
// @Param id path string true "Agent ID"
// @Param request body dto.UpdateAgentRequest true "Identity update"
// @Success 200 {object} dto.AgentResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /agents/{id} [put]
func (h *Handler) handleUpdateAgent(w http.ResponseWriter, r *http.Request) {
	account, ok := h.account(w, r)
	if !ok {
		return
	}
	agentID, ok := h.pathUUID(w, r, "id", "agent_id")
	if !ok {
		return
	}

	var req dto.UpdateAgentRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	agent, err := h.agentService.UpdateAgent(r.Context(), account, agentID, req.ToPatch())
	if err != nil {
		h.respondDomainError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, dto.ToAgentResponse(agent))
}

// handleSaveAgent updates identity and appends a version atomically.
// @Summary Save agent
// @Description Updates identity fields and creates a new current version in one transaction
// @Tags agents
// @Accept json
// @Produce json
// @Param id path string true "Agent ID"
// @Param request body dto.SaveAgentRequest true "Full agent state"
// @Success 200 {object} dto.SaveAgentResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /agents/{id}/save [post]
func (h *Handler) handleSaveAgent(w http.ResponseWriter, r *http.Request) {
	account, ok := h.account(w, r)
	if !ok {
		return
	}
	agentID, ok := h.pathUUID(w, r, "id", "agent_id")
	if !ok {
		return
	}

	var req dto.SaveAgentRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	agent, version, err := h.agentService.SaveAgent(r.Context(), account, agentID, req.ToInput())
	if err != nil {
		h.respondDomainError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, dto.SaveAgentResponse{
		Agent:   dto.ToAgentResponse(agent),
		Version: dto.ToVersionResponse(version),
	})
}
