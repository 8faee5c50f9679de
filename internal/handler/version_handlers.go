package handler

import (
	"net/http"

	"github.com/mtlprog/agentdesk/internal/handler/dto"
)

// handleListVersions lists an agent's versions.
// @Summary List versions
// @Description Lists versions of the agent, newest first
// @Tags versions
// @Produce json
// @Param id path string true "Agent ID"
// @Success 200 {object} dto.VersionsListResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /agents/{id}/versions [get]
func (h *Handler) handleListVersions(w http.ResponseWriter, r *http.Request) {
	account, ok := h.account(w, r)
	if !ok {
		return
	}
	agentID, ok := h.pathUUID(w, r, "id", "agent_id")
	if !ok {
		return
	}

	versions, err := h.agentService.ListVersions(r.Context(), account, agentID)
	if err != nil {
		h.respondDomainError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, dto.ToVersionsListResponse(versions))
}

// handleGetVersion returns one version.
// @Summary Get version
// @Tags versions
// @Produce json
// @Param id path string true "Agent ID"
// @Param versionId path string true "Version ID"
// @Success 200 {object} dto.VersionResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /agents/{id}/versions/{versionId} [get]
func (h *Handler) handleGetVersion(w http.ResponseWriter, r *http.Request) {
	account, ok := h.account(w, r)
	if !ok {
		return
	}
	agentID, ok := h.pathUUID(w, r, "id", "agent_id")
	if !ok {
		return
	}
	versionID, ok := h.pathUUID(w, r, "versionId", "version_id")
	if !ok {
		return
	}

	version, err := h.agentService.GetVersion(r.Context(), account, agentID, versionID)
	if err != nil {
		h.respondDomainError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, dto.ToVersionResponse(version))
}

// handleCreateVersion appends a version and makes it current.
// @Summary Create version
// @Description Creates a new version from the full behavior configuration. When base_version_id is set and no longer current, returns 409.
// @Tags versions
// @Accept json
// @Produce json
// @Param id path string true "Agent ID"
// @Param request body dto.CreateVersionRequest true "Version configuration"
// @Success 201 {object} dto.VersionResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /agents/{id}/versions [post]
func (h *Handler) handleCreateVersion(w http.ResponseWriter, r *http.Request) {
	account, ok := h.account(w, r)
	if !ok {
		return
	}
	agentID, ok := h.pathUUID(w, r, "id", "agent_id")
	if !ok {
		return
	}

	var req dto.CreateVersionRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	version, err := h.agentService.CreateVersion(r.Context(), account, agentID, req.ToInput())
	if err != nil {
		h.respondDomainError(w, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, dto.ToVersionResponse(version))
}

// handleActivateVersion moves the agent's current version pointer.
// @Summary Activate version
// @Tags versions
// @Produce json
// @Param id path string true "Agent ID"
// @Param versionId path string true "Version ID"
// @Success 200 {object} dto.AgentResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /agents/{id}/versions/{versionId}/activate [post]
func (h *Handler) handleActivateVersion(w http.ResponseWriter, r *http.Request) {
	account, ok := h.account(w, r)
	if !ok {
		return
	}
	agentID, ok := h.pathUUID(w, r, "id", "agent_id")
	if !ok {
		return
	}
	versionID, ok := h.pathUUID(w, r, "versionId", "version_id")
	if !ok {
		return
	}

	agent, err := h.agentService.ActivateVersion(r.Context(), account, agentID, versionID)
	if err != nil {
		h.respondDomainError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, dto.ToAgentResponse(agent))
}
