package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/mtlprog/agentdesk/docs" // Register swagger docs
	"github.com/mtlprog/agentdesk/internal/domain"
	"github.com/mtlprog/agentdesk/internal/handler/dto"
	"github.com/mtlprog/agentdesk/internal/logger"
	"github.com/mtlprog/agentdesk/internal/middleware"
	"github.com/mtlprog/agentdesk/internal/repository"
	"github.com/mtlprog/agentdesk/internal/service"
	"github.com/mtlprog/agentdesk/internal/static"
)

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	pool           *pgxpool.Pool
	agentService   *service.AgentService
	authMiddleware *middleware.AuthMiddleware
	log            zerolog.Logger
}

// New creates a new Handler instance with all dependencies.
func New(pool *pgxpool.Pool) *Handler {
	accountRepo := repository.NewAccountRepository(pool)
	agentRepo := repository.NewAgentRepository(pool)
	versionRepo := repository.NewVersionRepository(pool)

	return &Handler{
		pool:           pool,
		agentService:   service.NewAgentService(pool, agentRepo, versionRepo),
		authMiddleware: middleware.NewAuthMiddleware(accountRepo),
		log:            logger.Get("api"),
	}
}

// Routes builds the HTTP router with all middleware attached.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery)
	r.Use(middleware.Logger)
	r.Use(middleware.MaxBodySize(middleware.DefaultMaxBodyBytes))

	r.Get("/healthz", h.handleHealthz)
	r.Get("/skill.md", h.handleSkillMd)
	r.Get("/swagger/*", httpSwagger.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(h.authMiddleware.Authenticate)

		r.Get("/agents", h.handleListAgents)
		r.Post("/agents", h.handleCreateAgent)

		r.Route("/agents/{id}", func(r chi.Router) {
			r.Get("/", h.handleGetAgent)
			r.Put("/", h.handleUpdateAgent)
			r.Post("/save", h.handleSaveAgent)

			r.Get("/versions", h.handleListVersions)
			r.Post("/versions", h.handleCreateVersion)
			r.Get("/versions/{versionId}", h.handleGetVersion)
			r.Post("/versions/{versionId}/activate", h.handleActivateVersion)
		})
	})

	return r
}

// handleHealthz returns 200 OK if the database is reachable.
func (h *Handler) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if err := h.pool.Ping(r.Context()); err != nil {
		h.log.Error().Err(err).Msg("database health check failed")
		http.Error(w, "database unavailable", http.StatusServiceUnavailable)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// handleSkillMd serves the embedded API guide for automation clients.
func (h *Handler) handleSkillMd(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(static.SkillMd))
}

// Ping checks if the database is reachable (used for testing).
func (h *Handler) Ping(ctx context.Context) error {
	return h.pool.Ping(ctx)
}

// respondJSON writes a JSON response with the given status code.
func (h *Handler) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("failed to encode JSON response")
	}
}

// respondError writes a standard error response.
func (h *Handler) respondError(w http.ResponseWriter, status int, code, message string) {
	h.respondJSON(w, status, dto.NewErrorResponse(code, message))
}

// respondDomainError maps a service error onto the error envelope.
func (h *Handler) respondDomainError(w http.ResponseWriter, err error) {
	status, code, message := dto.MapDomainError(err)
	h.respondError(w, status, code, message)
}

// decodeBody decodes the JSON request body into dst.
// Returns false if decoding failed (error already sent to client).
func (h *Handler) decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.respondError(w, http.StatusRequestEntityTooLarge, dto.CodeInvalidRequest, "request body too large")
			return false
		}
		h.respondError(w, http.StatusBadRequest, dto.CodeInvalidJSON, "Invalid request body")
		return false
	}
	return true
}

// account extracts the authenticated account.
// Returns (nil, false) if missing (error already sent to client).
func (h *Handler) account(w http.ResponseWriter, r *http.Request) (*domain.Account, bool) {
	account, err := middleware.GetAccountFromContext(r.Context())
	if err != nil {
		h.respondError(w, http.StatusUnauthorized, dto.CodeInvalidToken, "Authentication required")
		return nil, false
	}
	return account, true
}

// pathUUID extracts and validates a UUID path parameter.
// Returns ("", false) if invalid (error already sent to client).
func (h *Handler) pathUUID(w http.ResponseWriter, r *http.Request, param, label string) (string, bool) {
	id := chi.URLParam(r, param)
	if id == "" {
		h.respondError(w, http.StatusBadRequest, dto.CodeInvalidRequest, label+" is required")
		return "", false
	}

	if _, err := uuid.Parse(id); err != nil {
		h.respondError(w, http.StatusBadRequest, dto.CodeInvalidRequest, label+" must be a valid UUID")
		return "", false
	}

	return id, true
}
