package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtlprog/agentdesk/internal/domain"
	"github.com/mtlprog/agentdesk/internal/handler/dto"
)

type stubAccounts map[string]*domain.Account

func (s stubAccounts) GetByToken(_ context.Context, token string) (*domain.Account, error) {
	if a, ok := s[token]; ok {
		return a, nil
	}
	return nil, domain.ErrAccountNotFound
}

func TestAuthenticate(t *testing.T) {
	accounts := stubAccounts{
		"good":     {ID: "acc-1", IsActive: true},
		"disabled": {ID: "acc-2", IsActive: false},
	}
	auth := NewAuthMiddleware(accounts)

	var seen *domain.Account
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = GetAccountFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})

	tests := []struct {
		name   string
		header string
		status int
		code   string
	}{
		{"missing header", "", http.StatusUnauthorized, dto.CodeInvalidToken},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized, dto.CodeInvalidToken},
		{"unknown token", "Bearer nope", http.StatusUnauthorized, dto.CodeInvalidToken},
		{"inactive account", "Bearer disabled", http.StatusUnauthorized, dto.CodeAccountInactive},
		{"valid token", "Bearer good", http.StatusNoContent, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = nil
			req := httptest.NewRequest(http.MethodGet, "/api/v1/agents", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			auth.Authenticate(next).ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			if tt.code == "" {
				require.NotNil(t, seen)
				assert.Equal(t, "acc-1", seen.ID)
				return
			}
			var resp dto.ErrorResponse
			require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
			assert.Equal(t, tt.code, resp.Error.Code)
			assert.Nil(t, seen)
		})
	}
}

func TestRequestID(t *testing.T) {
	var ctxID string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctxID = GetRequestID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", ctxID)
	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "bad id\nwith newline")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.NotEqual(t, "bad id\nwith newline", ctxID)
	assert.Len(t, ctxID, 36)
}

func TestRecovery(t *testing.T) {
	h := Recovery(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("kaboom")
	}))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
