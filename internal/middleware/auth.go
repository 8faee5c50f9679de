package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/mtlprog/agentdesk/internal/domain"
	"github.com/mtlprog/agentdesk/internal/handler/dto"
)

type contextKey string

const (
	// ContextKeyAccount is the key for storing the account in request context.
	ContextKeyAccount contextKey = "account"
	// ContextKeyRequestID is the key for storing the request id in request context.
	ContextKeyRequestID contextKey = "request_id"
)

// AccountLookup resolves a bearer token to its account.
type AccountLookup interface {
	GetByToken(ctx context.Context, token string) (*domain.Account, error)
}

// AuthMiddleware handles Bearer token authentication.
type AuthMiddleware struct {
	accounts AccountLookup
}

// NewAuthMiddleware creates a new AuthMiddleware.
func NewAuthMiddleware(accounts AccountLookup) *AuthMiddleware {
	return &AuthMiddleware{
		accounts: accounts,
	}
}

// Authenticate validates Bearer token and adds the account to request context.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			writeError(w, http.StatusUnauthorized, dto.CodeInvalidToken, "missing authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			writeError(w, http.StatusUnauthorized, dto.CodeInvalidToken, "invalid authorization header format")
			return
		}

		token := strings.TrimSpace(parts[1])
		if token == "" {
			writeError(w, http.StatusUnauthorized, dto.CodeInvalidToken, "missing token")
			return
		}

		account, err := m.accounts.GetByToken(r.Context(), token)
		if err != nil {
			if errors.Is(err, domain.ErrAccountNotFound) {
				writeError(w, http.StatusUnauthorized, dto.CodeInvalidToken, "invalid token")
				return
			}
			getLog().Error().Err(err).Str("request_id", GetRequestID(r.Context())).Msg("account lookup failed")
			writeError(w, http.StatusInternalServerError, dto.CodeInternal, "internal server error")
			return
		}

		if !account.IsActive {
			writeError(w, http.StatusUnauthorized, dto.CodeAccountInactive, "account inactive")
			return
		}

		ctx := context.WithValue(r.Context(), ContextKeyAccount, account)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetAccountFromContext retrieves the authenticated account from request context.
func GetAccountFromContext(ctx context.Context) (*domain.Account, error) {
	account, ok := ctx.Value(ContextKeyAccount).(*domain.Account)
	if !ok || account == nil {
		return nil, domain.ErrInvalidToken
	}
	return account, nil
}
