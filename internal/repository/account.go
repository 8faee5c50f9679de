package repository

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mtlprog/agentdesk/internal/domain"
)

// AccountRepository handles database operations for accounts.
type AccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

// GetByToken finds an account by authentication token.
func (r *AccountRepository) GetByToken(ctx context.Context, token string) (*domain.Account, error) {
	query, args, err := psql.
		Select("id", "name", "token", "is_active", "created_at").
		From("accounts").
		Where(sq.Eq{"token": token}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetByToken query for account: %w", err)
	}

	var account domain.Account
	err = r.pool.QueryRow(ctx, query, args...).Scan(
		&account.ID,
		&account.Name,
		&account.Token,
		&account.IsActive,
		&account.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("query account: %w", err)
	}

	return &account, nil
}
