package repository

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// TokenRepository manages device tokens for push notifications.
type TokenRepository interface {
	RegisterToken(ctx context.Context, token, platform string) error
	UnregisterToken(ctx context.Context, token string) error
	GetAllTokens(ctx context.Context) ([]string, error)
}

// InMemoryTokenRepository keeps device tokens in memory.
type InMemoryTokenRepository struct {
	mu     sync.RWMutex
	tokens map[string]string // token -> platform
}

func NewInMemoryTokenRepository() *InMemoryTokenRepository {
	return &InMemoryTokenRepository{tokens: make(map[string]string)}
}

func (r *InMemoryTokenRepository) RegisterToken(_ context.Context, token, platform string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens[token] = platform
	return nil
}

func (r *InMemoryTokenRepository) UnregisterToken(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tokens, token)
	return nil
}

func (r *InMemoryTokenRepository) GetAllTokens(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tokens := make([]string, 0, len(r.tokens))
	for token := range r.tokens {
		tokens = append(tokens, token)
	}
	return tokens, nil
}

// PostgresTokenRepository persists device tokens so registrations survive
// restarts.
type PostgresTokenRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresTokenRepository(pool *pgxpool.Pool) *PostgresTokenRepository {
	return &PostgresTokenRepository{pool: pool}
}

func (r *PostgresTokenRepository) RegisterToken(ctx context.Context, token, platform string) error {
	_, err := r.pool.Exec(ctx, `
		insert into device_tokens(token, platform, created_at)
		values ($1, $2, $3)
		on conflict (token) do update set platform = excluded.platform
	`, token, platform, time.Now())
	return err
}

func (r *PostgresTokenRepository) UnregisterToken(ctx context.Context, token string) error {
	_, err := r.pool.Exec(ctx, `delete from device_tokens where token = $1`, token)
	return err
}

func (r *PostgresTokenRepository) GetAllTokens(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `select token from device_tokens`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tokens := make([]string, 0)
	for rows.Next() {
		var token string
		if err := rows.Scan(&token); err != nil {
			return nil, err
		}
		tokens = append(tokens, token)
	}
	return tokens, rows.Err()
}

// compile-time checks
var (
	_ TokenRepository = (*InMemoryTokenRepository)(nil)
	_ TokenRepository = (*PostgresTokenRepository)(nil)
)
