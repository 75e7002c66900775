package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/xela07ax/complitic/internal/domain"
)

func (r *Repo) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := `
		SELECT id::text, email, username, store_name, password_hash, role, created_at, updated_at
		FROM users WHERE username = $1`

	u := &domain.User{}
	err := r.pool.QueryRow(ctx, query, username).Scan(
		&u.ID, &u.Email, &u.Username, &u.StoreName, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return u, nil
}
