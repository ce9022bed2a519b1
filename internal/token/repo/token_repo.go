package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/riadaman/sanctrum-rest-api/internal/token/entity"
)

// ErrNotFound is returned when no token row matches.
var ErrNotFound = errors.New("token not found")

// NOTE: table schema lives in internal/migrations (personal_access_tokens).

type TokenRepo struct {
	db *sqlx.DB
}

func NewTokenRepo(db *sqlx.DB) *TokenRepo {
	return &TokenRepo{db: db}
}

// Save inserts t and fills CreatedAt.
func (r *TokenRepo) Save(ctx context.Context, t *entity.AccessToken) error {
	query := `INSERT INTO personal_access_tokens (id, user_id, name, token) VALUES ($1, $2, $3, $4) RETURNING created_at`
	row := r.db.QueryRowxContext(ctx, query, t.ID, t.UserID, t.Name, t.TokenHash)
	if err := row.Scan(&t.CreatedAt); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	return nil
}

func (r *TokenRepo) Get(ctx context.Context, id string) (*entity.AccessToken, error) {
	query := `SELECT id, user_id, name, token, created_at, last_used_at FROM personal_access_tokens WHERE id = $1`
	var t entity.AccessToken
	if err := r.db.GetContext(ctx, &t, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get token: %w", err)
	}
	return &t, nil
}

// Touch records the token as used now.
func (r *TokenRepo) Touch(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE personal_access_tokens SET last_used_at = NOW() WHERE id = $1`, id)
	return err
}

// Delete removes a token. Deleting a missing token is not an error.
func (r *TokenRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM personal_access_tokens WHERE id = $1`, id)
	return err
}
