package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/riadaman/sanctrum-rest-api/internal/user/entity"
)

var (
	// ErrNotFound is returned when no user row matches.
	ErrNotFound = errors.New("user not found")
	// ErrConstraint wraps integrity violations such as a duplicate email.
	ErrConstraint = errors.New("constraint violation")
)

// pq error class for integrity constraint violations (unique, not null, fk...).
const integrityViolationClass = "23"

// UserRepo provides data access for the users table using sqlx.
type UserRepo struct {
	db *sqlx.DB
}

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{db: db} }

const userColumns = `id, name, email, password, phone_number, created_at, updated_at`

// Create inserts u and fills CreatedAt/UpdatedAt from the database.
// u.ID must already be assigned.
func (r *UserRepo) Create(ctx context.Context, u *entity.User) error {
	const q = `INSERT INTO users (id, name, email, password, phone_number)
		  VALUES (:id, :name, :email, :password, :phone_number) RETURNING created_at, updated_at`
	rows, err := r.db.NamedQueryContext(ctx, q, u)
	if err != nil {
		return classify(err)
	}
	defer rows.Close()
	if rows.Next() {
		if err := rows.Scan(&u.CreatedAt, &u.UpdatedAt); err != nil {
			return fmt.Errorf("scan user: %w", err)
		}
		return nil
	}
	if err := rows.Err(); err != nil {
		return classify(err)
	}
	return errors.New("no row returned")
}

// GetByEmail returns a user matched by email (case-insensitive due to citext) or ErrNotFound.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE email=$1`
	var u entity.User
	if err := r.db.GetContext(ctx, &u, q, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return &u, nil
}

// GetByID fetches a full user row or ErrNotFound.
func (r *UserRepo) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE id=$1`
	var u entity.User
	if err := r.db.GetContext(ctx, &u, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get user by id: %w", err)
	}
	return &u, nil
}

func classify(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code.Class()) == integrityViolationClass {
		return fmt.Errorf("%w: %s", ErrConstraint, pqErr.Constraint)
	}
	return fmt.Errorf("insert user: %w", err)
}
