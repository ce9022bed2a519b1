package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riadaman/sanctrum-rest-api/internal/user/entity"
)

func newRepoWithMock(t *testing.T) (*UserRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewUserRepo(sqlx.NewDb(db, "postgres")), mock
}

var cols = []string{"id", "name", "email", "password", "phone_number", "created_at", "updated_at"}

func TestCreate_Success(t *testing.T) {
	r, mock := newRepoWithMock(t)
	now := time.Now().UTC()

	mock.ExpectQuery(`(?s)^INSERT\s+INTO\s+users\s*\(id, name, email, password, phone_number\)\s*VALUES\s*\(\$1, \$2, \$3, \$4, \$5\)\s*RETURNING created_at, updated_at$`).
		WithArgs(int64(42), "Ann", "ann@x.com", "$2a$hash", "555-0100").
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	u := &entity.User{ID: 42, Name: "Ann", Email: "ann@x.com", Password: "$2a$hash", PhoneNumber: "555-0100"}
	require.NoError(t, r.Create(context.Background(), u))
	assert.Equal(t, now, u.CreatedAt)
	assert.Equal(t, now, u.UpdatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_UniqueViolation(t *testing.T) {
	r, mock := newRepoWithMock(t)

	mock.ExpectQuery(`INSERT INTO users`).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "users_email_unique"})

	err := r.Create(context.Background(), &entity.User{ID: 1, Email: "ann@x.com"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConstraint)
	assert.Contains(t, err.Error(), "users_email_unique")
}

func TestCreate_DBError(t *testing.T) {
	r, mock := newRepoWithMock(t)

	mock.ExpectQuery(`INSERT INTO users`).WillReturnError(errors.New("db down"))

	err := r.Create(context.Background(), &entity.User{ID: 1})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrConstraint)
	assert.Contains(t, err.Error(), "db down")
}

func TestGetByEmail_Found(t *testing.T) {
	r, mock := newRepoWithMock(t)
	now := time.Now().UTC()

	mock.ExpectQuery(`SELECT id, name, email, password, phone_number, created_at, updated_at FROM users WHERE email=\$1`).
		WithArgs("ann@x.com").
		WillReturnRows(sqlmock.NewRows(cols).AddRow(int64(7), "Ann", "ann@x.com", "$2a$hash", "555-0100", now, now))

	u, err := r.GetByEmail(context.Background(), "ann@x.com")
	require.NoError(t, err)
	assert.Equal(t, int64(7), u.ID)
	assert.Equal(t, "Ann", u.Name)
	assert.Equal(t, "$2a$hash", u.Password)
}

func TestGetByEmail_NotFound(t *testing.T) {
	r, mock := newRepoWithMock(t)

	mock.ExpectQuery(`FROM users WHERE email=\$1`).
		WithArgs("nobody@x.com").
		WillReturnRows(sqlmock.NewRows(cols))

	_, err := r.GetByEmail(context.Background(), "nobody@x.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetByID(t *testing.T) {
	r, mock := newRepoWithMock(t)
	now := time.Now().UTC()

	mock.ExpectQuery(`FROM users WHERE id=\$1`).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(cols).AddRow(int64(7), "Ann", "ann@x.com", "h", "555-0100", now, now))
	mock.ExpectQuery(`FROM users WHERE id=\$1`).
		WithArgs(int64(8)).
		WillReturnError(errors.New("conn reset"))

	u, err := r.GetByID(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "ann@x.com", u.Email)

	_, err = r.GetByID(context.Background(), 8)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}
