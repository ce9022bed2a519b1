package database

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigFromEnv_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DATABASE_MAX_CONNS", "")
	cfg := ConfigFromEnv()
	assert.Contains(t, cfg.DSN, "sslmode=disable")
	assert.Equal(t, 5, cfg.MaxConns)
}

func TestConfigFromEnv_Overrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/app")
	t.Setenv("DATABASE_MAX_CONNS", "12")
	t.Setenv("DATABASE_TIMEZONE", "UTC")
	cfg := ConfigFromEnv()
	assert.Equal(t, "postgres://u:p@db:5432/app", cfg.DSN)
	assert.Equal(t, 12, cfg.MaxConns)
	assert.Equal(t, "UTC", cfg.TimeZone)
}

func TestQuoteLiteral(t *testing.T) {
	assert.Equal(t, "'UTC'", quoteLiteral("UTC"))
	assert.Equal(t, "'O''Brien'", quoteLiteral("O'Brien"))
}

func TestApplySession(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("SET TIME ZONE 'Asia/Dhaka'").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("SET client_encoding = 'UTF8'").WillReturnResult(sqlmock.NewResult(0, 0))

	err = applySession(context.Background(), db, Config{TimeZone: "Asia/Dhaka", ClientEncoding: "UTF8"})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
