package db

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlibekovAA/gql-user-auth/internal/common/db/migrations"
	"github.com/AlibekovAA/gql-user-auth/internal/common/logger"
)

func TestMigrationsAreEmbedded(t *testing.T) {
	entries, err := fs.ReadDir(migrations.FS, ".")
	require.NoError(t, err)

	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.Contains(t, names, "00001_create_users.sql")

	body, err := fs.ReadFile(migrations.FS, "00001_create_users.sql")
	require.NoError(t, err)
	assert.Contains(t, string(body), "-- +goose Up")
	assert.Contains(t, string(body), "reset_password_expires")
}

func TestRunMigrations(t *testing.T) {
	orig := gooseUp
	t.Cleanup(func() { gooseUp = orig })

	log := logger.NewWithWriter(io.Discard, "test", "debug")

	var gotDir string
	gooseUp = func(ctx context.Context, db *sql.DB, dir string) error {
		gotDir = dir
		return nil
	}
	require.NoError(t, RunMigrations(context.Background(), log, nil))
	assert.Equal(t, ".", gotDir)

	gooseUp = func(ctx context.Context, db *sql.DB, dir string) error {
		return errors.New("dirty database version 1")
	}
	err := RunMigrations(context.Background(), log, nil)
	assert.ErrorContains(t, err, "apply migrations")
}
