package users

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/thiwankabandara/giftonline-backend/pkg/config"
	"github.com/thiwankabandara/giftonline-backend/pkg/db"
	"github.com/thiwankabandara/giftonline-backend/pkg/enums"
	"github.com/thiwankabandara/giftonline-backend/pkg/security"
)

func seedTestClient(t *testing.T) *db.Client {
	t.Helper()

	client, err := db.New(context.Background(), config.DBConfig{
		Driver: db.DriverSQLite,
		DSN:    "file::memory:?cache=shared",
	}, nil)
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  name TEXT NOT NULL DEFAULT '',
  role TEXT NOT NULL DEFAULT 'user',
  is_admin INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, client.DB().Exec(schema).Error)
	return client
}

func seedPasswordConfig() config.PasswordConfig {
	return config.PasswordConfig{
		ArgonMemoryKB:    8,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     8,
		ArgonKeyLen:      16,
	}
}

func TestEnsureAdminCreatesAccount(t *testing.T) {
	client := seedTestClient(t)
	ctx := context.Background()

	email := uniqueEmail()
	cfg := config.AdminConfig{Email: email, Password: "admin-pass", Name: "Admin User"}
	require.NoError(t, EnsureAdmin(ctx, client, cfg, seedPasswordConfig(), nil))

	repo := NewRepository(client.DB())
	admin, err := repo.FindByEmail(ctx, email)
	require.NoError(t, err)
	require.Equal(t, enums.UserRoleAdmin, admin.EffectiveRole())

	ok, err := security.VerifyPassword("admin-pass", admin.PasswordHash)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestEnsureAdminIsIdempotent(t *testing.T) {
	client := seedTestClient(t)
	ctx := context.Background()

	email := uniqueEmail()
	cfg := config.AdminConfig{Email: email, Password: "admin-pass", Name: "Admin User"}
	require.NoError(t, EnsureAdmin(ctx, client, cfg, seedPasswordConfig(), nil))
	require.NoError(t, EnsureAdmin(ctx, client, cfg, seedPasswordConfig(), nil))

	var count int64
	require.NoError(t, client.DB().Table("users").Where("email = ?", email).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestEnsureAdminPromotesExistingUser(t *testing.T) {
	client := seedTestClient(t)
	ctx := context.Background()
	repo := NewRepository(client.DB())

	email := uniqueEmail()
	existing, err := repo.Create(ctx, CreateUserDTO{Email: email, PasswordHash: "hash", Name: "Existing"})
	require.NoError(t, err)
	require.Equal(t, enums.UserRoleUser, existing.EffectiveRole())

	cfg := config.AdminConfig{Email: email, Password: "admin-pass", Name: "Admin User"}
	require.NoError(t, EnsureAdmin(ctx, client, cfg, seedPasswordConfig(), nil))

	promoted, err := repo.GetByID(ctx, existing.ID)
	require.NoError(t, err)
	require.Equal(t, enums.UserRoleAdmin, promoted.EffectiveRole())
	require.Equal(t, "hash", promoted.PasswordHash)
}

func TestEnsureAdminDisabledIsNoop(t *testing.T) {
	client := seedTestClient(t)
	require.NoError(t, EnsureAdmin(context.Background(), client, config.AdminConfig{}, seedPasswordConfig(), nil))
}
