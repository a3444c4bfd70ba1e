package users

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/thiwankabandara/giftonline-backend/pkg/enums"
	pkgerrors "github.com/thiwankabandara/giftonline-backend/pkg/errors"
)

func setupUsersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
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
	require.NoError(t, db.Exec(schema).Error)
	return db
}

func uniqueEmail() string {
	return fmt.Sprintf("user_%s@example.com", uuid.NewString())
}

func TestRepositoryCreateAndLookup(t *testing.T) {
	db := setupUsersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	email := uniqueEmail()
	created, err := repo.Create(ctx, CreateUserDTO{
		Email:        email,
		PasswordHash: "hash",
		Name:         "Repo Tester",
	})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, created.ID)
	require.Equal(t, enums.UserRoleUser, created.Role)

	byEmail, err := repo.FindByEmail(ctx, email)
	require.NoError(t, err)
	require.Equal(t, created.ID, byEmail.ID)

	byID, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, email, byID.Email)
}

func TestRepositoryGetByIDNotFound(t *testing.T) {
	db := setupUsersTestDB(t)
	repo := NewRepository(db)

	_, err := repo.GetByID(context.Background(), uuid.New())
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestRepositoryDuplicateEmailFails(t *testing.T) {
	db := setupUsersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	email := uniqueEmail()
	_, err := repo.Create(ctx, CreateUserDTO{Email: email, PasswordHash: "hash"})
	require.NoError(t, err)

	_, err = repo.Create(ctx, CreateUserDTO{Email: email, PasswordHash: "hash"})
	require.Error(t, err)
}

func TestRepositoryUpdateProfile(t *testing.T) {
	db := setupUsersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	created, err := repo.Create(ctx, CreateUserDTO{
		Email:        uniqueEmail(),
		PasswordHash: "hash",
		Name:         "Before",
	})
	require.NoError(t, err)

	updated, err := repo.UpdateProfile(ctx, created.ID, map[string]any{"name": "After"})
	require.NoError(t, err)
	require.Equal(t, "After", updated.Name)
	require.Equal(t, created.Email, updated.Email)
}

func TestFromModelUsesEffectiveRole(t *testing.T) {
	db := setupUsersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	created, err := repo.Create(ctx, CreateUserDTO{Email: uniqueEmail(), PasswordHash: "hash"})
	require.NoError(t, err)
	require.NoError(t, db.Model(created).UpdateColumn("is_admin", true).Error)

	stored, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)

	dto := FromModel(stored)
	require.Equal(t, enums.UserRoleAdmin, dto.Role)
}
