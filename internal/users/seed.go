package users

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/thiwankabandara/giftonline-backend/pkg/config"
	"github.com/thiwankabandara/giftonline-backend/pkg/db"
	"github.com/thiwankabandara/giftonline-backend/pkg/enums"
	pkgerrors "github.com/thiwankabandara/giftonline-backend/pkg/errors"
	"github.com/thiwankabandara/giftonline-backend/pkg/logger"
	"github.com/thiwankabandara/giftonline-backend/pkg/security"
)

// EnsureAdmin creates the configured admin account when it does not exist yet.
// It runs at startup and is a no-op without admin credentials in the
// environment. An existing user with the same email is promoted rather than
// duplicated.
func EnsureAdmin(ctx context.Context, client *db.Client, cfg config.AdminConfig, passwordCfg config.PasswordConfig, logg *logger.Logger) error {
	if !cfg.Enabled() {
		return nil
	}

	email := strings.ToLower(strings.TrimSpace(cfg.Email))

	return client.WithTx(ctx, func(tx *gorm.DB) error {
		repo := NewRepository(tx)

		existing, err := repo.FindByEmail(ctx, email)
		if err == nil {
			if existing.EffectiveRole() == enums.UserRoleAdmin {
				return nil
			}
			if err := tx.WithContext(ctx).
				Model(existing).
				UpdateColumn("role", enums.UserRoleAdmin).Error; err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "promote admin user")
			}
			if logg != nil {
				logg.Info(logg.WithField(ctx, "email", email), "existing user promoted to admin")
			}
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check admin email")
		}

		hash, err := security.HashPassword(cfg.Password, passwordCfg)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash admin password")
		}

		if _, err := repo.Create(ctx, CreateUserDTO{
			Email:        email,
			PasswordHash: hash,
			Name:         cfg.Name,
			Role:         enums.UserRoleAdmin,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create admin user")
		}

		if logg != nil {
			logg.Info(logg.WithField(ctx, "email", email), "admin user created")
		}
		return nil
	})
}
