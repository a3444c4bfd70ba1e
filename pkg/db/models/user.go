package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/thiwankabandara/giftonline-backend/pkg/enums"
)

// User represents the canonical identity entity.
type User struct {
	ID           uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Email        string         `gorm:"type:text;not null;uniqueIndex"`
	PasswordHash string         `gorm:"column:password_hash;not null"`
	Name         string         `gorm:"column:name;not null"`
	Role         enums.UserRole `gorm:"column:role;type:text;not null;default:'user'"`
	// IsAdmin is the legacy flag kept for rows written before roles existed.
	// Nothing reads it directly; EffectiveRole is the only consumer.
	IsAdmin   bool      `gorm:"column:is_admin;not null;default:false"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// EffectiveRole resolves the canonical role, honoring the legacy admin flag.
func (u User) EffectiveRole() enums.UserRole {
	if u.Role == enums.UserRoleAdmin || u.IsAdmin {
		return enums.UserRoleAdmin
	}
	return enums.UserRoleUser
}
