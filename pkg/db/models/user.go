package models

import (
	"time"

	"github.com/angelmondragon/storefront-backend/pkg/enums"
)

// User is a sign-in identity. PasswordHash is empty for Google-only accounts.
type User struct {
	ID           string         `gorm:"column:id;primaryKey"`
	Email        string         `gorm:"column:email;not null;uniqueIndex:idx_users_email"`
	PasswordHash *string        `gorm:"column:password_hash"`
	GoogleSub    *string        `gorm:"column:google_sub;uniqueIndex:idx_users_google_sub"`
	DisplayName  string         `gorm:"column:display_name;not null;default:''"`
	Role         enums.UserRole `gorm:"column:role;not null;default:'customer'"`
	LastLoginAt  *time.Time     `gorm:"column:last_login_at"`
	CreatedAt    time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
