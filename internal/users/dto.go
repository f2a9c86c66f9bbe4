package users

import (
	"strings"
	"time"

	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
	"github.com/google/uuid"
)

// UserDTO is the transport shape that omits credentials.
type UserDTO struct {
	ID           string         `json:"id"`
	Email        string         `json:"email"`
	DisplayName  string         `json:"display_name"`
	Role         enums.UserRole `json:"role"`
	HasPassword  bool           `json:"has_password"`
	GoogleLinked bool           `json:"google_linked"`
	LastLoginAt  *time.Time     `json:"last_login_at,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}

// CreateUserDTO holds the data required by the repo to persist a new user.
type CreateUserDTO struct {
	ID           string
	Email        string
	PasswordHash string
	GoogleSub    string
	DisplayName  string
	Role         enums.UserRole
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}
	return &UserDTO{
		ID:           u.ID,
		Email:        u.Email,
		DisplayName:  u.DisplayName,
		Role:         u.Role,
		HasPassword:  u.PasswordHash != nil && *u.PasswordHash != "",
		GoogleLinked: u.GoogleSub != nil && *u.GoogleSub != "",
		LastLoginAt:  u.LastLoginAt,
		CreatedAt:    u.CreatedAt,
	}
}

func (c CreateUserDTO) ToModel() *models.User {
	id := strings.TrimSpace(c.ID)
	if id == "" {
		id = uuid.NewString()
	}
	role := c.Role
	if !role.IsValid() {
		role = enums.UserRoleCustomer
	}
	user := &models.User{
		ID:          id,
		Email:       NormalizeEmail(c.Email),
		DisplayName: strings.TrimSpace(c.DisplayName),
		Role:        role,
	}
	if c.PasswordHash != "" {
		hash := c.PasswordHash
		user.PasswordHash = &hash
	}
	if c.GoogleSub != "" {
		sub := c.GoogleSub
		user.GoogleSub = &sub
	}
	return user
}

// NormalizeEmail is the canonical form used for every email lookup and
// uniqueness check: trimmed and lower-cased.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
