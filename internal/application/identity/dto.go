package identity

import (
	"time"

	"github.com/blogicum/backend/internal/domain/identity"
	"github.com/google/uuid"
)

// RegisterInput contains the fields of the registration form
type RegisterInput struct {
	Username    string
	Password    string
	Email       string
	DisplayName string
}

// LoginInput contains login credentials
type LoginInput struct {
	Username string
	Password string
	IP       string
}

// LoginResult contains the session token and user info after login
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      UserInfo
}

// LogoutInput identifies the session to terminate
type LogoutInput struct {
	Token  string
	UserID uuid.UUID
}

// UpdateProfileInput contains the editable profile fields
type UpdateProfileInput struct {
	Email       string
	DisplayName string
	Bio         string
}

// ChangePasswordInput contains the password change form fields
type ChangePasswordInput struct {
	OldPassword string
	NewPassword string
}

// UserInfo represents a user in responses
type UserInfo struct {
	ID          uuid.UUID `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	Bio         string    `json:"bio"`
	JoinedAt    time.Time `json:"joined_at"`
}

// ToUserInfo converts a domain user to a response
func ToUserInfo(u *identity.User) UserInfo {
	return UserInfo{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		DisplayName: u.GetDisplayNameOrUsername(),
		Bio:         u.Bio,
		JoinedAt:    u.CreatedAt,
	}
}
