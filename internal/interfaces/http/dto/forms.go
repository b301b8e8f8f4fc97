// Package dto contains the HTML form bindings for the blog pages.
package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// pubDateLayouts are the accepted publication date formats, in order of
// preference. The first matches the datetime-local input the form renders.
var pubDateLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// PostForm binds the post create/edit form
type PostForm struct {
	Title      string `form:"title" binding:"required,max=256"`
	Text       string `form:"text" binding:"required"`
	PubDate    string `form:"pub_date"`
	CategoryID string `form:"category"`
	LocationID string `form:"location"`
}

// ParsedPubDate parses the form's publication date in the server's
// timezone. An empty value means "now" and is left to the service.
func (f *PostForm) ParsedPubDate() (time.Time, error) {
	value := strings.TrimSpace(f.PubDate)
	if value == "" {
		return time.Time{}, nil
	}

	var lastErr error
	for _, layout := range pubDateLayouts {
		t, err := time.ParseInLocation(layout, value, time.Local)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// ParsedCategoryID parses the selected category, nil when none chosen
func (f *PostForm) ParsedCategoryID() (*uuid.UUID, error) {
	return parseOptionalUUID(f.CategoryID)
}

// ParsedLocationID parses the selected location, nil when none chosen
func (f *PostForm) ParsedLocationID() (*uuid.UUID, error) {
	return parseOptionalUUID(f.LocationID)
}

// CommentForm binds the comment create/edit form
type CommentForm struct {
	Text string `form:"text" binding:"required"`
}

// ProfileForm binds the profile edit form
type ProfileForm struct {
	Email       string `form:"email" binding:"omitempty,email,max=200"`
	DisplayName string `form:"display_name" binding:"max=200"`
	Bio         string `form:"bio"`
}

// LoginForm binds the login form
type LoginForm struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
	Next     string `form:"next"`
}

// RegistrationForm binds the signup form
type RegistrationForm struct {
	Username        string `form:"username" binding:"required,min=3,max=100,username"`
	Email           string `form:"email" binding:"omitempty,email,max=200"`
	Password        string `form:"password" binding:"required,min=8"`
	PasswordConfirm string `form:"password_confirm" binding:"required,eqfield=Password"`
}

// PasswordChangeForm binds the password change form
type PasswordChangeForm struct {
	OldPassword        string `form:"old_password" binding:"required"`
	NewPassword        string `form:"new_password" binding:"required,min=8"`
	NewPasswordConfirm string `form:"new_password_confirm" binding:"required,eqfield=NewPassword"`
}

func parseOptionalUUID(value string) (*uuid.UUID, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
