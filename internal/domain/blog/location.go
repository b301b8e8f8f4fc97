package blog

import (
	"strings"

	"github.com/blogicum/backend/internal/domain/shared"
)

// Location is an optional geographic tag for a post
type Location struct {
	shared.BaseEntity
	Name        string `gorm:"type:varchar(256);not null"`
	IsPublished bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Location) TableName() string {
	return "locations"
}

// NewLocation creates a new published location
func NewLocation(name string) (*Location, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Location name cannot be empty")
	}
	if len(name) > 256 {
		return nil, shared.NewDomainError("INVALID_NAME", "Location name cannot exceed 256 characters")
	}

	return &Location{
		BaseEntity:  shared.NewBaseEntity(),
		Name:        name,
		IsPublished: true,
	}, nil
}
