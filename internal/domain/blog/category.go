package blog

import (
	"regexp"
	"strings"

	"github.com/blogicum/backend/internal/domain/shared"
)

// slugRegex matches lowercase latin letters, digits, underscores and hyphens
var slugRegex = regexp.MustCompile(`^[a-z0-9_-]+$`)

// Category groups posts under a unique slug.
// An unpublished category hides every post assigned to it.
type Category struct {
	shared.BaseEntity
	Title       string `gorm:"type:varchar(256);not null"`
	Description string `gorm:"type:text"`
	Slug        string `gorm:"type:varchar(64);not null;uniqueIndex"`
	IsPublished bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Category) TableName() string {
	return "categories"
}

// NewCategory creates a new published category
func NewCategory(title, slug string) (*Category, error) {
	if err := validateCategoryTitle(title); err != nil {
		return nil, err
	}
	if err := ValidateSlug(slug); err != nil {
		return nil, err
	}

	return &Category{
		BaseEntity:  shared.NewBaseEntity(),
		Title:       strings.TrimSpace(title),
		Slug:        slug,
		IsPublished: true,
	}, nil
}

// Update updates the category's descriptive fields
func (c *Category) Update(title, description string) error {
	if err := validateCategoryTitle(title); err != nil {
		return err
	}

	c.Title = strings.TrimSpace(title)
	c.Description = description
	c.Touch()

	return nil
}

// Unpublish hides the category and, transitively, all of its posts
func (c *Category) Unpublish() {
	c.IsPublished = false
	c.Touch()
}

// Publish makes the category visible again
func (c *Category) Publish() {
	c.IsPublished = true
	c.Touch()
}

// ValidateSlug checks that a slug is well formed
func ValidateSlug(slug string) error {
	if slug == "" {
		return shared.NewDomainError("INVALID_SLUG", "Slug cannot be empty")
	}
	if len(slug) > 64 {
		return shared.NewDomainError("INVALID_SLUG", "Slug cannot exceed 64 characters")
	}
	if !slugRegex.MatchString(slug) {
		return shared.NewDomainError("INVALID_SLUG", "Slug may only contain lowercase letters, digits, underscores and hyphens")
	}
	return nil
}

func validateCategoryTitle(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return shared.NewDomainError("INVALID_TITLE", "Category title cannot be empty")
	}
	if len(title) > 256 {
		return shared.NewDomainError("INVALID_TITLE", "Category title cannot exceed 256 characters")
	}
	return nil
}
