package blog

import (
	"strings"
	"time"

	"github.com/blogicum/backend/internal/domain/identity"
	"github.com/blogicum/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Post is a blog publication.
//
// Public visibility is never stored: it is the conjunction of the post's own
// published flag, its category's published flag and a publication date that
// is not in the future. The author always sees their own posts.
type Post struct {
	shared.BaseEntity
	Title       string     `gorm:"type:varchar(256);not null"`
	Text        string     `gorm:"type:text;not null"`
	PubDate     time.Time  `gorm:"not null;index"`
	IsPublished bool       `gorm:"not null;default:true;index"`
	AuthorID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	CategoryID  *uuid.UUID `gorm:"type:uuid;index"`
	LocationID  *uuid.UUID `gorm:"type:uuid"`
	ImageKey    string     `gorm:"type:varchar(512)"`

	Author   *identity.User `gorm:"foreignKey:AuthorID"`
	Category *Category      `gorm:"foreignKey:CategoryID"`
	Location *Location      `gorm:"foreignKey:LocationID"`

	// CommentCount is annotated by list queries, not persisted
	CommentCount int64 `gorm:"->;-:migration"`
}

// TableName returns the table name for GORM
func (Post) TableName() string {
	return "posts"
}

// NewPostInput holds the fields required to create a post
type NewPostInput struct {
	Title      string
	Text       string
	PubDate    time.Time
	AuthorID   uuid.UUID
	CategoryID *uuid.UUID
	LocationID *uuid.UUID
}

// NewPost creates a new published post
func NewPost(input NewPostInput) (*Post, error) {
	if err := validatePostTitle(input.Title); err != nil {
		return nil, err
	}
	if err := validatePostText(input.Text); err != nil {
		return nil, err
	}
	if input.AuthorID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_AUTHOR", "Post author is required")
	}

	pubDate := input.PubDate
	if pubDate.IsZero() {
		pubDate = time.Now()
	}

	return &Post{
		BaseEntity:  shared.NewBaseEntity(),
		Title:       strings.TrimSpace(input.Title),
		Text:        input.Text,
		PubDate:     pubDate,
		IsPublished: true,
		AuthorID:    input.AuthorID,
		CategoryID:  input.CategoryID,
		LocationID:  input.LocationID,
	}, nil
}

// Update replaces the post's editable fields
func (p *Post) Update(title, text string, pubDate time.Time, categoryID, locationID *uuid.UUID) error {
	if err := validatePostTitle(title); err != nil {
		return err
	}
	if err := validatePostText(text); err != nil {
		return err
	}

	p.Title = strings.TrimSpace(title)
	p.Text = text
	if !pubDate.IsZero() {
		p.PubDate = pubDate
	}
	p.CategoryID = categoryID
	p.LocationID = locationID
	p.Touch()

	return nil
}

// SetImageKey records the storage key of the post's uploaded image
func (p *Post) SetImageKey(key string) {
	p.ImageKey = key
	p.Touch()
}

// IsAuthoredBy reports whether the given user wrote this post
func (p *Post) IsAuthoredBy(userID uuid.UUID) bool {
	return userID != uuid.Nil && p.AuthorID == userID
}

// IsScheduled reports whether the publication date is still in the future
func (p *Post) IsScheduled(now time.Time) bool {
	return p.PubDate.After(now)
}

// IsPubliclyVisible reports whether anonymous readers can see this post.
// Requires the Category association to be loaded; a post without a category
// is never publicly visible.
func (p *Post) IsPubliclyVisible(now time.Time) bool {
	if !p.IsPublished || p.IsScheduled(now) {
		return false
	}
	return p.Category != nil && p.Category.IsPublished
}

// IsDetailVisibleTo reports whether the detail page may be shown.
// An unpublished post is only visible to its author; a published post's
// detail page is reachable even when it is missing from listings.
func (p *Post) IsDetailVisibleTo(userID uuid.UUID) bool {
	if p.IsPublished {
		return true
	}
	return p.IsAuthoredBy(userID)
}

func validatePostTitle(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return shared.NewDomainError("INVALID_TITLE", "Post title cannot be empty")
	}
	if len(title) > 256 {
		return shared.NewDomainError("INVALID_TITLE", "Post title cannot exceed 256 characters")
	}
	return nil
}

func validatePostText(text string) error {
	if strings.TrimSpace(text) == "" {
		return shared.NewDomainError("INVALID_TEXT", "Post text cannot be empty")
	}
	return nil
}
