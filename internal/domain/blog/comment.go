package blog

import (
	"strings"

	"github.com/blogicum/backend/internal/domain/identity"
	"github.com/blogicum/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Comment is a reader's note under a post.
// Only the author may edit or delete it.
type Comment struct {
	shared.BaseEntity
	Text     string    `gorm:"type:text;not null"`
	AuthorID uuid.UUID `gorm:"type:uuid;not null;index"`
	PostID   uuid.UUID `gorm:"type:uuid;not null;index"`

	Author *identity.User `gorm:"foreignKey:AuthorID"`
}

// TableName returns the table name for GORM
func (Comment) TableName() string {
	return "comments"
}

// NewComment creates a comment on a post
func NewComment(postID, authorID uuid.UUID, text string) (*Comment, error) {
	if err := validateCommentText(text); err != nil {
		return nil, err
	}
	if postID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_POST", "Comment post is required")
	}
	if authorID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_AUTHOR", "Comment author is required")
	}

	return &Comment{
		BaseEntity: shared.NewBaseEntity(),
		Text:       strings.TrimSpace(text),
		AuthorID:   authorID,
		PostID:     postID,
	}, nil
}

// Update replaces the comment text
func (c *Comment) Update(text string) error {
	if err := validateCommentText(text); err != nil {
		return err
	}

	c.Text = strings.TrimSpace(text)
	c.Touch()

	return nil
}

// IsAuthoredBy reports whether the given user wrote this comment
func (c *Comment) IsAuthoredBy(userID uuid.UUID) bool {
	return userID != uuid.Nil && c.AuthorID == userID
}

func validateCommentText(text string) error {
	if strings.TrimSpace(text) == "" {
		return shared.NewDomainError("INVALID_TEXT", "Comment text cannot be empty")
	}
	return nil
}
