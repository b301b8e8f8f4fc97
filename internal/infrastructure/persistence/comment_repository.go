package persistence

import (
	"context"
	"errors"

	"github.com/blogicum/backend/internal/domain/blog"
	"github.com/blogicum/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCommentRepository implements blog.CommentRepository using GORM
type GormCommentRepository struct {
	db *gorm.DB
}

// NewGormCommentRepository creates a new GormCommentRepository
func NewGormCommentRepository(db *gorm.DB) *GormCommentRepository {
	return &GormCommentRepository{db: db}
}

// FindByID finds a comment by its ID
func (r *GormCommentRepository) FindByID(ctx context.Context, id uuid.UUID) (*blog.Comment, error) {
	var comment blog.Comment
	if err := r.db.WithContext(ctx).
		Preload("Author").
		First(&comment, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &comment, nil
}

// FindByPost lists a post's comments with authors loaded, oldest first
func (r *GormCommentRepository) FindByPost(ctx context.Context, postID uuid.UUID) ([]blog.Comment, error) {
	var comments []blog.Comment
	if err := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Preload("Author").
		Order("created_at ASC").
		Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

// CountByPost counts a post's comments
func (r *GormCommentRepository) CountByPost(ctx context.Context, postID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&blog.Comment{}).
		Where("post_id = ?", postID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a comment
func (r *GormCommentRepository) Save(ctx context.Context, comment *blog.Comment) error {
	return r.db.WithContext(ctx).Save(comment).Error
}

// Delete deletes a comment
func (r *GormCommentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&blog.Comment{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
