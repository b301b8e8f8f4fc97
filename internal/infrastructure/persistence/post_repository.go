package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/blogicum/backend/internal/domain/blog"
	"github.com/blogicum/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// commentCountSelect annotates each post row with its comment count
const commentCountSelect = "posts.*, (SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id) AS comment_count"

// GormPostRepository implements blog.PostRepository using GORM
type GormPostRepository struct {
	db *gorm.DB
}

// NewGormPostRepository creates a new GormPostRepository
func NewGormPostRepository(db *gorm.DB) *GormPostRepository {
	return &GormPostRepository{db: db}
}

// FindByID finds a post by its ID with author, category and location loaded
func (r *GormPostRepository) FindByID(ctx context.Context, id uuid.UUID) (*blog.Post, error) {
	var post blog.Post
	if err := r.db.WithContext(ctx).
		Select(commentCountSelect).
		Preload("Author").
		Preload("Category").
		Preload("Location").
		First(&post, "posts.id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &post, nil
}

// FindVisible finds publicly visible posts ordered by the filter settings
func (r *GormPostRepository) FindVisible(ctx context.Context, now time.Time, filter shared.Filter) ([]blog.Post, error) {
	var posts []blog.Post
	query := r.visibleQuery(ctx, now, filter).
		Select(commentCountSelect).
		Preload("Author").
		Preload("Category").
		Preload("Location").
		Order(postOrderClause(filter))

	if filter.PageSize > 0 {
		query = query.Limit(filter.PageSize).Offset(filter.Offset())
	}

	if err := query.Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// CountVisible counts the posts FindVisible would return
func (r *GormPostRepository) CountVisible(ctx context.Context, now time.Time, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.visibleQuery(ctx, now, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindByAuthor finds all of an author's posts regardless of visibility
func (r *GormPostRepository) FindByAuthor(ctx context.Context, authorID uuid.UUID, filter shared.Filter) ([]blog.Post, error) {
	var posts []blog.Post
	query := r.db.WithContext(ctx).Model(&blog.Post{}).
		Where("posts.author_id = ?", authorID).
		Select(commentCountSelect).
		Preload("Author").
		Preload("Category").
		Preload("Location").
		Order(postOrderClause(filter))

	if filter.PageSize > 0 {
		query = query.Limit(filter.PageSize).Offset(filter.Offset())
	}

	if err := query.Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// CountByAuthor counts all of an author's posts
func (r *GormPostRepository) CountByAuthor(ctx context.Context, authorID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&blog.Post{}).
		Where("author_id = ?", authorID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindScheduledSince finds published posts whose pub_date falls inside (since, until]
func (r *GormPostRepository) FindScheduledSince(ctx context.Context, since, until time.Time) ([]blog.Post, error) {
	var posts []blog.Post
	if err := r.db.WithContext(ctx).
		Where("is_published = ?", true).
		Where("pub_date > ? AND pub_date <= ?", since, until).
		Preload("Author").
		Preload("Category").
		Order("pub_date ASC").
		Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// Save creates or updates a post
func (r *GormPostRepository) Save(ctx context.Context, post *blog.Post) error {
	return r.db.WithContext(ctx).Save(post).Error
}

// Delete deletes a post and cascades to its comments
func (r *GormPostRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&blog.Comment{}, "post_id = ?", id).Error; err != nil {
			return err
		}

		result := tx.Delete(&blog.Post{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

func (r *GormPostRepository) visibleQuery(ctx context.Context, now time.Time, filter shared.Filter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&blog.Post{}).
		Joins("JOIN categories ON categories.id = posts.category_id").
		Where("posts.is_published = ?", true).
		Where("categories.is_published = ?", true).
		Where("posts.pub_date <= ?", now)

	if categoryID, ok := filter.Filters["category_id"]; ok {
		query = query.Where("posts.category_id = ?", categoryID)
	}
	if authorID, ok := filter.Filters["author_id"]; ok {
		query = query.Where("posts.author_id = ?", authorID)
	}

	return query
}

func postOrderClause(filter shared.Filter) string {
	orderBy := ValidateSortField(filter.OrderBy, PostSortFields, "pub_date")
	orderDir := ValidateSortOrder(filter.OrderDir)
	return fmt.Sprintf("posts.%s %s", orderBy, orderDir)
}
