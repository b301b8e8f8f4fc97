package blog

import (
	"context"
	"time"

	"github.com/blogicum/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// PostRepository defines the interface for post persistence
type PostRepository interface {
	// FindByID finds a post by its ID with category, location and author loaded
	FindByID(ctx context.Context, id uuid.UUID) (*Post, error)

	// FindVisible finds publicly visible posts: published, in a published
	// category, with pub_date <= now. Rows are annotated with comment counts
	// and ordered by pub_date descending. The filter may restrict by
	// "category_id" or "author_id".
	FindVisible(ctx context.Context, now time.Time, filter shared.Filter) ([]Post, error)

	// CountVisible counts the posts FindVisible would return
	CountVisible(ctx context.Context, now time.Time, filter shared.Filter) (int64, error)

	// FindByAuthor finds all of an author's posts regardless of visibility,
	// annotated with comment counts, ordered by pub_date descending
	FindByAuthor(ctx context.Context, authorID uuid.UUID, filter shared.Filter) ([]Post, error)

	// CountByAuthor counts all of an author's posts
	CountByAuthor(ctx context.Context, authorID uuid.UUID) (int64, error)

	// FindScheduledSince finds published posts whose pub_date falls inside
	// (since, until]; used by the publish sweep
	FindScheduledSince(ctx context.Context, since, until time.Time) ([]Post, error)

	// Save creates or updates a post
	Save(ctx context.Context, post *Post) error

	// Delete deletes a post and cascades to its comments
	Delete(ctx context.Context, id uuid.UUID) error
}

// CategoryRepository defines the interface for category persistence
type CategoryRepository interface {
	// FindByID finds a category by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Category, error)

	// FindPublishedBySlug finds a published category by its slug.
	// Returns shared.ErrNotFound for unknown and unpublished slugs alike.
	FindPublishedBySlug(ctx context.Context, slug string) (*Category, error)

	// FindAllPublished lists published categories, ordered by title
	FindAllPublished(ctx context.Context) ([]Category, error)

	// Save creates or updates a category
	Save(ctx context.Context, category *Category) error
}

// LocationRepository defines the interface for location persistence
type LocationRepository interface {
	// FindByID finds a location by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Location, error)

	// FindAllPublished lists published locations, ordered by name
	FindAllPublished(ctx context.Context) ([]Location, error)

	// Save creates or updates a location
	Save(ctx context.Context, location *Location) error
}

// CommentRepository defines the interface for comment persistence
type CommentRepository interface {
	// FindByID finds a comment by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Comment, error)

	// FindByPost lists a post's comments with authors loaded, oldest first
	FindByPost(ctx context.Context, postID uuid.UUID) ([]Comment, error)

	// CountByPost counts a post's comments
	CountByPost(ctx context.Context, postID uuid.UUID) (int64, error)

	// Save creates or updates a comment
	Save(ctx context.Context, comment *Comment) error

	// Delete deletes a comment
	Delete(ctx context.Context, id uuid.UUID) error
}
