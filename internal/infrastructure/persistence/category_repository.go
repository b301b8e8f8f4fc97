package persistence

import (
	"context"
	"errors"

	"github.com/blogicum/backend/internal/domain/blog"
	"github.com/blogicum/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCategoryRepository implements blog.CategoryRepository using GORM
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewGormCategoryRepository creates a new GormCategoryRepository
func NewGormCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

// FindByID finds a category by its ID
func (r *GormCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*blog.Category, error) {
	var category blog.Category
	if err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &category, nil
}

// FindPublishedBySlug finds a published category by its slug. Unknown and
// unpublished slugs both return shared.ErrNotFound.
func (r *GormCategoryRepository) FindPublishedBySlug(ctx context.Context, slug string) (*blog.Category, error) {
	var category blog.Category
	if err := r.db.WithContext(ctx).
		Where("slug = ? AND is_published = ?", slug, true).
		First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &category, nil
}

// FindAllPublished lists published categories ordered by title
func (r *GormCategoryRepository) FindAllPublished(ctx context.Context) ([]blog.Category, error) {
	var categories []blog.Category
	if err := r.db.WithContext(ctx).
		Where("is_published = ?", true).
		Order("title ASC").
		Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// Save creates or updates a category
func (r *GormCategoryRepository) Save(ctx context.Context, category *blog.Category) error {
	return r.db.WithContext(ctx).Save(category).Error
}

// GormLocationRepository implements blog.LocationRepository using GORM
type GormLocationRepository struct {
	db *gorm.DB
}

// NewGormLocationRepository creates a new GormLocationRepository
func NewGormLocationRepository(db *gorm.DB) *GormLocationRepository {
	return &GormLocationRepository{db: db}
}

// FindByID finds a location by its ID
func (r *GormLocationRepository) FindByID(ctx context.Context, id uuid.UUID) (*blog.Location, error) {
	var location blog.Location
	if err := r.db.WithContext(ctx).First(&location, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &location, nil
}

// FindAllPublished lists published locations ordered by name
func (r *GormLocationRepository) FindAllPublished(ctx context.Context) ([]blog.Location, error) {
	var locations []blog.Location
	if err := r.db.WithContext(ctx).
		Where("is_published = ?", true).
		Order("name ASC").
		Find(&locations).Error; err != nil {
		return nil, err
	}
	return locations, nil
}

// Save creates or updates a location
func (r *GormLocationRepository) Save(ctx context.Context, location *blog.Location) error {
	return r.db.WithContext(ctx).Save(location).Error
}
