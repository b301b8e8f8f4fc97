package blog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/blogicum/backend/internal/domain/blog"
	"github.com/blogicum/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// FeedCache caches rendered feed pages
type FeedCache interface {
	GetPage(ctx context.Context, key string) (*PostPage, bool)
	SetPage(ctx context.Context, key string, page *PostPage)
	Invalidate(ctx context.Context)
}

// ImageResolver resolves stored image keys to URLs
type ImageResolver interface {
	PublicURL(key string) string
}

// PostService handles post-related business operations
type PostService struct {
	postRepo     blog.PostRepository
	categoryRepo blog.CategoryRepository
	locationRepo blog.LocationRepository
	commentRepo  blog.CommentRepository
	feedCache    FeedCache
	images       ImageResolver
	pageSize     int
	now          func() time.Time
}

// NewPostService creates a new PostService. feedCache and images may be nil.
func NewPostService(
	postRepo blog.PostRepository,
	categoryRepo blog.CategoryRepository,
	locationRepo blog.LocationRepository,
	commentRepo blog.CommentRepository,
	feedCache FeedCache,
	images ImageResolver,
	pageSize int,
) *PostService {
	if pageSize <= 0 {
		pageSize = shared.DefaultFilter().PageSize
	}
	return &PostService{
		postRepo:     postRepo,
		categoryRepo: categoryRepo,
		locationRepo: locationRepo,
		commentRepo:  commentRepo,
		feedCache:    feedCache,
		images:       images,
		pageSize:     pageSize,
		now:          time.Now,
	}
}

// feedCacheMaxPage bounds which feed pages are cached. Readers cluster on
// the first pages; deep pages are served from the database so an arbitrary
// page parameter cannot grow the cache.
const feedCacheMaxPage = 10

// Feed returns one page of the public feed, newest first
func (s *PostService) Feed(ctx context.Context, page int) (*PostPage, error) {
	cacheable := s.feedCache != nil && page >= 1 && page <= feedCacheMaxPage
	key := feedCacheKey("feed", page)
	if cacheable {
		if cached, ok := s.feedCache.GetPage(ctx, key); ok {
			return cached, nil
		}
	}

	result, err := s.visiblePage(ctx, page, nil)
	if err != nil {
		return nil, err
	}

	// Store only under the page actually served: an out-of-range request
	// clamps to the last page and must not duplicate it under its own key
	if cacheable && result.Page == page {
		s.feedCache.SetPage(ctx, key, result)
	}

	return result, nil
}

// CategoryFeed returns one page of a published category's posts.
// Returns shared.ErrNotFound when the slug is unknown or the category
// is unpublished.
func (s *PostService) CategoryFeed(ctx context.Context, slug string, page int) (*CategoryResponse, *PostPage, error) {
	category, err := s.categoryRepo.FindPublishedBySlug(ctx, slug)
	if err != nil {
		return nil, nil, err
	}

	filters := map[string]interface{}{"category_id": category.ID}
	result, err := s.visiblePage(ctx, page, filters)
	if err != nil {
		return nil, nil, err
	}

	resp := ToCategoryResponse(category)
	return &resp, result, nil
}

// AuthorFeed returns one page of an author's posts. When includeHidden is
// true (the author viewing their own profile) unpublished and scheduled
// posts are included; otherwise only publicly visible posts are returned.
func (s *PostService) AuthorFeed(ctx context.Context, authorID uuid.UUID, includeHidden bool, page int) (*PostPage, error) {
	if !includeHidden {
		filters := map[string]interface{}{"author_id": authorID}
		return s.visiblePage(ctx, page, filters)
	}

	total, err := s.postRepo.CountByAuthor(ctx, authorID)
	if err != nil {
		return nil, err
	}

	filter := shared.DefaultFilter()
	filter.PageSize = s.pageSize
	filter.Page = resolvePage(page, total, s.pageSize)

	posts, err := s.postRepo.FindByAuthor(ctx, authorID, filter)
	if err != nil {
		return nil, err
	}

	return s.toPage(posts, total, filter), nil
}

// GetDetail returns a post with its comments. Unpublished posts are only
// visible to their author; everyone else gets shared.ErrNotFound.
func (s *PostService) GetDetail(ctx context.Context, postID uuid.UUID, viewerID *uuid.UUID) (*PostDetailResponse, error) {
	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	viewer := uuid.Nil
	if viewerID != nil {
		viewer = *viewerID
	}
	if !post.IsDetailVisibleTo(viewer) {
		return nil, shared.ErrNotFound
	}

	comments, err := s.commentRepo.FindByPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	post.CommentCount = int64(len(comments))

	resp := s.toResponse(post)
	return &PostDetailResponse{
		Post:     resp,
		Comments: toCommentResponseSlice(comments),
	}, nil
}

// GetForEdit returns a post for its author's edit form.
// Returns shared.ErrNotAuthor when the requester did not write it.
func (s *PostService) GetForEdit(ctx context.Context, postID, requesterID uuid.UUID) (*PostResponse, error) {
	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	if !post.IsAuthoredBy(requesterID) {
		return nil, shared.ErrNotAuthor
	}

	resp := s.toResponse(post)
	return &resp, nil
}

// Create creates a new post owned by authorID
func (s *PostService) Create(ctx context.Context, authorID uuid.UUID, req CreatePostRequest) (*PostResponse, error) {
	if err := s.checkReferences(ctx, req.CategoryID, req.LocationID); err != nil {
		return nil, err
	}

	post, err := blog.NewPost(blog.NewPostInput{
		Title:      req.Title,
		Text:       req.Text,
		PubDate:    req.PubDate,
		AuthorID:   authorID,
		CategoryID: req.CategoryID,
		LocationID: req.LocationID,
	})
	if err != nil {
		return nil, err
	}

	if req.ImageKey != "" {
		post.SetImageKey(req.ImageKey)
	}

	if err := s.postRepo.Save(ctx, post); err != nil {
		return nil, err
	}

	s.invalidateFeed(ctx)

	resp := s.toResponse(post)
	return &resp, nil
}

// Update updates a post. Only the author may edit; anyone else gets
// shared.ErrNotAuthor.
func (s *PostService) Update(ctx context.Context, postID, editorID uuid.UUID, req UpdatePostRequest) (*PostResponse, error) {
	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	if !post.IsAuthoredBy(editorID) {
		return nil, shared.ErrNotAuthor
	}

	if err := s.checkReferences(ctx, req.CategoryID, req.LocationID); err != nil {
		return nil, err
	}

	if err := post.Update(req.Title, req.Text, req.PubDate, req.CategoryID, req.LocationID); err != nil {
		return nil, err
	}

	if req.ImageKey != nil {
		post.SetImageKey(*req.ImageKey)
	}

	if err := s.postRepo.Save(ctx, post); err != nil {
		return nil, err
	}

	s.invalidateFeed(ctx)

	resp := s.toResponse(post)
	return &resp, nil
}

// Delete deletes a post and its comments. Only the author may delete.
func (s *PostService) Delete(ctx context.Context, postID, requesterID uuid.UUID) error {
	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		return err
	}

	if !post.IsAuthoredBy(requesterID) {
		return shared.ErrNotAuthor
	}

	if err := s.postRepo.Delete(ctx, postID); err != nil {
		return err
	}

	s.invalidateFeed(ctx)

	return nil
}

// FormChoices returns the published categories and locations offered on
// the post form
func (s *PostService) FormChoices(ctx context.Context) ([]CategoryResponse, []LocationResponse, error) {
	categories, err := s.categoryRepo.FindAllPublished(ctx)
	if err != nil {
		return nil, nil, err
	}

	locations, err := s.locationRepo.FindAllPublished(ctx)
	if err != nil {
		return nil, nil, err
	}

	categoryResponses := make([]CategoryResponse, 0, len(categories))
	for i := range categories {
		categoryResponses = append(categoryResponses, ToCategoryResponse(&categories[i]))
	}

	locationResponses := make([]LocationResponse, 0, len(locations))
	for i := range locations {
		locationResponses = append(locationResponses, ToLocationResponse(&locations[i]))
	}

	return categoryResponses, locationResponses, nil
}

func (s *PostService) visiblePage(ctx context.Context, page int, filters map[string]interface{}) (*PostPage, error) {
	now := s.now()

	countFilter := shared.DefaultFilter()
	countFilter.Filters = filters

	total, err := s.postRepo.CountVisible(ctx, now, countFilter)
	if err != nil {
		return nil, err
	}

	filter := shared.DefaultFilter()
	filter.PageSize = s.pageSize
	filter.Page = resolvePage(page, total, s.pageSize)
	filter.Filters = filters

	posts, err := s.postRepo.FindVisible(ctx, now, filter)
	if err != nil {
		return nil, err
	}

	return s.toPage(posts, total, filter), nil
}

func (s *PostService) toPage(posts []blog.Post, total int64, filter shared.Filter) *PostPage {
	responses := make([]PostResponse, 0, len(posts))
	for i := range posts {
		responses = append(responses, s.toResponse(&posts[i]))
	}

	paginated := shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
	return &PostPage{
		Posts:       paginated.Items,
		Total:       paginated.Total,
		Page:        paginated.Page,
		PageSize:    paginated.PageSize,
		TotalPages:  paginated.TotalPages,
		HasNext:     paginated.HasNext(),
		HasPrevious: paginated.HasPrevious(),
	}
}

func (s *PostService) toResponse(post *blog.Post) PostResponse {
	resp := ToPostResponse(post)
	if s.images != nil && post.ImageKey != "" {
		resp.ImageURL = s.images.PublicURL(post.ImageKey)
	}
	return resp
}

func (s *PostService) checkReferences(ctx context.Context, categoryID, locationID *uuid.UUID) error {
	if categoryID != nil {
		category, err := s.categoryRepo.FindByID(ctx, *categoryID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewDomainError("INVALID_CATEGORY", "Category not found")
			}
			return err
		}
		if !category.IsPublished {
			return shared.NewDomainError("INVALID_CATEGORY", "Category is not available")
		}
	}

	if locationID != nil {
		if _, err := s.locationRepo.FindByID(ctx, *locationID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewDomainError("INVALID_LOCATION", "Location not found")
			}
			return err
		}
	}

	return nil
}

func (s *PostService) invalidateFeed(ctx context.Context) {
	if s.feedCache != nil {
		s.feedCache.Invalidate(ctx)
	}
}

func toCommentResponseSlice(comments []blog.Comment) []CommentResponse {
	responses := make([]CommentResponse, 0, len(comments))
	for i := range comments {
		responses = append(responses, ToCommentResponse(&comments[i]))
	}
	return responses
}

func feedCacheKey(scope string, page int) string {
	return fmt.Sprintf("%s:page:%d", scope, page)
}

// resolvePage clamps a requested page number the way a paginator does:
// anything below 1 becomes the first page, anything past the end becomes
// the last page.
func resolvePage(requested int, total int64, pageSize int) int {
	if requested < 1 {
		return 1
	}

	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}
	if totalPages < 1 {
		totalPages = 1
	}

	if requested > totalPages {
		return totalPages
	}
	return requested
}
