package blog

import (
	"context"

	"github.com/blogicum/backend/internal/domain/blog"
	"github.com/blogicum/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CommentService handles comment-related business operations
type CommentService struct {
	commentRepo blog.CommentRepository
	postRepo    blog.PostRepository
	feedCache   FeedCache
}

// NewCommentService creates a new CommentService. feedCache may be nil;
// when set, comment mutations drop the cached feed pages so the rendered
// comment counts stay current.
func NewCommentService(commentRepo blog.CommentRepository, postRepo blog.PostRepository, feedCache FeedCache) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		feedCache:   feedCache,
	}
}

func (s *CommentService) invalidateFeed(ctx context.Context) {
	if s.feedCache != nil {
		s.feedCache.Invalidate(ctx)
	}
}

// Add attaches a new comment to a post. The post must exist and be visible
// to the commenting user as a detail page.
func (s *CommentService) Add(ctx context.Context, postID, authorID uuid.UUID, text string) (*CommentResponse, error) {
	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	if !post.IsDetailVisibleTo(authorID) {
		return nil, shared.ErrNotFound
	}

	comment, err := blog.NewComment(postID, authorID, text)
	if err != nil {
		return nil, err
	}

	if err := s.commentRepo.Save(ctx, comment); err != nil {
		return nil, err
	}
	s.invalidateFeed(ctx)

	resp := ToCommentResponse(comment)
	return &resp, nil
}

// GetForEdit returns a comment for its author's edit form.
// Returns shared.ErrNotAuthor when the requester did not write it.
func (s *CommentService) GetForEdit(ctx context.Context, commentID, requesterID uuid.UUID) (*CommentResponse, error) {
	comment, err := s.commentRepo.FindByID(ctx, commentID)
	if err != nil {
		return nil, err
	}

	if !comment.IsAuthoredBy(requesterID) {
		return nil, shared.ErrNotAuthor
	}

	resp := ToCommentResponse(comment)
	return &resp, nil
}

// Update edits a comment's text. Only the author may edit.
func (s *CommentService) Update(ctx context.Context, commentID, editorID uuid.UUID, text string) (*CommentResponse, error) {
	comment, err := s.commentRepo.FindByID(ctx, commentID)
	if err != nil {
		return nil, err
	}

	if !comment.IsAuthoredBy(editorID) {
		return nil, shared.ErrNotAuthor
	}

	if err := comment.Update(text); err != nil {
		return nil, err
	}

	if err := s.commentRepo.Save(ctx, comment); err != nil {
		return nil, err
	}

	resp := ToCommentResponse(comment)
	return &resp, nil
}

// Delete removes a comment. Only the author may delete.
func (s *CommentService) Delete(ctx context.Context, commentID, requesterID uuid.UUID) error {
	comment, err := s.commentRepo.FindByID(ctx, commentID)
	if err != nil {
		return err
	}

	if !comment.IsAuthoredBy(requesterID) {
		return shared.ErrNotAuthor
	}

	if err := s.commentRepo.Delete(ctx, commentID); err != nil {
		return err
	}
	s.invalidateFeed(ctx)
	return nil
}
