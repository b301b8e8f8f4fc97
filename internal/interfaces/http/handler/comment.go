package handler

import (
	"errors"
	"net/http"

	appblog "github.com/blogicum/backend/internal/application/blog"
	"github.com/blogicum/backend/internal/domain/shared"
	"github.com/blogicum/backend/internal/interfaces/http/dto"
	"github.com/blogicum/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CommentHandler serves the comment pages under a post
type CommentHandler struct {
	BaseHandler
	commentService *appblog.CommentService
}

// NewCommentHandler creates a new comment handler
func NewCommentHandler(commentService *appblog.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

// RegisterRoutes registers comment routes
func (h *CommentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	comments := rg.Group("/posts/:post_id/comment", middleware.RequireLogin())
	comments.POST("/", h.Add)
	comments.GET("/:comment_id/edit/", h.EditForm)
	comments.POST("/:comment_id/edit/", h.Edit)
	comments.GET("/:comment_id/delete/", h.DeleteForm)
	comments.POST("/:comment_id/delete/", h.Delete)
}

// Add appends a comment to a post and returns to the detail page
func (h *CommentHandler) Add(c *gin.Context) {
	postID, ok := h.routeID(c, "post_id")
	if !ok {
		return
	}
	userID, _ := mustUserID(c)

	var form dto.CommentForm
	if err := c.ShouldBind(&form); err != nil {
		// An empty comment just lands back on the detail page
		h.Redirect(c, postDetailPath(postID))
		return
	}

	if _, err := h.commentService.Add(c.Request.Context(), postID, userID, form.Text); err != nil {
		if isUserFacing(err) {
			h.Redirect(c, postDetailPath(postID))
			return
		}
		h.HandleError(c, err)
		return
	}

	h.Redirect(c, postDetailPath(postID))
}

// EditForm renders the comment edit form.
// Non-authors are sent back to the detail page without an error.
func (h *CommentHandler) EditForm(c *gin.Context) {
	postID, commentID, ok := h.routeIDs(c)
	if !ok {
		return
	}
	userID, _ := mustUserID(c)

	comment, err := h.commentService.GetForEdit(c.Request.Context(), commentID, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotAuthor) {
			h.Redirect(c, postDetailPath(postID))
			return
		}
		h.HandleError(c, err)
		return
	}

	h.Render(c, http.StatusOK, "blog/comment.html", gin.H{
		"comment":  comment,
		"form":     dto.CommentForm{Text: comment.Text},
		"deleting": false,
	})
}

// Edit saves the edited comment and returns to the detail page
func (h *CommentHandler) Edit(c *gin.Context) {
	postID, commentID, ok := h.routeIDs(c)
	if !ok {
		return
	}
	userID, _ := mustUserID(c)

	var form dto.CommentForm
	if err := c.ShouldBind(&form); err != nil {
		h.Redirect(c, postDetailPath(postID))
		return
	}

	if _, err := h.commentService.Update(c.Request.Context(), commentID, userID, form.Text); err != nil {
		if errors.Is(err, shared.ErrNotAuthor) {
			h.Redirect(c, postDetailPath(postID))
			return
		}
		if isUserFacing(err) {
			h.Redirect(c, postDetailPath(postID))
			return
		}
		h.HandleError(c, err)
		return
	}

	h.Redirect(c, postDetailPath(postID))
}

// DeleteForm renders the comment delete confirmation
func (h *CommentHandler) DeleteForm(c *gin.Context) {
	postID, commentID, ok := h.routeIDs(c)
	if !ok {
		return
	}
	userID, _ := mustUserID(c)

	comment, err := h.commentService.GetForEdit(c.Request.Context(), commentID, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotAuthor) {
			h.Redirect(c, postDetailPath(postID))
			return
		}
		h.HandleError(c, err)
		return
	}

	h.Render(c, http.StatusOK, "blog/comment.html", gin.H{
		"comment":  comment,
		"deleting": true,
	})
}

// Delete removes the comment and returns to the detail page
func (h *CommentHandler) Delete(c *gin.Context) {
	postID, commentID, ok := h.routeIDs(c)
	if !ok {
		return
	}
	userID, _ := mustUserID(c)

	if err := h.commentService.Delete(c.Request.Context(), commentID, userID); err != nil {
		if errors.Is(err, shared.ErrNotAuthor) {
			h.Redirect(c, postDetailPath(postID))
			return
		}
		h.HandleError(c, err)
		return
	}

	h.Redirect(c, postDetailPath(postID))
}

func (h *CommentHandler) routeID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		h.NotFoundPage(c)
		return uuid.Nil, false
	}
	return id, true
}

func (h *CommentHandler) routeIDs(c *gin.Context) (postID, commentID uuid.UUID, ok bool) {
	postID, ok = h.routeID(c, "post_id")
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	commentID, ok = h.routeID(c, "comment_id")
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	return postID, commentID, true
}
