package handler

import (
	"errors"
	"io"
	"net/http"
	"path"
	"strconv"
	"strings"

	appblog "github.com/blogicum/backend/internal/application/blog"
	"github.com/blogicum/backend/internal/domain/shared"
	"github.com/blogicum/backend/internal/infrastructure/storage"
	"github.com/blogicum/backend/internal/interfaces/http/dto"
	"github.com/blogicum/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// allowedImageExtensions are the upload types the post form accepts
var allowedImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// PostHandler serves the feed, post detail and post management pages
type PostHandler struct {
	BaseHandler
	postService *appblog.PostService
	images      storage.ImageStorage
	logger      *zap.Logger
}

// NewPostHandler creates a new post handler
func NewPostHandler(postService *appblog.PostService, images storage.ImageStorage, logger *zap.Logger) *PostHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PostHandler{
		postService: postService,
		images:      images,
		logger:      logger,
	}
}

// RegisterRoutes registers post routes
func (h *PostHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/", h.Index)
	rg.GET("/category/:slug/", h.CategoryPosts)

	posts := rg.Group("/posts")
	posts.GET("/:post_id/", h.Detail)

	authed := posts.Group("", middleware.RequireLogin())
	authed.GET("/create/", h.CreateForm)
	authed.POST("/create/", h.Create)
	authed.GET("/:post_id/edit/", h.EditForm)
	authed.POST("/:post_id/edit/", h.Edit)
	authed.GET("/:post_id/delete/", h.DeleteForm)
	authed.POST("/:post_id/delete/", h.Delete)
}

// Index renders the public feed
func (h *PostHandler) Index(c *gin.Context) {
	page := pageParam(c)

	feed, err := h.postService.Feed(c.Request.Context(), page)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Render(c, http.StatusOK, "blog/index.html", gin.H{
		"page": feed,
	})
}

// CategoryPosts renders the public feed of one category
func (h *PostHandler) CategoryPosts(c *gin.Context) {
	slug := c.Param("slug")
	page := pageParam(c)

	category, feed, err := h.postService.CategoryFeed(c.Request.Context(), slug, page)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Render(c, http.StatusOK, "blog/category.html", gin.H{
		"category": category,
		"page":     feed,
	})
}

// Detail renders a post with its comments and the comment form
func (h *PostHandler) Detail(c *gin.Context) {
	postID, ok := h.postIDParam(c)
	if !ok {
		return
	}

	var viewerID *uuid.UUID
	if id, ok := middleware.CurrentUserID(c); ok {
		viewerID = &id
	}

	detail, err := h.postService.GetDetail(c.Request.Context(), postID, viewerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Render(c, http.StatusOK, "blog/detail.html", gin.H{
		"post":     detail.Post,
		"comments": detail.Comments,
		"is_owner": viewerID != nil && *viewerID == detail.Post.AuthorID,
	})
}

// CreateForm renders an empty post form
func (h *PostHandler) CreateForm(c *gin.Context) {
	h.renderPostForm(c, dto.PostForm{}, "", nil)
}

// Create handles the post form submission
func (h *PostHandler) Create(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		h.Redirect(c, middleware.LoginPath)
		return
	}

	var form dto.PostForm
	if err := c.ShouldBind(&form); err != nil {
		h.renderPostForm(c, form, "Please fill in the title and text", nil)
		return
	}

	req, errMsg := parsePostForm(&form)
	if errMsg == "" {
		req.ImageKey, errMsg = h.storeUploadedImage(c, userID)
	}
	if errMsg != "" {
		h.renderPostForm(c, form, errMsg, nil)
		return
	}

	if _, err := h.postService.Create(c.Request.Context(), userID, req); err != nil {
		if isUserFacing(err) {
			h.renderPostForm(c, form, formError(err), nil)
			return
		}
		h.HandleError(c, err)
		return
	}

	username, _ := middleware.CurrentUsername(c)
	h.Redirect(c, "/profile/"+username+"/")
}

// EditForm renders the post form prefilled with the post being edited.
// Non-authors are sent back to the detail page without an error.
func (h *PostHandler) EditForm(c *gin.Context) {
	postID, ok := h.postIDParam(c)
	if !ok {
		return
	}
	userID, _ := mustUserID(c)

	post, err := h.postService.GetForEdit(c.Request.Context(), postID, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotAuthor) {
			h.Redirect(c, postDetailPath(postID))
			return
		}
		h.HandleError(c, err)
		return
	}

	form := dto.PostForm{
		Title:   post.Title,
		Text:    post.Text,
		PubDate: post.PubDate.Format("2006-01-02T15:04"),
	}
	if post.Category != nil {
		form.CategoryID = post.Category.ID.String()
	}
	if post.Location != nil {
		form.LocationID = post.Location.ID.String()
	}

	h.renderPostForm(c, form, "", post)
}

// Edit handles the edit form submission
func (h *PostHandler) Edit(c *gin.Context) {
	postID, ok := h.postIDParam(c)
	if !ok {
		return
	}
	userID, _ := mustUserID(c)

	var form dto.PostForm
	if err := c.ShouldBind(&form); err != nil {
		h.renderPostForm(c, form, "Please fill in the title and text", nil)
		return
	}

	req, errMsg := parsePostForm(&form)
	if errMsg != "" {
		h.renderPostForm(c, form, errMsg, nil)
		return
	}

	// Authorship gate runs before any upload so a non-author POST never
	// persists an object under someone else's post
	if _, err := h.postService.GetForEdit(c.Request.Context(), postID, userID); err != nil {
		if errors.Is(err, shared.ErrNotAuthor) {
			h.Redirect(c, postDetailPath(postID))
			return
		}
		h.HandleError(c, err)
		return
	}

	req.ImageKey, errMsg = h.storeUploadedImage(c, postID)
	if errMsg != "" {
		h.renderPostForm(c, form, errMsg, nil)
		return
	}

	update := appblog.UpdatePostRequest{
		Title:      req.Title,
		Text:       req.Text,
		PubDate:    req.PubDate,
		CategoryID: req.CategoryID,
		LocationID: req.LocationID,
	}
	if req.ImageKey != "" {
		update.ImageKey = &req.ImageKey
	}

	if _, err := h.postService.Update(c.Request.Context(), postID, userID, update); err != nil {
		if errors.Is(err, shared.ErrNotAuthor) {
			h.Redirect(c, postDetailPath(postID))
			return
		}
		if isUserFacing(err) {
			h.renderPostForm(c, form, formError(err), nil)
			return
		}
		h.HandleError(c, err)
		return
	}

	h.Redirect(c, postDetailPath(postID))
}

// DeleteForm renders the delete confirmation page
func (h *PostHandler) DeleteForm(c *gin.Context) {
	postID, ok := h.postIDParam(c)
	if !ok {
		return
	}
	userID, _ := mustUserID(c)

	post, err := h.postService.GetForEdit(c.Request.Context(), postID, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotAuthor) {
			h.Redirect(c, postDetailPath(postID))
			return
		}
		h.HandleError(c, err)
		return
	}

	h.Render(c, http.StatusOK, "blog/delete_post.html", gin.H{
		"post": post,
	})
}

// Delete removes the post and sends the author back to the feed
func (h *PostHandler) Delete(c *gin.Context) {
	postID, ok := h.postIDParam(c)
	if !ok {
		return
	}
	userID, _ := mustUserID(c)

	if err := h.postService.Delete(c.Request.Context(), postID, userID); err != nil {
		if errors.Is(err, shared.ErrNotAuthor) {
			h.Redirect(c, postDetailPath(postID))
			return
		}
		h.HandleError(c, err)
		return
	}

	h.Redirect(c, "/")
}

// parsePostForm converts the bound form fields into a service request.
// The image upload is handled separately so it can run after the
// authorship check.
func parsePostForm(form *dto.PostForm) (appblog.CreatePostRequest, string) {
	var req appblog.CreatePostRequest

	pubDate, err := form.ParsedPubDate()
	if err != nil {
		return req, "Invalid publication date"
	}
	categoryID, err := form.ParsedCategoryID()
	if err != nil {
		return req, "Invalid category"
	}
	locationID, err := form.ParsedLocationID()
	if err != nil {
		return req, "Invalid location"
	}

	req = appblog.CreatePostRequest{
		Title:      form.Title,
		Text:       form.Text,
		PubDate:    pubDate,
		CategoryID: categoryID,
		LocationID: locationID,
	}
	return req, ""
}

// storeUploadedImage stores an attached image and returns its key.
// Empty key and empty message mean no upload was attached. The namespace
// ID keys the stored image (the post ID on edit, the author ID on create).
func (h *PostHandler) storeUploadedImage(c *gin.Context, namespaceID uuid.UUID) (string, string) {
	file, err := c.FormFile("image")
	if err != nil {
		// No upload attached
		return "", ""
	}

	ext := strings.ToLower(path.Ext(file.Filename))
	if !allowedImageExtensions[ext] {
		return "", "Unsupported image type"
	}

	src, err := file.Open()
	if err != nil {
		return "", "Could not read the uploaded image"
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return "", "Could not read the uploaded image"
	}

	key, err := h.images.StoreImage(c.Request.Context(), namespaceID, file.Filename, file.Header.Get("Content-Type"), data)
	if err != nil {
		h.logger.Error("Image upload failed", zap.Error(err))
		return "", "Could not store the uploaded image"
	}
	return key, ""
}

// renderPostForm renders the post form with categories and locations loaded
func (h *PostHandler) renderPostForm(c *gin.Context, form dto.PostForm, errMsg string, editing *appblog.PostResponse) {
	categories, locations, err := h.postService.FormChoices(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	status := http.StatusOK
	if errMsg != "" {
		status = http.StatusBadRequest
	}

	h.Render(c, status, "blog/create_post.html", gin.H{
		"form":       form,
		"error":      errMsg,
		"categories": categories,
		"locations":  locations,
		"editing":    editing,
	})
}

// postIDParam parses the post id from the route, rendering 404 on garbage
func (h *PostHandler) postIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("post_id"))
	if err != nil {
		h.NotFoundPage(c)
		return uuid.Nil, false
	}
	return id, true
}

func postDetailPath(postID uuid.UUID) string {
	return "/posts/" + postID.String() + "/"
}

// pageParam reads the ?page query parameter, defaulting to 1
func pageParam(c *gin.Context) int {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		return 1
	}
	return page
}

// isUserFacing reports whether an error should be shown above the form
// instead of replacing the page. The not-found/authorization sentinels are
// page-level outcomes, not form feedback, even though they are DomainErrors.
func isUserFacing(err error) bool {
	switch {
	case errors.Is(err, shared.ErrNotFound),
		errors.Is(err, shared.ErrForbidden),
		errors.Is(err, shared.ErrNotAuthor),
		errors.Is(err, shared.ErrUnauthorized):
		return false
	}

	var domainErr *shared.DomainError
	return errors.As(err, &domainErr)
}
