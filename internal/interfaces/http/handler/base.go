package handler

import (
	"errors"
	"net/http"

	"github.com/blogicum/backend/internal/domain/shared"
	"github.com/blogicum/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// BaseHandler provides the render and redirect helpers shared by all
// page handlers
type BaseHandler struct{}

// getRequestID extracts the request ID from the context
func getRequestID(c *gin.Context) string {
	if id := c.GetString("request_id"); id != "" {
		return id
	}
	return c.GetHeader("X-Request-ID")
}

// currentUserID returns the session user, uuid.Nil when anonymous
func currentUserID(c *gin.Context) uuid.UUID {
	if id, ok := middleware.CurrentUserID(c); ok {
		return id
	}
	return uuid.Nil
}

// mustUserID returns the session user for routes behind RequireLogin
func mustUserID(c *gin.Context) (uuid.UUID, bool) {
	id, ok := middleware.CurrentUserID(c)
	return id, ok
}

// Render renders an HTML template with the common page context merged in.
// Every template can rely on "authenticated", "current_username" and
// "request_id" being present.
func (h *BaseHandler) Render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}

	username, authenticated := middleware.CurrentUsername(c)
	if _, ok := data["authenticated"]; !ok {
		data["authenticated"] = authenticated
	}
	if _, ok := data["current_username"]; !ok {
		data["current_username"] = username
	}
	data["request_id"] = getRequestID(c)

	c.HTML(status, name, data)
}

// Redirect sends a 302 to the given location
func (h *BaseHandler) Redirect(c *gin.Context, location string) {
	c.Redirect(http.StatusFound, location)
}

// NotFoundPage renders the 404 page
func (h *BaseHandler) NotFoundPage(c *gin.Context) {
	h.Render(c, http.StatusNotFound, "pages/404.html", nil)
}

// ForbiddenPage renders the 403 page
func (h *BaseHandler) ForbiddenPage(c *gin.Context) {
	h.Render(c, http.StatusForbidden, "pages/403.html", nil)
}

// ServerErrorPage renders the 500 page
func (h *BaseHandler) ServerErrorPage(c *gin.Context) {
	h.Render(c, http.StatusInternalServerError, "pages/500.html", nil)
}

// HandleError maps service errors to the corresponding error page.
// Handlers with friendlier behavior (silent redirects, form re-rendering)
// check for their cases before falling back to this.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, shared.ErrNotFound):
		h.NotFoundPage(c)
	case errors.Is(err, shared.ErrForbidden), errors.Is(err, shared.ErrNotAuthor):
		h.ForbiddenPage(c)
	case errors.Is(err, shared.ErrUnauthorized):
		c.Redirect(http.StatusFound, middleware.LoginPath)
	default:
		h.ServerErrorPage(c)
	}
}

// formError extracts a message suitable for display above a form
func formError(err error) string {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Message
	}
	if errors.Is(err, shared.ErrAlreadyExists) {
		return "Already exists"
	}
	if errors.Is(err, shared.ErrInvalidInput) {
		return "Please check the entered values"
	}
	return "Something went wrong. Please try again."
}
