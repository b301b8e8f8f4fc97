package handler

import (
	"net/http"

	appblog "github.com/blogicum/backend/internal/application/blog"
	appidentity "github.com/blogicum/backend/internal/application/identity"
	"github.com/blogicum/backend/internal/interfaces/http/dto"
	"github.com/blogicum/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// ProfileHandler serves the public profile page and the profile edit form
type ProfileHandler struct {
	BaseHandler
	profileService *appidentity.ProfileService
	postService    *appblog.PostService
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(profileService *appidentity.ProfileService, postService *appblog.PostService) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
		postService:    postService,
	}
}

// RegisterRoutes registers profile routes
func (h *ProfileHandler) RegisterRoutes(rg *gin.RouterGroup) {
	profile := rg.Group("/profile")
	profile.GET("/edit/", middleware.RequireLogin(), h.EditForm)
	profile.POST("/edit/", middleware.RequireLogin(), h.Edit)
	profile.GET("/password/", middleware.RequireLogin(), h.PasswordForm)
	profile.POST("/password/", middleware.RequireLogin(), h.ChangePassword)
	profile.GET("/:username/", h.Show)
}

// Show renders a user's profile with their posts.
// Owners see all of their posts; everyone else sees public ones only.
func (h *ProfileHandler) Show(c *gin.Context) {
	username := c.Param("username")

	profile, err := h.profileService.GetByUsername(c.Request.Context(), username)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	viewerID := currentUserID(c)
	isOwner := viewerID == profile.ID

	feed, err := h.postService.AuthorFeed(c.Request.Context(), profile.ID, isOwner, pageParam(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Render(c, http.StatusOK, "blog/profile.html", gin.H{
		"profile":  profile,
		"page":     feed,
		"is_owner": isOwner,
	})
}

// EditForm renders the profile edit form prefilled with current values
func (h *ProfileHandler) EditForm(c *gin.Context) {
	userID, _ := mustUserID(c)

	profile, err := h.profileService.GetByID(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.renderProfileForm(c, dto.ProfileForm{
		Email:       profile.Email,
		DisplayName: profile.DisplayName,
		Bio:         profile.Bio,
	}, "")
}

// Edit saves the profile form and returns to the owner's profile page
func (h *ProfileHandler) Edit(c *gin.Context) {
	userID, _ := mustUserID(c)

	var form dto.ProfileForm
	if err := c.ShouldBind(&form); err != nil {
		h.renderProfileForm(c, form, "Please check the entered values")
		return
	}

	profile, err := h.profileService.Update(c.Request.Context(), userID, appidentity.UpdateProfileInput{
		Email:       form.Email,
		DisplayName: form.DisplayName,
		Bio:         form.Bio,
	})
	if err != nil {
		if isUserFacing(err) {
			h.renderProfileForm(c, form, formError(err))
			return
		}
		h.HandleError(c, err)
		return
	}

	h.Redirect(c, "/profile/"+profile.Username+"/")
}

// PasswordForm renders the password change form
func (h *ProfileHandler) PasswordForm(c *gin.Context) {
	h.renderPasswordForm(c, "")
}

// ChangePassword verifies the old password, stores the new one and
// returns to the owner's profile page
func (h *ProfileHandler) ChangePassword(c *gin.Context) {
	userID, _ := mustUserID(c)

	var form dto.PasswordChangeForm
	if err := c.ShouldBind(&form); err != nil {
		h.renderPasswordForm(c, "Please check the entered values")
		return
	}

	err := h.profileService.ChangePassword(c.Request.Context(), userID, appidentity.ChangePasswordInput{
		OldPassword: form.OldPassword,
		NewPassword: form.NewPassword,
	})
	if err != nil {
		if isUserFacing(err) {
			h.renderPasswordForm(c, formError(err))
			return
		}
		h.HandleError(c, err)
		return
	}

	profile, err := h.profileService.GetByID(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Redirect(c, "/profile/"+profile.Username+"/")
}

func (h *ProfileHandler) renderPasswordForm(c *gin.Context, errMsg string) {
	status := http.StatusOK
	if errMsg != "" {
		status = http.StatusBadRequest
	}
	h.Render(c, status, "registration/password_change.html", gin.H{
		"error": errMsg,
	})
}

func (h *ProfileHandler) renderProfileForm(c *gin.Context, form dto.ProfileForm, errMsg string) {
	status := http.StatusOK
	if errMsg != "" {
		status = http.StatusBadRequest
	}
	h.Render(c, status, "blog/user.html", gin.H{
		"form":  form,
		"error": errMsg,
	})
}
