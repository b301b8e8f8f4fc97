package handler

import (
	"net/http"
	"strings"
	"time"

	appidentity "github.com/blogicum/backend/internal/application/identity"
	"github.com/blogicum/backend/internal/infrastructure/config"
	"github.com/blogicum/backend/internal/interfaces/http/dto"
	"github.com/blogicum/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// AuthHandler serves the registration, login and logout pages
type AuthHandler struct {
	BaseHandler
	authService *appidentity.AuthService
	cookies     config.CookieConfig
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *appidentity.AuthService, cookies config.CookieConfig) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		cookies:     cookies,
	}
}

// RegisterRoutes registers auth routes
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	auth := rg.Group("/auth")
	auth.GET("/registration/", h.RegistrationForm)
	auth.POST("/registration/", h.Register)
	auth.GET("/login/", h.LoginForm)
	auth.POST("/login/", h.Login)
	auth.POST("/logout/", h.Logout)
}

// RegistrationForm renders the signup form
func (h *AuthHandler) RegistrationForm(c *gin.Context) {
	h.renderRegistration(c, dto.RegistrationForm{}, "")
}

// Register creates the account and sends the visitor to the login page
func (h *AuthHandler) Register(c *gin.Context) {
	var form dto.RegistrationForm
	if err := c.ShouldBind(&form); err != nil {
		h.renderRegistration(c, form, "Please check the entered values")
		return
	}

	_, err := h.authService.Register(c.Request.Context(), appidentity.RegisterInput{
		Username: form.Username,
		Password: form.Password,
		Email:    form.Email,
	})
	if err != nil {
		if isUserFacing(err) {
			h.renderRegistration(c, form, formError(err))
			return
		}
		h.HandleError(c, err)
		return
	}

	h.Redirect(c, middleware.LoginPath)
}

// LoginForm renders the login form
func (h *AuthHandler) LoginForm(c *gin.Context) {
	h.renderLogin(c, dto.LoginForm{Next: c.Query("next")}, "")
}

// Login authenticates the visitor and sets the session cookie
func (h *AuthHandler) Login(c *gin.Context) {
	var form dto.LoginForm
	if err := c.ShouldBind(&form); err != nil {
		h.renderLogin(c, form, "Please enter your username and password")
		return
	}

	result, err := h.authService.Login(c.Request.Context(), appidentity.LoginInput{
		Username: form.Username,
		Password: form.Password,
		IP:       c.ClientIP(),
	})
	if err != nil {
		if isUserFacing(err) {
			h.renderLogin(c, form, formError(err))
			return
		}
		h.HandleError(c, err)
		return
	}

	h.setSessionCookie(c, result.Token, time.Until(result.ExpiresAt))
	h.Redirect(c, safeNext(form.Next))
}

// Logout revokes the session and clears the cookie
func (h *AuthHandler) Logout(c *gin.Context) {
	if userID, ok := middleware.CurrentUserID(c); ok {
		token, _ := c.Cookie(h.cookies.Name)
		_ = h.authService.Logout(c.Request.Context(), appidentity.LogoutInput{
			Token:  token,
			UserID: userID,
		})
	}

	h.setSessionCookie(c, "", -time.Hour)
	h.Redirect(c, "/")
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, token string, ttl time.Duration) {
	c.SetSameSite(sameSiteMode(h.cookies.SameSite))
	c.SetCookie(
		h.cookies.Name,
		token,
		int(ttl.Seconds()),
		h.cookies.Path,
		h.cookies.Domain,
		h.cookies.Secure,
		true, // HttpOnly: the session token is never exposed to scripts
	)
}

func (h *AuthHandler) renderRegistration(c *gin.Context, form dto.RegistrationForm, errMsg string) {
	status := http.StatusOK
	if errMsg != "" {
		status = http.StatusBadRequest
	}
	h.Render(c, status, "registration/registration_form.html", gin.H{
		"form":  form,
		"error": errMsg,
	})
}

func (h *AuthHandler) renderLogin(c *gin.Context, form dto.LoginForm, errMsg string) {
	status := http.StatusOK
	if errMsg != "" {
		status = http.StatusUnauthorized
	}
	h.Render(c, status, "registration/login.html", gin.H{
		"form":  form,
		"error": errMsg,
	})
}

// safeNext keeps post-login redirects on this site
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return "/"
	}
	return next
}

func sameSiteMode(mode string) http.SameSite {
	switch strings.ToLower(mode) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}
