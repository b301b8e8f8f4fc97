package middleware

import (
	"net/http"
	"net/url"

	"github.com/blogicum/backend/internal/infrastructure/auth"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Session context keys
const (
	SessionClaimsKey   = "session_claims"
	SessionUserIDKey   = "session_user_id"
	SessionUsernameKey = "session_username"
)

// LoginPath is where RequireLogin sends anonymous visitors
const LoginPath = "/auth/login/"

// SessionMiddlewareConfig holds configuration for the session middleware
type SessionMiddlewareConfig struct {
	// JWTService validates session tokens
	JWTService *auth.JWTService
	// CookieName is the session cookie to read
	CookieName string
	// Logger for middleware logging
	Logger *zap.Logger
}

// SessionAuth resolves the session cookie into the request context.
//
// It never rejects a request: pages that allow anonymous access read the
// user when present, and RequireLogin guards the rest. An invalid or
// revoked cookie is treated the same as no cookie at all.
func SessionAuth(cfg SessionMiddlewareConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(cfg.CookieName)
		if err != nil || token == "" {
			c.Next()
			return
		}

		claims, err := cfg.JWTService.ValidateSessionToken(c.Request.Context(), token)
		if err != nil {
			if cfg.Logger != nil && err != auth.ErrExpiredToken {
				cfg.Logger.Debug("Session cookie rejected", zap.Error(err))
			}
			c.Next()
			return
		}

		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			c.Next()
			return
		}

		c.Set(SessionClaimsKey, claims)
		c.Set(SessionUserIDKey, userID)
		c.Set(SessionUsernameKey, claims.Username)
		c.Next()
	}
}

// RequireLogin redirects anonymous visitors to the login page with a
// next parameter pointing back at the requested page
func RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentUserID(c); !ok {
			next := url.QueryEscape(c.Request.URL.RequestURI())
			c.Redirect(http.StatusFound, LoginPath+"?next="+next)
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentUserID returns the authenticated user's ID, if any
func CurrentUserID(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get(SessionUserIDKey)
	if !exists {
		return uuid.Nil, false
	}
	userID, ok := value.(uuid.UUID)
	return userID, ok
}

// CurrentUsername returns the authenticated user's username, if any
func CurrentUsername(c *gin.Context) (string, bool) {
	value, exists := c.Get(SessionUsernameKey)
	if !exists {
		return "", false
	}
	username, ok := value.(string)
	return username, ok && username != ""
}

// SessionClaims returns the raw session claims, if any
func SessionClaims(c *gin.Context) (*auth.Claims, bool) {
	value, exists := c.Get(SessionClaimsKey)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*auth.Claims)
	return claims, ok
}
