package auth

import (
	"context"
	"errors"
	"time"

	"github.com/blogicum/backend/internal/infrastructure/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Common errors
var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrInvalidClaims    = errors.New("invalid token claims")
	ErrTokenNotYetValid = errors.New("token is not yet valid")
	ErrMissingUserID    = errors.New("missing user_id in claims")
	ErrTokenRevoked     = errors.New("token has been revoked")
)

// Claims represents the session token claims
type Claims struct {
	jwt.RegisteredClaims
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}

// SessionToken is a signed session token with its expiry
type SessionToken struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// GenerateTokenInput contains input for token generation
type GenerateTokenInput struct {
	UserID   uuid.UUID
	Username string
}

// JWTService issues and validates session tokens carried in the
// session cookie.
type JWTService struct {
	secret     []byte
	expiration time.Duration
	issuer     string
	blacklist  TokenBlacklist
}

// NewJWTService creates a new JWT service without revocation support
func NewJWTService(cfg config.JWTConfig) *JWTService {
	return &JWTService{
		secret:     []byte(cfg.Secret),
		expiration: cfg.SessionExpiration,
		issuer:     cfg.Issuer,
	}
}

// SetBlacklist enables token revocation through the given blacklist
func (s *JWTService) SetBlacklist(blacklist TokenBlacklist) {
	s.blacklist = blacklist
}

// GenerateSessionToken creates a signed session token for the user
func (s *JWTService) GenerateSessionToken(input GenerateTokenInput) (*SessionToken, error) {
	now := time.Now()
	expiresAt := now.Add(s.expiration)

	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Issuer:    s.issuer,
			Subject:   input.UserID.String(),
			Audience:  jwt.ClaimStrings{s.issuer},
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		UserID:   input.UserID.String(),
		Username: input.Username,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return nil, err
	}

	return &SessionToken{
		Token:     signed,
		ExpiresAt: expiresAt,
	}, nil
}

// ValidateSessionToken validates a session token and returns its claims.
// Revoked tokens are rejected when a blacklist is configured.
func (s *JWTService) ValidateSessionToken(ctx context.Context, tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		if errors.Is(err, jwt.ErrTokenNotValidYet) {
			return nil, ErrTokenNotYetValid
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidClaims
	}

	if claims.UserID == "" {
		return nil, ErrMissingUserID
	}

	if s.blacklist != nil {
		revoked, err := s.blacklist.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, err
		}
		if revoked {
			return nil, ErrTokenRevoked
		}

		if claims.IssuedAt != nil {
			invalidated, err := s.blacklist.IsRevokedForUser(ctx, claims.UserID, claims.IssuedAt.Time)
			if err != nil {
				return nil, err
			}
			if invalidated {
				return nil, ErrTokenRevoked
			}
		}
	}

	return claims, nil
}

// InvalidateSessionToken revokes a session token until its natural expiry
func (s *JWTService) InvalidateSessionToken(ctx context.Context, tokenString string) error {
	if s.blacklist == nil {
		// Stateless mode, logout is handled by clearing the cookie
		return nil
	}

	claims, err := s.ValidateSessionToken(ctx, tokenString)
	if err != nil {
		if errors.Is(err, ErrTokenRevoked) {
			return nil
		}
		return err
	}

	ttl := s.expiration
	if claims.ExpiresAt != nil {
		ttl = time.Until(claims.ExpiresAt.Time)
	}
	if ttl <= 0 {
		return nil
	}

	return s.blacklist.Revoke(ctx, claims.ID, ttl)
}

// InvalidateAllSessions revokes every outstanding session of a user
func (s *JWTService) InvalidateAllSessions(ctx context.Context, userID uuid.UUID) error {
	if s.blacklist == nil {
		return nil
	}
	return s.blacklist.RevokeAllForUser(ctx, userID.String(), s.expiration)
}
