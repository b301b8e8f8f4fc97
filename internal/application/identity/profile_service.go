package identity

import (
	"context"

	"github.com/blogicum/backend/internal/domain/identity"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SessionRevoker invalidates every active session of one user
type SessionRevoker interface {
	InvalidateAllSessions(ctx context.Context, userID uuid.UUID) error
}

// ProfileService handles profile pages and profile editing
type ProfileService struct {
	userRepo identity.UserRepository
	sessions SessionRevoker
	logger   *zap.Logger
}

// NewProfileService creates a new ProfileService. sessions may be nil;
// when set, a password change revokes the user's existing sessions.
func NewProfileService(userRepo identity.UserRepository, sessions SessionRevoker, logger *zap.Logger) *ProfileService {
	return &ProfileService{
		userRepo: userRepo,
		sessions: sessions,
		logger:   logger,
	}
}

// GetByUsername returns the profile of the named user
func (s *ProfileService) GetByUsername(ctx context.Context, username string) (*UserInfo, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	info := ToUserInfo(user)
	return &info, nil
}

// GetByID returns the profile of the user with the given ID
func (s *ProfileService) GetByID(ctx context.Context, id uuid.UUID) (*UserInfo, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	info := ToUserInfo(user)
	return &info, nil
}

// Update edits the caller's own profile
func (s *ProfileService) Update(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*UserInfo, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := user.SetEmail(input.Email); err != nil {
		return nil, err
	}
	if err := user.SetDisplayName(input.DisplayName); err != nil {
		return nil, err
	}
	user.SetBio(input.Bio)

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("Profile updated", zap.String("user_id", userID.String()))

	info := ToUserInfo(user)
	return &info, nil
}

// ChangePassword changes the caller's password
func (s *ProfileService) ChangePassword(ctx context.Context, userID uuid.UUID, input ChangePasswordInput) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := user.ChangePassword(input.OldPassword, input.NewPassword); err != nil {
		return err
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}

	// A changed password kills every session issued under the old one;
	// the owner logs back in, a stolen cookie does not
	if s.sessions != nil {
		if err := s.sessions.InvalidateAllSessions(ctx, userID); err != nil {
			s.logger.Warn("Failed to revoke sessions after password change",
				zap.String("user_id", userID.String()),
				zap.Error(err))
		}
	}

	s.logger.Info("Password changed", zap.String("user_id", userID.String()))
	return nil
}
