package identity

import (
	"context"
	"testing"
	"time"

	"github.com/blogicum/backend/internal/domain/identity"
	"github.com/blogicum/backend/internal/infrastructure/auth"
	"github.com/blogicum/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*identity.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

func createTestUser(t *testing.T) *identity.User {
	t.Helper()
	user, err := identity.NewUser("testuser", "Password123")
	require.NoError(t, err)
	return user
}

func createAuthService(userRepo *MockUserRepository) *AuthService {
	jwtCfg := config.JWTConfig{
		Secret:            "test-secret-key-32-characters-long",
		SessionExpiration: 24 * time.Hour,
		Issuer:            "test-issuer",
	}
	jwtService := auth.NewJWTService(jwtCfg)

	return NewAuthService(
		userRepo,
		jwtService,
		DefaultAuthServiceConfig(),
		zap.NewNop(),
	)
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("registers new user", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		userRepo.On("ExistsByUsername", ctx, "newuser").Return(false, nil)
		userRepo.On("Create", ctx, mock.AnythingOfType("*identity.User")).Return(nil)

		authService := createAuthService(userRepo)

		info, err := authService.Register(ctx, RegisterInput{
			Username: "newuser",
			Password: "Password123",
			Email:    "new@example.com",
		})

		require.NoError(t, err)
		assert.Equal(t, "newuser", info.Username)
		assert.Equal(t, "new@example.com", info.Email)
		userRepo.AssertExpectations(t)
	})

	t.Run("rejects taken username", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		userRepo.On("ExistsByUsername", ctx, "testuser").Return(true, nil)

		authService := createAuthService(userRepo)

		_, err := authService.Register(ctx, RegisterInput{
			Username: "testuser",
			Password: "Password123",
		})

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "already exists")
		userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("rejects weak password", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		userRepo.On("ExistsByUsername", ctx, "newuser").Return(false, nil)

		authService := createAuthService(userRepo)

		_, err := authService.Register(ctx, RegisterInput{
			Username: "newuser",
			Password: "short",
		})

		assert.Error(t, err)
	})
}

func TestAuthService_Login_Success(t *testing.T) {
	ctx := context.Background()
	userRepo := new(MockUserRepository)

	user := createTestUser(t)
	userRepo.On("FindByUsername", ctx, "testuser").Return(user, nil)
	userRepo.On("Update", ctx, user).Return(nil)

	authService := createAuthService(userRepo)

	result, err := authService.Login(ctx, LoginInput{
		Username: "testuser",
		Password: "Password123",
		IP:       "127.0.0.1",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.True(t, result.ExpiresAt.After(time.Now()))
	assert.Equal(t, "testuser", result.User.Username)
	assert.NotNil(t, user.LastLoginAt)

	userRepo.AssertExpectations(t)
}

func TestAuthService_Login_InvalidPassword(t *testing.T) {
	ctx := context.Background()
	userRepo := new(MockUserRepository)

	user := createTestUser(t)
	userRepo.On("FindByUsername", ctx, "testuser").Return(user, nil)
	userRepo.On("Update", ctx, user).Return(nil)

	authService := createAuthService(userRepo)

	_, err := authService.Login(ctx, LoginInput{
		Username: "testuser",
		Password: "WrongPassword1",
	})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid username or password")
	assert.Equal(t, 1, user.FailedAttempts)
}

func TestAuthService_Login_UnknownUser(t *testing.T) {
	ctx := context.Background()
	userRepo := new(MockUserRepository)
	userRepo.On("FindByUsername", ctx, "ghost").Return(nil, assert.AnError)

	authService := createAuthService(userRepo)

	_, err := authService.Login(ctx, LoginInput{
		Username: "ghost",
		Password: "Password123",
	})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid username or password")
}

func TestAuthService_Login_LocksAfterTooManyFailures(t *testing.T) {
	ctx := context.Background()
	userRepo := new(MockUserRepository)

	user := createTestUser(t)
	userRepo.On("FindByUsername", ctx, "testuser").Return(user, nil)
	userRepo.On("Update", ctx, user).Return(nil)

	authService := createAuthService(userRepo)

	for i := 0; i < DefaultAuthServiceConfig().MaxLoginAttempts; i++ {
		_, err := authService.Login(ctx, LoginInput{
			Username: "testuser",
			Password: "WrongPassword1",
		})
		assert.Error(t, err)
	}

	assert.True(t, user.IsLocked())

	_, err := authService.Login(ctx, LoginInput{
		Username: "testuser",
		Password: "Password123",
	})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "locked")
}

func TestAuthService_Logout(t *testing.T) {
	ctx := context.Background()
	userRepo := new(MockUserRepository)
	authService := createAuthService(userRepo)

	user := createTestUser(t)
	userRepo.On("FindByUsername", ctx, "testuser").Return(user, nil)
	userRepo.On("Update", ctx, user).Return(nil)

	result, err := authService.Login(ctx, LoginInput{
		Username: "testuser",
		Password: "Password123",
	})
	require.NoError(t, err)

	err = authService.Logout(ctx, LogoutInput{
		Token:  result.Token,
		UserID: user.ID,
	})
	assert.NoError(t, err)
}
