package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/staynest/booking-service/internal/app/config"
	"github.com/staynest/booking-service/internal/domain/entity"
	"github.com/staynest/booking-service/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) Send(ctx context.Context, to []string, subject, bodyHTML, bodyText string) error {
	args := m.Called(ctx, to, subject, bodyHTML, bodyText)
	return args.Error(0)
}

var testAuthConfig = config.AuthConfig{
	JWTSecret: "test-secret",
	TokenTTL:  time.Hour,
}

func newAuthServiceForTest(t *testing.T) (AuthService, *MockUserRepository, *MockEmailSender) {
	t.Helper()
	userRepo := new(MockUserRepository)
	sender := new(MockEmailSender)
	// Emails and last-seen touches run on background goroutines, so they are
	// allowed but never required by these tests.
	sender.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	userRepo.On("TouchLastSeen", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	return NewAuthService(userRepo, sender, new(MockPhotoStorage), testAuthConfig, NewNoOpLogger()), userRepo, sender
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	assert.NoError(t, err)
	return string(hash)
}

func verifiedUser(t *testing.T) *entity.User {
	return &entity.User{
		ID:           "user1",
		Email:        "renter@example.com",
		PasswordHash: hashPassword(t, "secret1"),
		Name:         "Renter",
		Phone:        "+77010000000",
		Role:         entity.RoleUser,
		IsVerified:   true,
	}
}

func TestAuthService_Register_Success(t *testing.T) {
	svc, userRepo, _ := newAuthServiceForTest(t)
	ctx := context.Background()

	userRepo.On("Create", mock.Anything, mock.MatchedBy(func(u *entity.User) bool {
		return u.Email == "renter@example.com" && !u.IsVerified && len(u.VerificationCode) == 6
	})).Return("user1", nil).Once()

	userID, err := svc.Register(ctx, RegisterParams{
		Email:    "renter@example.com",
		Password: "secret1",
		Name:     "Renter",
		Phone:    "+77010000000",
	})

	assert.NoError(t, err)
	assert.Equal(t, "user1", userID)
	userRepo.AssertExpectations(t)
}

func TestAuthService_Register_ShortPassword(t *testing.T) {
	svc, userRepo, _ := newAuthServiceForTest(t)

	_, err := svc.Register(context.Background(), RegisterParams{
		Email:    "renter@example.com",
		Password: "short",
		Phone:    "+77010000000",
	})

	assert.ErrorIs(t, err, entity.ErrInvalidInput)
	userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	svc, userRepo, _ := newAuthServiceForTest(t)

	userRepo.On("Create", mock.Anything, mock.Anything).Return("", repository.ErrAlreadyExists).Once()

	_, err := svc.Register(context.Background(), RegisterParams{
		Email:    "renter@example.com",
		Password: "secret1",
		Phone:    "+77010000000",
	})

	assert.ErrorIs(t, err, repository.ErrAlreadyExists)
}

func TestAuthService_VerifyEmail(t *testing.T) {
	svc, userRepo, _ := newAuthServiceForTest(t)
	ctx := context.Background()

	user := verifiedUser(t)
	user.IsVerified = false
	user.VerificationCode = "ABC123"
	userRepo.On("GetByEmail", mock.Anything, "renter@example.com").Return(user, nil)
	userRepo.On("Update", mock.Anything, mock.MatchedBy(func(p repository.UpdateUserParams) bool {
		return p.UserID == "user1" && p.Fields["is_verified"] == true && p.Fields["verification_code"] == ""
	})).Return(user, nil).Once()

	assert.ErrorIs(t, svc.VerifyEmail(ctx, "renter@example.com", "WRONG1"), entity.ErrBadCode)
	assert.NoError(t, svc.VerifyEmail(ctx, "renter@example.com", "ABC123"))
	userRepo.AssertExpectations(t)
}

func TestAuthService_Login_Success(t *testing.T) {
	svc, userRepo, _ := newAuthServiceForTest(t)

	userRepo.On("GetByEmail", mock.Anything, "renter@example.com").Return(verifiedUser(t), nil).Once()

	token, user, err := svc.Login(context.Background(), "renter@example.com", "secret1")

	assert.NoError(t, err)
	assert.Equal(t, "user1", user.ID)
	assert.NotEmpty(t, token)

	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(testAuthConfig.JWTSecret), nil
	})
	assert.NoError(t, err)
	claims, ok := parsed.Claims.(*Claims)
	assert.True(t, ok)
	assert.Equal(t, "user1", claims.UserID)
	assert.Equal(t, string(entity.RoleUser), claims.Role)
}

func TestAuthService_Login_BadCredentials(t *testing.T) {
	svc, userRepo, _ := newAuthServiceForTest(t)
	ctx := context.Background()

	userRepo.On("GetByEmail", mock.Anything, "missing@example.com").Return(nil, repository.ErrNotFound).Once()
	userRepo.On("GetByEmail", mock.Anything, "renter@example.com").Return(verifiedUser(t), nil).Once()

	_, _, err := svc.Login(ctx, "missing@example.com", "secret1")
	assert.ErrorIs(t, err, entity.ErrBadCredentials)

	_, _, err = svc.Login(ctx, "renter@example.com", "wrongpass")
	assert.ErrorIs(t, err, entity.ErrBadCredentials)
}

func TestAuthService_Login_BannedBeforeUnverified(t *testing.T) {
	svc, userRepo, _ := newAuthServiceForTest(t)

	user := verifiedUser(t)
	user.IsBanned = true
	user.IsVerified = false
	userRepo.On("GetByEmail", mock.Anything, "renter@example.com").Return(user, nil).Once()

	_, _, err := svc.Login(context.Background(), "renter@example.com", "secret1")

	assert.ErrorIs(t, err, entity.ErrBanned)
}

func TestAuthService_Login_NotVerified(t *testing.T) {
	svc, userRepo, _ := newAuthServiceForTest(t)

	user := verifiedUser(t)
	user.IsVerified = false
	userRepo.On("GetByEmail", mock.Anything, "renter@example.com").Return(user, nil).Once()

	_, _, err := svc.Login(context.Background(), "renter@example.com", "secret1")

	assert.ErrorIs(t, err, entity.ErrNotVerified)
}

func TestAuthService_ForgotPassword_UnknownEmailIsSilent(t *testing.T) {
	svc, userRepo, _ := newAuthServiceForTest(t)

	userRepo.On("GetByEmail", mock.Anything, "missing@example.com").Return(nil, repository.ErrNotFound).Once()

	err := svc.ForgotPassword(context.Background(), "missing@example.com")

	assert.NoError(t, err)
	userRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestAuthService_ResetPassword(t *testing.T) {
	svc, userRepo, _ := newAuthServiceForTest(t)
	ctx := context.Background()

	user := verifiedUser(t)
	user.VerificationCode = "ABC123"
	userRepo.On("GetByEmail", mock.Anything, "renter@example.com").Return(user, nil)
	userRepo.On("Update", mock.Anything, mock.MatchedBy(func(p repository.UpdateUserParams) bool {
		return p.UserID == "user1" && p.Fields["verification_code"] == ""
	})).Return(user, nil).Once()

	assert.ErrorIs(t, svc.ResetPassword(ctx, "renter@example.com", "WRONG1", "newsecret"), entity.ErrBadCode)
	assert.ErrorIs(t, svc.ResetPassword(ctx, "renter@example.com", "ABC123", "short"), entity.ErrInvalidInput)
	assert.NoError(t, svc.ResetPassword(ctx, "renter@example.com", "ABC123", "newsecret"))
	userRepo.AssertExpectations(t)
}

func TestAuthService_ChangePassword_WrongOldPassword(t *testing.T) {
	svc, userRepo, _ := newAuthServiceForTest(t)

	userRepo.On("GetByID", mock.Anything, "user1").Return(verifiedUser(t), nil).Once()

	err := svc.ChangePassword(context.Background(), "user1", "wrongpass", "newsecret")

	assert.ErrorIs(t, err, entity.ErrBadCredentials)
	userRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestAuthService_CheckActive_Banned(t *testing.T) {
	svc, userRepo, _ := newAuthServiceForTest(t)

	user := verifiedUser(t)
	user.IsBanned = true
	userRepo.On("GetByID", mock.Anything, "user1").Return(user, nil).Once()

	_, err := svc.CheckActive(context.Background(), "user1")

	assert.ErrorIs(t, err, entity.ErrBanned)
}
