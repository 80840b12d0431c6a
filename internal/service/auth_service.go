package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/staynest/booking-service/internal/adapter/email"
	"github.com/staynest/booking-service/internal/adapter/storage"
	"github.com/staynest/booking-service/internal/app/config"
	"github.com/staynest/booking-service/internal/domain/entity"
	"github.com/staynest/booking-service/internal/platform/logger"
	"github.com/staynest/booking-service/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

const emailSendTimeout = 15 * time.Second

// Claims is the JWT payload issued on login and checked by the HTTP middleware.
type Claims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

type RegisterParams struct {
	Email    string
	Password string
	Name     string
	Phone    string
}

type UpdateProfileParams struct {
	Name      string
	Phone     string
	AvatarURL string
}

type AuthService interface {
	Register(ctx context.Context, params RegisterParams) (string, error)
	VerifyEmail(ctx context.Context, emailAddr, code string) error
	Login(ctx context.Context, emailAddr, password string) (string, *entity.User, error)
	ForgotPassword(ctx context.Context, emailAddr string) error
	ResetPassword(ctx context.Context, emailAddr, code, newPassword string) error
	Profile(ctx context.Context, userID string) (*entity.User, error)
	UpdateProfile(ctx context.Context, userID string, params UpdateProfileParams) (*entity.User, error)
	ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error
	UploadAvatar(ctx context.Context, userID, fileName string, data []byte) (*entity.User, error)
	// CheckActive loads the user for an authenticated request, rejects banned
	// accounts, and touches last-seen in the background.
	CheckActive(ctx context.Context, userID string) (*entity.User, error)
}

type authService struct {
	userRepo     repository.UserRepository
	emailSender  email.EmailSender
	photoStorage storage.PhotoStorage
	authCfg      config.AuthConfig
	log          logger.Logger
}

func NewAuthService(
	userRepo repository.UserRepository,
	emailSender email.EmailSender,
	photoStorage storage.PhotoStorage,
	authCfg config.AuthConfig,
	log logger.Logger,
) AuthService {
	return &authService{
		userRepo:     userRepo,
		emailSender:  emailSender,
		photoStorage: photoStorage,
		authCfg:      authCfg,
		log:          log,
	}
}

func newVerificationCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:6])
}

func (s *authService) Register(ctx context.Context, params RegisterParams) (string, error) {
	s.log.Infof("Registering user with email %s", params.Email)

	if len(params.Password) < 6 {
		return "", fmt.Errorf("%w: password must be at least 6 characters", entity.ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := entity.NewUser(params.Email, string(hash), params.Name, params.Phone)
	if err != nil {
		return "", fmt.Errorf("%w: %v", entity.ErrInvalidInput, err)
	}
	user.VerificationCode = newVerificationCode()

	userID, err := s.userRepo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return "", repository.ErrAlreadyExists
		}
		s.log.Errorf("Failed to create user with email %s: %v", params.Email, err)
		return "", err
	}

	s.sendCodeEmail(user.Email, "Verify your email",
		fmt.Sprintf("Your verification code is %s", user.VerificationCode))

	s.log.Infof("User %s registered, verification code sent to %s", userID, params.Email)
	return userID, nil
}

func (s *authService) VerifyEmail(ctx context.Context, emailAddr, code string) error {
	user, err := s.userRepo.GetByEmail(ctx, emailAddr)
	if err != nil {
		return err
	}
	if user.IsVerified {
		return nil
	}
	if user.VerificationCode == "" || user.VerificationCode != code {
		return entity.ErrBadCode
	}

	_, err = s.userRepo.Update(ctx, repository.UpdateUserParams{
		UserID: user.ID,
		Fields: map[string]interface{}{
			"is_verified":       true,
			"verification_code": "",
		},
	})
	if err != nil {
		s.log.Errorf("Failed to mark user %s verified: %v", user.ID, err)
		return err
	}
	s.log.Infof("User %s verified email %s", user.ID, emailAddr)
	return nil
}

func (s *authService) Login(ctx context.Context, emailAddr, password string) (string, *entity.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, entity.ErrBadCredentials
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, entity.ErrBadCredentials
	}
	if user.IsBanned {
		return "", nil, entity.ErrBanned
	}
	if !user.IsVerified {
		return "", nil, entity.ErrNotVerified
	}

	token, err := s.issueToken(user)
	if err != nil {
		s.log.Errorf("Failed to issue token for user %s: %v", user.ID, err)
		return "", nil, err
	}

	s.log.Infof("User %s logged in", user.ID)
	return token, user, nil
}

func (s *authService) issueToken(user *entity.User) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: user.ID,
		Role:   string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.authCfg.TokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.authCfg.JWTSecret))
}

func (s *authService) ForgotPassword(ctx context.Context, emailAddr string) error {
	user, err := s.userRepo.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Do not reveal whether the email is registered.
			return nil
		}
		return err
	}

	code := newVerificationCode()
	_, err = s.userRepo.Update(ctx, repository.UpdateUserParams{
		UserID: user.ID,
		Fields: map[string]interface{}{"verification_code": code},
	})
	if err != nil {
		s.log.Errorf("Failed to set reset code for user %s: %v", user.ID, err)
		return err
	}

	s.sendCodeEmail(user.Email, "Password reset",
		fmt.Sprintf("Your password reset code is %s", code))
	return nil
}

func (s *authService) ResetPassword(ctx context.Context, emailAddr, code, newPassword string) error {
	user, err := s.userRepo.GetByEmail(ctx, emailAddr)
	if err != nil {
		return err
	}
	if user.VerificationCode == "" || user.VerificationCode != code {
		return entity.ErrBadCode
	}
	if len(newPassword) < 6 {
		return fmt.Errorf("%w: password must be at least 6 characters", entity.ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	_, err = s.userRepo.Update(ctx, repository.UpdateUserParams{
		UserID: user.ID,
		Fields: map[string]interface{}{
			"password_hash":     string(hash),
			"verification_code": "",
		},
	})
	if err != nil {
		s.log.Errorf("Failed to reset password for user %s: %v", user.ID, err)
		return err
	}
	s.log.Infof("User %s reset password", user.ID)
	return nil
}

func (s *authService) Profile(ctx context.Context, userID string) (*entity.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

func (s *authService) UpdateProfile(ctx context.Context, userID string, params UpdateProfileParams) (*entity.User, error) {
	fields := map[string]interface{}{}
	if params.Name != "" {
		fields["name"] = params.Name
	}
	if params.Phone != "" {
		fields["phone"] = params.Phone
	}
	if params.AvatarURL != "" {
		fields["avatar_url"] = params.AvatarURL
	}
	if len(fields) == 0 {
		return s.userRepo.GetByID(ctx, userID)
	}
	return s.userRepo.Update(ctx, repository.UpdateUserParams{UserID: userID, Fields: fields})
}

func (s *authService) UploadAvatar(ctx context.Context, userID, fileName string, data []byte) (*entity.User, error) {
	if len(data) == 0 {
		return nil, entity.ErrInvalidInput
	}

	url, err := s.photoStorage.Upload(ctx, fileName, data)
	if err != nil {
		s.log.Errorf("Failed to upload avatar for user %s: %v", userID, err)
		return nil, err
	}

	return s.userRepo.Update(ctx, repository.UpdateUserParams{
		UserID: userID,
		Fields: map[string]interface{}{"avatar_url": url},
	})
}

func (s *authService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		return entity.ErrBadCredentials
	}
	if len(newPassword) < 6 {
		return fmt.Errorf("%w: password must be at least 6 characters", entity.ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	_, err = s.userRepo.Update(ctx, repository.UpdateUserParams{
		UserID: userID,
		Fields: map[string]interface{}{"password_hash": string(hash)},
	})
	return err
}

func (s *authService) CheckActive(ctx context.Context, userID string) (*entity.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.IsBanned {
		return nil, entity.ErrBanned
	}

	go func() {
		touchCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.userRepo.TouchLastSeen(touchCtx, userID, time.Now().UTC()); err != nil {
			s.log.Warnf("Failed to touch last seen for user %s: %v", userID, err)
		}
	}()

	return user, nil
}

func (s *authService) sendCodeEmail(to, subject, body string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), emailSendTimeout)
		defer cancel()
		if err := s.emailSender.Send(ctx, []string{to}, subject, "", body); err != nil {
			s.log.Warnf("Failed to send email to %s: %v", to, err)
		}
	}()
}
