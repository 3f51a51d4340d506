package auth

import (
	"context"
	"errors"
	"strings"

	errs "lipa/internal/errors"
	"lipa/internal/models"
	"lipa/internal/repositories"
	"lipa/internal/services/notification"
	"lipa/internal/utils"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

type Service interface {
	Login(ctx context.Context, email, phone, password string) (*models.User, string, string, error)
	RefreshTokens(ctx context.Context, refreshToken string) (string, string, error)
	Logout(ctx context.Context, userID uint) error
	ChangePassword(ctx context.Context, userID uint, oldPassword, newPassword string) error
	ForgotPassword(ctx context.Context, email string) error
	GetUserTokenVersion(ctx context.Context, userID uint) (int, error)
}

type service struct {
	userRepo repositories.UserRepository
	notifier *notification.Service
}

func NewService(userRepo repositories.UserRepository, notifier *notification.Service) Service {
	return &service{
		userRepo: userRepo,
		notifier: notifier,
	}
}

// Login authenticates by email or phone. Failures collapse into
// ErrInvalidCredentials so the response never reveals which part was wrong.
func (s *service) Login(ctx context.Context, email, phone, password string) (*models.User, string, string, error) {
	user, err := s.getUserByIdentifier(ctx, email, phone)
	if err != nil {
		return nil, "", "", errs.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", "", errs.ErrInvalidCredentials
	}

	accessToken, refreshToken, err := utils.GenerateTokens(&models.UserClaims{
		UserID:       user.ID,
		Email:        user.Email,
		Role:         user.Role,
		TokenVersion: user.TokenVersion,
		Permissions:  models.GetDefaultPermissions(user.Role),
	})
	if err != nil {
		logrus.WithError(err).Error("failed to generate tokens")
		return nil, "", "", err
	}

	return user, accessToken, refreshToken, nil
}

// RefreshTokens exchanges a valid refresh token for a fresh pair. A token
// minted before the last version bump is rejected.
func (s *service) RefreshTokens(ctx context.Context, refreshToken string) (string, string, error) {
	_, claims, err := utils.ParseToken(refreshToken)
	if err != nil {
		return "", "", errs.ErrInvalidToken
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return "", "", errs.ErrInvalidToken
	}

	if user.TokenVersion != claims.TokenVersion {
		return "", "", errs.ErrInvalidToken
	}

	return utils.GenerateTokens(&models.UserClaims{
		UserID:       user.ID,
		Email:        user.Email,
		Role:         user.Role,
		TokenVersion: user.TokenVersion,
		Permissions:  models.GetDefaultPermissions(user.Role),
	})
}

// Logout bumps the token version, invalidating every outstanding token.
func (s *service) Logout(ctx context.Context, userID uint) error {
	return s.userRepo.IncrementTokenVersion(ctx, userID)
}

func (s *service) ChangePassword(ctx context.Context, userID uint, oldPassword, newPassword string) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)); err != nil {
		return errs.ErrInvalidCredentials
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	// UpdatePassword bumps the token version, so existing sessions die here.
	return s.userRepo.UpdatePassword(ctx, userID, string(hashed))
}

// ForgotPassword always reports success. Whether the address exists or not
// must be indistinguishable to the caller, so lookup failures are swallowed
// after logging.
func (s *service) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if !errors.Is(err, errs.ErrUserNotFound) {
			logrus.WithError(err).Warn("forgot password lookup failed")
		}
		return nil
	}

	token, err := utils.GenerateSecureCode()
	if err != nil {
		logrus.WithError(err).Warn("failed to generate reset token")
		return nil
	}

	if err := s.notifier.SendPasswordReset(ctx, user, token); err != nil {
		logrus.WithError(err).WithField("user_id", user.ID).Warn("failed to send reset notice")
	}
	return nil
}

func (s *service) GetUserTokenVersion(ctx context.Context, userID uint) (int, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return 0, err
	}
	return user.TokenVersion, nil
}

func (s *service) getUserByIdentifier(ctx context.Context, email, phone string) (*models.User, error) {
	if email != "" {
		return s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	}
	return s.userRepo.GetByPhone(ctx, strings.TrimSpace(phone))
}
