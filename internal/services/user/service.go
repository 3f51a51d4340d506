package user

import (
	"context"
	"errors"
	"strings"

	errs "lipa/internal/errors"
	"lipa/internal/models"
	"lipa/internal/repositories"
	"lipa/internal/utils"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	referralCodeLength   = 8
	referralCodeAttempts = 5
)

// RegisterInput carries a signup request. Validation happens at the handler;
// the service only normalizes and enforces uniqueness.
type RegisterInput struct {
	Name     string
	Email    string
	Phone    string
	Password string
}

type Service interface {
	Register(ctx context.Context, input RegisterInput) (*models.User, error)
	GetByID(ctx context.Context, id uint) (*models.User, error)
	SetBlocked(ctx context.Context, id uint, blocked bool) error
	List(ctx context.Context, limit, offset int) ([]models.User, int64, error)
}

type service struct {
	repo repositories.UserRepository
}

func NewService(repo repositories.UserRepository) Service {
	return &service{repo: repo}
}

// Register creates the account with a zero balance and a fresh referral
// code. The code is generated and retried under the store's uniqueness
// constraint; email and phone are pre-checked, so a duplicate-key failure
// on insert is attributed to a code collision.
func (s *service) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	phone := strings.TrimSpace(input.Phone)

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil, errs.ErrEmailTaken
	} else if !errors.Is(err, errs.ErrUserNotFound) {
		return nil, err
	}
	if _, err := s.repo.GetByPhone(ctx, phone); err == nil {
		return nil, errs.ErrPhoneTaken
	} else if !errors.Is(err, errs.ErrUserNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:     strings.TrimSpace(input.Name),
		Email:    email,
		Phone:    phone,
		Password: string(hashed),
		Role:     models.RoleUser,
	}

	for attempt := 0; attempt < referralCodeAttempts; attempt++ {
		code, err := utils.GenerateReferralCode(referralCodeLength)
		if err != nil {
			return nil, err
		}
		user.ReferralCode = &code

		err = s.repo.Create(ctx, user)
		if err == nil {
			logrus.WithFields(logrus.Fields{
				"user_id": user.ID,
				"email":   user.Email,
			}).Info("user registered")
			return user, nil
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			continue
		}
		return nil, err
	}

	return nil, errs.ErrGenerationExhausted
}

func (s *service) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.repo.GetByID(ctx, id)
}

// SetBlocked flips the account freeze flag. Blocked accounts fail every
// money movement at the guard.
func (s *service) SetBlocked(ctx context.Context, id uint, blocked bool) error {
	if err := s.repo.SetBlocked(ctx, id, blocked); err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{
		"user_id": id,
		"blocked": blocked,
	}).Info("account block flag updated")
	return nil
}

func (s *service) List(ctx context.Context, limit, offset int) ([]models.User, int64, error) {
	return s.repo.List(ctx, limit, offset)
}
