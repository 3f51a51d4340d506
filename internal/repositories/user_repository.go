package repositories

import (
	"context"
	"errors"
	"fmt"

	errs "lipa/internal/errors"
	"lipa/internal/models"
	"lipa/internal/repositories/cache"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// UserRepository is the account read/write surface used outside the ledger.
// Balance and Coins are never written through this repository; those columns
// belong to the ledger.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByPhone(ctx context.Context, phone string) (*models.User, error)
	GetByReferralCode(ctx context.Context, code string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	SetBlocked(ctx context.Context, userID uint, blocked bool) error
	UpdatePassword(ctx context.Context, userID uint, passwordHash string) error
	IncrementTokenVersion(ctx context.Context, userID uint) error
	List(ctx context.Context, limit, offset int) ([]models.User, int64, error)
}

type userRepository struct {
	db    *gorm.DB
	cache *cache.CacheService
}

// NewUserRepository creates a user repository backed by db, with optional
// read-through caching when cacheService is non-nil.
func NewUserRepository(db *gorm.DB, cacheService *cache.CacheService) UserRepository {
	return &userRepository{db: db, cache: cacheService}
}

// Create inserts the user. A gorm.ErrDuplicatedKey is returned untranslated
// so callers that pre-check email and phone can attribute it to the referral
// code and retry with a fresh one.
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return err
		}
		return fmt.Errorf("%w: create user: %v", errs.ErrStorage, err)
	}
	r.cacheUser(ctx, user)
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	if r.cache != nil {
		if user, err := r.cache.GetUser(ctx, r.cache.GenerateKey("user", "id", id)); err == nil {
			return user, nil
		}
	}

	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrUserNotFound
		}
		return nil, fmt.Errorf("%w: get user %d: %v", errs.ErrStorage, id, err)
	}

	r.cacheUser(ctx, &user)
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if r.cache != nil {
		if user, err := r.cache.GetUser(ctx, r.cache.GenerateKey("user", "email", email)); err == nil {
			return user, nil
		}
	}

	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrUserNotFound
		}
		return nil, fmt.Errorf("%w: get user by email: %v", errs.ErrStorage, err)
	}

	r.cacheUser(ctx, &user)
	return &user, nil
}

func (r *userRepository) GetByPhone(ctx context.Context, phone string) (*models.User, error) {
	if r.cache != nil {
		if user, err := r.cache.GetUser(ctx, r.cache.GenerateKey("user", "phone", phone)); err == nil {
			return user, nil
		}
	}

	var user models.User
	if err := r.db.WithContext(ctx).Where("phone = ?", phone).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrUserNotFound
		}
		return nil, fmt.Errorf("%w: get user by phone: %v", errs.ErrStorage, err)
	}

	r.cacheUser(ctx, &user)
	return &user, nil
}

func (r *userRepository) GetByReferralCode(ctx context.Context, code string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("referral_code = ?", code).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrUserNotFound
		}
		return nil, fmt.Errorf("%w: get user by referral code: %v", errs.ErrStorage, err)
	}
	return &user, nil
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return err
		}
		return fmt.Errorf("%w: update user %d: %v", errs.ErrStorage, user.ID, err)
	}
	r.invalidateUser(ctx, user.ID)
	return nil
}

func (r *userRepository) SetBlocked(ctx context.Context, userID uint, blocked bool) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Update("blocked", blocked)
	if res.Error != nil {
		return fmt.Errorf("%w: set blocked: %v", errs.ErrStorage, res.Error)
	}
	if res.RowsAffected == 0 {
		return errs.ErrUserNotFound
	}
	r.invalidateUser(ctx, userID)
	return nil
}

// UpdatePassword stores the new hash and bumps the token version, which
// invalidates every token issued before the change.
func (r *userRepository) UpdatePassword(ctx context.Context, userID uint, passwordHash string) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).
		Updates(map[string]interface{}{
			"password":      passwordHash,
			"token_version": gorm.Expr("token_version + 1"),
		})
	if res.Error != nil {
		return fmt.Errorf("%w: update password: %v", errs.ErrStorage, res.Error)
	}
	if res.RowsAffected == 0 {
		return errs.ErrUserNotFound
	}
	r.invalidateUser(ctx, userID)
	return nil
}

// IncrementTokenVersion invalidates every outstanding token for the user.
func (r *userRepository) IncrementTokenVersion(ctx context.Context, userID uint) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).
		Update("token_version", gorm.Expr("token_version + 1"))
	if res.Error != nil {
		return fmt.Errorf("%w: increment token version: %v", errs.ErrStorage, res.Error)
	}
	if res.RowsAffected == 0 {
		return errs.ErrUserNotFound
	}
	r.invalidateUser(ctx, userID)
	return nil
}

func (r *userRepository) List(ctx context.Context, limit, offset int) ([]models.User, int64, error) {
	var users []models.User
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("%w: count users: %v", errs.ErrStorage, err)
	}
	if err := r.db.WithContext(ctx).Limit(limit).Offset(offset).Order("id").Find(&users).Error; err != nil {
		return nil, 0, fmt.Errorf("%w: list users: %v", errs.ErrStorage, err)
	}
	return users, total, nil
}

func (r *userRepository) cacheUser(ctx context.Context, user *models.User) {
	if r.cache == nil {
		return
	}
	if err := r.cache.CacheUser(ctx, user); err != nil {
		logrus.WithError(err).WithField("user_id", user.ID).Warn("failed to cache user")
	}
}

func (r *userRepository) invalidateUser(ctx context.Context, userID uint) {
	if r.cache == nil {
		return
	}
	if err := r.cache.InvalidateUser(ctx, userID); err != nil {
		logrus.WithError(err).WithField("user_id", userID).Warn("failed to invalidate user cache")
	}
}
