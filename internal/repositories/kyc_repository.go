package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	errs "lipa/internal/errors"
	"lipa/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// KYCRepository persists identity verification cases.
type KYCRepository interface {
	Create(ctx context.Context, kyc *models.KYCVerification) error
	GetByID(ctx context.Context, id uint) (*models.KYCVerification, error)
	GetLatestByUser(ctx context.Context, userID uint) (*models.KYCVerification, error)
	ListByStatus(ctx context.Context, status string, limit, offset int) ([]models.KYCVerification, int64, error)
	// Review writes the decision and stamps ReviewedAt/ReviewedBy exactly
	// once, updating the user's kyc_status in the same transaction. A case
	// that was already decided fails with ErrAlreadyProcessed.
	Review(ctx context.Context, id, reviewerID uint, status string) (*models.KYCVerification, error)
}

type kycRepository struct {
	db *gorm.DB
}

func NewKYCRepository(db *gorm.DB) KYCRepository {
	return &kycRepository{db: db}
}

// Create inserts a new pending case and moves the user's kyc_status back to
// pending in the same transaction, so a resubmission after a rejection shows
// up consistently on both rows.
func (r *kycRepository) Create(ctx context.Context, kyc *models.KYCVerification) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(kyc).Error; err != nil {
			return fmt.Errorf("%w: create kyc verification: %v", errs.ErrStorage, err)
		}
		res := tx.Model(&models.User{}).Where("id = ?", kyc.UserID).
			Update("kyc_status", models.KYCStatusPending)
		if res.Error != nil {
			return fmt.Errorf("%w: update user kyc status: %v", errs.ErrStorage, res.Error)
		}
		if res.RowsAffected == 0 {
			return errs.ErrUserNotFound
		}
		return nil
	})
}

func (r *kycRepository) GetByID(ctx context.Context, id uint) (*models.KYCVerification, error) {
	var kyc models.KYCVerification
	if err := r.db.WithContext(ctx).First(&kyc, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrKYCNotFound
		}
		return nil, fmt.Errorf("%w: get kyc verification %d: %v", errs.ErrStorage, id, err)
	}
	return &kyc, nil
}

func (r *kycRepository) GetLatestByUser(ctx context.Context, userID uint) (*models.KYCVerification, error) {
	var kyc models.KYCVerification
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		First(&kyc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrKYCNotFound
		}
		return nil, fmt.Errorf("%w: get kyc verification for user %d: %v", errs.ErrStorage, userID, err)
	}
	return &kyc, nil
}

func (r *kycRepository) ListByStatus(ctx context.Context, status string, limit, offset int) ([]models.KYCVerification, int64, error) {
	var cases []models.KYCVerification
	var total int64

	query := r.db.WithContext(ctx).Model(&models.KYCVerification{}).Where("status = ?", status)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("%w: count kyc verifications: %v", errs.ErrStorage, err)
	}
	err := query.Order("created_at ASC").Limit(limit).Offset(offset).Find(&cases).Error
	if err != nil {
		return nil, 0, fmt.Errorf("%w: list kyc verifications: %v", errs.ErrStorage, err)
	}
	return cases, total, nil
}

func (r *kycRepository) Review(ctx context.Context, id, reviewerID uint, status string) (*models.KYCVerification, error) {
	var kyc models.KYCVerification

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&kyc, id).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errs.ErrKYCNotFound
			}
			return fmt.Errorf("%w: lock kyc verification %d: %v", errs.ErrStorage, id, err)
		}

		if kyc.Reviewed() {
			return errs.ErrAlreadyProcessed
		}

		now := time.Now()
		kyc.Status = status
		kyc.ReviewedAt = &now
		kyc.ReviewedBy = &reviewerID
		if err := tx.Save(&kyc).Error; err != nil {
			return fmt.Errorf("%w: save kyc decision: %v", errs.ErrStorage, err)
		}

		res := tx.Model(&models.User{}).Where("id = ?", kyc.UserID).Update("kyc_status", status)
		if res.Error != nil {
			return fmt.Errorf("%w: update user kyc status: %v", errs.ErrStorage, res.Error)
		}
		if res.RowsAffected == 0 {
			return errs.ErrUserNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &kyc, nil
}
