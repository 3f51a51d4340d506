package kyc

import (
	"context"
	"errors"

	errs "lipa/internal/errors"
	"lipa/internal/models"
	"lipa/internal/repositories"
	"lipa/internal/repositories/cache"

	"github.com/sirupsen/logrus"
)

// Service manages identity verification cases. Verification unlocks
// transfers and withdrawals at the money movement guard.
type Service interface {
	Submit(ctx context.Context, userID uint, documentType, documentID, scanURL string) (*models.KYCVerification, error)
	GetStatus(ctx context.Context, userID uint) (*models.KYCVerification, error)
	Review(ctx context.Context, caseID, reviewerID uint, status string) (*models.KYCVerification, error)
	ListPending(ctx context.Context, limit, offset int) ([]models.KYCVerification, int64, error)
}

type service struct {
	repo     repositories.KYCRepository
	userRepo repositories.UserRepository
	cache    *cache.CacheService
}

// NewService creates the verification service. cacheService may be nil.
func NewService(repo repositories.KYCRepository, userRepo repositories.UserRepository, cacheService *cache.CacheService) Service {
	return &service{
		repo:     repo,
		userRepo: userRepo,
		cache:    cacheService,
	}
}

// Submit opens a verification case. An account that is already verified, or
// that has a case awaiting review, cannot open another one.
func (s *service) Submit(ctx context.Context, userID uint, documentType, documentID, scanURL string) (*models.KYCVerification, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.KYCVerified() {
		return nil, errs.ErrAlreadyProcessed
	}

	latest, err := s.repo.GetLatestByUser(ctx, userID)
	if err != nil && !errors.Is(err, errs.ErrKYCNotFound) {
		return nil, err
	}
	if latest != nil && latest.Status == models.KYCStatusPending {
		return nil, errs.ErrKYCPending
	}

	kyc := &models.KYCVerification{
		UserID:       userID,
		DocumentType: documentType,
		DocumentID:   documentID,
		ScanURL:      scanURL,
		Status:       models.KYCStatusPending,
	}
	if err := s.repo.Create(ctx, kyc); err != nil {
		return nil, err
	}
	s.invalidateUser(ctx, userID)

	logrus.WithFields(logrus.Fields{
		"user_id":       userID,
		"kyc_id":        kyc.ID,
		"document_type": documentType,
	}).Info("verification case opened")
	return kyc, nil
}

func (s *service) GetStatus(ctx context.Context, userID uint) (*models.KYCVerification, error) {
	return s.repo.GetLatestByUser(ctx, userID)
}

// Review records the decision. A case carries exactly one decision; the
// repository rejects a second one with ErrAlreadyProcessed.
func (s *service) Review(ctx context.Context, caseID, reviewerID uint, status string) (*models.KYCVerification, error) {
	if status != models.KYCStatusVerified && status != models.KYCStatusRejected {
		return nil, errs.ErrInvalidState
	}

	kyc, err := s.repo.Review(ctx, caseID, reviewerID, status)
	if err != nil {
		return nil, err
	}
	s.invalidateUser(ctx, kyc.UserID)

	logrus.WithFields(logrus.Fields{
		"kyc_id":      caseID,
		"user_id":     kyc.UserID,
		"reviewer_id": reviewerID,
		"status":      status,
	}).Info("verification case decided")
	return kyc, nil
}

func (s *service) ListPending(ctx context.Context, limit, offset int) ([]models.KYCVerification, int64, error) {
	return s.repo.ListByStatus(ctx, models.KYCStatusPending, limit, offset)
}

// invalidateUser drops the cached account snapshot; kyc_status lives on the
// user row.
func (s *service) invalidateUser(ctx context.Context, userID uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateUser(ctx, userID); err != nil {
		logrus.WithError(err).WithField("user_id", userID).Warn("failed to invalidate user cache")
	}
}
