package referral

import (
	"context"
	"errors"
	"strings"

	errs "lipa/internal/errors"
	"lipa/internal/models"
	"lipa/internal/repositories"
	"lipa/internal/services/ledger"
)

// Service handles referral code redemption. The coin grants themselves go
// through the money movement engine.
type Service interface {
	Redeem(ctx context.Context, redeemerID uint, code string) (*models.ReferralReward, error)
	GetCode(ctx context.Context, userID uint) (string, error)
}

type service struct {
	userRepo repositories.UserRepository
	engine   ledger.Service
}

func NewService(userRepo repositories.UserRepository, engine ledger.Service) Service {
	return &service{
		userRepo: userRepo,
		engine:   engine,
	}
}

// Redeem resolves the code to its owner and awards both sides. An account
// redeems at most once; redeeming your own code is rejected.
func (s *service) Redeem(ctx context.Context, redeemerID uint, code string) (*models.ReferralReward, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, errs.ErrReferralCodeNotFound
	}

	referrer, err := s.userRepo.GetByReferralCode(ctx, code)
	if err != nil {
		if errors.Is(err, errs.ErrUserNotFound) {
			return nil, errs.ErrReferralCodeNotFound
		}
		return nil, err
	}
	if referrer.ID == redeemerID {
		return nil, errs.ErrSelfOperation
	}

	return s.engine.AwardReferralCoins(ctx, ledger.ReferralAward{
		ReferrerID: referrer.ID,
		RedeemerID: redeemerID,
		Code:       code,
	})
}

func (s *service) GetCode(ctx context.Context, userID uint) (string, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}
	if user.ReferralCode == nil {
		return "", errs.ErrReferralCodeNotFound
	}
	return *user.ReferralCode, nil
}
