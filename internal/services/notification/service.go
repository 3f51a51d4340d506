package notification

import (
	"context"

	"lipa/internal/models"

	"github.com/sirupsen/logrus"
)

// Service delivers user-facing notices. The current implementation only
// logs; a real channel (SMS, email, push) plugs in behind the same methods.
type Service struct{}

// NewService creates a new notification service.
func NewService() *Service { return &Service{} }

// SendPasswordReset delivers a reset token to the account's contact address.
func (s *Service) SendPasswordReset(ctx context.Context, user *models.User, token string) error {
	logrus.WithFields(logrus.Fields{
		"user_id": user.ID,
	}).Info("password reset notice queued")
	return nil
}

// SendDepositSettled tells the user how their deposit ended.
func (s *Service) SendDepositSettled(ctx context.Context, deposit *models.Deposit) error {
	logrus.WithFields(logrus.Fields{
		"user_id":           deposit.UserID,
		"payment_reference": deposit.PaymentReference,
		"status":            deposit.Status,
	}).Info("deposit settled notice queued")
	return nil
}
