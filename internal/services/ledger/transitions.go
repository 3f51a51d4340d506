package ledger

import (
	"context"

	"lipa/internal/models"
	"lipa/internal/repositories"

	"github.com/sirupsen/logrus"
)

// Status transitions. Each one loads the movement under a row lock, applies
// the one-way pending -> terminal rule, and performs the paired balance
// effect in the same transaction.

// ApplyDepositCallback settles a deposit from a gateway callback, mapping
// the gateway's status vocabulary onto the movement lifecycle. The credit
// happens only on the pending -> completed edge; a replayed callback finds
// the row settled and fails with ErrAlreadyProcessed.
func (s *service) ApplyDepositCallback(ctx context.Context, paymentReference, externalStatus string) (*models.Deposit, error) {
	next := models.MapCallbackStatus(externalStatus)

	var deposit *models.Deposit
	err := s.repo.ExecuteInTransaction(ctx, func(store repositories.LedgerRepository) error {
		d, err := store.GetDepositByReferenceForUpdate(ctx, paymentReference)
		if err != nil {
			return err
		}
		if d.Status != models.StatusPending {
			return ErrAlreadyProcessed
		}

		d.Status = next
		d.Metadata = models.JSON{"external_status": externalStatus}
		if err := store.UpdateDeposit(ctx, d); err != nil {
			return err
		}

		if next == models.StatusCompleted {
			user, err := store.GetUserForUpdate(ctx, d.UserID)
			if err != nil {
				return err
			}
			if err := store.UpdateBalances(ctx, user.ID, user.Balance.Add(d.Amount), user.Coins); err != nil {
				return err
			}
		}

		deposit = d
		return nil
	})
	if err != nil {
		s.metrics.RecordError(KindDeposit, errType(err))
		return nil, err
	}

	s.invalidate(ctx, deposit.UserID)
	s.metrics.RecordTransition(KindDeposit, next)
	logrus.WithFields(logrus.Fields{
		"payment_reference": paymentReference,
		"external_status":   externalStatus,
		"status":            next,
	}).Info("deposit settled")
	return deposit, nil
}

// ApplyTransactionStatus settles a purchase after fulfilment. Completion
// credits the coins earned; failure or cancellation refunds the debit
// taken at creation, exactly once.
func (s *service) ApplyTransactionStatus(ctx context.Context, transactionID uint, status models.MovementStatus, providerRef string) (*models.Transaction, error) {
	if !status.Terminal() {
		return nil, ErrInvalidState
	}

	var txn *models.Transaction
	err := s.repo.ExecuteInTransaction(ctx, func(store repositories.LedgerRepository) error {
		t, err := store.GetTransactionForUpdate(ctx, transactionID)
		if err != nil {
			return err
		}
		if t.Status != models.StatusPending {
			return ErrInvalidState
		}

		t.Status = status
		if providerRef != "" {
			t.ProviderRef = providerRef
		}
		if err := store.UpdateTransaction(ctx, t); err != nil {
			return err
		}
		txn = t

		user, err := store.GetUserForUpdate(ctx, t.UserID)
		if err != nil {
			return err
		}
		switch status {
		case models.StatusCompleted:
			if t.CoinsEarned > 0 {
				return store.UpdateBalances(ctx, user.ID, user.Balance, user.Coins+t.CoinsEarned)
			}
			return nil
		default:
			return store.UpdateBalances(ctx, user.ID, user.Balance.Add(t.Amount), user.Coins)
		}
	})
	if err != nil {
		s.metrics.RecordError(KindPurchase, errType(err))
		return nil, err
	}

	s.invalidate(ctx, txn.UserID)
	s.metrics.RecordTransition(KindPurchase, status)
	logrus.WithFields(logrus.Fields{
		"transaction_id": transactionID,
		"status":         status,
	}).Info("purchase settled")
	return txn, nil
}

// ApplyTransferStatus settles a transfer. Completion credits the recipient;
// failure or cancellation refunds the sender's debit, exactly once.
func (s *service) ApplyTransferStatus(ctx context.Context, transferID uint, status models.MovementStatus) (*models.Transfer, error) {
	if !status.Terminal() {
		return nil, ErrInvalidState
	}

	var transfer *models.Transfer
	err := s.repo.ExecuteInTransaction(ctx, func(store repositories.LedgerRepository) error {
		t, err := store.GetTransferForUpdate(ctx, transferID)
		if err != nil {
			return err
		}
		if t.Status != models.StatusPending {
			return ErrInvalidState
		}

		t.Status = status
		if err := store.UpdateTransfer(ctx, t); err != nil {
			return err
		}
		transfer = t

		var creditUserID uint
		if status == models.StatusCompleted {
			creditUserID = t.ToUserID
		} else {
			creditUserID = t.FromUserID
		}

		user, err := store.GetUserForUpdate(ctx, creditUserID)
		if err != nil {
			return err
		}
		return store.UpdateBalances(ctx, user.ID, user.Balance.Add(t.Amount), user.Coins)
	})
	if err != nil {
		s.metrics.RecordError(KindTransfer, errType(err))
		return nil, err
	}

	s.invalidate(ctx, transfer.FromUserID)
	s.invalidate(ctx, transfer.ToUserID)
	s.metrics.RecordTransition(KindTransfer, status)
	logrus.WithFields(logrus.Fields{
		"transfer_id": transferID,
		"status":      status,
	}).Info("transfer settled")
	return transfer, nil
}

// ApplyWithdrawalStatus settles a payout. The hold was taken at creation,
// so completion has no balance effect; failure or cancellation refunds it,
// exactly once.
func (s *service) ApplyWithdrawalStatus(ctx context.Context, withdrawalID uint, status models.MovementStatus) (*models.Withdrawal, error) {
	if !status.Terminal() {
		return nil, ErrInvalidState
	}

	var withdrawal *models.Withdrawal
	err := s.repo.ExecuteInTransaction(ctx, func(store repositories.LedgerRepository) error {
		w, err := store.GetWithdrawalForUpdate(ctx, withdrawalID)
		if err != nil {
			return err
		}
		if w.Status != models.StatusPending {
			return ErrInvalidState
		}

		w.Status = status
		if err := store.UpdateWithdrawal(ctx, w); err != nil {
			return err
		}
		withdrawal = w

		if status == models.StatusCompleted {
			return nil
		}

		user, err := store.GetUserForUpdate(ctx, w.UserID)
		if err != nil {
			return err
		}
		return store.UpdateBalances(ctx, user.ID, user.Balance.Add(w.Amount), user.Coins)
	})
	if err != nil {
		s.metrics.RecordError(KindWithdrawal, errType(err))
		return nil, err
	}

	s.invalidate(ctx, withdrawal.UserID)
	s.metrics.RecordTransition(KindWithdrawal, status)
	logrus.WithFields(logrus.Fields{
		"withdrawal_id": withdrawalID,
		"status":        status,
	}).Info("withdrawal settled")
	return withdrawal, nil
}
