package ledger

import (
	"context"
	"errors"
	"fmt"

	"lipa/internal/models"
	"lipa/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type service struct {
	repo    repositories.LedgerRepository
	catalog ProductReader
	cache   CacheInvalidator
	config  Config
	metrics MetricsCollector
}

// NewService creates the money movement engine.
func NewService(
	repo repositories.LedgerRepository,
	catalog ProductReader,
	cache CacheInvalidator,
	config Config,
	metrics MetricsCollector,
) Service {
	if repo == nil {
		panic("ledger repository is required")
	}
	if catalog == nil {
		panic("product reader is required")
	}

	if config.CoinExchangeRate.IsZero() {
		config.CoinExchangeRate = decimal.RequireFromString(DefaultCoinExchangeRate)
	}
	if config.MinExchangeCoins <= 0 {
		config.MinExchangeCoins = DefaultMinExchangeCoins
	}
	if config.ReferrerCoins <= 0 {
		config.ReferrerCoins = DefaultReferrerCoins
	}
	if config.RedeemerCoins <= 0 {
		config.RedeemerCoins = DefaultRedeemerCoins
	}

	// Cache and metrics are optional.
	if cache == nil {
		cache = noopInvalidator{}
	}
	if metrics == nil {
		metrics = &NoopMetricsCollector{}
	}

	return &service{
		repo:    repo,
		catalog: catalog,
		cache:   cache,
		config:  config,
		metrics: metrics,
	}
}

type noopInvalidator struct{}

func (noopInvalidator) InvalidateUser(context.Context, uint) error { return nil }

// CreatePurchase debits the product price and opens a pending purchase.
// The guard check, the movement row and the debit commit atomically;
// fulfilment settles the row later through ApplyTransactionStatus.
func (s *service) CreatePurchase(ctx context.Context, userID, productID uint, targetID string) (*models.Transaction, error) {
	product, err := s.catalog.GetActiveProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	txn := &models.Transaction{
		UserID:      userID,
		ProductID:   product.ID,
		TargetID:    targetID,
		Amount:      product.Price,
		CoinsEarned: coinsEarned(product.Price),
		Status:      models.StatusPending,
	}

	err = s.repo.ExecuteInTransaction(ctx, func(store repositories.LedgerRepository) error {
		user, err := store.GetUserForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		if err := checkDebit(user, product.Price, false); err != nil {
			return err
		}
		if err := store.CreateTransaction(ctx, txn); err != nil {
			return err
		}
		return store.UpdateBalances(ctx, user.ID, user.Balance.Sub(product.Price), user.Coins)
	})
	if err != nil {
		s.metrics.RecordError(KindPurchase, errType(err))
		return nil, err
	}

	s.invalidate(ctx, userID)
	s.metrics.RecordMovement(KindPurchase, txn.Amount)
	logrus.WithFields(logrus.Fields{
		"user_id":        userID,
		"transaction_id": txn.ID,
		"product_id":     product.ID,
		"amount":         txn.Amount,
	}).Info("purchase created")
	return txn, nil
}

// CreateDeposit opens a pending deposit under a fresh payment reference.
// No money moves until the gateway callback settles it.
func (s *service) CreateDeposit(ctx context.Context, userID uint, amount decimal.Decimal, method string) (*models.Deposit, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	deposit := &models.Deposit{
		UserID:           userID,
		Amount:           amount,
		Method:           method,
		PaymentReference: newPaymentReference(userID),
		Status:           models.StatusPending,
	}

	err := s.repo.ExecuteInTransaction(ctx, func(store repositories.LedgerRepository) error {
		user, err := store.GetUserForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		if err := checkAccount(user); err != nil {
			return err
		}
		return store.CreateDeposit(ctx, deposit)
	})
	if err != nil {
		s.metrics.RecordError(KindDeposit, errType(err))
		return nil, err
	}

	s.metrics.RecordMovement(KindDeposit, amount)
	logrus.WithFields(logrus.Fields{
		"user_id":           userID,
		"payment_reference": deposit.PaymentReference,
		"amount":            amount,
		"method":            method,
	}).Info("deposit created")
	return deposit, nil
}

// CreateTransfer debits the sender and opens a pending transfer. The
// recipient is resolved by email but only credited when the transfer
// settles as completed.
func (s *service) CreateTransfer(ctx context.Context, fromUserID uint, toEmail string, amount decimal.Decimal, note string) (*models.Transfer, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	var transfer *models.Transfer
	err := s.repo.ExecuteInTransaction(ctx, func(store repositories.LedgerRepository) error {
		sender, err := store.GetUserForUpdate(ctx, fromUserID)
		if err != nil {
			return err
		}
		if err := checkDebit(sender, amount, true); err != nil {
			return err
		}

		recipient, err := store.GetUserByEmail(ctx, toEmail)
		if err != nil {
			if errors.Is(err, ErrUserNotFound) {
				return ErrRecipientNotFound
			}
			return err
		}
		if err := checkRecipient(sender, recipient); err != nil {
			return err
		}

		transfer = &models.Transfer{
			FromUserID: sender.ID,
			ToUserID:   recipient.ID,
			Amount:     amount,
			Note:       note,
			Status:     models.StatusPending,
		}
		if err := store.CreateTransfer(ctx, transfer); err != nil {
			return err
		}
		return store.UpdateBalances(ctx, sender.ID, sender.Balance.Sub(amount), sender.Coins)
	})
	if err != nil {
		s.metrics.RecordError(KindTransfer, errType(err))
		return nil, err
	}

	s.invalidate(ctx, fromUserID)
	s.metrics.RecordMovement(KindTransfer, amount)
	logrus.WithFields(logrus.Fields{
		"transfer_id":  transfer.ID,
		"from_user_id": transfer.FromUserID,
		"to_user_id":   transfer.ToUserID,
		"amount":       amount,
	}).Info("transfer created")
	return transfer, nil
}

// CreateWithdrawal holds the payout amount and opens a pending withdrawal.
func (s *service) CreateWithdrawal(ctx context.Context, userID uint, amount decimal.Decimal, bank BankDetails) (*models.Withdrawal, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	withdrawal := &models.Withdrawal{
		UserID:        userID,
		Amount:        amount,
		BankName:      bank.BankName,
		AccountNumber: bank.AccountNumber,
		AccountName:   bank.AccountName,
		Status:        models.StatusPending,
	}

	err := s.repo.ExecuteInTransaction(ctx, func(store repositories.LedgerRepository) error {
		user, err := store.GetUserForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		if err := checkDebit(user, amount, true); err != nil {
			return err
		}
		if err := store.CreateWithdrawal(ctx, withdrawal); err != nil {
			return err
		}
		return store.UpdateBalances(ctx, user.ID, user.Balance.Sub(amount), user.Coins)
	})
	if err != nil {
		s.metrics.RecordError(KindWithdrawal, errType(err))
		return nil, err
	}

	s.invalidate(ctx, userID)
	s.metrics.RecordMovement(KindWithdrawal, amount)
	logrus.WithFields(logrus.Fields{
		"user_id":       userID,
		"withdrawal_id": withdrawal.ID,
		"amount":        amount,
	}).Info("withdrawal created")
	return withdrawal, nil
}

// ExchangeCoins converts coins to balance at the configured rate. The swap
// is synchronous, so the movement record is written already completed with
// the rate snapshot it used.
func (s *service) ExchangeCoins(ctx context.Context, userID uint, coins int64) (*models.CoinExchange, error) {
	if coins <= 0 {
		return nil, ErrInvalidAmount
	}

	rate := s.config.CoinExchangeRate
	received := rate.Mul(decimal.NewFromInt(coins)).Round(2)

	exchange := &models.CoinExchange{
		UserID:          userID,
		CoinsUsed:       coins,
		BalanceReceived: received,
		ExchangeRate:    rate,
		Status:          models.StatusCompleted,
	}

	err := s.repo.ExecuteInTransaction(ctx, func(store repositories.LedgerRepository) error {
		user, err := store.GetUserForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		if err := checkCoinExchange(user, coins, s.config.MinExchangeCoins); err != nil {
			return err
		}
		if err := store.CreateCoinExchange(ctx, exchange); err != nil {
			return err
		}
		return store.UpdateBalances(ctx, user.ID, user.Balance.Add(received), user.Coins-coins)
	})
	if err != nil {
		s.metrics.RecordError(KindCoinExchange, errType(err))
		return nil, err
	}

	s.invalidate(ctx, userID)
	s.metrics.RecordMovement(KindCoinExchange, received)
	logrus.WithFields(logrus.Fields{
		"user_id":          userID,
		"coins_used":       coins,
		"balance_received": received,
	}).Info("coins exchanged")
	return exchange, nil
}

// AwardReferralCoins writes the reward row and credits both sides in one
// transaction. Accounts are locked in id order; the unique index on the
// redeemer turns a second award into ErrAlreadyProcessed.
func (s *service) AwardReferralCoins(ctx context.Context, award ReferralAward) (*models.ReferralReward, error) {
	if award.ReferrerID == award.RedeemerID {
		return nil, ErrSelfOperation
	}
	if award.ReferrerCoins <= 0 {
		award.ReferrerCoins = s.config.ReferrerCoins
	}
	if award.RedeemerCoins <= 0 {
		award.RedeemerCoins = s.config.RedeemerCoins
	}

	reward := &models.ReferralReward{
		ReferrerID:    award.ReferrerID,
		RedeemerID:    award.RedeemerID,
		Code:          award.Code,
		ReferrerCoins: award.ReferrerCoins,
		RedeemerCoins: award.RedeemerCoins,
	}

	err := s.repo.ExecuteInTransaction(ctx, func(store repositories.LedgerRepository) error {
		first, second := award.ReferrerID, award.RedeemerID
		if second < first {
			first, second = second, first
		}

		users := make(map[uint]*models.User, 2)
		for _, id := range []uint{first, second} {
			user, err := store.GetUserForUpdate(ctx, id)
			if err != nil {
				return err
			}
			if err := checkAccount(user); err != nil {
				return err
			}
			users[id] = user
		}

		if err := store.CreateReferralReward(ctx, reward); err != nil {
			return err
		}

		referrer := users[award.ReferrerID]
		redeemer := users[award.RedeemerID]
		if err := store.UpdateBalances(ctx, referrer.ID, referrer.Balance, referrer.Coins+award.ReferrerCoins); err != nil {
			return err
		}
		return store.UpdateBalances(ctx, redeemer.ID, redeemer.Balance, redeemer.Coins+award.RedeemerCoins)
	})
	if err != nil {
		s.metrics.RecordError(KindReferral, errType(err))
		return nil, err
	}

	s.invalidate(ctx, award.ReferrerID)
	s.invalidate(ctx, award.RedeemerID)
	s.metrics.RecordMovement(KindReferral, decimal.NewFromInt(award.ReferrerCoins+award.RedeemerCoins))
	logrus.WithFields(logrus.Fields{
		"referrer_id": award.ReferrerID,
		"redeemer_id": award.RedeemerID,
		"code":        award.Code,
	}).Info("referral coins awarded")
	return reward, nil
}

func (s *service) ListTransactions(ctx context.Context, userID uint, limit, offset int) ([]models.Transaction, int64, error) {
	return s.repo.ListTransactionsByUser(ctx, userID, limit, offset)
}

func (s *service) ListDeposits(ctx context.Context, userID uint, limit, offset int) ([]models.Deposit, int64, error) {
	return s.repo.ListDepositsByUser(ctx, userID, limit, offset)
}

func (s *service) ListTransfers(ctx context.Context, userID uint, limit, offset int) ([]models.Transfer, int64, error) {
	return s.repo.ListTransfersByUser(ctx, userID, limit, offset)
}

func (s *service) ListWithdrawals(ctx context.Context, userID uint, limit, offset int) ([]models.Withdrawal, int64, error) {
	return s.repo.ListWithdrawalsByUser(ctx, userID, limit, offset)
}

func (s *service) ListCoinExchanges(ctx context.Context, userID uint, limit, offset int) ([]models.CoinExchange, int64, error) {
	return s.repo.ListCoinExchangesByUser(ctx, userID, limit, offset)
}

func (s *service) ListPendingTransactions(ctx context.Context, limit, offset int) ([]models.Transaction, int64, error) {
	return s.repo.ListTransactionsByStatus(ctx, models.StatusPending, limit, offset)
}

func (s *service) ListPendingTransfers(ctx context.Context, limit, offset int) ([]models.Transfer, int64, error) {
	return s.repo.ListTransfersByStatus(ctx, models.StatusPending, limit, offset)
}

func (s *service) ListPendingWithdrawals(ctx context.Context, limit, offset int) ([]models.Withdrawal, int64, error) {
	return s.repo.ListWithdrawalsByStatus(ctx, models.StatusPending, limit, offset)
}

// invalidate drops the cached account snapshot after a committed mutation.
// Cache trouble is logged, never surfaced.
func (s *service) invalidate(ctx context.Context, userID uint) {
	if err := s.cache.InvalidateUser(ctx, userID); err != nil {
		logrus.WithError(err).WithField("user_id", userID).Warn("failed to invalidate user cache")
	}
}

// coinsEarned returns one coin per hundred spent, rounded down.
func coinsEarned(amount decimal.Decimal) int64 {
	return amount.Div(decimal.NewFromInt(coinsEarnRate)).Floor().IntPart()
}

func newPaymentReference(userID uint) string {
	return fmt.Sprintf("%s-%d-%s", paymentReferencePrefix, userID, uuid.NewString())
}
