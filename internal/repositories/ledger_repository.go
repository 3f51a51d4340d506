package repositories

import (
	"context"

	"lipa/internal/models"

	"github.com/shopspring/decimal"
)

// LedgerRepository is the single write path for wallet balances and movement
// records. The ForUpdate getters take row locks and are only meaningful
// inside ExecuteInTransaction, where the guard check, the movement row and
// the balance write commit or roll back together.
type LedgerRepository interface {
	ExecuteInTransaction(ctx context.Context, fn func(tx LedgerRepository) error) error

	// Account rows.
	GetUserForUpdate(ctx context.Context, id uint) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateBalances(ctx context.Context, userID uint, balance decimal.Decimal, coins int64) error

	// Purchase transactions.
	CreateTransaction(ctx context.Context, txn *models.Transaction) error
	GetTransactionForUpdate(ctx context.Context, id uint) (*models.Transaction, error)
	UpdateTransaction(ctx context.Context, txn *models.Transaction) error
	ListTransactionsByUser(ctx context.Context, userID uint, limit, offset int) ([]models.Transaction, int64, error)
	ListTransactionsByStatus(ctx context.Context, status models.MovementStatus, limit, offset int) ([]models.Transaction, int64, error)

	// Deposits.
	CreateDeposit(ctx context.Context, deposit *models.Deposit) error
	GetDepositByReferenceForUpdate(ctx context.Context, reference string) (*models.Deposit, error)
	UpdateDeposit(ctx context.Context, deposit *models.Deposit) error
	ListDepositsByUser(ctx context.Context, userID uint, limit, offset int) ([]models.Deposit, int64, error)

	// Transfers.
	CreateTransfer(ctx context.Context, transfer *models.Transfer) error
	GetTransferForUpdate(ctx context.Context, id uint) (*models.Transfer, error)
	UpdateTransfer(ctx context.Context, transfer *models.Transfer) error
	ListTransfersByUser(ctx context.Context, userID uint, limit, offset int) ([]models.Transfer, int64, error)
	ListTransfersByStatus(ctx context.Context, status models.MovementStatus, limit, offset int) ([]models.Transfer, int64, error)

	// Withdrawals.
	CreateWithdrawal(ctx context.Context, withdrawal *models.Withdrawal) error
	GetWithdrawalForUpdate(ctx context.Context, id uint) (*models.Withdrawal, error)
	UpdateWithdrawal(ctx context.Context, withdrawal *models.Withdrawal) error
	ListWithdrawalsByUser(ctx context.Context, userID uint, limit, offset int) ([]models.Withdrawal, int64, error)
	ListWithdrawalsByStatus(ctx context.Context, status models.MovementStatus, limit, offset int) ([]models.Withdrawal, int64, error)

	// Coin exchanges.
	CreateCoinExchange(ctx context.Context, exchange *models.CoinExchange) error
	ListCoinExchangesByUser(ctx context.Context, userID uint, limit, offset int) ([]models.CoinExchange, int64, error)

	// Referral rewards.
	CreateReferralReward(ctx context.Context, reward *models.ReferralReward) error
}
