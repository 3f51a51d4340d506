package ledger

import (
	"context"

	"lipa/internal/models"

	"github.com/shopspring/decimal"
)

// Service is the money movement engine. Handlers and other services never
// write balances directly; they call one of these operations.
type Service interface {
	// Movement creation.
	CreatePurchase(ctx context.Context, userID, productID uint, targetID string) (*models.Transaction, error)
	CreateDeposit(ctx context.Context, userID uint, amount decimal.Decimal, method string) (*models.Deposit, error)
	CreateTransfer(ctx context.Context, fromUserID uint, toEmail string, amount decimal.Decimal, note string) (*models.Transfer, error)
	CreateWithdrawal(ctx context.Context, userID uint, amount decimal.Decimal, bank BankDetails) (*models.Withdrawal, error)
	ExchangeCoins(ctx context.Context, userID uint, coins int64) (*models.CoinExchange, error)
	AwardReferralCoins(ctx context.Context, award ReferralAward) (*models.ReferralReward, error)

	// Status transitions.
	ApplyDepositCallback(ctx context.Context, paymentReference, externalStatus string) (*models.Deposit, error)
	ApplyTransactionStatus(ctx context.Context, transactionID uint, status models.MovementStatus, providerRef string) (*models.Transaction, error)
	ApplyTransferStatus(ctx context.Context, transferID uint, status models.MovementStatus) (*models.Transfer, error)
	ApplyWithdrawalStatus(ctx context.Context, withdrawalID uint, status models.MovementStatus) (*models.Withdrawal, error)

	// Reads.
	ListTransactions(ctx context.Context, userID uint, limit, offset int) ([]models.Transaction, int64, error)
	ListDeposits(ctx context.Context, userID uint, limit, offset int) ([]models.Deposit, int64, error)
	ListTransfers(ctx context.Context, userID uint, limit, offset int) ([]models.Transfer, int64, error)
	ListWithdrawals(ctx context.Context, userID uint, limit, offset int) ([]models.Withdrawal, int64, error)
	ListCoinExchanges(ctx context.Context, userID uint, limit, offset int) ([]models.CoinExchange, int64, error)

	// Settlement queues.
	ListPendingTransactions(ctx context.Context, limit, offset int) ([]models.Transaction, int64, error)
	ListPendingTransfers(ctx context.Context, limit, offset int) ([]models.Transfer, int64, error)
	ListPendingWithdrawals(ctx context.Context, limit, offset int) ([]models.Withdrawal, int64, error)
}

// ProductReader resolves purchasable products for CreatePurchase.
type ProductReader interface {
	GetActiveProduct(ctx context.Context, id uint) (*models.Product, error)
}

// CacheInvalidator drops cached account snapshots after a balance mutation.
type CacheInvalidator interface {
	InvalidateUser(ctx context.Context, userID uint) error
}
