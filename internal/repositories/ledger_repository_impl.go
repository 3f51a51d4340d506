package repositories

import (
	"context"
	"errors"
	"fmt"

	errs "lipa/internal/errors"
	"lipa/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ledgerRepository struct {
	db *gorm.DB
}

func NewLedgerRepository(db *gorm.DB) LedgerRepository {
	return &ledgerRepository{db: db}
}

func (r *ledgerRepository) ExecuteInTransaction(ctx context.Context, fn func(LedgerRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&ledgerRepository{db: tx})
	})
}

// GetUserForUpdate loads the account row under SELECT ... FOR UPDATE.
// Concurrent ledger operations on the same account serialize here.
func (r *ledgerRepository) GetUserForUpdate(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrUserNotFound
		}
		return nil, fmt.Errorf("%w: lock user %d: %v", errs.ErrStorage, id, err)
	}
	return &user, nil
}

// GetUserByEmail reads an account without locking it. Used to resolve
// transfer recipients, whose balance is not touched at creation.
func (r *ledgerRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrUserNotFound
		}
		return nil, fmt.Errorf("%w: get user by email: %v", errs.ErrStorage, err)
	}
	return &user, nil
}

// UpdateBalances writes the balance and coins columns, nothing else.
func (r *ledgerRepository) UpdateBalances(ctx context.Context, userID uint, balance decimal.Decimal, coins int64) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).
		Updates(map[string]interface{}{
			"balance": balance,
			"coins":   coins,
		})
	if res.Error != nil {
		return fmt.Errorf("%w: update balances for user %d: %v", errs.ErrStorage, userID, res.Error)
	}
	if res.RowsAffected == 0 {
		return errs.ErrUserNotFound
	}
	return nil
}

func (r *ledgerRepository) CreateTransaction(ctx context.Context, txn *models.Transaction) error {
	if err := r.db.WithContext(ctx).Create(txn).Error; err != nil {
		return fmt.Errorf("%w: create transaction: %v", errs.ErrStorage, err)
	}
	return nil
}

func (r *ledgerRepository) GetTransactionForUpdate(ctx context.Context, id uint) (*models.Transaction, error) {
	var txn models.Transaction
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&txn, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("%w: lock transaction %d: %v", errs.ErrStorage, id, err)
	}
	return &txn, nil
}

func (r *ledgerRepository) UpdateTransaction(ctx context.Context, txn *models.Transaction) error {
	if err := r.db.WithContext(ctx).Save(txn).Error; err != nil {
		return fmt.Errorf("%w: update transaction %d: %v", errs.ErrStorage, txn.ID, err)
	}
	return nil
}

func (r *ledgerRepository) ListTransactionsByUser(ctx context.Context, userID uint, limit, offset int) ([]models.Transaction, int64, error) {
	var txns []models.Transaction
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Transaction{}).Where("user_id = ?", userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("%w: count transactions: %v", errs.ErrStorage, err)
	}
	err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&txns).Error
	if err != nil {
		return nil, 0, fmt.Errorf("%w: list transactions: %v", errs.ErrStorage, err)
	}
	return txns, total, nil
}

func (r *ledgerRepository) ListTransactionsByStatus(ctx context.Context, status models.MovementStatus, limit, offset int) ([]models.Transaction, int64, error) {
	var txns []models.Transaction
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Transaction{}).Where("status = ?", status)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("%w: count transactions by status: %v", errs.ErrStorage, err)
	}
	err := query.Order("created_at ASC").Limit(limit).Offset(offset).Find(&txns).Error
	if err != nil {
		return nil, 0, fmt.Errorf("%w: list transactions by status: %v", errs.ErrStorage, err)
	}
	return txns, total, nil
}

func (r *ledgerRepository) CreateDeposit(ctx context.Context, deposit *models.Deposit) error {
	if err := r.db.WithContext(ctx).Create(deposit).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: duplicate payment reference: %v", errs.ErrStorage, err)
		}
		return fmt.Errorf("%w: create deposit: %v", errs.ErrStorage, err)
	}
	return nil
}

func (r *ledgerRepository) GetDepositByReferenceForUpdate(ctx context.Context, reference string) (*models.Deposit, error) {
	var deposit models.Deposit
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("payment_reference = ?", reference).
		First(&deposit).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrDepositNotFound
		}
		return nil, fmt.Errorf("%w: lock deposit %s: %v", errs.ErrStorage, reference, err)
	}
	return &deposit, nil
}

func (r *ledgerRepository) UpdateDeposit(ctx context.Context, deposit *models.Deposit) error {
	if err := r.db.WithContext(ctx).Save(deposit).Error; err != nil {
		return fmt.Errorf("%w: update deposit %d: %v", errs.ErrStorage, deposit.ID, err)
	}
	return nil
}

func (r *ledgerRepository) ListDepositsByUser(ctx context.Context, userID uint, limit, offset int) ([]models.Deposit, int64, error) {
	var deposits []models.Deposit
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Deposit{}).Where("user_id = ?", userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("%w: count deposits: %v", errs.ErrStorage, err)
	}
	err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&deposits).Error
	if err != nil {
		return nil, 0, fmt.Errorf("%w: list deposits: %v", errs.ErrStorage, err)
	}
	return deposits, total, nil
}

func (r *ledgerRepository) CreateTransfer(ctx context.Context, transfer *models.Transfer) error {
	if err := r.db.WithContext(ctx).Create(transfer).Error; err != nil {
		return fmt.Errorf("%w: create transfer: %v", errs.ErrStorage, err)
	}
	return nil
}

func (r *ledgerRepository) GetTransferForUpdate(ctx context.Context, id uint) (*models.Transfer, error) {
	var transfer models.Transfer
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&transfer, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrTransferNotFound
		}
		return nil, fmt.Errorf("%w: lock transfer %d: %v", errs.ErrStorage, id, err)
	}
	return &transfer, nil
}

func (r *ledgerRepository) UpdateTransfer(ctx context.Context, transfer *models.Transfer) error {
	if err := r.db.WithContext(ctx).Save(transfer).Error; err != nil {
		return fmt.Errorf("%w: update transfer %d: %v", errs.ErrStorage, transfer.ID, err)
	}
	return nil
}

func (r *ledgerRepository) ListTransfersByUser(ctx context.Context, userID uint, limit, offset int) ([]models.Transfer, int64, error) {
	var transfers []models.Transfer
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Transfer{}).
		Where("from_user_id = ? OR to_user_id = ?", userID, userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("%w: count transfers: %v", errs.ErrStorage, err)
	}
	err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&transfers).Error
	if err != nil {
		return nil, 0, fmt.Errorf("%w: list transfers: %v", errs.ErrStorage, err)
	}
	return transfers, total, nil
}

func (r *ledgerRepository) ListTransfersByStatus(ctx context.Context, status models.MovementStatus, limit, offset int) ([]models.Transfer, int64, error) {
	var transfers []models.Transfer
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Transfer{}).Where("status = ?", status)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("%w: count transfers by status: %v", errs.ErrStorage, err)
	}
	err := query.Order("created_at ASC").Limit(limit).Offset(offset).Find(&transfers).Error
	if err != nil {
		return nil, 0, fmt.Errorf("%w: list transfers by status: %v", errs.ErrStorage, err)
	}
	return transfers, total, nil
}

func (r *ledgerRepository) CreateWithdrawal(ctx context.Context, withdrawal *models.Withdrawal) error {
	if err := r.db.WithContext(ctx).Create(withdrawal).Error; err != nil {
		return fmt.Errorf("%w: create withdrawal: %v", errs.ErrStorage, err)
	}
	return nil
}

func (r *ledgerRepository) GetWithdrawalForUpdate(ctx context.Context, id uint) (*models.Withdrawal, error) {
	var withdrawal models.Withdrawal
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&withdrawal, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrWithdrawalNotFound
		}
		return nil, fmt.Errorf("%w: lock withdrawal %d: %v", errs.ErrStorage, id, err)
	}
	return &withdrawal, nil
}

func (r *ledgerRepository) UpdateWithdrawal(ctx context.Context, withdrawal *models.Withdrawal) error {
	if err := r.db.WithContext(ctx).Save(withdrawal).Error; err != nil {
		return fmt.Errorf("%w: update withdrawal %d: %v", errs.ErrStorage, withdrawal.ID, err)
	}
	return nil
}

func (r *ledgerRepository) ListWithdrawalsByUser(ctx context.Context, userID uint, limit, offset int) ([]models.Withdrawal, int64, error) {
	var withdrawals []models.Withdrawal
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Withdrawal{}).Where("user_id = ?", userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("%w: count withdrawals: %v", errs.ErrStorage, err)
	}
	err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&withdrawals).Error
	if err != nil {
		return nil, 0, fmt.Errorf("%w: list withdrawals: %v", errs.ErrStorage, err)
	}
	return withdrawals, total, nil
}

func (r *ledgerRepository) ListWithdrawalsByStatus(ctx context.Context, status models.MovementStatus, limit, offset int) ([]models.Withdrawal, int64, error) {
	var withdrawals []models.Withdrawal
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Withdrawal{}).Where("status = ?", status)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("%w: count withdrawals by status: %v", errs.ErrStorage, err)
	}
	err := query.Order("created_at ASC").Limit(limit).Offset(offset).Find(&withdrawals).Error
	if err != nil {
		return nil, 0, fmt.Errorf("%w: list withdrawals by status: %v", errs.ErrStorage, err)
	}
	return withdrawals, total, nil
}

func (r *ledgerRepository) CreateCoinExchange(ctx context.Context, exchange *models.CoinExchange) error {
	if err := r.db.WithContext(ctx).Create(exchange).Error; err != nil {
		return fmt.Errorf("%w: create coin exchange: %v", errs.ErrStorage, err)
	}
	return nil
}

func (r *ledgerRepository) ListCoinExchangesByUser(ctx context.Context, userID uint, limit, offset int) ([]models.CoinExchange, int64, error) {
	var exchanges []models.CoinExchange
	var total int64

	query := r.db.WithContext(ctx).Model(&models.CoinExchange{}).Where("user_id = ?", userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("%w: count coin exchanges: %v", errs.ErrStorage, err)
	}
	err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&exchanges).Error
	if err != nil {
		return nil, 0, fmt.Errorf("%w: list coin exchanges: %v", errs.ErrStorage, err)
	}
	return exchanges, total, nil
}

// CreateReferralReward inserts the reward row. The unique index on
// redeemer_id turns a second redemption into ErrAlreadyProcessed.
func (r *ledgerRepository) CreateReferralReward(ctx context.Context, reward *models.ReferralReward) error {
	if err := r.db.WithContext(ctx).Create(reward).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errs.ErrAlreadyProcessed
		}
		return fmt.Errorf("%w: create referral reward: %v", errs.ErrStorage, err)
	}
	return nil
}
