package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Withdrawal is a cash-out movement. The amount is held (debited) at
// creation and refunded exactly once if the payout fails or is cancelled.
type Withdrawal struct {
	ID            uint            `gorm:"primarykey" json:"id"`
	UserID        uint            `gorm:"not null;index" json:"user_id"`
	Amount        decimal.Decimal `gorm:"type:numeric(20,2);not null" json:"amount"`
	BankName      string          `gorm:"not null" json:"bank_name"`
	AccountNumber string          `gorm:"not null" json:"account_number"`
	AccountName   string          `gorm:"not null" json:"account_name"`
	Status        MovementStatus  `gorm:"type:varchar(16);not null;default:'pending';index" json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}
