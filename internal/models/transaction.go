package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a product purchase movement. The buyer's balance is debited
// when the row is created; CoinsEarned is credited only if fulfilment
// completes, and the debit is refunded exactly once if it fails.
type Transaction struct {
	ID          uint            `gorm:"primarykey" json:"id"`
	UserID      uint            `gorm:"not null;index" json:"user_id"`
	ProductID   uint            `gorm:"not null;index" json:"product_id"`
	TargetID    string          `gorm:"not null" json:"target_id"`
	Amount      decimal.Decimal `gorm:"type:numeric(20,2);not null" json:"amount"`
	CoinsEarned int64           `gorm:"not null;default:0" json:"coins_earned"`
	ProviderRef string          `json:"provider_ref,omitempty"`
	Status      MovementStatus  `gorm:"type:varchar(16);not null;default:'pending';index" json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
