package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	DepositMethodMobileMoney  = "mobile_money"
	DepositMethodBankTransfer = "bank_transfer"
	DepositMethodCard         = "card"
)

// Deposit is a top-up movement. No balance moves at creation; the credit is
// applied once, when the gateway callback settles the row as completed.
// PaymentReference is the idempotency key the gateway echoes back.
type Deposit struct {
	ID               uint            `gorm:"primarykey" json:"id"`
	UserID           uint            `gorm:"not null;index" json:"user_id"`
	Amount           decimal.Decimal `gorm:"type:numeric(20,2);not null" json:"amount"`
	Method           string          `gorm:"not null" json:"method"`
	PaymentReference string          `gorm:"uniqueIndex;not null" json:"payment_reference"`
	Status           MovementStatus  `gorm:"type:varchar(16);not null;default:'pending';index" json:"status"`
	Metadata         JSON            `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// ValidDepositMethod reports whether method names a supported funding channel.
func ValidDepositMethod(method string) bool {
	switch method {
	case DepositMethodMobileMoney, DepositMethodBankTransfer, DepositMethodCard:
		return true
	}
	return false
}
