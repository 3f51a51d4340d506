package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transfer is a wallet-to-wallet movement. The sender is debited at
// creation; the recipient is credited only when the transfer settles as
// completed, and the sender is refunded exactly once otherwise.
type Transfer struct {
	ID         uint            `gorm:"primarykey" json:"id"`
	FromUserID uint            `gorm:"not null;index" json:"from_user_id"`
	ToUserID   uint            `gorm:"not null;index" json:"to_user_id"`
	Amount     decimal.Decimal `gorm:"type:numeric(20,2);not null" json:"amount"`
	Note       string          `json:"note,omitempty"`
	Status     MovementStatus  `gorm:"type:varchar(16);not null;default:'pending';index" json:"status"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}
