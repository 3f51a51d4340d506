package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CoinExchange converts loyalty coins into wallet balance. The swap is
// synchronous, so rows are written already completed. ExchangeRate is the
// rate snapshot used for this exchange; later rate changes never touch it.
type CoinExchange struct {
	ID              uint            `gorm:"primarykey" json:"id"`
	UserID          uint            `gorm:"not null;index" json:"user_id"`
	CoinsUsed       int64           `gorm:"not null" json:"coins_used"`
	BalanceReceived decimal.Decimal `gorm:"type:numeric(20,2);not null" json:"balance_received"`
	ExchangeRate    decimal.Decimal `gorm:"type:numeric(20,6);not null" json:"exchange_rate"`
	Status          MovementStatus  `gorm:"type:varchar(16);not null;default:'completed'" json:"status"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}
