package ledger

import (
	"lipa/internal/models"

	"github.com/shopspring/decimal"
)

// Config holds the tunable parts of the engine. Zero fields fall back to
// the package defaults in NewService.
type Config struct {
	// CoinExchangeRate is the balance credited per coin. Each exchange
	// snapshots the rate in force when it runs.
	CoinExchangeRate decimal.Decimal
	// MinExchangeCoins is the smallest coin amount accepted by ExchangeCoins.
	MinExchangeCoins int64
	// ReferrerCoins and RedeemerCoins are the default referral grants.
	ReferrerCoins int64
	RedeemerCoins int64
}

// BankDetails names the payout destination for a withdrawal.
type BankDetails struct {
	BankName      string
	AccountNumber string
	AccountName   string
}

// ReferralAward names both sides of a referral redemption. Zero coin fields
// fall back to the configured defaults.
type ReferralAward struct {
	ReferrerID    uint
	RedeemerID    uint
	Code          string
	ReferrerCoins int64
	RedeemerCoins int64
}

// MetricsCollector records ledger activity. Implementations must be safe
// for concurrent use.
type MetricsCollector interface {
	RecordMovement(kind string, amount decimal.Decimal)
	RecordTransition(kind string, status models.MovementStatus)
	RecordError(operation, errType string)
}
