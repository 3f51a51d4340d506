package ledger

import (
	"lipa/internal/models"

	"github.com/shopspring/decimal"
)

// The balance guard. Each check runs over an account snapshot read under a
// row lock, inside the same transaction as the mutation it protects, so a
// passing check cannot go stale before commit. Checks short-circuit on the
// first failing rule.

func checkAccount(user *models.User) error {
	if user == nil {
		return ErrUserNotFound
	}
	if user.Blocked {
		return ErrAccountBlocked
	}
	return nil
}

// checkDebit applies the spending rules in order: existence, blocked flag,
// the KYC gate when the operation demands it, then funds.
func checkDebit(user *models.User, amount decimal.Decimal, requireKYC bool) error {
	if err := checkAccount(user); err != nil {
		return err
	}
	if requireKYC && !user.KYCVerified() {
		return ErrKYCRequired
	}
	if user.Balance.LessThan(amount) {
		return ErrInsufficientBalance
	}
	return nil
}

// checkRecipient runs after the sender-side rules have passed.
func checkRecipient(sender, recipient *models.User) error {
	if recipient == nil {
		return ErrRecipientNotFound
	}
	if recipient.Blocked {
		return ErrRecipientBlocked
	}
	if recipient.ID == sender.ID {
		return ErrSelfOperation
	}
	return nil
}

// checkCoinExchange applies the coin rules in order: existence, blocked
// flag, coin funds, then the minimum exchange size.
func checkCoinExchange(user *models.User, coins, minimum int64) error {
	if err := checkAccount(user); err != nil {
		return err
	}
	if user.Coins < coins {
		return ErrInsufficientCoins
	}
	if coins < minimum {
		return ErrBelowMinimum
	}
	return nil
}
