/*
Package ledger implements the wallet ledger and money movement engine.

Every balance or coin mutation in the application goes through this package.
An operation validates the account under a row lock, writes a movement
record, and applies the balance effect, all inside one database transaction,
so the books always reconcile: the wallet state of an account equals the
replay of its settled movements.

Movement creation:
  - CreatePurchase debits the product price and opens a pending purchase
  - CreateDeposit opens a pending deposit; nothing moves until the callback
  - CreateTransfer debits the sender and opens a pending transfer
  - CreateWithdrawal holds the payout amount and opens a pending withdrawal
  - ExchangeCoins swaps coins for balance synchronously
  - AwardReferralCoins credits both sides of a referral redemption

Status transitions:
  - ApplyDepositCallback settles a deposit from a gateway callback
  - ApplyTransactionStatus settles a purchase after fulfilment
  - ApplyTransferStatus credits the recipient or refunds the sender
  - ApplyWithdrawalStatus releases or refunds the payout hold

Transitions are one-way: a movement leaves pending exactly once, and the
paired balance effect is applied exactly once with it. Replayed deposit
callbacks fail with ErrAlreadyProcessed; any other transition attempt on a
settled movement fails with ErrInvalidState.

Usage:

	svc := ledger.NewService(repo, catalog, cache, ledger.Config{}, nil)

	dep, err := svc.CreateDeposit(ctx, userID, amount, models.DepositMethodMobileMoney)
	...
	dep, err = svc.ApplyDepositCallback(ctx, dep.PaymentReference, "success")

Configuration:

	config := ledger.Config{
	    CoinExchangeRate: decimal.RequireFromString("0.1"),
	    MinExchangeCoins: 100,
	}

Zero fields fall back to the package defaults.
*/
package ledger
