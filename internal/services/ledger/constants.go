package ledger

// Movement kinds as recorded in metrics and logs.
const (
	KindPurchase     = "purchase"
	KindDeposit      = "deposit"
	KindTransfer     = "transfer"
	KindWithdrawal   = "withdrawal"
	KindCoinExchange = "coin_exchange"
	KindReferral     = "referral"
)

// Defaults applied by NewService when Config fields are zero.
const (
	DefaultCoinExchangeRate = "0.1"
	DefaultMinExchangeCoins = 100
	DefaultReferrerCoins    = 200
	DefaultRedeemerCoins    = 100
)

// One coin is earned per this much spent on a purchase, rounded down.
const coinsEarnRate = 100

// Deposit payment references look like DEP-<user>-<uuid>.
const paymentReferencePrefix = "DEP"
