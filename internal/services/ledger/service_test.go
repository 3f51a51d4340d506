package ledger

import (
	"context"
	"errors"
	"sync"
	"testing"

	"lipa/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertAmount(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, got.Equal(dec(want)), "want %s, got %s", want, got)
}

func testProduct(id uint, price string, active bool) *models.Product {
	p := &models.Product{
		SKU:      "SKU",
		Name:     "Test Product",
		Kind:     models.ProductKindAirtime,
		Price:    dec(price),
		IsActive: active,
	}
	p.ID = id
	return p
}

func newTestEngine(repo *fakeLedger, catalog *fakeCatalog, config Config) Service {
	if catalog == nil {
		catalog = &fakeCatalog{products: map[uint]*models.Product{}}
	}
	return NewService(repo, catalog, nil, config, nil)
}

func TestCreatePurchase(t *testing.T) {
	ctx := context.Background()

	t.Run("debits price and opens a pending movement", func(t *testing.T) {
		repo := newFakeLedger()
		repo.addUser(activeUser(1, "500.00", 0))
		catalog := &fakeCatalog{products: map[uint]*models.Product{
			10: testProduct(10, "120.00", true),
		}}
		svc := newTestEngine(repo, catalog, Config{})

		txn, err := svc.CreatePurchase(ctx, 1, 10, "254700000001")
		require.NoError(t, err)

		assert.Equal(t, models.StatusPending, txn.Status)
		assertAmount(t, "120.00", txn.Amount)
		assert.Equal(t, int64(1), txn.CoinsEarned)
		assert.Equal(t, "254700000001", txn.TargetID)

		user := repo.user(1)
		assertAmount(t, "380.00", user.Balance)
		assert.Equal(t, int64(0), user.Coins, "coins are only credited on completion")

		stored := repo.state.transactions[txn.ID]
		require.NotNil(t, stored)
		assert.Equal(t, models.StatusPending, stored.Status)
	})

	t.Run("coins earned round down", func(t *testing.T) {
		repo := newFakeLedger()
		repo.addUser(activeUser(1, "1000.00", 0))
		catalog := &fakeCatalog{products: map[uint]*models.Product{
			10: testProduct(10, "250.50", true),
			11: testProduct(11, "99.99", true),
		}}
		svc := newTestEngine(repo, catalog, Config{})

		txn, err := svc.CreatePurchase(ctx, 1, 10, "target")
		require.NoError(t, err)
		assert.Equal(t, int64(2), txn.CoinsEarned)

		txn, err = svc.CreatePurchase(ctx, 1, 11, "target")
		require.NoError(t, err)
		assert.Equal(t, int64(0), txn.CoinsEarned)
	})

	t.Run("insufficient balance", func(t *testing.T) {
		repo := newFakeLedger()
		repo.addUser(activeUser(1, "50.00", 0))
		catalog := &fakeCatalog{products: map[uint]*models.Product{
			10: testProduct(10, "120.00", true),
		}}
		svc := newTestEngine(repo, catalog, Config{})

		_, err := svc.CreatePurchase(ctx, 1, 10, "target")
		assert.ErrorIs(t, err, ErrInsufficientBalance)
		assertAmount(t, "50.00", repo.user(1).Balance)
		assert.Empty(t, repo.state.transactions)
	})

	t.Run("blocked account", func(t *testing.T) {
		repo := newFakeLedger()
		blocked := activeUser(1, "500.00", 0)
		blocked.Blocked = true
		repo.addUser(blocked)
		catalog := &fakeCatalog{products: map[uint]*models.Product{
			10: testProduct(10, "120.00", true),
		}}
		svc := newTestEngine(repo, catalog, Config{})

		_, err := svc.CreatePurchase(ctx, 1, 10, "target")
		assert.ErrorIs(t, err, ErrAccountBlocked)
	})

	t.Run("inactive product", func(t *testing.T) {
		repo := newFakeLedger()
		repo.addUser(activeUser(1, "500.00", 0))
		catalog := &fakeCatalog{products: map[uint]*models.Product{
			10: testProduct(10, "120.00", false),
		}}
		svc := newTestEngine(repo, catalog, Config{})

		_, err := svc.CreatePurchase(ctx, 1, 10, "target")
		assert.ErrorIs(t, err, ErrProductInactive)
	})

	t.Run("unknown product", func(t *testing.T) {
		repo := newFakeLedger()
		repo.addUser(activeUser(1, "500.00", 0))
		svc := newTestEngine(repo, nil, Config{})

		_, err := svc.CreatePurchase(ctx, 1, 99, "target")
		assert.ErrorIs(t, err, ErrProductNotFound)
	})

	t.Run("storage failure rolls back the debit", func(t *testing.T) {
		repo := newFakeLedger()
		repo.addUser(activeUser(1, "500.00", 0))
		repo.failOn["CreateTransaction"] = errors.New("insert failed")
		catalog := &fakeCatalog{products: map[uint]*models.Product{
			10: testProduct(10, "120.00", true),
		}}
		svc := newTestEngine(repo, catalog, Config{})

		_, err := svc.CreatePurchase(ctx, 1, 10, "target")
		require.Error(t, err)
		assertAmount(t, "500.00", repo.user(1).Balance)
		assert.Empty(t, repo.state.transactions)
	})

	t.Run("failed balance write keeps the movement out", func(t *testing.T) {
		repo := newFakeLedger()
		repo.addUser(activeUser(1, "500.00", 0))
		repo.failOn["UpdateBalances"] = errors.New("write failed")
		catalog := &fakeCatalog{products: map[uint]*models.Product{
			10: testProduct(10, "120.00", true),
		}}
		svc := newTestEngine(repo, catalog, Config{})

		_, err := svc.CreatePurchase(ctx, 1, 10, "target")
		require.Error(t, err)
		assert.Empty(t, repo.state.transactions, "movement must not outlive its balance effect")
	})
}

func TestCreatePurchase_ConcurrentDebits(t *testing.T) {
	repo := newFakeLedger()
	repo.addUser(activeUser(1, "100.00", 0))
	catalog := &fakeCatalog{products: map[uint]*models.Product{
		10: testProduct(10, "30.00", true),
	}}
	svc := newTestEngine(repo, catalog, Config{})

	const attempts = 5
	errs := make([]error, attempts)

	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.CreatePurchase(context.Background(), 1, 10, "target")
		}(i)
	}
	wg.Wait()

	var succeeded, rejected int
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, ErrInsufficientBalance):
			rejected++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	// 100.00 funds exactly three 30.00 purchases no matter the interleaving.
	assert.Equal(t, 3, succeeded)
	assert.Equal(t, 2, rejected)
	assertAmount(t, "10.00", repo.user(1).Balance)
	assert.Len(t, repo.state.transactions, 3)
}

func TestCreateDeposit(t *testing.T) {
	ctx := context.Background()

	t.Run("opens pending without moving money", func(t *testing.T) {
		repo := newFakeLedger()
		repo.addUser(activeUser(1, "100.00", 0))
		svc := newTestEngine(repo, nil, Config{})

		dep, err := svc.CreateDeposit(ctx, 1, dec("50.00"), models.DepositMethodMobileMoney)
		require.NoError(t, err)

		assert.Equal(t, models.StatusPending, dep.Status)
		assert.Regexp(t, `^DEP-1-`, dep.PaymentReference)
		assertAmount(t, "100.00", repo.user(1).Balance)
	})

	t.Run("references are unique", func(t *testing.T) {
		repo := newFakeLedger()
		repo.addUser(activeUser(1, "0.00", 0))
		svc := newTestEngine(repo, nil, Config{})

		a, err := svc.CreateDeposit(ctx, 1, dec("10.00"), models.DepositMethodCard)
		require.NoError(t, err)
		b, err := svc.CreateDeposit(ctx, 1, dec("10.00"), models.DepositMethodCard)
		require.NoError(t, err)
		assert.NotEqual(t, a.PaymentReference, b.PaymentReference)
	})

	t.Run("rejects non-positive amounts", func(t *testing.T) {
		repo := newFakeLedger()
		repo.addUser(activeUser(1, "0.00", 0))
		svc := newTestEngine(repo, nil, Config{})

		_, err := svc.CreateDeposit(ctx, 1, decimal.Zero, models.DepositMethodCard)
		assert.ErrorIs(t, err, ErrInvalidAmount)

		_, err = svc.CreateDeposit(ctx, 1, dec("-5.00"), models.DepositMethodCard)
		assert.ErrorIs(t, err, ErrInvalidAmount)
	})

	t.Run("blocked account", func(t *testing.T) {
		repo := newFakeLedger()
		blocked := activeUser(1, "0.00", 0)
		blocked.Blocked = true
		repo.addUser(blocked)
		svc := newTestEngine(repo, nil, Config{})

		_, err := svc.CreateDeposit(ctx, 1, dec("50.00"), models.DepositMethodCard)
		assert.ErrorIs(t, err, ErrAccountBlocked)
	})
}

func TestCreateTransfer(t *testing.T) {
	ctx := context.Background()

	setup := func() (*fakeLedger, Service) {
		repo := newFakeLedger()
		sender := activeUser(1, "200.00", 0)
		sender.Email = "alice@example.com"
		recipient := activeUser(2, "10.00", 0)
		recipient.Email = "bob@example.com"
		repo.addUser(sender)
		repo.addUser(recipient)
		return repo, newTestEngine(repo, nil, Config{})
	}

	t.Run("debits sender and leaves recipient untouched", func(t *testing.T) {
		repo, svc := setup()

		transfer, err := svc.CreateTransfer(ctx, 1, "bob@example.com", dec("75.00"), "rent")
		require.NoError(t, err)

		assert.Equal(t, models.StatusPending, transfer.Status)
		assert.Equal(t, uint(1), transfer.FromUserID)
		assert.Equal(t, uint(2), transfer.ToUserID)
		assertAmount(t, "125.00", repo.user(1).Balance)
		assertAmount(t, "10.00", repo.user(2).Balance)
	})

	t.Run("sender kyc gate", func(t *testing.T) {
		repo, svc := setup()
		repo.state.users[1].KYCStatus = models.KYCStatusPending

		_, err := svc.CreateTransfer(ctx, 1, "bob@example.com", dec("75.00"), "")
		assert.ErrorIs(t, err, ErrKYCRequired)
	})

	t.Run("recipient not found", func(t *testing.T) {
		_, svc := setup()

		_, err := svc.CreateTransfer(ctx, 1, "nobody@example.com", dec("75.00"), "")
		assert.ErrorIs(t, err, ErrRecipientNotFound)
	})

	t.Run("funds checked before recipient", func(t *testing.T) {
		_, svc := setup()

		_, err := svc.CreateTransfer(ctx, 1, "nobody@example.com", dec("900.00"), "")
		assert.ErrorIs(t, err, ErrInsufficientBalance)
	})

	t.Run("self transfer", func(t *testing.T) {
		_, svc := setup()

		_, err := svc.CreateTransfer(ctx, 1, "alice@example.com", dec("75.00"), "")
		assert.ErrorIs(t, err, ErrSelfOperation)
	})

	t.Run("blocked recipient leaves sender intact", func(t *testing.T) {
		repo, svc := setup()
		repo.state.users[2].Blocked = true

		_, err := svc.CreateTransfer(ctx, 1, "bob@example.com", dec("75.00"), "")
		assert.ErrorIs(t, err, ErrRecipientBlocked)
		assertAmount(t, "200.00", repo.user(1).Balance)
		assert.Empty(t, repo.state.transfers)
	})

	t.Run("rejects non-positive amounts", func(t *testing.T) {
		_, svc := setup()

		_, err := svc.CreateTransfer(ctx, 1, "bob@example.com", decimal.Zero, "")
		assert.ErrorIs(t, err, ErrInvalidAmount)
	})
}

func TestCreateWithdrawal(t *testing.T) {
	ctx := context.Background()
	bank := BankDetails{BankName: "Equity", AccountNumber: "0123456789", AccountName: "Alice W"}

	t.Run("holds the amount at creation", func(t *testing.T) {
		repo := newFakeLedger()
		repo.addUser(activeUser(1, "300.00", 0))
		svc := newTestEngine(repo, nil, Config{})

		w, err := svc.CreateWithdrawal(ctx, 1, dec("100.00"), bank)
		require.NoError(t, err)

		assert.Equal(t, models.StatusPending, w.Status)
		assert.Equal(t, "Equity", w.BankName)
		assertAmount(t, "200.00", repo.user(1).Balance)
	})

	t.Run("kyc gate", func(t *testing.T) {
		repo := newFakeLedger()
		unverified := activeUser(1, "300.00", 0)
		unverified.KYCStatus = models.KYCStatusPending
		repo.addUser(unverified)
		svc := newTestEngine(repo, nil, Config{})

		_, err := svc.CreateWithdrawal(ctx, 1, dec("100.00"), bank)
		assert.ErrorIs(t, err, ErrKYCRequired)
		assertAmount(t, "300.00", repo.user(1).Balance)
	})

	t.Run("insufficient balance", func(t *testing.T) {
		repo := newFakeLedger()
		repo.addUser(activeUser(1, "50.00", 0))
		svc := newTestEngine(repo, nil, Config{})

		_, err := svc.CreateWithdrawal(ctx, 1, dec("100.00"), bank)
		assert.ErrorIs(t, err, ErrInsufficientBalance)
	})
}

func TestExchangeCoins(t *testing.T) {
	ctx := context.Background()

	t.Run("swaps at the default rate", func(t *testing.T) {
		repo := newFakeLedger()
		repo.addUser(activeUser(1, "0.00", 200))
		svc := newTestEngine(repo, nil, Config{})

		exch, err := svc.ExchangeCoins(ctx, 1, 200)
		require.NoError(t, err)

		assert.Equal(t, models.StatusCompleted, exch.Status)
		assert.Equal(t, int64(200), exch.CoinsUsed)
		assertAmount(t, "20.00", exch.BalanceReceived)
		assertAmount(t, "0.1", exch.ExchangeRate)

		user := repo.user(1)
		assertAmount(t, "20.00", user.Balance)
		assert.Equal(t, int64(0), user.Coins)
	})

	t.Run("exchanges a large coin balance", func(t *testing.T) {
		repo := newFakeLedger()
		repo.addUser(activeUser(1, "0.00", 2500))
		svc := newTestEngine(repo, nil, Config{})

		exch, err := svc.ExchangeCoins(ctx, 1, 2500)
		require.NoError(t, err)

		assertAmount(t, "250.00", exch.BalanceReceived)
		assert.Equal(t, int64(0), repo.user(1).Coins)
		assertAmount(t, "250.00", repo.user(1).Balance)
	})

	t.Run("snapshots the configured rate", func(t *testing.T) {
		repo := newFakeLedger()
		repo.addUser(activeUser(1, "0.00", 1000))
		svc := newTestEngine(repo, nil, Config{CoinExchangeRate: dec("0.25")})

		exch, err := svc.ExchangeCoins(ctx, 1, 100)
		require.NoError(t, err)

		assertAmount(t, "25.00", exch.BalanceReceived)
		assertAmount(t, "0.25", exch.ExchangeRate)
	})

	t.Run("rate changes never touch settled rows", func(t *testing.T) {
		repo := newFakeLedger()
		repo.addUser(activeUser(1, "0.00", 1000))

		first := newTestEngine(repo, nil, Config{CoinExchangeRate: dec("0.1")})
		_, err := first.ExchangeCoins(ctx, 1, 100)
		require.NoError(t, err)

		second := newTestEngine(repo, nil, Config{CoinExchangeRate: dec("0.5")})
		_, err = second.ExchangeCoins(ctx, 1, 100)
		require.NoError(t, err)

		rows, _, err := first.ListCoinExchanges(ctx, 1, 10, 0)
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assertAmount(t, "0.5", rows[0].ExchangeRate)
		assertAmount(t, "0.1", rows[1].ExchangeRate)
	})

	t.Run("below minimum", func(t *testing.T) {
		repo := newFakeLedger()
		repo.addUser(activeUser(1, "0.00", 500))
		svc := newTestEngine(repo, nil, Config{})

		_, err := svc.ExchangeCoins(ctx, 1, 50)
		assert.ErrorIs(t, err, ErrBelowMinimum)
		assert.Equal(t, int64(500), repo.user(1).Coins)
	})

	t.Run("insufficient coins", func(t *testing.T) {
		repo := newFakeLedger()
		repo.addUser(activeUser(1, "0.00", 40))
		svc := newTestEngine(repo, nil, Config{})

		_, err := svc.ExchangeCoins(ctx, 1, 150)
		assert.ErrorIs(t, err, ErrInsufficientCoins)
	})

	t.Run("rejects non-positive coins", func(t *testing.T) {
		repo := newFakeLedger()
		repo.addUser(activeUser(1, "0.00", 500))
		svc := newTestEngine(repo, nil, Config{})

		_, err := svc.ExchangeCoins(ctx, 1, 0)
		assert.ErrorIs(t, err, ErrInvalidAmount)
	})
}

func TestAwardReferralCoins(t *testing.T) {
	ctx := context.Background()

	t.Run("credits both sides and records the reward", func(t *testing.T) {
		repo := newFakeLedger()
		repo.addUser(activeUser(1, "0.00", 10))
		repo.addUser(activeUser(2, "0.00", 0))
		svc := newTestEngine(repo, nil, Config{})

		reward, err := svc.AwardReferralCoins(ctx, ReferralAward{
			ReferrerID: 1,
			RedeemerID: 2,
			Code:       "ALICE123",
		})
		require.NoError(t, err)

		assert.Equal(t, int64(DefaultReferrerCoins), reward.ReferrerCoins)
		assert.Equal(t, int64(DefaultRedeemerCoins), reward.RedeemerCoins)
		assert.Equal(t, int64(10+DefaultReferrerCoins), repo.user(1).Coins)
		assert.Equal(t, int64(DefaultRedeemerCoins), repo.user(2).Coins)
	})

	t.Run("second redemption fails", func(t *testing.T) {
		repo := newFakeLedger()
		repo.addUser(activeUser(1, "0.00", 0))
		repo.addUser(activeUser(2, "0.00", 0))
		svc := newTestEngine(repo, nil, Config{})

		_, err := svc.AwardReferralCoins(ctx, ReferralAward{ReferrerID: 1, RedeemerID: 2, Code: "ALICE123"})
		require.NoError(t, err)

		coinsAfterFirst := repo.user(2).Coins
		_, err = svc.AwardReferralCoins(ctx, ReferralAward{ReferrerID: 1, RedeemerID: 2, Code: "ALICE123"})
		assert.ErrorIs(t, err, ErrAlreadyProcessed)
		assert.Equal(t, coinsAfterFirst, repo.user(2).Coins)
	})

	t.Run("self referral", func(t *testing.T) {
		repo := newFakeLedger()
		repo.addUser(activeUser(1, "0.00", 0))
		svc := newTestEngine(repo, nil, Config{})

		_, err := svc.AwardReferralCoins(ctx, ReferralAward{ReferrerID: 1, RedeemerID: 1, Code: "ALICE123"})
		assert.ErrorIs(t, err, ErrSelfOperation)
	})

	t.Run("explicit grant amounts", func(t *testing.T) {
		repo := newFakeLedger()
		repo.addUser(activeUser(1, "0.00", 0))
		repo.addUser(activeUser(2, "0.00", 0))
		svc := newTestEngine(repo, nil, Config{})

		reward, err := svc.AwardReferralCoins(ctx, ReferralAward{
			ReferrerID:    1,
			RedeemerID:    2,
			Code:          "ALICE123",
			ReferrerCoins: 500,
			RedeemerCoins: 250,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(500), reward.ReferrerCoins)
		assert.Equal(t, int64(500), repo.user(1).Coins)
		assert.Equal(t, int64(250), repo.user(2).Coins)
	})
}
