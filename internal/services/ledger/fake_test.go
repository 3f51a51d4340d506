package ledger

import (
	"context"
	"sort"
	"sync"

	"lipa/internal/models"
	"lipa/internal/repositories"

	"github.com/shopspring/decimal"
)

// fakeLedger is an in-memory LedgerRepository. ExecuteInTransaction runs the
// closure against a copy of the state and swaps it in only on success, so a
// failing operation rolls back completely. Transactions serialize on one
// lock, standing in for the row locks the real store takes with
// SELECT ... FOR UPDATE.
type fakeLedger struct {
	mu     *sync.Mutex
	state  *fakeState
	failOn map[string]error
}

type fakeState struct {
	users        map[uint]*models.User
	transactions map[uint]*models.Transaction
	deposits     map[string]*models.Deposit
	transfers    map[uint]*models.Transfer
	withdrawals  map[uint]*models.Withdrawal
	exchanges    []*models.CoinExchange
	rewards      map[uint]*models.ReferralReward
	nextID       uint
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		mu: &sync.Mutex{},
		state: &fakeState{
			users:        make(map[uint]*models.User),
			transactions: make(map[uint]*models.Transaction),
			deposits:     make(map[string]*models.Deposit),
			transfers:    make(map[uint]*models.Transfer),
			withdrawals:  make(map[uint]*models.Withdrawal),
			rewards:      make(map[uint]*models.ReferralReward),
		},
		failOn: make(map[string]error),
	}
}

func (s *fakeState) clone() *fakeState {
	c := &fakeState{
		users:        make(map[uint]*models.User, len(s.users)),
		transactions: make(map[uint]*models.Transaction, len(s.transactions)),
		deposits:     make(map[string]*models.Deposit, len(s.deposits)),
		transfers:    make(map[uint]*models.Transfer, len(s.transfers)),
		withdrawals:  make(map[uint]*models.Withdrawal, len(s.withdrawals)),
		exchanges:    make([]*models.CoinExchange, len(s.exchanges)),
		rewards:      make(map[uint]*models.ReferralReward, len(s.rewards)),
		nextID:       s.nextID,
	}
	for id, u := range s.users {
		cp := *u
		c.users[id] = &cp
	}
	for id, t := range s.transactions {
		cp := *t
		c.transactions[id] = &cp
	}
	for ref, d := range s.deposits {
		cp := *d
		c.deposits[ref] = &cp
	}
	for id, t := range s.transfers {
		cp := *t
		c.transfers[id] = &cp
	}
	for id, w := range s.withdrawals {
		cp := *w
		c.withdrawals[id] = &cp
	}
	for i, e := range s.exchanges {
		cp := *e
		c.exchanges[i] = &cp
	}
	for id, r := range s.rewards {
		cp := *r
		c.rewards[id] = &cp
	}
	return c
}

func (f *fakeLedger) addUser(u *models.User) {
	f.state.users[u.ID] = u
}

func (f *fakeLedger) user(id uint) *models.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state.users[id]
}

func (f *fakeLedger) fail(method string) error {
	return f.failOn[method]
}

func (f *fakeLedger) ExecuteInTransaction(_ context.Context, fn func(repositories.LedgerRepository) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	work := f.state.clone()
	if err := fn(&fakeLedger{state: work, failOn: f.failOn}); err != nil {
		return err
	}
	f.state = work
	return nil
}

func (f *fakeLedger) GetUserForUpdate(_ context.Context, id uint) (*models.User, error) {
	if err := f.fail("GetUserForUpdate"); err != nil {
		return nil, err
	}
	u, ok := f.state.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeLedger) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	if err := f.fail("GetUserByEmail"); err != nil {
		return nil, err
	}
	for _, u := range f.state.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrUserNotFound
}

func (f *fakeLedger) UpdateBalances(_ context.Context, userID uint, balance decimal.Decimal, coins int64) error {
	if err := f.fail("UpdateBalances"); err != nil {
		return err
	}
	u, ok := f.state.users[userID]
	if !ok {
		return ErrUserNotFound
	}
	u.Balance = balance
	u.Coins = coins
	return nil
}

func (f *fakeLedger) CreateTransaction(_ context.Context, txn *models.Transaction) error {
	if err := f.fail("CreateTransaction"); err != nil {
		return err
	}
	f.state.nextID++
	txn.ID = f.state.nextID
	cp := *txn
	f.state.transactions[txn.ID] = &cp
	return nil
}

func (f *fakeLedger) GetTransactionForUpdate(_ context.Context, id uint) (*models.Transaction, error) {
	if err := f.fail("GetTransactionForUpdate"); err != nil {
		return nil, err
	}
	t, ok := f.state.transactions[id]
	if !ok {
		return nil, ErrTransactionNotFound
	}
	cp := *t
	return &cp, nil
}

func (f *fakeLedger) UpdateTransaction(_ context.Context, txn *models.Transaction) error {
	if err := f.fail("UpdateTransaction"); err != nil {
		return err
	}
	cp := *txn
	f.state.transactions[txn.ID] = &cp
	return nil
}

func (f *fakeLedger) ListTransactionsByUser(_ context.Context, userID uint, limit, offset int) ([]models.Transaction, int64, error) {
	var out []models.Transaction
	for _, t := range f.state.transactions {
		if t.UserID == userID {
			out = append(out, *t)
		}
	}
	sortByIDDesc(out, func(t models.Transaction) uint { return t.ID })
	total := int64(len(out))
	return page(out, limit, offset), total, nil
}

func (f *fakeLedger) ListTransactionsByStatus(_ context.Context, status models.MovementStatus, limit, offset int) ([]models.Transaction, int64, error) {
	var out []models.Transaction
	for _, t := range f.state.transactions {
		if t.Status == status {
			out = append(out, *t)
		}
	}
	sortByID(out, func(t models.Transaction) uint { return t.ID })
	total := int64(len(out))
	return page(out, limit, offset), total, nil
}

func (f *fakeLedger) CreateDeposit(_ context.Context, deposit *models.Deposit) error {
	if err := f.fail("CreateDeposit"); err != nil {
		return err
	}
	if _, exists := f.state.deposits[deposit.PaymentReference]; exists {
		return ErrAlreadyProcessed
	}
	f.state.nextID++
	deposit.ID = f.state.nextID
	cp := *deposit
	f.state.deposits[deposit.PaymentReference] = &cp
	return nil
}

func (f *fakeLedger) deposit(reference string) (*models.Deposit, error) {
	d, ok := f.state.deposits[reference]
	if !ok {
		return nil, ErrDepositNotFound
	}
	cp := *d
	return &cp, nil
}

func (f *fakeLedger) GetDepositByReferenceForUpdate(_ context.Context, reference string) (*models.Deposit, error) {
	if err := f.fail("GetDepositByReferenceForUpdate"); err != nil {
		return nil, err
	}
	return f.deposit(reference)
}

func (f *fakeLedger) UpdateDeposit(_ context.Context, deposit *models.Deposit) error {
	if err := f.fail("UpdateDeposit"); err != nil {
		return err
	}
	cp := *deposit
	f.state.deposits[deposit.PaymentReference] = &cp
	return nil
}

func (f *fakeLedger) ListDepositsByUser(_ context.Context, userID uint, limit, offset int) ([]models.Deposit, int64, error) {
	var out []models.Deposit
	for _, d := range f.state.deposits {
		if d.UserID == userID {
			out = append(out, *d)
		}
	}
	sortByIDDesc(out, func(d models.Deposit) uint { return d.ID })
	total := int64(len(out))
	return page(out, limit, offset), total, nil
}

func (f *fakeLedger) CreateTransfer(_ context.Context, transfer *models.Transfer) error {
	if err := f.fail("CreateTransfer"); err != nil {
		return err
	}
	f.state.nextID++
	transfer.ID = f.state.nextID
	cp := *transfer
	f.state.transfers[transfer.ID] = &cp
	return nil
}

func (f *fakeLedger) GetTransferForUpdate(_ context.Context, id uint) (*models.Transfer, error) {
	if err := f.fail("GetTransferForUpdate"); err != nil {
		return nil, err
	}
	t, ok := f.state.transfers[id]
	if !ok {
		return nil, ErrTransferNotFound
	}
	cp := *t
	return &cp, nil
}

func (f *fakeLedger) UpdateTransfer(_ context.Context, transfer *models.Transfer) error {
	if err := f.fail("UpdateTransfer"); err != nil {
		return err
	}
	cp := *transfer
	f.state.transfers[transfer.ID] = &cp
	return nil
}

func (f *fakeLedger) ListTransfersByUser(_ context.Context, userID uint, limit, offset int) ([]models.Transfer, int64, error) {
	var out []models.Transfer
	for _, t := range f.state.transfers {
		if t.FromUserID == userID || t.ToUserID == userID {
			out = append(out, *t)
		}
	}
	sortByIDDesc(out, func(t models.Transfer) uint { return t.ID })
	total := int64(len(out))
	return page(out, limit, offset), total, nil
}

func (f *fakeLedger) ListTransfersByStatus(_ context.Context, status models.MovementStatus, limit, offset int) ([]models.Transfer, int64, error) {
	var out []models.Transfer
	for _, t := range f.state.transfers {
		if t.Status == status {
			out = append(out, *t)
		}
	}
	sortByID(out, func(t models.Transfer) uint { return t.ID })
	total := int64(len(out))
	return page(out, limit, offset), total, nil
}

func (f *fakeLedger) CreateWithdrawal(_ context.Context, withdrawal *models.Withdrawal) error {
	if err := f.fail("CreateWithdrawal"); err != nil {
		return err
	}
	f.state.nextID++
	withdrawal.ID = f.state.nextID
	cp := *withdrawal
	f.state.withdrawals[withdrawal.ID] = &cp
	return nil
}

func (f *fakeLedger) GetWithdrawalForUpdate(_ context.Context, id uint) (*models.Withdrawal, error) {
	if err := f.fail("GetWithdrawalForUpdate"); err != nil {
		return nil, err
	}
	w, ok := f.state.withdrawals[id]
	if !ok {
		return nil, ErrWithdrawalNotFound
	}
	cp := *w
	return &cp, nil
}

func (f *fakeLedger) UpdateWithdrawal(_ context.Context, withdrawal *models.Withdrawal) error {
	if err := f.fail("UpdateWithdrawal"); err != nil {
		return err
	}
	cp := *withdrawal
	f.state.withdrawals[withdrawal.ID] = &cp
	return nil
}

func (f *fakeLedger) ListWithdrawalsByUser(_ context.Context, userID uint, limit, offset int) ([]models.Withdrawal, int64, error) {
	var out []models.Withdrawal
	for _, w := range f.state.withdrawals {
		if w.UserID == userID {
			out = append(out, *w)
		}
	}
	sortByIDDesc(out, func(w models.Withdrawal) uint { return w.ID })
	total := int64(len(out))
	return page(out, limit, offset), total, nil
}

func (f *fakeLedger) ListWithdrawalsByStatus(_ context.Context, status models.MovementStatus, limit, offset int) ([]models.Withdrawal, int64, error) {
	var out []models.Withdrawal
	for _, w := range f.state.withdrawals {
		if w.Status == status {
			out = append(out, *w)
		}
	}
	sortByID(out, func(w models.Withdrawal) uint { return w.ID })
	total := int64(len(out))
	return page(out, limit, offset), total, nil
}

func (f *fakeLedger) CreateCoinExchange(_ context.Context, exchange *models.CoinExchange) error {
	if err := f.fail("CreateCoinExchange"); err != nil {
		return err
	}
	f.state.nextID++
	exchange.ID = f.state.nextID
	cp := *exchange
	f.state.exchanges = append(f.state.exchanges, &cp)
	return nil
}

func (f *fakeLedger) ListCoinExchangesByUser(_ context.Context, userID uint, limit, offset int) ([]models.CoinExchange, int64, error) {
	var out []models.CoinExchange
	for _, e := range f.state.exchanges {
		if e.UserID == userID {
			out = append(out, *e)
		}
	}
	sortByIDDesc(out, func(e models.CoinExchange) uint { return e.ID })
	total := int64(len(out))
	return page(out, limit, offset), total, nil
}

func (f *fakeLedger) CreateReferralReward(_ context.Context, reward *models.ReferralReward) error {
	if err := f.fail("CreateReferralReward"); err != nil {
		return err
	}
	if _, exists := f.state.rewards[reward.RedeemerID]; exists {
		return ErrAlreadyProcessed
	}
	f.state.nextID++
	reward.ID = f.state.nextID
	cp := *reward
	f.state.rewards[reward.RedeemerID] = &cp
	return nil
}

// fakeCatalog implements ProductReader over a fixed product map.
type fakeCatalog struct {
	products map[uint]*models.Product
}

func (f *fakeCatalog) GetActiveProduct(_ context.Context, id uint) (*models.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	if !p.IsActive {
		return nil, ErrProductInactive
	}
	cp := *p
	return &cp, nil
}

func sortByID[T any](items []T, id func(T) uint) {
	sort.Slice(items, func(i, j int) bool { return id(items[i]) < id(items[j]) })
}

// sortByIDDesc matches the newest-first order the real store uses for user
// history listings.
func sortByIDDesc[T any](items []T, id func(T) uint) {
	sort.Slice(items, func(i, j int) bool { return id(items[i]) > id(items[j]) })
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
