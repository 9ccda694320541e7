package service

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Oddscorp-AI/banking-transfer/model"
	"github.com/Oddscorp-AI/banking-transfer/repository"
)

// fakeLedger is an in-memory store used for property-style tests of the
// engine. It does not model locks; the engine's tx boundary is still driven
// through sqlmock.
type fakeLedger struct {
	mu       sync.Mutex
	nextID   int64
	accounts map[string]*model.Account
	entries  []*model.Transaction
	settings map[string]decimal.Decimal
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		accounts: make(map[string]*model.Account),
		settings: make(map[string]decimal.Decimal),
	}
}

func (f *fakeLedger) open(number, citizenID string, balance int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	f.accounts[number] = &model.Account{ID: f.nextID, AccountNumber: number, CitizenID: citizenID, Balance: decimal.NewFromInt(balance)}
}

func (f *fakeLedger) balance(number string) decimal.Decimal {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.accounts[number].Balance
}

func (f *fakeLedger) entriesFor(number string) []*model.Transaction {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.accounts[number].ID
	var out []*model.Transaction
	for _, e := range f.entries {
		if e.AccountID == id {
			out = append(out, e)
		}
	}
	return out
}

func (f *fakeLedger) Create(_ context.Context, _ repository.Querier, account *model.Account) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.accounts[account.AccountNumber]; ok {
		return repository.ErrDuplicateAccountNumber
	}
	f.nextID++
	account.ID = f.nextID
	cp := *account
	f.accounts[account.AccountNumber] = &cp
	return nil
}

func (f *fakeLedger) find(number string) (*model.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	acc, ok := f.accounts[number]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *acc
	return &cp, nil
}

func (f *fakeLedger) FindByNumber(_ context.Context, _ repository.Querier, number string) (*model.Account, error) {
	return f.find(number)
}

func (f *fakeLedger) FindByNumberForUpdate(_ context.Context, _ repository.Querier, number string) (*model.Account, error) {
	return f.find(number)
}

func (f *fakeLedger) ExistsByNumber(_ context.Context, _ repository.Querier, number string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.accounts[number]
	return ok, nil
}

func (f *fakeLedger) Save(_ context.Context, _ repository.Querier, account *model.Account) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored := f.accounts[account.AccountNumber]
	if stored.Version != account.Version {
		return repository.ErrConcurrentModification
	}
	account.Version++
	cp := *account
	f.accounts[account.AccountNumber] = &cp
	return nil
}

func (f *fakeLedger) Append(_ context.Context, _ repository.Querier, tr *model.Transaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	tr.ID = f.nextID
	cp := *tr
	f.entries = append(f.entries, &cp)
	return nil
}

func (f *fakeLedger) SumByTypeBetween(_ context.Context, _ repository.Querier, accountID int64, txType model.TransactionType, start, end time.Time) (decimal.Decimal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := decimal.Zero
	for _, e := range f.entries {
		if e.AccountID == accountID && e.Type == txType && !e.Timestamp.Before(start) && e.Timestamp.Before(end) {
			total = total.Add(e.Amount)
		}
	}
	return total, nil
}

func (f *fakeLedger) ListBetween(_ context.Context, _ repository.Querier, accountID int64, start, end time.Time) ([]*model.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*model.Transaction, 0)
	for _, e := range f.entries {
		if e.AccountID == accountID && !e.Timestamp.Before(start) && e.Timestamp.Before(end) {
			cp := *e
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

func (f *fakeLedger) Get(_ context.Context, _ repository.Querier, key string) (decimal.Decimal, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.settings[key]
	return v, ok, nil
}
