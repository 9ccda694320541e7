package service

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"github.com/Oddscorp-AI/banking-transfer/events"
	"github.com/Oddscorp-AI/banking-transfer/model"
	"github.com/Oddscorp-AI/banking-transfer/repository"
)

// MockAccountRepository is a mock for IAccountRepository.
type MockAccountRepository struct{ mock.Mock }

func (m *MockAccountRepository) Create(ctx context.Context, q repository.Querier, account *model.Account) error {
	args := m.Called(ctx, q, account)
	return args.Error(0)
}

func (m *MockAccountRepository) FindByNumber(ctx context.Context, q repository.Querier, number string) (*model.Account, error) {
	args := m.Called(ctx, q, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Account), args.Error(1)
}

func (m *MockAccountRepository) FindByNumberForUpdate(ctx context.Context, q repository.Querier, number string) (*model.Account, error) {
	args := m.Called(ctx, q, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Account), args.Error(1)
}

func (m *MockAccountRepository) ExistsByNumber(ctx context.Context, q repository.Querier, number string) (bool, error) {
	args := m.Called(ctx, q, number)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccountRepository) Save(ctx context.Context, q repository.Querier, account *model.Account) error {
	args := m.Called(ctx, q, account)
	return args.Error(0)
}

// MockTransactionRepository is a mock for ITransactionRepository.
type MockTransactionRepository struct{ mock.Mock }

func (m *MockTransactionRepository) Append(ctx context.Context, q repository.Querier, tr *model.Transaction) error {
	args := m.Called(ctx, q, tr)
	return args.Error(0)
}

func (m *MockTransactionRepository) SumByTypeBetween(ctx context.Context, q repository.Querier, accountID int64, txType model.TransactionType, start, end time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, q, accountID, txType, start, end)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockTransactionRepository) ListBetween(ctx context.Context, q repository.Querier, accountID int64, start, end time.Time) ([]*model.Transaction, error) {
	args := m.Called(ctx, q, accountID, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Transaction), args.Error(1)
}

// MockSettingRepository is a mock for ISettingRepository.
type MockSettingRepository struct{ mock.Mock }

func (m *MockSettingRepository) Get(ctx context.Context, q repository.Querier, key string) (decimal.Decimal, bool, error) {
	args := m.Called(ctx, q, key)
	return args.Get(0).(decimal.Decimal), args.Bool(1), args.Error(2)
}

// MockUserRepository is a mock for IUserRepository.
type MockUserRepository struct{ mock.Mock }

func (m *MockUserRepository) CreateUser(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetUserByEmail(ctx context.Context, q repository.Querier, email string) (*model.User, error) {
	args := m.Called(ctx, q, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmailOrCitizenID(ctx context.Context, email, citizenID string) (bool, error) {
	args := m.Called(ctx, email, citizenID)
	return args.Bool(0), args.Error(1)
}

// recordingPublisher captures published ledger events.
type recordingPublisher struct {
	mu      sync.Mutex
	events  []events.LedgerEntryRecorded
	ctxErrs []error
}

func (p *recordingPublisher) Publish(ctx context.Context, evs ...events.LedgerEntryRecorded) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evs...)
	p.ctxErrs = append(p.ctxErrs, ctx.Err())
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}

const (
	testPin      = "123456"
	aliceEmail   = "alice@example.com"
	aliceCitizen = "1111111111111"
	bobCitizen   = "2222222222222"
)

// mustHash hashes with the minimum bcrypt cost to keep tests fast.
func mustHash(secret string) string {
	h, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	return string(h)
}

var testPinHash = mustHash(testPin)

func alice() *model.User {
	return &model.User{ID: 1, Email: aliceEmail, CitizenID: aliceCitizen, Pin: testPinHash, Role: model.RoleCustomer}
}
