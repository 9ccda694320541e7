package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/Oddscorp-AI/banking-transfer/model"
	"github.com/Oddscorp-AI/banking-transfer/service"
)

type MockAccountService struct{ mock.Mock }

func (m *MockAccountService) CreateAccount(ctx context.Context, req model.CreateAccountRequest) (*model.Account, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Account), args.Error(1)
}

func (m *MockAccountService) GetAccountForUser(ctx context.Context, accountNumber, email string) (*model.Account, error) {
	args := m.Called(ctx, accountNumber, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Account), args.Error(1)
}

type MockLedgerService struct{ mock.Mock }

func (m *MockLedgerService) Deposit(ctx context.Context, accountNumber string, amount decimal.Decimal) (*model.Account, error) {
	args := m.Called(ctx, accountNumber, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Account), args.Error(1)
}

func (m *MockLedgerService) Transfer(ctx context.Context, cmd service.TransferCommand) (*model.Account, error) {
	args := m.Called(ctx, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Account), args.Error(1)
}

type MockStatementService struct{ mock.Mock }

func (m *MockStatementService) Statement(ctx context.Context, accountNumber, email, pin, month string) ([]model.StatementEntry, error) {
	args := m.Called(ctx, accountNumber, email, pin, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.StatementEntry), args.Error(1)
}

type MockRegistrar struct{ mock.Mock }

func (m *MockRegistrar) Register(ctx context.Context, req model.RegisterRequest) (*model.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

type MockAuthenticator struct{ mock.Mock }

func (m *MockAuthenticator) Login(ctx context.Context, email, password string, role model.Role) (string, error) {
	args := m.Called(ctx, email, password, role)
	return args.String(0), args.Error(1)
}

const (
	customerEmail = "alice@example.com"
	tellerEmail   = "teller@bank.example"
)

// newRequest builds a request as it looks after AuthMiddleware and the mux
// have run: identity in the context and the account number path value set.
func newRequest(method, target, body, email string, role model.Role, accountNumber string) *http.Request {
	r := httptest.NewRequest(method, target, strings.NewReader(body))
	if email != "" {
		ctx := context.WithValue(r.Context(), UserEmailKey, email)
		ctx = context.WithValue(ctx, UserRoleKey, role)
		r = r.WithContext(ctx)
	}
	if accountNumber != "" {
		r.SetPathValue("accountNumber", accountNumber)
	}
	return r
}
