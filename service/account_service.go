// file: service/account_service.go

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Oddscorp-AI/banking-transfer/logger"
	"github.com/Oddscorp-AI/banking-transfer/model"
	"github.com/Oddscorp-AI/banking-transfer/repository"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// createAccountAttempts bounds retries when two openings race for the same
// freshly allocated number and the unique index rejects the loser.
const createAccountAttempts = 3

// AccountService opens accounts and serves owner-scoped account reads.
type AccountService struct {
	db         *sql.DB
	repo       repository.IAccountRepository
	allocator  *AccountNumberAllocator
	authorizer *Authorizer
	cache      *AccountCache
}

func NewAccountService(db *sql.DB, repo repository.IAccountRepository, allocator *AccountNumberAllocator, authorizer *Authorizer, cache *AccountCache) *AccountService {
	return &AccountService{
		db:         db,
		repo:       repo,
		allocator:  allocator,
		authorizer: authorizer,
		cache:      cache,
	}
}

// CreateAccount opens an account with the optional initial deposit as its balance.
func (s *AccountService) CreateAccount(ctx context.Context, req model.CreateAccountRequest) (*model.Account, error) {
	balance := decimal.Zero
	if req.InitialDeposit != nil {
		if req.InitialDeposit.IsNegative() || !fitsMoneyScale(*req.InitialDeposit) {
			return nil, ErrInvalidAmount
		}
		balance = *req.InitialDeposit
	}

	for attempt := 0; attempt < createAccountAttempts; attempt++ {
		number, err := s.allocator.Allocate(ctx)
		if err != nil {
			return nil, err
		}

		account := &model.Account{
			AccountNumber: number,
			CitizenID:     req.CitizenID,
			ThaiName:      req.ThaiName,
			EnglishName:   req.EnglishName,
			Balance:       balance,
		}
		err = s.repo.Create(ctx, s.db, account)
		if errors.Is(err, repository.ErrDuplicateAccountNumber) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("could not create account: %w", err)
		}

		logger.Log.WithFields(logrus.Fields{
			"account_number": account.AccountNumber,
			"citizen_id":     account.CitizenID,
		}).Info("Account opened")
		return account, nil
	}
	return nil, ErrAllocationExhausted
}

// GetAccountForUser returns the account if the requester owns it. The read
// takes no lock and may be served from cache.
func (s *AccountService) GetAccountForUser(ctx context.Context, accountNumber, email string) (*model.Account, error) {
	account, hit := s.cache.Get(ctx, accountNumber)
	if !hit {
		var err error
		account, err = s.repo.FindByNumber(ctx, s.db, accountNumber)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, ErrAccountNotFound
			}
			return nil, err
		}
		s.cache.Add(ctx, account)
	}

	if _, err := s.authorizer.Owns(ctx, s.db, account, email); err != nil {
		return nil, err
	}
	return account, nil
}
