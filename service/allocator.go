package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"math/big"

	"github.com/Oddscorp-AI/banking-transfer/logger"
	"github.com/Oddscorp-AI/banking-transfer/repository"
)

// AccountNumberAllocator hands out fixed-width, zero-padded numeric account
// numbers drawn from a cryptographically strong source. Candidates already
// assigned in the store are redrawn, up to maxAttempts times.
type AccountNumberAllocator struct {
	q           repository.Querier
	repo        repository.IAccountRepository
	random      io.Reader
	length      int
	maxAttempts int
	upper       *big.Int
}

func NewAccountNumberAllocator(q repository.Querier, repo repository.IAccountRepository, length, maxAttempts int) *AccountNumberAllocator {
	return newAccountNumberAllocator(q, repo, rand.Reader, length, maxAttempts)
}

func newAccountNumberAllocator(q repository.Querier, repo repository.IAccountRepository, random io.Reader, length, maxAttempts int) *AccountNumberAllocator {
	if length <= 0 {
		length = 7
	}
	// int64 formatting below holds at most 18 full digits.
	if length > 18 {
		length = 18
	}
	if maxAttempts <= 0 {
		maxAttempts = 1
	}
	return &AccountNumberAllocator{
		q:           q,
		repo:        repo,
		random:      random,
		length:      length,
		maxAttempts: maxAttempts,
		upper:       new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(length)), nil),
	}
}

func (a *AccountNumberAllocator) Allocate(ctx context.Context) (string, error) {
	for attempt := 1; attempt <= a.maxAttempts; attempt++ {
		n, err := rand.Int(a.random, a.upper)
		if err != nil {
			return "", fmt.Errorf("could not read random source: %w", err)
		}
		candidate := fmt.Sprintf("%0*d", a.length, n.Int64())

		exists, err := a.repo.ExistsByNumber(ctx, a.q, candidate)
		if err != nil {
			return "", fmt.Errorf("could not check account number: %w", err)
		}
		if !exists {
			return candidate, nil
		}
		logger.Log.WithField("attempt", attempt).Debug("Account number collision, drawing again")
	}
	return "", ErrAllocationExhausted
}
