package service

import (
	"errors"

	"github.com/Oddscorp-AI/banking-transfer/repository"
)

var (
	ErrInvalidAmount       = errors.New("amount is below the minimum or has more than two decimal places")
	ErrAccountNotFound     = errors.New("account not found")
	ErrAccessDenied        = errors.New("requester does not own the account")
	ErrInvalidPin          = errors.New("invalid pin")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrDailyLimitExceeded  = errors.New("daily transfer limit exceeded")
	ErrAllocationExhausted = errors.New("could not allocate a unique account number")
	ErrSameAccountTransfer = errors.New("cannot transfer money to the same account")
	ErrInvalidMonth        = errors.New("month must be formatted as YYYY-MM")
	ErrUserAlreadyExists   = errors.New("user already exists")
	ErrInvalidCredentials  = errors.New("invalid credentials")

	// Raised by the store. The transaction was rolled back and may be retried.
	ErrConcurrentModification = repository.ErrConcurrentModification
	ErrSerializationConflict  = repository.ErrSerializationConflict
)
