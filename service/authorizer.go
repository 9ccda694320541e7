package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Oddscorp-AI/banking-transfer/logger"
	"github.com/Oddscorp-AI/banking-transfer/model"
	"github.com/Oddscorp-AI/banking-transfer/repository"

	"github.com/sirupsen/logrus"
)

// Authorizer is the single ownership/PIN predicate shared by transfers,
// statements and account lookups.
type Authorizer struct {
	userRepo repository.IUserRepository
}

func NewAuthorizer(userRepo repository.IUserRepository) *Authorizer {
	return &Authorizer{userRepo: userRepo}
}

// Owns checks that the user behind email holds the account (same citizen id).
func (a *Authorizer) Owns(ctx context.Context, q repository.Querier, account *model.Account, email string) (*model.User, error) {
	user, err := a.userRepo.GetUserByEmail(ctx, q, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAccessDenied
		}
		return nil, err
	}
	if user.CitizenID != account.CitizenID {
		logger.Log.WithFields(logrus.Fields{
			"account_number": account.AccountNumber,
			"requester":      email,
		}).Warn("Requester does not own the account")
		return nil, ErrAccessDenied
	}
	return user, nil
}

// Authorize is Owns plus verification of the requester's PIN.
func (a *Authorizer) Authorize(ctx context.Context, q repository.Querier, account *model.Account, email, pin string) error {
	user, err := a.Owns(ctx, q, account, email)
	if err != nil {
		return err
	}
	if !CheckPasswordHash(pin, user.Pin) {
		return ErrInvalidPin
	}
	return nil
}
