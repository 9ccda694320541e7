package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Oddscorp-AI/banking-transfer/logger"
	"github.com/Oddscorp-AI/banking-transfer/model"
	"github.com/Oddscorp-AI/banking-transfer/repository"

	"github.com/sirupsen/logrus"
)

const (
	statementDateLayout = "2/1/2006"
	statementTimeLayout = "15:04"
	monthLayout         = "2006-01"
)

var transactionCodes = map[model.TransactionType]string{
	model.TransactionDeposit:     "A0",
	model.TransactionTransferOut: "A1",
	model.TransactionTransferIn:  "A3",
}

var channelCodes = map[model.TransactionChannel]string{
	model.ChannelTeller: "OTC",
	model.ChannelOnline: "ATS",
}

// StatementService builds monthly statements from committed ledger entries.
type StatementService struct {
	db              *sql.DB
	accountRepo     repository.IAccountRepository
	transactionRepo repository.ITransactionRepository
	authorizer      *Authorizer
	location        *time.Location
}

func NewStatementService(db *sql.DB, accountRepo repository.IAccountRepository, transactionRepo repository.ITransactionRepository, authorizer *Authorizer, location *time.Location) *StatementService {
	if location == nil {
		location = time.Local
	}
	return &StatementService{
		db:              db,
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
		authorizer:      authorizer,
		location:        location,
	}
}

// Statement returns every entry of the account in the given YYYY-MM month,
// oldest first. Reads take no locks.
func (s *StatementService) Statement(ctx context.Context, accountNumber, email, pin, month string) ([]model.StatementEntry, error) {
	start, err := time.ParseInLocation(monthLayout, month, s.location)
	if err != nil {
		return nil, ErrInvalidMonth
	}
	end := start.AddDate(0, 1, 0)

	account, err := s.accountRepo.FindByNumber(ctx, s.db, accountNumber)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}

	if err := s.authorizer.Authorize(ctx, s.db, account, email, pin); err != nil {
		return nil, err
	}

	transactions, err := s.transactionRepo.ListBetween(ctx, s.db, account.ID, start, end)
	if err != nil {
		return nil, fmt.Errorf("could not load statement: %w", err)
	}

	entries := make([]model.StatementEntry, 0, len(transactions))
	for _, tx := range transactions {
		entries = append(entries, ToStatementEntry(tx, s.location))
	}

	logger.Log.WithFields(logrus.Fields{
		"account_number": accountNumber,
		"month":          month,
		"entries":        len(entries),
	}).Info("Statement generated")
	return entries, nil
}

// ToStatementEntry projects a ledger entry for display. Outgoing transfers are
// shown as negative amounts. An unknown type or channel is a programming error
// and panics.
func ToStatementEntry(tx *model.Transaction, loc *time.Location) model.StatementEntry {
	code, ok := transactionCodes[tx.Type]
	if !ok {
		panic(fmt.Sprintf("unexpected transaction type: %q", tx.Type))
	}
	channel, ok := channelCodes[tx.Channel]
	if !ok {
		panic(fmt.Sprintf("unexpected transaction channel: %q", tx.Channel))
	}

	amount := tx.Amount
	if tx.Type == model.TransactionTransferOut {
		amount = amount.Neg()
	}

	ts := tx.Timestamp.In(loc)
	return model.StatementEntry{
		Date:        ts.Format(statementDateLayout),
		Time:        ts.Format(statementTimeLayout),
		Code:        code,
		Channel:     channel,
		DebitCredit: amount,
		Balance:     tx.BalanceAfter,
		Remark:      tx.Remark,
	}
}
