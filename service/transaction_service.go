package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Oddscorp-AI/banking-transfer/events"
	"github.com/Oddscorp-AI/banking-transfer/logger"
	"github.com/Oddscorp-AI/banking-transfer/model"
	"github.com/Oddscorp-AI/banking-transfer/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// LedgerOptions carries the tunables of the mutation engine.
type LedgerOptions struct {
	MinimumAmount     decimal.Decimal
	DefaultDailyLimit decimal.Decimal
	Location          *time.Location
	Now               func() time.Time
}

// TransactionService is the ledger mutation engine: every deposit and transfer
// locks its rows, checks invariants, mutates, records and commits as one unit.
type TransactionService struct {
	db              *sql.DB
	accountRepo     repository.IAccountRepository
	transactionRepo repository.ITransactionRepository
	settingRepo     repository.ISettingRepository
	authorizer      *Authorizer
	cache           *AccountCache
	publisher       events.Publisher
	opts            LedgerOptions
}

func NewTransactionService(
	db *sql.DB,
	accountRepo repository.IAccountRepository,
	transactionRepo repository.ITransactionRepository,
	settingRepo repository.ISettingRepository,
	authorizer *Authorizer,
	cache *AccountCache,
	publisher events.Publisher,
	opts LedgerOptions,
) *TransactionService {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &TransactionService{
		db:              db,
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
		settingRepo:     settingRepo,
		authorizer:      authorizer,
		cache:           cache,
		publisher:       publisher,
		opts:            opts,
	}
}

// TransferCommand is a transfer as requested by an authenticated customer.
type TransferCommand struct {
	FromAccount    string
	ToAccount      string
	Amount         decimal.Decimal
	RequesterEmail string
	Pin            string
}

func (s *TransactionService) Deposit(ctx context.Context, accountNumber string, amount decimal.Decimal) (*model.Account, error) {
	log := logger.Log.WithFields(logrus.Fields{
		"account_number": accountNumber,
		"amount":         amount.String(),
	})
	log.Info("Starting deposit")

	if err := s.validateAmount(amount); err != nil {
		return nil, err
	}

	var account *model.Account
	var entry *model.Transaction
	err := inSerializableTx(ctx, s.db, func(tx *sql.Tx) error {
		acc, err := s.lockAccount(ctx, tx, accountNumber)
		if err != nil {
			return err
		}

		acc.Balance = acc.Balance.Add(amount)
		if err := s.accountRepo.Save(ctx, tx, acc); err != nil {
			return fmt.Errorf("could not update balance: %w", err)
		}

		entry = &model.Transaction{
			AccountID:    acc.ID,
			Reference:    uuid.New(),
			Timestamp:    s.now(),
			Type:         model.TransactionDeposit,
			Channel:      model.ChannelTeller,
			Amount:       amount,
			BalanceAfter: acc.Balance,
			Remark:       "Deposit",
		}
		if err := s.transactionRepo.Append(ctx, tx, entry); err != nil {
			return fmt.Errorf("could not record deposit: %w", err)
		}

		account = acc
		return nil
	})
	if err != nil {
		log.WithError(err).Warn("Deposit aborted")
		return nil, err
	}

	s.afterCommit(ctx, []*model.Account{account}, map[string]*model.Transaction{accountNumber: entry})
	log.WithField("balance", account.Balance.String()).Info("Deposit completed successfully")
	return account, nil
}

// Transfer moves money between two accounts. Rows are locked in ascending
// account-number order whatever the direction, so two opposite transfers over
// the same pair queue on the same first lock instead of deadlocking.
func (s *TransactionService) Transfer(ctx context.Context, cmd TransferCommand) (*model.Account, error) {
	log := logger.Log.WithFields(logrus.Fields{
		"from_account": cmd.FromAccount,
		"to_account":   cmd.ToAccount,
		"amount":       cmd.Amount.String(),
		"requester":    cmd.RequesterEmail,
	})
	log.Info("Starting money transfer process")

	if err := s.validateAmount(cmd.Amount); err != nil {
		return nil, err
	}
	if cmd.FromAccount == cmd.ToAccount {
		return nil, ErrSameAccountTransfer
	}

	var from, to *model.Account
	var out, in *model.Transaction
	err := inSerializableTx(ctx, s.db, func(tx *sql.Tx) error {
		locked, err := s.lockInOrder(ctx, tx, cmd.FromAccount, cmd.ToAccount)
		if err != nil {
			return err
		}
		from = locked[cmd.FromAccount]
		to = locked[cmd.ToAccount]

		if err := s.authorizer.Authorize(ctx, tx, from, cmd.RequesterEmail, cmd.Pin); err != nil {
			return err
		}

		if from.Balance.LessThan(cmd.Amount) {
			return ErrInsufficientBalance
		}

		now := s.now()
		if err := s.checkDailyLimit(ctx, tx, from, cmd.Amount, now); err != nil {
			return err
		}

		from.Balance = from.Balance.Sub(cmd.Amount)
		to.Balance = to.Balance.Add(cmd.Amount)
		if err := s.accountRepo.Save(ctx, tx, from); err != nil {
			return fmt.Errorf("could not update sender balance: %w", err)
		}
		if err := s.accountRepo.Save(ctx, tx, to); err != nil {
			return fmt.Errorf("could not update receiver balance: %w", err)
		}

		reference := uuid.New()
		out = &model.Transaction{
			AccountID:    from.ID,
			Reference:    reference,
			Timestamp:    now,
			Type:         model.TransactionTransferOut,
			Channel:      model.ChannelOnline,
			Amount:       cmd.Amount,
			BalanceAfter: from.Balance,
			Remark:       "Transfer to " + to.AccountNumber,
		}
		in = &model.Transaction{
			AccountID:    to.ID,
			Reference:    reference,
			Timestamp:    now,
			Type:         model.TransactionTransferIn,
			Channel:      model.ChannelOnline,
			Amount:       cmd.Amount,
			BalanceAfter: to.Balance,
			Remark:       "Transfer from " + from.AccountNumber,
		}
		if err := s.transactionRepo.Append(ctx, tx, out); err != nil {
			return fmt.Errorf("could not record outgoing transfer: %w", err)
		}
		if err := s.transactionRepo.Append(ctx, tx, in); err != nil {
			return fmt.Errorf("could not record incoming transfer: %w", err)
		}
		return nil
	})
	if err != nil {
		log.WithError(err).Warn("Transfer aborted")
		return nil, err
	}

	s.afterCommit(ctx, []*model.Account{from, to}, map[string]*model.Transaction{cmd.FromAccount: out, cmd.ToAccount: in})
	log.Info("Transaction completed successfully")
	return from, nil
}

// validateAmount rejects amounts below the minimum and amounts finer than the
// stored scale, which the database would otherwise round per column.
func (s *TransactionService) validateAmount(amount decimal.Decimal) error {
	if amount.LessThan(s.opts.MinimumAmount) || !fitsMoneyScale(amount) {
		return ErrInvalidAmount
	}
	return nil
}

func (s *TransactionService) lockAccount(ctx context.Context, tx *sql.Tx, accountNumber string) (*model.Account, error) {
	acc, err := s.accountRepo.FindByNumberForUpdate(ctx, tx, accountNumber)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, accountNumber)
		}
		return nil, fmt.Errorf("could not lock account %s: %w", accountNumber, err)
	}
	return acc, nil
}

// lockInOrder locks both accounts, lowest account number first. Account
// numbers are fixed-width digits, so string order is numeric order.
func (s *TransactionService) lockInOrder(ctx context.Context, tx *sql.Tx, a, b string) (map[string]*model.Account, error) {
	first, second := a, b
	if second < first {
		first, second = second, first
	}
	locked := make(map[string]*model.Account, 2)
	for _, number := range []string{first, second} {
		acc, err := s.lockAccount(ctx, tx, number)
		if err != nil {
			return nil, err
		}
		locked[number] = acc
	}
	return locked, nil
}

// checkDailyLimit runs under the sender's row lock, so no other transfer from
// the same account can land between the sum and the debit.
func (s *TransactionService) checkDailyLimit(ctx context.Context, tx *sql.Tx, from *model.Account, amount decimal.Decimal, now time.Time) error {
	limit, ok, err := s.settingRepo.Get(ctx, tx, model.SettingDailyTransferLimit)
	if err != nil {
		return fmt.Errorf("could not read daily transfer limit: %w", err)
	}
	if !ok {
		limit = s.opts.DefaultDailyLimit
	}

	start := startOfDay(now)
	sent, err := s.transactionRepo.SumByTypeBetween(ctx, tx, from.ID, model.TransactionTransferOut, start, start.AddDate(0, 0, 1))
	if err != nil {
		return fmt.Errorf("could not sum today's transfers: %w", err)
	}
	if sent.Add(amount).GreaterThan(limit) {
		logger.Log.WithFields(logrus.Fields{
			"account_number": from.AccountNumber,
			"sent_today":     sent.String(),
			"limit":          limit.String(),
		}).Warn("Daily transfer limit exceeded")
		return ErrDailyLimitExceeded
	}
	return nil
}

// afterCommit writes the committed accounts through to the cache and publishes
// the committed entries. Failures here are logged only; the ledger is already
// durable, so event delivery is at most once. Publishing runs detached from the
// request so a client hanging up cannot drop events for committed entries.
func (s *TransactionService) afterCommit(ctx context.Context, accounts []*model.Account, entries map[string]*model.Transaction) {
	ctx = context.WithoutCancel(ctx)
	for _, account := range accounts {
		s.cache.Put(ctx, account)
	}

	recorded := make([]events.LedgerEntryRecorded, 0, len(entries))
	for number, entry := range entries {
		recorded = append(recorded, events.NewLedgerEntryRecorded(number, entry))
	}
	if err := s.publisher.Publish(ctx, recorded...); err != nil {
		logger.Log.WithError(err).Error("Could not publish ledger events")
	}
}

func (s *TransactionService) now() time.Time {
	return s.opts.Now().In(s.opts.Location)
}

// moneyScale is the number of decimal places balances and amounts are stored with.
const moneyScale = 2

func fitsMoneyScale(amount decimal.Decimal) bool {
	return amount.Equal(amount.Truncate(moneyScale))
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
