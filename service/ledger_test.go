package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Oddscorp-AI/banking-transfer/model"
	"github.com/Oddscorp-AI/banking-transfer/repository"
)

type ledgerFixture struct {
	db         *sql.DB
	ledger     *fakeLedger
	dbMock     sqlmock.Sqlmock
	clock      time.Time
	publisher  *recordingPublisher
	txs        *TransactionService
	statements *StatementService
}

func newLedgerFixture(t *testing.T) *ledgerFixture {
	t.Helper()
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	users := new(MockUserRepository)
	users.On("GetUserByEmail", mock.Anything, mock.Anything, aliceEmail).Return(alice(), nil)
	authorizer := NewAuthorizer(users)

	f := &ledgerFixture{
		db:        db,
		ledger:    newFakeLedger(),
		dbMock:    dbMock,
		clock:     fixedNow,
		publisher: &recordingPublisher{},
	}
	f.txs = NewTransactionService(db, f.ledger, f.ledger, f.ledger, authorizer, nil, f.publisher, LedgerOptions{
		MinimumAmount:     decimal.NewFromInt(1),
		DefaultDailyLimit: decimal.NewFromInt(50000),
		Location:          time.UTC,
		Now:               func() time.Time { return f.clock },
	})
	f.statements = NewStatementService(db, f.ledger, f.ledger, authorizer, time.UTC)
	return f
}

func (f *ledgerFixture) deposit(t *testing.T, number string, amount int64) {
	t.Helper()
	f.dbMock.ExpectBegin()
	f.dbMock.ExpectCommit()
	_, err := f.txs.Deposit(context.Background(), number, decimal.NewFromInt(amount))
	require.NoError(t, err)
}

func (f *ledgerFixture) transfer(from, to string, amount int64, committed bool) error {
	f.dbMock.ExpectBegin()
	if committed {
		f.dbMock.ExpectCommit()
	} else {
		f.dbMock.ExpectRollback()
	}
	_, err := f.txs.Transfer(context.Background(), TransferCommand{
		FromAccount:    from,
		ToAccount:      to,
		Amount:         decimal.NewFromInt(amount),
		RequesterEmail: aliceEmail,
		Pin:            testPin,
	})
	return err
}

func TestLedger_DepositThenTransfers(t *testing.T) {
	f := newLedgerFixture(t)
	f.ledger.open("1000001", aliceCitizen, 0)
	f.ledger.open("1000002", bobCitizen, 0)

	f.deposit(t, "1000001", 100)
	require.NoError(t, f.transfer("1000001", "1000002", 40, true))

	assert.True(t, f.ledger.balance("1000001").Equal(decimal.NewFromInt(60)))
	assert.True(t, f.ledger.balance("1000002").Equal(decimal.NewFromInt(40)))

	err := f.transfer("1000001", "1000002", 70, false)
	assert.ErrorIs(t, err, ErrInsufficientBalance)
	assert.True(t, f.ledger.balance("1000001").Equal(decimal.NewFromInt(60)))
	assert.True(t, f.ledger.balance("1000002").Equal(decimal.NewFromInt(40)))

	aEntries := f.ledger.entriesFor("1000001")
	require.Len(t, aEntries, 2)
	assert.Equal(t, model.TransactionDeposit, aEntries[0].Type)
	assert.True(t, aEntries[0].BalanceAfter.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, model.TransactionTransferOut, aEntries[1].Type)
	assert.True(t, aEntries[1].BalanceAfter.Equal(decimal.NewFromInt(60)))

	bEntries := f.ledger.entriesFor("1000002")
	require.Len(t, bEntries, 1)
	assert.Equal(t, model.TransactionTransferIn, bEntries[0].Type)
	assert.True(t, bEntries[0].BalanceAfter.Equal(decimal.NewFromInt(40)))

	// Deposit event plus both legs of the committed transfer.
	assert.Equal(t, 3, f.publisher.count())
	assert.NoError(t, f.dbMock.ExpectationsWereMet())
}

func TestLedger_TransfersConserveMoney(t *testing.T) {
	f := newLedgerFixture(t)
	f.ledger.open("1000001", aliceCitizen, 500)
	f.ledger.open("1000002", bobCitizen, 0)
	total := decimal.NewFromInt(500)

	for _, amount := range []int64{10, 250, 1, 239} {
		require.NoError(t, f.transfer("1000001", "1000002", amount, true))
		sum := f.ledger.balance("1000001").Add(f.ledger.balance("1000002"))
		assert.True(t, sum.Equal(total), "sum drifted to %s", sum)
	}
	assert.True(t, f.ledger.balance("1000001").IsZero())

	// Every stored balance equals the snapshot of the account's latest entry.
	for _, number := range []string{"1000001", "1000002"} {
		entries := f.ledger.entriesFor(number)
		last := entries[len(entries)-1]
		assert.True(t, last.BalanceAfter.Equal(f.ledger.balance(number)))
	}
	assert.NoError(t, f.dbMock.ExpectationsWereMet())
}

func TestLedger_DailyLimitResetsAtMidnight(t *testing.T) {
	f := newLedgerFixture(t)
	f.ledger.open("1000001", aliceCitizen, 100000)
	f.ledger.open("1000002", bobCitizen, 0)

	require.NoError(t, f.transfer("1000001", "1000002", 30000, true))
	assert.ErrorIs(t, f.transfer("1000001", "1000002", 20001, false), ErrDailyLimitExceeded)
	require.NoError(t, f.transfer("1000001", "1000002", 20000, true))

	f.clock = time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	require.NoError(t, f.transfer("1000001", "1000002", 30000, true))

	assert.True(t, f.ledger.balance("1000001").Equal(decimal.NewFromInt(20000)))
	assert.NoError(t, f.dbMock.ExpectationsWereMet())
}

func TestLedger_IncomingTransfersDoNotCountAgainstLimit(t *testing.T) {
	f := newLedgerFixture(t)
	f.ledger.open("1000001", aliceCitizen, 60000)
	f.ledger.open("1000003", aliceCitizen, 60000)

	require.NoError(t, f.transfer("1000003", "1000001", 50000, true))
	require.NoError(t, f.transfer("1000001", "1000003", 50000, true))
	assert.NoError(t, f.dbMock.ExpectationsWereMet())
}

func TestLedger_StatementReflectsCommittedEntries(t *testing.T) {
	f := newLedgerFixture(t)
	f.ledger.open("1000001", aliceCitizen, 0)
	f.ledger.open("1000002", bobCitizen, 0)

	f.clock = time.Date(2025, 2, 28, 23, 59, 0, 0, time.UTC)
	f.deposit(t, "1000001", 5)
	f.clock = time.Date(2025, 3, 1, 9, 5, 0, 0, time.UTC)
	f.deposit(t, "1000001", 100)
	f.clock = time.Date(2025, 3, 31, 23, 59, 0, 0, time.UTC)
	require.NoError(t, f.transfer("1000001", "1000002", 40, true))
	f.clock = time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	f.deposit(t, "1000001", 7)

	entries, err := f.statements.Statement(context.Background(), "1000001", aliceEmail, testPin, "2025-03")
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "1/3/2025", entries[0].Date)
	assert.Equal(t, "09:05", entries[0].Time)
	assert.Equal(t, "A0", entries[0].Code)
	assert.Equal(t, "OTC", entries[0].Channel)
	assert.True(t, entries[0].DebitCredit.Equal(decimal.NewFromInt(100)))
	assert.True(t, entries[0].Balance.Equal(decimal.NewFromInt(105)))

	assert.Equal(t, "31/3/2025", entries[1].Date)
	assert.Equal(t, "A1", entries[1].Code)
	assert.Equal(t, "ATS", entries[1].Channel)
	assert.True(t, entries[1].DebitCredit.Equal(decimal.NewFromInt(-40)))
	assert.True(t, entries[1].Balance.Equal(decimal.NewFromInt(65)))
	assert.Equal(t, "Transfer to 1000002", entries[1].Remark)
	assert.NoError(t, f.dbMock.ExpectationsWereMet())
}

// readThenCommit lets a transfer commit between the store read and the cache
// fill of an account lookup.
type readThenCommit struct {
	*fakeLedger
	between func()
}

func (r *readThenCommit) FindByNumber(ctx context.Context, q repository.Querier, number string) (*model.Account, error) {
	acc, err := r.fakeLedger.FindByNumber(ctx, q, number)
	if r.between != nil {
		between := r.between
		r.between = nil
		between()
	}
	return acc, err
}

func TestLedger_LookupRacingTransferDoesNotCacheStaleBalance(t *testing.T) {
	f := newLedgerFixture(t)
	f.ledger.open("1000001", aliceCitizen, 100)
	f.ledger.open("1000002", bobCitizen, 0)

	cache, _ := newTestCache(t)
	users := new(MockUserRepository)
	users.On("GetUserByEmail", mock.Anything, mock.Anything, aliceEmail).Return(alice(), nil)
	f.txs = NewTransactionService(f.db, f.ledger, f.ledger, f.ledger, NewAuthorizer(users), cache, f.publisher, LedgerOptions{
		MinimumAmount:     decimal.NewFromInt(1),
		DefaultDailyLimit: decimal.NewFromInt(50000),
		Location:          time.UTC,
		Now:               func() time.Time { return f.clock },
	})

	reader := &readThenCommit{fakeLedger: f.ledger}
	reader.between = func() {
		require.NoError(t, f.transfer("1000001", "1000002", 40, true))
	}
	accounts := NewAccountService(f.db, reader, nil, NewAuthorizer(users), cache)

	// The first lookup read its row before the transfer committed.
	first, err := accounts.GetAccountForUser(context.Background(), "1000001", aliceEmail)
	require.NoError(t, err)
	assert.True(t, first.Balance.Equal(decimal.NewFromInt(100)))

	second, err := accounts.GetAccountForUser(context.Background(), "1000001", aliceEmail)
	require.NoError(t, err)
	assert.True(t, second.Balance.Equal(decimal.NewFromInt(60)), "served %s", second.Balance)
	assert.True(t, f.ledger.balance("1000001").Equal(second.Balance))
	assert.NoError(t, f.dbMock.ExpectationsWereMet())
}
