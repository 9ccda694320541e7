package repository

import (
	"context"
	"database/sql"

	"github.com/Oddscorp-AI/banking-transfer/logger"
	"github.com/Oddscorp-AI/banking-transfer/model"

	"github.com/sirupsen/logrus"
)

// IAccountRepository defines the contract for account database operations.
type IAccountRepository interface {
	Create(ctx context.Context, q Querier, account *model.Account) error
	FindByNumber(ctx context.Context, q Querier, accountNumber string) (*model.Account, error)
	FindByNumberForUpdate(ctx context.Context, q Querier, accountNumber string) (*model.Account, error)
	ExistsByNumber(ctx context.Context, q Querier, accountNumber string) (bool, error)
	Save(ctx context.Context, q Querier, account *model.Account) error
}

type AccountRepository struct{}

func NewAccountRepository() *AccountRepository {
	return &AccountRepository{}
}

const accountColumns = `id, account_number, citizen_id, thai_name, english_name, balance, version, created_at`

func scanAccount(row *sql.Row) (*model.Account, error) {
	acc := &model.Account{}
	err := row.Scan(&acc.ID, &acc.AccountNumber, &acc.CitizenID, &acc.ThaiName, &acc.EnglishName,
		&acc.Balance, &acc.Version, &acc.CreatedAt)
	if err != nil {
		return nil, err
	}
	return acc, nil
}

// Create adds a new account to the database.
func (r *AccountRepository) Create(ctx context.Context, q Querier, account *model.Account) error {
	log := logger.Log.WithFields(logrus.Fields{
		"account_number": account.AccountNumber,
		"citizen_id":     account.CitizenID,
	})
	log.Info("Executing query to create a new account")

	query := `INSERT INTO accounts (account_number, citizen_id, thai_name, english_name, balance)
		VALUES ($1, $2, $3, $4, $5) RETURNING id, version, created_at`
	err := q.QueryRowContext(ctx, query, account.AccountNumber, account.CitizenID, account.ThaiName,
		account.EnglishName, account.Balance).Scan(&account.ID, &account.Version, &account.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateAccountNumber
		}
		log.WithError(err).Error("Failed to execute create account query")
		return TranslateError(err)
	}
	return nil
}

// FindByNumber is a plain, non-locking read. It returns sql.ErrNoRows when the
// account does not exist.
func (r *AccountRepository) FindByNumber(ctx context.Context, q Querier, accountNumber string) (*model.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_number = $1`
	acc, err := scanAccount(q.QueryRowContext(ctx, query, accountNumber))
	if err != nil && err != sql.ErrNoRows {
		logger.Log.WithError(err).WithField("account_number", accountNumber).Error("Failed to execute find account query")
		return nil, TranslateError(err)
	}
	return acc, err
}

// FindByNumberForUpdate locks the account row until the enclosing transaction ends.
func (r *AccountRepository) FindByNumberForUpdate(ctx context.Context, q Querier, accountNumber string) (*model.Account, error) {
	log := logger.Log.WithField("account_number", accountNumber)
	log.Debug("Executing query to get account for update")

	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_number = $1 FOR UPDATE`
	acc, err := scanAccount(q.QueryRowContext(ctx, query, accountNumber))
	if err != nil {
		if err == sql.ErrNoRows {
			log.Info("Account not found for update")
			return nil, err
		}
		log.WithError(err).Error("Failed to execute get account for update query")
		return nil, TranslateError(err)
	}
	return acc, nil
}

func (r *AccountRepository) ExistsByNumber(ctx context.Context, q Querier, accountNumber string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM accounts WHERE account_number = $1)`
	if err := q.QueryRowContext(ctx, query, accountNumber).Scan(&exists); err != nil {
		return false, TranslateError(err)
	}
	return exists, nil
}

// Save writes the balance back guarded by the version that was read. When the
// stored version has moved on it returns ErrConcurrentModification; otherwise
// account.Version is advanced to the stored value.
func (r *AccountRepository) Save(ctx context.Context, q Querier, account *model.Account) error {
	log := logger.Log.WithFields(logrus.Fields{
		"account_number": account.AccountNumber,
		"new_balance":    account.Balance.String(),
		"version":        account.Version,
	})
	log.Info("Executing query to update account balance")

	query := `UPDATE accounts SET balance = $1, version = version + 1 WHERE id = $2 AND version = $3`
	res, err := q.ExecContext(ctx, query, account.Balance, account.ID, account.Version)
	if err != nil {
		log.WithError(err).Error("Failed to execute update account balance query")
		return TranslateError(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		log.Warn("Account version changed since it was read")
		return ErrConcurrentModification
	}
	account.Version++
	return nil
}
