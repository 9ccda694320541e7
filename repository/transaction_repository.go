package repository

import (
	"context"
	"time"

	"github.com/Oddscorp-AI/banking-transfer/logger"
	"github.com/Oddscorp-AI/banking-transfer/model"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// ITransactionRepository defines the contract for ledger entry database operations.
type ITransactionRepository interface {
	Append(ctx context.Context, q Querier, transaction *model.Transaction) error
	SumByTypeBetween(ctx context.Context, q Querier, accountID int64, txType model.TransactionType, start, end time.Time) (decimal.Decimal, error)
	ListBetween(ctx context.Context, q Querier, accountID int64, start, end time.Time) ([]*model.Transaction, error)
}

// TransactionRepository implements ITransactionRepository. Entries are insert-only.
type TransactionRepository struct{}

func NewTransactionRepository() *TransactionRepository {
	return &TransactionRepository{}
}

func (r *TransactionRepository) Append(ctx context.Context, q Querier, transaction *model.Transaction) error {
	log := logger.Log.WithFields(logrus.Fields{
		"account_id": transaction.AccountID,
		"type":       transaction.Type,
		"amount":     transaction.Amount.String(),
		"reference":  transaction.Reference,
	})
	log.Info("Executing query to append a ledger entry")

	query := `INSERT INTO transactions (account_id, reference, timestamp, type, channel, amount, balance_after, remark)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	err := q.QueryRowContext(ctx, query,
		transaction.AccountID,
		transaction.Reference,
		transaction.Timestamp,
		string(transaction.Type),
		string(transaction.Channel),
		transaction.Amount,
		transaction.BalanceAfter,
		transaction.Remark,
	).Scan(&transaction.ID)
	if err != nil {
		log.WithError(err).Error("Failed to execute append ledger entry query")
		return TranslateError(err)
	}
	return nil
}

// SumByTypeBetween totals the amounts of one entry type for an account over [start, end).
func (r *TransactionRepository) SumByTypeBetween(ctx context.Context, q Querier, accountID int64, txType model.TransactionType, start, end time.Time) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(amount), 0) FROM transactions
		WHERE account_id = $1 AND type = $2 AND timestamp >= $3 AND timestamp < $4`

	var total decimal.Decimal
	if err := q.QueryRowContext(ctx, query, accountID, string(txType), start, end).Scan(&total); err != nil {
		logger.Log.WithError(err).WithField("account_id", accountID).Error("Failed to sum ledger entries")
		return decimal.Zero, TranslateError(err)
	}
	return total, nil
}

// ListBetween returns the entries of an account over [start, end) in timestamp order.
func (r *TransactionRepository) ListBetween(ctx context.Context, q Querier, accountID int64, start, end time.Time) ([]*model.Transaction, error) {
	log := logger.Log.WithFields(logrus.Fields{
		"account_id": accountID,
		"start":      start,
		"end":        end,
	})
	log.Info("Executing query to list ledger entries")

	query := `
		SELECT id, account_id, reference, timestamp, type, channel, amount, balance_after, remark
		FROM transactions
		WHERE account_id = $1 AND timestamp >= $2 AND timestamp < $3
		ORDER BY timestamp ASC, id ASC`

	rows, err := q.QueryContext(ctx, query, accountID, start, end)
	if err != nil {
		log.WithError(err).Error("Failed to execute list ledger entries query")
		return nil, TranslateError(err)
	}
	defer rows.Close()

	transactions := make([]*model.Transaction, 0)
	for rows.Next() {
		var t model.Transaction
		var txType, channel string
		if err := rows.Scan(&t.ID, &t.AccountID, &t.Reference, &t.Timestamp, &txType, &channel,
			&t.Amount, &t.BalanceAfter, &t.Remark); err != nil {
			log.WithError(err).Error("Failed to scan ledger entry row")
			return nil, err
		}
		t.Type = model.TransactionType(txType)
		t.Channel = model.TransactionChannel(channel)
		transactions = append(transactions, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, TranslateError(err)
	}
	return transactions, nil
}
