package repository

import (
	"context"
	"database/sql"

	"github.com/shopspring/decimal"
)

type ISettingRepository interface {
	Get(ctx context.Context, q Querier, key string) (decimal.Decimal, bool, error)
}

type SettingRepository struct{}

func NewSettingRepository() *SettingRepository {
	return &SettingRepository{}
}

// Get reports false when the key has no row.
func (r *SettingRepository) Get(ctx context.Context, q Querier, key string) (decimal.Decimal, bool, error) {
	var value decimal.Decimal
	err := q.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = $1`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return decimal.Zero, false, nil
	}
	if err != nil {
		return decimal.Zero, false, TranslateError(err)
	}
	return value, true, nil
}
