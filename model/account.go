package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Account struct {
	ID            int64           `json:"-"`
	AccountNumber string          `json:"account_number"`
	CitizenID     string          `json:"citizen_id"`
	ThaiName      string          `json:"thai_name"`
	EnglishName   string          `json:"english_name"`
	Balance       decimal.Decimal `json:"balance"`
	Version       int64           `json:"version"`
	CreatedAt     time.Time       `json:"created_at"`
}
