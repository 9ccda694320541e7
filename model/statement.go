package model

import "github.com/shopspring/decimal"

// StatementEntry is the display projection of a Transaction.
type StatementEntry struct {
	Date        string          `json:"date"`
	Time        string          `json:"time"`
	Code        string          `json:"code"`
	Channel     string          `json:"channel"`
	DebitCredit decimal.Decimal `json:"debit_credit"`
	Balance     decimal.Decimal `json:"balance"`
	Remark      string          `json:"remark"`
}
