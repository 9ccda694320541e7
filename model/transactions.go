package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionDeposit     TransactionType = "DEPOSIT"
	TransactionTransferOut TransactionType = "TRANSFER_OUT"
	TransactionTransferIn  TransactionType = "TRANSFER_IN"
)

type TransactionChannel string

const (
	ChannelTeller TransactionChannel = "TELLER"
	ChannelOnline TransactionChannel = "ONLINE"
)

// Transaction is one immutable ledger entry. Amount is always a positive
// magnitude; the direction is carried by Type.
type Transaction struct {
	ID           int64              `json:"id"`
	AccountID    int64              `json:"account_id"`
	Reference    uuid.UUID          `json:"reference"`
	Timestamp    time.Time          `json:"timestamp"`
	Type         TransactionType    `json:"type"`
	Channel      TransactionChannel `json:"channel"`
	Amount       decimal.Decimal    `json:"amount"`
	BalanceAfter decimal.Decimal    `json:"balance_after"`
	Remark       string             `json:"remark"`
}
