// file: model/request.go

package model

import "github.com/shopspring/decimal"

// RegisterRequest defines the payload for online customer registration.
type RegisterRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	CitizenID   string `json:"citizen_id" validate:"required,numeric,len=13"`
	ThaiName    string `json:"thai_name" validate:"required,max=255"`
	EnglishName string `json:"english_name" validate:"required,max=255"`
	Pin         string `json:"pin" validate:"required,numeric,len=6"`
}

// LoginRequest defines the payload for customer and teller authentication.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// TokenResponse is returned by both login endpoints.
type TokenResponse struct {
	Token string `json:"token"`
}

// CreateAccountRequest is submitted by a teller when opening an account.
// InitialDeposit is optional; a nil value opens the account with a zero balance.
type CreateAccountRequest struct {
	CitizenID      string           `json:"citizen_id" validate:"required,numeric,len=13"`
	ThaiName       string           `json:"thai_name" validate:"required,max=255"`
	EnglishName    string           `json:"english_name" validate:"required,max=255"`
	InitialDeposit *decimal.Decimal `json:"initial_deposit"`
}

// DepositRequest carries the amount of a teller deposit.
type DepositRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// TransferRequest moves money from the account in the URL path to ToAccount.
type TransferRequest struct {
	ToAccount string          `json:"to_account" validate:"required,numeric"`
	Amount    decimal.Decimal `json:"amount"`
	Pin       string          `json:"pin" validate:"required"`
}

// StatementRequest asks for one calendar month of entries, formatted as YYYY-MM.
type StatementRequest struct {
	Month string `json:"month" validate:"required,datetime=2006-01"`
	Pin   string `json:"pin" validate:"required"`
}
