package handler

import (
	"context"
	"net/http"

	"github.com/Oddscorp-AI/banking-transfer/common"
	"github.com/Oddscorp-AI/banking-transfer/model"
	"github.com/Oddscorp-AI/banking-transfer/service"
)

type StatementService interface {
	Statement(ctx context.Context, accountNumber, email, pin, month string) ([]model.StatementEntry, error)
}

// TransactionHandler serves the customer-facing ledger operations.
type TransactionHandler struct {
	ledger     LedgerService
	statements StatementService
}

func NewTransactionHandler(ledger LedgerService, statements StatementService) *TransactionHandler {
	return &TransactionHandler{ledger: ledger, statements: statements}
}

// Transfer godoc
// @Summary      Transfer money to another account
// @Description  Moves money from the caller's account in the path to to_account. Requires the caller's PIN.
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        accountNumber path string true "Source account number"
// @Param        transfer body model.TransferRequest true "Transfer details"
// @Success      200  {object}  model.Account "Source account after the transfer"
// @Failure      400  {object}  common.AppError "Invalid amount or same account"
// @Failure      403  {object}  common.AppError "Not the owner, or wrong PIN"
// @Failure      404  {object}  common.AppError
// @Failure      409  {object}  common.AppError "Concurrent update, retry"
// @Failure      422  {object}  common.AppError "Insufficient balance or daily limit exceeded"
// @Router       /api/accounts/{accountNumber}/transfer [post]
func (h *TransactionHandler) Transfer(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.TransferRequest
	if err := common.ValidateAndDecode(w, r, &req); err != nil {
		return err
	}
	email, appErr := requesterEmail(r)
	if appErr != nil {
		return appErr
	}

	account, err := h.ledger.Transfer(r.Context(), service.TransferCommand{
		FromAccount:    r.PathValue("accountNumber"),
		ToAccount:      req.ToAccount,
		Amount:         req.Amount,
		RequesterEmail: email,
		Pin:            req.Pin,
	})
	if err != nil {
		return serviceError(err, "Could not process transfer")
	}

	common.WriteJSON(w, http.StatusOK, account)
	return nil
}

// Statement godoc
// @Summary      Monthly account statement
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        accountNumber path string true "Account number"
// @Param        statement body model.StatementRequest true "Month (YYYY-MM) and PIN"
// @Success      200  {array}   model.StatementEntry
// @Failure      400  {object}  common.AppError
// @Failure      403  {object}  common.AppError
// @Failure      404  {object}  common.AppError
// @Router       /api/accounts/{accountNumber}/statement [post]
func (h *TransactionHandler) Statement(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.StatementRequest
	if err := common.ValidateAndDecode(w, r, &req); err != nil {
		return err
	}
	email, appErr := requesterEmail(r)
	if appErr != nil {
		return appErr
	}

	entries, err := h.statements.Statement(r.Context(), r.PathValue("accountNumber"), email, req.Pin, req.Month)
	if err != nil {
		return serviceError(err, "Could not build statement")
	}

	common.WriteJSON(w, http.StatusOK, entries)
	return nil
}
