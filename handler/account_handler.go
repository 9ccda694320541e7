package handler

import (
	"context"
	"net/http"

	"github.com/Oddscorp-AI/banking-transfer/common"
	"github.com/Oddscorp-AI/banking-transfer/logger"
	"github.com/Oddscorp-AI/banking-transfer/model"
	"github.com/Oddscorp-AI/banking-transfer/service"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type AccountService interface {
	CreateAccount(ctx context.Context, req model.CreateAccountRequest) (*model.Account, error)
	GetAccountForUser(ctx context.Context, accountNumber, email string) (*model.Account, error)
}

type LedgerService interface {
	Deposit(ctx context.Context, accountNumber string, amount decimal.Decimal) (*model.Account, error)
	Transfer(ctx context.Context, cmd service.TransferCommand) (*model.Account, error)
}

type AccountHandler struct {
	accounts AccountService
	ledger   LedgerService
}

func NewAccountHandler(accounts AccountService, ledger LedgerService) *AccountHandler {
	return &AccountHandler{accounts: accounts, ledger: ledger}
}

// CreateAccount godoc
// @Summary      Open a bank account
// @Description  A teller opens an account for a citizen. The optional initial deposit becomes the opening balance.
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        account body model.CreateAccountRequest true "Account holder details"
// @Success      201  {object}  model.Account
// @Failure      400  {object}  common.AppError
// @Failure      401  {object}  common.AppError
// @Failure      403  {object}  common.AppError "Caller is not a teller"
// @Failure      503  {object}  common.AppError "No free account number could be allocated"
// @Router       /api/accounts [post]
func (h *AccountHandler) CreateAccount(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.CreateAccountRequest
	if err := common.ValidateAndDecode(w, r, &req); err != nil {
		return err
	}

	account, err := h.accounts.CreateAccount(r.Context(), req)
	if err != nil {
		return serviceError(err, "Could not create account")
	}

	common.WriteJSON(w, http.StatusCreated, account)
	return nil
}

// Deposit godoc
// @Summary      Deposit cash at the counter
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        accountNumber path string true "Account number"
// @Param        deposit body model.DepositRequest true "Amount to deposit"
// @Success      200  {object}  model.Account
// @Failure      400  {object}  common.AppError "Amount below the minimum or finer than two decimal places"
// @Failure      404  {object}  common.AppError
// @Failure      409  {object}  common.AppError "Concurrent update, retry"
// @Router       /api/accounts/{accountNumber}/deposit [post]
func (h *AccountHandler) Deposit(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.DepositRequest
	if err := common.ValidateAndDecode(w, r, &req); err != nil {
		return err
	}

	accountNumber := r.PathValue("accountNumber")
	logger.Log.WithFields(logrus.Fields{
		"account_number": accountNumber,
		"teller":         r.Context().Value(UserEmailKey),
	}).Info("Deposit request received")

	account, err := h.ledger.Deposit(r.Context(), accountNumber, req.Amount)
	if err != nil {
		return serviceError(err, "Could not process deposit")
	}

	common.WriteJSON(w, http.StatusOK, account)
	return nil
}

// GetAccount godoc
// @Summary      Show one of the caller's accounts
// @Tags         accounts
// @Produce      json
// @Security     BearerAuth
// @Param        accountNumber path string true "Account number"
// @Success      200  {object}  model.Account
// @Failure      403  {object}  common.AppError "Account belongs to someone else"
// @Failure      404  {object}  common.AppError
// @Router       /api/accounts/{accountNumber} [get]
func (h *AccountHandler) GetAccount(w http.ResponseWriter, r *http.Request) *common.AppError {
	email, appErr := requesterEmail(r)
	if appErr != nil {
		return appErr
	}

	account, err := h.accounts.GetAccountForUser(r.Context(), r.PathValue("accountNumber"), email)
	if err != nil {
		return serviceError(err, "Could not retrieve account")
	}

	common.WriteJSON(w, http.StatusOK, account)
	return nil
}
