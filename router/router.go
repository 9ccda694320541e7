package router

import (
	"net/http"

	"github.com/Oddscorp-AI/banking-transfer/common"
	_ "github.com/Oddscorp-AI/banking-transfer/docs"
	"github.com/Oddscorp-AI/banking-transfer/handler"
	"github.com/Oddscorp-AI/banking-transfer/model"

	httpSwagger "github.com/swaggo/http-swagger/v2"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Health       *handler.HealthHandler
	Users        *handler.UserHandler
	Accounts     *handler.AccountHandler
	Transactions *handler.TransactionHandler
	Tokens       handler.TokenParser
	RateLimiter  *handler.RateLimiter
}

func NewRouter(h Handlers) http.Handler {
	mux := http.NewServeMux()
	auth := handler.AuthMiddleware(h.Tokens)

	teller := func(fn func(http.ResponseWriter, *http.Request) *common.AppError) http.Handler {
		return auth(handler.RequireRole(model.RoleTeller, handler.ErrorHandlingMiddleware(fn)))
	}
	customer := func(fn func(http.ResponseWriter, *http.Request) *common.AppError) http.Handler {
		return auth(handler.RequireRole(model.RoleCustomer, handler.ErrorHandlingMiddleware(fn)))
	}

	mux.Handle("GET /health", handler.ErrorHandlingMiddleware(h.Health.HealthCheck))
	mux.Handle("GET /swagger/", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	mux.Handle("POST /api/register", handler.ErrorHandlingMiddleware(h.Users.Register))
	mux.Handle("POST /auth/login", handler.ErrorHandlingMiddleware(h.Users.Login))
	mux.Handle("POST /auth/teller/login", handler.ErrorHandlingMiddleware(h.Users.TellerLogin))

	mux.Handle("POST /api/accounts", teller(h.Accounts.CreateAccount))
	mux.Handle("POST /api/accounts/{accountNumber}/deposit", teller(h.Accounts.Deposit))

	mux.Handle("GET /api/accounts/{accountNumber}", customer(h.Accounts.GetAccount))
	mux.Handle("POST /api/accounts/{accountNumber}/transfer", customer(h.Transactions.Transfer))
	mux.Handle("POST /api/accounts/{accountNumber}/statement", customer(h.Transactions.Statement))

	return h.RateLimiter.Middleware(mux)
}
