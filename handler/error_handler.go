package handler

import (
	"errors"
	"net/http"

	"github.com/Oddscorp-AI/banking-transfer/common"
	"github.com/Oddscorp-AI/banking-transfer/service"
)

func ErrorHandlingMiddleware(next func(http.ResponseWriter, *http.Request) *common.AppError) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := next(w, r); err != nil {
			err.Send(w)
		}
	}
}

var errorStatuses = []struct {
	err    error
	status int
}{
	{service.ErrInvalidAmount, http.StatusBadRequest},
	{service.ErrSameAccountTransfer, http.StatusBadRequest},
	{service.ErrInvalidMonth, http.StatusBadRequest},
	{service.ErrInvalidCredentials, http.StatusUnauthorized},
	{service.ErrAccessDenied, http.StatusForbidden},
	{service.ErrInvalidPin, http.StatusForbidden},
	{service.ErrAccountNotFound, http.StatusNotFound},
	{service.ErrUserAlreadyExists, http.StatusConflict},
	{service.ErrConcurrentModification, http.StatusConflict},
	{service.ErrSerializationConflict, http.StatusConflict},
	{service.ErrInsufficientBalance, http.StatusUnprocessableEntity},
	{service.ErrDailyLimitExceeded, http.StatusUnprocessableEntity},
	{service.ErrAllocationExhausted, http.StatusServiceUnavailable},
}

// serviceError maps a service failure to its HTTP form. Known kinds keep their
// own message; anything else becomes a 500 carrying fallback.
func serviceError(err error, fallback string) *common.AppError {
	for _, e := range errorStatuses {
		if errors.Is(err, e.err) {
			return common.NewAppError(e.status, e.err.Error(), err)
		}
	}
	return common.NewAppError(http.StatusInternalServerError, fallback, err)
}
