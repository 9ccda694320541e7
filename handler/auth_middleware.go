package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/Oddscorp-AI/banking-transfer/common"
	"github.com/Oddscorp-AI/banking-transfer/model"
)

type contextKey string

const (
	UserEmailKey contextKey = "userEmail"
	UserRoleKey  contextKey = "userRole"
)

// TokenParser validates a bearer token and returns its claims.
type TokenParser interface {
	ParseToken(tokenString string) (*model.AppClaims, error)
}

func AuthMiddleware(parser TokenParser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				common.NewAppError(http.StatusUnauthorized, "Authorization header is required", nil).Send(w)
				return
			}

			headerParts := strings.Split(authHeader, " ")
			if len(headerParts) != 2 || strings.ToLower(headerParts[0]) != "bearer" {
				common.NewAppError(http.StatusUnauthorized, "Invalid authorization header format", nil).Send(w)
				return
			}

			claims, err := parser.ParseToken(headerParts[1])
			if err != nil {
				common.NewAppError(http.StatusUnauthorized, "Invalid or expired token", err).Send(w)
				return
			}

			ctx := context.WithValue(r.Context(), UserEmailKey, claims.Email)
			ctx = context.WithValue(ctx, UserRoleKey, claims.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole lets the request through only when the authenticated user holds role.
func RequireRole(role model.Role, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok := r.Context().Value(UserRoleKey).(model.Role)
		if !ok || got != role {
			common.NewAppError(http.StatusForbidden, "Access denied. "+string(role)+" privileges required.", nil).Send(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func requesterEmail(r *http.Request) (string, *common.AppError) {
	email, ok := r.Context().Value(UserEmailKey).(string)
	if !ok || email == "" {
		return "", common.NewAppError(http.StatusUnauthorized, "Invalid user in token", nil)
	}
	return email, nil
}
