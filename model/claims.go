package model

import "github.com/golang-jwt/jwt/v5"

type AppClaims struct {
	Email string `json:"email"`
	Role  Role   `json:"role"`
	jwt.RegisteredClaims
}
