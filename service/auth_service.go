package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Oddscorp-AI/banking-transfer/logger"
	"github.com/Oddscorp-AI/banking-transfer/model"
	"github.com/Oddscorp-AI/banking-transfer/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const hashCost = 12

// AuthService verifies credentials and issues the bearer tokens the HTTP
// boundary uses to identify the requester.
type AuthService struct {
	userRepo repository.IUserRepository
	jwtKey   []byte
	tokenTTL time.Duration
	now      func() time.Time
}

func NewAuthService(userRepo repository.IUserRepository, secretKey string, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		jwtKey:   []byte(secretKey),
		tokenTTL: tokenTTL,
		now:      time.Now,
	}
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), hashCost)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to hash password")
		return "", err
	}
	return string(bytes), nil
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// Login authenticates a user holding the given role and returns a signed token.
// Unknown users, wrong passwords and wrong roles are indistinguishable.
func (s *AuthService) Login(ctx context.Context, email, password string, role model.Role) (string, error) {
	user, err := s.userRepo.GetUserByEmail(ctx, nil, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}
	if user.Role != role || !CheckPasswordHash(password, user.Password) {
		logger.Log.WithField("email", email).Warn("Rejected login attempt")
		return "", ErrInvalidCredentials
	}
	return s.GenerateJWT(user.Email, user.Role)
}

func (s *AuthService) GenerateJWT(email string, role model.Role) (string, error) {
	now := s.now()
	claims := &model.AppClaims{
		Email: email,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.jwtKey)
	if err != nil {
		logger.Log.WithError(err).WithField("email", email).Error("Failed to sign JWT")
		return "", fmt.Errorf("failed to sign token string: %w", err)
	}
	return tokenString, nil
}

// ParseToken validates signature, algorithm and expiry.
func (s *AuthService) ParseToken(tokenString string) (*model.AppClaims, error) {
	claims := &model.AppClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.jwtKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
