package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Oddscorp-AI/banking-transfer/logger"
	"github.com/Oddscorp-AI/banking-transfer/model"
	"github.com/Oddscorp-AI/banking-transfer/repository"
)

// UserService handles customer registration.
type UserService struct {
	userRepo repository.IUserRepository
}

func NewUserService(userRepo repository.IUserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// Register creates a CUSTOMER. Password and PIN are stored as bcrypt hashes.
func (s *UserService) Register(ctx context.Context, req model.RegisterRequest) (*model.User, error) {
	exists, err := s.userRepo.ExistsByEmailOrCitizenID(ctx, req.Email, req.CitizenID)
	if err != nil {
		return nil, fmt.Errorf("could not check existing users: %w", err)
	}
	if exists {
		return nil, ErrUserAlreadyExists
	}

	password, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	pin, err := HashPassword(req.Pin)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Email:       req.Email,
		Password:    password,
		CitizenID:   req.CitizenID,
		ThaiName:    req.ThaiName,
		EnglishName: req.EnglishName,
		Pin:         pin,
		Role:        model.RoleCustomer,
	}
	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateUser) {
			return nil, ErrUserAlreadyExists
		}
		return nil, err
	}

	logger.Log.WithField("user_id", user.ID).Info("Customer registered")
	return user, nil
}
