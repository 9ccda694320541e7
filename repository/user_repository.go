package repository

import (
	"context"
	"database/sql"

	"github.com/Oddscorp-AI/banking-transfer/logger"
	"github.com/Oddscorp-AI/banking-transfer/model"
)

type IUserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByEmail(ctx context.Context, q Querier, email string) (*model.User, error)
	ExistsByEmailOrCitizenID(ctx context.Context, email, citizenID string) (bool, error)
}

type UserRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) CreateUser(ctx context.Context, user *model.User) error {
	query := `INSERT INTO users (email, password, citizen_id, thai_name, english_name, pin, role)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id, created_at`
	err := r.DB.QueryRowContext(ctx, query, user.Email, user.Password, user.CitizenID, user.ThaiName,
		user.EnglishName, user.Pin, string(user.Role)).Scan(&user.ID, &user.CreatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicateUser
	}
	if err != nil {
		logger.Log.WithError(err).WithField("email", user.Email).Error("Failed to execute create user query")
	}
	return err
}

// GetUserByEmail takes a Querier so the ownership check can run inside a
// transfer's transaction. It returns sql.ErrNoRows for unknown emails.
func (r *UserRepository) GetUserByEmail(ctx context.Context, q Querier, email string) (*model.User, error) {
	if q == nil {
		q = r.DB
	}
	user := &model.User{}
	var role string
	query := `SELECT id, email, password, citizen_id, thai_name, english_name, pin, role, created_at FROM users WHERE email = $1`
	err := q.QueryRowContext(ctx, query, email).Scan(&user.ID, &user.Email, &user.Password, &user.CitizenID,
		&user.ThaiName, &user.EnglishName, &user.Pin, &role, &user.CreatedAt)
	if err != nil {
		return nil, err
	}
	user.Role = model.Role(role)
	return user, nil
}

func (r *UserRepository) ExistsByEmailOrCitizenID(ctx context.Context, email, citizenID string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1 OR citizen_id = $2)`
	if err := r.DB.QueryRowContext(ctx, query, email, citizenID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}
