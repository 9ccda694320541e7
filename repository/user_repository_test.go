package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Oddscorp-AI/banking-transfer/model"
)

func TestUserRepository_CreateUser(t *testing.T) {
	insert := regexp.QuoteMeta(`INSERT INTO users`)

	t.Run("success", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectQuery(insert).
			WithArgs("a@example.com", "hash", "1111111111111", "T", "E", "pinhash", "CUSTOMER").
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(5), time.Now()))

		user := &model.User{Email: "a@example.com", Password: "hash", CitizenID: "1111111111111",
			ThaiName: "T", EnglishName: "E", Pin: "pinhash", Role: model.RoleCustomer}
		require.NoError(t, NewUserRepository(db).CreateUser(context.Background(), user))
		assert.Equal(t, int64(5), user.ID)
	})

	t.Run("duplicate", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectQuery(insert).WillReturnError(&pq.Error{Code: "23505"})

		err := NewUserRepository(db).CreateUser(context.Background(), &model.User{})
		assert.ErrorIs(t, err, ErrDuplicateUser)
	})
}

func TestUserRepository_GetUserByEmail(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE email = $1`)).WithArgs("a@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password", "citizen_id", "thai_name", "english_name", "pin", "role", "created_at"}).
			AddRow(int64(5), "a@example.com", "hash", "1111111111111", "T", "E", "pinhash", "TELLER", time.Now()))

	user, err := NewUserRepository(db).GetUserByEmail(context.Background(), nil, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, model.RoleTeller, user.Role)
	assert.Equal(t, "1111111111111", user.CitizenID)
}

func TestUserRepository_ExistsByEmailOrCitizenID(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS (SELECT 1 FROM users WHERE email = $1 OR citizen_id = $2)`)).
		WithArgs("a@example.com", "1111111111111").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	exists, err := NewUserRepository(db).ExistsByEmailOrCitizenID(context.Background(), "a@example.com", "1111111111111")
	require.NoError(t, err)
	assert.False(t, exists)
}
