package model

import "time"

type Role string

const (
	RoleCustomer Role = "CUSTOMER"
	RoleTeller   Role = "TELLER"
)

type User struct {
	ID          int64     `json:"id"`
	Email       string    `json:"email"`
	Password    string    `json:"-"`
	CitizenID   string    `json:"citizen_id"`
	ThaiName    string    `json:"thai_name"`
	EnglishName string    `json:"english_name"`
	Pin         string    `json:"-"`
	Role        Role      `json:"role"`
	CreatedAt   time.Time `json:"created_at"`
}
