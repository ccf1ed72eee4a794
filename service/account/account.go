// Package account is the customer account backend: login, registration, profile, settings and
// order submission.
package account

import (
	"context"
	"errors"

	"grocery.GO/core/validate"
	"grocery.GO/model/entity"
	"grocery.GO/service/order"
)

var (
	ErrInvalidCredentials = errors.New("Invalid email or password")
	ErrEmailTaken         = errors.New("Email already registered")
	ErrUserNotFound       = errors.New("User not found")
	ErrInvalidToken       = errors.New("Session token is not valid")
)

// Session is the result of a successful login or registration.
type Session struct {
	User  entity.User `json:"user"`
	Token string      `json:"token"`
}

type RegisterRequest struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
	Phone     string `json:"phone" validate:"omitempty,phone"`
}

var registerMessages = map[string]string{
	"firstName": "First name is required",
	"lastName":  "Last name is required",
	"email":     "Valid email is required",
	"password":  "Password must be at least 6 characters",
}

func (r RegisterRequest) Validate() error {
	return validate.Struct(r, registerMessages)
}

// ProfileUpdate changes the non-nil fields. Passwords cannot be changed through it.
type ProfileUpdate struct {
	FirstName   *string `json:"firstName" validate:"omitempty,min=1"`
	LastName    *string `json:"lastName"`
	Phone       *string `json:"phone" validate:"omitempty,phone"`
	Avatar      *string `json:"avatar"`
	DateOfBirth *string `json:"dateOfBirth" validate:"omitempty,datetime=2006-01-02"`
}

func (p ProfileUpdate) Validate() error {
	return validate.Struct(p, nil)
}

func (p ProfileUpdate) apply(u *entity.User) {
	if p.FirstName != nil {
		u.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		u.LastName = *p.LastName
	}
	if p.Phone != nil {
		u.Phone = *p.Phone
	}
	if p.Avatar != nil {
		u.Avatar = *p.Avatar
	}
	if p.DateOfBirth != nil {
		u.DateOfBirth = *p.DateOfBirth
	}
}

// Backend is the account API consumed by sessions and the HTTP layer. Returned users never
// carry a password.
type Backend interface {
	Login(ctx context.Context, email, password string) (*Session, error)
	Register(ctx context.Context, req RegisterRequest) (*Session, error)
	Logout(ctx context.Context, token string) error
	UserByToken(ctx context.Context, token string) (*entity.User, error)
	UserByID(ctx context.Context, id string) (*entity.User, error)
	UpdateProfile(ctx context.Context, userID string, upd ProfileUpdate) (*entity.User, error)
	UpdateSettings(ctx context.Context, userID string, settings entity.Settings) (entity.Settings, error)
	AddOrder(ctx context.Context, userID string, req order.Request) (*entity.Order, error)
	UserOrders(ctx context.Context, userID string) ([]entity.Order, error)
}
