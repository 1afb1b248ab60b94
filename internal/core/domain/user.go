package domain

import (
	"errors"
	"time"
)

// Role is the closed set of account types.
type Role string

const (
	RoleBuilder Role = "BUILDER"
	RoleWorker  Role = "WORKER"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrMissingFields      = errors.New("missing fields")
	ErrInvalidRole        = errors.New("invalid role")
	ErrInvalidSession     = errors.New("invalid or expired session")
)

// ParseRole maps a form value onto a Role.
func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleBuilder, RoleWorker:
		return r, nil
	}
	return "", ErrInvalidRole
}

// User models an authenticated actor in the system.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (u *User) IsBuilder() bool { return u != nil && u.Role == RoleBuilder }

func (u *User) IsWorker() bool { return u != nil && u.Role == RoleWorker }
