package models

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

type User struct {
	ID         string    `json:"id" db:"id"`
	Username   string    `json:"username" db:"username"`
	Email      string    `json:"email" db:"email"`
	Password   string    `json:"-" db:"password"`
	Department string    `json:"department" db:"department"`
	Role       Role      `json:"role" db:"role"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
}

type UserLogin struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UserSignup is the self-registration payload. Role is only honoured for
// internal callers such as seeding; the HTTP layer always forces RoleUser.
type UserSignup struct {
	Username   string `json:"username" validate:"required,max=100"`
	Email      string `json:"email" validate:"required,email,max=255"`
	Password   string `json:"password" validate:"required,min=6,max=72"`
	Department string `json:"department" validate:"required,max=100"`
	Role       Role   `json:"-"`
}

// NewUser builds a user with a generated identifier. The password must
// already be hashed.
func NewUser(username, email, hashedPassword, department string, role Role) (*User, error) {
	if username == "" || email == "" || hashedPassword == "" {
		return nil, errors.New("invalid user details: username, email, and password are required")
	}

	var userID string
	switch role {
	case RoleUser:
		userID = "USR-" + uuid.New().String()
	case RoleAdmin:
		userID = "ADM-" + uuid.New().String()
	default:
		return nil, errors.New("invalid role")
	}

	return &User{
		ID:         userID,
		Username:   strings.TrimSpace(username),
		Email:      NormalizeEmail(email),
		Password:   hashedPassword,
		Department: strings.TrimSpace(department),
		Role:       role,
		CreatedAt:  time.Now().UTC(),
	}, nil
}

// NormalizeEmail is the canonical form used for uniqueness checks.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Principal is the authenticated caller as carried by the session token.
type Principal struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}
