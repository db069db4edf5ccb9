// Package user models the people who file and work tickets.
package user

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	vo "helpdesk/internal/domain/user/valueobjects"
)

const (
	MinPasswordLength = 6
	maxNameLength     = 100
)

// User never exposes its password hash outside the domain and persistence
// layers.
type User struct {
	id           uint
	name         string
	email        vo.Email
	passwordHash string
	role         vo.Role
	createdAt    time.Time
	updatedAt    time.Time
}

func NewUser(name string, email vo.Email, passwordHash string, role vo.Role) (*User, error) {
	name, err := validateName(name)
	if err != nil {
		return nil, err
	}
	if email.IsZero() {
		return nil, fmt.Errorf("email is required")
	}
	if passwordHash == "" {
		return nil, fmt.Errorf("password is required")
	}
	if !role.IsValid() {
		return nil, fmt.Errorf("invalid role")
	}

	now := time.Now()
	return &User{
		name:         name,
		email:        email,
		passwordHash: passwordHash,
		role:         role,
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

// ReconstructUser rebuilds a User loaded from storage.
func ReconstructUser(id uint, name string, email vo.Email, passwordHash string, role vo.Role, createdAt, updatedAt time.Time) (*User, error) {
	if id == 0 {
		return nil, fmt.Errorf("user ID cannot be zero")
	}
	if !role.IsValid() {
		return nil, fmt.Errorf("invalid role %q", role)
	}
	return &User{
		id:           id,
		name:         name,
		email:        email,
		passwordHash: passwordHash,
		role:         role,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}, nil
}

func validateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("name is required")
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return "", fmt.Errorf("name cannot exceed %d characters", maxNameLength)
	}
	return name, nil
}

func (u *User) ID() uint             { return u.id }
func (u *User) Name() string         { return u.name }
func (u *User) Email() vo.Email      { return u.email }
func (u *User) PasswordHash() string { return u.passwordHash }
func (u *User) Role() vo.Role        { return u.role }
func (u *User) CreatedAt() time.Time { return u.createdAt }
func (u *User) UpdatedAt() time.Time { return u.updatedAt }
func (u *User) IsStaff() bool        { return u.role.IsStaff() }

func (u *User) SetID(id uint) error {
	if u.id != 0 {
		return fmt.Errorf("user ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("user ID cannot be zero")
	}
	u.id = id
	return nil
}

func (u *User) Rename(name string) error {
	name, err := validateName(name)
	if err != nil {
		return err
	}
	u.name = name
	u.touch()
	return nil
}

func (u *User) ChangeEmail(email vo.Email) error {
	if email.IsZero() {
		return fmt.Errorf("email is required")
	}
	u.email = email
	u.touch()
	return nil
}

func (u *User) ChangePasswordHash(hash string) error {
	if hash == "" {
		return fmt.Errorf("password is required")
	}
	u.passwordHash = hash
	u.touch()
	return nil
}

func (u *User) ChangeRole(role vo.Role) error {
	if !role.IsValid() {
		return fmt.Errorf("invalid role %q", role)
	}
	u.role = role
	u.touch()
	return nil
}

func (u *User) touch() {
	u.updatedAt = time.Now()
}
