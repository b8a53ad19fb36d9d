package domain

import (
	"errors"
	"time"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPendingApproval    = errors.New("pending approval")
	ErrSessionNotFound    = errors.New("session not found")
)

const (
	UserStatusPending  = "pending"
	UserStatusApproved = "approved"

	RoleMember = "member"
	RoleAdmin  = "admin"
)

type User struct {
	ID           uint   `gorm:"primaryKey"`
	Name         string `gorm:"not null;size:255"`
	Email        string `gorm:"uniqueIndex;not null;size:255"`
	PasswordHash string
	Status       string `gorm:"index;default:'pending'"`
	Role         string `gorm:"default:'member'"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (u *User) IsApproved() bool {
	return u.Status == UserStatusApproved
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
