package user

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound     = errors.New("user: not found")
	ErrEmailTaken   = errors.New("user: email already registered")
	ErrInvalidInput = errors.New("user: invalid input")
)

// User is a member of a class group. Email and class code are fixed at
// registration; name and avatar mutate over time.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	ClassCode    string
	// Avatar holds the stored filename, empty while the default placeholder
	// applies.
	Avatar    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Store persists user records.
type Store interface {
	Create(ctx context.Context, u *User) error
	Find(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	ListByClass(ctx context.Context, classCode string) ([]*User, error)
	UpdateName(ctx context.Context, id, name string) error
	UpdateAvatar(ctx context.Context, id, avatar string) error
}
