package auth

import (
	"context"
	"errors"
	"fmt"

	"rangkum.app/internal/user"
)

// UserResolver is the subset of the user store the gate needs.
type UserResolver interface {
	Find(ctx context.Context, id string) (*user.User, error)
}

// Authenticator resolves bearer tokens to principals. It is the only path by
// which request handlers obtain identity.
type Authenticator struct {
	tokens *Tokens
	users  UserResolver
}

func NewAuthenticator(tokens *Tokens, users UserResolver) *Authenticator {
	return &Authenticator{tokens: tokens, users: users}
}

// Authenticate verifies the token and resolves its subject against the user
// store. Every failure collapses into ErrUnauthenticated so callers never
// learn which verification step rejected the credential.
func (a *Authenticator) Authenticate(ctx context.Context, token string) (Principal, error) {
	subject, err := a.tokens.Verify(token)
	if err != nil {
		return Principal{}, fmt.Errorf("%w: invalid or expired credential", ErrUnauthenticated)
	}
	u, err := a.users.Find(ctx, subject)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return Principal{}, fmt.Errorf("%w: principal not found", ErrUnauthenticated)
		}
		return Principal{}, err
	}
	return Principal{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		ClassCode: u.ClassCode,
		Avatar:    u.Avatar,
	}, nil
}
