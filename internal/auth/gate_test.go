package auth

import (
	"context"
	"errors"
	"testing"

	"rangkum.app/internal/user"
)

type userResolverStub struct {
	users map[string]*user.User
}

func (s *userResolverStub) Find(ctx context.Context, id string) (*user.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	return u, nil
}

func TestAuthenticateResolvesPrincipal(t *testing.T) {
	tokens, err := NewTokens("test-secret")
	if err != nil {
		t.Fatalf("NewTokens: %v", err)
	}
	resolver := &userResolverStub{users: map[string]*user.User{
		"u1": {ID: "u1", Name: "Dina", Email: "dina@example.com", ClassCode: "TI-3A", Avatar: "abc.png"},
	}}
	gate := NewAuthenticator(tokens, resolver)

	signed, _, err := tokens.Issue("u1")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	principal, err := gate.Authenticate(context.Background(), signed)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if principal.ID != "u1" || principal.Name != "Dina" || principal.ClassCode != "TI-3A" {
		t.Fatalf("unexpected principal: %+v", principal)
	}
}

func TestAuthenticateCollapsesFailures(t *testing.T) {
	tokens, err := NewTokens("test-secret")
	if err != nil {
		t.Fatalf("NewTokens: %v", err)
	}
	gate := NewAuthenticator(tokens, &userResolverStub{users: map[string]*user.User{}})

	// Token for a user the store no longer knows.
	signed, _, err := tokens.Issue("deleted-user")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	cases := []struct {
		name  string
		token string
	}{
		{"malformed token", "garbage"},
		{"empty token", ""},
		{"deleted subject", signed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := gate.Authenticate(context.Background(), tc.token)
			if !errors.Is(err, ErrUnauthenticated) {
				t.Fatalf("Authenticate = %v, want ErrUnauthenticated", err)
			}
		})
	}
}
