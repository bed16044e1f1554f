package auth

import (
	"errors"
	"testing"
	"time"
)

func TestTokensRoundtrip(t *testing.T) {
	tokens, err := NewTokens("test-secret")
	if err != nil {
		t.Fatalf("NewTokens: %v", err)
	}
	signed, expiresAt, err := tokens.Issue("user-123")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if signed == "" {
		t.Fatal("expected a signed token")
	}
	if until := time.Until(expiresAt); until < 6*24*time.Hour {
		t.Fatalf("expiry too close: %v", until)
	}

	subject, err := tokens.Verify(signed)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if subject != "user-123" {
		t.Fatalf("subject = %q, want user-123", subject)
	}
}

func TestTokensExpired(t *testing.T) {
	issued := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	clock := issued
	tokens, err := NewTokens("test-secret", WithClock(func() time.Time { return clock }))
	if err != nil {
		t.Fatalf("NewTokens: %v", err)
	}
	signed, _, err := tokens.Issue("user-123")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	// Still valid one hour before expiry.
	clock = issued.Add(7*24*time.Hour - time.Hour)
	if _, err := tokens.Verify(signed); err != nil {
		t.Fatalf("Verify before expiry: %v", err)
	}

	clock = issued.Add(8 * 24 * time.Hour)
	if _, err := tokens.Verify(signed); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("Verify after expiry = %v, want ErrInvalidToken", err)
	}
}

func TestTokensVerifyRejects(t *testing.T) {
	tokens, err := NewTokens("test-secret")
	if err != nil {
		t.Fatalf("NewTokens: %v", err)
	}
	other, err := NewTokens("different-secret")
	if err != nil {
		t.Fatalf("NewTokens: %v", err)
	}
	foreign, _, err := other.Issue("user-123")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	cases := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"whitespace", "   "},
		{"garbage", "not.a.token"},
		{"wrong secret", foreign},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := tokens.Verify(tc.token); !errors.Is(err, ErrInvalidToken) {
				t.Fatalf("Verify(%q) = %v, want ErrInvalidToken", tc.token, err)
			}
		})
	}
}

func TestNewTokensRequiresSecret(t *testing.T) {
	if _, err := NewTokens("  "); err == nil {
		t.Fatal("expected error for empty secret")
	}
}

func TestIssueRequiresSubject(t *testing.T) {
	tokens, err := NewTokens("test-secret")
	if err != nil {
		t.Fatalf("NewTokens: %v", err)
	}
	if _, _, err := tokens.Issue(" "); err == nil {
		t.Fatal("expected error for empty subject")
	}
}
