package config

import (
	"testing"
	"time"
)

func TestLoadRequiresSecret(t *testing.T) {
	t.Setenv("RANGKUM_AUTH_SECRET", "")
	if _, err := Load(); err == nil {
		t.Fatal("expected error without RANGKUM_AUTH_SECRET")
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("RANGKUM_AUTH_SECRET", "s")
	t.Setenv("RANGKUM_ADDR", "")
	t.Setenv("RANGKUM_TOKEN_TTL", "")
	t.Setenv("RANGKUM_RATE_BURST", "")
	t.Setenv("RANGKUM_RATE_PER_SEC", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != ":8080" {
		t.Fatalf("Addr = %q", cfg.Addr)
	}
	if cfg.TokenTTL != 7*24*time.Hour {
		t.Fatalf("TokenTTL = %v", cfg.TokenTTL)
	}
	if cfg.RateBurst != 20 || cfg.RatePerSec != 10 {
		t.Fatalf("rate defaults = %d/%d", cfg.RateBurst, cfg.RatePerSec)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("RANGKUM_AUTH_SECRET", "s")
	t.Setenv("RANGKUM_ADDR", ":9999")
	t.Setenv("RANGKUM_TOKEN_TTL", "12h")
	t.Setenv("RANGKUM_RATE_BURST", "5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != ":9999" || cfg.TokenTTL != 12*time.Hour || cfg.RateBurst != 5 {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
}

func TestLoadRejectsBadTTL(t *testing.T) {
	t.Setenv("RANGKUM_AUTH_SECRET", "s")
	for _, v := range []string{"nonsense", "-1h", "0s"} {
		t.Setenv("RANGKUM_TOKEN_TTL", v)
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for RANGKUM_TOKEN_TTL=%q", v)
		}
	}
}
