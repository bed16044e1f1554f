package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config carries all runtime settings, loaded from the environment with an
// optional .env file for local development.
type Config struct {
	Addr       string
	PGDSN      string
	AuthSecret string
	TokenTTL   time.Duration
	AvatarDir  string
	UploadDir  string
	RateBurst  int
	RatePerSec int
}

// Load reads configuration from the environment. RANGKUM_AUTH_SECRET is the
// only required setting.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Addr:       getenv("RANGKUM_ADDR", ":8080"),
		PGDSN:      os.Getenv("RANGKUM_PG_DSN"),
		AuthSecret: os.Getenv("RANGKUM_AUTH_SECRET"),
		TokenTTL:   7 * 24 * time.Hour,
		AvatarDir:  getenv("RANGKUM_AVATAR_DIR", "data/avatars"),
		UploadDir:  getenv("RANGKUM_UPLOAD_DIR", "data/uploads"),
		RateBurst:  getint("RANGKUM_RATE_BURST", 20),
		RatePerSec: getint("RANGKUM_RATE_PER_SEC", 10),
	}
	if v := os.Getenv("RANGKUM_TOKEN_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil || ttl <= 0 {
			return Config{}, errors.New("config: RANGKUM_TOKEN_TTL must be a positive duration")
		}
		cfg.TokenTTL = ttl
	}
	if cfg.AuthSecret == "" {
		return Config{}, errors.New("config: RANGKUM_AUTH_SECRET is required")
	}
	return cfg, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getint(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}
