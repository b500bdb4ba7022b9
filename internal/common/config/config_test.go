package config_test

import (
	"errors"
	"testing"
	"time"

	"github.com/messagely/messagely/internal/common/config"
	commonerrors "github.com/messagely/messagely/internal/common/errors"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/messagely")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.HTTPPort != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.HTTPPort)
	}
	if cfg.BcryptCost != 12 {
		t.Errorf("expected default bcrypt cost 12, got %d", cfg.BcryptCost)
	}
	if cfg.AccessTokenTTL != 24*time.Hour {
		t.Errorf("expected default token ttl 24h, got %v", cfg.AccessTokenTTL)
	}
	if cfg.RequestTimeout != 5*time.Second {
		t.Errorf("expected default request timeout 5s, got %v", cfg.RequestTimeout)
	}
}

func TestLoad_Overrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("BCRYPT_COST", "10")
	t.Setenv("ACCESS_TOKEN_TTL", "1h")
	t.Setenv("REQUEST_TIMEOUT", "10s")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.HTTPPort != "9090" {
		t.Errorf("expected port 9090, got %s", cfg.HTTPPort)
	}
	if cfg.BcryptCost != 10 {
		t.Errorf("expected bcrypt cost 10, got %d", cfg.BcryptCost)
	}
	if cfg.AccessTokenTTL != time.Hour {
		t.Errorf("expected token ttl 1h, got %v", cfg.AccessTokenTTL)
	}
	if cfg.RequestTimeout != 10*time.Second {
		t.Errorf("expected request timeout 10s, got %v", cfg.RequestTimeout)
	}
}

func TestLoad_MissingJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/messagely")

	_, err := config.Load()
	if !errors.Is(err, commonerrors.ErrMissingRequiredEnv) {
		t.Errorf("expected ErrMissingRequiredEnv, got %v", err)
	}
}

func TestLoad_ShortJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "too-short")
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/messagely")

	_, err := config.Load()
	if !errors.Is(err, commonerrors.ErrInvalidJWTSecret) {
		t.Errorf("expected ErrInvalidJWTSecret, got %v", err)
	}
}

func TestLoad_MissingDatabaseURL(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("DATABASE_URL", "")

	_, err := config.Load()
	if !errors.Is(err, commonerrors.ErrMissingRequiredEnv) {
		t.Errorf("expected ErrMissingRequiredEnv, got %v", err)
	}
}

func TestLoad_MalformedOptionalValuesFallBack(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("BCRYPT_COST", "not-a-number")
	t.Setenv("ACCESS_TOKEN_TTL", "soon")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.BcryptCost != 12 {
		t.Errorf("expected fallback bcrypt cost 12, got %d", cfg.BcryptCost)
	}
	if cfg.AccessTokenTTL != 24*time.Hour {
		t.Errorf("expected fallback token ttl 24h, got %v", cfg.AccessTokenTTL)
	}
}
