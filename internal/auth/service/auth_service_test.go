package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/messagely/messagely/internal/auth/service"
	"github.com/messagely/messagely/internal/common/clock"
	commoncrypto "github.com/messagely/messagely/internal/common/crypto"
	commonerrors "github.com/messagely/messagely/internal/common/errors"
	"github.com/messagely/messagely/internal/common/logger"
	userdomain "github.com/messagely/messagely/internal/user/domain"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func setupAuthService(t *testing.T, repo *mockUserRepo) (*service.AuthService, *clock.MockClock) {
	t.Helper()

	log, err := logger.New("", "test", "error")
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}

	mockClock := clock.NewMockClock(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	hasher := commoncrypto.NewBcryptHasher(bcrypt.MinCost)
	issuer := service.NewTokenIssuer(testSecret, commoncrypto.NewUUIDGenerator(), time.Hour, mockClock)

	return service.NewAuthService(repo, hasher, issuer, mockClock, log), mockClock
}

func TestAuthService_Register_Success(t *testing.T) {
	var created userdomain.User
	repo := &mockUserRepo{
		createFunc: func(ctx context.Context, user userdomain.User) error {
			created = user
			return nil
		},
	}
	svc, mockClock := setupAuthService(t, repo)

	token, err := svc.Register(context.Background(), service.RegisterInput{
		Username:  "alice",
		Password:  "secret1",
		FirstName: "Alice",
		LastName:  "Example",
		Phone:     "+15551234567",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if token == "" {
		t.Error("expected token to be issued")
	}

	if created.PasswordHash == "secret1" {
		t.Error("stored password must not equal the plaintext input")
	}
	if created.PasswordHash == "" {
		t.Error("expected password hash to be stored")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("secret1")); err != nil {
		t.Errorf("stored hash does not verify against original password: %v", err)
	}

	if !created.JoinAt.Equal(mockClock.Now()) {
		t.Errorf("expected join_at %v, got %v", mockClock.Now(), created.JoinAt)
	}
	if !created.LastLoginAt.Equal(mockClock.Now()) {
		t.Errorf("expected last_login_at %v, got %v", mockClock.Now(), created.LastLoginAt)
	}
}

func TestAuthService_Register_DuplicateUser(t *testing.T) {
	repo := &mockUserRepo{
		createFunc: func(ctx context.Context, user userdomain.User) error {
			return commonerrors.ErrDuplicateUser
		},
	}
	svc, _ := setupAuthService(t, repo)

	_, err := svc.Register(context.Background(), service.RegisterInput{
		Username:  "alice",
		Password:  "secret1",
		FirstName: "Alice",
		LastName:  "Example",
		Phone:     "+15551234567",
	})
	if !errors.Is(err, commonerrors.ErrDuplicateUser) {
		t.Errorf("expected ErrDuplicateUser, got %v", err)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	hasher := commoncrypto.NewBcryptHasher(bcrypt.MinCost)
	hash, err := hasher.Hash("secret1")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	joinAt := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var stampedAt time.Time
	repo := &mockUserRepo{
		findByUsernameFunc: func(ctx context.Context, username string) (userdomain.User, error) {
			if username != "alice" {
				t.Errorf("expected username alice, got %s", username)
			}
			return userdomain.User{
				Username:     "alice",
				PasswordHash: hash,
				JoinAt:       joinAt,
				LastLoginAt:  joinAt,
			}, nil
		},
		updateLastLoginFunc: func(ctx context.Context, username string, at time.Time) error {
			stampedAt = at
			return nil
		},
	}
	svc, mockClock := setupAuthService(t, repo)

	token, err := svc.Login(context.Background(), service.LoginInput{
		Username: "alice",
		Password: "secret1",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if token == "" {
		t.Error("expected token to be issued")
	}
	if !stampedAt.Equal(mockClock.Now()) {
		t.Errorf("expected last_login_at stamped with %v, got %v", mockClock.Now(), stampedAt)
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	hasher := commoncrypto.NewBcryptHasher(bcrypt.MinCost)
	hash, err := hasher.Hash("secret1")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	repo := &mockUserRepo{
		findByUsernameFunc: func(ctx context.Context, username string) (userdomain.User, error) {
			return userdomain.User{Username: "alice", PasswordHash: hash}, nil
		},
		updateLastLoginFunc: func(ctx context.Context, username string, at time.Time) error {
			t.Error("last_login_at must not be stamped on failed login")
			return nil
		},
	}
	svc, _ := setupAuthService(t, repo)

	_, err = svc.Login(context.Background(), service.LoginInput{
		Username: "alice",
		Password: "wrongpass",
	})
	if !errors.Is(err, commonerrors.ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_UnknownUser(t *testing.T) {
	repo := &mockUserRepo{
		findByUsernameFunc: func(ctx context.Context, username string) (userdomain.User, error) {
			return userdomain.User{}, commonerrors.ErrUserNotFound
		},
	}
	svc, _ := setupAuthService(t, repo)

	_, err := svc.Login(context.Background(), service.LoginInput{
		Username: "nobody",
		Password: "secret1",
	})
	if !errors.Is(err, commonerrors.ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials for unknown user, got %v", err)
	}
}
