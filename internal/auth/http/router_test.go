package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	authhttp "github.com/messagely/messagely/internal/auth/http"
	"github.com/messagely/messagely/internal/auth/service"
	"github.com/messagely/messagely/internal/common/clock"
	commoncrypto "github.com/messagely/messagely/internal/common/crypto"
	commonerrors "github.com/messagely/messagely/internal/common/errors"
	commonhttp "github.com/messagely/messagely/internal/common/http"
	"github.com/messagely/messagely/internal/common/logger"
	userdomain "github.com/messagely/messagely/internal/user/domain"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type mockUserRepo struct {
	createFunc          func(ctx context.Context, user userdomain.User) error
	findByUsernameFunc  func(ctx context.Context, username string) (userdomain.User, error)
	updateLastLoginFunc func(ctx context.Context, username string, at time.Time) error
	listProfilesFunc    func(ctx context.Context) ([]userdomain.Profile, error)
}

func (m *mockUserRepo) Create(ctx context.Context, user userdomain.User) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, user)
	}
	return nil
}

func (m *mockUserRepo) FindByUsername(ctx context.Context, username string) (userdomain.User, error) {
	if m.findByUsernameFunc != nil {
		return m.findByUsernameFunc(ctx, username)
	}
	return userdomain.User{}, commonerrors.ErrUserNotFound
}

func (m *mockUserRepo) UpdateLastLogin(ctx context.Context, username string, at time.Time) error {
	if m.updateLastLoginFunc != nil {
		return m.updateLastLoginFunc(ctx, username, at)
	}
	return nil
}

func (m *mockUserRepo) ListProfiles(ctx context.Context) ([]userdomain.Profile, error) {
	if m.listProfilesFunc != nil {
		return m.listProfilesFunc(ctx)
	}
	return nil, nil
}

func setupAuthHandler(t *testing.T, repo *mockUserRepo) http.Handler {
	t.Helper()

	log, err := logger.New("", "test", "error")
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}

	mockClock := clock.NewMockClock(time.Now())
	hasher := commoncrypto.NewBcryptHasher(bcrypt.MinCost)
	issuer := service.NewTokenIssuer(testSecret, commoncrypto.NewUUIDGenerator(), time.Hour, mockClock)
	auth := service.NewAuthService(repo, hasher, issuer, mockClock, log)

	return authhttp.NewHandler(auth, 5*time.Second, log)
}

func decodeErrorEnvelope(t *testing.T, rec *httptest.ResponseRecorder) commonhttp.ErrorEnvelope {
	t.Helper()

	var envelope commonhttp.ErrorEnvelope
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("failed to decode error envelope: %v", err)
	}
	return envelope
}

func TestRegister_Success(t *testing.T) {
	handler := setupAuthHandler(t, &mockUserRepo{})

	body := `{"username":"alice","password":"secret1","first_name":"Alice","last_name":"Example","phone":"+15551234567"}`
	req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Token == "" {
		t.Error("expected token in response")
	}
}

func TestRegister_MissingField(t *testing.T) {
	handler := setupAuthHandler(t, &mockUserRepo{
		createFunc: func(ctx context.Context, user userdomain.User) error {
			t.Error("store must not be touched when validation fails")
			return nil
		},
	})

	body := `{"username":"alice","password":"secret1"}`
	req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
	if envelope := decodeErrorEnvelope(t, rec); envelope.Code != "MISSING_FIELD" {
		t.Errorf("expected code MISSING_FIELD, got %s", envelope.Code)
	}
}

func TestRegister_InvalidJSON(t *testing.T) {
	handler := setupAuthHandler(t, &mockUserRepo{})

	req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
	if envelope := decodeErrorEnvelope(t, rec); envelope.Code != commonhttp.CodeInvalidJSON {
		t.Errorf("expected code %s, got %s", commonhttp.CodeInvalidJSON, envelope.Code)
	}
}

func TestRegister_DuplicateUser(t *testing.T) {
	handler := setupAuthHandler(t, &mockUserRepo{
		createFunc: func(ctx context.Context, user userdomain.User) error {
			return commonerrors.ErrDuplicateUser
		},
	})

	body := `{"username":"alice","password":"secret1","first_name":"Alice","last_name":"Example","phone":"+15551234567"}`
	req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", rec.Code)
	}
	if envelope := decodeErrorEnvelope(t, rec); envelope.Code != "DUPLICATE_USER" {
		t.Errorf("expected code DUPLICATE_USER, got %s", envelope.Code)
	}
}

func TestRegister_MethodNotAllowed(t *testing.T) {
	handler := setupAuthHandler(t, &mockUserRepo{})

	req := httptest.NewRequest(http.MethodGet, "/register", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status 405, got %d", rec.Code)
	}
}

func TestLogin_Success(t *testing.T) {
	hasher := commoncrypto.NewBcryptHasher(bcrypt.MinCost)
	hash, err := hasher.Hash("secret1")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	handler := setupAuthHandler(t, &mockUserRepo{
		findByUsernameFunc: func(ctx context.Context, username string) (userdomain.User, error) {
			return userdomain.User{Username: "alice", PasswordHash: hash}, nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"username":"alice","password":"secret1"}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Token == "" {
		t.Error("expected token in response")
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	hasher := commoncrypto.NewBcryptHasher(bcrypt.MinCost)
	hash, err := hasher.Hash("secret1")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	handler := setupAuthHandler(t, &mockUserRepo{
		findByUsernameFunc: func(ctx context.Context, username string) (userdomain.User, error) {
			return userdomain.User{Username: "alice", PasswordHash: hash}, nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"username":"alice","password":"wrong"}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
	if envelope := decodeErrorEnvelope(t, rec); envelope.Code != "INVALID_CREDENTIALS" {
		t.Errorf("expected code INVALID_CREDENTIALS, got %s", envelope.Code)
	}
}

func TestLogin_MissingField(t *testing.T) {
	handler := setupAuthHandler(t, &mockUserRepo{})

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"username":"alice"}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
	if envelope := decodeErrorEnvelope(t, rec); envelope.Code != "INVALID_CREDENTIALS" {
		t.Errorf("expected code INVALID_CREDENTIALS, got %s", envelope.Code)
	}
}
