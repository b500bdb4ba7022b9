package service

import (
	"context"
	"errors"

	"github.com/messagely/messagely/internal/common/clock"
	commoncrypto "github.com/messagely/messagely/internal/common/crypto"
	commonerrors "github.com/messagely/messagely/internal/common/errors"
	"github.com/messagely/messagely/internal/common/logger"
	"github.com/messagely/messagely/internal/observability/metrics"
	userdomain "github.com/messagely/messagely/internal/user/domain"
	userrepo "github.com/messagely/messagely/internal/user/repository"
)

type AuthService struct {
	users  userrepo.Repository
	hasher commoncrypto.PasswordHasher
	issuer *TokenIssuer
	clock  clock.Clock
	log    *logger.Logger
}

func NewAuthService(
	users userrepo.Repository,
	hasher commoncrypto.PasswordHasher,
	issuer *TokenIssuer,
	clock clock.Clock,
	log *logger.Logger,
) *AuthService {
	return &AuthService{
		users:  users,
		hasher: hasher,
		issuer: issuer,
		clock:  clock,
		log:    log,
	}
}

type RegisterInput struct {
	Username  string
	Password  string
	FirstName string
	LastName  string
	Phone     string
}

type LoginInput struct {
	Username string
	Password string
}

// Register creates the user and logs them in: join_at and last_login_at are
// both set to creation time and a token is issued immediately.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (string, error) {
	s.log.WithFields(ctx, logger.Fields{
		"username": input.Username,
		"action":   "register_attempt",
	}).Info("register attempt")

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "register_hash_failed",
		}).Errorf("register failed: password hash error: %v", err)
		return "", commonerrors.ErrInternalError.WithCause(err)
	}

	now := s.clock.Now()
	user := userdomain.User{
		Username:     input.Username,
		PasswordHash: hash,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Phone:        input.Phone,
		JoinAt:       now,
		LastLoginAt:  now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, commonerrors.ErrDuplicateUser) {
			s.log.WithFields(ctx, logger.Fields{
				"username": input.Username,
				"action":   "register_username_exists",
			}).Warn("register failed: already exists")
			return "", commonerrors.ErrDuplicateUser
		}
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "register_create_failed",
		}).Errorf("register failed: %v", err)
		return "", commonerrors.ErrInternalError.WithCause(err)
	}

	token, err := s.issuer.Issue(user.Username)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "register_token_issue_failed",
		}).Errorf("register failed: token issue error: %v", err)
		return "", commonerrors.ErrInternalError.WithCause(err)
	}

	metrics.RegistrationsTotal.Inc()
	s.log.WithFields(ctx, logger.Fields{
		"username": user.Username,
		"action":   "register_success",
	}).Info("register success")

	return token, nil
}

// Login verifies the credentials, stamps last_login_at, and issues a token.
// An unknown username and a wrong password both surface as
// ErrInvalidCredentials at the boundary.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (string, error) {
	s.log.WithFields(ctx, logger.Fields{
		"username": input.Username,
		"action":   "login_attempt",
	}).Info("login attempt")

	user, err := s.users.FindByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, commonerrors.ErrUserNotFound) {
			s.log.WithFields(ctx, logger.Fields{
				"username": input.Username,
				"action":   "login_user_not_found",
			}).Warn("login failed: not found")
			metrics.LoginsTotal.WithLabelValues("failure").Inc()
			return "", commonerrors.ErrInvalidCredentials
		}
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "login_fetch_failed",
		}).Errorf("login failed: %v", err)
		return "", commonerrors.ErrInternalError.WithCause(err)
	}

	if err := s.hasher.Compare(user.PasswordHash, input.Password); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "login_invalid_password",
		}).Warn("login failed: invalid password")
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return "", commonerrors.ErrInvalidCredentials
	}

	if err := s.users.UpdateLastLogin(ctx, user.Username, s.clock.Now()); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "login_stamp_failed",
		}).Errorf("login failed: last login update error: %v", err)
		return "", commonerrors.ErrInternalError.WithCause(err)
	}

	token, err := s.issuer.Issue(user.Username)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "login_token_issue_failed",
		}).Errorf("login failed: token issue error: %v", err)
		return "", commonerrors.ErrInternalError.WithCause(err)
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	s.log.WithFields(ctx, logger.Fields{
		"username": user.Username,
		"action":   "login_success",
	}).Info("login success")

	return token, nil
}
