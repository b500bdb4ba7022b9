package service

import (
	"context"

	"github.com/messagely/messagely/internal/auth/guard"
	"github.com/messagely/messagely/internal/common/logger"
	userdomain "github.com/messagely/messagely/internal/user/domain"
	userrepo "github.com/messagely/messagely/internal/user/repository"
)

// UserService exposes profile reads. Access rules: any logged-in user may
// list profiles; the detail view is restricted to the user themselves.
type UserService struct {
	users userrepo.Repository
	log   *logger.Logger
}

func NewUserService(users userrepo.Repository, log *logger.Logger) *UserService {
	return &UserService{users: users, log: log}
}

func (s *UserService) List(ctx context.Context, requester string) ([]userdomain.Profile, error) {
	if err := guard.RequireLoggedIn(requester); err != nil {
		return nil, err
	}

	profiles, err := s.users.ListProfiles(ctx)
	if err != nil {
		s.log.Errorf("list users failed: %v", err)
		return nil, err
	}
	return profiles, nil
}

func (s *UserService) Get(ctx context.Context, requester, username string) (userdomain.User, error) {
	if err := guard.RequireSelf(requester, username); err != nil {
		return userdomain.User{}, err
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		s.log.Errorf("get user failed username=%s: %v", username, err)
		return userdomain.User{}, err
	}
	return user, nil
}
