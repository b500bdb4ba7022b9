package service_test

import (
	"context"
	"time"

	commonerrors "github.com/messagely/messagely/internal/common/errors"
	userdomain "github.com/messagely/messagely/internal/user/domain"
)

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
