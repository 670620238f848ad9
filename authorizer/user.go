package authorizer

import (
	"context"

	"github.com/plantops/factoryd"
	"github.com/plantops/factoryd/kit/platform"
)

var _ factoryd.UserService = (*UserService)(nil)

// UserService wraps a factoryd.UserService and restricts every
// operation to the global admin scope.
type UserService struct {
	s factoryd.UserService
}

// NewUserService constructs an instance of an authorizing user service.
func NewUserService(s factoryd.UserService) *UserService {
	return &UserService{
		s: s,
	}
}

// FindUserByID requires the global admin scope.
func (s *UserService) FindUserByID(ctx context.Context, id platform.ID) (*factoryd.User, error) {
	if _, err := authorizeAdmin(ctx); err != nil {
		return nil, err
	}

	return s.s.FindUserByID(ctx, id)
}

// FindUser requires the global admin scope.
func (s *UserService) FindUser(ctx context.Context, filter factoryd.UserFilter) (*factoryd.User, error) {
	if _, err := authorizeAdmin(ctx); err != nil {
		return nil, err
	}

	return s.s.FindUser(ctx, filter)
}

// FindUsers requires the global admin scope.
func (s *UserService) FindUsers(ctx context.Context, filter factoryd.UserFilter, opts factoryd.FindOptions) ([]*factoryd.User, int, error) {
	if _, err := authorizeAdmin(ctx); err != nil {
		return nil, 0, err
	}

	return s.s.FindUsers(ctx, filter, opts)
}

// CreateUser requires the global admin scope. Registration goes through
// the session service, not through here.
func (s *UserService) CreateUser(ctx context.Context, u *factoryd.User) error {
	if _, err := authorizeAdmin(ctx); err != nil {
		return err
	}

	return s.s.CreateUser(ctx, u)
}

// UpdateUser requires the global admin scope.
func (s *UserService) UpdateUser(ctx context.Context, id platform.ID, upd factoryd.UserUpdate) (*factoryd.User, error) {
	if _, err := authorizeAdmin(ctx); err != nil {
		return nil, err
	}

	return s.s.UpdateUser(ctx, id, upd)
}

// DeleteUser requires the global admin scope.
func (s *UserService) DeleteUser(ctx context.Context, id platform.ID) error {
	if _, err := authorizeAdmin(ctx); err != nil {
		return err
	}

	return s.s.DeleteUser(ctx, id)
}
