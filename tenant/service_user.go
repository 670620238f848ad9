package tenant

import (
	"context"

	"github.com/plantops/factoryd"
	"github.com/plantops/factoryd/kit/platform"
	"github.com/plantops/factoryd/kit/platform/errors"
	"github.com/plantops/factoryd/kv"
)

// FindUserByID returns a single user by ID.
func (s *Service) FindUserByID(ctx context.Context, id platform.ID) (*factoryd.User, error) {
	var u *factoryd.User
	err := s.store.View(ctx, func(tx kv.Tx) error {
		user, err := s.store.GetUser(ctx, tx, id)
		if err != nil {
			return err
		}
		u = user
		return nil
	})
	if err != nil {
		return nil, err
	}

	return u, nil
}

// FindUser returns the first user that matches filter.
func (s *Service) FindUser(ctx context.Context, filter factoryd.UserFilter) (*factoryd.User, error) {
	if filter.ID != nil {
		return s.FindUserByID(ctx, *filter.ID)
	}

	if filter.Name == nil {
		return nil, &errors.Error{
			Code: errors.EInvalid,
			Msg:  "user filter requires either id or name",
		}
	}

	var u *factoryd.User
	err := s.store.View(ctx, func(tx kv.Tx) error {
		user, err := s.store.GetUserByName(ctx, tx, *filter.Name)
		if err != nil {
			return err
		}
		u = user
		return nil
	})
	if err != nil {
		return nil, err
	}

	return u, nil
}

// FindUsers returns the requested page of users matching filter and the
// total count of matches.
func (s *Service) FindUsers(ctx context.Context, filter factoryd.UserFilter, opts factoryd.FindOptions) ([]*factoryd.User, int, error) {
	if filter.ID != nil || filter.Name != nil {
		u, err := s.FindUser(ctx, filter)
		if err != nil {
			return nil, 0, err
		}
		us := []*factoryd.User{u}
		lo, hi := windowBounds(len(us), opts)
		return us[lo:hi], len(us), nil
	}

	var us []*factoryd.User
	err := s.store.View(ctx, func(tx kv.Tx) error {
		all, err := s.store.ListUsers(ctx, tx, filter)
		if err != nil {
			return err
		}
		us = all
		return nil
	})
	if err != nil {
		return nil, 0, err
	}

	total := len(us)
	lo, hi := windowBounds(total, opts)
	return us[lo:hi], total, nil
}

// CreateUser creates a new user and sets u.ID with the new identifier.
// The username must be unique across the system.
func (s *Service) CreateUser(ctx context.Context, u *factoryd.User) error {
	if u.Name == "" {
		return factoryd.ErrMissingFields
	}

	return s.store.Update(ctx, func(tx kv.Tx) error {
		return s.store.CreateUser(ctx, tx, u)
	})
}

// UpdateUser updates a single user with changeset and returns the new
// state.
func (s *Service) UpdateUser(ctx context.Context, id platform.ID, upd factoryd.UserUpdate) (*factoryd.User, error) {
	var u *factoryd.User
	err := s.store.Update(ctx, func(tx kv.Tx) error {
		user, err := s.store.UpdateUser(ctx, tx, id, upd)
		if err != nil {
			return err
		}
		u = user
		return nil
	})
	if err != nil {
		return nil, err
	}
	return u, nil
}

// DeleteUser removes a user by ID along with its stored password hash.
func (s *Service) DeleteUser(ctx context.Context, id platform.ID) error {
	return s.store.Update(ctx, func(tx kv.Tx) error {
		return s.store.DeleteUser(ctx, tx, id)
	})
}
