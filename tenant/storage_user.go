package tenant

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/plantops/factoryd"
	"github.com/plantops/factoryd/kit/platform"
	"github.com/plantops/factoryd/kit/platform/errors"
	"github.com/plantops/factoryd/kv"
)

var (
	userBucket = []byte("usersv1")
	userIndex  = []byte("userindexv1")
)

func userIndexKey(n string) []byte {
	return []byte(strings.TrimSpace(n))
}

func unmarshalUser(v []byte) (*factoryd.User, error) {
	u := &factoryd.User{}
	if err := json.Unmarshal(v, u); err != nil {
		return nil, ErrCorruptUser(err)
	}

	return u, nil
}

func marshalUser(u *factoryd.User) ([]byte, error) {
	v, err := json.Marshal(u)
	if err != nil {
		return nil, ErrUnprocessableUser(err)
	}

	return v, nil
}

// uniqueUserName consults the name index inside the current write
// transaction, so two concurrent registrations of the same name
// cannot both pass the check.
func (s *Store) uniqueUserName(ctx context.Context, tx kv.Tx, uname string) error {
	key := userIndexKey(uname)
	if len(key) == 0 {
		return factoryd.ErrMissingFields
	}

	idx, err := tx.Bucket(userIndex)
	if err != nil {
		return errors.ErrInternalServiceError(err)
	}

	_, err = idx.Get(key)
	// if not found then this is _unique_.
	if kv.IsNotFound(err) {
		return nil
	}

	// no error means this is not unique
	if err == nil {
		return UserAlreadyExistsError(uname)
	}

	// any other error is some sort of internal server error
	return errors.ErrInternalServiceError(err)
}

func (s *Store) GetUser(ctx context.Context, tx kv.Tx, id platform.ID) (u *factoryd.User, retErr error) {
	defer func() {
		retErr = errors.ErrInternalServiceError(retErr, errors.WithErrorOp(factoryd.OpFindUserByID))
	}()
	encodedID, err := id.Encode()
	if err != nil {
		return nil, InvalidUserIDError(err)
	}

	b, err := tx.Bucket(userBucket)
	if err != nil {
		return nil, err
	}

	v, err := b.Get(encodedID)
	if kv.IsNotFound(err) {
		return nil, ErrUserNotFound
	}

	if err != nil {
		return nil, err
	}

	return unmarshalUser(v)
}

func (s *Store) GetUserByName(ctx context.Context, tx kv.Tx, n string) (u *factoryd.User, retErr error) {
	defer func() {
		retErr = errors.ErrInternalServiceError(retErr, errors.WithErrorOp(factoryd.OpFindUser))
	}()
	b, err := tx.Bucket(userIndex)
	if err != nil {
		return nil, err
	}

	uid, err := b.Get(userIndexKey(n))
	if kv.IsNotFound(err) {
		return nil, ErrUserNotFound
	}

	if err != nil {
		return nil, err
	}

	var id platform.ID
	if err := id.Decode(uid); err != nil {
		return nil, platform.ErrCorruptID(err)
	}
	return s.GetUser(ctx, tx, id)
}

// ListUsers returns all users matching the filter in ascending key order.
func (s *Store) ListUsers(ctx context.Context, tx kv.Tx, filter factoryd.UserFilter) (us []*factoryd.User, retErr error) {
	defer func() {
		retErr = errors.ErrInternalServiceError(retErr, errors.WithErrorOp(factoryd.OpFindUsers))
	}()
	b, err := tx.Bucket(userBucket)
	if err != nil {
		return nil, err
	}

	cursor, err := b.Cursor()
	if err != nil {
		return nil, err
	}

	us = []*factoryd.User{}
	return us, kv.WalkCursor(ctx, cursor, func(k, v []byte) (bool, error) {
		u, err := unmarshalUser(v)
		if err != nil {
			return false, err
		}
		if filter.FactoryID != nil && u.FactoryID != *filter.FactoryID {
			return true, nil
		}
		us = append(us, u)
		return true, nil
	})
}

func (s *Store) CreateUser(ctx context.Context, tx kv.Tx, u *factoryd.User) (err error) {
	defer func() {
		err = errors.ErrInternalServiceError(err, errors.WithErrorOp(factoryd.OpCreateUser))
	}()
	u.ID, err = s.generateSafeID(ctx, tx, userBucket, s.UserIDGen)
	if err != nil {
		return err
	}

	encodedID, err := u.ID.Encode()
	if err != nil {
		return InvalidUserIDError(err)
	}

	if err := s.uniqueUserName(ctx, tx, u.Name); err != nil {
		return err
	}

	idx, err := tx.Bucket(userIndex)
	if err != nil {
		return err
	}

	b, err := tx.Bucket(userBucket)
	if err != nil {
		return err
	}

	v, err := marshalUser(u)
	if err != nil {
		return err
	}

	if err := idx.Put(userIndexKey(u.Name), encodedID); err != nil {
		return err
	}

	return b.Put(encodedID, v)
}

func (s *Store) UpdateUser(ctx context.Context, tx kv.Tx, id platform.ID, upd factoryd.UserUpdate) (u *factoryd.User, retErr error) {
	defer func() {
		retErr = errors.ErrInternalServiceError(retErr, errors.WithErrorOp(factoryd.OpUpdateUser))
	}()
	encodedID, err := id.Encode()
	if err != nil {
		return nil, InvalidUserIDError(err)
	}

	u, err = s.GetUser(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil && u.Name != *upd.Name {
		if err := s.uniqueUserName(ctx, tx, *upd.Name); err != nil {
			return nil, err
		}

		idx, err := tx.Bucket(userIndex)
		if err != nil {
			return nil, err
		}

		if err := idx.Delete(userIndexKey(u.Name)); err != nil {
			return nil, err
		}

		u.Name = *upd.Name

		if err := idx.Put(userIndexKey(u.Name), encodedID); err != nil {
			return nil, err
		}
	}

	if upd.FactoryID != nil {
		// see EntityUpdate: target factory existence not validated.
		u.FactoryID = *upd.FactoryID
	}

	v, err := marshalUser(u)
	if err != nil {
		return nil, err
	}

	b, err := tx.Bucket(userBucket)
	if err != nil {
		return nil, err
	}
	if err := b.Put(encodedID, v); err != nil {
		return nil, err
	}

	return u, nil
}

// DetachUserFactory clears the factory attachment of a user, keeping
// the record itself.
func (s *Store) DetachUserFactory(ctx context.Context, tx kv.Tx, id platform.ID) error {
	u, err := s.GetUser(ctx, tx, id)
	if err != nil {
		return err
	}

	u.FactoryID = platform.InvalidID()

	encodedID, err := id.Encode()
	if err != nil {
		return InvalidUserIDError(err)
	}

	v, err := marshalUser(u)
	if err != nil {
		return err
	}

	b, err := tx.Bucket(userBucket)
	if err != nil {
		return err
	}

	return b.Put(encodedID, v)
}

func (s *Store) DeleteUser(ctx context.Context, tx kv.Tx, id platform.ID) (retErr error) {
	defer func() {
		retErr = errors.ErrInternalServiceError(retErr, errors.WithErrorOp(factoryd.OpDeleteUser))
	}()
	u, err := s.GetUser(ctx, tx, id)
	if err != nil {
		return err
	}

	encodedID, err := id.Encode()
	if err != nil {
		return InvalidUserIDError(err)
	}

	idx, err := tx.Bucket(userIndex)
	if err != nil {
		return err
	}

	if err := idx.Delete(userIndexKey(u.Name)); err != nil {
		return err
	}

	b, err := tx.Bucket(userBucket)
	if err != nil {
		return err
	}

	if err := b.Delete(encodedID); err != nil {
		return err
	}

	return s.DeletePassword(ctx, tx, id)
}
