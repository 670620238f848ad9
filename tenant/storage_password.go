package tenant

import (
	"context"

	"github.com/plantops/factoryd/kit/platform"
	"github.com/plantops/factoryd/kv"
)

var userpasswordBucket = []byte("userspasswordv1")

// GetPassword returns the stored password hash for the user.
func (s *Store) GetPassword(ctx context.Context, tx kv.Tx, id platform.ID) (string, error) {
	encodedID, err := id.Encode()
	if err != nil {
		return "", InvalidUserIDError(err)
	}

	b, err := tx.Bucket(userpasswordBucket)
	if err != nil {
		return "", err
	}

	passwd, err := b.Get(encodedID)
	if kv.IsNotFound(err) {
		return "", EIncorrectPassword
	}

	return string(passwd), err
}

// SetPassword stores the password hash for the user, replacing any
// previous one.
func (s *Store) SetPassword(ctx context.Context, tx kv.Tx, id platform.ID, password string) error {
	encodedID, err := id.Encode()
	if err != nil {
		return InvalidUserIDError(err)
	}

	b, err := tx.Bucket(userpasswordBucket)
	if err != nil {
		return err
	}

	return b.Put(encodedID, []byte(password))
}

// DeletePassword removes the password hash of the user.
func (s *Store) DeletePassword(ctx context.Context, tx kv.Tx, id platform.ID) error {
	encodedID, err := id.Encode()
	if err != nil {
		return InvalidUserIDError(err)
	}

	b, err := tx.Bucket(userpasswordBucket)
	if err != nil {
		return err
	}

	return b.Delete(encodedID)
}
