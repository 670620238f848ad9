package tenant

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"github.com/plantops/factoryd/kit/platform"
	"github.com/plantops/factoryd/kv"
)

// HashCost is the bcrypt cost applied when storing passwords.
var HashCost = bcrypt.DefaultCost

// SetPassword stores the password hash associated with a user. The
// plaintext never reaches the store.
func (s *Service) SetPassword(ctx context.Context, userID platform.ID, password string) error {
	if len(password) < MinPasswordLength {
		return EShortPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), HashCost)
	if err != nil {
		return err
	}

	return s.store.Update(ctx, func(tx kv.Tx) error {
		if _, err := s.store.GetUser(ctx, tx, userID); err != nil {
			return err
		}
		return s.store.SetPassword(ctx, tx, userID, string(hash))
	})
}

// ComparePassword checks if the password matches the password recorded.
// Mismatches and missing users both come back as EIncorrectPassword so
// nothing is leaked about which one it was.
func (s *Service) ComparePassword(ctx context.Context, userID platform.ID, password string) error {
	var hash string
	err := s.store.View(ctx, func(tx kv.Tx) error {
		h, err := s.store.GetPassword(ctx, tx, userID)
		if err != nil {
			return err
		}
		hash = h
		return nil
	})
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return EIncorrectPassword
	}
	return nil
}
