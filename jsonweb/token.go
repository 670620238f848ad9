// Package jsonweb implements the JWT session tokens issued at login.
package jsonweb

import (
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/plantops/factoryd/kit/platform/errors"
)

// ErrKeyNotFound should be returned by a KeyStore when
// a key cannot be located for the provided key ID.
var ErrKeyNotFound = &errors.Error{
	Code: errors.EUnauthorized,
	Msg:  "key not found",
}

// KeyStore is a type which holds a set of keys accessed
// via an id.
type KeyStore interface {
	Key(id string) ([]byte, error)
}

// KeyStoreFunc is a function which can be used as a KeyStore.
type KeyStoreFunc func(string) ([]byte, error)

// Key delegates to the receiver function.
func (k KeyStoreFunc) Key(v string) ([]byte, error) { return k(v) }

// Token is a structure which is serialized as a json web token.
// It contains the username the session is bound to.
type Token struct {
	jwt.RegisteredClaims

	// KeyID is the identifier of the key used to sign the token.
	KeyID string `json:"kid"`
}

// Username returns the principal name the token was issued for.
func (t *Token) Username() string {
	return t.Subject
}

// TokenParser is a type which can parse and validate tokens.
type TokenParser struct {
	keyStore KeyStore
	parser   *jwt.Parser
}

// NewTokenParser returns a configured token parser used to
// parse Token types from strings.
func NewTokenParser(keyStore KeyStore) *TokenParser {
	return &TokenParser{
		keyStore: keyStore,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		),
	}
}

// Parse takes a string then parses and validates it as a jwt based on
// the key described within the token.
func (t *TokenParser) Parse(v string) (*Token, error) {
	jwt, err := t.parser.ParseWithClaims(v, &Token{}, func(jwt *jwt.Token) (interface{}, error) {
		token, ok := jwt.Claims.(*Token)
		if !ok {
			return nil, &errors.Error{
				Code: errors.EUnauthorized,
				Msg:  "missing kid in token claims",
			}
		}

		return t.keyStore.Key(token.KeyID)
	})
	if err != nil {
		return nil, &errors.Error{
			Code: errors.EUnauthorized,
			Msg:  "invalid token",
			Err:  err,
		}
	}

	token, ok := jwt.Claims.(*Token)
	if !ok {
		return nil, &errors.Error{
			Code: errors.EUnauthorized,
			Msg:  "token is not a valid session token",
		}
	}

	return token, nil
}

// TokenSigner signs tokens for a single key ID.
type TokenSigner struct {
	keyStore KeyStore
	keyID    string
}

// NewTokenSigner returns a signer bound to keyID within keyStore.
func NewTokenSigner(keyStore KeyStore, keyID string) *TokenSigner {
	return &TokenSigner{
		keyStore: keyStore,
		keyID:    keyID,
	}
}

// Sign issues a signed token bound to the provided username, expiring
// after the provided duration.
func (s *TokenSigner) Sign(username string, expiresIn time.Duration) (string, error) {
	key, err := s.keyStore.Key(s.keyID)
	if err != nil {
		return "", err
	}

	now := time.Now()
	token := &Token{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiresIn)),
		},
		KeyID: s.keyID,
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, token).SignedString(key)
}
