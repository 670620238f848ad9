// Package session implements registration and credential login on top
// of the user and passwords services, issuing JWT access tokens.
package session

import (
	"context"
	"time"

	"github.com/plantops/factoryd"
	"github.com/plantops/factoryd/jsonweb"
	"github.com/plantops/factoryd/kit/platform"
	"github.com/plantops/factoryd/tenant"
)

// DefaultSessionLength is how long an issued access token stays valid
// when no length is configured.
const DefaultSessionLength = time.Hour

// Service signs users up and exchanges their credentials for access
// tokens. It operates on the raw user and passwords services, the
// credential surface is reachable without a session.
type Service struct {
	userSvc       factoryd.UserService
	passwordsSvc  factoryd.PasswordsService
	factorySvc    factoryd.FactoryService
	signer        *jsonweb.TokenSigner
	sessionLength time.Duration
}

// NewService constructs a credential service. A non-positive
// sessionLength falls back to DefaultSessionLength.
func NewService(userSvc factoryd.UserService, passwordsSvc factoryd.PasswordsService, factorySvc factoryd.FactoryService, signer *jsonweb.TokenSigner, sessionLength time.Duration) *Service {
	if sessionLength <= 0 {
		sessionLength = DefaultSessionLength
	}
	return &Service{
		userSvc:       userSvc,
		passwordsSvc:  passwordsSvc,
		factorySvc:    factorySvc,
		signer:        signer,
		sessionLength: sessionLength,
	}
}

// Register creates a factory scoped user. The existence check on the
// username answers before the factory is validated, so a taken name is
// reported even alongside a bad factory id.
func (s *Service) Register(ctx context.Context, username, password, factoryID string) (*factoryd.User, error) {
	if username == "" || password == "" || factoryID == "" {
		return nil, factoryd.ErrMissingFields
	}
	if len(password) < tenant.MinPasswordLength {
		return nil, tenant.EShortPassword
	}

	if _, err := s.userSvc.FindUser(ctx, factoryd.UserFilter{Name: &username}); err == nil {
		return nil, tenant.UserAlreadyExistsError(username)
	}

	id, err := platform.IDFromString(factoryID)
	if err != nil {
		return nil, factoryd.ErrInvalidFactoryIDFormat
	}
	if _, err := s.factorySvc.FindFactoryByID(ctx, *id); err != nil {
		return nil, err
	}

	user := &factoryd.User{
		Name:      username,
		FactoryID: *id,
	}
	if err := s.userSvc.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	if err := s.passwordsSvc.SetPassword(ctx, user.ID, password); err != nil {
		return nil, err
	}

	return user, nil
}

// RegisterAdmin creates a global admin user with no factory attachment.
func (s *Service) RegisterAdmin(ctx context.Context, username, password string) (*factoryd.User, error) {
	if username == "" || password == "" {
		return nil, factoryd.ErrMissingFields
	}
	if len(password) < tenant.MinPasswordLength {
		return nil, tenant.EShortPassword
	}

	if _, err := s.userSvc.FindUser(ctx, factoryd.UserFilter{Name: &username}); err == nil {
		return nil, tenant.UserAlreadyExistsError(username)
	}

	user := &factoryd.User{
		Name:  username,
		Admin: true,
	}
	if err := s.userSvc.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	if err := s.passwordsSvc.SetPassword(ctx, user.ID, password); err != nil {
		return nil, err
	}

	return user, nil
}

// Login verifies the credentials and issues a signed access token.
// Unknown usernames and wrong passwords answer identically so the
// login surface does not reveal which usernames exist.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	if username == "" || password == "" {
		return "", factoryd.ErrMissingFields
	}

	user, err := s.userSvc.FindUser(ctx, factoryd.UserFilter{Name: &username})
	if err != nil {
		return "", tenant.EIncorrectPassword
	}

	if err := s.passwordsSvc.ComparePassword(ctx, user.ID, password); err != nil {
		return "", tenant.EIncorrectPassword
	}

	return s.signer.Sign(user.Name, s.sessionLength)
}
