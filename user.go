package factoryd

import (
	"context"

	"github.com/plantops/factoryd/kit/platform"
)

// User is a principal. Non-admin users are scoped to at most one
// factory; a zero FactoryID means the user is not attached to any
// factory. The password hash is stored separately by the
// PasswordsService and never appears on this struct.
type User struct {
	ID        platform.ID `json:"id,omitempty"`
	Name      string      `json:"username"`
	FactoryID platform.ID `json:"factory_id,omitempty"`
	Admin     bool        `json:"is_admin,omitempty"`
}

// ops for user errors and op logs.
const (
	OpFindUserByID = "FindUserByID"
	OpFindUser     = "FindUser"
	OpFindUsers    = "FindUsers"
	OpCreateUser   = "CreateUser"
	OpUpdateUser   = "UpdateUser"
	OpDeleteUser   = "DeleteUser"
)

// UserService represents a service for managing user data.
type UserService interface {
	// Returns a single user by ID.
	FindUserByID(ctx context.Context, id platform.ID) (*User, error)

	// Returns the first user that matches filter.
	FindUser(ctx context.Context, filter UserFilter) (*User, error)

	// Returns a list of users that match filter and the total count of
	// matching users. Options provide pagination.
	FindUsers(ctx context.Context, filter UserFilter, opts FindOptions) ([]*User, int, error)

	// Creates a new user and sets u.ID with the new identifier.
	CreateUser(ctx context.Context, u *User) error

	// Updates a single user with changeset.
	// Returns the new user state after update.
	UpdateUser(ctx context.Context, id platform.ID, upd UserUpdate) (*User, error)

	// Removes a user by ID.
	DeleteUser(ctx context.Context, id platform.ID) error
}

// UserUpdate represents updates to a user.
// Only fields which are set are updated.
//
// As with EntityUpdate, a set FactoryID must parse but is not checked
// for existence.
type UserUpdate struct {
	Name      *string      `json:"username,omitempty"`
	FactoryID *platform.ID `json:"factory_id,omitempty"`
}

// UserFilter represents a set of filters that restrict the returned results.
type UserFilter struct {
	ID        *platform.ID
	Name      *string
	FactoryID *platform.ID
}

// PasswordsService is the service for managing user passwords.
type PasswordsService interface {
	// SetPassword overrides the password of a known user.
	SetPassword(ctx context.Context, userID platform.ID, password string) error

	// ComparePassword checks if the password matches the password recorded.
	// Passwords that do not match return errors.
	ComparePassword(ctx context.Context, userID platform.ID, password string) error
}
