package tenant

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/plantops/factoryd"
	"github.com/plantops/factoryd/kit/metric"
	"github.com/plantops/factoryd/kit/platform"
)

var (
	_ factoryd.UserService      = (*UserMetrics)(nil)
	_ factoryd.PasswordsService = (*PasswordMetrics)(nil)
)

// UserMetrics is a metrics service middleware for the user service.
type UserMetrics struct {
	// RED metrics
	rec *metric.REDClient

	userService factoryd.UserService
}

// NewUserMetrics returns a metrics service middleware for the User Service.
func NewUserMetrics(reg prometheus.Registerer, s factoryd.UserService) *UserMetrics {
	return &UserMetrics{
		rec:         metric.New(reg, "user"),
		userService: s,
	}
}

func (m *UserMetrics) FindUserByID(ctx context.Context, id platform.ID) (*factoryd.User, error) {
	rec := m.rec.Record("find_user_by_id")
	user, err := m.userService.FindUserByID(ctx, id)
	return user, rec(err)
}

func (m *UserMetrics) FindUser(ctx context.Context, filter factoryd.UserFilter) (*factoryd.User, error) {
	rec := m.rec.Record("find_user")
	user, err := m.userService.FindUser(ctx, filter)
	return user, rec(err)
}

func (m *UserMetrics) FindUsers(ctx context.Context, filter factoryd.UserFilter, opts factoryd.FindOptions) ([]*factoryd.User, int, error) {
	rec := m.rec.Record("find_users")
	users, n, err := m.userService.FindUsers(ctx, filter, opts)
	return users, n, rec(err)
}

func (m *UserMetrics) CreateUser(ctx context.Context, u *factoryd.User) error {
	rec := m.rec.Record("create_user")
	err := m.userService.CreateUser(ctx, u)
	return rec(err)
}

func (m *UserMetrics) UpdateUser(ctx context.Context, id platform.ID, upd factoryd.UserUpdate) (*factoryd.User, error) {
	rec := m.rec.Record("update_user")
	updatedUser, err := m.userService.UpdateUser(ctx, id, upd)
	return updatedUser, rec(err)
}

func (m *UserMetrics) DeleteUser(ctx context.Context, id platform.ID) error {
	rec := m.rec.Record("delete_user")
	err := m.userService.DeleteUser(ctx, id)
	return rec(err)
}

// PasswordMetrics is a metrics service middleware for the passwords service.
type PasswordMetrics struct {
	// RED metrics
	rec *metric.REDClient

	pwdService factoryd.PasswordsService
}

// NewPasswordMetrics returns a metrics service middleware for the Passwords Service.
func NewPasswordMetrics(reg prometheus.Registerer, s factoryd.PasswordsService) *PasswordMetrics {
	return &PasswordMetrics{
		rec:        metric.New(reg, "password"),
		pwdService: s,
	}
}

func (m *PasswordMetrics) SetPassword(ctx context.Context, userID platform.ID, password string) error {
	rec := m.rec.Record("set_password")
	err := m.pwdService.SetPassword(ctx, userID, password)
	return rec(err)
}

func (m *PasswordMetrics) ComparePassword(ctx context.Context, userID platform.ID, password string) error {
	rec := m.rec.Record("compare_password")
	err := m.pwdService.ComparePassword(ctx, userID, password)
	return rec(err)
}
