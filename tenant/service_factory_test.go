package tenant_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plantops/factoryd"
	"github.com/plantops/factoryd/inmem"
	"github.com/plantops/factoryd/kit/platform/errors"
	"github.com/plantops/factoryd/tenant"
)

func newTestService(t *testing.T) *tenant.Service {
	t.Helper()
	st, err := tenant.NewStore(inmem.NewKVStore())
	require.NoError(t, err)
	return tenant.NewService(st)
}

func newTestFactory(t *testing.T, svc *tenant.Service, name string) *factoryd.Factory {
	t.Helper()
	f := &factoryd.Factory{Name: name, Location: "NYC", Capacity: 100}
	require.NoError(t, svc.CreateFactory(context.Background(), f))
	require.True(t, f.ID.Valid())
	return f
}

func TestFactoryServiceCRUD(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	f := newTestFactory(t, svc, "Acme")

	got, err := svc.FindFactoryByID(ctx, f.ID)
	require.NoError(t, err)
	if diff := cmp.Diff(f, got); diff != "" {
		t.Fatalf("unexpected factory (-want +got):\n%s", diff)
	}

	name := "Acme Corp"
	capacity := int64(250)
	got, err = svc.UpdateFactory(ctx, f.ID, factoryd.FactoryUpdate{Name: &name, Capacity: &capacity})
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", got.Name)
	assert.Equal(t, int64(250), got.Capacity)
	// untouched fields survive the merge
	assert.Equal(t, "NYC", got.Location)

	require.NoError(t, svc.DeleteFactory(ctx, f.ID))

	_, err = svc.FindFactoryByID(ctx, f.ID)
	assert.Equal(t, errors.ENotFound, errors.ErrorCode(err))
}

func TestFactoryServiceCreateMissingFields(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	tests := []factoryd.Factory{
		{Location: "NYC", Capacity: 100},
		{Name: "Acme", Capacity: 100},
		{Name: "Acme", Location: "NYC"},
	}
	for _, f := range tests {
		err := svc.CreateFactory(ctx, &f)
		assert.Equal(t, factoryd.ErrMissingFields, err)
	}
}

func TestFactoryServiceUpdateNotFound(t *testing.T) {
	svc := newTestService(t)

	name := "nope"
	_, err := svc.UpdateFactory(context.Background(), 99, factoryd.FactoryUpdate{Name: &name})
	assert.Equal(t, errors.ENotFound, errors.ErrorCode(err))

	err = svc.DeleteFactory(context.Background(), 99)
	assert.Equal(t, errors.ENotFound, errors.ErrorCode(err))
}

func TestFactoryServiceNotFoundSentinelUntouched(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	// Misses on different operations must not decorate the shared
	// sentinel error with the op that happened to hit it last.
	_, err := svc.FindFactoryByID(ctx, 99)
	assert.Equal(t, errors.ENotFound, errors.ErrorCode(err))

	name := "nope"
	_, err = svc.UpdateFactory(ctx, 99, factoryd.FactoryUpdate{Name: &name})
	assert.Equal(t, errors.ENotFound, errors.ErrorCode(err))

	assert.Empty(t, tenant.ErrFactoryNotFound.Op)
	assert.Empty(t, tenant.ErrFactoryNotFound.Err)
}

func TestFactoryServiceFindFactoriesPaged(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	for i := 0; i < 25; i++ {
		newTestFactory(t, svc, fmt.Sprintf("factory-%02d", i))
	}

	page1, total, err := svc.FindFactories(ctx, factoryd.FactoryFilter{}, factoryd.FindOptions{Page: 1, PerPage: 10})
	require.NoError(t, err)
	assert.Equal(t, 25, total)
	require.Len(t, page1, 10)

	page3, total, err := svc.FindFactories(ctx, factoryd.FactoryFilter{}, factoryd.FindOptions{Page: 3, PerPage: 10})
	require.NoError(t, err)
	assert.Equal(t, 25, total)
	assert.Len(t, page3, 5)

	// snowflake ids are time ordered, pages follow creation order
	assert.Equal(t, "factory-00", page1[0].Name)
	assert.Equal(t, "factory-24", page3[len(page3)-1].Name)

	all, total, err := svc.FindFactories(ctx, factoryd.FactoryFilter{}, factoryd.FindOptions{Page: 1, PerPage: 1000})
	require.NoError(t, err)
	assert.Equal(t, 25, total)
	assert.Len(t, all, 25)
}

func TestFactoryServiceFindFactoriesFilteredWindowed(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	f := newTestFactory(t, svc, "Acme")

	// The id filter produces a single match; the window still applies,
	// so pages past the result come back empty with the total intact.
	fs, total, err := svc.FindFactories(ctx, factoryd.FactoryFilter{ID: &f.ID}, factoryd.FindOptions{Page: 1, PerPage: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, fs, 1)
	assert.Equal(t, f.ID, fs[0].ID)

	fs, total, err = svc.FindFactories(ctx, factoryd.FactoryFilter{ID: &f.ID}, factoryd.FindOptions{Page: 2, PerPage: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Len(t, fs, 0)
}

func TestFactoryServiceDeleteCascades(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	acme := newTestFactory(t, svc, "Acme")
	other := newTestFactory(t, svc, "Globex")

	for i := 0; i < 3; i++ {
		e := &factoryd.Entity{Name: fmt.Sprintf("line-%d", i), FactoryID: acme.ID}
		require.NoError(t, svc.CreateEntity(ctx, e))
	}
	kept := &factoryd.Entity{Name: "kept", FactoryID: other.ID}
	require.NoError(t, svc.CreateEntity(ctx, kept))

	alice := &factoryd.User{Name: "alice", FactoryID: acme.ID}
	require.NoError(t, svc.CreateUser(ctx, alice))
	bob := &factoryd.User{Name: "bob", FactoryID: other.ID}
	require.NoError(t, svc.CreateUser(ctx, bob))

	require.NoError(t, svc.DeleteFactory(ctx, acme.ID))

	// every entity owned by the factory is gone
	es, total, err := svc.FindEntities(ctx, factoryd.EntityFilter{}, factoryd.DefaultFindOptions())
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, es, 1)
	assert.Equal(t, "kept", es[0].Name)

	// users scoped to it are detached, not deleted
	got, err := svc.FindUserByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.False(t, got.FactoryID.Valid())

	// unrelated users keep their attachment
	got, err = svc.FindUserByID(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, other.ID, got.FactoryID)
}
