package authorizer_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plantops/factoryd"
	"github.com/plantops/factoryd/authorizer"
	factorydcontext "github.com/plantops/factoryd/context"
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

func adminCtx() context.Context {
	return factorydcontext.SetScope(context.Background(), factoryd.Scope{Kind: factoryd.AdminScope, UserID: 1})
}

func factoryCtx(f *factoryd.Factory) context.Context {
	return factorydcontext.SetScope(context.Background(), factoryd.Scope{
		Kind:      factoryd.FactoryScope,
		UserID:    2,
		FactoryID: f.ID,
	})
}

func noScopeCtx() context.Context {
	return factorydcontext.SetScope(context.Background(), factoryd.Scope{Kind: factoryd.NoScope, UserID: 3})
}

func createFactory(t *testing.T, svc *tenant.Service, name string) *factoryd.Factory {
	t.Helper()
	f := &factoryd.Factory{Name: name, Location: "NYC", Capacity: 100}
	require.NoError(t, svc.CreateFactory(context.Background(), f))
	return f
}

func TestFactoryServiceCreateRequiresAdmin(t *testing.T) {
	ts := newTestService(t)
	svc := authorizer.NewFactoryService(ts)

	acme := createFactory(t, ts, "Acme")

	err := svc.CreateFactory(factoryCtx(acme), &factoryd.Factory{Name: "Globex", Location: "LA", Capacity: 10})
	assert.Equal(t, factoryd.ErrNotAuthorized, err)

	err = svc.CreateFactory(noScopeCtx(), &factoryd.Factory{Name: "Globex", Location: "LA", Capacity: 10})
	assert.Equal(t, factoryd.ErrNotAuthorized, err)

	err = svc.CreateFactory(adminCtx(), &factoryd.Factory{Name: "Globex", Location: "LA", Capacity: 10})
	assert.NoError(t, err)
}

func TestFactoryServiceScopedAccess(t *testing.T) {
	ts := newTestService(t)
	svc := authorizer.NewFactoryService(ts)

	acme := createFactory(t, ts, "Acme")
	globex := createFactory(t, ts, "Globex")

	// own factory is reachable
	got, err := svc.FindFactoryByID(factoryCtx(acme), acme.ID)
	require.NoError(t, err)
	assert.Equal(t, acme.ID, got.ID)

	// someone else's is denied, even before existence is considered
	_, err = svc.FindFactoryByID(factoryCtx(acme), globex.ID)
	assert.Equal(t, factoryd.ErrNotAuthorized, err)
	_, err = svc.FindFactoryByID(factoryCtx(acme), globex.ID+99)
	assert.Equal(t, factoryd.ErrNotAuthorized, err)

	name := "evil"
	_, err = svc.UpdateFactory(factoryCtx(acme), globex.ID, factoryd.FactoryUpdate{Name: &name})
	assert.Equal(t, factoryd.ErrNotAuthorized, err)

	err = svc.DeleteFactory(factoryCtx(acme), globex.ID)
	assert.Equal(t, factoryd.ErrNotAuthorized, err)

	// admin reaches everything
	_, err = svc.FindFactoryByID(adminCtx(), globex.ID)
	assert.NoError(t, err)
}

func TestFactoryServiceFindFactoriesNarrowed(t *testing.T) {
	ts := newTestService(t)
	svc := authorizer.NewFactoryService(ts)

	acme := createFactory(t, ts, "Acme")
	createFactory(t, ts, "Globex")
	createFactory(t, ts, "Initech")

	// the factory user sees exactly their own factory
	fs, total, err := svc.FindFactories(factoryCtx(acme), factoryd.FactoryFilter{}, factoryd.DefaultFindOptions())
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, fs, 1)
	assert.Equal(t, acme.ID, fs[0].ID)

	// asking explicitly for another factory is denied
	other := createFactory(t, ts, "Umbrella")
	_, _, err = svc.FindFactories(factoryCtx(acme), factoryd.FactoryFilter{ID: &other.ID}, factoryd.DefaultFindOptions())
	assert.Equal(t, factoryd.ErrNotAuthorized, err)

	_, total, err = svc.FindFactories(adminCtx(), factoryd.FactoryFilter{}, factoryd.DefaultFindOptions())
	require.NoError(t, err)
	assert.Equal(t, 4, total)

	_, _, err = svc.FindFactories(noScopeCtx(), factoryd.FactoryFilter{}, factoryd.DefaultFindOptions())
	assert.Equal(t, factoryd.ErrNotAuthorized, err)
}

func TestFactoryServiceMissingScope(t *testing.T) {
	ts := newTestService(t)
	svc := authorizer.NewFactoryService(ts)

	acme := createFactory(t, ts, "Acme")

	_, err := svc.FindFactoryByID(context.Background(), acme.ID)
	assert.Equal(t, errors.EInternal, errors.ErrorCode(err))
}
