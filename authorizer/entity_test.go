package authorizer_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plantops/factoryd"
	"github.com/plantops/factoryd/authorizer"
	"github.com/plantops/factoryd/kit/platform/errors"
	"github.com/plantops/factoryd/tenant"
)

func createEntity(t *testing.T, svc *tenant.Service, name string, f *factoryd.Factory) *factoryd.Entity {
	t.Helper()
	e := &factoryd.Entity{Name: name, FactoryID: f.ID}
	require.NoError(t, svc.CreateEntity(context.Background(), e))
	return e
}

func TestEntityServiceCreateScoped(t *testing.T) {
	ts := newTestService(t)
	svc := authorizer.NewEntityService(ts)

	acme := createFactory(t, ts, "Acme")
	globex := createFactory(t, ts, "Globex")

	// a factory user creates entities in their own factory only
	err := svc.CreateEntity(factoryCtx(acme), &factoryd.Entity{Name: "Line1", FactoryID: acme.ID})
	assert.NoError(t, err)

	err = svc.CreateEntity(factoryCtx(acme), &factoryd.Entity{Name: "Line2", FactoryID: globex.ID})
	assert.Equal(t, factoryd.ErrNotAuthorized, err)

	err = svc.CreateEntity(noScopeCtx(), &factoryd.Entity{Name: "Line3", FactoryID: acme.ID})
	assert.Equal(t, factoryd.ErrNotAuthorized, err)

	// admins create anywhere, but the factory still has to exist
	err = svc.CreateEntity(adminCtx(), &factoryd.Entity{Name: "Line4", FactoryID: globex.ID})
	assert.NoError(t, err)
	err = svc.CreateEntity(adminCtx(), &factoryd.Entity{Name: "Line5", FactoryID: globex.ID + 99})
	assert.Equal(t, errors.ENotFound, errors.ErrorCode(err))
}

func TestEntityServiceListExactlyOwnEntities(t *testing.T) {
	ts := newTestService(t)
	svc := authorizer.NewEntityService(ts)

	acme := createFactory(t, ts, "Acme")
	globex := createFactory(t, ts, "Globex")

	for i := 0; i < 5; i++ {
		createEntity(t, ts, fmt.Sprintf("acme-%d", i), acme)
	}
	for i := 0; i < 3; i++ {
		createEntity(t, ts, fmt.Sprintf("globex-%d", i), globex)
	}

	es, total, err := svc.FindEntities(factoryCtx(acme), factoryd.EntityFilter{}, factoryd.DefaultFindOptions())
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	require.Len(t, es, 5)
	for _, e := range es {
		assert.Equal(t, acme.ID, e.FactoryID)
	}

	// asking explicitly for another factory's entities is denied
	_, _, err = svc.FindEntities(factoryCtx(acme), factoryd.EntityFilter{FactoryID: &globex.ID}, factoryd.DefaultFindOptions())
	assert.Equal(t, factoryd.ErrNotAuthorized, err)

	_, total, err = svc.FindEntities(adminCtx(), factoryd.EntityFilter{}, factoryd.DefaultFindOptions())
	require.NoError(t, err)
	assert.Equal(t, 8, total)
}

func TestEntityServiceOwnershipFollowsFactory(t *testing.T) {
	ts := newTestService(t)
	svc := authorizer.NewEntityService(ts)

	acme := createFactory(t, ts, "Acme")
	globex := createFactory(t, ts, "Globex")
	theirs := createEntity(t, ts, "their-line", globex)

	_, err := svc.FindEntityByID(factoryCtx(acme), theirs.ID)
	assert.Equal(t, factoryd.ErrNotAuthorized, err)

	name := "stolen"
	_, err = svc.UpdateEntity(factoryCtx(acme), theirs.ID, factoryd.EntityUpdate{Name: &name})
	assert.Equal(t, factoryd.ErrNotAuthorized, err)

	err = svc.DeleteEntity(factoryCtx(acme), theirs.ID)
	assert.Equal(t, factoryd.ErrNotAuthorized, err)

	// an absent entity answers not found before authorization
	_, err = svc.FindEntityByID(factoryCtx(acme), theirs.ID+99)
	assert.Equal(t, errors.ENotFound, errors.ErrorCode(err))

	mine := createEntity(t, ts, "my-line", acme)
	got, err := svc.FindEntityByID(factoryCtx(acme), mine.ID)
	require.NoError(t, err)
	assert.Equal(t, mine.ID, got.ID)
}
