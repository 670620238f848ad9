package http_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	nethttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/plantops/factoryd"
	"github.com/plantops/factoryd/authorizer"
	"github.com/plantops/factoryd/http"
	"github.com/plantops/factoryd/inmem"
	"github.com/plantops/factoryd/jsonweb"
	"github.com/plantops/factoryd/session"
	"github.com/plantops/factoryd/tenant"
)

var testKeyStore = jsonweb.KeyStoreFunc(func(id string) ([]byte, error) {
	if id != "test" {
		return nil, jsonweb.ErrKeyNotFound
	}
	return []byte("platform handler test secret"), nil
})

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	st, err := tenant.NewStore(inmem.NewKVStore())
	require.NoError(t, err)
	ts := tenant.NewService(st)
	sessionSvc := session.NewService(ts, ts, ts, jsonweb.NewTokenSigner(testKeyStore, "test"), time.Minute)

	handler := http.NewPlatformHandler(http.APIBackend{
		Logger:            zaptest.NewLogger(t),
		FactoryService:    authorizer.NewFactoryService(ts),
		EntityService:     authorizer.NewEntityService(ts),
		UserService:       authorizer.NewUserService(ts),
		UserLookupService: ts,
		SessionService:    sessionSvc,
		TokenParser:       jsonweb.NewTokenParser(testKeyStore),
	})

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

type testBody struct {
	OK          bool            `json:"ok"`
	Data        json.RawMessage `json:"data"`
	Message     string          `json:"message"`
	AccessToken string          `json:"access_token"`
	Pagination  *struct {
		Total   int `json:"total"`
		Page    int `json:"page"`
		PerPage int `json:"per_page"`
	} `json:"pagination"`
}

func do(t *testing.T, srv *httptest.Server, method, path, token string, body interface{}) (int, testBody) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := nethttp.NewRequest(method, srv.URL+path, &buf)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out testBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func login(t *testing.T, srv *httptest.Server, username, password string) string {
	t.Helper()
	status, body := do(t, srv, "POST", "/auth/login", "", map[string]string{
		"username": username,
		"password": password,
	})
	require.Equal(t, nethttp.StatusOK, status)
	require.NotEmpty(t, body.AccessToken)
	return body.AccessToken
}

// The full lifecycle: an admin creates a factory, a user registers into
// it, creates an entity, and the cascade on factory deletion removes
// the entity and detaches the user.
func TestPlatformHandlerScenario(t *testing.T) {
	srv := newTestServer(t)

	status, _ := do(t, srv, "POST", "/auth/adminregister", "", map[string]string{
		"username": "root", "password": "rootpassword",
	})
	require.Equal(t, nethttp.StatusCreated, status)
	adminTok := login(t, srv, "root", "rootpassword")

	status, body := do(t, srv, "POST", "/admin/factories", adminTok, map[string]interface{}{
		"name": "Acme", "location": "NYC", "capacity": 100,
	})
	require.Equal(t, nethttp.StatusCreated, status)
	var acme factoryd.Factory
	require.NoError(t, json.Unmarshal(body.Data, &acme))
	require.True(t, acme.ID.Valid())

	status, _ = do(t, srv, "POST", "/auth/register", "", map[string]string{
		"username": "alice", "password": "alicepassword", "factory_id": acme.ID.String(),
	})
	require.Equal(t, nethttp.StatusCreated, status)
	aliceTok := login(t, srv, "alice", "alicepassword")

	status, body = do(t, srv, "POST", "/entities", aliceTok, map[string]string{
		"name": "Line1", "factory_id": acme.ID.String(),
	})
	require.Equal(t, nethttp.StatusCreated, status)
	var line1 factoryd.Entity
	require.NoError(t, json.Unmarshal(body.Data, &line1))

	// alice sees her factory with its entity names resolved
	status, body = do(t, srv, "GET", "/factories/", aliceTok, nil)
	require.Equal(t, nethttp.StatusOK, status)
	var factories []struct {
		Name     string   `json:"name"`
		Entities []string `json:"entities"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &factories))
	require.Len(t, factories, 1)
	assert.Equal(t, "Acme", factories[0].Name)
	assert.Equal(t, []string{"Line1"}, factories[0].Entities)
	require.NotNil(t, body.Pagination)
	assert.Equal(t, 1, body.Pagination.Total)

	status, _ = do(t, srv, "DELETE", "/admin/factories/"+acme.ID.String(), adminTok, nil)
	require.Equal(t, nethttp.StatusOK, status)

	// the entity went with the factory
	status, body = do(t, srv, "GET", "/admin/entities/", adminTok, nil)
	require.Equal(t, nethttp.StatusOK, status)
	var entities []json.RawMessage
	require.NoError(t, json.Unmarshal(body.Data, &entities))
	assert.Empty(t, entities)
	assert.Equal(t, 0, body.Pagination.Total)

	// alice is detached, her factory resolves to null
	status, body = do(t, srv, "GET", "/admin/users/", adminTok, nil)
	require.Equal(t, nethttp.StatusOK, status)
	var users []struct {
		Username string  `json:"username"`
		IsAdmin  bool    `json:"is_admin"`
		Factory  *string `json:"factory"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &users))
	require.Len(t, users, 2)
	for _, u := range users {
		assert.Nil(t, u.Factory)
	}
}

func TestPlatformHandlerAuthorization(t *testing.T) {
	srv := newTestServer(t)

	status, _ := do(t, srv, "POST", "/auth/adminregister", "", map[string]string{
		"username": "root", "password": "rootpassword",
	})
	require.Equal(t, nethttp.StatusCreated, status)
	adminTok := login(t, srv, "root", "rootpassword")

	var ids []string
	for _, name := range []string{"Acme", "Globex"} {
		status, body := do(t, srv, "POST", "/admin/factories", adminTok, map[string]interface{}{
			"name": name, "location": "NYC", "capacity": 10,
		})
		require.Equal(t, nethttp.StatusCreated, status)
		var f factoryd.Factory
		require.NoError(t, json.Unmarshal(body.Data, &f))
		ids = append(ids, f.ID.String())
	}

	status, _ = do(t, srv, "POST", "/auth/register", "", map[string]string{
		"username": "alice", "password": "alicepassword", "factory_id": ids[0],
	})
	require.Equal(t, nethttp.StatusCreated, status)
	aliceTok := login(t, srv, "alice", "alicepassword")

	// no token
	status, body := do(t, srv, "GET", "/factories/", "", nil)
	assert.Equal(t, nethttp.StatusUnauthorized, status)
	assert.False(t, body.OK)

	// garbage token
	status, _ = do(t, srv, "GET", "/factories/", "not-a-token", nil)
	assert.Equal(t, nethttp.StatusUnauthorized, status)

	// the admin subtree is gated before any handler runs
	status, _ = do(t, srv, "GET", "/admin/users/", aliceTok, nil)
	assert.Equal(t, nethttp.StatusUnauthorized, status)
	status, _ = do(t, srv, "POST", "/admin/factories", aliceTok, map[string]interface{}{
		"name": "Evil", "location": "LA", "capacity": 1,
	})
	assert.Equal(t, nethttp.StatusUnauthorized, status)

	// another tenant's factory is out of reach
	status, _ = do(t, srv, "GET", "/factories/"+ids[1], aliceTok, nil)
	assert.Equal(t, nethttp.StatusUnauthorized, status)
	status, _ = do(t, srv, "DELETE", "/factories/"+ids[1], aliceTok, nil)
	assert.Equal(t, nethttp.StatusUnauthorized, status)

	// creating an entity in another tenant's factory is denied
	status, _ = do(t, srv, "POST", "/entities", aliceTok, map[string]string{
		"name": "Line1", "factory_id": ids[1],
	})
	assert.Equal(t, nethttp.StatusUnauthorized, status)

	// own factory works
	status, _ = do(t, srv, "GET", "/factories/"+ids[0], aliceTok, nil)
	assert.Equal(t, nethttp.StatusOK, status)
}

func TestPlatformHandlerValidation(t *testing.T) {
	srv := newTestServer(t)

	status, _ := do(t, srv, "POST", "/auth/adminregister", "", map[string]string{
		"username": "root", "password": "rootpassword",
	})
	require.Equal(t, nethttp.StatusCreated, status)
	adminTok := login(t, srv, "root", "rootpassword")

	status, body := do(t, srv, "POST", "/admin/factories", adminTok, map[string]interface{}{
		"name": "Acme", "location": "NYC", "capacity": 100,
	})
	require.Equal(t, nethttp.StatusCreated, status)
	var acme factoryd.Factory
	require.NoError(t, json.Unmarshal(body.Data, &acme))

	// missing fields
	status, body = do(t, srv, "POST", "/admin/factories", adminTok, map[string]interface{}{
		"name": "NoCapacity", "location": "LA",
	})
	assert.Equal(t, nethttp.StatusBadRequest, status)
	assert.Equal(t, "missing data", body.Message)

	status, body = do(t, srv, "POST", "/admin/entities", adminTok, map[string]string{
		"name": "Line1",
	})
	assert.Equal(t, nethttp.StatusBadRequest, status)
	assert.Equal(t, "missing data", body.Message)

	// a malformed factory id on update reports its format
	status, body = do(t, srv, "POST", "/admin/entities", adminTok, map[string]string{
		"name": "Line1", "factory_id": acme.ID.String(),
	})
	require.Equal(t, nethttp.StatusCreated, status)
	var line1 factoryd.Entity
	require.NoError(t, json.Unmarshal(body.Data, &line1))

	status, body = do(t, srv, "PUT", "/admin/entities/"+line1.ID.String(), adminTok, map[string]string{
		"factory_id": "zzz",
	})
	assert.Equal(t, nethttp.StatusBadRequest, status)
	assert.Equal(t, "invalid factory_id format", body.Message)

	// creating an entity against an unknown factory is not found
	status, body = do(t, srv, "POST", "/admin/entities", adminTok, map[string]string{
		"name": "Line2", "factory_id": (acme.ID + 99).String(),
	})
	assert.Equal(t, nethttp.StatusNotFound, status)
	assert.Equal(t, "factory not found", body.Message)

	// login failures never reveal whether the username exists
	status, body = do(t, srv, "POST", "/auth/login", "", map[string]string{
		"username": "root", "password": "wrong",
	})
	assert.Equal(t, nethttp.StatusUnauthorized, status)
	assert.Equal(t, "invalid credentials", body.Message)

	status, body = do(t, srv, "POST", "/auth/login", "", map[string]string{
		"username": "ghost", "password": "whatever",
	})
	assert.Equal(t, nethttp.StatusUnauthorized, status)
	assert.Equal(t, "invalid credentials", body.Message)
}

func TestPlatformHandlerPagination(t *testing.T) {
	srv := newTestServer(t)

	status, _ := do(t, srv, "POST", "/auth/adminregister", "", map[string]string{
		"username": "root", "password": "rootpassword",
	})
	require.Equal(t, nethttp.StatusCreated, status)
	adminTok := login(t, srv, "root", "rootpassword")

	status, body := do(t, srv, "POST", "/admin/factories", adminTok, map[string]interface{}{
		"name": "Acme", "location": "NYC", "capacity": 100,
	})
	require.Equal(t, nethttp.StatusCreated, status)
	var acme factoryd.Factory
	require.NoError(t, json.Unmarshal(body.Data, &acme))

	for i := 0; i < 25; i++ {
		status, _ := do(t, srv, "POST", "/admin/entities", adminTok, map[string]string{
			"name": fmt.Sprintf("e-%02d", i), "factory_id": acme.ID.String(),
		})
		require.Equal(t, nethttp.StatusCreated, status)
	}

	page := func(query string) (int, testBody) {
		return do(t, srv, "GET", "/admin/entities/"+query, adminTok, nil)
	}

	status, body = page("?page=1&per_page=10")
	require.Equal(t, nethttp.StatusOK, status)
	var items []json.RawMessage
	require.NoError(t, json.Unmarshal(body.Data, &items))
	assert.Len(t, items, 10)
	assert.Equal(t, 25, body.Pagination.Total)
	assert.Equal(t, 10, body.Pagination.PerPage)

	status, body = page("?page=3&per_page=10")
	require.Equal(t, nethttp.StatusOK, status)
	require.NoError(t, json.Unmarshal(body.Data, &items))
	assert.Len(t, items, 5)
	assert.Equal(t, 3, body.Pagination.Page)

	// an oversized per_page is clamped to the total
	status, body = page("?per_page=1000")
	require.Equal(t, nethttp.StatusOK, status)
	require.NoError(t, json.Unmarshal(body.Data, &items))
	assert.Len(t, items, 25)
	assert.Equal(t, 25, body.Pagination.PerPage)

	status, body = page("?page=0")
	assert.Equal(t, nethttp.StatusBadRequest, status)
	assert.Equal(t, "page must be a positive integer", body.Message)
}
