package omni

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/omnicatalog/internal/bundle"
	"github.com/leapstack-labs/omnicatalog/internal/testutil"
)

const combined = `files:
  model: |
    name: shop
  orders.topic: |
    base_view: orders
  PUBLIC/orders.view: |
    dimensions:
      id: {}
`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := New(Config{
		BaseURL: srv.URL + "/",
		APIKey:  "secret",
		Logger:  testutil.NewTestLogger(t),
	})
	require.NoError(t, err)
	return c
}

func TestNew_Validation(t *testing.T) {
	_, err := New(Config{BaseURL: "https://example.omniapp.co"})
	assert.ErrorIs(t, err, ErrMissingAPIKey)

	_, err = New(Config{BaseURL: "https://example.omniapp.co", APIKey: "  "})
	assert.ErrorIs(t, err, ErrMissingAPIKey)

	_, err = New(Config{APIKey: "k"})
	assert.ErrorIs(t, err, ErrMissingBaseURL)

	c, err := New(Config{BaseURL: "https://example.omniapp.co//", APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, "https://example.omniapp.co", c.BaseURL())
}

func TestListModels_DefaultsAndHeaders(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/unstable/models", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		q := r.URL.Query()
		assert.Equal(t, "SHARED", q.Get("modelKind"))
		assert.Equal(t, "name", q.Get("sortField"))
		assert.Equal(t, "asc", q.Get("sortDirection"))
		assert.Equal(t, "10", q.Get("pageSize"))
		assert.False(t, q.Has("cursor"))

		_, _ = w.Write([]byte(`{"records":[{"id":"m1","name":"Shop"},{"id":"m2","name":"Ops"}],"pageInfo":{"hasNextPage":true,"nextCursor":"abc"}}`))
	})

	list, err := c.ListModels(context.Background(), ListOptions{})
	require.NoError(t, err)
	assert.Equal(t, []Model{{ID: "m1", Name: "Shop"}, {ID: "m2", Name: "Ops"}}, list.Records)
	require.NotNil(t, list.PageInfo)
	assert.True(t, list.PageInfo.HasNextPage)
	assert.Equal(t, "abc", list.PageInfo.NextCursor)
}

func TestListModels_Options(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "ALL", q.Get("modelKind"))
		assert.Equal(t, "updatedAt", q.Get("sortField"))
		assert.Equal(t, "desc", q.Get("sortDirection"))
		assert.Equal(t, "50", q.Get("pageSize"))
		assert.Equal(t, "next", q.Get("cursor"))
		_, _ = w.Write([]byte(`{"records":[]}`))
	})

	list, err := c.ListModels(context.Background(), ListOptions{
		ModelKind:     "ALL",
		SortField:     "updatedAt",
		SortDirection: "desc",
		PageSize:      50,
		Cursor:        "next",
	})
	require.NoError(t, err)
	assert.Empty(t, list.Records)
	assert.Nil(t, list.PageInfo)
}

func TestListModels_Errors(t *testing.T) {
	t.Run("non-2xx", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "bad token", http.StatusUnauthorized)
		})

		_, err := c.ListModels(context.Background(), ListOptions{})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrAPI))

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
		assert.Equal(t, "/api/unstable/models", apiErr.Endpoint)
		assert.Equal(t, "bad token", apiErr.Body)
	})

	t.Run("invalid json", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`not json`))
		})

		_, err := c.ListModels(context.Background(), ListOptions{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to decode model list")
	})

	t.Run("transport", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		srv.Close()

		c, err := New(Config{BaseURL: srv.URL, APIKey: "k"})
		require.NoError(t, err)

		_, err = c.ListModels(context.Background(), ListOptions{})
		assert.ErrorIs(t, err, ErrTransport)
	})

	t.Run("cancelled context", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"records":[]}`))
		})
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := c.ListModels(ctx, ListOptions{})
		assert.ErrorIs(t, err, ErrTransport)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestGetModelYAML(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/unstable/models/m-1/yaml", r.URL.Path)
		assert.Equal(t, "combined", r.URL.Query().Get("mode"))
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(combined))
	})

	raw, err := c.GetModelYAML(context.Background(), "m-1")
	require.NoError(t, err)
	assert.Equal(t, combined, raw)

	_, err = c.GetModelYAML(context.Background(), "")
	assert.ErrorIs(t, err, ErrMissingModelID)
}

func TestLoadBundle(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/unstable/models/good/yaml":
			_, _ = w.Write([]byte(combined))
		case "/api/unstable/models/flat/yaml":
			_, _ = w.Write([]byte("name: no files here\n"))
		default:
			http.NotFound(w, r)
		}
	})
	ctx := context.Background()

	b, err := c.LoadBundle(ctx, "good")
	require.NoError(t, err)
	assert.Equal(t, []string{"model", "orders.topic", "PUBLIC/orders.view"}, b.Keys())

	_, err = c.LoadBundle(ctx, "flat")
	assert.ErrorIs(t, err, bundle.ErrUnexpectedStructure)

	_, err = c.LoadBundle(ctx, "missing")
	assert.ErrorIs(t, err, ErrAPI)
}

func TestFindModelByName(t *testing.T) {
	models := []Model{{ID: "1", Name: "a"}, {ID: "2", Name: "b"}, {ID: "3", Name: "b"}}

	m, ok := FindModelByName(models, "b")
	assert.True(t, ok)
	assert.Equal(t, "2", m.ID)

	_, ok = FindModelByName(models, "z")
	assert.False(t, ok)
}

func TestResolveModel(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"records":[{"id":"m1","name":"Shop"}]}`))
	})
	ctx := context.Background()

	m, err := c.ResolveModel(ctx, "Shop", ListOptions{})
	require.NoError(t, err)
	assert.Equal(t, "m1", m.ID)

	m, err = c.ResolveModel(ctx, "m1", ListOptions{})
	require.NoError(t, err)
	assert.Equal(t, "Shop", m.Name)

	m, err = c.ResolveModel(ctx, "uuid-not-listed", ListOptions{})
	require.NoError(t, err)
	assert.Equal(t, "uuid-not-listed", m.ID)

	_, err = c.ResolveModel(ctx, "", ListOptions{})
	assert.ErrorIs(t, err, ErrModelNotFound)
}
