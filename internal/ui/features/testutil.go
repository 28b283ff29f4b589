// Package features provides shared test utilities for UI feature tests.
package features

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/sessions"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/leapstack-labs/omnicatalog/internal/bundle"
	"github.com/leapstack-labs/omnicatalog/internal/catalog"
	"github.com/leapstack-labs/omnicatalog/internal/omni"
	"github.com/leapstack-labs/omnicatalog/internal/testutil"
	"github.com/leapstack-labs/omnicatalog/internal/ui/features/common"
	"github.com/leapstack-labs/omnicatalog/internal/ui/notifier"
)

// TestModel is a model served by FakeAPI.
type TestModel struct {
	ID    string
	Name  string
	Files []bundle.File
}

// ShopModel is a small model with a topic joining three tables, a view
// that does not decode and one missing view.
func ShopModel() TestModel {
	return TestModel{
		ID:   "m-shop",
		Name: "Shop",
		Files: []bundle.File{
			{Key: "model", Content: "name: shop\n"},
			{Key: "relationships", Content: "- join_from_view: orders\n  join_to_view: customers\n"},
			{Key: "orders.topic", Content: "base_view: orders\njoins:\n  customers:\n    regions: {}\n  ghosts: {}\n"},
			{Key: "broken.topic", Content: "joins: [\n"},
			{Key: "PUBLIC/orders.view", Content: "dimensions:\n  id: {}\nmeasures:\n  total:\n    sql: amount\n    aggregate_type: sum\n    description: Order <total>\n"},
			{Key: "customers.view", Content: "dimensions:\n  name:\n    description: Full name\n"},
			{Key: "regions.view", Content: "dimensions: [\n"},
		},
	}
}

// FakeAPI stands in for the Omni API.
type FakeAPI struct {
	mu      sync.Mutex
	models  []TestModel
	loads   int
	ListErr error
}

// ListModels returns every model on one page.
func (f *FakeAPI) ListModels(_ context.Context, _ omni.ListOptions) (*omni.ModelList, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	list := &omni.ModelList{Records: []omni.Model{}}
	for _, m := range f.models {
		list.Records = append(list.Records, omni.Model{ID: m.ID, Name: m.Name})
	}
	return list, nil
}

// LoadBundle returns the bundle of model id, or a 404 API error.
func (f *FakeAPI) LoadBundle(_ context.Context, id string) (*bundle.Bundle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loads++
	for _, m := range f.models {
		if m.ID == id {
			return bundle.New(m.Files...), nil
		}
	}
	return nil, &omni.APIError{
		StatusCode: http.StatusNotFound,
		Endpoint:   fmt.Sprintf("/api/unstable/models/%s/yaml", id),
		Body:       "model not found",
	}
}

// Loads returns the number of bundle fetches so far.
func (f *FakeAPI) Loads() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loads
}

// TestFixture holds all dependencies needed for UI handler tests.
type TestFixture struct {
	API  *FakeAPI
	Deps *common.Deps
}

// SetupTestFixture wires handler dependencies around a FakeAPI serving
// models.
func SetupTestFixture(t *testing.T, models ...TestModel) *TestFixture {
	t.Helper()

	logger := testutil.NewTestLogger(t)
	api := &FakeAPI{models: models}
	svc := catalog.NewService(api, catalog.Options{}, logger)

	return &TestFixture{
		API: api,
		Deps: &common.Deps{
			Catalog:      svc,
			Sessions:     catalog.NewSessions(svc),
			Models:       api,
			SessionStore: NewTestSessionStore(),
			Notifier:     notifier.New(),
			Logger:       logger,
		},
	}
}

// NewTestSessionStore creates a session store for testing.
func NewTestSessionStore() *sessions.CookieStore {
	return sessions.NewCookieStore([]byte("test-secret-key-32-bytes-long!!"))
}

// Do serves a GET for target through h, replaying cookies from prev so
// consecutive requests share a browser session.
func Do(h http.Handler, target string, prev *httptest.ResponseRecorder, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if prev != nil {
		for _, c := range prev.Result().Cookies() {
			req.AddCookie(c)
		}
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// DatastarHeaders marks a request as sent by the datastar client.
var DatastarHeaders = []string{"Datastar-Request", "true"}

// Links returns the href of every anchor in an HTML document.
func Links(t *testing.T, body string) []string {
	t.Helper()

	doc, err := html.Parse(strings.NewReader(body))
	require.NoError(t, err)

	var links []string
	for n := range doc.Descendants() {
		if n.Type != html.ElementNode || n.Data != "a" {
			continue
		}
		for _, attr := range n.Attr {
			if attr.Key == "href" {
				links = append(links, attr.Val)
			}
		}
	}
	return links
}

// TextOf returns the text content of the first element with id.
func TextOf(t *testing.T, body, id string) string {
	t.Helper()

	doc, err := html.Parse(strings.NewReader(body))
	require.NoError(t, err)

	for n := range doc.Descendants() {
		if n.Type != html.ElementNode {
			continue
		}
		for _, attr := range n.Attr {
			if attr.Key == "id" && attr.Val == id {
				var sb strings.Builder
				for c := range n.Descendants() {
					if c.Type == html.TextNode {
						sb.WriteString(c.Data)
					}
				}
				return sb.String()
			}
		}
	}
	return ""
}

// SessionID returns the session id carried by the cookies rec set.
func SessionID(t *testing.T, deps *common.Deps, rec *httptest.ResponseRecorder) string {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	sid, err := deps.SessionID(httptest.NewRecorder(), req)
	require.NoError(t, err)
	return sid
}
