package fields

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/omnicatalog/internal/bundle"
	"github.com/leapstack-labs/omnicatalog/internal/joingraph"
	"github.com/leapstack-labs/omnicatalog/internal/resolver"
	"github.com/leapstack-labs/omnicatalog/internal/testutil"
)

func testBundle() *bundle.Bundle {
	return bundle.New(
		bundle.File{Key: "model", Content: "name: shop\n"},
		bundle.File{Key: "PUBLIC/orders.view", Content: `
dimensions:
  id: {}
  customer_id: {}
measures:
  total:
    sql: amount
    aggregate_type: sum
`},
		bundle.File{Key: "customers.view", Content: "dimensions:\n  name: {}\n"},
		bundle.File{Key: "broken.view", Content: "dimensions: [\n"},
		bundle.File{Key: "products.view", Content: "dimensions:\n  sku: {}\nmeasures:\n  stock: {}\n"},
		bundle.File{Key: "orders.topic", Content: `
base_view: orders
joins:
  customers:
    ghosts: {}
  broken: {}
  products: {}
`},
	)
}

func names(records []FieldRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.SourceTable + "." + r.Name
	}
	return out
}

func TestCollector_Collect(t *testing.T) {
	b := testBundle()
	topic, err := b.Decode("orders.topic")
	require.NoError(t, err)

	logger, logs := testutil.NewCaptureLogger()
	c := NewCollector(resolver.New(b), WithLogger(logger))

	records, err := c.Collect(topic, "orders")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"orders.id",
		"orders.customer_id",
		"orders.total",
		"customers.name",
		"products.sku",
		"products.stock",
	}, names(records), "tables after an undecodable view still contribute")
	assert.Equal(t, "sum(amount)", records[2].SQL)

	assert.Contains(t, logs.String(), "skipping table")
	assert.Contains(t, logs.String(), "table=broken")
	assert.Contains(t, logs.String(), "table=ghosts")
}

func TestCollector_UnresolvedTableContributesNothing(t *testing.T) {
	b := bundle.New(
		bundle.File{Key: "orders.view", Content: "dimensions:\n  id: {}\n"},
	)
	topic := decode(t, "joins:\n  missing: {}\n")

	records, err := NewCollector(resolver.New(b), WithLogger(testutil.NewTestLogger(t))).Collect(topic, "orders")
	require.NoError(t, err)
	assert.Equal(t, []string{"orders.id"}, names(records))
}

func TestCollector_MarkUnresolved(t *testing.T) {
	b := bundle.New(
		bundle.File{Key: "orders.view", Content: "dimensions:\n  id: {}\n"},
	)
	topic := decode(t, "joins:\n  missing: {}\n")

	c := NewCollector(resolver.New(b), WithMarkUnresolved(true))
	records, err := c.Collect(topic, "orders")
	require.NoError(t, err)
	require.Len(t, records, 2)

	marker := records[1]
	assert.Equal(t, KindUnresolved, marker.Kind)
	assert.Equal(t, "missing", marker.Name)
	assert.Equal(t, "missing", marker.SourceTable)
	assert.Contains(t, marker.Description, "PUBLIC/missing.view")
	assert.Contains(t, marker.Description, "missing.query.view")
	assert.Empty(t, marker.SQL)
}

func TestCollector_BaseWithoutView(t *testing.T) {
	b := bundle.New(
		bundle.File{Key: "customers.view", Content: "dimensions:\n  name: {}\n"},
	)
	topic := decode(t, "joins:\n  customers: {}\n")

	records, err := NewCollector(resolver.New(b)).Collect(topic, "orders")
	require.NoError(t, err)
	assert.Equal(t, []string{"customers.name"}, names(records))
}

func TestCollector_DepthLimitKeepsPartialResults(t *testing.T) {
	b := bundle.New(
		bundle.File{Key: "a.view", Content: "dimensions:\n  x: {}\n"},
		bundle.File{Key: "b.view", Content: "dimensions:\n  y: {}\n"},
		bundle.File{Key: "c.view", Content: "dimensions:\n  z: {}\n"},
	)
	topic := decode(t, "joins:\n  b:\n    c: {}\n")

	records, err := NewCollector(resolver.New(b), WithMaxDepth(1)).Collect(topic, "a")
	require.Error(t, err)
	assert.True(t, errors.Is(err, joingraph.ErrJoinTooDeep))
	assert.Equal(t, []string{"a.x", "b.y"}, names(records))
}

func TestCollector_SecondPassPicksQualifiedQueryView(t *testing.T) {
	b := bundle.New(
		bundle.File{Key: "orders.view", Content: "schema: SALES\nquery: select 1\ndimensions:\n  stale: {}\n"},
		bundle.File{Key: "SALES/orders.query.view", Content: "schema: SALES\nquery: select 1\ndimensions:\n  fresh: {}\n"},
	)

	records, err := NewCollector(resolver.New(b)).Collect(decode(t, ""), "orders")
	require.NoError(t, err)
	assert.Equal(t, []string{"orders.fresh"}, names(records))
}
