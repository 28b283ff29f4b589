package fields

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/omnicatalog/pkg/yamltree"
)

func decode(t *testing.T, content string) *yamltree.Node {
	t.Helper()
	n, err := yamltree.Decode(content)
	require.NoError(t, err)
	return n
}

func TestExtract(t *testing.T) {
	view := decode(t, `
schema: PUBLIC
dimensions:
  status:
    sql: ${orders.status}
    description: Order status
  id: {}
measures:
  total:
    sql: amount
    aggregate_type: sum
  order_count:
    aggregate_type: count
  margin:
    sql: revenue - cost
`)

	records, err := Extract(view, "orders")
	require.NoError(t, err)
	require.Len(t, records, 5)

	got := make([][3]string, len(records))
	for i, r := range records {
		got[i] = [3]string{r.Name, string(r.Kind), r.SQL}
		assert.Equal(t, "orders", r.SourceTable)
	}
	assert.Equal(t, [][3]string{
		{"status", "dimension", "${orders.status}"},
		{"id", "dimension", ""},
		{"total", "measure", "sum(amount)"},
		{"order_count", "measure", "count"},
		{"margin", "measure", "revenue - cost"},
	}, got)

	assert.Equal(t, "Order status", records[0].Description)
	assert.Empty(t, records[1].Description)
}

func TestExtract_MeasureSQL(t *testing.T) {
	tests := []struct {
		name string
		def  string
		want string
	}{
		{"sql and aggregate", "sql: amount\naggregate_type: sum\n", "sum(amount)"},
		{"aggregate only", "aggregate_type: count\n", "count"},
		{"sql only", "sql: amount\n", "amount"},
		{"neither", "label: Foo\n", ""},
		{"null definition", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, measureSQL(decode(t, tt.def)))
		})
	}
}

func TestExtract_NoFieldSections(t *testing.T) {
	for _, content := range []string{"", "schema: PUBLIC\n", "- a\n", "dimensions: [a, b]\nmeasures: x\n"} {
		records, err := Extract(decode(t, content), "t")
		require.NoError(t, err)
		assert.Empty(t, records, "content %q", content)
	}
}

func TestExtract_FullDefinitionRoundTrip(t *testing.T) {
	view := decode(t, `
dimensions:
  created_at:
    sql: ${orders.created_at}
    timeframes: [day, week]
measures:
  total:
    sql: amount
    aggregate_type: sum
`)

	records, err := Extract(view, "orders")
	require.NoError(t, err)
	require.Len(t, records, 2)

	for _, r := range records {
		doc := decode(t, r.FullDefinition)
		assert.Equal(t, []string{r.Name}, doc.Keys())
		assert.True(t, doc.Get(r.Name).IsMapping())
	}

	assert.Contains(t, records[0].FullDefinition, "created_at:\n  sql: ")
	assert.Contains(t, records[0].FullDefinition, "timeframes:")
}
