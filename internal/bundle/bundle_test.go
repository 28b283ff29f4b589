package bundle

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/omnicatalog/pkg/yamltree"
)

const combinedYAML = `files:
  model: |
    connection: warehouse
  relationships: |
    - join_from_view: orders
      join_to_view: customers
  orders.topic: |
    joins:
      customers: {}
  PUBLIC/orders.view: |
    schema: PUBLIC
    dimensions:
      id: {}
  customers.query.view: |
    query: select 1
version: 3
`

func TestParse(t *testing.T) {
	b, err := Parse(combinedYAML)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"model",
		"relationships",
		"orders.topic",
		"PUBLIC/orders.view",
		"customers.query.view",
	}, b.Keys())
	assert.Equal(t, 5, b.Len())

	content, ok := b.Get("model")
	require.True(t, ok)
	assert.Equal(t, "connection: warehouse\n", content)
	assert.Empty(t, b.Skipped())
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr error
	}{
		{"top level sequence", "- a\n- b\n", ErrUnexpectedStructure},
		{"missing files", "version: 3\n", ErrUnexpectedStructure},
		{"files not a mapping", "files:\n  - a\n", ErrUnexpectedStructure},
		{"empty document", "", ErrUnexpectedStructure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.raw)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestParse_InvalidYAML(t *testing.T) {
	_, err := Parse("files: [unterminated")
	require.Error(t, err)

	var decErr *yamltree.DecodeError
	assert.True(t, errors.As(err, &decErr))
}

func TestParse_SkipsNonTextFiles(t *testing.T) {
	b, err := Parse("files:\n  a.view: text\n  b.view:\n    nested: true\n  c.view:\n")
	require.NoError(t, err)

	assert.Equal(t, []string{"a.view", "c.view"}, b.Keys())
	assert.Equal(t, []string{"b.view"}, b.Skipped())
}

func TestNew_RepeatedKeyKeepsFirstPosition(t *testing.T) {
	b := New(
		File{Key: "a", Content: "1"},
		File{Key: "b", Content: "2"},
		File{Key: "a", Content: "3"},
	)

	assert.Equal(t, []string{"a", "b"}, b.Keys())
	content, _ := b.Get("a")
	assert.Equal(t, "3", content)
}

func TestBundle_Decode(t *testing.T) {
	b := New(
		File{Key: "ok.view", Content: "schema: PUBLIC\n"},
		File{Key: "bad.view", Content: "a: [1"},
	)

	doc, err := b.Decode("ok.view")
	require.NoError(t, err)
	assert.Equal(t, "PUBLIC", doc.StringValue("schema"))

	_, err = b.Decode("bad.view")
	var decErr *yamltree.DecodeError
	require.True(t, errors.As(err, &decErr))
	assert.Equal(t, "bad.view", decErr.Source)

	_, err = b.Decode("missing.view")
	assert.ErrorIs(t, err, ErrFileNotFound)
}

func TestBundle_NilSafe(t *testing.T) {
	var b *Bundle

	assert.Equal(t, 0, b.Len())
	assert.Empty(t, b.Keys())
	assert.False(t, b.Has("x"))
	_, ok := b.Get("x")
	assert.False(t, ok)
}
