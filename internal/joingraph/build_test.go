package joingraph

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/leapstack-labs/omnicatalog/pkg/yamltree"
)

func mustDecode(t *testing.T, content string) *yamltree.Node {
	t.Helper()
	n, err := yamltree.Decode(content)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	return n
}

func TestBuild_NestedJoins(t *testing.T) {
	topic := mustDecode(t, "joins:\n  customers:\n    addresses: {}\n")

	g, err := Build(topic, "orders")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	wantNodes := []Node{{"orders", 0}, {"customers", 1}, {"addresses", 2}}
	if !reflect.DeepEqual(g.Nodes(), wantNodes) {
		t.Errorf("nodes = %v, want %v", g.Nodes(), wantNodes)
	}

	wantEdges := []Edge{{"orders", "customers"}, {"customers", "addresses"}}
	if !reflect.DeepEqual(g.Edges(), wantEdges) {
		t.Errorf("edges = %v, want %v", g.Edges(), wantEdges)
	}
}

func TestBuild_PreOrderSiblingsInDeclaredOrder(t *testing.T) {
	topic := mustDecode(t, `
joins:
  users:
    regions: {}
    teams:
      orgs: {}
  products: {}
  inventory:
`)

	g, err := Build(topic, "order_items")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	want := []Node{
		{"order_items", 0},
		{"users", 1},
		{"regions", 2},
		{"teams", 2},
		{"orgs", 3},
		{"products", 1},
		{"inventory", 1},
	}
	if !reflect.DeepEqual(g.Nodes(), want) {
		t.Errorf("nodes = %v, want %v", g.Nodes(), want)
	}
	if g.EdgeCount() != 6 {
		t.Errorf("expected 6 edges, got %d", g.EdgeCount())
	}
	if got := g.GetChildren("users"); !reflect.DeepEqual(got, []string{"regions", "teams"}) {
		t.Errorf("children of users = %v", got)
	}
	if got := g.GetParents("orgs"); !reflect.DeepEqual(got, []string{"teams"}) {
		t.Errorf("parents of orgs = %v", got)
	}
	if g.MaxDepth() != 3 {
		t.Errorf("expected max depth 3, got %d", g.MaxDepth())
	}
}

func TestBuild_BaseOnly(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"no joins key", "base_view: orders\n"},
		{"joins is a list", "joins:\n  - customers\n"},
		{"joins is a scalar", "joins: customers\n"},
		{"joins is null", "joins:\n"},
		{"empty topic", ""},
		{"topic is a list", "- a\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := Build(mustDecode(t, tt.content), "orders")
			if err != nil {
				t.Fatalf("Build: %v", err)
			}
			if g.NodeCount() != 1 || g.EdgeCount() != 0 {
				t.Errorf("expected 1 node and 0 edges, got %d and %d", g.NodeCount(), g.EdgeCount())
			}
			if g.Nodes()[0] != (Node{"orders", 0}) {
				t.Errorf("base node = %v", g.Nodes()[0])
			}
		})
	}
}

func TestBuild_LeafValuesStopNesting(t *testing.T) {
	topic := mustDecode(t, "joins:\n  customers: true\n  products: [a, b]\n")

	g, err := Build(topic, "orders")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if g.NodeCount() != 3 {
		t.Errorf("expected 3 nodes, got %d", g.NodeCount())
	}
	if leaves := g.Leaves(); !reflect.DeepEqual(leaves, []string{"customers", "products"}) {
		t.Errorf("leaves = %v", leaves)
	}
}

func TestBuild_Idempotent(t *testing.T) {
	topic := mustDecode(t, "joins:\n  b:\n    c: {}\n  a: {}\n")

	first, err := Build(topic, "base")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	second, err := Build(topic, "base")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if !reflect.DeepEqual(first.Nodes(), second.Nodes()) || !reflect.DeepEqual(first.Edges(), second.Edges()) {
		t.Error("two builds of the same topic differ")
	}
}

func TestBuild_DepthLimit(t *testing.T) {
	topic := mustDecode(t, "joins:\n  a:\n    b:\n      c: {}\n")

	_, err := Build(topic, "base", WithMaxDepth(2))
	if err == nil {
		t.Fatal("expected depth error")
	}
	if !errors.Is(err, ErrJoinTooDeep) {
		t.Errorf("expected ErrJoinTooDeep, got %v", err)
	}

	var depthErr *DepthError
	if !errors.As(err, &depthErr) {
		t.Fatalf("expected *DepthError, got %T", err)
	}
	if depthErr.Table != "c" || depthErr.Depth != 3 || depthErr.Limit != 2 {
		t.Errorf("unexpected depth error: %+v", depthErr)
	}
	if !strings.Contains(err.Error(), "possible cycle") {
		t.Errorf("error should mention a possible cycle: %v", err)
	}

	if _, err := Build(topic, "base", WithMaxDepth(3)); err != nil {
		t.Errorf("depth 3 should be allowed: %v", err)
	}
	if _, err := Build(topic, "base", WithMaxDepth(0)); err != nil {
		t.Errorf("zero disables the limit: %v", err)
	}
}

func TestWalk_StopsOnError(t *testing.T) {
	topic := mustDecode(t, "joins:\n  a: {}\n  b: {}\n")
	stop := errors.New("stop")

	var seen []string
	err := Walk(topic, "base", 0, func(v Visit) error {
		seen = append(seen, v.Table)
		if v.Table == "a" {
			return stop
		}
		return nil
	})

	if !errors.Is(err, stop) {
		t.Errorf("expected stop error, got %v", err)
	}
	if !reflect.DeepEqual(seen, []string{"base", "a"}) {
		t.Errorf("seen = %v", seen)
	}
}

func TestGraph_Levels(t *testing.T) {
	topic := mustDecode(t, "joins:\n  a:\n    c: {}\n  b: {}\n")

	g, err := Build(topic, "base")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	want := [][]string{{"base"}, {"a", "b"}, {"c"}}
	if !reflect.DeepEqual(g.Levels(), want) {
		t.Errorf("levels = %v, want %v", g.Levels(), want)
	}
	if g.Base() != "base" {
		t.Errorf("base = %q", g.Base())
	}
}

func TestStyleDepth(t *testing.T) {
	cases := map[int]int{-1: 0, 0: 0, 1: 1, 3: 3, 4: 3, 12: 3}
	for in, want := range cases {
		if got := StyleDepth(in); got != want {
			t.Errorf("StyleDepth(%d) = %d, want %d", in, got, want)
		}
	}
}
