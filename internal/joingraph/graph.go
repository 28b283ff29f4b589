// Package joingraph builds the join-relationship graph of a topic.
// A topic declares a base table and a nested "joins" mapping; the graph has
// one node per joined table, tagged with its nesting depth, and one edge per
// parent/child join, both in pre-order.
package joingraph

// MaxStyleDepth is the deepest level with its own visual treatment.
// Deeper nodes are drawn like depth 3 nodes.
const MaxStyleDepth = 3

// Node is a table in the join tree. Depth 0 is the base table.
type Node struct {
	Name  string `json:"name"`
	Depth int    `json:"depth"`
}

// Edge is a join from Parent to Child.
type Edge struct {
	Parent string `json:"parent"`
	Child  string `json:"child"`
}

// Graph is the join tree of one topic.
type Graph struct {
	base     string
	nodes    []Node
	edges    []Edge
	children map[string][]string // parent -> joined tables
	parents  map[string][]string // joined table -> parents
}

func newGraph(base string) *Graph {
	return &Graph{
		base:     base,
		children: make(map[string][]string),
		parents:  make(map[string][]string),
	}
}

func (g *Graph) addNode(name string, depth int) {
	g.nodes = append(g.nodes, Node{Name: name, Depth: depth})
}

func (g *Graph) addEdge(parent, child string) {
	g.edges = append(g.edges, Edge{Parent: parent, Child: child})
	g.children[parent] = append(g.children[parent], child)
	g.parents[child] = append(g.parents[child], parent)
}

// Base returns the base table name.
func (g *Graph) Base() string {
	return g.base
}

// Nodes returns the nodes in pre-order, base first.
func (g *Graph) Nodes() []Node {
	out := make([]Node, len(g.nodes))
	copy(out, g.nodes)
	return out
}

// Edges returns the edges in pre-order.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, len(g.edges))
	copy(out, g.edges)
	return out
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int {
	return len(g.edges)
}

// GetChildren returns the tables joined directly under name.
func (g *Graph) GetChildren(name string) []string {
	return g.children[name]
}

// GetParents returns the tables name is joined from. In a well-formed topic
// this has at most one element.
func (g *Graph) GetParents(name string) []string {
	return g.parents[name]
}

// MaxDepth returns the depth of the deepest node.
func (g *Graph) MaxDepth() int {
	deepest := 0
	for _, n := range g.nodes {
		if n.Depth > deepest {
			deepest = n.Depth
		}
	}
	return deepest
}

// Levels groups node names by depth. Level 0 holds the base table.
func (g *Graph) Levels() [][]string {
	levels := make([][]string, g.MaxDepth()+1)
	for _, n := range g.nodes {
		levels[n.Depth] = append(levels[n.Depth], n.Name)
	}
	return levels
}

// Leaves returns the tables nothing is joined under, in pre-order.
func (g *Graph) Leaves() []string {
	var leaves []string
	for _, n := range g.nodes {
		if len(g.children[n.Name]) == 0 {
			leaves = append(leaves, n.Name)
		}
	}
	return leaves
}

// StyleDepth clamps depth to the styled range [0, MaxStyleDepth].
func StyleDepth(depth int) int {
	if depth < 0 {
		return 0
	}
	if depth > MaxStyleDepth {
		return MaxStyleDepth
	}
	return depth
}
