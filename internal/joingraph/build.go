package joingraph

import (
	"errors"
	"fmt"

	"github.com/leapstack-labs/omnicatalog/pkg/yamltree"
)

// DefaultMaxDepth bounds how deep a join tree may nest.
const DefaultMaxDepth = 64

// ErrJoinTooDeep is returned when a join tree nests past the depth limit.
var ErrJoinTooDeep = errors.New("join tree too deep")

// DepthError reports the table at which the depth limit was exceeded.
type DepthError struct {
	Table string
	Depth int
	Limit int
}

func (e *DepthError) Error() string {
	return fmt.Sprintf("join tree too deep / possible cycle: %s at depth %d exceeds limit %d", e.Table, e.Depth, e.Limit)
}

// Is makes errors.Is(err, ErrJoinTooDeep) match.
func (e *DepthError) Is(target error) bool {
	return target == ErrJoinTooDeep
}

// Visit is one table reached while walking a join tree.
type Visit struct {
	Table  string
	Parent string // empty for the base table
	Depth  int
}

// VisitFunc is called for each table in pre-order. Returning an error stops
// the walk.
type VisitFunc func(Visit) error

// Walk visits base and then every table in topic's "joins" tree in
// pre-order: a table before the tables joined under it, siblings in declared
// order. An entry whose value is not a mapping is a leaf. A missing or
// non-mapping "joins" yields the base alone.
//
// Nesting is followed as declared, without a visited set. A maxDepth > 0
// stops the walk with a *DepthError once a table would sit deeper than it.
func Walk(topic *yamltree.Node, base string, maxDepth int, fn VisitFunc) error {
	if err := fn(Visit{Table: base, Depth: 0}); err != nil {
		return err
	}
	return walkJoins(topic.Get("joins"), base, 0, maxDepth, fn)
}

func walkJoins(joins *yamltree.Node, parent string, depth, maxDepth int, fn VisitFunc) error {
	if !joins.IsMapping() {
		return nil
	}
	for _, e := range joins.Entries() {
		d := depth + 1
		if maxDepth > 0 && d > maxDepth {
			return &DepthError{Table: e.Key, Depth: d, Limit: maxDepth}
		}
		if err := fn(Visit{Table: e.Key, Parent: parent, Depth: d}); err != nil {
			return err
		}
		if err := walkJoins(e.Value, e.Key, d, maxDepth, fn); err != nil {
			return err
		}
	}
	return nil
}

type buildOptions struct {
	maxDepth int
}

// Option configures Build.
type Option func(*buildOptions)

// WithMaxDepth overrides DefaultMaxDepth. Zero or less disables the limit.
func WithMaxDepth(n int) Option {
	return func(o *buildOptions) {
		o.maxDepth = n
	}
}

// Build returns the join graph of topic rooted at base.
func Build(topic *yamltree.Node, base string, opts ...Option) (*Graph, error) {
	o := buildOptions{maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(&o)
	}

	g := newGraph(base)
	err := Walk(topic, base, o.maxDepth, func(v Visit) error {
		g.addNode(v.Table, v.Depth)
		if v.Depth > 0 {
			g.addEdge(v.Parent, v.Table)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return g, nil
}
