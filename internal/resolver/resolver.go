// Package resolver maps a joined table name to the bundle key holding its
// view definition.
//
// View files follow a loose naming convention: they may or may not be
// prefixed with their schema, and query-backed views use a ".query.view"
// suffix instead of ".view". The resolver generates candidate keys from an
// ordered rule list and returns the first one present in the bundle.
package resolver

import (
	"fmt"

	"github.com/leapstack-labs/omnicatalog/pkg/yamltree"
)

// Source is the bundle capability the resolver needs.
type Source interface {
	Has(key string) bool
	Decode(key string) (*yamltree.Node, error)
}

// Resolver resolves table names against one bundle.
type Resolver struct {
	src           Source
	rules         []Rule
	defaultSchema string
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithRules replaces the candidate rule list.
func WithRules(rules []Rule) Option {
	return func(r *Resolver) {
		if len(rules) > 0 {
			r.rules = rules
		}
	}
}

// WithDefaultSchema sets the schema tried when none is known.
func WithDefaultSchema(schema string) Option {
	return func(r *Resolver) {
		if schema != "" {
			r.defaultSchema = schema
		}
	}
}

// New creates a resolver over src.
func New(src Source, opts ...Option) *Resolver {
	r := &Resolver{
		src:           src,
		rules:         DefaultRules(),
		defaultSchema: DefaultSchema,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Candidates lists every key that could hold table's view, in order.
func (r *Resolver) Candidates(table string, hint Hint) []string {
	var out []string
	for _, rule := range r.rules {
		out = append(out, rule.Generate(table, hint, r.defaultSchema)...)
	}
	return out
}

// Resolve returns the first candidate key present in the bundle.
// Candidates are generated and checked one rule at a time.
func (r *Resolver) Resolve(table string, hint Hint) (string, bool) {
	for _, rule := range r.rules {
		for _, key := range rule.Generate(table, hint, r.defaultSchema) {
			if r.src.Has(key) {
				return key, true
			}
		}
	}
	return "", false
}

// Resolution is the outcome of resolving a table to its view.
type Resolution struct {
	Table string
	// ProbeKey is the key found with nothing known about the view.
	ProbeKey string
	// Key is the authoritative key, recomputed once the view's schema and
	// backing were read from the probed file.
	Key  string
	Hint Hint
	View *yamltree.Node
}

// Changed reports whether the second pass picked a different file.
func (res *Resolution) Changed() bool {
	return res.Key != res.ProbeKey
}

// ResolveView resolves and decodes table's view in two passes. The first
// pass probes with an empty hint and decodes whatever it finds. The schema
// and query backing declared in that file then form the hint for a second
// pass, whose result wins when it names a different file.
//
// ok is false when no candidate exists; that is not an error.
func (r *Resolver) ResolveView(table string) (res *Resolution, ok bool, err error) {
	probeKey, found := r.Resolve(table, Hint{})
	if !found {
		return nil, false, nil
	}

	view, err := r.src.Decode(probeKey)
	if err != nil {
		return nil, false, fmt.Errorf("failed to load view for %s: %w", table, err)
	}

	hint := HintFromView(view)
	res = &Resolution{
		Table:    table,
		ProbeKey: probeKey,
		Key:      probeKey,
		Hint:     hint,
		View:     view,
	}

	key, found := r.Resolve(table, hint)
	if !found || key == probeKey {
		return res, true, nil
	}

	view, err = r.src.Decode(key)
	if err != nil {
		return nil, false, fmt.Errorf("failed to load view for %s: %w", table, err)
	}
	res.Key = key
	res.View = view
	return res, true, nil
}

// HintFromView reads the schema and backing a decoded view declares.
// The mere presence of a "query" key marks the view as query-backed.
func HintFromView(view *yamltree.Node) Hint {
	hint := Hint{
		Schema:  view.StringValue("schema"),
		Backing: BackingTable,
	}
	if view.Has("query") {
		hint.Backing = BackingQuery
	}
	return hint
}
