package fields

import (
	"io"
	"log/slog"
	"strings"

	"github.com/leapstack-labs/omnicatalog/internal/joingraph"
	"github.com/leapstack-labs/omnicatalog/internal/resolver"
	"github.com/leapstack-labs/omnicatalog/pkg/yamltree"
)

// Collector gathers the fields of a topic's base table and every table
// joined under it.
type Collector struct {
	resolver       *resolver.Resolver
	logger         *slog.Logger
	maxDepth       int
	markUnresolved bool
}

// CollectorOption configures a Collector.
type CollectorOption func(*Collector)

// WithLogger sets the logger used for skipped tables.
func WithLogger(logger *slog.Logger) CollectorOption {
	return func(c *Collector) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMaxDepth overrides joingraph.DefaultMaxDepth.
func WithMaxDepth(n int) CollectorOption {
	return func(c *Collector) {
		c.maxDepth = n
	}
}

// WithMarkUnresolved makes tables without a view contribute a single
// KindUnresolved record instead of nothing.
func WithMarkUnresolved(mark bool) CollectorOption {
	return func(c *Collector) {
		c.markUnresolved = mark
	}
}

// NewCollector creates a collector resolving views through res.
func NewCollector(res *resolver.Resolver, opts ...CollectorOption) *Collector {
	c := &Collector{
		resolver: res,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		maxDepth: joingraph.DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Collect returns the fields of base followed by those of each joined table,
// in join-walk order.
//
// A table whose view cannot be found, decoded or extracted is logged and
// skipped. Only the depth guard stops the walk; its error is returned along
// with the records collected up to that point.
func (c *Collector) Collect(topic *yamltree.Node, base string) ([]FieldRecord, error) {
	var records []FieldRecord

	err := joingraph.Walk(topic, base, c.maxDepth, func(v joingraph.Visit) error {
		records = append(records, c.collectTable(v.Table)...)
		return nil
	})

	return records, err
}

func (c *Collector) collectTable(table string) []FieldRecord {
	res, ok, err := c.resolver.ResolveView(table)
	if err != nil {
		c.logger.Warn("skipping table", "table", table, "error", err)
		return nil
	}
	if !ok {
		c.logger.Debug("no view for table", "table", table)
		if c.markUnresolved {
			return []FieldRecord{c.unresolved(table)}
		}
		return nil
	}
	if res.Changed() {
		c.logger.Debug("view re-resolved", "table", table, "probe", res.ProbeKey, "key", res.Key)
	}

	records, err := Extract(res.View, table)
	if err != nil {
		c.logger.Warn("skipping table", "table", table, "key", res.Key, "error", err)
		return nil
	}
	return records
}

func (c *Collector) unresolved(table string) FieldRecord {
	tried := c.resolver.Candidates(table, resolver.Hint{})
	return FieldRecord{
		Name:        table,
		Kind:        KindUnresolved,
		Description: "no view file found (tried " + strings.Join(tried, ", ") + ")",
		SourceTable: table,
	}
}
