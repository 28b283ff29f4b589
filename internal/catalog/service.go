// Package catalog ties the API client and the bundle analysis together into
// per-user browsing sessions.
//
// A Session holds at most one model bundle. Selecting a model fetches its
// bundle from scratch and replaces the previous one only when the fetch
// succeeds. Everything derived from a bundle (file classification, join
// graphs, field catalogs) is computed on demand and never cached.
package catalog

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/leapstack-labs/omnicatalog/internal/bundle"
	"github.com/leapstack-labs/omnicatalog/internal/fields"
	"github.com/leapstack-labs/omnicatalog/internal/joingraph"
	"github.com/leapstack-labs/omnicatalog/internal/resolver"
)

// ErrNoModel is returned by session reads before any model was selected.
var ErrNoModel = errors.New("no model selected")

// Loader fetches a model's bundle.
type Loader interface {
	LoadBundle(ctx context.Context, modelID string) (*bundle.Bundle, error)
}

// Options control how bundles are analyzed.
type Options struct {
	// DefaultSchema is tried when a view's schema is not yet known.
	DefaultSchema string
	// Rules replaces the default view resolution rules when non-empty.
	Rules []resolver.Rule
	// MaxJoinDepth bounds join tree nesting. Zero uses joingraph.DefaultMaxDepth.
	MaxJoinDepth int
	// MarkUnresolved adds a marker record for joined tables without a view.
	MarkUnresolved bool
}

// Service creates sessions sharing one loader and one set of options.
type Service struct {
	loader Loader
	opts   Options
	logger *slog.Logger
}

// NewService creates a service. A nil logger discards output.
func NewService(loader Loader, opts Options, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.MaxJoinDepth == 0 {
		opts.MaxJoinDepth = joingraph.DefaultMaxDepth
	}
	return &Service{loader: loader, opts: opts, logger: logger}
}

// Options returns the analysis options.
func (s *Service) Options() Options {
	return s.opts
}

// NewSession returns an empty session.
func (s *Service) NewSession() *Session {
	return &Session{svc: s}
}

// Open selects modelID in a fresh session.
func (s *Service) Open(ctx context.Context, modelID string) (*Session, error) {
	sess := s.NewSession()
	if err := sess.Select(ctx, modelID); err != nil {
		return nil, err
	}
	return sess, nil
}

func (s *Service) resolverFor(b *bundle.Bundle) *resolver.Resolver {
	return resolver.New(b,
		resolver.WithRules(s.opts.Rules),
		resolver.WithDefaultSchema(s.opts.DefaultSchema),
	)
}

func (s *Service) collectorFor(res *resolver.Resolver) *fields.Collector {
	return fields.NewCollector(res,
		fields.WithLogger(s.logger),
		fields.WithMaxDepth(s.opts.MaxJoinDepth),
		fields.WithMarkUnresolved(s.opts.MarkUnresolved),
	)
}
