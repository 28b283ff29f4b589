package catalog

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/leapstack-labs/omnicatalog/internal/bundle"
	"github.com/leapstack-labs/omnicatalog/internal/fields"
	"github.com/leapstack-labs/omnicatalog/internal/joingraph"
	"github.com/leapstack-labs/omnicatalog/pkg/yamltree"
)

// Session is one user's view of a single selected model.
type Session struct {
	svc *Service

	mu      sync.RWMutex
	modelID string
	bundle  *bundle.Bundle
}

// Select fetches modelID's bundle and makes it current. On failure the
// previously selected model stays in place.
func (s *Session) Select(ctx context.Context, modelID string) error {
	b, err := s.svc.loader.LoadBundle(ctx, modelID)
	if err != nil {
		s.svc.logger.Error("failed to load model", "model", modelID, "error", err)
		return fmt.Errorf("failed to load model %s: %w", modelID, err)
	}

	s.mu.Lock()
	s.modelID = modelID
	s.bundle = b
	s.mu.Unlock()

	s.svc.logger.Info("model loaded", "model", modelID, "files", b.Len())
	return nil
}

// ModelID returns the selected model, or "" before the first selection.
func (s *Session) ModelID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.modelID
}

// Bundle returns the selected model's bundle.
func (s *Session) Bundle() (*bundle.Bundle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.bundle == nil {
		return nil, ErrNoModel
	}
	return s.bundle, nil
}

// FileList is the bundle's keys along with their classification.
type FileList struct {
	ModelID string
	Keys    []string
	bundle.Classification
}

// Files lists and classifies the selected model's files.
func (s *Session) Files() (*FileList, error) {
	b, err := s.Bundle()
	if err != nil {
		return nil, err
	}
	keys := b.Keys()
	return &FileList{
		ModelID:        s.ModelID(),
		Keys:           keys,
		Classification: bundle.Classify(keys),
	}, nil
}

// Other returns the keys that are neither topics, views, the model file nor
// the relationship file, in bundle order.
func (l *FileList) Other() []string {
	known := make(map[string]bool, len(l.Topics)+len(l.Views)+2)
	for _, k := range l.Topics {
		known[k] = true
	}
	for _, k := range l.Views {
		known[k] = true
	}
	if l.Model != "" {
		known[l.Model] = true
	}
	if l.Relationship != "" {
		known[l.Relationship] = true
	}

	var other []string
	for _, k := range l.Keys {
		if !known[k] {
			other = append(other, k)
		}
	}
	return other
}

// FileView is one file's raw content and its decoded form. A file that does
// not decode has DecodeErr set and a nil Doc; Content is always present.
type FileView struct {
	Key       string
	Content   string
	Doc       *yamltree.Node
	DecodeErr error
}

// File returns key's content, decoded when possible.
func (s *Session) File(key string) (*FileView, error) {
	b, err := s.Bundle()
	if err != nil {
		return nil, err
	}
	content, ok := b.Get(key)
	if !ok {
		return nil, fmt.Errorf("%w: %s", bundle.ErrFileNotFound, key)
	}

	view := &FileView{Key: key, Content: content}
	view.Doc, view.DecodeErr = b.Decode(key)
	return view, nil
}

// TopicView is everything shown for one topic: its base table, its join
// graph and the fields of every table in it.
//
// Err holds a problem scoped to this topic, such as a topic file that does
// not decode or a join tree past the depth limit. Graph and Fields carry
// whatever could be computed regardless.
type TopicView struct {
	Key    string
	Base   string
	Graph  *joingraph.Graph
	Fields []fields.FieldRecord
	Err    error
}

// TopicKey maps a user reference to a topic key: an existing key is used as
// is, anything else gets the topic suffix.
func (s *Session) TopicKey(ref string) (string, error) {
	b, err := s.Bundle()
	if err != nil {
		return "", err
	}
	if b.Has(ref) {
		return ref, nil
	}
	if !strings.HasSuffix(ref, bundle.TopicSuffix) && b.Has(ref+bundle.TopicSuffix) {
		return ref + bundle.TopicSuffix, nil
	}
	return "", fmt.Errorf("%w: %s", bundle.ErrFileNotFound, ref)
}

// Topic builds the view of the topic stored under key.
func (s *Session) Topic(key string) (*TopicView, error) {
	b, err := s.Bundle()
	if err != nil {
		return nil, err
	}
	if !b.Has(key) {
		return nil, fmt.Errorf("%w: %s", bundle.ErrFileNotFound, key)
	}

	view := &TopicView{Key: key}
	topic, err := b.Decode(key)
	if err != nil {
		view.Base = bundle.TopicBase(key, nil)
		view.Err = err
		return view, nil
	}
	view.Base = bundle.TopicBase(key, topic)

	view.Graph, err = joingraph.Build(topic, view.Base, joingraph.WithMaxDepth(s.svc.opts.MaxJoinDepth))
	if err != nil {
		view.Err = err
	}

	res := s.svc.resolverFor(b)
	view.Fields, err = s.svc.collectorFor(res).Collect(topic, view.Base)
	if err != nil && view.Err == nil {
		view.Err = err
	}
	return view, nil
}

// Relationships reads the model's relationship file, if it has one.
func (s *Session) Relationships() ([]joingraph.Relationship, error) {
	b, err := s.Bundle()
	if err != nil {
		return nil, err
	}
	c := b.Classify()
	if !c.HasRelationship() {
		return nil, nil
	}
	doc, err := b.Decode(c.Relationship)
	if err != nil {
		return nil, err
	}
	return joingraph.Relationships(doc), nil
}
