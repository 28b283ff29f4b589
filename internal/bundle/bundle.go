// Package bundle holds the combined file bundle of one model and classifies
// its files by naming convention.
package bundle

import (
	"errors"
	"fmt"

	"github.com/leapstack-labs/omnicatalog/pkg/yamltree"
)

// Sentinel errors.
var (
	// ErrUnexpectedStructure is returned when the combined document is not a
	// mapping with a "files" mapping.
	ErrUnexpectedStructure = errors.New("unexpected bundle structure")

	// ErrFileNotFound is returned when a key is not part of the bundle.
	ErrFileNotFound = errors.New("file not found in bundle")
)

// File is one named file of a bundle.
type File struct {
	Key     string
	Content string
}

// Bundle maps file keys to raw file content. Keys keep the order in which
// the API returned them. A Bundle is never modified after construction.
type Bundle struct {
	keys    []string
	files   map[string]string
	skipped []string
}

// New builds a bundle from files in the given order. A repeated key keeps its
// first position and its last content.
func New(files ...File) *Bundle {
	b := &Bundle{files: make(map[string]string, len(files))}
	for _, f := range files {
		b.add(f.Key, f.Content)
	}
	return b
}

func (b *Bundle) add(key, content string) {
	if _, exists := b.files[key]; !exists {
		b.keys = append(b.keys, key)
	}
	b.files[key] = content
}

// Parse decodes the combined YAML returned by the model YAML endpoint.
// The document must be a mapping whose "files" entry maps keys to file
// content. Entries whose content is not a scalar are skipped and reported by
// Skipped.
func Parse(raw string) (*Bundle, error) {
	doc, err := yamltree.DecodeNamed("combined model YAML", raw)
	if err != nil {
		return nil, err
	}
	if !doc.IsMapping() {
		return nil, fmt.Errorf("%w: top level is a %s, want a mapping", ErrUnexpectedStructure, doc.Kind())
	}

	files := doc.Get("files")
	if files == nil {
		return nil, fmt.Errorf("%w: missing \"files\"", ErrUnexpectedStructure)
	}
	if !files.IsMapping() {
		return nil, fmt.Errorf("%w: \"files\" is a %s, want a mapping", ErrUnexpectedStructure, files.Kind())
	}

	b := &Bundle{files: make(map[string]string)}
	for _, e := range files.Entries() {
		switch e.Value.Kind() {
		case yamltree.Scalar:
			b.add(e.Key, e.Value.Scalar())
		case yamltree.Null:
			b.add(e.Key, "")
		default:
			b.skipped = append(b.skipped, e.Key)
		}
	}
	return b, nil
}

// Keys returns all file keys in bundle order.
func (b *Bundle) Keys() []string {
	if b == nil {
		return nil
	}
	out := make([]string, len(b.keys))
	copy(out, b.keys)
	return out
}

// Len returns the number of files.
func (b *Bundle) Len() int {
	if b == nil {
		return 0
	}
	return len(b.keys)
}

// Has reports whether key names a file in the bundle.
func (b *Bundle) Has(key string) bool {
	if b == nil {
		return false
	}
	_, ok := b.files[key]
	return ok
}

// Get returns the raw content stored under key.
func (b *Bundle) Get(key string) (string, bool) {
	if b == nil {
		return "", false
	}
	content, ok := b.files[key]
	return content, ok
}

// Decode decodes the file stored under key. Each call decodes afresh.
func (b *Bundle) Decode(key string) (*yamltree.Node, error) {
	content, ok := b.Get(key)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, key)
	}
	return yamltree.DecodeNamed(key, content)
}

// Skipped returns keys dropped by Parse because their content was not text.
func (b *Bundle) Skipped() []string {
	if b == nil {
		return nil
	}
	return b.skipped
}
