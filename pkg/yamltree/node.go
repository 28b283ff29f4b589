// Package yamltree provides a shape-checked view over decoded YAML documents.
//
// Model files are authored externally and only loosely schematized, so every
// accessor in this package tolerates a missing key or an unexpected shape and
// returns an empty result instead of failing. Callers branch on Kind rather
// than assuming structure.
//
// # Basic Usage
//
//	doc, err := yamltree.Decode(content)
//	if err != nil {
//	    return err
//	}
//
//	for _, e := range doc.Get("dimensions").Entries() {
//	    fmt.Println(e.Key, e.Value.StringValue("sql"))
//	}
package yamltree

import (
	"bytes"

	"gopkg.in/yaml.v3"
)

// Kind is the shape of a decoded YAML value.
type Kind int

// Node kinds.
const (
	Null Kind = iota
	Scalar
	Sequence
	Mapping
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case Scalar:
		return "scalar"
	case Sequence:
		return "sequence"
	case Mapping:
		return "mapping"
	default:
		return "null"
	}
}

// Node is one value of a decoded document. A nil *Node is a valid Null.
type Node struct {
	raw *yaml.Node
}

// Entry is a single key/value pair of a mapping, in declared order.
type Entry struct {
	Key   string
	Value *Node
}

// Decode parses content as a single YAML document.
// Empty or whitespace-only content decodes to a Null node.
func Decode(content string) (*Node, error) {
	return DecodeNamed("", content)
}

// DecodeNamed is Decode with a source name attached to any returned error.
func DecodeNamed(source, content string) (*Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(content), &doc); err != nil {
		return nil, &DecodeError{Source: source, Err: err}
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return &Node{}, nil
	}
	return wrap(&doc), nil
}

func wrap(n *yaml.Node) *Node {
	return &Node{raw: deref(n)}
}

// deref unwraps document and alias nodes down to the value they stand for.
func deref(n *yaml.Node) *yaml.Node {
	for n != nil {
		switch {
		case n.Kind == yaml.DocumentNode && len(n.Content) > 0:
			n = n.Content[0]
		case n.Kind == yaml.AliasNode && n.Alias != nil:
			n = n.Alias
		default:
			return n
		}
	}
	return nil
}

// Raw returns the underlying yaml.v3 node, or nil for Null.
func (n *Node) Raw() *yaml.Node {
	if n == nil {
		return nil
	}
	return n.raw
}

// Kind reports the shape of the node.
func (n *Node) Kind() Kind {
	if n == nil || n.raw == nil {
		return Null
	}
	switch n.raw.Kind {
	case yaml.MappingNode:
		return Mapping
	case yaml.SequenceNode:
		return Sequence
	case yaml.ScalarNode:
		if n.raw.Tag == "!!null" {
			return Null
		}
		return Scalar
	default:
		return Null
	}
}

// IsMapping reports whether the node is a mapping.
func (n *Node) IsMapping() bool { return n.Kind() == Mapping }

// IsNull reports whether the node is absent or an explicit null.
func (n *Node) IsNull() bool { return n.Kind() == Null }

// Get returns the value stored under key, or nil when the node is not a
// mapping or the key is absent. A key mapped to an explicit null yields a
// non-nil Null node, so Get(key) != nil distinguishes presence.
func (n *Node) Get(key string) *Node {
	if n.Kind() != Mapping {
		return nil
	}
	c := n.raw.Content
	for i := 0; i+1 < len(c); i += 2 {
		if k := deref(c[i]); k != nil && k.Value == key {
			return wrap(c[i+1])
		}
	}
	return nil
}

// Has reports whether key is present in a mapping, regardless of its value.
func (n *Node) Has(key string) bool {
	return n.Get(key) != nil
}

// Entries returns the mapping's entries in declared order.
func (n *Node) Entries() []Entry {
	if n.Kind() != Mapping {
		return nil
	}
	c := n.raw.Content
	entries := make([]Entry, 0, len(c)/2)
	for i := 0; i+1 < len(c); i += 2 {
		k := deref(c[i])
		if k == nil {
			continue
		}
		entries = append(entries, Entry{Key: k.Value, Value: wrap(c[i+1])})
	}
	return entries
}

// Keys returns the mapping's keys in declared order.
func (n *Node) Keys() []string {
	entries := n.Entries()
	keys := make([]string, len(entries))
	for i, e := range entries {
		keys[i] = e.Key
	}
	return keys
}

// Items returns the elements of a sequence.
func (n *Node) Items() []*Node {
	if n.Kind() != Sequence {
		return nil
	}
	items := make([]*Node, len(n.raw.Content))
	for i, c := range n.raw.Content {
		items[i] = wrap(c)
	}
	return items
}

// Scalar returns the scalar's text, or "" for any other kind.
func (n *Node) Scalar() string {
	if n.Kind() != Scalar {
		return ""
	}
	return n.raw.Value
}

// StringValue returns the scalar text stored under key, or "".
func (n *Node) StringValue(key string) string {
	return n.Get(key).Scalar()
}

// Interface decodes the node into plain Go values (maps, slices, scalars).
func (n *Node) Interface() (any, error) {
	if n.Kind() == Null {
		return nil, nil
	}
	var v any
	if err := n.raw.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

// EncodeEntry serializes a single-entry mapping {key: value} as YAML text.
// Aliases inside value are expanded so the output stands on its own.
func EncodeEntry(key string, value *Node) (string, error) {
	val := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	if value != nil && value.raw != nil {
		val = expand(value.raw, 0)
	}
	doc := &yaml.Node{
		Kind: yaml.MappingNode,
		Tag:  "!!map",
		Content: []*yaml.Node{
			{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
			val,
		},
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return "", &EncodeError{Key: key, Err: err}
	}
	if err := enc.Close(); err != nil {
		return "", &EncodeError{Key: key, Err: err}
	}
	return buf.String(), nil
}

// maxExpandDepth bounds alias expansion for self-referencing documents.
const maxExpandDepth = 256

// expand returns a copy of n with aliases replaced by their targets and
// anchors dropped.
func expand(n *yaml.Node, depth int) *yaml.Node {
	n = deref(n)
	if n == nil || depth > maxExpandDepth {
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	}
	cp := *n
	cp.Anchor = ""
	if len(n.Content) > 0 {
		cp.Content = make([]*yaml.Node, len(n.Content))
		for i, c := range n.Content {
			cp.Content[i] = expand(c, depth+1)
		}
	}
	return &cp
}
