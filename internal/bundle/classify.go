package bundle

import (
	"path"
	"strings"

	"github.com/leapstack-labs/omnicatalog/pkg/yamltree"
)

// File naming conventions.
const (
	TopicSuffix     = ".topic"
	ViewSuffix      = ".view"
	ModelFileKey    = "model"
	relationshipKey = "relationship"
)

// Classification partitions a bundle's file keys by role. Topics and Views
// keep bundle order. Model and Relationship are empty when absent.
type Classification struct {
	Topics       []string `json:"topics"`
	Views        []string `json:"views"`
	Model        string   `json:"model,omitempty"`
	Relationship string   `json:"relationship,omitempty"`
}

// HasModel reports whether a model file was found.
func (c Classification) HasModel() bool { return c.Model != "" }

// HasRelationship reports whether a relationship file was found.
func (c Classification) HasRelationship() bool { return c.Relationship != "" }

// Classify sorts keys into topics, views, the model file and the
// relationship file. Only the key names are consulted.
func Classify(keys []string) Classification {
	c := Classification{
		Topics: []string{},
		Views:  []string{},
	}
	for _, key := range keys {
		if strings.HasSuffix(key, TopicSuffix) {
			c.Topics = append(c.Topics, key)
		}
		if strings.HasSuffix(key, ViewSuffix) {
			c.Views = append(c.Views, key)
		}
		if key == ModelFileKey {
			c.Model = key
		}
		if c.Relationship == "" && strings.Contains(strings.ToLower(key), relationshipKey) {
			c.Relationship = key
		}
	}
	return c
}

// Classify classifies the bundle's own keys.
func (b *Bundle) Classify() Classification {
	return Classify(b.Keys())
}

// TopicBase returns the base table of a topic: its base_view when declared,
// otherwise the topic key without its extension.
func TopicBase(topicKey string, topic *yamltree.Node) string {
	if base := topic.StringValue("base_view"); base != "" {
		return base
	}
	return strings.TrimSuffix(topicKey, path.Ext(topicKey))
}
