package joingraph

import "github.com/leapstack-labs/omnicatalog/pkg/yamltree"

// Relationship is one declared join between two views in the model's
// relationship file.
type Relationship struct {
	From             string `json:"join_from_view"`
	To               string `json:"join_to_view"`
	JoinType         string `json:"join_type,omitempty"`
	OnSQL            string `json:"on_sql,omitempty"`
	RelationshipType string `json:"relationship_type,omitempty"`
}

// Relationships reads the relationship file. It accepts either a top-level
// sequence or a mapping with a "relationships" sequence; entries that are not
// mappings or lack both view names are ignored.
func Relationships(doc *yamltree.Node) []Relationship {
	list := doc
	if doc.IsMapping() {
		list = doc.Get("relationships")
	}

	var out []Relationship
	for _, item := range list.Items() {
		if !item.IsMapping() {
			continue
		}
		rel := Relationship{
			From:             item.StringValue("join_from_view"),
			To:               item.StringValue("join_to_view"),
			JoinType:         item.StringValue("join_type"),
			OnSQL:            item.StringValue("on_sql"),
			RelationshipType: item.StringValue("relationship_type"),
		}
		if rel.From == "" && rel.To == "" {
			continue
		}
		out = append(out, rel)
	}
	return out
}
