package output

import (
	"github.com/leapstack-labs/omnicatalog/internal/fields"
	"github.com/leapstack-labs/omnicatalog/internal/joingraph"
)

// ModelInfo is one row of the models listing.
type ModelInfo struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

// ModelsOutput is the JSON output of the models command.
type ModelsOutput struct {
	Models      []ModelInfo `json:"models"`
	HasNextPage bool        `json:"has_next_page"`
	NextCursor  string      `json:"next_cursor,omitempty"`
}

// FilesOutput is the JSON output of the files command.
type FilesOutput struct {
	ModelID      string   `json:"model_id"`
	Files        []string `json:"files"`
	Topics       []string `json:"topics"`
	Views        []string `json:"views"`
	Model        string   `json:"model,omitempty"`
	Relationship string   `json:"relationship,omitempty"`
}

// FileOutput is the JSON output of the show command.
type FileOutput struct {
	Key         string `json:"key"`
	Content     string `json:"content"`
	Decoded     any    `json:"decoded,omitempty"`
	DecodeError string `json:"decode_error,omitempty"`
}

// GraphOutput is the JSON output of the graph command.
type GraphOutput struct {
	ModelID string           `json:"model_id"`
	Topic   string           `json:"topic"`
	Base    string           `json:"base"`
	Nodes   []joingraph.Node `json:"nodes"`
	Edges   []joingraph.Edge `json:"edges"`
	Levels  [][]string       `json:"levels"`
	Leaves  []string         `json:"leaves"`
	Error   string           `json:"error,omitempty"`
}

// FieldsOutput is the JSON output of the fields command.
type FieldsOutput struct {
	ModelID string               `json:"model_id"`
	Topic   string               `json:"topic"`
	Base    string               `json:"base"`
	Fields  []fields.FieldRecord `json:"fields"`
	Error   string               `json:"error,omitempty"`
}

// RelationshipsOutput is the JSON output of the relationships command.
type RelationshipsOutput struct {
	ModelID       string                   `json:"model_id"`
	Relationships []joingraph.Relationship `json:"relationships"`
}
