// Package graph serves topic join graphs as JSON for client-side rendering.
package graph

// GraphData is one topic's join graph.
type GraphData struct {
	ModelID string      `json:"model_id"`
	Topic   string      `json:"topic"`
	Base    string      `json:"base"`
	Nodes   []GraphNode `json:"nodes"`
	Edges   []GraphEdge `json:"edges"`
	Error   string      `json:"error,omitempty"`
}

// GraphNode is a table in the join tree.
type GraphNode struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Depth int    `json:"depth"`
	Class string `json:"class"`
}

// GraphEdge joins Target under Source.
type GraphEdge struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

type errorResponse struct {
	Error string `json:"error"`
}
