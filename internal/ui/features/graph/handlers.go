package graph

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/leapstack-labs/omnicatalog/internal/catalog"
	"github.com/leapstack-labs/omnicatalog/internal/joingraph"
	"github.com/leapstack-labs/omnicatalog/internal/ui/features/common"
)

// Handlers provides HTTP handlers for the graph feature.
type Handlers struct {
	deps *common.Deps
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(deps *common.Deps) *Handlers {
	return &Handlers{deps: deps}
}

// TopicGraph returns a topic's join graph. A topic whose graph cannot be
// built still answers 200 with the error field set.
func (h *Handlers) TopicGraph(w http.ResponseWriter, r *http.Request) {
	id, key := common.ModelParam(r), common.WildcardKey(r)
	sid, sess, err := h.deps.Session(w, r)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	if err := h.deps.Ensure(r.Context(), sid, sess, id); err != nil {
		writeJSON(w, common.ErrorStatus(err), errorResponse{Error: err.Error()})
		return
	}

	view, err := sess.Topic(key)
	if err != nil {
		writeJSON(w, common.ErrorStatus(err), errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, buildGraphData(id, view))
}

// buildGraphData converts a topic view for the client.
func buildGraphData(modelID string, view *catalog.TopicView) GraphData {
	data := GraphData{
		ModelID: modelID,
		Topic:   view.Key,
		Base:    view.Base,
		Nodes:   []GraphNode{},
		Edges:   []GraphEdge{},
	}
	if view.Err != nil {
		data.Error = view.Err.Error()
	}
	if view.Graph == nil {
		return data
	}

	for _, n := range view.Graph.Nodes() {
		data.Nodes = append(data.Nodes, GraphNode{
			ID:    n.Name,
			Label: n.Name,
			Depth: n.Depth,
			Class: nodeClass(n.Depth),
		})
	}
	for _, e := range view.Graph.Edges() {
		data.Edges = append(data.Edges, GraphEdge{Source: e.Parent, Target: e.Child})
	}
	return data
}

// nodeClass returns the CSS class for a node at depth.
func nodeClass(depth int) string {
	return fmt.Sprintf("depth-%d", joingraph.StyleDepth(depth))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
