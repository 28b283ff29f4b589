package graph

import (
	"github.com/go-chi/chi/v5"

	"github.com/leapstack-labs/omnicatalog/internal/ui/features/common"
)

// SetupRoutes configures routes for the graph feature.
func SetupRoutes(router chi.Router, deps *common.Deps) error {
	handlers := NewHandlers(deps)

	router.Get("/models/{id}/graph/*", handlers.TopicGraph)

	return nil
}
