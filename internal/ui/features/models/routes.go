package models

import (
	"github.com/go-chi/chi/v5"

	"github.com/leapstack-labs/omnicatalog/internal/ui/features/common"
)

// SetupRoutes configures routes for the models feature.
func SetupRoutes(router chi.Router, deps *common.Deps) error {
	handlers := NewHandlers(deps)

	router.Get(modelPath, handlers.ModelPage)
	router.Get(filesPath, handlers.FileView)
	router.Get(topicsPath, handlers.TopicView)

	return nil
}
