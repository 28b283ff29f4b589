// Package router sets up HTTP routes for the UI server.
package router

import (
	"github.com/go-chi/chi/v5"

	"github.com/leapstack-labs/omnicatalog/internal/ui/features/common"
	graphFeature "github.com/leapstack-labs/omnicatalog/internal/ui/features/graph"
	homeFeature "github.com/leapstack-labs/omnicatalog/internal/ui/features/home"
	modelsFeature "github.com/leapstack-labs/omnicatalog/internal/ui/features/models"
	"github.com/leapstack-labs/omnicatalog/internal/ui/resources"
)

// SetupRoutes configures all routes for the UI server.
func SetupRoutes(router chi.Router, deps *common.Deps) error {
	router.Handle("/static/*", resources.Handler())

	if err := homeFeature.SetupRoutes(router, deps); err != nil {
		return err
	}

	if err := modelsFeature.SetupRoutes(router, deps); err != nil {
		return err
	}

	if err := graphFeature.SetupRoutes(router, deps); err != nil {
		return err
	}

	return nil
}
