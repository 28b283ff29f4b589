// Package home provides the landing page: the list of models to pick from.
package home

import "github.com/leapstack-labs/omnicatalog/internal/omni"

// ModelsPage is what the landing page shows.
type ModelsPage struct {
	Models      []omni.Model
	Current     string
	HasNextPage bool
	Err         error
}
