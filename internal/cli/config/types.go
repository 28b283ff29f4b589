// Package config provides configuration management for the omnicatalog CLI.
package config

import (
	"github.com/leapstack-labs/omnicatalog/internal/catalog"
	"github.com/leapstack-labs/omnicatalog/internal/joingraph"
	"github.com/leapstack-labs/omnicatalog/internal/omni"
	"github.com/leapstack-labs/omnicatalog/internal/resolver"
)

// Default configuration values.
const (
	DefaultOutput = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultUIPort = 8765
	EnvPrefix     = "OMNI_"
)

// Config holds all CLI configuration options.
type Config struct {
	APIKey       string         `koanf:"api_key"`
	BaseURL      string         `koanf:"base_url"`
	Verbose      bool           `koanf:"verbose"`
	OutputFormat string         `koanf:"output"`
	Models       ModelsConfig   `koanf:"models"`
	Resolver     ResolverConfig `koanf:"resolver"`
	UI           UIConfig       `koanf:"ui"`
}

// ModelsConfig holds the model listing query.
type ModelsConfig struct {
	ModelKind     string `koanf:"model_kind"`
	SortField     string `koanf:"sort_field"`
	SortDirection string `koanf:"sort_direction"`
	PageSize      int    `koanf:"page_size"`
}

// ResolverConfig controls view resolution and field collection.
type ResolverConfig struct {
	DefaultSchema  string   `koanf:"default_schema"`
	MaxJoinDepth   int      `koanf:"max_join_depth"`
	MarkUnresolved bool     `koanf:"mark_unresolved"`
	Rules          []string `koanf:"rules"`
}

// UIConfig holds configuration for the UI server.
type UIConfig struct {
	Port          int    `koanf:"port"`
	AutoOpen      bool   `koanf:"auto_open"`
	SessionSecret string `koanf:"session_secret"`
}

// defaults is the lowest configuration layer.
func defaults() map[string]interface{} {
	return map[string]interface{}{
		"verbose":                  false,
		"output":                   DefaultOutput,
		"models.model_kind":        omni.DefaultModelKind,
		"models.sort_field":        omni.DefaultSortField,
		"models.sort_direction":    omni.DefaultSortDirection,
		"models.page_size":         omni.DefaultPageSize,
		"resolver.default_schema":  resolver.DefaultSchema,
		"resolver.max_join_depth":  joingraph.DefaultMaxDepth,
		"resolver.mark_unresolved": false,
		"ui.port":                  DefaultUIPort,
		"ui.auto_open":             true,
	}
}

// ListOptions returns the configured model listing query.
func (c *Config) ListOptions() omni.ListOptions {
	return omni.ListOptions{
		ModelKind:     c.Models.ModelKind,
		SortField:     c.Models.SortField,
		SortDirection: c.Models.SortDirection,
		PageSize:      c.Models.PageSize,
	}
}

// CatalogOptions returns the analysis options for catalog sessions.
func (c *Config) CatalogOptions() (catalog.Options, error) {
	var rules []resolver.Rule
	if len(c.Resolver.Rules) > 0 {
		var err error
		rules, err = resolver.RulesByName(c.Resolver.Rules)
		if err != nil {
			return catalog.Options{}, err
		}
	}
	return catalog.Options{
		DefaultSchema:  c.Resolver.DefaultSchema,
		Rules:          rules,
		MaxJoinDepth:   c.Resolver.MaxJoinDepth,
		MarkUnresolved: c.Resolver.MarkUnresolved,
	}, nil
}
