package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/leapstack-labs/omnicatalog/internal/omni"
	"github.com/leapstack-labs/omnicatalog/internal/resolver"
)

// ErrMissingAPIKey is returned when a command needs the API but no key is set.
var ErrMissingAPIKey = fmt.Errorf("%w\nHint: set OMNI_API_KEY or api_key in omnicatalog.yaml", omni.ErrMissingAPIKey)

// ErrMissingBaseURL is returned when a command needs the API but no base URL is set.
var ErrMissingBaseURL = fmt.Errorf("%w\nHint: set OMNI_BASE_URL or base_url in omnicatalog.yaml", omni.ErrMissingBaseURL)

var validOutputs = []string{"auto", "text", "markdown", "json"}

// Validate checks values that would otherwise fail later in confusing ways.
// Credentials are checked separately by RequireAPI.
func (c *Config) Validate() error {
	if !slices.Contains(validOutputs, c.OutputFormat) {
		return fmt.Errorf("invalid output format %q (want one of %s)", c.OutputFormat, strings.Join(validOutputs, ", "))
	}
	if c.Models.PageSize < 1 {
		return fmt.Errorf("models.page_size must be positive, got %d", c.Models.PageSize)
	}
	if d := strings.ToLower(c.Models.SortDirection); d != "asc" && d != "desc" {
		return fmt.Errorf("models.sort_direction must be asc or desc, got %q", c.Models.SortDirection)
	}
	if c.Resolver.MaxJoinDepth < 0 {
		return fmt.Errorf("resolver.max_join_depth must not be negative, got %d", c.Resolver.MaxJoinDepth)
	}
	if _, err := resolver.RulesByName(c.Resolver.Rules); err != nil {
		return fmt.Errorf("resolver.rules: %w", err)
	}
	if c.UI.Port < 0 || c.UI.Port > 65535 {
		return fmt.Errorf("ui.port out of range: %d", c.UI.Port)
	}
	return nil
}

// RequireAPI checks that the API credentials are present. Missing ones are
// fatal for every command that talks to Omni.
func (c *Config) RequireAPI() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return ErrMissingAPIKey
	}
	if strings.TrimSpace(c.BaseURL) == "" {
		return ErrMissingBaseURL
	}
	return nil
}

// ClientConfig returns the API client settings.
func (c *Config) ClientConfig() omni.Config {
	return omni.Config{
		BaseURL: c.BaseURL,
		APIKey:  c.APIKey,
	}
}
