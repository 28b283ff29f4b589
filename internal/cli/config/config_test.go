package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/omnicatalog/internal/omni"
	"github.com/leapstack-labs/omnicatalog/internal/resolver"
	"github.com/leapstack-labs/omnicatalog/internal/testutil"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "omnicatalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func newFlags() *pflag.FlagSet {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("api-key", "", "")
	flags.String("base-url", "", "")
	flags.StringP("output", "o", "", "")
	flags.BoolP("verbose", "v", false, "")
	flags.Int("page-size", 0, "")
	flags.String("default-schema", "", "")
	flags.Bool("mark-unresolved", false, "")
	flags.Int("port", 0, "")
	flags.Bool("no-open", false, "")
	return flags
}

// TestLoadConfig_Defaults tests the values used when nothing is configured.
func TestLoadConfig_Defaults(t *testing.T) {
	ResetConfig()
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Empty(t, GetConfigFileUsed())
	assert.Equal(t, "auto", cfg.OutputFormat)
	assert.Equal(t, "SHARED", cfg.Models.ModelKind)
	assert.Equal(t, "name", cfg.Models.SortField)
	assert.Equal(t, "asc", cfg.Models.SortDirection)
	assert.Equal(t, 10, cfg.Models.PageSize)
	assert.Equal(t, "PUBLIC", cfg.Resolver.DefaultSchema)
	assert.Equal(t, 64, cfg.Resolver.MaxJoinDepth)
	assert.False(t, cfg.Resolver.MarkUnresolved)
	assert.Equal(t, DefaultUIPort, cfg.UI.Port)
	assert.True(t, cfg.UI.AutoOpen)
	assert.Same(t, cfg, GetCurrentConfig())
}

// TestLoadConfig_File tests nested keys read from the YAML file.
func TestLoadConfig_File(t *testing.T) {
	ResetConfig()
	path := writeConfig(t, `
api_key: file-key
base_url: https://acme.omniapp.co
models:
  page_size: 25
  sort_direction: desc
resolver:
  default_schema: ANALYTICS
  mark_unresolved: true
  rules: [view, query]
ui:
  port: 9000
  auto_open: false
`)

	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)

	assert.Equal(t, path, GetConfigFileUsed())
	assert.Equal(t, "file-key", cfg.APIKey)
	assert.Equal(t, "https://acme.omniapp.co", cfg.BaseURL)
	assert.Equal(t, 25, cfg.Models.PageSize)
	assert.Equal(t, "desc", cfg.Models.SortDirection)
	assert.Equal(t, "SHARED", cfg.Models.ModelKind, "unset nested keys keep defaults")
	assert.Equal(t, "ANALYTICS", cfg.Resolver.DefaultSchema)
	assert.True(t, cfg.Resolver.MarkUnresolved)
	assert.Equal(t, []string{"view", "query"}, cfg.Resolver.Rules)
	assert.Equal(t, 9000, cfg.UI.Port)
	assert.False(t, cfg.UI.AutoOpen)
}

// TestLoadConfig_FindsFileInParentDirectory tests the upward search.
func TestLoadConfig_FindsFileInParentDirectory(t *testing.T) {
	ResetConfig()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "omnicatalog.yml"), []byte("api_key: parent\n"), 0600))
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0750))
	t.Chdir(nested)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)
	assert.Equal(t, "parent", cfg.APIKey)
	assert.Equal(t, "omnicatalog.yml", filepath.Base(GetConfigFileUsed()))
}

// TestLoadConfig_MissingExplicitFile tests that an explicit path must exist.
func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	ResetConfig()

	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

// TestLoadConfig_EnvPrecedenceOverFile tests that env vars override the config file.
func TestLoadConfig_EnvPrecedenceOverFile(t *testing.T) {
	ResetConfig()
	path := writeConfig(t, "api_key: from_file\nresolver:\n  default_schema: FILE\n")

	t.Setenv("OMNI_API_KEY", "from_env")
	t.Setenv("OMNI_RESOLVER__DEFAULT_SCHEMA", "ENV")
	t.Setenv("OMNI_RESOLVER__RULES", "query,view")

	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)

	assert.Equal(t, "from_env", cfg.APIKey, "env var should override config file")
	assert.Equal(t, "ENV", cfg.Resolver.DefaultSchema)
	assert.Equal(t, []string{"query", "view"}, cfg.Resolver.Rules)
}

// TestLoadConfig_FlagPrecedence tests that flags override env vars and config file.
func TestLoadConfig_FlagPrecedence(t *testing.T) {
	ResetConfig()
	path := writeConfig(t, "api_key: from_file\nmodels:\n  page_size: 20\n")
	t.Setenv("OMNI_API_KEY", "from_env")
	t.Setenv("OMNI_MODELS__PAGE_SIZE", "30")

	flags := newFlags()
	require.NoError(t, flags.Set("api-key", "from_flag"))
	require.NoError(t, flags.Set("page-size", "40"))
	require.NoError(t, flags.Set("default-schema", "FLAG"))
	require.NoError(t, flags.Set("port", "9999"))
	require.NoError(t, flags.Set("no-open", "true"))

	cfg, err := LoadConfig(path, flags)
	require.NoError(t, err)

	assert.Equal(t, "from_flag", cfg.APIKey, "flag value should override config file and env var")
	assert.Equal(t, 40, cfg.Models.PageSize)
	assert.Equal(t, "FLAG", cfg.Resolver.DefaultSchema)
	assert.Equal(t, 9999, cfg.UI.Port)
	assert.False(t, cfg.UI.AutoOpen)
}

// TestLoadConfig_FlagNotSetUsesEnv tests that unset flags fall back to env vars.
func TestLoadConfig_FlagNotSetUsesEnv(t *testing.T) {
	ResetConfig()
	path := writeConfig(t, "api_key: from_file\n")
	t.Setenv("OMNI_API_KEY", "from_env")

	cfg, err := LoadConfig(path, newFlags())
	require.NoError(t, err)

	assert.Equal(t, "from_env", cfg.APIKey, "env var should be used when flag is not set")
	assert.True(t, cfg.UI.AutoOpen)
}

// TestLoadConfig_ExpandsSecrets tests ${VAR} references in credentials.
func TestLoadConfig_ExpandsSecrets(t *testing.T) {
	ResetConfig()
	t.Setenv("ACME_OMNI_TOKEN", "expanded")
	path := writeConfig(t, "api_key: ${ACME_OMNI_TOKEN}\nbase_url: https://${UNSET_HOST_VAR}\n")

	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "expanded", cfg.APIKey)
	assert.Equal(t, "https://${UNSET_HOST_VAR}", cfg.BaseURL)
}

// TestLoadConfig_Invalid tests that Validate runs as part of loading.
func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		errSubstr string
	}{
		{"bad output", "output: yaml\n", "invalid output format"},
		{"zero page size", "models:\n  page_size: 0\n", "page_size must be positive"},
		{"bad sort direction", "models:\n  sort_direction: up\n", "sort_direction"},
		{"negative depth", "resolver:\n  max_join_depth: -1\n", "max_join_depth"},
		{"unknown rule", "resolver:\n  rules: [view, guess]\n", "unknown resolver rule"},
		{"port out of range", "ui:\n  port: 70000\n", "ui.port"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ResetConfig()
			_, err := LoadConfig(writeConfig(t, tt.content), nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSubstr)
		})
	}
}

// TestConfig_RequireAPI tests the credential check.
func TestConfig_RequireAPI(t *testing.T) {
	cfg := &Config{}
	err := cfg.RequireAPI()
	assert.ErrorIs(t, err, ErrMissingAPIKey)
	assert.True(t, errors.Is(err, omni.ErrMissingAPIKey))
	assert.Contains(t, err.Error(), "OMNI_API_KEY")

	cfg.APIKey = "key"
	assert.ErrorIs(t, cfg.RequireAPI(), omni.ErrMissingBaseURL)

	cfg.BaseURL = "https://acme.omniapp.co"
	assert.NoError(t, cfg.RequireAPI())
}

// TestConfig_CatalogOptions tests the conversion to session options.
func TestConfig_CatalogOptions(t *testing.T) {
	cfg := &Config{Resolver: ResolverConfig{
		DefaultSchema:  "X",
		MaxJoinDepth:   5,
		MarkUnresolved: true,
		Rules:          []string{resolver.RuleQuery},
	}}

	opts, err := cfg.CatalogOptions()
	require.NoError(t, err)
	assert.Equal(t, "X", opts.DefaultSchema)
	assert.Equal(t, 5, opts.MaxJoinDepth)
	assert.True(t, opts.MarkUnresolved)
	require.Len(t, opts.Rules, 1)
	assert.Equal(t, resolver.RuleQuery, opts.Rules[0].Name)

	cfg.Resolver.Rules = nil
	opts, err = cfg.CatalogOptions()
	require.NoError(t, err)
	assert.Nil(t, opts.Rules)

	cfg.Resolver.Rules = []string{"nope"}
	_, err = cfg.CatalogOptions()
	assert.Error(t, err)
}

// TestConfig_ListOptions tests the conversion to the listing query.
func TestConfig_ListOptions(t *testing.T) {
	cfg := &Config{Models: ModelsConfig{ModelKind: "ALL", SortField: "name", SortDirection: "desc", PageSize: 3}}
	assert.Equal(t, omni.ListOptions{ModelKind: "ALL", SortField: "name", SortDirection: "desc", PageSize: 3}, cfg.ListOptions())
}

// TestExpandEnvVars tests ${VAR} expansion.
func TestExpandEnvVars(t *testing.T) {
	t.Setenv("TEST_VAR_ONE", "value_one")
	t.Setenv("TEST_VAR_TWO", "value_two")

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"single variable", "${TEST_VAR_ONE}", "value_one"},
		{"multiple variables", "${TEST_VAR_ONE}/${TEST_VAR_TWO}", "value_one/value_two"},
		{"unset variable stays as-is", "${UNSET_VARIABLE}", "${UNSET_VARIABLE}"},
		{"no variables", "plain string", "plain string"},
		{"empty string", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, expandEnvVars(tt.input))
		})
	}
}

// TestEnvKey tests the environment variable to config key transform.
func TestEnvKey(t *testing.T) {
	assert.Equal(t, "api_key", envKey("OMNI_API_KEY"))
	assert.Equal(t, "base_url", envKey("OMNI_BASE_URL"))
	assert.Equal(t, "resolver.max_join_depth", envKey("OMNI_RESOLVER__MAX_JOIN_DEPTH"))
}

// TestGetLogger tests the context logger lookup.
func TestGetLogger(t *testing.T) {
	assert.NotNil(t, GetLogger(context.Background()))

	logger := testutil.NewTestLogger(t)
	ctx := context.WithValue(context.Background(), LoggerKey(), logger)
	assert.Same(t, logger, GetLogger(ctx))
}
