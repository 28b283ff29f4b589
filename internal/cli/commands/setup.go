package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/omnicatalog/internal/catalog"
	"github.com/leapstack-labs/omnicatalog/internal/cli/config"
	"github.com/leapstack-labs/omnicatalog/internal/cli/output"
	"github.com/leapstack-labs/omnicatalog/internal/omni"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
	Client   *omni.Client
	Catalog  *catalog.Service
}

// NewCommandContext creates a CommandContext with an API client.
// Missing credentials are fatal here, before any request is made.
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	cfg, err := getConfig()
	if err != nil {
		return nil, err
	}
	if err := cfg.RequireAPI(); err != nil {
		return nil, err
	}
	logger := config.GetLogger(cmd.Context())

	clientCfg := cfg.ClientConfig()
	clientCfg.Logger = logger
	client, err := omni.New(clientCfg)
	if err != nil {
		return nil, err
	}

	opts, err := cfg.CatalogOptions()
	if err != nil {
		return nil, err
	}

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat)),
		Client:   client,
		Catalog:  catalog.NewService(client, opts, logger),
	}, nil
}

// OpenModel resolves ref (a model name or id) and loads its bundle into a
// new session.
func (c *CommandContext) OpenModel(ctx context.Context, ref string) (*catalog.Session, omni.Model, error) {
	model, err := c.Client.ResolveModel(ctx, ref, c.Cfg.ListOptions())
	if err != nil {
		return nil, omni.Model{}, fmt.Errorf("failed to list models: %w", err)
	}
	c.Logger.Debug("resolved model", "ref", ref, "id", model.ID, "name", model.Name)

	sess, err := c.Catalog.Open(ctx, model.ID)
	if err != nil {
		var apiErr *omni.APIError
		if model.ID == ref && errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			return nil, model, fmt.Errorf("%w\nHint: no model named %q among the first %d models; raise --page-size or pass the model id",
				err, ref, c.Cfg.Models.PageSize)
		}
		return nil, model, err
	}
	return sess, model, nil
}

// getConfig returns the configuration loaded by the root command, loading
// it from the environment when a command runs on its own.
func getConfig() (*config.Config, error) {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg, nil
	}
	return config.LoadConfig("", nil)
}

// completeModels offers model names for the first positional argument.
func completeModels(cmd *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	list, err := cmdCtx.Client.ListModels(cmd.Context(), cmdCtx.Cfg.ListOptions())
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	names := make([]string, 0, len(list.Records))
	for _, m := range list.Records {
		names = append(names, m.Name)
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}

// modelLabel names a model for headings.
func modelLabel(m omni.Model) string {
	if m.Name == "" || m.Name == m.ID {
		return m.ID
	}
	return m.Name
}
