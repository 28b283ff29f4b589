package commands

import (
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/omnicatalog/internal/tui"
)

// NewBrowseCommand creates the browse command.
func NewBrowseCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "browse [model]",
		Short: "Browse models in the terminal",
		Long: `Open an interactive terminal browser.

Pick a model, then one of its files. Topics show their join tree and
fields; other files show their YAML. Press esc to go back and q to quit.`,
		Example: `  # Start at the model list
  omnicatalog browse

  # Start at the files of one model
  omnicatalog browse Shop`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeModels,
		RunE: func(cmd *cobra.Command, args []string) error {
			ref := ""
			if len(args) == 1 {
				ref = args[0]
			}
			return runBrowse(cmd, ref)
		},
	}
	return cmd
}

func runBrowse(cmd *cobra.Command, ref string) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	cfg := tui.Config{
		Models:      cmdCtx.Client,
		ListOptions: cmdCtx.Cfg.ListOptions(),
		Catalog:     cmdCtx.Catalog,
		Logger:      cmdCtx.Logger,
	}
	if ref != "" {
		model, err := cmdCtx.Client.ResolveModel(cmd.Context(), ref, cfg.ListOptions)
		if err != nil {
			return err
		}
		cfg.ModelID = model.ID
	}

	return tui.Run(cmd.Context(), cfg)
}
