package commands

import (
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/omnicatalog/internal/cli/output"
	"github.com/leapstack-labs/omnicatalog/internal/omni"
)

// ModelsOptions holds options for the models command.
type ModelsOptions struct {
	Cursor string
}

// NewModelsCommand creates the models command.
func NewModelsCommand() *cobra.Command {
	opts := &ModelsOptions{}

	cmd := &cobra.Command{
		Use:   "models",
		Short: "List models",
		Long: `List the models available to the configured API key.

Only one page is fetched. Use --cursor to continue from the cursor a
previous listing printed.

Output adapts to environment:
  - Terminal: Styled table
  - Piped/Scripted: Markdown format (agent-friendly)`,
		Example: `  # List the first page of shared models
  omnicatalog models

  # List models, newest first
  omnicatalog models --sort-field updatedAt --sort-direction desc

  # Output as JSON
  omnicatalog models --output json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runModels(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Cursor, "cursor", "", "Continue listing from this cursor")

	return cmd
}

func runModels(cmd *cobra.Command, opts *ModelsOptions) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	r := cmdCtx.Renderer

	listOpts := cmdCtx.Cfg.ListOptions()
	listOpts.Cursor = opts.Cursor

	list, err := cmdCtx.Client.ListModels(cmd.Context(), listOpts)
	if err != nil {
		return err
	}
	out := output.ModelsOutput{Models: modelInfos(list.Records)}
	if list.PageInfo != nil && list.PageInfo.HasNextPage {
		out.HasNextPage, out.NextCursor = true, list.PageInfo.NextCursor
	}

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(out)
	case output.ModeMarkdown:
		return modelsMarkdown(r, out)
	default:
		return modelsText(r, out)
	}
}

func modelInfos(models []omni.Model) []output.ModelInfo {
	infos := make([]output.ModelInfo, len(models))
	for i, m := range models {
		infos[i] = output.ModelInfo{ID: m.ID, Name: m.Name, UpdatedAt: m.UpdatedAt}
	}
	return infos
}

func modelRows(models []output.ModelInfo) [][]string {
	rows := make([][]string, len(models))
	for i, m := range models {
		rows[i] = []string{m.Name, m.ID, m.UpdatedAt}
	}
	return rows
}

// modelsText outputs models as a styled table.
func modelsText(r *output.Renderer, out output.ModelsOutput) error {
	if len(out.Models) == 0 {
		r.Muted("No models found.")
		return nil
	}
	r.Header(1, "Models")
	output.WriteTable(r.Writer(), []string{"Name", "ID", "Updated"}, modelRows(out.Models))
	if out.HasNextPage {
		r.Muted("More models available: --cursor " + out.NextCursor)
	}
	return nil
}

// modelsMarkdown outputs models as a markdown table.
func modelsMarkdown(r *output.Renderer, out output.ModelsOutput) error {
	r.Println(output.FormatHeader(1, "Models"))
	r.Println("")
	if len(out.Models) == 0 {
		r.Println("No models found.")
		return nil
	}
	output.WriteMarkdownTable(r.Writer(), []string{"Name", "ID", "Updated"}, modelRows(out.Models))
	if out.HasNextPage {
		r.Println("")
		r.Println(output.FormatKeyValue("Next cursor", out.NextCursor))
	}
	return nil
}
