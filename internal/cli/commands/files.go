package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/omnicatalog/internal/catalog"
	"github.com/leapstack-labs/omnicatalog/internal/cli/output"
)

// NewFilesCommand creates the files command.
func NewFilesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "files <model>",
		Short: "List the files of a model",
		Long: `List every file in a model's bundle, grouped by kind: the model file,
the relationship file, topics and views.

<model> is a model name or id. Names are looked up in the first page
of the model listing only; raise --page-size to reach later models.`,
		Example: `  # List files of the "Shop" model
  omnicatalog files Shop

  # Output as JSON
  omnicatalog files 7c9e6679-7425-40de-944b-e07fc1f90ae7 -o json`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeModels,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFiles(cmd, args[0])
		},
	}
	return cmd
}

func runFiles(cmd *cobra.Command, ref string) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	sess, model, err := cmdCtx.OpenModel(cmd.Context(), ref)
	if err != nil {
		return err
	}
	files, err := sess.Files()
	if err != nil {
		return err
	}

	r := cmdCtx.Renderer
	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(output.FilesOutput{
			ModelID:      model.ID,
			Files:        files.Keys,
			Topics:       nonNil(files.Topics),
			Views:        nonNil(files.Views),
			Model:        files.Model,
			Relationship: files.Relationship,
		})
	case output.ModeMarkdown:
		return filesMarkdown(r, modelLabel(model), files)
	default:
		return filesText(r, modelLabel(model), files)
	}
}

func filesText(r *output.Renderer, label string, files *catalog.FileList) error {
	styles := r.Styles()

	r.Header(1, fmt.Sprintf("%s (%d files)", label, len(files.Keys)))
	if files.HasModel() {
		r.Printf("%s %s\n", styles.Muted.Render("model:"), styles.FileKey.Render(files.Model))
	}
	if files.HasRelationship() {
		r.Printf("%s %s\n", styles.Muted.Render("relationships:"), styles.FileKey.Render(files.Relationship))
	}
	r.Println("")

	section := func(title string, keys []string) {
		if len(keys) == 0 {
			return
		}
		r.Header(2, fmt.Sprintf("%s (%d)", title, len(keys)))
		for _, k := range keys {
			r.Printf("  %s\n", styles.FileKey.Render(k))
		}
		r.Println("")
	}
	section("Topics", files.Topics)
	section("Views", files.Views)
	section("Other", files.Other())
	return nil
}

func filesMarkdown(r *output.Renderer, label string, files *catalog.FileList) error {
	r.Println(output.FormatHeader(1, label))
	r.Println("")
	r.Println(output.FormatKeyValue("Files", fmt.Sprintf("%d", len(files.Keys))))
	if files.HasModel() {
		r.Println(output.FormatKeyValue("Model file", output.FormatInlineCode(files.Model)))
	}
	if files.HasRelationship() {
		r.Println(output.FormatKeyValue("Relationship file", output.FormatInlineCode(files.Relationship)))
	}
	r.Println("")

	section := func(title string, keys []string) {
		if len(keys) == 0 {
			return
		}
		r.Println(output.FormatHeader(2, title))
		for _, k := range keys {
			r.Printf("- %s\n", output.FormatInlineCode(k))
		}
		r.Println("")
	}
	section("Topics", files.Topics)
	section("Views", files.Views)
	section("Other", files.Other())
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
