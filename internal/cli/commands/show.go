package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/omnicatalog/internal/catalog"
	"github.com/leapstack-labs/omnicatalog/internal/cli/output"
)

// NewShowCommand creates the show command.
func NewShowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <model> <file>",
		Short: "Show the content of a model file",
		Long: `Print one file of a model's bundle as YAML.

A file that is not valid YAML is still printed as is, followed by the
decode error.`,
		Example: `  # Show the model file
  omnicatalog show Shop model

  # Show a schema-qualified view
  omnicatalog show Shop PUBLIC/orders.view

  # Decoded content as JSON
  omnicatalog show Shop orders.topic -o json`,
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: completeModels,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(cmd, args[0], args[1])
		},
	}
	return cmd
}

func runShow(cmd *cobra.Command, ref, key string) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	sess, _, err := cmdCtx.OpenModel(cmd.Context(), ref)
	if err != nil {
		return err
	}
	file, err := sess.File(key)
	if err != nil {
		return err
	}

	r := cmdCtx.Renderer
	switch r.EffectiveMode() {
	case output.ModeJSON:
		return showJSON(r, file)
	case output.ModeMarkdown:
		r.Println(output.FormatHeader(1, file.Key))
		r.Println("")
		r.Println(output.FormatCodeBlock("yaml", file.Content))
		if file.DecodeErr != nil {
			r.Println("")
			r.Println(output.FormatKeyValue("Decode error", file.DecodeErr.Error()))
		}
		return nil
	default:
		r.Header(1, file.Key)
		r.Println(strings.TrimRight(file.Content, "\n"))
		if file.DecodeErr != nil {
			r.Warning(fmt.Sprintf("%s is not valid YAML: %v", file.Key, file.DecodeErr))
		}
		return nil
	}
}

func showJSON(r *output.Renderer, file *catalog.FileView) error {
	out := output.FileOutput{Key: file.Key, Content: file.Content}
	if file.DecodeErr != nil {
		out.DecodeError = file.DecodeErr.Error()
		return r.JSON(out)
	}
	decoded, err := file.Doc.Interface()
	if err != nil {
		out.DecodeError = err.Error()
	}
	out.Decoded = decoded
	return r.JSON(out)
}
