package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/omnicatalog/internal/catalog"
	"github.com/leapstack-labs/omnicatalog/internal/cli/output"
	"github.com/leapstack-labs/omnicatalog/internal/fields"
)

// FieldsOptions holds options for the fields command.
type FieldsOptions struct {
	Kind        string
	Definitions bool
}

// NewFieldsCommand creates the fields command.
func NewFieldsCommand() *cobra.Command {
	opts := &FieldsOptions{}

	cmd := &cobra.Command{
		Use:   "fields <model> <topic>",
		Short: "List every field reachable from a topic",
		Long: `List the dimensions and measures of a topic's base table and of every
table joined under it, in join order.

Joined tables without a view file are skipped. Set
resolver.mark_unresolved (or --mark-unresolved) to list them as
"unresolved" entries instead.`,
		Example: `  # List all fields of the orders topic
  omnicatalog fields Shop orders

  # Only measures, with their full definitions
  omnicatalog fields Shop orders --kind measure --definitions

  # Output as JSON
  omnicatalog fields Shop orders -o json`,
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: completeModels,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFields(cmd, args[0], args[1], opts)
		},
	}

	cmd.Flags().StringVar(&opts.Kind, "kind", "", "Only list fields of this kind (dimension|measure|unresolved)")
	cmd.Flags().BoolVar(&opts.Definitions, "definitions", false, "Include each field's full YAML definition")
	_ = cmd.RegisterFlagCompletionFunc("kind", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{string(fields.KindDimension), string(fields.KindMeasure), string(fields.KindUnresolved)}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func runFields(cmd *cobra.Command, ref, topicRef string, opts *FieldsOptions) error {
	switch fields.Kind(opts.Kind) {
	case "", fields.KindDimension, fields.KindMeasure, fields.KindUnresolved:
	default:
		return fmt.Errorf("invalid --kind %q (want dimension, measure or unresolved)", opts.Kind)
	}

	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	view, model, err := openTopic(cmd, cmdCtx, ref, topicRef)
	if err != nil {
		return err
	}

	records := filterKind(view.Fields, fields.Kind(opts.Kind))
	r := cmdCtx.Renderer

	switch r.EffectiveMode() {
	case output.ModeJSON:
		out := output.FieldsOutput{
			ModelID: model.ID,
			Topic:   view.Key,
			Base:    view.Base,
			Fields:  records,
		}
		if out.Fields == nil {
			out.Fields = []fields.FieldRecord{}
		}
		if view.Err != nil {
			out.Error = view.Err.Error()
		}
		return r.JSON(out)
	case output.ModeMarkdown:
		fieldsMarkdown(r, view, records, opts.Definitions)
	default:
		fieldsText(r, view, records, opts.Definitions)
	}
	return nil
}

func filterKind(records []fields.FieldRecord, kind fields.Kind) []fields.FieldRecord {
	if kind == "" {
		return records
	}
	var out []fields.FieldRecord
	for _, rec := range records {
		if rec.Kind == kind {
			out = append(out, rec)
		}
	}
	return out
}

func fieldRows(records []fields.FieldRecord, style func(fields.Kind, string) string) [][]string {
	rows := make([][]string, len(records))
	for i, rec := range records {
		rows[i] = []string{
			rec.SourceTable,
			rec.Name,
			style(rec.Kind, output.Title(string(rec.Kind))),
			output.TruncateOneLine(rec.SQL, 60),
			output.TruncateOneLine(rec.Description, 60),
		}
	}
	return rows
}

var fieldHeader = []string{"Table", "Field", "Kind", "SQL", "Description"}

// fieldsText outputs the field catalog as a styled table.
func fieldsText(r *output.Renderer, view *catalog.TopicView, records []fields.FieldRecord, defs bool) {
	styles := r.Styles()

	r.Header(1, fmt.Sprintf("Fields: %s (base %s)", view.Key, view.Base))
	if view.Err != nil {
		r.Warning(view.Err.Error())
	}
	if len(records) == 0 {
		r.Muted("No fields found.")
		return
	}

	kindStyle := func(k fields.Kind, s string) string {
		switch k {
		case fields.KindDimension:
			return styles.Dimension.Render(s)
		case fields.KindMeasure:
			return styles.Measure.Render(s)
		default:
			return styles.Unresolved.Render(s)
		}
	}
	output.WriteTable(r.Writer(), fieldHeader, fieldRows(records, kindStyle))

	if defs {
		for _, rec := range records {
			if rec.FullDefinition == "" {
				continue
			}
			r.Println("")
			r.Header(2, rec.SourceTable+"."+rec.Name)
			r.Println(styles.Code.Render(rec.FullDefinition))
		}
	}
	r.Muted(fmt.Sprintf("Total: %d fields", len(records)))
}

// fieldsMarkdown outputs the field catalog as a markdown table.
func fieldsMarkdown(r *output.Renderer, view *catalog.TopicView, records []fields.FieldRecord, defs bool) {
	r.Println(output.FormatHeader(1, "Fields: "+view.Key))
	r.Println("")
	r.Println(output.FormatKeyValue("Base", view.Base))
	r.Println(output.FormatKeyValue("Fields", fmt.Sprintf("%d", len(records))))
	if view.Err != nil {
		r.Println(output.FormatKeyValue("Error", view.Err.Error()))
	}
	r.Println("")
	if len(records) == 0 {
		return
	}

	plain := func(_ fields.Kind, s string) string { return s }
	output.WriteMarkdownTable(r.Writer(), fieldHeader, fieldRows(records, plain))

	if defs {
		for _, rec := range records {
			if rec.FullDefinition == "" {
				continue
			}
			r.Println("")
			r.Println(output.FormatHeader(2, rec.SourceTable+"."+rec.Name))
			r.Println(output.FormatCodeBlock("yaml", rec.FullDefinition))
		}
	}
}
