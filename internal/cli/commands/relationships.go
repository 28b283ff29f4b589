package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/omnicatalog/internal/cli/output"
	"github.com/leapstack-labs/omnicatalog/internal/joingraph"
)

// NewRelationshipsCommand creates the relationships command.
func NewRelationshipsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "relationships <model>",
		Short: "List the relationships declared by a model",
		Long: `List the joins declared in the model's relationship file.

A model without a relationship file lists nothing.`,
		Example: `  omnicatalog relationships Shop
  omnicatalog relationships Shop -o json`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeModels,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRelationships(cmd, args[0])
		},
	}
	return cmd
}

func runRelationships(cmd *cobra.Command, ref string) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	sess, model, err := cmdCtx.OpenModel(cmd.Context(), ref)
	if err != nil {
		return err
	}
	rels, err := sess.Relationships()
	if err != nil {
		return err
	}

	r := cmdCtx.Renderer
	header := []string{"From", "To", "Join type", "Relationship", "On"}
	rows := relationshipRows(rels)

	switch r.EffectiveMode() {
	case output.ModeJSON:
		if rels == nil {
			rels = []joingraph.Relationship{}
		}
		return r.JSON(output.RelationshipsOutput{ModelID: model.ID, Relationships: rels})
	case output.ModeMarkdown:
		r.Println(output.FormatHeader(1, fmt.Sprintf("Relationships: %s", modelLabel(model))))
		r.Println("")
		if len(rows) == 0 {
			r.Println("No relationships declared.")
			return nil
		}
		output.WriteMarkdownTable(r.Writer(), header, rows)
	default:
		r.Header(1, fmt.Sprintf("Relationships: %s", modelLabel(model)))
		if len(rows) == 0 {
			r.Muted("No relationships declared.")
			return nil
		}
		output.WriteTable(r.Writer(), header, rows)
	}
	return nil
}

func relationshipRows(rels []joingraph.Relationship) [][]string {
	rows := make([][]string, len(rels))
	for i, rel := range rels {
		rows[i] = []string{rel.From, rel.To, rel.JoinType, rel.RelationshipType, output.TruncateOneLine(rel.OnSQL, 60)}
	}
	return rows
}
