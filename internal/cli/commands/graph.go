package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/omnicatalog/internal/catalog"
	"github.com/leapstack-labs/omnicatalog/internal/cli/output"
	"github.com/leapstack-labs/omnicatalog/internal/joingraph"
	"github.com/leapstack-labs/omnicatalog/internal/omni"
)

// NewGraphCommand creates the graph command.
func NewGraphCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graph <model> <topic>",
		Short: "Show the join graph of a topic",
		Long: `Display the join tree of a topic, starting at its base table.

<topic> is a topic file key ("orders.topic") or its name ("orders").
Tables are listed in join order, indented by depth.`,
		Example: `  # Show the join tree of the orders topic
  omnicatalog graph Shop orders

  # Output nodes and edges as JSON
  omnicatalog graph Shop orders.topic -o json`,
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: completeModels,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGraph(cmd, args[0], args[1])
		},
	}
	return cmd
}

// openTopic loads the model and builds the view of one of its topics.
func openTopic(cmd *cobra.Command, cmdCtx *CommandContext, ref, topicRef string) (*catalog.TopicView, omni.Model, error) {
	sess, model, err := cmdCtx.OpenModel(cmd.Context(), ref)
	if err != nil {
		return nil, model, err
	}
	key, err := sess.TopicKey(topicRef)
	if err != nil {
		return nil, model, err
	}
	view, err := sess.Topic(key)
	if err != nil {
		return nil, model, err
	}
	return view, model, nil
}

func runGraph(cmd *cobra.Command, ref, topicRef string) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	view, model, err := openTopic(cmd, cmdCtx, ref, topicRef)
	if err != nil {
		return err
	}
	if view.Graph == nil {
		return fmt.Errorf("topic %s: %w", view.Key, view.Err)
	}

	r := cmdCtx.Renderer
	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(output.GraphOutput{
			ModelID: model.ID,
			Topic:   view.Key,
			Base:    view.Base,
			Nodes:   view.Graph.Nodes(),
			Edges:   view.Graph.Edges(),
			Levels:  view.Graph.Levels(),
			Leaves:  view.Graph.Leaves(),
		})
	case output.ModeMarkdown:
		return graphMarkdown(r, view)
	default:
		return graphText(r, view)
	}
}

// graphText outputs the join tree with depth-colored tables.
func graphText(r *output.Renderer, view *catalog.TopicView) error {
	styles := r.Styles()
	g := view.Graph

	r.Header(1, fmt.Sprintf("Join graph: %s", view.Key))
	for _, n := range g.Nodes() {
		prefix := ""
		if n.Depth > 0 {
			prefix = strings.Repeat("  ", n.Depth-1) + "└─ "
		}
		r.Printf("%s%s\n", styles.Muted.Render(prefix), styles.ForDepth(n.Depth).Render(n.Name))
	}
	r.Println("")
	r.Muted(summary(g))
	return nil
}

// graphMarkdown outputs the join tree as a nested list.
func graphMarkdown(r *output.Renderer, view *catalog.TopicView) error {
	g := view.Graph

	r.Println(output.FormatHeader(1, "Join graph: "+view.Key))
	r.Println("")
	for _, n := range g.Nodes() {
		r.Printf("%s- %s\n", strings.Repeat("  ", n.Depth), n.Name)
	}
	r.Println("")
	r.Println(output.FormatHeader(2, "Summary"))
	r.Println(output.FormatKeyValue("Base", view.Base))
	r.Println(output.FormatKeyValue("Tables", fmt.Sprintf("%d", g.NodeCount())))
	r.Println(output.FormatKeyValue("Joins", fmt.Sprintf("%d", g.EdgeCount())))
	r.Println(output.FormatKeyValue("Max depth", fmt.Sprintf("%d", g.MaxDepth())))
	r.Println(output.FormatKeyValue("Leaf tables", strings.Join(g.Leaves(), ", ")))
	for depth, names := range g.Levels() {
		r.Println(output.FormatKeyValue(fmt.Sprintf("Depth %d", depth), strings.Join(names, ", ")))
	}
	return nil
}

func summary(g *joingraph.Graph) string {
	return fmt.Sprintf("Total: %d tables, %d joins, depth %d", g.NodeCount(), g.EdgeCount(), g.MaxDepth())
}
