package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/leapstack-labs/omnicatalog/internal/catalog"
	"github.com/leapstack-labs/omnicatalog/internal/cli/output"
	"github.com/leapstack-labs/omnicatalog/internal/joingraph"
)

// styles used by the content pane.
type styles struct {
	title  lipgloss.Style
	muted  lipgloss.Style
	errMsg lipgloss.Style
	status lipgloss.Style
	depth  [joingraph.MaxStyleDepth + 1]lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		muted:  lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		errMsg: lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		status: lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Padding(0, 1),
		depth: [...]lipgloss.Style{
			lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
			lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
			lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
			lipgloss.NewStyle().Foreground(lipgloss.Color("13")),
		},
	}
}

// renderFile shows a file's YAML, with the decode error first when the
// content does not decode.
func renderFile(s styles, file *catalog.FileView) string {
	var b strings.Builder
	b.WriteString(s.title.Render(file.Key))
	b.WriteString("\n\n")
	if file.DecodeErr != nil {
		b.WriteString(s.errMsg.Render(file.DecodeErr.Error()))
		b.WriteString("\n\n")
	}
	b.WriteString(strings.TrimRight(file.Content, "\n"))
	b.WriteString("\n")
	return b.String()
}

// renderTopic shows the join tree and the field table of a topic.
func renderTopic(s styles, view *catalog.TopicView) string {
	var b strings.Builder
	b.WriteString(s.title.Render(view.Key))
	b.WriteString("\n")
	b.WriteString(s.muted.Render("base table: " + view.Base))
	b.WriteString("\n\n")
	if view.Err != nil {
		b.WriteString(s.errMsg.Render(view.Err.Error()))
		b.WriteString("\n\n")
	}

	if view.Graph != nil {
		for _, n := range view.Graph.Nodes() {
			prefix := ""
			if n.Depth > 0 {
				prefix = strings.Repeat("  ", n.Depth-1) + "└─ "
			}
			b.WriteString(s.muted.Render(prefix))
			b.WriteString(s.depth[joingraph.StyleDepth(n.Depth)].Render(n.Name))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if len(view.Fields) == 0 {
		b.WriteString(s.muted.Render("No fields found."))
		b.WriteString("\n")
		return b.String()
	}

	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Table", "Field", "Kind", "SQL", "Description"})
	for _, f := range view.Fields {
		t.AppendRow(table.Row{f.SourceTable, f.Name, string(f.Kind), output.TruncateOneLine(f.SQL, 60), output.TruncateOneLine(f.Description, 60)})
	}
	b.WriteString(t.Render())
	b.WriteString("\n")
	b.WriteString(s.muted.Render(fmt.Sprintf("%d fields", len(view.Fields))))
	b.WriteString("\n")
	return b.String()
}
