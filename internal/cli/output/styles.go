package output

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/leapstack-labs/omnicatalog/internal/joingraph"
)

// Styles are the lipgloss styles used across commands.
type Styles struct {
	Header1 lipgloss.Style
	Header2 lipgloss.Style
	Bold    lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style

	ModelName lipgloss.Style
	FileKey   lipgloss.Style
	Code      lipgloss.Style

	Dimension  lipgloss.Style
	Measure    lipgloss.Style
	Unresolved lipgloss.Style

	StatusSuccess lipgloss.Style
	StatusFailed  lipgloss.Style

	// Depth styles join graph nodes; index with joingraph.StyleDepth.
	Depth [joingraph.MaxStyleDepth + 1]lipgloss.Style
}

// NewStyles builds styles for w. Without a terminal every style renders
// plain text.
func NewStyles(w io.Writer, isTTY bool) *Styles {
	re := lipgloss.NewRenderer(w)
	if !isTTY {
		re.SetColorProfile(termenv.Ascii)
	}

	s := &Styles{
		Header1: re.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		Header2: re.NewStyle().Bold(true).Foreground(lipgloss.Color("14")),
		Bold:    re.NewStyle().Bold(true),
		Muted:   re.NewStyle().Foreground(lipgloss.Color("8")),
		Success: re.NewStyle().Foreground(lipgloss.Color("10")),
		Error:   re.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Warning: re.NewStyle().Foreground(lipgloss.Color("11")),
		Info:    re.NewStyle().Foreground(lipgloss.Color("12")),

		ModelName: re.NewStyle().Bold(true).Foreground(lipgloss.Color("13")),
		FileKey:   re.NewStyle().Foreground(lipgloss.Color("14")),
		Code:      re.NewStyle().Foreground(lipgloss.Color("7")),

		Dimension:  re.NewStyle().Foreground(lipgloss.Color("10")),
		Measure:    re.NewStyle().Foreground(lipgloss.Color("13")),
		Unresolved: re.NewStyle().Foreground(lipgloss.Color("9")).Italic(true),
	}

	if isTTY {
		s.StatusSuccess = re.NewStyle().Foreground(lipgloss.Color("10")).SetString("✓")
		s.StatusFailed = re.NewStyle().Foreground(lipgloss.Color("9")).SetString("✗")
	} else {
		s.StatusSuccess = re.NewStyle().SetString("[ok]")
		s.StatusFailed = re.NewStyle().SetString("[failed]")
	}

	depthColors := []string{"12", "14", "10", "8"}
	for i := range s.Depth {
		s.Depth[i] = re.NewStyle().Foreground(lipgloss.Color(depthColors[i]))
	}
	s.Depth[0] = s.Depth[0].Bold(true)

	return s
}

// ForDepth returns the style of a join graph node at depth.
func (s *Styles) ForDepth(depth int) lipgloss.Style {
	return s.Depth[joingraph.StyleDepth(depth)]
}
