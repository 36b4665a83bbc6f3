package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type helpEntry struct {
	keys string
	desc string
}

type helpSection struct {
	title   string
	entries []helpEntry
}

var helpSections = []helpSection{
	{"Navigation", []helpEntry{
		{"↑/↓, j/k", "Move up/down"},
		{"PgUp/PgDn", "Page up/down"},
		{"gg/G", "Go to top/bottom"},
		{"tab, 1-4", "Switch tab"},
		{"enter", "Show record details"},
	}},
	{"Search & Filter", []helpEntry{
		{"/, F", "Filter by text (live)"},
		{"c / C", "Next/previous category"},
		{"esc", "Clear the text filter"},
	}},
	{"Selection", []helpEntry{
		{"space", "Toggle selection"},
		{"a", "Select/deselect all visible"},
	}},
	{"Orders", []helpEntry{
		{"e", "Batch edit delivery date and payment"},
		{"D", "Delete selected orders"},
		{"[ / ]", "Previous/next page"},
		{"p", "Show the page in the pager"},
	}},
	{"Quotes", []helpEntry{
		{"n", "New quote (calculator)"},
		{"A", "Approve quote"},
		{"R", "Reject quote"},
	}},
	{"Other", []helpEntry{
		{"x", "Export visible results to xlsx"},
		{"r", "Reload"},
		{"t", "Toggle theme"},
		{"?", "This help"},
		{"q", "Quit"},
	}},
}

// RenderHelp renders the key reference shown in the pager
func (r *Renderer) RenderHelp() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(r.styles.Palette.Title)
	sectionStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	keyStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	descStyle := lipgloss.NewStyle().Foreground(r.styles.Palette.Text)

	var help strings.Builder
	help.WriteString(titleStyle.Render("quotedesk help"))
	help.WriteString("\n")
	for _, sec := range helpSections {
		help.WriteString("\n")
		help.WriteString(sectionStyle.Render(sec.title))
		help.WriteString("\n")
		for _, e := range sec.entries {
			help.WriteString(fmt.Sprintf("  %s %s\n", keyStyle.Render(fmt.Sprintf("%-11s", e.keys)), descStyle.Render(e.desc)))
		}
	}
	help.WriteString("\n")
	help.WriteString(lipgloss.NewStyle().Italic(true).Foreground(r.styles.Palette.Muted).Render("Press q to close"))
	return help.String()
}
