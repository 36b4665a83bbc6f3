package views

import (
	"github.com/charmbracelet/lipgloss"

	"quotedesk/internal/theme"
)

// Styles contains all the style definitions for the UI
type Styles struct {
	Palette theme.Palette

	Title         lipgloss.Style
	Tab           lipgloss.Style
	TabActive     lipgloss.Style
	Confirm       lipgloss.Style
	Dim           lipgloss.Style
	Filter        lipgloss.Style
	Category      lipgloss.Style
	Count         lipgloss.Style
	Help          lipgloss.Style
	Main          lipgloss.Style
	Scroll        lipgloss.Style
	Highlight     lipgloss.Style
	Price         lipgloss.Style
	StatusInfo    lipgloss.Style
	StatusError   lipgloss.Style
	StatusWarning lipgloss.Style
	StatusSuccess lipgloss.Style
	SelectionBg   lipgloss.Style
	EmptyTitle    lipgloss.Style
	Popup         lipgloss.Style
	Label         lipgloss.Style
	LabelFocused  lipgloss.Style
	Suggestion    lipgloss.Style
	SuggestionSel lipgloss.Style
	AddNew        lipgloss.Style
}

// NewStyles builds the styles for a palette
func NewStyles(p theme.Palette) *Styles {
	return &Styles{
		Palette: p,
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Title),
		Tab:       lipgloss.NewStyle().Foreground(p.Muted).Padding(0, 1),
		TabActive: lipgloss.NewStyle().Foreground(p.Title).Bold(true).Underline(true).Padding(0, 1),
		Confirm:   lipgloss.NewStyle().Bold(true).Foreground(p.Warning),
		Dim:       lipgloss.NewStyle().Faint(true),
		Filter:    lipgloss.NewStyle().Foreground(p.Accent),
		Category:  lipgloss.NewStyle().Foreground(p.Muted),
		Count:     lipgloss.NewStyle().Foreground(p.Muted),
		Help:      lipgloss.NewStyle().Faint(true),
		Main: lipgloss.NewStyle().
			Padding(1, 2),
		Scroll:        lipgloss.NewStyle().Foreground(p.Muted).Italic(true),
		Highlight:     lipgloss.NewStyle().Foreground(p.Highlight).Bold(true),
		Price:         lipgloss.NewStyle().Foreground(p.Success),
		StatusInfo:    lipgloss.NewStyle().Foreground(p.Muted),
		StatusError:   lipgloss.NewStyle().Foreground(p.Error),
		StatusWarning: lipgloss.NewStyle().Foreground(p.Warning),
		StatusSuccess: lipgloss.NewStyle().Foreground(p.Success),
		SelectionBg:   lipgloss.NewStyle().Background(p.Selection),
		EmptyTitle:    lipgloss.NewStyle().Bold(true).Foreground(p.Text),
		Popup: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Border).
			Padding(1, 2),
		Label:         lipgloss.NewStyle().Foreground(p.Muted),
		LabelFocused:  lipgloss.NewStyle().Foreground(p.Accent).Bold(true),
		Suggestion:    lipgloss.NewStyle().Foreground(p.Text),
		SuggestionSel: lipgloss.NewStyle().Foreground(p.Highlight).Background(p.Selection),
		AddNew:        lipgloss.NewStyle().Foreground(p.Success).Italic(true),
	}
}
