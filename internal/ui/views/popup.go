package views

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// PopupRenderer handles popup/modal rendering
type PopupRenderer struct {
	styles *Styles
}

// NewPopupRenderer creates a new popup renderer
func NewPopupRenderer(styles *Styles) *PopupRenderer {
	return &PopupRenderer{styles: styles}
}

// RenderPopupOverlay centres the popup over a dimmed copy of the screen.
// Lines of the base above and below the popup stay visible.
func (pr *PopupRenderer) RenderPopupOverlay(mainContent, popupContent string, height, width int) string {
	styled := pr.styles.Popup.Render(popupContent)
	if width <= 0 || height <= 0 {
		return styled
	}

	base := strings.Split(desaturateANSI(mainContent, pr.styles.Palette.Muted), "\n")
	for len(base) < height {
		base = append(base, "")
	}
	base = base[:height]

	modal := strings.Split(lipgloss.Place(width, lipgloss.Height(styled), lipgloss.Center, lipgloss.Top, styled), "\n")
	top := (height - len(modal)) / 2
	if top < 0 {
		top = 0
	}
	for i, line := range modal {
		if top+i >= len(base) {
			break
		}
		base[top+i] = line
	}
	return strings.Join(base, "\n")
}

// ansiRE matches SGR escape sequences
var ansiRE = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// desaturateANSI strips colours and redraws the text in a single muted tone
func desaturateANSI(s string, c lipgloss.Color) string {
	plain := ansiRE.ReplaceAllString(s, "")
	lines := strings.Split(plain, "\n")
	style := lipgloss.NewStyle().Foreground(c)
	for i, l := range lines {
		lines[i] = style.Render(l)
	}
	return strings.Join(lines, "\n")
}
