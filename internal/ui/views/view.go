package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"quotedesk/internal/catalog"
	"quotedesk/internal/domain"
	"quotedesk/internal/filter"
	"quotedesk/internal/theme"
	"quotedesk/internal/ui/calculator"
	"quotedesk/internal/ui/state"
)

// ChromeLines is the number of lines around the list: padding, title,
// input, count, status and help.
const ChromeLines = 10

// TabHeader describes one tab in the title line
type TabHeader struct {
	Title   string
	Active  bool
	Loading bool
	Stale   bool
}

// ViewState contains all the state needed for rendering
type ViewState struct {
	Width  int
	Height int

	Tabs    []TabHeader
	Source  domain.Source
	Result  filter.ResultSet
	Loading bool
	Loaded  bool
	Stale   bool
	Err     string
	Page    *domain.OrderPage

	Cursor         int
	ViewportOffset int
	ViewportHeight int
	IsSelected     func(id int) bool
	SelectedCount  int

	Query    string
	Category string

	StatusMessage string
	StatusKind    state.StatusKind

	InputMode string // "" in normal mode
	Prompt    string
	TextInput string

	Calculator *calculator.Form
	HelpLine   string
}

// Renderer handles all view rendering
type Renderer struct {
	styles      *Styles
	recordRend  *RecordRenderer
	popupRender *PopupRenderer
}

// NewRenderer creates a renderer for a palette
func NewRenderer(p theme.Palette) *Renderer {
	r := &Renderer{}
	r.SetPalette(p)
	return r
}

// SetPalette restyles the renderer
func (r *Renderer) SetPalette(p theme.Palette) {
	r.styles = NewStyles(p)
	r.recordRend = NewRecordRenderer(r.styles)
	r.popupRender = NewPopupRenderer(r.styles)
}

// Styles returns the active styles
func (r *Renderer) Styles() *Styles { return r.styles }

// Render produces the complete view
func (r *Renderer) Render(vs ViewState) string {
	content := &strings.Builder{}

	content.WriteString(r.renderTitleLine(vs))
	content.WriteString("\n\n")

	switch vs.InputMode {
	case "":
	case "confirm":
		content.WriteString(r.styles.Confirm.Render(vs.Prompt))
		content.WriteString("\n")
	default:
		content.WriteString(r.styles.Filter.Render(vs.Prompt))
		content.WriteString(vs.TextInput)
		content.WriteString("\n")
	}

	content.WriteString(r.renderCountLine(vs))
	content.WriteString("\n")
	content.WriteString(r.renderBody(vs))

	footer := r.renderStatus(vs)
	if vs.HelpLine != "" {
		footer += "\n" + r.styles.Help.Render(vs.HelpLine)
	}

	currentLines := strings.Count(content.String(), "\n") + 1
	availableLines := vs.Height - 2
	if availableLines <= 0 {
		availableLines = 22
	}
	if pad := availableLines - currentLines - lipgloss.Height(footer); pad > 0 {
		content.WriteString(strings.Repeat("\n", pad))
	}
	content.WriteString("\n")
	content.WriteString(footer)

	mainStyle := r.styles.Main
	if vs.Height > 0 {
		mainStyle = mainStyle.MaxHeight(vs.Height)
	}
	finalContent := mainStyle.Render(content.String())

	if vs.Calculator != nil {
		return r.popupRender.RenderPopupOverlay(finalContent, r.RenderCalculator(vs.Calculator), vs.Height, vs.Width)
	}
	return finalContent
}

func (r *Renderer) renderTitleLine(vs ViewState) string {
	var tabs []string
	for i, t := range vs.Tabs {
		label := fmt.Sprintf("%d %s", i+1, t.Title)
		if t.Loading {
			label += " " + spinnerFrame()
		} else if t.Stale {
			label += " (offline)"
		}
		if t.Active {
			tabs = append(tabs, r.styles.TabActive.Render(label))
		} else {
			tabs = append(tabs, r.styles.Tab.Render(label))
		}
	}
	left := r.styles.Title.Render("quotedesk") + "  " + strings.Join(tabs, "")

	var right []string
	if vs.Category != "" && vs.Category != domain.CategoryAll {
		right = append(right, r.styles.Category.Render(fmt.Sprintf("[%s]", catalog.Label(vs.Category))))
	}
	if vs.Query != "" {
		right = append(right, r.styles.Filter.Render(fmt.Sprintf("[Filter: %s]", vs.Query)))
	}
	if len(right) == 0 {
		return left
	}
	rightContent := strings.Join(right, " ")

	termWidth := vs.Width
	if termWidth <= 0 {
		termWidth = 80
	}
	padding := termWidth - 4 - lipgloss.Width(left) - lipgloss.Width(rightContent)
	if padding < 2 {
		padding = 2
	}
	return left + strings.Repeat(" ", padding) + rightContent
}

func (r *Renderer) renderCountLine(vs ViewState) string {
	if !vs.Loaded {
		return ""
	}
	parts := []string{catalog.CountText(vs.Result.Len())}
	if vs.Page != nil && vs.Page.TotalPages > 0 {
		parts = append(parts, fmt.Sprintf("página %d/%d", vs.Page.Page, vs.Page.TotalPages))
	}
	if vs.SelectedCount > 0 {
		parts = append(parts, fmt.Sprintf("%d selected", vs.SelectedCount))
	}
	return r.styles.Count.Render(strings.Join(parts, " • "))
}

func (r *Renderer) renderBody(vs ViewState) string {
	switch {
	case vs.Loading && !vs.Loaded:
		return r.styles.Dim.Render(spinnerFrame() + " Loading...")
	case vs.Err != "" && !vs.Loaded:
		return r.styles.StatusError.Render(vs.Err)
	case vs.Result.Empty():
		return r.RenderEmpty()
	}
	return r.renderList(vs)
}

// RenderEmpty renders the no-results state
func (r *Renderer) RenderEmpty() string {
	return r.styles.EmptyTitle.Render(catalog.EmptyTitle) + "\n" + r.styles.Dim.Render(catalog.EmptyHint)
}

// renderList renders the visible window of the result set
func (r *Renderer) renderList(vs ViewState) string {
	total := vs.Result.Len()
	width := vs.Width - 4
	if width <= 0 {
		width = 76
	}
	height := vs.ViewportHeight
	if height <= 0 {
		height = total
	}
	offset := vs.ViewportOffset
	if offset < 0 || offset >= total {
		offset = 0
	}

	needsTop := offset > 0
	needsBottom := offset+height < total
	effective := height
	if needsTop {
		effective--
	}
	if needsBottom {
		effective--
	}
	if effective < 1 {
		effective = 1
	}

	var lines []string
	if needsTop {
		lines = append(lines, r.styles.Scroll.Render(fmt.Sprintf("↑ %d more above ↑", offset)))
	}
	multi := vs.SelectedCount > 0
	end := offset + effective
	if end > total {
		end = total
	}
	for i := offset; i < end; i++ {
		item := vs.Result.Items[i]
		selected := vs.IsSelected != nil && vs.IsSelected(item.Record.ID)
		lines = append(lines, r.recordRend.RenderRecord(item, i == vs.Cursor, multi, selected, width))
	}
	if needsBottom {
		lines = append(lines, r.styles.Scroll.Render(fmt.Sprintf("↓ %d more below ↓", total-end)))
	}
	return strings.Join(lines, "\n")
}

func (r *Renderer) renderStatus(vs ViewState) string {
	if vs.StatusMessage == "" {
		return ""
	}
	switch vs.StatusKind {
	case state.StatusError:
		return r.styles.StatusError.Render(vs.StatusMessage)
	case state.StatusWarning:
		return r.styles.StatusWarning.Render(vs.StatusMessage)
	case state.StatusSuccess:
		return r.styles.StatusSuccess.Render(vs.StatusMessage)
	}
	return r.styles.StatusInfo.Render(vs.StatusMessage)
}

func spinnerFrame() string {
	spinner := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	return spinner[int(time.Now().UnixMilli()/80)%len(spinner)]
}
