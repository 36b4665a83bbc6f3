package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"quotedesk/internal/catalog"
	"quotedesk/internal/domain"
	"quotedesk/internal/filter"
)

// RenderPage renders every visible record of a tab as a plain table for the pager
func (r *Renderer) RenderPage(title string, page *domain.OrderPage, rs filter.ResultSet) string {
	var b strings.Builder
	heading := title
	if page != nil && page.TotalPages > 0 {
		heading = fmt.Sprintf("%s, página %d/%d (%d pedidos)", title, page.Page, page.TotalPages, page.TotalOrders)
	}
	b.WriteString(r.styles.Title.Render(heading))
	b.WriteString("\n\n")

	head := lipgloss.NewStyle().Bold(true).Foreground(r.styles.Palette.Accent)
	b.WriteString(head.Render(fmt.Sprintf("%-28s %-14s %-12s %s", "Pedido", "Situação", "Valor", "Cliente")))
	b.WriteString("\n")
	for _, rec := range rs.Records() {
		b.WriteString(fmt.Sprintf("%-28s %-14s %-12s %s\n",
			runewidth.Truncate(rec.Title, 28, "…"), catalog.Label(rec.Category), catalog.FormatYen(rec.Price), rec.Extra["customer"]))
	}
	b.WriteString("\n")
	b.WriteString(r.styles.Count.Render(catalog.CountText(rs.Len())))
	return b.String()
}
