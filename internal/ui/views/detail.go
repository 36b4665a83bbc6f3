package views

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"quotedesk/internal/catalog"
	"quotedesk/internal/domain"
)

// RenderDetail renders every field of a record for the pager
func (r *Renderer) RenderDetail(rec domain.Record) string {
	keyStyle := lipgloss.NewStyle().Foreground(r.styles.Palette.Accent)

	var b strings.Builder
	b.WriteString(r.styles.Title.Render(strings.TrimSpace(rec.Icon + " " + rec.Title)))
	b.WriteString("\n\n")

	row := func(k, v string) {
		if v == "" {
			return
		}
		b.WriteString(fmt.Sprintf("%s %s\n", keyStyle.Render(fmt.Sprintf("%-16s", k)), v))
	}
	row("Category", catalog.Label(rec.Category))
	row("Description", rec.Description)
	if rec.Price > 0 {
		row("Price", catalog.FormatYen(rec.Price))
	}
	row("Reference", rec.Ref)

	keys := make([]string, 0, len(rec.Extra))
	for k := range rec.Extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if len(keys) > 0 {
		b.WriteString("\n")
	}
	for _, k := range keys {
		row(k, rec.Extra[k])
	}
	return b.String()
}
