package views

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"quotedesk/internal/catalog"
	"quotedesk/internal/filter"
)

// RecordRenderer renders one result row
type RecordRenderer struct {
	styles *Styles
}

// NewRecordRenderer creates a new record renderer
func NewRecordRenderer(styles *Styles) *RecordRenderer {
	return &RecordRenderer{styles: styles}
}

// RenderRecord renders a row: selection box, icon, highlighted title,
// category, price and the highlighted description, cut to width.
func (rr *RecordRenderer) RenderRecord(item filter.Result, isCursor, multiSelect, isSelected bool, width int) string {
	rec := item.Record

	var b strings.Builder
	if multiSelect {
		if isSelected {
			b.WriteString("[x] ")
		} else {
			b.WriteString("[ ] ")
		}
	}
	if rec.Icon != "" {
		b.WriteString(rec.Icon)
		b.WriteString(" ")
	}
	prefix := b.String()

	meta := "  " + rr.styles.Category.Render(catalog.Label(rec.Category))
	if rec.Price > 0 {
		meta += "  " + rr.styles.Price.Render(catalog.FormatYen(rec.Price))
	}

	avail := width - runewidth.StringWidth(prefix) - lipgloss.Width(meta)
	if avail < 8 {
		avail = 8
	}
	title := rr.cut(rec.Title, item.TitleSpans, avail)

	line := prefix + title + meta
	if rec.Description != "" {
		rest := width - lipgloss.Width(line) - 3
		if rest > 8 {
			line += rr.styles.Dim.Render(" · ") + rr.cut(rec.Description, item.DescriptionSpans, rest)
		}
	}

	if isCursor {
		pad := width - lipgloss.Width(line)
		if pad > 0 {
			line += strings.Repeat(" ", pad)
		}
		return rr.styles.SelectionBg.Render(line)
	}
	return line
}

// cut truncates text to width cells and highlights the spans that survive
func (rr *RecordRenderer) cut(text string, spans []filter.Span, width int) string {
	shown := text
	tail := ""
	if runewidth.StringWidth(text) > width {
		shown = runewidth.Truncate(text, width-1, "")
		tail = "…"
	}
	return filter.Apply(shown, clipSpans(spans, len(shown)), rr.mark) + tail
}

func (rr *RecordRenderer) mark(fragment string) string {
	return rr.styles.Highlight.Render(fragment)
}

// clipSpans keeps the parts of spans that lie inside text[:n]
func clipSpans(spans []filter.Span, n int) []filter.Span {
	out := make([]filter.Span, 0, len(spans))
	for _, s := range spans {
		if s.Start >= n {
			break
		}
		if s.End > n {
			s.End = n
		}
		out = append(out, s)
	}
	return out
}
