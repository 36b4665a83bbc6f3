package views

import (
	"fmt"
	"strings"

	"quotedesk/internal/catalog"
	"quotedesk/internal/ui/calculator"
)

// RenderCalculator renders the quote form shown in the popup
func (r *Renderer) RenderCalculator(form *calculator.Form) string {
	s := r.styles
	var b strings.Builder

	b.WriteString(s.Title.Render("New quote"))
	if rate, ok := form.Rate(); ok {
		b.WriteString(s.Dim.Render(fmt.Sprintf("  1 BRL = %.4f JPY (%s)", rate.Rate, rate.Source)))
	}
	b.WriteString("\n\n")

	for f := calculator.FieldCustomer; f <= calculator.FieldAdjustment; f++ {
		label := s.Label
		if f == form.Focus() {
			label = s.LabelFocused
		}
		b.WriteString(label.Render(fmt.Sprintf("%-26s", f.Label())))
		b.WriteString(form.InputView(f))
		b.WriteString("\n")

		if f != form.Focus() {
			continue
		}
		if items, cursor, open := form.Suggestions(); open {
			if len(items) == 0 {
				b.WriteString(strings.Repeat(" ", 28))
				b.WriteString(s.Dim.Render(catalog.EmptyTitle))
				b.WriteString("\n")
			}
			for i, it := range items {
				style := s.Suggestion
				if it.AddNew {
					style = s.AddNew
				}
				if i == cursor {
					style = s.SuggestionSel
				}
				b.WriteString(strings.Repeat(" ", 28))
				b.WriteString(style.Render(it.Label))
				b.WriteString("\n")
			}
		}
	}

	if res, ok := form.LastResult(); ok {
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("Profit R$ %.2f (%.0f%%)  Total R$ %.2f\n", res.Profit, res.ProfitPercent, res.TotalBRL))
		b.WriteString(s.Price.Render(fmt.Sprintf("Total %s", catalog.FormatYen(float64(res.TotalJPY)))))
		b.WriteString(s.Dim.Render(fmt.Sprintf("  rate %.4f (%s)", res.ExchangeRate, res.RateSource)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if form.Busy() {
		b.WriteString(s.Dim.Render("Saving..."))
	} else {
		b.WriteString(s.Help.Render("tab/↑↓ move • enter pick • ctrl+s calculate & save • esc close"))
	}
	return b.String()
}
