package modes

import (
	"github.com/charmbracelet/bubbles/textinput"

	"quotedesk/internal/ui/input/types"
)

// FilterMode edits the live query. Every keystroke is reported as an
// UpdateTextAction; enter applies immediately and esc clears the query.
type FilterMode struct {
	TextInputMode
}

func NewFilterMode(ti *textinput.Model) *FilterMode {
	return &FilterMode{
		TextInputMode: NewTextInputMode(types.ModeFilter, "filter", "Filter: ", ti),
	}
}
