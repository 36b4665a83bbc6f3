package modes

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"quotedesk/internal/ui/input/types"
)

// BatchEditMode collects the delivery date, then the payment type, for the
// selected orders. Either answer may be left empty.
type BatchEditMode struct {
	TextInputMode
	step         int
	deliveryDate string
}

func NewBatchEditMode(ti *textinput.Model) *BatchEditMode {
	return &BatchEditMode{
		TextInputMode: NewTextInputMode(types.ModeBatchEdit, "batch-edit", "Delivery date (YYYY-MM-DD): ", ti),
	}
}

func (m *BatchEditMode) Prompt() string {
	if m.step == 0 {
		return m.prompt
	}
	return "Payment type: "
}

func (m *BatchEditMode) Enter(ctx types.Context) []types.Action {
	m.step = 0
	m.deliveryDate = ""
	return nil
}

func (m *BatchEditMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	if msg.String() != "enter" {
		return m.TextInputMode.HandleKey(msg, ctx)
	}

	value := strings.TrimSpace(m.value())
	if m.step == 0 {
		m.deliveryDate = value
		m.step = 1
		m.textInput.Reset()
		return []types.Action{types.UpdateTextAction{Text: ""}}, true
	}
	return []types.Action{
		types.BatchEditAction{DeliveryDate: m.deliveryDate, PaymentType: value},
		types.ChangeModeAction{Mode: types.ModeNormal},
	}, true
}
