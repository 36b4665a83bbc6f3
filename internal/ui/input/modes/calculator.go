package modes

import (
	tea "github.com/charmbracelet/bubbletea"

	"quotedesk/internal/ui/input/types"
)

// CalculatorMode hands every key to the calculator form. The form decides
// when it is done and asks the model to return to normal mode.
type CalculatorMode struct{}

func NewCalculatorMode() *CalculatorMode {
	return &CalculatorMode{}
}

func (m *CalculatorMode) Name() string {
	return "calculator"
}

func (m *CalculatorMode) Enter(ctx types.Context) []types.Action {
	return nil
}

func (m *CalculatorMode) Exit(ctx types.Context) []types.Action {
	return nil
}

func (m *CalculatorMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	if msg.Type == tea.KeyCtrlC {
		return []types.Action{types.QuitAction{Force: true}}, true
	}
	return []types.Action{types.CalculatorKeyAction{Key: msg}}, true
}
