package modes

import (
	tea "github.com/charmbracelet/bubbletea"

	"quotedesk/internal/ui/input/types"
)

// ConfirmMode asks a yes/no question before running a destructive action
type ConfirmMode struct {
	request types.ConfirmRequest
}

func NewConfirmMode() *ConfirmMode {
	return &ConfirmMode{}
}

func (m *ConfirmMode) Name() string {
	return "confirm"
}

func (m *ConfirmMode) Prompt() string {
	return m.request.Prompt + " (y/n)"
}

// SetData stores the pending request carried by the mode change
func (m *ConfirmMode) SetData(data interface{}) {
	if req, ok := data.(types.ConfirmRequest); ok {
		m.request = req
	} else {
		m.request = types.ConfirmRequest{}
	}
}

func (m *ConfirmMode) Enter(ctx types.Context) []types.Action {
	return nil
}

func (m *ConfirmMode) Exit(ctx types.Context) []types.Action {
	m.request = types.ConfirmRequest{}
	return nil
}

func (m *ConfirmMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	switch msg.String() {
	case "ctrl+c":
		return []types.Action{types.QuitAction{Force: true}}, true
	case "y", "Y":
		actions := []types.Action{}
		if m.request.Action != nil {
			actions = append(actions, m.request.Action)
		}
		return append(actions, types.ChangeModeAction{Mode: types.ModeNormal}), true
	case "n", "N", "esc":
		return []types.Action{types.ChangeModeAction{Mode: types.ModeNormal}}, true
	}

	// Swallow everything else while the question is open
	return nil, true
}
