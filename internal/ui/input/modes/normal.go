package modes

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"quotedesk/internal/domain"
	"quotedesk/internal/ui/input/types"
)

const doubleTapWindow = 500 * time.Millisecond

type NormalMode struct {
	lastKeyWasG bool
	lastGTime   time.Time
}

func NewNormalMode() *NormalMode {
	return &NormalMode{}
}

func (m *NormalMode) Name() string {
	return "normal"
}

func (m *NormalMode) Enter(ctx types.Context) []types.Action {
	return nil
}

func (m *NormalMode) Exit(ctx types.Context) []types.Action {
	return nil
}

func (m *NormalMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	if msg.String() != "g" {
		m.lastKeyWasG = false
	}

	switch msg.Type {
	case tea.KeyCtrlC:
		return []types.Action{types.QuitAction{Force: true}}, true

	case tea.KeyEsc:
		if ctx.QueryText() != "" {
			return []types.Action{types.ClearFilterAction{}}, true
		}
		return nil, false

	case tea.KeyUp:
		return []types.Action{types.NavigateAction{Direction: "up"}}, true

	case tea.KeyDown:
		return []types.Action{types.NavigateAction{Direction: "down"}}, true

	case tea.KeyPgUp:
		return []types.Action{types.NavigateAction{Direction: "pageup"}}, true

	case tea.KeyPgDown:
		return []types.Action{types.NavigateAction{Direction: "pagedown"}}, true

	case tea.KeyHome:
		return []types.Action{types.NavigateAction{Direction: "home"}}, true

	case tea.KeyEnd:
		return []types.Action{types.NavigateAction{Direction: "end"}}, true

	case tea.KeyTab:
		return []types.Action{types.SwitchTabAction{Step: 1}}, true

	case tea.KeyShiftTab:
		return []types.Action{types.SwitchTabAction{Step: -1}}, true

	case tea.KeyEnter:
		if ctx.CurrentRecordID() >= 0 {
			return []types.Action{types.OpenDetailAction{}}, true
		}
		return nil, false
	}

	switch msg.String() {
	case "j":
		return []types.Action{types.NavigateAction{Direction: "down"}}, true

	case "k":
		return []types.Action{types.NavigateAction{Direction: "up"}}, true

	case "g":
		now := time.Now()
		if m.lastKeyWasG && now.Sub(m.lastGTime) < doubleTapWindow {
			m.lastKeyWasG = false
			return []types.Action{types.NavigateAction{Direction: "home"}}, true
		}
		m.lastKeyWasG = true
		m.lastGTime = now
		return nil, true

	case "G":
		return []types.Action{types.NavigateAction{Direction: "end"}}, true

	case "1", "2", "3", "4":
		return []types.Action{types.SwitchTabAction{Index: int(msg.String()[0] - '1')}}, true

	case "c":
		return []types.Action{types.CycleCategoryAction{Step: 1}}, true

	case "C":
		return []types.Action{types.CycleCategoryAction{Step: -1}}, true

	case "/", "F":
		return []types.Action{types.ChangeModeAction{Mode: types.ModeFilter, Data: ctx.QueryText()}}, true

	case " ":
		if ctx.CurrentRecordID() < 0 {
			return nil, false
		}
		return []types.Action{types.SelectAction{Index: -1}}, true

	case "a":
		if ctx.HasSelection() {
			return []types.Action{types.DeselectAllAction{}}, true
		}
		return []types.Action{types.SelectAllAction{}}, true

	case "e":
		if ctx.Source() != string(domain.SourceOrders) || !m.hasTargets(ctx) {
			return nil, false
		}
		return []types.Action{types.ChangeModeAction{Mode: types.ModeBatchEdit}}, true

	case "D":
		if ctx.Source() != string(domain.SourceOrders) || !m.hasTargets(ctx) {
			return nil, false
		}
		n := ctx.SelectedCount()
		if n == 0 {
			n = 1
		}
		return []types.Action{types.ChangeModeAction{
			Mode: types.ModeConfirm,
			Data: types.ConfirmRequest{
				Prompt: fmt.Sprintf("Delete %d order(s)?", n),
				Action: types.DeleteOrdersAction{},
			},
		}}, true

	case "A":
		if ctx.Source() != string(domain.SourceQuotes) || ctx.CurrentRecordID() < 0 {
			return nil, false
		}
		return []types.Action{types.ApproveQuoteAction{}}, true

	case "R":
		if ctx.Source() != string(domain.SourceQuotes) || ctx.CurrentRecordID() < 0 {
			return nil, false
		}
		return []types.Action{types.ChangeModeAction{
			Mode: types.ModeConfirm,
			Data: types.ConfirmRequest{
				Prompt: "Reject this quote?",
				Action: types.RejectQuoteAction{},
			},
		}}, true

	case "n":
		return []types.Action{types.ChangeModeAction{Mode: types.ModeCalculator}}, true

	case "[":
		if ctx.CanPageBack() {
			return []types.Action{types.PageAction{Step: -1}}, true
		}
		return nil, false

	case "]":
		if ctx.CanPageForward() {
			return []types.Action{types.PageAction{Step: 1}}, true
		}
		return nil, false

	case "p":
		if ctx.Source() != string(domain.SourceOrders) || ctx.TotalItems() == 0 {
			return nil, false
		}
		return []types.Action{types.DumpPageAction{}}, true

	case "t":
		return []types.Action{types.ToggleThemeAction{}}, true

	case "?":
		return []types.Action{types.ShowHelpAction{}}, true

	case "x":
		return []types.Action{types.ExportAction{}}, true

	case "r":
		return []types.Action{types.RefreshAction{}}, true

	case "q":
		return []types.Action{types.QuitAction{}}, true
	}

	return nil, false
}

// hasTargets reports whether a batch operation has anything to act on:
// the selection, or the record under the cursor.
func (m *NormalMode) hasTargets(ctx types.Context) bool {
	return ctx.HasSelection() || ctx.CurrentRecordID() >= 0
}
