package types

import tea "github.com/charmbracelet/bubbletea"

// Navigation actions
type NavigateAction struct {
	Direction string // "up", "down", "pageup", "pagedown", "home", "end"
}

func (a NavigateAction) Type() string { return "navigate" }

// Selection actions
type SelectAction struct {
	Index int // -1 for current
}

func (a SelectAction) Type() string { return "select" }

type SelectAllAction struct{}

func (a SelectAllAction) Type() string { return "select_all" }

type DeselectAllAction struct{}

func (a DeselectAllAction) Type() string { return "deselect_all" }

// Mode transition actions
type ChangeModeAction struct {
	Mode Mode
	Data interface{} // Optional data for the mode
}

func (a ChangeModeAction) Type() string { return "change_mode" }

// Text input actions
type UpdateTextAction struct {
	Text string
}

func (a UpdateTextAction) Type() string { return "update_text" }

type SubmitTextAction struct {
	Text string
	Mode Mode // Which mode submitted the text
}

func (a SubmitTextAction) Type() string { return "submit_text" }

type CancelTextAction struct{}

func (a CancelTextAction) Type() string { return "cancel_text" }

// Filter actions
type CycleCategoryAction struct {
	Step int // +1 forward, -1 backward
}

func (a CycleCategoryAction) Type() string { return "cycle_category" }

type ClearFilterAction struct{}

func (a ClearFilterAction) Type() string { return "clear_filter" }

// Tab actions
type SwitchTabAction struct {
	Step  int // relative move when non-zero
	Index int // absolute tab otherwise
}

func (a SwitchTabAction) Type() string { return "switch_tab" }

type PageAction struct {
	Step int
}

func (a PageAction) Type() string { return "page" }

// Command actions
type RefreshAction struct{}

func (a RefreshAction) Type() string { return "refresh" }

type DumpPageAction struct{}

func (a DumpPageAction) Type() string { return "dump_page" }

type OpenDetailAction struct{}

func (a OpenDetailAction) Type() string { return "open_detail" }

type ShowHelpAction struct{}

func (a ShowHelpAction) Type() string { return "show_help" }

type ToggleThemeAction struct{}

func (a ToggleThemeAction) Type() string { return "toggle_theme" }

type ExportAction struct{}

func (a ExportAction) Type() string { return "export" }

// Quote actions
type ApproveQuoteAction struct{}

func (a ApproveQuoteAction) Type() string { return "approve_quote" }

type RejectQuoteAction struct{}

func (a RejectQuoteAction) Type() string { return "reject_quote" }

// Order actions
type DeleteOrdersAction struct{}

func (a DeleteOrdersAction) Type() string { return "delete_orders" }

type BatchEditAction struct {
	DeliveryDate string
	PaymentType  string
}

func (a BatchEditAction) Type() string { return "batch_edit" }

// CalculatorKeyAction forwards a key press to the calculator form
type CalculatorKeyAction struct {
	Key tea.KeyMsg
}

func (a CalculatorKeyAction) Type() string { return "calculator_key" }

// ConfirmRequest is the Data of a ChangeModeAction into ModeConfirm
type ConfirmRequest struct {
	Prompt string
	Action Action // executed on confirmation
}

type QuitAction struct {
	Force bool
}

func (a QuitAction) Type() string { return "quit" }
