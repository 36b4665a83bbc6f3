package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap feeds the footer help line. Dispatch lives in the input modes;
// these bindings only describe it.
type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Tab      key.Binding
	Filter   key.Binding
	Category key.Binding
	Select   key.Binding
	Quote    key.Binding
	Edit     key.Binding
	Delete   key.Binding
	Approve  key.Binding
	Reject   key.Binding
	Page     key.Binding
	Export   key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Tab:      key.NewBinding(key.WithKeys("tab", "1", "2", "3", "4"), key.WithHelp("tab", "switch")),
		Filter:   key.NewBinding(key.WithKeys("/", "F"), key.WithHelp("/", "filter")),
		Category: key.NewBinding(key.WithKeys("c", "C"), key.WithHelp("c", "category")),
		Select:   key.NewBinding(key.WithKeys(" ", "a"), key.WithHelp("space", "select")),
		Quote:    key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new quote")),
		Edit:     key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		Delete:   key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "delete")),
		Approve:  key.NewBinding(key.WithKeys("A"), key.WithHelp("A", "approve")),
		Reject:   key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "reject")),
		Page:     key.NewBinding(key.WithKeys("[", "]", "p"), key.WithHelp("[/]/p", "page")),
		Export:   key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "export")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// forSource disables the bindings that do nothing on the given tab
func (k keyMap) forSource(src string) keyMap {
	orders := src == "orders"
	quotes := src == "quotes"
	k.Edit.SetEnabled(orders)
	k.Delete.SetEnabled(orders)
	k.Page.SetEnabled(orders)
	k.Approve.SetEnabled(quotes)
	k.Reject.SetEnabled(quotes)
	return k
}

// ShortHelp implements help.KeyMap
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Tab, k.Filter, k.Category, k.Select,
		k.Edit, k.Delete, k.Approve, k.Reject, k.Page, k.Quote, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Tab, k.Page},
		{k.Filter, k.Category, k.Select},
		{k.Quote, k.Edit, k.Delete, k.Approve, k.Reject},
		{k.Export, k.Help, k.Quit},
	}
}
