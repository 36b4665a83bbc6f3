package input

import (
	"quotedesk/internal/ui/state"
)

// ModelContext implements the Context interface for the input handler
type ModelContext struct {
	State *state.AppState
}

func (c *ModelContext) tab() *state.Tab {
	return c.State.ActiveTab()
}

// CurrentIndex returns the cursor position in the active tab
func (c *ModelContext) CurrentIndex() int {
	if t := c.tab(); t != nil {
		return t.Nav.GetCursor()
	}
	return 0
}

// TotalItems returns the number of visible records
func (c *ModelContext) TotalItems() int {
	if t := c.tab(); t != nil {
		return t.Result.Len()
	}
	return 0
}

func (c *ModelContext) HasSelection() bool {
	t := c.tab()
	return t != nil && t.Selection.HasSelection()
}

func (c *ModelContext) SelectedCount() int {
	if t := c.tab(); t != nil {
		return t.Selection.GetCount()
	}
	return 0
}

// CurrentRecordID returns the id under the cursor, or -1 on an empty list
func (c *ModelContext) CurrentRecordID() int {
	if t := c.tab(); t != nil {
		if r, ok := t.Current(); ok {
			return r.ID
		}
	}
	return -1
}

func (c *ModelContext) Source() string {
	if t := c.tab(); t != nil {
		return string(t.Source)
	}
	return ""
}

// QueryText returns the active tab's query as typed
func (c *ModelContext) QueryText() string {
	if t := c.tab(); t != nil {
		return t.Query
	}
	return ""
}

func (c *ModelContext) CanPageBack() bool {
	t := c.tab()
	return t != nil && t.Page != nil && t.Page.HasPrev
}

func (c *ModelContext) CanPageForward() bool {
	t := c.tab()
	return t != nil && t.Page != nil && t.Page.HasNext
}
