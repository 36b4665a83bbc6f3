package state

import (
	"strconv"

	"quotedesk/internal/catalog"
	"quotedesk/internal/domain"
	"quotedesk/internal/filter"
	"quotedesk/internal/ui/services/navigation"
	"quotedesk/internal/ui/services/selection"
)

// StatusKind colours the status bar
type StatusKind int

const (
	StatusInfo StatusKind = iota
	StatusSuccess
	StatusWarning
	StatusError
)

// Tab is one list view over a source. Each tab keeps its own filter, so
// switching tabs never disturbs another tab's query or category.
type Tab struct {
	Source domain.Source
	Title  string

	Index     *filter.Index
	Result    filter.ResultSet
	Query     string // as typed; the index keeps it lowercased
	Nav       *navigation.Service
	Selection *selection.Service

	Page    *domain.OrderPage // orders only
	Stale   bool              // served from the offline cache
	Loading bool
	Loaded  bool
	Err     string

	categories []string

	// ids maps a record's backend identity to its session id. Ids are
	// never reused, so a selection survives reloads and page changes.
	ids    map[string]int
	nextID int
}

// NewTab creates an empty tab for src
func NewTab(src domain.Source, title string) *Tab {
	t := &Tab{
		Source:     src,
		Title:      title,
		Index:      filter.New(nil),
		Nav:        navigation.NewService(),
		Selection:  selection.NewService(),
		categories: catalog.Categories(src),
		ids:        make(map[string]int),
	}
	t.Result = t.Index.Recompute()
	t.Nav.SetQueryFunction(func() int { return t.Result.Len() })
	return t
}

// SetRecords replaces the tab's collection and reruns the filter. Each
// record gets the session id its backend identity was first given.
func (t *Tab) SetRecords(records []domain.Record) {
	records = t.assignIDs(records)
	t.Index.SetRecords(records)
	t.Recompute()
	t.Selection.Retain(recordIDs(records))
	t.Loaded = true
	t.Err = ""
}

// Recompute reruns the filter and keeps the cursor inside the result
func (t *Tab) Recompute() {
	t.Result = t.Index.Recompute()
	t.Nav.Clamp()
}

// ApplyQuery sets the text query and reruns the filter
func (t *Tab) ApplyQuery(text string) {
	t.Query = text
	t.Index.SetQuery(text)
	t.Nav.Reset()
	t.Recompute()
}

// ClearQuery removes the text query, keeping the category
func (t *Tab) ClearQuery() {
	t.Query = ""
	t.Index.ClearQuery()
	t.Recompute()
}

// Current returns the record under the cursor
func (t *Tab) Current() (domain.Record, bool) {
	if t.Result.Empty() {
		return domain.Record{}, false
	}
	i := t.Nav.GetCursor()
	if i < 0 || i >= t.Result.Len() {
		return domain.Record{}, false
	}
	return t.Result.Items[i].Record, true
}

// CycleCategory moves to the next (step > 0) or previous category
func (t *Tab) CycleCategory(step int) string {
	cats := t.categories
	current := t.Index.State().ActiveCategory
	pos := 0
	for i, c := range cats {
		if c == current {
			pos = i
			break
		}
	}
	pos = (pos + step%len(cats) + len(cats)) % len(cats)
	t.Index.SetCategory(cats[pos])
	t.Nav.Reset()
	t.Recompute()
	return cats[pos]
}

// Categories returns the cycle of this tab
func (t *Tab) Categories() []string {
	return append([]string(nil), t.categories...)
}

// Targets returns the ids a batch operation applies to: the selection, or
// the record under the cursor when nothing is selected.
func (t *Tab) Targets() []int {
	if t.Selection.HasSelection() {
		return t.Selection.GetSelected()
	}
	if r, ok := t.Current(); ok {
		return []int{r.ID}
	}
	return nil
}

// AppState contains all the application state
type AppState struct {
	Tabs   []*Tab
	Active int

	Width          int
	Height         int
	ViewportHeight int

	StatusMessage string
	StatusKind    StatusKind
	StatusSeq     int

	// FilterSeq numbers every query edit; only the newest debounced
	// recompute is applied.
	FilterSeq int

	Theme string

	Customers []string
	Assets    []domain.Asset
}

// NewAppState creates the state with one tab per source. Demo only holds
// the offline sample data.
func NewAppState(demoOnly bool) *AppState {
	s := &AppState{ViewportHeight: 20}
	if !demoOnly {
		s.Tabs = append(s.Tabs,
			NewTab(domain.SourceCatalog, "Catalog"),
			NewTab(domain.SourceOrders, "Orders"),
			NewTab(domain.SourceQuotes, "Quotes"),
		)
	}
	s.Tabs = append(s.Tabs, NewTab(domain.SourceDemo, "Demo"))
	return s
}

// ActiveTab returns the focused tab
func (s *AppState) ActiveTab() *Tab {
	if len(s.Tabs) == 0 {
		return nil
	}
	if s.Active < 0 || s.Active >= len(s.Tabs) {
		s.Active = 0
	}
	return s.Tabs[s.Active]
}

// Tab returns the tab showing src
func (s *AppState) Tab(src domain.Source) *Tab {
	for _, t := range s.Tabs {
		if t.Source == src {
			return t
		}
	}
	return nil
}

// SwitchTab focuses the tab step positions away, wrapping around
func (s *AppState) SwitchTab(step int) {
	n := len(s.Tabs)
	if n == 0 {
		return
	}
	s.Active = ((s.Active+step)%n + n) % n
}

// SelectTab focuses tab i when it exists
func (s *AppState) SelectTab(i int) bool {
	if i < 0 || i >= len(s.Tabs) {
		return false
	}
	s.Active = i
	return true
}

// SetViewportHeight resizes every tab's list window
func (s *AppState) SetViewportHeight(h int) {
	if h < 1 {
		h = 1
	}
	s.ViewportHeight = h
	for _, t := range s.Tabs {
		t.Nav.SetViewportHeight(h)
	}
}

// SetStatus sets the status message and returns its sequence number
func (s *AppState) SetStatus(kind StatusKind, msg string) int {
	s.StatusSeq++
	s.StatusKind = kind
	s.StatusMessage = msg
	return s.StatusSeq
}

// ClearStatus clears the message set under seq, unless a newer one replaced it
func (s *AppState) ClearStatus(seq int) {
	if seq == s.StatusSeq {
		s.StatusMessage = ""
	}
}

// AddCustomer records a customer created from the calculator
func (s *AppState) AddCustomer(name string) {
	for _, c := range s.Customers {
		if c == name {
			return
		}
	}
	s.Customers = append(s.Customers, name)
}

// AddAsset records an asset created from the calculator
func (s *AppState) AddAsset(a domain.Asset) {
	for _, existing := range s.Assets {
		if existing.Name == a.Name {
			return
		}
	}
	s.Assets = append(s.Assets, a)
}

// AssetNames returns the asset vocabulary
func (s *AppState) AssetNames() []string {
	names := make([]string, len(s.Assets))
	for i, a := range s.Assets {
		names[i] = a.Name
	}
	return names
}

func (t *Tab) assignIDs(records []domain.Record) []domain.Record {
	out := make([]domain.Record, len(records))
	for i, r := range records {
		key := t.identity(r)
		id, ok := t.ids[key]
		if !ok {
			t.nextID++
			id = t.nextID
			t.ids[key] = id
		}
		r.ID = id
		out[i] = r
	}
	return out
}

// identity keys a record by its backend ref. Catalog refs are only unique
// per category (customer names, asset codes). Order and quote categories
// are statuses and change over time, so they stay out of the key. Records
// without a ref (the demo set) keep their collection id.
func (t *Tab) identity(r domain.Record) string {
	switch {
	case r.Ref == "":
		return "#" + strconv.Itoa(r.ID)
	case t.Source == domain.SourceCatalog:
		return r.Category + "/" + r.Ref
	default:
		return r.Ref
	}
}

func recordIDs(records []domain.Record) []int {
	ids := make([]int, len(records))
	for i, r := range records {
		ids[i] = r.ID
	}
	return ids
}
