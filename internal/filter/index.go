// Package filter narrows an in-memory record collection by category and by a
// case-insensitive substring query, and marks the matched text for display.
package filter

import (
	"strings"

	"quotedesk/internal/domain"
)

// Result is one record that survived both filter stages, with the byte
// ranges of its title and description that matched the query.
type Result struct {
	Record           domain.Record
	TitleSpans       []Span
	DescriptionSpans []Span
}

// ResultSet is the ordered output of a recompute.
type ResultSet struct {
	Items []Result
	State domain.FilterState
}

// Len returns the number of matching records.
func (rs ResultSet) Len() int { return len(rs.Items) }

// Empty reports whether nothing matched.
func (rs ResultSet) Empty() bool { return len(rs.Items) == 0 }

// Records returns the matching records in result order.
func (rs ResultSet) Records() []domain.Record {
	out := make([]domain.Record, len(rs.Items))
	for i, it := range rs.Items {
		out[i] = it.Record
	}
	return out
}

// IDs returns the matching record ids in result order.
func (rs ResultSet) IDs() []int {
	out := make([]int, len(rs.Items))
	for i, it := range rs.Items {
		out[i] = it.Record.ID
	}
	return out
}

// Keep reports whether r passes the category stage and the text stage for
// state. state.QueryText must already be lowercased.
func Keep(r domain.Record, state domain.FilterState) bool {
	if state.ActiveCategory != domain.CategoryAll && r.Category != state.ActiveCategory {
		return false
	}
	if state.QueryText == "" {
		return true
	}
	return ContainsFold(r.Title, state.QueryText) || ContainsFold(r.Description, state.QueryText)
}

// Run filters records against state, preserving input order. It never
// fails: an empty collection, an empty query or an unknown category all
// yield a well-formed, possibly empty, ResultSet.
func Run(records []domain.Record, state domain.FilterState) ResultSet {
	state.QueryText = strings.ToLower(state.QueryText)
	m := NewMatcher(state.QueryText)

	rs := ResultSet{State: state, Items: make([]Result, 0, len(records))}
	for _, r := range records {
		if !Keep(r, state) {
			continue
		}
		rs.Items = append(rs.Items, Result{
			Record:           r,
			TitleSpans:       m.Spans(r.Title),
			DescriptionSpans: m.Spans(r.Description),
		})
	}
	return rs
}

// Index owns a record collection and one FilterState. It is not safe for
// concurrent use; the UI drives each Index from its update loop.
type Index struct {
	records []domain.Record
	ids     map[int]struct{}
	state   domain.FilterState
}

// New creates an index over a copy of records with the initial state.
func New(records []domain.Record) *Index {
	ix := &Index{state: domain.NewFilterState()}
	ix.SetRecords(records)
	return ix
}

// SetRecords replaces the collection. Records whose id is already present
// are dropped, keeping the first occurrence.
func (ix *Index) SetRecords(records []domain.Record) {
	ix.records = make([]domain.Record, 0, len(records))
	ix.ids = make(map[int]struct{}, len(records))
	ix.Add(records...)
}

// Add appends records to the collection, skipping ids already present.
// It returns the number of records added.
func (ix *Index) Add(records ...domain.Record) int {
	added := 0
	for _, r := range records {
		if _, dup := ix.ids[r.ID]; dup {
			continue
		}
		ix.ids[r.ID] = struct{}{}
		ix.records = append(ix.records, r)
		added++
	}
	return added
}

// Records returns a copy of the full collection.
func (ix *Index) Records() []domain.Record {
	out := make([]domain.Record, len(ix.records))
	copy(out, ix.records)
	return out
}

// Len returns the size of the full collection.
func (ix *Index) Len() int { return len(ix.records) }

// Lookup returns the record with the given id.
func (ix *Index) Lookup(id int) (domain.Record, bool) {
	if _, ok := ix.ids[id]; !ok {
		return domain.Record{}, false
	}
	for _, r := range ix.records {
		if r.ID == id {
			return r, true
		}
	}
	return domain.Record{}, false
}

// SetCategory replaces the active category. Any token is accepted.
func (ix *Index) SetCategory(category string) {
	ix.state.ActiveCategory = category
}

// SetQuery replaces the query, lowercased.
func (ix *Index) SetQuery(text string) {
	ix.state.QueryText = strings.ToLower(text)
}

// ClearQuery drops the text filter.
func (ix *Index) ClearQuery() {
	ix.state.QueryText = ""
}

// Reset restores the initial state without touching the collection.
func (ix *Index) Reset() {
	ix.state = domain.NewFilterState()
}

// State returns the current filter state.
func (ix *Index) State() domain.FilterState {
	return ix.state
}

// Recompute returns the records matching the current state.
func (ix *Index) Recompute() ResultSet {
	return Run(ix.records, ix.state)
}
