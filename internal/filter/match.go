package filter

import (
	"regexp"
	"strings"
)

// ContainsFold reports whether text, lowercased, contains needle. needle
// must already be lowercased. This is the substring primitive shared by the index
// and the combobox.
func ContainsFold(text, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(text), needle)
}

// Span is a half-open byte range [Start, End) inside a string.
type Span struct {
	Start int
	End   int
}

// Marker wraps a matched fragment for display.
type Marker func(fragment string) string

// StrongMarker wraps a fragment in <strong> tags.
func StrongMarker(fragment string) string {
	return "<strong>" + fragment + "</strong>"
}

// Matcher finds case-insensitive literal occurrences of a query.
// The zero value matches nothing.
type Matcher struct {
	re *regexp.Regexp
}

// NewMatcher compiles query as a literal. Metacharacters are escaped, so no
// input can fail to compile.
func NewMatcher(query string) Matcher {
	if query == "" {
		return Matcher{}
	}
	return Matcher{re: regexp.MustCompile("(?i)" + regexp.QuoteMeta(query))}
}

// Spans returns every non-overlapping match in text, left to right.
func (m Matcher) Spans(text string) []Span {
	if m.re == nil || text == "" {
		return nil
	}
	locs := m.re.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return nil
	}
	spans := make([]Span, len(locs))
	for i, loc := range locs {
		spans[i] = Span{Start: loc[0], End: loc[1]}
	}
	return spans
}

// Highlight wraps each match in text with mark, keeping the source casing.
func (m Matcher) Highlight(text string, mark Marker) string {
	return Apply(text, m.Spans(text), mark)
}

// MatchSpans is a convenience for NewMatcher(query).Spans(text).
func MatchSpans(text, query string) []Span {
	return NewMatcher(query).Spans(text)
}

// Highlight wraps every case-insensitive occurrence of query in text with
// mark. An empty query returns text unchanged. A nil mark uses StrongMarker.
func Highlight(text, query string, mark Marker) string {
	if query == "" {
		return text
	}
	return NewMatcher(query).Highlight(text, mark)
}

// Apply renders text with each span passed through mark. Spans must be
// sorted and non-overlapping, as returned by Matcher.Spans.
func Apply(text string, spans []Span, mark Marker) string {
	if len(spans) == 0 {
		return text
	}
	if mark == nil {
		mark = StrongMarker
	}
	var b strings.Builder
	b.Grow(len(text) + len(spans)*16)
	prev := 0
	for _, s := range spans {
		if s.Start < prev || s.End > len(text) || s.Start >= s.End {
			continue
		}
		b.WriteString(text[prev:s.Start])
		b.WriteString(mark(text[s.Start:s.End]))
		prev = s.End
	}
	b.WriteString(text[prev:])
	return b.String()
}
