package filter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHighlightEmptyQueryReturnsText(t *testing.T) {
	assert.Equal(t, "Clube de Leitura", Highlight("Clube de Leitura", "", nil))
}

func TestHighlightPreservesSourceCasing(t *testing.T) {
	got := Highlight("Clube de Leitura", "leitura", nil)
	assert.Equal(t, "Clube de <strong>Leitura</strong>", got)
}

func TestHighlightWrapsEveryOccurrence(t *testing.T) {
	got := Highlight("Ana and ANA and ana", "ana", func(s string) string { return "[" + s + "]" })
	assert.Equal(t, "[Ana] and [ANA] and [ana]", got)
}

func TestHighlightTreatsQueryAsLiteral(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		query string
		want  string
	}{
		{"dot", "a.b axb", "a.b", "[a.b] axb"},
		{"open paren", "f(x) fx", "(", "f[(]x) fx"},
		{"bracket", "tag [br] tag", "[br]", "tag [[br]] tag"},
		{"star", "2*3 = 6", "*", "2[*]3 = 6"},
		{"backslash", `c:\dir`, `\`, `c:[\]dir`},
		{"pipe", "a|b ab", "a|b", "[a|b] ab"},
	}
	mark := func(s string) string { return "[" + s + "]" }
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				assert.Equal(t, tt.want, Highlight(tt.text, tt.query, mark))
			})
		})
	}
}

func TestHighlightNoMatch(t *testing.T) {
	assert.Equal(t, "Festival", Highlight("Festival", "xyz", nil))
}

func TestHighlightUnicode(t *testing.T) {
	got := Highlight("Workshop de Programação", "AÇÃO", func(s string) string { return "<" + s + ">" })
	assert.Equal(t, "Workshop de Program<ação>", got)
}

func TestMatchSpans(t *testing.T) {
	text := "banana"
	spans := MatchSpans(text, "an")
	assert.Equal(t, []Span{{1, 3}, {3, 5}}, spans)
	assert.Nil(t, MatchSpans(text, ""))
	assert.Nil(t, MatchSpans("", "an"))
}

func TestApplyIgnoresBadSpans(t *testing.T) {
	got := Apply("hello", []Span{{0, 1}, {0, 2}, {3, 99}}, func(s string) string { return strings.ToUpper(s) })
	assert.Equal(t, "Hello", got)
}

func TestContainsFold(t *testing.T) {
	assert.True(t, ContainsFold("Harry Potter", "har"))
	assert.True(t, ContainsFold("anything", ""))
	assert.False(t, ContainsFold("The Hobbit", "har"))
}
