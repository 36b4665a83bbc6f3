package combobox

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuggestSubstringWithAddNew(t *testing.T) {
	got := Suggest([]string{"Harry Potter", "The Hobbit"}, "har", Options{})
	assert.Equal(t, []string{"Harry Potter", "+ Add New: \"har\""}, Labels(got))

	last := got[len(got)-1]
	assert.True(t, last.AddNew)
	assert.Equal(t, "har", last.Value)
}

func TestSuggestExactMatchSuppressesAddNew(t *testing.T) {
	got := Suggest([]string{"Harry Potter", "The Hobbit"}, "the hobbit", Options{})
	assert.Equal(t, []string{"The Hobbit"}, Labels(got))
}

func TestSuggestEmptyInputListsCandidatesWithoutAddNew(t *testing.T) {
	got := Suggest([]string{"a", "b"}, "", Options{})
	assert.Equal(t, []string{"a", "b"}, Labels(got))
}

func TestSuggestCapsAtLimitPreservingOrder(t *testing.T) {
	var candidates []string
	for i := 0; i < 15; i++ {
		candidates = append(candidates, fmt.Sprintf("Livro %02d", i))
	}
	got := Suggest(candidates, "livro", Options{})
	require.Len(t, got, DefaultLimit+1)
	assert.Equal(t, "Livro 00", got[0].Label)
	assert.Equal(t, "Livro 09", got[9].Label)
	assert.True(t, got[10].AddNew)

	got = Suggest(candidates, "livro", Options{Limit: 3})
	assert.Equal(t, []string{"Livro 00", "Livro 01", "Livro 02", "+ Add New: \"livro\""}, Labels(got))
}

func TestSuggestNoMatchesOnlyAddNew(t *testing.T) {
	got := Suggest([]string{"Ana"}, "Zé", Options{AddNewLabel: "Add New Customer"})
	assert.Equal(t, []string{"+ Add New Customer: \"Zé\""}, Labels(got))
}

func TestSuggestAddNewKeepsRawInput(t *testing.T) {
	got := Suggest(nil, "Dom Casmurro", Options{})
	require.Len(t, got, 1)
	assert.Equal(t, "Dom Casmurro", got[0].Value)
}

func TestExactMatch(t *testing.T) {
	name, ok := ExactMatch([]string{"Dom Casmurro"}, "dom casmurro")
	assert.True(t, ok)
	assert.Equal(t, "Dom Casmurro", name)

	_, ok = ExactMatch([]string{"Dom Casmurro"}, "dom")
	assert.False(t, ok)
}

func TestAttachIsIdempotent(t *testing.T) {
	in := NewInput("")
	cb := New("customer", []string{"Ana", "Bruno"}, Options{})

	cb.Attach(in)
	cb.Attach(in)
	cb.Attach(in)
	assert.Equal(t, 1, in.Listeners())

	in.Set("an")
	assert.True(t, cb.IsOpen())
	assert.Equal(t, []string{"Ana", "+ Add New: \"an\""}, Labels(cb.Suggestions()))
}

func TestReattachToNewSourceReleasesOld(t *testing.T) {
	a := NewInput("")
	b := NewInput("")
	cb := New("asset", []string{"Harry Potter"}, Options{})

	cb.Attach(a)
	cb.Attach(b)
	assert.Equal(t, 0, a.Listeners())
	assert.Equal(t, 1, b.Listeners())

	a.Set("harry")
	assert.False(t, cb.IsOpen())

	b.Set("harry")
	assert.True(t, cb.IsOpen())
}

func TestDetach(t *testing.T) {
	in := NewInput("")
	cb := New("asset", []string{"x"}, Options{})
	cb.Attach(in)
	cb.Detach()
	cb.Detach()

	assert.False(t, cb.Attached())
	assert.Equal(t, 0, in.Listeners())
}

func TestCursorWrapsAndAcceptWritesBack(t *testing.T) {
	in := NewInput("")
	cb := New("asset", []string{"Harry Potter", "Harpia"}, Options{})
	cb.Attach(in)

	in.Set("har")
	require.Len(t, cb.Suggestions(), 3)
	assert.Equal(t, 0, cb.Cursor())

	cb.Prev()
	assert.Equal(t, 2, cb.Cursor())
	cb.Next()
	cb.Next()
	assert.Equal(t, 1, cb.Cursor())

	s, ok := cb.Accept()
	require.True(t, ok)
	assert.Equal(t, "Harpia", s.Value)
	assert.Equal(t, "Harpia", in.Value())
	assert.False(t, cb.IsOpen(), "writing the accepted value must not reopen the list")
}

func TestAcceptWhenClosed(t *testing.T) {
	cb := New("asset", []string{"x"}, Options{})
	_, ok := cb.Accept()
	assert.False(t, ok)
}

func TestSetCandidatesRefreshesOpenList(t *testing.T) {
	in := NewInput("")
	cb := New("customer", nil, Options{})
	cb.Attach(in)
	in.Set("bru")
	assert.Equal(t, []string{"+ Add New: \"bru\""}, Labels(cb.Suggestions()))

	cb.SetCandidates([]string{"Bruno", "bru"})
	assert.Equal(t, []string{"Bruno", "bru"}, Labels(cb.Suggestions()))
}

func TestAddCandidateSkipsCaseDuplicates(t *testing.T) {
	cb := New("customer", []string{"Ana"}, Options{})
	cb.AddCandidate("ANA")
	cb.AddCandidate("Bia")
	assert.Equal(t, []string{"Ana", "Bia"}, cb.Candidates())
}

func TestInputSetSameValueDoesNotNotify(t *testing.T) {
	in := NewInput("x")
	calls := 0
	in.Subscribe(func(string) { calls++ })
	in.Set("x")
	in.Set("y")
	assert.Equal(t, 1, calls)
}
