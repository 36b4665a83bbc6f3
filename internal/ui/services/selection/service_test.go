package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToggle(t *testing.T) {
	s := NewService()

	assert.True(t, s.Toggle(4))
	assert.True(t, s.IsSelected(4))
	assert.False(t, s.Toggle(4))
	assert.False(t, s.HasSelection())
}

func TestSelectAllReplacesSelection(t *testing.T) {
	s := NewService()
	s.Toggle(99)

	s.SelectAll([]int{3, 1, 2})
	assert.Equal(t, []int{1, 2, 3}, s.GetSelected())
	assert.Equal(t, 3, s.GetCount())

	s.DeselectAll()
	assert.Empty(t, s.GetSelected())
}

func TestRetainDropsVanishedIDs(t *testing.T) {
	s := NewService()
	s.SelectAll([]int{1, 2, 3})

	s.Retain([]int{2, 3, 4})
	assert.Equal(t, []int{2, 3}, s.GetSelected())
}
