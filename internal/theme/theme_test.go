package theme

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSwitcherToggleCycles(t *testing.T) {
	s := NewSwitcher([]string{Light, Dark}, Light)
	assert.Equal(t, Light, s.Current())
	assert.Equal(t, Dark, s.Toggle())
	assert.Equal(t, Light, s.Toggle())
}

func TestSwitcherSingleEntryIsFixed(t *testing.T) {
	s := NewSwitcher([]string{Dark}, "")
	assert.Equal(t, Dark, s.Toggle())
	assert.Equal(t, Dark, s.Current())
}

func TestSwitcherUnknownCurrentFallsBack(t *testing.T) {
	s := NewSwitcher([]string{Dark, Light}, "solarized")
	assert.Equal(t, Dark, s.Current())
}

func TestSwitcherDropsUnknownAndDuplicates(t *testing.T) {
	s := NewSwitcher([]string{"neon", Dark, Dark, Light}, Light)
	assert.Equal(t, []string{Dark, Light}, s.Cycle())
	assert.Equal(t, Light, s.Current())

	empty := NewSwitcher(nil, "")
	assert.Equal(t, []string{Light, Dark}, empty.Cycle())
}

func TestSwitcherSet(t *testing.T) {
	s := NewSwitcher([]string{Light, Dark}, Light)
	require.NoError(t, s.Set(Dark))
	assert.Equal(t, Dark, s.Current())

	assert.Error(t, s.Set("neon"))
	assert.Equal(t, Dark, s.Current())

	pinned := NewSwitcher([]string{Dark}, Dark)
	assert.Error(t, pinned.Set(Light))
}

func TestPaletteFor(t *testing.T) {
	assert.Equal(t, Light, PaletteFor(Light).Name)
	assert.Equal(t, Dark, PaletteFor("nope").Name)
	assert.NotEqual(t, PaletteFor(Light).Highlight, PaletteFor(Dark).Highlight)
}

func TestFromDark(t *testing.T) {
	assert.Equal(t, Dark, FromDark(true))
	assert.Equal(t, Light, FromDark(false))
}

func TestWatcherForwardsAndDrops(t *testing.T) {
	w := newWatcher()
	events := make(chan bool)
	errs := make(chan error)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.loop(ctx, cancel, events, errs)
		close(done)
	}()

	events <- true
	events <- false // dropped, the first change is unread
	assert.Equal(t, Dark, <-w.Changes())

	events <- false
	assert.Equal(t, Light, <-w.Changes())

	w.Close()
	w.Close()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("watcher loop did not stop")
	}
}
