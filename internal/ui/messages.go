package ui

import (
	"time"

	"quotedesk/internal/config"
	"quotedesk/internal/eventbus"
)

// EventMsg wraps a domain event for the UI
type EventMsg struct {
	Event eventbus.DomainEvent
}

// ConfigReloadedMsg carries a configuration re-read from disk
type ConfigReloadedMsg struct {
	Config *config.Config
}

// SystemThemeMsg reports an OS light/dark change
type SystemThemeMsg struct {
	Theme string
}

// tickMsg is sent on a timer for animations
type tickMsg time.Time

// clearStatusMsg expires the status message set under seq
type clearStatusMsg struct {
	seq int
}

// filterTickMsg fires when the debounce window of a query edit closes
type filterTickMsg struct {
	seq   int
	query string
}

// pagerMsg contains the result of a pager command
type pagerMsg struct {
	err error
}

// quitMsg signals that the application should quit
type quitMsg struct{}

// pauseRenderingMsg signals to pause Bubble Tea rendering
type pauseRenderingMsg struct{}

// resumeRenderingMsg signals to resume Bubble Tea rendering
type resumeRenderingMsg struct{}
