// Package theme holds the color palettes and the light/dark switcher.
package theme

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/charmbracelet/lipgloss"
	dark "github.com/thiagokokada/dark-mode-go"

	"quotedesk/internal/logging"
)

var themeLog = logging.ForComponent(logging.CompTheme)

// Theme names
const (
	Light = "light"
	Dark  = "dark"
)

// Palette is the set of colors the views are styled with
type Palette struct {
	Name      string
	Title     lipgloss.Color
	Accent    lipgloss.Color
	Text      lipgloss.Color
	Muted     lipgloss.Color
	Highlight lipgloss.Color
	Selection lipgloss.Color
	Border    lipgloss.Color
	Error     lipgloss.Color
	Warning   lipgloss.Color
	Success   lipgloss.Color
}

var palettes = map[string]Palette{
	Dark: {
		Name:      Dark,
		Title:     "99",
		Accent:    "214",
		Text:      "252",
		Muted:     "241",
		Highlight: "226",
		Selection: "238",
		Border:    "241",
		Error:     "203",
		Warning:   "214",
		Success:   "78",
	},
	Light: {
		Name:      Light,
		Title:     "55",
		Accent:    "166",
		Text:      "235",
		Muted:     "245",
		Highlight: "160",
		Selection: "254",
		Border:    "250",
		Error:     "160",
		Warning:   "130",
		Success:   "28",
	},
}

// Known reports whether name has a palette
func Known(name string) bool {
	_, ok := palettes[name]
	return ok
}

// PaletteFor returns the palette of name, or the dark palette when unknown
func PaletteFor(name string) Palette {
	if p, ok := palettes[name]; ok {
		return p
	}
	return palettes[Dark]
}

// Switcher cycles through a fixed list of themes. A single-entry cycle pins
// the theme. Safe for concurrent use.
type Switcher struct {
	mu    sync.Mutex
	cycle []string
	pos   int
}

// NewSwitcher builds a switcher over cycle, starting at current.
// Unknown names are dropped from the cycle; an unknown current falls back
// to the first entry.
func NewSwitcher(cycle []string, current string) *Switcher {
	var valid []string
	for _, name := range cycle {
		if Known(name) && !slices.Contains(valid, name) {
			valid = append(valid, name)
		}
	}
	if len(valid) == 0 {
		valid = []string{Light, Dark}
	}
	s := &Switcher{cycle: valid}
	if i := slices.Index(valid, current); i >= 0 {
		s.pos = i
	} else if current != "" {
		themeLog.Warn("unknown_theme", slog.String("theme", current), slog.String("fallback", valid[0]))
	}
	return s
}

// Current returns the active theme name
func (s *Switcher) Current() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cycle[s.pos]
}

// Cycle returns the themes in switching order
func (s *Switcher) Cycle() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.cycle)
}

// Toggle advances to the next theme and returns it
func (s *Switcher) Toggle() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pos = (s.pos + 1) % len(s.cycle)
	return s.cycle[s.pos]
}

// Set selects name. It fails when name is not part of the cycle.
func (s *Switcher) Set(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.Index(s.cycle, name)
	if i < 0 {
		return fmt.Errorf("theme %q is not in the cycle %v", name, s.cycle)
	}
	s.pos = i
	return nil
}

// Detect returns the theme matching the OS appearance. ok is false when
// the platform can't tell.
func Detect() (string, bool) {
	isDark, err := dark.IsDarkMode()
	if err != nil {
		themeLog.Debug("detect_failed", slog.String("error", err.Error()))
		return "", false
	}
	return FromDark(isDark), true
}

// FromDark maps an OS dark-mode flag to a theme name
func FromDark(isDark bool) string {
	if isDark {
		return Dark
	}
	return Light
}
