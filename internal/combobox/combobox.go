package combobox

// Combobox pairs a text source with a filtered suggestion list. It is driven
// from a single goroutine (the UI update loop).
type Combobox struct {
	name       string
	opts       Options
	candidates []string

	source     Source
	detach     func()
	suppressed bool

	suggestions []Suggestion
	cursor      int
	open        bool
}

// New creates a detached combobox over candidates.
func New(name string, candidates []string, opts Options) *Combobox {
	c := &Combobox{name: name, opts: opts.withDefaults(), cursor: -1}
	c.SetCandidates(candidates)
	return c
}

// Name identifies the combobox (e.g. "customer").
func (c *Combobox) Name() string { return c.name }

// SetCandidates replaces the vocabulary and refreshes an open list.
func (c *Combobox) SetCandidates(candidates []string) {
	c.candidates = append(c.candidates[:0:0], candidates...)
	if c.open {
		c.Update(c.value())
	}
}

// Candidates returns the vocabulary.
func (c *Combobox) Candidates() []string {
	return append([]string(nil), c.candidates...)
}

// AddCandidate appends name unless it is already present ignoring case.
func (c *Combobox) AddCandidate(name string) {
	if _, ok := ExactMatch(c.candidates, name); ok {
		return
	}
	c.candidates = append(c.candidates, name)
}

// Attach binds the combobox to src. Any previous binding is released first,
// so attaching repeatedly never stacks listeners.
func (c *Combobox) Attach(src Source) {
	c.Detach()
	c.source = src
	c.detach = src.Subscribe(func(value string) {
		if c.suppressed {
			return
		}
		c.Update(value)
	})
}

// Detach releases the current source, if any, and closes the list.
func (c *Combobox) Detach() {
	if c.detach != nil {
		c.detach()
	}
	c.detach = nil
	c.source = nil
	c.Close()
}

// Attached reports whether a source is bound.
func (c *Combobox) Attached() bool { return c.source != nil }

// Update refilters for value and opens the list.
func (c *Combobox) Update(value string) {
	c.suggestions = Suggest(c.candidates, value, c.opts)
	c.open = true
	if len(c.suggestions) == 0 {
		c.cursor = -1
	} else {
		c.cursor = 0
	}
}

// Show opens the list for the source's current value.
func (c *Combobox) Show() {
	c.Update(c.value())
}

// Close hides the list.
func (c *Combobox) Close() {
	c.open = false
	c.suggestions = nil
	c.cursor = -1
}

// IsOpen reports whether the list is shown.
func (c *Combobox) IsOpen() bool { return c.open }

// Suggestions returns the visible entries.
func (c *Combobox) Suggestions() []Suggestion { return c.suggestions }

// Cursor returns the highlighted entry index, or -1.
func (c *Combobox) Cursor() int { return c.cursor }

// Next moves the highlight down, wrapping around.
func (c *Combobox) Next() {
	if len(c.suggestions) == 0 {
		return
	}
	c.cursor = (c.cursor + 1) % len(c.suggestions)
}

// Prev moves the highlight up, wrapping around.
func (c *Combobox) Prev() {
	if len(c.suggestions) == 0 {
		return
	}
	c.cursor = (c.cursor - 1 + len(c.suggestions)) % len(c.suggestions)
}

// Selected returns the highlighted entry.
func (c *Combobox) Selected() (Suggestion, bool) {
	if !c.open || c.cursor < 0 || c.cursor >= len(c.suggestions) {
		return Suggestion{}, false
	}
	return c.suggestions[c.cursor], true
}

// Accept takes the highlighted entry, writes its value back to the source
// when the source is writable, and closes the list.
func (c *Combobox) Accept() (Suggestion, bool) {
	s, ok := c.Selected()
	if !ok {
		return Suggestion{}, false
	}
	if w, writable := c.source.(interface{ Set(string) }); writable {
		c.suppressed = true
		w.Set(s.Value)
		c.suppressed = false
	}
	c.Close()
	return s, true
}

// ExactMatch returns the candidate equal to input ignoring case.
func (c *Combobox) ExactMatch(input string) (string, bool) {
	return ExactMatch(c.candidates, input)
}

func (c *Combobox) value() string {
	if c.source == nil {
		return ""
	}
	return c.source.Value()
}
