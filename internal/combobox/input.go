package combobox

import "sync"

// Listener is called with the new value of an Input.
type Listener func(value string)

// Source is anything a Combobox can listen to.
type Source interface {
	Value() string
	Subscribe(fn Listener) (unsubscribe func())
}

// Input is a text value that notifies listeners on change. Listeners run in
// subscription order.
type Input struct {
	mu     sync.Mutex
	value  string
	nextID int
	subs   []inputSub
}

type inputSub struct {
	id int
	fn Listener
}

// NewInput creates an Input holding value.
func NewInput(value string) *Input {
	return &Input{value: value}
}

// Value returns the current text.
func (in *Input) Value() string {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.value
}

// Set replaces the text and notifies listeners when it changed.
func (in *Input) Set(value string) {
	in.mu.Lock()
	if value == in.value {
		in.mu.Unlock()
		return
	}
	in.value = value
	subs := make([]inputSub, len(in.subs))
	copy(subs, in.subs)
	in.mu.Unlock()

	for _, s := range subs {
		s.fn(value)
	}
}

// Subscribe registers fn. The returned func removes it and may be called
// more than once.
func (in *Input) Subscribe(fn Listener) func() {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.nextID++
	id := in.nextID
	in.subs = append(in.subs, inputSub{id: id, fn: fn})

	return func() {
		in.mu.Lock()
		defer in.mu.Unlock()
		for i, s := range in.subs {
			if s.id == id {
				in.subs = append(in.subs[:i:i], in.subs[i+1:]...)
				return
			}
		}
	}
}

// Listeners returns the number of registered listeners.
func (in *Input) Listeners() int {
	in.mu.Lock()
	defer in.mu.Unlock()
	return len(in.subs)
}
