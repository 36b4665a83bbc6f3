package navigation

// Service moves a cursor over a list of a known length and keeps it inside
// the visible window.
type Service struct {
	state   *State
	queryFn func() int // returns the list length
}

// NewService creates a new navigation service
func NewService() *Service {
	return &Service{
		state: &State{
			ViewportHeight: 20, // replaced on the first resize
			MaxIndex:       -1,
		},
	}
}

// SetQueryFunction sets the function returning the list length
func (s *Service) SetQueryFunction(fn func() int) {
	s.queryFn = fn
	s.refresh()
}

func (s *Service) GetCursor() int {
	return s.state.Cursor
}

func (s *Service) GetViewportOffset() int {
	return s.state.ViewportOffset
}

func (s *Service) GetViewportHeight() int {
	return s.state.ViewportHeight
}

// SetViewportHeight updates the number of visible rows
func (s *Service) SetViewportHeight(height int) {
	if height < 1 {
		height = 1
	}
	s.state.ViewportHeight = height
	s.ensureVisible()
}

// Navigate handles navigation in a direction
func (s *Service) Navigate(direction Direction) {
	s.refresh()
	switch direction {
	case DirectionUp:
		s.moveUp()
	case DirectionDown:
		s.moveDown()
	case DirectionPageUp:
		s.pageUp()
	case DirectionPageDown:
		s.pageDown()
	case DirectionHome:
		s.moveToStart()
	case DirectionEnd:
		s.moveToEnd()
	}
}

// MoveToIndex moves cursor to specific index
func (s *Service) MoveToIndex(index int) {
	s.refresh()
	s.state.Cursor = s.clampIndex(index)
	s.ensureVisible()
}

// Clamp pulls the cursor back inside the list after it shrank
func (s *Service) Clamp() {
	s.MoveToIndex(s.state.Cursor)
}

// Reset moves the cursor to the top
func (s *Service) Reset() {
	s.state.Cursor = 0
	s.state.ViewportOffset = 0
}

func (s *Service) moveUp() {
	if s.state.Cursor > 0 {
		s.state.Cursor--
		s.ensureVisible()
	}
}

func (s *Service) moveDown() {
	if s.state.Cursor < s.state.MaxIndex {
		s.state.Cursor++
		s.ensureVisible()
	}
}

func (s *Service) pageUp() {
	pageSize := s.pageSize()
	s.state.Cursor = s.clampIndex(s.state.Cursor - pageSize)

	s.state.ViewportOffset -= pageSize
	if s.state.ViewportOffset < 0 {
		s.state.ViewportOffset = 0
	}
	s.ensureVisible()
}

func (s *Service) pageDown() {
	s.state.Cursor = s.clampIndex(s.state.Cursor + s.pageSize())
	s.ensureVisible()
}

func (s *Service) moveToStart() {
	s.state.Cursor = 0
	s.state.ViewportOffset = 0
}

func (s *Service) moveToEnd() {
	s.state.Cursor = s.clampIndex(s.state.MaxIndex)
	s.ensureVisible()
}

func (s *Service) pageSize() int {
	if s.state.ViewportHeight > 1 {
		return s.state.ViewportHeight - 1
	}
	return 1
}

func (s *Service) refresh() {
	if s.queryFn != nil {
		s.state.MaxIndex = s.queryFn() - 1
	}
}

func (s *Service) clampIndex(index int) int {
	if index > s.state.MaxIndex {
		index = s.state.MaxIndex
	}
	if index < 0 {
		return 0
	}
	return index
}

func (s *Service) ensureVisible() {
	if s.state.Cursor < s.state.ViewportOffset {
		s.state.ViewportOffset = s.state.Cursor
	} else if s.state.Cursor >= s.state.ViewportOffset+s.state.ViewportHeight {
		s.state.ViewportOffset = s.state.Cursor - s.state.ViewportHeight + 1
	}
	// keep the window full when the list shrinks below it
	if last := s.state.MaxIndex + 1 - s.state.ViewportHeight; s.state.ViewportOffset > last {
		s.state.ViewportOffset = last
	}
	if s.state.ViewportOffset < 0 {
		s.state.ViewportOffset = 0
	}
}
