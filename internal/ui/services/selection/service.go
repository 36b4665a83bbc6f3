package selection

import "sort"

// Service tracks which records of a list are selected, by record id
type Service struct {
	state *State
}

// NewService creates a new selection service
func NewService() *Service {
	return &Service{
		state: &State{
			Selected:     make(map[int]bool),
			LastSelected: -1,
		},
	}
}

// Toggle flips the selection of id and reports whether it is now selected
func (s *Service) Toggle(id int) bool {
	s.state.LastSelected = id
	if s.state.Selected[id] {
		delete(s.state.Selected, id)
		return false
	}
	s.state.Selected[id] = true
	return true
}

// SelectAll selects exactly ids
func (s *Service) SelectAll(ids []int) {
	s.state.Selected = make(map[int]bool, len(ids))
	for _, id := range ids {
		s.state.Selected[id] = true
	}
}

// DeselectAll clears all selections
func (s *Service) DeselectAll() {
	s.state.Selected = make(map[int]bool)
	s.state.LastSelected = -1
}

func (s *Service) IsSelected(id int) bool {
	return s.state.Selected[id]
}

// GetSelected returns the selected ids in ascending order
func (s *Service) GetSelected() []int {
	selected := make([]int, 0, len(s.state.Selected))
	for id := range s.state.Selected {
		selected = append(selected, id)
	}
	sort.Ints(selected)
	return selected
}

func (s *Service) GetCount() int {
	return len(s.state.Selected)
}

func (s *Service) HasSelection() bool {
	return len(s.state.Selected) > 0
}

// Retain drops every selected id that is not in ids, e.g. after a reload
func (s *Service) Retain(ids []int) {
	keep := make(map[int]bool, len(ids))
	for _, id := range ids {
		keep[id] = true
	}
	for id := range s.state.Selected {
		if !keep[id] {
			delete(s.state.Selected, id)
		}
	}
}
