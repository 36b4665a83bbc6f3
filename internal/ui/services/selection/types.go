package selection

// State holds selection state
type State struct {
	Selected     map[int]bool // record ids
	LastSelected int
}
