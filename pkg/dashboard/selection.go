package dashboard

// Selection tracks which vehicle the detail view shows and whether the map
// auto-follows it. It stores a single identifier plus a follow flag, so a
// followed vehicle can never diverge from the selected one.
type Selection struct {
	selectedRef string
	following   bool

	changed []func()
}

func NewSelection() *Selection {
	return &Selection{}
}

func (s *Selection) OnChange(handler func()) {
	s.changed = append(s.changed, handler)
}

// Select switches the selection to the given identifier. Any follow state
// belongs to the previous selection and is always cleared.
func (s *Selection) Select(id string) {
	s.selectedRef = id
	s.following = false
	s.notify()
}

// Close returns to the idle state with nothing selected.
func (s *Selection) Close() {
	if s.selectedRef == "" && !s.following {
		return
	}
	s.selectedRef = ""
	s.following = false
	s.notify()
}

// ToggleFollow flips follow mode for the current selection. With nothing
// selected there is nothing to follow, so the call does nothing.
func (s *Selection) ToggleFollow() {
	if s.selectedRef == "" {
		return
	}
	s.following = !s.following
	s.notify()
}

func (s *Selection) SelectedRef() (string, bool) {
	return s.selectedRef, s.selectedRef != ""
}

func (s *Selection) Following() bool {
	return s.following
}

// FollowedRef returns the identifier the map should track, which is always
// the selected vehicle when follow mode is on.
func (s *Selection) FollowedRef() (string, bool) {
	if !s.following {
		return "", false
	}
	return s.selectedRef, true
}

func (s *Selection) notify() {
	for _, handler := range s.changed {
		handler()
	}
}
