package viewstate

import "sync"

// RenderFunc is invoked after every accepted transition, while the store lock
// is held, so the rendered output can never lag behind the state.
type RenderFunc func(next State, cause Intent)

// Store owns the current State and serialises transitions.
type Store struct {
	mu     sync.Mutex
	state  State
	render RenderFunc
}

// NewStore creates a store holding initial. render may be nil.
func NewStore(initial State, render RenderFunc) *Store {
	return &Store{state: initial, render: render}
}

// State returns the current state value.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Dispatch reduces in against the current state and, on success, installs
// the next state and re-renders. Rejected intents leave the state untouched
// and trigger no render.
func (s *Store) Dispatch(in Intent) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := Reduce(s.state, in)
	if err != nil {
		return s.state, err
	}
	s.state = next
	if s.render != nil {
		s.render(next, in)
	}
	return next, nil
}

// Refresh re-renders the current state without changing it.
func (s *Store) Refresh() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.render != nil {
		s.render(s.state, nil)
	}
	return s.state
}
