package session

import (
	"sync"

	"github.com/cbydainnt/mygraduationproject/internal/gateway"
)

// EventType marks a change in authentication state.
type EventType int

const (
	LoginEvent EventType = iota
	LogoutEvent
)

// Event is delivered to subscribed listeners on every auth-state change.
type Event struct {
	Type   EventType
	UserID int64
}

// Listener receives auth-state change events. Listeners run on the calling
// goroutine, so they must not block for long.
type Listener func(Event)

// State holds the current session: bearer token, user id, and the listeners
// interested in changes. Constructed once at application start and injected
// wherever auth state is needed.
type State struct {
	mu        sync.RWMutex
	token     string
	userID    int64
	listeners []Listener
}

func NewState() *State {
	return &State{}
}

// Subscribe registers a listener for subsequent auth-state changes.
func (s *State) Subscribe(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

// Login records a new authenticated session and notifies listeners.
func (s *State) Login(token string, userID int64) {
	s.mu.Lock()
	s.token = token
	s.userID = userID
	listeners := append([]Listener(nil), s.listeners...)
	s.mu.Unlock()

	for _, l := range listeners {
		l(Event{Type: LoginEvent, UserID: userID})
	}
}

// Logout drops the session and notifies listeners.
func (s *State) Logout() {
	s.mu.Lock()
	userID := s.userID
	s.token = ""
	s.userID = 0
	listeners := append([]Listener(nil), s.listeners...)
	s.mu.Unlock()

	for _, l := range listeners {
		l(Event{Type: LogoutEvent, UserID: userID})
	}
}

// Authed reports whether a session is active.
func (s *State) Authed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != ""
}

// UserID returns the signed-in user, zero for guests.
func (s *State) UserID() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userID
}

// Token implements gateway.TokenSource.
func (s *State) Token() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == "" {
		return "", gateway.ErrUnauthorized
	}
	return s.token, nil
}
