// Package session keeps the client's cached belief about who is signed in.
//
// The state is mirrored to durable storage on every mutation so a later
// invocation starts from the same place. The server stays authoritative:
// bindings and the response interceptor reconcile this cache with what the
// API reports.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/AyloRyd/taskhub/internal/models"
)

// Durable storage keys
const (
	AuthKey = "auth"
	UserKey = "user"
)

// ErrCorruptState is returned by Load when the stored profile cannot be decoded
var ErrCorruptState = errors.New("stored session is corrupt")

// Storage is the durable key/value store backing the session
type Storage interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Remove(keys ...string) error
}

// State is a snapshot of the session
type State struct {
	IsAuthenticated bool
	User            *models.Profile
}

// Store is the single source of truth for the local session.
// It is safe for concurrent use; concurrent writers are last-write-wins.
type Store struct {
	mu      sync.RWMutex
	storage Storage
	state   State

	listenerMu sync.Mutex
	listeners  map[int]func(State)
	nextID     int
}

// Load reads the session from storage. Missing keys yield a signed-out session.
func Load(storage Storage) (*Store, error) {
	s := &Store{
		storage:   storage,
		listeners: make(map[int]func(State)),
	}

	auth, _, err := storage.Get(AuthKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}
	s.state.IsAuthenticated = auth == "true"

	raw, ok, err := storage.Get(UserKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}
	if ok {
		var user models.Profile
		if err := json.Unmarshal([]byte(raw), &user); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorruptState, err)
		}
		s.state.User = &user
	}

	return s, nil
}

// Reset removes the session keys from storage without decoding them
func Reset(storage Storage) error {
	return storage.Remove(AuthKey, UserKey)
}

// State returns a copy of the current session
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot()
}

// IsAuthenticated reports the cached authentication flag
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.IsAuthenticated
}

// User returns a copy of the cached profile, or nil
func (s *Store) User() *models.Profile {
	return s.State().User
}

// SetAuthenticated writes the flag. false removes the key.
func (s *Store) SetAuthenticated(value bool) error {
	s.mu.Lock()

	var err error
	if value {
		err = s.storage.Set(AuthKey, "true")
	} else {
		err = s.storage.Remove(AuthKey)
	}
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to persist auth flag: %w", err)
	}

	s.state.IsAuthenticated = value
	snap := s.snapshot()
	s.mu.Unlock()

	s.notify(snap)
	return nil
}

// SetUser writes the profile. nil removes the key.
func (s *Store) SetUser(user *models.Profile) error {
	s.mu.Lock()

	var err error
	if user != nil {
		var data []byte
		data, err = json.Marshal(user)
		if err == nil {
			err = s.storage.Set(UserKey, string(data))
		}
	} else {
		err = s.storage.Remove(UserKey)
	}
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to persist user: %w", err)
	}

	if user != nil {
		u := *user
		s.state.User = &u
	} else {
		s.state.User = nil
	}
	snap := s.snapshot()
	s.mu.Unlock()

	s.notify(snap)
	return nil
}

// Logout clears both keys and the in-memory state. Calling it when already
// signed out is a no-op apart from re-removing the keys.
func (s *Store) Logout() error {
	s.mu.Lock()

	if err := Reset(s.storage); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to clear session: %w", err)
	}

	s.state = State{}
	snap := s.snapshot()
	s.mu.Unlock()

	s.notify(snap)
	return nil
}

// Subscribe registers fn to run after every successful mutation.
// The returned func removes the listener.
func (s *Store) Subscribe(fn func(State)) func() {
	s.listenerMu.Lock()
	defer s.listenerMu.Unlock()

	id := s.nextID
	s.nextID++
	s.listeners[id] = fn

	return func() {
		s.listenerMu.Lock()
		defer s.listenerMu.Unlock()
		delete(s.listeners, id)
	}
}

func (s *Store) notify(state State) {
	s.listenerMu.Lock()
	fns := make([]func(State), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.listenerMu.Unlock()

	for _, fn := range fns {
		fn(state)
	}
}

// snapshot must be called with mu held
func (s *Store) snapshot() State {
	snap := State{IsAuthenticated: s.state.IsAuthenticated}
	if s.state.User != nil {
		u := *s.state.User
		snap.User = &u
	}
	return snap
}
