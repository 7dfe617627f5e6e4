package filterstate

import (
	"sync"
	"time"
)

type sessionEntry struct {
	state   *State
	touched time.Time
}

// Store keeps one filter State per session id. States are created empty on
// first touch and evicted after the idle ttl, they are never persisted.
type Store struct {
	mu     sync.Mutex
	source CategorySource
	states map[int]*sessionEntry
	ttl    time.Duration
	done   chan struct{}
}

func NewStore(source CategorySource, ttl time.Duration) *Store {
	s := &Store{
		source: source,
		states: map[int]*sessionEntry{},
		ttl:    ttl,
		done:   make(chan struct{}),
	}
	go s.evictLoop()
	return s
}

// Get returns the session's state, creating an empty one when missing.
func (s *Store) Get(sessionId int) *State {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.states[sessionId]
	if !ok {
		entry = &sessionEntry{state: NewState(s.source)}
		s.states[sessionId] = entry
	}
	entry.touched = time.Now()
	return entry.state
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.states)
}

func (s *Store) Close() {
	close(s.done)
}

func (s *Store) evictLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.evictIdle(time.Now())
		}
	}
}

func (s *Store) evictIdle(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, entry := range s.states {
		if now.Sub(entry.touched) > s.ttl {
			delete(s.states, id)
		}
	}
}
