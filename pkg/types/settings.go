package types

import "sync"

type Settings struct {
	mu              sync.RWMutex
	SuggestLimit    int `json:"suggestLimit"`
	CacheTtlSeconds int `json:"cacheTtlSeconds"`
	SessionTtlHours int `json:"sessionTtlHours"`
}

var CurrentSettings = &Settings{
	SuggestLimit:    10,
	CacheTtlSeconds: 120,
	SessionTtlHours: 4,
}

func (s *Settings) Lock() {
	s.mu.Lock()
}

func (s *Settings) Unlock() {
	s.mu.Unlock()
}

func (s *Settings) RLock() {
	s.mu.RLock()
}

func (s *Settings) RUnlock() {
	s.mu.RUnlock()
}
