package track

import "sync"

// SessionStore persists small string values for the lifetime of one
// browsing session. Implementations may fail or be absent entirely; the
// emitter treats every operation as best-effort.
type SessionStore interface {
	Get(key string) (string, bool)
	Set(key, value string)
}

// MemorySession is the in-process SessionStore. It also stands in when
// no durable session storage is available.
type MemorySession struct {
	mu sync.Mutex
	m  map[string]string
}

func NewMemorySession() *MemorySession {
	return &MemorySession{m: make(map[string]string)}
}

func (s *MemorySession) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.m[key]
	return v, ok
}

func (s *MemorySession) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key] = value
}
