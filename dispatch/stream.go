package dispatch

import (
	"sync"

	"goa.design/cq-runtime/message"
)

// Stream is the ordered mapping of message-type-name to the latest message
// of that type seen by one dispatch (spec.md §3). Insert never overwrites
// an existing key — a no-op report is how the Loop decides whether to
// (re-)enqueue jobs for that type (Open Question (iii)); Replace always
// overwrites, and is the mechanism an AUDIT actor uses to hand its
// (possibly unchanged) verdict back without re-triggering jobs already
// enqueued for the original message (spec.md §4.5).
type Stream struct {
	mu     sync.RWMutex
	values map[string]message.Message
}

// NewStream returns an empty Stream.
func NewStream() *Stream {
	return &Stream{values: make(map[string]message.Message)}
}

// Insert stores m under its type name if no value is stored there yet. It
// reports whether the key was new.
func (s *Stream) Insert(m message.Message) bool {
	key := message.TypeName(m)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.values[key]; exists {
		return false
	}
	s.values[key] = m
	return true
}

// Replace stores m under its type name unconditionally.
func (s *Stream) Replace(m message.Message) {
	key := message.TypeName(m)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = m
}

// Get returns the value stored under the given type name.
func (s *Stream) Get(typeName string) (message.Message, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.values[typeName]
	return m, ok
}

// Has reports whether the given type name has a stored value.
func (s *Stream) Has(typeName string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.values[typeName]
	return ok
}
