package carousel

import (
	"sync"

	"github.com/go-drift/carousel/pkg/imagesource"
)

// Slots is the fixed-length item arena.
//
// A slot is written only by the load completion for its own index, on the
// UI goroutine; readers on other goroutines see a consistent value.
type Slots struct {
	mu    sync.RWMutex
	items []any
}

// NewSlots copies items into a new arena.
func NewSlots(items []any) *Slots {
	return &Slots{items: append([]any(nil), items...)}
}

// Len returns the number of slots.
func (s *Slots) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Get returns the item at index i.
func (s *Slots) Get(i int) any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.items[i]
}

// Set replaces the item at index i.
func (s *Slots) Set(i int, v any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[i] = v
}

// Source resolves the item at index i.
func (s *Slots) Source(i int) imagesource.Source {
	return imagesource.Resolve(s.Get(i))
}
