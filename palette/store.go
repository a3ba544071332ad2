package palette

import (
	"fmt"
	"sort"
	"sync"
)

// Store is a registry of named palettes. It's safe for concurrent use: reads
// may happen from any number of render jobs while a palette is registered.
type Store struct {
	mu       sync.RWMutex
	palettes map[string][]Color
}

// NewStore returns a store holding all the built-in presets.
func NewStore() *Store {
	s := NewEmptyStore()
	for name, colors := range presets {
		if err := s.Register(name, colors); err != nil {
			// Presets are fixed at compile time
			panic(err)
		}
	}
	return s
}

// NewEmptyStore returns a store with no palettes.
func NewEmptyStore() *Store {
	return &Store{palettes: make(map[string][]Color)}
}

// Get returns the palette registered under name. The returned palette has its
// own copy of the colors, so a later Register under the same name won't
// change it.
func (s *Store) Get(name string) (*Palette, error) {
	s.mu.RLock()
	colors, ok := s.palettes[name]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: '%s'", ErrUnknown, name)
	}
	// The stored slice is never written to after Register, so copying outside
	// the lock is fine.
	return &Palette{
		Name:   name,
		Colors: append([]Color(nil), colors...),
	}, nil
}

// Register validates colors and stores a copy of them under name, replacing
// any palette already there.
func (s *Store) Register(name string, colors []Color) error {
	if err := validate(colors); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	c := append([]Color(nil), colors...)
	s.mu.Lock()
	s.palettes[name] = c
	s.mu.Unlock()
	return nil
}

// Names returns the registered names in sorted order.
func (s *Store) Names() []string {
	s.mu.RLock()
	names := make([]string, 0, len(s.palettes))
	for name := range s.palettes {
		names = append(names, name)
	}
	s.mu.RUnlock()
	sort.Strings(names)
	return names
}
