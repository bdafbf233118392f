// Package artifacts holds the output files of a build while producers are
// still writing them, and hands consumers a consistent view of their sizes.
package artifacts

import "sync"

// Source is anything that can produce a point-in-time view of artifact
// names and their byte lengths.
type Source interface {
	Snapshot() map[string]uint64
}

// Store is a name-keyed set of artifacts safe for concurrent producers.
type Store struct {
	mu        sync.RWMutex
	resources map[string][]byte
}

func NewStore() *Store {
	return &Store{resources: map[string][]byte{}}
}

// Put adds or replaces the artifact stored under name.
func (s *Store) Put(name string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resources[name] = data
}

func (s *Store) Remove(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.resources, name)
}

func (s *Store) Get(name string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.resources[name]
	return data, ok
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.resources)
}

// Snapshot copies out the size of every artifact. The read lock is held only
// while copying.
func (s *Store) Snapshot() map[string]uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sizes := make(map[string]uint64, len(s.resources))
	for name, data := range s.resources {
		sizes[name] = uint64(len(data))
	}
	return sizes
}

// Sizes is a fixed artifact set, useful when sizes are already known.
type Sizes map[string]uint64

func (s Sizes) Snapshot() map[string]uint64 {
	sizes := make(map[string]uint64, len(s))
	for name, size := range s {
		sizes[name] = size
	}
	return sizes
}
