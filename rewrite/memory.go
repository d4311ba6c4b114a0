package rewrite

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory Store with set semantics per mapping. It is
// safe for concurrent use and is intended for tests and local tooling.
type MemoryStore struct {
	mu       sync.RWMutex
	mappings map[string][]Mapping
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		mappings: make(map[string][]Mapping),
	}
}

func (s *MemoryStore) Mappings(_ context.Context, address string) ([]Mapping, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	mappings := make([]Mapping, len(s.mappings[address]))
	copy(mappings, s.mappings[address])
	return mappings, nil
}

func (s *MemoryStore) AllMappings(_ context.Context) (map[string][]Mapping, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make(map[string][]Mapping, len(s.mappings))
	for address, mappings := range s.mappings {
		copied := make([]Mapping, len(mappings))
		copy(copied, mappings)
		all[address] = copied
	}
	return all, nil
}

func (s *MemoryStore) AddMapping(_ context.Context, address string, mapping Mapping) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.mappings[address] {
		if existing == mapping {
			return nil
		}
	}
	s.mappings[address] = append(s.mappings[address], mapping)
	return nil
}

func (s *MemoryStore) RemoveMapping(_ context.Context, address string, mapping Mapping) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	mappings := s.mappings[address]
	for i, existing := range mappings {
		if existing == mapping {
			s.mappings[address] = append(mappings[:i], mappings[i+1:]...)
			if len(s.mappings[address]) == 0 {
				delete(s.mappings, address)
			}
			return nil
		}
	}
	return nil
}

// MemoryUserDirectory is an in-memory UserDirectory for tests and local
// tooling.
type MemoryUserDirectory struct {
	mu    sync.RWMutex
	users map[string]struct{}
}

func NewMemoryUserDirectory(addresses ...string) *MemoryUserDirectory {
	d := &MemoryUserDirectory{
		users: make(map[string]struct{}, len(addresses)),
	}
	for _, address := range addresses {
		d.users[address] = struct{}{}
	}
	return d
}

// AddUser registers an address as an existing user.
func (d *MemoryUserDirectory) AddUser(address string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.users[address] = struct{}{}
}

func (d *MemoryUserDirectory) Exists(_ context.Context, address string) (bool, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.users[address]
	return ok, nil
}
