package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/domino14/checkers/neural"
)

// MemoryStore keeps everything in maps. Networks are immutable, so they are
// stored by reference.
type MemoryStore struct {
	mu      sync.RWMutex
	current map[int]*neural.Network
	history map[int][]*neural.Network
	next    int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		current: map[int]*neural.Network{},
		history: map[int][]*neural.Network{},
	}
}

func (s *MemoryStore) LoadCurrent(ctx context.Context, idx int) (*neural.Network, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, ok := s.current[idx]
	if !ok {
		return nil, fmt.Errorf("current %d: %w", idx, ErrNotFound)
	}
	return n, nil
}

func (s *MemoryStore) SaveCurrent(ctx context.Context, idx int, n *neural.Network) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current[idx] = n
	return nil
}

func (s *MemoryStore) SaveGeneration(ctx context.Context, gen int, population []*neural.Network) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history[gen] = append([]*neural.Network(nil), population...)
	return nil
}

func (s *MemoryStore) LoadIndividual(ctx context.Context, gen, idx int) (*neural.Network, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pop, ok := s.history[gen]
	if !ok || idx < 0 || idx >= len(pop) {
		return nil, fmt.Errorf("generation %d individual %d: %w", gen, idx, ErrNotFound)
	}
	return pop[idx], nil
}

func (s *MemoryStore) NextGeneration(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.next, nil
}

func (s *MemoryStore) SetNextGeneration(ctx context.Context, gen int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next = gen
	return nil
}

// Generations counts the generations with a saved snapshot.
func (s *MemoryStore) Generations() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.history)
}

func (s *MemoryStore) Close() error {
	return nil
}
