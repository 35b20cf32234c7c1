// Package memory provides process-local implementations of the storage
// ports. Contents are lost on exit.
package memory

import (
	"context"
	"sync"

	"github.com/crmlite/crm/internal/core/ports"
)

// SlotStore keeps slot payloads in a map.
type SlotStore struct {
	mu    sync.RWMutex
	slots map[string][]byte
}

func NewSlotStore() *SlotStore {
	return &SlotStore{slots: make(map[string][]byte)}
}

func (s *SlotStore) Get(_ context.Context, slot string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	payload, ok := s.slots[slot]
	if !ok {
		return nil, ports.ErrSlotNotFound
	}
	return append([]byte(nil), payload...), nil
}

func (s *SlotStore) Put(_ context.Context, slot string, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots[slot] = append([]byte(nil), payload...)
	return nil
}

func (s *SlotStore) Ping(context.Context) error { return nil }
