package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/crmlite/crm/internal/core/ports"
)

const slotPrefix = "crm:"

// SlotStore keeps each slot as one string key. Keys never expire.
type SlotStore struct {
	client *redis.Client
}

func NewSlotStore(client *redis.Client) *SlotStore {
	return &SlotStore{client: client}
}

func (s *SlotStore) Get(ctx context.Context, slot string) ([]byte, error) {
	payload, err := s.client.Get(ctx, slotKey(slot)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ports.ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", slot, classify(err))
	}
	return payload, nil
}

func (s *SlotStore) Put(ctx context.Context, slot string, payload []byte) error {
	if err := s.client.Set(ctx, slotKey(slot), payload, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", slot, classify(err))
	}
	return nil
}

func (s *SlotStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func slotKey(slot string) string { return slotPrefix + slot }
