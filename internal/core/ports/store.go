package ports

import (
	"context"
	"errors"
)

var (
	// ErrSlotNotFound is returned by SlotStore.Get when nothing was ever
	// written under the slot.
	ErrSlotNotFound = errors.New("slot not found")

	// ErrStorageUnavailable is returned when the backend cannot be reached
	// at all in the current process.
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// SlotStore is a durable key-value backend holding one text payload per
// named slot.
type SlotStore interface {
	Get(ctx context.Context, slot string) ([]byte, error)
	Put(ctx context.Context, slot string, payload []byte) error
}

// Pinger is implemented by backends that can report their own health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Serializer runs fn so that calls sharing the same key never overlap.
type Serializer interface {
	Do(ctx context.Context, key string, fn func(context.Context) error) error
}

// IDGenerator produces identifiers for new records.
type IDGenerator interface {
	NewID() string
}
