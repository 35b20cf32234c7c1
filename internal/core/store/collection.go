package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/crmlite/crm/internal/core/ports"
	"github.com/crmlite/crm/internal/metrics"
)

// Collection is the ordered list of records of one kind kept in one slot.
type Collection[T any] struct {
	*Slot
	defaults func(*T)
}

// NewCollection returns a collection over slot name. defaults, when not nil,
// runs on every decoded record so optional fields missing from older data
// get their documented values.
func NewCollection[T any](name string, backend ports.SlotStore, serial ports.Serializer, log zerolog.Logger, defaults func(*T)) *Collection[T] {
	return &Collection[T]{
		Slot:     NewSlot(name, backend, serial, log),
		defaults: defaults,
	}
}

// Load returns the stored records in insertion order. Absent slots,
// unreachable backends and payloads of the wrong shape all read as an empty
// collection; the stored bytes are left untouched.
func (c *Collection[T]) Load(ctx context.Context) []T {
	records, err := c.load(ctx)
	switch {
	case errors.Is(err, ports.ErrStorageUnavailable):
		c.degraded("unavailable", err)
		return []T{}
	case err != nil:
		c.degraded("backend_error", err)
		return []T{}
	}
	return records
}

// load decodes the slot. Backend failures are returned as is; a payload of
// the wrong shape is counted and decodes as empty.
func (c *Collection[T]) load(ctx context.Context) ([]T, error) {
	payload, err := c.read(ctx)
	if err != nil {
		return nil, err
	}
	if payload == nil {
		return []T{}, nil
	}

	var records []T
	if err := json.Unmarshal(payload, &records); err != nil {
		c.degraded("parse_error", err)
		return []T{}, nil
	}
	if records == nil {
		return []T{}, nil
	}
	if c.defaults != nil {
		for i := range records {
			c.defaults(&records[i])
		}
	}
	return records, nil
}

// Save overwrites the slot with records.
func (c *Collection[T]) Save(ctx context.Context, records []T) error {
	if records == nil {
		records = []T{}
	}
	payload, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode %s: %w", c.name, err)
	}
	return c.write(ctx, payload)
}

// Mutate loads the collection, applies fn and saves the result when fn
// reports a change. The whole cycle runs under the slot's serializer.
// A failed read aborts before fn runs, so a backend outage never turns into
// an overwrite with an empty list. Unparseable payloads are still replaced.
func (c *Collection[T]) Mutate(ctx context.Context, op string, fn func([]T) ([]T, bool, error)) error {
	return c.serialize(ctx, func(ctx context.Context) error {
		current, err := c.load(ctx)
		if err != nil {
			return fmt.Errorf("read %s: %w", c.name, err)
		}
		next, changed, err := fn(current)
		if err != nil || !changed {
			return err
		}
		if err := c.Save(ctx, next); err != nil {
			return err
		}
		metrics.CollectionWritesTotal.WithLabelValues(c.name, op).Inc()
		return nil
	})
}
