// Package store maps record collections onto named slots of a SlotStore.
// Every read round-trips to the backend; nothing is cached between calls.
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

// Slot names of the four record kinds.
const (
	SlotClients  = "crm_clients"
	SlotServices = "crm_services"
	SlotQuotes   = "crm_quotes"
	SlotProjects = "crm_projects"
)

// AllSlots lists every slot in repair order.
var AllSlots = []string{SlotClients, SlotServices, SlotQuotes, SlotProjects}

// Slot reads and writes the raw JSON array held under one slot name.
type Slot struct {
	name    string
	backend ports.SlotStore
	serial  ports.Serializer
	log     zerolog.Logger
}

// NewSlot binds name to backend. A nil serializer runs mutations inline,
// which is only safe for single-goroutine callers.
func NewSlot(name string, backend ports.SlotStore, serial ports.Serializer, log zerolog.Logger) *Slot {
	return &Slot{
		name:    name,
		backend: backend,
		serial:  serial,
		log:     log.With().Str("slot", name).Logger(),
	}
}

// Name returns the slot name.
func (s *Slot) Name() string { return s.name }

// read fetches the payload. A nil payload with a nil error means the slot
// is absent.
func (s *Slot) read(ctx context.Context) ([]byte, error) {
	payload, err := s.backend.Get(ctx, s.name)
	if errors.Is(err, ports.ErrSlotNotFound) {
		return nil, nil
	}
	return payload, err
}

// LoadRaw returns the stored array element by element. An absent slot
// yields nil; unreadable or non-array payloads yield an error.
func (s *Slot) LoadRaw(ctx context.Context) ([]json.RawMessage, error) {
	payload, err := s.read(ctx)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.name, err)
	}
	if payload == nil {
		return nil, nil
	}
	var records []json.RawMessage
	if err := json.Unmarshal(payload, &records); err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.name, err)
	}
	return records, nil
}

// SaveRaw overwrites the slot with records.
func (s *Slot) SaveRaw(ctx context.Context, records []json.RawMessage) error {
	if records == nil {
		records = []json.RawMessage{}
	}
	payload, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode %s: %w", s.name, err)
	}
	return s.write(ctx, payload)
}

func (s *Slot) write(ctx context.Context, payload []byte) error {
	if err := s.backend.Put(ctx, s.name, payload); err != nil {
		return fmt.Errorf("write %s: %w", s.name, err)
	}
	return nil
}

// MutateRaw runs a read-modify-write over the raw records under the slot's
// serializer. fn reports whether anything changed; unchanged slots are not
// rewritten.
func (s *Slot) MutateRaw(ctx context.Context, op string, fn func([]json.RawMessage) ([]json.RawMessage, bool, error)) error {
	return s.serialize(ctx, func(ctx context.Context) error {
		records, err := s.LoadRaw(ctx)
		if err != nil {
			return err
		}
		next, changed, err := fn(records)
		if err != nil || !changed {
			return err
		}
		if err := s.SaveRaw(ctx, next); err != nil {
			return err
		}
		metrics.CollectionWritesTotal.WithLabelValues(s.name, op).Inc()
		return nil
	})
}

func (s *Slot) serialize(ctx context.Context, fn func(context.Context) error) error {
	if s.serial == nil {
		return fn(ctx)
	}
	return s.serial.Do(ctx, s.name, fn)
}

// degraded logs and counts a read that is being served as empty.
func (s *Slot) degraded(reason string, err error) {
	metrics.StorageDegradedTotal.WithLabelValues(s.name, reason).Inc()
	if reason == "unavailable" {
		s.log.Debug().Err(err).Msg("storage unavailable, serving empty collection")
		return
	}
	s.log.Warn().Err(err).Str("reason", reason).Msg("collection unreadable, serving empty collection")
}
