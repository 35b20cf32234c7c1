package service

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/rs/zerolog"

	"github.com/crmlite/crm/internal/core/ports"
	"github.com/crmlite/crm/internal/core/store"
	"github.com/crmlite/crm/internal/metrics"
)

type repairService struct {
	slots []*store.Slot
	ids   ports.IDGenerator
	log   zerolog.Logger
}

// NewRepairService returns a RepairService over the given slots.
func NewRepairService(slots []*store.Slot, ids ports.IDGenerator, log zerolog.Logger) ports.RepairService {
	return &repairService{slots: slots, ids: ids, log: log}
}

// Repair gives a fresh id to every record whose id is missing, not a string,
// or blank. Only changed slots are rewritten; everything else in them is
// kept byte for byte. Running it twice changes nothing the second time.
func (s *repairService) Repair(ctx context.Context) (ports.RepairReport, error) {
	report := ports.RepairReport{Fixed: map[string]int{}}

	for _, slot := range s.slots {
		var fixed int
		err := slot.MutateRaw(ctx, "repair", func(records []json.RawMessage) ([]json.RawMessage, bool, error) {
			fixed = 0
			for i, raw := range records {
				repaired, ok, err := s.repairRecord(raw)
				if err != nil {
					return nil, false, err
				}
				if ok {
					records[i] = repaired
					fixed++
				}
			}
			return records, fixed > 0, nil
		})
		if err != nil {
			s.log.Warn().Err(err).Str("slot", slot.Name()).Msg("slot skipped by repair")
			report.Skipped = append(report.Skipped, slot.Name())
			continue
		}
		if fixed > 0 {
			report.Fixed[slot.Name()] = fixed
			metrics.RecordsRepairedTotal.WithLabelValues(slot.Name()).Add(float64(fixed))
			s.log.Info().Str("slot", slot.Name()).Int("fixed", fixed).Msg("records repaired")
		}
	}
	return report, nil
}

// repairRecord returns the record with a new id when its current one is
// unusable. Elements that are not JSON objects are left alone.
func (s *repairService) repairRecord(raw json.RawMessage) (json.RawMessage, bool, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return raw, false, nil
	}
	if validID(fields["id"]) {
		return raw, false, nil
	}

	id, err := json.Marshal(s.ids.NewID())
	if err != nil {
		return nil, false, err
	}
	fields["id"] = id
	out, err := json.Marshal(fields)
	if err != nil {
		return nil, false, err
	}
	return out, true, nil
}

func validID(raw json.RawMessage) bool {
	if raw == nil {
		return false
	}
	var id string
	if err := json.Unmarshal(raw, &id); err != nil {
		return false
	}
	return strings.TrimSpace(id) != ""
}
