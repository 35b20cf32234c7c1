package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/crmlite/crm/internal/core/domain"
	"github.com/crmlite/crm/internal/core/ports"
	"github.com/crmlite/crm/internal/metrics"
)

const (
	defaultReplayWait = 5 * time.Second
	replayPoll        = 20 * time.Millisecond
)

type intakeService struct {
	clients ports.ClientRepository
	dedup   ports.SubmissionDedup
	log     zerolog.Logger
	// wait bounds how long a duplicate submission waits for the first one.
	wait time.Duration
	poll time.Duration
}

// NewIntakeService returns an IntakeService. dedup may be nil, in which case
// idempotency keys are ignored.
func NewIntakeService(clients ports.ClientRepository, dedup ports.SubmissionDedup, log zerolog.Logger) ports.IntakeService {
	return &intakeService{clients: clients, dedup: dedup, log: log, wait: defaultReplayWait, poll: replayPoll}
}

// Submit records a public form submission as a new client. A repeated
// idempotency key returns the client created the first time, also when both
// submissions arrive at once.
func (s *intakeService) Submit(ctx context.Context, in ports.IntakeInput, key string) (ports.IntakeResult, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	if in.Name == "" || in.Email == "" || in.Phone == "" {
		metrics.IntakeSubmissionsTotal.WithLabelValues("error").Inc()
		return ports.IntakeResult{}, fmt.Errorf("%w: name, email and phone are required", domain.ErrValidation)
	}

	owned := false
	if key != "" && s.dedup != nil {
		replay, own, err := s.claim(ctx, key)
		if err != nil {
			result := "error"
			if errors.Is(err, domain.ErrSubmissionInProgress) {
				result = "in_progress"
			}
			metrics.IntakeSubmissionsTotal.WithLabelValues(result).Inc()
			return ports.IntakeResult{}, err
		}
		if replay != nil {
			metrics.IntakeSubmissionsTotal.WithLabelValues("replayed").Inc()
			s.log.Info().Str("idempotency_key", key).Str("client_id", replay.ID).Msg("idempotent replay")
			return ports.IntakeResult{Client: *replay, Replayed: true}, nil
		}
		owned = own
	}

	c, err := s.clients.Add(ctx, domain.ClientFields{
		Name:  in.Name,
		Email: in.Email,
		Phone: in.Phone,
		Notes: in.Notes,
	})
	if err != nil {
		if owned {
			if rerr := s.dedup.Release(ctx, key); rerr != nil {
				s.log.Warn().Err(rerr).Str("idempotency_key", key).Msg("failed to release dedup key")
			}
		}
		metrics.IntakeSubmissionsTotal.WithLabelValues("error").Inc()
		s.log.Error().Err(err).Msg("failed to record intake submission")
		return ports.IntakeResult{}, fmt.Errorf("submit intake: %w", err)
	}

	if owned {
		if err := s.dedup.Remember(ctx, key, c.ID); err != nil {
			s.log.Warn().Err(err).Str("idempotency_key", key).Msg("failed to set dedup key")
		}
	}

	metrics.IntakeSubmissionsTotal.WithLabelValues("created").Inc()
	s.log.Info().Str("client_id", c.ID).Msg("intake submission recorded")
	return ports.IntakeResult{Client: c}, nil
}

// claim reserves key for this submission. When another submission holds the
// key, claim waits for it to finish and returns its client for replay. A
// broken dedup store never blocks a submission: the caller proceeds without
// owning the key.
func (s *intakeService) claim(ctx context.Context, key string) (replay *domain.Client, owned bool, err error) {
	deadline := time.Now().Add(s.wait)
	for {
		won, err := s.dedup.Reserve(ctx, key)
		if err != nil {
			s.log.Warn().Err(err).Str("idempotency_key", key).Msg("dedup reserve failed, processing anyway")
			return nil, false, nil
		}
		if won {
			return nil, true, nil
		}

		clientID, found, err := s.dedup.Lookup(ctx, key)
		switch {
		case err != nil:
			s.log.Warn().Err(err).Str("idempotency_key", key).Msg("dedup lookup failed, processing anyway")
			return nil, false, nil
		case !found:
			// Released or expired in between: try to reserve again.
			continue
		case clientID != "":
			if c, ok := s.clients.GetByID(ctx, clientID); ok {
				return &c, false, nil
			}
			// The earlier client was deleted; record a fresh one.
			return nil, false, nil
		}

		if time.Now().After(deadline) {
			return nil, false, fmt.Errorf("idempotency key %q: %w", key, domain.ErrSubmissionInProgress)
		}
		select {
		case <-ctx.Done():
			return nil, false, ctx.Err()
		case <-time.After(s.poll):
		}
	}
}
