package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const dedupTTL = 24 * time.Hour

// pending marks a key reserved by a submission that has not created its
// client yet.
const pending = ""

// SubmissionDedup remembers which client an intake idempotency key created.
// Key format: intake:<idempotency_key>
type SubmissionDedup struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSubmissionDedup wraps client. Keys expire after 24 hours.
func NewSubmissionDedup(client *redis.Client) *SubmissionDedup {
	return &SubmissionDedup{client: client, ttl: dedupTTL}
}

// Reserve claims the key with SETNX so only one submission proceeds.
func (d *SubmissionDedup) Reserve(ctx context.Context, key string) (bool, error) {
	ok, err := d.client.SetNX(ctx, d.key(key), pending, d.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("dedup reserve: %w", err)
	}
	return ok, nil
}

func (d *SubmissionDedup) Lookup(ctx context.Context, key string) (string, bool, error) {
	clientID, err := d.client.Get(ctx, d.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("dedup lookup: %w", err)
	}
	return clientID, true, nil
}

// Remember binds the reserved key to clientID, refreshing its TTL.
func (d *SubmissionDedup) Remember(ctx context.Context, key, clientID string) error {
	if err := d.client.Set(ctx, d.key(key), clientID, d.ttl).Err(); err != nil {
		return fmt.Errorf("dedup remember: %w", err)
	}
	return nil
}

// Release deletes the reservation so the submitter can retry.
func (d *SubmissionDedup) Release(ctx context.Context, key string) error {
	if err := d.client.Del(ctx, d.key(key)).Err(); err != nil {
		return fmt.Errorf("dedup release: %w", err)
	}
	return nil
}

func (d *SubmissionDedup) key(idempotencyKey string) string {
	return "intake:" + idempotencyKey
}
