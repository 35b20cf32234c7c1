package memory

import (
	"context"
	"sync"
	"time"
)

type dedupEntry struct {
	clientID string
	expires  time.Time
}

// SubmissionDedup remembers intake idempotency keys for a fixed TTL.
type SubmissionDedup struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]dedupEntry
}

func NewSubmissionDedup(ttl time.Duration) *SubmissionDedup {
	return &SubmissionDedup{ttl: ttl, now: time.Now, entries: make(map[string]dedupEntry)}
}

// live returns the unexpired entry for key. Callers hold mu.
func (d *SubmissionDedup) live(key string) (dedupEntry, bool) {
	e, ok := d.entries[key]
	if !ok {
		return dedupEntry{}, false
	}
	if d.now().After(e.expires) {
		delete(d.entries, key)
		return dedupEntry{}, false
	}
	return e, true
}

func (d *SubmissionDedup) Reserve(_ context.Context, key string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.live(key); ok {
		return false, nil
	}
	d.entries[key] = dedupEntry{expires: d.now().Add(d.ttl)}
	return true, nil
}

func (d *SubmissionDedup) Lookup(_ context.Context, key string) (string, bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	e, ok := d.live(key)
	return e.clientID, ok, nil
}

// Remember binds key to clientID. A key already bound keeps its first client.
func (d *SubmissionDedup) Remember(_ context.Context, key, clientID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if e, ok := d.live(key); ok && e.clientID != "" {
		return nil
	}
	d.entries[key] = dedupEntry{clientID: clientID, expires: d.now().Add(d.ttl)}
	return nil
}

// Release removes a reservation that was never bound to a client.
func (d *SubmissionDedup) Release(_ context.Context, key string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if e, ok := d.live(key); ok && e.clientID == "" {
		delete(d.entries, key)
	}
	return nil
}
