package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func startDispatcher(t *testing.T, workers int) *Dispatcher {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	d := NewDispatcher(workers, zerolog.Nop())
	d.Start(ctx)
	return d
}

func TestDo_ReturnsJobError(t *testing.T) {
	d := startDispatcher(t, 2)
	sentinel := errors.New("boom")

	if err := d.Do(context.Background(), "crm_quotes", func(context.Context) error { return sentinel }); !errors.Is(err, sentinel) {
		t.Fatalf("expected sentinel, got %v", err)
	}
	if err := d.Do(context.Background(), "crm_quotes", func(context.Context) error { return nil }); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func TestDo_SameKeyNeverOverlaps(t *testing.T) {
	d := startDispatcher(t, 4)

	var (
		mu      sync.Mutex
		running int
		maxSeen int
		total   int
	)
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = d.Do(context.Background(), "crm_clients", func(context.Context) error {
				mu.Lock()
				running++
				if running > maxSeen {
					maxSeen = running
				}
				mu.Unlock()

				time.Sleep(100 * time.Microsecond)

				mu.Lock()
				running--
				total++
				mu.Unlock()
				return nil
			})
		}()
	}
	wg.Wait()

	if maxSeen != 1 {
		t.Errorf("jobs of one key overlapped: max concurrency %d", maxSeen)
	}
	if total != 100 {
		t.Errorf("expected 100 jobs, got %d", total)
	}
}

func TestShardIndex_Deterministic(t *testing.T) {
	d := NewDispatcher(8, zerolog.Nop())
	for _, key := range []string{"crm_clients", "crm_services", "crm_quotes", "crm_projects"} {
		first := d.shardIndex(key)
		if first < 0 || first >= 8 {
			t.Fatalf("index out of range: %d", first)
		}
		if again := d.shardIndex(key); again != first {
			t.Errorf("shard of %s changed: %d -> %d", key, first, again)
		}
	}
}

func TestDo_RecoversPanic(t *testing.T) {
	d := startDispatcher(t, 1)
	err := d.Do(context.Background(), "k", func(context.Context) error { panic("bad") })
	if err == nil {
		t.Fatal("expected error from panicking job")
	}
	if err := d.Do(context.Background(), "k", func(context.Context) error { return nil }); err != nil {
		t.Fatalf("worker should survive a panic, got %v", err)
	}
}

func TestDo_CancelledCallerSkipsJob(t *testing.T) {
	d := startDispatcher(t, 1)

	release := make(chan struct{})
	go func() {
		_ = d.Do(context.Background(), "k", func(context.Context) error {
			<-release
			return nil
		})
	}()
	time.Sleep(10 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	ran := make(chan struct{}, 1)
	errCh := make(chan error, 1)
	go func() {
		errCh <- d.Do(ctx, "k", func(context.Context) error {
			ran <- struct{}{}
			return nil
		})
	}()
	time.Sleep(10 * time.Millisecond)
	cancel()

	if err := <-errCh; !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	close(release)

	// A later job on the same worker proves the cancelled one was drained.
	if err := d.Do(context.Background(), "k", func(context.Context) error { return nil }); err != nil {
		t.Fatalf("Do: %v", err)
	}
	select {
	case <-ran:
		t.Error("cancelled job must not run")
	default:
	}
}

func TestDo_AfterStop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	d := NewDispatcher(1, zerolog.Nop())
	d.Start(ctx)
	cancel()
	time.Sleep(10 * time.Millisecond)

	// Channel send may still succeed into the buffer; the wait then sees stop.
	if err := d.Do(context.Background(), "k", func(context.Context) error { return nil }); !errors.Is(err, ErrStopped) {
		t.Fatalf("expected ErrStopped, got %v", err)
	}
}
