package store

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"

	"github.com/crmlite/crm/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub backend
// ---------------------------------------------------------------------------

type stubBackend struct {
	mu     sync.Mutex
	slots  map[string][]byte
	getErr error
	putErr error
	puts   int
}

func newStubBackend() *stubBackend {
	return &stubBackend{slots: make(map[string][]byte)}
}

func (b *stubBackend) Get(_ context.Context, slot string) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.getErr != nil {
		return nil, b.getErr
	}
	payload, ok := b.slots[slot]
	if !ok {
		return nil, ports.ErrSlotNotFound
	}
	return append([]byte(nil), payload...), nil
}

func (b *stubBackend) Put(_ context.Context, slot string, payload []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.putErr != nil {
		return b.putErr
	}
	b.puts++
	b.slots[slot] = append([]byte(nil), payload...)
	return nil
}

type record struct {
	ID   string `json:"id"`
	Note string `json:"note"`
}

func newRecords(b *stubBackend) *Collection[record] {
	return NewCollection[record]("test_slot", b, nil, zerolog.Nop(), func(r *record) {
		if r.Note == "" {
			r.Note = "default"
		}
	})
}

// ---------------------------------------------------------------------------
// Load
// ---------------------------------------------------------------------------

func TestLoad_AbsentSlotIsEmpty(t *testing.T) {
	got := newRecords(newStubBackend()).Load(context.Background())
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}

func TestLoad_DegradesToEmpty(t *testing.T) {
	cases := []struct {
		name    string
		payload string
		getErr  error
	}{
		{name: "malformed json", payload: "{not json"},
		{name: "object instead of array", payload: `{"id":"a"}`},
		{name: "null payload", payload: "null"},
		{name: "backend unavailable", getErr: ports.ErrStorageUnavailable},
		{name: "backend error", getErr: errors.New("disk on fire")},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := newStubBackend()
			b.slots["test_slot"] = []byte(tc.payload)
			b.getErr = tc.getErr

			got := newRecords(b).Load(context.Background())
			if len(got) != 0 {
				t.Fatalf("expected empty collection, got %v", got)
			}
			if tc.getErr == nil && string(b.slots["test_slot"]) != tc.payload {
				t.Errorf("stored payload must not be touched, got %q", b.slots["test_slot"])
			}
		})
	}
}

func TestLoad_AppliesDefaultsInOrder(t *testing.T) {
	b := newStubBackend()
	b.slots["test_slot"] = []byte(`[{"id":"b","note":"kept"},{"id":"a"}]`)

	got := newRecords(b).Load(context.Background())
	want := []record{{ID: "b", Note: "kept"}, {ID: "a", Note: "default"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Load mismatch (-want +got):\n%s", diff)
	}
}

// ---------------------------------------------------------------------------
// Save / Mutate
// ---------------------------------------------------------------------------

func TestSave_RoundTrips(t *testing.T) {
	b := newStubBackend()
	c := newRecords(b)
	want := []record{{ID: "1", Note: "x"}, {ID: "2", Note: "y"}}

	if err := c.Save(context.Background(), want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if diff := cmp.Diff(want, c.Load(context.Background())); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestSave_NilWritesEmptyArray(t *testing.T) {
	b := newStubBackend()
	if err := newRecords(b).Save(context.Background(), nil); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if got := string(b.slots["test_slot"]); got != "[]" {
		t.Errorf("expected [], got %q", got)
	}
}

func TestSave_PropagatesBackendError(t *testing.T) {
	b := newStubBackend()
	b.putErr = errors.New("quota exceeded")

	err := newRecords(b).Save(context.Background(), []record{{ID: "1"}})
	if !errors.Is(err, b.putErr) {
		t.Fatalf("expected wrapped put error, got %v", err)
	}
}

func TestMutate_UnchangedSkipsWrite(t *testing.T) {
	b := newStubBackend()
	c := newRecords(b)

	err := c.Mutate(context.Background(), "delete", func(rs []record) ([]record, bool, error) {
		return rs, false, nil
	})
	if err != nil {
		t.Fatalf("Mutate: %v", err)
	}
	if b.puts != 0 {
		t.Errorf("expected no write, got %d", b.puts)
	}
}

func TestMutate_FnErrorSkipsWrite(t *testing.T) {
	b := newStubBackend()
	sentinel := errors.New("nope")

	err := newRecords(b).Mutate(context.Background(), "update", func(rs []record) ([]record, bool, error) {
		return append(rs, record{ID: "x"}), true, sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected sentinel, got %v", err)
	}
	if b.puts != 0 {
		t.Errorf("expected no write, got %d", b.puts)
	}
}

func TestMutate_ReadFailureSkipsWrite(t *testing.T) {
	for _, getErr := range []error{ports.ErrStorageUnavailable, errors.New("connection reset")} {
		b := newStubBackend()
		b.slots["test_slot"] = []byte(`[{"id":"a"},{"id":"b"}]`)
		b.getErr = getErr
		called := false

		err := newRecords(b).Mutate(context.Background(), "create", func(rs []record) ([]record, bool, error) {
			called = true
			return append(rs, record{ID: "c"}), true, nil
		})
		if !errors.Is(err, getErr) {
			t.Errorf("%v: expected read error, got %v", getErr, err)
		}
		if called || b.puts != 0 {
			t.Errorf("%v: fn called=%v puts=%d, want no write", getErr, called, b.puts)
		}
		if string(b.slots["test_slot"]) != `[{"id":"a"},{"id":"b"}]` {
			t.Errorf("%v: stored records were changed: %s", getErr, b.slots["test_slot"])
		}
	}
}

func TestMutate_OverwritesUnparseablePayload(t *testing.T) {
	b := newStubBackend()
	b.slots["test_slot"] = []byte(`{"not":"an array"}`)

	err := newRecords(b).Mutate(context.Background(), "create", func(rs []record) ([]record, bool, error) {
		if len(rs) != 0 {
			t.Errorf("expected empty records, got %v", rs)
		}
		return append(rs, record{ID: "a"}), true, nil
	})
	if err != nil {
		t.Fatalf("Mutate: %v", err)
	}
	if b.puts != 1 {
		t.Errorf("expected one write, got %d", b.puts)
	}
}

// lockSerializer stands in for the dispatcher: one mutex per process.
type lockSerializer struct{ mu sync.Mutex }

func (s *lockSerializer) Do(ctx context.Context, _ string, fn func(context.Context) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(ctx)
}

func TestMutate_SerializedAppendsAreNotLost(t *testing.T) {
	b := newStubBackend()
	c := NewCollection[record]("test_slot", b, &lockSerializer{}, zerolog.Nop(), nil)

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = c.Mutate(context.Background(), "add", func(rs []record) ([]record, bool, error) {
				return append(rs, record{ID: "r"}), true, nil
			})
		}()
	}
	wg.Wait()

	if got := len(c.Load(context.Background())); got != n {
		t.Fatalf("expected %d records, got %d", n, got)
	}
}

// ---------------------------------------------------------------------------
// Raw access
// ---------------------------------------------------------------------------

func TestMutateRaw_PreservesUnknownFields(t *testing.T) {
	b := newStubBackend()
	b.slots["test_slot"] = []byte(`[{"id":"1","extra":{"a":1}},{"id":""}]`)
	s := NewSlot("test_slot", b, nil, zerolog.Nop())

	err := s.MutateRaw(context.Background(), "repair", func(rs []json.RawMessage) ([]json.RawMessage, bool, error) {
		rs[1] = json.RawMessage(`{"id":"2"}`)
		return rs, true, nil
	})
	if err != nil {
		t.Fatalf("MutateRaw: %v", err)
	}

	want := `[{"id":"1","extra":{"a":1}},{"id":"2"}]`
	if got := string(b.slots["test_slot"]); got != want {
		t.Errorf("payload mismatch\nwant %s\ngot  %s", want, got)
	}
}

func TestLoadRaw_ReportsParseError(t *testing.T) {
	b := newStubBackend()
	b.slots["test_slot"] = []byte("garbage")

	if _, err := NewSlot("test_slot", b, nil, zerolog.Nop()).LoadRaw(context.Background()); err == nil {
		t.Fatal("expected parse error")
	}
}
