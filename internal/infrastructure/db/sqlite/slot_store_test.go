package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/crmlite/crm/internal/core/ports"
)

func openTemp(t *testing.T) *SlotStore {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "data", "crm.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSlotStore_MissingSlot(t *testing.T) {
	s := openTemp(t)
	if _, err := s.Get(context.Background(), "crm_clients"); !errors.Is(err, ports.ErrSlotNotFound) {
		t.Fatalf("expected ErrSlotNotFound, got %v", err)
	}
}

func TestSlotStore_PutOverwrites(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)

	if err := s.Put(ctx, "crm_clients", []byte(`[{"id":"a"}]`)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.Put(ctx, "crm_clients", []byte(`[]`)); err != nil {
		t.Fatalf("second Put: %v", err)
	}
	if err := s.Put(ctx, "crm_quotes", []byte(`[{"id":"q"}]`)); err != nil {
		t.Fatalf("Put quotes: %v", err)
	}

	got, err := s.Get(ctx, "crm_clients")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != "[]" {
		t.Errorf("expected [], got %q", got)
	}
	if got, _ := s.Get(ctx, "crm_quotes"); string(got) != `[{"id":"q"}]` {
		t.Errorf("slots must be independent, got %q", got)
	}
}

func TestSlotStore_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "crm.db")

	s, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	_ = s.Put(ctx, "crm_projects", []byte(`[{"id":"p"}]`))
	_ = s.Close()

	reopened, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	got, err := reopened.Get(ctx, "crm_projects")
	if err != nil || string(got) != `[{"id":"p"}]` {
		t.Fatalf("expected persisted payload, got %q err=%v", got, err)
	}
	if err := reopened.Ping(ctx); err != nil {
		t.Errorf("Ping: %v", err)
	}
}
