package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"

	"github.com/crmlite/crm/internal/core/domain"
	"github.com/crmlite/crm/internal/core/store"
	"github.com/crmlite/crm/internal/infrastructure/db/memory"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

type seqIDs struct{ n int }

func (g *seqIDs) NewID() string {
	g.n++
	return fmt.Sprintf("id-%03d", g.n)
}

// countingStore records how many times each slot was written.
type countingStore struct {
	*memory.SlotStore
	puts map[string]int
}

func (s *countingStore) Put(ctx context.Context, slot string, payload []byte) error {
	s.puts[slot]++
	return s.SlotStore.Put(ctx, slot, payload)
}

var (
	created = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	edited  = time.Date(2025, 3, 2, 18, 30, 0, 0, time.UTC)
)

func newTestSet(t *testing.T) (*Set, *countingStore, *time.Time) {
	t.Helper()
	backend := &countingStore{SlotStore: memory.NewSlotStore(), puts: map[string]int{}}
	now := created
	set := NewSet(Deps{
		Store: backend,
		IDs:   &seqIDs{},
		Clock: func() time.Time { return now },
		Log:   zerolog.Nop(),
	})
	return set, backend, &now
}

// ---------------------------------------------------------------------------
// Round trip
// ---------------------------------------------------------------------------

func TestAdd_RoundTripsEveryKind(t *testing.T) {
	ctx := context.Background()
	set, _, _ := newTestSet(t)

	c, err := set.Clients.Add(ctx, domain.ClientFields{Name: "Mario Rossi", Email: "mario@example.com", Phone: "+39 333", Notes: "n", InternalNotes: "vip"})
	if err != nil {
		t.Fatalf("add client: %v", err)
	}
	if got, ok := set.Clients.GetByID(ctx, c.ID); !ok || !cmp.Equal(c, got) {
		t.Errorf("client round trip: %s", cmp.Diff(c, got))
	}
	if !c.Timestamp.Equal(created) {
		t.Errorf("expected creation stamp %v, got %v", created, c.Timestamp)
	}

	s, err := set.Services.Add(ctx, domain.ServiceFields{Name: "Consulenza", Description: "oraria", Price: 80})
	if err != nil {
		t.Fatalf("add service: %v", err)
	}
	if got, ok := set.Services.GetByID(ctx, s.ID); !ok || !cmp.Equal(s, got) {
		t.Errorf("service round trip: %s", cmp.Diff(s, got))
	}

	q, err := set.Quotes.Add(ctx, domain.QuoteFields{
		ClientID:   c.ID,
		ClientName: c.Name,
		Items:      []domain.QuoteItem{{ServiceID: s.ID, Name: s.Name, Price: 80, Quantity: 3}},
		Total:      292.8,
	})
	if err != nil {
		t.Fatalf("add quote: %v", err)
	}
	if got, ok := set.Quotes.GetByID(ctx, q.ID); !ok || !cmp.Equal(q, got) {
		t.Errorf("quote round trip: %s", cmp.Diff(q, got))
	}

	p, err := set.Projects.Add(ctx, domain.ProjectFields{Name: "Sito", Budget: 1500, ClientID: c.ID})
	if err != nil {
		t.Fatalf("add project: %v", err)
	}
	if p.Status != domain.ProjectPlanning {
		t.Errorf("expected default status planning, got %q", p.Status)
	}
	if got, ok := set.Projects.GetByID(ctx, p.ID); !ok || !cmp.Equal(p, got) {
		t.Errorf("project round trip: %s", cmp.Diff(p, got))
	}
}

func TestQuoteAdd_CopiesItems(t *testing.T) {
	ctx := context.Background()
	set, _, _ := newTestSet(t)
	items := []domain.QuoteItem{{Name: "A", Price: 1, Quantity: 1}}

	q, _ := set.Quotes.Add(ctx, domain.QuoteFields{ClientID: "c", Items: items})
	items[0].Name = "mutated"

	got, _ := set.Quotes.GetByID(ctx, q.ID)
	if got.Items[0].Name != "A" {
		t.Errorf("stored item changed through caller slice: %q", got.Items[0].Name)
	}
}

// ---------------------------------------------------------------------------
// Update
// ---------------------------------------------------------------------------

func TestClientUpdate_AbsentIDIsSilent(t *testing.T) {
	ctx := context.Background()
	set, backend, _ := newTestSet(t)
	ghost := domain.Client{ID: "ghost", Name: "Nobody"}

	got, err := set.Clients.Update(ctx, ghost)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !cmp.Equal(ghost, got) {
		t.Errorf("expected input back unchanged: %s", cmp.Diff(ghost, got))
	}
	if backend.puts[store.SlotClients] != 0 {
		t.Errorf("expected no write, got %d", backend.puts[store.SlotClients])
	}
	if n := len(set.Clients.List(ctx)); n != 0 {
		t.Errorf("expected no append, got %d clients", n)
	}
}

func TestServiceUpdate_ReplacesInPlace(t *testing.T) {
	ctx := context.Background()
	set, _, _ := newTestSet(t)
	a, _ := set.Services.Add(ctx, domain.ServiceFields{Name: "A", Price: 10})
	b, _ := set.Services.Add(ctx, domain.ServiceFields{Name: "B", Price: 20})

	a.Price = 15
	if _, err := set.Services.Update(ctx, a); err != nil {
		t.Fatalf("Update: %v", err)
	}

	want := []domain.Service{a, b}
	if diff := cmp.Diff(want, set.Services.List(ctx)); diff != "" {
		t.Errorf("List mismatch (-want +got):\n%s", diff)
	}
}

func TestQuoteUpdate_NotFound(t *testing.T) {
	ctx := context.Background()
	set, backend, _ := newTestSet(t)
	_, _ = set.Quotes.Add(ctx, domain.QuoteFields{ClientID: "c"})
	writes := backend.puts[store.SlotQuotes]

	_, err := set.Quotes.Update(ctx, domain.Quote{ID: "missing"})
	if !errors.Is(err, domain.ErrQuoteNotFound) {
		t.Fatalf("expected ErrQuoteNotFound, got %v", err)
	}
	if n := len(set.Quotes.List(ctx)); n != 1 {
		t.Errorf("expected 1 quote, got %d", n)
	}
	if backend.puts[store.SlotQuotes] != writes {
		t.Error("failed update must not write")
	}
}

func TestProjectUpdate_NotFound(t *testing.T) {
	set, _, _ := newTestSet(t)
	_, err := set.Projects.Update(context.Background(), domain.Project{ID: "missing"})
	if !errors.Is(err, domain.ErrProjectNotFound) {
		t.Fatalf("expected ErrProjectNotFound, got %v", err)
	}
}

func TestQuoteUpdate_KeepsCreationStamp(t *testing.T) {
	ctx := context.Background()
	set, _, now := newTestSet(t)
	q, _ := set.Quotes.Add(ctx, domain.QuoteFields{ClientID: "c", Total: 10})

	*now = edited
	q.Total = 20
	q.Timestamp = time.Time{}
	updated, err := set.Quotes.Update(ctx, q)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	if !updated.Timestamp.Equal(created) {
		t.Errorf("timestamp rewritten: %v", updated.Timestamp)
	}
	if !updated.UpdatedAt.Equal(edited) {
		t.Errorf("expected updatedAt %v, got %v", edited, updated.UpdatedAt)
	}
	stored, _ := set.Quotes.GetByID(ctx, q.ID)
	if diff := cmp.Diff(updated, stored); diff != "" {
		t.Errorf("stored quote mismatch (-want +got):\n%s", diff)
	}
}

func TestProjectUpdate_KeepsCreationStamp(t *testing.T) {
	ctx := context.Background()
	set, _, now := newTestSet(t)
	p, _ := set.Projects.Add(ctx, domain.ProjectFields{Name: "P", Status: domain.ProjectPlanning})

	*now = edited
	p.Status = domain.ProjectInProgress
	updated, err := set.Projects.Update(ctx, p)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if !updated.Timestamp.Equal(created) || !updated.UpdatedAt.Equal(edited) {
		t.Errorf("unexpected stamps: created %v updated %v", updated.Timestamp, updated.UpdatedAt)
	}
}

// ---------------------------------------------------------------------------
// Delete
// ---------------------------------------------------------------------------

func TestDelete_AbsentIDIsNoop(t *testing.T) {
	ctx := context.Background()
	set, backend, _ := newTestSet(t)
	a, _ := set.Clients.Add(ctx, domain.ClientFields{Name: "A"})
	before := set.Clients.List(ctx)
	writes := backend.puts[store.SlotClients]

	if err := set.Clients.Delete(ctx, "nope"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if diff := cmp.Diff(before, set.Clients.List(ctx)); diff != "" {
		t.Errorf("collection changed (-want +got):\n%s", diff)
	}
	if backend.puts[store.SlotClients] != writes {
		t.Error("no-op delete must not write")
	}

	if err := set.Clients.Delete(ctx, a.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok := set.Clients.GetByID(ctx, a.ID); ok {
		t.Error("client still present after delete")
	}
}

func TestClientDelete_DoesNotCascade(t *testing.T) {
	ctx := context.Background()
	set, _, _ := newTestSet(t)
	c, _ := set.Clients.Add(ctx, domain.ClientFields{Name: "Mario Rossi"})
	q, _ := set.Quotes.Add(ctx, domain.QuoteFields{ClientID: c.ID, ClientName: c.Name})

	if err := set.Clients.Delete(ctx, c.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	got, ok := set.Quotes.GetByID(ctx, q.ID)
	if !ok {
		t.Fatal("quote disappeared with its client")
	}
	if got.ClientID != c.ID || got.ClientName != "Mario Rossi" {
		t.Errorf("quote client fields changed: %q %q", got.ClientID, got.ClientName)
	}
}

// ---------------------------------------------------------------------------
// Queries
// ---------------------------------------------------------------------------

func TestGetByClientID_PreservesOrder(t *testing.T) {
	ctx := context.Background()
	set, _, _ := newTestSet(t)
	q1, _ := set.Quotes.Add(ctx, domain.QuoteFields{ClientID: "a", Total: 1})
	_, _ = set.Quotes.Add(ctx, domain.QuoteFields{ClientID: "b", Total: 2})
	q3, _ := set.Quotes.Add(ctx, domain.QuoteFields{ClientID: "a", Total: 3})

	got := set.Quotes.GetByClientID(ctx, "a")
	if diff := cmp.Diff([]domain.Quote{q1, q3}, got); diff != "" {
		t.Errorf("GetByClientID mismatch (-want +got):\n%s", diff)
	}
	if got := set.Quotes.GetByClientID(ctx, "zzz"); got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", got)
	}
}

func TestLegacyQuoteItemsDefaultQuantity(t *testing.T) {
	ctx := context.Background()
	set, backend, _ := newTestSet(t)
	legacy := `[{"id":"q1","clientId":"c","clientName":"X","items":[{"serviceId":"s","name":"A","description":"","price":50}],"total":61,"timestamp":"2024-01-01T00:00:00Z"}]`
	_ = backend.SlotStore.Put(ctx, store.SlotQuotes, []byte(legacy))

	q, ok := set.Quotes.GetByID(ctx, "q1")
	if !ok {
		t.Fatal("legacy quote not found")
	}
	if q.Items[0].Quantity != 1 {
		t.Errorf("expected quantity 1, got %d", q.Items[0].Quantity)
	}
}

func TestCorruptSlotReadsEmptyAndIsOverwritten(t *testing.T) {
	ctx := context.Background()
	set, backend, _ := newTestSet(t)
	_ = backend.SlotStore.Put(ctx, store.SlotClients, []byte("{oops"))

	if n := len(set.Clients.List(ctx)); n != 0 {
		t.Fatalf("expected empty list, got %d", n)
	}
	if _, err := set.Clients.Add(ctx, domain.ClientFields{Name: "A"}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if n := len(set.Clients.List(ctx)); n != 1 {
		t.Errorf("expected corrupt slot replaced by 1 client, got %d", n)
	}
}
