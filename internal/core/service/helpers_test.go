package service

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/crmlite/crm/internal/core/ports"
	"github.com/crmlite/crm/internal/core/repository"
	"github.com/crmlite/crm/internal/infrastructure/db/memory"
)

// ---------------------------------------------------------------------------
// Fixtures
// ---------------------------------------------------------------------------

type seqIDs struct {
	prefix string
	n      int
}

func (g *seqIDs) NewID() string {
	g.n++
	return fmt.Sprintf("%s%04d", g.prefix, g.n)
}

type fixture struct {
	backend *memory.SlotStore
	ids     *seqIDs
	repos   *repository.Set
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		backend: memory.NewSlotStore(),
		ids:     &seqIDs{prefix: "A1B2C3D4-"},
	}
	f.repos = repository.NewSet(repository.Deps{
		Store: f.backend,
		IDs:   f.ids,
		Clock: func() time.Time { return time.Date(2025, 5, 20, 10, 0, 0, 0, time.UTC) },
		Log:   zerolog.Nop(),
	})
	return f
}

func (f *fixture) quoteService(rate float64) ports.QuoteService {
	return NewQuoteService(f.repos.Quotes, f.repos.Clients, f.repos.Services, f.ids, rate, zerolog.Nop())
}

// ---------------------------------------------------------------------------
// Stubs
// ---------------------------------------------------------------------------

// stubDedup is a single-goroutine SubmissionDedup with injectable failures.
type stubDedup struct {
	keys        map[string]string
	reserveErr  error
	lookupErr   error
	rememberErr error
	released    []string
}

func newStubDedup() *stubDedup { return &stubDedup{keys: map[string]string{}} }

func (d *stubDedup) Reserve(_ context.Context, key string) (bool, error) {
	if d.reserveErr != nil {
		return false, d.reserveErr
	}
	if _, ok := d.keys[key]; ok {
		return false, nil
	}
	d.keys[key] = ""
	return true, nil
}

func (d *stubDedup) Lookup(_ context.Context, key string) (string, bool, error) {
	if d.lookupErr != nil {
		return "", false, d.lookupErr
	}
	id, ok := d.keys[key]
	return id, ok, nil
}

func (d *stubDedup) Remember(_ context.Context, key, clientID string) error {
	if d.rememberErr != nil {
		return d.rememberErr
	}
	d.keys[key] = clientID
	return nil
}

func (d *stubDedup) Release(_ context.Context, key string) error {
	d.released = append(d.released, key)
	delete(d.keys, key)
	return nil
}

type stubRenderer struct {
	err  error
	docs []ports.QuoteDocument
}

func (r *stubRenderer) RenderQuote(w io.Writer, doc ports.QuoteDocument) error {
	if r.err != nil {
		return r.err
	}
	r.docs = append(r.docs, doc)
	_, err := io.WriteString(w, "%PDF-stub "+doc.Quote.ID)
	return err
}

func (r *stubRenderer) ContentType() string { return "application/pdf" }
