package repository

import (
	"context"
	"fmt"

	"github.com/crmlite/crm/internal/core/domain"
	"github.com/crmlite/crm/internal/core/store"
)

type QuoteRepository struct {
	col  *store.Collection[domain.Quote]
	deps Deps
}

func NewQuoteRepository(d Deps) *QuoteRepository {
	return &QuoteRepository{
		col:  store.NewCollection(store.SlotQuotes, d.Store, d.Serializer, d.Log, (*domain.Quote).ApplyDefaults),
		deps: d,
	}
}

func quoteID(q domain.Quote) string { return q.ID }

func (r *QuoteRepository) List(ctx context.Context) []domain.Quote {
	return r.col.Load(ctx)
}

// Add stores a new quote. The item list is copied so later edits to the
// caller's slice do not leak into the stored record.
func (r *QuoteRepository) Add(ctx context.Context, f domain.QuoteFields) (domain.Quote, error) {
	q := domain.Quote{
		ID:         r.deps.IDs.NewID(),
		ClientID:   f.ClientID,
		ClientName: f.ClientName,
		Items:      f.Items,
		Total:      f.Total,
		Timestamp:  r.deps.now(),
	}.Clone()
	err := r.col.Mutate(ctx, "add", func(qs []domain.Quote) ([]domain.Quote, bool, error) {
		return append(qs, q), true, nil
	})
	if err != nil {
		return domain.Quote{}, err
	}
	return q, nil
}

// Update replaces the quote with q.ID. The creation timestamp is kept from
// the stored record and UpdatedAt is set to now.
func (r *QuoteRepository) Update(ctx context.Context, q domain.Quote) (domain.Quote, error) {
	q = q.Clone()
	err := r.col.Mutate(ctx, "update", func(qs []domain.Quote) ([]domain.Quote, bool, error) {
		i := indexOf(qs, q.ID, quoteID)
		if i < 0 {
			return qs, false, fmt.Errorf("update quote %s: %w", q.ID, domain.ErrQuoteNotFound)
		}
		q.Timestamp = qs[i].Timestamp
		q.UpdatedAt = r.deps.now()
		qs[i] = q
		return qs, true, nil
	})
	if err != nil {
		return domain.Quote{}, err
	}
	return q, nil
}

func (r *QuoteRepository) Delete(ctx context.Context, id string) error {
	return r.col.Mutate(ctx, "delete", func(qs []domain.Quote) ([]domain.Quote, bool, error) {
		out, changed := without(qs, id, quoteID)
		return out, changed, nil
	})
}

func (r *QuoteRepository) GetByID(ctx context.Context, id string) (domain.Quote, bool) {
	qs := r.col.Load(ctx)
	if i := indexOf(qs, id, quoteID); i >= 0 {
		return qs[i], true
	}
	return domain.Quote{}, false
}

// GetByClientID returns the client's quotes in stored order.
func (r *QuoteRepository) GetByClientID(ctx context.Context, clientID string) []domain.Quote {
	out := []domain.Quote{}
	for _, q := range r.col.Load(ctx) {
		if q.ClientID == clientID {
			out = append(out, q)
		}
	}
	return out
}
