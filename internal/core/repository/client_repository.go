package repository

import (
	"context"

	"github.com/crmlite/crm/internal/core/domain"
	"github.com/crmlite/crm/internal/core/store"
)

type ClientRepository struct {
	col  *store.Collection[domain.Client]
	deps Deps
}

func NewClientRepository(d Deps) *ClientRepository {
	return &ClientRepository{
		col:  store.NewCollection[domain.Client](store.SlotClients, d.Store, d.Serializer, d.Log, nil),
		deps: d,
	}
}

func clientID(c domain.Client) string { return c.ID }

func (r *ClientRepository) List(ctx context.Context) []domain.Client {
	return r.col.Load(ctx)
}

func (r *ClientRepository) Add(ctx context.Context, f domain.ClientFields) (domain.Client, error) {
	c := domain.Client{
		ID:            r.deps.IDs.NewID(),
		Name:          f.Name,
		Email:         f.Email,
		Phone:         f.Phone,
		Notes:         f.Notes,
		InternalNotes: f.InternalNotes,
		Timestamp:     r.deps.now(),
	}
	err := r.col.Mutate(ctx, "add", func(cs []domain.Client) ([]domain.Client, bool, error) {
		return append(cs, c), true, nil
	})
	if err != nil {
		return domain.Client{}, err
	}
	return c, nil
}

// Update writes c over the stored client with the same ID, as given.
func (r *ClientRepository) Update(ctx context.Context, c domain.Client) (domain.Client, error) {
	err := r.col.Mutate(ctx, "update", func(cs []domain.Client) ([]domain.Client, bool, error) {
		i := indexOf(cs, c.ID, clientID)
		if i < 0 {
			return cs, false, nil
		}
		cs[i] = c
		return cs, true, nil
	})
	return c, err
}

func (r *ClientRepository) Delete(ctx context.Context, id string) error {
	return r.col.Mutate(ctx, "delete", func(cs []domain.Client) ([]domain.Client, bool, error) {
		out, changed := without(cs, id, clientID)
		return out, changed, nil
	})
}

func (r *ClientRepository) GetByID(ctx context.Context, id string) (domain.Client, bool) {
	cs := r.col.Load(ctx)
	if i := indexOf(cs, id, clientID); i >= 0 {
		return cs[i], true
	}
	return domain.Client{}, false
}
