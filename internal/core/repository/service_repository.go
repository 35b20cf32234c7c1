package repository

import (
	"context"

	"github.com/crmlite/crm/internal/core/domain"
	"github.com/crmlite/crm/internal/core/store"
)

// ServiceRepository persists the catalog of sellable services.
type ServiceRepository struct {
	col  *store.Collection[domain.Service]
	deps Deps
}

func NewServiceRepository(d Deps) *ServiceRepository {
	return &ServiceRepository{
		col:  store.NewCollection[domain.Service](store.SlotServices, d.Store, d.Serializer, d.Log, nil),
		deps: d,
	}
}

func serviceID(s domain.Service) string { return s.ID }

func (r *ServiceRepository) List(ctx context.Context) []domain.Service {
	return r.col.Load(ctx)
}

func (r *ServiceRepository) Add(ctx context.Context, f domain.ServiceFields) (domain.Service, error) {
	s := domain.Service{
		ID:          r.deps.IDs.NewID(),
		Name:        f.Name,
		Description: f.Description,
		Price:       f.Price,
	}
	err := r.col.Mutate(ctx, "add", func(ss []domain.Service) ([]domain.Service, bool, error) {
		return append(ss, s), true, nil
	})
	if err != nil {
		return domain.Service{}, err
	}
	return s, nil
}

func (r *ServiceRepository) Update(ctx context.Context, s domain.Service) (domain.Service, error) {
	err := r.col.Mutate(ctx, "update", func(ss []domain.Service) ([]domain.Service, bool, error) {
		i := indexOf(ss, s.ID, serviceID)
		if i < 0 {
			return ss, false, nil
		}
		ss[i] = s
		return ss, true, nil
	})
	return s, err
}

// Delete removes the service. Quotes keep their own copy of its fields.
func (r *ServiceRepository) Delete(ctx context.Context, id string) error {
	return r.col.Mutate(ctx, "delete", func(ss []domain.Service) ([]domain.Service, bool, error) {
		out, changed := without(ss, id, serviceID)
		return out, changed, nil
	})
}

func (r *ServiceRepository) GetByID(ctx context.Context, id string) (domain.Service, bool) {
	ss := r.col.Load(ctx)
	if i := indexOf(ss, id, serviceID); i >= 0 {
		return ss[i], true
	}
	return domain.Service{}, false
}
