package repository

import (
	"context"
	"fmt"

	"github.com/crmlite/crm/internal/core/domain"
	"github.com/crmlite/crm/internal/core/store"
)

type ProjectRepository struct {
	col  *store.Collection[domain.Project]
	deps Deps
}

func NewProjectRepository(d Deps) *ProjectRepository {
	return &ProjectRepository{
		col:  store.NewCollection(store.SlotProjects, d.Store, d.Serializer, d.Log, (*domain.Project).ApplyDefaults),
		deps: d,
	}
}

func projectID(p domain.Project) string { return p.ID }

func (r *ProjectRepository) List(ctx context.Context) []domain.Project {
	return r.col.Load(ctx)
}

func (r *ProjectRepository) Add(ctx context.Context, f domain.ProjectFields) (domain.Project, error) {
	p := domain.Project{
		ID:          r.deps.IDs.NewID(),
		Name:        f.Name,
		Status:      f.Status,
		Budget:      f.Budget,
		Description: f.Description,
		ClientID:    f.ClientID,
		Timestamp:   r.deps.now(),
	}
	p.ApplyDefaults()
	err := r.col.Mutate(ctx, "add", func(ps []domain.Project) ([]domain.Project, bool, error) {
		return append(ps, p), true, nil
	})
	if err != nil {
		return domain.Project{}, err
	}
	return p, nil
}

func (r *ProjectRepository) Update(ctx context.Context, p domain.Project) (domain.Project, error) {
	p.ApplyDefaults()
	err := r.col.Mutate(ctx, "update", func(ps []domain.Project) ([]domain.Project, bool, error) {
		i := indexOf(ps, p.ID, projectID)
		if i < 0 {
			return ps, false, fmt.Errorf("update project %s: %w", p.ID, domain.ErrProjectNotFound)
		}
		p.Timestamp = ps[i].Timestamp
		p.UpdatedAt = r.deps.now()
		ps[i] = p
		return ps, true, nil
	})
	if err != nil {
		return domain.Project{}, err
	}
	return p, nil
}

func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	return r.col.Mutate(ctx, "delete", func(ps []domain.Project) ([]domain.Project, bool, error) {
		out, changed := without(ps, id, projectID)
		return out, changed, nil
	})
}

func (r *ProjectRepository) GetByID(ctx context.Context, id string) (domain.Project, bool) {
	ps := r.col.Load(ctx)
	if i := indexOf(ps, id, projectID); i >= 0 {
		return ps[i], true
	}
	return domain.Project{}, false
}
