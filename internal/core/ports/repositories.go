package ports

import (
	"context"

	"github.com/crmlite/crm/internal/core/domain"
)

// ClientRepository owns the persisted client collection.
type ClientRepository interface {
	List(ctx context.Context) []domain.Client
	Add(ctx context.Context, fields domain.ClientFields) (domain.Client, error)
	// Update replaces the client with the same ID. An unknown ID is not an
	// error: the input is returned unchanged and nothing is written.
	Update(ctx context.Context, c domain.Client) (domain.Client, error)
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (domain.Client, bool)
}

// ServiceRepository owns the persisted catalog.
type ServiceRepository interface {
	List(ctx context.Context) []domain.Service
	Add(ctx context.Context, fields domain.ServiceFields) (domain.Service, error)
	// Update behaves like ClientRepository.Update for unknown IDs.
	Update(ctx context.Context, s domain.Service) (domain.Service, error)
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (domain.Service, bool)
}

// QuoteRepository owns the persisted quotes.
type QuoteRepository interface {
	List(ctx context.Context) []domain.Quote
	Add(ctx context.Context, fields domain.QuoteFields) (domain.Quote, error)
	// Update returns domain.ErrQuoteNotFound for unknown IDs.
	Update(ctx context.Context, q domain.Quote) (domain.Quote, error)
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (domain.Quote, bool)
	GetByClientID(ctx context.Context, clientID string) []domain.Quote
}

// ProjectRepository owns the persisted projects.
type ProjectRepository interface {
	List(ctx context.Context) []domain.Project
	Add(ctx context.Context, fields domain.ProjectFields) (domain.Project, error)
	// Update returns domain.ErrProjectNotFound for unknown IDs.
	Update(ctx context.Context, p domain.Project) (domain.Project, error)
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (domain.Project, bool)
}
