package ports

import (
	"context"

	"github.com/crmlite/crm/internal/core/domain"
)

// QuoteItemInput is one line as entered by the operator. An empty ServiceID
// marks a custom line. Quantity must be positive.
type QuoteItemInput struct {
	ServiceID   string
	Name        string
	Description string
	Price       float64
	Quantity    int
}

// QuoteInput carries the client selection and the item list of a quote
// being created or edited.
type QuoteInput struct {
	ClientID string
	Items    []QuoteItemInput
}

// QuoteService implements the compose, edit and duplicate flows.
type QuoteService interface {
	Create(ctx context.Context, in QuoteInput) (domain.Quote, error)
	Update(ctx context.Context, id string, in QuoteInput) (domain.Quote, error)
	Duplicate(ctx context.Context, sourceID string) (domain.Quote, error)
	ItemFromService(ctx context.Context, serviceID string, quantity int) (domain.QuoteItem, error)
	Totals(items []domain.QuoteItem) domain.Totals
	TaxRate() float64
}
