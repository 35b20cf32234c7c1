package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/crmlite/crm/internal/core/domain"
	"github.com/crmlite/crm/internal/core/ports"
	"github.com/crmlite/crm/internal/metrics"
)

type quoteService struct {
	quotes  ports.QuoteRepository
	clients ports.ClientRepository
	catalog ports.ServiceRepository
	ids     ports.IDGenerator
	taxRate float64
	log     zerolog.Logger
}

// NewQuoteService returns a QuoteService pricing quotes at taxRate.
func NewQuoteService(
	quotes ports.QuoteRepository,
	clients ports.ClientRepository,
	catalog ports.ServiceRepository,
	ids ports.IDGenerator,
	taxRate float64,
	log zerolog.Logger,
) ports.QuoteService {
	return &quoteService{
		quotes:  quotes,
		clients: clients,
		catalog: catalog,
		ids:     ids,
		taxRate: taxRate,
		log:     log,
	}
}

func (s *quoteService) TaxRate() float64 { return s.taxRate }

func (s *quoteService) Totals(items []domain.QuoteItem) domain.Totals {
	return domain.Price(items, s.taxRate)
}

// Create validates the input, snapshots the client name and persists a new quote.
func (s *quoteService) Create(ctx context.Context, in ports.QuoteInput) (domain.Quote, error) {
	items, err := s.buildItems(in)
	if err != nil {
		return domain.Quote{}, fmt.Errorf("create quote: %w", err)
	}

	q, err := s.quotes.Add(ctx, domain.QuoteFields{
		ClientID:   in.ClientID,
		ClientName: s.clientName(ctx, in.ClientID),
		Items:      items,
		Total:      s.Totals(items).GrandTotal,
	})
	if err != nil {
		s.log.Error().Err(err).Msg("failed to create quote")
		return domain.Quote{}, fmt.Errorf("create quote: %w", err)
	}

	metrics.QuotesSavedTotal.WithLabelValues("create").Inc()
	s.log.Info().Str("quote_id", q.ID).Str("client_id", q.ClientID).Int("items", len(q.Items)).Msg("quote created")
	return q, nil
}

// Update replaces client selection and items of an existing quote. The
// client name snapshot is refreshed only when the client changes.
func (s *quoteService) Update(ctx context.Context, id string, in ports.QuoteInput) (domain.Quote, error) {
	items, err := s.buildItems(in)
	if err != nil {
		return domain.Quote{}, fmt.Errorf("update quote: %w", err)
	}

	current, ok := s.quotes.GetByID(ctx, id)
	if !ok {
		return domain.Quote{}, fmt.Errorf("update quote %s: %w", id, domain.ErrQuoteNotFound)
	}

	if current.ClientID != in.ClientID {
		current.ClientID = in.ClientID
		current.ClientName = s.clientName(ctx, in.ClientID)
	}
	current.Items = items
	current.Total = s.Totals(items).GrandTotal

	q, err := s.quotes.Update(ctx, current)
	if err != nil {
		return domain.Quote{}, err
	}

	metrics.QuotesSavedTotal.WithLabelValues("update").Inc()
	s.log.Info().Str("quote_id", q.ID).Msg("quote updated")
	return q, nil
}

// Duplicate stores a copy of the source quote under a new id and timestamp.
func (s *quoteService) Duplicate(ctx context.Context, sourceID string) (domain.Quote, error) {
	src, ok := s.quotes.GetByID(ctx, sourceID)
	if !ok {
		return domain.Quote{}, fmt.Errorf("duplicate quote %s: %w", sourceID, domain.ErrQuoteNotFound)
	}
	src = src.Clone()

	q, err := s.quotes.Add(ctx, domain.QuoteFields{
		ClientID:   src.ClientID,
		ClientName: src.ClientName,
		Items:      src.Items,
		Total:      s.Totals(src.Items).GrandTotal,
	})
	if err != nil {
		return domain.Quote{}, fmt.Errorf("duplicate quote %s: %w", sourceID, err)
	}

	metrics.QuotesSavedTotal.WithLabelValues("duplicate").Inc()
	s.log.Info().Str("quote_id", q.ID).Str("source_id", sourceID).Msg("quote duplicated")
	return q, nil
}

// ItemFromService copies name, description and price of a catalog entry.
func (s *quoteService) ItemFromService(ctx context.Context, serviceID string, quantity int) (domain.QuoteItem, error) {
	if quantity <= 0 {
		return domain.QuoteItem{}, fmt.Errorf("%w: quantity must be positive", domain.ErrValidation)
	}
	svc, ok := s.catalog.GetByID(ctx, serviceID)
	if !ok {
		return domain.QuoteItem{}, fmt.Errorf("item from service %s: %w", serviceID, domain.ErrServiceNotFound)
	}
	item := domain.QuoteItem{
		ServiceID:   svc.ID,
		Name:        svc.Name,
		Description: svc.Description,
		Price:       svc.Price,
		Quantity:    quantity,
	}
	return item, nil
}

func (s *quoteService) clientName(ctx context.Context, clientID string) string {
	if c, ok := s.clients.GetByID(ctx, clientID); ok {
		return c.Name
	}
	return domain.UnknownClientName
}

// buildItems validates the input and turns it into stored items. Custom lines
// without a catalog reference get their own generated serviceId.
func (s *quoteService) buildItems(in ports.QuoteInput) ([]domain.QuoteItem, error) {
	if strings.TrimSpace(in.ClientID) == "" {
		return nil, fmt.Errorf("%w: client is required", domain.ErrValidation)
	}
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("%w: at least one item is required", domain.ErrValidation)
	}

	items := make([]domain.QuoteItem, 0, len(in.Items))
	for i, it := range in.Items {
		switch {
		case strings.TrimSpace(it.Name) == "":
			return nil, fmt.Errorf("%w: item %d: name is required", domain.ErrValidation, i)
		case it.Price <= 0:
			return nil, fmt.Errorf("%w: item %d: price must be positive", domain.ErrValidation, i)
		case it.Quantity <= 0:
			return nil, fmt.Errorf("%w: item %d: quantity must be positive", domain.ErrValidation, i)
		}

		item := domain.QuoteItem{
			ServiceID:   it.ServiceID,
			Name:        it.Name,
			Description: it.Description,
			Price:       it.Price,
			Quantity:    it.Quantity,
		}
		if item.ServiceID == "" {
			item.ServiceID = s.ids.NewID()
		}
		items = append(items, item)
	}
	return items, nil
}
