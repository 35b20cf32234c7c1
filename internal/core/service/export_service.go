package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/crmlite/crm/internal/core/domain"
	"github.com/crmlite/crm/internal/core/ports"
	"github.com/crmlite/crm/internal/metrics"
)

const exportPrefix = "preventivo_"

// ExportFileName derives the artifact name of a quote document from the
// first eight characters of its id.
func ExportFileName(quoteID string) string {
	short := []rune(quoteID)
	if len(short) > 8 {
		short = short[:8]
	}
	return exportPrefix + strings.ToLower(string(short)) + ".pdf"
}

type exportService struct {
	quotes    ports.QuoteRepository
	clients   ports.ClientRepository
	renderer  ports.DocumentRenderer
	artifacts ports.ArtifactStore
	taxRate   float64
	log       zerolog.Logger
}

func NewExportService(
	quotes ports.QuoteRepository,
	clients ports.ClientRepository,
	renderer ports.DocumentRenderer,
	artifacts ports.ArtifactStore,
	taxRate float64,
	log zerolog.Logger,
) ports.ExportService {
	return &exportService{
		quotes:    quotes,
		clients:   clients,
		renderer:  renderer,
		artifacts: artifacts,
		taxRate:   taxRate,
		log:       log,
	}
}

// ExportQuote renders the quote and stores the document. The client is
// resolved before rendering so a dangling reference never yields a partial
// document.
func (s *exportService) ExportQuote(ctx context.Context, quoteID string) (ports.Artifact, error) {
	start := time.Now()
	art, err := s.export(ctx, quoteID)
	metrics.QuoteExportsTotal.WithLabelValues(exportResult(err)).Inc()
	if err != nil {
		return ports.Artifact{}, err
	}
	metrics.QuoteExportDuration.Observe(time.Since(start).Seconds())
	s.log.Info().Str("quote_id", quoteID).Str("artifact", art.Name).Int64("bytes", art.Size).Msg("quote exported")
	return art, nil
}

func (s *exportService) export(ctx context.Context, quoteID string) (ports.Artifact, error) {
	q, ok := s.quotes.GetByID(ctx, quoteID)
	if !ok {
		return ports.Artifact{}, fmt.Errorf("export quote %s: %w", quoteID, domain.ErrQuoteNotFound)
	}
	c, ok := s.clients.GetByID(ctx, q.ClientID)
	if !ok {
		return ports.Artifact{}, fmt.Errorf("export quote %s: client %s: %w", quoteID, q.ClientID, domain.ErrExportClientNotFound)
	}

	var buf bytes.Buffer
	err := s.renderer.RenderQuote(&buf, ports.QuoteDocument{
		Quote:       q,
		ClientName:  c.Name,
		ClientEmail: c.Email,
		ClientPhone: c.Phone,
		TaxRate:     s.taxRate,
	})
	if err != nil {
		s.log.Error().Err(err).Str("quote_id", quoteID).Msg("failed to render quote")
		return ports.Artifact{}, fmt.Errorf("export quote %s: render: %w", quoteID, err)
	}

	art, err := s.artifacts.Put(ctx, ExportFileName(q.ID), s.renderer.ContentType(), &buf)
	if err != nil {
		s.log.Error().Err(err).Str("quote_id", quoteID).Msg("failed to store quote document")
		return ports.Artifact{}, fmt.Errorf("export quote %s: store: %w", quoteID, err)
	}
	return art, nil
}

func exportResult(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrQuoteNotFound):
		return "quote_not_found"
	case errors.Is(err, domain.ErrExportClientNotFound):
		return "client_not_found"
	default:
		return "error"
	}
}
