package ports

import (
	"context"
	"io"
	"time"

	"github.com/crmlite/crm/internal/core/domain"
)

// Artifact describes a stored export file.
type Artifact struct {
	Name        string    `json:"name"`
	ContentType string    `json:"contentType"`
	Size        int64     `json:"size"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ArtifactStore keeps exported documents retrievable by name.
type ArtifactStore interface {
	Put(ctx context.Context, name, contentType string, r io.Reader) (Artifact, error)
	// Get returns domain.ErrArtifactNotFound for unknown names.
	Get(ctx context.Context, name string) (Artifact, io.ReadCloser, error)
}

// QuoteDocument is the input of a quote renderer: the quote plus client
// contact fields resolved by the caller.
type QuoteDocument struct {
	Quote       domain.Quote
	ClientName  string
	ClientEmail string
	ClientPhone string
	TaxRate     float64
}

// DocumentRenderer turns a quote into a printable document.
type DocumentRenderer interface {
	RenderQuote(w io.Writer, doc QuoteDocument) error
	ContentType() string
}

// ExportService produces quote documents.
type ExportService interface {
	ExportQuote(ctx context.Context, quoteID string) (Artifact, error)
}
