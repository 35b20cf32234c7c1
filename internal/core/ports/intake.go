package ports

import (
	"context"

	"github.com/crmlite/crm/internal/core/domain"
)

// IntakeInput is what a prospect submits through the public form.
type IntakeInput struct {
	Name  string
	Email string
	Phone string
	Notes string
}

// IntakeResult reports the client behind a submission. Replayed is true
// when the idempotency key had already been used.
type IntakeResult struct {
	Client   domain.Client
	Replayed bool
}

// IntakeService records public form submissions as clients.
type IntakeService interface {
	Submit(ctx context.Context, in IntakeInput, idempotencyKey string) (IntakeResult, error)
}

// SubmissionDedup tracks idempotency keys of intake submissions. A key is
// first reserved by exactly one submitter, then bound to the client it
// created.
type SubmissionDedup interface {
	// Reserve claims key. It reports false when the key is already reserved
	// or bound.
	Reserve(ctx context.Context, key string) (bool, error)
	// Lookup returns the client bound to key. found with an empty clientID
	// means the key is reserved but its submission has not finished yet.
	Lookup(ctx context.Context, key string) (clientID string, found bool, err error)
	// Remember binds a reserved key to the client it produced.
	Remember(ctx context.Context, key, clientID string) error
	// Release drops a reservation whose submission failed.
	Release(ctx context.Context, key string) error
}
