// Package repository implements the four record repositories on top of the
// collection store.
package repository

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/crmlite/crm/internal/core/ports"
)

// Deps is shared by every repository constructor.
type Deps struct {
	Store      ports.SlotStore
	Serializer ports.Serializer
	IDs        ports.IDGenerator
	// Clock defaults to time.Now.
	Clock func() time.Time
	Log   zerolog.Logger
}

func (d Deps) now() time.Time {
	if d.Clock == nil {
		return time.Now().UTC()
	}
	return d.Clock().UTC()
}

// Set groups the repositories of one data store.
type Set struct {
	Clients  *ClientRepository
	Services *ServiceRepository
	Quotes   *QuoteRepository
	Projects *ProjectRepository
}

// NewSet builds all four repositories over the same backend.
func NewSet(d Deps) *Set {
	return &Set{
		Clients:  NewClientRepository(d),
		Services: NewServiceRepository(d),
		Quotes:   NewQuoteRepository(d),
		Projects: NewProjectRepository(d),
	}
}

// indexOf returns the position of the first record whose id matches, or -1.
func indexOf[T any](records []T, id string, idOf func(T) string) int {
	for i, r := range records {
		if idOf(r) == id {
			return i
		}
	}
	return -1
}

// without drops every record with the given id. The bool reports whether
// anything was removed.
func without[T any](records []T, id string, idOf func(T) string) ([]T, bool) {
	out := make([]T, 0, len(records))
	for _, r := range records {
		if idOf(r) != id {
			out = append(out, r)
		}
	}
	return out, len(out) != len(records)
}
