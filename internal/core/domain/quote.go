package domain

import (
	"slices"
	"time"
)

// UnknownClientName is the snapshot used when a quote references a client
// that cannot be resolved at creation time.
const UnknownClientName = "Sconosciuto"

// QuoteItem is a line of a Quote. Name, description and price are copied
// when the item is added and never follow later catalog edits.
type QuoteItem struct {
	ServiceID   string  `json:"serviceId"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
}

// EffectiveQuantity returns the quantity used for pricing. Items written
// before the quantity field existed decode with zero and count as one.
func (i QuoteItem) EffectiveQuantity() int {
	if i.Quantity <= 0 {
		return 1
	}
	return i.Quantity
}

// LineTotal is price times effective quantity, unrounded.
func (i QuoteItem) LineTotal() float64 {
	return i.Price * float64(i.EffectiveQuantity())
}

// Quote is a priced offer for a client.
type Quote struct {
	ID         string      `json:"id"`
	ClientID   string      `json:"clientId"`
	ClientName string      `json:"clientName"`
	Items      []QuoteItem `json:"items"`
	Total      float64     `json:"total"`
	Timestamp  time.Time   `json:"timestamp"`
	UpdatedAt  time.Time   `json:"updatedAt,omitzero"`
}

// QuoteFields carries the caller-supplied part of a Quote.
type QuoteFields struct {
	ClientID   string
	ClientName string
	Items      []QuoteItem
	Total      float64
}

// ApplyDefaults fills optional fields missing from older stored quotes.
func (q *Quote) ApplyDefaults() {
	if q.Items == nil {
		q.Items = []QuoteItem{}
	}
	for i := range q.Items {
		q.Items[i].Quantity = q.Items[i].EffectiveQuantity()
	}
}

// Clone returns a copy of q that shares no item storage with it.
func (q Quote) Clone() Quote {
	q.Items = slices.Clone(q.Items)
	if q.Items == nil {
		q.Items = []QuoteItem{}
	}
	return q
}
