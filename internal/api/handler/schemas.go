package handler

import (
	"time"

	"github.com/crmlite/crm/internal/core/domain"
	"github.com/crmlite/crm/internal/core/ports"
)

type clientRequest struct {
	Name          string `json:"name"          validate:"required"`
	Email         string `json:"email"         validate:"omitempty,email"`
	Phone         string `json:"phone"`
	Notes         string `json:"notes"`
	InternalNotes string `json:"internalNotes"`
}

type serviceRequest struct {
	Name        string  `json:"name"        validate:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price"       validate:"gt=0"`
}

type quoteItemRequest struct {
	ServiceID   string  `json:"serviceId"`
	Name        string  `json:"name"        validate:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price"       validate:"gt=0"`
	Quantity    *int    `json:"quantity"    validate:"omitempty,gt=0"`
}

type quoteRequest struct {
	ClientID string             `json:"clientId" validate:"required"`
	Items    []quoteItemRequest `json:"items"    validate:"required,min=1,dive"`
}

func (r quoteRequest) toInput() ports.QuoteInput {
	items := make([]ports.QuoteItemInput, len(r.Items))
	for i, it := range r.Items {
		items[i] = ports.QuoteItemInput{
			ServiceID:   it.ServiceID,
			Name:        it.Name,
			Description: it.Description,
			Price:       it.Price,
			Quantity:    quantityOrOne(it.Quantity),
		}
	}
	return ports.QuoteInput{ClientID: r.ClientID, Items: items}
}

// quantityOrOne defaults an omitted quantity to a single unit.
func quantityOrOne(q *int) int {
	if q == nil {
		return 1
	}
	return *q
}

type totalsRequest struct {
	Items []quoteItemRequest `json:"items" validate:"dive"`
}

type itemFromServiceRequest struct {
	ServiceID string `json:"serviceId" validate:"required"`
	Quantity  *int   `json:"quantity"  validate:"omitempty,gt=0"`
}

type projectRequest struct {
	Name        string  `json:"name"        validate:"required"`
	Status      string  `json:"status"      validate:"omitempty,oneof=planning in-progress completed"`
	Budget      float64 `json:"budget"      validate:"gte=0"`
	Description string  `json:"description"`
	ClientID    string  `json:"clientId"`
}

type intakeRequest struct {
	Name  string `json:"name"  validate:"required"`
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone" validate:"required"`
	Notes string `json:"notes"`
}

// quoteResponse is a stored quote plus its derived price breakdown.
type quoteResponse struct {
	domain.Quote
	Totals domain.Totals `json:"totals"`
}

type totalsResponse struct {
	domain.Totals
	TaxRate   float64 `json:"taxRate"`
	Formatted struct {
		Subtotal   string `json:"subtotal"`
		Tax        string `json:"tax"`
		GrandTotal string `json:"grandTotal"`
	} `json:"formatted"`
}

func newTotalsResponse(t domain.Totals, rate float64) totalsResponse {
	resp := totalsResponse{Totals: t, TaxRate: rate}
	resp.Formatted.Subtotal = domain.FormatAmount(t.Subtotal)
	resp.Formatted.Tax = domain.FormatAmount(t.Tax)
	resp.Formatted.GrandTotal = domain.FormatAmount(t.GrandTotal)
	return resp
}

type artifactResponse struct {
	Name        string    `json:"name"`
	ContentType string    `json:"contentType"`
	Size        int64     `json:"size"`
	CreatedAt   time.Time `json:"createdAt"`
	Links       struct {
		Download string `json:"download"`
	} `json:"_links"`
}

func newArtifactResponse(a ports.Artifact) artifactResponse {
	resp := artifactResponse{Name: a.Name, ContentType: a.ContentType, Size: a.Size, CreatedAt: a.CreatedAt}
	resp.Links.Download = "/v1/exports/" + a.Name
	return resp
}

type intakeResponse struct {
	Message  string `json:"message"`
	ClientID string `json:"clientId"`
}
