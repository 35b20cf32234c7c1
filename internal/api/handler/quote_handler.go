package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/crmlite/crm/internal/core/domain"
	"github.com/crmlite/crm/internal/core/ports"
)

// QuoteHandler handles HTTP requests for quotes.
type QuoteHandler struct {
	quotes  ports.QuoteRepository
	service ports.QuoteService
	export  ports.ExportService
}

func NewQuoteHandler(quotes ports.QuoteRepository, service ports.QuoteService, export ports.ExportService) *QuoteHandler {
	return &QuoteHandler{quotes: quotes, service: service, export: export}
}

func (h *QuoteHandler) respond(q domain.Quote) quoteResponse {
	return quoteResponse{Quote: q, Totals: h.service.Totals(q.Items)}
}

// List handles GET /v1/quotes.
//
// @Summary      List quotes
// @Tags         quotes
// @Produce      json
// @Success      200  {array}  quoteResponse
// @Router       /v1/quotes [get]
func (h *QuoteHandler) List(c echo.Context) error {
	quotes := h.quotes.List(c.Request().Context())
	resp := make([]quoteResponse, len(quotes))
	for i, q := range quotes {
		resp[i] = h.respond(q)
	}
	return c.JSON(http.StatusOK, resp)
}

// Create handles POST /v1/quotes.
//
// @Summary      Create a quote
// @Tags         quotes
// @Accept       json
// @Produce      json
// @Param        body  body      quoteRequest  true  "Client selection and items"
// @Success      201   {object}  quoteResponse
// @Failure      400   {object}  map[string]string
// @Router       /v1/quotes [post]
func (h *QuoteHandler) Create(c echo.Context) error {
	var req quoteRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	q, err := h.service.Create(c.Request().Context(), req.toInput())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, h.respond(q))
}

// Get handles GET /v1/quotes/:id.
//
// @Summary      Get a quote
// @Tags         quotes
// @Produce      json
// @Param        id   path      string  true  "Quote id"
// @Success      200  {object}  quoteResponse
// @Failure      404  {object}  map[string]string
// @Router       /v1/quotes/{id} [get]
func (h *QuoteHandler) Get(c echo.Context) error {
	q, ok := h.quotes.GetByID(c.Request().Context(), c.Param("id"))
	if !ok {
		return fmt.Errorf("quote %s: %w", c.Param("id"), domain.ErrQuoteNotFound)
	}
	return c.JSON(http.StatusOK, h.respond(q))
}

// Update handles PUT /v1/quotes/:id.
//
// @Summary      Update a quote
// @Tags         quotes
// @Accept       json
// @Produce      json
// @Param        id    path      string        true  "Quote id"
// @Param        body  body      quoteRequest  true  "Client selection and items"
// @Success      200   {object}  quoteResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /v1/quotes/{id} [put]
func (h *QuoteHandler) Update(c echo.Context) error {
	var req quoteRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	q, err := h.service.Update(c.Request().Context(), c.Param("id"), req.toInput())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.respond(q))
}

// Delete handles DELETE /v1/quotes/:id.
//
// @Summary      Delete a quote
// @Tags         quotes
// @Param        id   path  string  true  "Quote id"
// @Success      204
// @Router       /v1/quotes/{id} [delete]
func (h *QuoteHandler) Delete(c echo.Context) error {
	if err := h.quotes.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Duplicate handles POST /v1/quotes/:id/duplicate.
//
// @Summary      Duplicate a quote
// @Tags         quotes
// @Produce      json
// @Param        id   path      string  true  "Source quote id"
// @Success      201  {object}  quoteResponse
// @Failure      404  {object}  map[string]string
// @Router       /v1/quotes/{id}/duplicate [post]
func (h *QuoteHandler) Duplicate(c echo.Context) error {
	q, err := h.service.Duplicate(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, h.respond(q))
}

// Totals handles POST /v1/quotes/totals: live pricing of an unsaved item list.
//
// @Summary      Price a list of items
// @Tags         quotes
// @Accept       json
// @Produce      json
// @Param        body  body      totalsRequest  true  "Items"
// @Success      200   {object}  totalsResponse
// @Failure      400   {object}  map[string]string
// @Router       /v1/quotes/totals [post]
func (h *QuoteHandler) Totals(c echo.Context) error {
	var req totalsRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	items := make([]domain.QuoteItem, len(req.Items))
	for i, it := range req.Items {
		items[i] = domain.QuoteItem{Price: it.Price, Quantity: quantityOrOne(it.Quantity)}
	}
	return c.JSON(http.StatusOK, newTotalsResponse(h.service.Totals(items), h.service.TaxRate()))
}

// ItemFromService handles POST /v1/quotes/items: a quote line copied from
// a catalog entry.
//
// @Summary      Build a quote item from a catalog service
// @Tags         quotes
// @Accept       json
// @Produce      json
// @Param        body  body      itemFromServiceRequest  true  "Service and quantity"
// @Success      200   {object}  domain.QuoteItem
// @Failure      404   {object}  map[string]string
// @Router       /v1/quotes/items [post]
func (h *QuoteHandler) ItemFromService(c echo.Context) error {
	var req itemFromServiceRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	item, err := h.service.ItemFromService(c.Request().Context(), req.ServiceID, quantityOrOne(req.Quantity))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, item)
}

// Export handles POST /v1/quotes/:id/export.
//
// @Summary      Export a quote as PDF
// @Tags         quotes
// @Produce      json
// @Param        id   path      string  true  "Quote id"
// @Success      201  {object}  artifactResponse
// @Failure      404  {object}  map[string]string
// @Failure      422  {object}  map[string]string
// @Router       /v1/quotes/{id}/export [post]
func (h *QuoteHandler) Export(c echo.Context) error {
	art, err := h.export.ExportQuote(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, newArtifactResponse(art))
}
