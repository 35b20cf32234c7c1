package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/crmlite/crm/internal/core/domain"
	"github.com/crmlite/crm/internal/core/ports"
)

// ClientHandler handles HTTP requests for client records.
type ClientHandler struct {
	clients ports.ClientRepository
	quotes  ports.QuoteRepository
}

func NewClientHandler(clients ports.ClientRepository, quotes ports.QuoteRepository) *ClientHandler {
	return &ClientHandler{clients: clients, quotes: quotes}
}

// List handles GET /v1/clients.
//
// @Summary      List clients
// @Tags         clients
// @Produce      json
// @Success      200  {array}   domain.Client
// @Router       /v1/clients [get]
func (h *ClientHandler) List(c echo.Context) error {
	return c.JSON(http.StatusOK, h.clients.List(c.Request().Context()))
}

// Create handles POST /v1/clients.
//
// @Summary      Create a client
// @Tags         clients
// @Accept       json
// @Produce      json
// @Param        body  body      clientRequest  true  "Client details"
// @Success      201   {object}  domain.Client
// @Failure      400   {object}  map[string]string
// @Router       /v1/clients [post]
func (h *ClientHandler) Create(c echo.Context) error {
	var req clientRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	client, err := h.clients.Add(c.Request().Context(), domain.ClientFields{
		Name:          req.Name,
		Email:         req.Email,
		Phone:         req.Phone,
		Notes:         req.Notes,
		InternalNotes: req.InternalNotes,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, client)
}

// Get handles GET /v1/clients/:id.
//
// @Summary      Get a client
// @Tags         clients
// @Produce      json
// @Param        id   path      string  true  "Client id"
// @Success      200  {object}  domain.Client
// @Failure      404  {object}  map[string]string
// @Router       /v1/clients/{id} [get]
func (h *ClientHandler) Get(c echo.Context) error {
	client, ok := h.clients.GetByID(c.Request().Context(), c.Param("id"))
	if !ok {
		return fmt.Errorf("client %s: %w", c.Param("id"), domain.ErrClientNotFound)
	}
	return c.JSON(http.StatusOK, client)
}

// Update handles PUT /v1/clients/:id. The creation timestamp is kept.
//
// @Summary      Update a client
// @Tags         clients
// @Accept       json
// @Produce      json
// @Param        id    path      string         true  "Client id"
// @Param        body  body      clientRequest  true  "Client details"
// @Success      200   {object}  domain.Client
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /v1/clients/{id} [put]
func (h *ClientHandler) Update(c echo.Context) error {
	var req clientRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	ctx := c.Request().Context()
	current, ok := h.clients.GetByID(ctx, c.Param("id"))
	if !ok {
		return fmt.Errorf("client %s: %w", c.Param("id"), domain.ErrClientNotFound)
	}

	current.Name = req.Name
	current.Email = req.Email
	current.Phone = req.Phone
	current.Notes = req.Notes
	current.InternalNotes = req.InternalNotes

	updated, err := h.clients.Update(ctx, current)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}

// Delete handles DELETE /v1/clients/:id. Quotes referencing the client are
// left as they are.
//
// @Summary      Delete a client
// @Tags         clients
// @Param        id   path  string  true  "Client id"
// @Success      204
// @Router       /v1/clients/{id} [delete]
func (h *ClientHandler) Delete(c echo.Context) error {
	if err := h.clients.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Quotes handles GET /v1/clients/:id/quotes.
//
// @Summary      List the quotes of a client
// @Tags         clients
// @Produce      json
// @Param        id   path     string  true  "Client id"
// @Success      200  {array}  domain.Quote
// @Router       /v1/clients/{id}/quotes [get]
func (h *ClientHandler) Quotes(c echo.Context) error {
	return c.JSON(http.StatusOK, h.quotes.GetByClientID(c.Request().Context(), c.Param("id")))
}
