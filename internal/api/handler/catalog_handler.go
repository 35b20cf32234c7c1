package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/crmlite/crm/internal/core/domain"
	"github.com/crmlite/crm/internal/core/ports"
)

// CatalogHandler exposes the service catalog.
type CatalogHandler struct {
	services ports.ServiceRepository
}

func NewCatalogHandler(services ports.ServiceRepository) *CatalogHandler {
	return &CatalogHandler{services: services}
}

// List handles GET /v1/services.
//
// @Summary      List catalog services
// @Tags         services
// @Produce      json
// @Success      200  {array}  domain.Service
// @Router       /v1/services [get]
func (h *CatalogHandler) List(c echo.Context) error {
	return c.JSON(http.StatusOK, h.services.List(c.Request().Context()))
}

// Create handles POST /v1/services.
//
// @Summary      Create a catalog service
// @Tags         services
// @Accept       json
// @Produce      json
// @Param        body  body      serviceRequest  true  "Service details"
// @Success      201   {object}  domain.Service
// @Failure      400   {object}  map[string]string
// @Router       /v1/services [post]
func (h *CatalogHandler) Create(c echo.Context) error {
	var req serviceRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	svc, err := h.services.Add(c.Request().Context(), domain.ServiceFields{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, svc)
}

// Get handles GET /v1/services/:id.
//
// @Summary      Get a catalog service
// @Tags         services
// @Produce      json
// @Param        id   path      string  true  "Service id"
// @Success      200  {object}  domain.Service
// @Failure      404  {object}  map[string]string
// @Router       /v1/services/{id} [get]
func (h *CatalogHandler) Get(c echo.Context) error {
	svc, ok := h.services.GetByID(c.Request().Context(), c.Param("id"))
	if !ok {
		return fmt.Errorf("service %s: %w", c.Param("id"), domain.ErrServiceNotFound)
	}
	return c.JSON(http.StatusOK, svc)
}

// Update handles PUT /v1/services/:id. Existing quotes keep their copies.
//
// @Summary      Update a catalog service
// @Tags         services
// @Accept       json
// @Produce      json
// @Param        id    path      string          true  "Service id"
// @Param        body  body      serviceRequest  true  "Service details"
// @Success      200   {object}  domain.Service
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /v1/services/{id} [put]
func (h *CatalogHandler) Update(c echo.Context) error {
	var req serviceRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	ctx := c.Request().Context()
	if _, ok := h.services.GetByID(ctx, c.Param("id")); !ok {
		return fmt.Errorf("service %s: %w", c.Param("id"), domain.ErrServiceNotFound)
	}
	svc, err := h.services.Update(ctx, domain.Service{
		ID:          c.Param("id"),
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, svc)
}

// Delete handles DELETE /v1/services/:id.
//
// @Summary      Delete a catalog service
// @Tags         services
// @Param        id   path  string  true  "Service id"
// @Success      204
// @Router       /v1/services/{id} [delete]
func (h *CatalogHandler) Delete(c echo.Context) error {
	if err := h.services.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
