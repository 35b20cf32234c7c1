package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/crmlite/crm/internal/core/domain"
	"github.com/crmlite/crm/internal/core/ports"
)

// ProjectHandler handles HTTP requests for projects.
type ProjectHandler struct {
	projects ports.ProjectRepository
}

func NewProjectHandler(projects ports.ProjectRepository) *ProjectHandler {
	return &ProjectHandler{projects: projects}
}

// List handles GET /v1/projects.
//
// @Summary      List projects
// @Tags         projects
// @Produce      json
// @Success      200  {array}  domain.Project
// @Router       /v1/projects [get]
func (h *ProjectHandler) List(c echo.Context) error {
	return c.JSON(http.StatusOK, h.projects.List(c.Request().Context()))
}

// Create handles POST /v1/projects.
//
// @Summary      Create a project
// @Tags         projects
// @Accept       json
// @Produce      json
// @Param        body  body      projectRequest  true  "Project details"
// @Success      201   {object}  domain.Project
// @Failure      400   {object}  map[string]string
// @Router       /v1/projects [post]
func (h *ProjectHandler) Create(c echo.Context) error {
	var req projectRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	p, err := h.projects.Add(c.Request().Context(), domain.ProjectFields{
		Name:        req.Name,
		Status:      domain.ProjectStatus(req.Status),
		Budget:      req.Budget,
		Description: req.Description,
		ClientID:    req.ClientID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, p)
}

// Get handles GET /v1/projects/:id.
//
// @Summary      Get a project
// @Tags         projects
// @Produce      json
// @Param        id   path      string  true  "Project id"
// @Success      200  {object}  domain.Project
// @Failure      404  {object}  map[string]string
// @Router       /v1/projects/{id} [get]
func (h *ProjectHandler) Get(c echo.Context) error {
	p, ok := h.projects.GetByID(c.Request().Context(), c.Param("id"))
	if !ok {
		return fmt.Errorf("project %s: %w", c.Param("id"), domain.ErrProjectNotFound)
	}
	return c.JSON(http.StatusOK, p)
}

// Update handles PUT /v1/projects/:id.
//
// @Summary      Update a project
// @Tags         projects
// @Accept       json
// @Produce      json
// @Param        id    path      string          true  "Project id"
// @Param        body  body      projectRequest  true  "Project details"
// @Success      200   {object}  domain.Project
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /v1/projects/{id} [put]
func (h *ProjectHandler) Update(c echo.Context) error {
	var req projectRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	p, err := h.projects.Update(c.Request().Context(), domain.Project{
		ID:          c.Param("id"),
		Name:        req.Name,
		Status:      domain.ProjectStatus(req.Status),
		Budget:      req.Budget,
		Description: req.Description,
		ClientID:    req.ClientID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

// Delete handles DELETE /v1/projects/:id.
//
// @Summary      Delete a project
// @Tags         projects
// @Param        id   path  string  true  "Project id"
// @Success      204
// @Router       /v1/projects/{id} [delete]
func (h *ProjectHandler) Delete(c echo.Context) error {
	if err := h.projects.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
