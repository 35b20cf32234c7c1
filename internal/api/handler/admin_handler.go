package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/crmlite/crm/internal/core/ports"
)

// AdminHandler exposes maintenance operations.
type AdminHandler struct {
	repair ports.RepairService
}

func NewAdminHandler(repair ports.RepairService) *AdminHandler {
	return &AdminHandler{repair: repair}
}

// Repair handles POST /v1/admin/repair.
//
// @Summary      Assign ids to records that lack one
// @Tags         admin
// @Produce      json
// @Success      200  {object}  ports.RepairReport
// @Router       /v1/admin/repair [post]
func (h *AdminHandler) Repair(c echo.Context) error {
	report, err := h.repair.Repair(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, report)
}
