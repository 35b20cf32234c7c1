package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/crmlite/crm/internal/core/ports"
)

// ExportHandler serves stored documents.
type ExportHandler struct {
	artifacts ports.ArtifactStore
}

func NewExportHandler(artifacts ports.ArtifactStore) *ExportHandler {
	return &ExportHandler{artifacts: artifacts}
}

// Download handles GET /v1/exports/:name.
//
// @Summary      Download an exported document
// @Tags         exports
// @Produce      application/pdf
// @Param        name  path  string  true  "Artifact name (e.g. preventivo_a1b2c3d4.pdf)"
// @Success      200
// @Failure      404  {object}  map[string]string
// @Router       /v1/exports/{name} [get]
func (h *ExportHandler) Download(c echo.Context) error {
	info, body, err := h.artifacts.Get(c.Request().Context(), c.Param("name"))
	if err != nil {
		return err
	}
	defer body.Close()

	res := c.Response()
	res.Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+info.Name+`"`)
	if info.Size > 0 {
		res.Header().Set(echo.HeaderContentLength, strconv.FormatInt(info.Size, 10))
	}
	contentType := info.ContentType
	if contentType == "" {
		contentType = echo.MIMEOctetStream
	}
	return c.Stream(http.StatusOK, contentType, body)
}
