package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/crmlite/crm/internal/core/ports"
)

// IntakeHandler handles the public contact form.
type IntakeHandler struct {
	service ports.IntakeService
}

func NewIntakeHandler(service ports.IntakeService) *IntakeHandler {
	return &IntakeHandler{service: service}
}

// Submit handles POST /public/intake.
//
// @Summary      Submit the public contact form
// @Tags         public
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header    string         false  "Idempotency key to prevent duplicate submissions"
// @Param        body             body      intakeRequest  true   "Contact details"
// @Success      201              {object}  intakeResponse
// @Success      200              {object}  intakeResponse  "Replayed submission"
// @Failure      400              {object}  map[string]string
// @Router       /public/intake [post]
func (h *IntakeHandler) Submit(c echo.Context) error {
	var req intakeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.service.Submit(c.Request().Context(), ports.IntakeInput{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
		Notes: req.Notes,
	}, c.Request().Header.Get("Idempotency-Key"))
	if err != nil {
		return err
	}

	status := http.StatusCreated
	if res.Replayed {
		status = http.StatusOK
	}
	return c.JSON(status, intakeResponse{
		Message:  "Richiesta inviata con successo",
		ClientID: res.Client.ID,
	})
}
