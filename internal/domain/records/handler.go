package records

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/medkey/medkey/internal/platform/auth"
	"github.com/medkey/medkey/internal/platform/docstore"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	role := auth.RequireRole("patient", "doctor")
	api.GET("/records", h.GetRecords, role)
}

// GetRecords returns the stored medical record set. 404 until a patient has
// completed onboarding and the set has been generated.
func (h *Handler) GetRecords(c echo.Context) error {
	rec, err := h.svc.Get(c.Request().Context())
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "medical records not generated")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, rec)
}
