package onboarding

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/medkey/medkey/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	role := auth.RequireRole("patient")
	api.GET("/onboarding/patient-id", h.GetPatientID, role)
	api.GET("/onboarding/patient-data", h.GetPatientData, role)
	api.DELETE("/onboarding/hospitals/:id", h.RemoveHospital, role)
}

// GetPatientID issues the MedKey ID on first call and returns the same value
// on every call after that.
func (h *Handler) GetPatientID(c echo.Context) error {
	id, err := h.svc.EnsureMedKeyID(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]string{"patientId": id})
}

func (h *Handler) GetPatientData(c echo.Context) error {
	data, ok, err := h.svc.PatientData(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "no patient data stored")
	}
	return c.JSON(http.StatusOK, data)
}

func (h *Handler) RemoveHospital(c echo.Context) error {
	data, err := h.svc.RemoveHospital(c.Request().Context(), c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, data)
}
