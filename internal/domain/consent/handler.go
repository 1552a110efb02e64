package consent

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/medkey/medkey/internal/platform/auth"
	"github.com/medkey/medkey/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	role := auth.RequireRole("doctor")
	api.GET("/consents", h.ListDecisions, role)
	api.GET("/signatures", h.ListSignatures, role)
	api.POST("/signatures", h.RecordSignature, role)
}

func (h *Handler) ListDecisions(c echo.Context) error {
	pg := pagination.FromContext(c)
	decisions, err := h.svc.ListDecisions(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	start, end := pg.Slice(len(decisions))
	return c.JSON(http.StatusOK, pagination.NewResponse(decisions[start:end], len(decisions), pg.Limit, pg.Offset))
}

func (h *Handler) ListSignatures(c echo.Context) error {
	pg := pagination.FromContext(c)
	signatures, err := h.svc.ListSignatures(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	start, end := pg.Slice(len(signatures))
	return c.JSON(http.StatusOK, pagination.NewResponse(signatures[start:end], len(signatures), pg.Limit, pg.Offset))
}

type signatureRequest struct {
	MedKeyID  string `json:"medKeyId"`
	Signature string `json:"signature"`
}

// RecordSignature is the doctor-side consent path: the patient signs on the
// doctor's device while being added to the roster.
func (h *Handler) RecordSignature(c echo.Context) error {
	var req signatureRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	sig, err := h.svc.RecordSignature(c.Request().Context(), req.MedKeyID, req.Signature)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, sig)
}
