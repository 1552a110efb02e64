package roster

import (
	"net/http"
	"time"

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
	api.GET("/roster", h.ListPatients, role)
	api.POST("/roster", h.AddPatient, role)
	api.GET("/roster/export", h.ExportRoster, role)
}

func (h *Handler) ListPatients(c echo.Context) error {
	pg := pagination.FromContext(c)
	f := Filter{
		Search: c.QueryParam("search"),
		Status: c.QueryParam("status"),
	}
	patients, err := h.svc.List(c.Request().Context(), f)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	start, end := pg.Slice(len(patients))
	return c.JSON(http.StatusOK, pagination.NewResponse(patients[start:end], len(patients), pg.Limit, pg.Offset))
}

type addPatientRequest struct {
	MedKeyID string `json:"medKeyId"`
}

func (h *Handler) AddPatient(c echo.Context) error {
	var req addPatientRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	p, err := h.svc.AddPatient(c.Request().Context(), req.MedKeyID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *Handler) ExportRoster(c echo.Context) error {
	patients, err := h.svc.List(c.Request().Context(), Filter{
		Search: c.QueryParam("search"),
		Status: c.QueryParam("status"),
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	data, err := ExportXLSX(patients)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	filename := "roster-" + time.Now().Format("2006-01-02") + ".xlsx"
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Blob(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
