package session

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/medkey/medkey/internal/domain/onboarding"
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
	api.POST("/sessions", h.CreateSession, role)
	api.GET("/sessions/:id", h.GetSession, role)
	api.POST("/sessions/:id/role", h.SelectRole, role)
	api.POST("/sessions/:id/personal-info", h.SubmitPersonalInfo, role)
	api.POST("/sessions/:id/hospital-info", h.SubmitHospitalInfo, role)
	api.POST("/sessions/:id/patients/select", h.SelectPatient, role)
	api.POST("/sessions/:id/patients/request", h.RequestNewPatient, role)
	api.POST("/sessions/:id/consent", h.Consent, role)
	api.POST("/sessions/:id/navigate", h.Navigate, role)
}

func respond(c echo.Context, sess *Session, err error) error {
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "session not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, sess)
}

func (h *Handler) CreateSession(c echo.Context) error {
	sess, err := h.svc.Create(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, sess)
}

func (h *Handler) GetSession(c echo.Context) error {
	sess, err := h.svc.Get(c.Request().Context(), c.Param("id"))
	return respond(c, sess, err)
}

type roleRequest struct {
	Role string `json:"role"`
}

func (h *Handler) SelectRole(c echo.Context) error {
	var req roleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	sess, err := h.svc.SelectRole(c.Request().Context(), c.Param("id"), Role(req.Role))
	return respond(c, sess, err)
}

func (h *Handler) SubmitPersonalInfo(c echo.Context) error {
	var info onboarding.PersonalInfo
	if err := c.Bind(&info); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	sess, err := h.svc.SubmitPersonalInfo(c.Request().Context(), c.Param("id"), &info)
	return respond(c, sess, err)
}

func (h *Handler) SubmitHospitalInfo(c echo.Context) error {
	var data onboarding.PatientData
	if err := c.Bind(&data); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	sess, err := h.svc.SubmitHospitalInfo(c.Request().Context(), c.Param("id"), &data)
	return respond(c, sess, err)
}

type selectPatientRequest struct {
	PatientID string `json:"patientId"`
	MedKeyID  string `json:"medKeyId"`
}

func (h *Handler) SelectPatient(c echo.Context) error {
	var req selectPatientRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	sess, err := h.svc.SelectDoctorPatient(c.Request().Context(), c.Param("id"), req.PatientID, req.MedKeyID)
	return respond(c, sess, err)
}

type requestPatientRequest struct {
	MedKeyID string `json:"medKeyId"`
}

func (h *Handler) RequestNewPatient(c echo.Context) error {
	var req requestPatientRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	sess, err := h.svc.RequestNewPatient(c.Request().Context(), c.Param("id"), req.MedKeyID)
	return respond(c, sess, err)
}

type consentRequest struct {
	Granted bool `json:"granted"`
}

func (h *Handler) Consent(c echo.Context) error {
	var req consentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	var (
		sess *Session
		err  error
	)
	if req.Granted {
		sess, err = h.svc.GrantConsent(c.Request().Context(), c.Param("id"))
	} else {
		sess, err = h.svc.DeclineConsent(c.Request().Context(), c.Param("id"))
	}
	return respond(c, sess, err)
}

type navigateRequest struct {
	Screen string `json:"screen"`
}

func (h *Handler) Navigate(c echo.Context) error {
	var req navigateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	sess, err := h.svc.Navigate(c.Request().Context(), c.Param("id"), Screen(req.Screen))
	return respond(c, sess, err)
}
