package onboarding

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestGetPatientID_StableAcrossCalls(t *testing.T) {
	h := NewHandler(newTestService(&mockRepo{}))
	e := echo.New()

	get := func() string {
		req := httptest.NewRequest(http.MethodGet, "/onboarding/patient-id", nil)
		rec := httptest.NewRecorder()
		if err := h.GetPatientID(e.NewContext(req, rec)); err != nil {
			t.Fatalf("GetPatientID: %v", err)
		}
		var body map[string]string
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		return body["patientId"]
	}

	if first, second := get(), get(); first != second {
		t.Errorf("ids differ across calls: %q vs %q", first, second)
	}
}

func TestGetPatientData_NotFound(t *testing.T) {
	h := NewHandler(newTestService(&mockRepo{}))
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/onboarding/patient-data", nil)
	c := e.NewContext(req, httptest.NewRecorder())

	err := h.GetPatientData(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %v", err)
	}
}

func TestRemoveHospitalHandler_LastLink(t *testing.T) {
	repo := &mockRepo{data: &PatientData{Hospitals: []HospitalLink{{ID: "1", Name: "A"}}}}
	h := NewHandler(newTestService(repo))
	e := echo.New()
	req := httptest.NewRequest(http.MethodDelete, "/onboarding/hospitals/1", nil)
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues("1")

	err := h.RemoveHospital(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %v", err)
	}
}
