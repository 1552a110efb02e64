package records

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

func newTestHandler(repo Repository) *Handler {
	return NewHandler(NewService(repo, 0, zerolog.Nop()))
}

func TestGetRecords_NotGenerated(t *testing.T) {
	h := newTestHandler(&mockRepo{})
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/records", nil)
	c := e.NewContext(req, httptest.NewRecorder())

	err := h.GetRecords(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %v", err)
	}
}

func TestGetRecords_ReturnsStoredSet(t *testing.T) {
	h := newTestHandler(&mockRepo{rec: Generate()})
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/records", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.GetRecords(c); err != nil {
		t.Fatalf("GetRecords: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var got MedicalRecord
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got.Diagnoses) != 3 {
		t.Errorf("diagnoses = %d, want 3", len(got.Diagnoses))
	}
}
