package doctor

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/misterunderhilll/clinic-scheduler/internal/platform/auth"
)

func newTestHandler(t *testing.T) (*Handler, *mockRepo) {
	t.Helper()
	repo := newMockRepo()
	booked := newMockBookedLister()
	tokens := auth.NewTokenService([]byte("test-secret"), time.Hour)
	cache, err := NewAvailabilityCache(16)
	if err != nil {
		t.Fatalf("new cache: %v", err)
	}
	svc := NewService(repo, booked, &mockPurger{}, tokens, cache)
	return NewHandler(svc), repo
}

func getWithParams(names, values []string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames(names...)
	c.SetParamValues(values...)
	return c, rec
}

func TestListHandler_PaginatesResults(t *testing.T) {
	h, repo := newTestHandler(t)
	seedDoctor(t, repo, "Gregory House", "house@clinic.test", "Diagnostics", []string{"09:00"})
	seedDoctor(t, repo, "James Wilson", "wilson@clinic.test", "Oncology", []string{"14:00"})
	seedDoctor(t, repo, "Lisa Cuddy", "cuddy@clinic.test", "Endocrinology", []string{"10:00"})

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/doctor?limit=2&offset=0", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.List(c); err != nil {
		t.Fatalf("List: %v", err)
	}
	var body struct {
		Data    []*Doctor `json:"data"`
		Total   int       `json:"total"`
		HasMore bool      `json:"has_more"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(body.Data) != 2 || body.Total != 3 || !body.HasMore {
		t.Errorf("page = %d items, total %d, has_more %v; want 2, 3, true",
			len(body.Data), body.Total, body.HasMore)
	}
}

func TestFilterHandler_NoneMeansAbsent(t *testing.T) {
	h, repo := newTestHandler(t)
	seedDoctor(t, repo, "Gregory House", "house@clinic.test", "Diagnostics", []string{"09:00"})
	seedDoctor(t, repo, "James Wilson", "wilson@clinic.test", "Oncology", []string{"14:00"})

	c, rec := getWithParams(
		[]string{"name", "time", "speciality"},
		[]string{"none", "none", "none"})
	if err := h.Filter(c); err != nil {
		t.Fatalf("Filter: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body struct {
		Doctors []*Doctor `json:"doctors"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(body.Doctors) != 2 {
		t.Errorf("expected all doctors with no criteria, got %d", len(body.Doctors))
	}
}

func TestFilterHandler_InvalidPeriod(t *testing.T) {
	h, _ := newTestHandler(t)

	c, _ := getWithParams(
		[]string{"name", "time", "speciality"},
		[]string{"none", "evening", "none"})
	err := h.Filter(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for bad period, got %v", err)
	}
}

func TestAvailabilityHandler_BadInputs(t *testing.T) {
	h, _ := newTestHandler(t)

	c, _ := getWithParams(
		[]string{"doctorId", "date"},
		[]string{"not-a-uuid", "2026-09-01"})
	if err, ok := h.Availability(c).(*echo.HTTPError); !ok || err.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for bad doctor id, got %v", err)
	}

	c, _ = getWithParams(
		[]string{"doctorId", "date"},
		[]string{"1e8f2c6a-0b57-4df1-9af0-1f1f6d6a2b01", "September 1st"})
	if err, ok := h.Availability(c).(*echo.HTTPError); !ok || err.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for bad date, got %v", err)
	}
}

func TestRegisterHandler_Conflict(t *testing.T) {
	h, repo := newTestHandler(t)
	seedDoctor(t, repo, "House", "house@clinic.test", "diagnostics", nil)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/doctor/register/t",
		strings.NewReader(`{"name":"Impostor","email":"house@clinic.test","password":"x"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.Register(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusConflict {
		t.Errorf("expected 409 for duplicate email, got %v", err)
	}
}
