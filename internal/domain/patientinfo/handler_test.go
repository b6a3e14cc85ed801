package patientinfo

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func newTestHandler() (*Handler, *mockRepo, *echo.Echo) {
	svc, repo, _ := newTestService()
	return NewHandler(svc), repo, echo.New()
}

func strPtr(s string) *string { return &s }

func TestHandler_GetPatientInfo(t *testing.T) {
	h, repo, e := newTestHandler()
	repo.rows[1] = &PatientInfo{PersonID: 1, Demographics: Demographics{Gender: strPtr("F")}, GeneticMutations: []GeneticMutation{}}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("person_id")
	c.SetParamValues("1")

	if err := h.GetPatientInfo(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	var body map[string]interface{}
	json.Unmarshal(rec.Body.Bytes(), &body)
	if body["gender"] != "F" {
		t.Errorf("expected gender F, got %v", body["gender"])
	}
	if _, ok := body["patient_age"]; ok {
		t.Error("expected absent fields to be omitted")
	}
}

func TestHandler_GetPatientInfo_Errors(t *testing.T) {
	h, _, e := newTestHandler()

	tests := []struct {
		param string
		code  int
	}{
		{"abc", http.StatusBadRequest},
		{"-1", http.StatusBadRequest},
		{"42", http.StatusNotFound},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		c := e.NewContext(req, httptest.NewRecorder())
		c.SetParamNames("person_id")
		c.SetParamValues(tt.param)

		err := h.GetPatientInfo(c)
		he, ok := err.(*echo.HTTPError)
		if !ok || he.Code != tt.code {
			t.Errorf("person_id=%s: expected %d, got %v", tt.param, tt.code, err)
		}
	}
}

func TestHandler_ListPatientInfo(t *testing.T) {
	h, repo, e := newTestHandler()
	repo.rows[1] = &PatientInfo{PersonID: 1}
	repo.rows[2] = &PatientInfo{PersonID: 2}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/patient-info?gene=BRCA1&origin=germline&limit=1", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.ListPatientInfo(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if repo.lastFilter.Gene != "brca1" || repo.lastFilter.Origin != OriginGermline {
		t.Errorf("filter not passed through: %+v", repo.lastFilter)
	}
	var body map[string]interface{}
	json.Unmarshal(rec.Body.Bytes(), &body)
	if body["total"].(float64) != 2 {
		t.Errorf("expected total 2, got %v", body["total"])
	}
}

func TestHandler_ListPatientInfo_BadFilter(t *testing.T) {
	h, _, e := newTestHandler()

	for _, q := range []string{"?origin=maternal", "?interpretation=unknown", "?person_id=x"} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/patient-info"+q, nil)
		c := e.NewContext(req, httptest.NewRecorder())
		err := h.ListPatientInfo(c)
		he, ok := err.(*echo.HTTPError)
		if !ok || he.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %v", q, err)
		}
	}
}

func TestHandler_ListPatientInfo_StoreFailure(t *testing.T) {
	h, repo, e := newTestHandler()
	repo.listErr = errors.New("connection refused")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/patient-info?gene=tp53", nil)
	c := e.NewContext(req, httptest.NewRecorder())
	err := h.ListPatientInfo(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %v", err)
	}
}

func TestHandler_RefreshPatientInfo(t *testing.T) {
	h, _, e := newTestHandler()

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("person_id")
	c.SetParamValues("2")

	if err := h.RefreshPatientInfo(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var body struct {
		Outcome     string       `json:"outcome"`
		PatientInfo *PatientInfo `json:"patient_info"`
	}
	json.Unmarshal(rec.Body.Bytes(), &body)
	if body.Outcome != "created" || body.PatientInfo == nil || body.PatientInfo.PersonID != 2 {
		t.Errorf("unexpected refresh body %s", rec.Body.String())
	}

	c = e.NewContext(httptest.NewRequest(http.MethodPost, "/", nil), httptest.NewRecorder())
	c.SetParamNames("person_id")
	c.SetParamValues("99")
	err := h.RefreshPatientInfo(c)
	if he, ok := err.(*echo.HTTPError); !ok || he.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown person, got %v", err)
	}
}
